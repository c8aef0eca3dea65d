package auth0

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrJWKSFetchFailed is returned when the key set cannot be retrieved
	ErrJWKSFetchFailed = errors.New("failed to fetch JWKS")

	// ErrKeyNotFound is returned when no key in the set matches the token's kid
	ErrKeyNotFound = errors.New("unable to find the appropriate key")

	errMissingKid = errors.New("kid header not found")
)

// JWKS represents the JSON Web Key Set
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK represents a JSON Web Key
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Config holds configuration for Validator. Issuer is the expected "iss"
// claim and JWKSURL is where that issuer publishes its signing keys.
type Config struct {
	Issuer      string
	JWKSURL     string
	Audience    string
	CacheTTL    time.Duration
	MinRefresh  time.Duration
	HTTPTimeout time.Duration
}

// Validator verifies RS256 tokens issued by an Auth0 tenant against its published JWKS
type Validator struct {
	issuer     string
	audience   string
	jwksURL    string
	httpClient *http.Client
	parser     *jwt.Parser

	cacheTTL   time.Duration
	minRefresh time.Duration

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	keysExp   time.Time
	lastFetch time.Time

	// serializes JWKS downloads
	fetchMu sync.Mutex

	now func() time.Time
}

// NewValidator creates a token validator for the given tenant
func NewValidator(config Config) *Validator {
	if config.CacheTTL == 0 {
		config.CacheTTL = 1 * time.Hour
	}
	if config.MinRefresh == 0 {
		config.MinRefresh = 30 * time.Second
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = 10 * time.Second
	}

	return &Validator{
		issuer:   config.Issuer,
		audience: config.Audience,
		jwksURL:  config.JWKSURL,
		httpClient: &http.Client{
			Timeout: config.HTTPTimeout,
		},
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithAudience(config.Audience),
			jwt.WithIssuer(config.Issuer),
			jwt.WithExpirationRequired(),
		),
		cacheTTL:   config.CacheTTL,
		minRefresh: config.MinRefresh,
		now:        time.Now,
	}
}

// ValidateToken verifies the token signature and standard claims and returns its payload
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (ClaimSet, error) {
	claims := jwt.MapClaims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, errMissingKid
		}

		return v.getPublicKey(ctx, kid)
	})
	if err != nil {
		return nil, classifyError(err)
	}

	return ClaimSet(claims), nil
}

// classifyError maps parser failures onto AuthError kinds
func classifyError(err error) *AuthError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return NewAuthError(KindTokenExpired, "token expired", err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return NewAuthError(KindInvalidClaims, "incorrect claims, please check the audience and issuer", err)
	case errors.Is(err, errMissingKid):
		return NewAuthError(KindInvalidHeader, "authorization malformed", err)
	case errors.Is(err, ErrKeyNotFound):
		return NewAuthError(KindInvalidHeader, "unable to find the appropriate key", err)
	case errors.Is(err, ErrJWKSFetchFailed):
		return NewAuthError(KindInvalidHeader, "unable to retrieve signing keys", err)
	default:
		return NewAuthError(KindInvalidHeader, "unable to parse authentication token", err)
	}
}

// getPublicKey returns the cached key for kid. A stale cache is reloaded; an
// unknown kid forces a reload at most once per minRefresh interval.
func (v *Validator) getPublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	key, fresh, found := v.lookup(kid)
	if found && fresh {
		return key, nil
	}

	v.fetchMu.Lock()
	defer v.fetchMu.Unlock()

	// another request may have refreshed while we waited
	key, fresh, found = v.lookup(kid)
	if found && fresh {
		return key, nil
	}
	if fresh && !v.refreshAllowed() {
		return nil, fmt.Errorf("%w: kid %s", ErrKeyNotFound, kid)
	}

	if _, err := v.FetchJWKS(ctx); err != nil {
		return nil, err
	}

	key, _, found = v.lookup(kid)
	if !found {
		return nil, fmt.Errorf("%w: kid %s", ErrKeyNotFound, kid)
	}
	return key, nil
}

func (v *Validator) lookup(kid string) (key *rsa.PublicKey, fresh bool, found bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	fresh = v.keys != nil && v.now().Before(v.keysExp)
	key, found = v.keys[kid]
	return key, fresh, found
}

func (v *Validator) refreshAllowed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.now().Sub(v.lastFetch) >= v.minRefresh
}

// FetchJWKS downloads the key set and replaces the cached keys
func (v *Validator) FetchJWKS(ctx context.Context) (*JWKS, error) {
	v.mu.Lock()
	v.lastFetch = v.now()
	v.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJWKSFetchFailed, err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJWKSFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrJWKSFetchFailed, resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrJWKSFetchFailed, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for i := range jwks.Keys {
		jwk := &jwks.Keys[i]
		if jwk.Kty != "RSA" || jwk.Kid == "" {
			continue
		}
		publicKey, err := jwkToRSAPublicKey(jwk)
		if err != nil {
			continue
		}
		keys[jwk.Kid] = publicKey
	}

	v.mu.Lock()
	v.keys = keys
	v.keysExp = v.now().Add(v.cacheTTL)
	v.mu.Unlock()

	return &jwks, nil
}

// jwkToRSAPublicKey converts a JWK to an RSA public key
func jwkToRSAPublicKey(jwk *JWK) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	var e int
	for _, b := range eBytes {
		e = e*256 + int(b)
	}
	if e == 0 {
		return nil, errors.New("invalid exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
