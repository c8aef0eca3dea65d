package auth0

// ClaimSet is the verified payload of a token
type ClaimSet map[string]interface{}

// Subject returns the "sub" claim, or "" when absent
func (c ClaimSet) Subject() string {
	sub, _ := c["sub"].(string)
	return sub
}

// Permissions returns the "permissions" claim. The boolean is false when the
// claim is absent or is not an array; an empty array yields an empty, non-nil slice.
// Non-string entries are skipped.
func (c ClaimSet) Permissions() ([]string, bool) {
	raw, ok := c["permissions"]
	if !ok {
		return nil, false
	}

	switch v := raw.(type) {
	case []string:
		return v, true
	case []interface{}:
		perms := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				perms = append(perms, s)
			}
		}
		return perms, true
	default:
		return nil, false
	}
}

// HasPermission reports whether permission is granted by the claim set
func (c ClaimSet) HasPermission(permission string) bool {
	perms, _ := c.Permissions()
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}
