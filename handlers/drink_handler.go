package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/upb/coffee-shop/middleware"
	"github.com/upb/coffee-shop/models"
	"github.com/upb/coffee-shop/services"
	"github.com/upb/coffee-shop/utils"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// CreateDrinkRequest represents a request to create a drink
type CreateDrinkRequest struct {
	Title  *string          `json:"title" validate:"required,notblank"`
	Recipe *json.RawMessage `json:"recipe" validate:"required"`
}

// DrinkService defines the drink operations the handler depends on
type DrinkService interface {
	ListShort(ctx context.Context) ([]models.DrinkShort, error)
	ListLong(ctx context.Context) ([]models.DrinkLong, error)
	Create(ctx context.Context, title string, recipe []models.Ingredient) (models.DrinkLong, error)
	Update(ctx context.Context, id int64, patch services.DrinkPatch) (models.DrinkLong, error)
	Delete(ctx context.Context, id int64) error
}

// DrinkHandler handles drink-related HTTP requests
type DrinkHandler struct {
	service DrinkService
	logger  *zap.Logger
}

// NewDrinkHandler creates a new DrinkHandler
func NewDrinkHandler(service DrinkService, logger *zap.Logger) *DrinkHandler {
	return &DrinkHandler{
		service: service,
		logger:  logger,
	}
}

// HandleListDrinks handles GET /drinks
func (h *DrinkHandler) HandleListDrinks(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.service.ListShort(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeDrinks(w, drinks)
}

// HandleListDrinksDetail handles GET /drinks-detail
func (h *DrinkHandler) HandleListDrinksDetail(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.service.ListLong(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeDrinks(w, drinks)
}

// HandleCreateDrink handles POST /drinks
func (h *DrinkHandler) HandleCreateDrink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	body, err := readBody(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	var req CreateDrinkRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.logger.Warn("malformed create drink body", zap.String("request_id", requestID), zap.Error(err))
			HandleServiceError(w, services.ErrMalformedBody, h.logger)
			return
		}
	}

	if err := utils.ValidateStruct(&req); err != nil {
		h.logger.Warn("invalid create drink request", zap.String("request_id", requestID), zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	recipe, err := models.DecodeRecipe(*req.Recipe)
	if err != nil {
		h.logger.Warn("invalid recipe", zap.String("request_id", requestID), zap.Error(err))
		HandleServiceError(w, services.FromRepositoryError(err), h.logger)
		return
	}

	drink, err := h.service.Create(ctx, *req.Title, recipe)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeDrinks(w, []models.DrinkLong{drink})
}

// HandleUpdateDrink handles PATCH /drinks/{id}. The body is decoded by the
// service after the drink is found, so an unknown id is always a 404.
func (h *DrinkHandler) HandleUpdateDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := h.drinkID(w, r)
	if !ok {
		return
	}

	body, err := readBody(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	drink, err := h.service.Update(r.Context(), id, services.DrinkPatch{Body: body})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeDrinks(w, []models.DrinkLong{drink})
}

// HandleDeleteDrink handles DELETE /drinks/{id}
func (h *DrinkHandler) HandleDeleteDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := h.drinkID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteSuccess(w, "delete", id); err != nil {
		h.logger.Error("failed to write delete response", zap.Error(err))
	}
}

// drinkID parses the {id} path parameter. The router only admits digits, so a
// parse failure means the value overflows and cannot name a stored drink.
func (h *DrinkHandler) drinkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		HandleServiceError(w, services.ErrDrinkNotFound, h.logger)
		return 0, false
	}
	return id, true
}

func (h *DrinkHandler) writeDrinks(w http.ResponseWriter, drinks interface{}) {
	if err := utils.WriteSuccess(w, "drinks", drinks); err != nil {
		h.logger.Error("failed to write drinks response", zap.Error(err))
	}
}

// readBody returns the request body with surrounding whitespace removed
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeBadRequest, "failed to read request body", err)
	}
	return bytes.TrimSpace(data), nil
}
