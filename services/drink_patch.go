package services

import (
	"bytes"
	"encoding/json"

	"github.com/upb/coffee-shop/models"
	"github.com/upb/coffee-shop/utils"
)

// DrinkPatch is the raw body of a partial update. It is decoded only once the
// target drink has been found, so an unknown id is reported before any body error.
type DrinkPatch struct {
	Body json.RawMessage
}

// drinkPatchFields are the updatable fields. Absent and null fields are left unchanged.
type drinkPatchFields struct {
	Title  *string          `json:"title" validate:"omitempty,notblank"`
	Recipe *json.RawMessage `json:"recipe"`
}

// IsEmpty reports whether the body is absent, null or an object without fields.
// A body that is not valid JSON is not empty; decoding reports it later.
func (p DrinkPatch) IsEmpty() bool {
	body := bytes.TrimSpace(p.Body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return false
	}
	return len(fields) == 0
}

// apply decodes the patch and copies its present fields onto drink
func (p DrinkPatch) apply(drink *models.Drink) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(p.Body, &raw); err != nil {
		return &DomainError{
			Type:    ErrMalformedBody.Type,
			Kind:    ErrMalformedBody.Kind,
			Message: ErrMalformedBody.Message,
			Err:     err,
		}
	}

	var fields drinkPatchFields
	if err := json.Unmarshal(p.Body, &fields); err != nil {
		return NewDomainError(ErrorTypeBadRequest, "title must be a string", err)
	}

	if err := utils.ValidateStruct(&fields); err != nil {
		domainErr := NewDomainError(ErrorTypeUnprocessable, "unprocessable", err)
		for field, msg := range utils.GetValidationFields(err) {
			domainErr.WithDetail(field, msg)
		}
		return domainErr
	}

	if fields.Title != nil {
		drink.Title = *fields.Title
	}
	if fields.Recipe != nil {
		recipe, err := models.DecodeRecipe(*fields.Recipe)
		if err != nil {
			return err
		}
		if err := drink.SetIngredients(recipe); err != nil {
			return err
		}
	}
	return nil
}
