package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidRecipe is returned when a recipe cannot be (de)serialized as a list of ingredients
var ErrInvalidRecipe = errors.New("recipe must be a list of ingredients")

// Ingredient is a single entry of a drink recipe
type Ingredient struct {
	Color string  `json:"color"`
	Name  string  `json:"name"`
	Parts float64 `json:"parts"`
}

// ShortIngredient is the public view of an ingredient (no name)
type ShortIngredient struct {
	Color string  `json:"color"`
	Parts float64 `json:"parts"`
}

// Drink represents a menu item. Recipe holds the serialized ingredient list as stored.
type Drink struct {
	ID     int64  `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Recipe string `json:"recipe" db:"recipe"`
}

// DrinkShort is the public projection of a drink
type DrinkShort struct {
	ID     int64             `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

// DrinkLong is the detailed projection of a drink
type DrinkLong struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Recipe []Ingredient `json:"recipe"`
}

// TableName returns the table name for the Drink model
func (Drink) TableName() string {
	return "drinks"
}

// NewDrink creates a drink with its recipe serialized for storage
func NewDrink(title string, recipe []Ingredient) (*Drink, error) {
	encoded, err := EncodeRecipe(recipe)
	if err != nil {
		return nil, err
	}
	return &Drink{
		Title:  title,
		Recipe: encoded,
	}, nil
}

// Ingredients decodes the stored recipe
func (d *Drink) Ingredients() ([]Ingredient, error) {
	return DecodeRecipe([]byte(d.Recipe))
}

// SetIngredients replaces the stored recipe
func (d *Drink) SetIngredients(recipe []Ingredient) error {
	encoded, err := EncodeRecipe(recipe)
	if err != nil {
		return err
	}
	d.Recipe = encoded
	return nil
}

// Short returns the public projection: ingredient colors and parts only.
func (d *Drink) Short() (DrinkShort, error) {
	ingredients, err := d.Ingredients()
	if err != nil {
		return DrinkShort{}, err
	}

	short := make([]ShortIngredient, len(ingredients))
	for i, ing := range ingredients {
		short[i] = ShortIngredient{Color: ing.Color, Parts: ing.Parts}
	}

	return DrinkShort{
		ID:     d.ID,
		Title:  d.Title,
		Recipe: short,
	}, nil
}

// Long returns the detailed projection with full ingredient records.
func (d *Drink) Long() (DrinkLong, error) {
	ingredients, err := d.Ingredients()
	if err != nil {
		return DrinkLong{}, err
	}

	return DrinkLong{
		ID:     d.ID,
		Title:  d.Title,
		Recipe: ingredients,
	}, nil
}

// EncodeRecipe serializes an ingredient list into its stored text form.
// A nil list is stored as an empty list.
func EncodeRecipe(recipe []Ingredient) (string, error) {
	if recipe == nil {
		recipe = []Ingredient{}
	}
	b, err := json.Marshal(recipe)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
	}
	return string(b), nil
}

// DecodeRecipe parses a recipe from JSON. The document must be an array of
// ingredient objects; anything else is rejected with ErrInvalidRecipe.
func DecodeRecipe(data []byte) ([]Ingredient, error) {
	var recipe []Ingredient
	if err := json.Unmarshal(data, &recipe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
	}
	if recipe == nil {
		return nil, fmt.Errorf("%w: got null", ErrInvalidRecipe)
	}
	return recipe, nil
}
