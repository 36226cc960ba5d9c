package types

import "github.com/google/uuid"

// TagResponse is the wire representation of a tag.
type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

// IngredientResponse is the wire representation of a reference ingredient.
type IngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// RecipeIngredientResponse is an ingredient embedded in a recipe, with the
// amount taken from the join row.
type RecipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeResponse is the full recipe representation. The is_favorited and
// is_in_shopping_cart flags are relative to the requesting user and are
// always false for anonymous requests.
type RecipeResponse struct {
	ID                uuid.UUID                  `json:"id"`
	Tags              []TagResponse              `json:"tags"`
	Author            UserResponse               `json:"author"`
	Ingredients       []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited       bool                       `json:"is_favorited"`
	IsInShoppingCart  bool                       `json:"is_in_shopping_cart"`
	Name              string                     `json:"name"`
	Image             string                     `json:"image"`
	Text              string                     `json:"text"`
	CookingTime       int                        `json:"cooking_time"`
}

// RecipePreview is the compact recipe representation returned by toggle
// actions and embedded in subscription listings.
type RecipePreview struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// RecipeIngredientInput names an ingredient and its amount in a recipe
// create/update payload.
type RecipeIngredientInput struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required"`
}

// CreateRecipeRequest is the recipe creation payload. Image is either a
// base64 data URI or an already-hosted URL.
type CreateRecipeRequest struct {
	Name        string                  `json:"name" binding:"required"`
	Text        string                  `json:"text" binding:"required"`
	CookingTime int                     `json:"cooking_time" binding:"required"`
	Image       string                  `json:"image"`
	Tags        []uuid.UUID             `json:"tags" binding:"required"`
	Ingredients []RecipeIngredientInput `json:"ingredients" binding:"required"`
}

// UpdateRecipeRequest carries partial-update semantics for scalar fields:
// nil means "keep the stored value". Tag and ingredient sets are always
// replaced in full.
type UpdateRecipeRequest struct {
	Name        *string                 `json:"name"`
	Text        *string                 `json:"text"`
	CookingTime *int                    `json:"cooking_time"`
	Image       *string                 `json:"image"`
	Tags        []uuid.UUID             `json:"tags" binding:"required"`
	Ingredients []RecipeIngredientInput `json:"ingredients" binding:"required"`
}

// ShoppingListItem is one aggregated line of the exported shopping list.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}
