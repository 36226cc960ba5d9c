package types

import "github.com/google/uuid"

// UserResponse is the wire representation of a user. IsSubscribed is
// relative to the requesting user.
type UserResponse struct {
	Email        string    `json:"email"`
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// UserWithRecipesResponse extends UserResponse with the user's recipes,
// as returned by the subscribe action and the subscriptions listing.
type UserWithRecipesResponse struct {
	UserResponse
	Recipes      []RecipePreview `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// PagedResponse is the envelope for paginated listings.
type PagedResponse struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}
