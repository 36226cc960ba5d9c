package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/types"
)

// IAuthService is the authentication surface handlers depend on.
type IAuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (string, *types.UserResponse, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRecipeService covers recipe composition, listing and the per-recipe
// toggle actions.
type IRecipeService interface {
	Create(ctx context.Context, authorID uuid.UUID, req types.CreateRecipeRequest) (*types.RecipeResponse, error)
	Update(ctx context.Context, actorID, recipeID uuid.UUID, req types.UpdateRecipeRequest) (*types.RecipeResponse, error)
	Delete(ctx context.Context, actorID, recipeID uuid.UUID) error
	Get(ctx context.Context, viewerID *uuid.UUID, recipeID uuid.UUID) (*types.RecipeResponse, error)
	List(ctx context.Context, viewerID *uuid.UUID, filter RecipeFilter, offset, limit int) ([]types.RecipeResponse, int64, error)
	Favorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipePreview, error)
	Unfavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipePreview, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error
}

// IUserService covers user listing and the subscription relation.
type IUserService interface {
	Get(ctx context.Context, viewerID *uuid.UUID, userID uuid.UUID) (*types.UserResponse, error)
	List(ctx context.Context, viewerID *uuid.UUID, offset, limit int) ([]types.UserResponse, int64, error)
	Subscribe(ctx context.Context, userID, followingID uuid.UUID, recipesLimit int) (*types.UserWithRecipesResponse, error)
	Unsubscribe(ctx context.Context, userID, followingID uuid.UUID) error
	Subscriptions(ctx context.Context, userID uuid.UUID, offset, limit, recipesLimit int) ([]types.UserWithRecipesResponse, int64, error)
}

// IShoppingListService produces the aggregated shopping-list export.
type IShoppingListService interface {
	Export(ctx context.Context, userID uuid.UUID, format string) (*Export, error)
}
