package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipeService   service.IRecipeService
	shoppingService service.IShoppingListService
	authService     service.IAuthService
	writeLimiter    *middleware.RateLimiter
	defaultLimit    int
	maxLimit        int
}

func NewRecipeHandler(
	recipeService service.IRecipeService,
	shoppingService service.IShoppingListService,
	authService service.IAuthService,
	writeLimiter *middleware.RateLimiter,
	defaultLimit, maxLimit int,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		shoppingService: shoppingService,
		authService:     authService,
		writeLimiter:    writeLimiter,
		defaultLimit:    defaultLimit,
		maxLimit:        maxLimit,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)
	write := []gin.HandlerFunc{auth}
	if h.writeLimiter != nil {
		write = append(write, h.writeLimiter.Middleware())
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListRecipes)
		recipes.GET("/download_shopping_cart", auth, h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetRecipe)
		recipes.POST("", append(write, h.CreateRecipe)...)
		recipes.PATCH("/:id", append(write, h.UpdateRecipe)...)
		recipes.PUT("/:id", append(write, h.UpdateRecipe)...)
		recipes.DELETE("/:id", append(write, h.DeleteRecipe)...)
		recipes.POST("/:id/favorite", auth, h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", auth, h.UnfavoriteRecipe)
		recipes.POST("/:id/shopping_cart", auth, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", auth, h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewerID := viewer(c)
	page := pageParams(c, h.defaultLimit, h.maxLimit)

	filter := service.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}
	if c.Query("is_favorited") == "1" && viewerID != nil {
		filter.FavoritedBy = viewerID
	}
	if c.Query("is_in_shopping_cart") == "1" && viewerID != nil {
		filter.InCartOf = viewerID
	}

	recipes, count, err := h.recipeService.List(c.Request.Context(), viewerID, filter, page.Offset(), page.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.PagedResponse{Count: count, Results: recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), viewer(c), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), userID, recipeID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.toggleOn(c, h.recipeService.Favorite)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.toggleOff(c, h.recipeService.Unfavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.toggleOn(c, h.recipeService.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.toggleOff(c, h.recipeService.RemoveFromCart)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	export, err := h.shoppingService.Export(c.Request.Context(), userID, c.DefaultQuery("format", service.FormatCSV))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Content)
}

func (h *RecipeHandler) toggleOn(c *gin.Context, toggle func(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipePreview, error)) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	preview, err := toggle(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, preview)
}

func (h *RecipeHandler) toggleOff(c *gin.Context, toggle func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := toggle(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
