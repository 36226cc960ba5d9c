package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// RecipeFilter narrows the recipe listing. Nil pointer fields are ignored.
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    *uuid.UUID
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
}

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	UploadBase64(ctx context.Context, data string) (string, error)
}

// RecipeService owns recipe composition and the favorite/cart toggles.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// Create persists the recipe and both join sets in one transaction. The
// join rows are written with a single batched insert each.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req types.CreateRecipeRequest) (*types.RecipeResponse, error) {
	if err := validateComposition(req.CookingTime, req.Tags, req.Ingredients); err != nil {
		return nil, err
	}

	imageURL, err := s.resolveImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    imageURL,
		AuthorID:    authorID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return s.createJoinRows(tx, recipe.ID, req.Tags, req.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, &authorID, recipe.ID)
}

// Update applies partial scalar changes and fully replaces both join sets,
// all within one transaction. Only the author or an admin may update.
func (s *RecipeService) Update(ctx context.Context, actorID, recipeID uuid.UUID, req types.UpdateRecipeRequest) (*types.RecipeResponse, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, translateNotFound(err)
	}

	if err := s.checkWriteAccess(ctx, actorID, recipe.AuthorID); err != nil {
		return nil, err
	}

	cookingTime := recipe.CookingTime
	if req.CookingTime != nil {
		cookingTime = *req.CookingTime
	}
	if err := validateComposition(cookingTime, req.Tags, req.Ingredients); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"cooking_time": cookingTime}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Text != nil {
		updates["text"] = *req.Text
	}
	if req.Image != nil {
		imageURL, err := s.resolveImage(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		updates["image_url"] = imageURL
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return s.createJoinRows(tx, recipeID, req.Tags, req.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, &actorID, recipeID)
}

func (s *RecipeService) Delete(ctx context.Context, actorID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return translateNotFound(err)
	}
	if err := s.checkWriteAccess(ctx, actorID, recipe.AuthorID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", recipeID).Error
}

func (s *RecipeService) Get(ctx context.Context, viewerID *uuid.UUID, recipeID uuid.UUID) (*types.RecipeResponse, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, translateNotFound(err)
	}

	responses, err := s.buildResponses(ctx, viewerID, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

func (s *RecipeService) List(ctx context.Context, viewerID *uuid.UUID, filter RecipeFilter, offset, limit int) ([]types.RecipeResponse, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.FavoritedBy != nil {
		query = query.
			Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
			Where("favorites.user_id = ?", *filter.FavoritedBy)
	}
	if filter.InCartOf != nil {
		query = query.
			Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id").
			Where("shopping_carts.user_id = ?", *filter.InCartOf)
	}

	// A recipe carrying several matching tags joins to several rows, so both
	// the count and the page run over distinct recipe ids. Each statement
	// gets its own session instead of accumulating on one chained query.
	var count int64
	if err := query.Session(&gorm.Session{}).Distinct("recipes.id").Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := query.Session(&gorm.Session{}).
		Select("recipes.*").
		Group("recipes.id").
		Order("recipes.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	responses, err := s.buildResponses(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return responses, count, nil
}

// Favorite adds the (user, recipe) favorite row. The insert is a single
// conditional statement over the composite unique index, so concurrent
// duplicate requests cannot create two rows; the loser sees a no-op.
func (s *RecipeService) Favorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipePreview, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	row := models.Favorite{UserID: userID, RecipeID: recipeID}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrActionImpossible
	}
	return previewOf(recipe), nil
}

func (s *RecipeService) Unfavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.findRecipe(ctx, recipeID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrActionImpossible
	}
	return nil
}

func (s *RecipeService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipePreview, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	row := models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrActionImpossible
	}
	return previewOf(recipe), nil
}

func (s *RecipeService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.findRecipe(ctx, recipeID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCart{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrActionImpossible
	}
	return nil
}

// validateComposition runs every check that must pass before any write.
func validateComposition(cookingTime int, tags []uuid.UUID, ingredients []types.RecipeIngredientInput) error {
	if cookingTime < 1 {
		return validationErr("cooking_time", "must be at least 1")
	}
	if len(tags) == 0 {
		return validationErr("tags", "at least one tag is required")
	}
	if len(ingredients) == 0 {
		return validationErr("ingredients", "at least one ingredient is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(ingredients))
	for _, ing := range ingredients {
		if ing.Amount < 1 {
			return validationErr("amount", "must be at least 1")
		}
		if _, dup := seen[ing.ID]; dup {
			return validationErr("ingredients", "duplicate ingredient")
		}
		seen[ing.ID] = struct{}{}
	}
	return nil
}

// createJoinRows resolves every referenced tag and ingredient and writes
// both join sets, one batched insert per table.
func (s *RecipeService) createJoinRows(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID, ingredients []types.RecipeIngredientInput) error {
	var tagCount int64
	if err := tx.Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&tagCount).Error; err != nil {
		return err
	}
	if int(tagCount) != len(tagIDs) {
		return ErrNotFound
	}

	ingredientIDs := make([]uuid.UUID, len(ingredients))
	for i, ing := range ingredients {
		ingredientIDs[i] = ing.ID
	}
	var ingredientCount int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Count(&ingredientCount).Error; err != nil {
		return err
	}
	if int(ingredientCount) != len(ingredients) {
		return ErrNotFound
	}

	recipeTags := make([]models.RecipeTag, len(tagIDs))
	for i, tagID := range tagIDs {
		recipeTags[i] = models.RecipeTag{RecipeID: recipeID, TagID: tagID}
	}
	if err := tx.Create(&recipeTags).Error; err != nil {
		return err
	}

	recipeIngredients := make([]models.RecipeIngredient, len(ingredients))
	for i, ing := range ingredients {
		recipeIngredients[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ing.ID,
			Amount:       ing.Amount,
		}
	}
	return tx.Create(&recipeIngredients).Error
}

// buildResponses assembles full representations for a page of recipes with
// batched lookups instead of per-recipe queries.
func (s *RecipeService) buildResponses(ctx context.Context, viewerID *uuid.UUID, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	if len(recipes) == 0 {
		return []types.RecipeResponse{}, nil
	}

	recipeIDs := make([]uuid.UUID, len(recipes))
	authorIDs := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}

	var recipeTags []models.RecipeTag
	if err := s.db.WithContext(ctx).Preload("Tag").Where("recipe_id IN ?", recipeIDs).Find(&recipeTags).Error; err != nil {
		return nil, err
	}
	tagsByRecipe := make(map[uuid.UUID][]types.TagResponse)
	for _, rt := range recipeTags {
		if rt.Tag == nil {
			continue
		}
		tagsByRecipe[rt.RecipeID] = append(tagsByRecipe[rt.RecipeID], types.TagResponse{
			ID:    rt.Tag.ID,
			Name:  rt.Tag.Name,
			Color: rt.Tag.Color,
			Slug:  rt.Tag.Slug,
		})
	}

	var recipeIngredients []models.RecipeIngredient
	if err := s.db.WithContext(ctx).Preload("Ingredient").Where("recipe_id IN ?", recipeIDs).Find(&recipeIngredients).Error; err != nil {
		return nil, err
	}
	ingredientsByRecipe := make(map[uuid.UUID][]types.RecipeIngredientResponse)
	for _, ri := range recipeIngredients {
		if ri.Ingredient == nil {
			continue
		}
		ingredientsByRecipe[ri.RecipeID] = append(ingredientsByRecipe[ri.RecipeID], types.RecipeIngredientResponse{
			ID:              ri.Ingredient.ID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}

	var authors []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", authorIDs).Find(&authors).Error; err != nil {
		return nil, err
	}
	authorsByID := make(map[uuid.UUID]models.User, len(authors))
	for _, a := range authors {
		authorsByID[a.ID] = a
	}

	favorited := make(map[uuid.UUID]bool)
	inCart := make(map[uuid.UUID]bool)
	subscribed := make(map[uuid.UUID]bool)
	if viewerID != nil {
		var favs []models.Favorite
		if err := s.db.WithContext(ctx).Where("user_id = ? AND recipe_id IN ?", *viewerID, recipeIDs).Find(&favs).Error; err != nil {
			return nil, err
		}
		for _, f := range favs {
			favorited[f.RecipeID] = true
		}

		var carts []models.ShoppingCart
		if err := s.db.WithContext(ctx).Where("user_id = ? AND recipe_id IN ?", *viewerID, recipeIDs).Find(&carts).Error; err != nil {
			return nil, err
		}
		for _, c := range carts {
			inCart[c.RecipeID] = true
		}

		var subs []models.Subscription
		if err := s.db.WithContext(ctx).Where("user_id = ? AND following_id IN ?", *viewerID, authorIDs).Find(&subs).Error; err != nil {
			return nil, err
		}
		for _, sub := range subs {
			subscribed[sub.FollowingID] = true
		}
	}

	responses := make([]types.RecipeResponse, len(recipes))
	for i, r := range recipes {
		author := authorsByID[r.AuthorID]
		tags := tagsByRecipe[r.ID]
		if tags == nil {
			tags = []types.TagResponse{}
		}
		ingredients := ingredientsByRecipe[r.ID]
		if ingredients == nil {
			ingredients = []types.RecipeIngredientResponse{}
		}
		responses[i] = types.RecipeResponse{
			ID:   r.ID,
			Tags: tags,
			Author: types.UserResponse{
				Email:        author.Email,
				ID:           author.ID,
				Username:     author.Username,
				FirstName:    author.FirstName,
				LastName:     author.LastName,
				IsSubscribed: subscribed[author.ID],
			},
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.ImageURL,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
	}
	return responses, nil
}

func (s *RecipeService) findRecipe(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &recipe, nil
}

// checkWriteAccess allows the author and admins.
func (s *RecipeService) checkWriteAccess(ctx context.Context, actorID, authorID uuid.UUID) error {
	if actorID == authorID {
		return nil
	}
	var actor models.User
	if err := s.db.WithContext(ctx).First(&actor, "id = ?", actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPermissionDenied
		}
		return err
	}
	if !actor.IsAdmin() {
		return ErrPermissionDenied
	}
	return nil
}

// resolveImage uploads base64 data URIs to the image store; anything else
// is treated as an already-hosted URL and stored verbatim.
func (s *RecipeService) resolveImage(ctx context.Context, image string) (string, error) {
	if s.images == nil || !strings.HasPrefix(image, "data:image") {
		return image, nil
	}
	return s.images.UploadBase64(ctx, image)
}

func previewOf(recipe *models.Recipe) *types.RecipePreview {
	return &types.RecipePreview{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
