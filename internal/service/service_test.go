package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
		Role:         models.RoleUser,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedAdmin(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := seedUser(t, db, username)
	require.NoError(t, db.Model(user).Update("role", models.RoleAdmin).Error)
	user.Role = models.RoleAdmin
	return user
}

func seedTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()
	tag := models.Tag{Name: slug, Color: "#49B64E", Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return &tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return &ingredient
}

// recipeRequest builds a valid creation payload over the given references.
func recipeRequest(name string, tags []uuid.UUID, ingredients []types.RecipeIngredientInput) types.CreateRecipeRequest {
	return types.CreateRecipeRequest{
		Name:        name,
		Text:        fmt.Sprintf("How to cook %s", name),
		CookingTime: 30,
		Image:       "https://images.example.com/" + name + ".png",
		Tags:        tags,
		Ingredients: ingredients,
	}
}

func ctx() context.Context {
	return context.Background()
}
