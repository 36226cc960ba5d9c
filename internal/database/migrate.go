package database

import (
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// Migrate applies the schema for every entity, join tables included. The
// composite unique indexes on the join tables are what make the toggle
// inserts race-free, so this must run before the server accepts requests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeTag{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
	)
}
