package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is a reference entity attached to recipes via recipe_tags.
type Tag struct {
	ID    uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name  string    `gorm:"size:200;not null" json:"name"`
	Color string    `gorm:"size:7" json:"color"`
	Slug  string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Ingredient is a reference entity; quantities live on recipe_ingredients.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name            string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Recipe struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	CookingTime int            `gorm:"not null;check:cooking_time >= 1" json:"cooking_time"`
	ImageURL    string         `gorm:"size:255" json:"image"`
	AuthorID    uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"author_id"`

	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeTag is the recipe/tag join row. Create and update fully replace the
// set of rows for a recipe rather than diffing it.
type RecipeTag struct {
	ID       uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	RecipeID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_tag" json:"recipe_id"`
	TagID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_tag" json:"tag_id"`

	Tag *Tag `gorm:"foreignKey:TagID" json:"-"`
}

func (rt *RecipeTag) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	return nil
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// RecipeIngredient is the recipe/ingredient join row carrying the amount.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int       `gorm:"not null;check:amount >= 1" json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
