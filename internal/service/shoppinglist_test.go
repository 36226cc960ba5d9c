package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

func TestAggregateIngredientsSumsByNameAndUnit(t *testing.T) {
	items := service.AggregateIngredients([]service.CartIngredient{
		{Name: "flour", MeasurementUnit: "g", Amount: 200},
		{Name: "milk", MeasurementUnit: "ml", Amount: 300},
		{Name: "flour", MeasurementUnit: "g", Amount: 300},
	})

	require.Len(t, items, 2)
	assert.Equal(t, types.ShoppingListItem{Name: "flour", MeasurementUnit: "g", Amount: 500}, items[0])
	assert.Equal(t, types.ShoppingListItem{Name: "milk", MeasurementUnit: "ml", Amount: 300}, items[1])
}

func TestAggregateIngredientsKeepsUnitsSeparate(t *testing.T) {
	items := service.AggregateIngredients([]service.CartIngredient{
		{Name: "sugar", MeasurementUnit: "g", Amount: 100},
		{Name: "sugar", MeasurementUnit: "tbsp", Amount: 2},
	})

	require.Len(t, items, 2)
	assert.Equal(t, "g", items[0].MeasurementUnit)
	assert.Equal(t, "tbsp", items[1].MeasurementUnit)
}

func TestAggregateIngredientsEmpty(t *testing.T) {
	assert.Empty(t, service.AggregateIngredients(nil))
}

func TestRenderCSV(t *testing.T) {
	content, err := service.RenderCSV([]types.ShoppingListItem{
		{Name: "flour", MeasurementUnit: "g", Amount: 500},
		{Name: "milk", MeasurementUnit: "ml", Amount: 300},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "· flour (g) - 500", lines[0])
	assert.Equal(t, "· milk (ml) - 300", lines[1])
}

func TestRenderPDF(t *testing.T) {
	content, err := service.RenderPDF([]types.ShoppingListItem{
		{Name: "flour", MeasurementUnit: "g", Amount: 500},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))
}

func TestExportAggregatesCart(t *testing.T) {
	db := newTestDB(t)
	recipes := service.NewRecipeService(db, nil)
	shopping := service.NewShoppingListService(db)

	alice := seedUser(t, db, "alice")
	tag := seedTag(t, db, "dinner")
	flour := seedIngredient(t, db, "flour", "g")
	milk := seedIngredient(t, db, "milk", "ml")

	pancakes, err := recipes.Create(ctx(), alice.ID, recipeRequest("pancakes",
		[]uuid.UUID{tag.ID},
		[]types.RecipeIngredientInput{{ID: flour.ID, Amount: 200}, {ID: milk.ID, Amount: 300}}))
	require.NoError(t, err)
	bread, err := recipes.Create(ctx(), alice.ID, recipeRequest("bread",
		[]uuid.UUID{tag.ID},
		[]types.RecipeIngredientInput{{ID: flour.ID, Amount: 300}}))
	require.NoError(t, err)

	_, err = recipes.AddToCart(ctx(), alice.ID, pancakes.ID)
	require.NoError(t, err)
	_, err = recipes.AddToCart(ctx(), alice.ID, bread.ID)
	require.NoError(t, err)

	export, err := shopping.Export(ctx(), alice.ID, service.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "shopping_list.csv", export.Filename)
	assert.Contains(t, string(export.Content), "· flour (g) - 500")
	assert.Contains(t, string(export.Content), "· milk (ml) - 300")

	// Exporting never mutates the cart.
	again, err := shopping.Export(ctx(), alice.ID, service.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, export.Content, again.Content)

	pdfExport, err := shopping.Export(ctx(), alice.ID, service.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdfExport.ContentType)
	assert.True(t, strings.HasPrefix(string(pdfExport.Content), "%PDF"))
}

func TestExportEmptyCart(t *testing.T) {
	db := newTestDB(t)
	shopping := service.NewShoppingListService(db)
	alice := seedUser(t, db, "alice")

	export, err := shopping.Export(ctx(), alice.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", export.ContentType)
	assert.Empty(t, export.Content)
}

func TestExportUnknownFormat(t *testing.T) {
	db := newTestDB(t)
	shopping := service.NewShoppingListService(db)
	alice := seedUser(t, db, "alice")

	_, err := shopping.Export(ctx(), alice.ID, "xlsx")
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "format", verr.Field)
}
