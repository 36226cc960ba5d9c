package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testdb"
	"github.com/foodgram/backend/internal/types"
)

// Runs the write paths against real postgres, where the conditional
// inserts ride on actual unique indexes. Gated behind INTEGRATION_TEST=1.
func TestToggleSemanticsOnPostgres(t *testing.T) {
	tdb := testdb.Setup(t)
	t.Cleanup(func() { _ = tdb.Close() })
	db := tdb.DB

	svc := service.NewRecipeService(db, nil)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	tag := seedTag(t, db, "dinner")
	flour := seedIngredient(t, db, "flour", "g")

	created, err := svc.Create(ctx(), alice.ID, recipeRequest("pancakes",
		[]uuid.UUID{tag.ID},
		[]types.RecipeIngredientInput{{ID: flour.ID, Amount: 200}}))
	require.NoError(t, err)

	_, err = svc.Favorite(ctx(), bob.ID, created.ID)
	require.NoError(t, err)
	_, err = svc.Favorite(ctx(), bob.ID, created.ID)
	assert.ErrorIs(t, err, service.ErrActionImpossible)

	var rows int64
	require.NoError(t, db.Model(&models.Favorite{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	_, err = svc.Create(ctx(), alice.ID, recipeRequest("broken",
		[]uuid.UUID{tag.ID},
		[]types.RecipeIngredientInput{{ID: uuid.New(), Amount: 10}}))
	assert.ErrorIs(t, err, service.ErrNotFound)

	var recipes int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipes).Error)
	assert.EqualValues(t, 1, recipes)
}
