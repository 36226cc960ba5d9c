package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/types"
)

func TestRegisterValidation(t *testing.T) {
	app := setupAPI(t)

	w := app.request(t, http.MethodPost, "/api/auth/register", "", types.RegisterRequest{
		Email:    "not-an-email",
		Username: "alice",
		Password: "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginFlow(t *testing.T) {
	app := setupAPI(t)
	app.register(t, "alice")

	w := app.request(t, http.MethodPost, "/api/auth/login", "", types.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cure-password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodPost, "/api/auth/login", "", types.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe(t *testing.T) {
	app := setupAPI(t)
	token := app.register(t, "alice")

	w := app.request(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me types.UserResponse
	decode(t, w, &me)
	assert.Equal(t, "alice", me.Username)

	w = app.request(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubscriptionEndpoints(t *testing.T) {
	app := setupAPI(t)
	aliceToken := app.register(t, "alice")
	app.register(t, "bob")

	var bobID uuid.UUID
	{
		var page types.PagedResponse
		w := app.request(t, http.MethodGet, "/api/users", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &page)
		require.EqualValues(t, 2, page.Count)

		users, ok := page.Results.([]interface{})
		require.True(t, ok)
		for _, raw := range users {
			user := raw.(map[string]interface{})
			if user["username"] == "bob" {
				id, err := uuid.Parse(user["id"].(string))
				require.NoError(t, err)
				bobID = id
			}
		}
		require.NotEqual(t, uuid.Nil, bobID)
	}

	subURL := "/api/users/" + bobID.String() + "/subscribe"

	w := app.request(t, http.MethodPost, subURL, aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sub types.UserWithRecipesResponse
	decode(t, w, &sub)
	assert.Equal(t, "bob", sub.Username)
	assert.True(t, sub.IsSubscribed)

	// Double subscribe is the 400 no-op contract.
	w = app.request(t, http.MethodPost, subURL, aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.request(t, http.MethodGet, "/api/users/subscriptions", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page types.PagedResponse
	decode(t, w, &page)
	assert.EqualValues(t, 1, page.Count)

	w = app.request(t, http.MethodDelete, subURL, aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = app.request(t, http.MethodDelete, subURL, aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown target surfaces as 404.
	w = app.request(t, http.MethodPost, "/api/users/"+uuid.NewString()+"/subscribe", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUserNotFound(t *testing.T) {
	app := setupAPI(t)

	w := app.request(t, http.MethodGet, "/api/users/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.request(t, http.MethodGet, "/api/users/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTagAndIngredientEndpoints(t *testing.T) {
	app := setupAPI(t)
	tag := app.seedTag(t, "dinner")
	app.seedIngredient(t, "flour", "g")
	app.seedIngredient(t, "flax seed", "g")

	w := app.request(t, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []types.TagResponse
	decode(t, w, &tags)
	require.Len(t, tags, 1)
	assert.Equal(t, "dinner", tags[0].Slug)

	w = app.request(t, http.MethodGet, "/api/tags/"+tag.ID.String(), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodGet, "/api/tags/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Prefix search on ingredient names.
	var ingredients []types.IngredientResponse
	w = app.request(t, http.MethodGet, "/api/ingredients?name=fla", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &ingredients)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "flax seed", ingredients[0].Name)

	w = app.request(t, http.MethodGet, "/api/ingredients", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &ingredients)
	assert.Len(t, ingredients, 2)
}
