package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// testApp bundles a fully wired router over an in-memory database.
type testApp struct {
	router *gin.Engine
	db     *gorm.DB
}

func setupAPI(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	authService := service.NewAuthService(db, nil, "test-secret", time.Hour)
	userService := service.NewUserService(db)
	recipeService := service.NewRecipeService(db, nil)
	shoppingService := service.NewShoppingListService(db)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewUserHandler(userService, authService, 6, 100),
		api.NewRecipeHandler(recipeService, shoppingService, authService, nil, 6, 100),
		api.NewTagHandler(db),
		api.NewIngredientHandler(db),
	)

	return &testApp{router: engine, db: db}
}

// register creates an account through the API and returns its token.
func (a *testApp) register(t *testing.T, username string) string {
	t.Helper()
	w := a.request(t, http.MethodPost, "/api/auth/register", "", types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "s3cure-password",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (a *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) seedTag(t *testing.T, slug string) *models.Tag {
	t.Helper()
	tag := models.Tag{Name: slug, Color: "#49B64E", Slug: slug}
	require.NoError(t, a.db.Create(&tag).Error)
	return &tag
}

func (a *testApp) seedIngredient(t *testing.T, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, a.db.Create(&ingredient).Error)
	return &ingredient
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
