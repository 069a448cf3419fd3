package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhatch/internal/database"
	"storyhatch/internal/database/parental"
	"storyhatch/internal/entities"
)

func setupParentalTest(t *testing.T) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_parental_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	controller := NewParentalController(parental.NewRepository(db.DB))

	router := gin.New()
	router.GET("/api/parent-settings", controller.GetSettings)
	router.PUT("/api/parent-settings", controller.UpdateSettings)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, cleanup
}

func TestParentalController_GetSettings(t *testing.T) {
	t.Run("requires userId", func(t *testing.T) {
		router, cleanup := setupParentalTest(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/parent-settings", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns defaults for a new user", func(t *testing.T) {
		router, cleanup := setupParentalTest(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/parent-settings?userId=user_1", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var settings entities.ParentSettings
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
		assert.True(t, settings.ContentFilterEnabled)
		assert.Equal(t, 10, settings.MaxBooksPerDay)
		assert.True(t, settings.AllowSharing)
		assert.False(t, settings.RequireApproval)
	})
}

func TestParentalController_UpdateSettings(t *testing.T) {
	t.Run("merges the patch and keeps other fields", func(t *testing.T) {
		router, cleanup := setupParentalTest(t)
		defer cleanup()

		body := `{"userId":"user_1","maxBooksPerDay":3}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/parent-settings", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		body = `{"userId":"user_1","allowSharing":false}`
		w = httptest.NewRecorder()
		req, _ = http.NewRequest("PUT", "/api/parent-settings", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var settings entities.ParentSettings
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
		assert.Equal(t, 3, settings.MaxBooksPerDay)
		assert.False(t, settings.AllowSharing)
		assert.True(t, settings.ContentFilterEnabled)
	})

	t.Run("requires userId", func(t *testing.T) {
		router, cleanup := setupParentalTest(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/parent-settings", strings.NewReader(`{"maxBooksPerDay":3}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
