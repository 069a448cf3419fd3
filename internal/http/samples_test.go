package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhatch/internal/entities"
	"storyhatch/internal/storage"
)

func newSamplesTestRouter(t *testing.T, catalogBooks []entities.Book) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "index.json")
	data, err := json.Marshal(catalogBooks)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store := storage.NewFacade(storage.FacadeConfig{
		Samples: storage.NewSampleCatalog(path),
		Memory:  storage.NewMemoryTier(),
	})
	controller := NewSamplesController(store)

	router := gin.New()
	router.GET("/api/sample-books", controller.ListSampleBooks)
	return router
}

func TestSamplesController_ListSampleBooks(t *testing.T) {
	t.Run("returns summaries without page content", func(t *testing.T) {
		router := newSamplesTestRouter(t, []entities.Book{
			{
				ID:       "sample_a",
				Title:    "Sample A",
				Category: "bedtime",
				HeroType: entities.HeroTypeAnimal,
				Status:   entities.BookStatusCompleted,
				Pages: []entities.BookPage{
					{PageNumber: 1, Text: "secret page text", Image: "img"},
					{PageNumber: 2, Text: "more text", Image: "img"},
				},
			},
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/sample-books", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Books []SampleBookSummary `json:"books"`
			Total int                 `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, "Sample A", resp.Books[0].Title)
		assert.Equal(t, 2, resp.Books[0].PageCount)
		assert.NotContains(t, w.Body.String(), "secret page text")
	})

	t.Run("empty catalog answers an empty list", func(t *testing.T) {
		router := newSamplesTestRouter(t, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/sample-books", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":0`)
	})
}
