package render

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhatch/internal/entities"
)

func TestHTTPRenderer_RenderBook(t *testing.T) {
	book := &entities.Book{ID: "book_1", Title: "Test", Status: entities.BookStatusCompleted}

	t.Run("posts the book and returns the pdf bytes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			var received entities.Book
			require.NoError(t, json.Unmarshal(body, &received))
			assert.Equal(t, "book_1", received.ID)

			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.7 fake"))
		}))
		defer srv.Close()

		renderer := NewHTTPRenderer(srv.URL)
		pdf, err := renderer.RenderBook(context.Background(), book)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.7 fake"), pdf)
	})

	t.Run("non-200 answers become errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "renderer crashed", http.StatusInternalServerError)
		}))
		defer srv.Close()

		renderer := NewHTTPRenderer(srv.URL)
		_, err := renderer.RenderBook(context.Background(), book)
		assert.Error(t, err)
	})

	t.Run("empty service URL reports unavailable", func(t *testing.T) {
		renderer := NewHTTPRenderer("")
		_, err := renderer.RenderBook(context.Background(), book)
		assert.ErrorIs(t, err, ErrRendererUnavailable)
	})
}
