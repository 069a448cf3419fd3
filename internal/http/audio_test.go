package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhatch/internal/entities"
	"storyhatch/internal/generation"
	"storyhatch/internal/storage"
)

// fixedSpeech answers every synthesis with the same data URL.
type fixedSpeech struct {
	audioURL string
}

func (f *fixedSpeech) Synthesize(context.Context, string, string) (string, error) {
	return f.audioURL, nil
}

func newAudioTestRouter(t *testing.T, store *storage.Facade, speech generation.SpeechSynthesizer) *gin.Engine {
	t.Helper()
	pipeline := generation.NewPipeline(generation.PipelineConfig{Store: store, Speech: speech})
	controller := NewAudioController(store, pipeline)

	router := gin.New()
	router.POST("/api/generate-audio/:bookId", controller.GenerateAudio)
	router.GET("/api/download-audio/:bookId", controller.DownloadAudio)
	return router
}

func completedTestBook(id string) *entities.Book {
	return &entities.Book{
		ID:     id,
		Title:  "Done",
		Status: entities.BookStatusCompleted,
		Pages: []entities.BookPage{
			{BookID: id, PageNumber: 1, Text: "Once upon a time.", Image: "img"},
			{BookID: id, PageNumber: 2, Text: "The end.", Image: "img"},
		},
		GenerationProgress: 100,
	}
}

func TestAudioController_GenerateAudio(t *testing.T) {
	audioURL := "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString([]byte("mp3-bytes"))

	t.Run("narrates a completed book", func(t *testing.T) {
		store := newTestStore(t)
		seedStoredBook(t, store, completedTestBook("book_1"))
		router := newAudioTestRouter(t, store, &fixedSpeech{audioURL: audioURL})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/generate-audio/book_1", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			AudioURL string `json:"audioUrl"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, audioURL, resp.AudioURL)
	})

	t.Run("rejects a book still generating", func(t *testing.T) {
		store := newTestStore(t)
		seedStoredBook(t, store, &entities.Book{ID: "book_1", Status: entities.BookStatusGenerating})
		router := newAudioTestRouter(t, store, &fixedSpeech{audioURL: audioURL})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/generate-audio/book_1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown book answers 404", func(t *testing.T) {
		router := newAudioTestRouter(t, newTestStore(t), &fixedSpeech{audioURL: audioURL})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/generate-audio/book_missing", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAudioController_DownloadAudio(t *testing.T) {
	t.Run("serves the decoded narration as an attachment", func(t *testing.T) {
		store := newTestStore(t)
		book := completedTestBook("book_1")
		book.AudioURL = "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString([]byte("mp3-bytes"))
		seedStoredBook(t, store, book)
		router := newAudioTestRouter(t, store, &fixedSpeech{})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/download-audio/book_1", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".mp3")
		assert.Equal(t, "mp3-bytes", w.Body.String())
	})

	t.Run("book without narration answers 404", func(t *testing.T) {
		store := newTestStore(t)
		seedStoredBook(t, store, completedTestBook("book_1"))
		router := newAudioTestRouter(t, store, &fixedSpeech{})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/download-audio/book_1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
