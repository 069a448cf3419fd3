package http

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storyhatch/internal/generation"
	"storyhatch/internal/storage"
)

const audioDataURLPrefix = "data:audio/mpeg;base64,"

type AudioController struct {
	store    *storage.Facade
	pipeline *generation.Pipeline
}

func NewAudioController(store *storage.Facade, pipeline *generation.Pipeline) *AudioController {
	return &AudioController{
		store:    store,
		pipeline: pipeline,
	}
}

// GenerateAudio narrates a completed book and stores the result on it.
// Calling it again replaces the previous narration.
// POST /api/generate-audio/:bookId
func (ac *AudioController) GenerateAudio(c *gin.Context) {
	id, ok := requireBookIDParam(c)
	if !ok {
		return
	}

	audioURL, err := ac.pipeline.EnrichAudio(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, generation.ErrNotReady):
			respondBadRequest(c, "book is not completed yet")
		case errors.Is(err, generation.ErrValidation):
			respondBadRequest(c, err.Error())
		case errors.Is(err, generation.ErrUpstream):
			respondError(c, http.StatusBadGateway, "audio generation failed")
		default:
			respondInternalError(c, err, "generate audio")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookId":   id,
		"audioUrl": audioURL,
	})
}

// DownloadAudio serves the stored narration as an MP3 attachment.
// GET /api/download-audio/:bookId
func (ac *AudioController) DownloadAudio(c *gin.Context) {
	id, ok := requireBookIDParam(c)
	if !ok {
		return
	}

	book, err := ac.store.GetBook(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	if book.AudioURL == "" {
		respondNotFound(c, "audio")
		return
	}
	if !strings.HasPrefix(book.AudioURL, audioDataURLPrefix) {
		// Audio stored elsewhere; let the client follow the reference.
		c.Redirect(http.StatusFound, book.AudioURL)
		return
	}

	audio, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(book.AudioURL, audioDataURLPrefix))
	if err != nil {
		respondInternalError(c, err, "decode stored audio")
		return
	}

	filename := book.Title
	if filename == "" {
		filename = book.ID
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`.mp3"`)
	c.Data(http.StatusOK, "audio/mpeg", audio)
}
