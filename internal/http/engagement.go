package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storyhatch/internal/database/library"
	"storyhatch/internal/storage"
)

// LibraryStore defines database operations for engagement tracking.
type LibraryStore interface {
	ToggleFavorite(userID, bookID string) (bool, error)
	ListFavorites(userID string) ([]string, error)
	RecordReading(userID, bookID string, durationSeconds int, completed bool) error
	GetReadingStats(userID string) (*library.ReadingStats, error)
}

// RecordReadingRequest reports one reading session.
type RecordReadingRequest struct {
	UserID          string `json:"userId"`
	BookID          string `json:"bookId"`
	DurationSeconds int    `json:"durationSeconds"`
	Completed       bool   `json:"completed"`
}

// ToggleFavoriteRequest identifies the acting user.
type ToggleFavoriteRequest struct {
	UserID string `json:"userId"`
}

type EngagementController struct {
	library LibraryStore
	store   *storage.Facade
}

func NewEngagementController(lib LibraryStore, store *storage.Facade) *EngagementController {
	return &EngagementController{
		library: lib,
		store:   store,
	}
}

// ToggleFavorite flips the favorite flag for (user, book) and returns
// the resulting state.
// POST /api/library/:bookId/favorite
func (ec *EngagementController) ToggleFavorite(c *gin.Context) {
	bookID, ok := requireBookIDParam(c)
	if !ok {
		return
	}

	var req ToggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		respondBadRequest(c, "userId is required")
		return
	}

	exists, err := ec.store.HasBook(c.Request.Context(), bookID)
	if err != nil {
		respondInternalError(c, err, "check book existence")
		return
	}
	if !exists {
		respondNotFound(c, "book")
		return
	}

	isFavorite, err := ec.library.ToggleFavorite(req.UserID, bookID)
	if err != nil {
		respondInternalError(c, err, "toggle favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookId":     bookID,
		"isFavorite": isFavorite,
	})
}

// ListFavorites returns the IDs of the user's favorite books.
// GET /api/library/favorites?userId=
func (ec *EngagementController) ListFavorites(c *gin.Context) {
	userID, ok := requireUserIDQuery(c)
	if !ok {
		return
	}

	ids, err := ec.library.ListFavorites(userID)
	if err != nil {
		respondInternalError(c, err, "list favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": ids,
		"total":     len(ids),
	})
}

// RecordReading stores one reading session. Tracking is best-effort:
// a storage failure is logged but never breaks the reading experience.
// POST /api/reading
func (ec *EngagementController) RecordReading(c *gin.Context) {
	var req RecordReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.UserID == "" || req.BookID == "" {
		respondBadRequest(c, "userId and bookId are required")
		return
	}
	if req.DurationSeconds < 0 {
		respondBadRequest(c, "durationSeconds must not be negative")
		return
	}

	if err := ec.library.RecordReading(req.UserID, req.BookID, req.DurationSeconds, req.Completed); err != nil {
		log.Printf("WARNING: failed to record reading of %s for %s: %v", req.BookID, req.UserID, err)
	}

	c.Status(http.StatusNoContent)
}

// GetReadingStats aggregates the user's reading history.
// GET /api/reading/stats?userId=
func (ec *EngagementController) GetReadingStats(c *gin.Context) {
	userID, ok := requireUserIDQuery(c)
	if !ok {
		return
	}

	stats, err := ec.library.GetReadingStats(userID)
	if err != nil {
		respondInternalError(c, err, "get reading stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
