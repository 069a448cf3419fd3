package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storyhatch/internal/entities"
	"storyhatch/internal/generation"
	"storyhatch/internal/storage"
	"storyhatch/internal/tasks"
)

// CreateBookRequest is the payload for starting a book generation.
type CreateBookRequest struct {
	Prompt            string `json:"prompt"`
	AgeRange          string `json:"ageRange"`
	IllustrationStyle string `json:"illustrationStyle"`
	PageCount         int    `json:"pageCount"`
	UserID            string `json:"userId"`
	NarratorVoice     string `json:"narratorVoice"`
	Character         *struct {
		Name   string   `json:"name"`
		Type   string   `json:"type"`
		Traits []string `json:"traits"`
	} `json:"character"`
}

// GenerationStatusResponse is returned while a book is still being
// generated, so clients can poll for progress.
type GenerationStatusResponse struct {
	ID                 string              `json:"id"`
	Status             entities.BookStatus `json:"status"`
	GenerationProgress int                 `json:"generationProgress"`
	ExpectedPages      int                 `json:"expectedPages"`
}

// failedGenerationMessage is shown for books whose generation failed.
// The underlying cause stays in the logs and on the book record.
const failedGenerationMessage = "Book generation failed. Please try generating a new book."

type BooksController struct {
	store      *storage.Facade
	pipeline   *generation.Pipeline
	taskClient *tasks.Client
}

func NewBooksController(store *storage.Facade, pipeline *generation.Pipeline, taskClient *tasks.Client) *BooksController {
	return &BooksController{
		store:      store,
		pipeline:   pipeline,
		taskClient: taskClient,
	}
}

// CreateBook registers a new book and schedules its generation.
// The response carries the book in `generating` status; clients poll
// GET /api/book/:bookId for progress.
// POST /api/generate-book
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	genReq := generation.BookRequest{
		Prompt:            req.Prompt,
		AgeRange:          req.AgeRange,
		IllustrationStyle: req.IllustrationStyle,
		ExpectedPages:     req.PageCount,
		OwnerID:           req.UserID,
		NarratorVoice:     req.NarratorVoice,
	}
	if req.Character != nil {
		genReq.Character = &entities.Character{
			Name:   req.Character.Name,
			Type:   req.Character.Type,
			Traits: req.Character.Traits,
		}
	}

	book, err := bc.pipeline.CreateBook(c.Request.Context(), genReq)
	if err != nil {
		if errors.Is(err, generation.ErrValidation) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create book")
		return
	}

	task := tasks.GenerateBookTask{BookID: book.ID, Prompt: req.Prompt}
	if _, err := bc.taskClient.Add(task).Save(); err != nil {
		// The book exists but will never progress; record the failure
		// so pollers see a terminal state instead of a stuck one.
		book.Status = entities.BookStatusError
		book.ErrorMessage = "failed to schedule generation: " + err.Error()
		_ = bc.store.SetBook(c.Request.Context(), book)
		respondInternalError(c, err, "schedule book generation")
		return
	}

	// Generation is asynchronous; the caller polls GET /api/book/:bookId.
	c.JSON(http.StatusAccepted, book)
}

// GetBook returns a book by ID. Books still generating answer 202 with
// progress; failed books answer with a generic message and no partial
// content; completed and sample books answer with the full document.
// GET /api/book/:bookId
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := requireBookIDParam(c)
	if !ok {
		return
	}

	book, err := bc.store.GetBook(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	switch book.Status {
	case entities.BookStatusGenerating:
		c.JSON(http.StatusAccepted, GenerationStatusResponse{
			ID:                 book.ID,
			Status:             book.Status,
			GenerationProgress: book.GenerationProgress,
			ExpectedPages:      book.ExpectedPages,
		})
	case entities.BookStatusError:
		c.JSON(http.StatusOK, gin.H{
			"id":     book.ID,
			"status": book.Status,
			"error":  failedGenerationMessage,
		})
	default:
		c.JSON(http.StatusOK, book)
	}
}

// DeleteBook removes a user book from every storage tier.
// Sample books cannot be deleted.
// DELETE /api/book/:bookId
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := requireBookIDParam(c)
	if !ok {
		return
	}

	exists, err := bc.store.HasBook(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "check book existence")
		return
	}
	if !exists {
		respondNotFound(c, "book")
		return
	}

	if err := bc.store.DeleteBook(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrSampleReadOnly) {
			respondError(c, http.StatusForbidden, "sample books cannot be deleted")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "book deleted"})
}

// GetLibrary returns the user's own books, newest first.
// GET /api/library?userId=
func (bc *BooksController) GetLibrary(c *gin.Context) {
	userID, ok := requireUserIDQuery(c)
	if !ok {
		return
	}

	books, err := bc.store.ListUserBooks(c.Request.Context(), userID)
	if err != nil {
		respondInternalError(c, err, "list user books")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books": books,
		"total": len(books),
	})
}
