package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storyhatch/internal/entities"
	"storyhatch/internal/storage"
)

// SampleBookSummary is the gallery projection of a sample book: enough
// to render a card without shipping every page's illustration.
type SampleBookSummary struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description,omitempty"`
	Category          string              `json:"category,omitempty"`
	HeroType          entities.HeroType   `json:"heroType,omitempty"`
	Setting           string              `json:"setting,omitempty"`
	AgeRange          string              `json:"ageRange,omitempty"`
	IllustrationStyle string              `json:"illustrationStyle,omitempty"`
	TitlePage         *entities.TitlePage `json:"titlePage,omitempty"`
	PageCount         int                 `json:"pageCount"`
}

type SamplesController struct {
	store *storage.Facade
}

func NewSamplesController(store *storage.Facade) *SamplesController {
	return &SamplesController{store: store}
}

// ListSampleBooks returns summaries of the curated sample catalog.
// The full book (with pages) is fetched through GET /api/book/:bookId.
// GET /api/sample-books
func (sc *SamplesController) ListSampleBooks(c *gin.Context) {
	books := sc.store.ListSampleBooks()

	summaries := make([]SampleBookSummary, 0, len(books))
	for _, book := range books {
		summaries = append(summaries, SampleBookSummary{
			ID:                book.ID,
			Title:             book.Title,
			Description:       book.Description,
			Category:          book.Category,
			HeroType:          book.HeroType,
			Setting:           book.Setting,
			AgeRange:          book.AgeRange,
			IllustrationStyle: book.IllustrationStyle,
			TitlePage:         book.TitlePage,
			PageCount:         len(book.Pages),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"books": summaries,
		"total": len(summaries),
	})
}
