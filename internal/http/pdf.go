package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storyhatch/internal/entities"
	"storyhatch/internal/render"
	"storyhatch/internal/storage"
)

type PDFController struct {
	store    *storage.Facade
	renderer render.PDFRenderer
}

func NewPDFController(store *storage.Facade, renderer render.PDFRenderer) *PDFController {
	return &PDFController{
		store:    store,
		renderer: renderer,
	}
}

// DownloadPDF renders a completed book to PDF and serves it as an
// attachment. Rendering happens in the external render service.
// GET /api/download-pdf/:bookId
func (pc *PDFController) DownloadPDF(c *gin.Context) {
	id, ok := requireBookIDParam(c)
	if !ok {
		return
	}

	book, err := pc.store.GetBook(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	if book.Status != entities.BookStatusCompleted {
		respondBadRequest(c, "book is not completed yet")
		return
	}

	pdf, err := pc.renderer.RenderBook(c.Request.Context(), book)
	if err != nil {
		if errors.Is(err, render.ErrRendererUnavailable) {
			respondError(c, http.StatusServiceUnavailable, "pdf export is not configured")
			return
		}
		respondError(c, http.StatusBadGateway, "pdf rendering failed")
		return
	}

	filename := book.Title
	if filename == "" {
		filename = book.ID
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
