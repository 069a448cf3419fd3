package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Store, cfg.Pipeline, cfg.TaskClient)
	samplesController := NewSamplesController(cfg.Store)
	audioController := NewAudioController(cfg.Store, cfg.Pipeline)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Book generation and retrieval endpoints
	router.POST("/api/generate-book", booksController.CreateBook)
	router.GET("/api/book/:bookId", booksController.GetBook)
	router.DELETE("/api/book/:bookId", booksController.DeleteBook)
	router.GET("/api/library", booksController.GetLibrary)

	// Sample gallery endpoint
	router.GET("/api/sample-books", samplesController.ListSampleBooks)

	// Audio narration endpoints
	router.POST("/api/generate-audio/:bookId", audioController.GenerateAudio)
	router.GET("/api/download-audio/:bookId", audioController.DownloadAudio)

	// PDF export endpoint
	if cfg.Renderer != nil {
		pdfController := NewPDFController(cfg.Store, cfg.Renderer)
		router.GET("/api/download-pdf/:bookId", pdfController.DownloadPDF)
	}

	// Engagement endpoints
	if cfg.LibraryStore != nil {
		engagementController := NewEngagementController(cfg.LibraryStore, cfg.Store)
		router.POST("/api/library/:bookId/favorite", engagementController.ToggleFavorite)
		router.GET("/api/library/favorites", engagementController.ListFavorites)
		router.POST("/api/reading", engagementController.RecordReading)
		router.GET("/api/reading/stats", engagementController.GetReadingStats)
	}

	// Parental control endpoints
	if cfg.ParentalStore != nil {
		parentalController := NewParentalController(cfg.ParentalStore)
		router.GET("/api/parent-settings", parentalController.GetSettings)
		router.PUT("/api/parent-settings", parentalController.UpdateSettings)
	}

	return router
}
