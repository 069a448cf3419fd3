package http

import (
	"storyhatch/internal/database"
	"storyhatch/internal/generation"
	"storyhatch/internal/render"
	"storyhatch/internal/storage"
	"storyhatch/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Store    *storage.Facade
	Pipeline *generation.Pipeline
	Database *database.Database

	// Task queue client for background generation
	TaskClient *tasks.Client

	// Engagement tracking
	LibraryStore LibraryStore

	// Parental controls
	ParentalStore ParentalStore

	// PDF export (optional)
	Renderer render.PDFRenderer

	// Application info
	Version string
}
