package config

// Default paths resolved relative to the working directory.
const (
	// DefaultDatabasePath is the default path for the main application database.
	DefaultDatabasePath = "./storyhatch.db"

	// DefaultSamplesPath is the default path for the bundled sample catalog.
	DefaultSamplesPath = "./data/sample-books/index.json"
)
