package config

// Default paths and endpoints
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./openshelf.db"

	// DefaultCatalogBaseURL is the public Gutendex catalog instance
	DefaultCatalogBaseURL = "https://gutendex.com"
)
