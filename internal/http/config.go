package http

import (
	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/gutenberg"
	"github.com/openshelf/openshelf/internal/library"
	"github.com/openshelf/openshelf/internal/reader"
	"github.com/openshelf/openshelf/internal/scheduler"
	"github.com/openshelf/openshelf/internal/settingsstore"
	"github.com/openshelf/openshelf/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed to
// create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Catalog access
	Catalog CatalogBrowser

	// Full text fetching for the proxy endpoint
	TextFetcher *gutenberg.Fetcher

	// Reading sessions
	Reader *reader.Service

	// Per-user library
	Library *library.Store

	// Per-user settings
	Settings *settingsstore.Store

	// Authentication (provider is required; service and session
	// manager are nil when auth is disabled)
	SessionProvider auth.SessionProvider
	AuthService     *auth.Service
	SessionManager  *auth.SessionManager
	AuthMiddleware  *auth.Middleware
	CSRFSecret      []byte
	SecureCookies   bool

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Periodic library refresh scheduler (optional)
	LibrarySync *scheduler.LibrarySyncScheduler

	// Application info
	Version string
}
