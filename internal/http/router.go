package http

import (
	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/auth"
)

// NewRouter creates and configures the HTTP router with all
// endpoints. Uses RouterConfig to receive all dependencies, improving
// testability and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		// HTTPS deployment: pin browsers to TLS for a year.
		router.Use(auth.StrictTransportSecurityMiddleware(31536000))
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	// Auth endpoints (login/signup/logout/token)
	if cfg.SessionProvider != nil {
		authController := auth.NewController(cfg.SessionProvider, cfg.AuthService)
		authController.RegisterRoutes(router)
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Catalog discovery endpoints
	if cfg.Catalog != nil {
		catalogController := NewCatalogController(cfg.Catalog)
		router.GET("/api/catalog/books", catalogController.ListBooks)
		router.GET("/api/catalog/books/:id", catalogController.GetBook)
	}

	// Text proxy endpoint
	if cfg.TextFetcher != nil {
		proxyController := NewProxyTextController(cfg.TextFetcher)
		router.GET("/api/proxy-text", proxyController.GetText)
	}

	// Library endpoints
	if cfg.Library != nil {
		libraryController := NewLibraryController(cfg.Library, cfg.Catalog, cfg.TaskClient)
		router.GET("/api/library", libraryController.List)
		router.POST("/api/library", libraryController.Add)
		router.DELETE("/api/library/:id", libraryController.Remove)
		router.POST("/api/library/refresh", libraryController.Refresh)
	}

	// Scheduled sync status and manual trigger
	if cfg.LibrarySync != nil {
		syncController := NewSyncController(cfg.LibrarySync)
		router.GET("/api/library/sync", syncController.Status)
		router.POST("/api/library/sync", syncController.Trigger)
	}

	// Reading session endpoints
	if cfg.Reader != nil {
		readerController := NewReaderController(cfg.Reader)
		router.POST("/api/books/:id/open", readerController.Open)
		router.POST("/api/books/:id/next", readerController.Next)
		router.POST("/api/books/:id/previous", readerController.Previous)
		router.POST("/api/books/:id/page", readerController.GoToPage)
		router.GET("/api/books/:id/progress", readerController.Progress)
	}

	// Settings endpoints
	if cfg.Settings != nil {
		settingsController := NewSettingsController(cfg.Settings)
		router.GET("/api/settings", settingsController.Get)
		router.POST("/api/settings", settingsController.Save)
		router.POST("/api/settings/font-size", settingsController.AdjustFontSize)
	}

	return router
}
