package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/config"
	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/gutenberg"
	http_controllers "github.com/openshelf/openshelf/internal/http"
	"github.com/openshelf/openshelf/internal/kvstore"
	"github.com/openshelf/openshelf/internal/library"
	"github.com/openshelf/openshelf/internal/pagination"
	"github.com/openshelf/openshelf/internal/reader"
	"github.com/openshelf/openshelf/internal/scheduler"
	"github.com/openshelf/openshelf/internal/settingsstore"
	"github.com/openshelf/openshelf/internal/tasks"
	"github.com/openshelf/openshelf/internal/textcache"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting OpenShelf v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Upstream catalog and full-text source
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL)
	fetcher := gutenberg.NewFetcher()

	// Local cache for cleaned book text
	textCacheDir := cfg.Reader.TextCacheDir
	if textCacheDir == "" {
		textCacheDir = filepath.Join(filepath.Dir(cfg.Database.Path), "texts")
	}
	textCache, err := textcache.NewCache(textCacheDir)
	if err != nil {
		log.Fatalf("Failed to initialize text cache: %v", err)
	}
	log.Printf("Text cache initialized at %s", textCacheDir)

	paginator := pagination.New(cfg.Reader.PageBudget)
	if cfg.Reader.SentenceTarget > 0 {
		paginator.SentenceTarget = cfg.Reader.SentenceTarget
	}
	if cfg.Reader.Overflow > 0 {
		paginator.Overflow = cfg.Reader.Overflow
	}

	kv := kvstore.New(db.DB)
	libraryStore := library.NewStore(kv, catalogClient)
	readerService := reader.NewService(catalogClient, fetcher, textCache, &paginator, kv)
	settingsStore := settingsstore.NewStore(db.DB)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Register task queues
		taskClient.Register(
			tasks.NewPrefetchTextQueue(readerService),
			tasks.NewRefreshLibraryQueue(libraryStore),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Periodic library metadata refresh
	var librarySync *scheduler.LibrarySyncScheduler
	if cfg.LibrarySync.Enabled && taskClient != nil {
		librarySync = scheduler.NewLibrarySyncScheduler(kv, taskClient, cfg.LibrarySync.Schedule)
		if err := librarySync.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start library sync scheduler: %v", err)
		}
		log.Printf("Library sync scheduled: %s", cfg.LibrarySync.Schedule)
	}

	// Initialize authentication if enabled
	var sessionProvider auth.SessionProvider = auth.NoneProvider{}
	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(db.DB, cfg.Auth)

		// Get underlying SQL DB for session store
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		sessionProvider = auth.NewLocalProvider(authService, sessionManager)
		authMiddleware = auth.NewMiddleware(sessionProvider)

		// Generate or use configured CSRF secret
		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}

		hasUsers, _ := authService.HasUsers()
		if !hasUsers {
			log.Printf("No users found. POST to /api/auth/signup to create an account.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:        db,
		Catalog:         catalogClient,
		TextFetcher:     fetcher,
		Reader:          readerService,
		Library:         libraryStore,
		Settings:        settingsStore,
		SessionProvider: sessionProvider,
		AuthService:     authService,
		SessionManager:  sessionManager,
		AuthMiddleware:  authMiddleware,
		CSRFSecret:      csrfSecret,
		SecureCookies:   cfg.Auth.SecureCookies,
		TaskClient:      taskClient,
		LibrarySync:     librarySync,
		Version:         version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if librarySync != nil {
			librarySync.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
