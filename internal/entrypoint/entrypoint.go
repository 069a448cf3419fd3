package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"storyhatch/internal/config"
	"storyhatch/internal/database"
	"storyhatch/internal/database/books"
	"storyhatch/internal/database/library"
	"storyhatch/internal/database/parental"
	"storyhatch/internal/generation"
	http_controllers "storyhatch/internal/http"
	"storyhatch/internal/render"
	"storyhatch/internal/scheduler"
	"storyhatch/internal/storage"
	"storyhatch/internal/tasks"
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
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	// Wait for interrupt signal to gracefully shutdown the server.
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
	log.Printf("Starting Storyhatch v%s", version)

	if cfg.OpenAI.APIKey == "" {
		log.Printf("WARNING: OpenAI API key is not set. Book generation will fail. Set 'OPENAI_API_KEY' environment variable to enable.")
	}

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

	bookRepo := books.NewRepository(db.DB)
	libraryRepo := library.NewRepository(db.DB)
	parentalRepo := parental.NewRepository(db.DB)

	// Assemble the storage tiers. Samples and memory always exist; the
	// remote document store only when its credentials are configured.
	var remoteTier storage.Tier
	if cfg.Storage.Remote.Configured() {
		remote, err := storage.NewRemoteTier(
			cfg.Storage.Remote.Endpoint,
			cfg.Storage.Remote.AccessKey,
			cfg.Storage.Remote.SecretKey,
			cfg.Storage.Remote.Bucket,
			cfg.Storage.Remote.UseSSL,
		)
		if err != nil {
			log.Printf("WARNING: remote document store unavailable, continuing without it: %v", err)
		} else {
			log.Printf("Remote document store connected at %s", cfg.Storage.Remote.Endpoint)
			remoteTier = remote
		}
	}

	store := storage.NewFacade(storage.FacadeConfig{
		Samples: storage.NewSampleCatalog(cfg.Storage.SamplesPath),
		Memory:  storage.NewMemoryTier(),
		Durable: storage.NewDurableTier(bookRepo),
		Remote:  remoteTier,
	})

	// Generation pipeline backed by the OpenAI-compatible provider
	aiClient := generation.NewOpenAIClient(generation.OpenAIConfig{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		TextModel:   cfg.OpenAI.TextModel,
		ImageModel:  cfg.OpenAI.ImageModel,
		SpeechModel: cfg.OpenAI.SpeechModel,
	})

	pipeline := generation.NewPipeline(generation.PipelineConfig{
		Store:        store,
		Text:         aiClient,
		Images:       aiClient,
		Speech:       aiClient,
		PageDelay:    cfg.Generation.PageDelay,
		DefaultVoice: cfg.OpenAI.Voice,
		DefaultPages: cfg.Generation.DefaultPages,
		MaxPages:     cfg.Generation.MaxPages,
	})

	// Initialize task queue
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
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

		taskClient.Register(
			tasks.NewGenerateBookQueue(pipeline),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	} else {
		log.Fatalf("Task queue is required for book generation; set TASKS_ENABLED=true")
	}

	// Periodic eviction of terminal books from the memory tier
	pruner := scheduler.NewTransientPruneScheduler(store, cfg.Storage.PruneSchedule, cfg.Storage.TransientRetention)
	if err := pruner.Start(context.Background()); err != nil {
		log.Printf("WARNING: transient prune scheduler not started: %v", err)
	}

	// PDF export via the external render service (optional)
	var renderer render.PDFRenderer
	if cfg.Render.PDFServiceURL != "" {
		renderer = render.NewHTTPRenderer(cfg.Render.PDFServiceURL)
		log.Printf("PDF export enabled via %s", cfg.Render.PDFServiceURL)
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Store:         store,
		Pipeline:      pipeline,
		Database:      db,
		TaskClient:    taskClient,
		LibraryStore:  libraryRepo,
		ParentalStore: parentalRepo,
		Renderer:      renderer,
		Version:       version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		pruner.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
