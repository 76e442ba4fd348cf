package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"garment-designlab/internal/config"
	"garment-designlab/internal/database"
	"garment-designlab/internal/handlers"
	"garment-designlab/internal/middleware"
	"garment-designlab/internal/services"
	"garment-designlab/internal/session"
	"garment-designlab/internal/store"
	"garment-designlab/internal/supabase"
	"garment-designlab/internal/workspace"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Sessions survive restarts only when Redis is configured
	var sessions session.Store
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse REDIS_URL: %v", err)
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Printf("Warning: Redis not reachable: %v", err)
		}
		cancel()
		sessions = session.NewRedisStore(redisClient)
	} else {
		log.Println("Warning: REDIS_URL not set. Sessions are kept in memory.")
		sessions = session.NewMemoryStore()
	}

	var opts []workspace.Option

	// Event log
	var eventStore *database.EventStore
	if cfg.DatabaseURL != "" {
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: Failed to open database: %v", err)
		} else {
			defer db.Close()

			if err := database.NewMigrator(db).Run(ctx); err != nil {
				log.Printf("Warning: Migration failed: %v", err)
			} else {
				log.Println("Migrations completed successfully")
			}
			eventStore = database.NewEventStore(db)
			opts = append(opts, workspace.WithRecorder(eventStore))
		}
	} else {
		log.Println("Warning: DATABASE_URL not set. Editor events will only be logged.")
	}

	// Layer image uploads
	if cfg.StorageEnabled() {
		storageClient := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
		uploadService := services.NewUploadService(storageClient, cfg.UploadMaxBytes, cfg.LayerMaxSize)
		opts = append(opts, workspace.WithUploader(uploadService))
	} else {
		log.Println("Warning: Supabase storage not configured. Image uploads are disabled.")
	}

	// Products are served by the Design Lab API unless Supabase is selected
	if cfg.CatalogBackend == config.CatalogBackendSupabase {
		supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey)
		if err != nil {
			log.Fatalf("Failed to initialize Supabase client: %v", err)
		}
		opts = append(opts, workspace.WithCatalog(supabase.NewCatalog(supabaseClient)))
	}

	manager := workspace.NewManager(workspace.Config{
		APIBaseURL: cfg.DesignLabAPIBaseURL,
		APITimeout: cfg.DesignLabAPITimeout,
	}, sessions, opts...)

	var events handlers.EventLister
	if eventStore != nil {
		events = eventStore
	}
	editorHandler := handlers.NewEditorHandler(manager, events, cfg.UploadMaxBytes)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	editor := router.Group("/api/v1/editor")
	editor.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	editorHandler.RegisterRoutes(editor)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// Compile-time checks for the adapters wired above.
var (
	_ store.EventRecorder  = (*database.EventStore)(nil)
	_ store.ImageUploader  = (*services.UploadService)(nil)
	_ store.ImageCleaner   = (*services.UploadService)(nil)
	_ store.ProductCatalog = (*supabase.Catalog)(nil)
)
