package main

import (
	"context"
	"log"

	"caselens-backend/config"
	"caselens-backend/handlers"
	"caselens-backend/repository"
	"caselens-backend/secrets"
	"caselens-backend/service"
	"caselens-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database connection
	db, err := initPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize Postgres:", err)
	}
	defer db.Close()

	// Initialize document storage
	docStorage, err := storage.NewStorage(storage.StorageConfig{
		Type:         storage.StorageType(cfg.StorageType),
		LocalPath:    cfg.StorageLocalPath,
		S3Bucket:     cfg.S3Bucket,
		S3Region:     cfg.S3Region,
		AWSAccessKey: cfg.AWSAccessKey,
		AWSSecretKey: cfg.AWSSecretKey,
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Println("Storage initialized")

	// Initialize repositories
	caseRepo := repository.NewCaseRepository(db)
	chunkRepo := repository.NewCaseChunkRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	searchOpts := []service.SearchServiceOption{
		service.SearchWithCaseStore(caseRepo),
		service.SearchWithChunkIndex(chunkRepo),
		service.SearchWithReactionReader(reactionRepo),
		service.SearchWithPreferenceReader(preferenceRepo),
		service.SearchWithLimits(cfg.CandidateLimit, cfg.ResultLimit, cfg.SimilarityFloor),
	}
	if cfg.GeminiAPIKey != "" {
		searchOpts = append(searchOpts,
			service.SearchWithEmbedder(service.NewGeminiEmbedder(cfg.GeminiAPIKey, repository.EmbeddingDimensions)))
	} else {
		log.Println("Warning: GEMINI_API_KEY not set, semantic retrieval disabled")
	}

	var settingsService *service.SettingsService
	if cfg.SettingsEncryptionKey != "" {
		cipher, err := secrets.NewCipher(cfg.SettingsEncryptionKey)
		if err != nil {
			log.Fatal("Failed to initialize settings cipher:", err)
		}
		settingsService = service.NewSettingsService(settingsRepo, cipher)
		searchOpts = append(searchOpts,
			service.SearchWithSynthesizer(service.NewSynthesisService(settingsRepo, cipher)))
	} else {
		log.Println("Warning: API_KEY_ENCRYPTION_SECRET not set, synthesis and settings disabled")
	}

	searchService := service.NewSearchService(searchOpts...)

	reactionService := service.NewReactionService(
		service.ReactionWithCaseStore(caseRepo),
		service.ReactionWithTransitioner(reactionRepo),
	)

	documentService := service.NewDocumentService(caseRepo, caseRepo, docStorage)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService)
	reactionHandler := handlers.NewReactionHandler(reactionService)
	caseHandler := handlers.NewCaseHandler(caseRepo, documentService)

	// Setup Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Search and reaction endpoints
		api.POST("/search", searchHandler.Search)
		api.POST("/react", reactionHandler.React)

		// Case endpoints
		api.GET("/cases", caseHandler.ListCases)
		api.GET("/cases/:id", caseHandler.GetCase)
		api.POST("/cases/:id/complaint", caseHandler.UploadComplaint)
		api.GET("/cases/:id/complaint", caseHandler.DownloadComplaint)

		// Settings endpoints
		if settingsService != nil {
			settingsHandler := handlers.NewSettingsHandler(settingsService)
			api.GET("/settings", settingsHandler.GetSettings)
			api.PUT("/settings", settingsHandler.UpdateSettings)
			api.GET("/settings/models", settingsHandler.ListModels)
		}
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func initPostgres(connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	// Enable pgvector extension
	ctx := context.Background()
	_, err = pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		log.Printf("Warning: Failed to create pgvector extension: %v", err)
		log.Println("This may be normal if extension is already installed or requires superuser privileges")
	} else {
		log.Println("pgvector extension enabled")
	}

	log.Println("Postgres connection established with pgvector support")
	return pool, nil
}
