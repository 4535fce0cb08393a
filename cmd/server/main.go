package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"peraturan/internal/auth"
	"peraturan/internal/config"
	"peraturan/internal/crossref"
	"peraturan/internal/handler"
	"peraturan/internal/middleware"
	"peraturan/internal/ratelimit"
	"peraturan/internal/repository/postgres"
	serviceNode "peraturan/internal/service/node"
	serviceSuggestion "peraturan/internal/service/suggestion"
	"peraturan/internal/service/verify"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOutput := io.Writer(os.Stdout)
	if cfg.Debug {
		// Keep a local log file in debug runs, capped to the 5 newest
		logFile, err := config.SetupLogFile("logs", 5)
		if err != nil {
			log.Printf("warning: log file setup failed: %v", err)
		} else {
			defer logFile.Close()
			logOutput = io.MultiWriter(os.Stdout, logFile)
		}
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	adminChecker := auth.NewAdminChecker(cfg.AdminEmails)
	if len(cfg.AdminEmails) == 0 {
		logger.Warn("ADMIN_EMAILS is empty, review endpoints will reject everyone")
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	nodeRepo := postgres.NewNodeRepository(repoConfig)
	workRepo := postgres.NewWorkRepository(repoConfig)
	chunkRepo := postgres.NewChunkRepository(repoConfig)
	suggestionRepo := postgres.NewSuggestionRepository(repoConfig)
	revisionRepo := postgres.NewRevisionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Citation tokenizer over the embedded regulation-type registry
	tokenizer, err := crossref.New()
	if err != nil {
		log.Fatalf("Failed to initialize citation tokenizer: %v", err)
	}
	logger.Info("citation tokenizer initialized")

	// AI-advisory verifier
	suggestionVerifier, err := verify.NewAnthropicVerifier(cfg.AnthropicAPIKey, cfg.VerifyModel, logger)
	if err != nil {
		log.Fatalf("Failed to create suggestion verifier: %v", err)
	}
	logger.Info("suggestion verifier initialized", "model", cfg.VerifyModel)

	// Create services
	suggestionService := serviceSuggestion.NewService(
		suggestionRepo,
		nodeRepo,
		revisionRepo,
		chunkRepo,
		txManager,
		suggestionVerifier,
		logger,
	)
	nodeService := serviceNode.NewService(nodeRepo, workRepo, tokenizer, logger)

	// Submission rate limiter (per client IP, fixed window)
	limiter := ratelimit.NewLimiter()

	// Create handlers
	suggestionHandler := handler.NewSuggestionHandler(suggestionService, limiter, logger)
	nodeHandler := handler.NewNodeHandler(nodeService, logger)
	adminHandler := handler.NewAdminHandler(suggestionService, logger)

	// Setup routes
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Public routes
	mux.HandleFunc("POST /api/suggestions", suggestionHandler.Submit)
	mux.HandleFunc("GET /api/v1/nodes/{id}", nodeHandler.GetNode)

	// Admin review routes, behind JWT + allow-list auth
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET /api/admin/suggestions", adminHandler.ListSuggestions)
	adminMux.HandleFunc("POST /api/admin/suggestions/{id}/verify", adminHandler.VerifySuggestion)
	adminMux.HandleFunc("POST /api/admin/suggestions/{id}/approve", adminHandler.ApproveSuggestion)
	adminMux.HandleFunc("POST /api/admin/suggestions/{id}/reject", adminHandler.RejectSuggestion)
	mux.Handle("/api/admin/", middleware.AdminAuth(jwtVerifier, adminChecker, logger)(adminMux))

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Routes
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // verification calls wait on the model
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
