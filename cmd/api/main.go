package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jasonqian/suppliermatch/internal/api"
	"github.com/jasonqian/suppliermatch/internal/config"
	"github.com/jasonqian/suppliermatch/internal/knowledge"
	"github.com/jasonqian/suppliermatch/internal/logger"
	"github.com/jasonqian/suppliermatch/internal/repository"
	"github.com/jasonqian/suppliermatch/internal/service"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewFromEnv(nil)
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	leadRepo := repository.NewLeadRepository(db)

	// Open the supplier knowledge base
	store, err := knowledge.Open(knowledge.Config{
		Dir:       cfg.Knowledge.Dir,
		Dimension: cfg.Knowledge.Dimension,
	}, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to open knowledge base")
	}

	// Initialize Gemini clients
	embedder := service.NewGeminiEmbedder(&service.GeminiEmbedderConfig{
		APIKey:     cfg.Gemini.APIKey,
		BaseURL:    cfg.Gemini.BaseURL,
		Model:      cfg.Gemini.EmbedModel,
		Dimensions: cfg.Knowledge.Dimension,
	})
	generator := service.NewGeminiGenerator(&service.GeminiGeneratorConfig{
		APIKey:      cfg.Gemini.APIKey,
		BaseURL:     cfg.Gemini.BaseURL,
		Model:       cfg.Gemini.Model,
		Temperature: cfg.Gemini.Temperature,
	})

	// Initialize search services
	supplierKnowledge := service.NewSupplierKnowledge(store, embedder)
	serpClient := service.NewSerpClient(&service.SerpConfig{
		APIKey:     cfg.SerpAPI.APIKey,
		NumResults: cfg.SerpAPI.NumResults,
		Country:    cfg.SerpAPI.Country,
		Language:   cfg.SerpAPI.Language,
	})
	ranker := service.NewSupplierRanker(generator)
	webSearch := service.NewSupplierWebSearch(serpClient, ranker, cfg.Search.TopN)
	engine := service.NewHybridEngine(supplierKnowledge, webSearch)

	// Setup router
	router := api.SetupRouter(engine, supplierKnowledge, leadRepo, cfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
