package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jasonqian/suppliermatch/internal/config"
	"github.com/jasonqian/suppliermatch/internal/domain"
	"github.com/jasonqian/suppliermatch/internal/knowledge"
	"github.com/jasonqian/suppliermatch/internal/logger"
	"github.com/jasonqian/suppliermatch/internal/repository"
	"github.com/jasonqian/suppliermatch/internal/service"
	"github.com/jasonqian/suppliermatch/internal/storage"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "suppliermatch-pipeline",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	pdfPath := flag.String("pdf", "", "Path to the product specification PDF")
	enrich := flag.Bool("enrich", true, "Look up contact details for each candidate")
	save := flag.Bool("save", true, "Save web-sourced candidates into the knowledge base")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if *pdfPath == "" {
		appLogger.Fatal("Missing required -pdf flag")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	appLogger.WithFields(logger.Fields{
		"pdf":    *pdfPath,
		"enrich": *enrich,
		"save":   *save,
	}).Info("Starting supplier match pipeline")

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

	// Initialize report storage
	reportStorage, err := storage.NewStorage(&cfg.Reports)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize report storage")
	}
	if err := reportStorage.EnsureBucket(context.Background()); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure report storage location")
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

	// Initialize pipeline services
	extractor := service.NewProductExtractor(generator)
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
	finder := service.NewContactFinder(serpClient, generator,
		time.Duration(cfg.Contact.DelaySeconds)*time.Second)

	// Cancel on interrupt so a long contact-enrichment run can be stopped.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Step 1: extract product attributes from the PDF
	product, err := extractor.ExtractFromPDF(ctx, *pdfPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to extract product info from PDF")
	}
	appLogger.WithFields(logger.Fields{
		"product":  product.Name,
		"category": product.Category,
	}).Info("Product attributes extracted")

	// Step 2: hybrid supplier search
	candidates, stats, err := engine.Search(ctx, product,
		cfg.Search.LocalK, cfg.Search.GoogleK, cfg.Search.MinSimilarity)
	if err != nil {
		appLogger.WithError(err).Fatal("Supplier search failed")
	}
	appLogger.WithFields(logger.Fields{
		"local": stats.LocalCount,
		"web":   stats.GoogleCount,
		"total": stats.TotalCount,
	}).Info("Supplier search completed")

	if len(candidates) == 0 {
		appLogger.Warn("No supplier candidates found, nothing to report")
		os.Exit(0)
	}

	// Step 3: contact enrichment (optional)
	if *enrich && cfg.Contact.Enabled {
		finder.EnrichBatch(ctx, candidates)
	}

	// Step 4: persist web-sourced candidates into the knowledge base
	if *save {
		saved, err := engine.SaveToKnowledgeBase(ctx, candidates)
		if err != nil {
			appLogger.WithError(err).Error("Failed to save candidates to knowledge base")
		} else if saved > 0 {
			appLogger.WithField("count", saved).Info("Saved new suppliers to knowledge base")
		}
	}

	// Step 5: record the session and its leads
	now := time.Now()
	session := &domain.SearchSession{
		ID:          uuid.New().String(),
		ProductName: product.Name,
		Query:       product.SearchQuery(),
		LocalCount:  stats.LocalCount,
		WebCount:    stats.GoogleCount,
		TotalCount:  stats.TotalCount,
		CreatedAt:   now,
	}
	if err := leadRepo.CreateSession(ctx, session); err != nil {
		appLogger.WithError(err).Error("Failed to record search session")
	}

	leads := make([]domain.Lead, 0, len(candidates))
	for _, c := range candidates {
		lead := domain.Lead{
			ID:                uuid.New().String(),
			SessionID:         session.ID,
			CompanyName:       c.Title,
			Website:           c.Link,
			Category:          product.Category,
			MatchType:         c.MatchType,
			Score:             c.Score,
			Reason:            c.Reason,
			Source:            c.Source,
			Similarity:        c.Similarity,
			CooperationStatus: domain.StatusNotContacted,
		}
		if c.CooperationStatus != "" {
			lead.CooperationStatus = c.CooperationStatus
		}
		if c.Contact != nil {
			lead.ContactPerson = c.Contact.Name
			lead.Email = c.Contact.Email
			lead.Phone = c.Contact.Phone
			lead.LinkedIn = c.Contact.LinkedIn
		}
		leads = append(leads, lead)
	}
	if err := leadRepo.CreateLeads(ctx, leads); err != nil {
		appLogger.WithError(err).Error("Failed to record leads")
	}

	// Step 6: build and store the markdown report
	report := service.BuildReport(product, candidates, stats, now)
	key := "reports/" + now.Format("2006/01") + "/" + session.ID + ".md"
	if err := reportStorage.Upload(ctx, key, strings.NewReader(report),
		int64(len(report)), "text/markdown"); err != nil {
		appLogger.WithError(err).Fatal("Failed to store report")
	}

	appLogger.WithFields(logger.Fields{
		"report":  reportStorage.GetURL(key),
		"session": session.ID,
		"leads":   len(leads),
	}).Info("Pipeline completed")
}
