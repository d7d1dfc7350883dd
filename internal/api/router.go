package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jasonqian/suppliermatch/internal/api/handler"
	"github.com/jasonqian/suppliermatch/internal/api/middleware"
	"github.com/jasonqian/suppliermatch/internal/config"
	"github.com/jasonqian/suppliermatch/internal/repository"
	"github.com/jasonqian/suppliermatch/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	engine *service.HybridEngine,
	knowledge *service.SupplierKnowledge,
	leads *repository.LeadRepository,
	cfg *config.Config,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	searchHandler := handler.NewSearchHandler(engine, cfg.Search)
	supplierHandler := handler.NewSupplierHandler(engine, knowledge)
	leadHandler := handler.NewLeadHandler(leads)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Hybrid search
		v1.POST("/search", searchHandler.Search)

		// Knowledge base
		v1.POST("/suppliers", supplierHandler.Save)
		v1.GET("/suppliers", supplierHandler.List)
		v1.GET("/stats", supplierHandler.Stats)

		// Leads
		v1.GET("/leads", leadHandler.List)
		v1.GET("/leads/:id", leadHandler.Get)
		v1.PATCH("/leads/:id/status", leadHandler.UpdateStatus)

		// Sessions
		v1.GET("/sessions", leadHandler.Sessions)
	}

	return r
}
