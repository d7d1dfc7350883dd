package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jasonqian/suppliermatch/internal/config"
	"github.com/jasonqian/suppliermatch/internal/domain"
	"github.com/jasonqian/suppliermatch/internal/service"
)

// SearchHandler handles hybrid supplier search endpoints.
type SearchHandler struct {
	engine   *service.HybridEngine
	defaults config.SearchConfig
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(engine *service.HybridEngine, defaults config.SearchConfig) *SearchHandler {
	return &SearchHandler{engine: engine, defaults: defaults}
}

// SearchRequest is the body of POST /api/v1/search. Zero-valued knobs fall
// back to the configured defaults.
type SearchRequest struct {
	Product       domain.ProductInfo `json:"product" binding:"required"`
	LocalK        int                `json:"local_k"`
	GoogleK       int                `json:"google_k"`
	MinSimilarity *float64           `json:"min_similarity"`
}

// SearchResponse is the result of one hybrid search.
type SearchResponse struct {
	Suppliers []domain.Candidate  `json:"suppliers"`
	Stats     service.SearchStats `json:"stats"`
}

// Search handles POST /api/v1/search.
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	localK := req.LocalK
	if localK <= 0 {
		localK = h.defaults.LocalK
	}
	googleK := req.GoogleK
	if googleK <= 0 {
		googleK = h.defaults.GoogleK
	}
	minSimilarity := h.defaults.MinSimilarity
	if req.MinSimilarity != nil {
		minSimilarity = *req.MinSimilarity
	}

	suppliers, stats, err := h.engine.Search(c.Request.Context(), req.Product, localK, googleK, minSimilarity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Search failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{Suppliers: suppliers, Stats: stats})
}
