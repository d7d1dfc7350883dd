package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jasonqian/suppliermatch/internal/domain"
	"github.com/jasonqian/suppliermatch/internal/service"
)

// SupplierHandler serves the knowledge base: saving new suppliers, listing
// stored records, and aggregate statistics.
type SupplierHandler struct {
	engine    *service.HybridEngine
	knowledge *service.SupplierKnowledge
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(engine *service.HybridEngine, knowledge *service.SupplierKnowledge) *SupplierHandler {
	return &SupplierHandler{engine: engine, knowledge: knowledge}
}

// SaveRequest is the body of POST /api/v1/suppliers.
type SaveRequest struct {
	Suppliers []domain.Candidate `json:"suppliers" binding:"required"`
}

// Save handles POST /api/v1/suppliers: persists web-sourced candidates into
// the knowledge base.
func (h *SupplierHandler) Save(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	count, err := h.engine.SaveToKnowledgeBase(c.Request.Context(), req.Suppliers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Save failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"saved": count,
	})
}

// List handles GET /api/v1/suppliers: a snapshot of every stored record.
func (h *SupplierHandler) List(c *gin.Context) {
	records := h.knowledge.AllSuppliers()
	c.JSON(http.StatusOK, gin.H{
		"suppliers": records,
		"total":     len(records),
	})
}

// Stats handles GET /api/v1/stats.
func (h *SupplierHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.knowledge.Statistics())
}
