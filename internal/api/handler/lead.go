package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jasonqian/suppliermatch/internal/domain"
	"github.com/jasonqian/suppliermatch/internal/repository"
)

// LeadHandler serves the outreach-tracking side: leads and search sessions.
type LeadHandler struct {
	leads *repository.LeadRepository
}

// NewLeadHandler creates a new lead handler.
func NewLeadHandler(leads *repository.LeadRepository) *LeadHandler {
	return &LeadHandler{leads: leads}
}

// List handles GET /api/v1/leads with optional session_id, category, status,
// limit and offset query parameters.
func (h *LeadHandler) List(c *gin.Context) {
	filter := repository.LeadFilter{
		SessionID: c.Query("session_id"),
		Category:  c.Query("category"),
	}
	if status := c.Query("status"); status != "" {
		s := domain.CooperationStatus(status)
		if !domain.ValidStatus(s) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown status: " + status,
			})
			return
		}
		filter.Status = s
	}
	if limit := c.Query("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			filter.Limit = n
		}
	}
	if offset := c.Query("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil {
			filter.Offset = n
		}
	}

	leads, total, err := h.leads.ListLeads(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list leads: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leads": leads,
		"total": total,
	})
}

// Get handles GET /api/v1/leads/:id.
func (h *LeadHandler) Get(c *gin.Context) {
	lead, err := h.leads.GetLead(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get lead: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, lead)
}

// StatusRequest is the body of PATCH /api/v1/leads/:id/status.
type StatusRequest struct {
	Status domain.CooperationStatus `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/v1/leads/:id/status.
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}
	if !domain.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown status: " + string(req.Status),
		})
		return
	}

	if err := h.leads.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update status: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     c.Param("id"),
		"status": req.Status,
	})
}

// Sessions handles GET /api/v1/sessions.
func (h *LeadHandler) Sessions(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	sessions, err := h.leads.ListSessions(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list sessions: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"total":    len(sessions),
	})
}
