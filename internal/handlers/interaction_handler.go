package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"public-notepad/internal/auth"
	"public-notepad/internal/models"
	"public-notepad/internal/services"
)

// InteractionHandler handles reaction endpoints
type InteractionHandler struct {
	interactionService *services.InteractionService
}

// NewInteractionHandler creates a new InteractionHandler
func NewInteractionHandler(interactionService *services.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// CreateInteraction records a reaction; likes, builds and shares toggle,
// comments accumulate.
// POST /api/ideas/:id/interactions
func (h *InteractionHandler) CreateInteraction(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	ideaID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Type    string `json:"type" binding:"required"`
		Content string `json:"content"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.interactionService.React(c.Request.Context(), ideaID, userID, models.InteractionType(req.Type), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Removed {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"removed": true},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Interaction,
	})
}

// GetInteractions lists an idea's interactions, newest first
// GET /api/ideas/:id/interactions
func (h *InteractionHandler) GetInteractions(c *gin.Context) {
	ideaID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var typ *models.InteractionType
	if raw := c.Query("type"); raw != "" {
		t := models.InteractionType(raw)
		typ = &t
	}

	interactions, err := h.interactionService.ListInteractions(c.Request.Context(), ideaID, typ)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    interactions,
	})
}

// GetInteractionStats returns per-type engagement counts for an idea
// GET /api/ideas/:id/stats
func (h *InteractionHandler) GetInteractionStats(c *gin.Context) {
	ideaID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.interactionService.GetStats(c.Request.Context(), ideaID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
