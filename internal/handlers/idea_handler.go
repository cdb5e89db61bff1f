package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"public-notepad/internal/auth"
	"public-notepad/internal/ipfs"
	"public-notepad/internal/models"
	"public-notepad/internal/services"
)

// IdeaHandler handles idea feed and lifecycle endpoints
type IdeaHandler struct {
	ideaService        *services.IdeaService
	interactionService *services.InteractionService
	ipfsClient         *ipfs.Client
}

// NewIdeaHandler creates a new IdeaHandler
func NewIdeaHandler(ideaService *services.IdeaService, interactionService *services.InteractionService, ipfsClient *ipfs.Client) *IdeaHandler {
	return &IdeaHandler{
		ideaService:        ideaService,
		interactionService: interactionService,
		ipfsClient:         ipfsClient,
	}
}

// parseFeedFilter maps query parameters onto a FeedFilter. Out-of-range
// values are left for Normalize to clamp rather than rejected.
func parseFeedFilter(c *gin.Context) services.FeedFilter {
	filter := services.FeedFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Author:   c.Query("author"),
		Sort:     c.DefaultQuery("sort", services.SortCreatedAt),
		Order:    c.DefaultQuery("order", services.OrderDesc),
	}

	if tags := c.Query("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}
	if minted := c.Query("minted"); minted == "true" || minted == "false" {
		v := minted == "true"
		filter.Minted = &v
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return filter
}

// GetIdeas returns the filtered, sorted, paginated feed
// GET /api/ideas
func (h *IdeaHandler) GetIdeas(c *gin.Context) {
	page, err := h.ideaService.ListIdeas(c.Request.Context(), parseFeedFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    page,
	})
}

// GetIdea returns a single idea with engagement stats; when the request is
// authenticated it also reports whether the viewer has liked it.
// GET /api/ideas/:id
func (h *IdeaHandler) GetIdea(c *gin.Context) {
	ideaID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	idea, err := h.ideaService.GetIdea(c.Request.Context(), ideaID)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.interactionService.GetStats(c.Request.Context(), ideaID)
	if err != nil {
		respondError(c, err)
		return
	}

	userInteractions := gin.H{}
	if userID, exists := auth.GetUserID(c); exists {
		like, err := h.interactionService.GetUserInteraction(c.Request.Context(), ideaID, userID, models.InteractionLike)
		if err == nil {
			userInteractions["has_liked"] = like != nil
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"idea":              idea,
			"stats":             stats,
			"user_interactions": userInteractions,
		},
	})
}

// CreateIdea publishes a new idea, pinning its metadata to IPFS first when
// pinning is configured.
// POST /api/ideas
func (h *IdeaHandler) CreateIdea(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	var req struct {
		Title    string   `json:"title" binding:"required"`
		Content  string   `json:"content" binding:"required"`
		Category string   `json:"category"`
		Tags     []string `json:"tags"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var ipfsHash, ipfsURL string
	if h.ipfsClient.Enabled() {
		wallet, _ := auth.GetWalletAddress(c)
		metadata := gin.H{
			"title":      req.Title,
			"content":    req.Content,
			"category":   req.Category,
			"tags":       req.Tags,
			"creator":    wallet,
			"created_at": time.Now().Format(time.RFC3339),
			"version":    "1.0",
		}

		name := req.Title
		if len(name) > 30 {
			name = name[:30]
		}
		pin, err := h.ipfsClient.PinJSON(c.Request.Context(), "idea-"+name, map[string]string{
			"creator": wallet,
			"type":    "idea-metadata",
		}, metadata)
		if err != nil {
			// The idea is still publishable without a pin.
			log.Printf("Warning: IPFS pin failed for user %d: %v", userID, err)
		} else {
			ipfsHash = pin.Hash
			ipfsURL = pin.URL
		}
	}

	idea, err := h.ideaService.CreateIdea(c.Request.Context(), services.CreateIdeaInput{
		UserID:   userID,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
		IPFSHash: ipfsHash,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"success": true,
		"data":    idea,
	}
	if ipfsURL != "" {
		resp["ipfs_url"] = ipfsURL
	}
	c.JSON(http.StatusCreated, resp)
}

// RecordMint attaches mint metadata after an external mint confirmation
// POST /api/ideas/:id/mint
func (h *IdeaHandler) RecordMint(c *gin.Context) {
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
		TokenID         string `json:"token_id" binding:"required"`
		TransactionHash string `json:"transaction_hash" binding:"required"`
		ContractAddress string `json:"contract_address" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	idea, err := h.ideaService.RecordMint(c.Request.Context(), ideaID, userID, req.TokenID, req.TransactionHash, req.ContractAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    idea,
	})
}

// DeleteIdea soft-deletes an idea owned by the caller
// DELETE /api/ideas/:id
func (h *IdeaHandler) DeleteIdea(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	ideaID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ideaService.DeleteIdea(c.Request.Context(), ideaID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Idea deleted successfully",
	})
}

// parseIDParam parses a numeric path parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
