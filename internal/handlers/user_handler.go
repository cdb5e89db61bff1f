package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"public-notepad/internal/auth"
	"public-notepad/internal/services"
)

// UserHandler handles profile and follow endpoints
type UserHandler struct {
	userService   *services.UserService
	ideaService   *services.IdeaService
	followService *services.FollowService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, ideaService *services.IdeaService, followService *services.FollowService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		ideaService:   ideaService,
		followService: followService,
	}
}

// GetUser returns a public profile with aggregate stats
// GET /api/users/:address
func (h *UserHandler) GetUser(c *gin.Context) {
	address := c.Param("address")

	user, err := h.userService.GetUserByWallet(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.userService.GetUserStats(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":  user,
			"stats": stats,
		},
	})
}

// UpdateProfile updates the caller's own profile
// PUT /api/users/:address
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	wallet, _ := auth.GetWalletAddress(c)
	if !strings.EqualFold(wallet, c.Param("address")) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "cannot update another user's profile"})
		return
	}

	var req struct {
		Username  *string `json:"username"`
		Bio       *string `json:"bio"`
		AvatarURL *string `json:"avatar_url"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
		Username:  req.Username,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// GetUserIdeas lists a user's active ideas, newest first
// GET /api/users/:address/ideas
func (h *UserHandler) GetUserIdeas(c *gin.Context) {
	user, err := h.userService.GetUserByWallet(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.ideaService.ListUserIdeas(c.Request.Context(), user.ID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// FollowUser makes the caller follow the addressed user
// POST /api/users/:address/follow
func (h *UserHandler) FollowUser(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	target, err := h.userService.GetUserByWallet(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}

	follow, err := h.followService.Follow(c.Request.Context(), userID, target.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    follow,
	})
}

// UnfollowUser removes the caller's follow on the addressed user
// DELETE /api/users/:address/follow
func (h *UserHandler) UnfollowUser(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	target, err := h.userService.GetUserByWallet(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}

	removed, err := h.followService.Unfollow(c.Request.Context(), userID, target.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not following this user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Unfollowed successfully",
	})
}

// GetFollowers lists the addressed user's followers
// GET /api/users/:address/followers
func (h *UserHandler) GetFollowers(c *gin.Context) {
	user, err := h.userService.GetUserByWallet(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}

	followers, err := h.followService.ListFollowers(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    followers,
		"count":   len(followers),
	})
}

// GetFollowing lists who the addressed user follows
// GET /api/users/:address/following
func (h *UserHandler) GetFollowing(c *gin.Context) {
	user, err := h.userService.GetUserByWallet(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}

	following, err := h.followService.ListFollowing(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    following,
		"count":   len(following),
	})
}
