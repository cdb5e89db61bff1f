package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"public-notepad/internal/auth"
	"public-notepad/internal/services"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// GenerateNonce returns a challenge message for the wallet to sign.
// POST /auth/nonce
func (h *AuthHandler) GenerateNonce(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"wallet_address" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if !auth.ValidWalletAddress(req.WalletAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid wallet address"})
		return
	}

	challenge := h.authService.GenerateNonce(req.WalletAddress)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": challenge})
}

// WalletLogin authenticates a user by verifying a personal_sign signature of
// the nonce challenge, then finds or creates the account.
// POST /auth/wallet
func (h *AuthHandler) WalletLogin(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"wallet_address" binding:"required"`
		Signature     string `json:"signature" binding:"required"`
		Message       string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if !auth.ValidWalletAddress(req.WalletAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid wallet address"})
		return
	}

	if !auth.VerifyPersonalSignature(req.Message, req.Signature, req.WalletAddress) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid signature"})
		return
	}

	user, err := h.authService.ProcessWalletLogin(c.Request.Context(), req.WalletAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.WalletAddress)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token": token,
			"user":  user,
		},
	})
}

// Logout handles user logout (stateless JWT — client-side only)
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// GetMe returns the currently authenticated user's profile with stats
// GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.userService.GetUserStats(c.Request.Context(), userID)
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
