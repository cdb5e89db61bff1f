package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"public-notepad/internal/models"
)

// AuthService handles authentication business logic
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates a new AuthService
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// ProcessWalletLogin finds or creates a user by wallet address. The address
// arrives already signature-verified; it is lowercased into canonical form
// here. Deactivated accounts cannot log back in.
func (s *AuthService) ProcessWalletLogin(ctx context.Context, walletAddress string) (*models.User, error) {
	address := strings.ToLower(strings.TrimSpace(walletAddress))

	var user models.User
	result := s.db.WithContext(ctx).Where("wallet_address = ?", address).First(&user)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		now := time.Now()
		user = models.User{
			WalletAddress: address,
			IsActive:      true,
			LastLoginAt:   &now,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Two first logins raced; the other one won.
				if err := s.db.WithContext(ctx).Where("wallet_address = ?", address).First(&user).Error; err != nil {
					return nil, storeError("failed to resolve login race", err)
				}
			} else {
				return nil, storeError("failed to create user", err)
			}
		}
		log.Printf("New user created: wallet=%s (ID: %d)", address, user.ID)
		return &user, nil
	}
	if result.Error != nil {
		return nil, storeError("database error", result.Error)
	}

	if !user.IsActive {
		return nil, UnauthorizedError("account is deactivated")
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		log.Printf("Warning: failed to update last login for user %d: %v", user.ID, err)
	}

	log.Printf("User logged in: wallet=%s (ID: %d)", address, user.ID)
	return &user, nil
}

// NonceChallenge is a one-shot message the wallet signs to authenticate.
type NonceChallenge struct {
	Message   string `json:"message"`
	Nonce     string `json:"nonce"`
	Timestamp int64  `json:"timestamp"`
}

// GenerateNonce builds the challenge message for a wallet to sign.
func (s *AuthService) GenerateNonce(walletAddress string) *NonceChallenge {
	nonce := uuid.NewString()
	now := time.Now()
	message := fmt.Sprintf(
		"Welcome to Public Notepad!\n\nPlease sign this message to authenticate.\n\nWallet: %s\nNonce: %s\nTimestamp: %d",
		walletAddress, nonce, now.UnixMilli(),
	)
	return &NonceChallenge{
		Message:   message,
		Nonce:     nonce,
		Timestamp: now.UnixMilli(),
	}
}
