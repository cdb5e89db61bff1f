package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"public-notepad/internal/models"
)

// UserStats aggregates a user's footprint across ideas, interactions and
// follows. Computed fresh per request.
type UserStats struct {
	IdeasCount           int64 `json:"ideas_count"`
	MintedIdeasCount     int64 `json:"minted_ideas_count"`
	InteractionsGiven    int64 `json:"interactions_given"`
	InteractionsReceived int64 `json:"interactions_received"`
	FollowersCount       int64 `json:"followers_count"`
	FollowingCount       int64 `json:"following_count"`
}

// UpdateProfileInput carries the mutable profile fields; nil means unchanged.
type UpdateProfileInput struct {
	Username  *string
	Bio       *string
	AvatarURL *string
}

// UserService handles user-related business logic
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves an active user by ID
func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("user not found")
		}
		return nil, storeError("failed to fetch user", err)
	}
	return &user, nil
}

// GetUserByWallet retrieves an active user by wallet address.
func (s *UserService) GetUserByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	var user models.User
	address := strings.ToLower(strings.TrimSpace(walletAddress))
	if err := s.db.WithContext(ctx).Where("wallet_address = ? AND is_active = ?", address, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("user not found")
		}
		return nil, storeError("failed to fetch user", err)
	}
	return &user, nil
}

// UpdateProfile updates the caller's own profile fields. Usernames stay
// unique across active users.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*models.User, error) {
	updates := map[string]interface{}{}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if len(username) < 3 || len(username) > 50 {
			return nil, ValidationError("username must be between 3 and 50 characters")
		}

		var existing models.User
		err := s.db.WithContext(ctx).Where("username = ? AND id <> ?", username, userID).First(&existing).Error
		if err == nil {
			return nil, ValidationError("username already taken")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storeError("failed to check username", err)
		}
		updates["username"] = username
	}
	if input.Bio != nil {
		if len(*input.Bio) > 500 {
			return nil, ValidationError("bio cannot exceed 500 characters")
		}
		updates["bio"] = *input.Bio
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = *input.AvatarURL
	}

	if len(updates) == 0 {
		return nil, ValidationError("no valid fields to update")
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_active = ?", userID, true).
		Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ValidationError("username already taken")
		}
		return nil, storeError("failed to update profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, NotFoundError("user not found")
	}

	log.Printf("User profile updated: user=%d", userID)
	return s.GetUserByID(ctx, userID)
}

// GetUserStats computes a user's aggregate footprint.
func (s *UserService) GetUserStats(ctx context.Context, userID uint) (*UserStats, error) {
	stats := &UserStats{}
	db := s.db.WithContext(ctx)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.IdeasCount, db.Model(&models.Idea{}).Where("user_id = ? AND is_active = ?", userID, true)},
		{&stats.MintedIdeasCount, db.Model(&models.Idea{}).Where("user_id = ? AND is_active = ? AND minted_at IS NOT NULL", userID, true)},
		{&stats.InteractionsGiven, db.Model(&models.Interaction{}).Where("user_id = ?", userID)},
		{&stats.InteractionsReceived, db.Model(&models.Interaction{}).
			Where("idea_id IN (SELECT id FROM ideas WHERE user_id = ? AND is_active = ?)", userID, true)},
		{&stats.FollowersCount, db.Model(&models.Follow{}).Where("followed_id = ?", userID)},
		{&stats.FollowingCount, db.Model(&models.Follow{}).Where("follower_id = ?", userID)},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, storeError("failed to compute user stats", err)
		}
	}
	return stats, nil
}

// Deactivate soft-deletes a user account.
func (s *UserService) Deactivate(ctx context.Context, userID uint) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_active = ?", userID, true).
		Update("is_active", false)
	if res.Error != nil {
		return false, storeError("failed to deactivate user", res.Error)
	}
	return res.RowsAffected > 0, nil
}
