package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"public-notepad/internal/models"
)

// FollowService manages follow relationships between users
type FollowService struct {
	db       *gorm.DB
	notifier *NotificationService
}

// NewFollowService creates a new FollowService
func NewFollowService(db *gorm.DB, notifier *NotificationService) *FollowService {
	return &FollowService{db: db, notifier: notifier}
}

// Follow makes followerID follow followedID. Following yourself is rejected;
// following someone twice is resolved as a no-op via the unique pair index.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID uint) (*models.Follow, error) {
	if followerID == followedID {
		return nil, ValidationError("cannot follow yourself")
	}

	var followed models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", followedID, true).First(&followed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("user not found")
		}
		return nil, storeError("failed to fetch user", err)
	}

	follow := models.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
	}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Already following; return the existing row.
			var existing models.Follow
			if err := s.db.WithContext(ctx).
				Where("follower_id = ? AND followed_id = ?", followerID, followedID).
				First(&existing).Error; err != nil {
				return nil, storeError("failed to resolve follow conflict", err)
			}
			return &existing, nil
		}
		return nil, storeError("failed to create follow", err)
	}

	log.Printf("Follow created: follower=%d followed=%d", followerID, followedID)

	s.notifier.NotifyFollow(ctx, followerID, followedID)

	return &follow, nil
}

// Unfollow removes the relationship. Returns false when it did not exist.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, storeError("failed to delete follow", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListFollowers returns the users following userID.
func (s *FollowService) ListFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ? AND users.is_active = ?", userID, true).
		Order("follows.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, storeError("failed to list followers", err)
	}
	return users, nil
}

// ListFollowing returns the users userID follows.
func (s *FollowService) ListFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ? AND users.is_active = ?", userID, true).
		Order("follows.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, storeError("failed to list following", err)
	}
	return users, nil
}
