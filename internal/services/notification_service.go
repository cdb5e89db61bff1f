package services

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"public-notepad/internal/models"
)

// NotificationWithContext is one inbox row enriched with the related actor's
// username and the related idea's title.
type NotificationWithContext struct {
	models.Notification
	RelatedUsername  *string `json:"related_username,omitempty"`
	RelatedIdeaTitle *string `json:"related_idea_title,omitempty"`
}

// NotificationPage is a page of inbox rows with pagination metadata.
type NotificationPage struct {
	Notifications []NotificationWithContext `json:"notifications"`
	Pagination    Pagination                `json:"pagination"`
}

// NotificationService derives notifications from accepted events and serves
// the recipient's inbox. Fan-out is best-effort: write failures are logged
// and never escalate to the originating action.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// NotifyInteraction fans an accepted interaction out to the idea's owner.
// Self-interactions never produce a notification.
func (s *NotificationService) NotifyInteraction(ctx context.Context, actorID uint, idea *models.Idea, typ models.InteractionType) {
	if idea.UserID == actorID {
		return
	}

	var actor models.User
	if err := s.db.WithContext(ctx).First(&actor, actorID).Error; err != nil {
		log.Printf("Warning: failed to load actor %d for notification: %v", actorID, err)
		return
	}

	name := actor.DisplayName()
	var title string
	switch typ {
	case models.InteractionLike:
		title = fmt.Sprintf("%s liked your idea", name)
	case models.InteractionComment:
		title = fmt.Sprintf("%s commented on your idea", name)
	case models.InteractionBuild:
		title = fmt.Sprintf("%s wants to build your idea", name)
	case models.InteractionShare:
		title = fmt.Sprintf("%s shared your idea", name)
	default:
		title = fmt.Sprintf("%s interacted with your idea", name)
	}

	content := fmt.Sprintf("%q", idea.Title)
	notification := models.Notification{
		UserID:        idea.UserID,
		Type:          models.NotificationType(typ),
		Title:         title,
		Content:       &content,
		RelatedUserID: &actor.ID,
		RelatedIdeaID: &idea.ID,
	}

	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to create interaction notification for user %d: %v", idea.UserID, err)
		return
	}

	log.Printf("Interaction notification created: id=%d type=%s idea=%d target=%d", notification.ID, typ, idea.ID, idea.UserID)
}

// NotifyMint tells the owner their idea was minted. Fixed title, no actor.
func (s *NotificationService) NotifyMint(ctx context.Context, idea *models.Idea) {
	content := fmt.Sprintf("%q is now permanently stored on the blockchain.", idea.Title)
	notification := models.Notification{
		UserID:        idea.UserID,
		Type:          models.NotificationMint,
		Title:         "Your idea has been minted as an NFT!",
		Content:       &content,
		RelatedIdeaID: &idea.ID,
	}

	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to create mint notification for idea %d: %v", idea.ID, err)
		return
	}

	log.Printf("Mint notification created: id=%d idea=%d user=%d", notification.ID, idea.ID, idea.UserID)
}

// NotifyFollow tells a user they gained a follower.
func (s *NotificationService) NotifyFollow(ctx context.Context, followerID, followedID uint) {
	if followerID == followedID {
		return
	}

	var follower models.User
	if err := s.db.WithContext(ctx).First(&follower, followerID).Error; err != nil {
		log.Printf("Warning: failed to load follower %d for notification: %v", followerID, err)
		return
	}

	notification := models.Notification{
		UserID:        followedID,
		Type:          models.NotificationFollow,
		Title:         fmt.Sprintf("%s started following you", follower.DisplayName()),
		RelatedUserID: &follower.ID,
	}

	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to create follow notification for user %d: %v", followedID, err)
		return
	}

	log.Printf("Follow notification created: id=%d follower=%d followed=%d", notification.ID, followerID, followedID)
}

// ListNotifications returns one page of a user's inbox, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uint, unreadOnly bool, page, limit int) (*NotificationPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	base := s.db.WithContext(ctx).Model(&models.Notification{}).Where("notifications.user_id = ?", userID)
	if unreadOnly {
		base = base.Where("notifications.is_read = ?", false)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, storeError("failed to count notifications", err)
	}

	var rows []NotificationWithContext
	err := base.Session(&gorm.Session{}).
		Select("notifications.*, related_users.username AS related_username, related_ideas.title AS related_idea_title").
		Joins("LEFT JOIN users related_users ON related_users.id = notifications.related_user_id").
		Joins("LEFT JOIN ideas related_ideas ON related_ideas.id = notifications.related_idea_id").
		Order("notifications.created_at DESC, notifications.id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error
	if err != nil {
		return nil, storeError("failed to list notifications", err)
	}

	pages := (total + int64(limit) - 1) / int64(limit)
	return &NotificationPage{
		Notifications: rows,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// MarkRead flips the read flag if the notification belongs to the caller.
// Returns false when no matching row exists.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uint) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return false, storeError("failed to mark notification read", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// MarkAllRead flips every unread row for a user and reports how many.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, storeError("failed to mark notifications read", res.Error)
	}
	return res.RowsAffected, nil
}

// UnreadCount counts a user's unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, storeError("failed to count unread notifications", err)
	}
	return count, nil
}
