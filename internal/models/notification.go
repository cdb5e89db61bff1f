package models

import (
	"time"
)

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationBuild   NotificationType = "build"
	NotificationShare   NotificationType = "share"
	NotificationMint    NotificationType = "mint"
	NotificationFollow  NotificationType = "follow"
)

// Notification is created only as a side effect of another entity's state
// change, never by its recipient.
type Notification struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	UserID        uint             `gorm:"not null;index" json:"user_id"`
	Type          NotificationType `gorm:"size:20;not null" json:"type"`
	Title         string           `gorm:"size:255;not null" json:"title"`
	Content       *string          `gorm:"size:500" json:"content,omitempty"`
	RelatedUserID *uint            `gorm:"index" json:"related_user_id,omitempty"`
	RelatedIdeaID *uint            `gorm:"index" json:"related_idea_id,omitempty"`
	IsRead        bool             `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt     time.Time        `json:"created_at"`
}

// TableName specifies the table name for Notification model
func (Notification) TableName() string {
	return "notifications"
}
