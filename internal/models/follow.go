package models

import (
	"time"
)

// Follow records that one user follows another. The composite unique index
// keeps the ordered pair unique; follower == followed is rejected before
// persistence.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follows_pair" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for Follow model
func (Follow) TableName() string {
	return "follows"
}
