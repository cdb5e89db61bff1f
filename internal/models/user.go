package models

import (
	"time"
)

// User represents a wallet-identified user. The lowercased wallet address is
// the canonical identity; accounts are deactivated, never hard-deleted.
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	WalletAddress string     `gorm:"uniqueIndex;size:64;not null" json:"wallet_address"`
	Username      *string    `gorm:"uniqueIndex;size:50" json:"username,omitempty"`
	Bio           *string    `gorm:"size:500" json:"bio,omitempty"`
	AvatarURL     *string    `gorm:"size:500" json:"avatar_url,omitempty"`
	IsActive      bool       `gorm:"not null;default:true;index" json:"is_active"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// DisplayName returns the username if set, otherwise a generic placeholder
// used in notification titles.
func (u *User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return "Someone"
}
