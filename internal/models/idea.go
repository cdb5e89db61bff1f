package models

import (
	"time"
)

// Idea categories form a closed set; anything else is rejected at validation.
var IdeaCategories = []string{
	"general",
	"technology",
	"business",
	"science",
	"arts",
	"social",
	"environment",
	"education",
	"health",
}

// ValidCategory reports whether c is one of the known idea categories.
func ValidCategory(c string) bool {
	for _, known := range IdeaCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Idea is a user-authored content item, optionally anchored to IPFS and
// optionally carrying an on-chain mint record. The mint fields are an
// all-or-nothing group and immutable once set.
type Idea struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	User            *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	Category        string     `gorm:"size:50;not null;default:general;index" json:"category"`
	Tags            []IdeaTag  `gorm:"foreignKey:IdeaID" json:"-"`
	IPFSHash        *string    `gorm:"size:100" json:"ipfs_hash,omitempty"`
	TokenID         *string    `gorm:"size:100" json:"token_id,omitempty"`
	TxHash          *string    `gorm:"column:transaction_hash;size:100" json:"transaction_hash,omitempty"`
	ContractAddress *string    `gorm:"size:64" json:"contract_address,omitempty"`
	MintedAt        *time.Time `gorm:"index" json:"minted_at,omitempty"`
	IsActive        bool       `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Idea model
func (Idea) TableName() string {
	return "ideas"
}

// IsMinted reports whether the idea already carries a mint record.
func (i *Idea) IsMinted() bool {
	return i.MintedAt != nil
}

// TagList flattens the tag rows into a plain string set.
func (i *Idea) TagList() []string {
	tags := make([]string, 0, len(i.Tags))
	for _, t := range i.Tags {
		tags = append(tags, t.Tag)
	}
	return tags
}

// IdeaTag is one tag on one idea. Tags live in a child table instead of a
// native array column so that set intersection compiles to a portable
// JOIN + IN across Postgres and the sqlite test rig.
type IdeaTag struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	IdeaID uint   `gorm:"not null;uniqueIndex:idx_idea_tags_pair" json:"-"`
	Tag    string `gorm:"size:30;not null;uniqueIndex:idx_idea_tags_pair;index" json:"tag"`
}

// TableName specifies the table name for IdeaTag model
func (IdeaTag) TableName() string {
	return "idea_tags"
}
