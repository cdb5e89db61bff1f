package models

import (
	"time"
)

type InteractionType string

const (
	InteractionLike    InteractionType = "like"
	InteractionComment InteractionType = "comment"
	InteractionBuild   InteractionType = "build"
	InteractionShare   InteractionType = "share"
)

// ValidInteractionType reports whether t is one of the known reaction types.
func ValidInteractionType(t InteractionType) bool {
	switch t {
	case InteractionLike, InteractionComment, InteractionBuild, InteractionShare:
		return true
	}
	return false
}

// Toggleable reports whether repeated reactions of this type alternate
// between present and absent. Comments accumulate instead.
func (t InteractionType) Toggleable() bool {
	return t != InteractionComment
}

// Interaction is a typed reaction from one user to one idea. The partial
// unique index is the authoritative race-resolution mechanism for toggles:
// at most one row per (idea, user, type) for non-comment types.
type Interaction struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	IdeaID  uint            `gorm:"not null;index;uniqueIndex:idx_interactions_reaction" json:"idea_id"`
	UserID  uint            `gorm:"not null;index;uniqueIndex:idx_interactions_reaction" json:"user_id"`
	Type    InteractionType `gorm:"column:interaction_type;size:20;not null;uniqueIndex:idx_interactions_reaction,where:interaction_type <> 'comment'" json:"type"`
	Content *string         `gorm:"size:500" json:"content,omitempty"`
	User    *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Interaction model
func (Interaction) TableName() string {
	return "interactions"
}

// InteractionStats aggregates per-type engagement counts for one idea.
// All counts default to zero when no rows exist.
type InteractionStats struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Builds   int64 `json:"builds"`
	Shares   int64 `json:"shares"`
}
