package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"public-notepad/internal/models"
)

// ReactionResult is the outcome of a React call: either a created row or an
// explicit removed signal when a toggle flipped the reaction off.
type ReactionResult struct {
	Removed     bool                `json:"removed"`
	Interaction *models.Interaction `json:"interaction,omitempty"`
}

// InteractionWithUser is one interaction row enriched with actor identity.
type InteractionWithUser struct {
	models.Interaction
	WalletAddress string  `json:"wallet_address"`
	Username      *string `json:"username,omitempty"`
}

// InteractionService governs the per-(idea,user,type) reaction state machine
type InteractionService struct {
	db       *gorm.DB
	notifier *NotificationService
}

// NewInteractionService creates a new InteractionService
func NewInteractionService(db *gorm.DB, notifier *NotificationService) *InteractionService {
	return &InteractionService{db: db, notifier: notifier}
}

// React records a reaction on an idea. Likes, builds and shares toggle:
// reacting while absent creates the row, reacting while present removes it.
// Comments always append and must carry content. The whole operation runs in
// one transaction; a duplicate-key race on insert means a concurrent request
// already flipped the state and is resolved instead of surfaced.
func (s *InteractionService) React(ctx context.Context, ideaID, userID uint, typ models.InteractionType, content string) (*ReactionResult, error) {
	if !models.ValidInteractionType(typ) {
		return nil, ValidationError("unknown interaction type")
	}

	content = strings.TrimSpace(content)
	if typ == models.InteractionComment {
		if content == "" {
			return nil, ValidationError("comment content is required")
		}
		if len(content) > 500 {
			return nil, ValidationError("comment cannot exceed 500 characters")
		}
	} else {
		content = ""
	}

	var idea models.Idea
	var result ReactionResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_active = ?", ideaID, true).First(&idea).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("idea not found")
			}
			return storeError("failed to fetch idea", err)
		}

		if typ.Toggleable() {
			res := tx.Where("idea_id = ? AND user_id = ? AND interaction_type = ?", ideaID, userID, typ).
				Delete(&models.Interaction{})
			if res.Error != nil {
				return storeError("failed to remove interaction", res.Error)
			}
			if res.RowsAffected > 0 {
				result.Removed = true
				return nil
			}
		}

		interaction := models.Interaction{
			IdeaID: ideaID,
			UserID: userID,
			Type:   typ,
		}
		if content != "" {
			interaction.Content = &content
		}

		if err := tx.Create(&interaction).Error; err != nil {
			// Bubble the duplicate up; the transaction is already doomed.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			return storeError("failed to create interaction", err)
		}

		result.Interaction = &interaction
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent request created the row between our delete and
			// insert. The reaction is present, which is what the caller asked
			// for: report the existing row instead of a constraint error.
			return s.resolveToggleRace(ctx, ideaID, userID, typ)
		}
		return nil, err
	}

	if result.Removed {
		log.Printf("Interaction removed: type=%s idea=%d user=%d", typ, ideaID, userID)
		return &result, nil
	}

	log.Printf("Interaction created: id=%d type=%s idea=%d user=%d", result.Interaction.ID, typ, ideaID, userID)

	// Best-effort fan-out; self-interactions stay silent and failures never
	// roll back the reaction.
	s.notifier.NotifyInteraction(ctx, userID, &idea, typ)

	return &result, nil
}

func (s *InteractionService) resolveToggleRace(ctx context.Context, ideaID, userID uint, typ models.InteractionType) (*ReactionResult, error) {
	var existing models.Interaction
	err := s.db.WithContext(ctx).
		Where("idea_id = ? AND user_id = ? AND interaction_type = ?", ideaID, userID, typ).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Flipped off again in the meantime; absent is a valid terminal state.
			return &ReactionResult{Removed: true}, nil
		}
		return nil, storeError("failed to resolve interaction conflict", err)
	}
	return &ReactionResult{Interaction: &existing}, nil
}

// ListInteractions returns an idea's interactions newest first, optionally
// restricted to one type.
func (s *InteractionService) ListInteractions(ctx context.Context, ideaID uint, typ *models.InteractionType) ([]InteractionWithUser, error) {
	if typ != nil && !models.ValidInteractionType(*typ) {
		return nil, ValidationError("unknown interaction type")
	}

	query := s.db.WithContext(ctx).Model(&models.Interaction{}).
		Select("interactions.*, users.wallet_address, users.username").
		Joins("LEFT JOIN users ON users.id = interactions.user_id").
		Where("interactions.idea_id = ?", ideaID)
	if typ != nil {
		query = query.Where("interactions.interaction_type = ?", *typ)
	}

	var rows []InteractionWithUser
	if err := query.Order("interactions.created_at DESC, interactions.id DESC").Find(&rows).Error; err != nil {
		return nil, storeError("failed to list interactions", err)
	}
	return rows, nil
}

// GetStats aggregates per-type counts for one idea, zero-defaulted.
func (s *InteractionService) GetStats(ctx context.Context, ideaID uint) (*models.InteractionStats, error) {
	var rows []struct {
		Type  models.InteractionType `gorm:"column:interaction_type"`
		Count int64
	}

	err := s.db.WithContext(ctx).Model(&models.Interaction{}).
		Select("interaction_type, COUNT(*) AS count").
		Where("idea_id = ?", ideaID).
		Group("interaction_type").
		Find(&rows).Error
	if err != nil {
		return nil, storeError("failed to aggregate interaction stats", err)
	}

	stats := &models.InteractionStats{}
	for _, row := range rows {
		switch row.Type {
		case models.InteractionLike:
			stats.Likes = row.Count
		case models.InteractionComment:
			stats.Comments = row.Count
		case models.InteractionBuild:
			stats.Builds = row.Count
		case models.InteractionShare:
			stats.Shares = row.Count
		}
	}
	return stats, nil
}

// GetUserInteraction looks up one user's reaction of a given type on an
// idea. A nil result means the reaction is absent.
func (s *InteractionService) GetUserInteraction(ctx context.Context, ideaID, userID uint, typ models.InteractionType) (*models.Interaction, error) {
	var interaction models.Interaction
	err := s.db.WithContext(ctx).
		Where("idea_id = ? AND user_id = ? AND interaction_type = ?", ideaID, userID, typ).
		First(&interaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeError("failed to fetch interaction", err)
	}
	return &interaction, nil
}
