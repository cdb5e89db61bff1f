package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"

	"public-notepad/internal/models"
)

var txHashPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)

// ideaSelect enriches each row with the author identity and fresh per-type
// engagement counts aggregated from the interactions table. Counts are never
// cached, so they always reflect the table state at query time.
const ideaSelect = `ideas.*, users.wallet_address, users.username,
	COALESCE(agg.interaction_count, 0) AS interaction_count,
	COALESCE(agg.likes_count, 0) AS likes_count,
	COALESCE(agg.comments_count, 0) AS comments_count,
	COALESCE(agg.builds_count, 0) AS builds_count`

const interactionAggJoin = `LEFT JOIN (
	SELECT idea_id,
		COUNT(*) AS interaction_count,
		SUM(CASE WHEN interaction_type = 'like' THEN 1 ELSE 0 END) AS likes_count,
		SUM(CASE WHEN interaction_type = 'comment' THEN 1 ELSE 0 END) AS comments_count,
		SUM(CASE WHEN interaction_type = 'build' THEN 1 ELSE 0 END) AS builds_count
	FROM interactions GROUP BY idea_id
) agg ON agg.idea_id = ideas.id`

// IdeaWithStats is one feed row: the idea plus author identity and
// engagement counts.
type IdeaWithStats struct {
	models.Idea
	WalletAddress    string   `json:"wallet_address"`
	Username         *string  `json:"username,omitempty"`
	InteractionCount int64    `json:"interaction_count"`
	LikesCount       int64    `json:"likes_count"`
	CommentsCount    int64    `json:"comments_count"`
	BuildsCount      int64    `json:"builds_count"`
	TagNames         []string `gorm:"-" json:"tags"`
}

// Pagination describes the page window of a listing response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// IdeaPage is a page of feed rows with pagination metadata.
type IdeaPage struct {
	Ideas      []IdeaWithStats `json:"ideas"`
	Pagination Pagination      `json:"pagination"`
}

// CreateIdeaInput carries a new idea. The IPFS hash is produced by the
// external pinning service and supplied here as an opaque input.
type CreateIdeaInput struct {
	UserID   uint
	Title    string
	Content  string
	Category string
	Tags     []string
	IPFSHash string
}

// IdeaService handles idea listing, creation, minting and deletion
type IdeaService struct {
	db       *gorm.DB
	notifier *NotificationService
}

// NewIdeaService creates a new IdeaService
func NewIdeaService(db *gorm.DB, notifier *NotificationService) *IdeaService {
	return &IdeaService{db: db, notifier: notifier}
}

// ListIdeas returns one page of the filtered feed. The total count is
// computed over the same predicate set as the page itself.
func (s *IdeaService) ListIdeas(ctx context.Context, filter FeedFilter) (*IdeaPage, error) {
	filter.Normalize()
	return s.queryIdeaPage(ctx, filter.Scope, filter.OrderClause(), filter.Page, filter.Limit)
}

// ListUserIdeas returns one page of a single user's active ideas, newest first.
func (s *IdeaService) ListUserIdeas(ctx context.Context, userID uint, page, limit int) (*IdeaPage, error) {
	filter := FeedFilter{Page: page, Limit: limit}
	filter.Normalize()
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("ideas.user_id = ? AND ideas.is_active = ?", userID, true)
	}
	return s.queryIdeaPage(ctx, scope, filter.OrderClause(), filter.Page, filter.Limit)
}

func (s *IdeaService) queryIdeaPage(ctx context.Context, scope func(*gorm.DB) *gorm.DB, order string, page, limit int) (*IdeaPage, error) {
	var total int64
	if err := scope(s.db.WithContext(ctx).Model(&models.Idea{})).Count(&total).Error; err != nil {
		return nil, storeError("failed to count ideas", err)
	}

	var rows []IdeaWithStats
	err := scope(s.db.WithContext(ctx).Model(&models.Idea{})).
		Select(ideaSelect).
		Joins("LEFT JOIN users ON users.id = ideas.user_id").
		Joins(interactionAggJoin).
		Order(order).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error
	if err != nil {
		return nil, storeError("failed to list ideas", err)
	}

	if err := s.attachTags(ctx, rows); err != nil {
		return nil, err
	}

	pages := (total + int64(limit) - 1) / int64(limit)
	return &IdeaPage{
		Ideas: rows,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// GetIdea returns a single active idea with author identity and counts.
func (s *IdeaService) GetIdea(ctx context.Context, ideaID uint) (*IdeaWithStats, error) {
	var row IdeaWithStats
	err := s.db.WithContext(ctx).Model(&models.Idea{}).
		Select(ideaSelect).
		Joins("LEFT JOIN users ON users.id = ideas.user_id").
		Joins(interactionAggJoin).
		Where("ideas.id = ? AND ideas.is_active = ?", ideaID, true).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("idea not found")
		}
		return nil, storeError("failed to fetch idea", err)
	}

	rows := []IdeaWithStats{row}
	if err := s.attachTags(ctx, rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// CreateIdea validates and persists a new idea with its tag set.
func (s *IdeaService) CreateIdea(ctx context.Context, input CreateIdeaInput) (*models.Idea, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)

	if title == "" || len(title) > 200 {
		return nil, ValidationError("title must be between 1 and 200 characters")
	}
	if len(content) < 10 || len(content) > 2000 {
		return nil, ValidationError("content must be between 10 and 2000 characters")
	}

	category := input.Category
	if category == "" {
		category = "general"
	}
	if !models.ValidCategory(category) {
		return nil, ValidationError("unknown category")
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}

	idea := models.Idea{
		UserID:   input.UserID,
		Title:    title,
		Content:  content,
		Category: category,
		IsActive: true,
	}
	if input.IPFSHash != "" {
		hash := input.IPFSHash
		idea.IPFSHash = &hash
	}
	for _, tag := range tags {
		idea.Tags = append(idea.Tags, models.IdeaTag{Tag: tag})
	}

	if err := s.db.WithContext(ctx).Create(&idea).Error; err != nil {
		return nil, storeError("failed to create idea", err)
	}

	log.Printf("New idea created: id=%d user=%d", idea.ID, input.UserID)
	return &idea, nil
}

// RecordMint attaches an on-chain mint record to an idea. Mint fields are
// immutable: a second call is rejected with a conflict regardless of input.
func (s *IdeaService) RecordMint(ctx context.Context, ideaID, ownerID uint, tokenID, txHash, contractAddress string) (*models.Idea, error) {
	if strings.TrimSpace(tokenID) == "" {
		return nil, ValidationError("token id is required")
	}
	if !txHashPattern.MatchString(txHash) {
		return nil, ValidationError("invalid transaction hash format")
	}
	if !common.IsHexAddress(contractAddress) {
		return nil, ValidationError("invalid contract address format")
	}

	var idea models.Idea
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_active = ?", ideaID, true).First(&idea).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("idea not found")
			}
			return storeError("failed to fetch idea", err)
		}

		if idea.UserID != ownerID {
			return UnauthorizedError("only the idea owner can record a mint")
		}
		if idea.IsMinted() {
			return ConflictError("idea already minted")
		}

		now := time.Now()
		updates := map[string]interface{}{
			"token_id":         tokenID,
			"transaction_hash": txHash,
			"contract_address": strings.ToLower(contractAddress),
			"minted_at":        now,
		}
		if err := tx.Model(&idea).Updates(updates).Error; err != nil {
			return storeError("failed to record mint", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Idea minted: id=%d token=%s user=%d", ideaID, tokenID, ownerID)

	// Best-effort fan-out; never fails the mint.
	s.notifier.NotifyMint(ctx, &idea)

	return &idea, nil
}

// DeleteIdea soft-deletes an idea owned by the caller.
func (s *IdeaService) DeleteIdea(ctx context.Context, ideaID, ownerID uint) error {
	var idea models.Idea
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", ideaID, true).First(&idea).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("idea not found")
		}
		return storeError("failed to fetch idea", err)
	}
	if idea.UserID != ownerID {
		return UnauthorizedError("only the idea owner can delete it")
	}

	if err := s.db.WithContext(ctx).Model(&idea).Update("is_active", false).Error; err != nil {
		return storeError("failed to delete idea", err)
	}

	log.Printf("Idea deleted: id=%d user=%d", ideaID, ownerID)
	return nil
}

// attachTags loads tag rows for a page of ideas in one query.
func (s *IdeaService) attachTags(ctx context.Context, rows []IdeaWithStats) error {
	if len(rows) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(rows))
	for i := range rows {
		rows[i].TagNames = []string{}
		ids = append(ids, rows[i].ID)
	}

	var tags []models.IdeaTag
	if err := s.db.WithContext(ctx).Where("idea_id IN ?", ids).Order("tag ASC").Find(&tags).Error; err != nil {
		return storeError("failed to load tags", err)
	}

	byIdea := make(map[uint][]string, len(rows))
	for _, t := range tags {
		byIdea[t.IdeaID] = append(byIdea[t.IdeaID], t.Tag)
	}
	for i := range rows {
		if list, ok := byIdea[rows[i].ID]; ok {
			rows[i].TagNames = list
		}
	}
	return nil
}

// normalizeTags trims, drops empties, dedupes and bounds the tag set.
func normalizeTags(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		if len(t) > 30 {
			return nil, ValidationError("tags cannot exceed 30 characters")
		}
		seen[t] = true
		tags = append(tags, t)
	}
	if len(tags) > 10 {
		return nil, ValidationError("maximum 10 tags allowed")
	}
	return tags, nil
}
