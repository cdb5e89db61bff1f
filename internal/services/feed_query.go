package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	SortCreatedAt        = "created_at"
	SortUpdatedAt        = "updated_at"
	SortMintedAt         = "minted_at"
	SortInteractionCount = "interaction_count"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// FeedFilter is a structured listing request. Zero values mean "no filter";
// Minted is a tri-state (nil = both, true = minted only, false = unminted only).
type FeedFilter struct {
	Search   string
	Category string
	Tags     []string
	Author   string
	Minted   *bool

	Sort  string
	Order string
	Page  int
	Limit int
}

// Normalize clamps pagination and sorting to documented defaults instead of
// failing the request. Unknown sort keys fall back to created_at.
func (f *FeedFilter) Normalize() {
	switch f.Sort {
	case SortCreatedAt, SortUpdatedAt, SortMintedAt, SortInteractionCount:
	default:
		f.Sort = SortCreatedAt
	}

	if strings.ToLower(f.Order) == OrderAsc {
		f.Order = OrderAsc
	} else {
		f.Order = OrderDesc
	}

	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}

	f.Author = strings.ToLower(strings.TrimSpace(f.Author))
}

// Offset returns the row offset for the normalized page window.
func (f *FeedFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// OrderClause builds the ORDER BY for the normalized sort. The id tiebreaker
// keeps pagination stable when sort-key values collide. Safe to interpolate:
// Normalize restricts both parts to fixed allowlists.
func (f *FeedFilter) OrderClause() string {
	dir := "DESC"
	if f.Order == OrderAsc {
		dir = "ASC"
	}
	col := "ideas." + f.Sort
	if f.Sort == SortInteractionCount {
		col = SortInteractionCount
	}
	return fmt.Sprintf("%s %s, ideas.id DESC", col, dir)
}

// predicate is one compiled filter condition. Each variant applies a
// parameterized WHERE clause; the same predicate list drives both the page
// query and the total count so the two can never diverge.
type predicate interface {
	apply(db *gorm.DB) *gorm.DB
}

// searchPredicate matches title or content by case-insensitive substring.
type searchPredicate struct {
	term string
}

func (p searchPredicate) apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + strings.ToLower(p.term) + "%"
	return db.Where("lower(ideas.title) LIKE ? OR lower(ideas.content) LIKE ?", pattern, pattern)
}

// categoryPredicate matches the category exactly.
type categoryPredicate struct {
	category string
}

func (p categoryPredicate) apply(db *gorm.DB) *gorm.DB {
	return db.Where("ideas.category = ?", p.category)
}

// tagPredicate matches when the idea's tag set intersects the requested set.
type tagPredicate struct {
	tags []string
}

func (p tagPredicate) apply(db *gorm.DB) *gorm.DB {
	return db.Where("ideas.id IN (SELECT idea_id FROM idea_tags WHERE tag IN ?)", p.tags)
}

// authorPredicate matches ideas owned by the given wallet address.
type authorPredicate struct {
	wallet string
}

func (p authorPredicate) apply(db *gorm.DB) *gorm.DB {
	return db.Where("ideas.user_id IN (SELECT id FROM users WHERE wallet_address = ?)", p.wallet)
}

// mintedPredicate restricts to minted or unminted ideas.
type mintedPredicate struct {
	minted bool
}

func (p mintedPredicate) apply(db *gorm.DB) *gorm.DB {
	if p.minted {
		return db.Where("ideas.minted_at IS NOT NULL")
	}
	return db.Where("ideas.minted_at IS NULL")
}

// predicates compiles the populated filter fields into predicate variants.
func (f *FeedFilter) predicates() []predicate {
	var preds []predicate
	if strings.TrimSpace(f.Search) != "" {
		preds = append(preds, searchPredicate{term: strings.TrimSpace(f.Search)})
	}
	if f.Category != "" {
		preds = append(preds, categoryPredicate{category: f.Category})
	}
	if len(f.Tags) > 0 {
		tags := make([]string, 0, len(f.Tags))
		for _, t := range f.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		if len(tags) > 0 {
			preds = append(preds, tagPredicate{tags: tags})
		}
	}
	if f.Author != "" {
		preds = append(preds, authorPredicate{wallet: f.Author})
	}
	if f.Minted != nil {
		preds = append(preds, mintedPredicate{minted: *f.Minted})
	}
	return preds
}

// Scope applies every compiled predicate plus the active-only guard.
func (f *FeedFilter) Scope(db *gorm.DB) *gorm.DB {
	db = db.Where("ideas.is_active = ?", true)
	for _, p := range f.predicates() {
		db = p.apply(db)
	}
	return db
}
