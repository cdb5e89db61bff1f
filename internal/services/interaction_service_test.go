package services

import (
	"context"
	"fmt"
	"testing"

	"public-notepad/internal/models"
)

func TestLikeToggle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewInteractionService(db, NewNotificationService(db))

	owner := createTestUser(t, db, "0xaaa1", nil)
	actor := createTestUser(t, db, "0xbbb1", nil)
	idea := createTestIdea(t, db, owner.ID, "toggle target")

	countRows := func() int64 {
		var n int64
		db.Model(&models.Interaction{}).
			Where("idea_id = ? AND user_id = ? AND interaction_type = ?", idea.ID, actor.ID, models.InteractionLike).
			Count(&n)
		return n
	}

	// Odd invocations leave the row present, even invocations leave it absent.
	for i := 1; i <= 5; i++ {
		result, err := service.React(ctx, idea.ID, actor.ID, models.InteractionLike, "")
		if err != nil {
			t.Fatalf("React call %d failed: %v", i, err)
		}

		if i%2 == 1 {
			if result.Removed || result.Interaction == nil {
				t.Fatalf("call %d: expected created interaction, got removed=%v", i, result.Removed)
			}
			if got := countRows(); got != 1 {
				t.Fatalf("call %d: expected 1 row, got %d", i, got)
			}
		} else {
			if !result.Removed {
				t.Fatalf("call %d: expected removed signal", i)
			}
			if got := countRows(); got != 0 {
				t.Fatalf("call %d: expected 0 rows, got %d", i, got)
			}
		}
	}
}

func TestBuildAndShareToggle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewInteractionService(db, NewNotificationService(db))

	owner := createTestUser(t, db, "0xaaa2", nil)
	actor := createTestUser(t, db, "0xbbb2", nil)
	idea := createTestIdea(t, db, owner.ID, "build target")

	for _, typ := range []models.InteractionType{models.InteractionBuild, models.InteractionShare} {
		first, err := service.React(ctx, idea.ID, actor.ID, typ, "")
		if err != nil {
			t.Fatalf("first %s failed: %v", typ, err)
		}
		if first.Removed {
			t.Fatalf("first %s: expected created", typ)
		}

		second, err := service.React(ctx, idea.ID, actor.ID, typ, "")
		if err != nil {
			t.Fatalf("second %s failed: %v", typ, err)
		}
		if !second.Removed {
			t.Fatalf("second %s: expected removed", typ)
		}
	}
}

func TestCommentAccumulation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewInteractionService(db, NewNotificationService(db))

	owner := createTestUser(t, db, "0xaaa3", nil)
	actor := createTestUser(t, db, "0xbbb3", nil)
	idea := createTestIdea(t, db, owner.ID, "comment target")

	for i := 0; i < 3; i++ {
		result, err := service.React(ctx, idea.ID, actor.ID, models.InteractionComment, fmt.Sprintf("comment %d", i))
		if err != nil {
			t.Fatalf("comment %d failed: %v", i, err)
		}
		if result.Removed || result.Interaction == nil {
			t.Fatalf("comment %d: expected created row", i)
		}
	}

	var count int64
	db.Model(&models.Interaction{}).
		Where("idea_id = ? AND user_id = ? AND interaction_type = ?", idea.ID, actor.ID, models.InteractionComment).
		Count(&count)
	if count != 3 {
		t.Errorf("expected 3 comment rows, got %d", count)
	}
}

func TestReactValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewInteractionService(db, NewNotificationService(db))

	owner := createTestUser(t, db, "0xaaa4", nil)
	actor := createTestUser(t, db, "0xbbb4", nil)
	idea := createTestIdea(t, db, owner.ID, "validation target")

	// Empty comment content is rejected before persistence.
	if _, err := service.React(ctx, idea.ID, actor.ID, models.InteractionComment, "  "); err == nil {
		t.Error("expected error for empty comment content")
	} else if KindOf(err) != KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}

	// Unknown types are rejected.
	if _, err := service.React(ctx, idea.ID, actor.ID, "upvote", ""); err == nil {
		t.Error("expected error for unknown type")
	} else if KindOf(err) != KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}

	var count int64
	db.Model(&models.Interaction{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no rows persisted after rejected requests, got %d", count)
	}
}

func TestReactIdeaNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewInteractionService(db, NewNotificationService(db))

	owner := createTestUser(t, db, "0xaaa5", nil)
	actor := createTestUser(t, db, "0xbbb5", nil)

	if _, err := service.React(ctx, 9999, actor.ID, models.InteractionLike, ""); KindOf(err) != KindNotFound {
		t.Errorf("expected not-found for missing idea, got %v", err)
	}

	// Soft-deleted ideas behave like missing ones.
	idea := createTestIdea(t, db, owner.ID, "deleted target")
	db.Model(idea).Update("is_active", false)

	if _, err := service.React(ctx, idea.ID, actor.ID, models.InteractionLike, ""); KindOf(err) != KindNotFound {
		t.Errorf("expected not-found for inactive idea, got %v", err)
	}
}

func TestSelfInteractionSilence(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewInteractionService(db, NewNotificationService(db))

	owner := createTestUser(t, db, "0xaaa6", strPtr("alice"))
	actor := createTestUser(t, db, "0xbbb6", strPtr("bob"))
	idea := createTestIdea(t, db, owner.ID, "notified target")

	// Owner reacting to their own idea is recorded but silent.
	if _, err := service.React(ctx, idea.ID, owner.ID, models.InteractionLike, ""); err != nil {
		t.Fatalf("self-like failed: %v", err)
	}

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	if count != 0 {
		t.Fatalf("self-interaction must not fan out, got %d notifications", count)
	}

	// A first-time reaction from someone else produces exactly one.
	if _, err := service.React(ctx, idea.ID, actor.ID, models.InteractionLike, ""); err != nil {
		t.Fatalf("like failed: %v", err)
	}

	var notifications []models.Notification
	db.Find(&notifications)
	if len(notifications) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(notifications))
	}

	n := notifications[0]
	if n.UserID != owner.ID {
		t.Errorf("notification recipient: expected %d, got %d", owner.ID, n.UserID)
	}
	if n.Title != "bob liked your idea" {
		t.Errorf("unexpected title %q", n.Title)
	}
	if n.RelatedUserID == nil || *n.RelatedUserID != actor.ID {
		t.Errorf("related user not set to actor")
	}
	if n.RelatedIdeaID == nil || *n.RelatedIdeaID != idea.ID {
		t.Errorf("related idea not set")
	}
}

func TestGetStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewInteractionService(db, NewNotificationService(db))

	owner := createTestUser(t, db, "0xaaa7", nil)
	idea := createTestIdea(t, db, owner.ID, "stats target")

	likers := make([]*models.User, 3)
	for i := range likers {
		likers[i] = createTestUser(t, db, fmt.Sprintf("0xccc7%d", i), nil)
		if _, err := service.React(ctx, idea.ID, likers[i].ID, models.InteractionLike, ""); err != nil {
			t.Fatalf("like %d failed: %v", i, err)
		}
	}
	if _, err := service.React(ctx, idea.ID, likers[0].ID, models.InteractionComment, "nice"); err != nil {
		t.Fatalf("comment failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := service.React(ctx, idea.ID, likers[i].ID, models.InteractionBuild, ""); err != nil {
			t.Fatalf("build %d failed: %v", i, err)
		}
	}

	stats, err := service.GetStats(ctx, idea.ID)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.Likes != 3 || stats.Comments != 1 || stats.Builds != 2 || stats.Shares != 0 {
		t.Errorf("expected {3 1 2 0}, got {%d %d %d %d}", stats.Likes, stats.Comments, stats.Builds, stats.Shares)
	}

	// An idea with no interactions reports all zeroes.
	empty := createTestIdea(t, db, owner.ID, "empty target")
	stats, err = service.GetStats(ctx, empty.ID)
	if err != nil {
		t.Fatalf("GetStats on empty idea failed: %v", err)
	}
	if stats.Likes != 0 || stats.Comments != 0 || stats.Builds != 0 || stats.Shares != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
}

func TestGetUserInteraction(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewInteractionService(db, NewNotificationService(db))

	owner := createTestUser(t, db, "0xaaa8", nil)
	actor := createTestUser(t, db, "0xbbb8", nil)
	idea := createTestIdea(t, db, owner.ID, "lookup target")

	existing, err := service.GetUserInteraction(ctx, idea.ID, actor.ID, models.InteractionLike)
	if err != nil {
		t.Fatalf("GetUserInteraction failed: %v", err)
	}
	if existing != nil {
		t.Error("expected nil for absent reaction")
	}

	if _, err := service.React(ctx, idea.ID, actor.ID, models.InteractionLike, ""); err != nil {
		t.Fatalf("like failed: %v", err)
	}

	existing, err = service.GetUserInteraction(ctx, idea.ID, actor.ID, models.InteractionLike)
	if err != nil {
		t.Fatalf("GetUserInteraction failed: %v", err)
	}
	if existing == nil {
		t.Error("expected reaction to be present")
	}
}

func TestListInteractionsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewInteractionService(db, NewNotificationService(db))

	owner := createTestUser(t, db, "0xaaa9", nil)
	actor := createTestUser(t, db, "0xbbb9", strPtr("carol"))
	idea := createTestIdea(t, db, owner.ID, "list target")

	for i := 0; i < 3; i++ {
		if _, err := service.React(ctx, idea.ID, actor.ID, models.InteractionComment, fmt.Sprintf("c%d", i)); err != nil {
			t.Fatalf("comment %d failed: %v", i, err)
		}
	}

	rows, err := service.ListInteractions(ctx, idea.ID, nil)
	if err != nil {
		t.Fatalf("ListInteractions failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].ID < rows[i].ID {
			t.Errorf("rows not newest first: %d before %d", rows[i-1].ID, rows[i].ID)
		}
	}
	if rows[0].Username == nil || *rows[0].Username != "carol" {
		t.Errorf("expected actor username on rows")
	}

	// Type filter only returns matching rows.
	typ := models.InteractionLike
	likes, err := service.ListInteractions(ctx, idea.ID, &typ)
	if err != nil {
		t.Fatalf("ListInteractions with type failed: %v", err)
	}
	if len(likes) != 0 {
		t.Errorf("expected no likes, got %d", len(likes))
	}
}
