package services

import (
	"context"
	"testing"

	"public-notepad/internal/models"
)

func TestFollowAndNotify(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewFollowService(db, NewNotificationService(db))

	follower := createTestUser(t, db, "0x3331", strPtr("grace"))
	followed := createTestUser(t, db, "0x3332", nil)

	follow, err := service.Follow(ctx, follower.ID, followed.ID)
	if err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if follow.FollowerID != follower.ID || follow.FollowedID != followed.ID {
		t.Errorf("wrong follow row: %+v", follow)
	}

	var n models.Notification
	if err := db.Where("user_id = ?", followed.ID).First(&n).Error; err != nil {
		t.Fatalf("follow notification not created: %v", err)
	}
	if n.Type != models.NotificationFollow {
		t.Errorf("unexpected notification type %q", n.Type)
	}
	if n.Title != "grace started following you" {
		t.Errorf("unexpected title %q", n.Title)
	}
}

func TestFollowSelfRejected(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewFollowService(db, NewNotificationService(db))

	user := createTestUser(t, db, "0x3333", nil)

	if _, err := service.Follow(ctx, user.ID, user.ID); KindOf(err) != KindValidation {
		t.Errorf("expected validation error for self-follow, got %v", err)
	}
}

func TestFollowDuplicateNoOp(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewFollowService(db, NewNotificationService(db))

	follower := createTestUser(t, db, "0x3334", nil)
	followed := createTestUser(t, db, "0x3335", nil)

	first, err := service.Follow(ctx, follower.ID, followed.ID)
	if err != nil {
		t.Fatalf("first Follow failed: %v", err)
	}

	// The repeat resolves to the existing row without a second notification.
	second, err := service.Follow(ctx, follower.ID, followed.ID)
	if err != nil {
		t.Fatalf("second Follow failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected the original row back, got %d vs %d", second.ID, first.ID)
	}

	var follows int64
	db.Model(&models.Follow{}).Count(&follows)
	if follows != 1 {
		t.Errorf("expected 1 follow row, got %d", follows)
	}

	var notifications int64
	db.Model(&models.Notification{}).Count(&notifications)
	if notifications != 1 {
		t.Errorf("expected 1 notification, got %d", notifications)
	}
}

func TestFollowUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewFollowService(db, NewNotificationService(db))

	follower := createTestUser(t, db, "0x3336", nil)

	if _, err := service.Follow(ctx, follower.ID, 9999); KindOf(err) != KindNotFound {
		t.Errorf("expected not-found for unknown user, got %v", err)
	}

	// Deactivated users cannot be followed either.
	gone := createTestUser(t, db, "0x3337", nil)
	db.Model(gone).Update("is_active", false)
	if _, err := service.Follow(ctx, follower.ID, gone.ID); KindOf(err) != KindNotFound {
		t.Errorf("expected not-found for deactivated user, got %v", err)
	}
}

func TestUnfollow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewFollowService(db, NewNotificationService(db))

	follower := createTestUser(t, db, "0x3338", nil)
	followed := createTestUser(t, db, "0x3339", nil)

	if _, err := service.Follow(ctx, follower.ID, followed.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	removed, err := service.Unfollow(ctx, follower.ID, followed.ID)
	if err != nil {
		t.Fatalf("Unfollow failed: %v", err)
	}
	if !removed {
		t.Error("expected removal to be reported")
	}

	removed, err = service.Unfollow(ctx, follower.ID, followed.ID)
	if err != nil {
		t.Fatalf("Unfollow failed: %v", err)
	}
	if removed {
		t.Error("expected false when relationship is already gone")
	}
}

func TestListFollowersAndFollowing(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewFollowService(db, NewNotificationService(db))

	center := createTestUser(t, db, "0x333a", nil)
	fanOne := createTestUser(t, db, "0x333b", nil)
	fanTwo := createTestUser(t, db, "0x333c", nil)
	idol := createTestUser(t, db, "0x333d", nil)

	if _, err := service.Follow(ctx, fanOne.ID, center.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if _, err := service.Follow(ctx, fanTwo.ID, center.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if _, err := service.Follow(ctx, center.ID, idol.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	followers, err := service.ListFollowers(ctx, center.ID)
	if err != nil {
		t.Fatalf("ListFollowers failed: %v", err)
	}
	if len(followers) != 2 {
		t.Errorf("expected 2 followers, got %d", len(followers))
	}

	following, err := service.ListFollowing(ctx, center.ID)
	if err != nil {
		t.Fatalf("ListFollowing failed: %v", err)
	}
	if len(following) != 1 || following[0].ID != idol.ID {
		t.Errorf("expected to follow only idol, got %d rows", len(following))
	}

	// Deactivated accounts drop out of both listings.
	db.Model(fanOne).Update("is_active", false)
	followers, err = service.ListFollowers(ctx, center.ID)
	if err != nil {
		t.Fatalf("ListFollowers failed: %v", err)
	}
	if len(followers) != 1 {
		t.Errorf("expected deactivated follower hidden, got %d", len(followers))
	}
}
