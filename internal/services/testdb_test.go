package services

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"public-notepad/internal/models"
)

// setupTestDB opens a per-test in-memory sqlite database. The database name
// is derived from the test name so parallel tests cannot share state;
// cache=shared keeps it alive across the pooled connections.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Idea{},
		&models.IdeaTag{},
		&models.Interaction{},
		&models.Notification{},
		&models.Follow{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, wallet string, username *string) *models.User {
	t.Helper()

	user := models.User{
		WalletAddress: strings.ToLower(wallet),
		Username:      username,
		IsActive:      true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", wallet, err)
	}
	return &user
}

func createTestIdea(t *testing.T, db *gorm.DB, userID uint, title string, tags ...string) *models.Idea {
	t.Helper()

	idea := models.Idea{
		UserID:   userID,
		Title:    title,
		Content:  "test content long enough to pass validation",
		Category: "general",
		IsActive: true,
	}
	for _, tag := range tags {
		idea.Tags = append(idea.Tags, models.IdeaTag{Tag: tag})
	}
	if err := db.Create(&idea).Error; err != nil {
		t.Fatalf("failed to create test idea %q: %v", title, err)
	}
	return &idea
}

func strPtr(s string) *string {
	return &s
}
