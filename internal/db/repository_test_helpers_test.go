package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/circlecare/internal/models"
	"gorm.io/gorm"
)

func openRepositoryTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	return openMigrationTestDatabase(t, filepath.Join(t.TempDir(), "repositories.db"))
}

func createTestUser(t *testing.T, repositories *Repositories, username string) models.User {
	t.Helper()

	user := models.User{Username: username, PasswordHash: "hash"}
	created, err := repositories.Users.Create(&user)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	if !created {
		t.Fatalf("expected user %s to be created", username)
	}
	return user
}

func testDay(t *testing.T, raw string) time.Time {
	t.Helper()
	day, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		t.Fatalf("parse day %s: %v", raw, err)
	}
	return day
}
