package service

import (
	"testing"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/policy"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory store with the real schema, so the
// tests exercise actual SQL: AVG projections, unique indexes, SET NULL
// semantics.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Genre{},
		&models.Title{},
		&models.TitleGenre{},
		&models.Review{},
		&models.Comment{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func actorFor(user *models.User) *policy.Actor {
	return &policy.Actor{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Superuser: user.Superuser,
	}
}

// captureMailer records outbound mail instead of sending it
type captureMailer struct {
	sent []capturedMail
}

type capturedMail struct {
	To      string
	Subject string
	Body    string
}

func (m *captureMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, capturedMail{To: to, Subject: subject, Body: body})
	return nil
}
