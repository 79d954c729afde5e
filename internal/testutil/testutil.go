package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mira/feedhub/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// A second connection to ":memory:" would open a second, empty database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// Run migrations
	err = db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.OrgMembership{},
		&models.Session{},
		&models.APIKey{},
		&models.IdentifiedUser{},
		&models.Post{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestOrg creates a test organization
func CreateTestOrg(t *testing.T, db *gorm.DB, slug string) *models.Organization {
	t.Helper()

	org := &models.Organization{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:     "Test Organization",
		Slug:     slug,
		IsPublic: true,
	}

	if err := db.Create(org).Error; err != nil {
		t.Fatalf("failed to create test organization: %v", err)
	}

	return org
}

// CreateTestUser creates a test user with the given display name
func CreateTestUser(t *testing.T, db *gorm.DB, displayName string) *models.User {
	t.Helper()

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:       "user-" + uuid.New().String()[:8] + "@example.com",
		DisplayName: displayName,
		IsActive:    true,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// AddMembership joins a user to an organization
func AddMembership(t *testing.T, db *gorm.DB, user *models.User, org *models.Organization, role string) {
	t.Helper()

	m := &models.OrgMembership{
		UserID:         user.ID,
		OrganizationID: org.ID,
		Role:           role,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("failed to create test membership: %v", err)
	}
}

// CreateTestSession opens a session for a user
func CreateTestSession(t *testing.T, db *gorm.DB, user *models.User) *models.Session {
	t.Helper()

	session := &models.Session{
		Base: models.Base{
			ID: uuid.New(),
		},
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}

	return session
}

// CreateTestAPIKey stores an API key row with the given hash
func CreateTestAPIKey(t *testing.T, db *gorm.DB, org *models.Organization, secretHash string, active bool, expiresAt *time.Time) *models.APIKey {
	t.Helper()

	key := &models.APIKey{
		Base: models.Base{
			ID: uuid.New(),
		},
		OrganizationID: org.ID,
		Name:           "test key",
		SecretHash:     secretHash,
		KeyPrefix:      "fh_test",
		IsActive:       active,
		ExpiresAt:      expiresAt,
	}
	if err := db.Create(key).Error; err != nil {
		t.Fatalf("failed to create test api key: %v", err)
	}

	return key
}
