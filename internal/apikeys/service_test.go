package apikeys

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mira/feedhub/internal/database/models"
	"github.com/mira/feedhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testHMACSecret = "test-hmac-secret"

func newTestService(db *gorm.DB) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(db, testHMACSecret, nil, logger)
}

func TestAuthenticate_MalformedKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := newTestService(db)

	for _, raw := range []string{"", "fh_short", "not-a-key"} {
		_, err := svc.Authenticate(context.Background(), raw)
		assert.ErrorIs(t, err, ErrKeyMalformed, "key %q", raw)
	}
}

func TestAuthenticate_UnknownKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := newTestService(db)

	raw, err := GenerateKey()
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), raw)
	assert.ErrorIs(t, err, ErrKeyInvalid)
}

func TestAuthenticate_InactiveKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := newTestService(db)

	org := testutil.CreateTestOrg(t, db, "acme")
	raw, err := GenerateKey()
	require.NoError(t, err)
	created := testutil.CreateTestAPIKey(t, db, org, HashKey([]byte(testHMACSecret), raw), false, nil)

	// The deactivated flag must survive the insert; a column default that
	// swallows false would quietly reactivate the key.
	var stored models.APIKey
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	require.False(t, stored.IsActive)

	_, err = svc.Authenticate(context.Background(), raw)
	assert.ErrorIs(t, err, ErrKeyInvalid)
}

func TestAuthenticate_ExpiredKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := newTestService(db)

	org := testutil.CreateTestOrg(t, db, "acme")
	raw, err := GenerateKey()
	require.NoError(t, err)
	expired := time.Now().Add(-time.Hour)
	testutil.CreateTestAPIKey(t, db, org, HashKey([]byte(testHMACSecret), raw), true, &expired)

	_, err = svc.Authenticate(context.Background(), raw)
	assert.ErrorIs(t, err, ErrKeyInvalid)
}

func TestAuthenticate_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := newTestService(db)

	org := testutil.CreateTestOrg(t, db, "acme")
	raw, err := GenerateKey()
	require.NoError(t, err)
	stored := testutil.CreateTestAPIKey(t, db, org, HashKey([]byte(testHMACSecret), raw), true, nil)

	key, err := svc.Authenticate(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, key.ID)
	require.NotNil(t, key.Organization, "owning organization must be preloaded")
	assert.Equal(t, "acme", key.Organization.Slug)

	// The usage timestamp is written off the request path.
	require.Eventually(t, func() bool {
		var fresh struct{ LastUsedAt *time.Time }
		err := db.Table("api_keys").Select("last_used_at").
			Where("id = ?", stored.ID).Scan(&fresh).Error
		return err == nil && fresh.LastUsedAt != nil
	}, 2*time.Second, 20*time.Millisecond)
}

func TestCreateAndAuthenticateRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := newTestService(db)

	org := testutil.CreateTestOrg(t, db, "acme")
	expires := time.Now().Add(24 * time.Hour)
	raw, created, err := svc.Create(context.Background(), org, "ci key", &expires)
	require.NoError(t, err)

	assert.True(t, ValidFormat(raw))
	assert.Equal(t, DisplayPrefix(raw), created.KeyPrefix)
	assert.NotContains(t, created.SecretHash, raw[len(KeyPrefix):], "raw secret must never be stored")

	key, err := svc.Authenticate(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, created.ID, key.ID)
	assert.Equal(t, org.ID, key.OrganizationID)
}
