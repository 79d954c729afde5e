package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mira/feedhub/internal/database/models"
	"github.com/mira/feedhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testCookieName = "feedhub_session"

func newSessionService(db *gorm.DB) *Service {
	return NewService(db, NewJWTService("test-secret", time.Hour), testCookieName)
}

func requestWithCookie(token string) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	}
	return req
}

func TestSessionFromRequest_NoCookie(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := newSessionService(db)

	sess, err := svc.SessionFromRequest(context.Background(), requestWithCookie(""))
	require.NoError(t, err)
	assert.Nil(t, sess, "no cookie is an anonymous request, not an error")
}

func TestSessionFromRequest_BadToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := newSessionService(db)

	sess, err := svc.SessionFromRequest(context.Background(), requestWithCookie("not-a-jwt"))
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSessionFromRequest_ValidSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := newSessionService(db)

	user := testutil.CreateTestUser(t, db, "Ada Lovelace")
	token, err := svc.CreateSession(context.Background(), user.ID, time.Hour)
	require.NoError(t, err)

	sess, err := svc.SessionFromRequest(context.Background(), requestWithCookie(token))
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, user.ID, sess.UserID)
	assert.Equal(t, "Ada Lovelace", sess.DisplayName)
}

func TestSessionFromRequest_ExpiredSessionRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := newSessionService(db)

	user := testutil.CreateTestUser(t, db, "Ada Lovelace")
	token, err := svc.CreateSession(context.Background(), user.ID, time.Hour)
	require.NoError(t, err)

	// Expire the row server-side; the cookie itself is still valid.
	require.NoError(t, db.Model(&models.Session{}).
		Where("user_id = ?", user.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	sess, err := svc.SessionFromRequest(context.Background(), requestWithCookie(token))
	require.NoError(t, err)
	assert.Nil(t, sess, "a revoked or expired session row ends the session regardless of the cookie")
}

func TestSessionFromRequest_DeactivatedUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := newSessionService(db)

	user := testutil.CreateTestUser(t, db, "Ada Lovelace")
	token, err := svc.CreateSession(context.Background(), user.ID, time.Hour)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("is_active", false).Error)

	sess, err := svc.SessionFromRequest(context.Background(), requestWithCookie(token))
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSessionFromRequest_DeletedSessionRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := newSessionService(db)

	user := testutil.CreateTestUser(t, db, "Ada Lovelace")
	token, err := svc.CreateSession(context.Background(), user.ID, time.Hour)
	require.NoError(t, err)

	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&models.Session{}).Error)

	sess, err := svc.SessionFromRequest(context.Background(), requestWithCookie(token))
	require.NoError(t, err)
	assert.Nil(t, sess)
}
