package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mira/feedhub/internal/database/models"
	"github.com/mira/feedhub/internal/tenant"
	"gorm.io/gorm"
)

// Service is the session provider the gateway consumes. A session cookie
// holds a JWT-signed session id; the session row itself lives in the
// database. The gateway never sees more of a session than
// tenant.SessionInfo exposes.
type Service struct {
	db         *gorm.DB
	jwt        *JWTService
	cookieName string
}

func NewService(db *gorm.DB, jwt *JWTService, cookieName string) *Service {
	return &Service{db: db, jwt: jwt, cookieName: cookieName}
}

// SessionFromRequest resolves the request's session. A missing, malformed
// or expired cookie yields (nil, nil): not an error, just no session.
// Database failures are returned so callers can fail closed.
func (s *Service) SessionFromRequest(ctx context.Context, r *http.Request) (*tenant.SessionInfo, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	claims, err := s.jwt.ValidateToken(cookie.Value)
	if err != nil {
		// A bad token is an anonymous request, not a fault.
		return nil, nil
	}

	var session models.Session
	if err := s.db.WithContext(ctx).
		Preload("User").
		First(&session, "id = ?", claims.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) || session.User == nil || !session.User.IsActive {
		return nil, nil
	}

	return &tenant.SessionInfo{
		UserID:      session.UserID,
		DisplayName: session.User.DisplayName,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

// CreateSession opens a session for a user and returns the signed cookie
// value. Used by the seed tooling and the identity layer, not the gateway.
func (s *Service) CreateSession(ctx context.Context, userID uuid.UUID, expiry time.Duration) (string, error) {
	session := models.Session{
		UserID:    userID,
		ExpiresAt: time.Now().Add(expiry),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return "", err
	}
	return s.jwt.GenerateToken(session.ID)
}

var _ tenant.SessionProvider = (*Service)(nil)
