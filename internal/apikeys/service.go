package apikeys

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/mira/feedhub/internal/database/models"
	"github.com/mira/feedhub/internal/tasks"
	"gorm.io/gorm"
)

var (
	// ErrKeyMalformed means the credential fails the structural check.
	// Client-caused, never retried.
	ErrKeyMalformed = errors.New("api key is malformed")
	// ErrKeyInvalid covers unknown, deactivated and expired keys. The
	// three cases are deliberately indistinguishable to the caller.
	ErrKeyInvalid = errors.New("api key is invalid or expired")
)

// Service authenticates machine credentials and resolves them to an
// organization.
type Service struct {
	db         *gorm.DB
	hmacSecret []byte
	queue      *asynq.Client // nil when redis is unavailable
	logger     *slog.Logger
}

func NewService(db *gorm.DB, hmacSecret string, queue *asynq.Client, logger *slog.Logger) *Service {
	return &Service{
		db:         db,
		hmacSecret: []byte(hmacSecret),
		queue:      queue,
		logger:     logger,
	}
}

// Authenticate validates a raw key and returns its record with the owning
// organization preloaded. The last_used_at update is detached from the
// request path: its failure is logged, never surfaced.
func (s *Service) Authenticate(ctx context.Context, rawKey string) (*models.APIKey, error) {
	if !ValidFormat(rawKey) {
		return nil, ErrKeyMalformed
	}

	hash := HashKey(s.hmacSecret, rawKey)

	var key models.APIKey
	if err := s.db.WithContext(ctx).
		Preload("Organization").
		Where("secret_hash = ?", hash).
		First(&key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyInvalid
		}
		return nil, err
	}

	if !key.IsActive {
		return nil, ErrKeyInvalid
	}
	if key.ExpiresAt != nil && time.Now().After(*key.ExpiresAt) {
		return nil, ErrKeyInvalid
	}

	s.touchLastUsed(&key)

	return &key, nil
}

// Create mints a key for an organization and returns the raw secret once.
func (s *Service) Create(ctx context.Context, org *models.Organization, name string, expiresAt *time.Time) (string, *models.APIKey, error) {
	raw, err := GenerateKey()
	if err != nil {
		return "", nil, err
	}

	key := models.APIKey{
		OrganizationID: org.ID,
		Name:           name,
		SecretHash:     HashKey(s.hmacSecret, raw),
		KeyPrefix:      DisplayPrefix(raw),
		IsActive:       true,
		ExpiresAt:      expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&key).Error; err != nil {
		return "", nil, err
	}
	return raw, &key, nil
}

// touchLastUsed schedules the usage-timestamp update without blocking the
// response. With a queue the worker does it; otherwise a detached goroutine
// writes directly.
func (s *Service) touchLastUsed(key *models.APIKey) {
	now := time.Now()

	if s.queue != nil {
		task, err := tasks.NewAPIKeyTouchTask(tasks.APIKeyTouchPayload{
			APIKeyID: key.ID,
			UsedAt:   now,
		})
		if err == nil {
			_, err = s.queue.Enqueue(task)
		}
		if err != nil {
			s.logger.Error("failed to enqueue api key touch", "api_key_id", key.ID, "error", err)
		}
		return
	}

	keyID := key.ID
	go func() {
		err := s.db.WithContext(context.Background()).
			Model(&models.APIKey{}).
			Where("id = ?", keyID).
			Update("last_used_at", now).Error
		if err != nil {
			s.logger.Error("failed to update api key last_used_at", "api_key_id", keyID, "error", err)
		}
	}()
}
