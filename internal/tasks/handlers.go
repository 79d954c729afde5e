package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/mira/feedhub/internal/database/models"
	"gorm.io/gorm"
)

// Handler processes background tasks on the worker.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Register attaches all task handlers to the mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeAPIKeyTouch, h.HandleAPIKeyTouch)
}

// HandleAPIKeyTouch updates last_used_at for a key. The write only moves
// the timestamp forward so delayed or re-delivered tasks cannot rewind it.
func (h *Handler) HandleAPIKeyTouch(ctx context.Context, t *asynq.Task) error {
	var payload APIKeyTouchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshaling payload: %w", err)
	}

	res := h.db.WithContext(ctx).
		Model(&models.APIKey{}).
		Where("id = ? AND (last_used_at IS NULL OR last_used_at < ?)", payload.APIKeyID, payload.UsedAt).
		Update("last_used_at", payload.UsedAt)
	if res.Error != nil {
		return fmt.Errorf("touching api key %s: %w", payload.APIKeyID, res.Error)
	}

	h.logger.Debug("api key touched", "api_key_id", payload.APIKeyID, "used_at", payload.UsedAt)
	return nil
}
