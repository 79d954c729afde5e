package tasks

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeAPIKeyTouch = "apikey:touch"
)

// APIKeyTouchPayload records one successful use of an API key. Enqueued
// fire-and-forget from the authentication path.
type APIKeyTouchPayload struct {
	APIKeyID uuid.UUID `json:"api_key_id"`
	UsedAt   time.Time `json:"used_at"`
}

func NewAPIKeyTouchTask(payload APIKeyTouchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAPIKeyTouch, data, asynq.Queue("low"), asynq.MaxRetry(3)), nil
}
