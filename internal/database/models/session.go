package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side session row owned by the identity layer. The
// gateway only ever reads it through the auth service.
type Session struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IPAddress string    `json:"-"`
	UserAgent string    `json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}
