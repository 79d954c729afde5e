package models

import (
	"time"

	"github.com/google/uuid"
)

// APIKey is a machine credential. The plaintext secret is never stored:
// SecretHash holds an HMAC of the full key and is the lookup column.
type APIKey struct {
	Base
	OrganizationID uuid.UUID  `gorm:"type:uuid;index;not null" json:"organization_id"`
	Name           string     `gorm:"not null" json:"name"`
	SecretHash     string     `gorm:"uniqueIndex;not null" json:"-"`
	KeyPrefix      string     `gorm:"not null" json:"key_prefix"` // first chars for display, e.g. "fh_ab12"
	// No column default: gorm omits zero-valued fields carrying one from
	// struct inserts, which would silently store a deactivated key as
	// active. Creators set it explicitly.
	IsActive   bool       `json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (APIKey) TableName() string {
	return "api_keys"
}
