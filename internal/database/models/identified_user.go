package models

import "github.com/google/uuid"

// IdentifiedUser links an external caller's end user to an organization.
// It is a data record, not a principal: creating one never creates a
// session. Keyed by (organization_id, external_id).
type IdentifiedUser struct {
	Base
	OrganizationID uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_identified_org_external;not null" json:"organization_id"`
	ExternalID     string     `gorm:"uniqueIndex:idx_identified_org_external;not null" json:"external_id"`
	Email          string     `gorm:"not null" json:"email"`
	Name           string     `json:"name"`
	AvatarURL      string     `json:"avatar"`
	LinkedUserID   *uuid.UUID `gorm:"type:uuid" json:"linked_user_id,omitempty"`
}

func (IdentifiedUser) TableName() string {
	return "identified_users"
}
