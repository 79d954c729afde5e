package models

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	Base
	Name string `gorm:"not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
	// No column default so a private organization survives a struct insert.
	IsPublic bool `json:"is_public"`

	// Relationships
	Posts   []Post   `gorm:"foreignKey:OrganizationID" json:"-"`
	APIKeys []APIKey `gorm:"foreignKey:OrganizationID" json:"-"`
}

func (Organization) TableName() string {
	return "organizations"
}

type OrgMembership struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"organization_id"`
	Role           string    `gorm:"not null;default:'member'" json:"role"` // owner, admin, member
	CreatedAt      time.Time `json:"created_at"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (OrgMembership) TableName() string {
	return "org_memberships"
}
