package models

import "github.com/google/uuid"

const (
	PostStatusOpen    = "open"
	PostStatusPlanned = "planned"
	PostStatusShipped = "shipped"
)

// Post is a feedback board entry. Kept minimal: the gateway only needs
// something real behind the tenant-scoped routes.
type Post struct {
	Base
	OrganizationID uuid.UUID `gorm:"type:uuid;index;not null" json:"organization_id"`
	Title          string    `gorm:"not null" json:"title"`
	Body           string    `json:"body"`
	Status         string    `gorm:"default:'open'" json:"status"`
	Votes          int       `gorm:"default:0" json:"votes"`
	IsChangelog    bool      `gorm:"default:false;index" json:"is_changelog"`
}

func (Post) TableName() string {
	return "posts"
}
