package models

// DefaultDisplayName is the placeholder assigned to new accounts before the
// profile step of onboarding. A session carrying it means the profile is
// incomplete.
const DefaultDisplayName = "User"

type User struct {
	Base
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string `gorm:"not null;default:'User'" json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	// No column default so a deactivated user survives a struct insert.
	IsActive bool `json:"is_active"`
}

func (User) TableName() string {
	return "users"
}
