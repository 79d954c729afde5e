package identify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mira/feedhub/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service maintains IdentifiedUser records: the link between an external
// caller's end users and an organization. Records never become sessions.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type Input struct {
	OrganizationID uuid.UUID
	ExternalID     string
	Email          string
	Name           string
	Avatar         string
}

// Upsert creates or updates the record keyed by (organization_id,
// external_id). The conflict clause makes concurrent identical calls
// converge on one row; mutable fields are last-write-wins.
func (s *Service) Upsert(ctx context.Context, in Input) (*models.IdentifiedUser, error) {
	user := models.IdentifiedUser{
		OrganizationID: in.OrganizationID,
		ExternalID:     in.ExternalID,
		Email:          in.Email,
		Name:           in.Name,
		AvatarURL:      in.Avatar,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "organization_id"},
			{Name: "external_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "avatar_url", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return nil, fmt.Errorf("upserting identified user: %w", err)
	}

	// Re-read so the caller gets the canonical row regardless of which
	// concurrent writer won.
	var stored models.IdentifiedUser
	if err := s.db.WithContext(ctx).
		Where("organization_id = ? AND external_id = ?", in.OrganizationID, in.ExternalID).
		First(&stored).Error; err != nil {
		return nil, fmt.Errorf("reading identified user back: %w", err)
	}
	return &stored, nil
}
