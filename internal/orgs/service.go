package orgs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mira/feedhub/internal/database/models"
	"github.com/mira/feedhub/internal/tenant"
	"gorm.io/gorm"
)

// Service answers the gateway's organization questions: does a slug exist,
// and which organizations does a user belong to.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// FindBySlug returns the organization for a slug, or (nil, nil) when none
// exists.
func (s *Service) FindBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

// ListForUser returns the user's memberships ordered by when they joined,
// so "the first organization" is stable across requests.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]tenant.Membership, error) {
	var rows []models.OrgMembership
	if err := s.db.WithContext(ctx).
		Preload("Organization").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	memberships := make([]tenant.Membership, 0, len(rows))
	for _, row := range rows {
		m := tenant.Membership{
			OrganizationID: row.OrganizationID,
			Role:           row.Role,
		}
		if row.Organization != nil {
			m.Slug = row.Organization.Slug
		}
		memberships = append(memberships, m)
	}
	return memberships, nil
}

// IsMember reports whether the user belongs to the organization. Rendering
// layers use this to re-check authorization behind the rewrite.
func (s *Service) IsMember(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.OrgMembership{}).
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var (
	_ tenant.OrganizationFinder = (*Service)(nil)
	_ tenant.MembershipLister   = (*Service)(nil)
)
