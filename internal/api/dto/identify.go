package dto

import "github.com/mira/feedhub/internal/api/validation"

// IdentifyRequest is the body of POST /api/identify.
type IdentifyRequest struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

func (r IdentifyRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.ID == "" {
		errors["id"] = "ID is required"
	} else if len(r.ID) > 255 {
		errors["id"] = "ID must be at most 255 characters"
	}
	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email is not a valid address"
	}

	return errors
}

type IdentifyResponse struct {
	Success          bool              `json:"success"`
	User             IdentifiedUserDTO `json:"user"`
	OrganizationSlug string            `json:"organizationSlug"`
}

type IdentifiedUserDTO struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}
