package entity

import (
	"time"

	apperrors "github.com/agenthub/agenthub/pkg/errors"
)

// Provider is an organization, framework, or project that supplies agents
// or supporting technology (LLMs, vector stores, memory stores).
//
// The id is opaque, unique, and immutable after creation. Frameworks are
// providers with ProviderType "framework"; Version is only meaningful for
// those.
type Provider struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	URL          string       `json:"url"`
	ProviderType ProviderType `json:"provider_type"`
	Version      string       `json:"version,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LogoURL      string       `json:"logo_url,omitempty"`
	GithubURL    string       `json:"github_url,omitempty"`
	DocsURL      string       `json:"docs_url,omitempty"`
	SupportEmail string       `json:"support_email,omitempty"`
	SupportURL   string       `json:"support_url,omitempty"`
}

func (p *Provider) GetID() string   { return p.ID }
func (p *Provider) SetID(id string) { p.ID = id }

// Clone returns an independent copy. The catalog hands out clones so caller
// mutations never reach the canonical record.
func (p *Provider) Clone() *Provider {
	cp := *p
	return &cp
}

// Normalize fills schema defaults so collections written by older versions
// load cleanly.
func (p *Provider) Normalize() {
	if p.ProviderType == "" {
		p.ProviderType = ProviderTypeCompany
	}
}

// Validate enforces the structural rules: mandatory name/description/url,
// well-formed URLs, known provider type, and updated_at never preceding
// created_at.
func (p *Provider) Validate() error {
	if err := requireText("name", p.Name); err != nil {
		return err
	}
	if err := requireText("description", p.Description); err != nil {
		return err
	}
	if err := requireURL("url", p.URL); err != nil {
		return err
	}
	if !p.ProviderType.Valid() {
		return apperrors.NewValidationErrorf("field %q has unknown value %q", "provider_type", p.ProviderType)
	}
	for field, value := range map[string]string{
		"logo_url":    p.LogoURL,
		"github_url":  p.GithubURL,
		"docs_url":    p.DocsURL,
		"support_url": p.SupportURL,
	} {
		if err := optionalURL(field, value); err != nil {
			return err
		}
	}
	if err := optionalEmail("support_email", p.SupportEmail); err != nil {
		return err
	}
	if !p.CreatedAt.IsZero() && !p.UpdatedAt.IsZero() && p.UpdatedAt.Before(p.CreatedAt) {
		return apperrors.NewValidationError("updated_at precedes created_at")
	}
	return nil
}
