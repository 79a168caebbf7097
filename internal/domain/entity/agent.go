package entity

import (
	"maps"
	"slices"
	"time"

	apperrors "github.com/agenthub/agenthub/pkg/errors"
)

// AgentMetadata is a cataloged AI agent. ProviderID is a required reference
// to a Provider; Provider is the resolved view, recomputed on every read and
// never persisted — only the id is the source of truth for the relationship.
type AgentMetadata struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	ProviderID  string `json:"provider_id"`

	// Provider is derived from ProviderID; see Catalog reads.
	Provider *Provider `json:"-"`

	Features AgentFeatures `json:"features"`

	SupportedLLMs        []LLMSupport        `json:"supported_llms,omitempty"`
	VectorStores         []VectorStore       `json:"vector_stores,omitempty"`
	MemoryStores         []MemoryStore       `json:"memory_stores,omitempty"`
	ResourceRequirements ResourceRequirement `json:"resource_requirements"`

	Domains        []AgentDomain `json:"domains"`
	CodeSnippets   []CodeSnippet `json:"code_snippets,omitempty"`
	ExamplePrompts []string      `json:"example_prompts,omitempty"`

	Tags      []string  `json:"tags,omitempty"`
	GithubURL string    `json:"github_url,omitempty"`
	DocsURL   string    `json:"docs_url,omitempty"`
	DemoURL   string    `json:"demo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StarRating        *float64 `json:"star_rating,omitempty"`
	ReviewCount       int      `json:"review_count"`
	InstallationCount int      `json:"installation_count"`
}

func (a *AgentMetadata) GetID() string   { return a.ID }
func (a *AgentMetadata) SetID(id string) { a.ID = id }

// Clone returns an independent copy, cloning the nested slices and maps so
// caller mutations never reach the canonical record.
func (a *AgentMetadata) Clone() *AgentMetadata {
	cp := *a
	cp.Features.Memory = slices.Clone(a.Features.Memory)
	cp.Features.ReasoningFrameworks = slices.Clone(a.Features.ReasoningFrameworks)
	if a.Features.CustomFeatures != nil {
		cp.Features.CustomFeatures = maps.Clone(a.Features.CustomFeatures)
	}
	cp.SupportedLLMs = slices.Clone(a.SupportedLLMs)
	for i := range cp.SupportedLLMs {
		if r := a.SupportedLLMs[i].PerformanceRating; r != nil {
			v := *r
			cp.SupportedLLMs[i].PerformanceRating = &v
		}
	}
	cp.VectorStores = slices.Clone(a.VectorStores)
	for i := range cp.VectorStores {
		cp.VectorStores[i].SupportedDimensions = slices.Clone(a.VectorStores[i].SupportedDimensions)
	}
	cp.MemoryStores = slices.Clone(a.MemoryStores)
	cp.Domains = slices.Clone(a.Domains)
	cp.CodeSnippets = slices.Clone(a.CodeSnippets)
	for i := range cp.CodeSnippets {
		cp.CodeSnippets[i].ImportRequirements = slices.Clone(a.CodeSnippets[i].ImportRequirements)
	}
	cp.ExamplePrompts = slices.Clone(a.ExamplePrompts)
	cp.Tags = slices.Clone(a.Tags)
	if a.StarRating != nil {
		v := *a.StarRating
		cp.StarRating = &v
	}
	if a.ResourceRequirements.EstimatedCostPerHour != nil {
		v := *a.ResourceRequirements.EstimatedCostPerHour
		cp.ResourceRequirements.EstimatedCostPerHour = &v
	}
	return &cp
}

// ClearResolved drops the derived provider views so only provider ids make
// it into canonical state.
func (a *AgentMetadata) ClearResolved() {
	a.Provider = nil
	for i := range a.SupportedLLMs {
		a.SupportedLLMs[i].Provider = nil
	}
	for i := range a.VectorStores {
		a.VectorStores[i].Provider = nil
	}
	for i := range a.MemoryStores {
		a.MemoryStores[i].Provider = nil
	}
}

// Normalize fills schema defaults on fields older files may omit.
func (a *AgentMetadata) Normalize() {
	a.Features.Normalize()
	if len(a.Domains) == 0 {
		a.Domains = []AgentDomain{DomainGeneral}
	}
}

// Validate enforces structural rules only; reference resolution of
// ProviderID is the Catalog's job.
func (a *AgentMetadata) Validate() error {
	if err := requireText("name", a.Name); err != nil {
		return err
	}
	if err := requireText("description", a.Description); err != nil {
		return err
	}
	if err := requireText("version", a.Version); err != nil {
		return err
	}
	if err := requireText("provider_id", a.ProviderID); err != nil {
		return err
	}
	if err := a.Features.validate(); err != nil {
		return err
	}
	if len(a.Domains) == 0 {
		return apperrors.NewValidationError("field \"domains\" must contain at least one entry")
	}
	for _, d := range a.Domains {
		if !d.Valid() {
			return apperrors.NewValidationErrorf("field %q has unknown value %q", "domains", d)
		}
	}
	for i := range a.SupportedLLMs {
		if err := a.SupportedLLMs[i].validate(); err != nil {
			return err
		}
	}
	for i := range a.VectorStores {
		if err := a.VectorStores[i].validate(); err != nil {
			return err
		}
	}
	for i := range a.MemoryStores {
		if err := a.MemoryStores[i].validate(); err != nil {
			return err
		}
	}
	for i := range a.CodeSnippets {
		if err := a.CodeSnippets[i].validate(); err != nil {
			return err
		}
	}
	if err := a.ResourceRequirements.validate(); err != nil {
		return err
	}
	for field, value := range map[string]string{
		"github_url": a.GithubURL,
		"docs_url":   a.DocsURL,
		"demo_url":   a.DemoURL,
	} {
		if err := optionalURL(field, value); err != nil {
			return err
		}
	}
	if a.StarRating != nil && (*a.StarRating < 0 || *a.StarRating > 5) {
		return apperrors.NewValidationErrorf("field %q must be between 0 and 5, got %g", "star_rating", *a.StarRating)
	}
	if a.ReviewCount < 0 {
		return apperrors.NewValidationError("field \"review_count\" must not be negative")
	}
	if a.InstallationCount < 0 {
		return apperrors.NewValidationError("field \"installation_count\" must not be negative")
	}
	if !a.CreatedAt.IsZero() && !a.UpdatedAt.IsZero() && a.UpdatedAt.Before(a.CreatedAt) {
		return apperrors.NewValidationError("updated_at precedes created_at")
	}
	return nil
}

// SubRecordProviderIDs returns every optional provider reference carried by
// the agent's LLM, vector store, and memory store sub-records. Empty ids are
// skipped.
func (a *AgentMetadata) SubRecordProviderIDs() []string {
	var ids []string
	for _, l := range a.SupportedLLMs {
		if l.ProviderID != "" {
			ids = append(ids, l.ProviderID)
		}
	}
	for _, v := range a.VectorStores {
		if v.ProviderID != "" {
			ids = append(ids, v.ProviderID)
		}
	}
	for _, m := range a.MemoryStores {
		if m.ProviderID != "" {
			ids = append(ids, m.ProviderID)
		}
	}
	return ids
}

// ReferencesProvider reports whether the agent references the given provider
// id, either directly or through a sub-record.
func (a *AgentMetadata) ReferencesProvider(id string) bool {
	if a.ProviderID == id {
		return true
	}
	for _, ref := range a.SubRecordProviderIDs() {
		if ref == id {
			return true
		}
	}
	return false
}
