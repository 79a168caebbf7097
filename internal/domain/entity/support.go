package entity

import (
	apperrors "github.com/agenthub/agenthub/pkg/errors"
)

// LLMSupport records a model an agent can run on. ProviderID optionally
// references a Provider; the resolved Provider view is derived state and is
// never serialized.
type LLMSupport struct {
	ModelName         string    `json:"model_name"`
	ProviderID        string    `json:"provider_id,omitempty"`
	Provider          *Provider `json:"-"`
	MinVersion        string    `json:"min_version,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	PerformanceRating *int      `json:"performance_rating,omitempty"`
}

func (l *LLMSupport) validate() error {
	if err := requireText("supported_llms.model_name", l.ModelName); err != nil {
		return err
	}
	if l.PerformanceRating != nil && (*l.PerformanceRating < 1 || *l.PerformanceRating > 5) {
		return apperrors.NewValidationErrorf(
			"field %q must be between 1 and 5, got %d", "supported_llms.performance_rating", *l.PerformanceRating)
	}
	return nil
}

// VectorStore records a vector storage backend an agent supports.
type VectorStore struct {
	Name                string    `json:"name"`
	ProviderID          string    `json:"provider_id,omitempty"`
	Provider            *Provider `json:"-"`
	URL                 string    `json:"url,omitempty"`
	Description         string    `json:"description,omitempty"`
	SupportedDimensions []int     `json:"supported_dimensions,omitempty"`
	Notes               string    `json:"notes,omitempty"`
}

func (v *VectorStore) validate() error {
	if err := requireText("vector_stores.name", v.Name); err != nil {
		return err
	}
	return optionalURL("vector_stores.url", v.URL)
}

// MemoryStore records a memory backend an agent supports. Type is required.
type MemoryStore struct {
	Name        string     `json:"name"`
	Type        MemoryType `json:"type"`
	ProviderID  string     `json:"provider_id,omitempty"`
	Provider    *Provider  `json:"-"`
	URL         string     `json:"url,omitempty"`
	Description string     `json:"description,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

func (m *MemoryStore) validate() error {
	if err := requireText("memory_stores.name", m.Name); err != nil {
		return err
	}
	if !m.Type.Valid() {
		return apperrors.NewValidationErrorf("field %q has unknown value %q", "memory_stores.type", m.Type)
	}
	return optionalURL("memory_stores.url", m.URL)
}

// CodeSnippet is an illustrative usage example attached to an agent.
type CodeSnippet struct {
	Language           string   `json:"language"`
	Code               string   `json:"code"`
	Description        string   `json:"description"`
	ImportRequirements []string `json:"import_requirements,omitempty"`
}

func (c *CodeSnippet) validate() error {
	if err := requireText("code_snippets.language", c.Language); err != nil {
		return err
	}
	if err := requireText("code_snippets.code", c.Code); err != nil {
		return err
	}
	return requireText("code_snippets.description", c.Description)
}

// ResourceRequirement captures optional CPU/RAM/GPU guidance. Every field is
// optional; an empty value means "unspecified", not zero.
type ResourceRequirement struct {
	MinCPU               string   `json:"min_cpu,omitempty"`
	RecommendedCPU       string   `json:"recommended_cpu,omitempty"`
	MinRAM               string   `json:"min_ram,omitempty"`
	RecommendedRAM       string   `json:"recommended_ram,omitempty"`
	GPURequired          bool     `json:"gpu_required"`
	RecommendedGPU       string   `json:"recommended_gpu,omitempty"`
	EstimatedCostPerHour *float64 `json:"estimated_cost_per_hour,omitempty"`
	Notes                string   `json:"notes,omitempty"`
}

func (r *ResourceRequirement) validate() error {
	if r.EstimatedCostPerHour != nil && *r.EstimatedCostPerHour < 0 {
		return apperrors.NewValidationError("field \"resource_requirements.estimated_cost_per_hour\" must not be negative")
	}
	return nil
}
