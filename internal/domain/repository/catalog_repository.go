package repository

import (
	"context"

	"github.com/agenthub/agenthub/internal/domain/entity"
)

// AgentFilter narrows FilterAgents results. Dimensions combine with AND;
// the domain list matches when the agent carries any of the requested
// domains; feature values match per-field (lists intersect, scalars compare
// equal). Unknown feature keys are ignored.
type AgentFilter struct {
	ProviderID string
	Domains    []entity.AgentDomain
	Features   map[string]any
}

// Catalog is the domain-facing façade over the provider and agent
// collections. Implementations enforce the cross-collection invariants the
// generic record store cannot know about: no dangling provider references
// on write, no deleting a provider that is still referenced.
type Catalog interface {
	AddProvider(ctx context.Context, p *entity.Provider) (*entity.Provider, error)
	UpdateProvider(ctx context.Context, p *entity.Provider) (*entity.Provider, error)
	GetProvider(ctx context.Context, id string) (*entity.Provider, error)
	GetAllProviders(ctx context.Context) ([]*entity.Provider, error)
	GetProvidersByType(ctx context.Context, t entity.ProviderType) ([]*entity.Provider, error)

	// DeleteProvider fails with a referential-integrity error while any
	// agent references the provider; callers reassign or remove dependents
	// first.
	DeleteProvider(ctx context.Context, id string) (bool, error)

	AddAgent(ctx context.Context, a *entity.AgentMetadata) (*entity.AgentMetadata, error)
	UpdateAgent(ctx context.Context, a *entity.AgentMetadata) (*entity.AgentMetadata, error)
	GetAgent(ctx context.Context, id string) (*entity.AgentMetadata, error)
	GetAllAgents(ctx context.Context) ([]*entity.AgentMetadata, error)
	DeleteAgent(ctx context.Context, id string) (bool, error)

	// SearchAgents matches a case-insensitive substring against agent name
	// and description, in insertion order.
	SearchAgents(ctx context.Context, query string) ([]*entity.AgentMetadata, error)

	FilterAgents(ctx context.Context, filter AgentFilter) ([]*entity.AgentMetadata, error)
}
