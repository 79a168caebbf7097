package persistence

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agenthub/agenthub/internal/domain/entity"
	"github.com/agenthub/agenthub/internal/domain/query"
	"github.com/agenthub/agenthub/internal/domain/repository"
	apperrors "github.com/agenthub/agenthub/pkg/errors"
)

// Catalog composes the provider and agent file stores into one consistent
// catalog. It owns the canonical collections and enforces the
// cross-collection rules the generic store cannot know about: agents may
// only reference providers that exist, and a provider stays undeletable
// while referenced.
//
// A catalog-level RWMutex serializes mutations across both collections so
// an integrity check and the write it guards are atomic with respect to
// each other. Single process only; the backing files carry no cross-process
// locking.
type Catalog struct {
	mu        sync.RWMutex
	providers *FileStore[*entity.Provider]
	agents    *FileStore[*entity.AgentMetadata]
	logger    *zap.Logger
}

var _ repository.Catalog = (*Catalog)(nil)

// NewCatalog opens (or creates) both collections under dataDir.
func NewCatalog(dataDir, providersFile, agentsFile string, logger *zap.Logger) (*Catalog, error) {
	providers, err := NewFileStore[*entity.Provider](filepath.Join(dataDir, providersFile), "provider", logger)
	if err != nil {
		return nil, err
	}
	agents, err := NewFileStore[*entity.AgentMetadata](filepath.Join(dataDir, agentsFile), "agent", logger)
	if err != nil {
		return nil, err
	}
	return &Catalog{
		providers: providers,
		agents:    agents,
		logger:    logger,
	}, nil
}

// ─── Providers ───

// AddProvider assigns timestamps and persists a new provider.
func (c *Catalog) AddProvider(ctx context.Context, p *entity.Provider) (*entity.Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := p.Clone()
	rec.Normalize()
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	stored, err := c.providers.Add(rec)
	if err != nil {
		return nil, err
	}
	c.logger.Info("provider added", zap.String("id", stored.ID), zap.String("name", stored.Name))
	return stored.Clone(), nil
}

// UpdateProvider replaces an existing provider, preserving id and
// created_at while refreshing updated_at.
func (c *Catalog) UpdateProvider(ctx context.Context, p *entity.Provider) (*entity.Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.providers.Get(p.ID)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider %q not found", p.ID))
	}

	rec := p.Clone()
	rec.Normalize()
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now()

	stored, err := c.providers.Update(rec)
	if err != nil {
		return nil, err
	}
	c.logger.Info("provider updated", zap.String("id", stored.ID))
	return stored.Clone(), nil
}

func (c *Catalog) GetProvider(ctx context.Context, id string) (*entity.Provider, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.providers.Get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider %q not found", id))
	}
	return p.Clone(), nil
}

func (c *Catalog) GetAllProviders(ctx context.Context) ([]*entity.Provider, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := c.providers.All()
	out := make([]*entity.Provider, len(all))
	for i, p := range all {
		out[i] = p.Clone()
	}
	return out, nil
}

// GetProvidersByType filters by exact category match.
func (c *Catalog) GetProvidersByType(ctx context.Context, t entity.ProviderType) ([]*entity.Provider, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*entity.Provider
	for _, p := range c.providers.All() {
		if p.ProviderType == t {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

// DeleteProvider removes a provider unless an agent still references it,
// directly or through a sub-record. The precondition check and the delete
// run under one lock so a concurrent AddAgent cannot slip a reference in
// between.
func (c *Catalog) DeleteProvider(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.providers.Get(id); !ok {
		return false, nil
	}

	referencing := 0
	for _, a := range c.agents.All() {
		if a.ReferencesProvider(id) {
			referencing++
		}
	}
	if referencing > 0 {
		return false, apperrors.NewReferentialIntegrityError(
			fmt.Sprintf("provider %q is still referenced by %d agent(s); reassign or delete them first", id, referencing))
	}

	deleted, err := c.providers.Delete(id)
	if err != nil {
		return false, err
	}
	if deleted {
		c.logger.Info("provider deleted", zap.String("id", id))
	}
	return deleted, nil
}

// ─── Agents ───

// AddAgent validates, resolves every provider reference, and persists.
// An unresolved reference fails before anything is written.
func (c *Catalog) AddAgent(ctx context.Context, a *entity.AgentMetadata) (*entity.AgentMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := a.Clone()
	rec.ClearResolved()
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := c.checkReferences(rec); err != nil {
		return nil, err
	}

	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	stored, err := c.agents.Add(rec)
	if err != nil {
		return nil, err
	}
	out := stored.Clone()
	if err := c.resolve(out); err != nil {
		return nil, err
	}
	c.logger.Info("agent added", zap.String("id", out.ID), zap.String("name", out.Name))
	return out, nil
}

// UpdateAgent replaces an existing agent with the same reference checks as
// AddAgent, preserving id and created_at.
func (c *Catalog) UpdateAgent(ctx context.Context, a *entity.AgentMetadata) (*entity.AgentMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.agents.Get(a.ID)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("agent %q not found", a.ID))
	}

	rec := a.Clone()
	rec.ClearResolved()
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := c.checkReferences(rec); err != nil {
		return nil, err
	}

	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now()

	stored, err := c.agents.Update(rec)
	if err != nil {
		return nil, err
	}
	out := stored.Clone()
	if err := c.resolve(out); err != nil {
		return nil, err
	}
	c.logger.Info("agent updated", zap.String("id", out.ID))
	return out, nil
}

func (c *Catalog) GetAgent(ctx context.Context, id string) (*entity.AgentMetadata, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a, ok := c.agents.Get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("agent %q not found", id))
	}
	out := a.Clone()
	if err := c.resolve(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Catalog) GetAllAgents(ctx context.Context) ([]*entity.AgentMetadata, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolveAll(c.agents.All())
}

func (c *Catalog) DeleteAgent(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleted, err := c.agents.Delete(id)
	if err != nil {
		return false, err
	}
	if deleted {
		c.logger.Info("agent deleted", zap.String("id", id))
	}
	return deleted, nil
}

// SearchAgents matches a case-insensitive substring against name and
// description, in insertion order.
func (c *Catalog) SearchAgents(ctx context.Context, q string) ([]*entity.AgentMetadata, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolveAll(query.Agents(c.agents.All()).Search(q))
}

// FilterAgents applies the supplied criteria with AND semantics across
// dimensions; see repository.AgentFilter.
func (c *Catalog) FilterAgents(ctx context.Context, filter repository.AgentFilter) ([]*entity.AgentMetadata, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set := query.Agents(c.agents.All())
	if filter.ProviderID != "" {
		set = set.ByProvider(filter.ProviderID)
	}
	if len(filter.Domains) > 0 {
		set = set.ByDomains(filter.Domains...)
	}
	if len(filter.Features) > 0 {
		set = set.ByFeatures(filter.Features)
	}
	return c.resolveAll(set)
}

// ─── Reference resolution ───

// checkReferences verifies that the agent's provider_id and every
// sub-record provider_id resolve. Write-time enforcement keeps dangling
// references out of the store entirely.
func (c *Catalog) checkReferences(a *entity.AgentMetadata) error {
	if _, ok := c.providers.Get(a.ProviderID); !ok {
		return apperrors.NewDanglingReferenceError(
			fmt.Sprintf("agent %q references unknown provider %q", a.Name, a.ProviderID))
	}
	for _, id := range a.SubRecordProviderIDs() {
		if _, ok := c.providers.Get(id); !ok {
			return apperrors.NewDanglingReferenceError(
				fmt.Sprintf("agent %q sub-record references unknown provider %q", a.Name, id))
		}
	}
	return nil
}

// resolve recomputes the derived provider views on the agent and its
// sub-records. The views are caches for caller convenience, never state:
// they are rebuilt on every read and excluded from serialization.
func (c *Catalog) resolve(a *entity.AgentMetadata) error {
	p, ok := c.providers.Get(a.ProviderID)
	if !ok {
		return apperrors.NewDanglingReferenceError(
			fmt.Sprintf("agent %q references unknown provider %q", a.ID, a.ProviderID))
	}
	a.Provider = p.Clone()

	for i := range a.SupportedLLMs {
		if err := c.resolveSub(&a.SupportedLLMs[i].Provider, a.SupportedLLMs[i].ProviderID, a.ID); err != nil {
			return err
		}
	}
	for i := range a.VectorStores {
		if err := c.resolveSub(&a.VectorStores[i].Provider, a.VectorStores[i].ProviderID, a.ID); err != nil {
			return err
		}
	}
	for i := range a.MemoryStores {
		if err := c.resolveSub(&a.MemoryStores[i].Provider, a.MemoryStores[i].ProviderID, a.ID); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) resolveSub(target **entity.Provider, id, agentID string) error {
	if id == "" {
		*target = nil
		return nil
	}
	p, ok := c.providers.Get(id)
	if !ok {
		return apperrors.NewDanglingReferenceError(
			fmt.Sprintf("agent %q sub-record references unknown provider %q", agentID, id))
	}
	*target = p.Clone()
	return nil
}

// resolveAll clones and resolves each agent for hand-out.
func (c *Catalog) resolveAll(agents []*entity.AgentMetadata) ([]*entity.AgentMetadata, error) {
	out := make([]*entity.AgentMetadata, len(agents))
	for i, a := range agents {
		out[i] = a.Clone()
		if err := c.resolve(out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
