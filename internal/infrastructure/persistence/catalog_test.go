package persistence

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/agenthub/agenthub/internal/domain/entity"
	"github.com/agenthub/agenthub/internal/domain/repository"
	apperrors "github.com/agenthub/agenthub/pkg/errors"
)

func newCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(t.TempDir(), "providers.json", "agents.json", zap.NewNop())
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	return c
}

func addProvider(t *testing.T, c *Catalog, name string) *entity.Provider {
	t.Helper()
	p, err := c.AddProvider(context.Background(), &entity.Provider{
		Name:         name,
		Description:  name + " provider",
		URL:          "https://" + name + ".test",
		ProviderType: entity.ProviderTypeCompany,
	})
	if err != nil {
		t.Fatalf("AddProvider failed: %v", err)
	}
	return p
}

func newAgent(name, providerID string, domains ...entity.AgentDomain) *entity.AgentMetadata {
	if len(domains) == 0 {
		domains = []entity.AgentDomain{entity.DomainGeneral}
	}
	return &entity.AgentMetadata{
		Name:        name,
		Description: name + " agent",
		Version:     "0.1.0",
		ProviderID:  providerID,
		Features: entity.AgentFeatures{
			Memory: []entity.MemoryType{entity.MemoryShortTerm},
		},
		Domains: domains,
	}
}

func TestCatalogProviderLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	t.Run("add then get returns equal record", func(t *testing.T) {
		p := addProvider(t, c, "acme")
		got, err := c.GetProvider(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetProvider failed: %v", err)
		}
		if got.Name != "acme" || got.URL != "https://acme.test" {
			t.Fatalf("unexpected provider: %+v", got)
		}
		if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
			t.Fatal("expected assigned timestamps")
		}
	})

	t.Run("update preserves id and created_at", func(t *testing.T) {
		p := addProvider(t, c, "beta")
		created := p.CreatedAt
		time.Sleep(5 * time.Millisecond)

		p.Description = "renamed"
		p.CreatedAt = time.Time{} // callers cannot reset it
		got, err := c.UpdateProvider(ctx, p)
		if err != nil {
			t.Fatalf("UpdateProvider failed: %v", err)
		}
		if !got.CreatedAt.Equal(created) {
			t.Fatalf("created_at changed: %v vs %v", got.CreatedAt, created)
		}
		if !got.UpdatedAt.After(created) {
			t.Fatal("updated_at was not refreshed")
		}
	})

	t.Run("get providers by type", func(t *testing.T) {
		fw, err := c.AddProvider(ctx, &entity.Provider{
			Name:         "langgo",
			Description:  "framework",
			URL:          "https://langgo.test",
			ProviderType: entity.ProviderTypeFramework,
			Version:      "2.1",
		})
		if err != nil {
			t.Fatalf("AddProvider failed: %v", err)
		}
		got, err := c.GetProvidersByType(ctx, entity.ProviderTypeFramework)
		if err != nil {
			t.Fatalf("GetProvidersByType failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != fw.ID {
			t.Fatalf("unexpected result: %+v", got)
		}
	})

	t.Run("delete absent provider returns false without error", func(t *testing.T) {
		deleted, err := c.DeleteProvider(ctx, "nope")
		if err != nil || deleted {
			t.Fatalf("expected (false, nil), got (%v, %v)", deleted, err)
		}
	})
}

func TestCatalogReferentialIntegrity(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	p1 := addProvider(t, c, "acme")

	a1, err := c.AddAgent(ctx, newAgent("Bot", p1.ID))
	if err != nil {
		t.Fatalf("AddAgent failed: %v", err)
	}

	t.Run("referenced provider cannot be deleted", func(t *testing.T) {
		deleted, err := c.DeleteProvider(ctx, p1.ID)
		if deleted || !apperrors.IsReferentialIntegrity(err) {
			t.Fatalf("expected referential integrity error, got (%v, %v)", deleted, err)
		}
	})

	t.Run("sub-record reference also blocks deletion", func(t *testing.T) {
		p2 := addProvider(t, c, "vecco")
		a, err := c.AddAgent(ctx, func() *entity.AgentMetadata {
			ag := newAgent("Indexer", p1.ID)
			ag.VectorStores = []entity.VectorStore{{Name: "vec", ProviderID: p2.ID}}
			return ag
		}())
		if err != nil {
			t.Fatalf("AddAgent failed: %v", err)
		}
		if deleted, err := c.DeleteProvider(ctx, p2.ID); deleted || !apperrors.IsReferentialIntegrity(err) {
			t.Fatalf("expected referential integrity error, got (%v, %v)", deleted, err)
		}
		if _, err := c.DeleteAgent(ctx, a.ID); err != nil {
			t.Fatalf("DeleteAgent failed: %v", err)
		}
		if deleted, err := c.DeleteProvider(ctx, p2.ID); !deleted || err != nil {
			t.Fatalf("expected successful delete, got (%v, %v)", deleted, err)
		}
	})

	t.Run("deleting the last referencing agent unblocks the provider", func(t *testing.T) {
		if deleted, _ := c.DeleteAgent(ctx, a1.ID); !deleted {
			t.Fatal("expected agent deleted")
		}
		if deleted, err := c.DeleteProvider(ctx, p1.ID); !deleted || err != nil {
			t.Fatalf("expected successful delete, got (%v, %v)", deleted, err)
		}
		providers, _ := c.GetAllProviders(ctx)
		if len(providers) != 0 {
			t.Fatalf("expected empty provider collection, got %d", len(providers))
		}
	})
}

func TestCatalogDanglingReferences(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	t.Run("agent with unknown provider_id rejected, nothing written", func(t *testing.T) {
		_, err := c.AddAgent(ctx, newAgent("Orphan", "no-such-provider"))
		if !apperrors.IsDanglingReference(err) {
			t.Fatalf("expected dangling reference error, got %v", err)
		}
		agents, _ := c.GetAllAgents(ctx)
		if len(agents) != 0 {
			t.Fatal("collection changed on failed add")
		}
	})

	t.Run("unknown sub-record provider_id rejected", func(t *testing.T) {
		p := addProvider(t, c, "acme")
		ag := newAgent("Bot", p.ID)
		ag.SupportedLLMs = []entity.LLMSupport{{ModelName: "gpt-x", ProviderID: "ghost"}}
		if _, err := c.AddAgent(ctx, ag); !apperrors.IsDanglingReference(err) {
			t.Fatalf("expected dangling reference error, got %v", err)
		}
	})

	t.Run("update with unknown provider_id rejected", func(t *testing.T) {
		p := addProvider(t, c, "beta")
		a, err := c.AddAgent(ctx, newAgent("Bot2", p.ID))
		if err != nil {
			t.Fatalf("AddAgent failed: %v", err)
		}
		a.ProviderID = "ghost"
		if _, err := c.UpdateAgent(ctx, a); !apperrors.IsDanglingReference(err) {
			t.Fatalf("expected dangling reference error, got %v", err)
		}
	})
}

func TestCatalogResolvedViews(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	p := addProvider(t, c, "acme")

	ag := newAgent("Bot", p.ID)
	ag.SupportedLLMs = []entity.LLMSupport{{ModelName: "gpt-x", ProviderID: p.ID}}
	stored, err := c.AddAgent(ctx, ag)
	if err != nil {
		t.Fatalf("AddAgent failed: %v", err)
	}
	if stored.Provider == nil || stored.Provider.Name != "acme" {
		t.Fatalf("expected resolved provider on result, got %+v", stored.Provider)
	}
	if stored.SupportedLLMs[0].Provider == nil {
		t.Fatal("expected resolved provider on sub-record")
	}

	t.Run("views are recomputed on read after provider edits", func(t *testing.T) {
		p.Name = "acme-renamed"
		if _, err := c.UpdateProvider(ctx, p); err != nil {
			t.Fatalf("UpdateProvider failed: %v", err)
		}
		got, err := c.GetAgent(ctx, stored.ID)
		if err != nil {
			t.Fatalf("GetAgent failed: %v", err)
		}
		if got.Provider.Name != "acme-renamed" {
			t.Fatalf("stale resolved view: %q", got.Provider.Name)
		}
	})

	t.Run("caller-attached views never enter canonical state", func(t *testing.T) {
		stale := &entity.Provider{ID: "stale", Name: "Stale"}
		ag2 := newAgent("Viewer", p.ID)
		ag2.Provider = stale
		ag2.SupportedLLMs = []entity.LLMSupport{{ModelName: "m", ProviderID: p.ID, Provider: stale}}
		added, err := c.AddAgent(ctx, ag2)
		if err != nil {
			t.Fatalf("AddAgent failed: %v", err)
		}
		canonical, ok := c.agents.Get(added.ID)
		if !ok {
			t.Fatal("agent missing from store")
		}
		if canonical.Provider != nil || canonical.SupportedLLMs[0].Provider != nil {
			t.Fatal("caller-supplied view reached the canonical record")
		}
	})

	t.Run("views are never persisted", func(t *testing.T) {
		// Reopen from disk: the stored form carries only the id.
		reloaded := newProviderStoreAgents(t, c)
		a, ok := reloaded.Get(stored.ID)
		if !ok {
			t.Fatal("agent missing after reload")
		}
		if a.Provider != nil {
			t.Fatal("resolved view leaked into the backing file")
		}
	})
}

// newProviderStoreAgents reopens the agent collection file of an existing
// catalog for direct inspection.
func newProviderStoreAgents(t *testing.T, c *Catalog) *FileStore[*entity.AgentMetadata] {
	t.Helper()
	s, err := NewFileStore[*entity.AgentMetadata](c.agents.path, "agent", zap.NewNop())
	if err != nil {
		t.Fatalf("reopen agents failed: %v", err)
	}
	return s
}

func TestCatalogSearchAndFilter(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	p1 := addProvider(t, c, "acme")
	p2 := addProvider(t, c, "beta")

	mustAdd := func(a *entity.AgentMetadata) *entity.AgentMetadata {
		t.Helper()
		stored, err := c.AddAgent(ctx, a)
		if err != nil {
			t.Fatalf("AddAgent failed: %v", err)
		}
		return stored
	}

	autogen := mustAdd(newAgent("AutoGen Conversational Agent", p1.ID, entity.DomainGeneral))
	coder := mustAdd(newAgent("CodeSmith", p1.ID, entity.DomainCoding, entity.DomainResearch))
	analyst := mustAdd(func() *entity.AgentMetadata {
		a := newAgent("DataDigger", p2.ID, entity.DomainResearch)
		a.Features.ToolUse = entity.ToolUseDynamic
		return a
	}())

	t.Run("search matches name case-insensitively", func(t *testing.T) {
		got, err := c.SearchAgents(ctx, "auto")
		if err != nil {
			t.Fatalf("SearchAgents failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != autogen.ID {
			t.Fatalf("unexpected result: %d matches", len(got))
		}
	})

	t.Run("filter by domain", func(t *testing.T) {
		got, err := c.FilterAgents(ctx, repository.AgentFilter{Domains: []entity.AgentDomain{entity.DomainCoding}})
		if err != nil {
			t.Fatalf("FilterAgents failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != coder.ID {
			t.Fatalf("unexpected result: %d matches", len(got))
		}
	})

	t.Run("provider and domain filters intersect", func(t *testing.T) {
		got, err := c.FilterAgents(ctx, repository.AgentFilter{
			ProviderID: p2.ID,
			Domains:    []entity.AgentDomain{entity.DomainResearch},
		})
		if err != nil {
			t.Fatalf("FilterAgents failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != analyst.ID {
			t.Fatalf("expected intersection [DataDigger], got %d matches", len(got))
		}
	})

	t.Run("feature filter", func(t *testing.T) {
		got, err := c.FilterAgents(ctx, repository.AgentFilter{
			Features: map[string]any{"tool_use": "dynamic"},
		})
		if err != nil {
			t.Fatalf("FilterAgents failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != analyst.ID {
			t.Fatalf("unexpected result: %d matches", len(got))
		}
	})

	t.Run("results carry resolved providers", func(t *testing.T) {
		got, err := c.GetAllAgents(ctx)
		if err != nil {
			t.Fatalf("GetAllAgents failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 agents, got %d", len(got))
		}
		for _, a := range got {
			if a.Provider == nil {
				t.Fatalf("agent %s missing resolved provider", a.Name)
			}
		}
	})
}

func TestCatalogPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	logger := zap.NewNop()

	c, err := NewCatalog(dir, "providers.json", "agents.json", logger)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	p := addProvider(t, c, "acme")
	stored, err := c.AddAgent(ctx, newAgent("Bot", p.ID))
	if err != nil {
		t.Fatalf("AddAgent failed: %v", err)
	}

	again, err := NewCatalog(dir, "providers.json", "agents.json", logger)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, err := again.GetAgent(ctx, stored.ID)
	if err != nil {
		t.Fatalf("GetAgent after reopen failed: %v", err)
	}
	if got.Name != "Bot" || got.Provider == nil || got.Provider.Name != "acme" {
		t.Fatalf("unexpected agent after reopen: %+v", got)
	}
}
