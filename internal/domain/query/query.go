// Package query provides pure, chainable predicates and sorts over an
// in-memory agent collection. Nothing here touches storage; each predicate
// narrows the previous result set and the inputs are never mutated.
package query

import (
	"sort"
	"strings"

	"github.com/agenthub/agenthub/internal/domain/entity"
)

// AgentSet is a filterable view over a slice of agents.
type AgentSet []*entity.AgentMetadata

// Agents wraps a slice for chaining.
func Agents(agents []*entity.AgentMetadata) AgentSet {
	return AgentSet(agents)
}

func (s AgentSet) filter(keep func(*entity.AgentMetadata) bool) AgentSet {
	var out AgentSet
	for _, a := range s {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// ByProvider keeps agents whose provider_id equals id.
func (s AgentSet) ByProvider(id string) AgentSet {
	return s.filter(func(a *entity.AgentMetadata) bool {
		return a.ProviderID == id
	})
}

// ByDomains keeps agents carrying any of the requested domains.
func (s AgentSet) ByDomains(domains ...entity.AgentDomain) AgentSet {
	return s.filter(func(a *entity.AgentMetadata) bool {
		for _, want := range domains {
			for _, have := range a.Domains {
				if have == want {
					return true
				}
			}
		}
		return false
	})
}

// ByTags keeps agents carrying any of the requested free-text tags
// (case-insensitive).
func (s AgentSet) ByTags(tags ...string) AgentSet {
	return s.filter(func(a *entity.AgentMetadata) bool {
		for _, want := range tags {
			for _, have := range a.Tags {
				if strings.EqualFold(have, want) {
					return true
				}
			}
		}
		return false
	})
}

// ByLLMModel keeps agents that support the named model.
func (s AgentSet) ByLLMModel(model string) AgentSet {
	return s.filter(func(a *entity.AgentMetadata) bool {
		for _, l := range a.SupportedLLMs {
			if strings.EqualFold(l.ModelName, model) {
				return true
			}
		}
		return false
	})
}

// ByReasoningFramework keeps agents listing the named reasoning framework.
func (s AgentSet) ByReasoningFramework(name string) AgentSet {
	return s.filter(func(a *entity.AgentMetadata) bool {
		for _, f := range a.Features.ReasoningFrameworks {
			if strings.EqualFold(f, name) {
				return true
			}
		}
		return false
	})
}

// ByFeatures keeps agents whose feature profile matches every supplied
// criterion; see MatchFeatures for the per-field semantics.
func (s AgentSet) ByFeatures(criteria map[string]any) AgentSet {
	return s.filter(func(a *entity.AgentMetadata) bool {
		return MatchFeatures(&a.Features, criteria)
	})
}

// Search keeps agents whose name or description contains the query,
// case-insensitive. Order is preserved.
func (s AgentSet) Search(q string) AgentSet {
	q = strings.ToLower(q)
	return s.filter(func(a *entity.AgentMetadata) bool {
		return strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.Description), q)
	})
}

func (s AgentSet) sorted(less func(a, b *entity.AgentMetadata) bool) AgentSet {
	out := make(AgentSet, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// SortByName orders lexicographically by agent name.
func (s AgentSet) SortByName() AgentSet {
	return s.sorted(func(a, b *entity.AgentMetadata) bool {
		return a.Name < b.Name
	})
}

// SortByProviderName orders by the resolved provider's name; agents whose
// provider view is unresolved sort as the empty string.
func (s AgentSet) SortByProviderName() AgentSet {
	name := func(a *entity.AgentMetadata) string {
		if a.Provider == nil {
			return ""
		}
		return a.Provider.Name
	}
	return s.sorted(func(a, b *entity.AgentMetadata) bool {
		return name(a) < name(b)
	})
}

// SortByUpdated orders by last-updated timestamp, newest first.
func (s AgentSet) SortByUpdated() AgentSet {
	return s.sorted(func(a, b *entity.AgentMetadata) bool {
		return a.UpdatedAt.After(b.UpdatedAt)
	})
}
