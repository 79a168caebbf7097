package query

import (
	"sort"
	"strings"

	"github.com/agenthub/agenthub/internal/domain/entity"
)

// FacetIndex collects the distinct filterable values present in a
// collection. A frontend uses it to populate its filter pickers.
type FacetIndex struct {
	Domains             []entity.AgentDomain
	Tags                []string
	LLMModels           []string
	ReasoningFrameworks []string
}

// Facets scans the agents once and returns each facet sorted.
func Facets(agents []*entity.AgentMetadata) FacetIndex {
	domains := map[entity.AgentDomain]bool{}
	tags := map[string]bool{}
	models := map[string]bool{}
	frameworks := map[string]bool{}

	for _, a := range agents {
		for _, d := range a.Domains {
			domains[d] = true
		}
		for _, t := range a.Tags {
			tags[t] = true
		}
		for _, l := range a.SupportedLLMs {
			models[l.ModelName] = true
		}
		for _, f := range a.Features.ReasoningFrameworks {
			frameworks[f] = true
		}
	}

	idx := FacetIndex{
		Tags:                sortedKeys(tags),
		LLMModels:           sortedKeys(models),
		ReasoningFrameworks: sortedKeys(frameworks),
	}
	for d := range domains {
		idx.Domains = append(idx.Domains, d)
	}
	sort.Slice(idx.Domains, func(i, j int) bool { return idx.Domains[i] < idx.Domains[j] })
	return idx
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out
}
