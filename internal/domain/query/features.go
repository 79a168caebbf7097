package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agenthub/agenthub/internal/domain/entity"
)

// Feature filtering uses an explicit table from filter-key name to a typed
// accessor on AgentFeatures, built once. No reflection: a key outside the
// table is ignored by matching, and callers that want to reject unknown
// keys up front can consult KnownFeatureKeys.

type featureAccessor struct {
	// Exactly one of list/scalar is set. List fields match when any
	// requested value intersects the agent's list; scalar fields require
	// exact equality.
	list   func(f *entity.AgentFeatures) []string
	scalar func(f *entity.AgentFeatures) any
}

var featureAccessors = map[string]featureAccessor{
	"planning": {scalar: func(f *entity.AgentFeatures) any { return string(f.Planning) }},
	"tool_use": {scalar: func(f *entity.AgentFeatures) any { return string(f.ToolUse) }},
	"memory": {list: func(f *entity.AgentFeatures) []string {
		out := make([]string, len(f.Memory))
		for i, m := range f.Memory {
			out[i] = string(m)
		}
		return out
	}},
	"reasoning_frameworks":      {list: func(f *entity.AgentFeatures) []string { return f.ReasoningFrameworks }},
	"multi_agent_collaboration": {scalar: func(f *entity.AgentFeatures) any { return f.MultiAgentCollaboration }},
	"human_in_the_loop":         {scalar: func(f *entity.AgentFeatures) any { return f.HumanInTheLoop }},
	"autonomous":                {scalar: func(f *entity.AgentFeatures) any { return f.Autonomous }},
	"fine_tuning_support":       {scalar: func(f *entity.AgentFeatures) any { return f.FineTuningSupport }},
	"streaming_support":         {scalar: func(f *entity.AgentFeatures) any { return f.StreamingSupport }},
	"supports_vision":           {scalar: func(f *entity.AgentFeatures) any { return f.SupportsVision }},
	"supports_audio":            {scalar: func(f *entity.AgentFeatures) any { return f.SupportsAudio }},
}

// KnownFeatureKeys lists the filterable feature fields, sorted.
func KnownFeatureKeys() []string {
	keys := make([]string, 0, len(featureAccessors))
	for k := range featureAccessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MatchFeatures reports whether the feature profile satisfies every
// criterion. Unknown keys are skipped, not errors.
func MatchFeatures(f *entity.AgentFeatures, criteria map[string]any) bool {
	for key, want := range criteria {
		acc, known := featureAccessors[key]
		if !known {
			continue
		}
		if acc.list != nil {
			if !intersects(acc.list(f), toStrings(want)) {
				return false
			}
			continue
		}
		if !scalarEqual(acc.scalar(f), want) {
			return false
		}
	}
	return true
}

func intersects(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// toStrings flattens the requested value into strings, accepting a bare
// value or a list of values of any stringable type.
func toStrings(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []entity.MemoryType:
		out := make([]string, len(vv))
		for i, m := range vv {
			out[i] = string(m)
		}
		return out
	case []any:
		out := make([]string, len(vv))
		for i, e := range vv {
			out[i] = fmt.Sprintf("%v", e)
		}
		return out
	case nil:
		return nil
	default:
		return []string{fmt.Sprintf("%v", vv)}
	}
}

func scalarEqual(have, want any) bool {
	if b, ok := have.(bool); ok {
		switch w := want.(type) {
		case bool:
			return b == w
		case string:
			return (w == "true") == b && (w == "true" || w == "false")
		default:
			return false
		}
	}
	return fmt.Sprintf("%v", have) == fmt.Sprintf("%v", want)
}
