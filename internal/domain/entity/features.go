package entity

import (
	apperrors "github.com/agenthub/agenthub/pkg/errors"
)

// AgentFeatures describes an agent's capability profile. It is embedded in
// AgentMetadata and persisted inline.
type AgentFeatures struct {
	Planning                PlanningCapability `json:"planning"`
	Memory                  []MemoryType       `json:"memory"`
	ToolUse                 ToolUseCapability  `json:"tool_use"`
	MultiAgentCollaboration bool               `json:"multi_agent_collaboration"`
	HumanInTheLoop          bool               `json:"human_in_the_loop"`
	ReasoningFrameworks     []string           `json:"reasoning_frameworks,omitempty"`
	Autonomous              bool               `json:"autonomous"`
	FineTuningSupport       bool               `json:"fine_tuning_support"`
	StreamingSupport        bool               `json:"streaming_support"`
	SupportsVision          bool               `json:"supports_vision"`
	SupportsAudio           bool               `json:"supports_audio"`
	CustomFeatures          map[string]any     `json:"custom_features,omitempty"`
}

// Normalize applies the schema defaults: unset capability enums become
// "none" and the memory list is never empty.
func (f *AgentFeatures) Normalize() {
	if f.Planning == "" {
		f.Planning = PlanningNone
	}
	if f.ToolUse == "" {
		f.ToolUse = ToolUseNone
	}
	if len(f.Memory) == 0 {
		f.Memory = []MemoryType{MemoryNone}
	}
}

func (f *AgentFeatures) validate() error {
	if !f.Planning.Valid() {
		return apperrors.NewValidationErrorf("field %q has unknown value %q", "features.planning", f.Planning)
	}
	if !f.ToolUse.Valid() {
		return apperrors.NewValidationErrorf("field %q has unknown value %q", "features.tool_use", f.ToolUse)
	}
	if len(f.Memory) == 0 {
		return apperrors.NewValidationError("field \"features.memory\" must contain at least one entry")
	}
	for _, m := range f.Memory {
		if !m.Valid() {
			return apperrors.NewValidationErrorf("field %q has unknown value %q", "features.memory", m)
		}
	}
	return nil
}
