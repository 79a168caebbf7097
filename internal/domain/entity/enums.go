package entity

// ProviderType classifies what kind of organization or project a provider is.
type ProviderType string

const (
	ProviderTypeNone       ProviderType = "none"
	ProviderTypeCompany    ProviderType = "company"
	ProviderTypeFramework  ProviderType = "framework"
	ProviderTypeOpenSource ProviderType = "open_source"
	ProviderTypeResearch   ProviderType = "research"
	ProviderTypeOther      ProviderType = "other"
)

var validProviderTypes = map[ProviderType]bool{
	ProviderTypeNone:       true,
	ProviderTypeCompany:    true,
	ProviderTypeFramework:  true,
	ProviderTypeOpenSource: true,
	ProviderTypeResearch:   true,
	ProviderTypeOther:      true,
}

func (t ProviderType) Valid() bool { return validProviderTypes[t] }

// AgentDomain is a usage-category tag applied to an agent.
type AgentDomain string

const (
	DomainNone            AgentDomain = "none"
	DomainGeneral         AgentDomain = "general"
	DomainCustomerService AgentDomain = "customer_service"
	DomainDataAnalysis    AgentDomain = "data_analysis"
	DomainCreative        AgentDomain = "creative"
	DomainCoding          AgentDomain = "coding"
	DomainResearch        AgentDomain = "research"
	DomainEducation       AgentDomain = "education"
	DomainHealthcare      AgentDomain = "healthcare"
	DomainFinance         AgentDomain = "finance"
	DomainLegal           AgentDomain = "legal"
	DomainOther           AgentDomain = "other"
)

var validDomains = map[AgentDomain]bool{
	DomainNone:            true,
	DomainGeneral:         true,
	DomainCustomerService: true,
	DomainDataAnalysis:    true,
	DomainCreative:        true,
	DomainCoding:          true,
	DomainResearch:        true,
	DomainEducation:       true,
	DomainHealthcare:      true,
	DomainFinance:         true,
	DomainLegal:           true,
	DomainOther:           true,
}

func (d AgentDomain) Valid() bool { return validDomains[d] }

// MemoryType describes a memory capability or memory store category.
type MemoryType string

const (
	MemoryNone      MemoryType = "none"
	MemoryShortTerm MemoryType = "short_term"
	MemoryLongTerm  MemoryType = "long_term"
	MemorySession   MemoryType = "session"
	MemorySemantic  MemoryType = "semantic"
	MemoryOther     MemoryType = "other"
)

var validMemoryTypes = map[MemoryType]bool{
	MemoryNone:      true,
	MemoryShortTerm: true,
	MemoryLongTerm:  true,
	MemorySession:   true,
	MemorySemantic:  true,
	MemoryOther:     true,
}

func (m MemoryType) Valid() bool { return validMemoryTypes[m] }

// PlanningCapability grades how an agent plans.
type PlanningCapability string

const (
	PlanningNone         PlanningCapability = "none"
	PlanningBasic        PlanningCapability = "basic"
	PlanningAdvanced     PlanningCapability = "advanced"
	PlanningRecursive    PlanningCapability = "recursive"
	PlanningHierarchical PlanningCapability = "hierarchical"
	PlanningOther        PlanningCapability = "other"
)

var validPlanning = map[PlanningCapability]bool{
	PlanningNone:         true,
	PlanningBasic:        true,
	PlanningAdvanced:     true,
	PlanningRecursive:    true,
	PlanningHierarchical: true,
	PlanningOther:        true,
}

func (p PlanningCapability) Valid() bool { return validPlanning[p] }

// ToolUseCapability grades how an agent uses tools.
type ToolUseCapability string

const (
	ToolUseNone         ToolUseCapability = "none"
	ToolUsePredefined   ToolUseCapability = "predefined"
	ToolUseDynamic      ToolUseCapability = "dynamic"
	ToolUseToolCreation ToolUseCapability = "tool_creation"
	ToolUseOther        ToolUseCapability = "other"
)

var validToolUse = map[ToolUseCapability]bool{
	ToolUseNone:         true,
	ToolUsePredefined:   true,
	ToolUseDynamic:      true,
	ToolUseToolCreation: true,
	ToolUseOther:        true,
}

func (t ToolUseCapability) Valid() bool { return validToolUse[t] }
