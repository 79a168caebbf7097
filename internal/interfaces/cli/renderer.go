package cli

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/agenthub/agenthub/internal/domain/entity"
	"github.com/agenthub/agenthub/internal/domain/query"
)

const (
	colorCyan   = lipgloss.Color("#00D7D7")
	colorGreen  = lipgloss.Color("#5FD75F")
	colorYellow = lipgloss.Color("#D7D75F")
	colorGray   = lipgloss.Color("#808080")
)

// Renderer formats catalog records for the terminal.
type Renderer struct {
	glamour *glamour.TermRenderer
	width   int

	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	muted lipgloss.Style
	box   lipgloss.Style
}

// NewRenderer creates a renderer for the given terminal width.
func NewRenderer(width int) *Renderer {
	if width <= 0 {
		width = 100
	}
	g, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	return &Renderer{
		glamour: g,
		width:   width,
		title:   lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
		label:   lipgloss.NewStyle().Foreground(colorYellow),
		value:   lipgloss.NewStyle(),
		muted:   lipgloss.NewStyle().Foreground(colorGray),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1),
	}
}

// table builds aligned columns with a styled header row.
func (r *Renderer) table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(r.title.Render(pad(h, widths[i])))
		if i < len(headers)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		for i, cell := range row {
			b.WriteString(pad(cell, widths[i]))
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, w int) string {
	n := utf8.RuneCountInString(s)
	if n >= w {
		return s
	}
	return s + strings.Repeat(" ", w-n)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

// ProviderTable renders providers one per row.
func (r *Renderer) ProviderTable(providers []*entity.Provider) string {
	if len(providers) == 0 {
		return r.muted.Render("no providers in the catalog") + "\n"
	}
	rows := make([][]string, len(providers))
	for i, p := range providers {
		rows[i] = []string{
			p.ID,
			p.Name,
			string(p.ProviderType),
			truncate(p.Description, 48),
			p.URL,
		}
	}
	return r.table([]string{"ID", "NAME", "TYPE", "DESCRIPTION", "URL"}, rows)
}

// AgentTable renders agents one per row with the resolved provider name.
func (r *Renderer) AgentTable(agents []*entity.AgentMetadata) string {
	if len(agents) == 0 {
		return r.muted.Render("no matching agents") + "\n"
	}
	rows := make([][]string, len(agents))
	for i, a := range agents {
		provider := ""
		if a.Provider != nil {
			provider = a.Provider.Name
		}
		rows[i] = []string{
			a.ID,
			a.Name,
			a.Version,
			provider,
			joinDomains(a.Domains),
			a.UpdatedAt.Format("2006-01-02"),
		}
	}
	return r.table([]string{"ID", "NAME", "VERSION", "PROVIDER", "DOMAINS", "UPDATED"}, rows)
}

// ProviderCard renders one provider in full.
func (r *Renderer) ProviderCard(p *entity.Provider) string {
	var b strings.Builder
	b.WriteString(r.title.Render(p.Name))
	b.WriteString(r.muted.Render(fmt.Sprintf("  (%s)", p.ProviderType)))
	b.WriteString("\n\n")
	b.WriteString(p.Description + "\n\n")
	r.field(&b, "id", p.ID)
	r.field(&b, "url", p.URL)
	if p.Version != "" {
		r.field(&b, "version", p.Version)
	}
	for label, v := range map[string]string{
		"github": p.GithubURL,
		"docs":   p.DocsURL,
		"logo":   p.LogoURL,
	} {
		if v != "" {
			r.field(&b, label, v)
		}
	}
	if p.SupportEmail != "" {
		r.field(&b, "support", p.SupportEmail)
	} else if p.SupportURL != "" {
		r.field(&b, "support", p.SupportURL)
	}
	r.field(&b, "created", p.CreatedAt.Format(time.RFC3339))
	r.field(&b, "updated", p.UpdatedAt.Format(time.RFC3339))
	return r.box.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

// AgentCard renders one agent in full, code snippets as markdown.
func (r *Renderer) AgentCard(a *entity.AgentMetadata) string {
	var b strings.Builder
	b.WriteString(r.title.Render(a.Name))
	b.WriteString(r.muted.Render("  v" + a.Version))
	b.WriteString("\n\n")
	b.WriteString(a.Description + "\n\n")

	r.field(&b, "id", a.ID)
	if a.Provider != nil {
		r.field(&b, "provider", fmt.Sprintf("%s (%s)", a.Provider.Name, a.Provider.ProviderType))
	} else {
		r.field(&b, "provider", a.ProviderID)
	}
	r.field(&b, "domains", joinDomains(a.Domains))
	if len(a.Tags) > 0 {
		r.field(&b, "tags", strings.Join(a.Tags, ", "))
	}

	r.field(&b, "planning", string(a.Features.Planning))
	r.field(&b, "memory", joinMemory(a.Features.Memory))
	r.field(&b, "tool use", string(a.Features.ToolUse))
	if caps := capabilityFlags(&a.Features); caps != "" {
		r.field(&b, "capabilities", caps)
	}
	if len(a.Features.ReasoningFrameworks) > 0 {
		r.field(&b, "reasoning", strings.Join(a.Features.ReasoningFrameworks, ", "))
	}

	if len(a.SupportedLLMs) > 0 {
		names := make([]string, len(a.SupportedLLMs))
		for i, l := range a.SupportedLLMs {
			names[i] = l.ModelName
			if l.PerformanceRating != nil {
				names[i] += fmt.Sprintf(" (%d/5)", *l.PerformanceRating)
			}
		}
		r.field(&b, "llms", strings.Join(names, ", "))
	}
	if len(a.VectorStores) > 0 {
		names := make([]string, len(a.VectorStores))
		for i, v := range a.VectorStores {
			names[i] = v.Name
		}
		r.field(&b, "vector stores", strings.Join(names, ", "))
	}
	if len(a.MemoryStores) > 0 {
		names := make([]string, len(a.MemoryStores))
		for i, m := range a.MemoryStores {
			names[i] = fmt.Sprintf("%s (%s)", m.Name, m.Type)
		}
		r.field(&b, "memory stores", strings.Join(names, ", "))
	}

	if a.StarRating != nil {
		r.field(&b, "rating", fmt.Sprintf("%.1f/5 from %d reviews", *a.StarRating, a.ReviewCount))
	}
	if a.InstallationCount > 0 {
		r.field(&b, "installs", fmt.Sprintf("%d", a.InstallationCount))
	}
	r.field(&b, "updated", a.UpdatedAt.Format(time.RFC3339))

	out := r.box.Render(strings.TrimRight(b.String(), "\n")) + "\n"

	for _, s := range a.CodeSnippets {
		md := fmt.Sprintf("**%s**\n\n```%s\n%s\n```", s.Description, s.Language, s.Code)
		out += "\n" + r.renderMarkdown(md) + "\n"
	}
	if len(a.ExamplePrompts) > 0 {
		out += "\n" + r.label.Render("example prompts") + "\n"
		for _, p := range a.ExamplePrompts {
			out += "  • " + p + "\n"
		}
	}
	return out
}

// CompareTable renders agents side by side, one attribute per row.
func (r *Renderer) CompareTable(agents []*entity.AgentMetadata) string {
	headers := make([]string, 0, len(agents)+1)
	headers = append(headers, "")
	for _, a := range agents {
		headers = append(headers, a.Name)
	}

	row := func(label string, get func(*entity.AgentMetadata) string) []string {
		cells := []string{label}
		for _, a := range agents {
			cells = append(cells, get(a))
		}
		return cells
	}

	rows := [][]string{
		row("version", func(a *entity.AgentMetadata) string { return a.Version }),
		row("provider", func(a *entity.AgentMetadata) string {
			if a.Provider == nil {
				return ""
			}
			return a.Provider.Name
		}),
		row("domains", func(a *entity.AgentMetadata) string { return joinDomains(a.Domains) }),
		row("planning", func(a *entity.AgentMetadata) string { return string(a.Features.Planning) }),
		row("memory", func(a *entity.AgentMetadata) string { return joinMemory(a.Features.Memory) }),
		row("tool use", func(a *entity.AgentMetadata) string { return string(a.Features.ToolUse) }),
		row("capabilities", func(a *entity.AgentMetadata) string { return capabilityFlags(&a.Features) }),
		row("llms", func(a *entity.AgentMetadata) string {
			names := make([]string, len(a.SupportedLLMs))
			for i, l := range a.SupportedLLMs {
				names[i] = l.ModelName
			}
			return strings.Join(names, ", ")
		}),
		row("gpu required", func(a *entity.AgentMetadata) string {
			if a.ResourceRequirements.GPURequired {
				return "yes"
			}
			return "no"
		}),
		row("rating", func(a *entity.AgentMetadata) string {
			if a.StarRating == nil {
				return "—"
			}
			return fmt.Sprintf("%.1f/5", *a.StarRating)
		}),
	}
	return r.table(headers, rows)
}

// StatsView summarizes the catalog: totals plus the facet index.
func (r *Renderer) StatsView(providerCount, agentCount int, facets query.FacetIndex) string {
	var b strings.Builder
	b.WriteString(r.title.Render("catalog") + "\n")
	r.field(&b, "providers", fmt.Sprintf("%d", providerCount))
	r.field(&b, "agents", fmt.Sprintf("%d", agentCount))
	r.field(&b, "domains", joinDomains(facets.Domains))
	if len(facets.Tags) > 0 {
		r.field(&b, "tags", strings.Join(facets.Tags, ", "))
	}
	if len(facets.LLMModels) > 0 {
		r.field(&b, "llms", strings.Join(facets.LLMModels, ", "))
	}
	if len(facets.ReasoningFrameworks) > 0 {
		r.field(&b, "reasoning", strings.Join(facets.ReasoningFrameworks, ", "))
	}
	return b.String()
}

func (r *Renderer) field(b *strings.Builder, label, value string) {
	b.WriteString(r.label.Render(pad(label, 14)))
	b.WriteString(value)
	b.WriteString("\n")
}

func (r *Renderer) renderMarkdown(md string) string {
	if r.glamour == nil {
		return md
	}
	out, err := r.glamour.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

func joinDomains(domains []entity.AgentDomain) string {
	parts := make([]string, len(domains))
	for i, d := range domains {
		parts[i] = string(d)
	}
	return strings.Join(parts, ", ")
}

func joinMemory(mem []entity.MemoryType) string {
	parts := make([]string, len(mem))
	for i, m := range mem {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}

func capabilityFlags(f *entity.AgentFeatures) string {
	var caps []string
	for _, c := range []struct {
		on   bool
		name string
	}{
		{f.MultiAgentCollaboration, "multi-agent"},
		{f.HumanInTheLoop, "human-in-the-loop"},
		{f.Autonomous, "autonomous"},
		{f.FineTuningSupport, "fine-tuning"},
		{f.StreamingSupport, "streaming"},
		{f.SupportsVision, "vision"},
		{f.SupportsAudio, "audio"},
	} {
		if c.on {
			caps = append(caps, c.name)
		}
	}
	return strings.Join(caps, ", ")
}
