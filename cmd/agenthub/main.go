package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthub/agenthub/internal/application"
	"github.com/agenthub/agenthub/internal/domain/entity"
	"github.com/agenthub/agenthub/internal/domain/query"
	"github.com/agenthub/agenthub/internal/domain/repository"
	"github.com/agenthub/agenthub/internal/infrastructure/config"
	"github.com/agenthub/agenthub/internal/infrastructure/logger"
	"github.com/agenthub/agenthub/internal/interfaces/cli"
)

const (
	cliName    = "agenthub"
	cliVersion = "0.3.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           cliName,
		Short:         "AI Agent Hub — a catalog of AI agents, providers, and supporting technology",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("data-dir", "", "override the data directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log catalog operations")

	rootCmd.AddCommand(newProviderCmd())
	rootCmd.AddCommand(newAgentCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newFilterCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", cliName, cliVersion)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newApp builds the wired application for one command invocation.
func newApp(cmd *cobra.Command) (*application.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.Data.Dir = dir
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
		cfg.Log.Level = "error"
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return application.New(cfg, log)
}

func renderer() *cli.Renderer {
	return cli.NewRenderer(100)
}

// ─── provider ───

func newProviderCmd() *cobra.Command {
	providerCmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage catalog providers",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			p := providerFromFlags(cmd, &entity.Provider{})
			stored, err := app.Catalog.AddProvider(context.Background(), p)
			if err != nil {
				return err
			}
			fmt.Print(renderer().ProviderCard(stored))
			return nil
		},
	}
	providerFlags(addCmd)
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("description")
	_ = addCmd.MarkFlagRequired("url")

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a provider; unset flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := context.Background()
			existing, err := app.Catalog.GetProvider(ctx, args[0])
			if err != nil {
				return err
			}
			stored, err := app.Catalog.UpdateProvider(ctx, providerFromFlags(cmd, existing))
			if err != nil {
				return err
			}
			fmt.Print(renderer().ProviderCard(stored))
			return nil
		},
	}
	providerFlags(updateCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := context.Background()
			var providers []*entity.Provider
			if t, _ := cmd.Flags().GetString("type"); t != "" {
				providers, err = app.Catalog.GetProvidersByType(ctx, entity.ProviderType(t))
			} else {
				providers, err = app.Catalog.GetAllProviders(ctx)
			}
			if err != nil {
				return err
			}
			fmt.Print(renderer().ProviderTable(providers))
			return nil
		},
	}
	listCmd.Flags().String("type", "", "filter by provider type (company|framework|open_source|research|other|none)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			p, err := app.Catalog.GetProvider(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(renderer().ProviderCard(p))
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a provider (fails while agents still reference it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			deleted, err := app.Catalog.DeleteProvider(context.Background(), args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("provider %q not found", args[0])
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}

	providerCmd.AddCommand(addCmd, updateCmd, listCmd, showCmd, rmCmd)
	return providerCmd
}

func providerFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "provider name")
	cmd.Flags().String("description", "", "provider description")
	cmd.Flags().String("url", "", "provider website URL")
	cmd.Flags().String("type", string(entity.ProviderTypeCompany), "provider type")
	cmd.Flags().String("provider-version", "", "version (frameworks only)")
	cmd.Flags().String("logo-url", "", "logo URL")
	cmd.Flags().String("github-url", "", "GitHub URL")
	cmd.Flags().String("docs-url", "", "documentation URL")
	cmd.Flags().String("support-email", "", "support email")
	cmd.Flags().String("support-url", "", "support URL")
}

// providerFromFlags overlays the flags that were actually set onto base.
func providerFromFlags(cmd *cobra.Command, base *entity.Provider) *entity.Provider {
	set := func(flag string, target *string) {
		if cmd.Flags().Changed(flag) {
			*target, _ = cmd.Flags().GetString(flag)
		}
	}
	set("name", &base.Name)
	set("description", &base.Description)
	set("url", &base.URL)
	set("provider-version", &base.Version)
	set("logo-url", &base.LogoURL)
	set("github-url", &base.GithubURL)
	set("docs-url", &base.DocsURL)
	set("support-email", &base.SupportEmail)
	set("support-url", &base.SupportURL)
	if cmd.Flags().Changed("type") {
		t, _ := cmd.Flags().GetString("type")
		base.ProviderType = entity.ProviderType(t)
	}
	return base
}

// ─── agent ───

func newAgentCmd() *cobra.Command {
	agentCmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage cataloged agents",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an agent from flags, or a full record with --file",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			a, err := agentFromInput(cmd)
			if err != nil {
				return err
			}
			stored, err := app.Catalog.AddAgent(context.Background(), a)
			if err != nil {
				return err
			}
			fmt.Print(renderer().AgentCard(stored))
			return nil
		},
	}
	agentFlags(addCmd)

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Replace an agent from a full JSON record (id required in the file)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				return fmt.Errorf("--file is required for agent update")
			}
			a, err := agentFromFile(file)
			if err != nil {
				return err
			}
			stored, err := app.Catalog.UpdateAgent(context.Background(), a)
			if err != nil {
				return err
			}
			fmt.Print(renderer().AgentCard(stored))
			return nil
		},
	}
	updateCmd.Flags().String("file", "", "JSON file holding the full agent record")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			agents, err := app.Catalog.GetAllAgents(context.Background())
			if err != nil {
				return err
			}
			sortKey, _ := cmd.Flags().GetString("sort")
			fmt.Print(renderer().AgentTable(sortAgents(agents, sortKey)))
			return nil
		},
	}
	listCmd.Flags().String("sort", "name", "sort key: name|provider|updated")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			a, err := app.Catalog.GetAgent(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(renderer().AgentCard(a))
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			deleted, err := app.Catalog.DeleteAgent(context.Background(), args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("agent %q not found", args[0])
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}

	agentCmd.AddCommand(addCmd, updateCmd, listCmd, showCmd, rmCmd)
	return agentCmd
}

func agentFlags(cmd *cobra.Command) {
	cmd.Flags().String("file", "", "JSON file holding the full agent record (overrides other flags)")
	cmd.Flags().String("name", "", "agent name")
	cmd.Flags().String("description", "", "agent description")
	cmd.Flags().String("agent-version", "", "agent version")
	cmd.Flags().String("provider", "", "provider id")
	cmd.Flags().StringSlice("domain", nil, "domains (repeatable)")
	cmd.Flags().StringSlice("tag", nil, "free-text tags (repeatable)")
	cmd.Flags().String("planning", string(entity.PlanningNone), "planning capability")
	cmd.Flags().StringSlice("memory", []string{string(entity.MemoryNone)}, "memory types (repeatable)")
	cmd.Flags().String("tool-use", string(entity.ToolUseNone), "tool-use capability")
	cmd.Flags().StringSlice("reasoning", nil, "reasoning frameworks (repeatable)")
	cmd.Flags().Bool("multi-agent", false, "multi-agent collaboration")
	cmd.Flags().Bool("human-in-the-loop", false, "human-in-the-loop")
	cmd.Flags().Bool("autonomous", false, "autonomous operation")
	cmd.Flags().Bool("fine-tuning", false, "fine-tuning support")
	cmd.Flags().Bool("streaming", false, "streaming support")
	cmd.Flags().Bool("vision", false, "vision support")
	cmd.Flags().Bool("audio", false, "audio support")
	cmd.Flags().String("github-url", "", "GitHub URL")
	cmd.Flags().String("docs-url", "", "documentation URL")
	cmd.Flags().String("demo-url", "", "demo URL")
}

func agentFromInput(cmd *cobra.Command) (*entity.AgentMetadata, error) {
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		return agentFromFile(file)
	}

	str := func(flag string) string { s, _ := cmd.Flags().GetString(flag); return s }
	boolean := func(flag string) bool { b, _ := cmd.Flags().GetBool(flag); return b }

	domains, _ := cmd.Flags().GetStringSlice("domain")
	memory, _ := cmd.Flags().GetStringSlice("memory")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	reasoning, _ := cmd.Flags().GetStringSlice("reasoning")

	a := &entity.AgentMetadata{
		Name:        str("name"),
		Description: str("description"),
		Version:     str("agent-version"),
		ProviderID:  str("provider"),
		Features: entity.AgentFeatures{
			Planning:                entity.PlanningCapability(str("planning")),
			ToolUse:                 entity.ToolUseCapability(str("tool-use")),
			ReasoningFrameworks:     reasoning,
			MultiAgentCollaboration: boolean("multi-agent"),
			HumanInTheLoop:          boolean("human-in-the-loop"),
			Autonomous:              boolean("autonomous"),
			FineTuningSupport:       boolean("fine-tuning"),
			StreamingSupport:        boolean("streaming"),
			SupportsVision:          boolean("vision"),
			SupportsAudio:           boolean("audio"),
		},
		Tags:      tags,
		GithubURL: str("github-url"),
		DocsURL:   str("docs-url"),
		DemoURL:   str("demo-url"),
	}
	for _, m := range memory {
		a.Features.Memory = append(a.Features.Memory, entity.MemoryType(m))
	}
	for _, d := range domains {
		a.Domains = append(a.Domains, entity.AgentDomain(d))
	}
	return a, nil
}

func agentFromFile(path string) (*entity.AgentMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var a entity.AgentMetadata
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &a, nil
}

func sortAgents(agents []*entity.AgentMetadata, key string) []*entity.AgentMetadata {
	set := query.Agents(agents)
	switch key {
	case "provider":
		return set.SortByProviderName()
	case "updated":
		return set.SortByUpdated()
	default:
		return set.SortByName()
	}
}

// ─── search / filter / compare / stats ───

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search agents by name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			agents, err := app.Catalog.SearchAgents(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(renderer().AgentTable(agents))
			return nil
		},
	}
}

func newFilterCmd() *cobra.Command {
	filterCmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter agents; all supplied criteria must match",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			providerID, _ := cmd.Flags().GetString("provider")
			domains, _ := cmd.Flags().GetStringSlice("domain")
			featurePairs, _ := cmd.Flags().GetStringSlice("feature")

			filter := repository.AgentFilter{ProviderID: providerID}
			for _, d := range domains {
				filter.Domains = append(filter.Domains, entity.AgentDomain(d))
			}
			if len(featurePairs) > 0 {
				filter.Features = map[string]any{}
				for _, pair := range featurePairs {
					key, value, ok := strings.Cut(pair, "=")
					if !ok {
						return fmt.Errorf("bad --feature %q, expected key=value", pair)
					}
					if strings.Contains(value, ",") {
						filter.Features[key] = strings.Split(value, ",")
					} else {
						filter.Features[key] = value
					}
				}
			}

			agents, err := app.Catalog.FilterAgents(context.Background(), filter)
			if err != nil {
				return err
			}

			set := query.Agents(agents)
			if tags, _ := cmd.Flags().GetStringSlice("tag"); len(tags) > 0 {
				set = set.ByTags(tags...)
			}
			if llm, _ := cmd.Flags().GetString("llm"); llm != "" {
				set = set.ByLLMModel(llm)
			}
			if rf, _ := cmd.Flags().GetString("reasoning"); rf != "" {
				set = set.ByReasoningFramework(rf)
			}
			fmt.Print(renderer().AgentTable(set))
			return nil
		},
	}
	filterCmd.Flags().String("provider", "", "provider id")
	filterCmd.Flags().StringSlice("domain", nil, "domains; an agent matches if it has any of them")
	filterCmd.Flags().StringSlice("tag", nil, "free-text tags")
	filterCmd.Flags().StringSlice("feature", nil, "feature criteria, key=value (value may be a comma list)")
	filterCmd.Flags().String("llm", "", "supported LLM model name")
	filterCmd.Flags().String("reasoning", "", "reasoning framework name")
	return filterCmd
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <id> <id> [id...]",
		Short: "Compare agents side by side",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := context.Background()
			agents := make([]*entity.AgentMetadata, 0, len(args))
			for _, id := range args {
				a, err := app.Catalog.GetAgent(ctx, id)
				if err != nil {
					return err
				}
				agents = append(agents, a)
			}
			fmt.Print(renderer().CompareTable(agents))
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := context.Background()
			providers, err := app.Catalog.GetAllProviders(ctx)
			if err != nil {
				return err
			}
			agents, err := app.Catalog.GetAllAgents(ctx)
			if err != nil {
				return err
			}
			fmt.Print(renderer().StatsView(len(providers), len(agents), query.Facets(agents)))
			return nil
		},
	}
}
