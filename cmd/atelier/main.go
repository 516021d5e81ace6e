// Command atelier runs the multi-agent image studio from a YAML
// configuration: it provisions the configured assistants, hands the user's
// message to the orchestrator and prints the final reply. Generated images
// land in a local artifact directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/atelier-ai/atelier"
	"github.com/atelier-ai/atelier/artifact"
	"github.com/atelier-ai/atelier/config"
	"github.com/atelier-ai/atelier/core"
	"github.com/atelier-ai/atelier/imagery"
	"github.com/atelier-ai/atelier/logging"
	"github.com/atelier-ai/atelier/service/openai"
	"github.com/atelier-ai/atelier/tool"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "atelier",
		Short:         "Multi-agent image studio",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to YAML configuration (default: built-in roster)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.AddCommand(runCmd(flags))
	cmd.AddCommand(agentsCmd(flags))
	return cmd
}

func runCmd(flags *rootFlags) *cobra.Command {
	var (
		message     string
		artifactDir string
		critic      string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send a message to the orchestrator and print its reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			logger, err := newLogger(flags.logLevel)
			if err != nil {
				return err
			}

			store, err := artifact.NewFileStore(artifactDir)
			if err != nil {
				return err
			}
			capabilities, err := capabilityTable(store, critic)
			if err != nil {
				return err
			}

			studio, err := buildStudio(ctx, cfg, capabilities, logger)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := studio.Close(context.WithoutCancel(ctx)); cerr != nil {
					logger.Warn("assistant cleanup failed", "error", cerr)
				}
			}()

			reply, err := studio.Request(ctx, message)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "message for the orchestrator")
	cmd.Flags().StringVar(&artifactDir, "artifacts", "artifacts", "directory for generated images")
	cmd.Flags().StringVar(&critic, "critic", "openai", "critique backend (openai, anthropic)")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func agentsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the configured agent roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			for _, a := range cfg.Agents {
				marker := " "
				if a.Name == cfg.Orchestrator {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\n", marker, a.Name, a.Description)
			}
			return nil
		},
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	return config.Load(path)
}

func newLogger(level string) (logging.Logger, error) {
	switch level {
	case "debug":
		return logging.NewSlogLogger(logging.LogLevelDebug, "text", false), nil
	case "info":
		return logging.NewSlogLogger(logging.LogLevelInfo, "text", false), nil
	case "warn":
		return logging.NewSlogLogger(logging.LogLevelWarn, "text", false), nil
	case "error":
		return logging.NewSlogLogger(logging.LogLevelError, "text", false), nil
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
}

// capabilityTable maps the tool names the configuration may reference to
// their local implementations. Configuration referencing a name outside
// this table is rejected before any assistant is created.
func capabilityTable(store artifact.Store, criticBackend string) (map[string]tool.Tool, error) {
	var critic imagery.Critic
	switch criticBackend {
	case "openai":
		critic = imagery.NewVisionCritic()
	case "anthropic":
		critic = imagery.NewClaudeCritic()
	default:
		return nil, fmt.Errorf("unknown critic backend %q", criticBackend)
	}

	return map[string]tool.Tool{
		imagery.GenerateToolName: imagery.NewGenerateTool(imagery.NewDallESynthesizer(), store),
		imagery.CritiqueToolName: imagery.NewCritiqueTool(critic, store),
	}, nil
}

func buildStudio(ctx context.Context, cfg *config.Config, capabilities map[string]tool.Tool, logger logging.Logger) (*atelier.Studio, error) {
	toAgent := func(ac config.AgentConfig) (atelier.Agent, error) {
		tools := make([]tool.Tool, 0, len(ac.Tools))
		for _, name := range ac.Tools {
			t, ok := capabilities[name]
			if !ok {
				return atelier.Agent{}, fmt.Errorf("agent %q references unknown tool %q", ac.Name, name)
			}
			tools = append(tools, t)
		}
		return atelier.Agent{
			Definition: core.AssistantDef{
				Name:         ac.Name,
				Description:  ac.Description,
				Model:        ac.Model,
				Instructions: ac.Instructions,
			},
			Tools: tools,
		}, nil
	}

	orchCfg, _ := cfg.Agent(cfg.Orchestrator)
	orchestrator, err := toAgent(orchCfg)
	if err != nil {
		return nil, err
	}

	specialists := make([]atelier.Agent, 0, len(cfg.Agents)-1)
	for _, ac := range cfg.Specialists() {
		agent, err := toAgent(ac)
		if err != nil {
			return nil, err
		}
		specialists = append(specialists, agent)
	}

	return atelier.New(ctx, openai.NewService(), orchestrator, specialists, func(o *atelier.Options) {
		o.PollInterval = cfg.PollInterval.Std()
		o.MaxActionCycles = cfg.MaxActionCycles
		o.Logger = logger
	})
}

// defaultConfig is the built-in roster used when no configuration file is
// given: an orchestrating proxy plus a generation and a critique
// specialist.
func defaultConfig() *config.Config {
	cfg := config.Default()
	cfg.Orchestrator = "proxy_agent"
	cfg.Agents = []config.AgentConfig{
		{
			Name:         "proxy_agent",
			Description:  "Routes user requests to the specialist agents.",
			Model:        "gpt-4o",
			Instructions: "You coordinate an image studio. Use send_message to delegate image generation to dalle_assistant and image critique to vision_assistant, then report their results back to the user.",
		},
		{
			Name:         "dalle_assistant",
			Description:  "Generates images from text prompts.",
			Model:        "gpt-4o",
			Instructions: "You create images. Call generate_image with a detailed prompt and tell the user what was generated.",
			Tools:        []string{imagery.GenerateToolName},
		},
		{
			Name:         "vision_assistant",
			Description:  "Critiques the most recently generated image.",
			Model:        "gpt-4o",
			Instructions: "You analyze images. Call analyze_image with the user's instruction and report the critique.",
			Tools:        []string{imagery.CritiqueToolName},
		},
	}
	return cfg
}
