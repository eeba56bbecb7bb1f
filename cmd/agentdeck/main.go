package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agentdeck/agentdeck/internal/client"
	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/session"
	"github.com/agentdeck/agentdeck/internal/transport"
)

// version is the CLI build version.
const version = "0.1.0"

// appName identifies this client in the protocol handshake.
const appName = "agentdeck"

// defaultEndpoint is dialed when no flag, setting, or agent config names a
// target.
const defaultEndpoint = "ws://127.0.0.1:8137/acp"

// options holds all CLI flags.
type options struct {
	// Endpoint is the websocket URL of a running agent.
	Endpoint string
	// AgentCmd launches an agent subprocess speaking the protocol on stdio.
	AgentCmd string
	// AgentArgs are extra arguments for the agent subprocess.
	AgentArgs []string
	// Model overrides the preferred model selection.
	Model string
	// Mode overrides the preferred session mode.
	Mode string
	// Resume resumes a specific session id, or the last one when bare.
	Resume string
	// Continue resumes the most recent session in the current project.
	Continue bool
	// NoAutoSession disables automatic session creation for this run.
	NoAutoSession bool
	// SettingSources limits settings layers to load.
	SettingSources []string
	// Settings provides a path or inline JSON for settings overrides.
	Settings string
	// Version prints the CLI version.
	Version bool
}

// main wires Cobra and executes the CLI.
func main() {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "agentdeck",
		Short: "AgentDeck - terminal client for agent-protocol servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Version {
				fmt.Println(version)
				return nil
			}
			return runRoot(opts)
		},
	}
	rootCmd.Args = cobra.NoArgs

	applyFlags(rootCmd.Flags(), opts)

	rootCmd.AddCommand(doctorCommand())
	rootCmd.AddCommand(sessionsCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyFlags defines all CLI flags.
func applyFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVar(&opts.Endpoint, "endpoint", "", "Websocket URL of the agent (ws://...)")
	flags.StringVar(&opts.AgentCmd, "agent-cmd", "", "Command launching an agent subprocess")
	flags.StringSliceVar(&opts.AgentArgs, "agent-arg", nil, "Extra argument for the agent subprocess (repeatable)")
	flags.StringVar(&opts.Model, "model", "", "Model for the session")
	flags.StringVar(&opts.Mode, "mode", "", "Session mode")
	flags.StringVarP(&opts.Resume, "resume", "r", "", "Resume a session by ID")
	flags.Lookup("resume").NoOptDefVal = "last"
	flags.BoolVarP(&opts.Continue, "continue", "c", false, "Continue the most recent session")
	flags.BoolVar(&opts.NoAutoSession, "no-auto-session", false, "Do not create a session automatically")
	flags.StringSliceVar(&opts.SettingSources, "setting-sources", nil, "Setting sources (user,project,local)")
	flags.StringVar(&opts.Settings, "settings", "", "Settings file path or JSON")
	flags.BoolVarP(&opts.Version, "version", "v", false, "Output the version number")
}

// runRoot resolves configuration and starts the interactive UI.
func runRoot(opts *options) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	settings, err := config.LoadSettings(cwd, opts.SettingSources, opts.Settings)
	if err != nil {
		return err
	}

	agentCfg, err := config.LoadAgentConfig("")
	if err != nil && !errors.Is(err, config.ErrAgentConfigMissing) {
		return err
	}

	endpoint, command, commandArgs := resolveTarget(opts, settings, agentCfg)
	if endpoint == "" && command == "" {
		endpoint = defaultEndpoint
	}

	store, err := session.NewStore(cwd)
	if err != nil {
		return err
	}

	var deckStore client.Store = store
	if opts.NoAutoSession {
		// Disable bootstrap for this run without touching the preference.
		deckStore = noAutoStore{Store: store}
	}

	dialer := buildDialer(endpoint, command, commandArgs)
	deck := client.New(dialer, deckStore, client.Options{
		Name:    appName,
		Title:   "AgentDeck",
		Version: version,
		Cwd:     cwd,
	})

	resumeTarget := resolveResumeTarget(opts, store)

	return runChatTUI(deck, chatConfig{
		Model:        config.ResolveModel(agentCfg, opts.Model, settings.Model),
		Mode:         firstNonEmpty(opts.Mode, settings.Mode),
		ResumeTarget: resumeTarget,
		Store:        store,
	})
}

// resolveTarget applies flag > settings > agent config precedence. A flag
// or settings endpoint and subprocess never mix: whichever layer wins
// supplies the whole target.
func resolveTarget(opts *options, settings *config.Settings, agentCfg *config.AgentConfig) (string, string, []string) {
	if opts.Endpoint != "" {
		return opts.Endpoint, "", nil
	}
	if opts.AgentCmd != "" {
		return "", opts.AgentCmd, opts.AgentArgs
	}
	if settings.Endpoint != "" {
		return settings.Endpoint, "", nil
	}
	if settings.AgentCommand != "" {
		return "", settings.AgentCommand, settings.AgentArgs
	}
	if agentCfg != nil {
		if agentCfg.Endpoint != "" {
			return agentCfg.Endpoint, "", nil
		}
		return "", agentCfg.Command, agentCfg.Args
	}
	return "", "", nil
}

// resolveResumeTarget picks the session to resume, if any.
func resolveResumeTarget(opts *options, store *session.Store) string {
	if opts.Resume != "" && opts.Resume != "last" {
		return opts.Resume
	}
	if opts.Resume == "last" || opts.Continue {
		return store.LastSession()
	}
	return ""
}

// buildDialer returns a websocket or subprocess dialer for the target.
func buildDialer(endpoint, command string, commandArgs []string) client.Dialer {
	if endpoint != "" {
		return func(handler transport.Handler) (transport.Transport, error) {
			return transport.DialWebSocket(endpoint, handler)
		}
	}
	return func(handler transport.Handler) (transport.Transport, error) {
		return transport.StartAgentProcess(command, commandArgs, os.Stderr, handler)
	}
}

// noAutoStore suppresses the auto session preference for one run.
type noAutoStore struct {
	client.Store
}

func (noAutoStore) AutoNewSession() bool { return false }

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// doctorCommand validates the agent configuration.
func doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check AgentDeck configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.AgentConfigPath()
			if err != nil {
				return err
			}
			cfg, err := config.LoadAgentConfig(path)
			if err != nil {
				if errors.Is(err, config.ErrAgentConfigMissing) {
					fmt.Printf("no agent config at %s; flags or settings must supply a target\n", path)
					return nil
				}
				return err
			}
			if cfg.Endpoint != "" {
				fmt.Printf("agent endpoint: %s\n", cfg.Endpoint)
			} else {
				fmt.Printf("agent command: %s %v\n", cfg.Command, cfg.Args)
			}
			fmt.Println("configuration ok")
			return nil
		},
	}
}

// sessionsCommand lists recent sessions for the current project.
func sessionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List recent sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			store, err := session.NewStore(cwd)
			if err != nil {
				return err
			}
			recent := store.RecentSessions()
			if len(recent) == 0 {
				fmt.Println("no sessions yet")
				return nil
			}
			for index, id := range recent {
				marker := " "
				if index == 0 {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, id)
			}
			return nil
		},
	}
}
