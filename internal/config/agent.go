package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AgentConfig defines how AgentDeck reaches an agent when no flags or
// settings say otherwise: either a websocket endpoint or a subprocess
// command, never both.
type AgentConfig struct {
	// Endpoint is the websocket URL of a running agent.
	Endpoint string `json:"endpoint"`
	// Command launches an agent subprocess speaking the protocol on stdio.
	Command string `json:"command"`
	// Args are extra arguments for the subprocess.
	Args []string `json:"args"`
	// DefaultModel is requested when no CLI or settings override exists.
	DefaultModel string `json:"default_model"`
	// ModelAliases maps friendly names (e.g., fast) to agent model ids.
	ModelAliases map[string]string `json:"model_aliases"`
}

var (
	// ErrAgentConfigMissing is returned when the config file does not exist.
	ErrAgentConfigMissing = errors.New("agent config missing")
	// ErrAgentConfigInvalid is returned when no connection target is set.
	ErrAgentConfigInvalid = errors.New("agent config invalid")
)

// AgentConfigPath returns the default agent config path.
func AgentConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".agentdeck", "agent.json"), nil
}

// LoadAgentConfig reads and validates the agent config.
func LoadAgentConfig(path string) (*AgentConfig, error) {
	if path == "" {
		var err error
		path, err = AgentConfigPath()
		if err != nil {
			return nil, err
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrAgentConfigMissing
		}
		return nil, fmt.Errorf("read agent config: %w", err)
	}

	var cfg AgentConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse agent config: %w", err)
	}

	if cfg.Endpoint == "" && cfg.Command == "" {
		return nil, ErrAgentConfigInvalid
	}

	if cfg.ModelAliases == nil {
		cfg.ModelAliases = make(map[string]string)
	}

	return &cfg, nil
}

// ResolveModel returns the model id to request for the session.
func ResolveModel(cfg *AgentConfig, cliModel string, settingsModel string) string {
	// CLI input takes precedence over settings.
	if cliModel != "" {
		return aliasModel(cfg, cliModel)
	}
	if settingsModel != "" {
		return aliasModel(cfg, settingsModel)
	}
	if cfg == nil {
		return ""
	}
	return cfg.DefaultModel
}

// aliasModel resolves an alias to an agent model id.
func aliasModel(cfg *AgentConfig, name string) string {
	if cfg == nil {
		return name
	}
	if aliased, ok := cfg.ModelAliases[name]; ok {
		return aliased
	}
	return name
}
