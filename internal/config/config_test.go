package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsPrecedence(t *testing.T) {
	// Arrange a temporary HOME and project tree with layered settings.
	tempDir := t.TempDir()
	homeDir := filepath.Join(tempDir, "home")
	if err := os.MkdirAll(filepath.Join(homeDir, ".agentdeck"), 0o755); err != nil {
		t.Fatalf("create home dir: %v", err)
	}
	userSettings := `{"endpoint":"ws://user/acp","model":"user"}`
	if err := os.WriteFile(filepath.Join(homeDir, ".agentdeck", "settings.json"), []byte(userSettings), 0o600); err != nil {
		t.Fatalf("write user settings: %v", err)
	}

	// Create a repo root with project settings.
	repoDir := filepath.Join(tempDir, "repo")
	if err := os.MkdirAll(filepath.Join(repoDir, ".git"), 0o755); err != nil {
		t.Fatalf("create repo dir: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(repoDir, ".agentdeck"), 0o755); err != nil {
		t.Fatalf("create project settings dir: %v", err)
	}
	projectSettings := `{"model":"project"}`
	if err := os.WriteFile(filepath.Join(repoDir, ".agentdeck", "settings.json"), []byte(projectSettings), 0o600); err != nil {
		t.Fatalf("write project settings: %v", err)
	}

	// Add local settings in a subdirectory to override project settings.
	localDir := filepath.Join(repoDir, "sub")
	if err := os.MkdirAll(filepath.Join(localDir, ".agentdeck"), 0o755); err != nil {
		t.Fatalf("create local dir: %v", err)
	}
	localSettings := `{"model":"local"}`
	if err := os.WriteFile(filepath.Join(localDir, ".agentdeck", "settings.json"), []byte(localSettings), 0o600); err != nil {
		t.Fatalf("write local settings: %v", err)
	}

	// Override HOME so the loader reads our temp user settings.
	t.Setenv("HOME", homeDir)

	// Act.
	settings, err := LoadSettings(localDir, []string{"user", "project", "local"}, "")
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	// Assert: later layers win per field, untouched fields survive.
	if settings.Model != "local" {
		t.Fatalf("expected local model, got %s", settings.Model)
	}
	if settings.Endpoint != "ws://user/acp" {
		t.Fatalf("expected user endpoint preserved, got %s", settings.Endpoint)
	}
}

func TestLoadSettingsInlineOverride(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", filepath.Join(tempDir, "home"))

	settings, err := LoadSettings(tempDir, nil, `{"agentCommand":"my-agent","agentArgs":["acp","--verbose"]}`)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if settings.AgentCommand != "my-agent" {
		t.Fatalf("expected inline agent command, got %s", settings.AgentCommand)
	}
	if len(settings.AgentArgs) != 2 || settings.AgentArgs[1] != "--verbose" {
		t.Fatalf("expected agent args, got %v", settings.AgentArgs)
	}
}

func TestResolveModelAliases(t *testing.T) {
	// Arrange a config with an alias.
	cfg := &AgentConfig{
		DefaultModel: "base-model",
		ModelAliases: map[string]string{
			"fast": "alias-model",
		},
	}

	// Assert alias resolution.
	if got := ResolveModel(cfg, "", "fast"); got != "alias-model" {
		t.Fatalf("expected alias-model, got %s", got)
	}
	// CLI overrides settings.
	if got := ResolveModel(cfg, "custom", "fast"); got != "custom" {
		t.Fatalf("expected custom, got %s", got)
	}
	// Fall back to the config default.
	if got := ResolveModel(cfg, "", ""); got != "base-model" {
		t.Fatalf("expected base-model, got %s", got)
	}
}

func TestLoadAgentConfigValidation(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "agent.json")

	if _, err := LoadAgentConfig(path); err != ErrAgentConfigMissing {
		t.Fatalf("expected missing config error, got %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"default_model":"m"}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadAgentConfig(path); err != ErrAgentConfigInvalid {
		t.Fatalf("expected invalid config error, got %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"endpoint":"ws://localhost:9910/acp"}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadAgentConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Endpoint != "ws://localhost:9910/acp" {
		t.Fatalf("unexpected endpoint %s", cfg.Endpoint)
	}
}
