package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Settings holds the layered AgentDeck configuration. Values merge
// user, then project, then local settings, with later layers winning.
type Settings struct {
	// Endpoint is the websocket URL of the agent, e.g. ws://host/acp.
	Endpoint string
	// AgentCommand launches an agent subprocess instead of dialing a URL.
	AgentCommand string
	// AgentArgs are extra arguments for the agent subprocess.
	AgentArgs []string
	// Model is the preferred model id requested after session creation.
	Model string
	// Mode is the preferred session mode id.
	Mode string
	// Raw retains the full JSON map for forward compatibility.
	Raw map[string]any
}

// LoadSettings loads settings from user/project/local sources and merges
// them. sources restricts which layers apply; extraSettings is a path or
// inline JSON applied last.
func LoadSettings(cwd string, sources []string, extraSettings string) (*Settings, error) {
	sourceSet := normalizeSources(sources)
	paths, err := settingsPaths(cwd)
	if err != nil {
		return nil, err
	}

	var merged *Settings
	for _, item := range paths {
		if len(sourceSet) > 0 && !sourceSet[item.Source] {
			continue
		}
		// Missing layers are simply skipped.
		settings, err := loadSettingsFromFile(item.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		merged = mergeSettings(merged, settings)
	}

	if extraSettings != "" {
		override, err := loadSettingsFlag(extraSettings)
		if err != nil {
			return nil, err
		}
		merged = mergeSettings(merged, override)
	}

	if merged == nil {
		return &Settings{Raw: map[string]any{}}, nil
	}

	return merged, nil
}

type settingsSource struct {
	Source string
	Path   string
}

// settingsPaths resolves user, project, and local settings files.
func settingsPaths(cwd string) ([]settingsSource, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	projectRoot := findProjectRoot(cwd)

	return []settingsSource{
		{Source: "user", Path: filepath.Join(home, ".agentdeck", "settings.json")},
		{Source: "project", Path: filepath.Join(projectRoot, ".agentdeck", "settings.json")},
		{Source: "local", Path: filepath.Join(cwd, ".agentdeck", "settings.json")},
	}, nil
}

// normalizeSources returns a set of allowed sources, or nil if unrestricted.
func normalizeSources(sources []string) map[string]bool {
	if len(sources) == 0 {
		return nil
	}
	set := make(map[string]bool)
	for _, entry := range sources {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		set[strings.ToLower(entry)] = true
	}
	return set
}

// loadSettingsFromFile reads settings JSON from disk.
func loadSettingsFromFile(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSettings(raw)
}

// loadSettingsFlag resolves a settings override from a path or inline JSON.
func loadSettingsFlag(value string) (*Settings, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "{") {
		return parseSettings([]byte(trimmed))
	}
	return loadSettingsFromFile(trimmed)
}

// parseSettings parses an AgentDeck settings JSON document.
func parseSettings(raw []byte) (*Settings, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	settings := &Settings{Raw: data}

	if endpoint, ok := data["endpoint"].(string); ok {
		settings.Endpoint = endpoint
	}
	if command, ok := data["agentCommand"].(string); ok {
		settings.AgentCommand = command
	}
	if rawArgs, ok := data["agentArgs"].([]any); ok {
		for _, rawArg := range rawArgs {
			if arg, ok := rawArg.(string); ok {
				settings.AgentArgs = append(settings.AgentArgs, arg)
			}
		}
	}
	if model, ok := data["model"].(string); ok {
		settings.Model = model
	}
	if mode, ok := data["mode"].(string); ok {
		settings.Mode = mode
	}

	return settings, nil
}

// mergeSettings applies overlay values on top of the base settings.
func mergeSettings(base *Settings, overlay *Settings) *Settings {
	if base == nil {
		return overlay
	}
	if overlay == nil {
		return base
	}

	merged := &Settings{
		Endpoint:     base.Endpoint,
		AgentCommand: base.AgentCommand,
		AgentArgs:    base.AgentArgs,
		Model:        base.Model,
		Mode:         base.Mode,
		Raw:          map[string]any{},
	}

	for key, value := range base.Raw {
		merged.Raw[key] = value
	}
	for key, value := range overlay.Raw {
		merged.Raw[key] = value
	}

	if overlay.Endpoint != "" {
		merged.Endpoint = overlay.Endpoint
	}
	if overlay.AgentCommand != "" {
		merged.AgentCommand = overlay.AgentCommand
		merged.AgentArgs = overlay.AgentArgs
	}
	if overlay.Model != "" {
		merged.Model = overlay.Model
	}
	if overlay.Mode != "" {
		merged.Mode = overlay.Mode
	}

	return merged
}

// findProjectRoot locates the nearest parent directory containing .git.
func findProjectRoot(cwd string) string {
	current := filepath.Clean(cwd)
	for {
		if _, err := os.Stat(filepath.Join(current, ".git")); err == nil {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			// No repository root found; stay in the working directory.
			return cwd
		}
		current = parent
	}
}
