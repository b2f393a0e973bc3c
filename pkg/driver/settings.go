package driver

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// SettingsFileName lives under the giu home directory.
const SettingsFileName = "config.toml"

// Settings holds user-level preferences for the CLI and REPL.
type Settings struct {
	Repl   ReplSettings   `toml:"repl"`
	Output OutputSettings `toml:"output"`
}

// ReplSettings configures the interactive session.
type ReplSettings struct {
	Prompt       string `toml:"prompt"`
	ResultPrefix string `toml:"result_prefix"`
	HistorySize  int    `toml:"history_size"`
}

// OutputSettings configures terminal rendering.
type OutputSettings struct {
	Color bool `toml:"color"`
}

// DefaultSettings returns the values used when no config file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Repl: ReplSettings{
			Prompt:       ">> ",
			ResultPrefix: "=> ",
			HistorySize:  500,
		},
		Output: OutputSettings{Color: true},
	}
}

// LoadSettings reads config.toml under the giu home, falling back to
// defaults when the file is absent. Unknown keys are rejected.
func LoadSettings(home string) (*Settings, error) {
	path := filepath.Join(home, SettingsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("settings: read %s: %w", path, err)
	}
	settings := DefaultSettings()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(settings); err != nil {
		return nil, fmt.Errorf("settings: parse %s: %w", path, err)
	}
	if settings.Repl.HistorySize < 0 {
		return nil, fmt.Errorf("settings: repl.history_size must not be negative")
	}
	return settings, nil
}

// Save writes the settings back to config.toml.
func (s *Settings) Save(home string) error {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("settings: create %s: %w", home, err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	path := filepath.Join(home, SettingsFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	return nil
}
