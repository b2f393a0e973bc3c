package driver

import (
	"path/filepath"
	"testing"
)

func TestLoadSettingsDefaultsWhenMissing(t *testing.T) {
	settings, err := LoadSettings(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if settings.Repl.Prompt != ">> " || settings.Repl.HistorySize != 500 || !settings.Output.Color {
		t.Fatalf("unexpected defaults %#v", settings)
	}
}

func TestLoadSettingsOverrides(t *testing.T) {
	home := t.TempDir()
	writeFileHelper(t, filepath.Join(home, SettingsFileName), `
[repl]
prompt = "giu> "

[output]
color = false
`)
	settings, err := LoadSettings(home)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if settings.Repl.Prompt != "giu> " {
		t.Fatalf("prompt override lost: %q", settings.Repl.Prompt)
	}
	// Untouched keys keep their defaults.
	if settings.Repl.HistorySize != 500 {
		t.Fatalf("history default lost: %d", settings.Repl.HistorySize)
	}
	if settings.Output.Color {
		t.Fatal("color override lost")
	}
}

func TestLoadSettingsRejectsUnknownKeys(t *testing.T) {
	home := t.TempDir()
	writeFileHelper(t, filepath.Join(home, SettingsFileName), "[repl]\ntheme = \"dark\"\n")
	if _, err := LoadSettings(home); err == nil {
		t.Fatal("unknown keys must be rejected")
	}
}

func TestLoadSettingsRejectsNegativeHistory(t *testing.T) {
	home := t.TempDir()
	writeFileHelper(t, filepath.Join(home, SettingsFileName), "[repl]\nhistory_size = -1\n")
	if _, err := LoadSettings(home); err == nil {
		t.Fatal("negative history must be rejected")
	}
}

func TestSettingsSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	settings := DefaultSettings()
	settings.Repl.Prompt = "λ "
	if err := settings.Save(home); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadSettings(home)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Repl.Prompt != "λ " {
		t.Fatalf("round trip lost prompt: %q", loaded.Repl.Prompt)
	}
}
