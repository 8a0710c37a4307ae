package config

import (
	"path/filepath"
	"testing"
	"time"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "omnibar", "config.toml")
	t.Setenv("HOME", dir)
	t.Setenv("OMNIBAR_CONFIG", path)
	return path
}

func TestLoadDefaults(t *testing.T) {
	useTempConfig(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Search.Debounce != 300*time.Millisecond {
		t.Fatalf("debounce = %v, want 300ms", c.Search.Debounce)
	}
	if c.Search.MinQueryLength != 2 {
		t.Fatalf("min query length = %d, want 2", c.Search.MinQueryLength)
	}
	if c.Keys.SequenceTimeout != time.Second || !c.Keys.Enabled || !c.Keys.ShowHints {
		t.Fatalf("keys = %+v", c.Keys)
	}
	if c.Intent.RemoteThreshold != 0.65 || c.Intent.Provider != "none" {
		t.Fatalf("intent = %+v", c.Intent)
	}
	if c.History.MaxRecentItems != 10 || c.History.MaxRecentSearches != 5 {
		t.Fatalf("history = %+v", c.History)
	}
	if filepath.Base(c.Database.Path) != "omnibar.db" {
		t.Fatalf("database path = %q", c.Database.Path)
	}
}

func TestEnvOverrides(t *testing.T) {
	useTempConfig(t)
	t.Setenv("OMNIBAR_SEARCH_BASE_URL", "http://crm.local")
	t.Setenv("OMNIBAR_SEARCH_DEBOUNCE", "150ms")
	t.Setenv("OMNIBAR_KEYS_ENABLED", "false")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Search.BaseURL != "http://crm.local" {
		t.Fatalf("base url = %q", c.Search.BaseURL)
	}
	if c.Search.Debounce != 150*time.Millisecond {
		t.Fatalf("debounce = %v, want 150ms", c.Search.Debounce)
	}
	if c.Keys.Enabled {
		t.Fatalf("keys enabled = true, want false")
	}
	if p := c.EngineSettings().Preferences; p == nil || p.Enabled {
		t.Fatalf("engine preferences = %+v, want disabled", p)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	useTempConfig(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.Intent.Provider = "backend"
	c.Intent.BaseURL = "http://crm.local"
	c.Keys.SequenceTimeout = 750 * time.Millisecond
	c.History.MaxRecentItems = 3
	if err := Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if got.Intent.Provider != "backend" || got.Intent.BaseURL != "http://crm.local" {
		t.Fatalf("intent = %+v", got.Intent)
	}
	if got.Keys.SequenceTimeout != 750*time.Millisecond {
		t.Fatalf("sequence timeout = %v, want 750ms", got.Keys.SequenceTimeout)
	}
	if got.EngineSettings().MaxRecentItems != 3 {
		t.Fatalf("max recent items = %d, want 3", got.EngineSettings().MaxRecentItems)
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("CRM_KEY", "from-env")
	c := IntentConfig{APIKeyEnv: "CRM_KEY", APIKey: "from-file"}
	if got := c.ResolveAPIKey(); got != "from-env" {
		t.Fatalf("key = %q, want from-env", got)
	}
	t.Setenv("CRM_KEY", "")
	if got := c.ResolveAPIKey(); got != "from-file" {
		t.Fatalf("key = %q, want from-file", got)
	}
	if got := (Config{Intent: c}).LLMSettings().APIKey; got != "from-file" {
		t.Fatalf("llm key = %q, want from-file", got)
	}
}
