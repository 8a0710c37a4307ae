package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/omnibar/internal/engine"
	"github.com/jask/omnibar/internal/keyseq"
	"github.com/jask/omnibar/internal/llm"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Search   SearchConfig
	Keys     KeysConfig
	Intent   IntentConfig
	History  HistoryConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// SearchConfig holds remote search settings. An empty BaseURL disables
// remote search.
type SearchConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Debounce       time.Duration `mapstructure:"debounce"`
	MinQueryLength int           `mapstructure:"min_query_length"`
	Timeout        time.Duration `mapstructure:"timeout"`
	PoolSize       int           `mapstructure:"pool_size"`
}

// KeysConfig holds keyboard shortcut defaults. Stored preferences win.
type KeysConfig struct {
	SequenceTimeout time.Duration `mapstructure:"sequence_timeout"`
	Enabled         bool          `mapstructure:"enabled"`
	ShowHints       bool          `mapstructure:"show_hints"`
}

// IntentConfig holds remote classifier settings.
type IntentConfig struct {
	RemoteThreshold float64       `mapstructure:"remote_threshold"`
	RemoteTimeout   time.Duration `mapstructure:"remote_timeout"`
	Provider        string        `mapstructure:"provider"`
	BaseURL         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"`
	APIKeyEnv       string        `mapstructure:"api_key_env"`
	APIKey          string        `mapstructure:"api_key"`
}

// HistoryConfig caps the recent lists.
type HistoryConfig struct {
	MaxRecentItems    int `mapstructure:"max_recent_items"`
	MaxRecentSearches int `mapstructure:"max_recent_searches"`
}

type LogConfig struct {
	Level string
	File  string
}

const envPrefix = "OMNIBAR"

// Path returns the config file location: $OMNIBAR_CONFIG or
// ~/.config/omnibar/config.toml.
func Path() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "omnibar", "config.toml")
}

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "omnibar", "omnibar.db"))
	v.SetDefault("search.base_url", "")
	v.SetDefault("search.debounce", 300*time.Millisecond)
	v.SetDefault("search.min_query_length", 2)
	v.SetDefault("search.timeout", 5*time.Second)
	v.SetDefault("search.pool_size", 4)
	v.SetDefault("keys.sequence_timeout", time.Second)
	v.SetDefault("keys.enabled", true)
	v.SetDefault("keys.show_hints", true)
	v.SetDefault("intent.remote_threshold", 0.65)
	v.SetDefault("intent.remote_timeout", 8*time.Second)
	v.SetDefault("intent.provider", "none")
	v.SetDefault("intent.base_url", "")
	v.SetDefault("intent.model", "gpt-4o-mini")
	v.SetDefault("intent.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("intent.api_key", "")
	v.SetDefault("history.max_recent_items", 10)
	v.SetDefault("history.max_recent_searches", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "omnibar", "omnibar.log"))
}

// Load reads configuration from file and env. Env var overrides use prefix OMNIBAR_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		v.SetConfigFile(p)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "omnibar"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// ResolveAPIKey returns the classifier key: the named env var first, then
// the config file value.
func (c IntentConfig) ResolveAPIKey() string {
	env := strings.TrimSpace(c.APIKeyEnv)
	if env == "" {
		env = "OPENAI_API_KEY"
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return strings.TrimSpace(c.APIKey)
}

// EngineSettings maps the config onto engine tuning.
func (c Config) EngineSettings() engine.Settings {
	return engine.Settings{
		Debounce:          c.Search.Debounce,
		MinQueryLength:    c.Search.MinQueryLength,
		SearchTimeout:     c.Search.Timeout,
		PoolSize:          c.Search.PoolSize,
		SequenceTimeout:   c.Keys.SequenceTimeout,
		RemoteThreshold:   c.Intent.RemoteThreshold,
		RemoteTimeout:     c.Intent.RemoteTimeout,
		MaxRecentItems:    c.History.MaxRecentItems,
		MaxRecentSearches: c.History.MaxRecentSearches,
		Preferences:       &keyseq.Preferences{Enabled: c.Keys.Enabled, ShowHints: c.Keys.ShowHints},
	}
}

func (c Config) LLMSettings() llm.Settings {
	return llm.Settings{
		Provider: c.Intent.Provider,
		BaseURL:  c.Intent.BaseURL,
		Model:    c.Intent.Model,
		APIKey:   c.Intent.ResolveAPIKey(),
	}
}

// Save writes the provided config to disk, creating the config directory if needed.
// The API key is stored in plain text; prefer the env var.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("search.base_url", cfg.Search.BaseURL)
	v.Set("search.debounce", cfg.Search.Debounce.String())
	v.Set("search.min_query_length", cfg.Search.MinQueryLength)
	v.Set("search.timeout", cfg.Search.Timeout.String())
	v.Set("search.pool_size", cfg.Search.PoolSize)
	v.Set("keys.sequence_timeout", cfg.Keys.SequenceTimeout.String())
	v.Set("keys.enabled", cfg.Keys.Enabled)
	v.Set("keys.show_hints", cfg.Keys.ShowHints)
	v.Set("intent.remote_threshold", cfg.Intent.RemoteThreshold)
	v.Set("intent.remote_timeout", cfg.Intent.RemoteTimeout.String())
	v.Set("intent.provider", cfg.Intent.Provider)
	v.Set("intent.base_url", cfg.Intent.BaseURL)
	v.Set("intent.model", cfg.Intent.Model)
	v.Set("intent.api_key_env", cfg.Intent.APIKeyEnv)
	v.Set("intent.api_key", cfg.Intent.APIKey)
	v.Set("history.max_recent_items", cfg.History.MaxRecentItems)
	v.Set("history.max_recent_searches", cfg.History.MaxRecentSearches)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
