// Package config loads relay configuration from YAML and builds the
// provider registry from it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/anthropic"
	"github.com/fwojciec/relay/gemini"
	"github.com/fwojciec/relay/openai"
	"gopkg.in/yaml.v3"
)

// Config holds all relay configuration.
type Config struct {
	Log             LogConfig                       `yaml:"log"`
	Timeout         time.Duration                   `yaml:"timeout"`
	DefaultProvider string                          `yaml:"default_provider"`
	Providers       map[string]relay.ProviderConfig `yaml:"providers"`
}

// LogConfig selects the zap logger flavour.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// builders maps every known provider id to its constructor.
var builders = map[string]func(relay.ProviderConfig) relay.Provider{
	openai.DeepSeekID: openai.DeepSeek,
	openai.NebiusID:   openai.Nebius,
	openai.OpenAIID:   openai.OpenAI,
	gemini.ID:         gemini.New,
	anthropic.ID:      anthropic.New,
}

// KnownProviders returns every provider id config can build, sorted.
func KnownProviders() []string {
	ids := make([]string, 0, len(builders))
	for id := range builders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Default returns the configuration used when no file is present. API keys
// reference the conventional environment variables and are expanded by
// Expand.
func Default() Config {
	return Config{
		Log:             LogConfig{Level: "info", Format: "console"},
		DefaultProvider: openai.DeepSeekID,
		Providers: map[string]relay.ProviderConfig{
			openai.DeepSeekID: {APIKey: "${DEEPSEEK_API_KEY}"},
			openai.NebiusID:   {APIKey: "${NEBIUS_API_KEY}"},
			openai.OpenAIID:   {APIKey: "${OPENAI_API_KEY}"},
			gemini.ID:         {APIKey: "${GEMINI_API_KEY}"},
			anthropic.ID:      {APIKey: "${ANTHROPIC_API_KEY}"},
		},
	}
}

// DefaultSearchPaths returns the config file search order:
// ./relay.yaml, then ~/.config/relay/relay.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"relay.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "relay", "relay.yaml"))
	}
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must
// exist. Otherwise the first existing DefaultSearchPaths entry is returned,
// or empty string when there is none.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}
	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// Load reads a YAML file and merges it over Default. Environment
// references are not expanded; call Expand with a lookup function.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML data merged over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if file.Log.Level != "" {
		cfg.Log.Level = file.Log.Level
	}
	if file.Log.Format != "" {
		cfg.Log.Format = file.Log.Format
	}
	if file.Timeout != 0 {
		cfg.Timeout = file.Timeout
	}
	if file.DefaultProvider != "" {
		cfg.DefaultProvider = file.DefaultProvider
	}
	for id, pc := range file.Providers {
		def := cfg.Providers[id]
		if pc.APIKey == "" {
			pc.APIKey = def.APIKey
		}
		cfg.Providers[id] = pc
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks provider ids, sampling ranges and log settings.
func (c Config) Validate() error {
	for id, pc := range c.Providers {
		if _, ok := builders[id]; !ok {
			return fmt.Errorf("provider %q: %w (known: %v)", id, relay.ErrUnknownProvider, KnownProviders())
		}
		if err := pc.Sampling.Validate(); err != nil {
			return fmt.Errorf("provider %q: %w", id, err)
		}
	}
	if c.DefaultProvider != "" {
		if _, ok := builders[c.DefaultProvider]; !ok {
			return fmt.Errorf("default provider %q: %w", c.DefaultProvider, relay.ErrUnknownProvider)
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log format %q must be console or json: %w", c.Log.Format, relay.ErrValidation)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %s: %w", c.Timeout, relay.ErrValidation)
	}
	return nil
}

// Expand replaces ${VAR} and $VAR references in API keys and endpoints
// using lookup. Pass os.Getenv from main.
func (c Config) Expand(lookup func(string) string) Config {
	out := c
	out.Providers = make(map[string]relay.ProviderConfig, len(c.Providers))
	for id, pc := range c.Providers {
		pc.APIKey = os.Expand(pc.APIKey, lookup)
		pc.Endpoint = os.Expand(pc.Endpoint, lookup)
		out.Providers[id] = pc
	}
	return out
}

// BuildProviders constructs a descriptor for every configured provider.
func (c Config) BuildProviders() map[string]relay.Provider {
	out := make(map[string]relay.Provider, len(c.Providers))
	for id, pc := range c.Providers {
		if build, ok := builders[id]; ok {
			out[id] = build(pc)
		}
	}
	return out
}
