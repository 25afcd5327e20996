package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// Categories is the fixed set of topical categories, in collection order.
var Categories = []string{"ai", "finance", "politics"}

type Config struct {
	Sources       map[string][]Source `yaml:"sources"`
	Engine        Engine              `yaml:"engine"`
	Summarization Summarization       `yaml:"summarization"`
	Output        Output              `yaml:"output"`
	Server        Server              `yaml:"server"`
}

// Source is one configured feed endpoint with a static priority tier.
type Source struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Priority string `yaml:"priority"` // high | medium | low
}

type Engine struct {
	IntervalMinutes     int  `yaml:"interval_minutes"`
	ErrorBackoffMinutes int  `yaml:"error_backoff_minutes"`
	SourceDelaySeconds  int  `yaml:"source_delay_seconds"`
	FetchWorkers        int  `yaml:"fetch_workers"`
	MaxEntriesPerFeed   int  `yaml:"max_entries_per_feed"`
	MaxArticleAgeDays   int  `yaml:"max_article_age_days"`
	FetchTimeoutSeconds int  `yaml:"fetch_timeout_seconds"`
	FetchFullContent    bool `yaml:"fetch_full_content"`
}

type Summarization struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	OllamaURL   string `yaml:"ollama_url"`
	OpenAIModel string `yaml:"openai_model"`
	APIKeyEnv   string `yaml:"api_key_env"`
	MaxTokens   int    `yaml:"max_tokens"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

// ConfigDir returns the XDG config directory for rpnews.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "rpnews")
}

// DataDir returns the XDG data directory for rpnews.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "rpnews")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/rpnews/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'rpnews init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Engine: Engine{
			IntervalMinutes:     60,
			ErrorBackoffMinutes: 10,
			SourceDelaySeconds:  2,
			FetchWorkers:        6,
			MaxEntriesPerFeed:   15,
			MaxArticleAgeDays:   7,
			FetchTimeoutSeconds: 25,
		},
		Summarization: Summarization{
			Provider:    "ollama",
			Model:       "qwen2.5:7b",
			OllamaURL:   "http://localhost:11434",
			OpenAIModel: "gpt-4o-mini",
			APIKeyEnv:   "OPENAI_API_KEY",
			MaxTokens:   256,
		},
		Server: Server{Port: 8000},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	for category := range cfg.Sources {
		if !knownCategory(category) {
			return nil, fmt.Errorf("unknown category %q in sources", category)
		}
	}

	return cfg, nil
}

func knownCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// TickInterval returns the collection interval as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Engine.IntervalMinutes) * time.Minute
}

// ErrorBackoff returns the delay before the next tick after a failed one.
func (c *Config) ErrorBackoff() time.Duration {
	return time.Duration(c.Engine.ErrorBackoffMinutes) * time.Minute
}

// SourceDelay returns the rate-limit pause between sources.
func (c *Config) SourceDelay() time.Duration {
	return time.Duration(c.Engine.SourceDelaySeconds) * time.Second
}

// FetchTimeout returns the per-source HTTP timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Engine.FetchTimeoutSeconds) * time.Second
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
