// Package config loads codeagent settings from defaults, an optional YAML
// file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mfateev/codeagent/internal/models"
)

// DefaultFileName is looked up in the working directory when CODEAGENT_CONFIG is unset.
const DefaultFileName = ".codeagent.yaml"

// DefaultSummaryThreshold is the history size, in serialized bytes, above
// which the conversation is summarized.
const DefaultSummaryThreshold = 4096

// DefaultConversationFile is resolved against the work dir, so SRC moves it too.
const DefaultConversationFile = "conversation.json"

// Config holds all codeagent configuration.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the chat completion provider.
type LLMConfig struct {
	Provider     string `yaml:"provider"` // openai, anthropic; inferred from Model when empty
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	Model        string `yaml:"model"`
	SummaryModel string `yaml:"summary_model"`
	MaxTokens    int    `yaml:"max_tokens"`
	// Timeout bounds a single request; empty means no limit.
	Timeout string `yaml:"timeout"`
}

// SessionConfig configures conversation state and the action workspace.
type SessionConfig struct {
	ConversationFile string `yaml:"conversation_file"`
	SummaryThreshold int    `yaml:"summary_threshold"`
	// WorkDir is where actions are applied. Populated from SRC when set.
	WorkDir string `yaml:"work_dir"`
	// CommandEnvExclude lists variable name patterns hidden from commands
	// the model runs. Defaults to API_KEY.
	CommandEnvExclude []string `yaml:"command_env_exclude"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty = stderr
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	m := models.DefaultModelConfig()
	return &Config{
		LLM: LLMConfig{
			Model:     m.Model,
			MaxTokens: m.MaxTokens,
		},
		Session: SessionConfig{
			ConversationFile: DefaultConversationFile,
			SummaryThreshold: DefaultSummaryThreshold,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (if it exists)
// and environment overrides. An empty path resolves to CODEAGENT_CONFIG or
// DefaultFileName. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("CODEAGENT_CONFIG")
	}
	if path == "" {
		path = DefaultFileName
	}
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides lets the environment win over the config file.
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("API_KEY")); v != "" {
		c.LLM.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("API_URL")); v != "" {
		c.LLM.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SRC")); v != "" {
		c.Session.WorkDir = v
	}
	if v := strings.TrimSpace(os.Getenv("CODEAGENT_PROVIDER")); v != "" {
		c.LLM.Provider = v
	}
	if v := strings.TrimSpace(os.Getenv("CODEAGENT_MODEL")); v != "" {
		c.LLM.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("CODEAGENT_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
}

// applyDefaults fills fields a partial config file may have zeroed.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.LLM.Model == "" {
		c.LLM.Model = d.LLM.Model
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = models.DetectProvider(c.LLM.Model)
	}
	if c.LLM.SummaryModel == "" {
		c.LLM.SummaryModel = c.LLM.Model
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = d.LLM.MaxTokens
	}
	if c.Session.ConversationFile == "" {
		c.Session.ConversationFile = d.Session.ConversationFile
	}
	if c.Session.SummaryThreshold <= 0 {
		c.Session.SummaryThreshold = d.Session.SummaryThreshold
	}
	if c.Session.CommandEnvExclude == nil {
		c.Session.CommandEnvExclude = []string{"API_KEY"}
	}
	if c.Session.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			c.Session.WorkDir = wd
		}
	}
	if c.Session.WorkDir != "" && !filepath.IsAbs(c.Session.ConversationFile) {
		c.Session.ConversationFile = filepath.Join(c.Session.WorkDir, c.Session.ConversationFile)
	}
}

// Validate reports missing credentials and malformed values as config errors.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return models.NewConfigError("API_KEY is required")
	}
	if c.LLM.BaseURL == "" {
		return models.NewConfigError("API_URL is required")
	}
	switch c.LLM.Provider {
	case "openai", "anthropic":
	default:
		return models.NewConfigError(fmt.Sprintf("unsupported LLM provider: %s (supported: openai, anthropic)", c.LLM.Provider))
	}
	if _, err := c.RequestTimeout(); err != nil {
		return models.NewConfigError(fmt.Sprintf("invalid llm.timeout %q: %v", c.LLM.Timeout, err))
	}
	return nil
}

// RequestTimeout parses LLM.Timeout. Zero means no limit.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.LLM.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.LLM.Timeout)
}

// ModelConfig projects the LLM section onto models.ModelConfig.
func (c *Config) ModelConfig() models.ModelConfig {
	return models.ModelConfig{
		Provider:     c.LLM.Provider,
		Model:        c.LLM.Model,
		SummaryModel: c.LLM.SummaryModel,
		MaxTokens:    c.LLM.MaxTokens,
	}
}
