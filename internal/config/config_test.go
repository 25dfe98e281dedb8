package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfateev/codeagent/internal/models"
)

// clearEnv blanks every variable Load consults so the host environment
// cannot leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"API_KEY", "API_URL", "SRC", "CODEAGENT_PROVIDER", "CODEAGENT_MODEL", "CODEAGENT_LOG_LEVEL", "CODEAGENT_CONFIG"} {
		t.Setenv(k, "")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("API_KEY", "sk-test")
	t.Setenv("API_URL", "https://api.deepseek.com")
	t.Setenv("SRC", dir)

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "https://api.deepseek.com", cfg.LLM.BaseURL)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "deepseek-chat", cfg.LLM.Model)
	assert.Equal(t, DefaultSummaryThreshold, cfg.Session.SummaryThreshold)
	assert.Equal(t, dir, cfg.Session.WorkDir)
	assert.Equal(t, filepath.Join(dir, "conversation.json"), cfg.Session.ConversationFile)
	assert.Equal(t, []string{"API_KEY"}, cfg.Session.CommandEnvExclude)
}

func TestLoad_MissingAPIKeyIsConfigError(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_URL", "https://example.test")

	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.True(t, models.IsConfigError(err))
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestLoad_MissingAPIURLIsConfigError(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "k")

	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.True(t, models.IsConfigError(err))
	assert.Contains(t, err.Error(), "API_URL")
}

func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.yaml")
	yaml := `
llm:
  provider: anthropic
  api_key: file-key
  base_url: https://api.anthropic.com
  model: claude-sonnet-4-5
  timeout: 90s
session:
  conversation_file: history.json
  summary_threshold: 8192
  work_dir: ` + dir + `
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("API_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.LLM.APIKey, "environment wins over file")
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.LLM.Model)
	assert.Equal(t, "claude-sonnet-4-5", cfg.LLM.SummaryModel, "summary model defaults to model")
	assert.Equal(t, 8192, cfg.Session.SummaryThreshold)
	assert.Equal(t, filepath.Join(dir, "history.json"), cfg.Session.ConversationFile)
	assert.Equal(t, "debug", cfg.Logging.Level)

	timeout, err := cfg.RequestTimeout()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, timeout)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestValidate_UnsupportedProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.APIKey = "k"
	cfg.LLM.BaseURL = "u"
	cfg.LLM.Provider = "gemini"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, models.IsConfigError(err))
}

func TestValidate_BadTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.APIKey = "k"
	cfg.LLM.BaseURL = "u"
	cfg.LLM.Provider = "openai"
	cfg.LLM.Timeout = "soon"

	assert.True(t, models.IsConfigError(cfg.Validate()))
}

func TestEnvOverrides_ProviderAndModel(t *testing.T) {
	clearEnv(t)
	t.Setenv("CODEAGENT_PROVIDER", "anthropic")
	t.Setenv("CODEAGENT_MODEL", "claude-haiku-4-5")
	t.Setenv("CODEAGENT_LOG_LEVEL", "info")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-haiku-4-5", cfg.LLM.Model)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_ProviderInferredFromModel(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "k")
	t.Setenv("API_URL", "https://api.anthropic.com")
	t.Setenv("CODEAGENT_MODEL", "claude-haiku-4-5")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "anthropic", cfg.ModelConfig().Provider)
}

func TestConfig_ModelConfigProjection(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "k")
	t.Setenv("API_URL", "https://api.deepseek.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	mc := cfg.ModelConfig()
	assert.Equal(t, models.DefaultModelConfig(), mc)
	assert.Equal(t, cfg.LLM.Model, mc.SummaryModel)
}

func TestLoad_SRCMovesConversationFile(t *testing.T) {
	clearEnv(t)
	src := t.TempDir()
	t.Setenv("API_KEY", "k")
	t.Setenv("API_URL", "https://api.deepseek.com")
	t.Setenv("SRC", src)

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(src, DefaultConversationFile), cfg.Session.ConversationFile)
}
