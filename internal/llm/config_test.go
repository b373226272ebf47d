package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_DisabledWithoutRetries(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 30000, cfg.Tasks[TaskEnrich].TimeoutMs)
}

func TestLoadConfig_TaskTimeoutOverrides(t *testing.T) {
	t.Setenv("STUDYPLAN_LLM_TIMEOUT_MS", "9000")
	t.Setenv("STUDYPLAN_LLM_ENRICH_TIMEOUT_MS", "15000")
	t.Setenv("STUDYPLAN_LLM_EXTRACT_TIMEOUT_MS", "7000")

	cfg := LoadConfig()

	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 15000, cfg.TaskTimeout(TaskEnrich))
	assert.Equal(t, 7000, cfg.TaskTimeout(TaskExtract))
	assert.Equal(t, 9000, cfg.TaskTimeout(TaskType("unknown")))
}

func TestLoadConfig_InvalidTaskTimeoutOverrideIgnored(t *testing.T) {
	t.Setenv("STUDYPLAN_LLM_ENRICH_TIMEOUT_MS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, 30000, cfg.TaskTimeout(TaskEnrich))
}

func TestLoadConfig_AnthropicDefaults(t *testing.T) {
	t.Setenv("STUDYPLAN_LLM_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("STUDYPLAN_LLM_ENDPOINT", "")
	t.Setenv("STUDYPLAN_LLM_MODEL", "")
	t.Setenv("STUDYPLAN_LLM_API_KEY", "")

	cfg := LoadConfig()

	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, defaultAnthropicEndpoint, cfg.Endpoint)
	assert.Equal(t, defaultAnthropicModel, cfg.Model)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestLoadConfig_RetriesAndFlags(t *testing.T) {
	t.Setenv("STUDYPLAN_LLM_ENABLED", "true")
	t.Setenv("STUDYPLAN_LLM_LOG_CALLS", "1")
	t.Setenv("STUDYPLAN_LLM_MAX_RETRIES", "2")

	cfg := LoadConfig()

	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.LogCalls)
	assert.Equal(t, 2, cfg.MaxRetries)
}

func TestLoadConfig_NegativeRetriesIgnored(t *testing.T) {
	t.Setenv("STUDYPLAN_LLM_MAX_RETRIES", "-1")
	assert.Equal(t, 0, LoadConfig().MaxRetries)
}
