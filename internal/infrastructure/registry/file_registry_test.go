//go:build unit
// +build unit

package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp2everything/PID-agent/internal/pkg/config"
	"github.com/mcp2everything/PID-agent/internal/pkg/logger"
)

const sampleRegistry = `
current:
  provider: deepseek
  model: deepseek-chat
providers:
  deepseek:
    name: deepseek
    description: DeepSeek chat models
    api_key: sk-test
    base_url: https://api.deepseek.com
    models:
      - name: deepseek-chat
        description: general chat
        max_tokens: 4096
  openai:
    name: openai
    description: OpenAI models
    models:
      - name: gpt-4o
        description: flagship
        max_tokens: 8192
      - name: gpt-4o-mini
        description: small
        max_tokens: 16384
`

const brokenRegistry = `
providers:
  ok:
    name: ok
    description: fine
    models:
      - name: good-model
        description: works
        max_tokens: 100
      - name: "bad model"
        description: rejected
        max_tokens: 100
  broken:
    name: "bad name!"
    description: rejected
    models:
      - name: m
        description: x
        max_tokens: 1
`

func testLogger(t *testing.T) logger.Logger {
	t.Helper()
	return logger.NewConsoleLogger(config.LogLevelError)
}

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "llm_providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewFileRegistry(t *testing.T) {
	r, err := NewFileRegistry(writeRegistry(t, sampleRegistry), testLogger(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"deepseek", "openai"}, r.ListProviders())
	assert.Equal(t, "deepseek", r.Current().Provider)
	assert.Equal(t, "deepseek-chat", r.Current().Model)

	models, err := r.ListModels("openai")
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, models)

	p, err := r.Provider("deepseek")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", p.APIKey)

	_, err = r.Provider("missing")
	assert.Error(t, err)
}

func TestNewFileRegistry_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")
	r, err := NewFileRegistry(path, testLogger(t))
	require.NoError(t, err)
	assert.Empty(t, r.ListProviders())
	assert.False(t, r.Current().Configured())
}

func TestNewFileRegistry_SkipsInvalidEntries(t *testing.T) {
	r, err := NewFileRegistry(writeRegistry(t, brokenRegistry), testLogger(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"ok"}, r.ListProviders())
	models, err := r.ListModels("ok")
	require.NoError(t, err)
	assert.Equal(t, []string{"good-model"}, models)
}

func TestNewFileRegistry_AllInvalid(t *testing.T) {
	content := `
providers:
  broken:
    name: "bad name!"
    description: x
    models: []
`
	_, err := NewFileRegistry(writeRegistry(t, content), testLogger(t))
	assert.Error(t, err)
}

func TestSetCurrent(t *testing.T) {
	path := writeRegistry(t, sampleRegistry)
	r, err := NewFileRegistry(path, testLogger(t))
	require.NoError(t, err)

	require.NoError(t, r.SetCurrent("openai", "gpt-4o-mini"))
	assert.Equal(t, "gpt-4o-mini", r.Current().Model)

	// Empty model picks the provider's first model.
	require.NoError(t, r.SetCurrent("openai", ""))
	assert.Equal(t, "gpt-4o", r.Current().Model)

	assert.Error(t, r.SetCurrent("missing", ""))
	assert.Error(t, r.SetCurrent("openai", "no-such-model"))

	// Selection survives a reload.
	reloaded, err := NewFileRegistry(path, testLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", reloaded.Current().Model)
}

func TestUpdateCredentials(t *testing.T) {
	path := writeRegistry(t, sampleRegistry)
	r, err := NewFileRegistry(path, testLogger(t))
	require.NoError(t, err)

	require.NoError(t, r.UpdateCredentials("openai", "sk-new", "https://proxy.example.com/v1"))

	p, err := r.Provider("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-new", p.APIKey)
	assert.Equal(t, "https://proxy.example.com/v1", p.BaseURL)

	// Empty api key keeps the stored one.
	require.NoError(t, r.UpdateCredentials("openai", "", ""))
	p, err = r.Provider("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-new", p.APIKey)

	// Invalid values are rejected without touching the registry.
	assert.Error(t, r.UpdateCredentials("openai", "bad key", ""))
	assert.Error(t, r.UpdateCredentials("openai", "", "ftp://x"))

	reloaded, err := NewFileRegistry(path, testLogger(t))
	require.NoError(t, err)
	p, err = reloaded.Provider("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-new", p.APIKey)
}
