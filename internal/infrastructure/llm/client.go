// Package llm turns the configured provider registry into live language
// model clients and implements the gain advisor on top of them.
package llm

import (
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/mcp2everything/PID-agent/internal/domain/providers"
)

// Default endpoints for backends that speak the OpenAI wire protocol.
const (
	deepseekBaseURL = "https://api.deepseek.com/v1"
	qwenBaseURL     = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	geminiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/openai"
)

// apiKeyEnvVars maps providers to the environment variable consulted when
// the registry holds no key.
var apiKeyEnvVars = map[string]string{
	providers.DeepSeek: "DEEPSEEK_API_KEY",
	providers.Qwen:     "DASHSCOPE_API_KEY",
	providers.Gemini:   "GEMINI_API_KEY",
	providers.OpenAI:   "OPENAI_API_KEY",
}

// NewModel builds a langchaingo model for one provider/model pair. Everything
// except ollama goes through the OpenAI-compatible client.
func NewModel(p *providers.ProviderConfig, modelName string) (llms.Model, error) {
	if p.Name == providers.Ollama {
		opts := []ollama.Option{ollama.WithModel(modelName)}
		if p.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(p.BaseURL))
		}
		model, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return model, nil
	}

	baseURL := p.BaseURL
	if baseURL == "" {
		switch p.Name {
		case providers.DeepSeek:
			baseURL = deepseekBaseURL
		case providers.Qwen:
			baseURL = qwenBaseURL
		case providers.Gemini:
			baseURL = geminiBaseURL
		case providers.OpenAI:
			// The client's built-in default applies.
		default:
			return nil, fmt.Errorf("unsupported LLM provider: %s", p.Name)
		}
	}

	apiKey := p.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(apiKeyEnvVars[p.Name])
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no api key configured for provider %s", p.Name)
	}

	opts := []openai.Option{
		openai.WithModel(modelName),
		openai.WithToken(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", p.Name, err)
	}
	return model, nil
}
