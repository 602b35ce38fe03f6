package providers

import (
	"fmt"
	"net/url"
	"regexp"
)

// Known provider names. Unknown names are rejected when building a client,
// not when loading the registry, so new backends can be configured ahead of
// support for them.
const (
	DeepSeek = "deepseek"
	Qwen     = "qwen"
	Gemini   = "gemini"
	OpenAI   = "openai"
	Ollama   = "ollama"
)

var (
	namePattern   = regexp.MustCompile(`^[a-zA-Z0-9-._]+$`)
	apiKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ModelConfig describes one model a provider offers.
type ModelConfig struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	MaxTokens   int    `yaml:"max_tokens" json:"max_tokens"`
}

// Validate checks the model entry.
func (m *ModelConfig) Validate() error {
	if m.Name == "" || !namePattern.MatchString(m.Name) {
		return fmt.Errorf("model name %q must only contain letters, numbers, hyphens, dots and underscores", m.Name)
	}
	if m.Description == "" {
		return fmt.Errorf("model %s: description is required", m.Name)
	}
	if m.MaxTokens <= 0 {
		return fmt.Errorf("model %s: max_tokens must be positive", m.Name)
	}
	return nil
}

// ProviderConfig describes one LLM backend.
type ProviderConfig struct {
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	APIKey      string        `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	BaseURL     string        `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Models      []ModelConfig `yaml:"models" json:"models"`
}

// Validate checks the provider entry including all of its models.
func (p *ProviderConfig) Validate() error {
	if p.Name == "" || !namePattern.MatchString(p.Name) {
		return fmt.Errorf("provider name %q must only contain letters, numbers, hyphens, dots and underscores", p.Name)
	}
	if p.Description == "" {
		return fmt.Errorf("provider %s: description is required", p.Name)
	}
	if p.APIKey != "" && !apiKeyPattern.MatchString(p.APIKey) {
		return fmt.Errorf("provider %s: api key contains invalid characters", p.Name)
	}
	if p.BaseURL != "" {
		parsed, err := url.Parse(p.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("provider %s: invalid base url %q", p.Name, p.BaseURL)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("provider %s: base url must use http or https", p.Name)
		}
	}
	if len(p.Models) == 0 {
		return fmt.Errorf("provider %s: at least one model is required", p.Name)
	}
	for i := range p.Models {
		if err := p.Models[i].Validate(); err != nil {
			return fmt.Errorf("provider %s: %w", p.Name, err)
		}
	}
	return nil
}

// Model returns the named model entry.
func (p *ProviderConfig) Model(name string) (*ModelConfig, error) {
	for i := range p.Models {
		if p.Models[i].Name == name {
			return &p.Models[i], nil
		}
	}
	return nil, fmt.Errorf("model %s not found for provider %s", name, p.Name)
}

// Selection names the provider and model the advisor currently uses. Both
// are empty until a backend has been chosen.
type Selection struct {
	Provider string `yaml:"provider" json:"provider"`
	Model    string `yaml:"model" json:"model"`
}

// Configured reports whether a backend has been chosen.
func (s Selection) Configured() bool {
	return s.Provider != "" && s.Model != ""
}
