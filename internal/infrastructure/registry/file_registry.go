// Package registry persists LLM provider configuration in a yaml file.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mcp2everything/PID-agent/internal/domain/providers"
	"github.com/mcp2everything/PID-agent/internal/pkg/logger"
)

// registryFile is the on-disk layout.
type registryFile struct {
	Current   providers.Selection                  `yaml:"current"`
	Providers map[string]*providers.ProviderConfig `yaml:"providers"`
}

// FileRegistry is a yaml-backed providers.Registry. Loading is lenient:
// invalid models and providers are skipped with a warning, and only an empty
// result is an error. Every mutation is written back to disk.
type FileRegistry struct {
	path   string
	logger logger.Logger

	mu        sync.RWMutex
	current   providers.Selection
	providers map[string]*providers.ProviderConfig
}

// NewFileRegistry loads the registry from path. A missing file starts an
// empty registry and creates the file on first save.
func NewFileRegistry(path string, logger logger.Logger) (*FileRegistry, error) {
	r := &FileRegistry{
		path:      path,
		logger:    logger,
		providers: map[string]*providers.ProviderConfig{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn(fmt.Sprintf("Provider registry %s not found, starting empty", path))
			return r, nil
		}
		return nil, fmt.Errorf("failed to read provider registry %s: %w", path, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse provider registry %s: %w", path, err)
	}

	for name, p := range file.Providers {
		if p == nil {
			continue
		}
		valid := p.Models[:0]
		for _, m := range p.Models {
			if err := m.Validate(); err != nil {
				logger.Warn(fmt.Sprintf("Skipping invalid model config: %v", err))
				continue
			}
			valid = append(valid, m)
		}
		p.Models = valid

		if err := p.Validate(); err != nil {
			logger.Warn(fmt.Sprintf("Skipping invalid provider config %s: %v", name, err))
			continue
		}
		r.providers[name] = p
	}

	if len(file.Providers) > 0 && len(r.providers) == 0 {
		return nil, fmt.Errorf("no valid providers found in %s", path)
	}

	r.current = file.Current
	logger.Info(fmt.Sprintf("Loaded %d LLM providers from %s", len(r.providers), path))
	return r, nil
}

// ListProviders returns the configured provider names, sorted.
func (r *FileRegistry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListModels returns the model names of one provider.
func (r *FileRegistry) ListModels(provider string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("provider %s not found", provider)
	}
	names := make([]string, len(p.Models))
	for i, m := range p.Models {
		names[i] = m.Name
	}
	return names, nil
}

// Provider returns a copy of one provider's configuration.
func (r *FileRegistry) Provider(name string) (*providers.ProviderConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found", name)
	}
	clone := *p
	clone.Models = append([]providers.ModelConfig(nil), p.Models...)
	return &clone, nil
}

// Current returns the active selection.
func (r *FileRegistry) Current() providers.Selection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// SetCurrent switches the active provider and model and persists the change.
// An empty model picks the provider's first model.
func (r *FileRegistry) SetCurrent(provider, model string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.providers[provider]
	if !ok {
		return fmt.Errorf("provider %s not found", provider)
	}
	if model == "" {
		model = p.Models[0].Name
	}
	if _, err := p.Model(model); err != nil {
		return err
	}

	r.current = providers.Selection{Provider: provider, Model: model}
	return r.save()
}

// UpdateCredentials sets the api key and base url of a provider and persists
// the change. An empty api key leaves the stored key alone.
func (r *FileRegistry) UpdateCredentials(provider, apiKey, baseURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.providers[provider]
	if !ok {
		return fmt.Errorf("provider %s not found", provider)
	}

	updated := *p
	if apiKey != "" {
		updated.APIKey = apiKey
	}
	updated.BaseURL = baseURL
	if err := updated.Validate(); err != nil {
		return err
	}

	*p = updated
	return r.save()
}

// save writes the registry back to disk. Callers hold the write lock.
func (r *FileRegistry) save() error {
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create registry directory: %w", err)
		}
	}

	data, err := yaml.Marshal(registryFile{Current: r.current, Providers: r.providers})
	if err != nil {
		return fmt.Errorf("failed to encode provider registry: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write provider registry %s: %w", r.path, err)
	}
	return nil
}
