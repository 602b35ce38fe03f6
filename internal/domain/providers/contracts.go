package providers

// Registry stores the configured backends and the current selection.
type Registry interface {
	// ListProviders returns the configured provider names.
	ListProviders() []string

	// ListModels returns the model names of one provider.
	ListModels(provider string) ([]string, error)

	// Provider returns the configuration of one provider.
	Provider(name string) (*ProviderConfig, error)

	// Current returns the active provider/model selection.
	Current() Selection

	// SetCurrent switches the active selection. An empty model picks the
	// provider's first model.
	SetCurrent(provider, model string) error

	// UpdateCredentials sets the api key and base url of a provider and
	// persists the change. An empty api key leaves the stored key alone.
	UpdateCredentials(provider, apiKey, baseURL string) error
}
