package models

// ProvidersConfig represents the providers.json file structure
type ProvidersConfig struct {
	Providers []ProviderConfig `json:"providers"`
}

// ProviderConfig is one backend entry in providers.json. The "facade" entry
// configures the unified generation gateway; the "openai" entry configures
// the native fallback endpoint.
type ProviderConfig struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
	Enabled bool   `json:"enabled"`
}

// Find returns the enabled provider entry with the given name, or nil
func (c *ProvidersConfig) Find(name string) *ProviderConfig {
	for i := range c.Providers {
		if c.Providers[i].Name == name && c.Providers[i].Enabled {
			return &c.Providers[i]
		}
	}
	return nil
}
