package provider

import (
	"pricepilot/config"
	"pricepilot/model"
)

// InitializeProvider creates the provider selected in the application config.
//
// Returns nil when the provider cannot be created (unknown type, missing API
// key). The session still runs in that case and reports the problem on the
// first submission, so the rest of the app stays usable.
func InitializeProvider(cfg *config.Config) model.Provider {
	providerType := MapProviderIDToType(cfg.Provider)

	p, err := NewProvider(Config{
		Type:         providerType,
		BaseURL:      cfg.BaseURL,
		Model:        cfg.Model,
		APIKey:       cfg.APIKey,
		SystemPrompt: cfg.SystemPrompt,
	})
	if err != nil {
		if config.Debug {
			config.DebugLog.Printf("[Provider] Warning: failed to initialize provider %s: %v", cfg.Provider, err)
		}
		return nil
	}

	if config.Debug {
		config.DebugLog.Printf("[Provider] Initialized provider: %s (type: %s)", p.Name(), providerType)
	}
	return p
}
