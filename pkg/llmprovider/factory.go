package llmprovider

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cyber-doctor/config"
)

// Default OpenAI-compatible endpoints per vendor name.
var defaultBaseURLs = map[string]string{
	"qwen":     "https://dashscope.aliyuncs.com/compatible-mode/v1",
	"alibaba":  "https://dashscope.aliyuncs.com/compatible-mode/v1",
	"deepseek": "https://api.deepseek.com/v1",
	"zhipu":    "https://open.bigmodel.cn/api/paas/v4",
	"openai":   "https://api.openai.com/v1",
}

// InitializeProviders creates Provider instances from config.LLMConfig
// Returns providers sorted by priority (ascending) with disabled providers filtered out
// Skips providers that fail to initialize instead of failing the entire service
func InitializeProviders(cfg *config.LLMConfig) ([]Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("LLM config is nil")
	}

	if len(cfg.Providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	// Filter enabled providers
	var enabledProviders []config.ProviderConfig
	for _, p := range cfg.Providers {
		if p.Enabled {
			enabledProviders = append(enabledProviders, p)
		}
	}

	if len(enabledProviders) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	sort.Slice(enabledProviders, func(i, j int) bool {
		return enabledProviders[i].Priority < enabledProviders[j].Priority
	})

	var providers []Provider
	var initErrors []string

	for _, p := range enabledProviders {
		provider, err := createProvider(p)
		if err != nil {
			initErrors = append(initErrors, fmt.Sprintf("provider %s (priority %d): %v", p.Name, p.Priority, err))
			continue
		}
		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers successfully initialized: %s", strings.Join(initErrors, "; "))
	}

	return providers, nil
}

// createProvider creates a concrete provider instance based on the provider config
func createProvider(cfg config.ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("provider %s: API key is required", cfg.Name)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("provider %s: model is required", cfg.Name)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		def, ok := defaultBaseURLs[cfg.Name]
		if !ok {
			return nil, fmt.Errorf("unknown provider: %s (set base_url for custom endpoints)", cfg.Name)
		}
		baseURL = def
	}

	var timeout time.Duration
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("provider %s: invalid timeout %q: %w", cfg.Name, cfg.Timeout, err)
		}
		timeout = d
	}

	return NewOpenAIAdapter(OpenAIConfig{
		Name:    cfg.Name,
		APIKey:  cfg.APIKey,
		BaseURL: baseURL,
		Model:   cfg.Model,
		Timeout: timeout,
	}), nil
}
