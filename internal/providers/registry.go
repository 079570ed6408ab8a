package providers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Registry holds named LLM clients built from configuration. It supports
// config-driven instantiation, hot reload, and thread-safe access.
type Registry struct {
	mu          sync.RWMutex
	clients     map[string]LLMClient
	defaultName string
	logger      *slog.Logger
}

// ClientConfig describes one configured LLM provider.
type ClientConfig struct {
	Type    string // "gemini", "openrouter", "openai"
	Model   string
	APIKey  string
	Enabled bool
	// RateLimit is requests per minute.
	RateLimit int
}

// RegistryConfig is the full provider configuration.
type RegistryConfig struct {
	Providers map[string]ClientConfig
	Default   string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]LLMClient),
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register adds a client by name.
func (r *Registry) Register(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	if r.defaultName == "" {
		r.defaultName = name
	}
	r.logger.Info("registered LLM client", "name", name, "type", client.Name())
}

// Get returns a client by name.
func (r *Registry) Get(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return client, nil
}

// Default returns the default client.
func (r *Registry) Default() (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.defaultName == "" {
		return nil, fmt.Errorf("no LLM clients registered")
	}
	client, ok := r.clients[r.defaultName]
	if !ok {
		return nil, fmt.Errorf("default LLM client not found: %s", r.defaultName)
	}
	return client, nil
}

// RateLimits returns the limiter budget of every registered client that
// throttles outbound requests.
func (r *Registry) RateLimits() map[string]RateLimiterStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]RateLimiterStatus)
	for name, client := range r.clients {
		if rl, ok := client.(RateLimited); ok {
			out[name] = rl.RateLimit()
		}
	}
	return out
}

// List returns the registered client names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}

// Reload replaces all clients from configuration. Disabled providers and
// providers that fail to construct are skipped.
func (r *Registry) Reload(ctx context.Context, cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clients = make(map[string]LLMClient)
	r.defaultName = cfg.Default

	for name, pc := range cfg.Providers {
		if !pc.Enabled {
			continue
		}
		client, err := buildClient(ctx, pc)
		if err != nil {
			r.logger.Error("failed to build LLM client", "name", name, "type", pc.Type, "error", err)
			continue
		}
		r.clients[name] = client
		r.logger.Info("registered LLM client", "name", name, "type", pc.Type, "model", pc.Model)
	}

	if r.defaultName == "" {
		for name := range r.clients {
			r.defaultName = name
			break
		}
	}
}

func buildClient(ctx context.Context, pc ClientConfig) (LLMClient, error) {
	switch pc.Type {
	case "gemini":
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:       pc.APIKey,
			DefaultModel: pc.Model,
			RateLimit:    pc.RateLimit,
		})
	case "openrouter":
		return NewOpenRouterClient(OpenRouterConfig{
			APIKey:       pc.APIKey,
			DefaultModel: pc.Model,
			RateLimit:    pc.RateLimit,
		}), nil
	case "openai":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:       pc.APIKey,
			DefaultModel: pc.Model,
			RateLimit:    pc.RateLimit,
		}), nil
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", pc.Type)
	}
}
