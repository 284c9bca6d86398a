// internal/llm/interface.go
package llm

import (
	"context"
	"errors"
)

var ErrUnknownProvider = errors.New("unknown llm provider")

// CompletionRequest is the normalized request shape shared by all backends.
type CompletionRequest struct {
	Prompt       string   `json:"prompt"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
	MaxTokens    int      `json:"max_tokens,omitempty"`
	Temperature  float32  `json:"temperature,omitempty"`
	Model        string   `json:"model,omitempty"`
	StopWords    []string `json:"stop_words,omitempty"`
}

// CompletionResponse is the normalized response shape shared by all backends.
type CompletionResponse struct {
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason,omitempty"`
	TokensUsed   int    `json:"tokens_used,omitempty"`
	PromptTokens int    `json:"prompt_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
	ModelName    string `json:"model_name,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
}

// Provider is a text-generation backend. Implementations classify their
// failures through the internal/errors categories (retryable, fatal,
// parse) so callers can drive retry and fallback without knowing the
// backend's wire protocol.
type Provider interface {
	// Initialize configures the provider from key/value settings.
	Initialize(config map[string]string) error

	// GetName returns the provider's display name.
	GetName() string

	// CompleteText generates a completion for the request.
	CompleteText(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// ProviderFactory builds an unconfigured provider instance.
type ProviderFactory func() Provider

var providers = make(map[string]ProviderFactory)

// Register registers a provider factory under a name. Called from provider
// package init functions.
func Register(name string, factory ProviderFactory) {
	providers[name] = factory
}

// GetProvider creates and initializes the named provider.
func GetProvider(name string, config map[string]string) (Provider, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, ErrUnknownProvider
	}

	provider := factory()
	if err := provider.Initialize(config); err != nil {
		return nil, err
	}
	return provider, nil
}

// ListProviders returns all registered provider names.
func ListProviders() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	return names
}
