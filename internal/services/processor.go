// internal/services/processor.go
package services

import (
	"context"

	"github.com/Corphon/RepurposeAI/internal/models"
)

// ProviderKind identifies a processing backend in the fallback chain.
type ProviderKind string

const (
	ProviderGemini      ProviderKind = "gemini"
	ProviderHuggingFace ProviderKind = "huggingface"
	ProviderLocal       ProviderKind = "local"
)

// Processor is one step of the provider fallback chain. Implementations
// classify failures through the internal/errors categories; the pipeline
// walks the chain on retryable, parse, and fatal errors. The local engine
// is the terminal processor and never fails.
type Processor interface {
	// Name returns the processor's display name for logs and rag_metadata.
	Name() string

	// Kind returns the processor's chain identity.
	Kind() ProviderKind

	// AnalyzeContent derives a structured analysis of the text. ragContext
	// may be empty; when present it carries formatted prior-content blocks.
	AnalyzeContent(ctx context.Context, text, ragContext string) (*models.Analysis, error)

	// RepurposeContent renders the full artifact bundle.
	RepurposeContent(ctx context.Context, text string, analysis *models.Analysis, ragContext string) (*models.RepurposedBundle, error)
}
