// internal/services/local_processor.go
package services

import (
	"context"

	"github.com/Corphon/RepurposeAI/internal/models"
	"github.com/Corphon/RepurposeAI/internal/nlp"
)

// LocalProcessor wraps the deterministic lexicon engine as the terminal
// chain step. It ignores retrieval context and never returns an error.
type LocalProcessor struct {
	engine *nlp.Engine
}

// NewLocalProcessor creates the local fallback processor.
func NewLocalProcessor() *LocalProcessor {
	return &LocalProcessor{engine: nlp.NewEngine()}
}

func (p *LocalProcessor) Name() string {
	return nlp.ProviderName
}

func (p *LocalProcessor) Kind() ProviderKind {
	return ProviderLocal
}

func (p *LocalProcessor) AnalyzeContent(ctx context.Context, text, ragContext string) (*models.Analysis, error) {
	return p.engine.Analyze(text), nil
}

func (p *LocalProcessor) RepurposeContent(ctx context.Context, text string, analysis *models.Analysis, ragContext string) (*models.RepurposedBundle, error) {
	return p.engine.Repurpose(text, analysis), nil
}
