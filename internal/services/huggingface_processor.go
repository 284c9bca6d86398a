// internal/services/huggingface_processor.go
package services

import (
	"context"
	"time"

	"github.com/Corphon/RepurposeAI/internal/config"
	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
	"github.com/Corphon/RepurposeAI/internal/llm/providers/huggingface"
	"github.com/Corphon/RepurposeAI/internal/models"
	"github.com/Corphon/RepurposeAI/internal/nlp"
	"github.com/Corphon/RepurposeAI/internal/utils"
)

// HuggingFaceProcessor is the secondary chain step. The inference API serves
// classification, not structured generation, so it contributes a model-backed
// sentiment while the local engine supplies the rest of the analysis and the
// rendered artifacts, attributed to this provider.
type HuggingFaceProcessor struct {
	client          *huggingface.Client
	classifierModel string
	engine          *nlp.Engine
	timeout         time.Duration
	maxRetries      int
	backoff         time.Duration
	logger          *utils.Logger
}

// NewHuggingFaceProcessor builds the processor from configuration. Returns
// an error when no API key is configured so the chain builder can skip it.
func NewHuggingFaceProcessor(cfg *config.AppConfig) (*HuggingFaceProcessor, error) {
	client, err := huggingface.NewClient(cfg.HuggingFace.APIKey)
	if err != nil {
		return nil, err
	}
	if cfg.HuggingFace.BaseURL != "" {
		client.SetBaseURL(cfg.HuggingFace.BaseURL)
	}

	return &HuggingFaceProcessor{
		client:          client,
		classifierModel: cfg.HuggingFace.ClassifierModel,
		engine:          nlp.NewEngine(),
		timeout:         cfg.RequestTimeout,
		maxRetries:      cfg.MaxRetries,
		backoff:         cfg.RetryBackoff,
		logger:          utils.GetLogger(),
	}, nil
}

func (p *HuggingFaceProcessor) Name() string {
	return "HuggingFace"
}

func (p *HuggingFaceProcessor) Kind() ProviderKind {
	return ProviderHuggingFace
}

// AnalyzeContent runs the local analysis and overlays the classifier's
// sentiment. A classifier failure fails the whole step so the chain can
// decide whether to retry or fall through.
func (p *HuggingFaceProcessor) AnalyzeContent(ctx context.Context, text, ragContext string) (*models.Analysis, error) {
	sentiment, err := p.classifySentiment(ctx, text)
	if err != nil {
		return nil, err
	}

	analysis := p.engine.Analyze(text)
	analysis.Sentiment = sentiment
	return analysis, nil
}

// RepurposeContent renders templates over the (possibly classifier-enriched)
// analysis and attributes the bundle to this provider.
func (p *HuggingFaceProcessor) RepurposeContent(ctx context.Context, text string, analysis *models.Analysis, ragContext string) (*models.RepurposedBundle, error) {
	if analysis == nil {
		a, err := p.AnalyzeContent(ctx, text, ragContext)
		if err != nil {
			return nil, err
		}
		analysis = a
	}

	bundle := p.engine.Repurpose(text, analysis)
	bundle.RAGMetadata = models.RAGMetadata{
		ContextUsed:         ragContext != "",
		ContextLength:       len(ragContext),
		GenerationTimestamp: time.Now().UTC().Format(time.RFC3339),
		FallbackUsed:        false,
		AIProvider:          p.Name(),
	}
	return bundle, nil
}

// classifySentiment runs the classifier with bounded retries. Inference
// workers routinely answer 503 while the model loads, so retries matter
// more here than for the LLM backend.
func (p *HuggingFaceProcessor) classifySentiment(ctx context.Context, text string) (string, error) {
	// The classifier truncates long inputs anyway; send a bounded slice.
	input := text
	if len(input) > 2000 {
		input = input[:2000]
	}

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Warnf("HuggingFace retry %d/%d after: %v", attempt, p.maxRetries, lastErr)
			select {
			case <-time.After(p.backoff):
			case <-ctx.Done():
				return "", apperrors.NewRetryableError(p.Name(), "request cancelled during backoff", ctx.Err())
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		scores, err := p.client.Classify(callCtx, p.classifierModel, input)
		cancel()

		if err == nil {
			if len(scores) == 0 {
				return "", apperrors.NewParseError(p.Name(), "classifier returned no predictions", nil)
			}
			best := scores[0]
			for _, s := range scores[1:] {
				if s.Score > best.Score {
					best = s
				}
			}
			return huggingface.NormalizeSentiment(best.Label), nil
		}
		if !apperrors.IsRetryable(err) {
			return "", err
		}
		lastErr = err
	}

	return "", lastErr
}
