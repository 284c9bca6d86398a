// internal/services/pipeline_service.go
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/Corphon/RepurposeAI/internal/config"
	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
	"github.com/Corphon/RepurposeAI/internal/models"
	"github.com/Corphon/RepurposeAI/internal/storage"
	"github.com/Corphon/RepurposeAI/internal/utils"
)

// Pipeline progress checkpoints.
const (
	progressAnalyzing  = 0.1
	progressAnalyzed   = 0.3
	progressRepurposed = 0.6
	progressCompleted  = 1.0
)

// PipelineService runs the analyze-then-repurpose pipeline over the provider
// chain. Chain order is fixed at construction; providers that fail fatally
// are disabled for the rest of the process. The terminal local step cannot
// fail, so a pipeline run always produces a completed record unless the
// record disappears or persistence breaks.
type PipelineService struct {
	chain    []Processor
	store    *storage.ContentStore
	contexts *ContextService
	progress *ProgressService
	locks    *LockManager
	logger   *utils.Logger

	analyzeRAGLimit   int
	repurposeRAGLimit int

	disabledMu sync.Mutex
	disabled   map[ProviderKind]bool
}

// NewPipelineService wires the pipeline from its collaborators.
func NewPipelineService(chain []Processor, store *storage.ContentStore, contexts *ContextService,
	progress *ProgressService, locks *LockManager, cfg *config.AppConfig) *PipelineService {
	return &PipelineService{
		chain:             chain,
		store:             store,
		contexts:          contexts,
		progress:          progress,
		locks:             locks,
		logger:            utils.GetLogger(),
		analyzeRAGLimit:   cfg.AnalyzeRAGLimit,
		repurposeRAGLimit: cfg.RepurposeRAGLimit,
		disabled:          make(map[ProviderKind]bool),
	}
}

// BuildChain assembles the processor chain from configuration. Providers
// without credentials are skipped; the local engine always terminates the
// chain. Chain membership is decided here, once, at startup.
func BuildChain(cfg *config.AppConfig) []Processor {
	logger := utils.GetLogger()
	var chain []Processor

	if cfg.Gemini.Configured() {
		gemini, err := NewGeminiProcessor(cfg)
		if err != nil {
			logger.Warnf("Gemini provider unavailable: %v", err)
		} else {
			chain = append(chain, gemini)
		}
	}

	if cfg.HuggingFace.Configured() {
		hf, err := NewHuggingFaceProcessor(cfg)
		if err != nil {
			logger.Warnf("HuggingFace provider unavailable: %v", err)
		} else {
			chain = append(chain, hf)
		}
	}

	chain = append(chain, NewLocalProcessor())

	names := make([]string, len(chain))
	for i, p := range chain {
		names[i] = p.Name()
	}
	logger.Infof("provider chain: %v", names)
	return chain
}

// ProcessContent runs the full pipeline for one stored content item. The run
// is serialized per content ID; callers choose whether to invoke it inline
// or from a goroutine.
func (s *PipelineService) ProcessContent(ctx context.Context, contentID string) error {
	return s.locks.ExecuteWithContentLock(contentID, func() error {
		return s.process(ctx, contentID)
	})
}

func (s *PipelineService) process(ctx context.Context, contentID string) error {
	tracker := s.progress.CreateTracker(contentID)
	defer s.progress.RemoveTracker(contentID)

	record, err := s.store.Get(ctx, contentID)
	if err != nil {
		tracker.Fail(err.Error())
		return err
	}

	fail := func(stage string, err error) error {
		s.logger.Errorf("pipeline %s failed for %s: %v", stage, contentID, err)
		tracker.Fail(err.Error())
		if setErr := s.store.SetError(ctx, contentID, err.Error()); setErr != nil {
			s.logger.Errorf("failed to record pipeline error for %s: %v", contentID, setErr)
		}
		return err
	}

	// Stage 1: analysis.
	if err := s.store.UpdateStatus(ctx, contentID, models.StatusAnalyzing, progressAnalyzing); err != nil {
		tracker.Fail(err.Error())
		return err
	}
	tracker.Update(progressAnalyzing, models.StatusAnalyzing, "Analyzing content")

	analyzeContext := s.contexts.BuildContext(ctx, contentID, record.OriginalContent, s.analyzeRAGLimit)

	analysis, analysisProvider, err := s.runAnalysis(ctx, record.OriginalContent, analyzeContext)
	if err != nil {
		return fail("analysis", err)
	}
	s.logger.Infof("content %s analyzed by %s", contentID, analysisProvider.Name())

	if err := record.SetAnalysis(analysis); err != nil {
		return fail("analysis", apperrors.NewProcessingError("encoding analysis", err))
	}
	if err := s.store.SaveAnalysis(ctx, contentID, record.AnalysisJSON, models.StatusRepurposing, progressAnalyzed); err != nil {
		return fail("analysis", err)
	}
	tracker.Update(progressAnalyzed, models.StatusRepurposing, "Analysis complete, repurposing content")

	// Stage 2: repurposing.
	repurposeContext := s.contexts.BuildContext(ctx, contentID, record.OriginalContent, s.repurposeRAGLimit)

	bundle, bundleProvider, err := s.runRepurpose(ctx, record.OriginalContent, analysis, repurposeContext)
	if err != nil {
		return fail("repurposing", err)
	}
	s.logger.Infof("content %s repurposed by %s", contentID, bundleProvider.Name())

	// Anything below the head of the chain counts as a fallback.
	if len(s.chain) > 0 && bundleProvider.Kind() != s.chain[0].Kind() {
		bundle.RAGMetadata.FallbackUsed = true
	}
	tracker.Update(progressRepurposed, models.StatusRepurposing, "Repurposed outputs generated")

	if err := record.SetRepurposed(bundle); err != nil {
		return fail("repurposing", apperrors.NewProcessingError("encoding repurposed outputs", err))
	}

	// The record may have been deleted while the pipeline ran; completing a
	// deleted item must not resurrect it.
	exists, err := s.store.Exists(ctx, contentID)
	if err != nil {
		return fail("completion", err)
	}
	if !exists {
		s.logger.Warnf("content %s deleted during processing, discarding results", contentID)
		tracker.Fail("content deleted during processing")
		return nil
	}

	if err := s.store.SaveRepurposed(ctx, contentID, record.RepurposedJSON, models.StatusCompleted, progressCompleted); err != nil {
		return fail("completion", err)
	}
	tracker.Complete("Processing completed")
	return nil
}

// runAnalysis walks the chain until a processor produces an analysis.
func (s *PipelineService) runAnalysis(ctx context.Context, text, ragContext string) (*models.Analysis, Processor, error) {
	var lastErr error
	for _, processor := range s.chain {
		if s.isDisabled(processor.Kind()) {
			continue
		}

		analysis, err := processor.AnalyzeContent(ctx, text, ragContext)
		if err == nil {
			return analysis, processor, nil
		}
		lastErr = err
		s.handleChainError(processor, "analysis", err)
	}
	if lastErr == nil {
		lastErr = apperrors.NewProcessingError("no provider available for analysis", nil)
	}
	return nil, nil, lastErr
}

// runRepurpose walks the chain until a processor produces a bundle.
func (s *PipelineService) runRepurpose(ctx context.Context, text string, analysis *models.Analysis, ragContext string) (*models.RepurposedBundle, Processor, error) {
	var lastErr error
	for _, processor := range s.chain {
		if s.isDisabled(processor.Kind()) {
			continue
		}

		bundle, err := processor.RepurposeContent(ctx, text, analysis, ragContext)
		if err == nil {
			return bundle, processor, nil
		}
		lastErr = err
		s.handleChainError(processor, "repurposing", err)
	}
	if lastErr == nil {
		lastErr = apperrors.NewProcessingError("no provider available for repurposing", nil)
	}
	return nil, nil, lastErr
}

// handleChainError logs a chain step failure and disables the provider on a
// fatal error. Retryable errors arrive here only after the processor's own
// bounded retries are exhausted; parse errors fall through without retry.
func (s *PipelineService) handleChainError(processor Processor, stage string, err error) {
	switch {
	case apperrors.IsFatalProvider(err):
		s.logger.Errorf("%s disabled after fatal error during %s: %v", processor.Name(), stage, err)
		s.disable(processor.Kind())
	case apperrors.IsParseError(err):
		s.logger.Warnf("%s returned unparseable output during %s, falling through: %v", processor.Name(), stage, err)
	case apperrors.IsRetryable(err):
		s.logger.Warnf("%s exhausted retries during %s, falling through: %v", processor.Name(), stage, err)
	default:
		s.logger.Warnf("%s failed during %s, falling through: %v", processor.Name(), stage, err)
	}
}

func (s *PipelineService) disable(kind ProviderKind) {
	s.disabledMu.Lock()
	defer s.disabledMu.Unlock()
	s.disabled[kind] = true
}

func (s *PipelineService) isDisabled(kind ProviderKind) bool {
	s.disabledMu.Lock()
	defer s.disabledMu.Unlock()
	return s.disabled[kind]
}

// DisabledProviders reports the providers knocked out by fatal errors.
func (s *PipelineService) DisabledProviders() []string {
	s.disabledMu.Lock()
	defer s.disabledMu.Unlock()

	var names []string
	for kind := range s.disabled {
		names = append(names, string(kind))
	}
	return names
}

// ChainDescription names the configured chain for the health endpoint.
func (s *PipelineService) ChainDescription() string {
	names := make([]string, len(s.chain))
	for i, p := range s.chain {
		names[i] = p.Name()
	}
	return fmt.Sprintf("%v", names)
}
