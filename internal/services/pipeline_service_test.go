// internal/services/pipeline_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/RepurposeAI/internal/config"
	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
	"github.com/Corphon/RepurposeAI/internal/models"
	"github.com/Corphon/RepurposeAI/internal/storage"
)

// fakeProcessor is a scriptable chain step.
type fakeProcessor struct {
	name         string
	kind         ProviderKind
	analyzeErr   error
	repurposeErr error
	calls        int
	onRepurpose  func()
}

func (f *fakeProcessor) Name() string       { return f.name }
func (f *fakeProcessor) Kind() ProviderKind { return f.kind }

func (f *fakeProcessor) AnalyzeContent(ctx context.Context, text, ragContext string) (*models.Analysis, error) {
	f.calls++
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	a := &models.Analysis{MainTheme: "Theme from " + f.name}
	a.FillDefaults()
	return a, nil
}

func (f *fakeProcessor) RepurposeContent(ctx context.Context, text string, analysis *models.Analysis, ragContext string) (*models.RepurposedBundle, error) {
	f.calls++
	if f.onRepurpose != nil {
		f.onRepurpose()
	}
	if f.repurposeErr != nil {
		return nil, f.repurposeErr
	}
	bundle := NewLocalProcessor().engine.Repurpose(text, analysis)
	bundle.RAGMetadata.AIProvider = f.name
	bundle.RAGMetadata.FallbackUsed = false
	return bundle, nil
}

func testPipeline(t *testing.T, chain []Processor) (*PipelineService, *storage.ContentStore) {
	t.Helper()
	db, err := storage.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := storage.NewContentStore(db)
	cfg := &config.AppConfig{
		RequestTimeout:    5 * time.Second,
		MaxRetries:        1,
		RetryBackoff:      time.Millisecond,
		AnalyzeRAGLimit:   2,
		RepurposeRAGLimit: 2,
	}
	contexts := NewContextService(store, nil)
	pipeline := NewPipelineService(chain, store, contexts, NewProgressService(), NewLockManager(), cfg)
	return pipeline, store
}

func seedContent(t *testing.T, store *storage.ContentStore, id string) {
	t.Helper()
	record := models.NewContentRecord(id, "Healthcare AI",
		"AI is transforming healthcare through predictive diagnostics.", "text")
	require.NoError(t, store.Save(context.Background(), record))
}

func TestPipelineCompletesWithPrimary(t *testing.T) {
	primary := &fakeProcessor{name: "Gemini", kind: ProviderGemini}
	pipeline, store := testPipeline(t, []Processor{primary, NewLocalProcessor()})
	seedContent(t, store, "c1")

	require.NoError(t, pipeline.ProcessContent(context.Background(), "c1"))

	record, err := store.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, record.Status)
	assert.Equal(t, 1.0, record.Progress)

	bundle, err := record.Repurposed()
	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.Equal(t, "Gemini", bundle.RAGMetadata.AIProvider)
	assert.False(t, bundle.RAGMetadata.FallbackUsed)
	assert.Len(t, bundle.SocialPosts, 4)
	assert.Len(t, bundle.EmailSnippets, 2)
}

func TestPipelineFallsBackToLocal(t *testing.T) {
	primary := &fakeProcessor{
		name:         "Gemini",
		kind:         ProviderGemini,
		analyzeErr:   apperrors.NewRetryableError("Gemini", "rate limited", nil),
		repurposeErr: apperrors.NewRetryableError("Gemini", "rate limited", nil),
	}
	pipeline, store := testPipeline(t, []Processor{primary, NewLocalProcessor()})
	seedContent(t, store, "c1")

	require.NoError(t, pipeline.ProcessContent(context.Background(), "c1"))

	record, err := store.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, record.Status)

	bundle, err := record.Repurposed()
	require.NoError(t, err)
	assert.Equal(t, "local", bundle.RAGMetadata.AIProvider)
	assert.True(t, bundle.RAGMetadata.FallbackUsed)
}

func TestPipelineParseErrorFallsThrough(t *testing.T) {
	primary := &fakeProcessor{
		name:       "Gemini",
		kind:       ProviderGemini,
		analyzeErr: apperrors.NewParseError("Gemini", "bad schema", nil),
	}
	pipeline, store := testPipeline(t, []Processor{primary, NewLocalProcessor()})
	seedContent(t, store, "c1")

	require.NoError(t, pipeline.ProcessContent(context.Background(), "c1"))

	record, err := store.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, record.Status)

	analysis, err := record.Analysis()
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.NotEmpty(t, analysis.MainTheme)
}

func TestPipelineFatalDisablesProviderForProcess(t *testing.T) {
	primary := &fakeProcessor{
		name:         "Gemini",
		kind:         ProviderGemini,
		analyzeErr:   apperrors.NewFatalProviderError("Gemini", "bad credentials", nil),
		repurposeErr: apperrors.NewFatalProviderError("Gemini", "bad credentials", nil),
	}
	pipeline, store := testPipeline(t, []Processor{primary, NewLocalProcessor()})
	seedContent(t, store, "c1")
	seedContent(t, store, "c2")

	require.NoError(t, pipeline.ProcessContent(context.Background(), "c1"))
	callsAfterFirst := primary.calls
	assert.Equal(t, 1, callsAfterFirst)

	require.NoError(t, pipeline.ProcessContent(context.Background(), "c2"))
	assert.Equal(t, callsAfterFirst, primary.calls, "disabled provider must not be called again")

	assert.Contains(t, pipeline.DisabledProviders(), string(ProviderGemini))
}

func TestPipelineDiscardsResultsWhenRecordDeleted(t *testing.T) {
	var pipeline *PipelineService
	var store *storage.ContentStore

	primary := &fakeProcessor{name: "Gemini", kind: ProviderGemini}
	primary.onRepurpose = func() {
		// Simulate a concurrent delete between repurposing and the final write.
		_ = store.Delete(context.Background(), "c1")
	}
	pipeline, store = testPipeline(t, []Processor{primary, NewLocalProcessor()})
	seedContent(t, store, "c1")

	require.NoError(t, pipeline.ProcessContent(context.Background(), "c1"))

	_, err := store.Get(context.Background(), "c1")
	assert.True(t, apperrors.IsNotFoundError(err), "completed pipeline must not resurrect a deleted record")
}

func TestPipelineMissingRecord(t *testing.T) {
	pipeline, _ := testPipeline(t, []Processor{NewLocalProcessor()})

	err := pipeline.ProcessContent(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestBuildChainAlwaysEndsWithLocal(t *testing.T) {
	cfg := &config.AppConfig{
		RequestTimeout: 5 * time.Second,
	}
	chain := BuildChain(cfg)
	require.NotEmpty(t, chain)
	assert.Equal(t, ProviderLocal, chain[len(chain)-1].Kind())
	assert.Len(t, chain, 1, "no credentials means a local-only chain")
}
