// internal/services/distribution_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
	"github.com/Corphon/RepurposeAI/internal/models"
	"github.com/Corphon/RepurposeAI/internal/nlp"
	"github.com/Corphon/RepurposeAI/internal/platform"
	"github.com/Corphon/RepurposeAI/internal/storage"
)

func testDistribution(t *testing.T) (*DistributionService, *storage.ContentStore) {
	t.Helper()
	db, err := storage.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	contentStore := storage.NewContentStore(db)
	logStore := storage.NewDistributionStore(db)
	clients := platform.BuildClients(true, platform.Credentials{})
	return NewDistributionService(contentStore, logStore, clients), contentStore
}

func seedCompleted(t *testing.T, store *storage.ContentStore, id string) {
	t.Helper()
	ctx := context.Background()
	record := models.NewContentRecord(id, "Ready",
		"AI is transforming healthcare through predictive diagnostics.", "text")
	engine := nlp.NewEngine()
	require.NoError(t, record.SetAnalysis(engine.Analyze(record.OriginalContent)))
	require.NoError(t, record.SetRepurposed(engine.Repurpose(record.OriginalContent, nil)))
	record.Status = models.StatusCompleted
	record.Progress = 1.0
	require.NoError(t, store.Save(ctx, record))
}

func TestDistributePostsToRequestedPlatforms(t *testing.T) {
	svc, store := testDistribution(t)
	seedCompleted(t, store, "c1")

	logs, err := svc.Distribute(context.Background(), "c1", []string{"linkedin", "twitter"})
	require.NoError(t, err)
	require.Len(t, logs, 2)

	for _, log := range logs {
		assert.Equal(t, models.DistributionPosted, log.Status)
		assert.Contains(t, log.PostID, "demo_"+log.Platform)
		assert.NotNil(t, log.PostedAt)
	}

	stored, err := svc.Logs(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestDistributeDefaultsToAllConfiguredPlatforms(t *testing.T) {
	svc, store := testDistribution(t)
	seedCompleted(t, store, "c1")

	logs, err := svc.Distribute(context.Background(), "c1", nil)
	require.NoError(t, err)
	assert.Len(t, logs, len(platform.SupportedPlatforms))
}

func TestDistributeEmailUsesNewsletterTeaser(t *testing.T) {
	svc, store := testDistribution(t)
	seedCompleted(t, store, "c1")

	logs, err := svc.Distribute(context.Background(), "c1", []string{"email"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.DistributionPosted, logs[0].Status)
}

func TestDistributeRejectsIncompleteContent(t *testing.T) {
	svc, store := testDistribution(t)
	record := models.NewContentRecord("c1", "Pending", "some content here", "text")
	require.NoError(t, store.Save(context.Background(), record))

	_, err := svc.Distribute(context.Background(), "c1", []string{"linkedin"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestDistributeUnknownPlatformRecordsFailure(t *testing.T) {
	svc, store := testDistribution(t)
	seedCompleted(t, store, "c1")

	logs, err := svc.Distribute(context.Background(), "c1", []string{"myspace"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.DistributionFailed, logs[0].Status)
	assert.Contains(t, logs[0].ErrorMessage, "not configured")
}

func TestDistributeMissingContent(t *testing.T) {
	svc, _ := testDistribution(t)

	_, err := svc.Distribute(context.Background(), "ghost", []string{"linkedin"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}
