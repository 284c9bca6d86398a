// internal/services/context_service_test.go
package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/RepurposeAI/internal/models"
)

type fakeLister struct {
	records  []*models.ContentRecord
	err      error
	gotLimit int
}

func (f *fakeLister) ListRecent(ctx context.Context, excludeID string, limit int) ([]*models.ContentRecord, error) {
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.ContentRecord, 0, len(f.records))
	for _, r := range f.records {
		if r.ID != excludeID {
			out = append(out, r)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeRanker struct {
	ranks []int
	err   error
}

func (f *fakeRanker) RankContext(ctx context.Context, text string, candidates []string, limit int) ([]int, error) {
	return f.ranks, f.err
}

func contextRecord(id, title, body string) *models.ContentRecord {
	record := models.NewContentRecord(id, title, body, "text")
	record.CreatedAt = time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	return record
}

func longBody(prefix string, n int) string {
	return prefix + strings.Repeat("x", n-len(prefix))
}

func TestBuildContextFormatsBlocks(t *testing.T) {
	lister := &fakeLister{records: []*models.ContentRecord{
		contextRecord("a", "First Post", longBody("alpha ", 150)),
		contextRecord("b", "Second Post", longBody("beta ", 150)),
	}}
	svc := NewContextService(lister, nil)

	got := svc.BuildContext(context.Background(), "current", "new content", 3)

	require.NotEmpty(t, got)
	assert.Contains(t, got, "[Previous Article - 2026-05-10]")
	assert.Contains(t, got, "Title: First Post")
	assert.Contains(t, got, "Title: Second Post")

	blocks := strings.Split(got, "\n\n")
	require.Len(t, blocks, 2)
	for _, block := range blocks {
		assert.True(t, strings.HasSuffix(block, "---"))
	}
}

func TestBuildContextFiltersShortRecords(t *testing.T) {
	lister := &fakeLister{records: []*models.ContentRecord{
		contextRecord("a", "Thin", "too short"),
		contextRecord("b", "Thick", longBody("useful ", 200)),
	}}
	svc := NewContextService(lister, nil)

	got := svc.BuildContext(context.Background(), "current", "new content", 3)
	assert.NotContains(t, got, "Thin")
	assert.Contains(t, got, "Thick")
}

func TestBuildContextTruncatesBodies(t *testing.T) {
	lister := &fakeLister{records: []*models.ContentRecord{
		contextRecord("a", "Long", longBody("start ", 5000)),
	}}
	svc := NewContextService(lister, nil)

	got := svc.BuildContext(context.Background(), "current", "new content", 1)
	// Block overhead on top of the 800-char body cap stays small.
	assert.Less(t, len(got), 1000)
}

func TestBuildContextOverFetches(t *testing.T) {
	lister := &fakeLister{}
	svc := NewContextService(lister, nil)

	svc.BuildContext(context.Background(), "current", "new content", 3)
	assert.Equal(t, 6, lister.gotLimit)
}

func TestBuildContextFailSoft(t *testing.T) {
	lister := &fakeLister{err: fmt.Errorf("database locked")}
	svc := NewContextService(lister, nil)

	got := svc.BuildContext(context.Background(), "current", "new content", 3)
	assert.Equal(t, "", got)
}

func TestBuildContextZeroLimit(t *testing.T) {
	lister := &fakeLister{records: []*models.ContentRecord{
		contextRecord("a", "Post", longBody("body ", 200)),
	}}
	svc := NewContextService(lister, nil)

	assert.Equal(t, "", svc.BuildContext(context.Background(), "current", "new content", 0))
}

func TestBuildContextRankerOrdersResults(t *testing.T) {
	lister := &fakeLister{records: []*models.ContentRecord{
		contextRecord("a", "Alpha", longBody("alpha ", 200)),
		contextRecord("b", "Beta", longBody("beta ", 200)),
		contextRecord("c", "Gamma", longBody("gamma ", 200)),
	}}
	svc := NewContextService(lister, &fakeRanker{ranks: []int{3, 1}})

	got := svc.BuildContext(context.Background(), "current", "new content", 2)

	gammaIdx := strings.Index(got, "Gamma")
	alphaIdx := strings.Index(got, "Alpha")
	require.GreaterOrEqual(t, gammaIdx, 0)
	require.GreaterOrEqual(t, alphaIdx, 0)
	assert.Less(t, gammaIdx, alphaIdx)
	assert.NotContains(t, got, "Beta")
}

func TestBuildContextRankerFailureFallsBackToRecency(t *testing.T) {
	lister := &fakeLister{records: []*models.ContentRecord{
		contextRecord("a", "Alpha", longBody("alpha ", 200)),
		contextRecord("b", "Beta", longBody("beta ", 200)),
	}}
	svc := NewContextService(lister, &fakeRanker{err: fmt.Errorf("model unavailable")})

	got := svc.BuildContext(context.Background(), "current", "new content", 2)
	assert.Contains(t, got, "Alpha")
	assert.Contains(t, got, "Beta")
}

func TestBuildContextRankerInvalidRanksIgnored(t *testing.T) {
	lister := &fakeLister{records: []*models.ContentRecord{
		contextRecord("a", "Alpha", longBody("alpha ", 200)),
		contextRecord("b", "Beta", longBody("beta ", 200)),
	}}
	svc := NewContextService(lister, &fakeRanker{ranks: []int{9, 2, 2, 0}})

	got := svc.BuildContext(context.Background(), "current", "new content", 2)
	assert.Contains(t, got, "Beta")
	assert.NotContains(t, got, "Alpha")
}
