// internal/services/context_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Corphon/RepurposeAI/internal/models"
	"github.com/Corphon/RepurposeAI/internal/utils"
)

const (
	// minContextBodyLength filters out records too thin to inform generation.
	minContextBodyLength = 100

	// maxContextBodyLength bounds each record's contribution to the prompt.
	maxContextBodyLength = 800
)

// ContextRanker orders candidate documents by relevance to the given text,
// returning 1-based indexes. Implemented by the LLM processor; optional.
type ContextRanker interface {
	RankContext(ctx context.Context, text string, candidates []string, limit int) ([]int, error)
}

// contentLister is the slice of the content store the retriever needs.
type contentLister interface {
	ListRecent(ctx context.Context, excludeID string, limit int) ([]*models.ContentRecord, error)
}

// ContextService assembles retrieval context from previously processed
// content. Retrieval is strictly best-effort: any failure, an empty corpus
// included, yields an empty context and the pipeline proceeds without it.
type ContextService struct {
	store  contentLister
	ranker ContextRanker // nil when no LLM backend is configured
	logger *utils.Logger
}

// NewContextService creates the retriever. ranker may be nil.
func NewContextService(store contentLister, ranker ContextRanker) *ContextService {
	return &ContextService{
		store:  store,
		ranker: ranker,
		logger: utils.GetLogger(),
	}
}

// BuildContext returns up to limit formatted prior-content blocks relevant
// to text, excluding the record being processed. Never returns an error.
func (s *ContextService) BuildContext(ctx context.Context, excludeID, text string, limit int) string {
	if limit <= 0 {
		return ""
	}

	// Over-fetch so the length filter and ranking have candidates to drop.
	records, err := s.store.ListRecent(ctx, excludeID, limit*2)
	if err != nil {
		s.logger.Warnf("context retrieval failed, proceeding without context: %v", err)
		return ""
	}

	candidates := make([]*models.ContentRecord, 0, len(records))
	for _, record := range records {
		if len(record.OriginalContent) > minContextBodyLength {
			candidates = append(candidates, record)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	selected := s.rankCandidates(ctx, text, candidates, limit)
	if len(selected) > limit {
		selected = selected[:limit]
	}

	blocks := make([]string, 0, len(selected))
	for _, record := range selected {
		blocks = append(blocks, formatContextBlock(record))
	}
	return strings.Join(blocks, "\n\n")
}

// rankCandidates applies the LLM ranker when available, falling back to
// recency order on any failure or invalid rank output.
func (s *ContextService) rankCandidates(ctx context.Context, text string, candidates []*models.ContentRecord, limit int) []*models.ContentRecord {
	if s.ranker == nil || len(candidates) <= 1 {
		return candidates
	}

	summaries := make([]string, len(candidates))
	for i, record := range candidates {
		summaries[i] = fmt.Sprintf("%s: %s", record.Title, firstChars(record.OriginalContent, 200))
	}

	ranks, err := s.ranker.RankContext(ctx, text, summaries, limit)
	if err != nil {
		s.logger.Warnf("context ranking failed, using recency order: %v", err)
		return candidates
	}

	seen := make(map[int]bool, len(ranks))
	ranked := make([]*models.ContentRecord, 0, len(ranks))
	for _, rank := range ranks {
		idx := rank - 1
		if idx < 0 || idx >= len(candidates) || seen[idx] {
			continue
		}
		seen[idx] = true
		ranked = append(ranked, candidates[idx])
	}
	if len(ranked) == 0 {
		return candidates
	}
	return ranked
}

// formatContextBlock renders one prior record as a prompt block.
func formatContextBlock(record *models.ContentRecord) string {
	body := firstChars(record.OriginalContent, maxContextBodyLength)
	return fmt.Sprintf("[Previous Article - %s]\nTitle: %s\nContent: %s\n---",
		record.CreatedAt.UTC().Format("2006-01-02"), record.Title, body)
}

func firstChars(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
