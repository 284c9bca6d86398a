// internal/services/content_service.go
package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
	"github.com/Corphon/RepurposeAI/internal/models"
	"github.com/Corphon/RepurposeAI/internal/storage"
)

// ContentService handles content record lifecycle outside the pipeline:
// upload, lookup, listing and deletion.
type ContentService struct {
	store *storage.ContentStore
}

// NewContentService creates a content service over the store.
func NewContentService(store *storage.ContentStore) *ContentService {
	return &ContentService{store: store}
}

// Upload validates and persists new content in the pending state, returning
// the stored record.
func (s *ContentService) Upload(ctx context.Context, title, content, format string) (*models.ContentRecord, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content must not be empty", nil)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled"
	}

	record := models.NewContentRecord(uuid.NewString(), title, content, format)
	if err := s.store.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Get loads a record by ID.
func (s *ContentService) Get(ctx context.Context, id string) (*models.ContentRecord, error) {
	return s.store.Get(ctx, id)
}

// List returns all records, newest first.
func (s *ContentService) List(ctx context.Context) ([]*models.ContentRecord, error) {
	return s.store.List(ctx)
}

// Delete removes a record and its distribution logs.
func (s *ContentService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
