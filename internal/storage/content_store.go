// internal/storage/content_store.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
	"github.com/Corphon/RepurposeAI/internal/models"
)

// ContentStore persists content records in SQLite.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a content store over an open database.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

const contentColumns = `id, title, original_content, content_format, status, progress,
	analysis_json, repurposed_json, error_message, created_at, updated_at`

// Save inserts a new content record.
func (s *ContentStore) Save(ctx context.Context, record *models.ContentRecord) error {
	query := `INSERT INTO content_items (` + contentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.Title,
		record.OriginalContent,
		record.ContentFormat,
		record.Status,
		record.Progress,
		record.AnalysisJSON,
		record.RepurposedJSON,
		record.ErrorMessage,
		record.CreatedAt.UTC().Format(time.RFC3339),
		record.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return apperrors.NewPersistenceError("inserting content record", err)
	}
	return nil
}

// Get loads one record by ID. Returns a not-found error when absent.
func (s *ContentStore) Get(ctx context.Context, id string) (*models.ContentRecord, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)
	record, err := scanContent(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("content %s not found", id), err)
		}
		return nil, apperrors.NewPersistenceError("loading content record", err)
	}
	return record, nil
}

// Exists reports whether a record with the given ID is present.
func (s *ContentStore) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM content_items WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, apperrors.NewPersistenceError("checking content existence", err)
	}
	return n > 0, nil
}

// List returns all records, newest first.
func (s *ContentStore) List(ctx context.Context) ([]*models.ContentRecord, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items ORDER BY created_at DESC, id DESC`
	return s.queryRecords(ctx, query)
}

// ListRecent returns up to limit records ordered newest first, excluding the
// record with excludeID. Used to build retrieval context for a new item
// without the item retrieving itself.
func (s *ContentStore) ListRecent(ctx context.Context, excludeID string, limit int) ([]*models.ContentRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `SELECT ` + contentColumns + ` FROM content_items
		WHERE id != ? ORDER BY created_at DESC, id DESC LIMIT ?`
	return s.queryRecords(ctx, query, excludeID, limit)
}

// Update rewrites all mutable fields of a record.
func (s *ContentStore) Update(ctx context.Context, record *models.ContentRecord) error {
	record.UpdatedAt = time.Now().UTC()
	query := `UPDATE content_items SET title = ?, original_content = ?, content_format = ?,
		status = ?, progress = ?, analysis_json = ?, repurposed_json = ?, error_message = ?,
		updated_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		record.Title,
		record.OriginalContent,
		record.ContentFormat,
		record.Status,
		record.Progress,
		record.AnalysisJSON,
		record.RepurposedJSON,
		record.ErrorMessage,
		record.UpdatedAt.Format(time.RFC3339),
		record.ID,
	)
	if err != nil {
		return apperrors.NewPersistenceError("updating content record", err)
	}
	return requireRow(res, record.ID)
}

// UpdateStatus transitions a record's status and progress.
func (s *ContentStore) UpdateStatus(ctx context.Context, id, status string, progress float64) error {
	query := `UPDATE content_items SET status = ?, progress = ?, updated_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, status, progress, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return apperrors.NewPersistenceError("updating content status", err)
	}
	return requireRow(res, id)
}

// SetError marks a record failed with a message.
func (s *ContentStore) SetError(ctx context.Context, id, message string) error {
	query := `UPDATE content_items SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, models.StatusError, message, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return apperrors.NewPersistenceError("recording content error", err)
	}
	return requireRow(res, id)
}

// SaveAnalysis stores the analysis blob alongside a status transition.
func (s *ContentStore) SaveAnalysis(ctx context.Context, id, analysisJSON, status string, progress float64) error {
	query := `UPDATE content_items SET analysis_json = ?, status = ?, progress = ?, updated_at = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, analysisJSON, status, progress,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return apperrors.NewPersistenceError("saving analysis", err)
	}
	return requireRow(res, id)
}

// SaveRepurposed stores the repurposed blob alongside a status transition.
func (s *ContentStore) SaveRepurposed(ctx context.Context, id, repurposedJSON, status string, progress float64) error {
	query := `UPDATE content_items SET repurposed_json = ?, status = ?, progress = ?, updated_at = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, repurposedJSON, status, progress,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return apperrors.NewPersistenceError("saving repurposed outputs", err)
	}
	return requireRow(res, id)
}

// Delete removes a record and, via cascade, its distribution logs.
func (s *ContentStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM content_items WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewPersistenceError("deleting content record", err)
	}
	return requireRow(res, id)
}

func (s *ContentStore) queryRecords(ctx context.Context, query string, args ...interface{}) ([]*models.ContentRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError("listing content records", err)
	}
	defer rows.Close()

	var records []*models.ContentRecord
	for rows.Next() {
		record, err := scanContent(rows.Scan)
		if err != nil {
			return nil, apperrors.NewPersistenceError("scanning content row", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("iterating content rows", err)
	}
	return records, nil
}

func scanContent(scan func(dest ...interface{}) error) (*models.ContentRecord, error) {
	var record models.ContentRecord
	var createdAtStr, updatedAtStr string

	err := scan(
		&record.ID, &record.Title, &record.OriginalContent, &record.ContentFormat,
		&record.Status, &record.Progress,
		&record.AnalysisJSON, &record.RepurposedJSON, &record.ErrorMessage,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	record.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	record.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &record, nil
}

func requireRow(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewPersistenceError("checking affected rows", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("content %s not found", id), nil)
	}
	return nil
}
