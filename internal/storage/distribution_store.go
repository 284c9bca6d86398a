// internal/storage/distribution_store.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
	"github.com/Corphon/RepurposeAI/internal/models"
)

// DistributionStore persists per-platform delivery attempts.
type DistributionStore struct {
	db *sql.DB
}

// NewDistributionStore creates a distribution store over an open database.
func NewDistributionStore(db *sql.DB) *DistributionStore {
	return &DistributionStore{db: db}
}

const distributionColumns = `id, content_id, platform, status, post_id, post_url,
	error_message, scheduled_at, posted_at, created_at`

// CreateLog inserts a new delivery log entry.
func (s *DistributionStore) CreateLog(ctx context.Context, log *models.DistributionLog) error {
	query := `INSERT INTO distribution_logs (` + distributionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		log.ID,
		log.ContentID,
		log.Platform,
		log.Status,
		log.PostID,
		log.PostURL,
		log.ErrorMessage,
		log.ScheduledAt.UTC().Format(time.RFC3339),
		nullableTime(log.PostedAt),
		log.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return apperrors.NewPersistenceError("inserting distribution log", err)
	}
	return nil
}

// UpdateLog rewrites the mutable delivery fields of a log entry.
func (s *DistributionStore) UpdateLog(ctx context.Context, log *models.DistributionLog) error {
	query := `UPDATE distribution_logs SET status = ?, post_id = ?, post_url = ?,
		error_message = ?, posted_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		log.Status,
		log.PostID,
		log.PostURL,
		log.ErrorMessage,
		nullableTime(log.PostedAt),
		log.ID,
	)
	if err != nil {
		return apperrors.NewPersistenceError("updating distribution log", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewPersistenceError("checking affected rows", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("distribution log %s not found", log.ID), nil)
	}
	return nil
}

// ListLogs returns all delivery attempts for a content item, oldest first.
func (s *DistributionStore) ListLogs(ctx context.Context, contentID string) ([]*models.DistributionLog, error) {
	query := `SELECT ` + distributionColumns + ` FROM distribution_logs
		WHERE content_id = ? ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query, contentID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("listing distribution logs", err)
	}
	defer rows.Close()

	var logs []*models.DistributionLog
	for rows.Next() {
		log, err := scanDistribution(rows)
		if err != nil {
			return nil, apperrors.NewPersistenceError("scanning distribution log", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("iterating distribution logs", err)
	}
	return logs, nil
}

func scanDistribution(rows *sql.Rows) (*models.DistributionLog, error) {
	var log models.DistributionLog
	var scheduledAtStr, createdAtStr string
	var postedAtStr sql.NullString

	err := rows.Scan(
		&log.ID, &log.ContentID, &log.Platform, &log.Status,
		&log.PostID, &log.PostURL, &log.ErrorMessage,
		&scheduledAtStr, &postedAtStr, &createdAtStr,
	)
	if err != nil {
		return nil, err
	}

	log.ScheduledAt, err = time.Parse(time.RFC3339, scheduledAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing scheduled_at: %w", err)
	}
	log.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if postedAtStr.Valid && postedAtStr.String != "" {
		t, err := time.Parse(time.RFC3339, postedAtStr.String)
		if err != nil {
			return nil, fmt.Errorf("parsing posted_at: %w", err)
		}
		log.PostedAt = &t
	}
	return &log, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
