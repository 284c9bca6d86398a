// internal/models/content.go
package models

import (
	"encoding/json"
	"time"
)

// Content item processing states
const (
	StatusPending     = "pending"
	StatusAnalyzing   = "analyzing"
	StatusRepurposing = "repurposing"
	StatusCompleted   = "completed"
	StatusError       = "error"
)

// ContentRecord is one uploaded long-form content item together with its
// derived pipeline outputs. Analysis and repurposed outputs are stored as
// JSON blobs so a record round-trips whatever the active provider emitted.
type ContentRecord struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	OriginalContent string    `json:"original_content"`
	ContentFormat   string    `json:"content_format"`
	Status          string    `json:"status"`
	Progress        float64   `json:"progress"`
	AnalysisJSON    string    `json:"-"`
	RepurposedJSON  string    `json:"-"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewContentRecord creates a pending record for freshly uploaded content.
func NewContentRecord(id, title, originalContent, format string) *ContentRecord {
	if format == "" {
		format = "text"
	}
	now := time.Now().UTC()
	return &ContentRecord{
		ID:              id,
		Title:           title,
		OriginalContent: originalContent,
		ContentFormat:   format,
		Status:          StatusPending,
		Progress:        0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// SetAnalysis stores the analysis as a JSON blob.
func (c *ContentRecord) SetAnalysis(a *Analysis) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	c.AnalysisJSON = string(data)
	return nil
}

// Analysis decodes the stored analysis blob, or returns nil if absent.
func (c *ContentRecord) Analysis() (*Analysis, error) {
	if c.AnalysisJSON == "" {
		return nil, nil
	}
	var a Analysis
	if err := json.Unmarshal([]byte(c.AnalysisJSON), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// SetRepurposed stores the repurposed bundle as a JSON blob.
func (c *ContentRecord) SetRepurposed(b *RepurposedBundle) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	c.RepurposedJSON = string(data)
	return nil
}

// Repurposed decodes the stored bundle blob, or returns nil if absent.
func (c *ContentRecord) Repurposed() (*RepurposedBundle, error) {
	if c.RepurposedJSON == "" {
		return nil, nil
	}
	var b RepurposedBundle
	if err := json.Unmarshal([]byte(c.RepurposedJSON), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ToView renders the record for API responses with the JSON blobs expanded.
func (c *ContentRecord) ToView() map[string]interface{} {
	view := map[string]interface{}{
		"id":               c.ID,
		"title":            c.Title,
		"original_content": c.OriginalContent,
		"content_format":   c.ContentFormat,
		"status":           c.Status,
		"progress":         c.Progress,
		"created_at":       c.CreatedAt.Format(time.RFC3339),
		"updated_at":       c.UpdatedAt.Format(time.RFC3339),
	}
	if analysis, err := c.Analysis(); err == nil && analysis != nil {
		view["analysis_results"] = analysis
	} else {
		view["analysis_results"] = map[string]interface{}{}
	}
	if bundle, err := c.Repurposed(); err == nil && bundle != nil {
		view["repurposed_outputs"] = bundle
	} else {
		view["repurposed_outputs"] = map[string]interface{}{}
	}
	if c.ErrorMessage != "" {
		view["error_message"] = c.ErrorMessage
	}
	return view
}

// Distribution states
const (
	DistributionScheduled = "scheduled"
	DistributionPosting   = "posting"
	DistributionPosted    = "posted"
	DistributionFailed    = "failed"
)

// DistributionLog tracks one delivery attempt of repurposed content to a
// single external platform.
type DistributionLog struct {
	ID           string     `json:"id"`
	ContentID    string     `json:"content_id"`
	Platform     string     `json:"platform"`
	Status       string     `json:"status"`
	PostID       string     `json:"post_id,omitempty"`
	PostURL      string     `json:"post_url,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	PostedAt     *time.Time `json:"posted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewDistributionLog creates a scheduled log entry for one platform.
func NewDistributionLog(id, contentID, platform string) *DistributionLog {
	now := time.Now().UTC()
	return &DistributionLog{
		ID:          id,
		ContentID:   contentID,
		Platform:    platform,
		Status:      DistributionScheduled,
		ScheduledAt: now,
		CreatedAt:   now,
	}
}
