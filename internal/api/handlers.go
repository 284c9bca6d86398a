// internal/api/handlers.go
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
	"github.com/Corphon/RepurposeAI/internal/services"
	"github.com/Corphon/RepurposeAI/internal/utils"
)

// Handler exposes the content pipeline over HTTP.
type Handler struct {
	content      *services.ContentService
	pipeline     *services.PipelineService
	progress     *services.ProgressService
	distribution *services.DistributionService
	logger       *utils.Logger
}

// NewHandler creates the API handler from the wired services.
func NewHandler(content *services.ContentService, pipeline *services.PipelineService,
	progress *services.ProgressService, distribution *services.DistributionService) *Handler {
	return &Handler{
		content:      content,
		pipeline:     pipeline,
		progress:     progress,
		distribution: distribution,
		logger:       utils.GetLogger(),
	}
}

type uploadRequest struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
	Format  string `json:"format"`
}

// UploadContent accepts new content and runs the pipeline. With ?async=1 the
// pipeline runs in the background and the pending record returns immediately;
// otherwise the call blocks until processing finishes.
func (h *Handler) UploadContent(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid upload payload", err))
		return
	}

	record, err := h.content.Upload(c.Request.Context(), req.Title, req.Content, req.Format)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("async") == "1" {
		// Detach from the request context: the pipeline outlives the upload.
		go func() {
			if err := h.pipeline.ProcessContent(context.Background(), record.ID); err != nil {
				h.logger.Errorf("background pipeline failed for %s: %v", record.ID, err)
			}
		}()
		respondCreated(c, record.ToView())
		return
	}

	if err := h.pipeline.ProcessContent(c.Request.Context(), record.ID); err != nil {
		respondError(c, err)
		return
	}

	processed, err := h.content.Get(c.Request.Context(), record.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, processed.ToView())
}

// GetContent returns one record with its analysis and outputs expanded.
func (h *Handler) GetContent(c *gin.Context) {
	record, err := h.content.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, record.ToView())
}

// GetContentStatus returns the processing state of one record.
func (h *Handler) GetContentStatus(c *gin.Context) {
	record, err := h.content.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"id":            record.ID,
		"status":        record.Status,
		"progress":      record.Progress,
		"error_message": record.ErrorMessage,
		"updated_at":    record.UpdatedAt,
	})
}

// ListContent returns records newest first, windowed by optional limit and
// offset query parameters.
func (h *Handler) ListContent(c *gin.Context) {
	records, err := h.content.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	total := len(records)
	offset := intQuery(c, "offset", 0)
	if offset > total {
		offset = total
	}
	records = records[offset:]
	if limit := intQuery(c, "limit", 0); limit > 0 && limit < len(records) {
		records = records[:limit]
	}

	views := make([]map[string]interface{}, len(records))
	for i, record := range records {
		views[i] = record.ToView()
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
		"total":   total,
	})
}

func intQuery(c *gin.Context, name string, defaultValue int) int {
	value := c.Query(name)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}

// DeleteContent removes a record and its distribution logs.
func (h *Handler) DeleteContent(c *gin.Context) {
	if err := h.content.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": c.Param("id")})
}

type distributeRequest struct {
	Platforms []string `json:"platforms"`
}

// DistributeContent posts a completed item's artifacts to the requested
// platforms (all configured platforms when none are named).
func (h *Handler) DistributeContent(c *gin.Context) {
	var req distributeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, apperrors.NewValidationError("invalid distribute payload", err))
		return
	}

	logs, err := h.distribution.Distribute(c.Request.Context(), c.Param("id"), req.Platforms)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, logs)
}

// ListDistributions returns the delivery history of one record.
func (h *Handler) ListDistributions(c *gin.Context) {
	logs, err := h.distribution.Logs(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, logs)
}

// Health reports service liveness and the active provider chain.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"provider_chain":     h.pipeline.ChainDescription(),
		"disabled_providers": h.pipeline.DisabledProviders(),
	})
}
