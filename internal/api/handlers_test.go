// internal/api/handlers_test.go
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/RepurposeAI/internal/config"
	"github.com/Corphon/RepurposeAI/internal/platform"
	"github.com/Corphon/RepurposeAI/internal/services"
	"github.com/Corphon/RepurposeAI/internal/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.AppConfig{
		RequestTimeout:    5 * time.Second,
		MaxRetries:        1,
		RetryBackoff:      time.Millisecond,
		AnalyzeRAGLimit:   2,
		RepurposeRAGLimit: 2,
		DemoMode:          true,
	}

	contentStore := storage.NewContentStore(db)
	distributionStore := storage.NewDistributionStore(db)

	chain := []services.Processor{services.NewLocalProcessor()}
	contexts := services.NewContextService(contentStore, nil)
	progress := services.NewProgressService()
	pipeline := services.NewPipelineService(chain, contentStore, contexts, progress,
		services.NewLockManager(), cfg)
	content := services.NewContentService(contentStore)
	distribution := services.NewDistributionService(contentStore, distributionStore,
		platform.BuildClients(true, platform.Credentials{}))

	handler := NewHandler(content, pipeline, progress, distribution)

	r := gin.New()
	r.Use(corsMiddleware())
	r.GET("/api/health", handler.Health)
	group := r.Group("/api/content")
	{
		group.POST("/upload", handler.UploadContent)
		group.GET("", handler.ListContent)
		group.GET("/:id", handler.GetContent)
		group.GET("/:id/status", handler.GetContentStatus)
		group.DELETE("/:id", handler.DeleteContent)
		group.POST("/:id/distribute", handler.DistributeContent)
		group.GET("/:id/distributions", handler.ListDistributions)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func TestUploadSynchronousCompletesPipeline(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/content/upload", map[string]string{
		"title":   "Healthcare AI",
		"content": "AI is transforming healthcare through predictive diagnostics.",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "completed", data["status"])
	assert.Equal(t, 1.0, data["progress"])

	outputs, ok := data["repurposed_outputs"].(map[string]interface{})
	require.True(t, ok)
	posts, ok := outputs["social_posts"].([]interface{})
	require.True(t, ok)
	assert.Len(t, posts, 4)
}

func TestUploadRejectsEmptyContent(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/content/upload", map[string]string{
		"title": "No body",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadAsyncReturnsPending(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/content/upload?async=1", map[string]string{
		"title":   "Async item",
		"content": "Long form content that will be processed in the background shortly.",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "pending", data["status"])

	// The background pipeline finishes quickly with the local chain.
	id := data["id"].(string)
	require.Eventually(t, func() bool {
		status := doJSON(t, r, http.MethodGet, "/api/content/"+id+"/status", nil)
		if status.Code != http.StatusOK {
			return false
		}
		return decodeData(t, status)["status"] == "completed"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestStatusAndGetUnknownContent(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/api/content/ghost", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/api/content/ghost/status", nil).Code)
}

func TestListAndDeleteContent(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/content/upload", map[string]string{
		"title":   "To delete",
		"content": "Some content that is about to be removed again.",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeData(t, w)["id"].(string)

	list := doJSON(t, r, http.MethodGet, "/api/content", nil)
	require.Equal(t, http.StatusOK, list.Code)

	del := doJSON(t, r, http.MethodDelete, "/api/content/"+id, nil)
	require.Equal(t, http.StatusOK, del.Code)

	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/api/content/"+id, nil).Code)
}

func TestDistributeCompletedContent(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/content/upload", map[string]string{
		"title":   "Distribute me",
		"content": "AI is transforming healthcare through predictive diagnostics.",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeData(t, w)["id"].(string)

	dist := doJSON(t, r, http.MethodPost, "/api/content/"+id+"/distribute",
		map[string]interface{}{"platforms": []string{"linkedin", "email"}})
	require.Equal(t, http.StatusOK, dist.Code)

	var envelope struct {
		Success bool `json:"success"`
		Data    []struct {
			Platform string `json:"platform"`
			Status   string `json:"status"`
			PostID   string `json:"post_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(dist.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	for _, log := range envelope.Data {
		assert.Equal(t, "posted", log.Status)
		assert.NotEmpty(t, log.PostID)
	}

	history := doJSON(t, r, http.MethodGet, "/api/content/"+id+"/distributions", nil)
	assert.Equal(t, http.StatusOK, history.Code)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "provider_chain")
}
