// internal/api/websocket.go
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ContentProgressWebSocket streams pipeline progress updates for one content
// item. The connection closes when the run completes or fails; if no run is
// active the current stored state is sent once and the socket closes.
func (h *Handler) ContentProgressWebSocket(c *gin.Context) {
	contentID := c.Param("id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnf("websocket upgrade failed for %s: %v", contentID, err)
		return
	}
	defer conn.Close()

	tracker, exists := h.progress.GetTracker(contentID)
	if !exists {
		record, err := h.content.Get(c.Request.Context(), contentID)
		if err != nil {
			conn.WriteJSON(gin.H{"error": err.Error()})
			return
		}
		conn.WriteJSON(gin.H{
			"progress": record.Progress,
			"status":   record.Status,
			"message":  "No active processing",
		})
		return
	}

	updates := tracker.Subscribe()
	defer tracker.Unsubscribe(updates)

	// Reads only detect client disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(update); err != nil {
				return
			}
			if update.Status == "completed" || update.Status == "error" {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
		case <-tracker.Done:
			// Drain any final update already queued before closing.
			select {
			case update := <-updates:
				conn.WriteJSON(update)
			default:
			}
			return
		case <-pingTicker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
