// internal/services/progress_service.go
package services

import (
	"fmt"
	"sync"
	"time"
)

// ProgressUpdate is one pipeline progress event pushed to subscribers.
type ProgressUpdate struct {
	Progress float64 `json:"progress"` // 0.0 - 1.0
	Message  string  `json:"message"`
	Status   string  `json:"status"` // pending, analyzing, repurposing, completed, error
}

// ProgressTracker tracks one content item's pipeline run and fans updates
// out to subscribed channels.
type ProgressTracker struct {
	ContentID   string
	Progress    float64
	Message     string
	Status      string
	StartTime   time.Time
	UpdateTime  time.Time
	subscribers map[chan ProgressUpdate]bool
	Done        chan struct{}
	mutex       sync.Mutex
}

// ProgressService manages progress trackers for all running pipelines.
type ProgressService struct {
	trackers map[string]*ProgressTracker
	mutex    sync.RWMutex
}

// NewProgressService creates a progress service.
func NewProgressService() *ProgressService {
	return &ProgressService{
		trackers: make(map[string]*ProgressTracker),
	}
}

// CreateTracker creates a tracker for a content item, returning the existing
// one if the item is already being tracked.
func (s *ProgressService) CreateTracker(contentID string) *ProgressTracker {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if tracker, exists := s.trackers[contentID]; exists {
		return tracker
	}

	tracker := &ProgressTracker{
		ContentID:   contentID,
		Progress:    0,
		Message:     "Queued for processing",
		Status:      "pending",
		StartTime:   time.Now(),
		UpdateTime:  time.Now(),
		subscribers: make(map[chan ProgressUpdate]bool),
		Done:        make(chan struct{}),
	}

	s.trackers[contentID] = tracker
	return tracker
}

// GetTracker returns the tracker for a content item, if one exists.
func (s *ProgressService) GetTracker(contentID string) (*ProgressTracker, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	tracker, exists := s.trackers[contentID]
	return tracker, exists
}

// RemoveTracker drops a finished tracker.
func (s *ProgressService) RemoveTracker(contentID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.trackers, contentID)
}

// Update records a progress step and notifies subscribers. Progress never
// moves backwards.
func (t *ProgressTracker) Update(progress float64, status, message string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if progress > t.Progress {
		t.Progress = progress
	}
	if status != "" {
		t.Status = status
	}
	if message != "" {
		t.Message = message
	}
	t.UpdateTime = time.Now()

	t.notifyLocked()
}

// Complete marks the run finished and closes the Done channel.
func (t *ProgressTracker) Complete(message string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.Progress = 1.0
	t.Status = "completed"
	if message != "" {
		t.Message = message
	} else {
		t.Message = "Processing completed"
	}
	t.UpdateTime = time.Now()

	t.notifyLocked()
	close(t.Done)
}

// Fail marks the run failed and closes the Done channel.
func (t *ProgressTracker) Fail(errorMsg string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.Status = "error"
	t.Message = fmt.Sprintf("Processing failed: %s", errorMsg)
	t.UpdateTime = time.Now()

	t.notifyLocked()
	close(t.Done)
}

// Subscribe registers a channel for progress updates. The current state is
// delivered immediately so late subscribers see where the run stands.
func (t *ProgressTracker) Subscribe() chan ProgressUpdate {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	ch := make(chan ProgressUpdate, 8)
	t.subscribers[ch] = true

	ch <- ProgressUpdate{
		Progress: t.Progress,
		Message:  t.Message,
		Status:   t.Status,
	}
	return ch
}

// Unsubscribe removes a channel from the tracker.
func (t *ProgressTracker) Unsubscribe(ch chan ProgressUpdate) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, exists := t.subscribers[ch]; exists {
		delete(t.subscribers, ch)
		close(ch)
	}
}

// notifyLocked sends the current state to all subscribers without blocking.
// Callers must hold the tracker mutex.
func (t *ProgressTracker) notifyLocked() {
	update := ProgressUpdate{
		Progress: t.Progress,
		Message:  t.Message,
		Status:   t.Status,
	}
	for subscriber := range t.subscribers {
		select {
		case subscriber <- update:
		default:
		}
	}
}
