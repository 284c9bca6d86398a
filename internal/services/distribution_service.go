// internal/services/distribution_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
	"github.com/Corphon/RepurposeAI/internal/models"
	"github.com/Corphon/RepurposeAI/internal/platform"
	"github.com/Corphon/RepurposeAI/internal/storage"
	"github.com/Corphon/RepurposeAI/internal/utils"
)

// DistributionService delivers repurposed artifacts to external platforms
// and records every attempt in the distribution log.
type DistributionService struct {
	contentStore *storage.ContentStore
	logStore     *storage.DistributionStore
	clients      map[string]platform.Client
	logger       *utils.Logger
}

// NewDistributionService creates a distribution service over the stores and
// the configured platform clients.
func NewDistributionService(contentStore *storage.ContentStore, logStore *storage.DistributionStore,
	clients map[string]platform.Client) *DistributionService {
	return &DistributionService{
		contentStore: contentStore,
		logStore:     logStore,
		clients:      clients,
		logger:       utils.GetLogger(),
	}
}

// Distribute posts the matching artifact of a completed content item to each
// requested platform. Per-platform failures are recorded, not fatal: the
// returned logs carry the outcome of every attempt.
func (s *DistributionService) Distribute(ctx context.Context, contentID string, platforms []string) ([]*models.DistributionLog, error) {
	record, err := s.contentStore.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if record.Status != models.StatusCompleted {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("content %s is %s, only completed content can be distributed", contentID, record.Status), nil)
	}

	bundle, err := record.Repurposed()
	if err != nil || bundle == nil {
		return nil, apperrors.NewProcessingError("content has no repurposed outputs", err)
	}

	if len(platforms) == 0 {
		platforms = availablePlatforms(s.clients)
	}

	logs := make([]*models.DistributionLog, 0, len(platforms))
	for _, name := range platforms {
		log := s.distributeOne(ctx, record, bundle, name)
		logs = append(logs, log)
	}
	return logs, nil
}

// distributeOne runs the full log lifecycle for one platform: scheduled,
// posting, then posted or failed.
func (s *DistributionService) distributeOne(ctx context.Context, record *models.ContentRecord,
	bundle *models.RepurposedBundle, platformName string) *models.DistributionLog {

	log := models.NewDistributionLog(uuid.NewString(), record.ID, platformName)
	if err := s.logStore.CreateLog(ctx, log); err != nil {
		s.logger.Errorf("failed to create distribution log for %s/%s: %v", record.ID, platformName, err)
		log.Status = models.DistributionFailed
		log.ErrorMessage = err.Error()
		return log
	}

	finish := func() {
		if err := s.logStore.UpdateLog(ctx, log); err != nil {
			s.logger.Errorf("failed to update distribution log %s: %v", log.ID, err)
		}
	}

	client, exists := s.clients[platformName]
	if !exists {
		log.Status = models.DistributionFailed
		log.ErrorMessage = fmt.Sprintf("platform %s is not configured", platformName)
		finish()
		return log
	}

	text, err := selectArtifact(bundle, platformName)
	if err != nil {
		log.Status = models.DistributionFailed
		log.ErrorMessage = err.Error()
		finish()
		return log
	}

	log.Status = models.DistributionPosting
	if err := s.logStore.UpdateLog(ctx, log); err != nil {
		s.logger.Errorf("failed to update distribution log %s: %v", log.ID, err)
	}

	result, err := client.Post(ctx, text)
	if err != nil {
		s.logger.Warnf("distribution to %s failed for %s: %v", platformName, record.ID, err)
		log.Status = models.DistributionFailed
		log.ErrorMessage = err.Error()
		finish()
		return log
	}

	now := time.Now().UTC()
	log.Status = models.DistributionPosted
	log.PostID = result.PostID
	log.PostURL = result.PostURL
	log.PostedAt = &now
	finish()

	s.logger.Infof("content %s posted to %s as %s", record.ID, platformName, result.PostID)
	return log
}

// Logs returns the delivery history for a content item.
func (s *DistributionService) Logs(ctx context.Context, contentID string) ([]*models.DistributionLog, error) {
	return s.logStore.ListLogs(ctx, contentID)
}

// selectArtifact picks the bundle artifact matching a platform: the social
// post for social platforms, the newsletter teaser for email.
func selectArtifact(bundle *models.RepurposedBundle, platformName string) (string, error) {
	if platformName == "email" {
		for _, snippet := range bundle.EmailSnippets {
			if snippet.Type == "newsletter_teaser" {
				return snippet.Subject + "\n\n" + snippet.Content, nil
			}
		}
		if len(bundle.EmailSnippets) > 0 {
			first := bundle.EmailSnippets[0]
			return first.Subject + "\n\n" + first.Content, nil
		}
		return "", fmt.Errorf("bundle has no email snippets")
	}

	for _, post := range bundle.SocialPosts {
		if post.Platform == platformName {
			return post.Text, nil
		}
	}
	return "", fmt.Errorf("bundle has no post for platform %s", platformName)
}

func availablePlatforms(clients map[string]platform.Client) []string {
	var names []string
	for _, name := range platform.SupportedPlatforms {
		if _, exists := clients[name]; exists {
			names = append(names, name)
		}
	}
	return names
}
