// internal/app/app.go
package app

import (
	"database/sql"
	"path/filepath"

	"github.com/Corphon/RepurposeAI/internal/config"
	"github.com/Corphon/RepurposeAI/internal/di"
	"github.com/Corphon/RepurposeAI/internal/platform"
	"github.com/Corphon/RepurposeAI/internal/services"
	"github.com/Corphon/RepurposeAI/internal/storage"
	"github.com/Corphon/RepurposeAI/internal/utils"

	// Register the text-generation backends.
	_ "github.com/Corphon/RepurposeAI/internal/llm/providers/gemini"
)

// InitServices wires every service in dependency order and registers them in
// the DI container. The provider chain is built once here; its membership
// does not change for the life of the process.
func InitServices() error {
	logger := utils.GetLogger()
	cfg := config.GetCurrentConfig()
	container := di.GetContainer()

	// Storage
	db, err := storage.OpenDB(filepath.Join(cfg.DataDir, "repurpose.db"))
	if err != nil {
		return err
	}
	contentStore := storage.NewContentStore(db)
	distributionStore := storage.NewDistributionStore(db)
	container.Register("db", db)
	container.Register("content_store", contentStore)

	// Provider chain
	chain := services.BuildChain(cfg)

	// The LLM head of the chain doubles as the context ranker when present.
	var ranker services.ContextRanker
	for _, processor := range chain {
		if gemini, ok := processor.(*services.GeminiProcessor); ok {
			ranker = gemini
			break
		}
	}
	contextService := services.NewContextService(contentStore, ranker)
	container.Register("context", contextService)

	// Pipeline
	progressService := services.NewProgressService()
	lockManager := services.NewLockManager()
	pipelineService := services.NewPipelineService(chain, contentStore, contextService,
		progressService, lockManager, cfg)
	container.Register("progress", progressService)
	container.Register("locks", lockManager)
	container.Register("pipeline", pipelineService)

	// Content lifecycle
	contentService := services.NewContentService(contentStore)
	container.Register("content", contentService)

	// Distribution
	clients := platform.BuildClients(cfg.DemoMode, platform.Credentials{
		LinkedInToken:  cfg.Platforms.LinkedInToken,
		TwitterToken:   cfg.Platforms.TwitterToken,
		FacebookToken:  cfg.Platforms.FacebookToken,
		FacebookPageID: cfg.Platforms.FacebookPageID,
		SendGridAPIKey: cfg.Platforms.SendGridAPIKey,
		EmailFrom:      cfg.Platforms.EmailFrom,
		EmailTo:        cfg.Platforms.EmailTo,
	})
	if cfg.DemoMode {
		logger.Info("demo mode active: platform posting is simulated", nil)
	}
	distributionService := services.NewDistributionService(contentStore, distributionStore, clients)
	container.Register("distribution", distributionService)

	logger.Infof("services initialized (%d registered)", len(container.GetNames()))
	return nil
}

// Shutdown releases resources held by the service layer.
func Shutdown() {
	container := di.GetContainer()
	if db, ok := container.Get("db").(*sql.DB); ok && db != nil {
		db.Close()
	}
}
