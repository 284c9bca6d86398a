// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/RepurposeAI/internal/api"
	"github.com/Corphon/RepurposeAI/internal/app"
	"github.com/Corphon/RepurposeAI/internal/config"
	"github.com/Corphon/RepurposeAI/internal/utils"
)

func main() {
	log.Println("starting RepurposeAI server...")

	// 1. Load configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	cfg := config.GetCurrentConfig()
	log.Printf("configuration loaded, port %s", cfg.Port)

	// 2. Initialize logging
	if err := utils.InitLogger(filepath.Join(cfg.LogDir, "server.log")); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	// 3. Initialize services in dependency order
	if err := app.InitServices(); err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}
	defer app.Shutdown()
	log.Println("services initialized")

	// 4. Set up routes (resolve services, never create)
	router, err := api.SetupRouter()
	if err != nil {
		log.Fatalf("failed to set up routes: %v", err)
	}

	// 5. Serve until interrupted
	log.Printf("server listening on http://localhost:%s", cfg.Port)
	runWithGracefulShutdown(router, cfg.Port)
}

func runWithGracefulShutdown(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced server shutdown: %v", err)
	}

	log.Println("server stopped")
}
