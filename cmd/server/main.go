// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DulceVida/MagoChat/internal/api"
	"github.com/DulceVida/MagoChat/internal/app"
	"github.com/DulceVida/MagoChat/internal/config"
	"github.com/DulceVida/MagoChat/internal/di"
	"github.com/DulceVida/MagoChat/internal/utils"
)

func main() {
	log.Println("starting MagoChat server...")

	// 1. Load the base configuration from the environment
	baseConfig, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	log.Printf("configuration loaded, port %s", baseConfig.Port)

	// 2. Create the required directories
	createDirectories(baseConfig)

	// 3. Initialize the persisted configuration system
	if err := config.InitConfig(baseConfig.DataDir); err != nil {
		log.Fatalf("failed to initialize configuration system: %v", err)
	}

	// 4. Initialize logging
	if err := utils.InitLogger(filepath.Join(baseConfig.LogDir, "magochat.log")); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	// 5. Initialize all services in dependency order
	if err := app.InitServices(); err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}

	if err := performHealthCheck(); err != nil {
		log.Printf("service health check warning: %v", err)
	}

	// 6. Set up routes from the registered services
	router, err := api.SetupRouter()
	if err != nil {
		log.Fatalf("failed to set up routes: %v", err)
	}

	log.Printf("server listening on port %s", baseConfig.Port)
	log.Printf("chat API: http://localhost:%s/api/chat/sessions", baseConfig.Port)

	setupGracefulShutdown(router, baseConfig.Port)
}

func performHealthCheck() error {
	container := di.GetContainer()

	criticalServices := []string{"chat", "script", "stats", "storage"}

	for _, serviceName := range criticalServices {
		if service := container.Get(serviceName); service == nil {
			return fmt.Errorf("critical service not registered: %s", serviceName)
		}
	}

	return nil
}

func setupGracefulShutdown(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
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

// createDirectories sets up the data and log directory layout.
func createDirectories(cfg *config.Config) {
	dirs := []string{
		cfg.DataDir,
		filepath.Join(cfg.DataDir, "scripts"),
		filepath.Join(cfg.DataDir, "sessions"),
		cfg.LogDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}
}
