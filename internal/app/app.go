// internal/app/app.go
package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/DulceVida/MagoChat/internal/catalog"
	"github.com/DulceVida/MagoChat/internal/config"
	"github.com/DulceVida/MagoChat/internal/di"
	"github.com/DulceVida/MagoChat/internal/responder"
	"github.com/DulceVida/MagoChat/internal/scripts"
	"github.com/DulceVida/MagoChat/internal/services"
	"github.com/DulceVida/MagoChat/internal/storage"
	"github.com/DulceVida/MagoChat/internal/utils"
)

// InitServices builds every service in dependency order and registers them
// in the DI container. The router and the demo binary only ever read from
// the container, never construct services themselves.
func InitServices() error {
	cfg := config.GetCurrentConfig()
	container := di.GetContainer()

	fileStorage, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize file storage: %w", err)
	}
	container.Register("storage", fileStorage)

	cat := catalog.Default()
	container.Register("catalog", cat)

	repo := scripts.NewRepository()
	container.Register("scripts", repo)

	statsService := services.NewStatsService()
	container.Register("stats", statsService)

	scriptService := services.NewScriptService(repo, fileStorage, statsService)
	scriptService.LoadPersisted()
	container.Register("script", scriptService)

	resp := responder.New(cat, rand.New(rand.NewSource(time.Now().UnixNano())))
	container.Register("responder", resp)

	streamer := services.NewStreamer(
		time.Duration(cfg.StreamInitialDelayMs)*time.Millisecond,
		time.Duration(cfg.StreamChunkDelayMs)*time.Millisecond,
	)
	container.Register("streamer", streamer)

	chatService := services.NewChatService(repo, resp, statsService, fileStorage, streamer)
	container.Register("chat", chatService)

	utils.GetLogger().Info("services initialized", map[string]interface{}{
		"services": len(container.GetNames()),
		"scripts":  repo.Count(),
	})

	return nil
}
