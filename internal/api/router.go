// internal/api/router.go
package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/DulceVida/MagoChat/internal/config"
	"github.com/DulceVida/MagoChat/internal/di"
	"github.com/DulceVida/MagoChat/internal/services"
)

// SetupRouter configures the HTTP routes over the services registered in the
// DI container.
func SetupRouter() (*gin.Engine, error) {
	cfg := config.GetCurrentConfig()

	container := di.GetContainer()

	chatService, ok := container.Get("chat").(*services.ChatService)
	if !ok {
		return nil, fmt.Errorf("chat service is not initialized")
	}

	scriptService, ok := container.Get("script").(*services.ScriptService)
	if !ok {
		return nil, fmt.Errorf("script service is not initialized")
	}

	statsService, ok := container.Get("stats").(*services.StatsService)
	if !ok {
		return nil, fmt.Errorf("stats service is not initialized")
	}

	handler := NewHandler(chatService, scriptService, statsService)

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(corsMiddleware())

	// WebSocket turn streaming
	r.GET("/ws/chat/:id", handler.ChatWebSocket)

	api := r.Group("/api")
	api.Use(DefaultRateLimit())
	{
		// ===============================
		// Conversation sessions
		// ===============================
		sessionsGroup := api.Group("/chat/sessions")
		{
			sessionsGroup.POST("", handler.CreateSession)
			sessionsGroup.GET("/:id", handler.GetSession)
			sessionsGroup.DELETE("/:id", handler.EndSession)
			sessionsGroup.POST("/:id/messages", ChatRateLimit(), handler.SendMessage)
			sessionsGroup.POST("/:id/script", handler.ActivateScript)
			sessionsGroup.DELETE("/:id/script", handler.DeactivateScript)
			sessionsGroup.POST("/:id/location", handler.SetLocation)
		}

		// ===============================
		// Script repository
		// ===============================
		scriptsGroup := api.Group("/scripts")
		{
			scriptsGroup.GET("", handler.GetScripts)
			scriptsGroup.POST("", handler.ImportScript)
			scriptsGroup.GET("/template", handler.GetScriptTemplate)
			scriptsGroup.GET("/:id", handler.GetScript)
			scriptsGroup.GET("/:id/export", handler.ExportScript)
			scriptsGroup.DELETE("/:id", handler.DeleteScript)
		}

		// ===============================
		// Operational
		// ===============================
		api.GET("/stats", handler.GetStats)
		api.GET("/config/health", handler.GetConfigHealth)
		api.PUT("/config/streaming", handler.UpdateStreamingConfig)
	}

	return r, nil
}
