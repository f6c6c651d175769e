// internal/api/handlers.go
package api

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DulceVida/MagoChat/internal/config"
	"github.com/DulceVida/MagoChat/internal/models"
	"github.com/DulceVida/MagoChat/internal/services"
)

// Handler routes API requests to the services.
type Handler struct {
	ChatService   *services.ChatService
	ScriptService *services.ScriptService
	StatsService  *services.StatsService
	Response      *ResponseHelper
}

// NewHandler creates the API handler over the shared service instances.
func NewHandler(chat *services.ChatService, script *services.ScriptService, stats *services.StatsService) *Handler {
	return &Handler{
		ChatService:   chat,
		ScriptService: script,
		StatsService:  stats,
		Response:      NewResponseHelper(),
	}
}

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIError is the standard error payload.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SendMessageRequest is one user turn.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// ActivateScriptRequest selects the script to load into a session.
type ActivateScriptRequest struct {
	ScriptID string `json:"script_id"`
}

// SetLocationRequest carries the user's granted location.
type SetLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
}

// UpdateStreamingRequest retunes the simulated streaming pace. A nil field
// leaves that delay unchanged.
type UpdateStreamingRequest struct {
	InitialDelayMs *int `json:"initial_delay_ms"`
	ChunkDelayMs   *int `json:"chunk_delay_ms"`
}

// ========================================
// Chat session handlers
// ========================================

// CreateSession starts a new conversation session.
func (h *Handler) CreateSession(c *gin.Context) {
	session := h.ChatService.CreateSession()
	h.Response.Created(c, session, "session created")
}

// GetSession returns a session with its full message history.
func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.ChatService.GetSession(c.Param("id"))
	if err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, session)
}

// EndSession destroys a session and its engine state.
func (h *Handler) EndSession(c *gin.Context) {
	if err := h.ChatService.EndSession(c.Param("id")); err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, nil, "session ended")
}

// SendMessage processes one synchronous conversation turn and returns the
// assistant message.
func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	message, err := h.ChatService.ProcessTurn(c.Param("id"), req.Text)
	if err != nil {
		h.Response.FromError(c, err)
		return
	}

	h.Response.Success(c, message)
}

// ActivateScript loads a script into the session, replacing prior progress.
func (h *Handler) ActivateScript(c *gin.Context) {
	var req ActivateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "invalid request body", err.Error())
		return
	}
	if req.ScriptID == "" {
		h.Response.BadRequest(c, "script_id is required")
		return
	}

	if err := h.ChatService.ActivateScript(c.Param("id"), req.ScriptID); err != nil {
		h.Response.FromError(c, err)
		return
	}

	h.Response.Success(c, gin.H{"script_id": req.ScriptID}, "script activated")
}

// DeactivateScript unloads the session's script; later turns fall through to
// the generic responder.
func (h *Handler) DeactivateScript(c *gin.Context) {
	if err := h.ChatService.DeactivateScript(c.Param("id")); err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, nil, "script deactivated")
}

// SetLocation stores the user's location for nearby-nutritionist replies.
func (h *Handler) SetLocation(c *gin.Context) {
	var req SetLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	location := models.Location{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		City:      req.City,
	}
	if err := h.ChatService.SetLocation(c.Param("id"), location); err != nil {
		h.Response.FromError(c, err)
		return
	}

	h.Response.Success(c, location, "location saved")
}

// ========================================
// Script repository handlers
// ========================================

// GetScripts lists every known script.
func (h *Handler) GetScripts(c *gin.Context) {
	h.Response.Success(c, h.ScriptService.List())
}

// GetScript returns one script by id.
func (h *Handler) GetScript(c *gin.Context) {
	script, err := h.ScriptService.Get(c.Param("id"))
	if err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, script)
}

// ImportScript registers an uploaded script document. The body is the script
// JSON itself.
func (h *Handler) ImportScript(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.Response.BadRequest(c, "failed to read request body", err.Error())
		return
	}

	script, err := h.ScriptService.Import(raw)
	if err != nil {
		h.Response.FromError(c, err)
		return
	}

	h.Response.Created(c, script, "script imported")
}

// ExportScript downloads a script as a round-trippable JSON document.
func (h *Handler) ExportScript(c *gin.Context) {
	result, err := h.ScriptService.Export(c.Param("id"))
	if err != nil {
		h.Response.FromError(c, err)
		return
	}

	if c.DefaultQuery("download", "false") == "true" {
		h.Response.DownloadResponse(c, result.Content, result.FileName, "application/json; charset=utf-8")
		return
	}
	h.Response.Success(c, result)
}

// GetScriptTemplate returns a blank authoring template that imports cleanly.
func (h *Handler) GetScriptTemplate(c *gin.Context) {
	result, err := h.ScriptService.TemplateExport()
	if err != nil {
		h.Response.FromError(c, err)
		return
	}

	if c.DefaultQuery("download", "false") == "true" {
		h.Response.DownloadResponse(c, result.Content, result.FileName, "application/json; charset=utf-8")
		return
	}
	h.Response.Success(c, result)
}

// DeleteScript removes an uploaded script. Built-ins are protected.
func (h *Handler) DeleteScript(c *gin.Context) {
	if err := h.ScriptService.Delete(c.Param("id")); err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, nil, "script deleted")
}

// ========================================
// Operational handlers
// ========================================

// GetStats returns the in-process usage counters.
func (h *Handler) GetStats(c *gin.Context) {
	h.Response.Success(c, h.StatsService.GetStats())
}

// GetConfigHealth reports service health and the active streaming settings.
func (h *Handler) GetConfigHealth(c *gin.Context) {
	cfg := config.GetCurrentConfig()

	h.Response.Success(c, gin.H{
		"status":                  "healthy",
		"debug_mode":              cfg.DebugMode,
		"stream_initial_delay_ms": cfg.StreamInitialDelayMs,
		"stream_chunk_delay_ms":   cfg.StreamChunkDelayMs,
		"timestamp":               time.Now().Format(time.RFC3339),
	})
}

// UpdateStreamingConfig retunes the simulated streaming pace at runtime and
// persists the new values. Streams already in flight finish at their old
// pace.
func (h *Handler) UpdateStreamingConfig(c *gin.Context) {
	var req UpdateStreamingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	initialDelayMs, chunkDelayMs := -1, -1
	if req.InitialDelayMs != nil {
		if *req.InitialDelayMs < 0 {
			h.Response.BadRequest(c, "initial_delay_ms must not be negative")
			return
		}
		initialDelayMs = *req.InitialDelayMs
	}
	if req.ChunkDelayMs != nil {
		if *req.ChunkDelayMs < 0 {
			h.Response.BadRequest(c, "chunk_delay_ms must not be negative")
			return
		}
		chunkDelayMs = *req.ChunkDelayMs
	}

	if err := config.UpdateStreamingConfig(initialDelayMs, chunkDelayMs); err != nil {
		h.Response.InternalError(c, "failed to update streaming config", err.Error())
		return
	}

	cfg := config.GetCurrentConfig()
	h.ChatService.Streamer.SetPace(
		time.Duration(cfg.StreamInitialDelayMs)*time.Millisecond,
		time.Duration(cfg.StreamChunkDelayMs)*time.Millisecond,
	)

	h.Response.Success(c, gin.H{
		"stream_initial_delay_ms": cfg.StreamInitialDelayMs,
		"stream_chunk_delay_ms":   cfg.StreamChunkDelayMs,
	}, "streaming config updated")
}
