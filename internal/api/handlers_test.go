// internal/api/handlers_test.go
package api

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DulceVida/MagoChat/internal/catalog"
	"github.com/DulceVida/MagoChat/internal/config"
	"github.com/DulceVida/MagoChat/internal/models"
	"github.com/DulceVida/MagoChat/internal/responder"
	"github.com/DulceVida/MagoChat/internal/scripts"
	"github.com/DulceVida/MagoChat/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := scripts.NewRepository()
	resp := responder.New(catalog.Default(), rand.New(rand.NewSource(7)))
	stats := services.NewStatsService()
	streamer := services.NewStreamer(0, 0)
	chat := services.NewChatService(repo, resp, stats, nil, streamer)
	script := services.NewScriptService(repo, nil, stats)

	handler := NewHandler(chat, script, stats)

	r := gin.New()
	api := r.Group("/api")
	{
		sessionsGroup := api.Group("/chat/sessions")
		{
			sessionsGroup.POST("", handler.CreateSession)
			sessionsGroup.GET("/:id", handler.GetSession)
			sessionsGroup.DELETE("/:id", handler.EndSession)
			sessionsGroup.POST("/:id/messages", handler.SendMessage)
			sessionsGroup.POST("/:id/script", handler.ActivateScript)
			sessionsGroup.DELETE("/:id/script", handler.DeactivateScript)
			sessionsGroup.POST("/:id/location", handler.SetLocation)
		}

		scriptsGroup := api.Group("/scripts")
		{
			scriptsGroup.GET("", handler.GetScripts)
			scriptsGroup.POST("", handler.ImportScript)
			scriptsGroup.GET("/template", handler.GetScriptTemplate)
			scriptsGroup.GET("/:id", handler.GetScript)
			scriptsGroup.GET("/:id/export", handler.ExportScript)
			scriptsGroup.DELETE("/:id", handler.DeleteScript)
		}

		api.GET("/stats", handler.GetStats)
		api.GET("/config/health", handler.GetConfigHealth)
		api.PUT("/config/streaming", handler.UpdateStreamingConfig)
	}
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var envelope APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func createSessionID(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/chat/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	envelope := decodeEnvelope(t, w)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	id, ok := data["id"].(string)
	require.True(t, ok)
	return id
}

func TestSessionLifecycle(t *testing.T) {
	r := newTestRouter(t)
	id := createSessionID(t, r)

	w := doRequest(t, r, http.MethodGet, "/api/chat/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.True(t, envelope.Success)

	w = doRequest(t, r, http.MethodDelete, "/api/chat/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/chat/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	envelope = decodeEnvelope(t, w)
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestSendMessageReturnsAssistantReply(t *testing.T) {
	r := newTestRouter(t)
	id := createSessionID(t, r)

	w := doRequest(t, r, http.MethodPost, "/api/chat/sessions/"+id+"/messages",
		SendMessageRequest{Text: "hola"})
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "assistant", data["role"])
	assert.Contains(t, data["content"], "Dulce Vida")
}

func TestSendMessageEmptyText(t *testing.T) {
	r := newTestRouter(t)
	id := createSessionID(t, r)

	w := doRequest(t, r, http.MethodPost, "/api/chat/sessions/"+id+"/messages",
		SendMessageRequest{Text: ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "BAD_REQUEST", envelope.Error.Code)
}

func TestSendMessageMalformedBody(t *testing.T) {
	r := newTestRouter(t)
	id := createSessionID(t, r)

	w := doRequest(t, r, http.MethodPost, "/api/chat/sessions/"+id+"/messages",
		[]byte(`{"text":`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessageUnknownSession(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/chat/sessions/fantasma/messages",
		SendMessageRequest{Text: "hola"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestActivateScriptAndScriptedReply(t *testing.T) {
	r := newTestRouter(t)
	id := createSessionID(t, r)

	w := doRequest(t, r, http.MethodPost, "/api/chat/sessions/"+id+"/script",
		ActivateScriptRequest{ScriptID: "keto-principiante"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/chat/sessions/"+id+"/messages",
		SendMessageRequest{Text: "Hola"})
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["scripted"])
	assert.Contains(t, data["content"], "Bienvenida")
}

func TestActivateScriptRequiresScriptID(t *testing.T) {
	r := newTestRouter(t)
	id := createSessionID(t, r)

	w := doRequest(t, r, http.MethodPost, "/api/chat/sessions/"+id+"/script",
		ActivateScriptRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivateUnknownScript(t *testing.T) {
	r := newTestRouter(t)
	id := createSessionID(t, r)

	w := doRequest(t, r, http.MethodPost, "/api/chat/sessions/"+id+"/script",
		ActivateScriptRequest{ScriptID: "no-existe"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeactivateScript(t *testing.T) {
	r := newTestRouter(t)
	id := createSessionID(t, r)

	w := doRequest(t, r, http.MethodPost, "/api/chat/sessions/"+id+"/script",
		ActivateScriptRequest{ScriptID: "keto-principiante"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/api/chat/sessions/"+id+"/script", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetLocation(t *testing.T) {
	r := newTestRouter(t)
	id := createSessionID(t, r)

	w := doRequest(t, r, http.MethodPost, "/api/chat/sessions/"+id+"/location",
		SetLocationRequest{Latitude: 19.43, Longitude: -99.13, City: "CDMX"})

	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.True(t, envelope.Success)
}

func TestListScriptsIncludesBuiltins(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/scripts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	list, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, list, 2)
}

func TestImportScriptEndpoint(t *testing.T) {
	r := newTestRouter(t)

	raw, err := json.Marshal(&models.ConversationScript{
		ID:   "subido-http",
		Name: "Guion subido",
		Steps: []models.ScriptStep{
			{ID: "s1", Order: 1, AssistantResponse: "Hola desde un guion subido."},
		},
	})
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodPost, "/api/scripts", raw)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/scripts/subido-http", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImportScriptRejectsInvalidDocument(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/scripts", []byte(`{"id": "sin-nada"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportScriptConflict(t *testing.T) {
	r := newTestRouter(t)

	raw, err := json.Marshal(&models.ConversationScript{
		ID:   "subido-http",
		Name: "Guion subido",
		Steps: []models.ScriptStep{
			{ID: "s1", Order: 1, AssistantResponse: "Hola."},
		},
	})
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodPost, "/api/scripts", raw)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/scripts", raw)
	assert.Equal(t, http.StatusConflict, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "CONFLICT", envelope.Error.Code)
}

func TestExportScriptEnvelope(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/scripts/keto-principiante/export", nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "keto-principiante.json", data["file_name"])
}

func TestExportScriptDownload(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/scripts/keto-principiante/export?download=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Header().Get("Content-Disposition"), "keto-principiante.json")

	var script models.ConversationScript
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &script))
	assert.Equal(t, "keto-principiante", script.ID)
}

func TestScriptTemplateEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/scripts/template", nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	content, ok := data["content"].(string)
	require.True(t, ok)

	var script models.ConversationScript
	require.NoError(t, json.Unmarshal([]byte(content), &script))
	require.NoError(t, scripts.Validate(&script))
}

func TestDeleteScriptProtectsBuiltins(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodDelete, "/api/scripts/keto-principiante", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteUnknownScript(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodDelete, "/api/scripts/no-existe", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfigHealthUsesEnvelope(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/config/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	assert.True(t, envelope.Success)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "healthy", data["status"])
}

func TestUpdateStreamingConfig(t *testing.T) {
	require.NoError(t, config.InitConfig(t.TempDir()))
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPut, "/api/config/streaming",
		map[string]int{"initial_delay_ms": 10, "chunk_delay_ms": 20})
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(10), data["stream_initial_delay_ms"])
	assert.Equal(t, float64(20), data["stream_chunk_delay_ms"])

	cfg := config.GetCurrentConfig()
	assert.Equal(t, 10, cfg.StreamInitialDelayMs)
	assert.Equal(t, 20, cfg.StreamChunkDelayMs)
}

func TestUpdateStreamingConfigRejectsNegativeDelay(t *testing.T) {
	require.NoError(t, config.InitConfig(t.TempDir()))
	r := newTestRouter(t)

	delay := -5
	raw, err := json.Marshal(UpdateStreamingRequest{ChunkDelayMs: &delay})
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodPut, "/api/config/streaming", raw)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	id := createSessionID(t, r)
	doRequest(t, r, http.MethodPost, "/api/chat/sessions/"+id+"/messages",
		SendMessageRequest{Text: "hola"})

	w := doRequest(t, r, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["sessions_created"])
	assert.Equal(t, float64(1), data["total_turns"])
}
