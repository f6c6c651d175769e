// internal/api/websocket.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/DulceVida/MagoChat/internal/models"
	"github.com/DulceVida/MagoChat/internal/services"
	"github.com/DulceVida/MagoChat/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Production deployments should restrict this.
		return true
	},
}

const (
	wsWriteTimeout = 10 * time.Second
	wsReadTimeout  = 10 * time.Minute
)

// wsIncoming is one user turn sent over the socket.
type wsIncoming struct {
	Text string `json:"text"`
}

// wsFrame is one outbound websocket frame. Type is "chunk" for streamed
// reply increments, "done" after a turn's last chunk, and "error" for a
// rejected turn.
type wsFrame struct {
	Type                  string          `json:"type"`
	Text                  string          `json:"text,omitempty"`
	Trigger               *models.Trigger `json:"trigger,omitempty"`
	Actions               []models.Action `json:"actions,omitempty"`
	AudioFile             string          `json:"audio_file,omitempty"`
	ShouldRequestLocation bool            `json:"should_request_location,omitempty"`
	Final                 bool            `json:"final,omitempty"`
	MessageID             string          `json:"message_id,omitempty"`
	Error                 string          `json:"error,omitempty"`
}

// ChatWebSocket upgrades the connection and serves conversation turns with
// streamed replies: each incoming text message yields a sequence of "chunk"
// frames followed by a "done" frame. Closing the socket cancels any stream
// in flight.
func (h *Handler) ChatWebSocket(c *gin.Context) {
	sessionID := c.Param("id")

	if _, err := h.ChatService.GetSession(sessionID); err != nil {
		h.Response.FromError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.GetLogger().Warn("websocket upgrade failed", map[string]interface{}{
			"session_id": sessionID,
			"err":        err.Error(),
		})
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	for {
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var incoming wsIncoming
		if err := conn.ReadJSON(&incoming); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				utils.GetLogger().Debug("websocket closed", map[string]interface{}{
					"session_id": sessionID,
					"err":        err.Error(),
				})
			}
			return
		}

		chunks, message, err := h.ChatService.StreamTurn(ctx, sessionID, incoming.Text)
		if err != nil {
			if writeErr := h.writeFrame(conn, wsFrame{Type: "error", Error: err.Error()}); writeErr != nil {
				return
			}
			continue
		}

		if !h.streamToSocket(ctx, cancel, conn, chunks) {
			return
		}

		if err := h.writeFrame(conn, wsFrame{Type: "done", MessageID: message.ID}); err != nil {
			return
		}
	}
}

// streamToSocket forwards chunks to the connection. On a write failure it
// cancels the stream, drains the channel and reports false.
func (h *Handler) streamToSocket(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, chunks <-chan services.StreamChunk) bool {
	for chunk := range chunks {
		frame := wsFrame{
			Type:                  "chunk",
			Text:                  chunk.Text,
			Trigger:               chunk.Trigger,
			Actions:               chunk.Actions,
			AudioFile:             chunk.AudioFile,
			ShouldRequestLocation: chunk.ShouldRequestLocation,
			Final:                 chunk.Final,
		}

		if err := h.writeFrame(conn, frame); err != nil {
			cancel()
			for range chunks {
			}
			return false
		}
	}

	return ctx.Err() == nil
}

func (h *Handler) writeFrame(conn *websocket.Conn, frame wsFrame) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(frame)
}
