// internal/services/chat_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DulceVida/MagoChat/internal/engine"
	apperrors "github.com/DulceVida/MagoChat/internal/errors"
	"github.com/DulceVida/MagoChat/internal/models"
	"github.com/DulceVida/MagoChat/internal/responder"
	"github.com/DulceVida/MagoChat/internal/scripts"
	"github.com/DulceVida/MagoChat/internal/storage"
	"github.com/DulceVida/MagoChat/internal/utils"
)

const sessionsDir = "sessions"

// TurnReply is the assembled outcome of one conversation turn, before it is
// wrapped into a Message or streamed chunk by chunk.
type TurnReply struct {
	Text                  string
	AudioFile             string
	Trigger               *models.Trigger
	Actions               []models.Action
	ShouldRequestLocation bool
	Scripted              bool
	Matched               bool
	Rule                  string
}

func (r TurnReply) hasMetadata() bool {
	return r.Trigger != nil || len(r.Actions) > 0 || r.AudioFile != "" || r.ShouldRequestLocation
}

// sessionState is the runtime form of one conversation: its history plus the
// playback engine that belongs to it. Engine state is confined to the session
// that owns it, so per-session locking is all the synchronization needed.
type sessionState struct {
	mu        sync.Mutex
	id        string
	createdAt time.Time
	updatedAt time.Time
	engine    *engine.Engine
	messages  []models.Message
	location  *models.Location
}

// ChatService manages conversation sessions: it routes each user message
// through the session's playback engine first and the generic intent
// responder second, appends both sides to the history, and persists the
// session across restarts.
type ChatService struct {
	Repository  *scripts.Repository
	Responder   *responder.Responder
	Stats       *StatsService
	FileStorage *storage.FileStorage
	Streamer    *Streamer

	mu       sync.RWMutex
	sessions map[string]*sessionState
}

// NewChatService wires the chat service. fileStorage may be nil, which
// disables session persistence (used by tests).
func NewChatService(repo *scripts.Repository, resp *responder.Responder, stats *StatsService, fileStorage *storage.FileStorage, streamer *Streamer) *ChatService {
	return &ChatService{
		Repository:  repo,
		Responder:   resp,
		Stats:       stats,
		FileStorage: fileStorage,
		Streamer:    streamer,
		sessions:    make(map[string]*sessionState),
	}
}

// CreateSession starts a new conversation with a fresh, unloaded engine.
func (s *ChatService) CreateSession() *models.ChatSession {
	state := &sessionState{
		id:        uuid.NewString(),
		createdAt: time.Now(),
		updatedAt: time.Now(),
		engine:    engine.New(),
	}

	s.mu.Lock()
	s.sessions[state.id] = state
	s.mu.Unlock()

	if s.Stats != nil {
		s.Stats.RecordSessionCreated()
	}
	s.persistSession(state)

	return state.snapshot()
}

// GetSession returns a session with its history, restoring it from storage
// if the process restarted since it was created.
func (s *ChatService) GetSession(id string) (*models.ChatSession, error) {
	state, err := s.getState(id)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return state.snapshotLocked(), nil
}

// EndSession destroys a session and its engine state.
func (s *ChatService) EndSession(id string) error {
	s.mu.Lock()
	_, exists := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !exists && !s.persistedSessionExists(id) {
		return apperrors.NewNotFoundError(fmt.Sprintf("session %q not found", id), nil)
	}

	if s.FileStorage != nil && s.persistedSessionExists(id) {
		if err := s.FileStorage.DeleteFile(sessionsDir, id+".json"); err != nil {
			utils.GetLogger().Warn("failed to delete persisted session", map[string]interface{}{
				"session_id": id,
				"err":        err.Error(),
			})
		}
	}

	return nil
}

// ActivateScript loads a script into the session's engine, replacing any
// prior progress.
func (s *ChatService) ActivateScript(sessionID, scriptID string) error {
	script, ok := s.Repository.Get(scriptID)
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("script %q not found", scriptID), nil)
	}

	state, err := s.getState(sessionID)
	if err != nil {
		return err
	}

	state.mu.Lock()
	state.engine.LoadScript(script)
	state.updatedAt = time.Now()
	state.mu.Unlock()

	utils.GetLogger().Info("script activated", map[string]interface{}{
		"session_id": sessionID,
		"script_id":  scriptID,
	})
	s.persistSession(state)

	return nil
}

// DeactivateScript unloads the active script; later turns fall through to
// the generic responder.
func (s *ChatService) DeactivateScript(sessionID string) error {
	state, err := s.getState(sessionID)
	if err != nil {
		return err
	}

	state.mu.Lock()
	hadScript := state.engine.Script() != nil
	state.engine.UnloadScript()
	state.updatedAt = time.Now()
	state.mu.Unlock()

	if hadScript {
		utils.GetLogger().Info("script deactivated", map[string]interface{}{
			"session_id": sessionID,
		})
	}
	s.persistSession(state)

	return nil
}

// SetLocation stores the user's granted location for the "nutritionist near
// me" simulation.
func (s *ChatService) SetLocation(sessionID string, location models.Location) error {
	state, err := s.getState(sessionID)
	if err != nil {
		return err
	}

	state.mu.Lock()
	state.location = &location
	state.updatedAt = time.Now()
	state.mu.Unlock()

	s.persistSession(state)

	return nil
}

// ProcessTurn handles one synchronous conversation turn and returns the
// appended assistant message. Every turn gets a textual reply; core failures
// degrade to the responder's catch-all rather than erroring.
func (s *ChatService) ProcessTurn(sessionID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("message text must not be empty", nil)
	}

	state, err := s.getState(sessionID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	s.appendUserMessageLocked(state, text)
	reply := s.resolveTurnLocked(state, text)
	message := s.appendAssistantMessageLocked(state, reply)
	state.mu.Unlock()

	s.recordTurn(reply)
	s.persistSession(state)

	return &message, nil
}

// StreamTurn handles one turn like ProcessTurn but returns the reply as a
// chunked stream. The full assistant message is appended to the history up
// front; an abandoned stream only affects what the consumer saw, not the
// stored conversation.
func (s *ChatService) StreamTurn(ctx context.Context, sessionID, text string) (<-chan StreamChunk, *models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, apperrors.NewValidationError("message text must not be empty", nil)
	}

	state, err := s.getState(sessionID)
	if err != nil {
		return nil, nil, err
	}

	state.mu.Lock()
	s.appendUserMessageLocked(state, text)
	reply := s.resolveTurnLocked(state, text)
	message := s.appendAssistantMessageLocked(state, reply)
	state.mu.Unlock()

	s.recordTurn(reply)
	s.persistSession(state)

	return s.Streamer.Stream(ctx, reply), &message, nil
}

// resolveTurnLocked runs the engine-first, responder-second strategy. Caller
// holds the session lock.
func (s *ChatService) resolveTurnLocked(state *sessionState, text string) TurnReply {
	result := state.engine.Process(text)
	if result.Handled {
		if result.Completed {
			utils.GetLogger().Info("script completed", map[string]interface{}{
				"session_id": state.id,
				"script_id":  state.engine.Script().ID,
			})
		}
		return TurnReply{
			Text:      result.Response,
			AudioFile: result.AudioFile,
			Trigger:   result.Trigger,
			Actions:   result.Actions,
			Scripted:  true,
			Matched:   result.Matched,
		}
	}

	// History excludes the user message appended this turn: the responder
	// rules (greeting, slot filling) count prior turns only.
	history := state.messages[:len(state.messages)-1]
	reply := s.Responder.Categorize(responder.Request{
		Text:     text,
		History:  history,
		Location: state.location,
	})

	return TurnReply{
		Text:                  reply.Text,
		Trigger:               reply.Trigger,
		ShouldRequestLocation: reply.ShouldRequestLocation,
		Rule:                  reply.Rule,
	}
}

func (s *ChatService) appendUserMessageLocked(state *sessionState, text string) {
	state.messages = append(state.messages, models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	})
	state.updatedAt = time.Now()
}

func (s *ChatService) appendAssistantMessageLocked(state *sessionState, reply TurnReply) models.Message {
	message := models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Content:   reply.Text,
		Timestamp: time.Now(),
		AudioFile: reply.AudioFile,
		Trigger:   reply.Trigger,
		Actions:   reply.Actions,
		Scripted:  reply.Scripted,
	}
	state.messages = append(state.messages, message)
	state.updatedAt = time.Now()
	return message
}

func (s *ChatService) recordTurn(reply TurnReply) {
	if s.Stats == nil {
		return
	}
	if reply.Scripted {
		s.Stats.RecordScriptedTurn(reply.Matched)
	} else {
		s.Stats.RecordFallbackTurn(reply.Rule)
	}
}

// getState finds a live session or restores a persisted one.
func (s *ChatService) getState(id string) (*sessionState, error) {
	s.mu.RLock()
	state, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return state, nil
	}

	state = s.restoreSession(id)
	if state == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("session %q not found", id), nil)
	}

	s.mu.Lock()
	// Another goroutine may have restored it first; keep the winner.
	if existing, ok := s.sessions[id]; ok {
		state = existing
	} else {
		s.sessions[id] = state
	}
	s.mu.Unlock()

	return state, nil
}

func (s *ChatService) persistedSessionExists(id string) bool {
	return s.FileStorage != nil && s.FileStorage.FileExists(sessionsDir, id+".json")
}

// restoreSession rebuilds the runtime state from a persisted session
// document, reloading the active script and seeking to the saved step.
func (s *ChatService) restoreSession(id string) *sessionState {
	if s.FileStorage == nil {
		return nil
	}

	var doc models.ChatSession
	if err := s.FileStorage.LoadJSONFile(sessionsDir, id+".json", &doc); err != nil {
		return nil
	}

	state := &sessionState{
		id:        doc.ID,
		createdAt: doc.CreatedAt,
		updatedAt: doc.UpdatedAt,
		engine:    engine.New(),
		messages:  doc.Messages,
		location:  doc.Location,
	}

	if doc.ActiveScriptID != "" {
		if script, ok := s.Repository.Get(doc.ActiveScriptID); ok {
			if doc.EngineState == engine.ScriptComplete.String() {
				state.engine.LoadScriptAt(script, "")
			} else {
				state.engine.LoadScriptAt(script, doc.CurrentStepID)
			}
		} else {
			utils.GetLogger().Warn("persisted session references unknown script", map[string]interface{}{
				"session_id": id,
				"script_id":  doc.ActiveScriptID,
			})
		}
	}

	return state
}

// persistSession saves the session document best-effort; persistence
// failures never break a conversation turn.
func (s *ChatService) persistSession(state *sessionState) {
	if s.FileStorage == nil {
		return
	}

	state.mu.Lock()
	doc := state.snapshotLocked()
	state.mu.Unlock()

	if err := s.FileStorage.SaveJSONFile(sessionsDir, doc.ID+".json", doc); err != nil {
		utils.GetLogger().Warn("failed to persist session", map[string]interface{}{
			"session_id": doc.ID,
			"err":        err.Error(),
		})
	}
}

func (st *sessionState) snapshot() *models.ChatSession {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snapshotLocked()
}

func (st *sessionState) snapshotLocked() *models.ChatSession {
	doc := &models.ChatSession{
		ID:          st.id,
		CreatedAt:   st.createdAt,
		UpdatedAt:   st.updatedAt,
		EngineState: st.engine.State().String(),
		Location:    st.location,
		Messages:    append([]models.Message(nil), st.messages...),
	}
	if script := st.engine.Script(); script != nil {
		doc.ActiveScriptID = script.ID
		doc.CurrentStepID = st.engine.CurrentStepID()
	}
	return doc
}
