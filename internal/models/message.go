// internal/models/message.go
package models

import (
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a conversation history. Messages are append-only;
// once appended they are never mutated, except that a streamed assistant
// message may have been abandoned mid-delivery and keep partial content.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	AudioFile string    `json:"audio_file,omitempty"`
	Trigger   *Trigger  `json:"trigger,omitempty"`
	Actions   []Action  `json:"actions,omitempty"`
	// Scripted marks replies produced by the playback engine rather than
	// the generic responder.
	Scripted bool `json:"scripted,omitempty"`
}

// ChatSession is the serialized form of one chat widget conversation:
// identity, the ordered exchanged messages, and which script (if any) is
// currently active for it.
type ChatSession struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	ActiveScriptID string    `json:"active_script_id,omitempty"`
	CurrentStepID  string    `json:"current_step_id,omitempty"`
	EngineState    string    `json:"engine_state"`
	Location       *Location `json:"location,omitempty"`
	Messages       []Message `json:"messages"`
}

// Location is a coarse user position used by the "nutritionist near me"
// simulation. It is supplied by the host after the user grants permission.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
}
