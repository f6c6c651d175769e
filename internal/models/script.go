// internal/models/script.go
package models

import (
	"time"
)

// ConversationScript is an authored demo scenario for the Wizard-of-Oz chat.
// Scripts are read-only at runtime: the repository hands out the same instance
// to every session and nothing mutates it after load.
type ConversationScript struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	UserProfile *UserProfile   `json:"user_profile,omitempty"`
	Steps       []ScriptStep   `json:"steps"`
	Metadata    ScriptMetadata `json:"metadata,omitempty"`
}

// UserProfile describes the persona a script was written for. It is display
// metadata only; the engine never consults it.
type UserProfile struct {
	Type         string   `json:"type,omitempty"`
	Name         string   `json:"name,omitempty"`
	Goals        []string `json:"goals,omitempty"`
	Restrictions []string `json:"restrictions,omitempty"`
	Background   string   `json:"background,omitempty"`
}

type ScriptMetadata struct {
	EstimatedDuration string    `json:"estimated_duration,omitempty"`
	Difficulty        string    `json:"difficulty,omitempty"`
	Tags              []string  `json:"tags,omitempty"`
	Author            string    `json:"author,omitempty"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
}

// ScriptStep is one turn of scripted dialogue. Navigation follows NextStepID
// links, so steps form a graph; Order only records authoring sequence.
type ScriptStep struct {
	ID                string        `json:"id"`
	Order             int           `json:"order"`
	UserInput         string        `json:"user_input,omitempty"`
	AssistantResponse string        `json:"assistant_response"`
	Variants          []StepVariant `json:"variants,omitempty"`
	AudioFile         string        `json:"audio_file,omitempty"`
	NextStepID        string        `json:"next_step_id,omitempty"`
	Actions           []Action      `json:"actions,omitempty"`
	Trigger           *Trigger      `json:"trigger,omitempty"`
}

// StepVariant maps an alternate input pattern to an alternate response for the
// same step. Variants are evaluated in authored order, first match wins.
type StepVariant struct {
	Pattern   string `json:"pattern"`
	Response  string `json:"response"`
	AudioFile string `json:"audio_file,omitempty"`
}

// Trigger is a structured payload describing contextual UI content (a product
// list, a nutritionist card, forum posts) to render next to a reply. The host
// application interprets it; this service only emits it.
type Trigger struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Trigger types understood by the hosting frontend.
const (
	TriggerProducts     = "products"
	TriggerNutritionist = "nutritionist"
	TriggerForumPosts   = "forum_posts"
	TriggerRecipes      = "recipes"
)

// Action is a side-effecting directive for the host to dispatch once a step
// fires (add to cart, schedule an appointment, navigate). Execution is the
// host's responsibility.
type Action struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Action types emitted by scripted steps.
const (
	ActionAddToCart           = "add_to_cart"
	ActionScheduleAppointment = "schedule_appointment"
	ActionNavigate            = "navigate"
	ActionViewForum           = "view_forum"
)
