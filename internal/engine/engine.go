// internal/engine/engine.go
package engine

import (
	"regexp"

	"github.com/DulceVida/MagoChat/internal/models"
	"github.com/DulceVida/MagoChat/internal/pattern"
	"github.com/DulceVida/MagoChat/internal/utils"
)

// State of the playback state machine.
type State int

const (
	NoScriptLoaded State = iota
	AwaitingStep
	ScriptComplete
)

func (s State) String() string {
	switch s {
	case NoScriptLoaded:
		return "no_script_loaded"
	case AwaitingStep:
		return "awaiting_step"
	case ScriptComplete:
		return "script_complete"
	default:
		return "unknown"
	}
}

// Engine plays back one loaded conversation script for one chat session.
// Each session owns its own Engine instance; the struct is not safe for
// concurrent use and is never shared across sessions.
type Engine struct {
	script        *models.ConversationScript
	steps         map[string]*compiledStep
	currentStepID string
	state         State
}

type compiledStep struct {
	step     *models.ScriptStep
	input    *regexp.Regexp
	variants []compiledVariant
}

type compiledVariant struct {
	variant *models.StepVariant
	re      *regexp.Regexp
}

// Result is the outcome of one Process call. When Handled is false the caller
// must fall through to the generic intent responder.
type Result struct {
	Handled   bool
	StepID    string
	Response  string
	AudioFile string
	Trigger   *models.Trigger
	Actions   []models.Action
	Completed bool
	// Matched reports whether the input actually matched a variant or the
	// step's expected input, as opposed to the permissive free-response
	// advance. Used for stats only; the emitted response is the same.
	Matched bool
}

// New creates an engine with no script loaded.
func New() *Engine {
	return &Engine{state: NoScriptLoaded}
}

// LoadScript replaces any loaded script and resets progress to the first
// authored step, discarding prior state. Patterns are compiled once here;
// uncompilable variant patterns are quarantined with a diagnostic instead of
// failing per turn. A script with no steps degrades straight to
// ScriptComplete.
func (e *Engine) LoadScript(script *models.ConversationScript) {
	e.script = script
	e.steps = compileSteps(script)

	if script == nil || len(script.Steps) == 0 {
		e.currentStepID = ""
		e.state = ScriptComplete
		return
	}

	e.currentStepID = script.Steps[0].ID
	e.state = AwaitingStep
}

// LoadScriptAt loads a script and positions the pointer at stepID. Used to
// restore a persisted session. An unknown stepID means the saved progress ran
// past the script's end, so the engine resumes as complete.
func (e *Engine) LoadScriptAt(script *models.ConversationScript, stepID string) {
	e.LoadScript(script)
	if e.state != AwaitingStep {
		return
	}
	if _, ok := e.steps[stepID]; !ok {
		e.currentStepID = ""
		e.state = ScriptComplete
		return
	}
	e.currentStepID = stepID
}

// UnloadScript clears the loaded script; subsequent Process calls fall
// through to the generic responder.
func (e *Engine) UnloadScript() {
	e.script = nil
	e.steps = nil
	e.currentStepID = ""
	e.state = NoScriptLoaded
}

// State returns the current machine state.
func (e *Engine) State() State {
	return e.state
}

// Script returns the loaded script, or nil.
func (e *Engine) Script() *models.ConversationScript {
	return e.script
}

// GetCurrentStep returns the step the engine is waiting on, or nil when no
// script is loaded or the script has completed.
func (e *Engine) GetCurrentStep() *models.ScriptStep {
	if e.state != AwaitingStep {
		return nil
	}
	cs, ok := e.steps[e.currentStepID]
	if !ok {
		return nil
	}
	return cs.step
}

// Process runs one scripted turn. Matching strategy, in order: step variants
// (first match wins), then the step's expected input, then the permissive
// free-response default — a non-matching utterance still advances the
// scenario so an operator-led demo never stalls waiting for an exact phrase.
// Advancing follows NextStepID; a missing or dangling link transitions to
// ScriptComplete rather than erroring.
func (e *Engine) Process(userText string) Result {
	if e.state != AwaitingStep {
		return Result{Handled: false}
	}

	cs, ok := e.steps[e.currentStepID]
	if !ok {
		// Corrupt pointer. Degrade to complete, never block the turn.
		e.currentStepID = ""
		e.state = ScriptComplete
		return Result{Handled: false}
	}
	step := cs.step

	response := step.AssistantResponse
	audio := step.AudioFile
	matched := false

	for _, cv := range cs.variants {
		if cv.re != nil && cv.re.MatchString(userText) {
			response = cv.variant.Response
			if cv.variant.AudioFile != "" {
				audio = cv.variant.AudioFile
			}
			matched = true
			break
		}
	}

	if !matched && cs.input != nil && cs.input.MatchString(userText) {
		matched = true
	}

	// The primary response also covers the free-response case and the
	// no-match case: scripted demos sacrifice precision for fluency.

	result := Result{
		Handled:   true,
		StepID:    step.ID,
		Response:  response,
		AudioFile: audio,
		Trigger:   step.Trigger,
		Actions:   step.Actions,
		Matched:   matched,
	}

	e.advance(step)
	result.Completed = e.state == ScriptComplete

	return result
}

// CurrentStepID exposes the raw pointer for session persistence.
func (e *Engine) CurrentStepID() string {
	return e.currentStepID
}

func (e *Engine) advance(step *models.ScriptStep) {
	next := step.NextStepID
	if next == "" {
		e.currentStepID = ""
		e.state = ScriptComplete
		return
	}
	if _, ok := e.steps[next]; !ok {
		utils.GetLogger().Warn("script step links to unknown step, treating script as complete", map[string]interface{}{
			"script_id":    e.script.ID,
			"step_id":      step.ID,
			"next_step_id": next,
		})
		e.currentStepID = ""
		e.state = ScriptComplete
		return
	}
	e.currentStepID = next
}

func compileSteps(script *models.ConversationScript) map[string]*compiledStep {
	if script == nil {
		return nil
	}

	steps := make(map[string]*compiledStep, len(script.Steps))
	for i := range script.Steps {
		step := &script.Steps[i]

		cs := &compiledStep{step: step}

		if step.UserInput != "" {
			cs.input = pattern.CompileLenient(step.UserInput)
		}

		for j := range step.Variants {
			variant := &step.Variants[j]
			re, err := pattern.Compile(variant.Pattern)
			if err != nil {
				utils.GetLogger().Warn("quarantined uncompilable variant pattern", map[string]interface{}{
					"script_id": script.ID,
					"step_id":   step.ID,
					"pattern":   variant.Pattern,
					"err":       err.Error(),
				})
				re = nil
			}
			cs.variants = append(cs.variants, compiledVariant{variant: variant, re: re})
		}

		steps[step.ID] = cs
	}

	return steps
}
