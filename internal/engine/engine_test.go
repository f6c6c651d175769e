// internal/engine/engine_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DulceVida/MagoChat/internal/models"
	"github.com/DulceVida/MagoChat/internal/scripts"
)

func twoStepScript() *models.ConversationScript {
	return &models.ConversationScript{
		ID:   "test-script",
		Name: "Test",
		Steps: []models.ScriptStep{
			{
				ID:                "s1",
				Order:             1,
				UserInput:         "hola",
				AssistantResponse: "respuesta uno",
				NextStepID:        "s2",
			},
			{
				ID:                "s2",
				Order:             2,
				AssistantResponse: "respuesta dos",
			},
		},
	}
}

func TestNewEngineHasNoScript(t *testing.T) {
	e := New()

	assert.Equal(t, NoScriptLoaded, e.State())
	assert.Nil(t, e.Script())
	assert.Nil(t, e.GetCurrentStep())

	result := e.Process("hola")
	assert.False(t, result.Handled)
}

func TestLoadScriptStartsAtFirstStep(t *testing.T) {
	e := New()
	e.LoadScript(twoStepScript())

	assert.Equal(t, AwaitingStep, e.State())
	require.NotNil(t, e.GetCurrentStep())
	assert.Equal(t, "s1", e.GetCurrentStep().ID)
}

func TestLoadScriptReplacesProgress(t *testing.T) {
	e := New()
	e.LoadScript(twoStepScript())
	e.Process("hola")
	assert.Equal(t, "s2", e.CurrentStepID())

	e.LoadScript(twoStepScript())
	assert.Equal(t, "s1", e.CurrentStepID())
}

func TestLoadScriptWithNoStepsCompletesImmediately(t *testing.T) {
	e := New()
	e.LoadScript(&models.ConversationScript{ID: "empty", Name: "Empty"})

	assert.Equal(t, ScriptComplete, e.State())
	assert.False(t, e.Process("hola").Handled)
}

func TestProcessMatchingInputAdvances(t *testing.T) {
	e := New()
	e.LoadScript(twoStepScript())

	result := e.Process("hola, buenas tardes")

	assert.True(t, result.Handled)
	assert.True(t, result.Matched)
	assert.Equal(t, "s1", result.StepID)
	assert.Equal(t, "respuesta uno", result.Response)
	assert.False(t, result.Completed)
	assert.Equal(t, "s2", e.CurrentStepID())
}

func TestProcessNonMatchingInputStillAdvances(t *testing.T) {
	e := New()
	e.LoadScript(twoStepScript())

	result := e.Process("no tengo idea de qué decir")

	assert.True(t, result.Handled)
	assert.False(t, result.Matched)
	assert.Equal(t, "respuesta uno", result.Response)
	assert.Equal(t, "s2", e.CurrentStepID())
}

func TestInputMatchingIsCaseInsensitive(t *testing.T) {
	e := New()
	e.LoadScript(twoStepScript())

	result := e.Process("HOLA")
	assert.True(t, result.Matched)
}

func TestLastStepCompletesScript(t *testing.T) {
	e := New()
	e.LoadScript(twoStepScript())
	e.Process("hola")

	result := e.Process("lo que sea")

	assert.True(t, result.Handled)
	assert.Equal(t, "respuesta dos", result.Response)
	assert.True(t, result.Completed)
	assert.Equal(t, ScriptComplete, e.State())

	// Completed scripts hand every later turn to the caller.
	assert.False(t, e.Process("hola").Handled)
}

func TestVariantFirstMatchWins(t *testing.T) {
	script := &models.ConversationScript{
		ID:   "variants",
		Name: "Variants",
		Steps: []models.ScriptStep{
			{
				ID:                "v1",
				Order:             1,
				UserInput:         "hola",
				AssistantResponse: "respuesta base",
				Variants: []models.StepVariant{
					{Pattern: "bien|genial", Response: "variante uno", AudioFile: "v1.mp3"},
					{Pattern: "genial", Response: "variante dos"},
				},
			},
		},
	}

	e := New()
	e.LoadScript(script)
	result := e.Process("me siento genial hoy")

	assert.True(t, result.Matched)
	assert.Equal(t, "variante uno", result.Response)
	assert.Equal(t, "v1.mp3", result.AudioFile)
}

func TestVariantMissFallsBackToPrimaryResponse(t *testing.T) {
	script := &models.ConversationScript{
		ID:   "variants",
		Name: "Variants",
		Steps: []models.ScriptStep{
			{
				ID:                "v1",
				Order:             1,
				AssistantResponse: "respuesta base",
				AudioFile:         "base.mp3",
				Variants: []models.StepVariant{
					{Pattern: "bien", Response: "variante"},
				},
			},
		},
	}

	e := New()
	e.LoadScript(script)
	result := e.Process("fatal")

	assert.Equal(t, "respuesta base", result.Response)
	assert.Equal(t, "base.mp3", result.AudioFile)
	assert.False(t, result.Matched)
}

func TestMalformedVariantPatternIsQuarantined(t *testing.T) {
	script := &models.ConversationScript{
		ID:   "broken",
		Name: "Broken",
		Steps: []models.ScriptStep{
			{
				ID:                "b1",
				Order:             1,
				AssistantResponse: "respuesta base",
				Variants: []models.StepVariant{
					{Pattern: "(sin cerrar", Response: "nunca"},
					{Pattern: "bien", Response: "variante sana"},
				},
			},
		},
	}

	e := New()
	e.LoadScript(script)

	var result Result
	assert.NotPanics(t, func() {
		result = e.Process("me fue bien")
	})
	assert.Equal(t, "variante sana", result.Response)
}

func TestDanglingNextStepCompletesScript(t *testing.T) {
	script := &models.ConversationScript{
		ID:   "dangling",
		Name: "Dangling",
		Steps: []models.ScriptStep{
			{
				ID:                "d1",
				Order:             1,
				AssistantResponse: "última respuesta",
				NextStepID:        "no-existe",
			},
		},
	}

	e := New()
	e.LoadScript(script)
	result := e.Process("hola")

	assert.True(t, result.Handled)
	assert.Equal(t, "última respuesta", result.Response)
	assert.True(t, result.Completed)
	assert.Equal(t, ScriptComplete, e.State())
}

func TestUnloadScript(t *testing.T) {
	e := New()
	e.LoadScript(twoStepScript())
	e.UnloadScript()

	assert.Equal(t, NoScriptLoaded, e.State())
	assert.Nil(t, e.Script())
	assert.False(t, e.Process("hola").Handled)
}

func TestLoadScriptAtRestoresPosition(t *testing.T) {
	e := New()
	e.LoadScriptAt(twoStepScript(), "s2")

	assert.Equal(t, AwaitingStep, e.State())
	assert.Equal(t, "s2", e.CurrentStepID())

	result := e.Process("sigo aquí")
	assert.Equal(t, "respuesta dos", result.Response)
	assert.True(t, result.Completed)
}

func TestLoadScriptAtUnknownStepResumesComplete(t *testing.T) {
	e := New()
	e.LoadScriptAt(twoStepScript(), "paso-fantasma")

	assert.Equal(t, ScriptComplete, e.State())
	assert.False(t, e.Process("hola").Handled)
}

// Walks the shipped beginner script end to end: greeting, variant pick,
// free-response product step, add-to-cart step and the closing
// nutritionist recommendation.
func TestBeginnerScriptWalkthrough(t *testing.T) {
	script, ok := findBuiltin("keto-principiante")
	require.True(t, ok)

	e := New()
	e.LoadScript(script)

	r1 := e.Process("Hola")
	assert.True(t, r1.Matched)
	assert.Contains(t, r1.Response, "Bienvenida")
	assert.NotEmpty(t, r1.AudioFile)

	r2 := e.Process("La verdad muy bien")
	assert.True(t, r2.Matched)
	assert.Contains(t, r2.Response, "Qué gusto")

	r3 := e.Process("ok")
	require.NotNil(t, r3.Trigger)
	assert.Equal(t, models.TriggerProducts, r3.Trigger.Type)

	r4 := e.Process("quiero el brownie")
	assert.True(t, r4.Matched)
	require.Len(t, r4.Actions, 1)
	assert.Equal(t, models.ActionAddToCart, r4.Actions[0].Type)

	r5 := e.Process("sí, cuéntame")
	require.NotNil(t, r5.Trigger)
	assert.Equal(t, models.TriggerNutritionist, r5.Trigger.Type)
	assert.True(t, r5.Completed)
	assert.Equal(t, ScriptComplete, e.State())
}

func findBuiltin(id string) (*models.ConversationScript, bool) {
	for _, script := range scripts.BuiltinScripts() {
		if script.ID == id {
			return script, true
		}
	}
	return nil, false
}
