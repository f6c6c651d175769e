// internal/pattern/pattern_test.go
package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesSubstring(t *testing.T) {
	assert.True(t, Matches("hola", "Hola, ¿cómo estás?"))
	assert.True(t, Matches("bajar de peso", "quiero BAJAR DE PESO rápido"))
	assert.False(t, Matches("receta", "quiero un postre"))
}

func TestMatchesCaseInsensitive(t *testing.T) {
	assert.True(t, Matches("CHOCOLATE", "me encanta el chocolate"))
	assert.True(t, Matches("chocolate", "CHOCOLATE KETO"))
}

func TestMatchesRegexSyntax(t *testing.T) {
	assert.True(t, Matches("hola|buenas", "buenas tardes"))
	assert.True(t, Matches(`\bsi\b`, "si quiero"))
	assert.False(t, Matches(`\bsi\b`, "siempre"))
}

func TestMatchesMalformedPatternReturnsFalse(t *testing.T) {
	// Malformed expressions must never panic or error out of Matches.
	for _, p := range []string{"(", "[a-", "a{2,1}", `(?P<`, "*abc"} {
		assert.NotPanics(t, func() {
			assert.False(t, Matches(p, "cualquier texto"))
		})
	}
}

func TestCompileLenientFallsBackToLiteral(t *testing.T) {
	// Unbalanced paren: invalid as a regex, matched as a literal phrase.
	re := CompileLenient("precio (aprox")
	require.NotNil(t, re)
	assert.True(t, re.MatchString("dime el precio (aprox) por favor"))
	assert.False(t, re.MatchString("dime el precio exacto"))

	re = CompileLenient("hola|buenas")
	require.NotNil(t, re)
	assert.True(t, re.MatchString("buenas"))
}
