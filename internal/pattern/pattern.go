// internal/pattern/pattern.go
package pattern

import (
	"regexp"

	"github.com/DulceVida/MagoChat/internal/utils"
)

// Compile builds a case-insensitive matcher from an authored pattern string.
// Patterns come straight from script files written by demo operators, so a
// plain phrase without metacharacters degenerates to substring matching.
func Compile(candidate string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + candidate)
}

// CompileLenient compiles candidate as a regular expression and, when that
// fails, falls back to matching it as an escaped literal. Used for step
// user_input fields, which operators author as either plain phrases or
// expressions.
func CompileLenient(candidate string) *regexp.Regexp {
	if re, err := Compile(candidate); err == nil {
		return re
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(candidate))
	if err != nil {
		// QuoteMeta output always compiles; guard anyway.
		utils.GetLogger().Warn("pattern literal fallback failed", map[string]interface{}{
			"pattern": candidate,
			"err":     err.Error(),
		})
		return nil
	}
	return re
}

// Matches reports whether userText contains a match for the authored pattern.
// Matching is substring search, not full-string equality: scripted demo
// inputs get paraphrased by real operators, never typed verbatim. A pattern
// that fails to compile is logged and treated as no-match so one bad script
// step cannot break the whole conversation.
func Matches(candidate, userText string) bool {
	re, err := Compile(candidate)
	if err != nil {
		utils.GetLogger().Warn("discarding malformed pattern", map[string]interface{}{
			"pattern": candidate,
			"err":     err.Error(),
		})
		return false
	}
	return re.MatchString(userText)
}
