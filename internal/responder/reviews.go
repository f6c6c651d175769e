// internal/responder/reviews.go
package responder

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/DulceVida/MagoChat/internal/models"
)

// Stop words stripped before the keyword tally.
var reviewStopWords = map[string]bool{
	"a": true, "al": true, "con": true, "de": true, "del": true, "el": true,
	"en": true, "es": true, "fue": true, "la": true, "las": true, "lo": true,
	"los": true, "me": true, "mi": true, "muy": true, "para": true, "por": true,
	"que": true, "se": true, "sin": true, "su": true, "sus": true, "te": true,
	"todo": true, "tres": true, "un": true, "una": true, "y": true,
}

// Positive vocabulary the tally counts. Anything outside this list is ignored
// even after stop-word removal.
var positiveKeywords = map[string]bool{
	"excelente": true, "profesional": true, "amable": true,
	"recomendada": true, "recomendado": true, "puntual": true,
	"paciente": true, "cercana": true, "cercano": true,
	"clara": true, "claro": true, "claridad": true,
	"atención": true, "seguimiento": true,
	"buena": true, "buen": true, "gran": true,
}

// SummarizeReviews renders a short bullet summary of a nutritionist's
// reviews: the mean rating, the count of ratings of four stars or more, and
// the three most frequent positive keywords (ties broken by first
// appearance). This is deliberately a naive frequency tally, not semantic
// summarization — the storefront shows it as "lo que dicen sus pacientes".
// Returns the empty string when there are no reviews.
func SummarizeReviews(reviews []models.Review) string {
	if len(reviews) == 0 {
		return ""
	}

	sum := 0
	positives := 0
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	seen := 0

	for _, review := range reviews {
		sum += review.Rating
		if review.Rating >= 4 {
			positives++
		}

		for _, word := range tokenizeReview(review.Text) {
			if reviewStopWords[word] || !positiveKeywords[word] {
				continue
			}
			if _, ok := firstSeen[word]; !ok {
				firstSeen[word] = seen
				seen++
			}
			counts[word]++
		}
	}

	mean := float64(sum) / float64(len(reviews))

	summary := fmt.Sprintf("• Valoración media: %.1f/5\n• %d reseñas de 4★ o más", mean, positives)

	if top := topKeywords(counts, firstSeen, 3); len(top) > 0 {
		summary += "\n• Lo que más destacan: " + strings.Join(top, ", ")
	}

	return summary
}

// tokenizeReview lowercases and splits on anything that is not a letter,
// which also strips punctuation.
func tokenizeReview(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// topKeywords returns up to n keywords by descending frequency, breaking
// frequency ties by first-seen order.
func topKeywords(counts map[string]int, firstSeen map[string]int, n int) []string {
	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}

	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return firstSeen[words[i]] < firstSeen[words[j]]
	})

	if len(words) > n {
		words = words[:n]
	}
	return words
}
