// internal/responder/responder_test.go
package responder

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DulceVida/MagoChat/internal/catalog"
	"github.com/DulceVida/MagoChat/internal/models"
)

func newTestResponder(seed int64) *Responder {
	return New(catalog.Default(), rand.New(rand.NewSource(seed)))
}

func history(n int) []models.Message {
	msgs := make([]models.Message, n)
	for i := range msgs {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		msgs[i] = models.Message{Role: role, Content: "mensaje"}
	}
	return msgs
}

func TestGreetingOnEmptyHistory(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "¡Hola!"})

	assert.Equal(t, "greeting", reply.Rule)
	assert.Contains(t, reply.Text, "Dulce Vida")
	assert.Nil(t, reply.Trigger)
}

func TestGreetingOutranksLaterRules(t *testing.T) {
	r := newTestResponder(1)

	// Text that also carries nutritionist keywords: with an empty history the
	// greeting still wins.
	reply := r.Categorize(Request{Text: "Hola, quiero un nutricionista"})

	assert.Equal(t, "greeting", reply.Rule)
	assert.Contains(t, reply.Text, "Dulce Vida")
	assert.Nil(t, reply.Trigger)
}

func TestGreetingSkippedWithPriorHistory(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "hola", History: history(2)})

	assert.Equal(t, "default", reply.Rule)
}

func TestNearbyNutritionistAsksForLocation(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "¿Hay algún nutricionista cerca de mí?", History: history(2)})

	assert.Equal(t, "nutritionist_nearby", reply.Rule)
	assert.True(t, reply.ShouldRequestLocation)
	assert.Nil(t, reply.Trigger)
}

func TestNearbyNutritionistWithLocation(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{
		Text:     "busco un nutricionista cerca de mi casa",
		History:  history(2),
		Location: &models.Location{Latitude: 19.43, Longitude: -99.13, City: "CDMX"},
	})

	assert.Equal(t, "nutritionist_nearby", reply.Rule)
	assert.False(t, reply.ShouldRequestLocation)
	assert.Contains(t, reply.Text, "km")
	require.NotNil(t, reply.Trigger)
	assert.Equal(t, models.TriggerNutritionist, reply.Trigger.Type)
}

func TestNutritionistForDiabetes(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "tengo diabetes y necesito un nutricionista", History: history(2)})

	assert.Equal(t, "nutritionist", reply.Rule)
	require.NotNil(t, reply.Trigger)
	pick, ok := reply.Trigger.Data.(models.Nutritionist)
	require.True(t, ok)
	assert.Equal(t, "nut-laura-mendez", pick.ID)
}

func TestNutritionistForSports(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "soy deportista, ¿qué nutricionista me recomiendas?", History: history(2)})

	assert.Equal(t, "nutritionist", reply.Rule)
	require.NotNil(t, reply.Trigger)
	pick := reply.Trigger.Data.(models.Nutritionist)
	assert.Equal(t, "nut-carlos-rivera", pick.ID)
}

func TestNutritionistReplyIncludesReviewSummary(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "quiero ver a un nutricionista", History: history(2)})

	assert.Contains(t, reply.Text, "Valoración media")
}

func TestProductsChocolate(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "me muero por un chocolate", History: history(2)})

	assert.Equal(t, "products", reply.Rule)
	require.NotNil(t, reply.Trigger)
	assert.Equal(t, models.TriggerProducts, reply.Trigger.Type)

	picks, ok := reply.Trigger.Data.([]models.Product)
	require.True(t, ok)
	require.NotEmpty(t, picks)
	for _, p := range picks {
		assert.Equal(t, "chocolates", p.Category)
	}
}

func TestProductsGeneric(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "¿qué postre me recomiendas comprar?", History: history(2)})

	assert.Equal(t, "products", reply.Rule)
	require.NotNil(t, reply.Trigger)
	picks := reply.Trigger.Data.([]models.Product)
	assert.Len(t, picks, 3)
}

func TestForumCitesPosts(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "¿qué opiniones hay en el foro?", History: history(2)})

	assert.Equal(t, "forum", reply.Rule)
	require.NotNil(t, reply.Trigger)
	assert.Equal(t, models.TriggerForumPosts, reply.Trigger.Type)
}

func TestRecipeByMealType(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "pásame una receta para el desayuno", History: history(2)})

	assert.Equal(t, "recipe", reply.Rule)
	require.NotNil(t, reply.Trigger)
	recipe, ok := reply.Trigger.Data.(models.Recipe)
	require.True(t, ok)
	assert.Equal(t, "desayuno", recipe.MealType)
}

func TestWeightLossAsksClarifyingQuestionFirst(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "quiero bajar de peso"})

	assert.Equal(t, "weight_loss", reply.Rule)
	assert.Contains(t, reply.Text, "cuéntame")
	assert.Nil(t, reply.Trigger)
}

func TestWeightLossPlanAfterFollowUp(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "sigo queriendo bajar de peso", History: history(2)})

	assert.Equal(t, "weight_loss", reply.Rule)
	require.NotNil(t, reply.Trigger)
	specialist := reply.Trigger.Data.(models.Nutritionist)
	assert.Equal(t, "nut-ana-torres", specialist.ID)
}

func TestTipsRule(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "dame un consejo para empezar", History: history(2)})

	assert.Equal(t, "tips", reply.Rule)
	assert.NotEmpty(t, reply.Text)
}

func TestDefaultRuleAlwaysAnswers(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "xyzzy plugh", History: history(2)})

	assert.Equal(t, "default", reply.Rule)
	assert.NotEmpty(t, reply.Text)
}

// Two responders over the same seed must produce identical reply sequences,
// including the pseudo-random picks.
func TestSeededRepliesAreDeterministic(t *testing.T) {
	requests := []Request{
		{Text: "dame un tip", History: history(2)},
		{Text: "nutricionista cerca de aquí", History: history(2), Location: &models.Location{City: "CDMX"}},
		{Text: "otro consejo por favor", History: history(2)},
	}

	a := newTestResponder(42)
	b := newTestResponder(42)

	for _, req := range requests {
		replyA := a.Categorize(req)
		replyB := b.Categorize(req)
		assert.Equal(t, replyA.Text, replyB.Text)
		assert.Equal(t, replyA.Rule, replyB.Rule)
	}
}

// Rule ordering: a symptom mention with a nearby qualifier goes to the
// location rule, not the plain nutritionist rule.
func TestNearbyOutranksSymptomRule(t *testing.T) {
	r := newTestResponder(1)

	reply := r.Categorize(Request{Text: "nutricionista para diabetes cerca de mí", History: history(2)})

	assert.Equal(t, "nutritionist_nearby", reply.Rule)
}
