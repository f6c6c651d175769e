// internal/responder/responder.go
package responder

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"

	"github.com/DulceVida/MagoChat/internal/catalog"
	"github.com/DulceVida/MagoChat/internal/models"
)

// Request is one categorization call: the user's text, the conversation so
// far and, when already granted, the user's coarse location.
type Request struct {
	Text     string
	History  []models.Message
	Location *models.Location
}

// Reply is the responder's answer for one turn. Text is always non-empty.
type Reply struct {
	Text                  string
	Trigger               *models.Trigger
	ShouldRequestLocation bool
	// Rule is the name of the intent rule that fired, for stats.
	Rule string
}

// rule pairs a predicate with its handler. Rules are evaluated top to bottom,
// first match wins, so ordering is part of the contract: the greeting rule
// must run before the nutritionist and product rules, the location rule
// before the plain nutritionist rule, and the catch-all last.
type rule struct {
	name    string
	matches func(req Request) bool
	respond func(req Request) Reply
}

// Responder categorizes free text into one of a fixed set of canned intents.
// It holds no conversation state; the injected random source only feeds the
// explicitly pseudo-random picks (nearby nutritionist, tip of the day), so a
// seeded source makes every reply deterministic.
type Responder struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
	rngMu   sync.Mutex
	rules   []rule
}

// Keyword patterns, Spanish-first like the storefront UI.
var (
	reGreeting     = regexp.MustCompile(`(?i)\b(hola|buen[oa]s|hey|saludos|qué tal|que tal)\b`)
	reNutritionist = regexp.MustCompile(`(?i)(nutricionist|nutriólog|nutriolog|dietista|especialista)`)
	reNearby       = regexp.MustCompile(`(?i)(cerca|cercan|por mi zona|en mi ciudad|ubicación|ubicacion)`)
	reDiabetes     = regexp.MustCompile(`(?i)(diabetes|diabétic|diabetic|glucosa|azúcar en sangre|azucar en sangre)`)
	reSports       = regexp.MustCompile(`(?i)(deporte|deportist|ejercicio|entrenamiento|rendimiento|corr(er|edor)|gym|gimnasio)`)
	reWeightLoss   = regexp.MustCompile(`(?i)(bajar de peso|adelgazar|perder peso|quemar grasa|kilos de más|kilos de mas)`)
	reProduct      = regexp.MustCompile(`(?i)(producto|postre|dulce|antojo|comprar|tienda|snack|botana|chocolate|galleta)`)
	reChocolate    = regexp.MustCompile(`(?i)(chocolate|cacao|brownie|trufa)`)
	reSnack        = regexp.MustCompile(`(?i)(snack|botana|galleta|nuez|nueces)`)
	reForum        = regexp.MustCompile(`(?i)(foro|comunidad|experiencia|testimonio|opinión|opiniones|opinion)`)
	reRecipe       = regexp.MustCompile(`(?i)(receta|cocinar|preparar|qué como|que como)`)
	reBreakfast    = regexp.MustCompile(`(?i)(desayun)`)
	reDinner       = regexp.MustCompile(`(?i)(cena)`)
	reTips         = regexp.MustCompile(`(?i)(consejo|tip\b|tips\b|recomendación|recomendacion|recomiendas|sugerencia)`)
)

// New creates a responder over the catalog with an injected random source.
func New(cat *catalog.Catalog, rng *rand.Rand) *Responder {
	r := &Responder{
		catalog: cat,
		rng:     rng,
	}
	r.rules = []rule{
		{name: "greeting", matches: r.matchGreeting, respond: r.respondGreeting},
		{name: "nutritionist_nearby", matches: r.matchNearbyNutritionist, respond: r.respondNearbyNutritionist},
		{name: "nutritionist", matches: r.matchNutritionist, respond: r.respondNutritionist},
		{name: "products", matches: r.matchProducts, respond: r.respondProducts},
		{name: "forum", matches: r.matchForum, respond: r.respondForum},
		{name: "recipe", matches: r.matchRecipe, respond: r.respondRecipe},
		{name: "weight_loss", matches: r.matchWeightLoss, respond: r.respondWeightLoss},
		{name: "tips", matches: r.matchTips, respond: r.respondTips},
		{name: "default", matches: func(Request) bool { return true }, respond: r.respondDefault},
	}
	return r
}

// Categorize maps free text to a canned reply. It always returns a reply with
// non-empty text; the final catch-all rule guarantees totality.
func (r *Responder) Categorize(req Request) Reply {
	for _, rl := range r.rules {
		if rl.matches(req) {
			reply := rl.respond(req)
			reply.Rule = rl.name
			return reply
		}
	}
	// Unreachable: the default rule always matches.
	reply := r.respondDefault(req)
	reply.Rule = "default"
	return reply
}

// ---------------------------------------------------------------------------
// Rule 1: greeting, only when the conversation is empty.

func (r *Responder) matchGreeting(req Request) bool {
	return len(req.History) == 0 && reGreeting.MatchString(req.Text)
}

func (r *Responder) respondGreeting(req Request) Reply {
	return Reply{
		Text: "¡Hola! 😊 Soy tu asistente de Dulce Vida. Puedo recomendarte postres keto, " +
			"buscarte un nutricionista, compartirte recetas o consejos. ¿En qué te ayudo hoy?",
	}
}

// ---------------------------------------------------------------------------
// Rule 2: nutritionist near the user. Without a granted location we ask for
// permission; with one we fabricate a plausible nearby match — it is a canned
// simulation with a random distance, not a real geo query.

func (r *Responder) matchNearbyNutritionist(req Request) bool {
	return reNutritionist.MatchString(req.Text) && reNearby.MatchString(req.Text)
}

func (r *Responder) respondNearbyNutritionist(req Request) Reply {
	if req.Location == nil {
		return Reply{
			Text: "Para encontrar un nutricionista cerca de ti necesito tu ubicación. " +
				"¿Me das permiso para usarla?",
			ShouldRequestLocation: true,
		}
	}

	nutritionists := r.catalog.Nutritionists()
	if len(nutritionists) == 0 {
		return r.respondDefault(req)
	}

	r.rngMu.Lock()
	pick := nutritionists[r.rng.Intn(len(nutritionists))]
	distance := 0.5 + r.rng.Float64()*4.5
	r.rngMu.Unlock()

	return Reply{
		Text: fmt.Sprintf("¡Encontré una opción cerca de ti! %s está a %.1f km de tu ubicación. "+
			"%s ¿Quieres agendar una cita?", pick.Name, distance, pick.Experience),
		Trigger: &models.Trigger{Type: models.TriggerNutritionist, Data: pick},
	}
}

// ---------------------------------------------------------------------------
// Rule 3: nutritionist keyed by symptom keywords, enriched with the review
// keyword-tally summary.

func (r *Responder) matchNutritionist(req Request) bool {
	return reNutritionist.MatchString(req.Text)
}

func (r *Responder) respondNutritionist(req Request) Reply {
	id := "nut-maria-gonzalez"
	intro := "Te recomiendo a una nutricionista de nuestro directorio"
	switch {
	case reDiabetes.MatchString(req.Text):
		id = "nut-laura-mendez"
		intro = "Para el manejo de diabetes te recomiendo a una especialista"
	case reSports.MatchString(req.Text):
		id = "nut-carlos-rivera"
		intro = "Para nutrición deportiva te recomiendo a un especialista"
	case reWeightLoss.MatchString(req.Text):
		id = "nut-ana-torres"
		intro = "Para pérdida de peso te recomiendo a una especialista"
	}

	pick, ok := r.catalog.NutritionistByID(id)
	if !ok {
		return r.respondDefault(req)
	}

	text := fmt.Sprintf("%s: %s (%s). %s", intro, pick.Name, pick.City, pick.Experience)
	if summary := SummarizeReviews(r.catalog.ReviewsFor(pick.ID)); summary != "" {
		text += "\n\nLo que dicen sus pacientes:\n" + summary
	}

	return Reply{
		Text:    text,
		Trigger: &models.Trigger{Type: models.TriggerNutritionist, Data: pick},
	}
}

// ---------------------------------------------------------------------------
// Rule 4: product recommendation keyed by category keywords.

func (r *Responder) matchProducts(req Request) bool {
	return reProduct.MatchString(req.Text)
}

func (r *Responder) respondProducts(req Request) Reply {
	var picks []models.Product
	var text string

	switch {
	case reChocolate.MatchString(req.Text):
		picks = r.catalog.ProductsByCategory("chocolates")
		text = "¡Los amantes del chocolate están de suerte! Estos son nuestros favoritos sin azúcar:"
	case reSnack.MatchString(req.Text):
		picks = r.catalog.ProductsByCategory("snacks")
		text = "Para picar entre comidas sin salir de cetosis, te sugiero:"
	default:
		picks = r.catalog.TopProducts(3)
		text = "Estos son los postres keto más pedidos de la tienda:"
	}

	if len(picks) == 0 {
		picks = r.catalog.TopProducts(3)
	}

	var names []string
	for _, p := range picks {
		names = append(names, fmt.Sprintf("%s ($%.0f)", p.Name, p.Price))
	}
	text += " " + strings.Join(names, ", ") + "."

	return Reply{
		Text:    text,
		Trigger: &models.Trigger{Type: models.TriggerProducts, Data: picks},
	}
}

// ---------------------------------------------------------------------------
// Rule 5: forum citation keyed by topic keywords, up to two posts.

func (r *Responder) matchForum(req Request) bool {
	return reForum.MatchString(req.Text)
}

func (r *Responder) respondForum(req Request) Reply {
	topic := "experiencia"
	switch {
	case reDiabetes.MatchString(req.Text):
		topic = "diabetes"
	case reSports.MatchString(req.Text):
		topic = "deporte"
	case reWeightLoss.MatchString(req.Text):
		topic = "perdida_peso"
	case reChocolate.MatchString(req.Text):
		topic = "chocolate"
	}

	posts := r.catalog.ForumPostsByTopic(topic, 2)
	if len(posts) == 0 {
		return Reply{
			Text: "En nuestro foro la comunidad comparte sus experiencias con la dieta keto. " +
				"¡Pásate a leer y contar la tuya!",
			Trigger: &models.Trigger{Type: models.TriggerForumPosts, Data: posts},
		}
	}

	var cites []string
	for _, p := range posts {
		cites = append(cites, fmt.Sprintf("«%s» de %s", p.Title, p.Author))
	}

	return Reply{
		Text: "Esto comparte la comunidad en el foro: " + strings.Join(cites, " y ") +
			". ¿Quieres leer las publicaciones completas?",
		Trigger: &models.Trigger{Type: models.TriggerForumPosts, Data: posts},
	}
}

// ---------------------------------------------------------------------------
// Rule 6: recipe suggestion keyed by meal type.

func (r *Responder) matchRecipe(req Request) bool {
	return reRecipe.MatchString(req.Text)
}

func (r *Responder) respondRecipe(req Request) Reply {
	mealType := "comida"
	switch {
	case reBreakfast.MatchString(req.Text):
		mealType = "desayuno"
	case reDinner.MatchString(req.Text):
		mealType = "cena"
	}

	recipe, _ := r.catalog.RecipeByMealType(mealType)
	if recipe.ID == "" {
		return r.respondDefault(req)
	}

	return Reply{
		Text:    fmt.Sprintf("Te va a encantar: %s. %s", recipe.Name, recipe.Summary),
		Trigger: &models.Trigger{Type: models.TriggerRecipes, Data: recipe},
	}
}

// ---------------------------------------------------------------------------
// Rule 7: weight-loss follow-up. With fewer than two prior turns we ask a
// clarifying question first (a small slot-filling dialogue); afterwards we
// hand out the fixed plan and point at the weight-loss specialist.

func (r *Responder) matchWeightLoss(req Request) bool {
	return reWeightLoss.MatchString(req.Text)
}

func (r *Responder) respondWeightLoss(req Request) Reply {
	if len(req.History) < 2 {
		return Reply{
			Text: "¡Claro que puedo ayudarte! Para darte una mejor recomendación, " +
				"cuéntame: ¿cuál es tu meta y desde cuándo sigues (o quieres seguir) la dieta keto?",
		}
	}

	specialist, _ := r.catalog.NutritionistByID("nut-ana-torres")

	return Reply{
		Text: "Con base en lo que me cuentas, te propongo empezar así: desayunos altos en grasa " +
			"buena (huevo, aguacate), comidas con proteína y verdura de hoja verde, y nuestros " +
			"postres keto para los antojos sin romper cetosis. Para un plan a tu medida te " +
			"recomiendo una consulta con " + specialist.Name + ", nuestra especialista en " +
			"pérdida de peso.",
		Trigger: &models.Trigger{Type: models.TriggerNutritionist, Data: specialist},
	}
}

// ---------------------------------------------------------------------------
// Rule 8: tip of the day, uniform pick over the fixed list.

func (r *Responder) matchTips(req Request) bool {
	return reTips.MatchString(req.Text)
}

func (r *Responder) respondTips(req Request) Reply {
	tips := r.catalog.Tips()
	if len(tips) == 0 {
		return r.respondDefault(req)
	}

	r.rngMu.Lock()
	tip := tips[r.rng.Intn(len(tips))]
	r.rngMu.Unlock()

	return Reply{Text: "💡 " + tip}
}

// ---------------------------------------------------------------------------
// Rule 9: catch-all.

func (r *Responder) respondDefault(req Request) Reply {
	return Reply{
		Text: "Cuéntame un poco más 🙂 Puedo ayudarte con:\n" +
			"• Postres y snacks keto de la tienda\n" +
			"• Encontrar un nutricionista\n" +
			"• Recetas para desayuno, comida o cena\n" +
			"• Consejos para tu dieta keto",
	}
}
