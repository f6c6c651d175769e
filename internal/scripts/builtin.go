// internal/scripts/builtin.go
package scripts

import (
	"time"

	"github.com/DulceVida/MagoChat/internal/models"
)

// BuiltinScripts returns the demo scripts that ship with the service. Fresh
// instances every call, so a caller can never mutate the shipped data.
func BuiltinScripts() []*models.ConversationScript {
	return []*models.ConversationScript{
		beginnerKetoScript(),
		appointmentDemoScript(),
	}
}

// beginnerKetoScript walks a first-time visitor from greeting to a product
// recommendation with an add-to-cart prompt.
func beginnerKetoScript() *models.ConversationScript {
	return &models.ConversationScript{
		ID:          "keto-principiante",
		Name:        "Demo: principiante keto",
		Description: "Conversación guiada para una persona que empieza la dieta keto y busca postres sin azúcar.",
		UserProfile: &models.UserProfile{
			Type:         "principiante",
			Name:         "Mariana",
			Goals:        []string{"bajar de peso", "dejar el azúcar"},
			Restrictions: []string{"sin gluten"},
			Background:   "Lleva dos semanas en dieta keto y extraña el postre después de la comida.",
		},
		Steps: []models.ScriptStep{
			{
				ID:                "paso-1",
				Order:             1,
				UserInput:         "Hola",
				AssistantResponse: "¡Hola Mariana! Bienvenida a Dulce Vida 😊 ¿Cómo va tu segunda semana keto?",
				AudioFile:         "audio/keto-principiante/paso-1.mp3",
				NextStepID:        "paso-2",
			},
			{
				ID:                "paso-2",
				Order:             2,
				UserInput:         "antojo|azúcar|azucar|dulce",
				AssistantResponse: "Los antojos de dulce son lo más normal al empezar. La buena noticia: no tienes que aguantarlos, tenemos postres sin azúcar que no te sacan de cetosis.",
				Variants: []models.StepVariant{
					{
						Pattern:   "bien|genial|excelente",
						Response:  "¡Qué gusto! Aun así, casi a todos les llega el antojo de dulce por la tarde. Para eso tenemos postres sin azúcar que no te sacan de cetosis.",
						AudioFile: "audio/keto-principiante/paso-2-bien.mp3",
					},
					{
						Pattern:  "mal|difícil|dificil|duro",
						Response: "Las primeras semanas cuestan, sobre todo por los antojos de dulce. La buena noticia: no tienes que aguantarlos, hay postres keto que no rompen la cetosis.",
					},
				},
				NextStepID: "paso-3",
			},
			{
				ID:                "paso-3",
				Order:             3,
				AssistantResponse: "Mira, estos son los favoritos de quienes empiezan: el Brownie Keto de Chocolate y las Galletas de Almendra. Ambos con menos de 3g de carbohidratos netos por porción.",
				Trigger: &models.Trigger{
					Type: models.TriggerProducts,
					Data: []string{"prod-brownie-keto", "prod-galletas-almendra"},
				},
				NextStepID: "paso-4",
			},
			{
				ID:                "paso-4",
				Order:             4,
				UserInput:         "brownie|galleta|quiero|me gusta",
				AssistantResponse: "¡Excelente elección! Te lo agrego al carrito. Y un consejo: guárdalo para después de la comida, así el antojo de las 5 pm ya no te gana.",
				Actions: []models.Action{
					{Type: models.ActionAddToCart, Data: map[string]interface{}{"product_id": "prod-brownie-keto", "quantity": 1}},
				},
				NextStepID: "paso-5",
			},
			{
				ID:                "paso-5",
				Order:             5,
				AssistantResponse: "Si quieres acompañamiento profesional para estas primeras semanas, la Dra. Ana Torres es nuestra especialista en pérdida de peso. ¿Te gustaría conocerla?",
				Trigger: &models.Trigger{
					Type: models.TriggerNutritionist,
					Data: "nut-ana-torres",
				},
			},
		},
		Metadata: models.ScriptMetadata{
			EstimatedDuration: "3 min",
			Difficulty:        "fácil",
			Tags:              []string{"principiante", "postres", "demo"},
			Author:            "equipo Dulce Vida",
			CreatedAt:         time.Date(2024, 11, 4, 10, 0, 0, 0, time.UTC),
		},
	}
}

// appointmentDemoScript demonstrates the schedule-appointment action flow.
func appointmentDemoScript() *models.ConversationScript {
	return &models.ConversationScript{
		ID:          "demo-cita-nutricionista",
		Name:        "Demo: agendar cita con nutricionista",
		Description: "Flujo corto que termina agendando una cita con una especialista.",
		UserProfile: &models.UserProfile{
			Type:       "paciente",
			Name:       "Roberto",
			Goals:      []string{"controlar diabetes tipo 2"},
			Background: "Diagnóstico reciente de diabetes tipo 2, su médico le sugirió dieta baja en carbohidratos.",
		},
		Steps: []models.ScriptStep{
			{
				ID:                "cita-1",
				Order:             1,
				UserInput:         "nutricionista|diabetes|especialista",
				AssistantResponse: "Para el manejo de diabetes te recomiendo a la Dra. Laura Méndez, con 12 años de experiencia en dietas bajas en carbohidratos. ¿Te gustaría agendar una consulta?",
				Trigger: &models.Trigger{
					Type: models.TriggerNutritionist,
					Data: "nut-laura-mendez",
				},
				NextStepID: "cita-2",
			},
			{
				ID:                "cita-2",
				Order:             2,
				UserInput:         `\b(s[ií]|claro|ok|va)\b`,
				AssistantResponse: "¡Perfecto! Te agendo una primera consulta con la Dra. Méndez. Te llegará la confirmación por correo con los horarios disponibles.",
				Actions: []models.Action{
					{Type: models.ActionScheduleAppointment, Data: map[string]interface{}{"nutritionist_id": "nut-laura-mendez", "type": "primera_consulta"}},
				},
			},
		},
		Metadata: models.ScriptMetadata{
			EstimatedDuration: "1 min",
			Difficulty:        "fácil",
			Tags:              []string{"cita", "diabetes", "demo"},
			Author:            "equipo Dulce Vida",
			CreatedAt:         time.Date(2024, 11, 12, 9, 30, 0, 0, time.UTC),
		},
	}
}

// Template returns a blank authoring template. Exporting it produces a JSON
// document that round-trips as a valid import.
func Template() *models.ConversationScript {
	return &models.ConversationScript{
		ID:          "mi-guion",
		Name:        "Mi guion de demostración",
		Description: "Describe aquí el escenario que quieres simular.",
		UserProfile: &models.UserProfile{
			Type:  "perfil del usuario objetivo",
			Goals: []string{"meta 1", "meta 2"},
		},
		Steps: []models.ScriptStep{
			{
				ID:                "paso-1",
				Order:             1,
				UserInput:         "hola",
				AssistantResponse: "Respuesta del asistente para el primer paso.",
				Variants: []models.StepVariant{
					{Pattern: "buenas|hey", Response: "Respuesta alternativa si el usuario saluda distinto."},
				},
				NextStepID: "paso-2",
			},
			{
				ID:                "paso-2",
				Order:             2,
				AssistantResponse: "Paso de respuesta libre: se emite sin esperar una frase concreta.",
			},
		},
		Metadata: models.ScriptMetadata{
			EstimatedDuration: "2 min",
			Difficulty:        "fácil",
			Tags:              []string{"plantilla"},
			Author:            "tu nombre",
		},
	}
}
