// internal/catalog/data.go
package catalog

import (
	"github.com/DulceVida/MagoChat/internal/models"
)

// Built-in demo tables. IDs are stable: scripts and responder rules refer to
// them by id.

var defaultProducts = []models.Product{
	{
		ID:          "prod-brownie-keto",
		Name:        "Brownie Keto de Chocolate",
		Category:    "chocolates",
		Price:       89.00,
		Description: "Brownie de cacao 85% endulzado con eritritol, 2g de carbohidratos netos.",
		Tags:        []string{"chocolate", "sin azúcar", "bajo en carbohidratos"},
	},
	{
		ID:          "prod-trufas-cacao",
		Name:        "Trufas de Cacao y Coco",
		Category:    "chocolates",
		Price:       120.00,
		Description: "Trufas artesanales con aceite de coco y cacao puro.",
		Tags:        []string{"chocolate", "coco"},
	},
	{
		ID:          "prod-galletas-almendra",
		Name:        "Galletas de Almendra",
		Category:    "snacks",
		Price:       75.00,
		Description: "Galletas crujientes de harina de almendra, sin gluten.",
		Tags:        []string{"snack", "sin gluten"},
	},
	{
		ID:          "prod-mix-nueces",
		Name:        "Mix Keto de Nueces",
		Category:    "snacks",
		Price:       95.00,
		Description: "Mezcla de nueces, almendras y semillas de calabaza tostadas.",
		Tags:        []string{"snack", "proteína"},
	},
	{
		ID:          "prod-cheesecake-frutos",
		Name:        "Cheesecake de Frutos Rojos",
		Category:    "postres",
		Price:       150.00,
		Description: "Cheesecake individual con base de almendra y mermelada sin azúcar.",
		Tags:        []string{"postre", "frutos rojos"},
	},
	{
		ID:          "prod-helado-vainilla",
		Name:        "Helado Keto de Vainilla",
		Category:    "postres",
		Price:       110.00,
		Description: "Helado cremoso de vainilla de Madagascar endulzado con stevia.",
		Tags:        []string{"postre", "helado"},
	},
}

var defaultNutritionists = []models.Nutritionist{
	{
		ID:         "nut-laura-mendez",
		Name:       "Dra. Laura Méndez",
		Specialty:  "diabetes",
		City:       "Ciudad de México",
		Experience: "12 años acompañando pacientes con diabetes tipo 2 en dietas bajas en carbohidratos.",
		Languages:  []string{"español", "inglés"},
	},
	{
		ID:         "nut-carlos-rivera",
		Name:       "Lic. Carlos Rivera",
		Specialty:  "deporte",
		City:       "Guadalajara",
		Experience: "Nutrición deportiva y rendimiento, trabaja con triatletas y corredores.",
		Languages:  []string{"español"},
	},
	{
		ID:         "nut-ana-torres",
		Name:       "Dra. Ana Torres",
		Specialty:  "perdida_peso",
		City:       "Monterrey",
		Experience: "Especialista en pérdida de peso sostenible con enfoque cetogénico.",
		Languages:  []string{"español", "inglés"},
	},
	{
		ID:         "nut-maria-gonzalez",
		Name:       "Lic. María González",
		Specialty:  "general",
		City:       "Puebla",
		Experience: "Nutrición clínica general y educación alimentaria para familias.",
		Languages:  []string{"español"},
	},
}

var defaultReviews = []models.Review{
	{NutritionistID: "nut-ana-torres", Author: "Lucía P.", Rating: 5, Text: "Excelente atención, muy profesional y el plan fue fácil de seguir."},
	{NutritionistID: "nut-ana-torres", Author: "Jorge M.", Rating: 5, Text: "Profesional, puntual y con seguimiento constante. Excelente experiencia."},
	{NutritionistID: "nut-ana-torres", Author: "Carmen R.", Rating: 4, Text: "Muy amable y paciente, me explicó todo con claridad."},
	{NutritionistID: "nut-ana-torres", Author: "Raúl D.", Rating: 3, Text: "Buena consulta aunque la sala de espera estaba llena."},
	{NutritionistID: "nut-laura-mendez", Author: "Sofía T.", Rating: 5, Text: "Excelente doctora, controló mi glucosa en tres meses. Muy recomendada."},
	{NutritionistID: "nut-laura-mendez", Author: "Pedro L.", Rating: 4, Text: "Gran profesional, atención cercana y amable en todo momento."},
	{NutritionistID: "nut-carlos-rivera", Author: "Andrés V.", Rating: 5, Text: "Mejoré mis tiempos de carrera, plan excelente y muy profesional."},
	{NutritionistID: "nut-carlos-rivera", Author: "Diana F.", Rating: 4, Text: "Recomendado para deportistas, atención puntual y amable."},
	{NutritionistID: "nut-maria-gonzalez", Author: "Elena S.", Rating: 4, Text: "Amable y clara, buen plan para toda la familia."},
}

var defaultForumPosts = []models.ForumPost{
	{
		ID:     "forum-1",
		Author: "KetoMari",
		Title:  "Tres meses sin azúcar: mi experiencia",
		Body:   "Empecé la dieta keto hace tres meses y los postres de chocolate de la tienda me salvaron los antojos.",
		Topics: []string{"experiencia", "chocolate", "antojos"},
	},
	{
		ID:     "forum-2",
		Author: "RunnerPaco",
		Title:  "Keto y maratón, ¿compatible?",
		Body:   "Mi nutricionista deportivo me armó un plan keto con recargas. Terminé el maratón sin pájaras.",
		Topics: []string{"deporte", "experiencia"},
	},
	{
		ID:     "forum-3",
		Author: "DulceVidaFan",
		Title:  "Recetas de desayuno rápidas",
		Body:   "Comparto mis hot cakes de harina de almendra, listos en diez minutos y quedan deliciosos.",
		Topics: []string{"recetas", "desayuno"},
	},
	{
		ID:     "forum-4",
		Author: "SaludYMas",
		Title:  "Bajé 8 kilos en dos meses",
		Body:   "Con el acompañamiento de mi nutricionista y los snacks keto logré bajar de peso sin pasar hambre.",
		Topics: []string{"perdida_peso", "experiencia"},
	},
	{
		ID:     "forum-5",
		Author: "GlucosaBajo",
		Title:  "Diabetes tipo 2 y postres keto",
		Body:   "Mi doctora me autorizó los postres sin azúcar y mi glucosa se mantiene estable. Una maravilla.",
		Topics: []string{"diabetes", "experiencia"},
	},
}

var defaultRecipes = []models.Recipe{
	{
		ID:       "rec-desayuno",
		Name:     "Hot Cakes de Almendra",
		MealType: "desayuno",
		Summary:  "Hot cakes de harina de almendra con mantequilla y frutos rojos, listos en 10 minutos.",
	},
	{
		ID:       "rec-comida",
		Name:     "Ensalada César Keto",
		MealType: "comida",
		Summary:  "Pollo a la parrilla, aderezo césar casero y crutones de queso parmesano horneado.",
	},
	{
		ID:       "rec-cena",
		Name:     "Salmón con Espárragos",
		MealType: "cena",
		Summary:  "Salmón al horno con mantequilla de limón y espárragos salteados.",
	},
}

var defaultTips = []string{
	"Bebe al menos 2 litros de agua al día: la dieta keto elimina más líquidos de lo normal.",
	"Agrega una pizca extra de sal a tus comidas los primeros días para evitar la fatiga de adaptación.",
	"Lee siempre las etiquetas: el azúcar se esconde bajo nombres como dextrosa, maltodextrina o jarabe.",
	"Prepara snacks keto con anticipación para no caer en antojos de carbohidratos.",
	"Duerme 7-8 horas: el mal descanso dispara el cortisol y frena la cetosis.",
	"Acompaña cada comida con verduras de hoja verde para cubrir tu fibra y micronutrientes.",
}
