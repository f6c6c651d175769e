// internal/models/catalog.go
package models

import (
	"time"
)

// Product is one entry of the keto dessert catalog. The chat core only reads
// the catalog; cart and inventory live in the hosting application.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Nutritionist is a specialist profile from the wellness directory.
type Nutritionist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Specialty  string   `json:"specialty"`
	City       string   `json:"city,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Languages  []string `json:"languages,omitempty"`
}

// Review is a patient review of a nutritionist, feeding the keyword-tally
// summary shown next to a recommendation.
type Review struct {
	NutritionistID string    `json:"nutritionist_id"`
	Author         string    `json:"author"`
	Rating         int       `json:"rating"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// ForumPost is a community forum entry cited by the responder.
type ForumPost struct {
	ID     string   `json:"id"`
	Author string   `json:"author"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Topics []string `json:"topics,omitempty"`
}

// Recipe is a fixed keto recipe suggestion keyed by meal type.
type Recipe struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MealType string `json:"meal_type"`
	Summary  string `json:"summary"`
}
