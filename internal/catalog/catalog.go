// internal/catalog/catalog.go
package catalog

import (
	"strings"

	"github.com/DulceVida/MagoChat/internal/models"
)

// Catalog bundles the read-only lookup tables the intent responder draws
// from: the product list, the nutritionist directory with reviews, the forum
// posts, the recipe suggestions and the tip list. The chat core never
// mutates any of them.
type Catalog struct {
	products      []models.Product
	nutritionists []models.Nutritionist
	reviews       []models.Review
	forumPosts    []models.ForumPost
	recipes       []models.Recipe
	tips          []string
}

// New creates a catalog over explicit tables. Tests use this to supply small
// fixtures.
func New(products []models.Product, nutritionists []models.Nutritionist, reviews []models.Review, forumPosts []models.ForumPost, recipes []models.Recipe, tips []string) *Catalog {
	return &Catalog{
		products:      products,
		nutritionists: nutritionists,
		reviews:       reviews,
		forumPosts:    forumPosts,
		recipes:       recipes,
		tips:          tips,
	}
}

// Default returns the built-in demo catalog.
func Default() *Catalog {
	return New(defaultProducts, defaultNutritionists, defaultReviews, defaultForumPosts, defaultRecipes, defaultTips)
}

// Products returns the full product table.
func (c *Catalog) Products() []models.Product {
	return c.products
}

// ProductsByCategory returns every product in the category.
func (c *Catalog) ProductsByCategory(category string) []models.Product {
	var out []models.Product
	for _, p := range c.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// TopProducts returns the first n products of the table.
func (c *Catalog) TopProducts(n int) []models.Product {
	if n > len(c.products) {
		n = len(c.products)
	}
	return c.products[:n]
}

// Nutritionists returns the full directory.
func (c *Catalog) Nutritionists() []models.Nutritionist {
	return c.nutritionists
}

// NutritionistByID looks up one specialist.
func (c *Catalog) NutritionistByID(id string) (models.Nutritionist, bool) {
	for _, n := range c.nutritionists {
		if n.ID == id {
			return n, true
		}
	}
	return models.Nutritionist{}, false
}

// ReviewsFor returns the reviews of a nutritionist, in stored order.
func (c *Catalog) ReviewsFor(nutritionistID string) []models.Review {
	var out []models.Review
	for _, r := range c.reviews {
		if r.NutritionistID == nutritionistID {
			out = append(out, r)
		}
	}
	return out
}

// ForumPostsByTopic returns up to max posts tagged with or mentioning topic.
func (c *Catalog) ForumPostsByTopic(topic string, max int) []models.ForumPost {
	var out []models.ForumPost
	for _, p := range c.forumPosts {
		if len(out) >= max {
			break
		}
		if postMatchesTopic(p, topic) {
			out = append(out, p)
		}
	}
	return out
}

func postMatchesTopic(p models.ForumPost, topic string) bool {
	for _, t := range p.Topics {
		if strings.EqualFold(t, topic) {
			return true
		}
	}
	lower := strings.ToLower(topic)
	return strings.Contains(strings.ToLower(p.Title), lower) ||
		strings.Contains(strings.ToLower(p.Body), lower)
}

// Recipes returns the fixed suggestion list.
func (c *Catalog) Recipes() []models.Recipe {
	return c.recipes
}

// RecipeByMealType returns the suggestion for a meal type, falling back to
// the first recipe when the meal type is unknown.
func (c *Catalog) RecipeByMealType(mealType string) (models.Recipe, bool) {
	for _, r := range c.recipes {
		if strings.EqualFold(r.MealType, mealType) {
			return r, true
		}
	}
	if len(c.recipes) > 0 {
		return c.recipes[0], false
	}
	return models.Recipe{}, false
}

// Tips returns the fixed tip list.
func (c *Catalog) Tips() []string {
	return c.tips
}
