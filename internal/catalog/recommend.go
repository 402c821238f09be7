package catalog

import (
	"math/rand"

	"lume/internal/models"
)

const maxRecommendations = 4

// Recommendation is a recommended product with its display badge.
type Recommendation struct {
	Product models.Product `json:"product"`
	Badge   string         `json:"badge"`
}

// Recommend picks up to four "you might also like" products for the product
// with currentID: the current product is excluded, up to two products are
// taken from the same category and up to two from other categories, and the
// result is shuffled with rng. Pass a fixed-seed rand.Rand for a
// deterministic selection.
func Recommend(products []models.Product, currentID int, category string, rng *rand.Rand) []Recommendation {
	var sameCategory, others []models.Product
	for _, p := range products {
		if p.ID == currentID {
			continue
		}
		if category != "" && p.Category == category {
			sameCategory = append(sameCategory, p)
		} else {
			others = append(others, p)
		}
	}

	var picked []models.Product
	if category != "" {
		picked = append(picked, take(sameCategory, 2)...)
		picked = append(picked, take(others, 2)...)
	} else {
		picked = take(others, maxRecommendations)
	}

	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	picked = take(picked, maxRecommendations)

	recs := make([]Recommendation, len(picked))
	for i, p := range picked {
		recs[i] = Recommendation{Product: p, Badge: badge(p, i)}
	}
	return recs
}

// badge labels a recommendation slot: scarce stock wins, the first slot is
// "Popular", cheap products are "Best Value" and the rest "Premium".
func badge(p models.Product, index int) string {
	switch {
	case p.Stock < 5:
		return "Limited"
	case index == 0:
		return "Popular"
	case p.Price < 300:
		return "Best Value"
	default:
		return "Premium"
	}
}

func take(products []models.Product, n int) []models.Product {
	if len(products) <= n {
		return products
	}
	return products[:n]
}
