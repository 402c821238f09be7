package catalog

import "lume/internal/models"

// Filter returns the products visible under the given filter controls: a
// product passes when no category is selected or its category is among the
// selected ones, and its price does not exceed maxPrice. A maxPrice of zero
// or less disables the price filter.
func Filter(products []models.Product, categories []string, maxPrice float64) []models.Product {
	selected := make(map[string]bool, len(categories))
	for _, c := range categories {
		selected[c] = true
	}

	visible := make([]models.Product, 0, len(products))
	for _, p := range products {
		matchCategory := len(selected) == 0 || selected[p.Category]
		matchPrice := maxPrice <= 0 || p.Price <= maxPrice
		if matchCategory && matchPrice {
			visible = append(visible, p)
		}
	}
	return visible
}
