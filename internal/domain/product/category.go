package product

import "strings"

// Category labels understood by the relevance engine.
const (
	CategorySneakers    = "Sneakers"
	CategoryTShirts     = "T-Shirts"
	CategoryApparel     = "Apparel"
	CategoryElectronics = "Electronics"
	CategoryGeneral     = "General"
)

var categoryHints = []struct {
	category string
	words    []string
}{
	{CategorySneakers, []string{"shoe", "sneaker", "nike", "adidas", "air force"}},
	{CategoryTShirts, []string{"t-shirt", "tshirt", "shirt", "cotton"}},
	{CategoryApparel, []string{"jean", "pant", "trouser", "jacket", "coat", "hoodie"}},
	{CategoryElectronics, []string{"phone", "laptop", "computer"}},
}

// InferCategory guesses a category label from a product title.
// Returns CategoryGeneral when nothing matches.
func InferCategory(name string) string {
	lower := strings.ToLower(name)
	for _, h := range categoryHints {
		for _, w := range h.words {
			if strings.Contains(lower, w) {
				return h.category
			}
		}
	}
	return CategoryGeneral
}

// WithInferredCategory returns the product unchanged when it has a category,
// otherwise a copy with the category inferred from its name.
func (p Product) WithInferredCategory() Product {
	if strings.TrimSpace(p.category) != "" {
		return p
	}
	p.category = InferCategory(p.name)
	return p
}
