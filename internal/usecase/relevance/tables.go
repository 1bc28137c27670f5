package relevance

import "github.com/simglobe/simglobe/internal/domain/risk"

// keywordLink maps a keyword found in product text to terms looked up in risk text.
type keywordLink struct {
	keyword string
	related []string
}

// keywordTable is scanned in order; reason order follows it.
var keywordTable = []keywordLink{
	// Materials
	{"cotton", []string{"cotton", "textile", "fabric"}},
	{"leather", []string{"leather", "manufacturing", "tannery"}},
	{"denim", []string{"cotton", "textile", "fabric"}},
	{"wool", []string{"wool", "textile", "fabric"}},
	{"silk", []string{"silk", "china", "asia"}},
	{"polyester", []string{"oil", "petroleum", "synthetic"}},
	{"rubber", []string{"rubber", "manufacturing"}},

	// Product types
	{"shoe", []string{"shipping", "asia", "china", "manufacturing", "tariff"}},
	{"sneaker", []string{"shipping", "asia", "china", "manufacturing", "tariff"}},
	{"nike", []string{"shipping", "asia", "china", "manufacturing", "tariff", "vietnam"}},
	{"adidas", []string{"shipping", "asia", "china", "manufacturing", "tariff"}},
	{"apparel", []string{"shipping", "textile", "cotton", "tariff"}},
	{"clothing", []string{"shipping", "textile", "cotton", "tariff"}},
	{"shirt", []string{"cotton", "textile", "shipping"}},
	{"t-shirt", []string{"cotton", "textile", "shipping"}},
	{"tshirt", []string{"cotton", "textile", "shipping"}},
	// electronics has no shipping link
	{"electronics", []string{"chip", "semiconductor", "china", "taiwan"}},
	{"phone", []string{"chip", "semiconductor", "china", "taiwan"}},
	{"computer", []string{"chip", "semiconductor", "china", "taiwan"}},

	// Origins / supply chain
	{"china", []string{"china", "tariff", "shipping", "asia"}},
	{"vietnam", []string{"vietnam", "asia", "shipping"}},
	{"asia", []string{"asia", "shipping", "port"}},
	{"import", []string{"tariff", "shipping", "customs"}},

	// Category labels
	{"sneakers", []string{"shipping", "asia", "tariff", "manufacturing"}},
	{"t-shirts", []string{"cotton", "textile", "shipping"}},
}

// categoryTable maps a product category label to the risk categories that affect it.
// Labels are matched exactly.
var categoryTable = map[string][]string{
	"Sneakers":    {risk.CategoryShipping, risk.CategoryTariffs, risk.CategoryEconomic},
	"Shoes":       {risk.CategoryShipping, risk.CategoryTariffs, risk.CategoryEconomic},
	"Footwear":    {risk.CategoryShipping, risk.CategoryTariffs, risk.CategoryEconomic},
	"T-Shirts":    {risk.CategoryShipping, risk.CategoryEconomic},
	"Apparel":     {risk.CategoryShipping, risk.CategoryEconomic},
	"Clothing":    {risk.CategoryShipping, risk.CategoryEconomic},
	"Electronics": {risk.CategoryTariffs, risk.CategoryEconomic},
}
