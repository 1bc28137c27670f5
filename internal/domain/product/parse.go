package product

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simglobe/simglobe/internal/domain"
)

// ParsePrice converts a loosely typed price (as decoded from JSON) into a number.
// nil and "" mean "no price". Numeric strings are accepted. Anything that is not a
// number fails with domain.ErrInvalidProductData.
func ParsePrice(raw any) (float64, bool, error) {
	switch v := raw.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return v, true, nil
	case float32:
		return float64(v), true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case json.Number:
		return parsePriceString(v.String())
	case string:
		return parsePriceString(v)
	default:
		return 0, false, domain.NewInvalidProductData("price", "must be a number")
	}
}

func parsePriceString(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false, domain.NewInvalidProductData("price", "must be a number, got "+strconv.Quote(s))
	}
	return d.InexactFloat64(), true, nil
}

// ParseInventory converts a loosely typed stock count into an integer.
// nil and "" mean "no inventory figure". Fractional counts are truncated.
func ParseInventory(raw any) (int, bool, error) {
	switch v := raw.(type) {
	case nil:
		return 0, false, nil
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false, nil
		}
		return int(v), true, nil
	case json.Number:
		return parseInventoryString(v.String())
	case string:
		return parseInventoryString(v)
	default:
		return 0, false, domain.NewInvalidProductData("inventory", "must be an integer")
	}
}

func parseInventoryString(s string) (int, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, domain.NewInvalidProductData("inventory", "must be an integer, got "+strconv.Quote(s))
	}
	return int(f), true, nil
}

// FromRaw builds a product from loosely typed price and inventory values.
func FromRaw(id, name, category, description string, price, inventory any) (Product, error) {
	p := New(id, name, category, description)

	v, ok, err := ParsePrice(price)
	if err != nil {
		return Product{}, err
	}
	if ok {
		p = p.WithPrice(v)
	}

	n, ok, err := ParseInventory(inventory)
	if err != nil {
		return Product{}, err
	}
	if ok {
		p = p.WithInventory(n)
	}
	return p, nil
}
