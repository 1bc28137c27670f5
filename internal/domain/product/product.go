package product

// DefaultInventory is the unit count assumed when a product carries no inventory figure
// (a typical restock batch).
const DefaultInventory = 10

// Product is a merchant catalog item. Immutable once built.
type Product struct {
	id          string
	name        string
	category    string
	description string

	price    float64
	hasPrice bool

	inventory    int
	hasInventory bool
}

// New creates a product without price or inventory.
func New(id, name, category, description string) Product {
	return Product{id: id, name: name, category: category, description: description}
}

// WithPrice returns a copy of the product with the unit price set.
func (p Product) WithPrice(price float64) Product {
	p.price = price
	p.hasPrice = true
	return p
}

// WithInventory returns a copy of the product with the stock count set.
func (p Product) WithInventory(count int) Product {
	p.inventory = count
	p.hasInventory = true
	return p
}

// WithDescription returns a copy of the product with the description replaced.
func (p Product) WithDescription(description string) Product {
	p.description = description
	return p
}

// ID returns the product identifier.
func (p Product) ID() string { return p.id }

// Name returns the product title.
func (p Product) Name() string { return p.name }

// Category returns the free-form category label.
func (p Product) Category() string { return p.category }

// Description returns the product description.
func (p Product) Description() string { return p.description }

// Price returns the unit price and whether one was supplied.
func (p Product) Price() (float64, bool) { return p.price, p.hasPrice }

// Inventory returns the stock count and whether one was supplied.
func (p Product) Inventory() (int, bool) { return p.inventory, p.hasInventory }

// UnitsAtRisk is the number of units hedge sizing scales from:
// DefaultInventory when unknown, and never less than one.
func (p Product) UnitsAtRisk() int {
	if !p.hasInventory {
		return DefaultInventory
	}
	if p.inventory < 1 {
		return 1
	}
	return p.inventory
}
