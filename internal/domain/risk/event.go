package risk

import "math"

// Risk categories the relevance engine knows how to link to product categories.
const (
	CategoryShipping = "Shipping"
	CategoryTariffs  = "Tariffs"
	CategoryEconomic = "Economic"
)

// Event is a prediction-market question treated as a signal of an operational disruption.
type Event struct {
	id          string
	title       string
	description string
	category    string
	probability float64
	volume      float64
}

// New creates a risk event. Probability is clamped to [0,1] (NaN becomes 0) and a
// negative or non-finite volume becomes 0; malformed upstream numbers never fail.
func New(id, title, description, category string, probability, volume float64) Event {
	return Event{
		id:          id,
		title:       title,
		description: description,
		category:    category,
		probability: ClampProbability(probability),
		volume:      clampVolume(volume),
	}
}

// ID returns the event identifier.
func (e Event) ID() string { return e.id }

// Title returns the market question.
func (e Event) Title() string { return e.title }

// Description returns the resolution description.
func (e Event) Description() string { return e.description }

// Category returns the risk category label.
func (e Event) Category() string { return e.category }

// Probability returns the YES probability in [0,1].
func (e Event) Probability() float64 { return e.probability }

// Volume returns the market activity proxy.
func (e Event) Volume() float64 { return e.volume }

// ClampProbability maps any float onto [0,1]. NaN maps to 0.
func ClampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

func clampVolume(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
