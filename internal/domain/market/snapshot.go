package market

import "time"

// Snapshot is the serializable form of a Market, used by caches.
type Snapshot struct {
	ID          string    `json:"id"`
	Question    string    `json:"question"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Outcomes    []string  `json:"outcomes,omitempty"`
	Prices      []float64 `json:"prices,omitempty"`
	Volume      float64   `json:"volume"`
	EndDate     time.Time `json:"endDate,omitzero"`
}

// Snapshot returns the serializable form of the market.
func (m Market) Snapshot() Snapshot {
	return Snapshot{
		ID:          m.id,
		Question:    m.question,
		Description: m.description,
		Category:    m.category,
		Outcomes:    m.outcomes,
		Prices:      m.prices,
		Volume:      m.volume,
		EndDate:     m.endDate,
	}
}

// FromSnapshot rebuilds a market.
func FromSnapshot(s Snapshot) Market {
	return New(s.ID, s.Question, s.Description, s.Category, s.Outcomes, s.Prices, s.Volume, s.EndDate)
}
