package polymarket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/simglobe/simglobe/internal/domain/market"
)

// gammaMarket mirrors the subset of the gamma API market object the service reads.
// The API is loose with types: ids and volumes arrive as strings or numbers, and
// outcomes/outcomePrices as arrays or as JSON-encoded strings holding an array.
type gammaMarket struct {
	ID            flexString `json:"id"`
	Question      string     `json:"question"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Outcomes      flexList   `json:"outcomes"`
	OutcomePrices flexList   `json:"outcomePrices"`
	Volume        flexFloat  `json:"volume"`
	EndDate       string     `json:"endDate"`
}

func (g gammaMarket) toDomain() market.Market {
	prices := make([]float64, 0, len(g.OutcomePrices))
	for _, p := range g.OutcomePrices {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			v = 0
		}
		prices = append(prices, v)
	}
	return market.New(string(g.ID), g.Question, g.Description, g.Category,
		[]string(g.Outcomes), prices, float64(g.Volume), parseTime(g.EndDate))
}

func toDomainList(in []gammaMarket) []market.Market {
	out := make([]market.Market, 0, len(in))
	for _, g := range in {
		out = append(out, g.toDomain())
	}
	return out
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode id %s: %w", b, err)
	}
	*f = flexString(n.String())
	return nil
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode number %s: %w", b, err)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		// unparsable volumes count as no activity
		v = 0
	}
	*f = flexFloat(v)
	return nil
}

// flexList is a list of strings decoded from an array of strings or numbers,
// or from a string that itself holds such an array.
type flexList []string

func (f *flexList) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return nil
	}
	if b[0] == '"' {
		var inner string
		if err := json.Unmarshal(b, &inner); err != nil {
			return fmt.Errorf("decode list: %w", err)
		}
		if strings.TrimSpace(inner) == "" {
			*f = nil
			return nil
		}
		b = []byte(inner)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("decode list: %w", err)
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		var s flexString
		if err := s.UnmarshalJSON(it); err != nil {
			return err
		}
		out = append(out, string(s))
	}
	*f = out
	return nil
}

func isNull(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}
