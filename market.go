package perform

import (
	"fmt"
	"sort"

	"github.com/etnz/perform/date"
)

// PricePoint is one historical daily close for an instrument, the unit
// every price feed produces.
type PricePoint struct {
	ID    ID
	On    date.Date
	Price float64
}

// MarketData holds the historical daily closes of every instrument, all
// quoted in a single currency. The engine never converts currencies.
type MarketData struct {
	currency string
	prices   map[ID]*date.History[float64]
}

// NewMarketData returns a new empty market data store quoting in the given
// currency.
func NewMarketData(currency string) *MarketData {
	return &MarketData{
		currency: currency,
		prices:   make(map[ID]*date.History[float64]),
	}
}

// Currency returns the quote currency of the store.
func (m *MarketData) Currency() string { return m.currency }

// Has reports whether the store holds any price for the instrument.
func (m *MarketData) Has(id ID) bool {
	h, ok := m.prices[id]
	return ok && h.Len() > 0
}

// Add records one daily close, overwriting any previous close for that
// (instrument, day).
func (m *MarketData) Add(id ID, on date.Date, price float64) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if price <= 0 {
		return fmt.Errorf("invalid price %v for %s on %s: a close must be positive", price, id, on)
	}
	h, ok := m.prices[id]
	if !ok {
		h = new(date.History[float64])
		m.prices[id] = h
	}
	h.Append(on, price)
	return nil
}

// Append records a batch of price points, typically a feed result.
func (m *MarketData) Append(points ...PricePoint) error {
	for _, p := range points {
		if err := m.Add(p.ID, p.On, p.Price); err != nil {
			return err
		}
	}
	return nil
}

// PriceAsOf returns the most recent close on or before the day as Money in
// the store currency. Absence of a price is a normal outcome, not an
// error: the caller records a gap. This on-or-before rule is the single
// temporal-alignment policy of the engine, it never interpolates and never
// looks forward.
func (m *MarketData) PriceAsOf(id ID, day date.Date) (Money, bool) {
	h, ok := m.prices[id]
	if !ok {
		return Money{}, false
	}
	price, ok := h.ValueAsOf(day)
	if !ok {
		return Money{}, false
	}
	return M(price, m.currency), true
}

// History returns the price history of an instrument, nil when the store
// has none.
func (m *MarketData) History(id ID) *date.History[float64] { return m.prices[id] }

// IDs returns the instruments with prices, sorted for stable output.
func (m *MarketData) IDs() []ID {
	ids := make([]ID, 0, len(m.prices))
	for id := range m.prices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
