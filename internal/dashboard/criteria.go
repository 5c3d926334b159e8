// Package dashboard implements the price-table view-state engine: filter
// and sort criteria, the derived row view, canonical query-string
// encoding, debounced URL synchronization, and the freshness banner
// state machine. Everything here is pure in-memory state; data fetching
// lives in internal/datasource.
package dashboard

// SortKey selects the ordering of the derived view.
type SortKey string

// Supported sort keys. The string values double as the wire form in the
// "sort" query parameter.
const (
	SortByPrice     SortKey = "price"      // price, descending
	SortByMarketCap SortKey = "market_cap" // market cap, descending
	SortByName      SortKey = "name"       // display name, ascending
)

// DefaultSort is used when no sort key (or an unrecognized one) is supplied.
const DefaultSort = SortByPrice

// MarketCapUnit converts the coarse market-cap threshold (billions of
// USD) into the raw USD unit the records carry.
const MarketCapUnit = 1e9

// ParseSortKey validates a sort key read from untrusted input. Anything
// outside the closed set silently falls back to DefaultSort.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByPrice, SortByMarketCap, SortByName:
		return SortKey(s)
	default:
		return DefaultSort
	}
}

// Criteria is the active view state of the dashboard table. The zero
// value is not valid; use DefaultCriteria.
type Criteria struct {
	// Search filters rows by case-insensitive substring match against
	// symbol or name. Empty means no text filter.
	Search string

	// MinPrice excludes rows priced strictly below it. nil means unset;
	// a zero threshold is a real value and filters nothing only because
	// prices are non-negative.
	MinPrice *float64

	// MinMarketCapB is the market-cap floor in billions of USD. Zero
	// means no filter.
	MinMarketCapB float64

	// Sort is always one of the enumerated sort keys.
	Sort SortKey
}

// DefaultCriteria returns the view state of a bare page load.
func DefaultCriteria() Criteria {
	return Criteria{Sort: DefaultSort}
}

// MinMarketCapUSD returns the market-cap threshold in raw USD.
func (c Criteria) MinMarketCapUSD() float64 {
	return c.MinMarketCapB * MarketCapUnit
}

// Equal reports whether two criteria describe the same view state.
func (c Criteria) Equal(o Criteria) bool {
	if c.Search != o.Search || c.MinMarketCapB != o.MinMarketCapB || c.Sort != o.Sort {
		return false
	}
	if (c.MinPrice == nil) != (o.MinPrice == nil) {
		return false
	}
	return c.MinPrice == nil || *c.MinPrice == *o.MinPrice
}
