package dashboard

import (
	"math"
	"sort"
	"strings"

	"github.com/uqurreshi34-dev/cryptopulse-frontend/pkg/models"
)

// Matches reports whether a record belongs in the view under the
// current criteria. The three filters combine with logical AND; each is
// vacuously true when its criterion is unset.
//
// Threshold comparisons against a NaN field are false, so rows whose
// price or market cap failed numeric coercion are never excluded by a
// threshold, mirroring how the upstream dashboard treated them.
func (c Criteria) Matches(rec models.CryptoPrice) bool {
	if c.Search != "" {
		needle := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(rec.Symbol), needle) &&
			!strings.Contains(strings.ToLower(rec.Name), needle) {
			return false
		}
	}
	if c.MinPrice != nil && rec.PriceUSD.Float64() < *c.MinPrice {
		return false
	}
	if floor := c.MinMarketCapUSD(); floor > 0 && rec.MarketCap.Float64() < floor {
		return false
	}
	return true
}

// Compare is a total order over records for the given sort key.
// Returns a negative value when a sorts before b. NaN values sort after
// every real number, and all ties fall back to record ID so identical
// input always yields identical output.
func Compare(a, b models.CryptoPrice, key SortKey) int {
	var n int
	switch key {
	case SortByMarketCap:
		n = compareDesc(a.MarketCap.Float64(), b.MarketCap.Float64())
	case SortByName:
		n = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	default: // SortByPrice
		n = compareDesc(a.PriceUSD.Float64(), b.PriceUSD.Float64())
	}
	if n != 0 {
		return n
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}

// compareDesc orders two values descending, pushing NaN last.
func compareDesc(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// Derive computes the displayed row sequence: filter the snapshot by
// the criteria, then order it by the sort key. Pure function: the
// input slice is never mutated and the result is always a fresh slice.
func Derive(records []models.CryptoPrice, c Criteria) []models.CryptoPrice {
	view := make([]models.CryptoPrice, 0, len(records))
	for _, rec := range records {
		if c.Matches(rec) {
			view = append(view, rec)
		}
	}
	sort.SliceStable(view, func(i, j int) bool {
		return Compare(view[i], view[j], c.Sort) < 0
	})
	return view
}
