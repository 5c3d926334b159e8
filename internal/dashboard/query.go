package dashboard

import (
	"net/url"
	"strconv"
)

// Query parameter names recognized in the dashboard URL.
const (
	ParamSearch        = "search"
	ParamMinPrice      = "minPrice"
	ParamMinMarketCapB = "minMarketCapB"
	ParamSort          = "sort"
)

// ParseQuery reads Criteria from a URL query string. Every parameter is
// untrusted: numbers that fail to parse or are negative count as unset,
// and an out-of-enumeration sort key falls back to the default rather
// than propagating an invalid state.
func ParseQuery(values url.Values) Criteria {
	c := DefaultCriteria()
	c.Search = values.Get(ParamSearch)
	c.Sort = ParseSortKey(values.Get(ParamSort))

	if raw := values.Get(ParamMinPrice); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			c.MinPrice = &v
		}
	}
	if raw := values.Get(ParamMinMarketCapB); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			c.MinMarketCapB = v
		}
	}
	return c
}

// Values encodes Criteria into its canonical query form: parameters
// holding their default value are omitted, except the sort key, which
// is always written so a copied URL pins the ordering it showed.
func (c Criteria) Values() url.Values {
	values := url.Values{}
	if c.Search != "" {
		values.Set(ParamSearch, c.Search)
	}
	if c.MinPrice != nil {
		values.Set(ParamMinPrice, strconv.FormatFloat(*c.MinPrice, 'f', -1, 64))
	}
	if c.MinMarketCapB > 0 {
		values.Set(ParamMinMarketCapB, strconv.FormatFloat(c.MinMarketCapB, 'f', -1, 64))
	}
	values.Set(ParamSort, string(c.Sort))
	return values
}

// QueryString returns the canonical encoded query, e.g.
// "minPrice=100&sort=market_cap".
func (c Criteria) QueryString() string {
	return c.Values().Encode()
}
