package dashboard

import (
	"net/url"
	"testing"
)

func TestParseQueryDefaults(t *testing.T) {
	c := ParseQuery(url.Values{})
	if c.Search != "" {
		t.Errorf("Search = %q, want empty", c.Search)
	}
	if c.MinPrice != nil {
		t.Errorf("MinPrice = %v, want unset", *c.MinPrice)
	}
	if c.MinMarketCapB != 0 {
		t.Errorf("MinMarketCapB = %v, want 0", c.MinMarketCapB)
	}
	if c.Sort != DefaultSort {
		t.Errorf("Sort = %q, want %q", c.Sort, DefaultSort)
	}
}

func TestParseQueryFull(t *testing.T) {
	values := url.Values{}
	values.Set("search", "bit")
	values.Set("minPrice", "100.5")
	values.Set("minMarketCapB", "20")
	values.Set("sort", "market_cap")

	c := ParseQuery(values)
	if c.Search != "bit" {
		t.Errorf("Search = %q", c.Search)
	}
	if c.MinPrice == nil || *c.MinPrice != 100.5 {
		t.Errorf("MinPrice = %v, want 100.5", c.MinPrice)
	}
	if c.MinMarketCapB != 20 {
		t.Errorf("MinMarketCapB = %v, want 20", c.MinMarketCapB)
	}
	if c.Sort != SortByMarketCap {
		t.Errorf("Sort = %q, want market_cap", c.Sort)
	}
}

func TestParseQueryRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-numeric minPrice", key: "minPrice", value: "cheap"},
		{name: "negative minPrice", key: "minPrice", value: "-5"},
		{name: "non-numeric minMarketCapB", key: "minMarketCapB", value: "big"},
		{name: "negative minMarketCapB", key: "minMarketCapB", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			values.Set(tt.key, tt.value)
			c := ParseQuery(values)
			if c.MinPrice != nil {
				t.Errorf("MinPrice = %v, want unset", *c.MinPrice)
			}
			if c.MinMarketCapB != 0 {
				t.Errorf("MinMarketCapB = %v, want 0", c.MinMarketCapB)
			}
		})
	}
}

func TestParseSortKeyFallback(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
	}{
		{in: "price", want: SortByPrice},
		{in: "market_cap", want: SortByMarketCap},
		{in: "name", want: SortByName},
		{in: "", want: DefaultSort},
		{in: "volume", want: DefaultSort},
		{in: "PRICE", want: DefaultSort}, // the enumeration is exact
	}

	for _, tt := range tests {
		if got := ParseSortKey(tt.in); got != tt.want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValuesOmitsDefaults(t *testing.T) {
	c := DefaultCriteria()
	values := c.Values()

	if _, ok := values["search"]; ok {
		t.Error("empty search must be omitted")
	}
	if _, ok := values["minPrice"]; ok {
		t.Error("unset minPrice must be omitted")
	}
	if _, ok := values["minMarketCapB"]; ok {
		t.Error("zero minMarketCapB must be omitted")
	}
	// Sort is always present so a shared URL pins its ordering.
	if got := values.Get("sort"); got != string(DefaultSort) {
		t.Errorf("sort = %q, want %q", got, DefaultSort)
	}
}

func TestQueryRoundTrip(t *testing.T) {
	min := 250.0
	tests := []struct {
		name string
		c    Criteria
	}{
		{name: "defaults", c: DefaultCriteria()},
		{name: "search only", c: Criteria{Search: "eth", Sort: SortByPrice}},
		{name: "all fields", c: Criteria{Search: "b", MinPrice: &min, MinMarketCapB: 10, Sort: SortByName}},
		{name: "market cap sort", c: Criteria{MinMarketCapB: 1.5, Sort: SortByMarketCap}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := url.ParseQuery(tt.c.QueryString())
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			got := ParseQuery(parsed)
			if !got.Equal(tt.c) {
				t.Fatalf("round trip: got %+v, want %+v", got, tt.c)
			}
		})
	}
}
