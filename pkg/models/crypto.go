// Package models defines the core data structures used throughout CryptoPulse.
package models

import (
	"bytes"
	"math"
	"strconv"
	"time"
)

// FlexFloat is a float64 that tolerates sloppy upstream serialization.
// The backend API has been observed to emit price fields as JSON numbers,
// quoted numbers, or null depending on the row. Anything unparsable
// decodes to NaN instead of failing the whole payload.
type FlexFloat float64

// UnmarshalJSON accepts a JSON number, a quoted number, or null.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*f = FlexFloat(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = FlexFloat(math.NaN())
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// MarshalJSON emits a plain number, or null for NaN (which JSON cannot encode).
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
}

// Float64 returns the underlying value.
func (f FlexFloat) Float64() float64 { return float64(f) }

// Valid reports whether the value is a real, finite number.
func (f FlexFloat) Valid() bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CryptoPrice represents one priced asset row from the backend price API.
type CryptoPrice struct {
	ID          int64     `json:"id"`
	Symbol      string    `json:"symbol"`                 // e.g., "BTC"
	Name        string    `json:"name"`                   // e.g., "Bitcoin"
	PriceUSD    FlexFloat `json:"price_usd"`              // spot price in USD
	MarketCap   FlexFloat `json:"market_cap"`             // raw USD, not formatted
	Timestamp   time.Time `json:"timestamp"`              // last backend update for this row
	CoinGeckoID string    `json:"coingecko_id,omitempty"` // e.g., "bitcoin"
}

// PricePoint is one sample of a historical price series.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	PriceUSD  float64   `json:"price_usd"`
}

// RefreshStatus reports when the backend last refreshed its price table.
// LastUpdated is nil when the backend has never refreshed or the
// endpoint is unavailable.
type RefreshStatus struct {
	LastUpdated *time.Time `json:"last_updated"`
}

// CoinPage aggregates everything the per-symbol detail page renders.
// History and News may be empty when their sources are unavailable;
// only Coin is mandatory.
type CoinPage struct {
	Coin      CryptoPrice   `json:"coin"`
	History   []PricePoint  `json:"history"`
	News      []NewsArticle `json:"news"`
	FetchedAt time.Time     `json:"fetched_at"`
}
