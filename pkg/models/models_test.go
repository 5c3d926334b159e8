package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestFlexFloatUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		want  float64
		isNaN bool
	}{
		{name: "plain number", json: `65000.5`, want: 65000.5},
		{name: "quoted number", json: `"3000"`, want: 3000},
		{name: "quoted decimal", json: `"0.000012"`, want: 0.000012},
		{name: "zero", json: `0`, want: 0},
		{name: "null", json: `null`, isNaN: true},
		{name: "empty string", json: `""`, isNaN: true},
		{name: "garbage", json: `"not-a-price"`, isNaN: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexFloat
			if err := json.Unmarshal([]byte(tt.json), &f); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if tt.isNaN {
				if !math.IsNaN(f.Float64()) {
					t.Fatalf("got %v, want NaN", f.Float64())
				}
				if f.Valid() {
					t.Fatal("NaN must not be Valid()")
				}
				return
			}
			if f.Float64() != tt.want {
				t.Fatalf("got %v, want %v", f.Float64(), tt.want)
			}
			if !f.Valid() {
				t.Fatalf("%v should be Valid()", tt.want)
			}
		})
	}
}

func TestFlexFloatMarshalNaNAsNull(t *testing.T) {
	data, err := json.Marshal(FlexFloat(math.NaN()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "null" {
		t.Fatalf("got %s, want null", data)
	}
}

func TestCryptoPriceDecodeMixedFieldTypes(t *testing.T) {
	payload := `{
		"id": 1,
		"symbol": "BTC",
		"name": "Bitcoin",
		"price_usd": "65000.5",
		"market_cap": 1200000000000,
		"timestamp": "2025-01-02T15:04:05Z",
		"coingecko_id": "bitcoin"
	}`

	var c CryptoPrice
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if c.PriceUSD.Float64() != 65000.5 {
		t.Errorf("price: got %v, want 65000.5", c.PriceUSD.Float64())
	}
	if c.MarketCap.Float64() != 1.2e12 {
		t.Errorf("market cap: got %v, want 1.2e12", c.MarketCap.Float64())
	}
	want := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	if !c.Timestamp.Equal(want) {
		t.Errorf("timestamp: got %v, want %v", c.Timestamp, want)
	}
	if c.CoinGeckoID != "bitcoin" {
		t.Errorf("coingecko_id: got %q", c.CoinGeckoID)
	}
}
