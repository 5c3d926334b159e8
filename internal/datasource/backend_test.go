package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeBackend serves the three backend endpoints with canned payloads.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/crypto/prices/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// price_usd as a quoted number on purpose: the live backend does this.
		w.Write([]byte(`[
			{"id":1,"symbol":"BTC","name":"Bitcoin","price_usd":"65000","market_cap":1200000000000,"timestamp":"2025-01-02T12:00:00Z","coingecko_id":"bitcoin"},
			{"id":2,"symbol":"ETH","name":"Ethereum","price_usd":3000,"market_cap":400000000000,"timestamp":"2025-01-02T12:00:00Z"}
		]`))
	})
	mux.HandleFunc("/api/crypto/refresh-status/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"last_updated":"2025-01-02T12:00:00Z"}`))
	})
	mux.HandleFunc("/api/crypto/BTC/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"symbol":"BTC","name":"Bitcoin","price_usd":65000,"market_cap":1200000000000,"timestamp":"2025-01-02T12:00:00Z","coingecko_id":"bitcoin"}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	return httptest.NewServer(mux)
}

func TestBackendGetPrices(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()

	b := NewBackend(srv.URL)
	prices, err := b.GetPrices(context.Background())
	if err != nil {
		t.Fatalf("GetPrices: %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("got %d rows, want 2", len(prices))
	}
	if prices[0].PriceUSD.Float64() != 65000 {
		t.Errorf("quoted price coerced to %v, want 65000", prices[0].PriceUSD.Float64())
	}
	if prices[1].MarketCap.Float64() != 4e11 {
		t.Errorf("market cap = %v, want 4e11", prices[1].MarketCap.Float64())
	}
}

func TestBackendGetCoin(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()

	b := NewBackend(srv.URL)
	coin, err := b.GetCoin(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("GetCoin: %v", err)
	}
	if coin.Name != "Bitcoin" || coin.CoinGeckoID != "bitcoin" {
		t.Fatalf("coin = %+v", coin)
	}
}

func TestBackendGetCoinNotFound(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()

	b := NewBackend(srv.URL)
	_, err := b.GetCoin(context.Background(), "NOPE")
	if !errors.Is(err, ErrCoinNotFound) {
		t.Fatalf("err = %v, want ErrCoinNotFound", err)
	}
}

func TestBackendGetRefreshStatus(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()

	b := NewBackend(srv.URL)
	status, err := b.GetRefreshStatus(context.Background())
	if err != nil {
		t.Fatalf("GetRefreshStatus: %v", err)
	}
	want := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	if status.LastUpdated == nil || !status.LastUpdated.Equal(want) {
		t.Fatalf("LastUpdated = %v, want %v", status.LastUpdated, want)
	}
}

func TestBackendRefreshStatusNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"last_updated":null}`))
	}))
	defer srv.Close()

	b := NewBackend(srv.URL)
	status, err := b.GetRefreshStatus(context.Background())
	if err != nil {
		t.Fatalf("GetRefreshStatus: %v", err)
	}
	if status.LastUpdated != nil {
		t.Fatalf("LastUpdated = %v, want nil", status.LastUpdated)
	}
}

func TestBackendUnsupportedMethods(t *testing.T) {
	b := NewBackend("")
	if _, err := b.GetHistory(context.Background(), "bitcoin", 30); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("GetHistory err = %v", err)
	}
	if _, err := b.GetNews(context.Background(), "BTC", "Bitcoin", 5); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("GetNews err = %v", err)
	}
}
