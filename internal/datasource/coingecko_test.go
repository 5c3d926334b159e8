package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fakeCoinGecko(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if r.URL.Path != "/coins/bitcoin/market_chart" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("vs_currency"); got != "usd" {
			t.Errorf("vs_currency = %q", got)
		}
		if got := r.Header.Get("x-cg-demo-api-key"); got != "demo-key" {
			t.Errorf("api key header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prices":[[1735689600000,64000.5],[1735776000000,65010.25]]}`))
	}))
}

func TestCoinGeckoGetHistory(t *testing.T) {
	srv := fakeCoinGecko(t, nil)
	defer srv.Close()

	g := NewCoinGecko(srv.URL, "demo-key")
	points, err := g.GetHistory(context.Background(), "bitcoin", 30)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}

	want := time.UnixMilli(1735689600000).UTC()
	if !points[0].Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", points[0].Timestamp, want)
	}
	if points[1].PriceUSD != 65010.25 {
		t.Errorf("price = %v, want 65010.25", points[1].PriceUSD)
	}
}

func TestCoinGeckoHistoryCached(t *testing.T) {
	var hits atomic.Int64
	srv := fakeCoinGecko(t, &hits)
	defer srv.Close()

	g := NewCoinGecko(srv.URL, "demo-key")
	for i := 0; i < 3; i++ {
		if _, err := g.GetHistory(context.Background(), "bitcoin", 30); err != nil {
			t.Fatalf("GetHistory #%d: %v", i, err)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("upstream hit %d times, want 1 (cached)", hits.Load())
	}
}

func TestCoinGeckoHistoryUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewCoinGecko(srv.URL, "")
	if _, err := g.GetHistory(context.Background(), "bitcoin", 30); err == nil {
		t.Fatal("expected error from 429 upstream")
	}
}
