package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/uqurreshi34-dev/cryptopulse-frontend/pkg/models"
)

// testAggregator wires an aggregator against stub backend and CoinGecko
// servers, with no news key so news degrades to the (empty) RSS path.
func testAggregator(t *testing.T) (*Aggregator, func()) {
	t.Helper()
	backend := fakeBackend(t)

	gecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/bitcoin/market_chart" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"prices":[[1735689600000,64000],[1735776000000,65000]]}`))
	}))

	agg := NewAggregator(AggregatorConfig{
		BackendURL:   backend.URL,
		CoinGeckoURL: gecko.URL,
		// No news configured: NewsData has no key and the RSS feed list
		// points at nothing reachable, so news comes back empty.
		NewsFeeds: []NewsFeed{{Name: "none", URL: "http://127.0.0.1:0/feed"}},
	})
	return agg, func() {
		backend.Close()
		gecko.Close()
	}
}

func TestFetchDashboard(t *testing.T) {
	agg, cleanup := testAggregator(t)
	defer cleanup()

	data, err := agg.FetchDashboard(context.Background())
	if err != nil {
		t.Fatalf("FetchDashboard: %v", err)
	}
	if len(data.Prices) != 2 {
		t.Fatalf("got %d prices, want 2", len(data.Prices))
	}
	if data.LastUpdated == nil {
		t.Fatal("expected a refresh timestamp")
	}
	if data.FetchedAt.IsZero() {
		t.Fatal("FetchedAt not set")
	}
}

func TestFetchDashboardListingFailureIsFatal(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{BackendURL: "http://127.0.0.1:0"})
	if _, err := agg.FetchDashboard(context.Background()); err == nil {
		t.Fatal("expected error when the listing is unreachable")
	}
}

func TestFetchDashboardSurvivesMissingRefreshStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/crypto/prices/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"symbol":"BTC","name":"Bitcoin","price_usd":65000,"market_cap":1.2e12,"timestamp":"2025-01-02T12:00:00Z"}]`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	agg := NewAggregator(AggregatorConfig{BackendURL: srv.URL})
	data, err := agg.FetchDashboard(context.Background())
	if err != nil {
		t.Fatalf("FetchDashboard: %v", err)
	}
	if data.LastUpdated != nil {
		t.Fatalf("LastUpdated = %v, want nil on status failure", data.LastUpdated)
	}
	if len(data.Prices) != 1 {
		t.Fatalf("got %d prices, want 1", len(data.Prices))
	}
}

func TestFetchCoinPage(t *testing.T) {
	agg, cleanup := testAggregator(t)
	defer cleanup()

	page, err := agg.FetchCoinPage(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("FetchCoinPage: %v", err)
	}
	if page.Coin.Name != "Bitcoin" {
		t.Fatalf("coin = %+v", page.Coin)
	}
	if len(page.History) != 2 {
		t.Fatalf("got %d history points, want 2", len(page.History))
	}
	// News sources are unreachable here; the page still assembled.
	if len(page.News) != 0 {
		t.Fatalf("news = %v, want empty", page.News)
	}
}

func TestFetchCoinPageUnknownSymbol(t *testing.T) {
	agg, cleanup := testAggregator(t)
	defer cleanup()

	_, err := agg.FetchCoinPage(context.Background(), "NOPE")
	if !errors.Is(err, ErrCoinNotFound) {
		t.Fatalf("err = %v, want ErrCoinNotFound", err)
	}
}

func TestFetchCoinPageSurvivesHistoryFailure(t *testing.T) {
	backend := fakeBackend(t)
	defer backend.Close()

	agg := NewAggregator(AggregatorConfig{
		BackendURL:   backend.URL,
		CoinGeckoURL: "http://127.0.0.1:0", // unreachable
		NewsFeeds:    []NewsFeed{{Name: "none", URL: "http://127.0.0.1:0/feed"}},
	})

	page, err := agg.FetchCoinPage(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("FetchCoinPage: %v", err)
	}
	if len(page.History) != 0 {
		t.Fatalf("history = %v, want empty on source failure", page.History)
	}
}

func coinRecord(symbol, geckoID string) models.CryptoPrice {
	return models.CryptoPrice{ID: 1, Symbol: symbol, Name: symbol, CoinGeckoID: geckoID}
}

func TestCoinGeckoIDFallback(t *testing.T) {
	withID := coinRecord("ETH", "ethereum-classic")
	if got := coinGeckoID(withID); got != "ethereum-classic" {
		t.Fatalf("got %q, want explicit id", got)
	}
	withoutID := coinRecord("ETH", "")
	if got := coinGeckoID(withoutID); got != "eth" {
		t.Fatalf("got %q, want lowercased symbol", got)
	}
}
