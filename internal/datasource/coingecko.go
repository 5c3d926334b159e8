package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/uqurreshi34-dev/cryptopulse-frontend/pkg/models"
)

// DefaultCoinGeckoURL is the public CoinGecko API v3 endpoint.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// DefaultHistoryDays is the span of the detail-page price chart.
const DefaultHistoryDays = 30

// CoinGecko fetches daily price history from the public CoinGecko API.
// A demo API key raises the rate limits but is not required.
type CoinGecko struct {
	baseURL string
	apiKey  string
	cache   *Cache
	limiter *RateLimiter
}

// NewCoinGecko creates a CoinGecko client. An empty baseURL uses the
// public API; an empty apiKey omits the demo-key header.
func NewCoinGecko(baseURL, apiKey string) *CoinGecko {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	return &CoinGecko{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		cache:   NewCache(5 * time.Minute),
		limiter: NewRateLimiter(2, time.Second), // free tier is strict
	}
}

// Name returns the data source name.
func (g *CoinGecko) Name() string { return "CoinGecko" }

// marketChartResponse is CoinGecko's market_chart payload: each price
// entry is a [ms-epoch, price] pair.
type marketChartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// GetHistory returns the daily close series for a CoinGecko coin id
// (e.g., "bitcoin"), most recent day last.
func (g *CoinGecko) GetHistory(ctx context.Context, coinID string, days int) ([]models.PricePoint, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}

	cacheKey := fmt.Sprintf("history:%s:%d", coinID, days)
	if cached, ok := g.cache.Get(cacheKey); ok {
		return cached.([]models.PricePoint), nil
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("days", fmt.Sprintf("%d", days))
	q.Set("interval", "daily")
	q.Set("precision", "full")

	headers := map[string]string{}
	if g.apiKey != "" {
		headers["x-cg-demo-api-key"] = g.apiKey
	}

	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?%s", g.baseURL, url.PathEscape(coinID), q.Encode())
	body, err := doGet(ctx, endpoint, headers)
	if err != nil {
		return nil, fmt.Errorf("coingecko history %s: %w", coinID, err)
	}
	defer body.Close()

	var chart marketChartResponse
	if err := json.NewDecoder(body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("decode market chart %s: %w", coinID, err)
	}

	points := make([]models.PricePoint, 0, len(chart.Prices))
	for _, pair := range chart.Prices {
		points = append(points, models.PricePoint{
			Timestamp: time.UnixMilli(int64(pair[0])).UTC(),
			PriceUSD:  pair[1],
		})
	}

	g.cache.Set(cacheKey, points)
	return points, nil
}

// GetPrices is not supported; the listing comes from the backend.
func (g *CoinGecko) GetPrices(_ context.Context) ([]models.CryptoPrice, error) {
	return nil, ErrNotSupported
}

// GetCoin is not supported; detail records come from the backend.
func (g *CoinGecko) GetCoin(_ context.Context, _ string) (*models.CryptoPrice, error) {
	return nil, ErrNotSupported
}

// GetNews is not supported by CoinGecko.
func (g *CoinGecko) GetNews(_ context.Context, _, _ string, _ int) ([]models.NewsArticle, error) {
	return nil, ErrNotSupported
}
