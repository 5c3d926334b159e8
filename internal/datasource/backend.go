package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/uqurreshi34-dev/cryptopulse-frontend/pkg/models"
)

// DefaultBackendURL points at the hosted CryptoPulse backend.
const DefaultBackendURL = "https://cryptopulse-backend-102g.onrender.com"

// Backend is the CryptoPulse price API: the authoritative source for
// the dashboard listing, per-symbol detail records, and the
// refresh-status timestamp. Responses are served uncached so the table
// is always as fresh as the backend itself.
type Backend struct {
	baseURL string
	limiter *RateLimiter
}

// NewBackend creates a backend client. An empty baseURL uses the
// hosted default.
func NewBackend(baseURL string) *Backend {
	if baseURL == "" {
		baseURL = DefaultBackendURL
	}
	return &Backend{
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: NewRateLimiter(10, time.Second),
	}
}

// Name returns the data source name.
func (b *Backend) Name() string { return "CryptoPulse Backend" }

// GetPrices returns the full price listing.
func (b *Backend) GetPrices(ctx context.Context) ([]models.CryptoPrice, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := doGet(ctx, b.baseURL+"/api/crypto/prices/", nil)
	if err != nil {
		return nil, fmt.Errorf("backend prices: %w", err)
	}
	defer body.Close()

	var prices []models.CryptoPrice
	if err := json.NewDecoder(body).Decode(&prices); err != nil {
		return nil, fmt.Errorf("decode prices: %w", err)
	}
	return prices, nil
}

// GetCoin returns the detail record for one symbol. An unknown symbol
// yields ErrCoinNotFound.
func (b *Backend) GetCoin(ctx context.Context, symbol string) (*models.CryptoPrice, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := doGet(ctx, b.baseURL+"/api/crypto/"+url.PathEscape(symbol)+"/", nil)
	if err != nil {
		var httpErr *ErrHTTP
		if errors.As(err, &httpErr) && httpErr.StatusCode == 404 {
			return nil, fmt.Errorf("%s: %w", symbol, ErrCoinNotFound)
		}
		return nil, fmt.Errorf("backend coin %s: %w", symbol, err)
	}
	defer body.Close()

	var coin models.CryptoPrice
	if err := json.NewDecoder(body).Decode(&coin); err != nil {
		return nil, fmt.Errorf("decode coin %s: %w", symbol, err)
	}
	return &coin, nil
}

// refreshStatusResponse tolerates both a missing field and a null value.
type refreshStatusResponse struct {
	LastUpdated *time.Time `json:"last_updated"`
}

// GetRefreshStatus returns when the backend last refreshed its price
// table. A malformed timestamp degrades to "unknown" rather than an
// error: the freshness banner simply stays hidden.
func (b *Backend) GetRefreshStatus(ctx context.Context) (*models.RefreshStatus, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := doGet(ctx, b.baseURL+"/api/crypto/refresh-status/", nil)
	if err != nil {
		return nil, fmt.Errorf("backend refresh status: %w", err)
	}
	defer body.Close()

	var status refreshStatusResponse
	if err := json.NewDecoder(body).Decode(&status); err != nil {
		return &models.RefreshStatus{}, nil
	}
	return &models.RefreshStatus{LastUpdated: status.LastUpdated}, nil
}

// GetHistory is not supported by the backend; history comes from CoinGecko.
func (b *Backend) GetHistory(_ context.Context, _ string, _ int) ([]models.PricePoint, error) {
	return nil, ErrNotSupported
}

// GetNews is not supported by the backend.
func (b *Backend) GetNews(_ context.Context, _, _ string, _ int) ([]models.NewsArticle, error) {
	return nil, ErrNotSupported
}
