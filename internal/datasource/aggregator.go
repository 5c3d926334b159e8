package datasource

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/uqurreshi34-dev/cryptopulse-frontend/pkg/models"
)

// Aggregator composes the upstream sources with the fallback rules the
// pages rely on: the backend is authoritative for records, CoinGecko
// supplies history, and news falls back from NewsData.io to RSS.
type Aggregator struct {
	backend  *Backend
	gecko    *CoinGecko
	newsdata *NewsData
	rss      *RSSNews

	historyDays int
	newsLimit   int
}

// AggregatorConfig wires an Aggregator from configuration values.
// Empty strings select defaults; a missing NewsData key simply routes
// all news through RSS.
type AggregatorConfig struct {
	BackendURL   string
	CoinGeckoURL string
	CoinGeckoKey string
	NewsDataURL  string
	NewsDataKey  string
	NewsFeeds    []NewsFeed
	HistoryDays  int
	NewsLimit    int
}

// NewAggregator creates an aggregator over all default sources.
func NewAggregator(cfg AggregatorConfig) *Aggregator {
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = DefaultHistoryDays
	}
	if cfg.NewsLimit <= 0 {
		cfg.NewsLimit = 5
	}
	return &Aggregator{
		backend:     NewBackend(cfg.BackendURL),
		gecko:       NewCoinGecko(cfg.CoinGeckoURL, cfg.CoinGeckoKey),
		newsdata:    NewNewsData(cfg.NewsDataURL, cfg.NewsDataKey),
		rss:         NewRSSNews(cfg.NewsFeeds),
		historyDays: cfg.HistoryDays,
		newsLimit:   cfg.NewsLimit,
	}
}

// Backend returns the backend source for direct access.
func (a *Aggregator) Backend() *Backend { return a.backend }

// Sources returns all registered data sources.
func (a *Aggregator) Sources() []DataSource {
	return []DataSource{a.backend, a.gecko, a.newsdata, a.rss}
}

// DashboardData is everything the price-table page needs from upstream.
type DashboardData struct {
	Prices      []models.CryptoPrice `json:"prices"`
	LastUpdated *time.Time           `json:"last_updated"`
	FetchedAt   time.Time            `json:"fetched_at"`
}

// FetchDashboard fetches the price listing and refresh status
// concurrently. A listing failure is fatal, since the dashboard never
// renders without a dataset, but a missing refresh status only means
// no freshness banner.
func (a *Aggregator) FetchDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{FetchedAt: time.Now().UTC()}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		prices, err := a.backend.GetPrices(gctx)
		if err != nil {
			return err // fatal
		}
		data.Prices = prices
		return nil
	})

	g.Go(func() error {
		status, err := a.backend.GetRefreshStatus(gctx)
		if err != nil {
			log.Printf("[WARN] refresh status unavailable: %v", err)
			return nil // non-fatal
		}
		data.LastUpdated = status.LastUpdated
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// FetchCoinPage aggregates the detail record, 30-day history, and
// recent news for one symbol. The record is mandatory (an unknown
// symbol surfaces ErrCoinNotFound); history and news degrade to empty
// when their sources fail.
func (a *Aggregator) FetchCoinPage(ctx context.Context, symbol string) (*models.CoinPage, error) {
	coin, err := a.backend.GetCoin(ctx, symbol)
	if err != nil {
		return nil, err
	}

	page := &models.CoinPage{
		Coin:      *coin,
		FetchedAt: time.Now().UTC(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		history, err := a.gecko.GetHistory(gctx, coinGeckoID(*coin), a.historyDays)
		if err != nil {
			log.Printf("[WARN] history unavailable for %s: %v", coin.Symbol, err)
			return nil // non-fatal: the page renders without a chart
		}
		page.History = history
		return nil
	})

	g.Go(func() error {
		news, err := a.FetchCoinNews(gctx, coin.Symbol, coin.Name, a.newsLimit)
		if err != nil {
			log.Printf("[WARN] news unavailable for %s: %v", coin.Symbol, err)
			return nil // non-fatal
		}
		page.News = news
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

// FetchCoinNews tries NewsData.io first and falls back to the RSS feeds.
func (a *Aggregator) FetchCoinNews(ctx context.Context, symbol, name string, limit int) ([]models.NewsArticle, error) {
	news, err := a.newsdata.GetNews(ctx, symbol, name, limit)
	if err == nil {
		return news, nil
	}
	if !errors.Is(err, ErrMissingAPIKey) {
		log.Printf("[WARN] NewsData.io failed for %s, falling back to RSS: %v", symbol, err)
	}
	return a.rss.GetNews(ctx, symbol, name, limit)
}

// FetchMarketNews returns market-wide headlines from the RSS feeds.
func (a *Aggregator) FetchMarketNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	if limit <= 0 {
		limit = a.newsLimit
	}
	return a.rss.GetMarketNews(ctx, limit)
}

// coinGeckoID resolves the CoinGecko coin id for a record, falling back
// to the lower-cased symbol when the backend did not supply one.
func coinGeckoID(coin models.CryptoPrice) string {
	if coin.CoinGeckoID != "" {
		return coin.CoinGeckoID
	}
	return strings.ToLower(coin.Symbol)
}
