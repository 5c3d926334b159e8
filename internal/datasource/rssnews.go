package datasource

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/uqurreshi34-dev/cryptopulse-frontend/pkg/models"
)

// NewsFeed is one crypto news RSS feed.
type NewsFeed struct {
	Name string
	URL  string
}

// DefaultCryptoFeeds lists the RSS feeds used when NewsData.io is
// unavailable or unconfigured.
var DefaultCryptoFeeds = []NewsFeed{
	{Name: "CoinDesk", URL: "https://www.coindesk.com/arc/outboundfeeds/rss/"},
	{Name: "Cointelegraph", URL: "https://cointelegraph.com/rss"},
	{Name: "Decrypt", URL: "https://decrypt.co/feed"},
	{Name: "Bitcoin Magazine", URL: "https://bitcoinmagazine.com/.rss/full/"},
}

// RSSNews is the fallback news source: public crypto RSS feeds filtered
// by coin keywords.
type RSSNews struct {
	feeds   []NewsFeed
	cache   *Cache
	limiter *RateLimiter
	parser  *gofeed.Parser
}

// NewRSSNews creates an RSS news source. A nil feeds slice uses the
// default feed set.
func NewRSSNews(feeds []NewsFeed) *RSSNews {
	if len(feeds) == 0 {
		feeds = DefaultCryptoFeeds
	}
	return &RSSNews{
		feeds:   feeds,
		cache:   NewCache(10 * time.Minute),
		limiter: NewRateLimiter(2, time.Second),
		parser:  gofeed.NewParser(),
	}
}

// Name returns the data source name.
func (r *RSSNews) Name() string { return "Crypto RSS" }

// GetMarketNews returns recent articles from all configured feeds,
// newest first. Failed feeds are skipped, not fatal.
func (r *RSSNews) GetMarketNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	cacheKey := fmt.Sprintf("rss:market:%d", limit)
	if cached, ok := r.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	var all []models.NewsArticle
	for _, feed := range r.feeds {
		articles, err := r.fetchFeed(ctx, feed)
		if err != nil {
			continue
		}
		all = append(all, articles...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	r.cache.Set(cacheKey, all)
	return all, nil
}

// GetNews returns feed articles that mention the coin's symbol or name.
func (r *RSSNews) GetNews(ctx context.Context, symbol, name string, limit int) ([]models.NewsArticle, error) {
	all, err := r.GetMarketNews(ctx, 0)
	if err != nil {
		return nil, err
	}

	keywords := coinKeywords(symbol, name)
	var filtered []models.NewsArticle
	for _, a := range all {
		if matchesAny(a.Title+" "+a.Summary, keywords) {
			filtered = append(filtered, a)
		}
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// fetchFeed parses one RSS feed into articles.
func (r *RSSNews) fetchFeed(ctx context.Context, feed NewsFeed) ([]models.NewsArticle, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	parsed, err := r.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", feed.Name, err)
	}

	articles := make([]models.NewsArticle, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		a := models.NewsArticle{
			Title:   item.Title,
			URL:     item.Link,
			Source:  feed.Name,
			Summary: cleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = item.PublishedParsed.UTC()
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// coinKeywords returns the lowercase search terms for a coin.
func coinKeywords(symbol, name string) []string {
	keywords := []string{strings.ToLower(symbol)}
	if name != "" {
		keywords = append(keywords, strings.ToLower(name))
	}
	return keywords
}

// matchesAny checks if text contains any of the keywords (case-insensitive).
func matchesAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// GetPrices is not supported by the RSS source.
func (r *RSSNews) GetPrices(_ context.Context) ([]models.CryptoPrice, error) {
	return nil, ErrNotSupported
}

// GetCoin is not supported by the RSS source.
func (r *RSSNews) GetCoin(_ context.Context, _ string) (*models.CryptoPrice, error) {
	return nil, ErrNotSupported
}

// GetHistory is not supported by the RSS source.
func (r *RSSNews) GetHistory(_ context.Context, _ string, _ int) ([]models.PricePoint, error) {
	return nil, ErrNotSupported
}
