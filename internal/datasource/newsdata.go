package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/uqurreshi34-dev/cryptopulse-frontend/pkg/models"
)

// DefaultNewsDataURL is the NewsData.io API endpoint.
const DefaultNewsDataURL = "https://newsdata.io"

// NewsData fetches coin news from the NewsData.io crypto endpoint.
// Requires an API key (free tier is sufficient).
type NewsData struct {
	baseURL string
	apiKey  string
	cache   *Cache
	limiter *RateLimiter
}

// NewNewsData creates a NewsData.io client. An empty baseURL uses the
// hosted API.
func NewNewsData(baseURL, apiKey string) *NewsData {
	if baseURL == "" {
		baseURL = DefaultNewsDataURL
	}
	return &NewsData{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		cache:   NewCache(10 * time.Minute),
		limiter: NewRateLimiter(1, time.Second),
	}
}

// Name returns the data source name.
func (n *NewsData) Name() string { return "NewsData.io" }

// newsDataResponse mirrors the relevant part of the NewsData.io payload.
type newsDataResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Description string `json:"description"`
		PubDate     string `json:"pubDate"`
		SourceID    string `json:"source_id"`
		SourceName  string `json:"source_name"`
	} `json:"results"`
}

// GetNews returns recent English-language articles about the coin,
// queried by upper-cased symbol. Fails with ErrMissingAPIKey when no
// key is configured, which the aggregator treats as "try the fallback".
func (n *NewsData) GetNews(ctx context.Context, symbol, _ string, limit int) ([]models.NewsArticle, error) {
	if n.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if limit <= 0 {
		limit = 5
	}

	q := strings.ToUpper(symbol)
	cacheKey := fmt.Sprintf("news:%s:%d", q, limit)
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("apikey", n.apiKey)
	params.Set("q", q)
	params.Set("size", fmt.Sprintf("%d", limit))
	params.Set("language", "en")

	body, err := doGet(ctx, n.baseURL+"/api/1/crypto?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsdata %s: %w", q, err)
	}
	defer body.Close()

	var resp newsDataResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode newsdata %s: %w", q, err)
	}

	articles := make([]models.NewsArticle, 0, len(resp.Results))
	for _, item := range resp.Results {
		source := item.SourceName
		if source == "" {
			source = item.SourceID
		}
		articles = append(articles, models.NewsArticle{
			Title:       item.Title,
			URL:         item.Link,
			Source:      source,
			Summary:     cleanHTML(item.Description),
			PublishedAt: parseNewsDataTime(item.PubDate),
		})
	}

	n.cache.Set(cacheKey, articles)
	return articles, nil
}

// parseNewsDataTime handles NewsData's "2006-01-02 15:04:05" form plus
// RFC 3339 just in case. Unparsable dates become the zero time rather
// than dropping the article.
func parseNewsDataTime(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// GetPrices is not supported by the news source.
func (n *NewsData) GetPrices(_ context.Context) ([]models.CryptoPrice, error) {
	return nil, ErrNotSupported
}

// GetCoin is not supported by the news source.
func (n *NewsData) GetCoin(_ context.Context, _ string) (*models.CryptoPrice, error) {
	return nil, ErrNotSupported
}

// GetHistory is not supported by the news source.
func (n *NewsData) GetHistory(_ context.Context, _ string, _ int) ([]models.PricePoint, error) {
	return nil, ErrNotSupported
}
