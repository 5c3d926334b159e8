// Server-rendered HTML pages.
package api

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/uqurreshi34-dev/cryptopulse-frontend/internal/dashboard"
	"github.com/uqurreshi34-dev/cryptopulse-frontend/internal/datasource"
	"github.com/uqurreshi34-dev/cryptopulse-frontend/internal/report"
	"github.com/uqurreshi34-dev/cryptopulse-frontend/pkg/models"
	"github.com/uqurreshi34-dev/cryptopulse-frontend/pkg/utils"
)

// pageRenderer holds the parsed page templates. Each page is parsed
// together with the shared layout so "content" blocks do not collide.
type pageRenderer struct {
	dashboard *template.Template
	coin      *template.Template
	notFound  *template.Template
}

func newPageRenderer(fsys fs.FS) (*pageRenderer, error) {
	funcs := template.FuncMap{
		"usd":     utils.FormatUSD,
		"usdc":    utils.FormatUSDCompact,
		"pct":     utils.FormatPct,
		"timeago": func(t time.Time) string { return utils.TimeAgo(t, time.Now()) },
	}

	parse := func(page string) (*template.Template, error) {
		return template.New("layout.html").Funcs(funcs).ParseFS(fsys, "layout.html", page)
	}

	r := &pageRenderer{}
	var err error
	if r.dashboard, err = parse("dashboard.html"); err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	if r.coin, err = parse("coin.html"); err != nil {
		return nil, fmt.Errorf("parse coin template: %w", err)
	}
	if r.notFound, err = parse("notfound.html"); err != nil {
		return nil, fmt.Errorf("parse notfound template: %w", err)
	}
	return r, nil
}

func (p *pageRenderer) render(w http.ResponseWriter, status int, tmpl *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("failed to render page: %v", err)
	}
}

// ============================================================
// Page view models
// ============================================================

type bannerView struct {
	Visible       bool
	AgeSeconds    int
	WindowSeconds int
	UpdatedAgo    string
}

type sortURLs struct {
	Name      string
	Price     string
	MarketCap string
}

type dashboardPageData struct {
	Title             string
	Criteria          dashboard.Criteria
	MinPriceValue     string
	MinMarketCapValue string
	Rows              []models.CryptoPrice
	Total             int
	LastUpdated       time.Time
	Banner            bannerView
	SortURL           sortURLs
}

type coinPageData struct {
	Title       string
	Coin        models.CryptoPrice
	HistoryDays int
	ChangePct   float64
	ChartSVG    template.HTML
	News        []models.NewsArticle
	FetchedAt   time.Time
}

type notFoundPageData struct {
	Title  string
	Symbol string
}

// ============================================================
// Page handlers
// ============================================================

func (s *Server) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		http.Error(w, "price data unavailable: "+err.Error(), http.StatusBadGateway)
		return
	}
	s.observeRefresh(snap)

	criteria := dashboard.ParseQuery(r.URL.Query())
	view := dashboard.Derive(snap.Prices, criteria)

	data := dashboardPageData{
		Title:    "Prices",
		Criteria: criteria,
		Rows:     view,
		Total:    len(snap.Prices),
		Banner:   s.bannerView(snap.LastUpdated),
		SortURL:  sortLinks(criteria),
	}
	if criteria.MinPrice != nil {
		data.MinPriceValue = strconv.FormatFloat(*criteria.MinPrice, 'f', -1, 64)
	}
	if criteria.MinMarketCapB > 0 {
		data.MinMarketCapValue = strconv.FormatFloat(criteria.MinMarketCapB, 'f', -1, 64)
	}
	if snap.LastUpdated != nil {
		data.LastUpdated = *snap.LastUpdated
	}

	s.pages.render(w, http.StatusOK, s.pages.dashboard, data)
}

func (s *Server) handleCoinPage(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	page, err := s.agg.FetchCoinPage(ctx, symbol)
	if err != nil {
		if errors.Is(err, datasource.ErrCoinNotFound) {
			s.pages.render(w, http.StatusNotFound, s.pages.notFound, notFoundPageData{
				Title:  "Not found",
				Symbol: symbol,
			})
			return
		}
		http.Error(w, "coin data unavailable: "+err.Error(), http.StatusBadGateway)
		return
	}

	cfg := report.DefaultChartConfig()
	cfg.Title = fmt.Sprintf("%s / USD — last %d days", page.Coin.Symbol, s.cfg.Dashboard.HistoryDays)

	s.pages.render(w, http.StatusOK, s.pages.coin, coinPageData{
		Title:       page.Coin.Symbol,
		Coin:        page.Coin,
		HistoryDays: s.cfg.Dashboard.HistoryDays,
		ChangePct:   report.ChangePct(page.History),
		ChartSVG:    template.HTML(report.PriceChart(page.History, cfg)),
		News:        page.News,
		FetchedAt:   page.FetchedAt,
	})
}

// bannerView decides whether the freshness banner renders and how long
// the client should keep it before the timestamp ages out of the window.
func (s *Server) bannerView(lastUpdated *time.Time) bannerView {
	window := time.Duration(s.cfg.Dashboard.FreshnessWindowSec) * time.Second
	if lastUpdated == nil {
		return bannerView{}
	}
	age := time.Since(*lastUpdated)
	if age < 0 {
		age = 0
	}
	if age >= window {
		return bannerView{}
	}
	return bannerView{
		Visible:       true,
		AgeSeconds:    int(age.Seconds()),
		WindowSeconds: s.cfg.Dashboard.FreshnessWindowSec,
		UpdatedAgo:    utils.TimeAgo(*lastUpdated, time.Now()),
	}
}

// sortLinks builds the canonical column-header URLs: each keeps the
// current filters and swaps only the sort key.
func sortLinks(c dashboard.Criteria) sortURLs {
	link := func(key dashboard.SortKey) string {
		c2 := c
		c2.Sort = key
		return "/crypto/prices?" + c2.QueryString()
	}
	return sortURLs{
		Name:      link(dashboard.SortByName),
		Price:     link(dashboard.SortByPrice),
		MarketCap: link(dashboard.SortByMarketCap),
	}
}
