// Package api provides the HTTP server for CryptoPulse.
//
// It serves the server-rendered dashboard pages (coin listing and
// per-coin detail) and a JSON API mirroring the same data: prices,
// per-coin aggregates, price history, news, and refresh status.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/uqurreshi34-dev/cryptopulse-frontend/internal/config"
	"github.com/uqurreshi34-dev/cryptopulse-frontend/internal/dashboard"
	"github.com/uqurreshi34-dev/cryptopulse-frontend/internal/datasource"
	"github.com/uqurreshi34-dev/cryptopulse-frontend/web"
)

// Version is the build version, overridden at link time.
var Version = "dev"

// Server is the CryptoPulse HTTP server.
type Server struct {
	router    chi.Router
	cfg       *config.Config
	agg       *datasource.Aggregator
	snapshots *snapshotStore
	fresh     *dashboard.FreshnessController
	pages     *pageRenderer
	serveUI   bool // when true, serve the HTML pages and static assets
}

// NewServer creates a configured server with all routes and middleware.
func NewServer(cfg *config.Config) (*Server, error) {
	agg := datasource.NewAggregator(datasource.AggregatorConfig{
		BackendURL:   cfg.Sources.BackendURL,
		CoinGeckoURL: cfg.Sources.CoinGeckoURL,
		CoinGeckoKey: cfg.Sources.CoinGeckoKey,
		NewsDataURL:  cfg.Sources.NewsDataURL,
		NewsDataKey:  cfg.Sources.NewsDataKey,
		NewsFeeds:    newsFeeds(cfg.Sources.RSSFeeds),
		HistoryDays:  cfg.Dashboard.HistoryDays,
		NewsLimit:    cfg.Dashboard.NewsLimit,
	})

	pages, err := newPageRenderer(web.TemplatesFS())
	if err != nil {
		return nil, fmt.Errorf("template setup failed: %w", err)
	}

	window := time.Duration(cfg.Dashboard.FreshnessWindowSec) * time.Second
	srv := &Server{
		cfg:       cfg,
		agg:       agg,
		snapshots: newSnapshotStore(agg, time.Duration(cfg.Dashboard.SnapshotTTLSec)*time.Second),
		fresh:     dashboard.NewFreshnessController(window),
		pages:     pages,
		serveUI:   true,
	}

	srv.router = srv.buildRouter()
	return srv, nil
}

// SetServeUI controls whether the HTML pages and static assets are served.
// Must be called before ListenAndServe.
func (s *Server) SetServeUI(enabled bool) {
	s.serveUI = enabled
	s.router = s.buildRouter()
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")
	s.fresh.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Listing (accepts the same query params as the dashboard page)
		r.Get("/prices", s.handlePrices)

		// Per-coin data
		r.Get("/coin/{symbol}", s.handleCoin)
		r.Get("/coin/{symbol}/history", s.handleCoinHistory)
		r.Get("/coin/{symbol}/news", s.handleCoinNews)

		// Market-wide news from the RSS feeds
		r.Get("/news", s.handleMarketNews)

		// Refresh status
		r.Get("/refresh-status", s.handleRefreshStatus)

		// Configuration
		r.Get("/config/keys", s.handleConfigKeys)
	})

	// Server-rendered pages + static assets
	if s.serveUI {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/crypto/prices", http.StatusFound)
		})
		r.Get("/crypto/prices", s.handleDashboardPage)
		r.Get("/crypto/{symbol}", s.handleCoinPage)
		staticHandler := http.StripPrefix("/static/", http.FileServerFS(web.StaticFS()))
		r.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			staticHandler.ServeHTTP(w, r)
		})
	}

	return r
}

// ============================================================
// Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PricesResponse is the payload for GET /api/v1/prices.
type PricesResponse struct {
	Coins       interface{} `json:"coins"`
	Total       int         `json:"total"`
	Matched     int         `json:"matched"`
	Query       string      `json:"query"`
	LastUpdated interface{} `json:"last_updated"`
}

// RefreshStatusResponse is the payload for GET /api/v1/refresh-status.
type RefreshStatusResponse struct {
	LastUpdated interface{} `json:"last_updated"`
	Fresh       bool        `json:"fresh"`
}

// ============================================================
// JSON handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": Version,
			"sources": s.agg.Sources(),
		},
	})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.observeRefresh(snap)

	criteria := dashboard.ParseQuery(r.URL.Query())
	view := dashboard.Derive(snap.Prices, criteria)

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: PricesResponse{
			Coins:       view,
			Total:       len(snap.Prices),
			Matched:     len(view),
			Query:       criteria.QueryString(),
			LastUpdated: snap.LastUpdated,
		},
	})
}

func (s *Server) handleCoin(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	page, err := s.agg.FetchCoinPage(ctx, symbol)
	if err != nil {
		if errors.Is(err, datasource.ErrCoinNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("coin %q not found", symbol))
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    page,
	})
}

func (s *Server) handleCoinHistory(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	page, err := s.agg.FetchCoinPage(ctx, symbol)
	if err != nil {
		if errors.Is(err, datasource.ErrCoinNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("coin %q not found", symbol))
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    page.History,
	})
}

func (s *Server) handleCoinNews(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	coin, err := s.agg.Backend().GetCoin(ctx, symbol)
	if err != nil {
		if errors.Is(err, datasource.ErrCoinNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("coin %q not found", symbol))
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	articles, err := s.agg.FetchCoinNews(ctx, coin.Symbol, coin.Name, s.cfg.Dashboard.NewsLimit)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    articles,
	})
}

func (s *Server) handleMarketNews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	articles, err := s.agg.FetchMarketNews(ctx, s.cfg.Dashboard.NewsLimit)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    articles,
	})
}

func (s *Server) handleRefreshStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.observeRefresh(snap)

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: RefreshStatusResponse{
			LastUpdated: snap.LastUpdated,
			Fresh:       s.fresh.Visible(),
		},
	})
}

func (s *Server) handleConfigKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    config.CheckAPIKeys(s.cfg),
	})
}

// newsFeeds converts configured feed URLs into datasource feeds.
// An empty list keeps the built-in defaults.
func newsFeeds(urls []string) []datasource.NewsFeed {
	feeds := make([]datasource.NewsFeed, 0, len(urls))
	for _, u := range urls {
		feeds = append(feeds, datasource.NewsFeed{Name: u, URL: u})
	}
	return feeds
}

// observeRefresh feeds the backend refresh timestamp into the freshness
// state machine. Repeat observations of the same timestamp are no-ops.
func (s *Server) observeRefresh(snap *datasource.DashboardData) {
	s.fresh.Observe(snap.LastUpdated)
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
