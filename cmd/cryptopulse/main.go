// CryptoPulse is a crypto price dashboard served from a single binary.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/uqurreshi34-dev/cryptopulse-frontend/api"
	"github.com/uqurreshi34-dev/cryptopulse-frontend/internal/config"
	"github.com/uqurreshi34-dev/cryptopulse-frontend/internal/dashboard"
	"github.com/uqurreshi34-dev/cryptopulse-frontend/internal/datasource"
	"github.com/uqurreshi34-dev/cryptopulse-frontend/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cryptopulse",
	Short: "CryptoPulse — crypto price dashboard",
	Long: `CryptoPulse
A crypto price dashboard server: filterable, sortable price listing
with shareable URLs, per-coin detail pages with 30-day charts and news,
and a JSON API over the same data.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(coinCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("CryptoPulse %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (dashboard + API server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard and API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		api.Version = version

		srv, err := api.NewServer(cfg)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 CryptoPulse listening on http://%s\n", addr)
		fmt.Printf("   Dashboard: http://%s/crypto/prices\n", addr)
		fmt.Printf("   API:       http://%s/api/v1/prices\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Prices Command ---

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Print the filtered, sorted price listing",
	Long: `Fetch the price listing and print it with the same filter and sort
rules as the dashboard page.

Examples:
  cryptopulse prices
  cryptopulse prices --search bit --sort market_cap
  cryptopulse prices --min-price 100 --min-market-cap-b 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria := dashboard.DefaultCriteria()
		criteria.Search, _ = cmd.Flags().GetString("search")
		if cmd.Flags().Changed("min-price") {
			mp, _ := cmd.Flags().GetFloat64("min-price")
			criteria.MinPrice = &mp
		}
		criteria.MinMarketCapB, _ = cmd.Flags().GetFloat64("min-market-cap-b")
		sortFlag, _ := cmd.Flags().GetString("sort")
		criteria.Sort = dashboard.ParseSortKey(sortFlag)

		agg := newAggregator()
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		snap, err := agg.FetchDashboard(ctx)
		if err != nil {
			return fmt.Errorf("fetch prices: %w", err)
		}

		view := dashboard.Derive(snap.Prices, criteria)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SYMBOL\tNAME\tPRICE\tMARKET CAP")
		for _, coin := range view {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				coin.Symbol, coin.Name,
				utils.FormatUSD(coin.PriceUSD.Float64()),
				utils.FormatUSDCompact(coin.MarketCap.Float64()))
		}
		w.Flush()

		fmt.Printf("\n%d of %d coins", len(view), len(snap.Prices))
		if snap.LastUpdated != nil {
			fmt.Printf(" · updated %s", utils.TimeAgo(*snap.LastUpdated, time.Now()))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	pricesCmd.Flags().String("search", "", "substring match on symbol or name")
	pricesCmd.Flags().Float64("min-price", 0, "minimum price in USD")
	pricesCmd.Flags().Float64("min-market-cap-b", 0, "minimum market cap in billions USD")
	pricesCmd.Flags().String("sort", string(dashboard.DefaultSort), "sort key: price, market_cap, name")
}

// --- Coin Command ---

var coinCmd = &cobra.Command{
	Use:   "coin [symbol]",
	Short: "Show detail, history summary, and news for one coin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := strings.ToUpper(args[0])

		agg := newAggregator()
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		page, err := agg.FetchCoinPage(ctx, symbol)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", symbol, err)
		}

		fmt.Printf("%s (%s)\n", page.Coin.Name, page.Coin.Symbol)
		fmt.Printf("  Price:      %s\n", utils.FormatUSD(page.Coin.PriceUSD.Float64()))
		fmt.Printf("  Market cap: %s\n", utils.FormatUSDCompact(page.Coin.MarketCap.Float64()))
		if len(page.History) > 1 {
			first := page.History[0].PriceUSD
			last := page.History[len(page.History)-1].PriceUSD
			if first != 0 {
				fmt.Printf("  %dd change: %s\n", cfg.Dashboard.HistoryDays, utils.FormatPct((last-first)/first*100))
			}
		}

		if len(page.News) > 0 {
			fmt.Println("\nLatest news:")
			for _, a := range page.News {
				fmt.Printf("  • %s (%s)\n    %s\n", a.Title, a.Source, a.URL)
			}
		}
		return nil
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and API key status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  CryptoPulse — Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:     %s (%s)\n", version, commit)
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    Backend:     %s\n", cfg.Sources.BackendURL)
		fmt.Printf("    CoinGecko:   %s\n", cfg.Sources.CoinGeckoURL)
		fmt.Printf("    NewsData:    %s\n", cfg.Sources.NewsDataURL)
		fmt.Printf("    Server:      %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Printf("    History:     %dd · News limit: %d\n", cfg.Dashboard.HistoryDays, cfg.Dashboard.NewsLimit)
		fmt.Println()

		// API keys status
		fmt.Println("  API Keys:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-22s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// newAggregator builds an aggregator from the loaded config.
func newAggregator() *datasource.Aggregator {
	feeds := make([]datasource.NewsFeed, 0, len(cfg.Sources.RSSFeeds))
	for _, u := range cfg.Sources.RSSFeeds {
		feeds = append(feeds, datasource.NewsFeed{Name: u, URL: u})
	}
	return datasource.NewAggregator(datasource.AggregatorConfig{
		BackendURL:   cfg.Sources.BackendURL,
		CoinGeckoURL: cfg.Sources.CoinGeckoURL,
		CoinGeckoKey: cfg.Sources.CoinGeckoKey,
		NewsDataURL:  cfg.Sources.NewsDataURL,
		NewsDataKey:  cfg.Sources.NewsDataKey,
		NewsFeeds:    feeds,
		HistoryDays:  cfg.Dashboard.HistoryDays,
		NewsLimit:    cfg.Dashboard.NewsLimit,
	})
}
