// Package report renders SVG charts for CryptoPulse pages.
// Charts are generated in pure Go and inlined into the HTML templates,
// so the dashboard works without any client-side charting library.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/uqurreshi34-dev/cryptopulse-frontend/pkg/models"
	"github.com/uqurreshi34-dev/cryptopulse-frontend/pkg/utils"
)

const (
	trendUpColor   = "#16a34a"
	trendDownColor = "#dc2626"
)

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int    // SVG width in pixels (default: 800)
	Height       int    // SVG height in pixels (default: 360)
	MarginTop    int    // top margin (default: 40)
	MarginRight  int    // right margin (default: 30)
	MarginBottom int    // bottom margin (default: 50)
	MarginLeft   int    // left margin (default: 90)
	BgColor      string // background color (default: "#ffffff")
	GridColor    string // grid line color (default: "#e8e8e8")
	TextColor    string // axis label color (default: "#333333")
	FontSize     int    // axis label font size (default: 11)
	Title        string // chart title
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        800,
		Height:       360,
		MarginTop:    40,
		MarginRight:  30,
		MarginBottom: 50,
		MarginLeft:   90,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// PriceChart generates an SVG line chart of a coin's price history.
// The line and area fill are colored by overall trend: green when the
// last price is at or above the first, red otherwise.
func PriceChart(points []models.PricePoint, cfg ChartConfig) string {
	if len(points) == 0 {
		return emptySVG(cfg, "No price history available")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Price History"
	}

	px, py, pw, ph := cfg.plotArea()

	minPrice, maxPrice := points[0].PriceUSD, points[0].PriceUSD
	for _, p := range points {
		if p.PriceUSD < minPrice {
			minPrice = p.PriceUSD
		}
		if p.PriceUSD > maxPrice {
			maxPrice = p.PriceUSD
		}
	}
	// Add 5% padding
	priceRange := maxPrice - minPrice
	if priceRange < 1e-9 {
		priceRange = math.Abs(maxPrice)
		if priceRange < 1e-9 {
			priceRange = 1
		}
	}
	minPrice -= priceRange * 0.05
	maxPrice += priceRange * 0.05
	priceRange = maxPrice - minPrice

	lineColor := trendUpColor
	if points[len(points)-1].PriceUSD < points[0].PriceUSD {
		lineColor = trendDownColor
	}

	n := len(points)
	pointX := func(i int) float64 {
		if n == 1 {
			return float64(px) + float64(pw)/2
		}
		return float64(px) + float64(i)*float64(pw)/float64(n-1)
	}
	priceToY := func(p float64) float64 {
		ratio := (p - minPrice) / priceRange
		return float64(py+ph) - ratio*float64(ph)
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))

	// Background
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))

	// Title
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="22" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Y-axis grid lines and price labels
	gridLines := 5
	for i := 0; i <= gridLines; i++ {
		price := minPrice + priceRange*float64(i)/float64(gridLines)
		y := py + ph - int(float64(ph)*float64(i)/float64(gridLines))
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-6, y+4, cfg.FontSize, cfg.TextColor, utils.FormatUSD(price)))
	}

	// Line path and area fill
	var pathParts []string
	for i, p := range points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, pointX(i), priceToY(p.PriceUSD)))
	}
	line := strings.Join(pathParts, " ")

	if n > 1 {
		area := fmt.Sprintf("%s L%.1f,%d L%.1f,%d Z", line, pointX(n-1), py+ph, pointX(0), py+ph)
		sb.WriteString(fmt.Sprintf(`<path d="%s" fill="%s" opacity="0.12"/>`, area, lineColor))
	}
	sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="2"/>`,
		line, lineColor))

	// Last-price marker
	lastX, lastY := pointX(n-1), priceToY(points[n-1].PriceUSD)
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3.5" fill="%s"/>`, lastX, lastY, lineColor))

	// X-axis date labels
	labelInterval := n / 6
	if labelInterval < 1 {
		labelInterval = 1
	}
	for i := 0; i < n; i += labelInterval {
		label := points[i].Timestamp.Format("02 Jan")
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			pointX(i), py+ph+18, cfg.FontSize-1, cfg.TextColor, label))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Sparkline generates a small inline SVG trend line for table rows.
// It carries no axes or labels, just the shape of the series.
func Sparkline(points []models.PricePoint, width, height int) string {
	if width == 0 {
		width = 120
	}
	if height == 0 {
		height = 32
	}
	if len(points) < 2 {
		return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"></svg>`, width, height)
	}

	minPrice, maxPrice := points[0].PriceUSD, points[0].PriceUSD
	for _, p := range points {
		if p.PriceUSD < minPrice {
			minPrice = p.PriceUSD
		}
		if p.PriceUSD > maxPrice {
			maxPrice = p.PriceUSD
		}
	}
	priceRange := maxPrice - minPrice
	if priceRange < 1e-9 {
		priceRange = 1
	}

	color := trendUpColor
	if points[len(points)-1].PriceUSD < points[0].PriceUSD {
		color = trendDownColor
	}

	n := len(points)
	pad := 2.0
	var pathParts []string
	for i, p := range points {
		x := pad + float64(i)*(float64(width)-2*pad)/float64(n-1)
		ratio := (p.PriceUSD - minPrice) / priceRange
		y := float64(height) - pad - ratio*(float64(height)-2*pad)
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, x, y))
	}

	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d"><path d="%s" fill="none" stroke="%s" stroke-width="1.5"/></svg>`,
		width, height, width, height, strings.Join(pathParts, " "), color)
}

// ChangePct returns the percentage change across a price series,
// NaN when the series is too short or starts at zero.
func ChangePct(points []models.PricePoint) float64 {
	if len(points) < 2 || points[0].PriceUSD == 0 {
		return math.NaN()
	}
	first, last := points[0].PriceUSD, points[len(points)-1].PriceUSD
	return (last - first) / first * 100
}

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
