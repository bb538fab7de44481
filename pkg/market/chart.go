package market

import (
	"fmt"
	"strings"
	"time"

	"marketbrief/internal/model"
)

const DefaultChartTitle = "Stock Price Chart"

// ChartConfig holds rendering parameters for the SVG line chart.
type ChartConfig struct {
	Width        int
	Height       int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	MarginLeft   int
	LineColor    string
	GridColor    string
	TextColor    string
	FontSize     int
	Title        string
}

func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        800,
		Height:       400,
		MarginTop:    40,
		MarginRight:  30,
		MarginBottom: 60,
		MarginLeft:   70,
		LineColor:    "#1f77b4",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
		Title:        DefaultChartTitle,
	}
}

func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// RenderLineChart draws closing prices over time with Date and Price axes.
func RenderLineChart(candles []model.Candle, title string) []byte {
	cfg := DefaultChartConfig()
	if title != "" {
		cfg.Title = title
	}
	return []byte(lineChart(candles, cfg))
}

func lineChart(candles []model.Candle, cfg ChartConfig) string {
	if len(candles) == 0 {
		return emptySVG(cfg, "No data available")
	}

	px, py, pw, ph := cfg.plotArea()

	minPrice, maxPrice := candles[0].Close, candles[0].Close
	for _, c := range candles {
		if c.Close < minPrice {
			minPrice = c.Close
		}
		if c.Close > maxPrice {
			maxPrice = c.Close
		}
	}
	priceRange := maxPrice - minPrice
	if priceRange < 0.01 {
		priceRange = 1
	}
	minPrice -= priceRange * 0.05
	maxPrice += priceRange * 0.05
	priceRange = maxPrice - minPrice

	n := len(candles)
	xAt := func(i int) float64 {
		if n == 1 {
			return float64(px) + float64(pw)/2
		}
		return float64(px) + float64(i)*float64(pw)/float64(n-1)
	}
	yAt := func(p float64) float64 {
		return float64(py+ph) - (p-minPrice)/priceRange*float64(ph)
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="#ffffff"/>`, cfg.Width, cfg.Height))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="24" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	gridLines := 5
	for i := 0; i <= gridLines; i++ {
		price := minPrice + priceRange*float64(i)/float64(gridLines)
		y := yAt(price)
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%.2f</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, price))
	}

	ticks := 6
	if n < ticks {
		ticks = n
	}
	for t := 0; t < ticks; t++ {
		i := 0
		if ticks > 1 {
			i = t * (n - 1) / (ticks - 1)
		}
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			xAt(i), py+ph+18, cfg.FontSize, cfg.TextColor, candles[i].Date.Format(time.DateOnly)))
	}

	points := make([]string, 0, n)
	for i, c := range candles {
		points = append(points, fmt.Sprintf("%.1f,%.1f", xAt(i), yAt(c.Close)))
	}
	sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="1.5" points="%s"/>`,
		cfg.LineColor, strings.Join(points, " ")))

	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>`, px, py+ph, px+pw, py+ph, cfg.TextColor))
	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>`, px, py, px, py+ph, cfg.TextColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="12" fill="%s" text-anchor="middle">Date</text>`,
		px+pw/2, cfg.Height-12, cfg.TextColor))
	sb.WriteString(fmt.Sprintf(`<text x="16" y="%d" font-size="12" fill="%s" text-anchor="middle" transform="rotate(-90 16 %d)">Price</text>`,
		py+ph/2, cfg.TextColor, py+ph/2))

	sb.WriteString("</svg>")
	return sb.String()
}

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
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
