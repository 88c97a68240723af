package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/guptarohit/asciigraph"
)

const chartTitle = "$MNM PRICE CHART"

// Renderer draws a View as plain text.
type Renderer struct {
	Width  int
	Height int
	// HideUnlisted applies the home page rule: without a price only the
	// header and token status are drawn.
	HideUnlisted bool
}

func (r Renderer) Render(w io.Writer, v View) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%-24s%16s\n", chartTitle, v.Price)
	fmt.Fprintf(&b, "%-24s%16s\n", "Live Price Data", v.Change)

	if v.ShowChart || !r.HideUnlisted {
		b.WriteString(rangeBar(v.Range))
		b.WriteString("\n\n")
		r.writeChart(&b, v)
		b.WriteString("\n")
		fmt.Fprintf(&b, "24H VOLUME: %-16s MARKET CAP: %s\n", v.Volume, v.MarketCap)
	}

	if v.StatusMessage != "" {
		b.WriteString("\nToken Status\n")
		b.WriteString(v.StatusMessage + "\n")
		if v.StatusSource != "" {
			b.WriteString("Checking: " + v.StatusSource + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r Renderer) writeChart(b *strings.Builder, v View) {
	switch v.Chart {
	case ChartLoading:
		b.WriteString("Loading chart data...\n")
	case ChartEmpty:
		b.WriteString(v.EmptyTitle + "\n")
		b.WriteString(v.EmptyMessage + "\n")
		if v.Contract != "" {
			b.WriteString("Contract: " + v.Contract + "\n")
		}
	case ChartSeries:
		b.WriteString(r.plot(v.Points))
		b.WriteString("\n")
		last := v.Points[len(v.Points)-1]
		b.WriteString(FormatTooltip(last) + "\n")
	}
}

func (r Renderer) plot(points []ChartPoint) string {
	series := make([]float64, len(points))
	for i, p := range points {
		series[i] = p.Price
	}
	if len(series) == 1 {
		series = append(series, series[0])
	}

	opts := []asciigraph.Option{
		asciigraph.Precision(6),
		asciigraph.Caption(fmt.Sprintf("%s .. %s", points[0].Label, points[len(points)-1].Label)),
	}
	if r.Height > 0 {
		opts = append(opts, asciigraph.Height(r.Height))
	}
	if r.Width > 0 {
		opts = append(opts, asciigraph.Width(r.Width))
	}
	return asciigraph.Plot(series, opts...)
}

// FormatTooltip is the hover text for one chart point.
func FormatTooltip(p ChartPoint) string {
	return fmt.Sprintf("%s\nPrice: $%.6f", p.Label, p.Price)
}

func rangeBar(selected int) string {
	parts := make([]string, len(Ranges))
	for i, rg := range Ranges {
		if rg.Days == selected {
			parts[i] = "[" + rg.Label + "]"
		} else {
			parts[i] = " " + rg.Label + " "
		}
	}
	return strings.Join(parts, " ")
}
