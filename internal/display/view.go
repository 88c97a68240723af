package display

import (
	"fmt"
	"time"

	"github.com/kjannette/mnm-price/internal/models"
	"github.com/kjannette/mnm-price/internal/token"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	placeholder  = "..."
	notListed    = "Not Listed"
	notAvailable = "N/A"

	DefaultEmptyTitle   = "Chart Data Not Available"
	DefaultEmptyMessage = "This token is not yet listed on price tracking services. Chart data will appear once indexed by exchanges."
)

// Range is one selectable history window.
type Range struct {
	Label string
	Days  int
}

var Ranges = []Range{
	{Label: "1D", Days: 1},
	{Label: "7D", Days: 7},
	{Label: "30D", Days: 30},
}

func ValidRange(days int) bool {
	for _, r := range Ranges {
		if r.Days == days {
			return true
		}
	}
	return false
}

// RangeLabel returns the selector label for days, or "{days}D".
func RangeLabel(days int) string {
	for _, r := range Ranges {
		if r.Days == days {
			return r.Label
		}
	}
	return fmt.Sprintf("%dD", days)
}

// State is everything the widget knows at one moment. A nil Price or History
// means nothing has been received yet.
type State struct {
	Range          int
	Price          *models.PriceSnapshot
	PriceLoading   bool
	History        *models.HistoryResult
	HistoryLoading bool
	Location       *time.Location
}

type ChartState int

const (
	ChartLoading ChartState = iota
	ChartEmpty
	ChartSeries
)

func (c ChartState) String() string {
	switch c {
	case ChartLoading:
		return "loading"
	case ChartEmpty:
		return "empty"
	default:
		return "series"
	}
}

type ChartPoint struct {
	Label  string
	Price  float64
	Volume float64
}

// View is the fully formatted widget content.
type View struct {
	Price          string
	Change         string
	ChangePositive bool
	Volume         string
	MarketCap      string

	Range        int
	Chart        ChartState
	EmptyTitle   string
	EmptyMessage string
	Contract     string
	Points       []ChartPoint

	// StatusMessage is set when the snapshot carries both error and message.
	StatusMessage string
	StatusSource  string

	// ShowChart is false when no price is available at all.
	ShowChart bool
}

var printer = message.NewPrinter(language.AmericanEnglish)

// BuildView formats s for display. It has no side effects.
func BuildView(s State) View {
	v := View{Range: s.Range, ChangePositive: true}

	snap := s.Price
	if snap == nil {
		snap = &models.PriceSnapshot{}
	}

	if s.PriceLoading {
		v.Price, v.Change, v.Volume, v.MarketCap = placeholder, placeholder, placeholder, placeholder
	} else {
		v.Price = formatPrice(snap.Price)
		v.Change = formatChange(snap.Change24h)
		v.Volume = formatMoney(snap.Volume24h)
		v.MarketCap = formatMoney(snap.MarketCap)
	}
	if snap.Change24h.Valid && snap.Change24h.Decimal.IsNegative() {
		v.ChangePositive = false
	}

	if snap.Error != "" && snap.Message != "" {
		v.StatusMessage = snap.Message
		v.StatusSource = snap.Source
	}
	v.ShowChart = s.Price != nil && snap.Price.Valid

	if s.HistoryLoading {
		v.Chart = ChartLoading
		return v
	}

	var history models.HistoryResult
	if s.History != nil {
		history = *s.History
	}
	points, errText, msg := Normalize(history)
	if errText != "" || len(points) == 0 {
		v.Chart = ChartEmpty
		v.EmptyTitle = orDefault(errText, DefaultEmptyTitle)
		v.EmptyMessage = orDefault(msg, DefaultEmptyMessage)
		if snap.ContractAddress != "" {
			v.Contract = token.Short(snap.ContractAddress)
		}
		return v
	}

	v.Chart = ChartSeries
	v.Points = chartPoints(points, s.Range, s.Location)
	return v
}

func chartPoints(points []models.HistoryPoint, days int, loc *time.Location) []ChartPoint {
	if loc == nil {
		loc = time.Local
	}
	layout := "Jan 2"
	if days <= 1 {
		layout = "Jan 2, 03 PM"
	}
	out := make([]ChartPoint, len(points))
	for i, p := range points {
		out[i] = ChartPoint{
			Label:  p.Timestamp.In(loc).Format(layout),
			Price:  p.Price.InexactFloat64(),
			Volume: p.Volume.InexactFloat64(),
		}
	}
	return out
}

func formatPrice(p decimal.NullDecimal) string {
	if !p.Valid || p.Decimal.IsZero() {
		return notListed
	}
	return "$" + p.Decimal.StringFixed(6)
}

func formatChange(c decimal.NullDecimal) string {
	if !c.Valid {
		return notAvailable
	}
	// Rounding can reach zero; the sign still follows the raw value.
	if c.Decimal.IsNegative() {
		return "-" + c.Decimal.Abs().StringFixed(2) + "%"
	}
	return "+" + c.Decimal.StringFixed(2) + "%"
}

// formatMoney renders en-US grouped dollars with at most three fraction
// digits. Null and zero are not shown.
func formatMoney(d decimal.NullDecimal) string {
	if !d.Valid || d.Decimal.IsZero() {
		return notAvailable
	}
	return "$" + printer.Sprint(number.Decimal(d.Decimal.InexactFloat64(), number.MaxFractionDigits(3)))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
