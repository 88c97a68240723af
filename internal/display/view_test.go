package display

import (
	"testing"
	"time"

	"github.com/kjannette/mnm-price/internal/models"
	"github.com/kjannette/mnm-price/internal/token"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func series(days int, prices ...string) *models.HistoryResult {
	t0 := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	pts := make([]models.HistoryPoint, len(prices))
	for i, p := range prices {
		pts[i] = models.HistoryPoint{
			Timestamp: t0.Add(time.Duration(i) * 24 * time.Hour / time.Duration(days)),
			Price:     decimal.RequireFromString(p),
			Volume:    decimal.NewFromInt(int64(i)),
		}
	}
	r := models.HistorySeries(pts)
	return &r
}

func TestNormalize(t *testing.T) {
	pts, errText, msg := Normalize(*series(7, "1", "2"))
	assert.Len(t, pts, 2)
	assert.Empty(t, errText)
	assert.Empty(t, msg)

	pts, errText, msg = Normalize(models.HistoryNotIndexed(token.DefaultContractAddress))
	assert.NotNil(t, pts)
	assert.Empty(t, pts)
	assert.Equal(t, models.ErrHistoryUnavailable, errText)
	assert.Equal(t, models.MsgHistoryUnavailable, msg)

	pts, _, _ = Normalize(models.HistoryResult{})
	assert.NotNil(t, pts)
	assert.Empty(t, pts)
}

func TestBuildView_Loading(t *testing.T) {
	v := BuildView(State{Range: 7, PriceLoading: true, HistoryLoading: true})
	assert.Equal(t, "...", v.Price)
	assert.Equal(t, "...", v.Change)
	assert.Equal(t, "...", v.Volume)
	assert.Equal(t, "...", v.MarketCap)
	assert.Equal(t, ChartLoading, v.Chart)
	assert.False(t, v.ShowChart)
}

func TestBuildView_ListedWithSeries(t *testing.T) {
	snap := &models.PriceSnapshot{
		Price:     nd("0.00015"),
		Change24h: nd("3.2"),
		Volume24h: nd("1234567.891234"),
		MarketCap: nd("0"),
		Source:    "CoinGecko simple/price",
	}
	v := BuildView(State{Range: 7, Price: snap, History: series(1, "0.0001", "0.00015"), Location: time.UTC})

	assert.Equal(t, "$0.000150", v.Price)
	assert.Equal(t, "+3.20%", v.Change)
	assert.True(t, v.ChangePositive)
	assert.Equal(t, "$1,234,567.891", v.Volume)
	assert.Equal(t, "N/A", v.MarketCap)
	assert.True(t, v.ShowChart)
	assert.Empty(t, v.StatusMessage)

	require.Equal(t, ChartSeries, v.Chart)
	require.Len(t, v.Points, 2)
	assert.Equal(t, "Mar 1", v.Points[0].Label)
	assert.Equal(t, "Mar 2", v.Points[1].Label)
	assert.Equal(t, 0.00015, v.Points[1].Price)
}

func TestBuildView_OneDayLabelsIncludeHour(t *testing.T) {
	snap := &models.PriceSnapshot{Price: nd("1")}
	v := BuildView(State{Range: 1, Price: snap, History: series(24, "1", "2"), Location: time.UTC})

	require.Equal(t, ChartSeries, v.Chart)
	assert.Equal(t, "Mar 1, 03 PM", v.Points[0].Label)
	assert.Equal(t, "Mar 1, 04 PM", v.Points[1].Label)
}

func TestBuildView_NegativeChange(t *testing.T) {
	v := BuildView(State{Range: 7, Price: &models.PriceSnapshot{Price: nd("1"), Change24h: nd("-1.456")}})
	assert.Equal(t, "-1.46%", v.Change)
	assert.False(t, v.ChangePositive)

	v = BuildView(State{Range: 7, Price: &models.PriceSnapshot{Price: nd("1"), Change24h: nd("-0.001")}})
	assert.Equal(t, "-0.00%", v.Change, "tiny negative change keeps its sign after rounding")
	assert.False(t, v.ChangePositive)
}

func TestBuildView_WrappedHistoryShowsMessageNotChart(t *testing.T) {
	snap := models.Unlisted(token.DefaultContractAddress, time.Now())
	hist := models.HistoryNotIndexed(token.DefaultContractAddress)

	v := BuildView(State{Range: 1, Price: &snap, History: &hist})

	assert.Equal(t, "Not Listed", v.Price)
	assert.Equal(t, "N/A", v.Change)
	assert.Equal(t, "N/A", v.Volume)
	assert.Equal(t, ChartEmpty, v.Chart)
	assert.Empty(t, v.Points)
	assert.Equal(t, models.ErrHistoryUnavailable, v.EmptyTitle)
	assert.Equal(t, models.MsgHistoryUnavailable, v.EmptyMessage)
	assert.Equal(t, "0xefde5d...bb91022b", v.Contract)
	assert.Equal(t, models.MsgNotListed, v.StatusMessage)
	assert.Empty(t, v.StatusSource)
	assert.False(t, v.ShowChart)
}

func TestBuildView_EmptySeriesUsesDefaults(t *testing.T) {
	empty := models.HistorySeries(nil)
	v := BuildView(State{Range: 7, Price: &models.PriceSnapshot{Price: nd("1")}, History: &empty})

	assert.Equal(t, ChartEmpty, v.Chart)
	assert.Equal(t, DefaultEmptyTitle, v.EmptyTitle)
	assert.Equal(t, DefaultEmptyMessage, v.EmptyMessage)
	assert.Empty(t, v.Contract)
}

func TestBuildView_FailedFirstFetchIsEmptyNotLoading(t *testing.T) {
	v := BuildView(State{Range: 7})
	assert.Equal(t, "Not Listed", v.Price)
	assert.Equal(t, ChartEmpty, v.Chart)
}

func TestBuildView_StatusSource(t *testing.T) {
	snap := &models.PriceSnapshot{Error: "x", Message: "indexing soon", Source: "CoinGecko onchain"}
	v := BuildView(State{Range: 7, Price: snap})
	assert.Equal(t, "indexing soon", v.StatusMessage)
	assert.Equal(t, "CoinGecko onchain", v.StatusSource)
}

func TestRanges(t *testing.T) {
	assert.True(t, ValidRange(1))
	assert.True(t, ValidRange(7))
	assert.True(t, ValidRange(30))
	assert.False(t, ValidRange(14))
	assert.Equal(t, "30D", RangeLabel(30))
	assert.Equal(t, "14D", RangeLabel(14))
}
