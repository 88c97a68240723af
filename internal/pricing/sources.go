package pricing

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/kjannette/mnm-price/internal/external"
	"github.com/kjannette/mnm-price/internal/models"
	"github.com/kjannette/mnm-price/internal/token"
	"github.com/shopspring/decimal"
)

// ErrNoData means a source answered but had nothing usable for the token.
var ErrNoData = errors.New("no usable data")

const (
	SourceOnchain     = "CoinGecko onchain"
	SourceSimplePrice = "CoinGecko simple/price"
	SourceMarketChart = "CoinGecko market_chart"
)

// PriceSource produces a current price snapshot. LastUpdated is filled in by
// the Aggregator.
type PriceSource interface {
	Name() string
	Current(ctx context.Context) (models.PriceSnapshot, error)
}

// HistorySource produces a chronologically ascending, non-empty series.
type HistorySource interface {
	Name() string
	History(ctx context.Context, days int) ([]models.HistoryPoint, error)
}

// OnchainSource looks the token up by contract address.
type OnchainSource struct {
	api     GeckoAPI
	network string
	address token.Address
}

func NewOnchainSource(api GeckoAPI, network string, address token.Address) *OnchainSource {
	return &OnchainSource{api: api, network: network, address: address}
}

func (s *OnchainSource) Name() string { return SourceOnchain }

func (s *OnchainSource) Current(ctx context.Context) (models.PriceSnapshot, error) {
	tok, err := s.api.OnchainToken(ctx, s.network, s.address.String())
	if err != nil {
		return models.PriceSnapshot{}, notFoundAsNoData(err)
	}
	if !tok.PriceUSD.Valid || !tok.PriceUSD.Decimal.IsPositive() {
		return models.PriceSnapshot{}, ErrNoData
	}
	return models.PriceSnapshot{
		Price:     tok.PriceUSD,
		Change24h: models.Known(tok.Change24h),
		Volume24h: models.Known(tok.Volume24hUSD),
		MarketCap: models.Known(tok.MarketCapUSD),
		Source:    SourceOnchain,
	}, nil
}

// SearchSource resolves a coin id through search and quotes it via simple price.
type SearchSource struct {
	api      GeckoAPI
	resolver *Resolver
}

func NewSearchSource(api GeckoAPI, resolver *Resolver) *SearchSource {
	return &SearchSource{api: api, resolver: resolver}
}

func (s *SearchSource) Name() string { return SourceSimplePrice }

func (s *SearchSource) Current(ctx context.Context) (models.PriceSnapshot, error) {
	id, err := s.resolver.Resolve(ctx)
	if err != nil {
		return models.PriceSnapshot{}, err
	}
	p, err := s.api.SimplePrice(ctx, id)
	if err != nil {
		return models.PriceSnapshot{}, notFoundAsNoData(err)
	}
	if !p.USD.Valid {
		return models.PriceSnapshot{}, fmt.Errorf("%s: %w", id, ErrNoData)
	}
	return models.PriceSnapshot{
		Price:     p.USD,
		Change24h: models.Known(p.USD24hChange),
		Volume24h: models.Known(p.USD24hVol),
		MarketCap: models.Known(p.USDMarketCap),
		Source:    SourceSimplePrice,
		TokenID:   id,
	}, nil
}

// MarketChartSource builds history from the market_chart series of the
// resolved coin id.
type MarketChartSource struct {
	api      GeckoAPI
	resolver *Resolver
}

func NewMarketChartSource(api GeckoAPI, resolver *Resolver) *MarketChartSource {
	return &MarketChartSource{api: api, resolver: resolver}
}

func (s *MarketChartSource) Name() string { return SourceMarketChart }

func (s *MarketChartSource) History(ctx context.Context, days int) ([]models.HistoryPoint, error) {
	id, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	chart, err := s.api.MarketChart(ctx, id, days)
	if err != nil {
		return nil, notFoundAsNoData(err)
	}
	points := ZipSeries(chart.Prices, chart.TotalVolumes)
	if len(points) == 0 {
		return nil, fmt.Errorf("%s: empty price series: %w", id, ErrNoData)
	}
	return points, nil
}

// ZipSeries pairs prices with volumes by index and sorts the result by time.
// A volume series shorter than the price series contributes zero volume.
func ZipSeries(prices, volumes []external.SeriesPoint) []models.HistoryPoint {
	points := make([]models.HistoryPoint, len(prices))
	for i, p := range prices {
		vol := decimal.Zero
		if i < len(volumes) {
			vol = volumes[i].Value
		}
		points[i] = models.HistoryPoint{Timestamp: p.Time, Price: p.Value, Volume: vol}
	}
	slices.SortStableFunc(points, func(a, b models.HistoryPoint) int {
		return cmp.Compare(a.Timestamp.UnixNano(), b.Timestamp.UnixNano())
	})
	return points
}

func notFoundAsNoData(err error) error {
	if errors.Is(err, external.ErrNotFound) {
		return ErrNoData
	}
	return err
}
