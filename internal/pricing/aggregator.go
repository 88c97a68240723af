package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/kjannette/mnm-price/internal/metrics"
	"github.com/kjannette/mnm-price/internal/models"
	"github.com/kjannette/mnm-price/internal/token"
	"go.uber.org/zap"
)

const (
	opCurrent = "current"
	opHistory = "history"
)

// Target is the token being priced.
type Target struct {
	Address token.Address
	Network string
	Match   Match
}

// Aggregator tries its sources in order and returns the first usable answer,
// or the "not listed" sentinel. It keeps no state between calls.
type Aggregator struct {
	target  Target
	prices  []PriceSource
	history []HistorySource
	metrics *metrics.Metrics
	now     func() time.Time
	logger  *zap.Logger
}

type Option func(*Aggregator)

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithPriceSources replaces the current-price chain.
func WithPriceSources(sources ...PriceSource) Option {
	return func(a *Aggregator) { a.prices = sources }
}

// WithHistorySources replaces the history chain.
func WithHistorySources(sources ...HistorySource) Option {
	return func(a *Aggregator) { a.history = sources }
}

func New(target Target, logger *zap.Logger, opts ...Option) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Aggregator{
		target: target,
		now:    time.Now,
		logger: logger,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// NewCoinGecko wires the standard chain: on-chain lookup, then search plus
// simple price for the current price, and search plus market chart for history.
func NewCoinGecko(api GeckoAPI, target Target, logger *zap.Logger, opts ...Option) *Aggregator {
	resolver := NewResolver(api, target.Match)
	base := []Option{
		WithPriceSources(
			NewOnchainSource(api, target.Network, target.Address),
			NewSearchSource(api, resolver),
		),
		WithHistorySources(NewMarketChartSource(api, resolver)),
	}
	return New(target, logger, append(base, opts...)...)
}

// CurrentPrice never fails: every source error falls through to the next
// source and finally to the sentinel snapshot.
func (a *Aggregator) CurrentPrice(ctx context.Context) models.PriceSnapshot {
	for _, src := range a.prices {
		snap, err := src.Current(ctx)
		if err != nil {
			a.fallThrough(opCurrent, src.Name(), err)
			continue
		}
		a.metrics.SourceOutcome(opCurrent, src.Name(), metrics.OutcomeOK)
		a.metrics.Response(opCurrent, metrics.ResultData)
		snap.LastUpdated = a.now().UTC()
		a.logger.Debug("current price resolved",
			zap.String("source", src.Name()),
			zap.String("price", snap.Price.Decimal.String()),
		)
		return snap
	}

	a.metrics.Response(opCurrent, metrics.ResultUnavailable)
	a.logger.Info("no source has a price, returning not-listed snapshot",
		zap.String("contract", a.target.Address.String()))
	return models.Unlisted(a.target.Address.String(), a.now())
}

// History returns the first non-empty series, or the wrapped unavailable
// result. days <= 0 selects the default window.
func (a *Aggregator) History(ctx context.Context, days int) models.HistoryResult {
	if days <= 0 {
		days = models.DefaultHistoryDays
	}

	for _, src := range a.history {
		points, err := src.History(ctx, days)
		if err == nil && len(points) == 0 {
			err = ErrNoData
		}
		if err != nil {
			a.fallThrough(opHistory, src.Name(), err)
			continue
		}
		a.metrics.SourceOutcome(opHistory, src.Name(), metrics.OutcomeOK)
		a.metrics.Response(opHistory, metrics.ResultData)
		a.logger.Debug("history resolved",
			zap.String("source", src.Name()),
			zap.Int("days", days),
			zap.Int("points", len(points)),
		)
		return models.HistorySeries(points)
	}

	a.metrics.Response(opHistory, metrics.ResultUnavailable)
	return models.HistoryNotIndexed(a.target.Address.String())
}

func (a *Aggregator) fallThrough(op, source string, err error) {
	if errors.Is(err, ErrNoData) {
		a.metrics.SourceOutcome(op, source, metrics.OutcomeNoData)
		a.logger.Debug("source has no data", zap.String("op", op), zap.String("source", source), zap.Error(err))
		return
	}
	a.metrics.SourceOutcome(op, source, metrics.OutcomeError)
	a.logger.Warn("source failed, trying next", zap.String("op", op), zap.String("source", source), zap.Error(err))
}
