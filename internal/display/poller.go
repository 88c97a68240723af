package display

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kjannette/mnm-price/internal/models"
	"github.com/kjannette/mnm-price/internal/scheduler"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPriceInterval   = 30 * time.Second
	DefaultHistoryInterval = 60 * time.Second
)

// Fetcher is the proxy API as seen by the poller.
type Fetcher interface {
	CurrentPrice(ctx context.Context) (models.PriceSnapshot, error)
	History(ctx context.Context, days int) (models.HistoryResult, error)
}

type PollerOption func(*Poller)

func WithPriceInterval(d time.Duration) PollerOption {
	return func(p *Poller) { p.priceInterval = d }
}

func WithHistoryInterval(d time.Duration) PollerOption {
	return func(p *Poller) { p.historyInterval = d }
}

// WithRange sets the initial history window; invalid values are ignored.
func WithRange(days int) PollerOption {
	return func(p *Poller) {
		if ValidRange(days) {
			p.state.Range = days
		}
	}
}

func WithLocation(loc *time.Location) PollerOption {
	return func(p *Poller) { p.state.Location = loc }
}

// OnUpdate is called with a fresh View after every state change.
func OnUpdate(fn func(View)) PollerOption {
	return func(p *Poller) { p.onUpdate = fn }
}

// OnListingChange is called when the token flips between listed and unlisted.
// The first snapshot only records the status.
func OnListingChange(fn func(models.PriceSnapshot)) PollerOption {
	return func(p *Poller) { p.onListing = fn }
}

// Poller keeps the widget state fresh by polling the current price and the
// history of the selected range on independent intervals.
type Poller struct {
	fetcher         Fetcher
	logger          *zap.Logger
	priceInterval   time.Duration
	historyInterval time.Duration
	onUpdate        func(View)
	onListing       func(models.PriceSnapshot)

	priceJob   *scheduler.Job
	historyJob *scheduler.Job

	mu     sync.Mutex
	state  State
	listed *bool

	emitMu sync.Mutex
}

func NewPoller(fetcher Fetcher, logger *zap.Logger, opts ...PollerOption) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Poller{
		fetcher:         fetcher,
		logger:          logger,
		priceInterval:   DefaultPriceInterval,
		historyInterval: DefaultHistoryInterval,
		state: State{
			Range:          models.DefaultHistoryDays,
			PriceLoading:   true,
			HistoryLoading: true,
		},
	}
	for _, o := range opts {
		o(p)
	}
	p.priceJob = scheduler.NewJob("price", p.priceInterval, p.pollPrice, logger)
	p.historyJob = scheduler.NewJob("history", p.historyInterval, p.pollHistory, logger)
	return p
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.priceJob.Run(gctx) })
	g.Go(func() error { return p.historyJob.Run(gctx) })
	return g.Wait()
}

// Refresh fetches both operations once, outside the polling schedule.
func (p *Poller) Refresh(ctx context.Context) View {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { p.pollPrice(gctx); return nil })
	g.Go(func() error { p.pollHistory(gctx); return nil })
	_ = g.Wait()
	return p.View()
}

// SetRange selects a new history window. The previous window's data is
// dropped and a fetch for the new one starts immediately.
func (p *Poller) SetRange(days int) error {
	if !ValidRange(days) {
		return fmt.Errorf("unsupported range %d days", days)
	}

	p.mu.Lock()
	if p.state.Range == days {
		p.mu.Unlock()
		return nil
	}
	p.state.Range = days
	p.state.History = nil
	p.state.HistoryLoading = true
	v := BuildView(p.state)
	p.mu.Unlock()

	p.logger.Debug("range changed", zap.String("range", RangeLabel(days)))
	p.emit(v)
	p.historyJob.Reset()
	return nil
}

func (p *Poller) Range() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Range
}

func (p *Poller) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return BuildView(p.state)
}

func (p *Poller) pollPrice(ctx context.Context) {
	snap, err := p.fetcher.CurrentPrice(ctx)

	p.mu.Lock()
	p.state.PriceLoading = false
	var flipped bool
	if err != nil {
		p.logger.Debug("price poll failed", zap.Error(err))
	} else {
		p.state.Price = &snap
		listed := snap.Listed()
		flipped = p.listed != nil && *p.listed != listed
		p.listed = &listed
	}
	v := BuildView(p.state)
	p.mu.Unlock()

	if flipped && p.onListing != nil {
		p.onListing(snap)
	}
	p.emit(v)
}

func (p *Poller) pollHistory(ctx context.Context) {
	p.mu.Lock()
	days := p.state.Range
	p.mu.Unlock()

	res, err := p.fetcher.History(ctx, days)

	p.mu.Lock()
	if p.state.Range != days {
		p.mu.Unlock()
		p.logger.Debug("dropping history for stale range", zap.Int("days", days))
		return
	}
	p.state.HistoryLoading = false
	if err != nil {
		p.logger.Debug("history poll failed", zap.Int("days", days), zap.Error(err))
	} else {
		p.state.History = &res
	}
	v := BuildView(p.state)
	p.mu.Unlock()

	p.emit(v)
}

func (p *Poller) emit(v View) {
	if p.onUpdate == nil {
		return
	}
	p.emitMu.Lock()
	defer p.emitMu.Unlock()
	p.onUpdate(v)
}
