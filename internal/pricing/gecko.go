package pricing

import (
	"context"

	"github.com/kjannette/mnm-price/internal/external"
)

//go:generate mockgen -destination=mock_gecko_test.go -package=pricing . GeckoAPI

// GeckoAPI is the slice of the CoinGecko API the price sources depend on.
type GeckoAPI interface {
	OnchainToken(ctx context.Context, network, address string) (*external.OnchainToken, error)
	Search(ctx context.Context, query string) ([]external.SearchCoin, error)
	SimplePrice(ctx context.Context, id string) (*external.SimplePrice, error)
	MarketChart(ctx context.Context, id string, days int) (*external.MarketChart, error)
}

var _ GeckoAPI = (*external.CoinGeckoClient)(nil)
