package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kjannette/mnm-price/internal/external"
)

// Match describes how to find the token among CoinGecko search results.
type Match struct {
	Query        string
	Symbol       string
	NameContains string
}

// Matches reports whether coin is the token: symbol equal ignoring case, or
// lower-cased name containing the fragment.
func (m Match) Matches(coin external.SearchCoin) bool {
	if coin.ID == "" {
		return false
	}
	if m.Symbol != "" && strings.EqualFold(coin.Symbol, m.Symbol) {
		return true
	}
	frag := strings.ToLower(m.NameContains)
	return frag != "" && strings.Contains(strings.ToLower(coin.Name), frag)
}

// Resolver maps the token to a CoinGecko coin id through free-text search.
type Resolver struct {
	api   GeckoAPI
	match Match
}

func NewResolver(api GeckoAPI, match Match) *Resolver {
	return &Resolver{api: api, match: match}
}

// Resolve returns the first matching coin id in provider order, or ErrNoData.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	coins, err := r.api.Search(ctx, r.match.Query)
	if err != nil {
		if errors.Is(err, external.ErrNotFound) {
			return "", ErrNoData
		}
		return "", fmt.Errorf("search %q: %w", r.match.Query, err)
	}
	for _, c := range coins {
		if r.match.Matches(c) {
			return c.ID, nil
		}
	}
	return "", ErrNoData
}
