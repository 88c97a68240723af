package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kjannette/mnm-price/internal/httputil"
	"github.com/shopspring/decimal"
)

const (
	DefaultCoinGeckoURL     = "https://api.coingecko.com/api/v3"
	DefaultAPIKeyHeader     = "x-cg-pro-api-key"
	defaultCoinGeckoTimeout = 10 * time.Second
)

var (
	// ErrNotFound means the upstream answered but had nothing for the asset.
	ErrNotFound = errors.New("coingecko: not found")
)

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("coingecko %s returned status %d: %s", e.Endpoint, e.Code, e.Body)
}

// Observer receives one call per upstream request.
type Observer interface {
	ObserveUpstream(endpoint, status string, d time.Duration)
}

type CoinGeckoClient struct {
	baseURL    string
	apiKey     string
	keyHeader  string
	httpClient *http.Client
	retry      httputil.RetryConfig
	observer   Observer
}

type Option func(*CoinGeckoClient)

func WithBaseURL(u string) Option {
	return func(c *CoinGeckoClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithAPIKey sends key in the given header on every request. An empty header
// falls back to the pro API header.
func WithAPIKey(key, header string) Option {
	return func(c *CoinGeckoClient) {
		c.apiKey = key
		if header != "" {
			c.keyHeader = header
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *CoinGeckoClient) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *CoinGeckoClient) { c.httpClient.Timeout = d }
}

func WithRetry(cfg httputil.RetryConfig) Option {
	return func(c *CoinGeckoClient) { c.retry = cfg }
}

func WithObserver(o Observer) Option {
	return func(c *CoinGeckoClient) { c.observer = o }
}

func NewCoinGeckoClient(opts ...Option) *CoinGeckoClient {
	c := &CoinGeckoClient{
		baseURL:    DefaultCoinGeckoURL,
		keyHeader:  DefaultAPIKeyHeader,
		httpClient: &http.Client{Timeout: defaultCoinGeckoTimeout},
		retry:      httputil.NoRetry,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *CoinGeckoClient) Authenticated() bool { return c.apiKey != "" }

// get issues a GET against endpoint and decodes a 200 body into out.
func (c *CoinGeckoClient) get(ctx context.Context, endpoint, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	start := time.Now()
	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set(c.keyHeader, c.apiKey)
		}
		return req, nil
	})
	if err != nil {
		c.observe(endpoint, "error", start)
		return fmt.Errorf("coingecko %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	c.observe(endpoint, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *CoinGeckoClient) observe(endpoint, status string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveUpstream(endpoint, status, time.Since(start))
	}
}

// OnchainToken is the subset of an on-chain token record used for pricing.
type OnchainToken struct {
	PriceUSD       decimal.NullDecimal `json:"price_usd"`
	Change24h      decimal.NullDecimal `json:"price_change_percentage_24h"`
	Volume24hUSD   decimal.NullDecimal `json:"volume_24h_usd"`
	MarketCapUSD   decimal.NullDecimal `json:"market_cap_usd"`
	VolumeByWindow struct {
		H24 decimal.NullDecimal `json:"h24"`
	} `json:"volume_usd"`
}

// OnchainToken looks up a token by contract address on the given network.
// Records come back either flat under data or nested under data.attributes;
// both are accepted.
func (c *CoinGeckoClient) OnchainToken(ctx context.Context, network, address string) (*OnchainToken, error) {
	path := "/onchain/networks/" + url.PathEscape(network) + "/tokens/" + url.PathEscape(address)

	var body struct {
		Data *struct {
			OnchainToken
			Attributes *OnchainToken `json:"attributes"`
		} `json:"data"`
	}
	if err := c.get(ctx, "onchain_token", path, nil, &body); err != nil {
		return nil, err
	}
	if body.Data == nil {
		return nil, ErrNotFound
	}

	tok := body.Data.OnchainToken
	if a := body.Data.Attributes; a != nil && a.PriceUSD.Valid {
		tok = *a
	}
	if !tok.Volume24hUSD.Valid {
		tok.Volume24hUSD = tok.VolumeByWindow.H24
	}
	return &tok, nil
}

type SearchCoin struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	APISymbol     string `json:"api_symbol"`
	MarketCapRank *int   `json:"market_cap_rank"`
}

// Search returns coins matching query in provider order.
func (c *CoinGeckoClient) Search(ctx context.Context, query string) ([]SearchCoin, error) {
	var body struct {
		Coins []SearchCoin `json:"coins"`
	}
	if err := c.get(ctx, "search", "/search", url.Values{"query": {query}}, &body); err != nil {
		return nil, err
	}
	return body.Coins, nil
}

type SimplePrice struct {
	USD           decimal.NullDecimal `json:"usd"`
	USD24hChange  decimal.NullDecimal `json:"usd_24h_change"`
	USD24hVol     decimal.NullDecimal `json:"usd_24h_vol"`
	USDMarketCap  decimal.NullDecimal `json:"usd_market_cap"`
	LastUpdatedAt int64               `json:"last_updated_at"`
}

// SimplePrice fetches the USD quote for a provider coin id.
func (c *CoinGeckoClient) SimplePrice(ctx context.Context, id string) (*SimplePrice, error) {
	q := url.Values{
		"ids":                     {id},
		"vs_currencies":           {"usd"},
		"include_24hr_change":     {"true"},
		"include_24hr_vol":        {"true"},
		"include_market_cap":      {"true"},
		"include_last_updated_at": {"true"},
	}
	var body map[string]SimplePrice
	if err := c.get(ctx, "simple_price", "/simple/price", q, &body); err != nil {
		return nil, err
	}
	p, ok := body[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// SeriesPoint is one [timestamp_ms, value] pair of a market chart.
type SeriesPoint struct {
	Time  time.Time
	Value decimal.Decimal
}

func (p *SeriesPoint) UnmarshalJSON(b []byte) error {
	var pair []decimal.Decimal
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) < 2 {
		return fmt.Errorf("series point: want [timestamp, value], got %d elements", len(pair))
	}
	p.Time = time.UnixMilli(pair[0].IntPart()).UTC()
	p.Value = pair[1]
	return nil
}

type MarketChart struct {
	Prices       []SeriesPoint `json:"prices"`
	MarketCaps   []SeriesPoint `json:"market_caps"`
	TotalVolumes []SeriesPoint `json:"total_volumes"`
}

// MarketChart fetches the USD price and volume series covering the trailing number of days.
func (c *CoinGeckoClient) MarketChart(ctx context.Context, id string, days int) (*MarketChart, error) {
	q := url.Values{
		"vs_currency": {"usd"},
		"days":        {strconv.Itoa(days)},
	}
	var chart MarketChart
	if err := c.get(ctx, "market_chart", "/coins/"+url.PathEscape(id)+"/market_chart", q, &chart); err != nil {
		return nil, err
	}
	return &chart, nil
}
