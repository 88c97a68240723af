package display

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kjannette/mnm-price/internal/httputil"
	"github.com/kjannette/mnm-price/internal/models"
)

var (
	ErrFetchPrice   = errors.New("failed to fetch current price")
	ErrFetchHistory = errors.New("failed to fetch price history")
)

// Client reads the two price endpoints of the proxy.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) CurrentPrice(ctx context.Context) (models.PriceSnapshot, error) {
	var snap models.PriceSnapshot
	if err := c.getJSON(ctx, "/api/price/current", &snap); err != nil {
		return models.PriceSnapshot{}, fmt.Errorf("%w: %w", ErrFetchPrice, err)
	}
	return snap, nil
}

// History decodes either history shape into a HistoryResult.
func (c *Client) History(ctx context.Context, days int) (models.HistoryResult, error) {
	var res models.HistoryResult
	path := "/api/price/history?" + url.Values{"days": {strconv.Itoa(days)}}.Encode()
	if err := c.getJSON(ctx, path, &res); err != nil {
		return models.HistoryResult{}, fmt.Errorf("%w: %w", ErrFetchHistory, err)
	}
	return res, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := httputil.Do(ctx, c.httpClient, httputil.NoRetry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
