package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kjannette/mnm-price/internal/httputil"
	"github.com/kjannette/mnm-price/internal/models"
	"go.uber.org/zap"
)

const DefaultBotName = "MNMPriceWatch"

// Sender posts short messages to a Slack or Discord incoming webhook. With no
// webhook configured messages are only logged.
type Sender struct {
	webhookURL string
	botName    string
	httpClient *http.Client
	retry      httputil.RetryConfig
	logger     *zap.Logger
}

func NewSender(webhookURL, botName string, logger *zap.Logger) *Sender {
	if botName == "" {
		botName = DefaultBotName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sender{
		webhookURL: webhookURL,
		botName:    botName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
	s.retry = httputil.RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    5 * time.Second,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			s.logger.Warn("webhook attempt failed", zap.Int("attempt", attempt), zap.Duration("retry_in", wait), zap.Error(err))
		},
	}
	return s
}

func (s *Sender) Send(ctx context.Context, msg string) {
	formatted := fmt.Sprintf("[%s] %s", s.botName, msg)
	s.logger.Info("notification", zap.String("message", formatted))

	if s.webhookURL == "" {
		return
	}

	body, err := json.Marshal(s.formatPayload(formatted))
	if err != nil {
		s.logger.Error("marshal webhook payload", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := httputil.Do(ctx, s.httpClient, s.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		s.logger.Error("failed to send notification after retries", zap.Error(err))
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		s.logger.Warn("webhook rejected notification", zap.Int("status", resp.StatusCode))
	}
}

func (s *Sender) formatPayload(msg string) map[string]string {
	if strings.Contains(s.webhookURL, "discord") {
		return map[string]string{
			"content":  msg,
			"username": s.botName,
		}
	}
	return map[string]string{
		"text":     fmt.Sprintf("`%s`", msg),
		"username": s.botName,
	}
}

func (s *Sender) Enabled() bool {
	return s.webhookURL != ""
}

// ListingMessage describes a listing status change for snap.
func ListingMessage(snap models.PriceSnapshot) string {
	if snap.Listed() {
		return fmt.Sprintf("$MNM is now priced: $%s (source: %s)", snap.Price.Decimal.StringFixed(6), snap.Source)
	}
	if snap.Message != "" {
		return "$MNM price data is no longer available: " + snap.Message
	}
	return "$MNM price data is no longer available"
}
