package notifications

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kjannette/mnm-price/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"
)

func TestSend_NoWebhook(t *testing.T) {
	s := NewSender("", "TestBot", zaptest.NewLogger(t))
	if s.Enabled() {
		t.Fatal("should not be enabled with empty URL")
	}
	s.Send(context.Background(), "hello from test")
}

func TestSend_SlackFormat(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSender(srv.URL, "TestBot", zaptest.NewLogger(t))
	if !s.Enabled() {
		t.Fatal("should be enabled")
	}

	s.Send(context.Background(), "token listed")

	if received["username"] != "TestBot" {
		t.Fatalf("username: got %s", received["username"])
	}
	if received["text"] != "`[TestBot] token listed`" {
		t.Fatalf("text: got %q", received["text"])
	}
}

func TestSend_DiscordFormat(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// URL containing "discord" triggers Discord format
	s := NewSender(srv.URL+"/discord/webhook", "MNMBot", zaptest.NewLogger(t))
	s.Send(context.Background(), "price data available")

	if received["content"] != "[MNMBot] price data available" {
		t.Fatalf("content: got %q", received["content"])
	}
	if received["username"] != "MNMBot" {
		t.Fatalf("username: got %s", received["username"])
	}
}

func TestSend_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSender(srv.URL, "", zaptest.NewLogger(t))
	s.retry.BaseDelay = 10 * time.Millisecond
	s.retry.MaxDelay = 20 * time.Millisecond
	s.Send(context.Background(), "retry me")

	if attempts.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts.Load())
	}
}

func TestSend_WebhookError(t *testing.T) {
	s := NewSender("http://127.0.0.1:1/nope", "TestBot", zaptest.NewLogger(t))
	s.retry.BaseDelay = time.Millisecond
	s.retry.MaxDelay = time.Millisecond
	// Should log the failure, not panic
	s.Send(context.Background(), "this will fail")
}

func TestDefaultBotName(t *testing.T) {
	s := NewSender("", "", nil)
	if s.botName != DefaultBotName {
		t.Fatalf("expected default bot name, got %s", s.botName)
	}
}

func TestListingMessage(t *testing.T) {
	listed := models.PriceSnapshot{
		Price:  decimal.NewNullDecimal(decimal.RequireFromString("0.00015")),
		Source: "CoinGecko onchain",
	}
	if got := ListingMessage(listed); got != "$MNM is now priced: $0.000150 (source: CoinGecko onchain)" {
		t.Fatalf("listed message: %q", got)
	}

	unlisted := models.Unlisted("0xabc", time.Now())
	if got := ListingMessage(unlisted); got != "$MNM price data is no longer available: "+models.MsgNotListed {
		t.Fatalf("unlisted message: %q", got)
	}
}
