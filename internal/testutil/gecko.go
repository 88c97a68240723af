package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
)

type cannedResponse struct {
	status int
	body   string
}

// GeckoServer is an httptest stand-in for the CoinGecko API. Paths without a
// registered response answer 404.
type GeckoServer struct {
	*httptest.Server

	mu         sync.Mutex
	routes     map[string]cannedResponse
	hits       map[string]int
	lastHeader http.Header
	lastQuery  map[string]string
}

func NewGeckoServer(t *testing.T) *GeckoServer {
	t.Helper()

	g := &GeckoServer{
		routes:    make(map[string]cannedResponse),
		hits:      make(map[string]int),
		lastQuery: make(map[string]string),
	}
	g.Server = httptest.NewServer(http.HandlerFunc(g.serve))
	t.Cleanup(g.Close)
	return g
}

// Handle registers a canned response for path (query string excluded).
func (g *GeckoServer) Handle(path string, status int, body string) *GeckoServer {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.routes[path] = cannedResponse{status: status, body: body}
	return g
}

func (g *GeckoServer) Hits(path string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hits[path]
}

// TotalHits counts requests across every path.
func (g *GeckoServer) TotalHits() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, h := range g.hits {
		n += h
	}
	return n
}

func (g *GeckoServer) LastHeader() http.Header {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastHeader.Clone()
}

// LastQuery returns the raw query string of the most recent request to path.
func (g *GeckoServer) LastQuery(path string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastQuery[path]
}

func (g *GeckoServer) serve(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	g.hits[r.URL.Path]++
	g.lastHeader = r.Header.Clone()
	g.lastQuery[r.URL.Path] = r.URL.RawQuery
	resp, ok := g.routes[r.URL.Path]
	g.mu.Unlock()

	if !ok {
		http.Error(w, `{"error":"coin not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	w.Write([]byte(resp.body))
}

func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
