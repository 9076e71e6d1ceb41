// Package statsfetch supplies dashboard content (team stats, scores,
// predictions) from an upstream REST source with short-lived caching.
// It is a plain fetch-and-cache collaborator with no invariants of its
// own; the visualization engines never depend on it.
package statsfetch

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/blazeintel/go-overlay/internal/httpc"
)

// Cache lifetimes.
const (
	DefaultTTL      = 60 * time.Second
	cleanupInterval = 5 * time.Minute
	requestTimeout  = 10 * time.Second
)

// Client fetches JSON documents from the upstream stats API.
type Client struct {
	base  string
	http  *http.Client
	cache *gocache.Cache
	ttl   time.Duration
}

// New creates a client for the given base URL. Dashboard fetches run
// on the page refresh path, so the request timeout is kept short.
func New(base string) *Client {
	return &Client{
		base:  strings.TrimRight(base, "/"),
		http:  httpc.NewClient(requestTimeout),
		cache: gocache.New(DefaultTTL, cleanupInterval),
		ttl:   DefaultTTL,
	}
}

// Get returns the JSON body at the given path, serving from cache when
// fresh.
func (c *Client) Get(path string) ([]byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if cached, ok := c.cache.Get(path); ok {
		return cached.([]byte), nil
	}

	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: upstream status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	c.cache.Set(path, body, c.ttl)
	return body, nil
}
