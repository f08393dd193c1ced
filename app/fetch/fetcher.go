package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/dgraph-io/ristretto"
	"golang.org/x/text/encoding/charmap"
)

// cacheTTL bounds how long a fetched source document is reused. Manual
// rebuilds shortly after a scheduled one hit the cache instead of the
// source server; scheduled refreshes are far apart and always miss.
const cacheTTL = 5 * time.Minute

// Fetcher downloads the source calendar over HTTP with an in-process
// TTL cache in front.
type Fetcher struct {
	httpClient *http.Client
	cache      *ristretto.Cache
	userAgent  string
	timeout    time.Duration
}

func NewFetcher(httpClient *http.Client, userAgent string, timeout time.Duration) (*Fetcher, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch cache: %w", err)
	}

	return &Fetcher{
		httpClient: httpClient,
		cache:      cache,
		userAgent:  userAgent,
		timeout:    timeout,
	}, nil
}

// Run returns the source document at url, from cache when fresh. The
// body is decoded to UTF-8; the source occasionally serves Latin-1.
func (f *Fetcher) Run(ctx context.Context, url string) ([]byte, error) {
	if cached, found := f.cache.Get(url); found {
		slog.Debug("Source served from cache", "url", url)
		return cached.([]byte), nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	data, err = decode(data)
	if err != nil {
		return nil, err
	}

	f.cache.SetWithTTL(url, data, 1, cacheTTL)
	f.cache.Wait()

	return data, nil
}

func decode(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		return data, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return decoded, nil
}
