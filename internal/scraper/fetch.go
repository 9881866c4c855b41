package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pfrederiksen/afad-quakes/internal/quake"
)

// Fetcher retrieves the raw bytes of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches pages with a plain GET request.
type HTTPFetcher struct {
	client      *http.Client
	checkStatus bool
}

// NewHTTPFetcher creates a fetcher using client, or a client with the default
// Timeout when client is nil. With checkStatus set, any non-2xx response is
// reported as a quake.TransportError instead of being returned as the page.
func NewHTTPFetcher(client *http.Client, checkStatus bool) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: Timeout}
	}
	return &HTTPFetcher{client: client, checkStatus: checkStatus}
}

// Fetch performs the request and returns the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &quake.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if f.checkStatus && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return nil, &quake.TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &quake.TransportError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}
	return body, nil
}
