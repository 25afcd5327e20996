package collect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/RyanPaul06/RPNews/internal/config"
)

const userAgent = "RPNews/2.0 (+https://rpnews.example)"

// FetchError is a soft per-source failure: the source is skipped and the
// run continues.
type FetchError struct {
	Source     string
	StatusCode int // 0 for transport errors
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher issues one bounded HTTP GET per source.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a feed fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout == 0 {
		timeout = 25 * time.Second
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Fetch retrieves the raw feed bytes for a source. Any non-200 status,
// timeout, or transport error is returned as a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, source config.Source) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, &FetchError{Source: source.Name, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: source.Name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Source: source.Name, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Source: source.Name, Err: err}
	}
	return data, nil
}
