package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/okhotnik/eventscope/app/cfg"
	"github.com/okhotnik/eventscope/app/sources"
)

// Fetcher retrieves raw page content for an import URL. Platforms known to
// reject automated retrieval are short-circuited to a manual-entry template
// without touching the network.
type Fetcher struct {
	httpClient *http.Client
	registry   *sources.Registry
	userAgent  string
	timeout    time.Duration
}

func NewFetcher(httpClient *http.Client, registry *sources.Registry) *Fetcher {
	c := cfg.Get()

	return &Fetcher{
		httpClient: httpClient,
		registry:   registry,
		userAgent:  c.UserAgent,
		timeout:    time.Duration(c.FetchTimeout) * time.Second,
	}
}

// Run fetches the page at rawURL. For blocklisted platforms no request is made
// and a manual-entry template draft is returned instead of page data.
func (f *Fetcher) Run(ctx context.Context, rawURL string) ([]byte, *Draft, error) {
	platform := f.registry.Detect(rawURL)

	if platform.Blocked {
		slog.Debug("Blocked platform, returning manual-entry template", "url", rawURL, "platform", platform.Name)
		return nil, f.manualTemplate(rawURL, platform), nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &FetchError{URL: rawURL, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil, nil
}

func (f *Fetcher) manualTemplate(rawURL string, platform sources.Platform) *Draft {
	return &Draft{
		StartTime: time.Now().UTC(),
		SourceURL: rawURL,
		TicketURL: rawURL,
		Status:    StatusDraft,
		Source:    sources.StorableSource(platform.Name),
		Warning:   fmt.Sprintf("%s events cannot be imported automatically; fill in the details manually", platform.Name),
	}
}
