// Package sketchprompt fetches the daily drawing prompt from the
// r/SketchDaily subreddit's JSON listing.
package sketchprompt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/manageable/internal/platform/errors"
)

const defaultListingURL = "https://www.reddit.com/r/SketchDaily/new.json?limit=25"

// Prompt is one day's drawing theme.
type Prompt struct {
	// Date is the human-readable date as it appears in the thread title,
	// e.g. "August 28th".
	Date string
	// Theme is the prompt text following the date.
	Theme string
	// URL links to the thread.
	URL string
}

// Fetcher retrieves the current daily prompt.
type Fetcher struct {
	client     *http.Client
	listingURL string
	now        func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets the HTTP client used for listing requests.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) { f.client = client }
}

// WithListingURL overrides the subreddit listing endpoint.
func WithListingURL(url string) Option {
	return func(f *Fetcher) { f.listingURL = url }
}

// NewFetcher creates a prompt fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:     &http.Client{Timeout: 15 * time.Second},
		listingURL: defaultListingURL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title     string `json:"title"`
				Permalink string `json:"permalink"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch returns today's prompt, or a CodeNotFound error when no thread in
// the listing matches today's date. Thread titles look like
// "August 28th - Draw your favorite tree".
func (f *Fetcher) Fetch(ctx context.Context) (Prompt, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.listingURL, nil)
	if err != nil {
		return Prompt{}, fmt.Errorf("build listing request: %w", err)
	}
	req.Header.Set("User-Agent", "manageable-sketchprompt/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return Prompt{}, fmt.Errorf("fetch listing: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Prompt{}, fmt.Errorf("fetch listing: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Prompt{}, fmt.Errorf("read listing: %w", err)
	}
	var l listing
	if err := json.Unmarshal(body, &l); err != nil {
		return Prompt{}, fmt.Errorf("parse listing: %w", err)
	}

	today := FormatDay(f.now())
	for _, child := range l.Data.Children {
		title := child.Data.Title
		if !strings.HasPrefix(title, today) {
			continue
		}
		theme := strings.TrimPrefix(title, today)
		theme = strings.TrimSpace(strings.TrimLeft(theme, " -:"))
		if theme == "" {
			continue
		}
		return Prompt{
			Date:  today,
			Theme: theme,
			URL:   "https://www.reddit.com" + child.Data.Permalink,
		}, nil
	}
	return Prompt{}, errors.WithMetadata(errors.CodeNotFound,
		fmt.Sprintf("no prompt posted yet for %s", today),
		map[string]string{"date": today})
}

// Run polls for a new prompt once per interval until ctx is cancelled,
// handing each day's prompt to announce exactly once.
func (f *Fetcher) Run(ctx context.Context, interval time.Duration, announce func(Prompt) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var lastAnnounced string
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prompt, err := f.Fetch(ctx)
			if err != nil {
				continue
			}
			if prompt.Date == lastAnnounced {
				continue
			}
			if err := announce(prompt); err != nil {
				continue
			}
			lastAnnounced = prompt.Date
		}
	}
}

// FormatDay renders a date the way r/SketchDaily titles its threads,
// e.g. "August 1st", "August 22nd", "August 28th".
func FormatDay(t time.Time) string {
	day := t.Day()
	suffix := "th"
	switch {
	case day%100 >= 11 && day%100 <= 13:
	case day%10 == 1:
		suffix = "st"
	case day%10 == 2:
		suffix = "nd"
	case day%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%s %d%s", t.Month(), day, suffix)
}
