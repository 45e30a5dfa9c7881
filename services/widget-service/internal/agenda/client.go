// Package agenda talks to the remote scheduling endpoint: availability reads
// and booking writes. The write path has an unusual, documented contract —
// see Submit.
package agenda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// FetchError wraps an availability fetch failure. It is recoverable: the
// user retries by re-selecting staff or date.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return "agenda " + e.Op + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// Availability is the normalized result of a slot fetch.
type Availability struct {
	Slots    []string
	WhatsApp string
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

type availabilityResponse struct {
	Slots    []string `json:"slots"`
	WhatsApp string   `json:"whatsapp"`
}

// FetchSlots reads the open slots for a staff member on a local calendar
// date (YYYY-MM-DD). Absent fields in a well-formed response degrade to an
// empty slot set and no contact token; transport and parse failures are
// FetchErrors.
func (c *Client) FetchSlots(ctx context.Context, staffID, date string) (Availability, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Availability{}, &FetchError{Op: "url", Err: err}
	}
	q := u.Query()
	q.Set("staffId", staffID)
	q.Set("date", date)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Availability{}, &FetchError{Op: "request", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Availability{}, &FetchError{Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Availability{}, &FetchError{Op: "fetch", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Availability{}, &FetchError{Op: "decode", Err: err}
	}

	return Availability{
		Slots:    NormalizeSlots(body.Slots),
		WhatsApp: strings.TrimSpace(body.WhatsApp),
	}, nil
}

// NormalizeSlots drops empty entries and duplicates, preserving first-seen
// order. The backend occasionally repeats or blanks slots; an empty result
// is a valid "no hours available" state, not an error.
func NormalizeSlots(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
