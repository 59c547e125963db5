// Package client is the SDK for the catalog and metadata HTTP service.
package client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mavinms/prism-project/client/internal/api"
	"github.com/mavinms/prism-project/client/internal/types"
)

// Version is stamped into the User-Agent header.
const Version = "0.3.0"

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
}

// New constructs a Client for the service at baseURL.
//
// No HTTP timeout is set unless WithHTTPTimeout is given; callers bound
// individual calls with context deadlines.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL cannot be empty")
	}

	c := &Client{
		baseURL:   baseURL,
		http:      &http.Client{},
		userAgent: "prism-client/" + Version,
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.wrapTransportWithHeaders()
	return c, nil
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// wrapTransportWithHeaders installs headerTransport above whatever the
// options configured.
func (c *Client) wrapTransportWithHeaders() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &headerTransport{base: base, userAgent: c.userAgent}
}

// headerTransport stamps the SDK's identifying headers on every request.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.Header.Set("User-Agent", t.userAgent)
	if cloned.Header.Get("Accept") == "" {
		cloned.Header.Set("Accept", "application/json")
	}
	return t.base.RoundTrip(cloned)
}

// --------------------------------------------------------------------
// Catalog operations - delegated to internal/api
// --------------------------------------------------------------------

// ListTerms returns every catalog term (name and subject only).
func (c *Client) ListTerms(ctx context.Context) ([]Term, error) {
	terms, err := api.ListTerms(ctx, c.http, c.baseURL)
	observe("list_terms", err)
	return terms, err
}

// ListSubjects returns subjects with their term counts.
func (c *Client) ListSubjects(ctx context.Context) ([]Subject, error) {
	subjects, err := api.ListSubjects(ctx, c.http, c.baseURL)
	observe("list_subjects", err)
	return subjects, err
}

// TermsBySubject returns the terms filed under subject.
func (c *Client) TermsBySubject(ctx context.Context, subject string) ([]Term, error) {
	terms, err := api.TermsBySubject(ctx, c.http, c.baseURL, subject)
	observe("terms_by_subject", err)
	return terms, err
}

// GetTerm returns the full record for name with its metadata. Unknown names
// yield an error matching ErrNotFound.
func (c *Client) GetTerm(ctx context.Context, name string) (*TermDetail, error) {
	detail, err := api.GetTerm(ctx, c.http, c.baseURL, name)
	observe("get_term", err)
	return detail, err
}

// --------------------------------------------------------------------
// Metadata operations - delegated to internal/api
// --------------------------------------------------------------------

// GetTermMeta returns the stored metadata for name, or the service defaults.
func (c *Client) GetTermMeta(ctx context.Context, name string) (*TermMetadata, error) {
	meta, err := api.GetTermMeta(ctx, c.http, c.baseURL, name)
	observe("get_term_meta", err)
	return meta, err
}

// SetMeta writes the set fields of update for term.
func (c *Client) SetMeta(ctx context.Context, term string, update MetaUpdate) error {
	err := api.SetMeta(ctx, c.http, c.baseURL, term, update)
	observe("set_meta", err)
	return err
}

// AllMeta returns the per-term summary rows used for search ranking.
func (c *Client) AllMeta(ctx context.Context) ([]MetaSummary, error) {
	rows, err := api.AllMeta(ctx, c.http, c.baseURL)
	observe("all_meta", err)
	return rows, err
}

// MetaCounts returns the notes and difficulty tallies.
func (c *Client) MetaCounts(ctx context.Context) (*MetaCounts, error) {
	counts, err := api.MetaCounts(ctx, c.http, c.baseURL)
	observe("meta_counts", err)
	return counts, err
}

// FilterByMeta returns the terms matching f.
func (c *Client) FilterByMeta(ctx context.Context, f Filter) ([]Term, error) {
	terms, err := api.FilterByMeta(ctx, c.http, c.baseURL, f)
	observe("filter_by_meta", err)
	return terms, err
}

// StatsOverview returns catalog and annotation totals.
func (c *Client) StatsOverview(ctx context.Context) (*StatsOverview, error) {
	stats, err := api.StatsOverview(ctx, c.http, c.baseURL)
	observe("stats_overview", err)
	return stats, err
}

var _ types.HTTPClient = (*http.Client)(nil)
