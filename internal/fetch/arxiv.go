package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/gitbib/internal/entry"
)

// ArxivBaseURL is the arXiv metadata API query endpoint.
const ArxivBaseURL = "https://export.arxiv.org/api/query"

// ArxivClient resolves arXiv IDs against the arXiv Atom API.
type ArxivClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// ArxivOption configures an ArxivClient.
type ArxivOption func(*ArxivClient)

// WithArxivHTTPClient sets a custom HTTP client.
func WithArxivHTTPClient(hc *http.Client) ArxivOption {
	return func(c *ArxivClient) { c.httpClient = hc }
}

// WithArxivBaseURL sets a custom base URL (for testing).
func WithArxivBaseURL(u string) ArxivOption {
	return func(c *ArxivClient) { c.baseURL = u }
}

// NewArxivClient creates an arXiv metadata client.
func NewArxivClient(opts ...ArxivOption) *ArxivClient {
	c := &ArxivClient{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		baseURL:    ArxivBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// atomFeed is the subset of the arXiv Atom response we consume.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

// Fetch performs a single arXiv lookup and normalizes the Atom entry
// into the entry metadata schema.
func (c *ArxivClient) Fetch(ctx context.Context, arxivID string) (*entry.Metadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + "?id_list=" + url.QueryEscape(arxivID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: arxiv status %d", ErrNetwork, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: arxiv status %d", ErrInvalidResponse, resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: decoding arxiv feed: %v", ErrInvalidResponse, err)
	}

	// Unknown IDs come back as an empty feed, or as a single entry
	// pointing at the api/errors page.
	if len(feed.Entries) == 0 || strings.Contains(feed.Entries[0].ID, "api/errors") {
		return nil, fmt.Errorf("%w: arxiv id %q", ErrNotFound, arxivID)
	}

	return normalizeArxiv(&feed.Entries[0]), nil
}

// normalizeArxiv maps an arXiv Atom entry onto the metadata schema.
// arXiv reports only an online publication date, and author names come
// as single strings that need a given/family split.
func normalizeArxiv(ae *atomEntry) *entry.Metadata {
	meta := &entry.Metadata{
		// Atom titles and summaries wrap across lines.
		Title:    collapseSpace(ae.Title),
		Abstract: strings.TrimSpace(ae.Summary),
	}

	for _, a := range ae.Authors {
		given, family := splitAuthorName(a.Name)
		if family == "" {
			continue
		}
		meta.Authors = append(meta.Authors, entry.Author{Given: given, Family: family})
	}

	if t, err := time.Parse(time.RFC3339, ae.Published); err == nil {
		meta.PublishedOnline = &entry.Date{
			Year:  t.Year(),
			Month: int(t.Month()),
			Day:   t.Day(),
		}
	}

	return meta
}

// collapseSpace collapses all whitespace runs to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitAuthorName splits a full name into given and family parts.
// The last token is taken as the family name; a lone token is a family
// name only. Multi-part surnames split incorrectly, which matches the
// precision arXiv's flat name strings allow.
func splitAuthorName(name string) (given, family string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}
