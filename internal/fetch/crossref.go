package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/gitbib/internal/entry"
)

const (
	// CrossrefBaseURL is the Crossref works API base URL.
	CrossrefBaseURL = "https://api.crossref.org/works"

	// DefaultTimeout bounds every remote lookup.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is one request per second, the pace Crossref's
	// etiquette guidelines ask of polite clients.
	DefaultRateLimit = 1.0
)

// CrossrefClient resolves DOIs against the Crossref works API.
type CrossrefClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// CrossrefOption configures a CrossrefClient.
type CrossrefOption func(*CrossrefClient)

// WithCrossrefHTTPClient sets a custom HTTP client.
func WithCrossrefHTTPClient(hc *http.Client) CrossrefOption {
	return func(c *CrossrefClient) { c.httpClient = hc }
}

// WithCrossrefBaseURL sets a custom base URL (for testing).
func WithCrossrefBaseURL(u string) CrossrefOption {
	return func(c *CrossrefClient) { c.baseURL = u }
}

// WithCrossrefMailto sets the contact address reported in the
// User-Agent, which moves requests into Crossref's polite pool.
func WithCrossrefMailto(addr string) CrossrefOption {
	return func(c *CrossrefClient) { c.mailto = addr }
}

// NewCrossrefClient creates a Crossref DOI resolution client.
func NewCrossrefClient(opts ...CrossrefOption) *CrossrefClient {
	c := &CrossrefClient{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		baseURL:    CrossrefBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// crossrefWork is the subset of a Crossref works payload we consume.
type crossrefWork struct {
	Message struct {
		Title               []string          `json:"title"`
		Author              []crossrefAuthor  `json:"author"`
		ContainerTitle      []string          `json:"container-title"`
		ShortContainerTitle []string          `json:"short-container-title"`
		Volume              string            `json:"volume"`
		Issue               string            `json:"issue"`
		Page                string            `json:"page"`
		Abstract            string            `json:"abstract"`
		PublishedPrint      *crossrefDateSpec `json:"published-print"`
		PublishedOnline     *crossrefDateSpec `json:"published-online"`
	} `json:"message"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDateSpec struct {
	DateParts [][]int `json:"date-parts"`
}

// toDate converts a Crossref date-parts spec to a Date. Crossref emits
// one to three parts (year, month, day).
func (s *crossrefDateSpec) toDate() *entry.Date {
	if s == nil || len(s.DateParts) == 0 || len(s.DateParts[0]) == 0 {
		return nil
	}
	parts := s.DateParts[0]
	d := &entry.Date{Year: parts[0]}
	if len(parts) > 1 {
		d.Month = parts[1]
	}
	if len(parts) > 2 {
		d.Day = parts[2]
	}
	return d
}

// Fetch performs a single Crossref lookup for a DOI and normalizes the
// response into the entry metadata schema.
func (c *CrossrefClient) Fetch(ctx context.Context, doi string) (*entry.Metadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + "/" + url.PathEscape(doi)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: doi %q not on crossref", ErrNotFound, doi)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: crossref status %d", ErrNetwork, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: crossref status %d", ErrInvalidResponse, resp.StatusCode)
	}

	var work crossrefWork
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return nil, fmt.Errorf("%w: decoding crossref payload: %v", ErrInvalidResponse, err)
	}

	return normalizeCrossref(&work), nil
}

func (c *CrossrefClient) userAgent() string {
	if c.mailto != "" {
		return fmt.Sprintf("gitbib (mailto:%s)", c.mailto)
	}
	return "gitbib"
}

// normalizeCrossref maps a Crossref work onto the metadata schema.
// Fields absent from the payload are left absent, never defaulted.
func normalizeCrossref(work *crossrefWork) *entry.Metadata {
	msg := &work.Message
	meta := &entry.Metadata{
		Abstract: msg.Abstract,
		Volume:   msg.Volume,
		Issue:    msg.Issue,
		Page:     msg.Page,
	}

	// Crossref wraps the title in a list; the first element is the one.
	if len(msg.Title) > 0 {
		meta.Title = msg.Title[0]
	}

	for _, a := range msg.Author {
		if a.Family == "" {
			continue
		}
		meta.Authors = append(meta.Authors, entry.Author{Given: a.Given, Family: a.Family})
	}

	ct := &entry.ContainerTitle{}
	if len(msg.ContainerTitle) > 0 {
		ct.FullName = msg.ContainerTitle[0]
	}
	if len(msg.ShortContainerTitle) > 0 {
		ct.ShortName = msg.ShortContainerTitle[0]
	}
	if ct.FullName != "" || ct.ShortName != "" {
		meta.ContainerTitle = ct
	}

	meta.PublishedPrint = msg.PublishedPrint.toDate()
	meta.PublishedOnline = msg.PublishedOnline.toDate()

	return meta
}
