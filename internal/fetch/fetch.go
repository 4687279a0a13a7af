// Package fetch retrieves bibliographic metadata from external
// identifier-resolution services and normalizes it into the entry
// metadata schema.
//
// One backend exists per identifier kind: Crossref for DOIs and the
// arXiv API for arXiv IDs. Both are rate-limited as a courtesy to the
// services and bounded by a request timeout. A fetch is side-effect
// free: it returns a metadata bag and mutates no shared state; writing
// results into entries and the cache is the caller's job.
package fetch

import (
	"context"
	"fmt"

	"github.com/matsen/gitbib/internal/entry"
)

// Fetcher performs a single remote lookup for one identifier kind.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (*entry.Metadata, error)
}

// Func fetches metadata for an external identifier of any kind.
// It is the injection point for fakes in tests.
type Func func(ctx context.Context, ext entry.ExternalID) (*entry.Metadata, error)

// Service dispatches fetches to the backend for each identifier kind.
type Service struct {
	Crossref Fetcher
	Arxiv    Fetcher
}

// NewService returns a Service with default Crossref and arXiv clients.
func NewService(opts ...Option) *Service {
	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Service{
		Crossref: NewCrossrefClient(cfg.crossref...),
		Arxiv:    NewArxivClient(cfg.arxiv...),
	}
}

// Fetch looks up an external identifier via the backend for its kind.
func (s *Service) Fetch(ctx context.Context, ext entry.ExternalID) (*entry.Metadata, error) {
	switch ext.Kind {
	case entry.KindDOI:
		return s.Crossref.Fetch(ctx, ext.Value)
	case entry.KindArxiv:
		return s.Arxiv.Fetch(ctx, ext.Value)
	default:
		return nil, fmt.Errorf("unsupported identifier kind %q", ext.Kind)
	}
}

type options struct {
	crossref []CrossrefOption
	arxiv    []ArxivOption
}

// Option configures the Service's backends.
type Option func(*options)

// WithCrossrefOptions forwards options to the Crossref backend.
func WithCrossrefOptions(opts ...CrossrefOption) Option {
	return func(o *options) { o.crossref = append(o.crossref, opts...) }
}

// WithArxivOptions forwards options to the arXiv backend.
func WithArxivOptions(opts ...ArxivOption) Option {
	return func(o *options) { o.arxiv = append(o.arxiv, opts...) }
}
