// Package engine orchestrates a full bibliography build: load order in,
// identifiers sniffed, metadata fetched through the cache, descriptions
// parsed, and cross-references resolved.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/matsen/gitbib/internal/cache"
	"github.com/matsen/gitbib/internal/describe"
	"github.com/matsen/gitbib/internal/entry"
	"github.com/matsen/gitbib/internal/fetch"
	"github.com/matsen/gitbib/internal/pdf"
	"github.com/matsen/gitbib/internal/resolve"
	"github.com/matsen/gitbib/internal/source"
)

// DefaultWorkers bounds concurrent metadata fetches. The per-service
// rate limiters are the real throttle; this just caps in-flight work.
const DefaultWorkers = 4

// Engine wires the build pipeline together. Zero-value fields get
// sensible defaults from Build.
type Engine struct {
	Cache *cache.Cache
	Fetch fetch.Func

	// Workers caps concurrent fetches. Defaults to DefaultWorkers.
	Workers int

	// SniffDOI recovers a DOI from a local PDF. Defaults to pdf.SniffDOI.
	SniffDOI func(path string) (string, error)

	Log *slog.Logger
}

// Result is a fully built bibliography plus the non-fatal diagnostics
// accumulated along the way.
type Result struct {
	Entries  []*entry.Entry
	Registry *entry.Registry

	// Notices report degraded metadata fetches, in entry order.
	Notices []*cache.Notice

	// Warnings report dangling cross-references, in entry order.
	Warnings []resolve.Warning
}

// Build runs the pipeline over loaded source records.
//
// Identifier problems are fatal: a bibliography with colliding or
// malformed identifiers cannot be resolved. Everything downstream
// degrades instead, fetch failures become Notices and dangling
// references become Warnings.
func (g *Engine) Build(ctx context.Context, recs []source.RawEntry) (*Result, error) {
	log := g.Log
	if log == nil {
		log = slog.Default()
	}
	sniff := g.SniffDOI
	if sniff == nil {
		sniff = pdf.SniffDOI
	}

	reg := entry.NewRegistry()
	entries := make([]*entry.Entry, 0, len(recs))
	for _, rec := range recs {
		e := &entry.Entry{
			ID:             rec.ID,
			External:       rec.External(),
			Tags:           rec.Tags,
			PDFPath:        rec.PDF,
			RawDescription: rec.Description,
		}
		if err := reg.Add(e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	for _, e := range entries {
		if e.External != nil || e.PDFPath == "" {
			continue
		}
		doi, err := sniff(e.PDFPath)
		if err != nil {
			log.Warn("pdf doi sniff failed", "id", e.ID, "pdf", e.PDFPath, "err", err)
			continue
		}
		if doi == "" {
			log.Debug("no doi found in pdf", "id", e.ID, "pdf", e.PDFPath)
			continue
		}
		log.Info("recovered doi from pdf", "id", e.ID, "doi", doi)
		e.External = &entry.ExternalID{Kind: entry.KindDOI, Value: doi}
	}

	notices := g.fetchAll(ctx, entries, log)

	for _, e := range entries {
		e.Description = describe.Parse(e.RawDescription)
	}

	warnings := resolve.Resolve(reg)

	return &Result{
		Entries:  entries,
		Registry: reg,
		Notices:  notices,
		Warnings: warnings,
	}, nil
}

// fetchAll populates entry metadata concurrently. Results land in
// per-entry slots so notice order follows entry order, not completion
// order.
func (g *Engine) fetchAll(ctx context.Context, entries []*entry.Entry, log *slog.Logger) []*cache.Notice {
	if g.Fetch == nil {
		return nil
	}

	workers := g.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	type slot struct {
		meta   *entry.Metadata
		notice *cache.Notice
	}
	slots := make([]slot, len(entries))

	work := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				ext := *entries[i].External
				if g.Cache != nil {
					slots[i].meta, slots[i].notice = g.Cache.GetOrFetch(ctx, ext, g.Fetch)
					continue
				}
				meta, err := g.Fetch(ctx, ext)
				if err != nil {
					slots[i].notice = &cache.Notice{
						External: ext,
						Message:  ext.String() + ": fetch failed (" + err.Error() + "), no cached metadata available",
						Err:      err,
					}
					continue
				}
				slots[i].meta = meta
			}
		}()
	}

feed:
	for i, e := range entries {
		if e.External == nil {
			continue
		}
		select {
		case work <- i:
		case <-ctx.Done():
			log.Warn("fetch phase interrupted", "err", ctx.Err())
			break feed
		}
	}
	close(work)
	wg.Wait()

	var notices []*cache.Notice
	for i, e := range entries {
		if slots[i].meta != nil {
			e.Meta = *slots[i].meta
		}
		if slots[i].notice != nil {
			notices = append(notices, slots[i].notice)
		}
	}
	return notices
}
