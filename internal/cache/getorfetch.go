package cache

import (
	"context"
	"fmt"

	"github.com/matsen/gitbib/internal/entry"
	"github.com/matsen/gitbib/internal/fetch"
)

// Notice is a non-fatal diagnostic from a get-or-fetch cycle: the
// remote lookup failed and either stale cached data or nothing at all
// was served in its place. Notices are surfaced to the caller for
// display; they never fail the pipeline.
type Notice struct {
	External entry.ExternalID `json:"external_id"`
	Stale    bool             `json:"stale"`
	Message  string           `json:"message"`

	// Err is the underlying fetch failure.
	Err error `json:"-"`
}

func (n *Notice) String() string {
	return n.Message
}

// GetOrFetch resolves an external identifier to a metadata bag. It
// never fails outright; it degrades to stale-or-absent data.
//
// A fresh fetch is always attempted, even on a cache hit, and on
// success overwrites the cached record. On failure a cached record is
// served stale; with no cached record the result is nil metadata. Both
// degradations return a Notice.
func (c *Cache) GetOrFetch(ctx context.Context, ext entry.ExternalID, f fetch.Func) (*entry.Metadata, *Notice) {
	cached, err := c.Get(ext)
	if err != nil {
		// A broken cache record only costs us the fallback.
		c.log.Warn("cache read failed", "id", ext.String(), "err", err)
		cached = nil
	}

	meta, fetchErr := f(ctx, ext)
	if fetchErr == nil {
		if cached != nil {
			c.log.Debug("refreshed cached metadata", "id", ext.String())
		}
		if err := c.Put(ext, meta); err != nil {
			c.log.Warn("cache write failed", "id", ext.String(), "err", err)
		}
		return meta, nil
	}

	if cached != nil {
		c.log.Warn("fetch failed, serving cached metadata",
			"id", ext.String(), "fetched_at", cached.FetchedAt, "err", fetchErr)
		return cached.Meta, &Notice{
			External: ext,
			Stale:    true,
			Message:  fmt.Sprintf("%s: fetch failed (%v), served cached metadata from %s", ext, fetchErr, cached.FetchedAt.Format("2006-01-02")),
			Err:      fetchErr,
		}
	}

	c.log.Warn("fetch failed with no cached fallback", "id", ext.String(), "err", fetchErr)
	return nil, &Notice{
		External: ext,
		Message:  fmt.Sprintf("%s: fetch failed (%v), no cached metadata available", ext, fetchErr),
		Err:      fetchErr,
	}
}
