package cache

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/matsen/gitbib/internal/entry"
	"github.com/matsen/gitbib/internal/fetch"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "gitbib.sqlite"), slog.Default())
	if err != nil {
		t.Fatalf("Open(): %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func failingFetch(err error) fetch.Func {
	return func(ctx context.Context, ext entry.ExternalID) (*entry.Metadata, error) {
		return nil, err
	}
}

func fixedFetch(meta *entry.Metadata) fetch.Func {
	return func(ctx context.Context, ext entry.ExternalID) (*entry.Metadata, error) {
		return meta, nil
	}
}

func TestCache_PutGetRoundTrip(t *testing.T) {
	c := openTestCache(t)
	ext := entry.ExternalID{Kind: entry.KindDOI, Value: "10.1/x"}

	meta := &entry.Metadata{
		Title:   "Cached title",
		Authors: []entry.Author{{Given: "Ada", Family: "Lovelace"}},
	}
	if err := c.Put(ext, meta); err != nil {
		t.Fatalf("Put(): %v", err)
	}

	rec, err := c.Get(ext)
	if err != nil {
		t.Fatalf("Get(): %v", err)
	}
	if rec == nil {
		t.Fatal("Get() = nil, want record")
	}
	if rec.Meta.Title != "Cached title" || len(rec.Meta.Authors) != 1 {
		t.Errorf("Get() meta = %#v", rec.Meta)
	}
	if rec.FetchedAt.IsZero() {
		t.Error("FetchedAt is zero")
	}
}

func TestCache_GetMissingReturnsNil(t *testing.T) {
	c := openTestCache(t)
	rec, err := c.Get(entry.ExternalID{Kind: entry.KindArxiv, Value: "1411.4028"})
	if err != nil {
		t.Fatalf("Get(): %v", err)
	}
	if rec != nil {
		t.Errorf("Get() = %#v, want nil", rec)
	}
}

func TestGetOrFetch_FreshDataOverwritesCache(t *testing.T) {
	c := openTestCache(t)
	ext := entry.ExternalID{Kind: entry.KindDOI, Value: "10.1/x"}

	if err := c.Put(ext, &entry.Metadata{Title: "Old title"}); err != nil {
		t.Fatalf("Put(): %v", err)
	}

	meta, notice := c.GetOrFetch(context.Background(), ext, fixedFetch(&entry.Metadata{Title: "New title"}))
	if notice != nil {
		t.Fatalf("GetOrFetch() notice = %v, want nil", notice)
	}
	if meta.Title != "New title" {
		t.Errorf("GetOrFetch() title = %q, want %q", meta.Title, "New title")
	}

	rec, err := c.Get(ext)
	if err != nil || rec == nil {
		t.Fatalf("Get() after refresh: %v, %v", rec, err)
	}
	if rec.Meta.Title != "New title" {
		t.Errorf("cache not overwritten, title = %q", rec.Meta.Title)
	}
}

func TestGetOrFetch_FallsBackToStaleCache(t *testing.T) {
	c := openTestCache(t)
	ext := entry.ExternalID{Kind: entry.KindDOI, Value: "10.1/x"}

	if err := c.Put(ext, &entry.Metadata{Title: "Stale but serviceable"}); err != nil {
		t.Fatalf("Put(): %v", err)
	}

	netErr := errors.New("simulated outage")
	meta, notice := c.GetOrFetch(context.Background(), ext, failingFetch(netErr))

	if meta == nil || meta.Title != "Stale but serviceable" {
		t.Fatalf("GetOrFetch() meta = %#v, want stale record", meta)
	}
	if notice == nil {
		t.Fatal("GetOrFetch() notice = nil, want stale notice")
	}
	if !notice.Stale {
		t.Error("notice.Stale = false, want true")
	}
	if !errors.Is(notice.Err, netErr) {
		t.Errorf("notice.Err = %v, want %v", notice.Err, netErr)
	}
}

func TestGetOrFetch_MissAndFailureYieldsNothing(t *testing.T) {
	c := openTestCache(t)
	ext := entry.ExternalID{Kind: entry.KindArxiv, Value: "1411.4028"}

	meta, notice := c.GetOrFetch(context.Background(), ext, failingFetch(fetch.ErrNetwork))

	if meta != nil {
		t.Errorf("GetOrFetch() meta = %#v, want nil", meta)
	}
	if notice == nil {
		t.Fatal("GetOrFetch() notice = nil, want notice")
	}
	if notice.Stale {
		t.Error("notice.Stale = true, want false")
	}
}

func TestCache_KeyedByExternalID(t *testing.T) {
	c := openTestCache(t)

	// Same value under different kinds must be distinct records.
	doi := entry.ExternalID{Kind: entry.KindDOI, Value: "shared"}
	arxiv := entry.ExternalID{Kind: entry.KindArxiv, Value: "shared"}

	if err := c.Put(doi, &entry.Metadata{Title: "From crossref"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(arxiv, &entry.Metadata{Title: "From arxiv"}); err != nil {
		t.Fatal(err)
	}

	n, err := c.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Len() = %d, want 2", n)
	}

	rec, err := c.Get(doi)
	if err != nil || rec == nil {
		t.Fatalf("Get(doi): %v, %v", rec, err)
	}
	if rec.Meta.Title != "From crossref" {
		t.Errorf("doi record title = %q", rec.Meta.Title)
	}
}

func TestCache_PersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gitbib.sqlite")
	ext := entry.ExternalID{Kind: entry.KindDOI, Value: "10.1/persist"}

	c1, err := Open(path, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := c1.Put(ext, &entry.Metadata{Title: "Persisted"}); err != nil {
		t.Fatal(err)
	}
	c1.Close()

	c2, err := Open(path, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	defer c2.Close()

	rec, err := c2.Get(ext)
	if err != nil || rec == nil {
		t.Fatalf("Get() after reopen: %v, %v", rec, err)
	}
	if rec.Meta.Title != "Persisted" {
		t.Errorf("title = %q, want %q", rec.Meta.Title, "Persisted")
	}
}
