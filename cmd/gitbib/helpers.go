package main

import (
	"os"

	"github.com/matsen/gitbib/internal/config"
	"github.com/matsen/gitbib/internal/fetch"
)

// newFetchService builds the remote metadata service, wiring in the
// Crossref polite-pool contact address if one is configured.
// GITBIB_MAILTO overrides the global config file.
func newFetchService() *fetch.Service {
	mailto := os.Getenv("GITBIB_MAILTO")
	if mailto == "" {
		if global, err := config.LoadGlobal(); err == nil {
			mailto = global.Mailto
		}
	}

	var opts []fetch.Option
	if mailto != "" {
		opts = append(opts, fetch.WithCrossrefOptions(fetch.WithCrossrefMailto(mailto)))
	}
	return fetch.NewService(opts...)
}
