// Package extractor fetches a page through the cache and resolves a field
// map against it.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/pagefields/cache"
	"github.com/use-agent/pagefields/engine"
	"github.com/use-agent/pagefields/models"
	"golang.org/x/net/html"
)

// Extractor turns a URL and a field map into an extraction result.
// It is safe for concurrent use if its store and engine are.
type Extractor struct {
	store  cache.Store
	engine engine.Engine
}

// New creates an Extractor reading and writing pages through store and
// downloading misses with eng.
func New(store cache.Store, eng engine.Engine) *Extractor {
	return &Extractor{store: store, engine: eng}
}

// Extract fetches url (or reads it from the cache), parses it and walks
// fields. Any fetch failure aborts the whole extraction; fields that match
// nothing do not.
func (x *Extractor) Extract(ctx context.Context, url string, fields models.FieldMap) (*models.Result, error) {
	page, err := x.fetchPage(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := parse(page)
	if err != nil {
		return nil, err
	}

	return Walk(doc, fields)
}

// fetchPage is a read-through/write-through lookup. Concurrent misses on the
// same URL each fetch the page; the last write wins.
func (x *Extractor) fetchPage(ctx context.Context, url string) (string, error) {
	key := cache.Key(url)

	cached, hit, err := x.store.Get(ctx, key)
	switch {
	case err != nil:
		slog.Warn("cache read failed, fetching page", "url", url, "error", err)
	case hit:
		slog.Debug("cache hit", "url", url)
		return cached, nil
	default:
		slog.Debug("cache miss", "url", url)
	}

	res, err := x.engine.Fetch(ctx, &engine.FetchRequest{URL: url})
	if err != nil {
		return "", err
	}
	if !res.Success() {
		slog.Info("fetch failed", "url", url, "status", res.StatusCode, "engine", res.EngineName)
		return "", models.ErrFetchFailed(url, res.StatusCode)
	}
	slog.Info("page fetched", "url", url, "status", res.StatusCode, "bytes", len(res.HTML), "engine", res.EngineName)

	if err := x.store.Set(ctx, key, res.HTML); err != nil {
		slog.Warn("cache write failed", "url", url, "error", err)
	}
	return res.HTML, nil
}

// parse builds a document with the lenient HTML5 parser, so broken markup
// still yields a tree.
func parse(page string) (*goquery.Document, error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}
