package engine

import (
	"context"
)

// Engine is the interface that all fetch engines must implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http").
	Name() string

	// Fetch performs a single GET of the requested page. A non-2xx response
	// is not an error; callers inspect FetchResult.StatusCode.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL     string
	Headers map[string]string
}

// FetchResult is the response of an engine fetch.
type FetchResult struct {
	HTML       string
	StatusCode int
	FinalURL   string
	EngineName string
}

// Success reports whether the response carried a 2xx status.
func (r *FetchResult) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
