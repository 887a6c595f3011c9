package fetcher

import (
	"context"
)

// Fetcher retrieves remote marketplace content over plain HTTP.
type Fetcher interface {
	// FetchPage retrieves the HTML body at the given URL.
	FetchPage(ctx context.Context, url string) ([]byte, error)

	// Probe issues a metadata-only request and reports whether the URL
	// exists and what content type it serves.
	Probe(ctx context.Context, url string) (contentType string, ok bool)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Renderer is the optional headless rendering capability. It loads a page
// in a real rendering engine and reads an attribute off the first matching
// selector, covering client-rendered content that static HTML lacks.
type Renderer interface {
	// RenderAttr navigates to url and returns the named attribute of the
	// first element matching any of the selectors, in order.
	RenderAttr(ctx context.Context, url string, selectors []string, attr string) (string, error)

	// Close shuts the rendering engine down. Safe to call on every exit path.
	Close() error
}
