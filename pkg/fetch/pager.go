// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fetch

import (
	"context"
	"sync"

	"github.com/luxfi/admarket/pkg/api"
)

// PageSize is the number of rows shown per page. One extra row is requested
// to learn whether another page exists.
const PageSize = 20

// PageFetcher loads one window of a list endpoint.
type PageFetcher[T any] func(ctx context.Context, page api.Page) ([]T, error)

// TrimPage cuts a raw result of up to PageSize+1 rows down to one page and
// reports whether more rows exist.
func TrimPage[T any](raw []T) ([]T, bool) {
	if len(raw) > PageSize {
		return raw[:PageSize], true
	}
	return raw, false
}

// PageFor returns the window for zero-based page n.
func PageFor(n int) api.Page {
	return api.Page{Limit: PageSize + 1, Offset: n * PageSize}
}

// Pager is a Query over a paginated list.
type Pager[T any] struct {
	query *Query[[]T]

	mu    sync.Mutex
	page  int
	fetch PageFetcher[T]
}

func NewPager[T any](fetch PageFetcher[T], opts ...Option) *Pager[T] {
	p := &Pager[T]{fetch: fetch}
	p.query = NewQuery(p.load, opts...)
	return p
}

func (p *Pager[T]) load(ctx context.Context) ([]T, error) {
	p.mu.Lock()
	page, fetch := p.page, p.fetch
	p.mu.Unlock()
	return fetch(ctx, PageFor(page))
}

// Query exposes the underlying query, holding the untrimmed rows.
func (p *Pager[T]) Query() *Query[[]T] { return p.query }

func (p *Pager[T]) Mount(ctx context.Context) error { return p.query.Mount(ctx) }

func (p *Pager[T]) Unmount() { p.query.Unmount() }

func (p *Pager[T]) Refetch(ctx context.Context) error { return p.query.Refetch(ctx) }

// Page is the zero-based current page.
func (p *Pager[T]) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Items returns the current page's rows and whether a next page exists.
func (p *Pager[T]) Items() ([]T, bool) {
	state := p.query.State()
	if !state.HasData {
		return nil, false
	}
	return TrimPage(state.Data)
}

// HasMore reports whether Next would move.
func (p *Pager[T]) HasMore() bool {
	_, more := p.Items()
	return more
}

// Next moves forward when another page exists.
func (p *Pager[T]) Next(ctx context.Context) error {
	if !p.HasMore() {
		return nil
	}
	p.mu.Lock()
	p.page++
	p.mu.Unlock()
	return p.query.Refetch(ctx)
}

// Prev moves back; it stays put on the first page.
func (p *Pager[T]) Prev(ctx context.Context) error {
	p.mu.Lock()
	if p.page == 0 {
		p.mu.Unlock()
		return nil
	}
	p.page--
	p.mu.Unlock()
	return p.query.Refetch(ctx)
}

// Reset returns to the first page with a new fetcher, as when filters
// change.
func (p *Pager[T]) Reset(ctx context.Context, fetch PageFetcher[T]) error {
	p.mu.Lock()
	p.page = 0
	if fetch != nil {
		p.fetch = fetch
	}
	p.mu.Unlock()
	return p.query.Refetch(ctx)
}
