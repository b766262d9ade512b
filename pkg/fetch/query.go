// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fetch tracks the lifecycle of asynchronous loads for the views:
// loading, data and error state, re-runs on mount, dependency change and
// explicit refetch, an offline-aware mode and page-by-page lists.
package fetch

import (
	"context"
	"sync"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/log"
)

// Fetcher produces a value.
type Fetcher[T any] func(ctx context.Context) (T, error)

// State is a snapshot of a Query. Data keeps the last good value while a
// reload is in flight.
type State[T any] struct {
	Loading bool
	Data    T
	HasData bool
	Err     error
	// Offline is set when the last load failed at the transport level.
	Offline bool
}

// Message is the error text to show, or "".
func (s State[T]) Message() string {
	return api.Message(s.Err)
}

type options struct {
	log     log.Logger
	monitor *Monitor
}

type Option func(*options)

func WithLogger(l log.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMonitor makes the query offline-aware: transport failures are reported
// to m and the query reloads itself when m comes back online.
func WithMonitor(m *Monitor) Option {
	return func(o *options) { o.monitor = m }
}

// Query runs a Fetcher on behalf of one view.
//
// Results that arrive after Unmount, or after a newer load has started, are
// dropped. Unmount does not cancel the request itself.
type Query[T any] struct {
	opts options

	mu        sync.Mutex
	fetch     Fetcher[T]
	state     State[T]
	mounted   bool
	gen       uint64
	listeners []func(State[T])
	unsub     func()
}

func NewQuery[T any](fetch Fetcher[T], opts ...Option) *Query[T] {
	o := options{log: log.NoOp()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Query[T]{
		opts:  o,
		fetch: fetch,
		state: State[T]{Loading: true},
	}
}

// State returns the current snapshot.
func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// OnChange registers fn to receive every new state. fn runs on the goroutine
// that caused the change.
func (q *Query[T]) OnChange(fn func(State[T])) {
	q.mu.Lock()
	q.listeners = append(q.listeners, fn)
	q.mu.Unlock()
}

// Mount starts the query and performs the first load.
func (q *Query[T]) Mount(ctx context.Context) error {
	q.mu.Lock()
	q.mounted = true
	if q.opts.monitor != nil && q.unsub == nil {
		q.unsub = q.opts.monitor.Subscribe(q.onConnectivity)
	}
	q.mu.Unlock()
	return q.Refetch(ctx)
}

// Unmount stops state updates. Loads still in flight complete unobserved.
func (q *Query[T]) Unmount() {
	q.mu.Lock()
	q.mounted = false
	unsub := q.unsub
	q.unsub = nil
	q.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Mounted reports whether the query is live.
func (q *Query[T]) Mounted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.mounted
}

// SetFetcher swaps the producer, as when a view's inputs change, and
// reloads.
func (q *Query[T]) SetFetcher(ctx context.Context, fetch Fetcher[T]) error {
	q.mu.Lock()
	q.fetch = fetch
	q.mu.Unlock()
	return q.Refetch(ctx)
}

// Refetch runs the producer and records the outcome. The returned error is
// the producer's own; it is also kept in State.
func (q *Query[T]) Refetch(ctx context.Context) error {
	q.mu.Lock()
	q.gen++
	gen := q.gen
	fetch := q.fetch
	if q.mounted {
		q.state.Loading = true
		q.state.Err = nil
	}
	q.mu.Unlock()
	q.notify()

	value, err := fetch(ctx)
	// Report after the state is settled so a reconnect does not reload this
	// query a second time.
	if q.opts.monitor != nil {
		defer q.opts.monitor.Report(err)
	}

	q.mu.Lock()
	if !q.mounted || gen != q.gen {
		q.mu.Unlock()
		q.opts.log.Debug("dropping stale load result")
		return err
	}
	q.state.Loading = false
	q.state.Offline = api.IsNetworkError(err)
	if err != nil {
		q.state.Err = err
	} else {
		q.state.Data = value
		q.state.HasData = true
		q.state.Err = nil
	}
	q.mu.Unlock()
	q.notify()
	return err
}

func (q *Query[T]) onConnectivity(online bool) {
	if !online {
		return
	}
	q.mu.Lock()
	retry := q.mounted && q.state.Offline
	q.mu.Unlock()
	if !retry {
		return
	}
	q.opts.log.Info("connection restored, reloading")
	_ = q.Refetch(context.Background())
}

func (q *Query[T]) notify() {
	q.mu.Lock()
	state := q.state
	listeners := append([]func(State[T]){}, q.listeners...)
	mounted := q.mounted
	q.mu.Unlock()
	if !mounted {
		return
	}
	for _, fn := range listeners {
		fn(state)
	}
}
