// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/log"
	"github.com/luxfi/admarket/pkg/metric"
)

// Banner texts.
const (
	MsgOffline  = "No internet connection"
	MsgRestored = "Connection restored"
)

// RestoredBannerTTL is how long the restored notice stays up.
const RestoredBannerTTL = 3 * time.Second

// Prober checks that the backend is reachable.
type Prober interface {
	Ping(ctx context.Context) error
}

// Monitor tracks connectivity. It starts online.
type Monitor struct {
	log     log.Logger
	metrics *metric.Metrics

	mu     sync.Mutex
	online bool
	nextID int
	subs   map[int]func(bool)
}

func NewMonitor(logger log.Logger, metrics *metric.Metrics) *Monitor {
	if logger == nil {
		logger = log.NoOp()
	}
	m := &Monitor{
		log:     logger,
		metrics: metrics,
		online:  true,
		subs:    make(map[int]func(bool)),
	}
	m.setGauge(true)
	return m
}

func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe registers fn for connectivity changes.
func (m *Monitor) Subscribe(fn func(online bool)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// SetOnline records the connectivity state and notifies subscribers when it
// changes.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	m.setGauge(online)
	if online {
		m.log.Info("connectivity restored")
	} else {
		m.log.Warn("connectivity lost")
	}
	for _, fn := range subs {
		fn(online)
	}
}

// Report folds the outcome of an API call into the connectivity state. Any
// HTTP response means the network is up; errors that are neither transport
// nor HTTP failures say nothing.
func (m *Monitor) Report(err error) {
	switch {
	case err == nil:
		m.SetOnline(true)
	case api.IsNetworkError(err):
		m.SetOnline(false)
	default:
		if _, ok := api.AsAPIError(err); ok {
			m.SetOnline(true)
		}
	}
}

// Run probes p every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context, p Prober, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := p.Ping(ctx)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.Report(err)
		}
	}
}

func (m *Monitor) setGauge(online bool) {
	if m.metrics == nil {
		return
	}
	v := 0.0
	if online {
		v = 1
	}
	m.metrics.Online.Set(v)
}

// Banner derives the offline banner from connectivity changes: shown while
// offline, then a restored notice for RestoredBannerTTL.
type Banner struct {
	mu         sync.Mutex
	online     bool
	restoredAt time.Time
	wasOffline bool
}

func NewBanner() *Banner {
	return &Banner{online: true}
}

// Update records a connectivity change observed at now.
func (b *Banner) Update(online bool, now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !online {
		b.online = false
		b.wasOffline = true
		b.restoredAt = time.Time{}
		return
	}
	b.online = true
	if b.wasOffline {
		b.restoredAt = now
		b.wasOffline = false
	}
}

// Text is the banner to show at now, or "".
func (b *Banner) Text(now time.Time) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.online {
		return MsgOffline
	}
	if !b.restoredAt.IsZero() && now.Sub(b.restoredAt) < RestoredBannerTTL {
		return MsgRestored
	}
	return ""
}
