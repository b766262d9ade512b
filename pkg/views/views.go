// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package views holds the headless controllers behind every screen of the
// marketplace client. A controller loads its data through fetch queries,
// validates input through the forms package, calls the API and reports the
// outcome through a Notifier. Rendering is left to the host.
package views

import (
	"errors"
	"sync"
	"time"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/fetch"
	"github.com/luxfi/admarket/pkg/log"
	"github.com/luxfi/admarket/pkg/metric"
	"github.com/luxfi/admarket/pkg/router"
	"github.com/luxfi/admarket/pkg/session"
	"github.com/luxfi/admarket/pkg/telegram"
)

// ErrBusy is returned when an action is triggered while another one from
// the same view is still in flight.
var ErrBusy = errors.New("another action is in progress")

// ToastKind tags a Toast.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

type Toast struct {
	Kind ToastKind
	Text string
}

// Notifier shows transient messages.
type Notifier interface {
	Notify(Toast)
}

// Navigator moves between routes. *router.Router satisfies it.
type Navigator interface {
	Navigate(path string) router.Location
	Back() router.Location
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteText(text string) error
}

// Env carries the collaborators shared by all views.
type Env struct {
	Log     log.Logger
	Metrics *metric.Metrics
	Monitor *fetch.Monitor
	Toasts  Notifier
	Nav     Navigator
	Session *session.Session
	Host    telegram.Host
	BotURL  string
	// Location interprets local date-time input. Defaults to time.Local.
	Location *time.Location
}

func (e *Env) logger() log.Logger {
	if e.Log == nil {
		return log.NoOp()
	}
	return e.Log
}

func (e *Env) location() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

func (e *Env) queryOptions() []fetch.Option {
	opts := []fetch.Option{fetch.WithLogger(e.logger())}
	if e.Monitor != nil {
		opts = append(opts, fetch.WithMonitor(e.Monitor))
	}
	return opts
}

func (e *Env) success(text string) {
	if e.Toasts != nil {
		e.Toasts.Notify(Toast{Kind: ToastSuccess, Text: text})
	}
}

// fail reports err verbatim and returns it.
func (e *Env) fail(err error) error {
	if err == nil {
		return nil
	}
	if e.Toasts != nil {
		e.Toasts.Notify(Toast{Kind: ToastError, Text: api.Message(err)})
	}
	return err
}

func (e *Env) navigate(path string) {
	if e.Nav != nil {
		e.Nav.Navigate(path)
	}
}

func (e *Env) back() {
	if e.Nav != nil {
		e.Nav.Back()
	}
}

func (e *Env) userID() int64 {
	if e.Session == nil {
		return 0
	}
	return e.Session.UserID()
}

// Toasts is an in-memory Notifier. The zero value is ready to use.
type Toasts struct {
	mu      sync.Mutex
	entries []Toast
	onToast func(Toast)
}

func (t *Toasts) Notify(toast Toast) {
	t.mu.Lock()
	t.entries = append(t.entries, toast)
	fn := t.onToast
	t.mu.Unlock()
	if fn != nil {
		fn(toast)
	}
}

// OnToast registers a callback for every new toast.
func (t *Toasts) OnToast(fn func(Toast)) {
	t.mu.Lock()
	t.onToast = fn
	t.mu.Unlock()
}

// All returns every toast shown so far.
func (t *Toasts) All() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Toast(nil), t.entries...)
}

// Last returns the most recent toast.
func (t *Toasts) Last() (Toast, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) == 0 {
		return Toast{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// busy is a single-flight flag for a view's actions.
type busy struct {
	mu     sync.Mutex
	active bool
}

func (b *busy) begin() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active {
		return false
	}
	b.active = true
	return true
}

func (b *busy) end() {
	b.mu.Lock()
	b.active = false
	b.mu.Unlock()
}

func (b *busy) running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}
