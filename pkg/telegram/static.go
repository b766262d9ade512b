// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package telegram

import "sync"

// StaticHost is a Host for runs outside the Telegram client: the terminal
// front end and tests. Links are handed to Open, or just recorded when Open
// is nil.
type StaticHost struct {
	initData string
	Open     func(link string) error

	mu     sync.Mutex
	ready  bool
	links  []string
	button *LocalBackButton
}

func NewStaticHost(initData string) *StaticHost {
	return &StaticHost{initData: initData, button: &LocalBackButton{}}
}

func (h *StaticHost) InitData() string { return h.initData }

func (h *StaticHost) Ready() {
	h.mu.Lock()
	h.ready = true
	h.mu.Unlock()
}

// IsReady reports whether Ready was called.
func (h *StaticHost) IsReady() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}

func (h *StaticHost) OpenTelegramLink(link string) error {
	h.mu.Lock()
	h.links = append(h.links, link)
	open := h.Open
	h.mu.Unlock()
	if open != nil {
		return open(link)
	}
	return nil
}

// Links returns every link opened so far.
func (h *StaticHost) Links() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.links...)
}

func (h *StaticHost) BackButton() BackButton { return h.button }

// Back returns the concrete back button.
func (h *StaticHost) Back() *LocalBackButton { return h.button }

// LocalBackButton is an in-process back button. Click fires the registered
// handlers while the button is shown.
type LocalBackButton struct {
	mu       sync.Mutex
	visible  bool
	nextID   int
	handlers map[int]func()
}

func (b *LocalBackButton) Show() {
	b.mu.Lock()
	b.visible = true
	b.mu.Unlock()
}

func (b *LocalBackButton) Hide() {
	b.mu.Lock()
	b.visible = false
	b.mu.Unlock()
}

func (b *LocalBackButton) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

func (b *LocalBackButton) OnClick(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = make(map[int]func())
	}
	id := b.nextID
	b.nextID++
	b.handlers[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// Click simulates a press. It does nothing while the button is hidden.
func (b *LocalBackButton) Click() {
	b.mu.Lock()
	if !b.visible {
		b.mu.Unlock()
		return
	}
	handlers := make([]func(), 0, len(b.handlers))
	for _, fn := range b.handlers {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}
