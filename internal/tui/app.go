// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tui is the terminal host of the marketplace client. It renders
// the headless views with bubbletea and routes keys to their actions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/escrow"
	"github.com/luxfi/admarket/pkg/fetch"
	"github.com/luxfi/admarket/pkg/log"
	"github.com/luxfi/admarket/pkg/router"
	"github.com/luxfi/admarket/pkg/telegram"
	"github.com/luxfi/admarket/pkg/views"
)

const tickInterval = time.Second

const dash = "—"

// Deps are the collaborators of the terminal program.
type Deps struct {
	Client  *api.Client
	Env     *views.Env
	Router  *router.Router
	Toasts  *views.Toasts
	Host    *telegram.StaticHost
	Banner  *fetch.Banner
	Network escrow.Network
	Log     log.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// screen is one route rendered in the terminal.
type screen interface {
	title() string
	mount(ctx context.Context) error
	unmount()
	render(now time.Time) string
	help() string
	handle(key string) tea.Cmd
}

// formScreen is a screen that is a single form, opened on arrival.
type formScreen interface {
	screen
	newForm() *form
}

// doneMsg ends a background action. form is set when the action was a form
// submission.
type doneMsg struct {
	err  error
	form *form
}

type tickMsg time.Time

// Clipboard keeps the last copied text on screen for manual copying.
type Clipboard struct {
	mu   sync.Mutex
	text string
}

func (c *Clipboard) WriteText(text string) error {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
	return nil
}

func (c *Clipboard) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// App is the bubbletea model.
type App struct {
	ctx  context.Context
	deps Deps
	clip *Clipboard

	width      int
	loc        router.Location
	screen     screen
	form       *form
	crash      *router.CrashReport
	toastsSeen int
}

func New(ctx context.Context, deps Deps) *App {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = log.NoOp()
	}
	if deps.Toasts == nil {
		deps.Toasts = &views.Toasts{}
	}
	return &App{ctx: ctx, deps: deps, clip: &Clipboard{}}
}

// Clipboard returns the clipboard copy actions write to.
func (a *App) Clipboard() *Clipboard { return a.clip }

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.sync(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil
	case tickMsg:
		return a, tea.Batch(a.sync(), tick())
	case doneMsg:
		var report *router.CrashReport
		if errors.As(msg.err, &report) {
			a.crash = report
		}
		if msg.err == nil && msg.form != nil && a.form == msg.form {
			a.form = nil
		}
		return a, a.sync()
	case tea.KeyMsg:
		return a, a.key(msg)
	}
	return a, nil
}

func (a *App) key(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		a.close()
		return tea.Quit
	}
	a.crash = nil
	a.toastsSeen = len(a.deps.Toasts.All())

	if f := a.form; f != nil {
		action, cmd := f.update(msg)
		switch action {
		case formCancel:
			a.form = nil
		case formSubmit:
			return a.submit(f)
		}
		return cmd
	}

	switch msg.String() {
	case "q":
		a.close()
		return tea.Quit
	case "tab":
		a.switchTab(1)
	case "shift+tab":
		a.switchTab(-1)
	case "ctrl+w":
		a.deps.Router.Navigate(router.Path(router.Wallet))
	case "esc", "backspace":
		a.back()
	default:
		if a.screen != nil {
			var cmd tea.Cmd
			a.guard(func() { cmd = a.screen.handle(msg.String()) })
			return tea.Batch(cmd, a.sync())
		}
	}
	return a.sync()
}

func (a *App) close() {
	if a.screen != nil {
		a.screen.unmount()
	}
}

// back presses the host back button, which is only shown off the tab roots.
func (a *App) back() {
	if a.deps.Host == nil {
		a.deps.Router.Back()
		return
	}
	if button := a.deps.Host.Back(); button.Visible() {
		button.Click()
	}
}

func (a *App) switchTab(delta int) {
	tabs := router.Tabs
	at := -1
	for i, tab := range tabs {
		if tab == a.loc.Name {
			at = i
		}
	}
	next := 0
	if at >= 0 {
		next = (at + delta + len(tabs)) % len(tabs)
	} else if delta < 0 {
		next = len(tabs) - 1
	}
	a.deps.Router.Navigate(router.Path(tabs[next]))
}

// sync swaps the screen when the route changed since the last update.
func (a *App) sync() tea.Cmd {
	loc := a.deps.Router.Current()
	if a.screen != nil && loc.Path == a.loc.Path {
		return nil
	}
	if a.screen != nil {
		a.screen.unmount()
	}
	a.form = nil
	a.loc = loc
	a.screen = a.screenFor(loc)
	if fs, ok := a.screen.(formScreen); ok {
		a.form = fs.newForm()
	}
	a.deps.Log.Debug("screen", log.String("path", loc.Path))
	return a.run(a.screen.mount)
}

// guard runs a step of the current screen on the update loop. A panic leaves
// a crash report and the router on DefaultPath.
func (a *App) guard(step func()) bool {
	err := a.deps.Router.Guard(func() error {
		step()
		return nil
	})
	var report *router.CrashReport
	if !errors.As(err, &report) {
		return true
	}
	a.crash = report
	return false
}

// run executes fn off the update loop inside the route's crash guard.
func (a *App) run(fn func(ctx context.Context) error) tea.Cmd {
	ctx, r := a.ctx, a.deps.Router
	return func() tea.Msg {
		return doneMsg{err: r.Guard(func() error { return fn(ctx) })}
	}
}

func (a *App) submit(f *form) tea.Cmd {
	values := f.values()
	ctx, r := a.ctx, a.deps.Router
	return func() tea.Msg {
		err := r.Guard(func() error { return f.submit(ctx, values) })
		return doneMsg{err: err, form: f}
	}
}

func (a *App) openForm(title string, fields []formField, submit submitFunc) tea.Cmd {
	a.form = newForm(title, fields, submit)
	return nil
}

func (a *App) navigate(path string) {
	a.deps.Router.Navigate(path)
}

func (a *App) screenFor(loc router.Location) screen {
	env, client := a.deps.Env, a.deps.Client
	id, _ := loc.ID()
	switch loc.Name {
	case router.Listing:
		return &listingScreen{app: a, view: views.NewListingDetail(client, env, id)}
	case router.ListingNew:
		return &listingNewScreen{app: a, view: views.NewListingCreate(client, env)}
	case router.Requests:
		return &requestsScreen{app: a, view: views.NewRequestBrowse(client, env)}
	case router.Request:
		return &requestScreen{app: a, view: views.NewRequestDetail(client, env, id)}
	case router.RequestNew:
		return newRequestNewScreen(a, views.NewRequestCreate(client, env))
	case router.Channels:
		return &channelsScreen{app: a, view: views.NewChannels(client, env)}
	case router.ChannelNew:
		return newChannelNewScreen(a, views.NewChannelCreate(client, env))
	case router.Deals:
		return &dealsScreen{app: a, view: views.NewDeals(client, env)}
	case router.Deal:
		return &dealScreen{app: a, view: views.NewDealDetail(client, env, id)}
	case router.DealPay:
		return &paymentScreen{app: a, view: views.NewPayment(client, env, id, a.deps.Network)}
	case router.Wallet:
		return newWalletScreen(a, views.NewWalletPage(client, env))
	default:
		return &listingsScreen{app: a, view: views.NewListingBrowse(client, env)}
	}
}

func (a *App) View() string {
	now := a.deps.Now()
	var b strings.Builder

	var body string
	if a.screen != nil && !a.guard(func() { body = a.screen.render(now) }) {
		a.screen.unmount()
		a.screen = nil
	}

	b.WriteString(a.tabs())
	b.WriteString("\n")
	if a.deps.Banner != nil {
		if text := a.deps.Banner.Text(now); text != "" {
			b.WriteString(bannerStyle.Render(text))
			b.WriteString("\n")
		}
	}
	if a.crash != nil {
		b.WriteString(errorStyle.Render(a.crash.Title()))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(a.crash.Hint()))
		b.WriteString("\n")
	}

	if a.screen != nil {
		b.WriteString(titleStyle.Render(a.screen.title()))
		b.WriteString(" ")
		b.WriteString(mutedStyle.Render(a.loc.Path))
		b.WriteString("\n\n")
		b.WriteString(body)
		b.WriteString("\n")
	}
	if a.form != nil {
		b.WriteString("\n")
		b.WriteString(a.form.view())
		b.WriteString("\n")
	}

	toasts := a.deps.Toasts.All()
	if len(toasts) > a.toastsSeen {
		b.WriteString("\n")
		b.WriteString(renderToast(toasts[len(toasts)-1]))
		b.WriteString("\n")
	}
	if text := a.clip.Text(); text != "" {
		b.WriteString(mutedStyle.Render("Clipboard: "))
		b.WriteString(text)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if a.screen != nil && a.form == nil {
		b.WriteString(helpStyle.Render(a.screen.help()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab switch tab · ctrl+w wallet · esc back · q quit"))
	out := b.String()
	if a.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(a.width).Render(out)
	}
	return out
}

func (a *App) tabs() string {
	parts := make([]string, 0, len(router.Tabs)+1)
	for _, tab := range router.Tabs {
		label := tabLabel(tab)
		if tab == a.loc.Name {
			parts = append(parts, activeTab.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	if a.deps.Env != nil && a.deps.Env.Session != nil {
		if u := a.deps.Env.Session.User(); u != nil {
			parts = append(parts, mutedStyle.Render(userName(u)))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func tabLabel(name router.Name) string {
	switch name {
	case router.Listings:
		return "Listings"
	case router.Requests:
		return "Requests"
	case router.Channels:
		return "Channels"
	case router.Deals:
		return "Deals"
	}
	return string(name)
}

func userName(u *api.User) string {
	if u.TgUsername != nil && *u.TgUsername != "" {
		return "@" + *u.TgUsername
	}
	return fmt.Sprintf("user %d", u.TgUserID)
}

func renderToast(t views.Toast) string {
	if t.Kind == views.ToastError {
		return errorStyle.Render("✗ " + t.Text)
	}
	return successStyle.Render("✓ " + t.Text)
}

// cursor is a selection over a list.
type cursor struct{ pos int }

// handle moves the cursor on up/down keys over n rows.
func (c *cursor) handle(key string, n int) bool {
	switch key {
	case "up", "k":
		if c.pos > 0 {
			c.pos--
		}
		return true
	case "down", "j":
		if c.pos < n-1 {
			c.pos++
		}
		return true
	}
	return false
}

// at clamps the cursor to n rows.
func (c *cursor) at(n int) int {
	if c.pos >= n {
		c.pos = n - 1
	}
	if c.pos < 0 {
		c.pos = 0
	}
	return c.pos
}

func row(selected bool, text string) string {
	if selected {
		return selectedStyle.Render("> " + text)
	}
	return "  " + text
}

// placeholderFor renders a query that has no data yet.
func placeholderFor[T any](s fetch.State[T]) (string, bool) {
	if s.HasData {
		return "", false
	}
	if s.Err != nil {
		return errorStyle.Render(s.Message()), true
	}
	return mutedStyle.Render("Loading…"), true
}

func money(d decimal.NullDecimal) string {
	if !d.Valid {
		return dash
	}
	return d.Decimal.String()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return dash
	}
	return *s
}

func briefName(c *api.ChannelBrief, id int64) string {
	if c != nil {
		if c.Title != nil && *c.Title != "" {
			return *c.Title
		}
		if c.Username != nil && *c.Username != "" {
			return "@" + *c.Username
		}
	}
	return fmt.Sprintf("#%d", id)
}

func renderStats(lines []views.StatLine) string {
	if len(lines) == 0 {
		return mutedStyle.Render(views.MsgStatsMissing)
	}
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "%s %s", labelStyle.Render(l.Label+":"), l.Value)
		if l.Trend != nil {
			style := downStyle
			if l.Trend.Up {
				style = upStyle
			}
			b.WriteString(" ")
			b.WriteString(style.Render(l.Trend.String()))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) location() *time.Location {
	if a.deps.Env != nil && a.deps.Env.Location != nil {
		return a.deps.Env.Location
	}
	return time.Local
}
