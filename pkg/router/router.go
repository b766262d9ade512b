// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/luxfi/admarket/pkg/log"
	"github.com/luxfi/admarket/pkg/telegram"
)

// Name identifies a route.
type Name string

const (
	Listings   Name = "listings"
	Listing    Name = "listing"
	ListingNew Name = "listing.new"
	Requests   Name = "requests"
	Request    Name = "request"
	RequestNew Name = "request.new"
	Channels   Name = "channels"
	ChannelNew Name = "channel.new"
	Deals      Name = "deals"
	Deal       Name = "deal"
	DealPay    Name = "deal.pay"
	Wallet     Name = "wallet"
)

// DefaultPath is where unknown paths and crashed views land.
const DefaultPath = "/listings"

// Tabs are the bottom navigation roots, in display order.
var Tabs = []Name{Listings, Requests, Channels, Deals}

var routes = newRoutes()

func newRoutes() *mux.Router {
	r := mux.NewRouter()
	// Literal paths go before their {id} siblings.
	r.Path("/listings").Name(string(Listings))
	r.Path("/listings/new").Name(string(ListingNew))
	r.Path("/listings/{id:[0-9]+}").Name(string(Listing))
	r.Path("/requests").Name(string(Requests))
	r.Path("/requests/new").Name(string(RequestNew))
	r.Path("/requests/{id:[0-9]+}").Name(string(Request))
	r.Path("/channels").Name(string(Channels))
	r.Path("/channels/new").Name(string(ChannelNew))
	r.Path("/deals").Name(string(Deals))
	r.Path("/deals/{id:[0-9]+}").Name(string(Deal))
	r.Path("/deals/{id:[0-9]+}/pay").Name(string(DealPay))
	r.Path("/wallet").Name(string(Wallet))
	return r
}

// Location is a resolved path.
type Location struct {
	Path   string
	Name   Name
	Params map[string]string
}

// ID returns the numeric {id} parameter.
func (l Location) ID() (int64, bool) {
	raw, ok := l.Params["id"]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}

// IsTab reports whether l is a bottom navigation root.
func (l Location) IsTab() bool {
	for _, tab := range Tabs {
		if l.Name == tab {
			return true
		}
	}
	return false
}

// Resolve matches path against the route table. Anything unknown resolves
// to DefaultPath.
func Resolve(path string) Location {
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")
	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err == nil {
		var match mux.RouteMatch
		if routes.Match(req, &match) && match.MatchErr == nil {
			return Location{Path: path, Name: Name(match.Route.GetName()), Params: match.Vars}
		}
	}
	return Location{Path: DefaultPath, Name: Listings, Params: map[string]string{}}
}

// Path builds the path of a named route from key/value pairs.
func Path(name Name, pairs ...string) string {
	route := routes.Get(string(name))
	if route == nil {
		return DefaultPath
	}
	u, err := route.URLPath(pairs...)
	if err != nil {
		return DefaultPath
	}
	return u.Path
}

func idPath(name Name, id int64) string {
	return Path(name, "id", strconv.FormatInt(id, 10))
}

func DealPath(id int64) string    { return idPath(Deal, id) }
func PaymentPath(id int64) string { return idPath(DealPay, id) }
func ListingPath(id int64) string { return idPath(Listing, id) }
func RequestPath(id int64) string { return idPath(Request, id) }

// Router keeps the navigation history.
type Router struct {
	log log.Logger

	mu        sync.Mutex
	history   []Location
	listeners []func(Location)
}

// New starts at DefaultPath.
func New(logger log.Logger) *Router {
	if logger == nil {
		logger = log.NoOp()
	}
	return &Router{log: logger, history: []Location{Resolve(DefaultPath)}}
}

// Current is the location on top of the history.
func (r *Router) Current() Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history[len(r.history)-1]
}

// CanGoBack reports whether Back would move.
func (r *Router) CanGoBack() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.history) > 1
}

// OnChange registers fn for every location change.
func (r *Router) OnChange(fn func(Location)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// Navigate pushes path. Opening a tab root starts a fresh history.
func (r *Router) Navigate(path string) Location {
	loc := Resolve(path)
	r.mu.Lock()
	if loc.IsTab() {
		r.history = []Location{loc}
	} else {
		r.history = append(r.history, loc)
	}
	r.mu.Unlock()
	r.log.Debug("navigate", log.String("path", loc.Path))
	r.notify(loc)
	return loc
}

// Replace swaps the top of the history for path.
func (r *Router) Replace(path string) Location {
	loc := Resolve(path)
	r.mu.Lock()
	r.history[len(r.history)-1] = loc
	r.mu.Unlock()
	r.notify(loc)
	return loc
}

// Back pops one entry. On the first entry it stays put.
func (r *Router) Back() Location {
	r.mu.Lock()
	if len(r.history) == 1 {
		loc := r.history[0]
		r.mu.Unlock()
		return loc
	}
	r.history = r.history[:len(r.history)-1]
	loc := r.history[len(r.history)-1]
	r.mu.Unlock()
	r.notify(loc)
	return loc
}

func (r *Router) notify(loc Location) {
	r.mu.Lock()
	listeners := append([]func(Location){}, r.listeners...)
	r.mu.Unlock()
	for _, fn := range listeners {
		fn(loc)
	}
}

// BindBackButton shows the host back button off the tab roots and wires
// its click to Back. A nil button is ignored.
func (r *Router) BindBackButton(button telegram.BackButton) {
	if button == nil {
		return
	}
	update := func(loc Location) {
		if loc.IsTab() {
			button.Hide()
		} else {
			button.Show()
		}
	}
	button.OnClick(func() { r.Back() })
	r.OnChange(update)
	update(r.Current())
}
