// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal/forms"
	"github.com/luxfi/admarket/pkg/router"
	"github.com/luxfi/admarket/pkg/views"
)

type listingsScreen struct {
	app  *App
	view *views.ListingBrowse
	cur  cursor
}

func (s *listingsScreen) title() string                   { return "Listings" }
func (s *listingsScreen) mount(ctx context.Context) error { return s.view.Mount(ctx) }
func (s *listingsScreen) unmount()                        { s.view.Unmount() }

func (s *listingsScreen) help() string {
	return "↑/↓ select · enter open · n/p page · f filter · r reload · c new listing"
}

func (s *listingsScreen) render(time.Time) string {
	if text, ok := placeholderFor(s.view.Pager().Query().State()); ok {
		return text
	}
	items, more := s.view.Pager().Items()
	if len(items) == 0 {
		return mutedStyle.Render("No listings yet")
	}
	pos := s.cur.at(len(items))
	var b strings.Builder
	for i, l := range items {
		line := fmt.Sprintf("#%-5d %-24s %10s TON  %-8s %s",
			l.ID, briefName(l.Channel, l.ChannelID), money(l.PriceTON), l.Format, channelBrief(l.Channel))
		b.WriteString(row(i == pos, line))
		b.WriteString("\n")
	}
	b.WriteString(pageFooter(s.view.Pager().Page(), more))
	return b.String()
}

func (s *listingsScreen) handle(key string) tea.Cmd {
	items, _ := s.view.Pager().Items()
	if s.cur.handle(key, len(items)) {
		return nil
	}
	switch key {
	case "enter":
		if len(items) > 0 {
			s.view.Open(items[s.cur.at(len(items))].ID)
		}
	case "n":
		return s.app.run(s.view.Pager().Next)
	case "p":
		return s.app.run(s.view.Pager().Prev)
	case "f":
		return s.app.openForm("Filter listings", []formField{
			{Label: "Min price (TON)"},
			{Label: "Max price (TON)"},
		}, func(ctx context.Context, v []string) error {
			return s.view.Filter(ctx, v[0], v[1])
		})
	case "r":
		return s.app.run(s.view.Pager().Refetch)
	case "c":
		s.app.navigate(router.Path(router.ListingNew))
	}
	return nil
}

func channelBrief(c *api.ChannelBrief) string {
	if c == nil {
		return ""
	}
	return mutedStyle.Render(views.StatsBrief(c.Stats))
}

func pageFooter(page int, more bool) string {
	footer := fmt.Sprintf("Page %d", page+1)
	if more {
		footer += " · more"
	}
	return mutedStyle.Render(footer)
}

type listingScreen struct {
	app  *App
	view *views.ListingDetail
}

func (s *listingScreen) title() string                   { return "Listing" }
func (s *listingScreen) mount(ctx context.Context) error { return s.view.Mount(ctx) }
func (s *listingScreen) unmount()                        { s.view.Unmount() }
func (s *listingScreen) help() string                    { return "d create deal · r reload" }

func (s *listingScreen) render(time.Time) string {
	st := s.view.Query().State()
	if text, ok := placeholderFor(st); ok {
		return text
	}
	l := st.Data
	if l == nil {
		return mutedStyle.Render("Listing not found")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(briefName(l.Channel, l.ChannelID)))
	fmt.Fprintf(&b, "%s %s TON · %s USD\n", labelStyle.Render("Price:"), money(l.PriceTON), money(l.PriceUSD))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Format:"), l.Format)
	if len(l.Categories) > 0 {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Categories:"), strings.Join(l.Categories, ", "))
	}
	if c := l.Constraints; !c.Empty() {
		if c.Lang != "" {
			fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Language:"), c.Lang)
		}
		if len(c.Geo) > 0 {
			fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Geo:"), strings.Join(c.Geo, ", "))
		}
	}
	b.WriteString("\n")
	b.WriteString(renderStats(s.view.Stats()))
	if s.view.Submitting() {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Creating deal…"))
	}
	return b.String()
}

func (s *listingScreen) handle(key string) tea.Cmd {
	switch key {
	case "d":
		return s.app.run(func(ctx context.Context) error {
			_, err := s.view.CreateDeal(ctx)
			return err
		})
	case "r":
		return s.app.run(s.view.Query().Refetch)
	}
	return nil
}

type listingNewScreen struct {
	app  *App
	view *views.ListingCreate
	cur  cursor
}

func (s *listingNewScreen) title() string                   { return "New listing" }
func (s *listingNewScreen) mount(ctx context.Context) error { return s.view.Mount(ctx) }
func (s *listingNewScreen) unmount()                        { s.view.Unmount() }
func (s *listingNewScreen) help() string                    { return "↑/↓ pick channel · enter fill in listing" }

func (s *listingNewScreen) render(time.Time) string {
	channels := s.view.Channels()
	if len(channels) == 0 {
		return mutedStyle.Render(views.MsgAddChannel)
	}
	pos := s.cur.at(len(channels))
	var b strings.Builder
	b.WriteString(labelStyle.Render("Channel"))
	b.WriteString("\n")
	for i := range channels {
		b.WriteString(row(i == pos, channels[i].DisplayName()))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *listingNewScreen) handle(key string) tea.Cmd {
	channels := s.view.Channels()
	if s.cur.handle(key, len(channels)) {
		return nil
	}
	if key != "enter" {
		return nil
	}
	var channelID int64
	if len(channels) > 0 {
		channelID = channels[s.cur.at(len(channels))].ID
	}
	return s.app.openForm("Listing", []formField{
		{Label: "Price (USD)"},
		{Label: "Price (TON)"},
		{Label: "Format", Value: "post"},
		{Label: "Categories", Placeholder: "tech, ai"},
		{Label: "Language", Placeholder: "en"},
		{Label: "Geo", Placeholder: "us, de"},
	}, func(ctx context.Context, v []string) error {
		return s.view.Submit(ctx, forms.ListingInput{
			ChannelID:  channelID,
			PriceUSD:   v[0],
			PriceTON:   v[1],
			Format:     v[2],
			Categories: v[3],
			Lang:       v[4],
			Geo:        v[5],
		})
	})
}

type requestsScreen struct {
	app  *App
	view *views.RequestBrowse
	cur  cursor
}

func (s *requestsScreen) title() string                   { return "Requests" }
func (s *requestsScreen) mount(ctx context.Context) error { return s.view.Mount(ctx) }
func (s *requestsScreen) unmount()                        { s.view.Unmount() }

func (s *requestsScreen) help() string {
	return "↑/↓ select · enter open · r respond · n/p page · f filter · c new request"
}

func (s *requestsScreen) render(time.Time) string {
	if text, ok := placeholderFor(s.view.Pager().Query().State()); ok {
		return text
	}
	items, more := s.view.Pager().Items()
	if len(items) == 0 {
		return mutedStyle.Render("No requests yet")
	}
	pos := s.cur.at(len(items))
	var b strings.Builder
	for i, r := range items {
		line := fmt.Sprintf("#%-5d %10s TON  %-12s %s",
			r.ID, money(r.Budget), orDash(r.Niche), strings.Join(r.Languages, ","))
		b.WriteString(row(i == pos, line))
		b.WriteString("\n")
	}
	b.WriteString(pageFooter(s.view.Pager().Page(), more))
	return b.String()
}

func (s *requestsScreen) handle(key string) tea.Cmd {
	items, _ := s.view.Pager().Items()
	if s.cur.handle(key, len(items)) {
		return nil
	}
	var selected int64
	if len(items) > 0 {
		selected = items[s.cur.at(len(items))].ID
	}
	switch key {
	case "enter":
		if selected != 0 {
			s.view.Open(selected)
		}
	case "r":
		if selected != 0 {
			return s.app.run(func(ctx context.Context) error {
				_, err := s.view.Respond(ctx, selected)
				return err
			})
		}
	case "n":
		return s.app.run(s.view.Pager().Next)
	case "p":
		return s.app.run(s.view.Pager().Prev)
	case "f":
		return s.app.openForm("Filter requests", []formField{
			{Label: "Min budget (TON)"},
			{Label: "Max budget (TON)"},
		}, func(ctx context.Context, v []string) error {
			return s.view.Filter(ctx, v[0], v[1])
		})
	case "c":
		s.app.navigate(router.Path(router.RequestNew))
	}
	return nil
}

type requestScreen struct {
	app  *App
	view *views.RequestDetail
	cur  cursor
}

func (s *requestScreen) title() string                   { return "Request" }
func (s *requestScreen) mount(ctx context.Context) error { return s.view.Mount(ctx) }
func (s *requestScreen) unmount()                        { s.view.Unmount() }

func (s *requestScreen) help() string {
	return "↑/↓ pick channel · d create deal · s refresh stats"
}

func (s *requestScreen) render(time.Time) string {
	st := s.view.Query().State()
	if text, ok := placeholderFor(st); ok {
		return text
	}
	r := st.Data.Request
	if r == nil {
		return mutedStyle.Render("Request not found")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s TON\n", labelStyle.Render("Budget:"), money(r.Budget))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Niche:"), orDash(r.Niche))
	if len(r.Languages) > 0 {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Languages:"), strings.Join(r.Languages, ", "))
	}
	if r.MinSubs != nil {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Min subscribers:"), views.FormatCount(r.MinSubs))
	}
	if r.MinViews != nil {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Min views:"), views.FormatCount(r.MinViews))
	}
	if d := r.Dates; !d.Empty() && (d.From != "" || d.To != "") {
		fmt.Fprintf(&b, "%s %s → %s\n", labelStyle.Render("Dates:"), d.From, d.To)
	}
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Brief:"), orDash(r.Brief))

	channels := s.view.Channels()
	if len(channels) == 0 {
		b.WriteString(mutedStyle.Render(views.MsgAddChannel))
		return b.String()
	}
	pos := s.cur.at(len(channels))
	b.WriteString(labelStyle.Render("Respond with"))
	b.WriteString("\n")
	for i := range channels {
		b.WriteString(row(i == pos, channels[i].DisplayName()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderStats(s.view.Stats(channels[pos].ID)))
	return b.String()
}

func (s *requestScreen) selected() int64 {
	channels := s.view.Channels()
	if len(channels) == 0 {
		return 0
	}
	return channels[s.cur.at(len(channels))].ID
}

func (s *requestScreen) handle(key string) tea.Cmd {
	if s.cur.handle(key, len(s.view.Channels())) {
		return nil
	}
	switch key {
	case "s":
		if id := s.selected(); id != 0 {
			return s.app.run(func(ctx context.Context) error {
				return s.view.RefreshStats(ctx, id)
			})
		}
	case "d":
		channelID := s.selected()
		return s.app.openForm("Deal terms", []formField{
			{Label: "Price (TON)", Placeholder: "request budget"},
			{Label: "Format", Placeholder: "post"},
			{Label: "Brief", Placeholder: "request brief"},
			{Label: "Publish at", Placeholder: forms.ToLocalInput(time.Now().Add(24*time.Hour), s.app.location())},
			{Label: "Verification window (min)"},
		}, func(ctx context.Context, v []string) error {
			_, err := s.view.CreateDeal(ctx, forms.RequestDealInput{
				ChannelID:          channelID,
				Price:              v[0],
				Format:             v[1],
				Brief:              v[2],
				PublishAt:          v[3],
				VerificationWindow: v[4],
			})
			return err
		})
	}
	return nil
}

type requestNewScreen struct {
	app  *App
	view *views.RequestCreate
}

func newRequestNewScreen(app *App, view *views.RequestCreate) *requestNewScreen {
	return &requestNewScreen{app: app, view: view}
}

func (s *requestNewScreen) title() string               { return "New request" }
func (s *requestNewScreen) mount(context.Context) error { return nil }
func (s *requestNewScreen) unmount()                    {}
func (s *requestNewScreen) help() string                { return "e edit request" }
func (s *requestNewScreen) render(time.Time) string     { return "" }

func (s *requestNewScreen) handle(key string) tea.Cmd {
	if key == "e" {
		s.app.form = s.newForm()
	}
	return nil
}

func (s *requestNewScreen) newForm() *form {
	return newForm("Request", []formField{
		{Label: "Budget (TON)"},
		{Label: "Niche"},
		{Label: "Languages", Placeholder: "en, ru"},
		{Label: "Min subscribers"},
		{Label: "Min views per post"},
		{Label: "Dates", Placeholder: `{"from":"2026-02-10","to":"2026-02-20"}`},
		{Label: "Brief"},
	}, func(ctx context.Context, v []string) error {
		return s.view.Submit(ctx, forms.RequestInput{
			Budget:    v[0],
			Niche:     v[1],
			Languages: v[2],
			MinSubs:   v[3],
			MinViews:  v[4],
			Dates:     v[5],
			Brief:     v[6],
		})
	})
}
