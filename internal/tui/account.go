// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luxfi/admarket/pkg/deal"
	"github.com/luxfi/admarket/pkg/deal/forms"
	"github.com/luxfi/admarket/pkg/router"
	"github.com/luxfi/admarket/pkg/views"
)

var errNoSuchManager = errors.New("no such manager")

type channelsScreen struct {
	app  *App
	view *views.Channels
	cur  cursor
}

func (s *channelsScreen) title() string                   { return "My channels" }
func (s *channelsScreen) mount(ctx context.Context) error { return s.view.Mount(ctx) }
func (s *channelsScreen) unmount()                        { s.view.Unmount() }

func (s *channelsScreen) help() string {
	return "↑/↓ move · enter manage · a add manager · x remove manager · s refresh stats · D delete · c add channel"
}

func (s *channelsScreen) render(time.Time) string {
	st := s.view.List()
	if text, ok := placeholderFor(st); ok {
		return text
	}
	if len(st.Data) == 0 {
		return mutedStyle.Render("No channels yet")
	}
	pos := s.cur.at(len(st.Data))
	selected := s.view.Selected()

	var b strings.Builder
	for i := range st.Data {
		ch := &st.Data[i]
		mark := " "
		if ch.ID == selected {
			mark = "●"
		}
		admin := mutedStyle.Render("bot not admin")
		if ch.BotAdminStatus {
			admin = successStyle.Render("bot admin")
		}
		b.WriteString(row(i == pos, fmt.Sprintf("%s %-24s %s %s", mark, ch.DisplayName(), admin, mutedStyle.Render(views.StatsBrief(ch.Stats)))))
		b.WriteString("\n")
	}

	if selected == 0 {
		return b.String()
	}
	access := s.view.Access()
	b.WriteString("\n")
	if text, ok := placeholderFor(access); ok {
		b.WriteString(text)
		return b.String()
	}
	b.WriteString(labelStyle.Render("Managers"))
	b.WriteString("\n")
	if len(access.Data.Managers) == 0 {
		b.WriteString(mutedStyle.Render("  none"))
		b.WriteString("\n")
	}
	for i, m := range access.Data.Managers {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, tgHandle(m.TgUsername, m.TgUserID))
	}
	b.WriteString(labelStyle.Render("Telegram admins"))
	b.WriteString("\n")
	for _, a := range access.Data.Admins {
		fmt.Fprintf(&b, "  %s %s\n", tgHandle(a.TgUsername, a.TgUserID), mutedStyle.Render(a.Status))
	}
	return b.String()
}

func tgHandle(username *string, tgID int64) string {
	if username != nil && *username != "" {
		return "@" + *username
	}
	return strconv.FormatInt(tgID, 10)
}

func (s *channelsScreen) handle(key string) tea.Cmd {
	list := s.view.List().Data
	if s.cur.handle(key, len(list)) {
		return nil
	}
	var current int64
	if len(list) > 0 {
		current = list[s.cur.at(len(list))].ID
	}
	switch key {
	case "enter":
		if current != 0 {
			return s.app.run(func(ctx context.Context) error { return s.view.Select(ctx, current) })
		}
	case "a":
		return s.app.openForm("Add manager", []formField{
			{Label: "Username", Placeholder: "@username"},
		}, func(ctx context.Context, v []string) error {
			return s.view.AddManager(ctx, v[0])
		})
	case "x":
		return s.app.openForm("Remove manager", []formField{
			{Label: "Manager number"},
		}, s.removeManager)
	case "s":
		if current != 0 {
			return s.app.run(func(ctx context.Context) error { return s.view.RefreshStats(ctx, current) })
		}
	case "D":
		if current != 0 {
			return s.app.run(func(ctx context.Context) error { return s.view.Delete(ctx, current) })
		}
	case "c":
		s.app.navigate(router.Path(router.ChannelNew))
	}
	return nil
}

func (s *channelsScreen) removeManager(ctx context.Context, v []string) error {
	managers := s.view.Access().Data.Managers
	n, err := strconv.Atoi(strings.TrimSpace(v[0]))
	if err != nil || n < 1 || n > len(managers) {
		s.app.deps.Toasts.Notify(views.Toast{Kind: views.ToastError, Text: "No such manager"})
		return errNoSuchManager
	}
	return s.view.RemoveManager(ctx, managers[n-1].ID)
}

type channelNewScreen struct {
	app  *App
	view *views.ChannelCreate
}

func newChannelNewScreen(app *App, view *views.ChannelCreate) *channelNewScreen {
	return &channelNewScreen{app: app, view: view}
}

func (s *channelNewScreen) title() string               { return "Add channel" }
func (s *channelNewScreen) mount(context.Context) error { return nil }
func (s *channelNewScreen) unmount()                    {}
func (s *channelNewScreen) help() string                { return "e edit channel" }

func (s *channelNewScreen) render(time.Time) string {
	return mutedStyle.Render("Add the bot as an admin of the channel first.")
}

func (s *channelNewScreen) handle(key string) tea.Cmd {
	if key == "e" {
		s.app.form = s.newForm()
	}
	return nil
}

func (s *channelNewScreen) newForm() *form {
	return newForm("Channel", []formField{
		{Label: "Telegram chat id", Placeholder: "-100…"},
		{Label: "Username", Placeholder: "@channel"},
		{Label: "Title"},
	}, func(ctx context.Context, v []string) error {
		return s.view.Submit(ctx, forms.ChannelInput{TgChatID: v[0], Username: v[1], Title: v[2]})
	})
}

type dealsScreen struct {
	app  *App
	view *views.Deals
	cur  cursor
}

func (s *dealsScreen) title() string                   { return "Deals" }
func (s *dealsScreen) mount(ctx context.Context) error { return s.view.Mount(ctx) }
func (s *dealsScreen) unmount()                        { s.view.Unmount() }
func (s *dealsScreen) help() string                    { return "↑/↓ select · enter open · f next filter · r reload" }

func (s *dealsScreen) render(time.Time) string {
	if text, ok := placeholderFor(s.view.Query().State()); ok {
		return text
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Filter:"), filterLabel(s.view.Filter()))
	rows := s.view.Rows()
	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("No deals"))
		return b.String()
	}
	pos := s.cur.at(len(rows))
	for i, r := range rows {
		line := fmt.Sprintf("#%-5d %-18s %-24s %s TON", r.ID, r.Label, r.Channel, r.Price)
		b.WriteString(row(i == pos, line))
		b.WriteString("\n")
	}
	return b.String()
}

func filterLabel(filter string) string {
	if filter == views.FilterAll {
		return "All"
	}
	return deal.Status(filter).Label()
}

func (s *dealsScreen) handle(key string) tea.Cmd {
	rows := s.view.Rows()
	if s.cur.handle(key, len(rows)) {
		return nil
	}
	switch key {
	case "enter":
		if len(rows) > 0 {
			s.view.Open(rows[s.cur.at(len(rows))].ID)
		}
	case "f":
		filters := s.view.Filters()
		next := 0
		for i, f := range filters {
			if f == s.view.Filter() {
				next = (i + 1) % len(filters)
			}
		}
		s.view.SetFilter(filters[next])
		s.cur = cursor{}
	case "r":
		return s.app.run(s.view.Query().Refetch)
	}
	return nil
}

type walletScreen struct {
	app  *App
	view *views.WalletPage
}

func newWalletScreen(app *App, view *views.WalletPage) *walletScreen {
	return &walletScreen{app: app, view: view}
}

func (s *walletScreen) title() string               { return "Wallet" }
func (s *walletScreen) mount(context.Context) error { return nil }
func (s *walletScreen) unmount()                    {}
func (s *walletScreen) help() string                { return "e edit wallet" }

func (s *walletScreen) render(time.Time) string {
	linked := s.view.Linked()
	if linked == "" {
		return mutedStyle.Render("No wallet linked")
	}
	return fmt.Sprintf("%s %s", labelStyle.Render("Linked wallet:"), linked)
}

func (s *walletScreen) handle(key string) tea.Cmd {
	if key == "e" {
		s.app.form = s.newForm()
	}
	return nil
}

func (s *walletScreen) newForm() *form {
	return newForm("Payout wallet", []formField{
		{Label: "TON address", Value: s.view.Linked()},
	}, func(ctx context.Context, v []string) error {
		return s.view.Save(ctx, v[0])
	})
}
