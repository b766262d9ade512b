// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal/forms"
	"github.com/luxfi/admarket/pkg/views"
)

type dealScreen struct {
	app  *App
	view *views.DealDetail
}

func (s *dealScreen) title() string                   { return fmt.Sprintf("Deal #%d", s.view.ID()) }
func (s *dealScreen) mount(ctx context.Context) error { return s.view.Mount(ctx) }
func (s *dealScreen) unmount()                        { s.view.Unmount() }

func (s *dealScreen) help() string {
	st := s.view.State()
	keys := []string{"enter primary action", "b open bot", "r reload"}
	if len(st.Decision.Next) > 0 {
		keys = append(keys, "1-9 change status")
	}
	p := st.Decision.Permissions
	if p.EditTerms {
		keys = append(keys, "t terms")
	}
	if p.SetPublishAt {
		keys = append(keys, "p publish date")
	}
	if p.CreateCreative {
		keys = append(keys, "c creative")
	}
	if p.ReviewCreative {
		keys = append(keys, "a approve", "v request changes")
	}
	if p.SendBrief {
		keys = append(keys, "i brief")
	}
	return strings.Join(keys, " · ")
}

func (s *dealScreen) render(now time.Time) string {
	st := s.view.State()
	if st.Deal == nil {
		if st.Err != nil {
			return errorStyle.Render(api.Message(st.Err))
		}
		return mutedStyle.Render("Loading…")
	}
	d := st.Deal
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(d.Status.Label()), mutedStyle.Render("as "+string(st.Decision.Role)))
	for _, w := range st.Warnings {
		b.WriteString(warnStyle.Render("⚠ " + w))
		b.WriteString("\n")
	}
	if d.ChannelInfo != nil {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Channel:"), d.ChannelInfo.DisplayName())
	}
	fmt.Fprintf(&b, "%s %s TON\n", labelStyle.Render("Price:"), money(d.Price))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Format:"), orDash(d.Format))
	publish := dash
	if in := s.view.PublishAtInput(); in != "" {
		publish = strings.Replace(in, "T", " ", 1)
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Publish at:"), publish)
	window := dash
	if d.VerificationWindow != nil {
		window = strconv.Itoa(*d.VerificationWindow) + " min"
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Verification window:"), window)
	if d.Brief != nil && *d.Brief != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Brief:"), *d.Brief)
	}

	if c := st.Creative; c != nil {
		fmt.Fprintf(&b, "\n%s v%d (%s)\n", labelStyle.Render("Creative"), c.Version, c.Status)
		if c.Text != nil {
			b.WriteString(*c.Text)
			b.WriteString("\n")
		}
		if n := len(c.MediaFileIDs); n > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("%d file(s)", n)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if cta := st.Decision.CTA; !cta.None() {
		b.WriteString(ctaStyle.Render(cta.Label))
		b.WriteString("\n")
	}
	for i, next := range st.Decision.Next {
		if i >= 9 {
			break
		}
		fmt.Fprintf(&b, "%d → %s\n", i+1, next.Label())
	}
	if st.Submitting {
		b.WriteString(mutedStyle.Render("Saving…"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderTimeline(s.view.Timeline(now)))
	return b.String()
}

func renderTimeline(t views.Timeline) string {
	if t.Err != nil && len(t.Entries) == 0 {
		return errorStyle.Render(api.Message(t.Err))
	}
	if len(t.Entries) == 0 {
		if t.Loading {
			return mutedStyle.Render("Loading…")
		}
		return mutedStyle.Render("No events yet")
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render("Timeline"))
	b.WriteString("\n")
	for _, e := range t.Entries {
		fmt.Fprintf(&b, "%s %s  %s\n", e.Icon, e.Label, mutedStyle.Render(e.When))
		for _, line := range e.Details {
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	if t.More {
		b.WriteString(helpStyle.Render("e " + t.ShowAllLabel()))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *dealScreen) handle(key string) tea.Cmd {
	st := s.view.State()
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(st.Decision.Next) {
		target := st.Decision.Next[n-1]
		return s.app.run(func(ctx context.Context) error {
			return s.view.Transition(ctx, target)
		})
	}

	switch key {
	case "enter":
		return s.app.run(func(context.Context) error { return s.view.TriggerCTA() })
	case "b":
		return s.app.run(func(context.Context) error { return s.view.OpenBot() })
	case "r":
		return s.app.run(s.view.Refetch)
	case "e":
		s.view.ExpandTimeline()
	case "t":
		return s.app.openForm("Terms", s.termsFields(st.Deal), func(ctx context.Context, v []string) error {
			return s.view.SubmitTerms(ctx, forms.TermsInput{
				Price:              v[0],
				Format:             v[1],
				PublishAt:          v[2],
				VerificationWindow: v[3],
			})
		})
	case "p":
		return s.app.openForm("Publish date", []formField{
			{Label: "Publish at", Placeholder: forms.LocalInputLayout, Value: s.view.PublishAtInput()},
		}, func(ctx context.Context, v []string) error {
			return s.view.SetPublishAt(ctx, v[0])
		})
	case "c":
		return s.app.openForm("Creative", []formField{
			{Label: "Text"},
			{Label: "Media files", Placeholder: "path, path"},
		}, func(ctx context.Context, v []string) error {
			media, err := s.upload(ctx, v[1])
			if err != nil {
				return err
			}
			return s.view.SubmitCreative(ctx, forms.CreativeInput{Text: v[0], Media: media})
		})
	case "a", "v":
		approve := key == "a"
		title := "Approve creative"
		if !approve {
			title = "Request changes"
		}
		return s.app.openForm(title, []formField{
			{Label: "Comment"},
			{Label: "Publish at", Placeholder: forms.LocalInputLayout},
		}, func(ctx context.Context, v []string) error {
			return s.view.ReviewCreative(ctx, forms.ReviewInput{Approve: approve, Comment: v[0], PublishAt: v[1]})
		})
	case "i":
		return s.app.openForm("Brief", []formField{
			{Label: "Text"},
			{Label: "Publish at", Placeholder: forms.LocalInputLayout},
			{Label: "Media files", Placeholder: "path, path"},
		}, func(ctx context.Context, v []string) error {
			media, err := s.upload(ctx, v[2])
			if err != nil {
				return err
			}
			return s.view.SendBrief(ctx, forms.BriefInput{Text: v[0], PublishAt: v[1], Media: media})
		})
	}
	return nil
}

func (s *dealScreen) termsFields(d *api.Deal) []formField {
	fields := []formField{
		{Label: "Price (TON)"},
		{Label: "Format", Value: "post"},
		{Label: "Publish at", Placeholder: forms.LocalInputLayout, Value: s.view.PublishAtInput()},
		{Label: "Verification window (min)"},
	}
	if d == nil {
		return fields
	}
	if d.Price.Valid {
		fields[0].Value = d.Price.Decimal.String()
	}
	if d.Format != nil {
		fields[1].Value = *d.Format
	}
	if d.VerificationWindow != nil {
		fields[3].Value = strconv.Itoa(*d.VerificationWindow)
	}
	return fields
}

// upload sends every comma separated file path as media.
func (s *dealScreen) upload(ctx context.Context, paths string) ([]api.MediaFileID, error) {
	var media []api.MediaFileID
	for _, path := range strings.Split(paths, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		ref, err := s.uploadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		media = append(media, ref)
	}
	return media, nil
}

func (s *dealScreen) uploadFile(ctx context.Context, path string) (api.MediaFileID, error) {
	f, err := os.Open(path)
	if err != nil {
		s.app.deps.Toasts.Notify(views.Toast{Kind: views.ToastError, Text: err.Error()})
		return api.MediaFileID{}, err
	}
	defer f.Close()
	return s.view.UploadMedia(ctx, filepath.Base(path), f)
}

type paymentScreen struct {
	app  *App
	view *views.Payment

	mu     sync.Mutex
	qr     string
	showQR bool
}

func (s *paymentScreen) title() string                   { return fmt.Sprintf("Payment for deal #%d", s.view.DealID()) }
func (s *paymentScreen) mount(ctx context.Context) error { return s.view.Mount(ctx) }
func (s *paymentScreen) unmount()                        { s.view.Unmount() }

func (s *paymentScreen) help() string {
	if s.view.State().Confirmed {
		return "o open deal"
	}
	return "enter pay with wallet · y copy address · v toggle QR · r reload · o open deal"
}

func (s *paymentScreen) render(time.Time) string {
	st := s.view.State()
	if st.Deposit == nil {
		if st.Err != nil {
			return errorStyle.Render(api.Message(st.Err))
		}
		return mutedStyle.Render("Loading…")
	}
	if st.Confirmed {
		return successStyle.Render(views.MsgPaymentConfirmed)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Amount:"), st.Amount)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Address:"), st.Deposit.DepositAddress)
	if st.Comment != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Comment:"), st.Comment)
	}
	if st.TransferURI != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Transfer link:"), st.TransferURI)
	}
	wallet := "not connected"
	if st.Connected {
		wallet = "connected"
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Wallet:"), wallet)
	if st.Sending {
		b.WriteString(mutedStyle.Render("Waiting for the wallet…"))
		b.WriteString("\n")
	}

	s.mu.Lock()
	qr, show := s.qr, s.showQR
	s.mu.Unlock()
	if show && qr != "" {
		b.WriteString("\n")
		b.WriteString(qr)
	}
	return b.String()
}

func (s *paymentScreen) handle(key string) tea.Cmd {
	switch key {
	case "enter":
		return s.app.run(s.view.Pay)
	case "y":
		return s.app.run(func(context.Context) error { return s.view.CopyAddress(s.app.clip) })
	case "r":
		return s.app.run(s.view.Refetch)
	case "o":
		s.view.OpenDeal()
	case "v":
		s.mu.Lock()
		s.showQR = !s.showQR
		s.mu.Unlock()
		return s.app.run(func(context.Context) error {
			qr, err := s.view.QR()
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.qr = qr
			s.mu.Unlock()
			return nil
		})
	}
	return nil
}
