// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package views

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal"
)

// TimelinePreview is the number of events shown before the timeline is
// expanded.
const TimelinePreview = 5

const (
	MsgNoEvents = "No events"

	briefPreviewRunes = 80
	rawPayloadMax     = 120

	shortDateLayout = "1/2/2006"
	clockLayout     = "03:04 PM"
)

type eventStyle struct {
	label string
	icon  string
}

var eventStyles = map[api.EventType]eventStyle{
	api.EventDealCreated:        {"Deal created", "🆕"},
	api.EventTermsLocked:        {"Terms locked", "🔒"},
	api.EventStatusUpdated:      {"Status updated", "🔄"},
	api.EventPublishAtUpdated:   {"Publish date updated", "📅"},
	api.EventPublishAtRequested: {"Publish date requested", "📅"},
	api.EventCreativeSubmitted:  {"Creative submitted", "🎨"},
	api.EventCreativeStatus:     {"Creative status", "✏️"},
	api.EventAdvertiserBrief:    {"Advertiser brief", "📋"},
}

// TimelineEntry is one formatted event.
type TimelineEntry struct {
	ID      int64
	Type    api.EventType
	Label   string
	Icon    string
	When    string
	Details []string
}

type Timeline struct {
	Loading bool
	Err     error
	Entries []TimelineEntry
	Total   int
	More    bool
}

// ShowAllLabel is the label of the expand control.
func (t Timeline) ShowAllLabel() string {
	return fmt.Sprintf("Show all (%d)", t.Total)
}

// FormatEvents formats events in the order given. Unless expanded only the
// first TimelinePreview are kept.
func FormatEvents(events []api.DealEvent, expanded bool, now time.Time, loc *time.Location) []TimelineEntry {
	if !expanded && len(events) > TimelinePreview {
		events = events[:TimelinePreview]
	}
	out := make([]TimelineEntry, 0, len(events))
	for _, ev := range events {
		style, ok := eventStyles[ev.Type]
		if !ok {
			style = eventStyle{label: string(ev.Type), icon: "•"}
		}
		out = append(out, TimelineEntry{
			ID:      ev.ID,
			Type:    ev.Type,
			Label:   style.label,
			Icon:    style.icon,
			When:    formatEventTime(ev.CreatedAt, now, loc),
			Details: EventDetails(ev.Type, ev.Payload, loc),
		})
	}
	return out
}

// formatEventTime renders today's and yesterday's events relative to now.
func formatEventTime(ts api.Timestamp, now time.Time, loc *time.Location) string {
	t, ok := ts.Time()
	if !ok {
		return string(ts)
	}
	t, now = t.In(loc), now.In(loc)
	clock := t.Format(clockLayout)
	switch {
	case sameDay(t, now):
		return "Today, " + clock
	case sameDay(t, now.AddDate(0, 0, -1)):
		return "Yesterday, " + clock
	}
	return t.Format("Jan 2") + ", " + clock
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EventDetails extracts the per-type detail lines from an event payload.
func EventDetails(typ api.EventType, payload []byte, loc *time.Location) []string {
	if len(payload) == 0 || !gjson.ValidBytes(payload) {
		return nil
	}
	p := gjson.ParseBytes(payload)
	if p.Type == gjson.Null {
		return nil
	}

	var details []string
	add := func(s string) { details = append(details, s) }
	date := func(r gjson.Result) string {
		if t, ok := api.Timestamp(r.String()).Time(); ok {
			return t.In(loc).Format(shortDateLayout)
		}
		return r.String()
	}

	switch typ {
	case api.EventTermsLocked:
		if price := p.Get("price"); price.Exists() && price.Type != gjson.Null {
			add("Price: $" + price.String())
		}
		if format := p.Get("format"); truthy(format) {
			add("Format: " + format.String())
		}
		if at := p.Get("publish_at"); truthy(at) {
			add("Date: " + date(at))
		}
		if window := p.Get("verification_window"); truthy(window) {
			add(fmt.Sprintf("Verification window: %s min", window.String()))
		}

	case api.EventStatusUpdated:
		if status := p.Get("status"); truthy(status) {
			add("→ " + deal.Status(status.String()).Label())
		}

	case api.EventCreativeSubmitted:
		if version := p.Get("version"); truthy(version) {
			add("Version " + version.String())
		}

	case api.EventCreativeStatus:
		switch api.CreativeStatus(p.Get("status").String()) {
		case api.CreativeApproved:
			add("Approved")
		case api.CreativeDraft:
			add("Sent for revision")
		}
		if comment := p.Get("comment"); truthy(comment) {
			add("«" + comment.String() + "»")
		}
		if at := p.Get("publish_at"); truthy(at) {
			add("Date: " + date(at))
		}

	case api.EventPublishAtUpdated, api.EventPublishAtRequested:
		if at := p.Get("publish_at"); truthy(at) {
			add(date(at))
		}

	case api.EventAdvertiserBrief:
		if text := p.Get("text"); truthy(text) {
			add(truncate(text.String(), briefPreviewRunes))
		}
		if at := p.Get("publish_at"); truthy(at) {
			add("Date: " + date(at))
		}
		if files := p.Get("media_file_ids"); files.IsArray() && len(files.Array()) > 0 {
			add(fmt.Sprintf("%d file(s)", len(files.Array())))
		}

	default:
		compact := p.Get("@ugly").Raw
		if compact != "{}" && len(compact) <= rawPayloadMax {
			add(compact)
		}
	}
	return details
}

// truthy treats null, false, 0 and "" as absent.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	}
	return false
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
