// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package views

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/admarket/pkg/api"
)

func event(id int64, typ api.EventType, at time.Time, payload string) api.DealEvent {
	return api.DealEvent{ID: id, Type: typ, Payload: json.RawMessage(payload), CreatedAt: api.NewTimestamp(at)}
}

func TestFormatEvents(t *testing.T) {
	require := require.New(t)

	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	events := []api.DealEvent{
		event(7, api.EventStatusUpdated, now.Add(-time.Hour), `{"from":"TERMS_LOCKED","status":"AWAITING_PAYMENT"}`),
		event(6, api.EventTermsLocked, now.Add(-26*time.Hour), `{"price":"100","format":"post","publish_at":null,"verification_window":15}`),
		event(5, api.EventCreativeSubmitted, time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC), `{"version":2}`),
		event(4, api.EventCreativeStatus, now.Add(-72*time.Hour), `{"status":"DRAFT","comment":"Shorter"}`),
		event(3, api.EventPublishAtUpdated, now.Add(-96*time.Hour), `{"publish_at":"2026-03-12T10:00:00Z"}`),
		event(2, "ESCROW_FUNDED", now.Add(-120*time.Hour), `{"tx":"abc"}`),
		event(1, api.EventDealCreated, now.Add(-144*time.Hour), `{}`),
	}

	entries := FormatEvents(events, false, now, time.UTC)
	require.Len(entries, TimelinePreview)

	require.Equal("Status updated", entries[0].Label)
	require.Equal("Today, 02:00 PM", entries[0].When)
	require.Equal([]string{"→ Awaiting Payment"}, entries[0].Details)

	require.Equal("Yesterday, 01:00 PM", entries[1].When)
	require.Equal([]string{"Price: $100", "Format: post", "Verification window: 15 min"}, entries[1].Details)

	require.Equal("Mar 1, 09:05 AM", entries[2].When)
	require.Equal([]string{"Version 2"}, entries[2].Details)

	require.Equal([]string{"Sent for revision", "«Shorter»"}, entries[3].Details)
	require.Equal([]string{"3/12/2026"}, entries[4].Details)

	all := FormatEvents(events, true, now, time.UTC)
	require.Len(all, len(events))
	require.Equal("ESCROW_FUNDED", all[5].Label)
	require.Equal("•", all[5].Icon)
	require.Equal([]string{`{"tx":"abc"}`}, all[5].Details)
	require.Empty(all[6].Details)
}

func TestFormatEventsKeepsServerOrder(t *testing.T) {
	require := require.New(t)

	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	events := []api.DealEvent{
		event(1, api.EventDealCreated, now.Add(-2*time.Hour), `{}`),
		event(2, api.EventTermsLocked, now.Add(-time.Hour), `{"price":"100"}`),
	}

	entries := FormatEvents(events, true, now, time.UTC)
	require.Len(entries, 2)
	require.Equal(api.EventDealCreated, entries[0].Type)
	require.Equal(api.EventTermsLocked, entries[1].Type)
}

func TestEventDetailsBrief(t *testing.T) {
	require := require.New(t)

	text := strings.Repeat("а", 100)
	payload := `{"text":"` + text + `","publish_at":"2026-03-12T10:00:00Z","media_file_ids":[{"type":"photo","file_id":"a"},{"type":"video","file_id":"b"}]}`
	details := EventDetails(api.EventAdvertiserBrief, []byte(payload), time.UTC)
	require.Len(details, 3)
	require.Equal(strings.Repeat("а", briefPreviewRunes)+"…", details[0])
	require.Equal("Date: 3/12/2026", details[1])
	require.Equal("2 file(s)", details[2])

	require.Nil(EventDetails(api.EventAdvertiserBrief, []byte("not json"), time.UTC))
	require.Nil(EventDetails(api.EventAdvertiserBrief, nil, time.UTC))
	require.Nil(EventDetails(api.EventAdvertiserBrief, []byte("null"), time.UTC))

	long := `{"blob":"` + strings.Repeat("x", rawPayloadMax) + `"}`
	require.Empty(EventDetails("OTHER", []byte(long), time.UTC))
}

func TestTimelineShowAll(t *testing.T) {
	require.Equal(t, "Show all (9)", Timeline{Total: 9}.ShowAllLabel())
}
