// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fakeapi is an in-memory marketplace backend for tests. It speaks
// the same HTTP surface as the real service, keeps everything in maps and
// lets tests seed data and play the blockchain's part in escrow.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal"
)

// DepositAddress is the escrow address handed out for every deposit.
const DepositAddress = "EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N"

type store struct {
	mu sync.RWMutex

	now func() time.Time

	users     map[int64]*api.User
	tokens    map[string]int64
	listings  map[int64]*api.Listing
	requests  map[int64]*api.RequestItem
	channels  map[int64]*api.Channel
	managers  map[int64]*api.Manager
	admins    map[int64][]api.TgAdmin
	deals     map[int64]*api.Deal
	events    map[int64][]api.DealEvent
	creatives map[int64][]api.Creative
	deposits  map[int64]*api.EscrowPayment
	uploads   int

	nextID int64
}

func newStore() *store {
	return &store{
		now:       time.Now,
		users:     make(map[int64]*api.User),
		tokens:    make(map[string]int64),
		listings:  make(map[int64]*api.Listing),
		requests:  make(map[int64]*api.RequestItem),
		channels:  make(map[int64]*api.Channel),
		managers:  make(map[int64]*api.Manager),
		admins:    make(map[int64][]api.TgAdmin),
		deals:     make(map[int64]*api.Deal),
		events:    make(map[int64][]api.DealEvent),
		creatives: make(map[int64][]api.Creative),
		deposits:  make(map[int64]*api.EscrowPayment),
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) stamp() api.Timestamp {
	return api.NewTimestamp(s.now())
}

func tokenFor(userID int64) string {
	return "tok-" + strconv.FormatInt(userID, 10)
}

// userByTg finds or creates the user for a Telegram account. Callers hold
// the write lock.
func (s *store) userByTg(tgID int64, username string) *api.User {
	for _, u := range s.users {
		if u.TgUserID == tgID {
			return u
		}
	}
	u := &api.User{ID: s.id(), TgUserID: tgID, Roles: []string{}}
	if username != "" {
		u.TgUsername = &username
	}
	s.users[u.ID] = u
	s.tokens[tokenFor(u.ID)] = u.ID
	return u
}

func (s *store) userByUsername(username string) *api.User {
	for _, u := range s.users {
		if u.TgUsername != nil && *u.TgUsername == username {
			return u
		}
	}
	return nil
}

func (s *store) isManager(channelID, userID int64) bool {
	for _, m := range s.managers {
		if m.ChannelID == channelID && m.UserID == userID {
			return true
		}
	}
	return false
}

// channelSide reports whether userID runs the channel.
func (s *store) channelSide(channelID, userID int64) bool {
	ch, ok := s.channels[channelID]
	if !ok {
		return false
	}
	return ch.OwnerUserID == userID || s.isManager(channelID, userID)
}

// roleOf returns the viewer's role on d, or "" for outsiders.
func (s *store) roleOf(d *api.Deal, userID int64) deal.Role {
	switch {
	case d.AdvertiserID == userID:
		return deal.RoleAdvertiser
	case s.channelSide(d.ChannelID, userID):
		return deal.RoleOwner
	}
	return ""
}

func (s *store) addEvent(dealID int64, typ api.EventType, payload any) {
	raw, _ := json.Marshal(payload)
	s.events[dealID] = append(s.events[dealID], api.DealEvent{
		ID:        s.id(),
		DealID:    dealID,
		Type:      typ,
		Payload:   raw,
		CreatedAt: s.stamp(),
	})
}

func (s *store) setStatus(d *api.Deal, to deal.Status) {
	from := d.Status
	d.Status = to
	d.UpdatedAt = s.stamp()
	s.addEvent(d.ID, api.EventStatusUpdated, map[string]any{"from": from, "status": to})
}

// view decorates a copy of d for userID.
func (s *store) view(d *api.Deal, userID int64, reportRole bool) api.Deal {
	out := *d
	if reportRole {
		out.ViewerRole = s.roleOf(d, userID)
	}
	if ch, ok := s.channels[d.ChannelID]; ok {
		info := &api.DealChannelInfo{ID: ch.ID, Username: ch.Username, Title: ch.Title}
		if st := ch.Stats; st != nil {
			info.Subscribers = st.Subscribers
			info.SubscribersPrev = st.SubscribersPrev
			info.ViewsPerPost = st.ViewsPerPost
			info.ViewsPerPostPrev = st.ViewsPerPostPrev
		}
		out.ChannelInfo = info
	}
	if adv, ok := s.users[d.AdvertiserID]; ok {
		out.AdvertiserInfo = &api.DealAdvertiserInfo{ID: adv.ID, TgUsername: adv.TgUsername}
	}
	return out
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// newestFirst orders ids descending.
func newestFirst(ids []int64) []int64 {
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids
}

func window[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func notFound(what string) string {
	return fmt.Sprintf("%s not found", what)
}
