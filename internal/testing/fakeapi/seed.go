// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fakeapi

import (
	"encoding/json"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal"
)

// InitData builds a launch payload the fake backend accepts for a
// Telegram account.
func InitData(tgUserID int64, username, startParam string) string {
	user, _ := json.Marshal(map[string]any{"id": tgUserID, "username": username, "first_name": username})
	v := url.Values{
		"user":      {string(user)},
		"auth_date": {"1760000000"},
		"hash":      {"fake"},
	}
	if startParam != "" {
		v.Set("start_param", startParam)
	}
	return v.Encode()
}

// AddUser registers a Telegram account and returns it with its token.
func (s *Server) AddUser(tgUserID int64, username string) (api.User, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByTg(tgUserID, username)
	return *u, tokenFor(u.ID)
}

// AddChannel registers a channel for ownerID with optional stats.
func (s *Server) AddChannel(ownerID, tgChatID int64, username string, stats *api.ChannelStats) api.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := &api.Channel{
		ID:             s.id(),
		TgChatID:       tgChatID,
		OwnerUserID:    ownerID,
		BotAdminStatus: true,
		CreatedAt:      s.stamp(),
		Stats:          stats,
	}
	if username != "" {
		ch.Username = &username
		title := "@" + username
		ch.Title = &title
	}
	if stats != nil {
		stats.ChannelID = ch.ID
	}
	s.channels[ch.ID] = ch
	return *ch
}

// AddTgAdmin lists a Telegram administrator on a channel.
func (s *Server) AddTgAdmin(channelID int64, admin api.TgAdmin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[channelID] = append(s.admins[channelID], admin)
}

// AddListing publishes an active listing. An empty priceTON leaves the
// price unset.
func (s *Server) AddListing(channelID int64, priceTON string) api.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &api.Listing{
		ID:         s.id(),
		ChannelID:  channelID,
		Format:     "post",
		Categories: []string{},
		Active:     true,
		CreatedAt:  s.stamp(),
	}
	if priceTON != "" {
		l.PriceTON = decimal.NewNullDecimal(decimal.RequireFromString(priceTON))
	}
	s.listings[l.ID] = l
	return *l
}

// AddRequest publishes an advertiser request.
func (s *Server) AddRequest(advertiserID int64, budget, brief string) api.RequestItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &api.RequestItem{
		ID:           s.id(),
		AdvertiserID: advertiserID,
		Languages:    []string{},
		CreatedAt:    s.stamp(),
	}
	if budget != "" {
		r.Budget = decimal.NewNullDecimal(decimal.RequireFromString(budget))
	}
	if brief != "" {
		r.Brief = &brief
	}
	s.requests[r.ID] = r
	return *r
}

// SetDealStatus forces a deal's status, as the bot or chain watchers would.
func (s *Server) SetDealStatus(dealID int64, status deal.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deals[dealID]
	if !ok {
		return ErrNoDeal
	}
	s.setStatus(d, status)
	return nil
}

// MarkTampered flags a posted deal's message.
func (s *Server) MarkTampered(dealID int64, tampered, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deals[dealID]
	if !ok {
		return ErrNoDeal
	}
	d.Tampered, d.Deleted = tampered, deleted
	return nil
}

// Deal returns a copy of the stored deal.
func (s *Server) Deal(id int64) (api.Deal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.deals[id]
	if !ok {
		return api.Deal{}, false
	}
	return *d, true
}

// Events returns a deal's events, oldest first.
func (s *Server) Events(id int64) []api.DealEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.DealEvent(nil), s.events[id]...)
}

// DealCount is the number of deals created so far.
func (s *Server) DealCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.deals)
}
