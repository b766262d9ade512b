// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fakeapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luxfi/admarket/pkg/api"
)

func (s *Server) handleListListings(c *gin.Context) {
	user := currentUser(c)
	priceMin, ok := queryDecimal(c, "price_min")
	if !ok {
		return
	}
	priceMax, ok := queryDecimal(c, "price_max")
	if !ok {
		return
	}
	onlyActive := c.Query("active") == "true"
	excludeOwn := c.Query("exclude_own") == "true"
	limit, offset := queryPage(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []api.Listing{}
	for _, id := range newestFirst(sortedIDs(s.listings)) {
		l := s.listings[id]
		if onlyActive && !l.Active {
			continue
		}
		if excludeOwn && s.channelSide(l.ChannelID, user.ID) {
			continue
		}
		if priceMin != nil && (!l.PriceTON.Valid || l.PriceTON.Decimal.LessThan(*priceMin)) {
			continue
		}
		if priceMax != nil && (!l.PriceTON.Valid || l.PriceTON.Decimal.GreaterThan(*priceMax)) {
			continue
		}
		out = append(out, s.listingView(l))
	}
	c.JSON(http.StatusOK, window(out, limit, offset))
}

func (s *Server) listingView(l *api.Listing) api.Listing {
	out := *l
	if ch, ok := s.channels[l.ChannelID]; ok {
		out.Channel = &api.ChannelBrief{ID: ch.ID, Username: ch.Username, Title: ch.Title, Stats: ch.Stats}
	}
	return out
}

func (s *Server) handleGetListing(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.listings[id]
	if !ok {
		fail(c, http.StatusNotFound, notFound("Listing"))
		return
	}
	c.JSON(http.StatusOK, s.listingView(l))
}

func (s *Server) handleCreateListing(c *gin.Context) {
	var req api.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[req.ChannelID]
	if !ok || ch.OwnerUserID != user.ID {
		fail(c, http.StatusForbidden, "You do not own this channel")
		return
	}
	l := &api.Listing{
		ID:          s.id(),
		ChannelID:   req.ChannelID,
		PriceTON:    nullDecimal(req.PriceTON),
		PriceUSD:    nullDecimal(req.PriceUSD),
		Format:      req.Format,
		Categories:  req.Categories,
		Constraints: req.Constraints,
		Active:      req.Active,
		CreatedAt:   s.stamp(),
	}
	s.listings[l.ID] = l
	c.JSON(http.StatusOK, s.listingView(l))
}

func (s *Server) handleListRequests(c *gin.Context) {
	budgetMin, ok := queryDecimal(c, "budget_min")
	if !ok {
		return
	}
	budgetMax, ok := queryDecimal(c, "budget_max")
	if !ok {
		return
	}
	limit, offset := queryPage(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []api.RequestItem{}
	for _, id := range newestFirst(sortedIDs(s.requests)) {
		r := s.requests[id]
		if budgetMin != nil && (!r.Budget.Valid || r.Budget.Decimal.LessThan(*budgetMin)) {
			continue
		}
		if budgetMax != nil && (!r.Budget.Valid || r.Budget.Decimal.GreaterThan(*budgetMax)) {
			continue
		}
		out = append(out, *r)
	}
	c.JSON(http.StatusOK, window(out, limit, offset))
}

func (s *Server) handleGetRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[id]
	if !ok {
		fail(c, http.StatusNotFound, notFound("Request"))
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) handleCreateRequest(c *gin.Context) {
	var req api.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	r := &api.RequestItem{
		ID:           s.id(),
		AdvertiserID: user.ID,
		Budget:       nullDecimal(req.Budget),
		Niche:        req.Niche,
		Languages:    req.Languages,
		MinSubs:      req.MinSubs,
		MinViews:     req.MinViews,
		Dates:        req.Dates,
		Brief:        req.Brief,
		CreatedAt:    s.stamp(),
	}
	s.requests[r.ID] = r
	c.JSON(http.StatusOK, r)
}

func (s *Server) handleListChannels(c *gin.Context) {
	user := currentUser(c)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []api.Channel{}
	for _, id := range sortedIDs(s.channels) {
		if s.channelSide(id, user.ID) {
			out = append(out, *s.channels[id])
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateChannel(c *gin.Context) {
	var req api.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TgChatID == 0 {
		fail(c, http.StatusUnprocessableEntity, "tg_chat_id is required")
		return
	}
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.channels {
		if ch.TgChatID == req.TgChatID {
			fail(c, http.StatusConflict, "Channel already registered")
			return
		}
	}
	ch := &api.Channel{
		ID:             s.id(),
		TgChatID:       req.TgChatID,
		Username:       req.Username,
		Title:          req.Title,
		OwnerUserID:    user.ID,
		BotAdminStatus: req.BotAdminStatus,
		CreatedAt:      s.stamp(),
	}
	s.channels[ch.ID] = ch
	c.JSON(http.StatusOK, ch)
}

// ownedChannel loads a channel the caller owns, failing the request
// otherwise. Callers hold the lock.
func (s *Server) ownedChannel(c *gin.Context) (*api.Channel, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}
	ch, ok := s.channels[id]
	if !ok {
		fail(c, http.StatusNotFound, notFound("Channel"))
		return nil, false
	}
	if ch.OwnerUserID != currentUser(c).ID {
		fail(c, http.StatusForbidden, "Only the channel owner can do this")
		return nil, false
	}
	return ch, true
}

func (s *Server) handleDeleteChannel(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.ownedChannel(c)
	if !ok {
		return
	}
	delete(s.channels, ch.ID)
	for id, m := range s.managers {
		if m.ChannelID == ch.ID {
			delete(s.managers, id)
		}
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListManagers(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.ownedChannel(c)
	if !ok {
		return
	}
	out := []api.Manager{}
	for _, id := range sortedIDs(s.managers) {
		if m := s.managers[id]; m.ChannelID == ch.ID {
			out = append(out, *m)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleAddManager(c *gin.Context) {
	var req api.AddManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TgUsername == "" {
		fail(c, http.StatusUnprocessableEntity, "tg_username is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.ownedChannel(c)
	if !ok {
		return
	}
	user := s.userByUsername(req.TgUsername)
	if user == nil {
		fail(c, http.StatusNotFound, "User has not opened the app yet")
		return
	}
	if s.isManager(ch.ID, user.ID) {
		fail(c, http.StatusConflict, "Already a manager")
		return
	}
	m := &api.Manager{
		ID:          s.id(),
		ChannelID:   ch.ID,
		UserID:      user.ID,
		TgUserID:    user.TgUserID,
		TgUsername:  user.TgUsername,
		Permissions: map[string]any{"deals": true},
	}
	s.managers[m.ID] = m
	c.JSON(http.StatusOK, m)
}

func (s *Server) handleRemoveManager(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.ownedChannel(c)
	if !ok {
		return
	}
	mid, ok := pathID(c, "mid")
	if !ok {
		return
	}
	m, ok := s.managers[mid]
	if !ok || m.ChannelID != ch.ID {
		fail(c, http.StatusNotFound, notFound("Manager"))
		return
	}
	delete(s.managers, mid)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleTgAdmins(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.ownedChannel(c)
	if !ok {
		return
	}
	out := s.admins[ch.ID]
	if out == nil {
		out = []api.TgAdmin{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleRefreshStats(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.ownedChannel(c)
	if !ok {
		return
	}
	now := s.stamp()
	source := "refresh"
	if ch.Stats == nil {
		ch.Stats = &api.ChannelStats{ID: s.id(), ChannelID: ch.ID}
	}
	ch.Stats.UpdatedAt = &now
	ch.Stats.Source = &source
	c.JSON(http.StatusOK, gin.H{"status": "queued"})
}
