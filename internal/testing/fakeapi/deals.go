// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fakeapi

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal"
)

// isOpen reports whether a deal still blocks a duplicate.
func isOpen(d *api.Deal) bool {
	return !d.Status.Terminal()
}

func (s *Server) handleListDeals(c *gin.Context) {
	user := currentUser(c)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []api.Deal{}
	for _, id := range newestFirst(sortedIDs(s.deals)) {
		d := s.deals[id]
		if s.roleOf(d, user.ID) != "" {
			out = append(out, s.view(d, user.ID, s.reportRole))
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateDeal(c *gin.Context) {
	var req api.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	d := &api.Deal{Status: deal.StatusNegotiating}
	switch {
	case req.ListingID != nil:
		l, ok := s.listings[*req.ListingID]
		if !ok {
			fail(c, http.StatusNotFound, notFound("Listing"))
			return
		}
		for _, existing := range s.deals {
			if existing.ListingID != nil && *existing.ListingID == l.ID && existing.AdvertiserID == user.ID && isOpen(existing) {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"detail": "Deal already exists", "deal_id": existing.ID})
				return
			}
		}
		listingID := l.ID
		d.ListingID = &listingID
		d.AdvertiserID = user.ID
		d.ChannelID = l.ChannelID
		if req.Price == nil {
			d.Price = l.PriceTON
		}
		if l.Format != "" {
			format := l.Format
			d.Format = &format
		}

	case req.RequestID != nil:
		r, ok := s.requests[*req.RequestID]
		if !ok {
			fail(c, http.StatusNotFound, notFound("Request"))
			return
		}
		channelID := s.defaultChannel(user.ID)
		if req.ChannelID != nil {
			channelID = *req.ChannelID
		}
		if !s.channelSide(channelID, user.ID) {
			fail(c, http.StatusForbidden, "Pick one of your channels")
			return
		}
		for _, existing := range s.deals {
			if existing.RequestID != nil && *existing.RequestID == r.ID && existing.ChannelID == channelID && isOpen(existing) {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"detail": gin.H{"message": "Deal already exists", "deal_id": existing.ID}})
				return
			}
		}
		requestID := r.ID
		d.RequestID = &requestID
		d.AdvertiserID = r.AdvertiserID
		d.ChannelID = channelID
		if req.Price == nil {
			d.Price = r.Budget
		}
		if req.Brief == "" && r.Brief != nil {
			brief := *r.Brief
			d.Brief = &brief
		}

	default:
		fail(c, http.StatusUnprocessableEntity, "listing_id or request_id is required")
		return
	}

	if req.Price != nil {
		d.Price = nullDecimal(req.Price)
	}
	if req.Format != "" {
		format := req.Format
		d.Format = &format
	}
	if req.Brief != "" {
		brief := req.Brief
		d.Brief = &brief
	}
	if req.PublishAt != "" {
		at := api.Timestamp(req.PublishAt)
		d.PublishAt = &at
	}
	d.VerificationWindow = req.VerificationWindow

	d.ID = s.id()
	d.CreatedAt = s.stamp()
	d.UpdatedAt = d.CreatedAt
	s.deals[d.ID] = d
	s.addEvent(d.ID, api.EventDealCreated, map[string]any{"price": decimalPtr(d.Price)})

	c.JSON(http.StatusOK, s.view(d, user.ID, s.reportRole))
}

// defaultChannel is the first channel the user runs, or 0.
func (s *Server) defaultChannel(userID int64) int64 {
	for _, id := range sortedIDs(s.channels) {
		if s.channelSide(id, userID) {
			return id
		}
	}
	return 0
}

// loadDeal resolves :id for a participant and returns their role. Callers
// hold the lock.
func (s *Server) loadDeal(c *gin.Context) (*api.Deal, deal.Role, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, "", false
	}
	d, ok := s.deals[id]
	if !ok {
		fail(c, http.StatusNotFound, notFound("Deal"))
		return nil, "", false
	}
	role := s.roleOf(d, currentUser(c).ID)
	if role == "" {
		fail(c, http.StatusForbidden, "Not a participant of this deal")
		return nil, "", false
	}
	return d, role, true
}

func requireRole(c *gin.Context, got, want deal.Role) bool {
	if got != want {
		fail(c, http.StatusForbidden, "Only the "+string(want)+" can do this")
		return false
	}
	return true
}

func requireStatus(c *gin.Context, d *api.Deal, allowed ...deal.Status) bool {
	for _, s := range allowed {
		if d.Status == s {
			return true
		}
	}
	fail(c, http.StatusConflict, "Not allowed in status "+string(d.Status))
	return false
}

func (s *Server) handleGetDeal(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, _, ok := s.loadDeal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.view(d, currentUser(c).ID, s.reportRole))
}

func (s *Server) handleEvents(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, _, ok := s.loadDeal(c)
	if !ok {
		return
	}
	events := s.events[d.ID]
	// Newest first.
	out := make([]api.DealEvent, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		out = append(out, events[i])
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleTerms(c *gin.Context) {
	var req api.TermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, role, ok := s.loadDeal(c)
	if !ok || !requireRole(c, role, deal.RoleOwner) ||
		!requireStatus(c, d, deal.StatusNegotiating, deal.StatusTermsLocked) {
		return
	}

	if req.Price != nil {
		d.Price = nullDecimal(req.Price)
	}
	if req.Format != "" {
		format := req.Format
		d.Format = &format
	}
	if req.PublishAt != "" {
		at := api.Timestamp(req.PublishAt)
		d.PublishAt = &at
	}
	if req.VerificationWindow != nil {
		w := *req.VerificationWindow
		d.VerificationWindow = &w
	}
	d.Status = deal.StatusTermsLocked
	d.UpdatedAt = s.stamp()
	s.addEvent(d.ID, api.EventTermsLocked, map[string]any{
		"price":               decimalPtr(d.Price),
		"format":              d.Format,
		"publish_at":          d.PublishAt,
		"verification_window": d.VerificationWindow,
	})
	c.JSON(http.StatusOK, s.view(d, currentUser(c).ID, s.reportRole))
}

func (s *Server) handlePublishAt(c *gin.Context) {
	var req api.PublishAtRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PublishAt == "" {
		fail(c, http.StatusUnprocessableEntity, "publish_at is required")
		return
	}
	if _, ok := api.Timestamp(req.PublishAt).Time(); !ok {
		fail(c, http.StatusUnprocessableEntity, "publish_at is not a timestamp")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, role, ok := s.loadDeal(c)
	if !ok || !requireRole(c, role, deal.RoleOwner) {
		return
	}
	if !deal.PermissionsFor(d.Status, role).SetPublishAt {
		fail(c, http.StatusConflict, "Not allowed in status "+string(d.Status))
		return
	}
	at := api.Timestamp(req.PublishAt)
	d.PublishAt = &at
	d.UpdatedAt = s.stamp()
	s.addEvent(d.ID, api.EventPublishAtUpdated, map[string]any{"publish_at": at})
	c.JSON(http.StatusOK, s.view(d, currentUser(c).ID, s.reportRole))
}

func (s *Server) handleStatus(c *gin.Context) {
	var req api.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, role, ok := s.loadDeal(c)
	if !ok {
		return
	}
	if !deal.CanTransition(d.Status, req.Status, role) {
		fail(c, http.StatusConflict, "Invalid transition from "+string(d.Status)+" to "+string(req.Status))
		return
	}
	s.setStatus(d, req.Status)
	c.JSON(http.StatusOK, s.view(d, currentUser(c).ID, s.reportRole))
}

func (s *Server) handleSubmitCreative(c *gin.Context) {
	var req api.CreativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, role, ok := s.loadDeal(c)
	if !ok || !requireRole(c, role, deal.RoleOwner) ||
		!requireStatus(c, d, deal.StatusFunded, deal.StatusCreativeDraft) {
		return
	}

	versions := s.creatives[d.ID]
	cr := api.Creative{
		ID:           s.id(),
		DealID:       d.ID,
		Version:      len(versions) + 1,
		MediaFileIDs: req.MediaFileIDs,
		Status:       api.CreativeDraft,
		CreatedAt:    s.stamp(),
	}
	if req.Text != "" {
		text := req.Text
		cr.Text = &text
	}
	if cr.MediaFileIDs == nil {
		cr.MediaFileIDs = []api.MediaFileID{}
	}
	s.creatives[d.ID] = append(versions, cr)
	s.addEvent(d.ID, api.EventCreativeSubmitted, map[string]any{"version": cr.Version})
	s.setStatus(d, deal.StatusCreativeReview)
	c.JSON(http.StatusOK, cr)
}

func (s *Server) handleGetCreative(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, _, ok := s.loadDeal(c)
	if !ok {
		return
	}
	versions := s.creatives[d.ID]
	if len(versions) == 0 {
		fail(c, http.StatusNotFound, notFound("Creative"))
		return
	}
	c.JSON(http.StatusOK, versions[len(versions)-1])
}

func (s *Server) handleReviewCreative(c *gin.Context) {
	var req api.CreativeReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, role, ok := s.loadDeal(c)
	if !ok || !requireRole(c, role, deal.RoleAdvertiser) ||
		!requireStatus(c, d, deal.StatusCreativeReview) {
		return
	}
	versions := s.creatives[d.ID]
	if len(versions) == 0 {
		fail(c, http.StatusConflict, "No creative to review")
		return
	}
	latest := &versions[len(versions)-1]

	payload := map[string]any{"status": req.Status}
	if req.Comment != "" {
		payload["comment"] = req.Comment
	}
	if req.PublishAt != "" {
		at := api.Timestamp(req.PublishAt)
		d.PublishAt = &at
		payload["publish_at"] = req.PublishAt
	}

	switch req.Status {
	case api.CreativeApproved:
		latest.Status = api.CreativeApproved
		s.addEvent(d.ID, api.EventCreativeStatus, payload)
		s.setStatus(d, deal.StatusApproved)
	case api.CreativeDraft:
		s.addEvent(d.ID, api.EventCreativeStatus, payload)
		s.setStatus(d, deal.StatusCreativeDraft)
	default:
		fail(c, http.StatusUnprocessableEntity, "Unknown creative status")
		return
	}
	c.JSON(http.StatusOK, s.view(d, currentUser(c).ID, s.reportRole))
}

func (s *Server) handleBrief(c *gin.Context) {
	var req api.BriefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, role, ok := s.loadDeal(c)
	if !ok || !requireRole(c, role, deal.RoleAdvertiser) {
		return
	}
	if d.Status.Terminal() {
		fail(c, http.StatusConflict, "Deal is closed")
		return
	}
	payload := map[string]any{"text": req.Text, "media_file_ids": req.MediaFileIDs}
	if req.PublishAt != "" {
		at := api.Timestamp(req.PublishAt)
		d.PublishAt = &at
		payload["publish_at"] = req.PublishAt
		s.addEvent(d.ID, api.EventPublishAtRequested, map[string]any{"publish_at": req.PublishAt})
	}
	if req.Text != "" {
		brief := req.Text
		d.Brief = &brief
	}
	d.UpdatedAt = s.stamp()
	s.addEvent(d.ID, api.EventAdvertiserBrief, payload)
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

func mediaTypeOf(filename string) api.MediaType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return api.MediaPhoto
	case ".mp4", ".mov":
		return api.MediaVideo
	case ".gif":
		return api.MediaAnimation
	}
	return api.MediaDocument
}

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, "file is required")
		return
	}
	s.mu.Lock()
	s.uploads++
	n := s.uploads
	s.mu.Unlock()

	messageID := int64(1000 + n)
	c.JSON(http.StatusOK, api.UploadedMedia{
		Type:      mediaTypeOf(file.Filename),
		FileID:    "file-" + strconv.Itoa(n),
		MessageID: &messageID,
	})
}
