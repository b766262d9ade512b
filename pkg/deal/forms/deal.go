// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package forms

import (
	"strings"
	"time"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal"
)

const defaultFormat = "post"

// TermsInput is the owner's terms form.
type TermsInput struct {
	Price              string
	Format             string
	PublishAt          string
	VerificationWindow string
}

// Terms validates the terms form.
func Terms(in TermsInput, loc *time.Location) (api.TermsRequest, error) {
	var req api.TermsRequest

	price, err := parseDecimal(in.Price)
	if err != nil {
		return req, invalid("price", MsgPriceNumber)
	}
	if price != nil && !price.IsPositive() {
		return req, invalid("price", MsgPricePositive)
	}
	window, err := parseWindow(in.VerificationWindow)
	if err != nil {
		return req, err
	}
	publishAt, err := optionalPublishAt(in.PublishAt, loc)
	if err != nil {
		return req, err
	}

	req.Price = price
	req.Format = strings.TrimSpace(in.Format)
	req.PublishAt = publishAt
	req.VerificationWindow = window
	return req, nil
}

// PublishAt validates the required publish date form.
func PublishAt(value string, loc *time.Location) (api.PublishAtRequest, error) {
	if strings.TrimSpace(value) == "" {
		return api.PublishAtRequest{}, invalid("publish_at", MsgPublishDateNeeded)
	}
	iso, ok := LocalInputToISO(value, loc)
	if !ok {
		return api.PublishAtRequest{}, invalid("publish_at", MsgInvalidPublishDate)
	}
	return api.PublishAtRequest{PublishAt: iso}, nil
}

// Status checks that role may move the deal from current to target.
func Status(current, target deal.Status, role deal.Role) (api.StatusRequest, error) {
	if !deal.CanTransition(current, target, role) {
		return api.StatusRequest{}, invalid("status", MsgStatusNotAllowed)
	}
	return api.StatusRequest{Status: target}, nil
}

// CreativeInput is the owner's creative form.
type CreativeInput struct {
	Text  string
	Media []api.MediaFileID
}

func Creative(in CreativeInput) (api.CreativeRequest, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" && len(in.Media) == 0 {
		return api.CreativeRequest{}, invalid("text", MsgCreativeEmpty)
	}
	if err := checkMedia(in.Media); err != nil {
		return api.CreativeRequest{}, err
	}
	return api.CreativeRequest{Text: text, MediaFileIDs: in.Media}, nil
}

// ReviewInput is the advertiser's creative review form. A review that does
// not approve sends the creative back to draft and needs a comment.
type ReviewInput struct {
	Approve   bool
	Comment   string
	PublishAt string
}

func Review(in ReviewInput, loc *time.Location) (api.CreativeReviewRequest, error) {
	comment := strings.TrimSpace(in.Comment)
	if !in.Approve && comment == "" {
		return api.CreativeReviewRequest{}, invalid("comment", MsgReviewComment)
	}
	publishAt, err := optionalPublishAt(in.PublishAt, loc)
	if err != nil {
		return api.CreativeReviewRequest{}, err
	}

	status := api.CreativeDraft
	if in.Approve {
		status = api.CreativeApproved
	}
	return api.CreativeReviewRequest{Status: status, Comment: comment, PublishAt: publishAt}, nil
}

// BriefInput is the advertiser's brief form.
type BriefInput struct {
	Text      string
	PublishAt string
	Media     []api.MediaFileID
}

func Brief(in BriefInput, loc *time.Location) (api.BriefRequest, error) {
	text := strings.TrimSpace(in.Text)
	publishAt, err := optionalPublishAt(in.PublishAt, loc)
	if err != nil {
		return api.BriefRequest{}, err
	}
	if text == "" && publishAt == "" && len(in.Media) == 0 {
		return api.BriefRequest{}, invalid("text", MsgBriefEmpty)
	}
	if err := checkMedia(in.Media); err != nil {
		return api.BriefRequest{}, err
	}
	return api.BriefRequest{Text: text, PublishAt: publishAt, MediaFileIDs: in.Media}, nil
}

// ListingDeal opens a deal on a listing's channel.
func ListingDeal(listing *api.Listing) api.CreateDealRequest {
	listingID, channelID := listing.ID, listing.ChannelID
	return api.CreateDealRequest{ListingID: &listingID, ChannelID: &channelID}
}

// QuickRequestDeal responds to a request without any terms.
func QuickRequestDeal(requestID int64) api.CreateDealRequest {
	return api.CreateDealRequest{RequestID: &requestID}
}

// RequestDealInput is the channel owner's response to a request.
type RequestDealInput struct {
	ChannelID          int64
	Price              string
	Format             string
	Brief              string
	PublishAt          string
	VerificationWindow string
}

// RequestDeal fills blanks from the request: its budget as price, "post" as
// format, and its brief.
func RequestDeal(request *api.RequestItem, in RequestDealInput, loc *time.Location) (api.CreateDealRequest, error) {
	var req api.CreateDealRequest
	if request == nil || in.ChannelID == 0 {
		return req, invalid("channel_id", MsgSelectChannel)
	}

	publishAt, err := optionalPublishAt(in.PublishAt, loc)
	if err != nil {
		return req, err
	}
	price, err := parseDecimal(in.Price)
	if err != nil {
		return req, invalid("price", MsgDealNumbers)
	}
	window, err := parseWindow(in.VerificationWindow)
	if err != nil {
		return req, invalid("verification_window", MsgDealNumbers)
	}

	requestID, channelID := request.ID, in.ChannelID
	req.RequestID = &requestID
	req.ChannelID = &channelID

	switch {
	case price != nil:
		req.Price = price
	case request.Budget.Valid:
		budget := request.Budget.Decimal
		req.Price = &budget
	}

	req.Format = strings.TrimSpace(in.Format)
	if req.Format == "" {
		req.Format = defaultFormat
	}

	req.Brief = strings.TrimSpace(in.Brief)
	if req.Brief == "" && request.Brief != nil {
		req.Brief = *request.Brief
	}

	req.PublishAt = publishAt
	req.VerificationWindow = window
	return req, nil
}

func optionalPublishAt(value string, loc *time.Location) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	iso, ok := LocalInputToISO(value, loc)
	if !ok {
		return "", invalid("publish_at", MsgInvalidPublishDate)
	}
	return iso, nil
}

func parseWindow(raw string) (*int, error) {
	v, err := parseInt(raw)
	if err != nil || (v != nil && *v < 0) {
		return nil, invalid("verification_window", MsgWindowNumber)
	}
	if v == nil {
		return nil, nil
	}
	w := int(*v)
	return &w, nil
}

func checkMedia(media []api.MediaFileID) error {
	for _, m := range media {
		if !m.Type.Valid() || m.FileID == "" {
			return invalid("media_file_ids", MsgMediaType)
		}
	}
	return nil
}
