// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"net/http"

	"github.com/luxfi/admarket/pkg/deal"
)

func (c *Client) ListDeals(ctx context.Context) ([]Deal, error) {
	var out []Deal
	if err := c.do(ctx, "deals.list", http.MethodGet, "/deals", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDeal opens a deal. When the deal already exists the backend answers
// 409; callers read the existing id with APIError.ConflictDealID.
func (c *Client) CreateDeal(ctx context.Context, req CreateDealRequest) (*Deal, error) {
	var out Deal
	if err := c.do(ctx, "deals.create", http.MethodPost, "/deals", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetDeal(ctx context.Context, id int64) (*Deal, error) {
	var out Deal
	if err := c.do(ctx, "deals.get", http.MethodGet, idPath("/deals/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDealEvents returns the audit log in server order.
func (c *Client) ListDealEvents(ctx context.Context, id int64) ([]DealEvent, error) {
	var out []DealEvent
	if err := c.do(ctx, "deals.events", http.MethodGet, idPath("/deals/%d/events", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubmitTerms(ctx context.Context, id int64, req TermsRequest) error {
	return c.do(ctx, "deals.terms", http.MethodPost, idPath("/deals/%d/terms", id), nil, req, nil)
}

func (c *Client) SetPublishAt(ctx context.Context, id int64, req PublishAtRequest) error {
	return c.do(ctx, "deals.publish_at", http.MethodPost, idPath("/deals/%d/publish_at", id), nil, req, nil)
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, status deal.Status) error {
	return c.do(ctx, "deals.status", http.MethodPost, idPath("/deals/%d/status", id), nil, StatusRequest{Status: status}, nil)
}

func (c *Client) SubmitCreative(ctx context.Context, id int64, req CreativeRequest) (*Creative, error) {
	var out Creative
	if err := c.do(ctx, "deals.creative.submit", http.MethodPost, idPath("/deals/%d/creative", id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCreative returns the latest creative version.
func (c *Client) GetCreative(ctx context.Context, id int64) (*Creative, error) {
	var out Creative
	if err := c.do(ctx, "deals.creative.get", http.MethodGet, idPath("/deals/%d/creative", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReviewCreative(ctx context.Context, id int64, req CreativeReviewRequest) error {
	return c.do(ctx, "deals.creative.review", http.MethodPost, idPath("/deals/%d/creative/status", id), nil, req, nil)
}

func (c *Client) SendAdvertiserBrief(ctx context.Context, id int64, req BriefRequest) error {
	return c.do(ctx, "deals.brief", http.MethodPost, idPath("/deals/%d/advertiser_brief", id), nil, req, nil)
}
