// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"net/http"
)

func (c *Client) ListListings(ctx context.Context, filter ListingFilter) ([]Listing, error) {
	var out []Listing
	if err := c.do(ctx, "listings.list", http.MethodGet, "/listings", filter.values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetListing(ctx context.Context, id int64) (*Listing, error) {
	var out Listing
	if err := c.do(ctx, "listings.get", http.MethodGet, idPath("/listings/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateListing(ctx context.Context, req CreateListingRequest) (*Listing, error) {
	var out Listing
	if err := c.do(ctx, "listings.create", http.MethodPost, "/listings", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListRequests(ctx context.Context, filter RequestFilter) ([]RequestItem, error) {
	var out []RequestItem
	if err := c.do(ctx, "requests.list", http.MethodGet, "/requests", filter.values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRequest(ctx context.Context, id int64) (*RequestItem, error) {
	var out RequestItem
	if err := c.do(ctx, "requests.get", http.MethodGet, idPath("/requests/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRequest(ctx context.Context, req CreateRequestRequest) (*RequestItem, error) {
	var out RequestItem
	if err := c.do(ctx, "requests.create", http.MethodPost, "/requests", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
