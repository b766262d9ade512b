// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"net/http"
)

func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	var out []Channel
	if err := c.do(ctx, "channels.list", http.MethodGet, "/channels", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateChannel(ctx context.Context, req CreateChannelRequest) (*Channel, error) {
	var out Channel
	if err := c.do(ctx, "channels.create", http.MethodPost, "/channels", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteChannel(ctx context.Context, id int64) error {
	return c.do(ctx, "channels.delete", http.MethodDelete, idPath("/channels/%d", id), nil, nil, nil)
}

func (c *Client) ListManagers(ctx context.Context, channelID int64) ([]Manager, error) {
	var out []Manager
	if err := c.do(ctx, "channels.managers.list", http.MethodGet, idPath("/channels/%d/managers", channelID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddManager(ctx context.Context, channelID int64, req AddManagerRequest) (*Manager, error) {
	var out Manager
	if err := c.do(ctx, "channels.managers.add", http.MethodPost, idPath("/channels/%d/managers", channelID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveManager(ctx context.Context, channelID, managerID int64) error {
	return c.do(ctx, "channels.managers.remove", http.MethodDelete, idPath("/channels/%d/managers/%d", channelID, managerID), nil, nil, nil)
}

// ListTelegramAdmins returns the chat administrators Telegram reports for
// the channel.
func (c *Client) ListTelegramAdmins(ctx context.Context, channelID int64) ([]TgAdmin, error) {
	var out []TgAdmin
	if err := c.do(ctx, "channels.tg_admins", http.MethodGet, idPath("/channels/%d/tg-admins", channelID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RefreshChannelStats asks the backend to recollect statistics.
func (c *Client) RefreshChannelStats(ctx context.Context, channelID int64) error {
	return c.do(ctx, "stats.refresh", http.MethodPost, idPath("/stats/channels/%d/refresh", channelID), nil, nil, nil)
}
