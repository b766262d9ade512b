// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"net/http"
)

// Authenticate exchanges the Telegram launch payload for a session token.
func (c *Client) Authenticate(ctx context.Context, initData string) (*AuthResponse, error) {
	if initData == "" {
		return nil, ErrEmptyInitData
	}
	var out AuthResponse
	if err := c.do(ctx, "auth.miniapp", http.MethodPost, "/auth/miniapp", nil, AuthRequest{InitData: initData}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, "auth.me", http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LinkWallet stores the payout address on the profile.
func (c *Client) LinkWallet(ctx context.Context, address string) (*User, error) {
	var out User
	if err := c.do(ctx, "auth.me.wallet", http.MethodPost, "/auth/me/wallet", nil, WalletRequest{LinkedWallet: address}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
