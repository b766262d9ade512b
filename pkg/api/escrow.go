// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"net/http"
)

// RequestDeposit returns the open deposit for a deal, creating it on first
// call. Repeated calls return the same deposit.
func (c *Client) RequestDeposit(ctx context.Context, dealID int64) (*EscrowPayment, error) {
	var out EscrowPayment
	if err := c.do(ctx, "escrow.deposit", http.MethodPost, idPath("/escrow/deals/%d/deposit", dealID), nil, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
