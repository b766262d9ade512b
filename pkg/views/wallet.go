// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package views

import (
	"context"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal/forms"
	"github.com/luxfi/admarket/pkg/log"
	"github.com/luxfi/admarket/pkg/session"
)

const MsgWalletSaved = "Wallet saved"

// WalletAPI links a payout wallet and reloads the profile.
type WalletAPI interface {
	session.Authenticator
	LinkWallet(ctx context.Context, address string) (*api.User, error)
}

// WalletPage edits the viewer's payout wallet.
type WalletPage struct {
	api  WalletAPI
	env  *Env
	busy busy
}

func NewWalletPage(client WalletAPI, env *Env) *WalletPage {
	return &WalletPage{api: client, env: env}
}

// Linked is the currently linked address, or "".
func (v *WalletPage) Linked() string {
	if v.env.Session == nil {
		return ""
	}
	if u := v.env.Session.User(); u != nil && u.LinkedWallet != nil {
		return *u.LinkedWallet
	}
	return ""
}

// Save links the address, reloads the profile and goes back.
func (v *WalletPage) Save(ctx context.Context, address string) error {
	req, err := forms.Wallet(address)
	if err != nil {
		return v.env.fail(err)
	}
	if !v.busy.begin() {
		return ErrBusy
	}
	defer v.busy.end()

	user, err := v.api.LinkWallet(ctx, req.LinkedWallet)
	if err != nil {
		return v.env.fail(err)
	}
	if s := v.env.Session; s != nil {
		if err := s.RefreshUser(ctx, v.api); err != nil {
			v.env.logger().Warn("profile reload failed", log.Error(err))
			s.SetUser(user)
		}
	}
	v.env.success(MsgWalletSaved)
	v.env.back()
	return nil
}
