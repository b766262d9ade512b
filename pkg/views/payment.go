// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package views

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/escrow"
	"github.com/luxfi/admarket/pkg/fetch"
	"github.com/luxfi/admarket/pkg/log"
	"github.com/luxfi/admarket/pkg/metric"
	"github.com/luxfi/admarket/pkg/router"
)

const (
	MsgPaymentConfirmed = "Payment confirmed"
	MsgTransactionSent  = "Transaction sent"
	MsgAddressCopied    = "Address copied"
	MsgDepositFailed    = "Failed to create deposit"
	MsgAmountUnset      = "Not specified"
)

var (
	ErrNoDeposit = errors.New(MsgDepositFailed)
	// ErrAlreadyPaid is returned by Pay once the deposit is confirmed.
	ErrAlreadyPaid = errors.New("deposit already confirmed")
)

// PaymentAPI is what the payment view needs from the backend.
type PaymentAPI interface {
	RequestDeposit(ctx context.Context, dealID int64) (*api.EscrowPayment, error)
}

type PaymentState struct {
	Loading bool
	Err     error
	Offline bool
	Deposit *api.EscrowPayment
	// Confirmed replaces the payment form with a notice.
	Confirmed   bool
	TransferURI string
	// Amount is "<n> TON" or MsgAmountUnset.
	Amount  string
	Comment string
	Sending bool
	// Connected reports whether a wallet account is available.
	Connected bool
}

// Payment drives the escrow deposit of one deal. The deposit is requested
// once on mount; the backend returns the same open deposit on every call.
type Payment struct {
	api     PaymentAPI
	env     *Env
	dealID  int64
	network escrow.Network
	log     log.Logger

	deposit *fetch.Query[*api.EscrowPayment]
	busy    busy

	mu     sync.Mutex
	wallet escrow.Wallet
	now    func() time.Time
}

func NewPayment(client PaymentAPI, env *Env, dealID int64, network escrow.Network) *Payment {
	p := &Payment{
		api:     client,
		env:     env,
		dealID:  dealID,
		network: network,
		log:     env.logger().With(log.Int64("deal_id", dealID)),
		now:     time.Now,
	}
	p.deposit = fetch.NewQuery(func(ctx context.Context) (*api.EscrowPayment, error) {
		return client.RequestDeposit(ctx, dealID)
	}, env.queryOptions()...)
	return p
}

// DealID is the id of the deal being paid.
func (p *Payment) DealID() int64 { return p.dealID }

func (p *Payment) Mount(ctx context.Context) error { return p.deposit.Mount(ctx) }

func (p *Payment) Unmount() { p.deposit.Unmount() }

func (p *Payment) Refetch(ctx context.Context) error { return p.deposit.Refetch(ctx) }

func (p *Payment) OnChange(fn func()) {
	p.deposit.OnChange(func(fetch.State[*api.EscrowPayment]) { fn() })
}

// Connect sets the wallet used by Pay. A nil wallet disconnects.
func (p *Payment) Connect(w escrow.Wallet) {
	p.mu.Lock()
	p.wallet = w
	p.mu.Unlock()
}

// SetClock replaces the clock used for the transaction validity window.
func (p *Payment) SetClock(now func() time.Time) {
	p.mu.Lock()
	p.now = now
	p.mu.Unlock()
}

func (p *Payment) connected() (escrow.Wallet, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.wallet, p.wallet != nil && p.wallet.Account() != nil
}

func (p *Payment) State() PaymentState {
	s := p.deposit.State()
	_, connected := p.connected()
	out := PaymentState{
		Loading:   s.Loading,
		Err:       s.Err,
		Offline:   s.Offline,
		Sending:   p.busy.running(),
		Connected: connected,
	}
	dep := s.Data
	if !s.HasData || dep == nil {
		return out
	}
	out.Deposit = dep
	out.Confirmed = dep.Confirmed()
	out.Comment = dep.Comment()
	out.Amount = MsgAmountUnset
	if dep.ExpectedAmount.Valid {
		out.Amount = dep.ExpectedAmount.Decimal.String() + " TON"
	}
	if uri, err := escrow.TransferURI(dep); err == nil {
		out.TransferURI = uri
	}
	return out
}

// QR renders the transfer URI for a terminal.
func (p *Payment) QR() (string, error) {
	uri := p.State().TransferURI
	if uri == "" {
		return "", ErrNoDeposit
	}
	return escrow.QRTerminal(uri)
}

// CopyAddress copies the deposit address.
func (p *Payment) CopyAddress(clip Clipboard) error {
	dep := p.State().Deposit
	if dep == nil || dep.DepositAddress == "" {
		return nil
	}
	if err := clip.WriteText(dep.DepositAddress); err != nil {
		return p.env.fail(err)
	}
	p.env.success(MsgAddressCopied)
	return nil
}

// Pay asks the connected wallet to send the deposit. On success it returns
// to the deal. A confirmed deposit is never paid again.
func (p *Payment) Pay(ctx context.Context) error {
	s := p.State()
	if s.Deposit == nil {
		return p.env.fail(ErrNoDeposit)
	}
	if s.Confirmed {
		return ErrAlreadyPaid
	}
	wallet, ok := p.connected()
	if !ok {
		return p.env.fail(escrow.ErrNoWallet)
	}
	if !p.busy.begin() {
		return ErrBusy
	}
	defer p.busy.end()

	if err := escrow.CheckNetwork(ctx, wallet, p.network); err != nil {
		p.Connect(nil)
		p.observe(metric.OutcomeRejected)
		if errors.Is(err, escrow.ErrWrongNetwork) {
			p.notifyError(escrow.WrongNetworkMessage(p.network))
			return err
		}
		return p.env.fail(err)
	}

	p.mu.Lock()
	now := p.now
	p.mu.Unlock()
	tx, err := escrow.BuildTransfer(s.Deposit, now())
	if err != nil {
		p.observe(metric.OutcomeFailure)
		return p.env.fail(err)
	}
	if err := wallet.SendTransaction(ctx, tx); err != nil {
		p.observe(metric.OutcomeFailure)
		p.log.Warn("wallet transaction failed", log.Error(err))
		return p.env.fail(err)
	}

	p.observe(metric.OutcomeSuccess)
	p.log.Info("deposit transaction sent", log.Int64("valid_until", tx.ValidUntil))
	p.env.success(MsgTransactionSent)
	p.env.navigate(router.DealPath(p.dealID))
	return nil
}

// OpenDeal returns to the deal, as offered once the deposit is confirmed.
func (p *Payment) OpenDeal() {
	p.env.navigate(router.DealPath(p.dealID))
}

func (p *Payment) notifyError(text string) {
	if p.env.Toasts != nil {
		p.env.Toasts.Notify(Toast{Kind: ToastError, Text: text})
	}
}

func (p *Payment) observe(outcome string) {
	if p.env.Metrics != nil {
		p.env.Metrics.Payments.WithLabelValues(outcome).Inc()
	}
}
