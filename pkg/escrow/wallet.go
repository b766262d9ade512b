// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package escrow

import (
	"context"
	"errors"
	"fmt"
)

// Network is the TON network the client is configured for.
type Network string

const (
	Testnet Network = "testnet"
	Mainnet Network = "mainnet"
)

// Chain is a TON Connect chain id.
type Chain string

const (
	ChainMainnet Chain = "-239"
	ChainTestnet Chain = "-3"
)

// Chain returns the chain id wallets report for n.
func (n Network) Chain() Chain {
	if n == Mainnet {
		return ChainMainnet
	}
	return ChainTestnet
}

var (
	ErrNoWallet = errors.New("Please connect a wallet")
	// ErrWrongNetwork is returned when a connected wallet is on another chain.
	ErrWrongNetwork = errors.New("wrong network")
)

// Account is a connected wallet account.
type Account struct {
	Address string
	Chain   Chain
}

// Wallet is a TON Connect style wallet session.
type Wallet interface {
	// Account returns the connected account, or nil.
	Account() *Account
	// SendTransaction asks the wallet to sign and broadcast tx.
	SendTransaction(ctx context.Context, tx Transaction) error
	Disconnect(ctx context.Context) error
}

// WrongNetworkMessage is shown after a wallet on the wrong chain has been
// disconnected.
func WrongNetworkMessage(required Network) string {
	return fmt.Sprintf("Wrong network! Please switch your wallet to %s and reconnect.", required.Chain().label())
}

func (c Chain) label() string {
	if c == ChainMainnet {
		return string(Mainnet)
	}
	return string(Testnet)
}

// CheckNetwork disconnects w when its account is on a chain other than
// required's. It returns ErrWrongNetwork in that case; a disconnected
// wallet passes.
func CheckNetwork(ctx context.Context, w Wallet, required Network) error {
	if w == nil {
		return nil
	}
	acct := w.Account()
	if acct == nil || acct.Chain == required.Chain() {
		return nil
	}
	if err := w.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect wallet on %s: %w", acct.Chain, err)
	}
	return fmt.Errorf("%w: %s", ErrWrongNetwork, WrongNetworkMessage(required))
}
