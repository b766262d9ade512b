// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package escrow builds what a payer needs to fund a deal deposit: the
// nanoton amount, the ton:// transfer link and its QR code, the comment
// payload and the wallet transaction request.
package escrow

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/luxfi/admarket/pkg/api"
)

// TransactionTTL is the validity window of a transaction request, enforced
// by the wallet.
const TransactionTTL = 600 * time.Second

const nanoDigits = 9

var (
	ErrNoDepositAddress = errors.New("deposit has no address")
	ErrNegativeAmount   = errors.New("amount must not be negative")
)

// ToNano converts a TON amount to nanotons, rounding half away from zero.
func ToNano(amount decimal.Decimal) (string, error) {
	if amount.IsNegative() {
		return "", ErrNegativeAmount
	}
	return amount.Shift(nanoDigits).Round(0).String(), nil
}

// FromNano renders a nanoton amount as TON.
func FromNano(nano string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(nano)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse nanotons: %w", err)
	}
	return d.Shift(-nanoDigits), nil
}

// TransferURI is the ton:// link for a deposit. The amount is left out when
// the deposit does not state one.
func TransferURI(dep *api.EscrowPayment) (string, error) {
	if dep.DepositAddress == "" {
		return "", ErrNoDepositAddress
	}
	uri := "ton://transfer/" + dep.DepositAddress

	q := url.Values{}
	if dep.ExpectedAmount.Valid && dep.ExpectedAmount.Decimal.IsPositive() {
		nano, err := ToNano(dep.ExpectedAmount.Decimal)
		if err != nil {
			return "", err
		}
		q.Set("amount", nano)
	}
	if comment := dep.Comment(); comment != "" {
		q.Set("text", comment)
	}
	if len(q) > 0 {
		uri += "?" + q.Encode()
	}
	return uri, nil
}

// QRPNG renders uri as a PNG of size pixels.
func QRPNG(uri string, size int) ([]byte, error) {
	return qrcode.Encode(uri, qrcode.Medium, size)
}

// QRTerminal renders uri with half-block characters for a terminal.
func QRTerminal(uri string) (string, error) {
	qr, err := qrcode.New(uri, qrcode.Medium)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(qr.ToSmallString(false), "\n"), nil
}

// CommentPayload encodes a text comment the way wallets expect it: a cell
// holding a zero 32-bit opcode and the text as a snake string, serialised
// as a base64 bag of cells.
func CommentPayload(comment string) (string, error) {
	c, err := commentCell(comment)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(c.ToBOC()), nil
}

func commentCell(comment string) (*cell.Cell, error) {
	b := cell.BeginCell()
	if err := b.StoreUInt(0, 32); err != nil {
		return nil, fmt.Errorf("store comment opcode: %w", err)
	}
	if err := b.StoreStringSnake(comment); err != nil {
		return nil, fmt.Errorf("store comment: %w", err)
	}
	return b.EndCell(), nil
}

// Message is one transfer in a transaction request. Amount is in nanotons.
type Message struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Payload string `json:"payload,omitempty"`
}

// Transaction is the request handed to the wallet.
type Transaction struct {
	ValidUntil int64     `json:"validUntil"`
	Messages   []Message `json:"messages"`
}

// BuildTransfer prepares the wallet request for dep at now. A deposit
// without an expected amount is sent with amount 0, leaving the amount to
// the payer's wallet.
func BuildTransfer(dep *api.EscrowPayment, now time.Time) (Transaction, error) {
	if dep.DepositAddress == "" {
		return Transaction{}, ErrNoDepositAddress
	}
	amount := decimal.Zero
	if dep.ExpectedAmount.Valid {
		amount = dep.ExpectedAmount.Decimal
	}
	nano, err := ToNano(amount)
	if err != nil {
		return Transaction{}, err
	}

	msg := Message{Address: dep.DepositAddress, Amount: nano}
	if comment := dep.Comment(); comment != "" {
		payload, err := CommentPayload(comment)
		if err != nil {
			return Transaction{}, err
		}
		msg.Payload = payload
	}
	return Transaction{
		ValidUntil: now.Add(TransactionTTL).Unix(),
		Messages:   []Message{msg},
	}, nil
}
