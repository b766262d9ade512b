// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package escrow

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/luxfi/admarket/pkg/api"
)

const depositAddr = "EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N"

func deposit(amount string, comment string) *api.EscrowPayment {
	dep := &api.EscrowPayment{ID: 1, DealID: 17, DepositAddress: depositAddr}
	if amount != "" {
		dep.ExpectedAmount = decimal.NewNullDecimal(decimal.RequireFromString(amount))
	}
	if comment != "" {
		dep.DepositComment = &comment
	}
	return dep
}

func TestToNano(t *testing.T) {
	require := require.New(t)

	cases := map[string]string{
		"100":          "100000000000",
		"1.5":          "1500000000",
		"0":            "0",
		"0.0000000015": "2",
		"0.0000000014": "1",
		"12.345678901": "12345678901",
	}
	for in, want := range cases {
		got, err := ToNano(decimal.RequireFromString(in))
		require.NoError(err)
		require.Equal(want, got, in)
	}

	_, err := ToNano(decimal.NewFromInt(-1))
	require.ErrorIs(err, ErrNegativeAmount)

	ton, err := FromNano("1500000000")
	require.NoError(err)
	require.True(ton.Equal(decimal.RequireFromString("1.5")))
	_, err = FromNano("lots")
	require.Error(err)
}

func TestTransferURI(t *testing.T) {
	require := require.New(t)

	uri, err := TransferURI(deposit("100", ""))
	require.NoError(err)
	require.Equal("ton://transfer/"+depositAddr+"?amount=100000000000", uri)

	uri, err = TransferURI(deposit("2", "deal 17"))
	require.NoError(err)
	require.Equal("ton://transfer/"+depositAddr+"?amount=2000000000&text=deal+17", uri)

	uri, err = TransferURI(deposit("", ""))
	require.NoError(err)
	require.Equal("ton://transfer/"+depositAddr, uri)

	uri, err = TransferURI(deposit("0", "deal 17"))
	require.NoError(err)
	require.Equal("ton://transfer/"+depositAddr+"?text=deal+17", uri)

	_, err = TransferURI(&api.EscrowPayment{})
	require.ErrorIs(err, ErrNoDepositAddress)
}

func TestQR(t *testing.T) {
	require := require.New(t)

	uri, err := TransferURI(deposit("1", ""))
	require.NoError(err)

	png, err := QRPNG(uri, 256)
	require.NoError(err)
	require.True(bytes.HasPrefix(png, []byte("\x89PNG")))

	text, err := QRTerminal(uri)
	require.NoError(err)
	require.NotEmpty(text)
	require.Greater(len(bytes.Split([]byte(text), []byte("\n"))), 10)
}

func TestCommentPayload(t *testing.T) {
	require := require.New(t)

	payload, err := CommentPayload("deal-17-deposit")
	require.NoError(err)

	boc, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(err)
	c, err := cell.FromBOC(boc)
	require.NoError(err)

	s := c.BeginParse()
	op, err := s.LoadUInt(32)
	require.NoError(err)
	require.Zero(op)
	text, err := s.LoadStringSnake()
	require.NoError(err)
	require.Equal("deal-17-deposit", text)
}

func TestBuildTransfer(t *testing.T) {
	require := require.New(t)

	now := time.Unix(1_760_000_000, 0)
	tx, err := BuildTransfer(deposit("100", "memo"), now)
	require.NoError(err)
	require.Equal(int64(1_760_000_600), tx.ValidUntil)
	require.Len(tx.Messages, 1)
	require.Equal(depositAddr, tx.Messages[0].Address)
	require.Equal("100000000000", tx.Messages[0].Amount)

	want, err := CommentPayload("memo")
	require.NoError(err)
	require.Equal(want, tx.Messages[0].Payload)

	tx, err = BuildTransfer(deposit("", ""), now)
	require.NoError(err)
	require.Equal("0", tx.Messages[0].Amount)
	require.Empty(tx.Messages[0].Payload)

	_, err = BuildTransfer(&api.EscrowPayment{}, now)
	require.ErrorIs(err, ErrNoDepositAddress)
}

type stubWallet struct {
	account      *Account
	disconnected bool
	disconnErr   error
}

func (w *stubWallet) Account() *Account { return w.account }

func (w *stubWallet) SendTransaction(context.Context, Transaction) error { return nil }

func (w *stubWallet) Disconnect(context.Context) error {
	w.disconnected = true
	w.account = nil
	return w.disconnErr
}

func TestCheckNetwork(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	require.Equal(ChainMainnet, Mainnet.Chain())
	require.Equal(ChainTestnet, Testnet.Chain())
	require.Equal(ChainTestnet, Network("").Chain())

	require.NoError(CheckNetwork(ctx, nil, Testnet))
	require.NoError(CheckNetwork(ctx, &stubWallet{}, Testnet))

	right := &stubWallet{account: &Account{Address: depositAddr, Chain: ChainTestnet}}
	require.NoError(CheckNetwork(ctx, right, Testnet))
	require.False(right.disconnected)

	wrong := &stubWallet{account: &Account{Address: depositAddr, Chain: ChainMainnet}}
	err := CheckNetwork(ctx, wrong, Testnet)
	require.ErrorIs(err, ErrWrongNetwork)
	require.Contains(err.Error(), "Please switch your wallet to testnet and reconnect.")
	require.True(wrong.disconnected)
	require.Nil(wrong.Account())

	failing := &stubWallet{account: &Account{Chain: ChainTestnet}, disconnErr: errors.New("bridge down")}
	require.Error(CheckNetwork(ctx, failing, Mainnet))
	require.Equal("Wrong network! Please switch your wallet to mainnet and reconnect.", WrongNetworkMessage(Mainnet))
}
