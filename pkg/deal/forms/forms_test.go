// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package forms

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal"
)

func requireValidation(t *testing.T, err error, message string) {
	t.Helper()
	require.True(t, IsValidation(err), "expected validation error, got %v", err)
	require.Equal(t, message, err.Error())
}

func TestTerms(t *testing.T) {
	require := require.New(t)

	req, err := Terms(TermsInput{Price: "100", Format: " post ", VerificationWindow: "15"}, time.UTC)
	require.NoError(err)
	require.True(req.Price.Equal(decimal.NewFromInt(100)))
	require.Equal("post", req.Format)
	require.Equal(15, *req.VerificationWindow)
	require.Empty(req.PublishAt)

	req, err = Terms(TermsInput{PublishAt: "2026-02-10T12:00"}, time.UTC)
	require.NoError(err)
	require.Nil(req.Price)
	require.Equal("2026-02-10T12:00:00.000Z", req.PublishAt)

	_, err = Terms(TermsInput{Price: "a lot"}, time.UTC)
	requireValidation(t, err, MsgPriceNumber)
	_, err = Terms(TermsInput{Price: "0"}, time.UTC)
	requireValidation(t, err, MsgPricePositive)
	_, err = Terms(TermsInput{VerificationWindow: "1.5"}, time.UTC)
	requireValidation(t, err, MsgWindowNumber)
	_, err = Terms(TermsInput{VerificationWindow: "-5"}, time.UTC)
	requireValidation(t, err, MsgWindowNumber)
	_, err = Terms(TermsInput{PublishAt: "soon"}, time.UTC)
	requireValidation(t, err, MsgInvalidPublishDate)
}

func TestPublishAt(t *testing.T) {
	_, err := PublishAt("", time.UTC)
	requireValidation(t, err, MsgPublishDateNeeded)

	_, err = PublishAt("2026-02-30T10:00", time.UTC)
	requireValidation(t, err, MsgInvalidPublishDate)

	req, err := PublishAt("2026-02-10T10:00", time.UTC)
	require.NoError(t, err)
	require.Equal(t, "2026-02-10T10:00:00.000Z", req.PublishAt)
}

func TestStatus(t *testing.T) {
	req, err := Status(deal.StatusTermsLocked, deal.StatusAwaitingPayment, deal.RoleAdvertiser)
	require.NoError(t, err)
	require.Equal(t, deal.StatusAwaitingPayment, req.Status)

	_, err = Status(deal.StatusTermsLocked, deal.StatusAwaitingPayment, deal.RoleOwner)
	requireValidation(t, err, MsgStatusNotAllowed)

	_, err = Status(deal.StatusCanceled, deal.StatusCanceled, deal.RoleOwner)
	requireValidation(t, err, MsgStatusNotAllowed)
}

func TestCreativeAndBrief(t *testing.T) {
	require := require.New(t)

	_, err := Creative(CreativeInput{Text: "   "})
	requireValidation(t, err, MsgCreativeEmpty)

	_, err = Creative(CreativeInput{Media: []api.MediaFileID{{Type: "sticker", FileID: "x"}}})
	requireValidation(t, err, MsgMediaType)

	photo := []api.MediaFileID{{Type: api.MediaPhoto, FileID: "AgAC"}}
	creative, err := Creative(CreativeInput{Media: photo})
	require.NoError(err)
	require.Equal(photo, creative.MediaFileIDs)

	_, err = Brief(BriefInput{}, time.UTC)
	requireValidation(t, err, MsgBriefEmpty)

	brief, err := Brief(BriefInput{Text: " Launch promo ", PublishAt: "2026-03-01T10:00"}, time.UTC)
	require.NoError(err)
	require.Equal("Launch promo", brief.Text)
	require.Equal("2026-03-01T10:00:00.000Z", brief.PublishAt)
}

func TestReview(t *testing.T) {
	require := require.New(t)

	approved, err := Review(ReviewInput{Approve: true}, time.UTC)
	require.NoError(err)
	require.Equal(api.CreativeApproved, approved.Status)

	_, err = Review(ReviewInput{Approve: false}, time.UTC)
	requireValidation(t, err, MsgReviewComment)

	revise, err := Review(ReviewInput{Comment: "Shorter headline"}, time.UTC)
	require.NoError(err)
	require.Equal(api.CreativeDraft, revise.Status)
	require.Equal("Shorter headline", revise.Comment)
}

func TestRequestDealDefaults(t *testing.T) {
	require := require.New(t)

	brief := "Promote our wallet"
	request := &api.RequestItem{ID: 3, Budget: decimal.NewNullDecimal(decimal.NewFromInt(250)), Brief: &brief}

	req, err := RequestDeal(request, RequestDealInput{ChannelID: 7}, time.UTC)
	require.NoError(err)
	require.Equal(int64(3), *req.RequestID)
	require.Equal(int64(7), *req.ChannelID)
	require.True(req.Price.Equal(decimal.NewFromInt(250)))
	require.Equal("post", req.Format)
	require.Equal(brief, req.Brief)
	require.Nil(req.VerificationWindow)

	req, err = RequestDeal(request, RequestDealInput{ChannelID: 7, Price: "300", Format: "story", Brief: "Own text", VerificationWindow: "30"}, time.UTC)
	require.NoError(err)
	require.True(req.Price.Equal(decimal.NewFromInt(300)))
	require.Equal("story", req.Format)
	require.Equal("Own text", req.Brief)
	require.Equal(30, *req.VerificationWindow)

	body, err := json.Marshal(api.CreateDealRequest{RequestID: req.RequestID})
	require.NoError(err)
	require.JSONEq(`{"request_id":3}`, string(body))
}

func TestRequestDealValidation(t *testing.T) {
	request := &api.RequestItem{ID: 3}

	_, err := RequestDeal(request, RequestDealInput{}, time.UTC)
	requireValidation(t, err, MsgSelectChannel)

	_, err = RequestDeal(nil, RequestDealInput{ChannelID: 7}, time.UTC)
	requireValidation(t, err, MsgSelectChannel)

	// The date is checked before the numbers.
	_, err = RequestDeal(request, RequestDealInput{ChannelID: 7, Price: "x", PublishAt: "bad"}, time.UTC)
	requireValidation(t, err, MsgInvalidPublishDate)

	_, err = RequestDeal(request, RequestDealInput{ChannelID: 7, VerificationWindow: "ten"}, time.UTC)
	requireValidation(t, err, MsgDealNumbers)

	_, err = RequestDeal(request, RequestDealInput{ChannelID: 7, VerificationWindow: "-5"}, time.UTC)
	requireValidation(t, err, MsgDealNumbers)
}

func TestListingDeal(t *testing.T) {
	req := ListingDeal(&api.Listing{ID: 42, ChannelID: 7})
	body, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"listing_id":42,"channel_id":7}`, string(body))
}

func TestListing(t *testing.T) {
	require := require.New(t)

	req, err := Listing(ListingInput{ChannelID: 7, PriceTON: "12.5", Categories: "tech, crypto,, ", Geo: "us, de", Lang: "en"})
	require.NoError(err)
	require.Nil(req.PriceUSD)
	require.Equal("12.5", req.PriceTON.String())
	require.Equal("post", req.Format)
	require.Equal([]string{"tech", "crypto"}, req.Categories)
	require.True(req.Active)
	require.Equal([]string{"US", "DE"}, req.Constraints.Geo)

	body, err := json.Marshal(req)
	require.NoError(err)
	require.JSONEq(`{"channel_id":7,"price_usd":null,"price_ton":12.5,"format":"post","categories":["tech","crypto"],"constraints":{"lang":"en","geo":["US","DE"]},"active":true}`, string(body))

	req, err = Listing(ListingInput{ChannelID: 7})
	require.NoError(err)
	require.Nil(req.Constraints)
	require.Equal([]string{}, req.Categories)

	_, err = Listing(ListingInput{})
	requireValidation(t, err, MsgSelectChannel)
	_, err = Listing(ListingInput{ChannelID: 7, PriceUSD: "ten"})
	requireValidation(t, err, MsgPriceNumber)
}

func TestRequest(t *testing.T) {
	require := require.New(t)

	req, err := Request(RequestInput{
		Budget:    "500",
		Niche:     " crypto ",
		Languages: "en, ru",
		MinSubs:   "1000",
		Dates:     `{"from":"2026-02-10","to":"2026-02-20","note":"weekdays"}`,
	})
	require.NoError(err)
	require.Equal("500", req.Budget.String())
	require.Equal("crypto", *req.Niche)
	require.Equal([]string{"en", "ru"}, req.Languages)
	require.Equal(int64(1000), *req.MinSubs)
	require.Nil(req.MinViews)
	require.Nil(req.Brief)
	require.Equal("2026-02-10", req.Dates.From)
	require.Contains(req.Dates.Extra, "note")

	_, err = Request(RequestInput{Dates: `{from:}`})
	requireValidation(t, err, MsgDatesJSON)
	_, err = Request(RequestInput{Dates: `{"from":"10.02.2026"}`})
	requireValidation(t, err, MsgDatesFormat)
	_, err = Request(RequestInput{Dates: `{"from":"2026-02-20","to":"2026-02-10"}`})
	requireValidation(t, err, MsgDatesOrder)
	_, err = Request(RequestInput{MinViews: "many"})
	requireValidation(t, err, MsgNumericFields)
}

func TestChannelManagerWallet(t *testing.T) {
	require := require.New(t)

	_, err := Channel(ChannelInput{})
	requireValidation(t, err, MsgChatIDRequired)
	_, err = Channel(ChannelInput{TgChatID: "@mychannel"})
	requireValidation(t, err, MsgChatIDNumber)

	ch, err := Channel(ChannelInput{TgChatID: " -1001234567890 ", Username: "@tech"})
	require.NoError(err)
	require.Equal(int64(-1001234567890), ch.TgChatID)
	require.Equal("tech", *ch.Username)
	require.Nil(ch.Title)
	require.True(ch.BotAdminStatus)

	_, err = Manager(" @ ")
	requireValidation(t, err, MsgEnterUsername)
	m, err := Manager("@alice")
	require.NoError(err)
	require.Equal("alice", m.TgUsername)

	_, err = Wallet("")
	requireValidation(t, err, MsgWalletRequired)
	_, err = Wallet("not-an-address")
	requireValidation(t, err, MsgWalletInvalid)

	w, err := Wallet("EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N")
	require.NoError(err)
	require.Equal("EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N", w.LinkedWallet)

	_, err = Wallet("0:83dfd552e63729b472fcbcc8c45ebcc6691702558b68ec7527e1ba403a0f31a8")
	require.NoError(err)
}

func TestValidationErrorUnwraps(t *testing.T) {
	_, err := Manager("")
	wrapped := fmt.Errorf("add manager: %w", err)
	require.True(t, IsValidation(wrapped))

	var v *ValidationError
	require.True(t, errors.As(wrapped, &v))
	require.Equal(t, "tg_username", v.Field)
}

func TestRange(t *testing.T) {
	require := require.New(t)

	lo, hi, err := Range(" 10 ", "")
	require.NoError(err)
	require.Equal("10", lo.String())
	require.Nil(hi)

	_, _, err = Range("", "abc")
	requireValidation(t, err, MsgFilterNumber)
}
