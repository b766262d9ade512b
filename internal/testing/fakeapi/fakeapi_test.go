// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fakeapi

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func client(t *testing.T, srv *httptest.Server, token string) *api.Client {
	c, err := api.New(api.Config{BaseURL: srv.URL, Tokens: staticToken(token)})
	require.NoError(t, err)
	return c
}

func TestLoginAndAuth(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake := New()
	srv := httptest.NewServer(fake.Handler())
	defer srv.Close()

	anon := client(t, srv, "")
	_, err := anon.Me(ctx)
	apiErr, ok := api.AsAPIError(err)
	require.True(ok)
	require.Equal(401, apiErr.Status)
	require.Equal("Not authenticated", apiErr.Message)

	resp, err := anon.Authenticate(ctx, InitData(777, "owner", ""))
	require.NoError(err)
	require.NotEmpty(resp.Token)
	require.Equal(int64(777), resp.User.TgUserID)

	again, err := anon.Authenticate(ctx, InitData(777, "owner", ""))
	require.NoError(err)
	require.Equal(resp.Token, again.Token, "same account, same user")

	me, err := client(t, srv, resp.Token).Me(ctx)
	require.NoError(err)
	require.Equal(resp.User.ID, me.ID)

	_, err = anon.Authenticate(ctx, "garbage")
	require.Error(err)
}

func TestDealFlow(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake := New()
	srv := httptest.NewServer(fake.Handler())
	defer srv.Close()

	owner, ownerToken := fake.AddUser(1, "owner")
	advertiser, advToken := fake.AddUser(2, "advertiser")
	ch := fake.AddChannel(owner.ID, -1001, "tech", nil)
	listing := fake.AddListing(ch.ID, "")

	adv := client(t, srv, advToken)
	own := client(t, srv, ownerToken)

	listingID := listing.ID
	d, err := adv.CreateDeal(ctx, api.CreateDealRequest{ListingID: &listingID})
	require.NoError(err)
	require.Equal(deal.StatusNegotiating, d.Status)
	require.False(d.Price.Valid)
	require.Equal(advertiser.ID, d.AdvertiserID)
	require.Empty(d.ViewerRole)

	_, err = adv.CreateDeal(ctx, api.CreateDealRequest{ListingID: &listingID})
	apiErr, ok := api.AsAPIError(err)
	require.True(ok)
	id, ok := apiErr.ConflictDealID()
	require.True(ok)
	require.Equal(d.ID, id)

	// The advertiser cannot lock terms.
	err = adv.SubmitTerms(ctx, d.ID, api.TermsRequest{})
	apiErr, ok = api.AsAPIError(err)
	require.True(ok)
	require.Equal(403, apiErr.Status)

	window := 15
	price := mustDecimal("100")
	require.NoError(own.SubmitTerms(ctx, d.ID, api.TermsRequest{Price: &price, Format: "post", VerificationWindow: &window}))

	dep, err := adv.RequestDeposit(ctx, d.ID)
	require.NoError(err)
	require.Equal(DepositAddress, dep.DepositAddress)
	require.False(dep.Confirmed())
	again, err := adv.RequestDeposit(ctx, d.ID)
	require.NoError(err)
	require.Equal(dep.ID, again.ID)

	require.NoError(fake.ConfirmDeposit(d.ID, "tx"))
	got, err := own.GetDeal(ctx, d.ID)
	require.NoError(err)
	require.Equal(deal.StatusFunded, got.Status)

	media, err := own.UploadMedia(ctx, "banner.png", strings.NewReader("png"))
	require.NoError(err)
	require.Equal(api.MediaPhoto, media.Type)

	cr, err := own.SubmitCreative(ctx, d.ID, api.CreativeRequest{Text: "Buy now", MediaFileIDs: []api.MediaFileID{media.Ref()}})
	require.NoError(err)
	require.Equal(1, cr.Version)

	require.NoError(adv.ReviewCreative(ctx, d.ID, api.CreativeReviewRequest{Status: api.CreativeApproved}))
	require.NoError(own.UpdateStatus(ctx, d.ID, deal.StatusScheduled))

	err = adv.UpdateStatus(ctx, d.ID, deal.StatusPosted)
	apiErr, ok = api.AsAPIError(err)
	require.True(ok)
	require.Equal(409, apiErr.Status)

	events, err := own.ListDealEvents(ctx, d.ID)
	require.NoError(err)
	require.Equal(api.EventStatusUpdated, events[0].Type, "newest first")
	require.Equal(api.EventDealCreated, events[len(events)-1].Type)

	fake.ReportViewerRole(true)
	got, err = adv.GetDeal(ctx, d.ID)
	require.NoError(err)
	require.Equal(deal.RoleAdvertiser, got.ViewerRole)
}

func TestListingFilters(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake := New()
	srv := httptest.NewServer(fake.Handler())
	defer srv.Close()

	owner, ownerToken := fake.AddUser(1, "owner")
	_, advToken := fake.AddUser(2, "advertiser")
	ch := fake.AddChannel(owner.ID, -1001, "tech", nil)
	for i := 0; i < 25; i++ {
		fake.AddListing(ch.ID, "10")
	}
	fake.AddListing(ch.ID, "500")

	adv := client(t, srv, advToken)
	rows, err := adv.ListListings(ctx, api.ListingFilter{Page: api.Page{Limit: 21}})
	require.NoError(err)
	require.Len(rows, 21)

	high := mustDecimal("100")
	rows, err = adv.ListListings(ctx, api.ListingFilter{PriceMin: &high})
	require.NoError(err)
	require.Len(rows, 1)

	rows, err = client(t, srv, ownerToken).ListListings(ctx, api.ListingFilter{ExcludeOwn: true})
	require.NoError(err)
	require.Empty(rows)
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
