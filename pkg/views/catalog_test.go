// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal"
	"github.com/luxfi/admarket/pkg/deal/forms"
	"github.com/luxfi/admarket/pkg/fetch"
	"github.com/luxfi/admarket/pkg/router"
)

func TestListingConflictOpensExistingDeal(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	adv := join(t, fake, srv, 2, "advertiser")
	ch := fake.AddChannel(owner.user.ID, -1001, "tech", nil)
	listing := fake.AddListing(ch.ID, "")

	first := negotiating(t, adv, listing.ID)
	adv.nav.Navigate(router.ListingPath(listing.ID))

	detail := NewListingDetail(adv.client, adv.env, listing.ID)
	require.NoError(detail.Mount(ctx))
	again, err := detail.CreateDeal(ctx)
	require.NoError(err)
	require.Equal(first, again)
	require.Equal(router.DealPath(first), adv.path())
	require.Equal(1, fake.DealCount())
}

func TestListingBrowse(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	adv := join(t, fake, srv, 2, "advertiser")
	ch := fake.AddChannel(owner.user.ID, -1001, "tech", nil)
	for i := 0; i < fetch.PageSize+1; i++ {
		fake.AddListing(ch.ID, "10")
	}
	cheap := fake.AddListing(ch.ID, "1")

	browse := NewListingBrowse(adv.client, adv.env)
	require.NoError(browse.Mount(ctx))
	items, more := browse.Pager().Items()
	require.Len(items, fetch.PageSize)
	require.True(more)
	require.Equal(cheap.ID, items[0].ID)
	require.NotNil(items[0].Channel)

	require.NoError(browse.Pager().Next(ctx))
	items, more = browse.Pager().Items()
	require.Len(items, 2)
	require.False(more)

	require.NoError(browse.Filter(ctx, "", "5"))
	require.Equal(0, browse.Pager().Page())
	items, _ = browse.Pager().Items()
	require.Len(items, 1)
	require.Equal(cheap.ID, items[0].ID)

	err := browse.Filter(ctx, "x", "")
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgFilterNumber, adv.lastToast(t).Text)

	// The owner never sees their own listings.
	own := NewListingBrowse(owner.client, owner.env)
	require.NoError(own.Mount(ctx))
	items, _ = own.Pager().Items()
	require.Empty(items)

	browse.Open(cheap.ID)
	require.Equal(router.ListingPath(cheap.ID), adv.path())
}

func TestListingDetailStats(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	adv := join(t, fake, srv, 2, "advertiser")
	subs, prev := int64(1100), int64(1000)
	ch := fake.AddChannel(owner.user.ID, -1001, "tech", &api.ChannelStats{Subscribers: &subs, SubscribersPrev: &prev})
	listing := fake.AddListing(ch.ID, "3")

	detail := NewListingDetail(adv.client, adv.env, listing.ID)
	require.NoError(detail.Mount(ctx))
	lines := detail.Stats()
	require.NotEmpty(lines)
	require.Equal("Subscribers", lines[0].Label)
	require.Equal("1,100", lines[0].Value)
	require.NotNil(lines[0].Trend)
	require.Equal("▲ 10%", lines[0].Trend.String())
}

func TestListingCreate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	other := join(t, fake, srv, 3, "other")
	mine := fake.AddChannel(owner.user.ID, -1001, "tech", nil)
	fake.AddChannel(other.user.ID, -1002, "news", nil)

	create := NewListingCreate(owner.client, owner.env)
	require.NoError(create.Mount(ctx))
	channels := create.Channels()
	require.Len(channels, 1)
	require.Equal(mine.ID, channels[0].ID)

	err := create.Submit(ctx, forms.ListingInput{})
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgSelectChannel, owner.lastToast(t).Text)

	err = create.Submit(ctx, forms.ListingInput{ChannelID: mine.ID, PriceTON: "ten"})
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgPriceNumber, owner.lastToast(t).Text)

	owner.nav.Navigate(router.Path(router.ListingNew))
	require.NoError(create.Submit(ctx, forms.ListingInput{ChannelID: mine.ID, PriceTON: "12.5", Categories: "tech, ai", Geo: "us"}))
	require.Equal(MsgListingCreated, owner.lastToast(t).Text)
	require.Equal(router.Path(router.Listings), owner.path())

	browse := NewListingBrowse(other.client, other.env)
	require.NoError(browse.Mount(ctx))
	items, _ := browse.Pager().Items()
	require.Len(items, 1)
	require.Equal("12.5", items[0].PriceTON.Decimal.String())
	require.Equal([]string{"tech", "ai"}, items[0].Categories)
}

func TestRequestBrowseAndRespond(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	adv := join(t, fake, srv, 2, "advertiser")
	fake.AddChannel(owner.user.ID, -1001, "tech", nil)
	small := fake.AddRequest(adv.user.ID, "50", "")
	fake.AddRequest(adv.user.ID, "500", "Launch post")

	browse := NewRequestBrowse(owner.client, owner.env)
	require.NoError(browse.Mount(ctx))
	items, more := browse.Pager().Items()
	require.Len(items, 2)
	require.False(more)

	require.NoError(browse.Filter(ctx, "", "100"))
	items, _ = browse.Pager().Items()
	require.Len(items, 1)
	require.Equal(small.ID, items[0].ID)

	id, err := browse.Respond(ctx, small.ID)
	require.NoError(err)
	require.Equal(router.DealPath(id), owner.path())
	d, ok := fake.Deal(id)
	require.True(ok)
	require.Equal(deal.StatusNegotiating, d.Status)
	require.Equal("50", d.Price.Decimal.String())

	// Responding twice opens the same deal.
	again, err := browse.Respond(ctx, small.ID)
	require.NoError(err)
	require.Equal(id, again)
	require.Equal(1, fake.DealCount())
}

func TestRequestDetailDeal(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	adv := join(t, fake, srv, 2, "advertiser")
	ch := fake.AddChannel(owner.user.ID, -1001, "tech", nil)
	req := fake.AddRequest(adv.user.ID, "300", "Launch post")

	detail := NewRequestDetail(owner.client, owner.env, req.ID)
	require.NoError(detail.Mount(ctx))
	def, ok := detail.DefaultChannel()
	require.True(ok)
	require.Equal(ch.ID, def.ID)

	_, err := detail.CreateDeal(ctx, forms.RequestDealInput{Price: "abc"})
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgDealNumbers, owner.lastToast(t).Text)

	_, err = detail.CreateDeal(ctx, forms.RequestDealInput{PublishAt: "tomorrow"})
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgInvalidPublishDate, owner.lastToast(t).Text)

	id, err := detail.CreateDeal(ctx, forms.RequestDealInput{VerificationWindow: "30"})
	require.NoError(err)
	d, ok := fake.Deal(id)
	require.True(ok)
	require.Equal(ch.ID, d.ChannelID)
	require.Equal("300", d.Price.Decimal.String())
	require.Equal("post", *d.Format)
	require.Equal("Launch post", *d.Brief)
	require.Equal(30, *d.VerificationWindow)

	require.NoError(detail.RefreshStats(ctx, ch.ID))
	require.Equal(MsgStatsUpdated, owner.lastToast(t).Text)
	lines := detail.Stats(ch.ID)
	require.Equal("refresh", lines[len(lines)-1].Value)
}

func TestRequestDetailWithoutChannels(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	adv := join(t, fake, srv, 2, "advertiser")
	req := fake.AddRequest(adv.user.ID, "300", "")

	detail := NewRequestDetail(owner.client, owner.env, req.ID)
	require.NoError(detail.Mount(ctx))
	_, ok := detail.DefaultChannel()
	require.False(ok)

	_, err := detail.CreateDeal(ctx, forms.RequestDealInput{})
	require.ErrorIs(err, ErrNoChannels)
	require.Equal(MsgAddChannel, owner.lastToast(t).Text)
	require.Zero(fake.DealCount())
}

func TestDealCreationBeforeLoad(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	adv := join(t, fake, srv, 2, "advertiser")
	ch := fake.AddChannel(owner.user.ID, -1001, "tech", nil)
	listing := fake.AddListing(ch.ID, "5")
	req := fake.AddRequest(adv.user.ID, "300", "")

	listingView := NewListingDetail(adv.client, adv.env, listing.ID)
	id, err := listingView.CreateDeal(ctx)
	require.ErrorIs(err, ErrListingNotLoaded)
	require.Zero(id)
	require.Equal(MsgListingMissing, adv.lastToast(t).Text)

	requestView := NewRequestDetail(owner.client, owner.env, req.ID)
	id, err = requestView.CreateDeal(ctx, forms.RequestDealInput{ChannelID: ch.ID})
	require.ErrorIs(err, ErrRequestNotLoaded)
	require.Zero(id)
	require.Equal(MsgRequestMissing, owner.lastToast(t).Text)
	require.Zero(fake.DealCount())
}

func TestRequestCreate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	adv := join(t, fake, srv, 2, "advertiser")

	create := NewRequestCreate(adv.client, adv.env)
	err := create.Submit(ctx, forms.RequestInput{Budget: "lots"})
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgNumericFields, adv.lastToast(t).Text)

	err = create.Submit(ctx, forms.RequestInput{Dates: "{"})
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgDatesJSON, adv.lastToast(t).Text)

	require.NoError(create.Submit(ctx, forms.RequestInput{Budget: "250", Niche: "crypto", Languages: "en, ru", Brief: "Launch"}))
	require.Equal(MsgRequestCreated, adv.lastToast(t).Text)
	require.Equal(router.Path(router.Requests), adv.path())

	browse := NewRequestBrowse(adv.client, adv.env)
	require.NoError(browse.Mount(ctx))
	items, _ := browse.Pager().Items()
	require.Len(items, 1)
	require.Equal("250", items[0].Budget.Decimal.String())
	require.Equal([]string{"en", "ru"}, items[0].Languages)
}
