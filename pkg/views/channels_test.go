// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/admarket/internal/testing/fakeapi"
	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal"
	"github.com/luxfi/admarket/pkg/deal/forms"
	"github.com/luxfi/admarket/pkg/router"
)

func TestChannelsManagers(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	join(t, fake, srv, 5, "helper")
	ch := fake.AddChannel(owner.user.ID, -1001, "tech", nil)
	fake.AddTgAdmin(ch.ID, api.TgAdmin{TgUserID: 1, FirstName: "Owner", Status: "creator"})

	v := NewChannels(owner.client, owner.env)
	require.NoError(v.Mount(ctx))
	require.Len(v.List().Data, 1)
	require.Empty(v.Access().Data.Managers)

	err := v.AddManager(ctx, "@helper")
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgSelectChannel, owner.lastToast(t).Text)

	require.NoError(v.Select(ctx, ch.ID))
	require.Len(v.Access().Data.Admins, 1)
	require.Equal("creator", v.Access().Data.Admins[0].Status)

	err = v.AddManager(ctx, "  ")
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgEnterUsername, owner.lastToast(t).Text)

	require.NoError(v.AddManager(ctx, "@helper"))
	require.Equal(MsgManagerAdded, owner.lastToast(t).Text)
	managers := v.Access().Data.Managers
	require.Len(managers, 1)
	require.Equal("helper", *managers[0].TgUsername)

	err = v.AddManager(ctx, "nobody")
	_, ok := api.AsAPIError(err)
	require.True(ok)
	require.Equal("User has not opened the app yet", owner.lastToast(t).Text)

	require.NoError(v.RemoveManager(ctx, managers[0].ID))
	require.Equal(MsgManagerRemoved, owner.lastToast(t).Text)
	require.Empty(v.Access().Data.Managers)
}

func TestChannelsStatsAndDelete(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	ch := fake.AddChannel(owner.user.ID, -1001, "tech", nil)

	v := NewChannels(owner.client, owner.env)
	require.NoError(v.Mount(ctx))
	require.Nil(v.List().Data[0].Stats)

	require.NoError(v.RefreshStats(ctx, ch.ID))
	require.Equal(MsgStatsUpdated, owner.lastToast(t).Text)
	require.NotNil(v.List().Data[0].Stats)
	require.Equal("refresh", *v.List().Data[0].Stats.Source)

	require.NoError(v.Select(ctx, ch.ID))
	require.NoError(v.Delete(ctx, ch.ID))
	require.Equal(MsgChannelDeleted, owner.lastToast(t).Text)
	require.Empty(v.List().Data)
	require.Zero(v.Selected())
}

func TestChannelCreate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")

	create := NewChannelCreate(owner.client, owner.env)
	err := create.Submit(ctx, forms.ChannelInput{})
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgChatIDRequired, owner.lastToast(t).Text)

	err = create.Submit(ctx, forms.ChannelInput{TgChatID: "abc"})
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgChatIDNumber, owner.lastToast(t).Text)

	owner.nav.Navigate(router.Path(router.ChannelNew))
	require.NoError(create.Submit(ctx, forms.ChannelInput{TgChatID: "-100200", Username: "@fresh", Title: "Fresh"}))
	require.Equal(MsgChannelAdded, owner.lastToast(t).Text)
	require.Equal(router.Path(router.Channels), owner.path())

	v := NewChannels(owner.client, owner.env)
	require.NoError(v.Mount(ctx))
	list := v.List().Data
	require.Len(list, 1)
	require.Equal("Fresh", list[0].DisplayName())
	require.True(list[0].BotAdminStatus)

	err = create.Submit(ctx, forms.ChannelInput{TgChatID: "-100200"})
	require.Error(err)
	require.Equal("Channel already registered", owner.lastToast(t).Text)
}

func TestDealsListFilter(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	adv := join(t, fake, srv, 2, "advertiser")
	ch := fake.AddChannel(owner.user.ID, -1001, "tech", nil)
	first := negotiating(t, adv, fake.AddListing(ch.ID, "7").ID)
	second := negotiating(t, adv, fake.AddListing(ch.ID, "").ID)
	require.NoError(fake.SetDealStatus(first, deal.StatusFunded))

	v := NewDeals(owner.client, owner.env)
	require.NoError(v.Mount(ctx))
	require.Equal(FilterAll, v.Filter())
	require.Len(v.Filters(), len(deal.Statuses)+1)

	rows := v.Rows()
	require.Len(rows, 2)

	v.SetFilter(string(deal.StatusFunded))
	rows = v.Rows()
	require.Len(rows, 1)
	require.Equal(first, rows[0].ID)
	require.Equal("Funded", rows[0].Label)
	require.Equal("7", rows[0].Price)

	v.SetFilter(string(deal.StatusNegotiating))
	rows = v.Rows()
	require.Len(rows, 1)
	require.Equal(second, rows[0].ID)
	require.Equal(placeholder, rows[0].Price)

	v.SetFilter("bogus")
	require.Equal(FilterAll, v.Filter())

	v.Open(second)
	require.Equal(router.DealPath(second), owner.path())
}

func TestWalletPage(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	page := NewWalletPage(owner.client, owner.env)
	require.Empty(page.Linked())

	err := page.Save(ctx, "")
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgWalletRequired, owner.lastToast(t).Text)

	err = page.Save(ctx, "not-a-wallet")
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgWalletInvalid, owner.lastToast(t).Text)

	owner.nav.Navigate(router.Path(router.Deals))
	owner.nav.Navigate(router.Path(router.Wallet))
	require.NoError(page.Save(ctx, fakeapi.DepositAddress))
	require.Equal(MsgWalletSaved, owner.lastToast(t).Text)
	require.Equal(fakeapi.DepositAddress, page.Linked())
	require.Equal(router.Path(router.Deals), owner.path())
}
