// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package views

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal"
	"github.com/luxfi/admarket/pkg/deal/forms"
	"github.com/luxfi/admarket/pkg/metric"
	"github.com/luxfi/admarket/pkg/router"
	"github.com/luxfi/admarket/pkg/telegram"
)

// negotiating opens a deal on a listing without a price and returns its id.
func negotiating(t *testing.T, adv *party, listingID int64) int64 {
	detail := NewListingDetail(adv.client, adv.env, listingID)
	require.NoError(t, detail.Mount(context.Background()))
	id, err := detail.CreateDeal(context.Background())
	require.NoError(t, err)
	return id
}

func TestDealTermsByOwner(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	adv := join(t, fake, srv, 2, "advertiser")
	ch := fake.AddChannel(owner.user.ID, -1001, "tech", nil)
	listing := fake.AddListing(ch.ID, "")

	id := negotiating(t, adv, listing.ID)
	require.Equal(router.DealPath(id), adv.path())
	require.Equal(MsgDealCreated, adv.lastToast(t).Text)

	view := NewDealDetail(owner.client, owner.env, id)
	require.NoError(view.Mount(ctx))
	s := view.State()
	require.Equal(deal.StatusNegotiating, s.Deal.Status)
	require.False(s.Deal.Price.Valid)
	require.Equal(deal.RoleOwner, s.Decision.Role)
	require.True(s.Decision.Permissions.EditTerms)
	require.Equal([]deal.Status{deal.StatusTermsLocked, deal.StatusCanceled}, s.Decision.Next)

	require.NoError(view.SubmitTerms(ctx, forms.TermsInput{Price: "100", Format: "post", VerificationWindow: "15"}))
	require.Equal(MsgTermsSubmitted, owner.lastToast(t).Text)

	s = view.State()
	require.Equal(deal.StatusTermsLocked, s.Deal.Status)
	require.Equal("100", s.Deal.Price.Decimal.String())
	require.Equal(15, *s.Deal.VerificationWindow)
	require.False(s.Submitting)

	timeline := view.Timeline(time.Now())
	require.Equal(2, timeline.Total)
	require.Equal(api.EventTermsLocked, timeline.Entries[0].Type)
	require.Equal(api.EventDealCreated, timeline.Entries[1].Type)
	require.Contains(timeline.Entries[0].Details, "Price: $100")
	require.Contains(timeline.Entries[0].Details, "Verification window: 15 min")
	require.False(timeline.More)

	require.Equal(1.0, testutil.ToFloat64(owner.env.Metrics.Transitions.WithLabelValues(string(deal.StatusTermsLocked), metric.OutcomeSuccess)))
}

func TestDealAdvertiserCannotEditTerms(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	adv := join(t, fake, srv, 2, "advertiser")
	ch := fake.AddChannel(owner.user.ID, -1001, "tech", nil)
	id := negotiating(t, adv, fake.AddListing(ch.ID, "").ID)

	view := NewDealDetail(adv.client, adv.env, id)
	require.NoError(view.Mount(ctx))
	require.Equal(deal.RoleAdvertiser, view.State().Decision.Role)

	err := view.SubmitTerms(ctx, forms.TermsInput{Price: "100"})
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgStatusNotAllowed, adv.lastToast(t).Text)
	require.Equal(ToastError, adv.lastToast(t).Kind)
	require.Equal(1.0, testutil.ToFloat64(adv.env.Metrics.Transitions.WithLabelValues(string(deal.StatusTermsLocked), metric.OutcomeRejected)))

	// Nothing reached the backend.
	d, ok := fake.Deal(id)
	require.True(ok)
	require.Equal(deal.StatusNegotiating, d.Status)

	// A transition outside the role's graph is refused locally too.
	err = view.Transition(ctx, deal.StatusTermsLocked)
	require.True(forms.IsValidation(err))

	require.NoError(view.Transition(ctx, deal.StatusCanceled))
	require.Equal(MsgStatusUpdated, adv.lastToast(t).Text)
	require.Equal(deal.StatusCanceled, view.State().Deal.Status)
	require.Empty(view.State().Decision.Next)
}

func TestDealValidationBeforeDispatch(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	adv := join(t, fake, srv, 2, "advertiser")
	ch := fake.AddChannel(owner.user.ID, -1001, "tech", nil)
	id := negotiating(t, adv, fake.AddListing(ch.ID, "").ID)

	view := NewDealDetail(owner.client, owner.env, id)
	require.NoError(view.Mount(ctx))

	err := view.SubmitTerms(ctx, forms.TermsInput{Price: "abc"})
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgPriceNumber, owner.lastToast(t).Text)

	err = view.SubmitTerms(ctx, forms.TermsInput{Price: "0"})
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgPricePositive, owner.lastToast(t).Text)

	require.Len(fake.Events(id), 1)
}

func TestDealCreativeRound(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	adv := join(t, fake, srv, 2, "advertiser")
	ch := fake.AddChannel(owner.user.ID, -1001, "tech", nil)
	id := negotiating(t, adv, fake.AddListing(ch.ID, "5").ID)
	require.NoError(fake.SetDealStatus(id, deal.StatusFunded))

	ov := NewDealDetail(owner.client, owner.env, id)
	require.NoError(ov.Mount(ctx))
	require.True(ov.State().Decision.Permissions.CreateCreative)

	media, err := ov.UploadMedia(ctx, "banner.png", strings.NewReader("png"))
	require.NoError(err)
	require.Equal(api.MediaPhoto, media.Type)

	err = ov.SubmitCreative(ctx, forms.CreativeInput{})
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgCreativeEmpty, owner.lastToast(t).Text)

	require.NoError(ov.SubmitCreative(ctx, forms.CreativeInput{Text: "Buy now", Media: []api.MediaFileID{media}}))
	require.Equal(deal.StatusCreativeReview, ov.State().Deal.Status)
	require.NotNil(ov.State().Creative)
	require.Equal("Buy now", *ov.State().Creative.Text)

	av := NewDealDetail(adv.client, adv.env, id)
	require.NoError(av.Mount(ctx))
	require.True(av.State().Decision.Permissions.ReviewCreative)

	err = av.ReviewCreative(ctx, forms.ReviewInput{})
	require.True(forms.IsValidation(err))
	require.Equal(forms.MsgReviewComment, adv.lastToast(t).Text)

	require.NoError(av.ReviewCreative(ctx, forms.ReviewInput{Comment: "Shorter please"}))
	require.Equal(MsgCreativeBack, adv.lastToast(t).Text)
	require.Equal(deal.StatusCreativeDraft, av.State().Deal.Status)

	require.NoError(ov.Refetch(ctx))
	require.NoError(ov.SubmitCreative(ctx, forms.CreativeInput{Text: "Buy"}))
	require.NoError(av.Refetch(ctx))
	require.NoError(av.ReviewCreative(ctx, forms.ReviewInput{Approve: true}))
	require.Equal(MsgCreativeOK, adv.lastToast(t).Text)
	require.Equal(deal.StatusApproved, av.State().Deal.Status)
	require.Equal(2, av.State().Creative.Version)
}

func TestDealWarningsAndBot(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")
	adv := join(t, fake, srv, 2, "advertiser")
	ch := fake.AddChannel(owner.user.ID, -1001, "tech", nil)
	id := negotiating(t, adv, fake.AddListing(ch.ID, "5").ID)
	require.NoError(fake.SetDealStatus(id, deal.StatusPosted))
	require.NoError(fake.MarkTampered(id, true, true))

	view := NewDealDetail(owner.client, owner.env, id)
	require.NoError(view.Mount(ctx))
	require.Equal([]string{MsgPostTampered, MsgPostDeleted}, view.State().Warnings)
	require.Equal(deal.ActionBot, view.State().Decision.CTA.Action)

	require.NoError(view.TriggerCTA())
	require.Equal([]string{telegram.BotLink(testBotURL, id)}, owner.host.Links())

	owner.env.Host = nil
	require.ErrorIs(view.OpenBot(), telegram.ErrUnavailable)
	require.Equal(telegram.ErrUnavailable.Error(), owner.lastToast(t).Text)
}

func TestDealNotFound(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	fake, srv := newBackend(t)
	owner := join(t, fake, srv, 1, "owner")

	view := NewDealDetail(owner.client, owner.env, 999)
	err := view.Mount(ctx)
	apiErr, ok := api.AsAPIError(err)
	require.True(ok)
	require.Equal(404, apiErr.Status)
	require.Nil(view.State().Deal)

	require.ErrorIs(view.TriggerCTA(), ErrDealNotLoaded)
	require.Equal(MsgDealNotFound, owner.lastToast(t).Text)
}
