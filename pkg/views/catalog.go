// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package views

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal/forms"
	"github.com/luxfi/admarket/pkg/fetch"
	"github.com/luxfi/admarket/pkg/log"
	"github.com/luxfi/admarket/pkg/router"
)

const (
	MsgDealCreated    = "Deal created"
	MsgListingCreated = "Listing created"
	MsgRequestCreated = "Request created"
	MsgAddChannel     = "Add a channel first"
	MsgStatsUpdated   = "Stats updated"
	MsgListingMissing = "Listing is not loaded yet"
	MsgRequestMissing = "Request is not loaded yet"
)

var (
	// ErrNoChannels is returned when an action needs one of the viewer's
	// channels and there are none.
	ErrNoChannels = errors.New(MsgAddChannel)
	// ErrListingNotLoaded and ErrRequestNotLoaded are returned by deal
	// creation before the page data arrived.
	ErrListingNotLoaded = errors.New(MsgListingMissing)
	ErrRequestNotLoaded = errors.New(MsgRequestMissing)
)

// DealCreator opens deals.
type DealCreator interface {
	CreateDeal(ctx context.Context, req api.CreateDealRequest) (*api.Deal, error)
}

// openDeal creates a deal and shows it. A conflict means the deal already
// exists, and that deal is shown instead.
func openDeal(ctx context.Context, env *Env, client DealCreator, req api.CreateDealRequest) (int64, error) {
	d, err := client.CreateDeal(ctx, req)
	if err != nil {
		if apiErr, ok := api.AsAPIError(err); ok && apiErr.Status == http.StatusConflict {
			if id, ok := apiErr.ConflictDealID(); ok {
				env.logger().Debug("deal already exists", log.Int64("deal_id", id))
				env.navigate(router.DealPath(id))
				return id, nil
			}
		}
		return 0, env.fail(err)
	}
	env.success(MsgDealCreated)
	env.navigate(router.DealPath(d.ID))
	return d.ID, nil
}

// ListingsAPI is what the listing screens need from the backend.
type ListingsAPI interface {
	DealCreator
	ListListings(ctx context.Context, filter api.ListingFilter) ([]api.Listing, error)
	GetListing(ctx context.Context, id int64) (*api.Listing, error)
	CreateListing(ctx context.Context, req api.CreateListingRequest) (*api.Listing, error)
	ListChannels(ctx context.Context) ([]api.Channel, error)
}

// ListingBrowse pages through the active listings of other users.
type ListingBrowse struct {
	api   ListingsAPI
	env   *Env
	pager *fetch.Pager[api.Listing]
}

func NewListingBrowse(client ListingsAPI, env *Env) *ListingBrowse {
	b := &ListingBrowse{api: client, env: env}
	b.pager = fetch.NewPager(b.fetcher(nil, nil), env.queryOptions()...)
	return b
}

func (b *ListingBrowse) fetcher(lo, hi *decimal.Decimal) fetch.PageFetcher[api.Listing] {
	active := true
	return func(ctx context.Context, page api.Page) ([]api.Listing, error) {
		return b.api.ListListings(ctx, api.ListingFilter{
			PriceMin:   lo,
			PriceMax:   hi,
			Active:     &active,
			ExcludeOwn: true,
			Page:       page,
		})
	}
}

func (b *ListingBrowse) Pager() *fetch.Pager[api.Listing] { return b.pager }

func (b *ListingBrowse) Mount(ctx context.Context) error { return b.pager.Mount(ctx) }

func (b *ListingBrowse) Unmount() { b.pager.Unmount() }

// Filter restarts from the first page with a price range. Blank bounds are
// open.
func (b *ListingBrowse) Filter(ctx context.Context, priceMin, priceMax string) error {
	lo, hi, err := forms.Range(priceMin, priceMax)
	if err != nil {
		return b.env.fail(err)
	}
	return b.pager.Reset(ctx, b.fetcher(lo, hi))
}

func (b *ListingBrowse) Open(id int64) { b.env.navigate(router.ListingPath(id)) }

// ListingDetail shows one listing and opens a deal on it.
type ListingDetail struct {
	api     ListingsAPI
	env     *Env
	listing *fetch.Query[*api.Listing]
	busy    busy
}

func NewListingDetail(client ListingsAPI, env *Env, id int64) *ListingDetail {
	return &ListingDetail{
		api: client,
		env: env,
		listing: fetch.NewQuery(func(ctx context.Context) (*api.Listing, error) {
			return client.GetListing(ctx, id)
		}, env.queryOptions()...),
	}
}

func (v *ListingDetail) Query() *fetch.Query[*api.Listing] { return v.listing }

func (v *ListingDetail) Mount(ctx context.Context) error { return v.listing.Mount(ctx) }

func (v *ListingDetail) Unmount() { v.listing.Unmount() }

// Stats lays out the stats of the listing's channel.
func (v *ListingDetail) Stats() []StatLine {
	s := v.listing.State()
	if !s.HasData || s.Data == nil || s.Data.Channel == nil {
		return nil
	}
	return StatsSummary(s.Data.Channel.Stats)
}

func (v *ListingDetail) Submitting() bool { return v.busy.running() }

// CreateDeal opens a deal on the listing's channel and shows it.
func (v *ListingDetail) CreateDeal(ctx context.Context) (int64, error) {
	s := v.listing.State()
	if !s.HasData || s.Data == nil {
		return 0, v.env.fail(ErrListingNotLoaded)
	}
	if !v.busy.begin() {
		return 0, ErrBusy
	}
	defer v.busy.end()
	return openDeal(ctx, v.env, v.api, forms.ListingDeal(s.Data))
}

// ListingCreate publishes a listing on one of the viewer's own channels.
type ListingCreate struct {
	api      ListingsAPI
	env      *Env
	channels *fetch.Query[[]api.Channel]
	busy     busy
}

func NewListingCreate(client ListingsAPI, env *Env) *ListingCreate {
	return &ListingCreate{
		api:      client,
		env:      env,
		channels: fetch.NewQuery(client.ListChannels, env.queryOptions()...),
	}
}

func (v *ListingCreate) Mount(ctx context.Context) error { return v.channels.Mount(ctx) }

func (v *ListingCreate) Unmount() { v.channels.Unmount() }

// Channels are the channels the viewer owns.
func (v *ListingCreate) Channels() []api.Channel {
	s := v.channels.State()
	if !s.HasData {
		return nil
	}
	return ownedBy(s.Data, v.env.userID())
}

func ownedBy(channels []api.Channel, userID int64) []api.Channel {
	out := make([]api.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.OwnerUserID == userID {
			out = append(out, ch)
		}
	}
	return out
}

func (v *ListingCreate) Submit(ctx context.Context, in forms.ListingInput) error {
	req, err := forms.Listing(in)
	if err != nil {
		return v.env.fail(err)
	}
	if !v.busy.begin() {
		return ErrBusy
	}
	defer v.busy.end()
	if _, err := v.api.CreateListing(ctx, req); err != nil {
		return v.env.fail(err)
	}
	v.env.success(MsgListingCreated)
	v.env.navigate(router.Path(router.Listings))
	return nil
}

// RequestsAPI is what the request screens need from the backend.
type RequestsAPI interface {
	DealCreator
	ListRequests(ctx context.Context, filter api.RequestFilter) ([]api.RequestItem, error)
	GetRequest(ctx context.Context, id int64) (*api.RequestItem, error)
	CreateRequest(ctx context.Context, req api.CreateRequestRequest) (*api.RequestItem, error)
	ListChannels(ctx context.Context) ([]api.Channel, error)
	RefreshChannelStats(ctx context.Context, channelID int64) error
}

// RequestBrowse pages through advertiser requests.
type RequestBrowse struct {
	api   RequestsAPI
	env   *Env
	pager *fetch.Pager[api.RequestItem]
	busy  busy
}

func NewRequestBrowse(client RequestsAPI, env *Env) *RequestBrowse {
	b := &RequestBrowse{api: client, env: env}
	b.pager = fetch.NewPager(b.fetcher(nil, nil), env.queryOptions()...)
	return b
}

func (b *RequestBrowse) fetcher(lo, hi *decimal.Decimal) fetch.PageFetcher[api.RequestItem] {
	return func(ctx context.Context, page api.Page) ([]api.RequestItem, error) {
		return b.api.ListRequests(ctx, api.RequestFilter{BudgetMin: lo, BudgetMax: hi, Page: page})
	}
}

func (b *RequestBrowse) Pager() *fetch.Pager[api.RequestItem] { return b.pager }

func (b *RequestBrowse) Mount(ctx context.Context) error { return b.pager.Mount(ctx) }

func (b *RequestBrowse) Unmount() { b.pager.Unmount() }

// Filter restarts from the first page with a budget range.
func (b *RequestBrowse) Filter(ctx context.Context, budgetMin, budgetMax string) error {
	lo, hi, err := forms.Range(budgetMin, budgetMax)
	if err != nil {
		return b.env.fail(err)
	}
	return b.pager.Reset(ctx, b.fetcher(lo, hi))
}

func (b *RequestBrowse) Open(id int64) { b.env.navigate(router.RequestPath(id)) }

// Respond opens a deal on a request without proposing terms.
func (b *RequestBrowse) Respond(ctx context.Context, requestID int64) (int64, error) {
	if !b.busy.begin() {
		return 0, ErrBusy
	}
	defer b.busy.end()
	return openDeal(ctx, b.env, b.api, forms.QuickRequestDeal(requestID))
}

// RequestData is one load of the request screen.
type RequestData struct {
	Request  *api.RequestItem
	Channels []api.Channel
}

// RequestDetail shows a request and lets a channel owner respond to it.
type RequestDetail struct {
	api  RequestsAPI
	env  *Env
	id   int64
	data *fetch.Query[RequestData]
	busy busy
}

func NewRequestDetail(client RequestsAPI, env *Env, id int64) *RequestDetail {
	v := &RequestDetail{api: client, env: env, id: id}
	v.data = fetch.NewQuery(v.load, env.queryOptions()...)
	return v
}

func (v *RequestDetail) load(ctx context.Context) (RequestData, error) {
	var (
		out RequestData
		g   errgroup.Group
	)
	g.Go(func() (err error) {
		out.Request, err = v.api.GetRequest(ctx, v.id)
		return err
	})
	g.Go(func() (err error) {
		out.Channels, err = v.api.ListChannels(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return RequestData{}, err
	}
	return out, nil
}

func (v *RequestDetail) Query() *fetch.Query[RequestData] { return v.data }

func (v *RequestDetail) Mount(ctx context.Context) error { return v.data.Mount(ctx) }

func (v *RequestDetail) Unmount() { v.data.Unmount() }

// Channels are the channels the viewer can respond with.
func (v *RequestDetail) Channels() []api.Channel {
	s := v.data.State()
	if !s.HasData {
		return nil
	}
	return s.Data.Channels
}

// DefaultChannel is preselected in the channel picker.
func (v *RequestDetail) DefaultChannel() (api.Channel, bool) {
	channels := v.Channels()
	if len(channels) == 0 {
		return api.Channel{}, false
	}
	return channels[0], true
}

// Stats lays out the stats of one of the viewer's channels.
func (v *RequestDetail) Stats(channelID int64) []StatLine {
	for _, ch := range v.Channels() {
		if ch.ID == channelID {
			return StatsSummary(ch.Stats)
		}
	}
	return nil
}

// RefreshStats asks the backend to recollect a channel's stats.
func (v *RequestDetail) RefreshStats(ctx context.Context, channelID int64) error {
	if err := v.api.RefreshChannelStats(ctx, channelID); err != nil {
		return v.env.fail(err)
	}
	v.env.success(MsgStatsUpdated)
	return v.data.Refetch(ctx)
}

// CreateDeal responds to the request. A zero channel falls back to the
// preselected one.
func (v *RequestDetail) CreateDeal(ctx context.Context, in forms.RequestDealInput) (int64, error) {
	s := v.data.State()
	if !s.HasData {
		return 0, v.env.fail(ErrRequestNotLoaded)
	}
	if in.ChannelID == 0 {
		ch, ok := v.DefaultChannel()
		if !ok {
			return 0, v.env.fail(ErrNoChannels)
		}
		in.ChannelID = ch.ID
	}
	req, err := forms.RequestDeal(s.Data.Request, in, v.env.location())
	if err != nil {
		return 0, v.env.fail(err)
	}
	if !v.busy.begin() {
		return 0, ErrBusy
	}
	defer v.busy.end()
	return openDeal(ctx, v.env, v.api, req)
}

// RequestCreate posts an advertiser request.
type RequestCreate struct {
	api  RequestsAPI
	env  *Env
	busy busy
}

func NewRequestCreate(client RequestsAPI, env *Env) *RequestCreate {
	return &RequestCreate{api: client, env: env}
}

func (v *RequestCreate) Submit(ctx context.Context, in forms.RequestInput) error {
	req, err := forms.Request(in)
	if err != nil {
		return v.env.fail(err)
	}
	if !v.busy.begin() {
		return ErrBusy
	}
	defer v.busy.end()
	if _, err := v.api.CreateRequest(ctx, req); err != nil {
		return v.env.fail(err)
	}
	v.env.success(MsgRequestCreated)
	v.env.navigate(router.Path(router.Requests))
	return nil
}
