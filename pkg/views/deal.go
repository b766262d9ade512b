// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package views

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal"
	"github.com/luxfi/admarket/pkg/deal/forms"
	"github.com/luxfi/admarket/pkg/fetch"
	"github.com/luxfi/admarket/pkg/log"
	"github.com/luxfi/admarket/pkg/metric"
	"github.com/luxfi/admarket/pkg/router"
	"github.com/luxfi/admarket/pkg/telegram"
)

const (
	MsgDealNotFound   = "Deal not found"
	MsgPostTampered   = "The post was edited after publication"
	MsgPostDeleted    = "The post was deleted"
	MsgStatusUpdated  = "Status updated"
	MsgTermsSubmitted = "Terms submitted"
	MsgPublishAtSaved = "Publish date updated"
	MsgCreativeSent   = "Creative submitted"
	MsgCreativeOK     = "Creative approved"
	MsgCreativeBack   = "Sent for revision"
	MsgBriefSent      = "Brief sent"
	MsgMediaUploaded  = "File uploaded"
)

// ErrDealNotLoaded is returned by actions triggered before the deal is known.
var ErrDealNotLoaded = errors.New(MsgDealNotFound)

// DealAPI is what the deal detail view needs from the backend.
type DealAPI interface {
	GetDeal(ctx context.Context, id int64) (*api.Deal, error)
	ListDealEvents(ctx context.Context, id int64) ([]api.DealEvent, error)
	GetCreative(ctx context.Context, id int64) (*api.Creative, error)
	SubmitTerms(ctx context.Context, id int64, req api.TermsRequest) error
	SetPublishAt(ctx context.Context, id int64, req api.PublishAtRequest) error
	UpdateStatus(ctx context.Context, id int64, status deal.Status) error
	SubmitCreative(ctx context.Context, id int64, req api.CreativeRequest) (*api.Creative, error)
	ReviewCreative(ctx context.Context, id int64, req api.CreativeReviewRequest) error
	SendAdvertiserBrief(ctx context.Context, id int64, req api.BriefRequest) error
	UploadMedia(ctx context.Context, filename string, r io.Reader) (*api.UploadedMedia, error)
}

// DealData is one load of the deal record. Creative is set only in statuses
// where a creative can be viewed and one exists.
type DealData struct {
	Deal     *api.Deal
	Creative *api.Creative
}

// DealState is what the deal screen renders.
type DealState struct {
	Loading    bool
	Err        error
	Offline    bool
	Deal       *api.Deal
	Creative   *api.Creative
	Decision   deal.Decision
	Warnings   []string
	Submitting bool
}

// DealDetail drives one deal. It never patches the deal locally: every
// successful action reloads the record and its events from the server.
type DealDetail struct {
	api DealAPI
	env *Env
	id  int64
	log log.Logger

	deal   *fetch.Query[DealData]
	events *fetch.Query[[]api.DealEvent]

	busy busy

	mu       sync.Mutex
	expanded bool
}

func NewDealDetail(client DealAPI, env *Env, id int64) *DealDetail {
	v := &DealDetail{
		api: client,
		env: env,
		id:  id,
		log: env.logger().With(log.Int64("deal_id", id)),
	}
	v.deal = fetch.NewQuery(v.load, env.queryOptions()...)
	v.events = fetch.NewQuery(func(ctx context.Context) ([]api.DealEvent, error) {
		return client.ListDealEvents(ctx, id)
	}, env.queryOptions()...)
	return v
}

func (v *DealDetail) load(ctx context.Context) (DealData, error) {
	d, err := v.api.GetDeal(ctx, v.id)
	if err != nil {
		return DealData{}, err
	}
	data := DealData{Deal: d}
	if !deal.PermissionsFor(d.Status, deal.RoleOwner).ViewCreative {
		return data, nil
	}
	cr, err := v.api.GetCreative(ctx, v.id)
	if apiErr, ok := api.AsAPIError(err); ok && apiErr.Status == http.StatusNotFound {
		return data, nil
	}
	if err != nil {
		return DealData{}, err
	}
	data.Creative = cr
	return data, nil
}

// ID is the deal's id.
func (v *DealDetail) ID() int64 { return v.id }

// Mount loads the deal and its events concurrently.
func (v *DealDetail) Mount(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return v.deal.Mount(ctx) })
	g.Go(func() error { return v.events.Mount(ctx) })
	return g.Wait()
}

func (v *DealDetail) Unmount() {
	v.deal.Unmount()
	v.events.Unmount()
}

// Refetch reloads the deal and its events.
func (v *DealDetail) Refetch(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return v.deal.Refetch(ctx) })
	g.Go(func() error { return v.events.Refetch(ctx) })
	return g.Wait()
}

// OnChange is called whenever the deal or its events change.
func (v *DealDetail) OnChange(fn func()) {
	v.deal.OnChange(func(fetch.State[DealData]) { fn() })
	v.events.OnChange(func(fetch.State[[]api.DealEvent]) { fn() })
}

func (v *DealDetail) State() DealState {
	s := v.deal.State()
	out := DealState{
		Loading:    s.Loading,
		Err:        s.Err,
		Offline:    s.Offline,
		Submitting: v.busy.running(),
	}
	if !s.HasData || s.Data.Deal == nil {
		return out
	}
	d := s.Data.Deal
	out.Deal = d
	out.Creative = s.Data.Creative
	out.Decision = deal.Decide(d.Status, v.role(d))
	if d.Tampered {
		out.Warnings = append(out.Warnings, MsgPostTampered)
	}
	if d.Deleted {
		out.Warnings = append(out.Warnings, MsgPostDeleted)
	}
	return out
}

// role prefers the role reported by the server.
func (v *DealDetail) role(d *api.Deal) deal.Role {
	return deal.RoleFor(d.AdvertiserID, v.env.userID(), d.ViewerRole)
}

// Timeline formats the deal's events in server order. Only the first few are
// returned until the timeline is expanded.
func (v *DealDetail) Timeline(now time.Time) Timeline {
	v.mu.Lock()
	expanded := v.expanded
	v.mu.Unlock()

	s := v.events.State()
	t := Timeline{Loading: s.Loading, Err: s.Err}
	if s.HasData {
		t.Total = len(s.Data)
		t.Entries = FormatEvents(s.Data, expanded, now, v.env.location())
		t.More = !expanded && t.Total > TimelinePreview
	}
	return t
}

// ExpandTimeline shows every event.
func (v *DealDetail) ExpandTimeline() {
	v.mu.Lock()
	v.expanded = true
	v.mu.Unlock()
}

func (v *DealDetail) current() (*api.Deal, deal.Decision, error) {
	s := v.State()
	if s.Deal == nil {
		return nil, deal.Decision{}, ErrDealNotLoaded
	}
	return s.Deal, s.Decision, nil
}

func notAllowed() error {
	return &forms.ValidationError{Field: "status", Message: forms.MsgStatusNotAllowed}
}

// reject reports a local failure without dispatching anything.
func (v *DealDetail) reject(target deal.Status, err error) error {
	v.observe(target, err)
	return v.env.fail(err)
}

// act dispatches one mutating call, refusing while another is in flight.
func (v *DealDetail) act(ctx context.Context, target deal.Status, done string, call func(ctx context.Context) error) error {
	if !v.busy.begin() {
		return ErrBusy
	}
	defer v.busy.end()

	err := call(ctx)
	v.observe(target, err)
	if err != nil {
		v.log.Warn("deal action failed", log.String("target", string(target)), log.Error(err))
		return v.env.fail(err)
	}
	v.env.success(done)
	if err := v.Refetch(ctx); err != nil {
		v.log.Warn("reload after action failed", log.Error(err))
	}
	return nil
}

func (v *DealDetail) observe(target deal.Status, err error) {
	if v.env.Metrics == nil {
		return
	}
	outcome := metric.OutcomeSuccess
	switch {
	case forms.IsValidation(err):
		outcome = metric.OutcomeRejected
	case err != nil:
		outcome = metric.OutcomeFailure
	}
	v.env.Metrics.Transitions.WithLabelValues(string(target), outcome).Inc()
}

// Transition asks the server to move the deal into target.
func (v *DealDetail) Transition(ctx context.Context, target deal.Status) error {
	d, dec, err := v.current()
	if err != nil {
		return v.env.fail(err)
	}
	req, err := forms.Status(d.Status, target, dec.Role)
	if err != nil {
		return v.reject(target, err)
	}
	return v.act(ctx, target, MsgStatusUpdated, func(ctx context.Context) error {
		return v.api.UpdateStatus(ctx, v.id, req.Status)
	})
}

// SubmitTerms locks the owner's terms.
func (v *DealDetail) SubmitTerms(ctx context.Context, in forms.TermsInput) error {
	_, dec, err := v.current()
	if err != nil {
		return v.env.fail(err)
	}
	if !dec.Permissions.EditTerms {
		return v.reject(deal.StatusTermsLocked, notAllowed())
	}
	req, err := forms.Terms(in, v.env.location())
	if err != nil {
		return v.reject(deal.StatusTermsLocked, err)
	}
	return v.act(ctx, deal.StatusTermsLocked, MsgTermsSubmitted, func(ctx context.Context) error {
		return v.api.SubmitTerms(ctx, v.id, req)
	})
}

// SetPublishAt moves the planned publication time.
func (v *DealDetail) SetPublishAt(ctx context.Context, value string) error {
	d, dec, err := v.current()
	if err != nil {
		return v.env.fail(err)
	}
	if !dec.Permissions.SetPublishAt {
		return v.reject(d.Status, notAllowed())
	}
	req, err := forms.PublishAt(value, v.env.location())
	if err != nil {
		return v.reject(d.Status, err)
	}
	return v.act(ctx, d.Status, MsgPublishAtSaved, func(ctx context.Context) error {
		return v.api.SetPublishAt(ctx, v.id, req)
	})
}

// PublishAtInput returns the deal's publish date as a local picker value.
func (v *DealDetail) PublishAtInput() string {
	d, _, err := v.current()
	if err != nil || d.PublishAt == nil {
		return ""
	}
	return forms.ISOToLocalInput(string(*d.PublishAt), v.env.location())
}

// SubmitCreative sends a new creative version for review.
func (v *DealDetail) SubmitCreative(ctx context.Context, in forms.CreativeInput) error {
	_, dec, err := v.current()
	if err != nil {
		return v.env.fail(err)
	}
	if !dec.Permissions.CreateCreative {
		return v.reject(deal.StatusCreativeReview, notAllowed())
	}
	req, err := forms.Creative(in)
	if err != nil {
		return v.reject(deal.StatusCreativeReview, err)
	}
	return v.act(ctx, deal.StatusCreativeReview, MsgCreativeSent, func(ctx context.Context) error {
		_, err := v.api.SubmitCreative(ctx, v.id, req)
		return err
	})
}

// ReviewCreative approves the creative or sends it back with a comment.
func (v *DealDetail) ReviewCreative(ctx context.Context, in forms.ReviewInput) error {
	target, done := deal.StatusCreativeDraft, MsgCreativeBack
	if in.Approve {
		target, done = deal.StatusApproved, MsgCreativeOK
	}
	_, dec, err := v.current()
	if err != nil {
		return v.env.fail(err)
	}
	if !dec.Permissions.ReviewCreative {
		return v.reject(target, notAllowed())
	}
	req, err := forms.Review(in, v.env.location())
	if err != nil {
		return v.reject(target, err)
	}
	return v.act(ctx, target, done, func(ctx context.Context) error {
		return v.api.ReviewCreative(ctx, v.id, req)
	})
}

// SendBrief sends the advertiser's brief to the channel side.
func (v *DealDetail) SendBrief(ctx context.Context, in forms.BriefInput) error {
	d, dec, err := v.current()
	if err != nil {
		return v.env.fail(err)
	}
	if !dec.Permissions.SendBrief {
		return v.reject(d.Status, notAllowed())
	}
	req, err := forms.Brief(in, v.env.location())
	if err != nil {
		return v.reject(d.Status, err)
	}
	return v.act(ctx, d.Status, MsgBriefSent, func(ctx context.Context) error {
		return v.api.SendAdvertiserBrief(ctx, v.id, req)
	})
}

// UploadMedia uploads a file for a creative or brief and returns its
// reference.
func (v *DealDetail) UploadMedia(ctx context.Context, filename string, r io.Reader) (api.MediaFileID, error) {
	media, err := v.api.UploadMedia(ctx, filename, r)
	if err != nil {
		return api.MediaFileID{}, v.env.fail(err)
	}
	v.env.success(MsgMediaUploaded)
	return media.Ref(), nil
}

// TriggerCTA runs the primary call-to-action for the deal's status.
func (v *DealDetail) TriggerCTA() error {
	_, dec, err := v.current()
	if err != nil {
		return v.env.fail(err)
	}
	switch dec.CTA.Action {
	case deal.ActionPay:
		v.env.navigate(router.PaymentPath(v.id))
		return nil
	case deal.ActionBot:
		return v.OpenBot()
	}
	return nil
}

// OpenBot opens the companion bot on this deal.
func (v *DealDetail) OpenBot() error {
	if err := telegram.OpenBot(v.env.Host, v.env.BotURL, v.id); err != nil {
		return v.env.fail(err)
	}
	return nil
}
