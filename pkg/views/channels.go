// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package views

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal/forms"
	"github.com/luxfi/admarket/pkg/fetch"
	"github.com/luxfi/admarket/pkg/log"
	"github.com/luxfi/admarket/pkg/router"
)

const (
	MsgChannelAdded   = "Channel added"
	MsgChannelDeleted = "Channel deleted"
	MsgManagerAdded   = "Manager added"
	MsgManagerRemoved = "Manager removed"
)

// ChannelsAPI is what the channel screens need from the backend.
type ChannelsAPI interface {
	ListChannels(ctx context.Context) ([]api.Channel, error)
	CreateChannel(ctx context.Context, req api.CreateChannelRequest) (*api.Channel, error)
	DeleteChannel(ctx context.Context, id int64) error
	ListManagers(ctx context.Context, channelID int64) ([]api.Manager, error)
	AddManager(ctx context.Context, channelID int64, req api.AddManagerRequest) (*api.Manager, error)
	RemoveManager(ctx context.Context, channelID, managerID int64) error
	ListTelegramAdmins(ctx context.Context, channelID int64) ([]api.TgAdmin, error)
	RefreshChannelStats(ctx context.Context, channelID int64) error
}

// ChannelAccess is the people attached to the selected channel.
type ChannelAccess struct {
	Managers []api.Manager
	Admins   []api.TgAdmin
}

// Channels lists the viewer's channels and manages the selected one.
type Channels struct {
	api ChannelsAPI
	env *Env

	channels *fetch.Query[[]api.Channel]
	access   *fetch.Query[ChannelAccess]
	busy     busy

	mu       sync.Mutex
	selected int64
}

func NewChannels(client ChannelsAPI, env *Env) *Channels {
	v := &Channels{api: client, env: env}
	v.channels = fetch.NewQuery(client.ListChannels, env.queryOptions()...)
	v.access = fetch.NewQuery(v.loadAccess, env.queryOptions()...)
	return v
}

func (v *Channels) loadAccess(ctx context.Context) (ChannelAccess, error) {
	id := v.Selected()
	if id == 0 {
		return ChannelAccess{}, nil
	}
	var (
		out ChannelAccess
		g   errgroup.Group
	)
	g.Go(func() (err error) {
		out.Managers, err = v.api.ListManagers(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		out.Admins, err = v.api.ListTelegramAdmins(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return ChannelAccess{}, err
	}
	return out, nil
}

func (v *Channels) Mount(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return v.channels.Mount(ctx) })
	g.Go(func() error { return v.access.Mount(ctx) })
	return g.Wait()
}

func (v *Channels) Unmount() {
	v.channels.Unmount()
	v.access.Unmount()
}

func (v *Channels) OnChange(fn func()) {
	v.channels.OnChange(func(fetch.State[[]api.Channel]) { fn() })
	v.access.OnChange(func(fetch.State[ChannelAccess]) { fn() })
}

func (v *Channels) List() fetch.State[[]api.Channel] { return v.channels.State() }

func (v *Channels) Access() fetch.State[ChannelAccess] { return v.access.State() }

func (v *Channels) Selected() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected
}

// Select shows the managers and Telegram admins of a channel.
func (v *Channels) Select(ctx context.Context, channelID int64) error {
	v.mu.Lock()
	v.selected = channelID
	v.mu.Unlock()
	return v.access.Refetch(ctx)
}

func (v *Channels) withSelected() (int64, error) {
	id := v.Selected()
	if id == 0 {
		return 0, v.env.fail(&forms.ValidationError{Field: "channel_id", Message: forms.MsgSelectChannel})
	}
	return id, nil
}

func (v *Channels) AddManager(ctx context.Context, username string) error {
	id, err := v.withSelected()
	if err != nil {
		return err
	}
	req, err := forms.Manager(username)
	if err != nil {
		return v.env.fail(err)
	}
	if !v.busy.begin() {
		return ErrBusy
	}
	defer v.busy.end()
	if _, err := v.api.AddManager(ctx, id, req); err != nil {
		return v.env.fail(err)
	}
	v.env.success(MsgManagerAdded)
	return v.access.Refetch(ctx)
}

func (v *Channels) RemoveManager(ctx context.Context, managerID int64) error {
	id, err := v.withSelected()
	if err != nil {
		return err
	}
	if !v.busy.begin() {
		return ErrBusy
	}
	defer v.busy.end()
	if err := v.api.RemoveManager(ctx, id, managerID); err != nil {
		return v.env.fail(err)
	}
	v.env.success(MsgManagerRemoved)
	return v.access.Refetch(ctx)
}

// RefreshStats asks the backend to recollect the channel's stats.
func (v *Channels) RefreshStats(ctx context.Context, channelID int64) error {
	if !v.busy.begin() {
		return ErrBusy
	}
	defer v.busy.end()
	if err := v.api.RefreshChannelStats(ctx, channelID); err != nil {
		return v.env.fail(err)
	}
	v.env.success(MsgStatsUpdated)
	return v.channels.Refetch(ctx)
}

func (v *Channels) Delete(ctx context.Context, channelID int64) error {
	if !v.busy.begin() {
		return ErrBusy
	}
	defer v.busy.end()
	if err := v.api.DeleteChannel(ctx, channelID); err != nil {
		return v.env.fail(err)
	}
	v.env.logger().Info("channel deleted", log.Int64("channel_id", channelID))
	v.env.success(MsgChannelDeleted)

	v.mu.Lock()
	cleared := v.selected == channelID
	if cleared {
		v.selected = 0
	}
	v.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error { return v.channels.Refetch(ctx) })
	if cleared {
		g.Go(func() error { return v.access.Refetch(ctx) })
	}
	return g.Wait()
}

// ChannelCreate registers a channel the bot administers.
type ChannelCreate struct {
	api  ChannelsAPI
	env  *Env
	busy busy
}

func NewChannelCreate(client ChannelsAPI, env *Env) *ChannelCreate {
	return &ChannelCreate{api: client, env: env}
}

func (v *ChannelCreate) Submit(ctx context.Context, in forms.ChannelInput) error {
	req, err := forms.Channel(in)
	if err != nil {
		return v.env.fail(err)
	}
	if !v.busy.begin() {
		return ErrBusy
	}
	defer v.busy.end()
	if _, err := v.api.CreateChannel(ctx, req); err != nil {
		return v.env.fail(err)
	}
	v.env.success(MsgChannelAdded)
	v.env.navigate(router.Path(router.Channels))
	return nil
}
