// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package views

import (
	"context"
	"sync"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal"
	"github.com/luxfi/admarket/pkg/fetch"
	"github.com/luxfi/admarket/pkg/router"
)

// FilterAll disables the status filter of the deals list.
const FilterAll = "all"

type DealsAPI interface {
	ListDeals(ctx context.Context) ([]api.Deal, error)
}

// DealRow is one line of the deals list.
type DealRow struct {
	ID      int64
	Status  deal.Status
	Label   string
	Channel string
	Price   string
}

// Deals lists the viewer's deals in the order the backend returns them,
// filtered locally by status.
type Deals struct {
	env   *Env
	deals *fetch.Query[[]api.Deal]

	mu     sync.Mutex
	filter string
}

func NewDeals(client DealsAPI, env *Env) *Deals {
	return &Deals{
		env:    env,
		deals:  fetch.NewQuery(client.ListDeals, env.queryOptions()...),
		filter: FilterAll,
	}
}

func (v *Deals) Query() *fetch.Query[[]api.Deal] { return v.deals }

func (v *Deals) Mount(ctx context.Context) error { return v.deals.Mount(ctx) }

func (v *Deals) Unmount() { v.deals.Unmount() }

// Filters are the choices of the status filter.
func (v *Deals) Filters() []string {
	out := make([]string, 0, len(deal.Statuses)+1)
	out = append(out, FilterAll)
	for _, s := range deal.Statuses {
		out = append(out, string(s))
	}
	return out
}

// SetFilter selects FilterAll or one status. Unknown values reset to
// FilterAll.
func (v *Deals) SetFilter(filter string) {
	if filter != FilterAll && !deal.Status(filter).Valid() {
		filter = FilterAll
	}
	v.mu.Lock()
	v.filter = filter
	v.mu.Unlock()
}

func (v *Deals) Filter() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

func (v *Deals) Rows() []DealRow {
	s := v.deals.State()
	if !s.HasData {
		return nil
	}
	filter := v.Filter()
	rows := make([]DealRow, 0, len(s.Data))
	for _, d := range s.Data {
		if filter != FilterAll && string(d.Status) != filter {
			continue
		}
		row := DealRow{ID: d.ID, Status: d.Status, Label: d.Status.Label(), Price: placeholder}
		if d.Price.Valid {
			row.Price = d.Price.Decimal.String()
		}
		if d.ChannelInfo != nil {
			row.Channel = d.ChannelInfo.DisplayName()
		}
		rows = append(rows, row)
	}
	return rows
}

func (v *Deals) Open(id int64) { v.env.navigate(router.DealPath(id)) }
