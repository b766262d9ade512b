// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/luxfi/admarket/pkg/deal"
)

type AuthRequest struct {
	InitData string `json:"init_data"`
}

type WalletRequest struct {
	LinkedWallet string `json:"linked_wallet"`
}

// CreateDealRequest opens a deal from either a listing or a request.
type CreateDealRequest struct {
	ListingID          *int64           `json:"listing_id,omitempty"`
	RequestID          *int64           `json:"request_id,omitempty"`
	ChannelID          *int64           `json:"channel_id,omitempty"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	Format             string           `json:"format,omitempty"`
	Brief              string           `json:"brief,omitempty"`
	PublishAt          string           `json:"publish_at,omitempty"`
	VerificationWindow *int             `json:"verification_window,omitempty"`
}

type TermsRequest struct {
	Price              *decimal.Decimal `json:"price,omitempty"`
	Format             string           `json:"format,omitempty"`
	PublishAt          string           `json:"publish_at,omitempty"`
	VerificationWindow *int             `json:"verification_window,omitempty"`
}

type PublishAtRequest struct {
	PublishAt string `json:"publish_at"`
}

type StatusRequest struct {
	Status deal.Status `json:"status"`
}

type CreativeRequest struct {
	Text         string        `json:"text,omitempty"`
	MediaFileIDs []MediaFileID `json:"media_file_ids,omitempty"`
}

type CreativeReviewRequest struct {
	Status    CreativeStatus `json:"status"`
	Comment   string         `json:"comment,omitempty"`
	PublishAt string         `json:"publish_at,omitempty"`
}

type BriefRequest struct {
	Text         string        `json:"text,omitempty"`
	PublishAt    string        `json:"publish_at,omitempty"`
	MediaFileIDs []MediaFileID `json:"media_file_ids,omitempty"`
}

// CreateListingRequest mirrors the listing form; absent prices are sent as
// null.
type CreateListingRequest struct {
	ChannelID   int64            `json:"channel_id"`
	PriceUSD    *decimal.Decimal `json:"price_usd"`
	PriceTON    *decimal.Decimal `json:"price_ton"`
	Format      string           `json:"format"`
	Categories  []string         `json:"categories"`
	Constraints *Attributes      `json:"constraints"`
	Active      bool             `json:"active"`
}

type CreateRequestRequest struct {
	Budget    *decimal.Decimal `json:"budget"`
	Niche     *string          `json:"niche"`
	Languages []string         `json:"languages"`
	MinSubs   *int64           `json:"min_subs"`
	MinViews  *int64           `json:"min_views"`
	Dates     *Attributes      `json:"dates"`
	Brief     *string          `json:"brief"`
}

type CreateChannelRequest struct {
	TgChatID       int64   `json:"tg_chat_id"`
	Username       *string `json:"username"`
	Title          *string `json:"title"`
	BotAdminStatus bool    `json:"bot_admin_status"`
}

type AddManagerRequest struct {
	TgUsername string `json:"tg_username"`
}

// Page selects a window of a list endpoint. Zero values are omitted.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) apply(q url.Values) {
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
}

type ListingFilter struct {
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Active     *bool
	ExcludeOwn bool
	Page
}

func (f ListingFilter) values() url.Values {
	q := url.Values{}
	if f.PriceMin != nil {
		q.Set("price_min", f.PriceMin.String())
	}
	if f.PriceMax != nil {
		q.Set("price_max", f.PriceMax.String())
	}
	if f.Active != nil {
		q.Set("active", strconv.FormatBool(*f.Active))
	}
	if f.ExcludeOwn {
		q.Set("exclude_own", "true")
	}
	f.Page.apply(q)
	return q
}

type RequestFilter struct {
	BudgetMin *decimal.Decimal
	BudgetMax *decimal.Decimal
	Page
}

func (f RequestFilter) values() url.Values {
	q := url.Values{}
	if f.BudgetMin != nil {
		q.Set("budget_min", f.BudgetMin.String())
	}
	if f.BudgetMax != nil {
		q.Set("budget_max", f.BudgetMax.String())
	}
	f.Page.apply(q)
	return q
}
