// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package forms

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xssnick/tonutils-go/address"

	"github.com/luxfi/admarket/pkg/api"
)

const dateLayout = "2006-01-02"

// ListingInput is the create listing form.
type ListingInput struct {
	ChannelID  int64
	PriceUSD   string
	PriceTON   string
	Format     string
	Categories string
	Lang       string
	Geo        string
}

func Listing(in ListingInput) (api.CreateListingRequest, error) {
	var req api.CreateListingRequest
	if in.ChannelID == 0 {
		return req, invalid("channel_id", MsgSelectChannel)
	}
	usd, err := parseDecimal(in.PriceUSD)
	if err != nil {
		return req, invalid("price_usd", MsgPriceNumber)
	}
	ton, err := parseDecimal(in.PriceTON)
	if err != nil {
		return req, invalid("price_ton", MsgPriceNumber)
	}

	req.ChannelID = in.ChannelID
	req.PriceUSD = usd
	req.PriceTON = ton
	req.Format = strings.TrimSpace(in.Format)
	if req.Format == "" {
		req.Format = defaultFormat
	}
	req.Categories = splitList(in.Categories, false)
	req.Active = true

	constraints := &api.Attributes{
		Lang: strings.TrimSpace(in.Lang),
		Geo:  splitList(in.Geo, true),
	}
	if !constraints.Empty() {
		req.Constraints = constraints
	}
	return req, nil
}

// RequestInput is the create request form. Dates is a JSON object such as
// {"from":"2026-02-10","to":"2026-02-20"}.
type RequestInput struct {
	Budget    string
	Niche     string
	Languages string
	MinSubs   string
	MinViews  string
	Dates     string
	Brief     string
}

func Request(in RequestInput) (api.CreateRequestRequest, error) {
	var req api.CreateRequestRequest

	var dates *api.Attributes
	if raw := strings.TrimSpace(in.Dates); raw != "" {
		dates = &api.Attributes{}
		if err := json.Unmarshal([]byte(raw), dates); err != nil {
			return req, invalid("dates", MsgDatesJSON)
		}
		if err := checkDateRange(dates); err != nil {
			return req, err
		}
	}

	budget, errBudget := parseDecimal(in.Budget)
	minSubs, errSubs := parseInt(in.MinSubs)
	minViews, errViews := parseInt(in.MinViews)
	if errBudget != nil || errSubs != nil || errViews != nil {
		return req, invalid("budget", MsgNumericFields)
	}

	req.Budget = budget
	req.Niche = optionalString(in.Niche)
	req.Languages = splitList(in.Languages, false)
	req.MinSubs = minSubs
	req.MinViews = minViews
	req.Dates = dates
	req.Brief = optionalString(in.Brief)
	return req, nil
}

func checkDateRange(a *api.Attributes) error {
	var from, to time.Time
	var err error
	if a.From != "" {
		if from, err = time.Parse(dateLayout, a.From); err != nil {
			return invalid("dates", MsgDatesFormat)
		}
	}
	if a.To != "" {
		if to, err = time.Parse(dateLayout, a.To); err != nil {
			return invalid("dates", MsgDatesFormat)
		}
	}
	if a.From != "" && a.To != "" && from.After(to) {
		return invalid("dates", MsgDatesOrder)
	}
	return nil
}

// ChannelInput is the add channel form.
type ChannelInput struct {
	TgChatID string
	Username string
	Title    string
}

func Channel(in ChannelInput) (api.CreateChannelRequest, error) {
	raw := strings.TrimSpace(in.TgChatID)
	if raw == "" {
		return api.CreateChannelRequest{}, invalid("tg_chat_id", MsgChatIDRequired)
	}
	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return api.CreateChannelRequest{}, invalid("tg_chat_id", MsgChatIDNumber)
	}
	return api.CreateChannelRequest{
		TgChatID:       chatID,
		Username:       optionalString(stripAt(in.Username)),
		Title:          optionalString(in.Title),
		BotAdminStatus: true,
	}, nil
}

// Manager validates a manager handle; a leading @ is dropped.
func Manager(username string) (api.AddManagerRequest, error) {
	handle := stripAt(username)
	if handle == "" {
		return api.AddManagerRequest{}, invalid("tg_username", MsgEnterUsername)
	}
	return api.AddManagerRequest{TgUsername: handle}, nil
}

// Wallet validates a payout address in friendly or raw form.
func Wallet(addr string) (api.WalletRequest, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return api.WalletRequest{}, invalid("linked_wallet", MsgWalletRequired)
	}
	if _, err := address.ParseAddr(addr); err != nil {
		if _, rawErr := address.ParseRawAddr(addr); rawErr != nil {
			return api.WalletRequest{}, invalid("linked_wallet", MsgWalletInvalid)
		}
	}
	return api.WalletRequest{LinkedWallet: addr}, nil
}

// Range reads the optional bounds of a browse filter.
func Range(from, to string) (lo, hi *decimal.Decimal, err error) {
	if lo, err = parseDecimal(from); err != nil {
		return nil, nil, invalid("min", MsgFilterNumber)
	}
	if hi, err = parseDecimal(to); err != nil {
		return nil, nil, invalid("max", MsgFilterNumber)
	}
	return lo, hi, nil
}
