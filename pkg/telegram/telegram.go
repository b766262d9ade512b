// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package telegram describes the capabilities the client needs from its
// Telegram host and parses the host's launch payload.
package telegram

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrUnavailable is returned by bot actions when no Telegram host is present.
var ErrUnavailable = errors.New("Telegram WebApp unavailable")

const dealStartPrefix = "deal_"

// BackButton is the host's native back control.
type BackButton interface {
	Show()
	Hide()
	// OnClick registers fn and returns a func that removes it.
	OnClick(fn func()) (unsubscribe func())
}

// Host is the embedding Telegram client. A nil Host means the client runs
// outside Telegram.
type Host interface {
	// InitData is the signed launch payload, or "".
	InitData() string
	// Ready tells the host the client has rendered.
	Ready()
	OpenTelegramLink(link string) error
	// BackButton may return nil when the host has none.
	BackButton() BackButton
}

// LaunchUser is the user block of the launch payload.
type LaunchUser struct {
	ID        int64
	Username  string
	FirstName string
}

// LaunchParams is the decoded launch payload.
type LaunchParams struct {
	User       *LaunchUser
	StartParam string
	AuthDate   time.Time
	Hash       string
}

// ParseInitData decodes the URL-encoded launch payload. The signature is not
// checked here; the backend verifies it on login.
func ParseInitData(raw string) (*LaunchParams, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("parse init data: %w", err)
	}

	params := &LaunchParams{
		StartParam: values.Get("start_param"),
		Hash:       values.Get("hash"),
	}
	if authDate := values.Get("auth_date"); authDate != "" {
		secs, err := strconv.ParseInt(authDate, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse auth_date: %w", err)
		}
		params.AuthDate = time.Unix(secs, 0).UTC()
	}
	if user := values.Get("user"); user != "" {
		if !gjson.Valid(user) {
			return nil, errors.New("init data user is not valid JSON")
		}
		parsed := gjson.Parse(user)
		params.User = &LaunchUser{
			ID:        parsed.Get("id").Int(),
			Username:  parsed.Get("username").String(),
			FirstName: parsed.Get("first_name").String(),
		}
	}
	return params, nil
}

// StartDealID extracts the deal id from a `deal_<id>` start parameter.
func StartDealID(startParam string) (int64, bool) {
	rest, ok := strings.CutPrefix(startParam, dealStartPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// BotLink is the bot deep link that opens a conversation about dealID.
func BotLink(botURL string, dealID int64) string {
	return botURL + "?start=" + dealStartPrefix + strconv.FormatInt(dealID, 10)
}

// OpenBot opens the bot conversation for dealID on host.
func OpenBot(host Host, botURL string, dealID int64) error {
	if host == nil {
		return ErrUnavailable
	}
	return host.OpenTelegramLink(BotLink(botURL, dealID))
}
