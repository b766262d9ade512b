// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package forms turns raw form input into API payloads. Every check here runs
// before any network call; a failure is returned as a *ValidationError and
// nothing is dispatched.
package forms

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// User facing validation messages.
const (
	MsgInvalidPublishDate = "Invalid publish date"
	MsgPublishDateNeeded  = "Select a publish date"
	MsgDealNumbers        = "Price and verification window must be numbers"
	MsgSelectChannel      = "Select a channel"
	MsgPriceNumber        = "Price must be a number"
	MsgPricePositive      = "Price must be greater than zero"
	MsgWindowNumber       = "Verification window must be a whole number of minutes"
	MsgNumericFields      = "Numeric fields are filled incorrectly"
	MsgDatesJSON          = "Dates field must be valid JSON"
	MsgDatesFormat        = "Dates must use the YYYY-MM-DD format"
	MsgDatesOrder         = "Start date must not be after end date"
	MsgEnterUsername      = "Enter @username"
	MsgChatIDRequired     = "Please enter the channel tg_chat_id"
	MsgChatIDNumber       = "tg_chat_id must be a number"
	MsgWalletRequired     = "Please enter a wallet address"
	MsgWalletInvalid      = "Invalid TON wallet address"
	MsgCreativeEmpty      = "Add text or media to the creative"
	MsgReviewComment      = "Describe the changes you need"
	MsgBriefEmpty         = "Brief is empty"
	MsgMediaType          = "Unsupported media type"
	MsgStatusNotAllowed   = "This action is not available for the deal right now"
	MsgFilterNumber       = "Filter values must be numbers"
)

// ValidationError is a local input failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// parseDecimal reads an optional number. A blank value yields (nil, nil).
func parseDecimal(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseInt reads an optional whole number. A blank value yields (nil, nil).
func parseInt(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// splitList splits a comma separated value, trimming and dropping blanks.
// The result is never nil so it encodes as [].
func splitList(raw string, upper bool) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if upper {
			item = strings.ToUpper(item)
		}
		out = append(out, item)
	}
	return out
}

func optionalString(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}

func stripAt(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "@")
}
