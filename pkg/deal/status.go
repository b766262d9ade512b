// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deal

import (
	"errors"
	"fmt"
)

var ErrUnknownStatus = errors.New("unknown deal status")

// Status is the lifecycle position of a deal
type Status string

const (
	StatusNegotiating     Status = "NEGOTIATING"
	StatusTermsLocked     Status = "TERMS_LOCKED"
	StatusAwaitingPayment Status = "AWAITING_PAYMENT"
	StatusFunded          Status = "FUNDED"
	StatusCreativeDraft   Status = "CREATIVE_DRAFT"
	StatusCreativeReview  Status = "CREATIVE_REVIEW"
	StatusApproved        Status = "APPROVED"
	StatusScheduled       Status = "SCHEDULED"
	StatusPosted          Status = "POSTED"
	StatusVerifying       Status = "VERIFYING"
	StatusReleased        Status = "RELEASED"
	StatusRefunded        Status = "REFUNDED"
	StatusCanceled        Status = "CANCELED"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusNegotiating,
	StatusTermsLocked,
	StatusAwaitingPayment,
	StatusFunded,
	StatusCreativeDraft,
	StatusCreativeReview,
	StatusApproved,
	StatusScheduled,
	StatusPosted,
	StatusVerifying,
	StatusReleased,
	StatusRefunded,
	StatusCanceled,
}

var labels = map[Status]string{
	StatusNegotiating:     "Negotiating",
	StatusTermsLocked:     "Terms Locked",
	StatusAwaitingPayment: "Awaiting Payment",
	StatusFunded:          "Funded",
	StatusCreativeDraft:   "Creative Draft",
	StatusCreativeReview:  "Creative Review",
	StatusApproved:        "Approved",
	StatusScheduled:       "Scheduled",
	StatusPosted:          "Posted",
	StatusVerifying:       "Verifying",
	StatusReleased:        "Released",
	StatusRefunded:        "Refunded",
	StatusCanceled:        "Canceled",
}

// ParseStatus validates a wire value.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// Valid reports whether s is one of the thirteen statuses.
func (s Status) Valid() bool {
	_, ok := labels[s]
	return ok
}

// Terminal reports whether the deal is frozen.
func (s Status) Terminal() bool {
	return s == StatusReleased || s == StatusRefunded || s == StatusCanceled
}

// Label is the human readable badge text. Unknown values render as-is.
func (s Status) Label() string {
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}

func (s Status) String() string {
	return string(s)
}
