// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deal

// Action is what the primary call-to-action does when triggered.
type Action string

const (
	ActionNone Action = ""
	ActionPay  Action = "pay"
	ActionBot  Action = "bot"
)

// CTA is the single recommended next step for a deal.
type CTA struct {
	Label  string
	Action Action
}

// None reports whether there is nothing to surface.
func (c CTA) None() bool {
	return c.Action == ActionNone
}

// PrimaryCTA maps every status to its call-to-action. Statuses without one,
// including unknown values, yield the zero CTA.
func PrimaryCTA(status Status) CTA {
	switch status {
	case StatusTermsLocked:
		return CTA{Label: "Proceed to Payment", Action: ActionPay}
	case StatusAwaitingPayment:
		return CTA{Label: "Pay", Action: ActionPay}
	case StatusFunded, StatusCreativeDraft, StatusCreativeReview, StatusApproved, StatusScheduled:
		return CTA{Label: "Open Bot", Action: ActionBot}
	case StatusPosted, StatusVerifying:
		return CTA{Label: "Check in Bot", Action: ActionBot}
	default:
		return CTA{}
	}
}
