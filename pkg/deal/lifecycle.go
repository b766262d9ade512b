// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deal

// Role is the viewer's side of a deal
type Role string

const (
	RoleOwner      Role = "owner"
	RoleAdvertiser Role = "advertiser"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleAdvertiser
}

// graph holds the outgoing edges of every status. Terminal statuses have none.
var graph = map[Status][]Status{
	StatusNegotiating:     {StatusTermsLocked, StatusCanceled},
	StatusTermsLocked:     {StatusAwaitingPayment, StatusCreativeDraft, StatusCanceled},
	StatusAwaitingPayment: {StatusFunded, StatusCanceled},
	StatusFunded:          {StatusCreativeDraft, StatusCanceled},
	StatusCreativeDraft:   {StatusCreativeReview, StatusCanceled},
	StatusCreativeReview:  {StatusApproved, StatusCanceled},
	StatusApproved:        {StatusScheduled, StatusCanceled},
	StatusScheduled:       {StatusPosted, StatusCanceled},
	StatusPosted:          {StatusVerifying},
	StatusVerifying:       {StatusReleased, StatusRefunded},
}

// initiable holds the destinations each role may request.
var initiable = map[Role]map[Status]bool{
	RoleOwner: {
		StatusTermsLocked: true,
		StatusCanceled:    true,
		StatusScheduled:   true,
		StatusPosted:      true,
		StatusVerifying:   true,
		StatusReleased:    true,
		StatusRefunded:    true,
	},
	RoleAdvertiser: {
		StatusAwaitingPayment: true,
		StatusFunded:          true,
		StatusCanceled:        true,
	},
}

// Edges returns the graph's outgoing edges from status, in declaration order.
func Edges(status Status) []Status {
	out := make([]Status, len(graph[status]))
	copy(out, graph[status])
	return out
}

// CanInitiate reports whether role may request a move into to, regardless
// of the current status.
func CanInitiate(role Role, to Status) bool {
	return initiable[role][to]
}

// NextStatuses returns the statuses the viewer may move the deal into from
// status: the graph's outgoing edges restricted to the role's destinations.
func NextStatuses(status Status, role Role) []Status {
	var next []Status
	for _, to := range graph[status] {
		if initiable[role][to] {
			next = append(next, to)
		}
	}
	return next
}

// CanTransition reports whether the viewer may move the deal from one status
// to another.
func CanTransition(from, to Status, role Role) bool {
	for _, s := range NextStatuses(from, role) {
		if s == to {
			return true
		}
	}
	return false
}

// RoleFor derives the viewer's role from identities. Anyone who is not the
// advertiser is treated as the channel side. A role reported by the server
// takes precedence when valid.
func RoleFor(advertiserID, userID int64, reported Role) Role {
	if reported.Valid() {
		return reported
	}
	if userID != 0 && advertiserID == userID {
		return RoleAdvertiser
	}
	return RoleOwner
}

// Decision is everything a deal view needs to know about what the viewer may
// do next.
type Decision struct {
	Status      Status
	Role        Role
	Next        []Status
	Permissions Permissions
	CTA         CTA
}

// Decide evaluates the lifecycle rules for (status, role).
func Decide(status Status, role Role) Decision {
	return Decision{
		Status:      status,
		Role:        role,
		Next:        NextStatuses(status, role),
		Permissions: PermissionsFor(status, role),
		CTA:         PrimaryCTA(status),
	}
}
