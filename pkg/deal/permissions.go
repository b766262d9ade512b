// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deal

// Permissions gates which action forms a deal view renders.
type Permissions struct {
	EditTerms      bool
	SetPublishAt   bool
	CreateCreative bool
	ReviewCreative bool
	SendBrief      bool
	ViewCreative   bool
	Schedule       bool
}

// PermissionsFor evaluates every visibility predicate for (status, role).
func PermissionsFor(status Status, role Role) Permissions {
	owner := role == RoleOwner
	advertiser := role == RoleAdvertiser

	return Permissions{
		EditTerms:      owner && in(status, StatusNegotiating, StatusTermsLocked),
		SetPublishAt:   owner && status.Valid() && !in(status, StatusNegotiating, StatusTermsLocked, StatusPosted, StatusVerifying, StatusReleased, StatusRefunded, StatusCanceled),
		CreateCreative: owner && in(status, StatusFunded, StatusCreativeDraft),
		ReviewCreative: advertiser && status == StatusCreativeReview,
		SendBrief:      advertiser && status.Valid() && !status.Terminal(),
		ViewCreative:   in(status, StatusCreativeReview, StatusCreativeDraft, StatusApproved, StatusScheduled, StatusPosted, StatusVerifying, StatusReleased),
		Schedule:       owner && status == StatusApproved,
	}
}

func in(status Status, set ...Status) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
