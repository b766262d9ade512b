// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionsOwner(t *testing.T) {
	require := require.New(t)

	p := PermissionsFor(StatusNegotiating, RoleOwner)
	require.True(p.EditTerms)
	require.False(p.SetPublishAt)
	require.False(p.SendBrief)
	require.False(p.ViewCreative)

	p = PermissionsFor(StatusFunded, RoleOwner)
	require.False(p.EditTerms)
	require.True(p.SetPublishAt)
	require.True(p.CreateCreative)
	require.False(p.ViewCreative)

	p = PermissionsFor(StatusApproved, RoleOwner)
	require.True(p.Schedule)
	require.True(p.SetPublishAt)
	require.True(p.ViewCreative)
	require.False(p.CreateCreative)
	require.False(p.ReviewCreative)

	p = PermissionsFor(StatusPosted, RoleOwner)
	require.False(p.SetPublishAt)
	require.True(p.ViewCreative)
}

func TestPermissionsAdvertiser(t *testing.T) {
	require := require.New(t)

	p := PermissionsFor(StatusCreativeReview, RoleAdvertiser)
	require.True(p.ReviewCreative)
	require.True(p.SendBrief)
	require.True(p.ViewCreative)
	require.False(p.EditTerms)
	require.False(p.SetPublishAt)
	require.False(p.CreateCreative)
	require.False(p.Schedule)

	p = PermissionsFor(StatusNegotiating, RoleAdvertiser)
	require.True(p.SendBrief)
	require.False(p.ReviewCreative)
}

func TestPermissionsTerminal(t *testing.T) {
	require := require.New(t)

	for _, status := range []Status{StatusReleased, StatusRefunded, StatusCanceled} {
		for _, role := range roles {
			p := PermissionsFor(status, role)
			require.False(p.EditTerms)
			require.False(p.SetPublishAt)
			require.False(p.CreateCreative)
			require.False(p.ReviewCreative)
			require.False(p.SendBrief)
			require.False(p.Schedule)
		}
	}
	// The final creative stays visible on a released deal.
	require.True(PermissionsFor(StatusReleased, RoleAdvertiser).ViewCreative)
	require.False(PermissionsFor(StatusRefunded, RoleAdvertiser).ViewCreative)
}

func TestSetPublishAtWindow(t *testing.T) {
	require := require.New(t)

	allowed := map[Status]bool{
		StatusAwaitingPayment: true,
		StatusFunded:          true,
		StatusCreativeDraft:   true,
		StatusCreativeReview:  true,
		StatusApproved:        true,
		StatusScheduled:       true,
	}
	for _, status := range Statuses {
		require.Equal(allowed[status], PermissionsFor(status, RoleOwner).SetPublishAt, status)
		require.False(PermissionsFor(status, RoleAdvertiser).SetPublishAt, status)
	}
}
