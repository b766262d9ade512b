// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fakeapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/deal"
)

var (
	ErrNoDeal    = errors.New("no such deal")
	ErrNoDeposit = errors.New("deal has no deposit")
)

// handleDeposit opens, or returns the already open, deposit for a deal.
// Opening it moves a deal with locked terms to AWAITING_PAYMENT.
func (s *Server) handleDeposit(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, role, ok := s.loadDeal(c)
	if !ok || !requireRole(c, role, deal.RoleAdvertiser) {
		return
	}
	if dep, ok := s.deposits[d.ID]; ok {
		c.JSON(http.StatusOK, dep)
		return
	}
	if !requireStatus(c, d, deal.StatusTermsLocked, deal.StatusAwaitingPayment) {
		return
	}
	if !d.Price.Valid {
		fail(c, http.StatusConflict, "Deal has no price yet")
		return
	}

	comment := fmt.Sprintf("deal-%d", d.ID)
	key := fmt.Sprintf("dep-%d", d.ID)
	dep := &api.EscrowPayment{
		ID:             s.id(),
		DealID:         d.ID,
		DepositAddress: DepositAddress,
		DepositComment: &comment,
		DepositKey:     &key,
		ExpectedAmount: d.Price,
		CreatedAt:      s.stamp(),
	}
	s.deposits[d.ID] = dep
	if d.Status == deal.StatusTermsLocked {
		s.setStatus(d, deal.StatusAwaitingPayment)
	}
	c.JSON(http.StatusOK, dep)
}

// ConfirmDeposit plays the chain watcher: it marks the deal's deposit as
// received and funds the deal.
func (s *Server) ConfirmDeposit(dealID int64, txHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deals[dealID]
	if !ok {
		return ErrNoDeal
	}
	dep, ok := s.deposits[dealID]
	if !ok {
		return ErrNoDeposit
	}
	now := s.stamp()
	dep.ConfirmedAt = &now
	dep.TxHash = &txHash
	if d.Status == deal.StatusAwaitingPayment {
		s.setStatus(d, deal.StatusFunded)
	}
	return nil
}

// Deposits counts deposits opened so far.
func (s *Server) Deposits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.deposits)
}
