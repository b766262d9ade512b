// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package session holds the process-wide authentication state: the bearer
// token every API call carries and the signed-in user's profile.
//
// A Session is created at start-up, initialised once against the Telegram
// host, and lives until Logout. The token is persisted through a TokenStore
// so that a restart outside Telegram can reuse it.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/log"
	"github.com/luxfi/admarket/pkg/telegram"
)

// Authenticator is the subset of the API the session needs.
type Authenticator interface {
	Authenticate(ctx context.Context, initData string) (*api.AuthResponse, error)
	Me(ctx context.Context) (*api.User, error)
}

// TokenStore persists the token between runs.
type TokenStore interface {
	LoadToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

type Session struct {
	store TokenStore
	log   log.Logger

	mu    sync.RWMutex
	token string
	user  *api.User
	ready bool
}

// New restores the persisted token, if any. store may be nil.
func New(store TokenStore, logger log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.NoOp()
	}
	s := &Session{store: store, log: logger}
	if store != nil {
		token, err := store.LoadToken()
		if err != nil {
			return nil, fmt.Errorf("load session token: %w", err)
		}
		s.token = token
	}
	return s, nil
}

// Token implements api.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the cached profile, or nil.
func (s *Session) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// UserID returns the signed-in user's id, or 0.
func (s *Session) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return 0
	}
	return s.user.ID
}

// Ready reports whether Init has finished, successfully or not.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Login replaces the token and, when given, the profile.
func (s *Session) Login(token string, user *api.User) error {
	s.mu.Lock()
	s.token = token
	if user != nil {
		s.user = user
	}
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SaveToken(token); err != nil {
			return fmt.Errorf("save session token: %w", err)
		}
	}
	return nil
}

// Logout clears the token and the profile.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.ClearToken(); err != nil {
			return fmt.Errorf("clear session token: %w", err)
		}
	}
	return nil
}

// SetUser replaces the cached profile.
func (s *Session) SetUser(user *api.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// Init signals the host and exchanges its launch payload for a token.
//
// Without a launch payload, or when the exchange fails, a previously stored
// token is kept and its profile fetched. The session is ready afterwards in
// every case; the exchange error is returned for the caller to report.
func (s *Session) Init(ctx context.Context, host telegram.Host, auth Authenticator) error {
	defer s.markReady()

	var initData string
	if host != nil {
		host.Ready()
		initData = host.InitData()
	}

	if initData == "" {
		s.restoreProfile(ctx, auth)
		return nil
	}

	resp, err := auth.Authenticate(ctx, initData)
	if err != nil {
		s.log.Warn("telegram login failed", log.Error(err))
		s.restoreProfile(ctx, auth)
		return fmt.Errorf("authenticate: %w", err)
	}
	if err := s.Login(resp.Token, resp.User); err != nil {
		return err
	}
	s.log.Info("signed in", log.Bool("profile", resp.User != nil))
	return nil
}

// RefreshUser refetches the profile.
func (s *Session) RefreshUser(ctx context.Context, auth Authenticator) error {
	user, err := auth.Me(ctx)
	if err != nil {
		return err
	}
	s.SetUser(user)
	return nil
}

// restoreProfile loads the profile for a stored token. An expired token is
// not an error.
func (s *Session) restoreProfile(ctx context.Context, auth Authenticator) {
	if s.Token() == "" {
		return
	}
	if err := s.RefreshUser(ctx, auth); err != nil {
		s.log.Debug("stored token rejected", log.Error(err))
	}
}

func (s *Session) markReady() {
	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
}
