// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	require := require.New(t)

	s, err := NewStorage("memory", "")
	require.NoError(err)
	defer s.Close()

	token, err := s.LoadToken()
	require.NoError(err)
	require.Empty(token)

	require.NoError(s.SaveToken("tok-1"))
	token, err = s.LoadToken()
	require.NoError(err)
	require.Equal("tok-1", token)

	require.NoError(s.SaveToken("tok-2"))
	token, err = s.LoadToken()
	require.NoError(err)
	require.Equal("tok-2", token)

	require.NoError(s.ClearToken())
	token, err = s.LoadToken()
	require.NoError(err)
	require.Empty(token)
}

func TestTokenSurvivesReopen(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	s, err := NewStorage("badger", dir)
	require.NoError(err)
	require.NoError(s.SaveToken("tok-persisted"))
	require.NoError(s.Close())

	s, err = NewStorage("badger", dir)
	require.NoError(err)
	defer s.Close()
	token, err := s.LoadToken()
	require.NoError(err)
	require.Equal("tok-persisted", token)
}

func TestClearWithoutToken(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	require.NoError(t, s.ClearToken())
}

func TestUnknownType(t *testing.T) {
	_, err := NewStorage("fdb", "")
	require.ErrorIs(t, err, ErrUnknownType)
}
