// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"errors"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/database/badgerdb"
	"github.com/luxfi/database/memdb"
)

var ErrUnknownType = errors.New("unknown storage type")

var tokenKey = []byte("session/token")

// Storage keeps client state that outlives a run, currently the session
// token, in a luxfi database.
type Storage struct {
	db database.Database
}

// NewStorage creates a new storage instance. dbType is "memory" or "badger".
func NewStorage(dbType string, path string) (*Storage, error) {
	var db database.Database
	var err error

	switch dbType {
	case "memory":
		db = memdb.New()
	case "badger":
		db, err = badgerdb.New(path, nil, "", nil)
		if err != nil {
			return nil, fmt.Errorf("open badger at %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, dbType)
	}

	return &Storage{db: db}, nil
}

// NewMemory returns an in-memory storage.
func NewMemory() *Storage {
	return &Storage{db: memdb.New()}
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// LoadToken returns the persisted session token, or "" when none is stored.
func (s *Storage) LoadToken() (string, error) {
	value, err := s.db.Get(tokenKey)
	if errors.Is(err, database.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// SaveToken persists the session token.
func (s *Storage) SaveToken(token string) error {
	return s.db.Put(tokenKey, []byte(token))
}

// ClearToken removes the persisted session token.
func (s *Storage) ClearToken() error {
	return s.db.Delete(tokenKey)
}
