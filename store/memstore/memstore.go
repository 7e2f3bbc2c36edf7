// Copyright (C) 2024 The chunkcache Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package memstore implements an in-memory chunkcache.Store, useful for
// tests and for caches over ephemeral data with no durable backing.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/nczarr/chunkcache/chunkcache"
)

// Store is a map[string][]byte guarded by a mutex. The zero value is
// ready to use.
type Store struct {
	mu   sync.Mutex
	objs map[string][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{objs: make(map[string][]byte)}
}

// Read implements chunkcache.Store.
func (s *Store) Read(_ context.Context, path string, off, n int64, buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objs[path]
	if !ok {
		return fmt.Errorf("memstore: %s: %w", path, chunkcache.ErrNotFound)
	}
	if off+n > int64(len(data)) {
		return fmt.Errorf("memstore: %s: range [%d,%d) exceeds object size %d", path, off, off+n, len(data))
	}
	copy(buf[:n], data[off:off+n])
	return nil
}

// Write implements chunkcache.Store.
func (s *Store) Write(_ context.Context, path string, off, n int64, buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objs == nil {
		s.objs = make(map[string][]byte)
	}
	existing := s.objs[path]
	if need := off + n; int64(len(existing)) < need {
		grown := make([]byte, need)
		copy(grown, existing)
		existing = grown
	}
	copy(existing[off:off+n], buf[:n])
	s.objs[path] = existing
	return nil
}

// Len returns the number of objects currently stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objs)
}
