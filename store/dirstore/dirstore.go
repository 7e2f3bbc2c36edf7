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

// Package dirstore implements a chunkcache.Store backed by a local
// filesystem directory, one file per chunk path.
package dirstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nczarr/chunkcache/chunkcache"
)

// Store stores each chunk as a file under Dir, mirroring the object-store
// path hierarchy (a chunk path containing '/' is stored in a subdirectory).
type Store struct {
	Dir string
}

// New returns a Store rooted at dir. dir is created if it does not exist.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("dirstore.New: %w", err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) file(path string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(path))
}

// Read implements chunkcache.Store.
func (s *Store) Read(_ context.Context, path string, off, n int64, buf []byte) error {
	f, err := os.Open(s.file(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("dirstore: %s: %w", path, chunkcache.ErrNotFound)
		}
		return fmt.Errorf("dirstore: open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.ReadAt(buf[:n], off); err != nil && err != io.EOF {
		return fmt.Errorf("dirstore: read %s: %w", path, err)
	}
	return nil
}

// Write implements chunkcache.Store. It stages the write in a
// randomly-suffixed temporary file in the same directory and renames it
// into place, so a concurrent reader of the same path never observes a
// torn write — the same temp-then-rename discipline the teacher's own
// disk cache uses to populate an entry.
func (s *Store) Write(_ context.Context, path string, off, n int64, buf []byte) error {
	target := s.file(path)
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("dirstore: mkdir for %s: %w", path, err)
	}

	var existing []byte
	if old, err := os.ReadFile(target); err == nil {
		existing = old
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("dirstore: read-modify-write %s: %w", path, err)
	}
	if need := off + n; int64(len(existing)) < need {
		grown := make([]byte, need)
		copy(grown, existing)
		existing = grown
	}
	copy(existing[off:off+n], buf[:n])

	tmp := target + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, existing, 0o640); err != nil {
		return fmt.Errorf("dirstore: stage %s: %w", path, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("dirstore: commit %s: %w", path, err)
	}
	return nil
}
