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

package memstore

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/nczarr/chunkcache/chunkcache"
)

func TestReadMissing(t *testing.T) {
	s := New()
	buf := make([]byte, 4)
	err := s.Read(context.Background(), "missing", 0, 4, buf)
	if !errors.Is(err, chunkcache.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestWriteThenRead(t *testing.T) {
	s := New()
	ctx := context.Background()
	want := []byte{1, 2, 3, 4}
	if err := s.Write(ctx, "a", 0, 4, want); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 4)
	if err := s.Read(ctx, "a", 0, 4, got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}
