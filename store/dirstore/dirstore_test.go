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

package dirstore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nczarr/chunkcache/chunkcache"
)

func TestReadMissing(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 4)
	err = s.Read(context.Background(), "0.0.0", 0, 4, buf)
	if !errors.Is(err, chunkcache.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestWriteThenRead(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	want := []byte{9, 8, 7, 6}
	if err := s.Write(ctx, "v/0.0", 0, 4, want); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 4)
	if err := s.Read(ctx, "v/0.0", 0, 4, got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestWritePartialThenExtend(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := s.Write(ctx, "v/1.1", 0, 2, []byte{1, 2}); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, "v/1.1", 2, 2, []byte{3, 4}); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 4)
	if err := s.Read(ctx, "v/1.1", 0, 4, got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Fatalf("got %x", got)
	}
}

func TestNoLeftoverTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Write(context.Background(), "v/2.2", 0, 2, []byte{1, 2}); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "v"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "2.2" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}
