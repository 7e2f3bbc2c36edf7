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

package chunkcache

import "testing"

func mkentry(hkey uint64) *entry {
	return &entry{hashkey: hkey, indices: []int64{int64(hkey)}}
}

func TestIndexedLRUBasic(t *testing.T) {
	l := newIndexedLRU(0)
	if l.Len() != 0 {
		t.Fatalf("new lru not empty")
	}
	if _, ok := l.PeekLRU(); ok {
		t.Fatalf("PeekLRU on empty lru should fail")
	}

	a, b, c := mkentry(1), mkentry(2), mkentry(3)
	l.Insert(a)
	l.Insert(b)
	l.Insert(c)
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}

	// a was inserted first, so it is the LRU entry.
	lru, ok := l.PeekLRU()
	if !ok || lru.hashkey != 1 {
		t.Fatalf("PeekLRU() = %v, want hashkey 1", lru)
	}

	l.Touch(1) // a -> MRU
	lru, ok = l.PeekLRU()
	if !ok || lru.hashkey != 2 {
		t.Fatalf("after Touch(1), PeekLRU() = %v, want hashkey 2", lru)
	}

	removed, ok := l.Remove(2)
	if !ok || removed.hashkey != 2 {
		t.Fatalf("Remove(2) = %v, %v", removed, ok)
	}
	if l.Len() != 2 {
		t.Fatalf("Len() after remove = %d, want 2", l.Len())
	}
	if _, ok := l.Lookup(2); ok {
		t.Fatalf("entry 2 should no longer be present")
	}

	lru, ok = l.PeekLRU()
	if !ok || lru.hashkey != 3 {
		t.Fatalf("after removing 2, PeekLRU() = %v, want hashkey 3", lru)
	}
}

func TestIndexedLRUEvictionOrder(t *testing.T) {
	// read(a); read(b); read(a); read(c) with capacity 2 evicts b.
	l := newIndexedLRU(0)
	a, b, c := mkentry(1), mkentry(2), mkentry(3)

	l.Insert(a)
	l.Insert(b)
	l.Touch(a.hashkey)

	lru, ok := l.PeekLRU()
	if !ok || lru != b {
		t.Fatalf("expected b to be LRU before inserting c, got %v", lru)
	}
	l.Remove(lru.hashkey)
	l.Insert(c)

	if _, ok := l.Lookup(b.hashkey); ok {
		t.Fatalf("b should have been evicted")
	}
	if _, ok := l.Lookup(a.hashkey); !ok {
		t.Fatalf("a should still be present")
	}
	if _, ok := l.Lookup(c.hashkey); !ok {
		t.Fatalf("c should be present")
	}
}

func TestIndexedLRUTouchMovesToFront(t *testing.T) {
	l := newIndexedLRU(0)
	entries := []*entry{mkentry(1), mkentry(2), mkentry(3), mkentry(4)}
	for _, e := range entries {
		l.Insert(e)
	}
	l.Touch(2)
	if l.head.hashkey != 2 {
		t.Fatalf("head.hashkey = %d, want 2", l.head.hashkey)
	}
	if l.head.prev != nil {
		t.Fatalf("head must have no predecessor after Touch")
	}
	// list should still be acyclic and of the right length
	seen := map[uint64]bool{}
	n := 0
	for e := l.head; e != nil; e = e.next {
		if seen[e.hashkey] {
			t.Fatalf("cycle detected at hashkey %d", e.hashkey)
		}
		seen[e.hashkey] = true
		n++
		if n > len(entries) {
			t.Fatalf("list longer than expected, possible cycle")
		}
	}
	if n != len(entries) {
		t.Fatalf("list length = %d, want %d", n, len(entries))
	}
}

func TestIndexedLRUAll(t *testing.T) {
	l := newIndexedLRU(0)
	a, b, c := mkentry(1), mkentry(2), mkentry(3)
	l.Insert(a)
	l.Insert(b)
	l.Insert(c)

	var seen []uint64
	l.All(func(e *entry) bool {
		seen = append(seen, e.hashkey)
		return true
	})
	if want := []uint64{3, 2, 1}; !equalUint64(seen, want) {
		t.Fatalf("All() order = %v, want %v", seen, want)
	}

	seen = nil
	l.All(func(e *entry) bool {
		seen = append(seen, e.hashkey)
		return e.hashkey != 2
	})
	if want := []uint64{3, 2}; !equalUint64(seen, want) {
		t.Fatalf("All() early-stop order = %v, want %v", seen, want)
	}
}

func TestIndexedLRUDrain(t *testing.T) {
	l := newIndexedLRU(0)
	a, b := mkentry(1), mkentry(2)
	l.Insert(a)
	l.Insert(b)

	drained := l.Drain()
	if want := []uint64{2, 1}; !equalUint64(hashkeys(drained), want) {
		t.Fatalf("Drain() = %v, want %v", hashkeys(drained), want)
	}
	if l.Len() != 0 {
		t.Fatalf("Len() after Drain = %d, want 0", l.Len())
	}
	if _, ok := l.PeekLRU(); ok {
		t.Fatalf("PeekLRU after Drain should fail")
	}
	if a.next != nil || a.prev != nil || b.next != nil || b.prev != nil {
		t.Fatalf("Drain left dangling links")
	}
}

func hashkeys(entries []*entry) []uint64 {
	out := make([]uint64, len(entries))
	for i, e := range entries {
		out[i] = e.hashkey
	}
	return out
}

func equalUint64(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
