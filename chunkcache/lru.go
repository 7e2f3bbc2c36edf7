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

// indexedLRU is a mapping from a 64-bit hash key to an *entry that also
// maintains recency order, implemented as a hash map plus an intrusive
// doubly linked list threaded through entry.prev/entry.next. Every live
// entry appears in both the map and the list; there is no secondary scan
// required to find the least-recently-used entry.
//
// head is the most-recently-used entry, tail is the least-recently-used
// entry. indexedLRU is not safe for concurrent use.
type indexedLRU struct {
	byHash     map[uint64]*entry
	head, tail *entry
}

func newIndexedLRU(sizeHint int) *indexedLRU {
	return &indexedLRU{byHash: make(map[uint64]*entry, sizeHint)}
}

// Len returns the number of entries present.
func (l *indexedLRU) Len() int { return len(l.byHash) }

// unlink detaches e from the recency list without touching the map.
func (l *indexedLRU) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

// pushFront makes e the most-recently-used entry.
func (l *indexedLRU) pushFront(e *entry) {
	e.prev = nil
	e.next = l.head
	if l.head != nil {
		l.head.prev = e
	}
	l.head = e
	if l.tail == nil {
		l.tail = e
	}
}

// Insert adds e, keyed by e.hashkey, as the most-recently-used entry.
func (l *indexedLRU) Insert(e *entry) {
	l.byHash[e.hashkey] = e
	l.pushFront(e)
}

// Lookup returns the entry for hkey without changing recency order.
func (l *indexedLRU) Lookup(hkey uint64) (*entry, bool) {
	e, ok := l.byHash[hkey]
	return e, ok
}

// Touch promotes the entry for hkey to most-recently-used. It is a no-op
// if hkey is not present.
func (l *indexedLRU) Touch(hkey uint64) {
	e, ok := l.byHash[hkey]
	if !ok || l.head == e {
		return
	}
	l.unlink(e)
	l.pushFront(e)
}

// Remove detaches and returns the entry for hkey, transferring ownership
// to the caller.
func (l *indexedLRU) Remove(hkey uint64) (*entry, bool) {
	e, ok := l.byHash[hkey]
	if !ok {
		return nil, false
	}
	delete(l.byHash, hkey)
	l.unlink(e)
	return e, true
}

// PeekLRU returns the least-recently-used entry without removing it.
func (l *indexedLRU) PeekLRU() (*entry, bool) {
	if l.tail == nil {
		return nil, false
	}
	return l.tail, true
}

// All calls fn for every entry, most-recently-used first, stopping early
// if fn returns false. fn must not mutate the container.
func (l *indexedLRU) All(fn func(e *entry) bool) {
	for e := l.head; e != nil; e = e.next {
		if !fn(e) {
			return
		}
	}
}

// Drain empties the container, discarding the map and every link, and
// returns the entries that were present, most-recently-used first.
func (l *indexedLRU) Drain() []*entry {
	entries := make([]*entry, 0, len(l.byHash))
	for e := l.head; e != nil; {
		next := e.next
		e.prev, e.next = nil, nil
		entries = append(entries, e)
		e = next
	}
	l.byHash = nil
	l.head, l.tail = nil, nil
	return entries
}
