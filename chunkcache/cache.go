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

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// Logger is the minimal logging collaborator a Cache uses to report
// conditions that are not themselves fatal to the calling operation (most
// notably, a dropped modified entry after a failed eviction write-back).
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, args ...interface{})
}

// Cache is a per-variable, bounded, LRU-ordered cache of fixed-size chunk
// buffers. See the package doc comment for the concurrency contract.
type Cache struct {
	// Logger, if non-nil, receives a line for every condition the
	// cache recovers from but that a caller watching only return
	// values would not otherwise see.
	Logger Logger

	variable *Variable // non-owning; must outlive the Cache
	store    Store

	ndims      int
	chunksize  int64
	sep        byte
	maxentries int
	preemption float32
	fillchunk  []byte

	index *indexedLRU

	hits, misses, failures int64
}

// New creates a chunk cache for variable, backed by store, with chunks of
// chunksize bytes addressed with dimension separator sep ('.' or '/').
// maxentries is derived from variable.ByteBudget / chunksize, clamped to a
// minimum of 1. variable.EntryCount is recorded but does not independently
// floor maxentries (see SPEC_FULL.md §9).
func New(variable *Variable, chunksize int64, sep byte, store Store) (*Cache, error) {
	if chunksize <= 0 {
		return nil, fmt.Errorf("chunkcache.New: chunksize %d: %w", chunksize, ErrInvalidArgument)
	}
	if !legalSeparator(sep) {
		return nil, fmt.Errorf("chunkcache.New: separator %q: %w", sep, ErrInvalidArgument)
	}
	if variable.Preemption < 0 || variable.Preemption > 1 {
		return nil, fmt.Errorf("chunkcache.New: preemption %v: %w", variable.Preemption, ErrInvalidArgument)
	}
	maxentries := deriveMaxEntries(variable.ByteBudget, chunksize)
	return &Cache{
		variable:   variable,
		store:      store,
		ndims:      variable.Rank,
		chunksize:  chunksize,
		sep:        sep,
		maxentries: maxentries,
		preemption: variable.Preemption,
		index:      newIndexedLRU(maxentries),
	}, nil
}

func deriveMaxEntries(byteBudget uint64, chunksize int64) int {
	n := byteBudget / uint64(chunksize)
	if n == 0 {
		n = 1
	}
	return int(n)
}

// Len reports the number of chunks currently resident in the cache. It
// returns 0 for a closed Cache.
func (c *Cache) Len() int {
	if c.index == nil {
		return 0
	}
	return c.index.Len()
}

// MaxEntries reports the cache's current capacity, in entries.
func (c *Cache) MaxEntries() int { return c.maxentries }

// Hits returns the number of Read calls satisfied without consulting the
// store.
func (c *Cache) Hits() int64 { return atomic.LoadInt64(&c.hits) }

// Misses returns the number of Read calls that required a store access or
// fabrication.
func (c *Cache) Misses() int64 { return atomic.LoadInt64(&c.misses) }

// Failures returns the number of eviction or flush write-backs that
// returned an error from the store.
func (c *Cache) Failures() int64 { return atomic.LoadInt64(&c.failures) }

func (c *Cache) errorf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

// lookup finds the entry for indices, panicking if the hash index holds a
// different set of indices under the same hash key (a collision the
// underlying hash is not expected to produce, but which would otherwise
// silently return the wrong chunk's data).
func (c *Cache) lookup(hkey uint64, indices []int64) (*entry, bool) {
	e, ok := c.index.Lookup(hkey)
	if ok && !e.sameIndices(indices) {
		panic("chunkcache: hash collision on chunk index tuple")
	}
	return e, ok
}

func (c *Cache) newEntry(hkey uint64, indices []int64) (*entry, error) {
	key, err := BuildChunkPath(c.variable.Path, c.ndims, indices, c.sep)
	if err != nil {
		return nil, err
	}
	return &entry{
		indices: append([]int64(nil), indices...),
		key:     key,
		hashkey: hkey,
		data:    make([]byte, c.chunksize),
	}, nil
}

// Read returns the buffer for the chunk at indices, reading it from the
// store (or fabricating it) on a miss. The returned slice is a borrow: it
// is valid only until the next mutating call (Read, Write, Flush, Close)
// on this Cache.
//
// If the requested chunk did not exist on the backing store, Read returns
// a valid buffer of fabricated content together with an error for which
// errors.Is(err, ErrChunkCreated) is true. Callers that only care about
// hard failures should check for that case explicitly; every other
// non-nil error is a genuine failure and the returned buffer is nil.
func (c *Cache) Read(ctx context.Context, indices []int64) ([]byte, error) {
	hkey := hashIndices(indices)
	if e, ok := c.lookup(hkey, indices); ok {
		c.index.Touch(hkey)
		atomic.AddInt64(&c.hits, 1)
		return e.data, nil
	}
	atomic.AddInt64(&c.misses, 1)

	if err := c.makeRoom(ctx); err != nil {
		return nil, err
	}
	e, err := c.newEntry(hkey, indices)
	if err != nil {
		return nil, err
	}

	path := e.key.Path(c.sep)
	err = c.store.Read(ctx, path, 0, c.chunksize, e.data)
	switch {
	case err == nil:
		c.index.Insert(e)
		return e.data, nil
	case errors.Is(err, ErrNotFound):
		e.modified = !c.variable.ReadOnly
		c.fabricate(e.data)
		c.index.Insert(e)
		return e.data, fmt.Errorf("chunkcache: %s: %w", path, ErrChunkCreated)
	default:
		return nil, fmt.Errorf("chunkcache: read %s: %w", path, err)
	}
}

// fabricate fills buf with the cache's fill content, building fillchunk
// lazily from variable.Fill on first use. buf is already zero-filled by
// allocation, so a missing or mismatched Fill simply leaves it zeroed.
func (c *Cache) fabricate(buf []byte) {
	if c.fillchunk == nil && len(c.variable.Fill) == int(c.chunksize) {
		c.fillchunk = append([]byte(nil), c.variable.Fill...)
	}
	if c.fillchunk != nil {
		copy(buf, c.fillchunk)
	}
}

// Write returns a mutable buffer for the chunk at indices, creating an
// entry if one does not already exist, and marks it modified. The caller
// is expected to fully overwrite the returned buffer before any
// subsequent call that might evict it.
//
// Write always looks up an existing entry before creating one, so a write
// to an already-cached chunk updates that entry's buffer in place instead
// of allocating a duplicate.
func (c *Cache) Write(ctx context.Context, indices []int64) ([]byte, error) {
	hkey := hashIndices(indices)
	e, ok := c.lookup(hkey, indices)
	if !ok {
		if err := c.makeRoom(ctx); err != nil {
			return nil, err
		}
		var err error
		e, err = c.newEntry(hkey, indices)
		if err != nil {
			return nil, err
		}
		c.index.Insert(e)
	} else {
		c.index.Touch(hkey)
	}
	e.modified = true
	return e.data, nil
}

// makeRoom evicts least-recently-used entries until len(index) < maxentries.
// A modified entry is written back before being dropped; if the write-back
// fails, the entry is dropped anyway (see SPEC_FULL.md §9 for the data-loss
// tradeoff) and the error is logged and returned.
func (c *Cache) makeRoom(ctx context.Context) error {
	for c.index.Len() >= c.maxentries {
		e, ok := c.index.PeekLRU()
		if !ok {
			return nil
		}
		c.index.Remove(e.hashkey)
		if e.modified {
			path := e.key.Path(c.sep)
			if err := c.store.Write(ctx, path, 0, c.chunksize, e.data); err != nil {
				atomic.AddInt64(&c.failures, 1)
				c.errorf("chunkcache: dropping modified chunk %s after failed eviction write: %s", path, err)
				return fmt.Errorf("chunkcache: evict %s: %w", path, err)
			}
		}
	}
	return nil
}

// Flush writes back every modified entry and clears its modified bit. It
// does not evict any entry. Flush stops at the first write error, leaving
// the remaining entries' modified bits untouched.
func (c *Cache) Flush(ctx context.Context) error {
	var flushErr error
	c.index.All(func(e *entry) bool {
		if !e.modified {
			return true
		}
		path := e.key.Path(c.sep)
		if err := c.store.Write(ctx, path, 0, c.chunksize, e.data); err != nil {
			atomic.AddInt64(&c.failures, 1)
			flushErr = fmt.Errorf("chunkcache: flush %s: %w", path, err)
			return false
		}
		e.modified = false
		return true
	})
	return flushErr
}

// Adjust reshapes the cache for a new byte budget and chunk size,
// evicting (and, per makeRoom's policy, attempting to persist) every
// current entry first. Preemption must be in [0, 1].
func (c *Cache) Adjust(ctx context.Context, byteBudget uint64, chunksize int64, preemption float32) error {
	if preemption < 0 || preemption > 1 {
		return fmt.Errorf("chunkcache.Adjust: preemption %v: %w", preemption, ErrInvalidArgument)
	}
	if chunksize <= 0 {
		return fmt.Errorf("chunkcache.Adjust: chunksize %d: %w", chunksize, ErrInvalidArgument)
	}
	c.maxentries = 0
	if err := c.makeRoom(ctx); err != nil {
		return err
	}
	c.maxentries = deriveMaxEntries(byteBudget, chunksize)
	c.chunksize = chunksize
	c.preemption = preemption
	c.fillchunk = nil
	return nil
}

// Close drains the cache, freeing every entry without writing it back.
// Callers that want durable semantics must call Flush first. Close is
// idempotent.
func (c *Cache) Close() {
	if c.index == nil {
		return
	}
	c.index.Drain()
	c.index = nil
	c.fillchunk = nil
}
