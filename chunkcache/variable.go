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

// Variable describes the dataset variable a Cache is attached to. A Cache
// holds a non-owning reference to a Variable: the variable is expected to
// outlive the cache, since the cache is torn down first when the variable
// is closed.
//
// Variable intentionally carries only the fields the cache needs; group
// and attribute metadata, dtype information, and chunk-index iteration
// live entirely outside this package.
type Variable struct {
	// Path is the variable's stable object-store path prefix (varkey).
	Path string
	// Rank is the variable's dimensionality, including any scalar
	// pseudo-dimension the caller chooses to model as a trailing
	// dimension of extent 1.
	Rank int
	// ReadOnly indicates the dataset was opened without write access.
	// Fabricated chunks on a read-only dataset are never marked
	// modified, so they are never written back on eviction.
	ReadOnly bool
	// ByteBudget is the user-configured cache size, in bytes, for this
	// variable. It is the sole input to the derivation of maxentries.
	ByteBudget uint64
	// EntryCount is the user-configured cache size, in entries, for
	// this variable. It is stored for inspection but is advisory: the
	// authoritative maxentries is always derived from ByteBudget.
	EntryCount uint64
	// Preemption is the reserved cache-swapping knob in [0, 1].
	// The baseline policy is pure LRU; Preemption is validated and
	// stored but not consulted.
	Preemption float32
	// Fill, if non-nil, seeds fabricated chunks. Its length must equal
	// the cache's chunksize; a Fill of the wrong length is ignored (the
	// cache falls back to zero-fill) rather than causing an error, since
	// fill-value computation is an external collaborator's concern.
	Fill []byte
}
