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
	"encoding/binary"

	"github.com/dchest/siphash"
	"golang.org/x/exp/slices"
)

// entry is a single cached chunk. It is simultaneously a hash-map value
// (keyed by hashkey) and a node of the cache's recency list via prev/next;
// fusing the two avoids a linear scan to find the LRU entry.
type entry struct {
	indices  []int64
	key      ChunkKey
	hashkey  uint64
	data     []byte
	modified bool

	prev, next *entry
}

// sameIndices reports whether e was built for indices.
func (e *entry) sameIndices(indices []int64) bool {
	return slices.Equal(e.indices, indices)
}

// hashIndices computes the 64-bit digest used as the indexed LRU's lookup
// key, the same siphash construction the teacher uses for content hashing
// (k0 = k1 = 0, a single siphash.Hash call over the raw bytes).
func hashIndices(indices []int64) uint64 {
	buf := make([]byte, 8*len(indices))
	for i, idx := range indices {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(idx))
	}
	return siphash.Hash(0, 0, buf)
}
