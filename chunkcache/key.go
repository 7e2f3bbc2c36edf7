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
	"strconv"
	"strings"
)

// ChunkKey is the pair of strings that identify a chunk's location:
// VarKey is the stable object-store path prefix of the variable, and
// ChunkKey is the separator-joined decimal encoding of the chunk's index
// tuple.
//
// From the Zarr v2 specification:
//
//	"The compressed sequence of bytes for each chunk is stored under
//	a key formed from the index of the chunk within the grid of
//	chunks representing the array. To form a string key for a
//	chunk, the indices are converted to strings and concatenated
//	with the dimension_separator character ('.' or '/') separating
//	each index."
type ChunkKey struct {
	VarKey   string
	ChunkKey string
}

// Path joins VarKey and ChunkKey with sep to produce the full object-store
// path used on the wire.
func (k ChunkKey) Path(sep byte) string {
	if k.ChunkKey == "" {
		return k.VarKey
	}
	return k.VarKey + string(sep) + k.ChunkKey
}

// BuildChunkKey formats the chunk key component for a chunk at the given
// indices: decimal, no leading zeros, no sign, joined by sep. rank must
// equal len(indices); rank == 0 yields the empty string.
func BuildChunkKey(rank int, indices []int64, sep byte) (string, error) {
	if !legalSeparator(sep) {
		return "", ErrInvalidArgument
	}
	var b strings.Builder
	for r := 0; r < rank; r++ {
		if r > 0 {
			b.WriteByte(sep)
		}
		b.WriteString(strconv.FormatInt(indices[r], 10))
	}
	return b.String(), nil
}

// BuildChunkPath composes varkey, the object-store prefix of a variable,
// with the chunk key for indices, producing the ChunkKey used to address
// the chunk on the backing store.
func BuildChunkPath(varkey string, rank int, indices []int64, sep byte) (ChunkKey, error) {
	ck, err := BuildChunkKey(rank, indices, sep)
	if err != nil {
		return ChunkKey{}, err
	}
	return ChunkKey{VarKey: varkey, ChunkKey: ck}, nil
}
