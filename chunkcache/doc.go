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

// Package chunkcache provides a per-variable, fixed-size chunk cache for a
// chunked multidimensional array store in the style of Zarr v2.
//
// A Cache holds a bounded, LRU-ordered set of fixed-size chunk buffers for a
// single variable. It mediates all reads and writes between a caller and a
// key/value object Store, defers writes until eviction or an explicit Flush,
// and fabricates chunk content for chunks that do not yet exist on the
// backing store.
//
// A Cache is not safe for concurrent use by multiple goroutines. Callers
// that want to drive several variables concurrently should create one Cache
// per variable; the caches share no state.
package chunkcache
