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

import "context"

// Store is the abstract object-store collaborator a Cache reads and writes
// chunk bytes through. Paths are opaque strings built by BuildChunkPath.
//
// Implementations must treat "object absent" as a distinct outcome from any
// other failure: Read returns an error for which errors.Is(err, ErrNotFound)
// is true when, and only when, the object does not exist.
//
// A Cache only ever calls Read/Write with off == 0 and n == the cache's
// chunksize; implementations are free to assume that and need not support
// arbitrary ranges.
type Store interface {
	// Read fills buf[:n] with the contents of the object at path,
	// starting at byte offset off. It returns an error wrapping
	// ErrNotFound if the object does not exist.
	Read(ctx context.Context, path string, off, n int64, buf []byte) error

	// Write stores buf[:n] as the contents of the object at path,
	// starting at byte offset off, creating the object if necessary.
	Write(ctx context.Context, path string, off, n int64, buf []byte) error
}
