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

import "errors"

var (
	// ErrNotFound is returned by a Store's Read method when the
	// requested object does not exist. It is absorbed internally by
	// Cache.Read, which never returns it to callers; callers instead
	// observe ErrChunkCreated.
	ErrNotFound = errors.New("chunkcache: object not found")

	// ErrInvalidArgument is returned for a bad dimension separator, a
	// zero chunk size, or a preemption value outside [0, 1].
	ErrInvalidArgument = errors.New("chunkcache: invalid argument")

	// ErrOutOfMemory is returned when an entry buffer cannot be
	// allocated. It is never returned by Cache itself (Go allocation
	// failure is a fatal runtime condition, not a recoverable error),
	// but Store implementations that track a bounded memory or disk
	// budget of their own may return it from Write.
	ErrOutOfMemory = errors.New("chunkcache: out of memory")

	// ErrChunkCreated is a soft, informational signal: Read returns it
	// (wrapped with errors.Is-compatible semantics) alongside a valid
	// buffer when the requested chunk did not exist on the backing
	// store and was fabricated locally.
	ErrChunkCreated = errors.New("chunkcache: chunk fabricated")
)

// legalSeparator reports whether sep is one of the dimension separators
// defined by the Zarr v2 specification.
func legalSeparator(sep byte) bool {
	return sep == '.' || sep == '/'
}
