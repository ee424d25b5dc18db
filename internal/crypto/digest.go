// Copyright (C) 2025  medzi83
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns a stable hex encoded sha256 digest over the given parts.
// Parts are length prefixed to avoid ambiguous concatenation.
func Digest(parts ...string) string {
	h := sha256.New()

	for _, part := range parts {
		var length [8]byte

		n := uint64(len(part))
		for i := range length {
			length[i] = byte(n >> (8 * i))
		}

		h.Write(length[:])
		h.Write([]byte(part))
	}

	return hex.EncodeToString(h.Sum(nil))
}
