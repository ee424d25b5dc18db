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

package models

// FieldSnapshot is a flat view of an entity's watched fields at one point in time. A missing key
// and an empty value both mean "unset".
type FieldSnapshot map[string]string

// Get returns the value of a field and whether it is set.
func (s FieldSnapshot) Get(field string) (string, bool) {
	value, ok := s[field]
	if !ok || value == "" {
		return "", false
	}

	return value, true
}

// IsSet reports whether a field has a non-empty value.
func (s FieldSnapshot) IsSet(field string) bool {
	_, ok := s.Get(field)
	return ok
}
