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

// Package templates renders mail templates by placeholder substitution. Placeholders use the
// form {{namespace.field}} and resolve against a flat string context. Unknown placeholders
// resolve to the empty string, so rendering never fails and is idempotent once all placeholders
// are consumed.
package templates

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([0-9A-Za-z_.-]+)\s*\}\}`)

// Context is the set of values available to a template.
type Context map[string]string

// Render replaces every placeholder in the template with the corresponding context value.
func Render(template string, context Context) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		return context[key]
	})
}

// AppendSignature renders the signature block with the same context and appends it to the body.
// An empty signature leaves the body untouched.
func AppendSignature(body, signature string, context Context) string {
	signature = strings.TrimSpace(Render(signature, context))
	if signature == "" {
		return body
	}

	return strings.TrimRight(body, "\n") + "\n\n" + signature
}
