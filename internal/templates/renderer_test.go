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

package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderReplacesPlaceholders(t *testing.T) {
	context := Context{
		"project.name":     "Relaunch",
		"project.demoDate": "2025-03-01",
	}

	actual := Render("Demo for {{project.name}} on {{project.demoDate}}.", context)
	assert.Equal(t, "Demo for Relaunch on 2025-03-01.", actual)
}

func TestRenderSingleKey(t *testing.T) {
	assert.Equal(t, "X", Render("{{a.b}}", Context{"a.b": "X"}))
}

func TestRenderUnknownPlaceholderIsEmpty(t *testing.T) {
	assert.Equal(t, "", Render("{{missing}}", Context{}))
	assert.Equal(t, "before  after", Render("before {{missing.key}} after", Context{}))
}

func TestRenderIdempotent(t *testing.T) {
	context := Context{"project.name": "Relaunch"}

	once := Render("Hello {{project.name}} and {{missing}}!", context)
	twice := Render(once, context)

	assert.Equal(t, once, twice)
}

func TestRenderRepeatedPlaceholder(t *testing.T) {
	context := Context{"client.name": "Acme"}

	actual := Render("{{client.name}}, {{client.name}}", context)
	assert.Equal(t, "Acme, Acme", actual)
}

func TestAppendSignature(t *testing.T) {
	context := Context{"client.name": "Acme"}

	actual := AppendSignature("Hello!\n", "Yours,\n{{client.name}}", context)
	assert.Equal(t, "Hello!\n\nYours,\nAcme", actual)
}

func TestAppendSignatureEmpty(t *testing.T) {
	assert.Equal(t, "Hello!", AppendSignature("Hello!", "", nil))
	assert.Equal(t, "Hello!", AppendSignature("Hello!", "{{missing}}", Context{}))
}
