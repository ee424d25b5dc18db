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

package automation

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medzi83/project-app-sub004/internal/models"
)

func becameSetRule(id int64, field string) models.TriggerRuleEntity {
	return models.TriggerRuleEntity{
		ID:         id,
		Name:       "rule",
		EntityKind: "project",
		WatchField: field,
		Operator:   models.OperatorBecameSet,
		TemplateID: 1,
		Active:     true,
	}
}

func equalsRule(id int64, field, value string) models.TriggerRuleEntity {
	rule := becameSetRule(id, field)
	rule.Operator = models.OperatorEquals
	rule.CompareValue = sql.NullString{String: value, Valid: true}

	return rule
}

func TestEvaluateBecameSet(t *testing.T) {
	ctx := context.Background()
	rules := []models.TriggerRuleEntity{becameSetRule(1, "demo_date")}

	for _, testcase := range []struct {
		name          string
		before, after models.FieldSnapshot
		expected      int
	}{
		{
			name:     "fires when the field becomes set",
			before:   models.FieldSnapshot{},
			after:    models.FieldSnapshot{"demo_date": "2024-06-01"},
			expected: 1,
		},
		{
			name:     "fires when the field goes from empty to non-empty",
			before:   models.FieldSnapshot{"demo_date": ""},
			after:    models.FieldSnapshot{"demo_date": "2024-06-01"},
			expected: 1,
		},
		{
			name:     "does not fire when the field was already set",
			before:   models.FieldSnapshot{"demo_date": "2024-05-01"},
			after:    models.FieldSnapshot{"demo_date": "2024-06-01"},
			expected: 0,
		},
		{
			name:     "does not fire when the field stays unset",
			before:   models.FieldSnapshot{},
			after:    models.FieldSnapshot{"demo_date": ""},
			expected: 0,
		},
		{
			name:     "does not fire when the field is cleared",
			before:   models.FieldSnapshot{"demo_date": "2024-06-01"},
			after:    models.FieldSnapshot{},
			expected: 0,
		},
	} {
		t.Run(testcase.name, func(t *testing.T) {
			matches := Evaluate(ctx, rules, testcase.before, testcase.after)
			assert.Len(t, matches, testcase.expected)
		})
	}
}

func TestEvaluateEquals(t *testing.T) {
	ctx := context.Background()
	rules := []models.TriggerRuleEntity{equalsRule(1, "status", "live")}

	for _, testcase := range []struct {
		name          string
		before, after models.FieldSnapshot
		expected      int
	}{
		{
			name:     "fires when the field reaches the literal",
			before:   models.FieldSnapshot{"status": "staging"},
			after:    models.FieldSnapshot{"status": "live"},
			expected: 1,
		},
		{
			name:     "does not fire when the field already matched before",
			before:   models.FieldSnapshot{"status": "live"},
			after:    models.FieldSnapshot{"status": "live"},
			expected: 0,
		},
		{
			name:     "does not fire when the field misses the literal",
			before:   models.FieldSnapshot{"status": "staging"},
			after:    models.FieldSnapshot{"status": "offline"},
			expected: 0,
		},
	} {
		t.Run(testcase.name, func(t *testing.T) {
			matches := Evaluate(ctx, rules, testcase.before, testcase.after)
			assert.Len(t, matches, testcase.expected)
		})
	}
}

func TestEvaluatePreservesOrderAndIndependence(t *testing.T) {
	ctx := context.Background()

	rules := []models.TriggerRuleEntity{
		becameSetRule(3, "demo_date"),
		equalsRule(1, "status", "live"),
		becameSetRule(2, "go_live_date"),
	}

	matches := Evaluate(ctx, rules,
		models.FieldSnapshot{"status": "staging"},
		models.FieldSnapshot{
			"demo_date": "2024-06-01",
			"status":    "live",
		})

	if assert.Len(t, matches, 2) {
		assert.Equal(t, int64(3), matches[0].ID)
		assert.Equal(t, int64(1), matches[1].ID)
	}
}

func TestEvaluateSkipsInactiveRules(t *testing.T) {
	rule := becameSetRule(1, "demo_date")
	rule.Active = false

	matches := Evaluate(context.Background(),
		[]models.TriggerRuleEntity{rule},
		models.FieldSnapshot{},
		models.FieldSnapshot{"demo_date": "2024-06-01"})

	assert.Empty(t, matches)
}

func TestEvaluateSkipsMalformedRules(t *testing.T) {
	missingCompare := becameSetRule(1, "status")
	missingCompare.Operator = models.OperatorEquals

	unknownOperator := becameSetRule(2, "demo_date")
	unknownOperator.Operator = "sounds_like"

	missingField := becameSetRule(3, "")

	rules := []models.TriggerRuleEntity{
		missingCompare,
		unknownOperator,
		missingField,
		becameSetRule(4, "demo_date"),
	}

	matches := Evaluate(context.Background(), rules,
		models.FieldSnapshot{},
		models.FieldSnapshot{"demo_date": "2024-06-01", "status": "live"})

	if assert.Len(t, matches, 1) {
		assert.Equal(t, int64(4), matches[0].ID)
	}
}
