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
	"fmt"

	"github.com/medzi83/project-app-sub004/internal/log"
	"github.com/medzi83/project-app-sub004/internal/models"
)

// Evaluate returns the rules that are newly satisfied by the transition from before to
// after, preserving the order of the input slice. Rules are edge-triggered: a rule that
// was already satisfied by the before snapshot does not match again. Malformed rules are
// logged and skipped without affecting the remaining rules.
func Evaluate(
	ctx context.Context,
	rules []models.TriggerRuleEntity,
	before, after models.FieldSnapshot,
) []models.TriggerRuleEntity {
	var matches []models.TriggerRuleEntity

	for _, rule := range rules {
		if !rule.Active {
			continue
		}

		ok, err := evaluateRule(&rule, before, after)
		if err != nil {
			log.WarnContext(log.WithTrigger(ctx, rule.ID)).
				Err(err).
				Msg("skipping malformed trigger rule")

			continue
		}

		if ok {
			matches = append(matches, rule)
		}
	}

	return matches
}

func evaluateRule(rule *models.TriggerRuleEntity, before, after models.FieldSnapshot) (bool, error) {
	if rule.WatchField == "" {
		return false, fmt.Errorf("%w: rule has no watch field", ErrValidation)
	}

	switch rule.Operator {
	case models.OperatorBecameSet:
		return !before.IsSet(rule.WatchField) && after.IsSet(rule.WatchField), nil

	case models.OperatorEquals:
		if !rule.CompareValue.Valid {
			return false, fmt.Errorf("%w: rule has no compare value", ErrValidation)
		}

		var (
			beforeValue, _ = before.Get(rule.WatchField)
			afterValue, _  = after.Get(rule.WatchField)
		)

		return afterValue == rule.CompareValue.String &&
			beforeValue != rule.CompareValue.String, nil

	default:
		return false, fmt.Errorf("%w: unknown operator %q", ErrValidation, rule.Operator)
	}
}
