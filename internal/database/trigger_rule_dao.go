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

package database

import (
	"context"

	"github.com/medzi83/project-app-sub004/internal/models"
)

// TriggerRuleDao is a data access object for all trigger rule related queries.
type TriggerRuleDao interface {
	// Insert inserts a new trigger rule.
	Insert(context.Context, Queryer, *models.TriggerRuleEntity) error
	// Update updates an existing trigger rule.
	Update(context.Context, Queryer, *models.TriggerRuleEntity) error
	// FindByID returns the trigger rule with the given id.
	FindByID(context.Context, Queryer, int64) (*models.TriggerRuleEntity, error)
	// FindAll returns all trigger rules in insertion order.
	FindAll(context.Context, Queryer) ([]models.TriggerRuleEntity, error)
	// FindActiveByEntityKind returns all active rules for an entity kind in insertion order.
	FindActiveByEntityKind(context.Context, Queryer, string) ([]models.TriggerRuleEntity, error)
}

// triggerRuleDao is the sqlite implementation of TriggerRuleDao.
type triggerRuleDao struct{}

// NewTriggerRuleDao creates a new TriggerRuleDao.
func NewTriggerRuleDao() TriggerRuleDao {
	return triggerRuleDao{}
}

func (triggerRuleDao) Insert(ctx context.Context, q Queryer, rule *models.TriggerRuleEntity) error {
	const query = `
		insert into "trigger_rules" (
			"name" ,
			"entity_kind" ,
			"watch_field" ,
			"operator" ,
			"compare_value" ,
			"template_id" ,
			"active"
		) values (
			:name ,
			:entity_kind ,
			:watch_field ,
			:operator ,
			:compare_value ,
			:template_id ,
			:active
		) ;
	`

	result, err := execNamed(ctx, q, query, rule)
	if err != nil {
		return err
	}

	rule.ID, err = result.LastInsertId()
	return err
}

func (triggerRuleDao) Update(ctx context.Context, q Queryer, rule *models.TriggerRuleEntity) error {
	const query = `
		update "trigger_rules"
		set "name"          = :name ,
			"entity_kind"   = :entity_kind ,
			"watch_field"   = :watch_field ,
			"operator"      = :operator ,
			"compare_value" = :compare_value ,
			"template_id"   = :template_id ,
			"active"        = :active
		where "id" = :id ;
	`

	result, err := execNamed(ctx, q, query, rule)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (triggerRuleDao) FindByID(ctx context.Context, q Queryer, id int64) (*models.TriggerRuleEntity, error) {
	const query = `
		select *
		from "trigger_rules"
		where "id" = $1 ;
	`

	var rule models.TriggerRuleEntity

	if err := selectOne(ctx, q, &rule, query, id); err != nil {
		return nil, err
	}

	rule.Normalize()
	return &rule, nil
}

func (triggerRuleDao) FindAll(ctx context.Context, q Queryer) ([]models.TriggerRuleEntity, error) {
	const query = `
		select *
		from "trigger_rules"
		order by "id" asc ;
	`

	return selectNormalizedRules(ctx, q, query)
}

func (triggerRuleDao) FindActiveByEntityKind(
	ctx context.Context,
	q Queryer,
	entityKind string,
) ([]models.TriggerRuleEntity, error) {
	const query = `
		select *
		from "trigger_rules"
		where "active"
		  and "entity_kind" = $1
		order by "id" asc ;
	`

	return selectNormalizedRules(ctx, q, query, entityKind)
}

// selectNormalizedRules loads rules and rewrites legacy operator labels, so the rest of the
// application only deals with canonical operators.
func selectNormalizedRules(
	ctx context.Context,
	q Queryer,
	query string,
	args ...any,
) ([]models.TriggerRuleEntity, error) {
	var ruleSlice []models.TriggerRuleEntity

	if err := selectSlice(ctx, q, &ruleSlice, query, args...); err != nil {
		return nil, err
	}

	for i := range ruleSlice {
		ruleSlice[i].Normalize()
	}

	return ruleSlice, nil
}
