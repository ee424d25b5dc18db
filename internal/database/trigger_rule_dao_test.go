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
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/medzi83/project-app-sub004/internal/models"
)

func TestTriggerRuleDaoTestSuite(t *testing.T) {
	suite.Run(t, new(TriggerRuleDaoTestSuite))
}

type TriggerRuleDaoTestSuite struct {
	baseDatabaseTestSuite

	triggerRuleDao TriggerRuleDao
}

func (s *TriggerRuleDaoTestSuite) SetupSuite() {
	s.triggerRuleDao = NewTriggerRuleDao()
}

func (s *TriggerRuleDaoTestSuite) TestInsert() {
	s.requireFixtures()

	rule := models.TriggerRuleEntity{
		Name:       "demo date set",
		EntityKind: "project",
		WatchField: "demoDate",
		Operator:   models.OperatorBecameSet,
		TemplateID: 7,
		Active:     true,
	}

	s.Assert().Zero(rule.ID)
	s.Assert().NoError(s.triggerRuleDao.Insert(s.ctx, s.conn, &rule))
	s.Assert().NotZero(rule.ID)

	s.assertQuery(
		`
			select "name", "entity_kind", "watch_field", "operator", "active"
			from "trigger_rules" ;
		`,
		[]string{"demo date set", "project", "demoDate", "became_set", "1"},
	)
}

func (s *TriggerRuleDaoTestSuite) TestFindActiveByEntityKindOrder() {
	s.requireFixtures()
	s.requireExec(
		`
			insert into "trigger_rules"
				( "id", "name", "entity_kind", "watch_field", "operator", "compare_value", "template_id", "active" )
			values
				( 3, 'third',    'project', 'demoDate',   'became_set', null,   7, true ) ,
				( 1, 'first',    'project', 'onlineDate', 'equals',     'soon', 7, true ) ,
				( 2, 'inactive', 'project', 'demoDate',   'became_set', null,   7, false ) ,
				( 4, 'other',    'invoice', 'dueDate',    'became_set', null,   7, true ) ;
		`)

	rules, err := s.triggerRuleDao.FindActiveByEntityKind(s.ctx, s.conn, "project")
	s.Require().NoError(err)
	s.Require().Len(rules, 2)

	s.Assert().Equal("first", rules[0].Name)
	s.Assert().Equal("third", rules[1].Name)
}

func (s *TriggerRuleDaoTestSuite) TestLegacyOperatorIsNormalizedOnLoad() {
	s.requireFixtures()
	s.requireExec(
		`
			insert into "trigger_rules"
				( "id", "name", "entity_kind", "watch_field", "operator", "template_id", "active" )
			values
				( 1, 'legacy', 'project', 'demoDate', 'date_set', 7, true ) ;
		`)

	rule, err := s.triggerRuleDao.FindByID(s.ctx, s.conn, 1)
	s.Require().NoError(err)
	s.Assert().Equal(models.OperatorBecameSet, rule.Operator)

	rules, err := s.triggerRuleDao.FindActiveByEntityKind(s.ctx, s.conn, "project")
	s.Require().NoError(err)
	s.Require().Len(rules, 1)
	s.Assert().Equal(models.OperatorBecameSet, rules[0].Operator)
}

func (s *TriggerRuleDaoTestSuite) TestUpdate() {
	s.requireFixtures()
	s.requireExec(
		`
			insert into "trigger_rules"
				( "id", "name", "entity_kind", "watch_field", "operator", "template_id", "active" )
			values
				( 1, 'rule', 'project', 'demoDate', 'became_set', 7, true ) ;
		`)

	rule, err := s.triggerRuleDao.FindByID(s.ctx, s.conn, 1)
	s.Require().NoError(err)

	rule.Active = false
	s.Assert().NoError(s.triggerRuleDao.Update(s.ctx, s.conn, rule))

	s.assertQuery(`select "active" from "trigger_rules" ;`, []string{"0"})
}
