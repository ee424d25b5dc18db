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

func TestTemplateDaoTestSuite(t *testing.T) {
	suite.Run(t, new(TemplateDaoTestSuite))
}

type TemplateDaoTestSuite struct {
	baseDatabaseTestSuite

	templateDao TemplateDao
}

func (s *TemplateDaoTestSuite) SetupSuite() {
	s.templateDao = NewTemplateDao()
}

func (s *TemplateDaoTestSuite) TestInsert() {
	template := models.TemplateEntity{
		Name:    "demo-date",
		Subject: "Demo on {{project.demoDate}}",
		Body:    "Hello {{client.name}}",
	}

	s.Assert().Zero(template.ID)
	s.Assert().NoError(s.templateDao.Insert(s.ctx, s.conn, &template))
	s.Assert().NotZero(template.ID)

	s.assertQuery(
		`select "name", "subject" from "templates" ;`,
		[]string{"demo-date", "Demo on {{project.demoDate}}"},
	)
}

func (s *TemplateDaoTestSuite) TestFindByID() {
	s.requireFixtures()

	template, err := s.templateDao.FindByID(s.ctx, s.conn, 7)
	s.Require().NoError(err)
	s.Assert().Equal("demo-date", template.Name)

	template, err = s.templateDao.FindByID(s.ctx, s.conn, 999)
	s.Require().Error(err)
	s.Assert().Nil(template)
	s.Assert().True(IsErrNoRows(err))
}
