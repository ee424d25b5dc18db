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

package delivery

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/medzi83/project-app-sub004/internal/database"
	"github.com/medzi83/project-app-sub004/internal/models"
)

func TestResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

type ResolverTestSuite struct {
	suite.Suite

	ctx      context.Context
	conn     database.Conn
	resolver Resolver
}

func (s *ResolverTestSuite) SetupTest() {
	viper.Set("storage.database.filename", ":memory:")
	viper.Set("storage.database.journalmode", "memory")

	conn, err := database.OpenConnection()
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.conn = conn
	s.resolver = NewResolver(conn, database.NewTransportConfigDao())

	_, err = conn.ExecContext(s.ctx,
		`
			insert into "clients"
				( "id", "name", "contact_address" )
			values
				( 42, 'Acme',   'office@acme.example' ) ,
				( 43, 'Globex', 'office@globex.example' ) ;
		`)
	s.Require().NoError(err)
}

func (s *ResolverTestSuite) TearDownTest() {
	s.Require().NoError(s.conn.Close())
}

func (s *ResolverTestSuite) insertConfigs(queries string) {
	_, err := s.conn.ExecContext(s.ctx, queries)
	s.Require().NoError(err)
}

func (s *ResolverTestSuite) TestResolveClientSpecific() {
	s.insertConfigs(
		`
			insert into "transport_configs"
				( "client_id", "host", "port", "use_tls", "from_address", "from_name" )
			values
				( null, 'default.example', 25,  false, 'noreply@default.example', 'Portal' ) ,
				( 42,   'acme.example',    587, true,  'noreply@acme.example',    'Acme' ) ;
		`)

	config, err := s.resolver.Resolve(s.ctx, 42)
	s.Require().NoError(err)
	s.Assert().Equal("acme.example", config.Host)
}

func (s *ResolverTestSuite) TestResolveFallsBackToDefault() {
	s.insertConfigs(
		`
			insert into "transport_configs"
				( "client_id", "host", "port", "use_tls", "from_address", "from_name" )
			values
				( null, 'default.example', 25, false, 'noreply@default.example', 'Portal' ) ,
				( 42,   'acme.example',    25, false, 'noreply@acme.example',    'Acme' ) ;
		`)

	config, err := s.resolver.Resolve(s.ctx, 43)
	s.Require().NoError(err)
	s.Assert().Equal("default.example", config.Host)
}

func (s *ResolverTestSuite) TestResolveMissing() {
	config, err := s.resolver.Resolve(s.ctx, 42)
	s.Require().Error(err)
	s.Assert().Nil(config)
	s.Assert().ErrorIs(err, ErrNoTransportConfig)
}

func TestEncryptionFor(t *testing.T) {
	for _, testcase := range []struct {
		name     string
		config   models.TransportConfigEntity
		expected Encryption
	}{
		{
			name:     "smtps port means implicit tls",
			config:   models.TransportConfigEntity{Port: 465, UseTLS: false},
			expected: EncryptionImplicitTLS,
		},
		{
			name:     "smtps port wins over tls flag",
			config:   models.TransportConfigEntity{Port: 465, UseTLS: true},
			expected: EncryptionImplicitTLS,
		},
		{
			name:     "tls flag means starttls",
			config:   models.TransportConfigEntity{Port: 587, UseTLS: true},
			expected: EncryptionStartTLS,
		},
		{
			name:     "neither means plaintext",
			config:   models.TransportConfigEntity{Port: 25, UseTLS: false},
			expected: EncryptionNone,
		},
	} {
		t.Run(testcase.name, func(t *testing.T) {
			assert.Equal(t, testcase.expected, EncryptionFor(&testcase.config))
		})
	}
}
