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

package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

func TestLogContextTestSuite(t *testing.T) {
	suite.Run(t, new(LogContextTestSuite))
}

type LogContextTestSuite struct {
	baseLogTestSuite
}

func (s *LogContextTestSuite) TestWithOrigin() {
	ctx := WithOrigin(context.TODO(), "origin1")
	InfoContext(ctx).Msg("TestWithOrigin")

	s.assertMsg("{\"level\":\"info\",\"origin\":\"origin1\",\"message\":\"TestWithOrigin\"}\n")
}

func (s *LogContextTestSuite) TestWithClient() {
	ctx := WithClient(context.TODO(), 42)
	InfoContext(ctx).Msg("TestWithClient")

	s.assertMsg("{\"level\":\"info\",\"client\":42,\"message\":\"TestWithClient\"}\n")
}

func (s *LogContextTestSuite) TestWithEntry() {
	ctx := WithEntry(context.TODO(), 123)
	InfoContext(ctx).Msg("TestWithEntry")

	s.assertMsg("{\"level\":\"info\",\"entry\":123,\"message\":\"TestWithEntry\"}\n")
}

func (s *LogContextTestSuite) TestWithBatch() {
	ctx := WithBatch(context.TODO(), "batch1")
	InfoContext(ctx).Msg("TestWithBatch")

	s.assertMsg("{\"level\":\"info\",\"batch\":\"batch1\",\"message\":\"TestWithBatch\"}\n")
}

func (s *LogContextTestSuite) TestWithAll() {
	ctx := context.TODO()
	ctx = WithClient(ctx, 42)
	ctx = WithEntry(ctx, 123)
	ctx = WithTrigger(ctx, 7)
	ctx = WithBatch(ctx, "batch2")
	ctx = WithOrigin(ctx, "origin2")
	InfoContext(ctx).Msg("TestWithAll")

	s.assertMsg("{\"level\":\"info\"," +
		"\"client\":42,\"entry\":123,\"trigger\":7,\"batch\":\"batch2\",\"origin\":\"origin2\"," +
		"\"message\":\"TestWithAll\"}\n")
}
