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

package main

import (
	"context"

	"github.com/medzi83/project-app-sub004/internal/automation"
	"github.com/medzi83/project-app-sub004/internal/database"
	"github.com/medzi83/project-app-sub004/internal/log"
)

type dispatchCommand struct {
	Conn   database.Conn
	Worker *automation.Worker
}

func (c *dispatchCommand) run() error {
	defer c.Conn.Close()

	summary, err := c.Worker.ProcessQueue(context.Background())
	if err != nil {
		return err
	}

	for _, message := range summary.Errors {
		log.Warn().Str("reason", message).Msg("dispatch error")
	}

	log.Info().
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Msg("dispatch complete")

	return nil
}
