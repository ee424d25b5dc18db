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
	"github.com/medzi83/project-app-sub004/internal/database"
	"github.com/medzi83/project-app-sub004/internal/shell"
)

type shellCommand struct {
	Conn  database.Conn
	Shell *shell.Shell
}

func (c *shellCommand) run() error {
	defer c.Conn.Close()

	return c.Shell.Run()
}
