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

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/medzi83/project-app-sub004/internal/automation"
	"github.com/medzi83/project-app-sub004/internal/database"
)

// Shell is an interactive shell to manage clients, templates, trigger rules, transports
// and the mail queue.
type Shell struct {
	conn               database.Conn
	clientDao          database.ClientDao
	templateDao        database.TemplateDao
	triggerRuleDao     database.TriggerRuleDao
	transportConfigDao database.TransportConfigDao
	deliveryLogDao     database.DeliveryLogDao
	queue              *automation.Queue
	engine             *automation.Engine
	worker             *automation.Worker

	commands cmdSlice
}

// NewShell creates a new shell instance.
func NewShell(
	conn database.Conn,
	clientDao database.ClientDao,
	templateDao database.TemplateDao,
	triggerRuleDao database.TriggerRuleDao,
	transportConfigDao database.TransportConfigDao,
	deliveryLogDao database.DeliveryLogDao,
	queue *automation.Queue,
	engine *automation.Engine,
	worker *automation.Worker,
) *Shell {
	return &Shell{
		conn:               conn,
		clientDao:          clientDao,
		templateDao:        templateDao,
		triggerRuleDao:     triggerRuleDao,
		transportConfigDao: transportConfigDao,
		deliveryLogDao:     deliveryLogDao,
		queue:              queue,
		engine:             engine,
		worker:             worker,
		commands: cmdSlice{
			{
				name: "client",
				help: "Manage the clients of this portal.",
				children: cmdSlice{
					{
						name:   "add",
						help:   "Add a new client.",
						action: addClient,
					},
					{
						name:   "edit",
						help:   "Edit an existing client.",
						action: editClient,
					},
					{
						name:   "info",
						help:   "Show a client including its recent delivery log.",
						action: infoClient,
					},
				},
			},
			{
				name: "template",
				help: "Manage the mail templates referenced by trigger rules.",
				children: cmdSlice{
					{
						name:   "add",
						help:   "Add a new template.",
						action: addTemplate,
					},
					{
						name:   "edit",
						help:   "Edit an existing template.",
						action: editTemplate,
					},
				},
			},
			{
				name: "trigger",
				help: "Manage the trigger rules reacting to project field changes.",
				children: cmdSlice{
					{
						name:   "add",
						help:   "Add a new trigger rule.",
						action: addTriggerRule,
					},
					{
						name:   "toggle",
						help:   "Activate or deactivate an existing trigger rule.",
						action: toggleTriggerRule,
					},
				},
			},
			{
				name: "transport",
				help: "Manage the smtp transports used for delivery.",
				children: cmdSlice{
					{
						name:   "add",
						help:   "Add a client specific or default transport.",
						action: addTransportConfig,
					},
					{
						name:   "delete",
						help:   "Delete an existing transport.",
						action: deleteTransportConfig,
					},
				},
			},
			{
				name: "queue",
				help: "Inspect and manage the mail queue.",
				children: cmdSlice{
					{
						name:   "pending",
						help:   "List the entries awaiting confirmation.",
						action: listPendingEntries,
					},
					{
						name:   "confirm",
						help:   "Release pending entries into the dispatch queue.",
						action: confirmEntries,
					},
					{
						name:   "recipient",
						help:   "Change the recipient of a pending entry.",
						action: editEntryRecipient,
					},
					{
						name:   "requeue",
						help:   "Put failed entries back into the dispatch queue.",
						action: requeueEntries,
					},
					{
						name:   "compose",
						help:   "Stage a hand-written mail for a client.",
						action: composeMail,
					},
				},
			},
			{
				name:   "dispatch",
				help:   "Attempt delivery for every confirmed entry once.",
				action: runDispatch,
			},
		},
	}
}

// Run starts the shell read loop.
func (s *Shell) Run() error {
	config := readline.Config{
		AutoComplete: readline.NewPrefixCompleter(s.commands.buildCompleters()...),
	}

	rl, err := readline.NewEx(&config)
	if err != nil {
		return err
	}

	defer rl.Close()

	for {
		rl.SetPrompt(">>> ")

		line, err := rl.Readline()
		if err != nil {
			if isUnimportantError(err) {
				return nil
			}

			return err
		}

		args := strings.Fields(line)
		if err := s.handleCommand(rl, args); err != nil && !isUnimportantError(err) {
			fmt.Printf("\nERROR:\n  %s\n\n", err)
		}
	}
}

func isUnimportantError(err error) bool {
	return errors.Is(err, fuzzyfinder.ErrAbort) ||
		errors.Is(err, readline.ErrInterrupt) ||
		errors.Is(err, io.EOF)
}

type cmdFunc func(*cmdContext) error

type cmdSlice []cmdDef

func (s cmdSlice) lookup(args []string) (cmdDef, bool) {
	if len(s) > 0 && len(args) > 0 {
		var (
			head = args[0]
			tail = args[1:]
		)

		for _, cmd := range s {
			if head == cmd.name {
				if len(tail) > 0 {
					return cmd.children.lookup(tail)
				}

				return cmd, true
			}
		}
	}

	return cmdDef{}, false
}

func (s cmdSlice) buildCompleters() []readline.PrefixCompleterInterface {
	var completers []readline.PrefixCompleterInterface

	for _, cmd := range s {
		cmdCompleter := readline.PcItem(cmd.name, cmd.children.buildCompleters()...)
		completers = append(completers, cmdCompleter)
	}

	return completers
}

type cmdDef struct {
	name     string
	help     string
	action   cmdFunc
	children cmdSlice
}

type cmdContext struct {
	context.Context
	*Shell

	rl        *readline.Instance
	tx        database.Tx
	infoLines []string
}

func (c *cmdContext) info(format string, v ...interface{}) {
	text := fmt.Sprintf(format, v...)
	c.infoLines = append(c.infoLines, text)
}

func (c *cmdContext) ask(prompt string) (string, error) {
	return c.askWithDefault(prompt, "")
}

func (c *cmdContext) askWithDefault(prompt, defaultValue string) (string, error) {
	c.rl.HistoryDisable()
	defer c.rl.HistoryEnable()

	c.rl.SetPrompt(prompt)

	for {
		answer, err := c.rl.ReadlineWithDefault(defaultValue)
		if err != nil || len(answer) > 0 {
			return answer, err
		}
	}
}

func (c *cmdContext) askOptional(prompt, defaultValue string) (string, error) {
	c.rl.HistoryDisable()
	defer c.rl.HistoryEnable()

	c.rl.SetPrompt(prompt)
	return c.rl.ReadlineWithDefault(defaultValue)
}

func (c *cmdContext) password(prompt string) ([]byte, error) {
	c.rl.HistoryDisable()
	defer c.rl.HistoryEnable()

	return c.rl.ReadPassword(prompt)
}

func (s *Shell) handleCommand(rl *readline.Instance, args []string) error {
	cmd, ok := s.commands.lookup(args)
	if ok {
		if cmd.action != nil {
			return s.executeCommand(rl, cmd)
		}

		printCommandHelp(cmd)
	} else {
		printCommandUnknown(s.commands, args)
	}

	return nil
}

func (s *Shell) executeCommand(rl *readline.Instance, cmd cmdDef) error {
	ctx := context.Background()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}

	cmdCtx := cmdContext{
		Context: ctx,
		Shell:   s,
		rl:      rl,
		tx:      tx,
	}

	if err := cmd.action(&cmdCtx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if len(cmdCtx.infoLines) > 0 {
		fmt.Println()

		for _, infoLine := range cmdCtx.infoLines {
			fmt.Print("  ")
			fmt.Println(infoLine)
		}

		fmt.Println()
	}

	return nil
}

func printCommandUnknown(cmds cmdSlice, args []string) {
	fmt.Printf("\n  Unknown command %q\n", strings.Join(args, " "))
	printCommandUsage(cmds)
}

func printCommandHelp(cmd cmdDef) {
	fmt.Printf("\n  %s\n", cmd.help)
	printCommandUsage(cmd.children)
}

func printCommandUsage(cmds cmdSlice) {
	if len(cmds) > 0 {
		fmt.Println()
		fmt.Println("Commands:")

		for _, cmd := range cmds {
			fmt.Printf("  %-10s  %s\n", cmd.name, cmd.help)
		}
	}

	fmt.Println()
}
