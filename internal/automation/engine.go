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
	"strconv"

	"github.com/medzi83/project-app-sub004/internal/crypto"
	"github.com/medzi83/project-app-sub004/internal/database"
	"github.com/medzi83/project-app-sub004/internal/log"
	"github.com/medzi83/project-app-sub004/internal/models"
	"github.com/medzi83/project-app-sub004/internal/templates"
)

// projectEntityKind is the entity kind trigger rules are matched against when a project
// field changes.
const projectEntityKind = "project"

// Engine turns project field transitions into staged queue entries. It is the write side
// of the automation core; the dispatch worker is the read side.
type Engine struct {
	conn           database.Conn
	triggerRuleDao database.TriggerRuleDao
	templateDao    database.TemplateDao
	clientDao      database.ClientDao
	queue          *Queue
}

// NewEngine creates a new Engine.
func NewEngine(
	conn database.Conn,
	triggerRuleDao database.TriggerRuleDao,
	templateDao database.TemplateDao,
	clientDao database.ClientDao,
	queue *Queue,
) *Engine {
	return &Engine{
		conn:           conn,
		triggerRuleDao: triggerRuleDao,
		templateDao:    templateDao,
		clientDao:      clientDao,
		queue:          queue,
	}
}

// NotifyFieldTransition evaluates all active project rules against the field transition
// and stages one queue entry per newly satisfied rule. It returns the ids of the created
// entries. A transition that was already reacted to produces no new entries, because the
// entry's idempotency key collides with the earlier one. Rules are isolated from each
// other: a rule whose template or content is broken is logged and skipped.
func (e *Engine) NotifyFieldTransition(
	ctx context.Context,
	projectID, clientID int64,
	before, after models.FieldSnapshot,
) ([]int64, error) {
	ctx = log.WithClient(ctx, clientID)

	rules, err := e.triggerRuleDao.FindActiveByEntityKind(ctx, e.conn, projectEntityKind)
	if err != nil {
		return nil, err
	}

	matches := Evaluate(ctx, rules, before, after)
	if len(matches) == 0 {
		return nil, nil
	}

	client, err := e.clientDao.FindByID(ctx, e.conn, clientID)
	if err != nil {
		return nil, err
	}

	renderContext := newRenderContext(client, after)

	var entryIDSlice []int64

	for _, rule := range matches {
		ruleCtx := log.WithTrigger(ctx, rule.ID)

		id, err := e.stageRuleMatch(ruleCtx, &rule, client, projectID, after, renderContext)

		switch {
		case database.IsErrUnique(err):
			log.DebugContext(ruleCtx).
				Msg("transition was already reacted to, skipping")

		case err != nil:
			log.WarnContext(ruleCtx).
				Err(err).
				Msg("could not stage entry for rule")

		default:
			entryIDSlice = append(entryIDSlice, id)
		}
	}

	return entryIDSlice, nil
}

func (e *Engine) stageRuleMatch(
	ctx context.Context,
	rule *models.TriggerRuleEntity,
	client *models.ClientEntity,
	projectID int64,
	after models.FieldSnapshot,
	renderContext templates.Context,
) (int64, error) {
	template, err := e.templateDao.FindByID(ctx, e.conn, rule.TemplateID)
	if err != nil {
		return 0, err
	}

	value, _ := after.Get(rule.WatchField)

	draft := Draft{
		TriggerID: sql.NullInt64{Int64: rule.ID, Valid: true},
		ClientID:  client.ID,
		ProjectID: sql.NullInt64{Int64: projectID, Valid: true},
		Recipient: client.ContactAddress,
		Subject:   templates.Render(template.Subject, renderContext),
		Body: templates.AppendSignature(
			templates.Render(template.Body, renderContext),
			client.Signature.String,
			renderContext),
		IdempotencyKey: sql.NullString{
			String: idempotencyKey(rule.ID, projectID, rule.WatchField, value),
			Valid:  true,
		},
	}

	return e.queue.Enqueue(ctx, &draft)
}

// EnqueueManual stages a hand-written mail for a client. The body still receives the
// client signature. With preConfirmed set the entry skips confirmation and is picked up
// by the next dispatch run.
func (e *Engine) EnqueueManual(
	ctx context.Context,
	clientID int64,
	recipient, subject, body string,
	preConfirmed bool,
) (int64, error) {
	client, err := e.clientDao.FindByID(ctx, e.conn, clientID)
	if err != nil {
		return 0, err
	}

	renderContext := newRenderContext(client, nil)

	draft := Draft{
		ClientID:     clientID,
		Recipient:    recipient,
		Subject:      templates.Render(subject, renderContext),
		Body:         templates.AppendSignature(templates.Render(body, renderContext), client.Signature.String, renderContext),
		PreConfirmed: preConfirmed,
	}

	return e.queue.Enqueue(log.WithClient(ctx, clientID), &draft)
}

// newRenderContext exposes the project fields under the "project." namespace and the
// client master data under "client.".
func newRenderContext(client *models.ClientEntity, fields models.FieldSnapshot) templates.Context {
	context := make(templates.Context, len(fields)+2)

	for field, value := range fields {
		context["project."+field] = value
	}

	context["client.name"] = client.Name
	context["client.contact"] = client.ContactAddress

	return context
}

// idempotencyKey identifies a reacted-to transition. A field cleared and later set to the
// same value again maps to the same key and is therefore suppressed, a different value
// fires again.
func idempotencyKey(triggerID, projectID int64, field, value string) string {
	return crypto.Digest(
		strconv.FormatInt(triggerID, 10),
		strconv.FormatInt(projectID, 10),
		field,
		value)
}
