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
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/medzi83/project-app-sub004/internal/models"
)

var (
	errNoClients        = errors.New("there are no clients configured")
	errNoTemplates      = errors.New("there are no templates configured")
	errNoTriggerRules   = errors.New("there are no trigger rules configured")
	errNoTransports     = errors.New("there are no transports configured")
	errNoPendingEntries = errors.New("there are no entries awaiting confirmation")
	errNoFailedEntries  = errors.New("there are no failed entries")
)

func addClient(ctx *cmdContext) error {
	name, err := ctx.ask("Client name: ")
	if err != nil {
		return err
	}

	contactAddress, err := ctx.ask("Contact address: ")
	if err != nil {
		return err
	}

	signature, err := ctx.askOptional("Signature (optional): ", "")
	if err != nil {
		return err
	}

	client := models.ClientEntity{
		Name:           name,
		ContactAddress: contactAddress,
		Signature:      sql.NullString{String: signature, Valid: signature != ""},
	}

	if err := ctx.clientDao.Insert(ctx, ctx.tx, &client); err != nil {
		return fmt.Errorf("could not store new client %q: %w", name, err)
	}

	ctx.info("Client %q added with id=%d.", name, client.ID)
	return nil
}

func editClient(ctx *cmdContext) error {
	client, err := selectOneClient(ctx)
	if err != nil {
		return err
	}

	client.Name, err = ctx.askWithDefault("Client name: ", client.Name)
	if err != nil {
		return err
	}

	client.ContactAddress, err = ctx.askWithDefault("Contact address: ", client.ContactAddress)
	if err != nil {
		return err
	}

	signature, err := ctx.askOptional("Signature (optional): ", client.Signature.String)
	if err != nil {
		return err
	}

	client.Signature = sql.NullString{String: signature, Valid: signature != ""}

	if err := ctx.clientDao.Update(ctx, ctx.tx, client); err != nil {
		return fmt.Errorf("could not update client %q: %w", client.Name, err)
	}

	ctx.info("Client %q updated.", client.Name)
	return nil
}

func infoClient(ctx *cmdContext) error {
	client, err := selectOneClient(ctx)
	if err != nil {
		return err
	}

	recordSlice, err := ctx.deliveryLogDao.FindByClient(ctx, ctx.tx, client.ID)
	if err != nil {
		return err
	}

	ctx.info("ID:      %d", client.ID)
	ctx.info("Name:    %q", client.Name)
	ctx.info("Contact: %s", client.ContactAddress)
	ctx.info("")
	ctx.info("(%d) Delivery attempts", len(recordSlice))

	for _, record := range recordSlice {
		outcome := "ok"
		if !record.Success {
			outcome = record.ErrorText.String
		}

		ctx.info("  %s  %-30q  %s",
			time.Unix(record.LoggedAt, 0).Format(time.RFC3339),
			record.Subject,
			outcome)
	}

	return nil
}

func addTemplate(ctx *cmdContext) error {
	name, err := ctx.ask("Template name: ")
	if err != nil {
		return err
	}

	subject, err := ctx.ask("Subject: ")
	if err != nil {
		return err
	}

	body, err := ctx.ask("Body: ")
	if err != nil {
		return err
	}

	template := models.TemplateEntity{
		Name:    name,
		Subject: subject,
		Body:    body,
	}

	if err := ctx.templateDao.Insert(ctx, ctx.tx, &template); err != nil {
		return fmt.Errorf("could not store new template %q: %w", name, err)
	}

	ctx.info("Template %q added with id=%d.", name, template.ID)
	return nil
}

func editTemplate(ctx *cmdContext) error {
	template, err := selectOneTemplate(ctx)
	if err != nil {
		return err
	}

	template.Name, err = ctx.askWithDefault("Template name: ", template.Name)
	if err != nil {
		return err
	}

	template.Subject, err = ctx.askWithDefault("Subject: ", template.Subject)
	if err != nil {
		return err
	}

	template.Body, err = ctx.askWithDefault("Body: ", template.Body)
	if err != nil {
		return err
	}

	if err := ctx.templateDao.Update(ctx, ctx.tx, template); err != nil {
		return fmt.Errorf("could not update template %q: %w", template.Name, err)
	}

	ctx.info("Template %q updated.", template.Name)
	return nil
}

func addTriggerRule(ctx *cmdContext) error {
	name, err := ctx.ask("Rule name: ")
	if err != nil {
		return err
	}

	watchField, err := ctx.ask("Watched project field: ")
	if err != nil {
		return err
	}

	operator, err := selectOperator()
	if err != nil {
		return err
	}

	var compareValue sql.NullString

	if operator == models.OperatorEquals {
		value, err := ctx.ask("Compare value: ")
		if err != nil {
			return err
		}

		compareValue = sql.NullString{String: value, Valid: true}
	}

	template, err := selectOneTemplate(ctx)
	if err != nil {
		return err
	}

	rule := models.TriggerRuleEntity{
		Name:         name,
		EntityKind:   "project",
		WatchField:   watchField,
		Operator:     operator,
		CompareValue: compareValue,
		TemplateID:   template.ID,
		Active:       true,
	}

	if err := ctx.triggerRuleDao.Insert(ctx, ctx.tx, &rule); err != nil {
		return fmt.Errorf("could not store new trigger rule %q: %w", name, err)
	}

	ctx.info("Trigger rule %q added with id=%d.", name, rule.ID)
	return nil
}

func toggleTriggerRule(ctx *cmdContext) error {
	rule, err := selectOneTriggerRule(ctx)
	if err != nil {
		return err
	}

	rule.Active = !rule.Active

	if err := ctx.triggerRuleDao.Update(ctx, ctx.tx, rule); err != nil {
		return fmt.Errorf("could not update trigger rule %q: %w", rule.Name, err)
	}

	state := "deactivated"
	if rule.Active {
		state = "activated"
	}

	ctx.info("Trigger rule %q %s.", rule.Name, state)
	return nil
}

func addTransportConfig(ctx *cmdContext) error {
	config := models.TransportConfigEntity{}

	isDefault, err := askYesNo(ctx, "Use as the default transport? [y/n]: ")
	if err != nil {
		return err
	}

	if !isDefault {
		client, err := selectOneClient(ctx)
		if err != nil {
			return err
		}

		config.ClientID = sql.NullInt64{Int64: client.ID, Valid: true}
	}

	config.Host, err = ctx.ask("Host: ")
	if err != nil {
		return err
	}

	port, err := ctx.ask("Port: ")
	if err != nil {
		return err
	}

	config.Port, err = strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("could not parse port %q: %w", port, err)
	}

	config.UseTLS, err = askYesNo(ctx, "Require starttls? [y/n]: ")
	if err != nil {
		return err
	}

	username, err := ctx.askOptional("Username (optional): ", "")
	if err != nil {
		return err
	}

	config.Username = sql.NullString{String: username, Valid: username != ""}

	if username != "" {
		password, err := ctx.password("Password: ")
		if err != nil {
			return err
		}

		config.Password = sql.NullString{String: string(password), Valid: len(password) > 0}
	}

	config.FromAddress, err = ctx.ask("From address: ")
	if err != nil {
		return err
	}

	config.FromName, err = ctx.ask("From name: ")
	if err != nil {
		return err
	}

	if err := ctx.transportConfigDao.Insert(ctx, ctx.tx, &config); err != nil {
		return fmt.Errorf("could not store new transport %q: %w", config.Host, err)
	}

	ctx.info("Transport %q added with id=%d.", config.Host, config.ID)
	return nil
}

func deleteTransportConfig(ctx *cmdContext) error {
	config, err := selectOneTransportConfig(ctx)
	if err != nil {
		return err
	}

	if err := ctx.transportConfigDao.Delete(ctx, ctx.tx, config); err != nil {
		return fmt.Errorf("could not delete transport %q: %w", config.Host, err)
	}

	ctx.info("Transport %q deleted.", config.Host)
	return nil
}

func listPendingEntries(ctx *cmdContext) error {
	entrySlice, err := ctx.queue.ListAwaitingConfirmation(ctx)
	if err != nil {
		return err
	}

	ctx.info("(%d) Entries awaiting confirmation", len(entrySlice))

	for _, entry := range entrySlice {
		ctx.info("  %s", describeEntry(&entry))
	}

	return nil
}

func confirmEntries(ctx *cmdContext) error {
	entrySlice, err := selectPendingEntries(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entrySlice {
		if err := ctx.queue.Confirm(ctx, entry.ID); err != nil {
			return fmt.Errorf("could not confirm entry #%d: %w", entry.ID, err)
		}

		ctx.info("Entry #%d confirmed.", entry.ID)
	}

	return nil
}

func editEntryRecipient(ctx *cmdContext) error {
	entry, err := selectOnePendingEntry(ctx)
	if err != nil {
		return err
	}

	recipient, err := ctx.askWithDefault("Recipient: ", entry.Recipient)
	if err != nil {
		return err
	}

	if err := ctx.queue.UpdateRecipient(ctx, entry.ID, recipient); err != nil {
		return fmt.Errorf("could not update recipient of entry #%d: %w", entry.ID, err)
	}

	ctx.info("Recipient of entry #%d changed to %q.", entry.ID, recipient)
	return nil
}

func requeueEntries(ctx *cmdContext) error {
	entrySlice, err := ctx.queue.ListByStatus(ctx, models.StatusFailed)
	if err != nil {
		return err
	}

	if len(entrySlice) == 0 {
		return errNoFailedEntries
	}

	indices, err := fuzzyfinder.FindMulti(entrySlice, mapEntrySearch(entrySlice))
	if err != nil {
		return err
	}

	for _, index := range indices {
		entry := &entrySlice[index]

		if err := ctx.queue.Requeue(ctx, entry.ID); err != nil {
			return fmt.Errorf("could not requeue entry #%d: %w", entry.ID, err)
		}

		ctx.info("Entry #%d queued for another attempt.", entry.ID)
	}

	return nil
}

func composeMail(ctx *cmdContext) error {
	client, err := selectOneClient(ctx)
	if err != nil {
		return err
	}

	recipient, err := ctx.askWithDefault("Recipient: ", client.ContactAddress)
	if err != nil {
		return err
	}

	subject, err := ctx.ask("Subject: ")
	if err != nil {
		return err
	}

	body, err := ctx.ask("Body: ")
	if err != nil {
		return err
	}

	preConfirmed, err := askYesNo(ctx, "Skip confirmation? [y/n]: ")
	if err != nil {
		return err
	}

	id, err := ctx.engine.EnqueueManual(ctx, client.ID, recipient, subject, body, preConfirmed)
	if err != nil {
		return fmt.Errorf("could not stage mail for client %q: %w", client.Name, err)
	}

	ctx.info("Mail staged as entry #%d.", id)
	return nil
}

func runDispatch(ctx *cmdContext) error {
	summary, err := ctx.worker.ProcessQueue(ctx)
	if err != nil {
		return err
	}

	ctx.info("Sent:   %d", summary.Sent)
	ctx.info("Failed: %d", summary.Failed)

	for _, message := range summary.Errors {
		ctx.info("  %s", message)
	}

	return nil
}

func askYesNo(ctx *cmdContext, prompt string) (bool, error) {
	for {
		answer, err := ctx.ask(prompt)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

func selectOneClient(ctx *cmdContext) (*models.ClientEntity, error) {
	clientSlice, err := ctx.clientDao.FindAll(ctx, ctx.tx)
	if err != nil {
		return nil, err
	}

	if len(clientSlice) == 0 {
		return nil, errNoClients
	}

	index, err := fuzzyfinder.Find(clientSlice, func(i int) string {
		return clientSlice[i].Name
	})

	if err != nil {
		return nil, err
	}

	return &clientSlice[index], nil
}

func selectOneTemplate(ctx *cmdContext) (*models.TemplateEntity, error) {
	templateSlice, err := ctx.templateDao.FindAll(ctx, ctx.tx)
	if err != nil {
		return nil, err
	}

	if len(templateSlice) == 0 {
		return nil, errNoTemplates
	}

	index, err := fuzzyfinder.Find(templateSlice, func(i int) string {
		return templateSlice[i].Name
	})

	if err != nil {
		return nil, err
	}

	return &templateSlice[index], nil
}

func selectOneTriggerRule(ctx *cmdContext) (*models.TriggerRuleEntity, error) {
	ruleSlice, err := ctx.triggerRuleDao.FindAll(ctx, ctx.tx)
	if err != nil {
		return nil, err
	}

	if len(ruleSlice) == 0 {
		return nil, errNoTriggerRules
	}

	index, err := fuzzyfinder.Find(ruleSlice, func(i int) string {
		return ruleSlice[i].Name
	})

	if err != nil {
		return nil, err
	}

	return &ruleSlice[index], nil
}

func selectOneTransportConfig(ctx *cmdContext) (*models.TransportConfigEntity, error) {
	configSlice, err := ctx.transportConfigDao.FindAll(ctx, ctx.tx)
	if err != nil {
		return nil, err
	}

	if len(configSlice) == 0 {
		return nil, errNoTransports
	}

	index, err := fuzzyfinder.Find(configSlice, func(i int) string {
		config := configSlice[i]

		if config.ClientID.Valid {
			return fmt.Sprintf("%s (client #%d)", config.Host, config.ClientID.Int64)
		}

		return config.Host + " (default)"
	})

	if err != nil {
		return nil, err
	}

	return &configSlice[index], nil
}

func selectPendingEntries(ctx *cmdContext) ([]models.QueueEntryEntity, error) {
	entrySlice, err := ctx.queue.ListAwaitingConfirmation(ctx)
	if err != nil {
		return nil, err
	}

	if len(entrySlice) == 0 {
		return nil, errNoPendingEntries
	}

	indices, err := fuzzyfinder.FindMulti(entrySlice, mapEntrySearch(entrySlice))
	if err != nil {
		return nil, err
	}

	selectedEntries := make([]models.QueueEntryEntity, len(indices))
	for i, index := range indices {
		selectedEntries[i] = entrySlice[index]
	}

	return selectedEntries, nil
}

func selectOnePendingEntry(ctx *cmdContext) (*models.QueueEntryEntity, error) {
	entrySlice, err := ctx.queue.ListAwaitingConfirmation(ctx)
	if err != nil {
		return nil, err
	}

	if len(entrySlice) == 0 {
		return nil, errNoPendingEntries
	}

	index, err := fuzzyfinder.Find(entrySlice, mapEntrySearch(entrySlice))
	if err != nil {
		return nil, err
	}

	return &entrySlice[index], nil
}

func mapEntrySearch(entrySlice []models.QueueEntryEntity) func(int) string {
	return func(i int) string {
		return describeEntry(&entrySlice[i])
	}
}

func describeEntry(entry *models.QueueEntryEntity) string {
	return fmt.Sprintf("#%d %s: %q", entry.ID, entry.Recipient, entry.Subject)
}
