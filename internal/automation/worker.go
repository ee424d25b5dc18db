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
	"time"

	"github.com/medzi83/project-app-sub004/internal/crypto"
	"github.com/medzi83/project-app-sub004/internal/database"
	"github.com/medzi83/project-app-sub004/internal/delivery"
	"github.com/medzi83/project-app-sub004/internal/log"
	"github.com/medzi83/project-app-sub004/internal/models"
)

// Summary is the result of a single dispatch run.
type Summary struct {
	Sent   int
	Failed int
	Errors []string
}

// Worker drains the queue of confirmed entries. Runs may overlap: every entry is claimed
// with a conditional status update before it is touched, so each entry is attempted by at
// most one run.
type Worker struct {
	conn           database.Conn
	queueEntryDao  database.QueueEntryDao
	deliveryLogDao database.DeliveryLogDao
	resolver       delivery.Resolver
	courier        delivery.Courier
	ids            crypto.IDGenerator
}

// NewWorker creates a new Worker.
func NewWorker(
	conn database.Conn,
	queueEntryDao database.QueueEntryDao,
	deliveryLogDao database.DeliveryLogDao,
	resolver delivery.Resolver,
	courier delivery.Courier,
	ids crypto.IDGenerator,
) *Worker {
	return &Worker{
		conn:           conn,
		queueEntryDao:  queueEntryDao,
		deliveryLogDao: deliveryLogDao,
		resolver:       resolver,
		courier:        courier,
		ids:            ids,
	}
}

// ProcessQueue attempts delivery for every queued entry once, in creation order. A failed
// entry does not stop the run. Every attempt moves its entry to a terminal status and
// leaves exactly one delivery log record. The returned error is non-nil only when the run
// itself could not take place, per-entry failures are reported in the summary.
func (w *Worker) ProcessQueue(ctx context.Context) (*Summary, error) {
	batchID, err := w.ids.GenerateID()
	if err != nil {
		return nil, err
	}

	ctx = log.WithBatch(ctx, batchID)

	entrySlice, err := w.queueEntryDao.FindByStatus(ctx, w.conn, models.StatusQueued)
	if err != nil {
		return nil, err
	}

	summary := new(Summary)

	for i := range entrySlice {
		w.processEntry(ctx, summary, &entrySlice[i])
	}

	log.InfoContext(ctx).
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Msg("dispatch run finished")

	return summary, nil
}

func (w *Worker) processEntry(ctx context.Context, summary *Summary, entry *models.QueueEntryEntity) {
	ctx = log.WithEntry(log.WithClient(ctx, entry.ClientID), entry.ID)

	err := w.queueEntryDao.Transition(ctx, w.conn, entry.ID,
		models.StatusQueued,
		models.StatusSending)

	if database.IsErrNoRows(err) {
		log.DebugContext(ctx).
			Msg("entry was claimed by a concurrent run")

		return
	}

	if err != nil {
		w.recordStorageError(ctx, summary, err)
		return
	}

	config, err := w.resolver.Resolve(ctx, entry.ClientID)
	if err != nil {
		w.settle(ctx, summary, entry, "", err)
		return
	}

	err = w.courier.Send(ctx, config, &delivery.Envelope{
		Recipient: entry.Recipient,
		Subject:   entry.Subject,
		Body:      entry.Body,
	})

	w.settle(ctx, summary, entry, config.Host, err)
}

// settle moves a claimed entry to its terminal status and writes the attempt record. Both
// happen in one transaction, so the log can never show an attempt the queue does not know
// about.
func (w *Worker) settle(
	ctx context.Context,
	summary *Summary,
	entry *models.QueueEntryEntity,
	transportHost string,
	sendErr error,
) {
	status := models.StatusSent
	if sendErr != nil {
		status = models.StatusFailed
	}

	record := models.DeliveryLogEntity{
		ClientID:      entry.ClientID,
		ProjectID:     entry.ProjectID,
		Recipient:     entry.Recipient,
		Subject:       entry.Subject,
		Body:          entry.Body,
		Success:       sendErr == nil,
		TransportHost: transportHost,
		LoggedAt:      time.Now().Unix(),
	}

	if sendErr != nil {
		record.ErrorText = sql.NullString{String: sendErr.Error(), Valid: true}
	}

	if err := w.saveAttempt(ctx, entry.ID, status, transportHost, &record); err != nil {
		w.recordStorageError(ctx, summary, err)
		return
	}

	if sendErr != nil {
		summary.Failed++
		summary.Errors = append(summary.Errors, sendErr.Error())

		log.WarnContext(ctx).
			Err(sendErr).
			Msg("delivery attempt failed")

		return
	}

	summary.Sent++

	log.InfoContext(ctx).
		Str("host", transportHost).
		Msg("delivered entry")
}

func (w *Worker) saveAttempt(
	ctx context.Context,
	entryID int64,
	status models.QueueStatus,
	transportHost string,
	record *models.DeliveryLogEntity,
) error {
	tx, err := w.conn.Begin(ctx)
	if err != nil {
		return err
	}

	err = w.queueEntryDao.Transition(ctx, tx, entryID, models.StatusSending, status)
	if err != nil {
		return tx.RollbackWith(func() {
			log.ErrorContext(ctx).
				Err(err).
				Msg("could not settle entry")
		})
	}

	if transportHost != "" {
		if err := w.queueEntryDao.SetTransportHost(ctx, tx, entryID, transportHost); err != nil {
			return tx.RollbackWith(func() {
				log.ErrorContext(ctx).
					Err(err).
					Msg("could not record transport host")
			})
		}
	}

	if err := w.deliveryLogDao.Insert(ctx, tx, record); err != nil {
		return tx.RollbackWith(func() {
			log.ErrorContext(ctx).
				Err(err).
				Msg("could not write delivery log record")
		})
	}

	return tx.Commit()
}

func (w *Worker) recordStorageError(ctx context.Context, summary *Summary, err error) {
	log.ErrorContext(ctx).
		Err(err).
		Msg("storage failure during dispatch")

	summary.Errors = append(summary.Errors, err.Error())
}
