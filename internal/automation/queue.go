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
	"fmt"
	"net/mail"
	"time"

	"github.com/spf13/viper"

	"github.com/medzi83/project-app-sub004/internal/database"
	"github.com/medzi83/project-app-sub004/internal/log"
	"github.com/medzi83/project-app-sub004/internal/models"
)

func init() {
	viper.SetDefault("automation.confirmation.window", "5m")
}

// Draft is the input for a new queue entry. A draft with PreConfirmed set skips the
// confirmation step and enters the queue ready for dispatch.
type Draft struct {
	TriggerID      sql.NullInt64
	ClientID       int64
	ProjectID      sql.NullInt64
	Recipient      string
	Subject        string
	Body           string
	IdempotencyKey sql.NullString
	PreConfirmed   bool
}

// Queue manages the lifecycle of queue entries up to the point where the dispatch worker
// takes over. All transitions are conditional on the current status, so a stale view of
// an entry can never move it into a state it must not reach.
type Queue struct {
	conn          database.Conn
	queueEntryDao database.QueueEntryDao
	window        time.Duration
}

// NewQueue creates a new Queue.
func NewQueue(conn database.Conn, queueEntryDao database.QueueEntryDao) *Queue {
	return &Queue{
		conn:          conn,
		queueEntryDao: queueEntryDao,
		window:        viper.GetDuration("automation.confirmation.window"),
	}
}

// Enqueue validates the draft and inserts a new queue entry. It returns the id of the
// inserted entry. A draft whose idempotency key collides with an existing entry fails
// with a unique constraint error, which callers can detect via database.IsErrUnique.
func (s *Queue) Enqueue(ctx context.Context, draft *Draft) (int64, error) {
	if err := validateDraft(draft); err != nil {
		return 0, err
	}

	status := models.StatusPendingConfirmation
	if draft.PreConfirmed {
		status = models.StatusQueued
	}

	entry := models.QueueEntryEntity{
		TriggerID:      draft.TriggerID,
		ClientID:       draft.ClientID,
		ProjectID:      draft.ProjectID,
		Recipient:      draft.Recipient,
		Subject:        draft.Subject,
		Body:           draft.Body,
		Status:         status,
		CreatedAt:      time.Now().Unix(),
		IdempotencyKey: draft.IdempotencyKey,
	}

	if err := s.queueEntryDao.Insert(ctx, s.conn, &entry); err != nil {
		return 0, err
	}

	log.InfoContext(log.WithEntry(log.WithClient(ctx, entry.ClientID), entry.ID)).
		Stringer("status", status).
		Msg("enqueued entry")

	return entry.ID, nil
}

// Confirm releases an entry awaiting confirmation into the dispatch queue.
func (s *Queue) Confirm(ctx context.Context, id int64) error {
	err := s.queueEntryDao.Transition(ctx, s.conn, id,
		models.StatusPendingConfirmation,
		models.StatusQueued)

	if database.IsErrNoRows(err) {
		return fmt.Errorf("%w: entry %d is not awaiting confirmation", ErrInvalidState, id)
	}

	return err
}

// UpdateRecipient replaces the recipient of an entry that is still awaiting confirmation.
func (s *Queue) UpdateRecipient(ctx context.Context, id int64, recipient string) error {
	if err := validateAddress(recipient); err != nil {
		return err
	}

	err := s.queueEntryDao.UpdateRecipient(ctx, s.conn, id, recipient)

	if database.IsErrNoRows(err) {
		return fmt.Errorf("%w: entry %d is not awaiting confirmation", ErrInvalidState, id)
	}

	return err
}

// Requeue puts a failed entry back into the dispatch queue for another attempt.
func (s *Queue) Requeue(ctx context.Context, id int64) error {
	err := s.queueEntryDao.Transition(ctx, s.conn, id,
		models.StatusFailed,
		models.StatusQueued)

	if database.IsErrNoRows(err) {
		return fmt.Errorf("%w: entry %d is not in a failed state", ErrInvalidState, id)
	}

	return err
}

// ListAwaitingConfirmation returns the entries still awaiting confirmation that were
// created within the configured confirmation window.
func (s *Queue) ListAwaitingConfirmation(ctx context.Context) ([]models.QueueEntryEntity, error) {
	return s.ListPendingSince(ctx, time.Now().Add(-s.window))
}

// ListPendingSince returns the entries awaiting confirmation created at or after the
// given point in time.
func (s *Queue) ListPendingSince(ctx context.Context, windowStart time.Time) ([]models.QueueEntryEntity, error) {
	return s.queueEntryDao.FindPendingSince(ctx, s.conn, windowStart.Unix())
}

// ListByStatus returns all entries with the given status ordered by creation time.
func (s *Queue) ListByStatus(ctx context.Context, status models.QueueStatus) ([]models.QueueEntryEntity, error) {
	return s.queueEntryDao.FindByStatus(ctx, s.conn, status)
}

func validateDraft(draft *Draft) error {
	if draft.ClientID <= 0 {
		return fmt.Errorf("%w: draft has no client", ErrValidation)
	}

	if draft.Subject == "" {
		return fmt.Errorf("%w: draft has an empty subject", ErrValidation)
	}

	return validateAddress(draft.Recipient)
}

func validateAddress(recipient string) error {
	if _, err := mail.ParseAddress(recipient); err != nil {
		return fmt.Errorf("%w: recipient %q is not a valid address", ErrValidation, recipient)
	}

	return nil
}
