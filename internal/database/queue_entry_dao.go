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
	"context"

	"github.com/medzi83/project-app-sub004/internal/models"
)

// QueueEntryDao is a data access object for all queue entry related queries. All state
// transitions are conditional updates. A transition returns sql.ErrNoRows when the entry is not
// in the expected source status, which makes the queued-to-sending claim safe against concurrent
// dispatch runs.
type QueueEntryDao interface {
	// Insert inserts a new queue entry.
	Insert(context.Context, Queryer, *models.QueueEntryEntity) error
	// FindByID returns the queue entry with the given id.
	FindByID(context.Context, Queryer, int64) (*models.QueueEntryEntity, error)
	// FindByStatus returns all entries with the given status ordered by creation time.
	FindByStatus(context.Context, Queryer, models.QueueStatus) ([]models.QueueEntryEntity, error)
	// FindPendingSince returns all pending entries created at or after the given unix timestamp.
	FindPendingSince(context.Context, Queryer, int64) ([]models.QueueEntryEntity, error)
	// UpdateRecipient replaces the recipient while the entry is pending confirmation.
	UpdateRecipient(ctx context.Context, q Queryer, id int64, recipient string) error
	// Transition moves an entry from one status to another.
	Transition(ctx context.Context, q Queryer, id int64, from, to models.QueueStatus) error
	// SetTransportHost records the transport used for the send attempt.
	SetTransportHost(ctx context.Context, q Queryer, id int64, host string) error
}

// queueEntryDao is the sqlite implementation of QueueEntryDao.
type queueEntryDao struct{}

// NewQueueEntryDao creates a new QueueEntryDao.
func NewQueueEntryDao() QueueEntryDao {
	return queueEntryDao{}
}

func (queueEntryDao) Insert(ctx context.Context, q Queryer, entry *models.QueueEntryEntity) error {
	const query = `
		insert into "queue_entries" (
			"trigger_id" ,
			"client_id" ,
			"project_id" ,
			"recipient" ,
			"subject" ,
			"body" ,
			"status" ,
			"created_at" ,
			"transport_host" ,
			"idempotency_key"
		) values (
			:trigger_id ,
			:client_id ,
			:project_id ,
			:recipient ,
			:subject ,
			:body ,
			:status ,
			:created_at ,
			:transport_host ,
			:idempotency_key
		) ;
	`

	result, err := execNamed(ctx, q, query, entry)
	if err != nil {
		return err
	}

	entry.ID, err = result.LastInsertId()
	return err
}

func (queueEntryDao) FindByID(ctx context.Context, q Queryer, id int64) (*models.QueueEntryEntity, error) {
	const query = `
		select *
		from "queue_entries"
		where "id" = $1 ;
	`

	var entry models.QueueEntryEntity

	if err := selectOne(ctx, q, &entry, query, id); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (queueEntryDao) FindByStatus(
	ctx context.Context,
	q Queryer,
	status models.QueueStatus,
) ([]models.QueueEntryEntity, error) {
	const query = `
		select *
		from "queue_entries"
		where "status" = $1
		order by "created_at" asc , "id" asc ;
	`

	var entrySlice []models.QueueEntryEntity

	if err := selectSlice(ctx, q, &entrySlice, query, status); err != nil {
		return nil, err
	}

	return entrySlice, nil
}

func (queueEntryDao) FindPendingSince(
	ctx context.Context,
	q Queryer,
	windowStart int64,
) ([]models.QueueEntryEntity, error) {
	const query = `
		select *
		from "queue_entries"
		where "status" = $1
		  and "created_at" >= $2
		order by "created_at" asc , "id" asc ;
	`

	var entrySlice []models.QueueEntryEntity

	err := selectSlice(ctx, q, &entrySlice, query,
		models.StatusPendingConfirmation,
		windowStart)

	if err != nil {
		return nil, err
	}

	return entrySlice, nil
}

func (queueEntryDao) UpdateRecipient(ctx context.Context, q Queryer, id int64, recipient string) error {
	const query = `
		update "queue_entries"
		set "recipient" = $1
		where "id" = $2
		  and "status" = $3 ;
	`

	result, err := q.ExecContext(ctx, query, recipient, id, models.StatusPendingConfirmation)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (queueEntryDao) Transition(
	ctx context.Context,
	q Queryer,
	id int64,
	from, to models.QueueStatus,
) error {
	const query = `
		update "queue_entries"
		set "status" = $1
		where "id" = $2
		  and "status" = $3 ;
	`

	result, err := q.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (queueEntryDao) SetTransportHost(ctx context.Context, q Queryer, id int64, host string) error {
	const query = `
		update "queue_entries"
		set "transport_host" = $1
		where "id" = $2 ;
	`

	result, err := q.ExecContext(ctx, query, host, id)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}
