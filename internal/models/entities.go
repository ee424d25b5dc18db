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

package models

import (
	"database/sql"
)

// ClientEntity is the entity for the "clients" table.
type ClientEntity struct {
	ID             int64          `db:"id"`
	Name           string         `db:"name"`
	ContactAddress string         `db:"contact_address"`
	Signature      sql.NullString `db:"signature"`
}

// TemplateEntity is the entity for the "templates" table.
type TemplateEntity struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Subject string `db:"subject"`
	Body    string `db:"body"`
}

// ConditionOperator is the comparison applied to a watched field transition.
type ConditionOperator string

const (
	// OperatorBecameSet matches when the field was empty before and is non-empty after.
	OperatorBecameSet ConditionOperator = "became_set"
	// OperatorEquals matches when the field equals the literal after, but did not before.
	OperatorEquals ConditionOperator = "equals"

	// operatorDateSet is a legacy label with the same meaning as OperatorBecameSet.
	operatorDateSet ConditionOperator = "date_set"
)

// TriggerRuleEntity is the entity for the "trigger_rules" table.
type TriggerRuleEntity struct {
	ID           int64             `db:"id"`
	Name         string            `db:"name"`
	EntityKind   string            `db:"entity_kind"`
	WatchField   string            `db:"watch_field"`
	Operator     ConditionOperator `db:"operator"`
	CompareValue sql.NullString    `db:"compare_value"`
	TemplateID   int64             `db:"template_id"`
	Active       bool              `db:"active"`
}

// Normalize rewrites legacy operator labels into their canonical form. It is applied once when
// rules are loaded, so the evaluator only ever sees canonical operators.
func (e *TriggerRuleEntity) Normalize() {
	if e.Operator == operatorDateSet {
		e.Operator = OperatorBecameSet
	}
}

// QueueStatus indicates the lifecycle state of a queue entry.
type QueueStatus int

const (
	_ QueueStatus = iota
	// StatusPendingConfirmation is a staged candidate awaiting human review.
	StatusPendingConfirmation
	// StatusQueued is a confirmed entry ready for dispatch.
	StatusQueued
	// StatusSending is an entry claimed by a dispatch run. The claim transition is conditional on
	// StatusQueued, so two concurrent runs can never both send the same entry.
	StatusSending
	// StatusSent is an entry delivered to the transport. Terminal.
	StatusSent
	// StatusFailed is an entry whose delivery attempt failed. Terminal until an operator
	// explicitly requeues it.
	StatusFailed
)

func (s QueueStatus) String() string {
	switch s {
	case StatusPendingConfirmation:
		return "pending-confirmation"
	case StatusQueued:
		return "queued"
	case StatusSending:
		return "sending"
	case StatusSent:
		return "sent"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// QueueEntryEntity is the entity for the "queue_entries" table.
type QueueEntryEntity struct {
	ID             int64          `db:"id"`
	TriggerID      sql.NullInt64  `db:"trigger_id"`
	ClientID       int64          `db:"client_id"`
	ProjectID      sql.NullInt64  `db:"project_id"`
	Recipient      string         `db:"recipient"`
	Subject        string         `db:"subject"`
	Body           string         `db:"body"`
	Status         QueueStatus    `db:"status"`
	CreatedAt      int64          `db:"created_at"`
	TransportHost  sql.NullString `db:"transport_host"`
	IdempotencyKey sql.NullString `db:"idempotency_key"`
}

// DeliveryLogEntity is the entity for the "delivery_log" table. Records are append-only, one per
// dispatch attempt.
type DeliveryLogEntity struct {
	ID            int64          `db:"id"`
	ClientID      int64          `db:"client_id"`
	ProjectID     sql.NullInt64  `db:"project_id"`
	Recipient     string         `db:"recipient"`
	Subject       string         `db:"subject"`
	Body          string         `db:"body"`
	Success       bool           `db:"success"`
	ErrorText     sql.NullString `db:"error_text"`
	TransportHost string         `db:"transport_host"`
	LoggedAt      int64          `db:"logged_at"`
}

// TransportConfigEntity is the entity for the "transport_configs" table. A row with a null client
// reference is the global default.
type TransportConfigEntity struct {
	ID          int64          `db:"id"`
	ClientID    sql.NullInt64  `db:"client_id"`
	Host        string         `db:"host"`
	Port        int            `db:"port"`
	UseTLS      bool           `db:"use_tls"`
	Username    sql.NullString `db:"username"`
	Password    sql.NullString `db:"password"`
	FromAddress string         `db:"from_address"`
	FromName    string         `db:"from_name"`
}
