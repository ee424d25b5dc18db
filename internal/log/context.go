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

	"github.com/rs/zerolog"
)

type fieldClient struct{}
type fieldEntry struct{}
type fieldTrigger struct{}
type fieldBatch struct{}
type fieldOrigin struct{}

// WithClient adds the client identifier to the context.
func WithClient(ctx context.Context, client int64) context.Context {
	return context.WithValue(ctx, fieldClient{}, client)
}

// WithEntry adds the queue entry identifier to the context.
func WithEntry(ctx context.Context, entry int64) context.Context {
	return context.WithValue(ctx, fieldEntry{}, entry)
}

// WithTrigger adds the trigger rule identifier to the context.
func WithTrigger(ctx context.Context, trigger int64) context.Context {
	return context.WithValue(ctx, fieldTrigger{}, trigger)
}

// WithBatch adds the dispatch batch identifier to the context.
func WithBatch(ctx context.Context, batch string) context.Context {
	return context.WithValue(ctx, fieldBatch{}, batch)
}

// WithOrigin adds the origin of processing to the context.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, fieldOrigin{}, origin)
}

// appendContextFields adds defined fields in the context to the log event.
func appendContextFields(ctx context.Context, event *zerolog.Event) *zerolog.Event {
	if client, ok := ctx.Value(fieldClient{}).(int64); ok {
		event.Int64("client", client)
	}

	if entry, ok := ctx.Value(fieldEntry{}).(int64); ok {
		event.Int64("entry", entry)
	}

	if trigger, ok := ctx.Value(fieldTrigger{}).(int64); ok {
		event.Int64("trigger", trigger)
	}

	if batch, ok := ctx.Value(fieldBatch{}).(string); ok {
		event.Str("batch", batch)
	}

	if origin, ok := ctx.Value(fieldOrigin{}).(string); ok {
		event.Str("origin", origin)
	}

	return event
}
