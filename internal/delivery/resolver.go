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

package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/medzi83/project-app-sub004/internal/database"
	"github.com/medzi83/project-app-sub004/internal/log"
	"github.com/medzi83/project-app-sub004/internal/models"
)

// ErrNoTransportConfig is returned when neither a client specific nor a default transport
// configuration exists.
var ErrNoTransportConfig = errors.New("no transport configuration")

// Resolver determines the mail transport configuration to use for a client. Resolution happens
// at send time on every attempt, because transport configuration may change between queueing and
// dispatch.
type Resolver interface {
	// Resolve returns the transport config of the client, or the global default as fallback.
	Resolve(ctx context.Context, clientID int64) (*models.TransportConfigEntity, error)
}

// NewResolver creates a new Resolver.
func NewResolver(conn database.Conn, transportConfigDao database.TransportConfigDao) Resolver {
	return &resolver{
		conn:               conn,
		transportConfigDao: transportConfigDao,
	}
}

type resolver struct {
	conn               database.Conn
	transportConfigDao database.TransportConfigDao
}

func (r *resolver) Resolve(ctx context.Context, clientID int64) (*models.TransportConfigEntity, error) {
	config, err := r.transportConfigDao.FindByClient(ctx, r.conn, clientID)
	if err == nil {
		return config, nil
	}

	if !database.IsErrNoRows(err) {
		return nil, err
	}

	log.DebugContext(ctx).
		Int64("client", clientID).
		Msg("no client specific transport config, trying default")

	config, err = r.transportConfigDao.FindDefault(ctx, r.conn)
	if err != nil {
		if database.IsErrNoRows(err) {
			return nil, fmt.Errorf("%w for client %d", ErrNoTransportConfig, clientID)
		}

		return nil, err
	}

	return config, nil
}

// Encryption is the connection security required by a transport config.
type Encryption int

const (
	_ Encryption = iota
	// EncryptionNone sends over a plaintext connection.
	EncryptionNone
	// EncryptionImplicitTLS opens a tls connection right away.
	EncryptionImplicitTLS
	// EncryptionStartTLS opens a plaintext connection and requires an upgrade via STARTTLS.
	EncryptionStartTLS
)

// implicitTLSPort is the well-known smtps port.
const implicitTLSPort = 465

// EncryptionFor decides the connection security for a transport config. The configured port wins
// over the tls flag: the smtps port always means implicit tls, the flag only ever requests an
// opportunistic upgrade.
func EncryptionFor(config *models.TransportConfigEntity) Encryption {
	switch {
	case config.Port == implicitTLSPort:
		return EncryptionImplicitTLS

	case config.UseTLS:
		return EncryptionStartTLS

	default:
		return EncryptionNone
	}
}
