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
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/medzi83/project-app-sub004/internal/log"
	"github.com/medzi83/project-app-sub004/internal/models"
)

func init() {
	viper.SetDefault("delivery.transport.timeout", "10s")
	viper.SetDefault("delivery.transport.hostname", "localhost")
}

// Stage identifies the phase of a delivery attempt in which an error occurred.
type Stage string

const (
	// StageVerify covers dialing, the handshake, a required tls upgrade and authentication.
	// A failure in this stage means no delivery was attempted.
	StageVerify Stage = "verify"
	// StageSend covers the actual transmission of envelope and content.
	StageSend Stage = "send"
)

// Error is a failed delivery attempt.
type Error struct {
	Stage Stage
	Host  string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("delivery %s via %q failed: %v", e.Stage, e.Host, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Envelope is a single outbound mail.
type Envelope struct {
	Recipient string
	Subject   string
	Body      string
}

// Courier hands a mail over to an smtp endpoint described by a transport config.
type Courier interface {
	// Send verifies connectivity to the transport and transmits the envelope. All failures are
	// reported as *Error.
	Send(ctx context.Context, config *models.TransportConfigEntity, envelope *Envelope) error
}

// NewCourier creates a new smtp courier using the configuration from viper.
func NewCourier() Courier {
	return &smtpCourier{
		hostname: viper.GetString("delivery.transport.hostname"),
		timeout:  viper.GetDuration("delivery.transport.timeout"),
	}
}

type smtpCourier struct {
	hostname string
	timeout  time.Duration
}

func (c *smtpCourier) Send(
	ctx context.Context,
	config *models.TransportConfigEntity,
	envelope *Envelope,
) error {
	log.DebugContext(ctx).
		Str("host", config.Host).
		Int("port", config.Port).
		Str("recipient", envelope.Recipient).
		Msg("attempting delivery")

	session, err := c.connect(ctx, config)
	if err != nil {
		return &Error{Stage: StageVerify, Host: config.Host, Err: err}
	}

	defer session.close()

	if err := c.verify(session, config); err != nil {
		return &Error{Stage: StageVerify, Host: config.Host, Err: err}
	}

	if err := c.transmit(session, config, envelope); err != nil {
		return &Error{Stage: StageSend, Host: config.Host, Err: err}
	}

	return nil
}

type session struct {
	conn   net.Conn
	client *smtp.Client
}

func (s *session) close() {
	if s.client != nil {
		// Quit also closes the underlying connection.
		if err := s.client.Quit(); err == nil {
			return
		}
	}

	if s.conn != nil {
		s.conn.Close()
	}
}

// connect dials the transport within the configured timeout. For implicit tls the handshake is
// part of the dial.
func (c *smtpCourier) connect(ctx context.Context, config *models.TransportConfigEntity) (*session, error) {
	var (
		addr   = net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
		dialer = net.Dialer{Timeout: c.timeout}
	)

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	// the deadline bounds the whole session, so one hung endpoint cannot stall a batch
	conn.SetDeadline(time.Now().Add(c.timeout))

	if EncryptionFor(config) == EncryptionImplicitTLS {
		tlsConn := tls.Client(conn, &tls.Config{ServerName: config.Host})

		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, err
		}

		conn = tlsConn
	}

	client, err := smtp.NewClient(conn, config.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &session{conn: conn, client: client}, nil
}

// verify performs the pre-send handshake: hello, a required tls upgrade and authentication.
func (c *smtpCourier) verify(session *session, config *models.TransportConfigEntity) error {
	if err := session.client.Hello(c.hostname); err != nil {
		return err
	}

	if EncryptionFor(config) == EncryptionStartTLS {
		if ok, _ := session.client.Extension("STARTTLS"); !ok {
			return errors.New("transport requires tls, but the server does not offer STARTTLS")
		}

		tlsConfig := tls.Config{
			ServerName: config.Host,
		}

		if err := session.client.StartTLS(&tlsConfig); err != nil {
			return err
		}
	}

	if config.Username.Valid && config.Password.Valid {
		auth := smtp.PlainAuth("", config.Username.String, config.Password.String, config.Host)

		if err := session.client.Auth(auth); err != nil {
			return err
		}
	}

	return session.client.Noop()
}

func (c *smtpCourier) transmit(
	session *session,
	config *models.TransportConfigEntity,
	envelope *Envelope,
) error {
	if err := session.client.Mail(config.FromAddress); err != nil {
		return err
	}

	if err := session.client.Rcpt(envelope.Recipient); err != nil {
		return err
	}

	w, err := session.client.Data()
	if err != nil {
		return err
	}

	if _, err := w.Write(buildMessage(config, envelope)); err != nil {
		w.Close()
		return err
	}

	return w.Close()
}

// buildMessage assembles a minimal rfc 5322 message with crlf line endings.
func buildMessage(config *models.TransportConfigEntity, envelope *Envelope) []byte {
	from := mail.Address{
		Name:    config.FromName,
		Address: config.FromAddress,
	}

	var b strings.Builder

	writeHeader(&b, "From", from.String())
	writeHeader(&b, "To", envelope.Recipient)
	writeHeader(&b, "Subject", envelope.Subject)
	writeHeader(&b, "Date", time.Now().Format(time.RFC1123Z))
	writeHeader(&b, "MIME-Version", "1.0")
	writeHeader(&b, "Content-Type", `text/plain; charset="utf-8"`)

	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(envelope.Body, "\n", "\r\n"))
	b.WriteString("\r\n")

	return []byte(b.String())
}

func writeHeader(b *strings.Builder, name, value string) {
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\r\n")
}
