// Package events publishes best-effort domain events over NATS. A nil
// Publisher is valid and publishes nothing, so the service runs unchanged
// without a broker configured.
package events

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Subjects emitted by the service.
const (
	SubjectUserRegistered = "shopd.users.registered"
	SubjectUserVerified   = "shopd.users.verified"
	SubjectOrderCreated   = "shopd.orders.created"
	SubjectPaymentCreated = "shopd.payments.created"
)

// Publisher wraps a NATS connection for fire-and-forget JSON publishing.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials the NATS endpoint. An empty URL yields a nil Publisher.
func Connect(url string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	nc, err := nats.Connect(url, nats.Name("shopd"))
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: nc}, nil
}

// Close drains the underlying connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// Publish encodes payload as JSON and publishes it. Failures are logged
// and swallowed; events never affect the request outcome.
func (p *Publisher) Publish(subject string, payload map[string]any) {
	if p == nil || subject == "" {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("publish event")
	}
}
