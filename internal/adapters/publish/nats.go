package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/analysis"
)

// DefaultNATSSubject carries one message per publication.
const DefaultNATSSubject = "rssi.rounds"

// NATSPublisher publishes summaries as JSON on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	mu      sync.Mutex
	enabled bool
}

// NewNATSPublisher creates a publisher for subject. It is a no-op until Connect succeeds.
func NewNATSPublisher(subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultNATSSubject
	}
	return &NATSPublisher{subject: subject}
}

// Connect dials the NATS server. The client reconnects on its own afterwards.
func (p *NATSPublisher) Connect(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	opts := []nats.Option{
		nats.Name("rssi-analyzer"),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected: %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		p.enabled = false
		return fmt.Errorf("connect to NATS: %w", err)
	}

	p.conn = conn
	p.enabled = true
	log.Printf("NATS connected to %s", url)
	return nil
}

func (p *NATSPublisher) Name() string { return "nats" }

// Subject returns the subject summaries are published on.
func (p *NATSPublisher) Subject() string { return p.subject }

// Publish sends s on the configured subject.
func (p *NATSPublisher) Publish(_ context.Context, s analysis.Summary) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || p.conn == nil {
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", p.subject, err)
	}
	return nil
}

// Disconnect flushes pending messages and closes the connection.
func (p *NATSPublisher) Disconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil {
		p.conn.Drain()
		p.conn = nil
	}
	p.enabled = false
}
