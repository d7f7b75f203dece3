// Package rabbitmq delivers journal entries to an AMQP broker.
//
// The publisher is a journal.Recorder: the ledger core stays free of any
// communication, and the host wires a Publisher in when it wants committed
// mutations shipped to an audit exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LerianStudio/lib-tokenledger/tokenledger/journal"
	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrNilChannel is returned when a Publisher is constructed without a channel.
	ErrNilChannel = errors.New("amqp channel is required")
	// ErrEmptyExchange is returned when a Publisher is constructed without an exchange.
	ErrEmptyExchange = errors.New("amqp exchange is required")
)

// Channel is the minimal AMQP publishing capability the publisher needs.
// *amqp091.Channel satisfies it.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Config defines where journal entries are published.
type Config struct {
	Exchange   string
	RoutingKey string
}

// Publisher is a journal.Recorder that publishes entries as JSON messages.
type Publisher struct {
	channel Channel
	config  Config
}

// Compile-time assertion: *Publisher implements journal.Recorder.
var _ journal.Recorder = (*Publisher)(nil)

// New creates a publisher over an open AMQP channel.
func New(channel Channel, config Config) (*Publisher, error) {
	if channel == nil {
		return nil, ErrNilChannel
	}

	if config.Exchange == "" {
		return nil, ErrEmptyExchange
	}

	return &Publisher{channel: channel, config: config}, nil
}

// Record publishes the entry as a persistent JSON message. The entry ID
// doubles as the AMQP message ID so consumers can deduplicate.
func (p *Publisher) Record(ctx context.Context, entry journal.Entry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    entry.ID,
		Timestamp:    entry.OccurredAt,
		Type:         string(entry.Operation),
		Body:         body,
	}

	if err := p.channel.PublishWithContext(ctx, p.config.Exchange, p.config.RoutingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish journal entry: %w", err)
	}

	return nil
}
