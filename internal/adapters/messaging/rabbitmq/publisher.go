package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/middleware"
	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Publisher sends occurrence events to a durable direct exchange.
type Publisher struct {
	mu           sync.Mutex // amqp091 channels are not safe for concurrent publishing
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	routingKey   string
}

var _ portssvc.OccurrencePublisher = (*Publisher)(nil)

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(url, exchangeName, routingKey string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &Publisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		routingKey:   routingKey,
	}

	err = p.channel.ExchangeDeclare(
		p.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return p, nil
}

// PublishOccurrences publishes one persistent message per generated transaction. It keeps
// going after a failed message and returns every failure joined.
func (p *Publisher) PublishOccurrences(ctx context.Context, occurrences []domain.Transaction) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return ErrPublisherClosed
	}

	var errs []error
	for _, txn := range occurrences {
		if err := p.publish(ctx, txn); err != nil {
			errs = append(errs, fmt.Errorf("transaction %s: %w", txn.TransactionID, err))
			continue
		}
		logger.Debug("Published occurrence message",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("exchange", p.exchangeName),
			slog.String("routing_key", p.routingKey))
	}
	return errors.Join(errs...)
}

func (p *Publisher) publish(ctx context.Context, txn domain.Transaction) error {
	msg, err := NewOccurrenceCreatedMessage(txn)
	if err != nil {
		return err
	}
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		p.routingKey,   // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    txn.TransactionID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// ErrPublisherClosed is returned when publishing after Close.
var ErrPublisherClosed = errors.New("occurrence publisher is closed")

// Close waits for an in-flight publish, then releases the channel and the connection.
// Closing twice is a no-op.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}
