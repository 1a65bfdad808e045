// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/danielhkuo/quickly-poll/models"
)

const (
	dialAttempts = 5
	dialDelay    = 5 * time.Second
)

// amqpChannel is the subset of *amqp.Channel used for publishing.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes events as JSON to a durable RabbitMQ queue.
type AMQPPublisher struct {
	conn         *amqp.Connection
	channel      amqpChannel
	queue        string
	channelMutex sync.Mutex
}

// NewAMQPPublisher wraps an already open channel.
func NewAMQPPublisher(ch amqpChannel, queue string) *AMQPPublisher {
	return &AMQPPublisher{channel: ch, queue: queue}
}

// OpenAMQP connects one publisher per queue. A queue that cannot be reached
// is logged and skipped; with none left, events are discarded.
func OpenAMQP(url string, queues []string) Publisher {
	return openPublishers(queues, func(queue string) (Publisher, error) {
		return DialAMQP(url, queue)
	})
}

func openPublishers(queues []string, dial func(queue string) (Publisher, error)) Publisher {
	var pubs Multi
	for _, queue := range queues {
		p, err := dial(queue)
		if err != nil {
			slog.Error("event publishing disabled for queue", "queue", queue, "error", err)
			continue
		}
		pubs = append(pubs, p)
	}
	switch len(pubs) {
	case 0:
		return Nop{}
	case 1:
		return pubs[0]
	}
	return pubs
}

// DialAMQP connects to RabbitMQ, retrying a few times, and declares the queue.
func DialAMQP(url, queue string) (*AMQPPublisher, error) {
	var conn *amqp.Connection
	var err error
	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		slog.Warn("failed to connect to RabbitMQ, retrying", "attempt", i+1, "error", err)
		time.Sleep(dialDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	slog.Info("connected to RabbitMQ", "queue", queue)
	p := NewAMQPPublisher(ch, queue)
	p.conn = conn
	return p, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, evt models.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	// amqp channels are not safe for concurrent publishes
	p.channelMutex.Lock()
	defer p.channelMutex.Unlock()

	return p.channel.PublishWithContext(ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         evt.Type,
			Timestamp:    evt.At,
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	err := p.channel.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
