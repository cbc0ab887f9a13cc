package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	POST_CREATED_KEY    = "post.created"
	POST_DELETED_KEY    = "post.deleted"
	COMMENT_CREATED_KEY = "comment.created"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, msg interface{}) error
}

type MQConn struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
}

// New connects and declares a durable topic exchange that all events go to.
func New(connString string, exchange string) (*MQConn, error) {
	conn, err := amqp.Dial(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange(%s): %w", exchange, err)
	}

	return &MQConn{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
	}, nil
}

func (mq *MQConn) Publish(ctx context.Context, routingKey string, msg interface{}) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing.
	mq.mu.Lock()
	defer mq.mu.Unlock()

	return mq.ch.PublishWithContext(
		ctx,
		mq.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (mq *MQConn) Close() error {
	if err := mq.ch.Close(); err != nil {
		mq.conn.Close()
		return err
	}
	return mq.conn.Close()
}

// NopPublisher drops every message. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error {
	return nil
}
