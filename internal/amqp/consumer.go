package amqp

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Handler processes one message body read from queue.
type Handler func(ctx context.Context, queue string, body []byte) error

type Consumer struct {
	url    string
	queues []string
	logger logrus.FieldLogger
}

func NewConsumer(url string, logger logrus.FieldLogger, queues ...string) *Consumer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Consumer{url: url, queues: queues, logger: logger}
}

// Consume reconnects with exponential backoff until ctx is cancelled. A
// message whose handler fails is rejected without requeue.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	backoff := time.Second
	for {
		err := c.consumeOnce(ctx, handler)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			backoff = time.Second
		}
		c.logger.WithError(err).WithField("retry_in", backoff.String()).Warn("amqp consumer disconnected")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *Consumer) consumeOnce(ctx context.Context, handler Handler) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.logger.WithError(err).Warn("set qos failed")
	}

	deliveries := make(chan amqp.Delivery)
	stop := make(chan struct{})
	defer close(stop)
	for _, q := range c.queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.Consume(q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		go func(msgs <-chan amqp.Delivery) {
			for d := range msgs {
				select {
				case deliveries <- d:
				case <-stop:
					return
				}
			}
		}(msgs)
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-ctx.Done():
			return nil
		case amqpErr := <-closed:
			if amqpErr == nil {
				return errors.New("connection closed")
			}
			return amqpErr
		case d := <-deliveries:
			if err := handler(ctx, d.RoutingKey, d.Body); err != nil {
				c.logger.WithError(err).WithField("queue", d.RoutingKey).Error("handle message failed")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
