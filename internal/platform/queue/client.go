package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/fintrk/fin_tracker_app/internal/apperrors"
	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/dto"
)

// Client is a RabbitMQ publisher/consumer for background jobs. The API
// process publishes; the worker process consumes.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

// NewClient dials RabbitMQ and declares the durable exchange, queue and
// binding used for background jobs.
func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key (same as queue name for direct exchange)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

var _ portssvc.JobEnqueuer = (*Client)(nil)

// EnqueueBudgetRecheck publishes a budget recheck job.
func (c *Client) EnqueueBudgetRecheck(ctx context.Context, budgetID string) error {
	body, err := NewBudgetRecheckMessage(budgetID)
	if err != nil {
		return err
	}
	return c.publish(ctx, body)
}

// EnqueueReport publishes a transaction report job.
func (c *Client) EnqueueReport(ctx context.Context, job dto.ReportJob) error {
	body, err := NewReportMessage(job)
	if err != nil {
		return err
	}
	return c.publish(ctx, body)
}

func (c *Client) publish(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Handler processes one decoded job. A returned error requeues the delivery.
type Handler interface {
	HandleBudgetRecheck(ctx context.Context, payload BudgetRecheckPayload) error
	HandleReport(ctx context.Context, job dto.ReportJob) error
}

// Consume blocks reading jobs from the queue until ctx is cancelled.
// Malformed messages are rejected without requeue; handler failures requeue.
func (c *Client) Consume(ctx context.Context, logger *slog.Logger, handler Handler) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	logger.Info("Started consuming jobs", slog.String("queue", c.queueName))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping job consumption", slog.String("reason", ctx.Err().Error()))
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			if err := c.dispatch(ctx, handler, delivery.Body); err != nil {
				if requeue(err) {
					logger.Error("Job failed, requeueing", slog.String("error", err.Error()))
					delivery.Nack(false, true)
				} else {
					logger.Error("Dropping unprocessable job", slog.String("error", err.Error()))
					delivery.Nack(false, false)
				}
				continue
			}

			delivery.Ack(false)
		}
	}
}

// malformedError marks messages that can never succeed and must not requeue.
type malformedError struct{ err error }

func (e malformedError) Error() string { return e.err.Error() }
func (e malformedError) Unwrap() error { return e.err }

// requeue reports whether a failed job may succeed on redelivery. Malformed
// payloads and jobs whose subject no longer exists (a recheck for a deleted
// budget) are terminal and are dropped instead of redelivered.
func requeue(err error) bool {
	if _, malformed := err.(malformedError); malformed {
		return false
	}
	return !errors.Is(err, apperrors.ErrNotFound)
}

func (c *Client) dispatch(ctx context.Context, handler Handler, body []byte) error {
	env, err := EnvelopeFromJSON(body)
	if err != nil {
		return malformedError{err}
	}

	switch env.Kind {
	case KindBudgetRecheck:
		var payload BudgetRecheckPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return malformedError{fmt.Errorf("unmarshal %s payload: %w", env.Kind, err)}
		}
		return handler.HandleBudgetRecheck(ctx, payload)
	case KindReport:
		var job dto.ReportJob
		if err := json.Unmarshal(env.Payload, &job); err != nil {
			return malformedError{fmt.Errorf("unmarshal %s payload: %w", env.Kind, err)}
		}
		return handler.HandleReport(ctx, job)
	default:
		return malformedError{fmt.Errorf("unknown job kind %q", env.Kind)}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
