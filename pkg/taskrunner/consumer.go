package taskrunner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"file-manager-api/config"
	"file-manager-api/internal/infrastructure/mq"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

// Handler processes one delivered task. Errors are logged by the worker and
// never propagate further: no caller is waiting on an asynchronous phase.
type Handler func(ctx context.Context, t mq.Task) error

type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	conn       *amqp091.Connection
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
	handlers   map[string]Handler
}

func New(cfg config.MQ, logger *zap.Logger, conn *amqp091.Connection) *Consumer {
	return &Consumer{
		cfg:      cfg,
		log:      logger,
		conn:     conn,
		handlers: make(map[string]Handler),
	}
}

// Handle registers the handler for a task kind. Not safe to call after
// DeliveryWorker has started.
func (c *Consumer) Handle(kind string, h Handler) {
	c.handlers[kind] = h
}

func (c *Consumer) Connect(dsn string) error {
	var err error
	c.conn, err = amqp091.Dial(dsn)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	c.chConsume, err = c.conn.Channel()
	if err != nil {
		_ = c.conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	var err error
	if err = c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err = c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, rk := range []string{mq.TaskUpload, mq.TaskPurge} {
		if err = c.chConsume.QueueBind(
			c.cfg.QueueName,
			rk,
			c.cfg.Exchange,
			false,
			nil,
		); err != nil {
			return fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}

	if err = c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	var cerr error
	c.chDelivery, cerr = c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if cerr != nil {
		return fmt.Errorf("consume: %w", cerr)
	}

	return nil
}

// DeliveryWorker consumes tasks until ctx is cancelled. Tasks already in
// flight are not cancellable by request contexts: ctx here is the process
// lifecycle context.
func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting task worker")

	defer func() {
		c.log.Info("task worker gracefully stopped")
	}()

	for {
		select {
		case msg := <-c.chDelivery:
			if err := c.delivery(ctx, msg); err != nil {
				// alert
				c.log.Error("task processing error",
					zap.String("task_kind", msg.RoutingKey),
					zap.Error(err),
				)
			}
		case <-ctx.Done():
			c.chConsume.Close()
			return
		}
	}
}

func (c *Consumer) delivery(ctx context.Context, msg amqp091.Delivery) error {
	h, ok := c.handlers[msg.RoutingKey]
	if !ok {
		return fmt.Errorf("no handler for task kind %q", msg.RoutingKey)
	}

	var t mq.Task
	if err := json.Unmarshal(msg.Body, &t); err != nil {
		return fmt.Errorf("decode task: %w", err)
	}

	return h(ctx, t)
}
