package mq

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"file-manager-api/config"
)

const bufferSize = 128

// Task kinds double as AMQP routing keys.
const (
	TaskUpload = "upload"
	TaskPurge  = "purge"
)

type (
	InputCh  = chan Task
	RabbitMQ struct {
		cfg   config.MQ
		log   *zap.Logger
		conn  *amqp091.Connection
		pubCh *amqp091.Channel
		in    InputCh
	}
	// Task is one unit of asynchronous work: the upload write phase or a
	// physical purge. Payload carries the raw file bytes for uploads and
	// is empty for purges (json base64-encodes it on the wire).
	Task struct {
		ID         uuid.UUID `json:"task_id"`
		TS         time.Time `json:"time_stamp"`
		Kind       string    `json:"task_kind"`
		ExternalID uuid.UUID `json:"file_uuid"`
		Extension  string    `json:"file_extension"`
		Payload    []byte    `json:"payload,omitempty"`
	}
)

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger,
		in:  make(chan Task, bufferSize),
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "filemanagerapi",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
		TLSClientConfig: nil,
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	r.pubCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		return err
	}

	r.log.Info("rabbitmq connected successfully")

	return err
}

func (r *RabbitMQ) Init() error {
	var err error
	if err = r.pubCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.pubCh.Close()
		return err
	}
	q, err := r.pubCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for _, rk := range []string{TaskUpload, TaskPurge} {
		if err = r.pubCh.QueueBind(q.Name, rk, r.cfg.Exchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}

// Enqueue hands a task to the publisher worker. It blocks only when the
// input buffer is full, and respects caller cancellation.
func (r *RabbitMQ) Enqueue(ctx context.Context, t Task) error {
	select {
	case r.in <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *RabbitMQ) PublisherWorker(ctx context.Context) {
	r.log.Info("starting task publisher worker")

	defer func() {
		r.log.Info("task publisher worker gracefully stopped")
	}()

	for {
		select {
		case t := <-r.in:
			if err := r.publish(ctx, t); err != nil {
				// alert
				r.log.Error("mq publish error",
					zap.String("task_kind", t.Kind),
					zap.String("file_uuid", t.ExternalID.String()),
					zap.Error(err),
				)
			}
		case <-ctx.Done():
			close(r.in)
			r.pubCh.Close()
			return
		}
	}
}

func (r *RabbitMQ) publish(ctx context.Context, t Task) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    t.ID.String(),
		Timestamp:    t.TS,
		Type:         t.Kind,
		Body:         b,
	}
	if err = r.pubCh.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		t.Kind,
		true,
		false,
		pub,
	); err != nil {
		return err
	}

	return nil
}

func (r *RabbitMQ) GetInputChan() chan Task      { return r.in }
func (r *RabbitMQ) GetConn() *amqp091.Connection { return r.conn }
