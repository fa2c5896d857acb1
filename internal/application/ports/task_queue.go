package ports

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"file-manager-api/internal/infrastructure/mq"
)

type TaskQueue interface {
	Connect(ctx context.Context, dsn string) error
	Init() error
	PublisherWorker(ctx context.Context)
	Enqueue(ctx context.Context, t mq.Task) error
	GetConn() *amqp091.Connection
}
