package ports

import (
	"context"

	"file-manager-api/pkg/taskrunner"
)

type TaskConsumer interface {
	Connect(dsn string) error
	Init() error
	Handle(kind string, h taskrunner.Handler)
	DeliveryWorker(ctx context.Context)
}
