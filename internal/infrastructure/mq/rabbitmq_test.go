package mq

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"file-manager-api/config"
)

func TestEnqueue_BuffersTask(t *testing.T) {
	r := New(config.MQ{}, zap.NewNop())
	task := Task{
		ID:         uuid.New(),
		TS:         time.Now().UTC(),
		Kind:       TaskUpload,
		ExternalID: uuid.New(),
		Extension:  ".pdf",
		Payload:    []byte("bytes"),
	}

	require.NoError(t, r.Enqueue(context.Background(), task))

	select {
	case got := <-r.GetInputChan():
		assert.Equal(t, task, got)
	default:
		t.Fatal("task was not buffered")
	}
}

func TestEnqueue_CancelledContext(t *testing.T) {
	r := New(config.MQ{}, zap.NewNop())

	// fill the buffer so the send cannot proceed
	for i := 0; i < bufferSize; i++ {
		require.NoError(t, r.Enqueue(context.Background(), Task{Kind: TaskPurge}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Enqueue(ctx, Task{Kind: TaskPurge})

	require.ErrorIs(t, err, context.Canceled)
}

func TestConnect_InvalidDSN(t *testing.T) {
	r := New(config.MQ{}, zap.NewNop())

	err := r.Connect(context.Background(), "amqp://bad:://dsn")

	require.Error(t, err)
	require.Nil(t, r.GetConn())
}
