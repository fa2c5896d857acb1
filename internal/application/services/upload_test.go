package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"file-manager-api/internal/domain/storedfile"
	"file-manager-api/internal/infrastructure/mq"
)

func TestBeginUpload_RejectsDisallowedExtension(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.BeginUpload(context.Background(), 1, "export", uuid.New(), ".exe", []byte("x"))

	require.ErrorIs(t, err, storedfile.ErrInvalidExtension)
	assert.Empty(t, env.repos.files)
	assert.Empty(t, env.queue.tasks)
}

func TestBeginUpload_RejectsUnknownOrigin(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.BeginUpload(context.Background(), 1, "billing", uuid.New(), ".pdf", []byte("x"))

	require.ErrorIs(t, err, storedfile.ErrInvalidOrigin)
	assert.Empty(t, env.repos.files)
	assert.Empty(t, env.queue.tasks)
}

func TestBeginUpload_NormalizesAndEnqueues(t *testing.T) {
	env := newTestEnv(t)
	extID := uuid.New()

	f, err := env.svc.BeginUpload(context.Background(), 42, "Export", extID, ".PDF", []byte("payload"))

	require.NoError(t, err)
	assert.Equal(t, storedfile.StatusPending, f.Status)
	assert.Equal(t, ".pdf", f.Extension)
	assert.Equal(t, "export", f.Origin)

	uploads := env.queue.byKind(mq.TaskUpload)
	require.Len(t, uploads, 1)
	assert.Equal(t, extID, uploads[0].ExternalID)
	assert.Equal(t, ".pdf", uploads[0].Extension)
	assert.Equal(t, []byte("payload"), uploads[0].Payload)
}

func TestBeginUpload_DuplicateKeyConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	extID := uuid.New()

	first, err := env.svc.BeginUpload(ctx, 1, "export", extID, ".pdf", []byte("a"))
	require.NoError(t, err)

	_, err = env.svc.BeginUpload(ctx, 2, "export", extID, ".pdf", []byte("b"))
	require.ErrorIs(t, err, storedfile.ErrDuplicateFile)

	// the original row is untouched and only the first task got through
	stored, err := env.repos.FetchByKey(ctx, extID, ".pdf")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, storedfile.StatusPending, stored.Status)
	assert.Len(t, env.queue.byKind(mq.TaskUpload), 1)
}

func TestBeginUpload_EnqueueFailureSurfaces(t *testing.T) {
	env := newTestEnv(t)
	env.queue.enqueueErr = errStoreDown

	_, err := env.svc.BeginUpload(context.Background(), 1, "export", uuid.New(), ".pdf", []byte("x"))

	require.ErrorIs(t, err, errStoreDown)
}

func TestCompleteUpload_SettlesReadyAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	extID := uuid.New()

	f, err := env.svc.BeginUpload(ctx, 1, "export", extID, ".pdf", nil)
	require.NoError(t, err)

	require.NoError(t, env.svc.CompleteUpload(ctx, extID, ".pdf", []byte("bytes")))

	stored, err := env.repos.FetchByKey(ctx, extID, ".pdf")
	require.NoError(t, err)
	assert.Equal(t, storedfile.StatusReady, stored.Status)
	assert.Equal(t, []byte("bytes"), env.store.objects[f.StorageKey()])
	assert.Equal(t, []string{"ready"}, env.notifier.events[extID.String()])
}

func TestCompleteUpload_CreatesMissingBucket(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	extID := uuid.New()
	env.store.bucketExistsFunc = func(calls int) (bool, error) { return false, nil }

	_, err := env.svc.BeginUpload(ctx, 1, "export", extID, ".pdf", nil)
	require.NoError(t, err)

	require.NoError(t, env.svc.CompleteUpload(ctx, extID, ".pdf", []byte("bytes")))

	assert.Equal(t, 1, env.store.creates)
	stored, err := env.repos.FetchByKey(ctx, extID, ".pdf")
	require.NoError(t, err)
	assert.Equal(t, storedfile.StatusReady, stored.Status)
}

func TestCompleteUpload_BucketAttemptsCapped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	extID := uuid.New()
	env.store.bucketExistsFunc = func(calls int) (bool, error) { return false, errStoreDown }

	_, err := env.svc.BeginUpload(ctx, 1, "export", extID, ".pdf", nil)
	require.NoError(t, err)

	err = env.svc.CompleteUpload(ctx, extID, ".pdf", []byte("bytes"))

	require.Error(t, err)
	assert.Equal(t, 3, env.store.bucketChecks)
	assert.Zero(t, env.store.puts)

	stored, ferr := env.repos.FetchByKey(ctx, extID, ".pdf")
	require.NoError(t, ferr)
	assert.Equal(t, storedfile.StatusError, stored.Status)
	assert.Equal(t, []string{"error"}, env.notifier.events[extID.String()])
}

func TestCompleteUpload_ObjectWriteFailureIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	extID := uuid.New()
	env.store.putFunc = func(calls int) error { return errStoreDown }

	_, err := env.svc.BeginUpload(ctx, 1, "export", extID, ".pdf", nil)
	require.NoError(t, err)

	err = env.svc.CompleteUpload(ctx, extID, ".pdf", []byte("bytes"))

	require.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 1, env.store.puts, "object writes must not be retried")

	stored, ferr := env.repos.FetchByKey(ctx, extID, ".pdf")
	require.NoError(t, ferr)
	assert.Equal(t, storedfile.StatusError, stored.Status)
	assert.Equal(t, []string{"error"}, env.notifier.events[extID.String()])
}

func TestCompleteUpload_MissingRowIsDropped(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.CompleteUpload(context.Background(), uuid.New(), ".pdf", []byte("bytes"))

	require.NoError(t, err)
	assert.Zero(t, env.store.puts)
	assert.Empty(t, env.notifier.events)
}
