package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"file-manager-api/internal/domain/storedfile"
	"file-manager-api/internal/domain/userlink"
	"file-manager-api/internal/infrastructure/mq"
)

func TestUnlink_UnknownFile(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.Unlink(context.Background(), 1, uuid.New(), ".pdf")

	require.ErrorIs(t, err, storedfile.ErrObjectNotFound)
}

func TestUnlink_NoLinkForUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	extID := uuid.New()

	_, err := env.svc.BeginUpload(ctx, 1, "export", extID, ".pdf", nil)
	require.NoError(t, err)

	err = env.svc.Unlink(ctx, 99, extID, ".pdf")

	require.ErrorIs(t, err, userlink.ErrLinkNotFound)
	assert.Empty(t, env.queue.byKind(mq.TaskPurge))
}

func TestUnlink_KeepsBytesWhileReferenced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	extID := uuid.New()

	f, err := env.svc.BeginUpload(ctx, 1, "export", extID, ".pdf", nil)
	require.NoError(t, err)
	env.repos.addLink(f.ID, 2)

	require.NoError(t, env.svc.Unlink(ctx, 1, extID, ".pdf"))

	assert.Empty(t, env.queue.byKind(mq.TaskPurge))
}

// TestUnlink_LastLinkPurgesOnce removes two links in both possible orders;
// whichever link goes last is the one that triggers the single purge.
func TestUnlink_LastLinkPurgesOnce(t *testing.T) {
	orders := map[string][2]userlink.UserID{
		"uploader last":  {2, 1},
		"uploader first": {1, 2},
	}

	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			extID := uuid.New()

			f, err := env.svc.BeginUpload(ctx, 1, "export", extID, ".pdf", nil)
			require.NoError(t, err)
			env.repos.addLink(f.ID, 2)

			require.NoError(t, env.svc.Unlink(ctx, order[0], extID, ".pdf"))
			assert.Empty(t, env.queue.byKind(mq.TaskPurge))

			require.NoError(t, env.svc.Unlink(ctx, order[1], extID, ".pdf"))

			purges := env.queue.byKind(mq.TaskPurge)
			require.Len(t, purges, 1)
			assert.Equal(t, extID, purges[0].ExternalID)
			assert.Equal(t, ".pdf", purges[0].Extension)
			assert.Empty(t, purges[0].Payload)
		})
	}
}

func TestUnlink_RepeatIsRejectedWithoutSecondPurge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	extID := uuid.New()

	_, err := env.svc.BeginUpload(ctx, 1, "export", extID, ".pdf", nil)
	require.NoError(t, err)

	require.NoError(t, env.svc.Unlink(ctx, 1, extID, ".pdf"))
	require.Len(t, env.queue.byKind(mq.TaskPurge), 1)

	err = env.svc.Unlink(ctx, 1, extID, ".pdf")

	require.ErrorIs(t, err, userlink.ErrAlreadyUnlinked)
	assert.Len(t, env.queue.byKind(mq.TaskPurge), 1)
}

func TestUnlink_LostPurgeTaskDoesNotFailCaller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	extID := uuid.New()

	_, err := env.svc.BeginUpload(ctx, 1, "export", extID, ".pdf", nil)
	require.NoError(t, err)
	env.queue.enqueueErr = errStoreDown

	require.NoError(t, env.svc.Unlink(ctx, 1, extID, ".pdf"))

	// the link itself is gone even though the purge could not be enqueued
	n, err := env.repos.CountAvailable(ctx, storedfile.ID(1))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPurge_DeletesObject(t *testing.T) {
	env := newTestEnv(t)
	extID := uuid.New()
	key := extID.String() + ".pdf"
	env.store.objects[key] = []byte("bytes")

	require.NoError(t, env.svc.Purge(context.Background(), extID, ".pdf"))

	assert.Equal(t, 1, env.store.deletes)
	assert.NotContains(t, env.store.objects, key)
}

func TestPurge_MissingBucketIsNoop(t *testing.T) {
	env := newTestEnv(t)
	env.store.bucketExistsFunc = func(calls int) (bool, error) { return false, nil }

	require.NoError(t, env.svc.Purge(context.Background(), uuid.New(), ".pdf"))

	assert.Zero(t, env.store.deletes)
}

func TestPurge_RecoversFromTransientFailure(t *testing.T) {
	env := newTestEnv(t)
	extID := uuid.New()
	env.store.objects[extID.String()+".pdf"] = []byte("bytes")
	env.store.deleteFunc = func(calls int) error {
		if calls == 1 {
			return errStoreDown
		}
		return nil
	}

	require.NoError(t, env.svc.Purge(context.Background(), extID, ".pdf"))

	assert.Equal(t, 2, env.store.deletes)
}

func TestPurge_AttemptsCapped(t *testing.T) {
	env := newTestEnv(t)
	env.store.deleteFunc = func(calls int) error { return errStoreDown }

	err := env.svc.Purge(context.Background(), uuid.New(), ".pdf")

	require.Error(t, err)
	assert.Equal(t, 3, env.store.deletes)
}
