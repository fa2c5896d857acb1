package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"file-manager-api/internal/domain/storedfile"
)

// readyFile seeds one Ready file with its bytes present in the store and
// returns its external id.
func readyFile(t *testing.T, env *testEnv, payload []byte) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	extID := uuid.New()

	_, err := env.svc.BeginUpload(ctx, 1, "export", extID, ".pdf", nil)
	require.NoError(t, err)
	require.NoError(t, env.svc.CompleteUpload(ctx, extID, ".pdf", payload))

	return extID
}

func TestDownload_UnknownFile(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.svc.Download(context.Background(), uuid.New())

	require.ErrorIs(t, err, storedfile.ErrObjectNotFound)
	assert.Zero(t, env.store.gets)
}

func TestDownload_PendingIsNotServed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	extID := uuid.New()

	_, err := env.svc.BeginUpload(ctx, 1, "export", extID, ".pdf", nil)
	require.NoError(t, err)

	_, _, err = env.svc.Download(ctx, extID)

	require.ErrorIs(t, err, storedfile.ErrFileNotReady)
	assert.Zero(t, env.store.gets, "status gating must precede store access")
}

func TestDownload_FailedIsNotServed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	extID := uuid.New()
	env.store.putFunc = func(calls int) error { return errStoreDown }

	_, err := env.svc.BeginUpload(ctx, 1, "export", extID, ".pdf", nil)
	require.NoError(t, err)
	require.Error(t, env.svc.CompleteUpload(ctx, extID, ".pdf", []byte("x")))

	_, _, err = env.svc.Download(ctx, extID)

	require.ErrorIs(t, err, storedfile.ErrFileFailed)
}

// TestDownload_UnlinkedEvenWhenBytesExist pins the gating order: a fully
// unlinked file is refused before the store is consulted, even while its
// bytes are still physically present (mid-purge window).
func TestDownload_UnlinkedEvenWhenBytesExist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	extID := readyFile(t, env, []byte("bytes"))

	require.NoError(t, env.svc.Unlink(ctx, 1, extID, ".pdf"))
	require.NotEmpty(t, env.store.objects)

	gets := env.store.gets
	_, _, err := env.svc.Download(ctx, extID)

	require.ErrorIs(t, err, storedfile.ErrFileUnlinked)
	assert.Equal(t, gets, env.store.gets)
}

func TestDownload_ServesBytesAndFilename(t *testing.T) {
	env := newTestEnv(t)
	extID := readyFile(t, env, []byte("report"))

	data, filename, err := env.svc.Download(context.Background(), extID)

	require.NoError(t, err)
	assert.Equal(t, []byte("report"), data)
	assert.Regexp(t, `^export_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}\.pdf$`, filename)
}

func TestDownload_RecoversFromTransientReadFailure(t *testing.T) {
	env := newTestEnv(t)
	extID := readyFile(t, env, []byte("report"))
	env.store.getFunc = func(calls int) ([]byte, error) {
		if calls == 1 {
			return nil, errStoreDown
		}
		return []byte("report"), nil
	}
	env.store.gets = 0

	data, _, err := env.svc.Download(context.Background(), extID)

	require.NoError(t, err)
	assert.Equal(t, []byte("report"), data)
	assert.Equal(t, 2, env.store.gets)
}

func TestDownload_AttemptsCapped(t *testing.T) {
	env := newTestEnv(t)
	extID := readyFile(t, env, []byte("report"))
	env.store.getFunc = func(calls int) ([]byte, error) { return nil, errStoreDown }
	env.store.gets = 0

	_, _, err := env.svc.Download(context.Background(), extID)

	require.ErrorIs(t, err, storedfile.ErrRetrievalExhausted)
	assert.Equal(t, 3, env.store.gets)
}
