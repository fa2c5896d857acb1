package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"file-manager-api/internal/domain/storedfile"
	"file-manager-api/internal/domain/userlink"
	"file-manager-api/internal/infrastructure/mq"
)

// Unlink removes one user's claim on a file. When the last available link
// goes away exactly one purge task is enqueued; the metadata rows are kept
// for audit.
func (s *FileService) Unlink(ctx context.Context, userID userlink.UserID, externalID uuid.UUID, extension string) error {
	ext := strings.ToLower(extension)

	f, err := s.files.FetchByKey(ctx, externalID, ext)
	if err != nil {
		return err
	}
	if f == nil {
		return storedfile.ErrObjectNotFound
	}

	// the repository holds the stored_files row lock across the
	// read-check-write, which makes remaining==0 observable by exactly one
	// of any set of concurrent unlinks
	remaining, err := s.links.Unlink(ctx, userID, f.ID)
	if err != nil {
		return err
	}

	s.mCounter.WithLabelValues("files_unlinked_total").Inc()

	if remaining > 0 {
		return nil // still referenced, bytes stay
	}

	if err = s.queue.Enqueue(ctx, mq.Task{
		ID:         uuid.New(),
		TS:         time.Now().UTC(),
		Kind:       mq.TaskPurge,
		ExternalID: f.ExternalID,
		Extension:  f.Extension,
	}); err != nil {
		// the unlink itself is committed; a lost purge task leaves an
		// orphaned object for out-of-band remediation, the caller must not
		// see an error for a delete that succeeded
		s.logger.Error("enqueue purge task failed",
			zap.String("file_uuid", f.ExternalID.String()),
			zap.Error(err),
		)
	}

	return nil
}

// Purge deletes the object bytes. It runs on a task worker with no caller
// waiting: exhausted retries are logged and surface via metrics only.
func (s *FileService) Purge(ctx context.Context, externalID uuid.UUID, extension string) error {
	bucket := s.store.GetBucket()
	key := externalID.String() + strings.ToLower(extension)

	err := retry.Do(ctx, s.retryBackoff(), func(ctx context.Context) error {
		exists, err := s.store.BucketExists(ctx, bucket)
		if err != nil {
			return retry.RetryableError(err)
		}
		if !exists {
			return nil // nothing to delete
		}
		if err = s.store.DeleteObject(ctx, bucket, key); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("purge attempts exhausted, object orphaned",
			zap.String("key", key),
			zap.Error(err),
		)
		s.mCounter.WithLabelValues("files_purge_failed_total").Inc()
		return err
	}

	s.mCounter.WithLabelValues("files_purged_total").Inc()

	return nil
}
