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

// BeginUpload validates the request, creates the StoredFile (Pending) and
// the initiating user link in one transaction, and enqueues the write
// phase. The caller gets an answer before any byte reaches the object
// store; completion is observed by polling status or the notification bus.
func (s *FileService) BeginUpload(
	ctx context.Context,
	userID userlink.UserID,
	origin string,
	externalID uuid.UUID,
	extension string,
	payload []byte,
) (*storedfile.StoredFile, error) {
	ext := strings.ToLower(extension)
	org := strings.ToLower(origin)

	if _, ok := s.allowedExtensions[ext]; !ok {
		return nil, storedfile.ErrInvalidExtension
	}
	if _, ok := s.allowedOrigins[org]; !ok {
		return nil, storedfile.ErrInvalidOrigin
	}

	f, err := s.files.CreateWithLink(ctx, int64(userID), &storedfile.StoredFile{
		ExternalID: externalID,
		Extension:  ext,
		Origin:     org,
		Status:     storedfile.StatusPending,
	})
	if err != nil {
		return nil, err
	}

	if err = s.queue.Enqueue(ctx, mq.Task{
		ID:         uuid.New(),
		TS:         time.Now().UTC(),
		Kind:       mq.TaskUpload,
		ExternalID: externalID,
		Extension:  ext,
		Payload:    payload,
	}); err != nil {
		// the row stays Pending and is never served; pollers will see the
		// upload as stuck and can retry under a fresh uuid
		s.logger.Error("enqueue upload task failed",
			zap.String("file_uuid", externalID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.mCounter.WithLabelValues("files_upload_accepted_total").Inc()

	return f, nil
}

// CompleteUpload is the asynchronous write phase. It performs exactly one
// status transition and publishes exactly one best-effort notification per
// invocation, whatever the outcome.
func (s *FileService) CompleteUpload(ctx context.Context, externalID uuid.UUID, extension string, payload []byte) error {
	if err := s.ensureBucket(ctx); err != nil {
		// store unreachable beyond the attempt cap: settle the row so
		// pollers see a terminal state instead of an eternal Pending
		s.logger.Error("bucket self-heal attempts exhausted",
			zap.String("file_uuid", externalID.String()),
			zap.Error(err),
		)
		s.settleError(ctx, externalID, extension)
		return err
	}

	f, err := s.files.FetchByKey(ctx, externalID, extension)
	if err != nil {
		return err
	}
	if f == nil {
		// metadata row raced away; nothing left to transition
		s.logger.Error("stored file vanished before write phase",
			zap.String("file_uuid", externalID.String()),
			zap.String("file_extension", extension),
		)
		return nil
	}

	if err = s.store.PutObject(ctx, s.store.GetBucket(), f.StorageKey(), payload); err != nil {
		// object-write failures are terminal, the attempt cap applies to
		// bucket creation only
		s.logger.Error("object write failed",
			zap.String("key", f.StorageKey()),
			zap.Error(err),
		)
		s.transitionAndNotify(ctx, f, storedfile.StatusError)
		return err
	}

	s.transitionAndNotify(ctx, f, storedfile.StatusReady)
	s.mCounter.WithLabelValues("files_uploaded_total").Inc()

	return nil
}

// ensureBucket verifies the bucket exists, creating it when missing, within
// the bounded attempt cap.
func (s *FileService) ensureBucket(ctx context.Context) error {
	bucket := s.store.GetBucket()
	return retry.Do(ctx, s.retryBackoff(), func(ctx context.Context) error {
		exists, err := s.store.BucketExists(ctx, bucket)
		if err != nil {
			return retry.RetryableError(err)
		}
		if exists {
			return nil
		}
		if err = s.store.CreateBucket(ctx, bucket); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (s *FileService) settleError(ctx context.Context, externalID uuid.UUID, extension string) {
	f, err := s.files.FetchByKey(ctx, externalID, extension)
	if err != nil || f == nil {
		s.logger.Error("cannot settle stored file on error",
			zap.String("file_uuid", externalID.String()),
			zap.Error(err),
		)
		return
	}
	s.transitionAndNotify(ctx, f, storedfile.StatusError)
}

func (s *FileService) transitionAndNotify(ctx context.Context, f *storedfile.StoredFile, to storedfile.Status) {
	if err := f.TransitionTo(to); err != nil {
		s.logger.Error("status transition rejected",
			zap.String("file_uuid", f.ExternalID.String()),
			zap.Error(err),
		)
		return
	}
	if err := s.files.UpdateStatus(ctx, f.ID, to); err != nil {
		// bytes may already sit in the store while the row stays Pending;
		// a Pending file is never served, reconciliation is out-of-band
		s.logger.Error("status update failed",
			zap.String("file_uuid", f.ExternalID.String()),
			zap.Error(err),
		)
		return
	}

	switch to {
	case storedfile.StatusReady:
		s.notifier.Publish(ctx, f.ExternalID.String(), "ready")
	case storedfile.StatusError:
		s.notifier.Publish(ctx, f.ExternalID.String(), "error")
	}
}
