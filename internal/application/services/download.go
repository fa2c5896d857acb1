package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"file-manager-api/internal/domain/storedfile"
)

// Download serves the bytes of a Ready file. Status gating happens before
// the object store is touched, and a file whose last link is gone is never
// served even when its bytes still physically exist (it may be mid-purge).
func (s *FileService) Download(ctx context.Context, externalID uuid.UUID) ([]byte, string, error) {
	f, err := s.files.FetchByExternalID(ctx, externalID)
	if err != nil {
		return nil, "", err
	}
	if f == nil {
		return nil, "", storedfile.ErrObjectNotFound
	}

	switch f.Status {
	case storedfile.StatusPending:
		return nil, "", storedfile.ErrFileNotReady
	case storedfile.StatusError:
		return nil, "", storedfile.ErrFileFailed
	}

	remaining, err := s.links.CountAvailable(ctx, f.ID)
	if err != nil {
		return nil, "", err
	}
	if remaining == 0 {
		return nil, "", storedfile.ErrFileUnlinked
	}

	var data []byte
	err = retry.Do(ctx, s.retryBackoff(), func(ctx context.Context) error {
		var rerr error
		data, rerr = s.store.GetObject(ctx, s.store.GetBucket(), f.StorageKey())
		if rerr != nil {
			return retry.RetryableError(rerr)
		}
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", storedfile.ErrRetrievalExhausted, err)
	}

	s.mCounter.WithLabelValues("files_downloaded_total").Inc()

	return data, f.Filename(), nil
}
