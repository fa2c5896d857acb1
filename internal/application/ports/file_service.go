package ports

import (
	"context"

	"github.com/google/uuid"

	"file-manager-api/internal/domain/storedfile"
	"file-manager-api/internal/domain/userlink"
)

type FileService interface {
	// BeginUpload creates the metadata rows and hands the payload to the
	// asynchronous write phase. The returned file is always Pending.
	BeginUpload(ctx context.Context, userID userlink.UserID, origin string, externalID uuid.UUID, extension string, payload []byte) (*storedfile.StoredFile, error)
	// CompleteUpload is the write phase, executed by a task worker.
	CompleteUpload(ctx context.Context, externalID uuid.UUID, extension string, payload []byte) error

	// Unlink removes one user's claim on a file and, when it was the last
	// one, enqueues a physical purge of the object bytes.
	Unlink(ctx context.Context, userID userlink.UserID, externalID uuid.UUID, extension string) error
	// Purge erases the object bytes, executed by a task worker.
	Purge(ctx context.Context, externalID uuid.UUID, extension string) error

	Download(ctx context.Context, externalID uuid.UUID) (data []byte, filename string, err error)

	FindUserFiles(ctx context.Context, userID userlink.UserID, f userlink.Filter) (userlink.UserFiles, error)
	FileDetail(ctx context.Context, externalID uuid.UUID) (*storedfile.StoredFile, error)
	UserFilesSummary(ctx context.Context, userID userlink.UserID) (int64, error)
}
