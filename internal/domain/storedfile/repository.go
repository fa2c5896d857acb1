package storedfile

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// CreateWithLink inserts the StoredFile and the initiating user link in
	// one transaction. No partial rows survive a failed commit.
	CreateWithLink(ctx context.Context, userID int64, req *StoredFile) (*StoredFile, error)
	// FetchByKey returns (nil, nil) when no row matches.
	FetchByKey(ctx context.Context, externalID uuid.UUID, extension string) (*StoredFile, error)
	// FetchByExternalID returns (nil, nil) when no row matches.
	FetchByExternalID(ctx context.Context, externalID uuid.UUID) (*StoredFile, error)
	UpdateStatus(ctx context.Context, id ID, status Status) error
}
