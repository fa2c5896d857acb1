package userlink

import (
	"context"

	"file-manager-api/internal/domain/storedfile"
)

type Repository interface {
	// Unlink marks the (userID, fileID) link unavailable and returns how
	// many available links to the file remain afterwards. The row lock on
	// the stored_files record is held across the read-check-write so two
	// concurrent unlinks of the last two links serialize: exactly one of
	// them observes remaining == 0.
	// Returns ErrLinkNotFound / ErrAlreadyUnlinked without side effects.
	Unlink(ctx context.Context, userID UserID, fileID storedfile.ID) (remaining int64, err error)
	CountAvailable(ctx context.Context, fileID storedfile.ID) (int64, error)
	FetchUserFiles(ctx context.Context, userID UserID, f Filter) (UserFiles, error)
	CountUserFiles(ctx context.Context, userID UserID) (int64, error)
}
