package userlink

import (
	"errors"
	"time"

	"file-manager-api/internal/domain/storedfile"
)

var (
	ErrLinkNotFound    = errors.New("user has no link to this file")
	ErrAlreadyUnlinked = errors.New("file has already been unlinked")
)

type (
	ID     int64
	UserID int64

	// UserLink is one user's ownership claim on a StoredFile. The bytes in
	// the object store may only be purged once every link to the file has
	// Available=false.
	UserLink struct {
		ID        ID
		UserID    UserID
		FileID    storedfile.ID
		Available bool
	}

	// UserFile is a link joined with its file metadata, as served by the
	// listing endpoints.
	UserFile struct {
		UserID    UserID
		Available bool
		File      *storedfile.StoredFile
	}
	UserFiles []*UserFile
)

// Filter narrows a user's file listing. Zero values mean "no constraint".
type Filter struct {
	Extension string
	Origin    string
	Status    storedfile.Status
	Start     *time.Time
	End       *time.Time

	Page     int
	PageSize int
}
