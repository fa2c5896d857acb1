package userlink

import (
	"time"

	"github.com/google/uuid"
)

type (
	// UserFile is the joined row shape of the listing query: one link plus
	// its file metadata.
	UserFile struct {
		UserID    int64
		Available bool

		FileID     int64
		ExternalID uuid.UUID
		Extension  string
		Origin     string
		Status     string
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}
	UserFiles []*UserFile
)
