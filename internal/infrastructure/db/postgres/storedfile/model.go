package storedfile

import (
	"time"

	"github.com/google/uuid"
)

type (
	StoredFile struct {
		ID         int64
		ExternalID uuid.UUID
		Extension  string
		Origin     string
		Status     string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	StoredFiles []*StoredFile
)
