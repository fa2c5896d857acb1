package storedfile

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a stored file, persisted as a single
// character: P (pending), R (ready), E (error).
type Status string

const (
	StatusPending Status = "P"
	StatusReady   Status = "R"
	StatusError   Status = "E"
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "In progress"
	case StatusReady:
		return "Ready"
	case StatusError:
		return "Error"
	}
	return string(s)
}

// CanTransition reports whether the move s -> to is legal.
// Pending is the only non-terminal state.
func (s Status) CanTransition(to Status) bool {
	return s == StatusPending && (to == StatusReady || to == StatusError)
}

type (
	ID int64

	// StoredFile is the metadata record of one physical object in the
	// object store. Many users may hold links to the same StoredFile;
	// (ExternalID, Extension) is globally unique and doubles as the
	// object-store key.
	StoredFile struct {
		ID         ID
		ExternalID uuid.UUID
		Extension  string
		Origin     string
		Status     Status

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	StoredFiles []*StoredFile
)

// StorageKey is the object-store key under which the bytes live.
func (f *StoredFile) StorageKey() string {
	return f.ExternalID.String() + f.Extension
}

// TransitionTo applies a status transition, bumping UpdatedAt.
func (f *StoredFile) TransitionTo(to Status) error {
	if !f.Status.CanTransition(to) {
		return fmt.Errorf("illegal status transition %q -> %q: %w", f.Status, to, ErrIllegalTransition)
	}
	f.Status = to
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// Filename derives the name handed to downloaders. It is computed from
// origin, creation time and extension on every read and never stored, so
// the convention can change without a migration.
func (f *StoredFile) Filename() string {
	return fmt.Sprintf("%s_%s%s", sanitizeOrigin(f.Origin), f.CreatedAt.Format("2006-01-02_15-04"), f.Extension)
}
