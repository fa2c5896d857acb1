package storedfile

import "errors"

var (
	// validation
	ErrInvalidExtension = errors.New("file extension is not allowed")
	ErrInvalidOrigin    = errors.New("origin service is not allowed")

	// conflicts
	ErrDuplicateFile = errors.New("file with this uuid and extension already exists")
	ErrMetadataWrite = errors.New("metadata write failed")

	// consistency
	ErrObjectNotFound    = errors.New("file not found")
	ErrFileNotReady      = errors.New("file upload is still in progress")
	ErrFileFailed        = errors.New("file upload has failed")
	ErrFileUnlinked      = errors.New("file has been unlinked by all owners")
	ErrIllegalTransition = errors.New("status transition is not allowed")

	// infrastructure
	ErrRetrievalExhausted = errors.New("object store retrieval attempts exhausted")
)
