package validator

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"file-manager-api/internal/domain/storedfile"
)

func ValidatePage(page string) (int, error) {
	p := 1
	if page != "" {
		p, err := strconv.Atoi(page)
		if err != nil || p < 1 {
			return p, errors.New("invalid page")
		}
		return p, nil
	}

	return p, nil
}

func ValidatePageSize(pageSize string) (int, error) {
	if pageSize == "" {
		return 0, nil
	}
	ps, err := strconv.Atoi(pageSize)
	if err != nil || ps < 1 {
		return 0, errors.New("invalid page_size")
	}
	return ps, nil
}

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

func ValidateUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("user id must be a positive integer")
	}
	return id, nil
}

// NormalizeExtension lowercases the extension and guarantees a leading dot,
// so ".PDF", "pdf" and ".pdf" all address the same file.
func NormalizeExtension(s string) (string, error) {
	ext := strings.ToLower(strings.TrimSpace(s))
	if ext == "" {
		return "", errors.New("file extension is required")
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if len(ext) < 2 {
		return "", errors.New("file extension is required")
	}
	return ext, nil
}

// ParseStatus accepts the one-char storage codes.
func ParseStatus(s string) (storedfile.Status, error) {
	if s == "" {
		return "", nil
	}
	st := storedfile.Status(strings.ToUpper(s))
	switch st {
	case storedfile.StatusPending, storedfile.StatusReady, storedfile.StatusError:
		return st, nil
	}
	return "", errors.New("status must be one of P, R, E")
}

// ParseTime accepts RFC3339 or a plain date.
func ParseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("timestamp must be RFC3339 or YYYY-MM-DD")
}
