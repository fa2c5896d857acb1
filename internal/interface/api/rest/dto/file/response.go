package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	StoredFile struct {
		UUID      uuid.UUID `json:"file_uuid"`
		Extension string    `json:"file_extension"`
		Origin    string    `json:"service_name"`
		Status    string    `json:"status"`
		CreatedAt time.Time `json:"created_at"`
	}
	UserFile struct {
		FileData StoredFile `json:"file_data"`
		Filename string     `json:"filename"`
	}
	UserFiles    []UserFile
	ResponseData struct {
		UserID int64     `json:"user_id"`
		Files  UserFiles `json:"files"`
	}
	SummaryResponse struct {
		UserID          int64 `json:"user_id"`
		TotalFilesCount int64 `json:"total_files_count"`
	}
)
