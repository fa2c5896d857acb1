package services

import (
	"context"

	"github.com/google/uuid"

	"file-manager-api/internal/domain/storedfile"
	"file-manager-api/internal/domain/userlink"
)

func (s *FileService) FindUserFiles(ctx context.Context, userID userlink.UserID, f userlink.Filter) (userlink.UserFiles, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > s.maxPageSize {
		f.PageSize = s.maxPageSize
	}

	return s.links.FetchUserFiles(ctx, userID, f)
}

func (s *FileService) FileDetail(ctx context.Context, externalID uuid.UUID) (*storedfile.StoredFile, error) {
	f, err := s.files.FetchByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, storedfile.ErrObjectNotFound
	}

	return f, nil
}

func (s *FileService) UserFilesSummary(ctx context.Context, userID userlink.UserID) (int64, error) {
	return s.links.CountUserFiles(ctx, userID)
}
