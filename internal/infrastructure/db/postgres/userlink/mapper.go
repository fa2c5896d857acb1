package userlink

import (
	domainFile "file-manager-api/internal/domain/storedfile"
	domain "file-manager-api/internal/domain/userlink"
)

func fromDBModel(model *UserFile) *domain.UserFile {
	var uf = &domain.UserFile{
		UserID:    domain.UserID(model.UserID),
		Available: model.Available,
		File: &domainFile.StoredFile{
			ID:         domainFile.ID(model.FileID),
			ExternalID: model.ExternalID,
			Extension:  model.Extension,
			Origin:     model.Origin,
			Status:     domainFile.Status(model.Status),

			CreatedAt: model.CreatedAt,
			UpdatedAt: model.UpdatedAt,
		},
	}

	return uf
}

func fromDBModels(models *UserFiles) domain.UserFiles {
	ufs := make(domain.UserFiles, len(*models))
	for idx, u := range *models {
		ufs[idx] = fromDBModel(u)
	}

	return ufs
}
