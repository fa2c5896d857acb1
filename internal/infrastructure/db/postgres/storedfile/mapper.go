package storedfile

import (
	domain "file-manager-api/internal/domain/storedfile"
)

func fromDBModel(model *StoredFile) *domain.StoredFile {
	var f = &domain.StoredFile{
		ID:         domain.ID(model.ID),
		ExternalID: model.ExternalID,
		Extension:  model.Extension,
		Origin:     model.Origin,
		Status:     domain.Status(model.Status),

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	return f
}
