package file

import (
	"file-manager-api/internal/domain/storedfile"
	"file-manager-api/internal/domain/userlink"
)

func ToResponseStoredFile(f storedfile.StoredFile) StoredFile {
	return StoredFile{
		UUID:      f.ExternalID,
		Extension: f.Extension,
		Origin:    f.Origin,
		Status:    f.Status.String(),
		CreatedAt: f.CreatedAt,
	}
}

func ToResponseUserFiles(ufs userlink.UserFiles) UserFiles {
	out := make(UserFiles, len(ufs))
	for idx, uf := range ufs {
		out[idx] = UserFile{
			FileData: ToResponseStoredFile(*uf.File),
			Filename: uf.File.Filename(),
		}
	}

	return out
}
