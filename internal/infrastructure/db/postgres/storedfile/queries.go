package storedfile

const (
	InsertStoredFile = `
		INSERT INTO stored_files (external_id, extension, origin)
		VALUES ($1, $2, $3)
		RETURNING id, external_id, extension, origin, status, created_at, updated_at
	`
	InsertUserLink = `
		INSERT INTO user_links (user_id, file_id)
		VALUES ($1, $2)
	`
	SelectByKey = `
		SELECT id, external_id, extension, origin, status, created_at, updated_at
		FROM stored_files
		WHERE external_id = $1 AND lower(extension) = lower($2)
	`
	SelectByExternalID = `
		SELECT id, external_id, extension, origin, status, created_at, updated_at
		FROM stored_files
		WHERE external_id = $1
		ORDER BY id
		LIMIT 1
	`
	UpdateStatus = `
		UPDATE stored_files
		SET status = $2, updated_at = now()
		WHERE id = $1
	`
)
