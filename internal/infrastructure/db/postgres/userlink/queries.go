package userlink

const (
	// LockStoredFile is the per-file serialization point: every unlink takes
	// the row lock before reading or changing the link set, so the
	// check-then-act on the reference count can never run against a torn
	// read.
	LockStoredFile = `
		SELECT id
		FROM stored_files
		WHERE id = $1
		FOR UPDATE
	`
	SelectLink = `
		SELECT id, available
		FROM user_links
		WHERE user_id = $1 AND file_id = $2
	`
	MarkUnavailable = `
		UPDATE user_links
		SET available = FALSE
		WHERE id = $1
	`
	CountAvailableByFile = `
		SELECT COUNT(*)
		FROM user_links
		WHERE file_id = $1 AND available
	`
	CountByUser = `
		SELECT COUNT(*)
		FROM user_links
		WHERE user_id = $1
	`
	SelectUserFilesBase = `
		SELECT ul.user_id, ul.available,
		       sf.id, sf.external_id, sf.extension, sf.origin, sf.status, sf.created_at, sf.updated_at
		FROM user_links ul
		JOIN stored_files sf ON sf.id = ul.file_id
		WHERE ul.user_id = $1
	`
)
