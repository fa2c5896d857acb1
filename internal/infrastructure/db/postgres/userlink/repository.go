package userlink

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	domainFile "file-manager-api/internal/domain/storedfile"
	domain "file-manager-api/internal/domain/userlink"
	"file-manager-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) domain.Repository {
	return &Repository{db: db}
}

// Unlink flips the link to unavailable and reports how many available links
// remain, all under the stored_files row lock. Two unlinks racing for the
// last two links serialize here: the loser of the lock re-reads state the
// winner has already committed.
func (r *Repository) Unlink(ctx context.Context, userID domain.UserID, fileID domainFile.ID) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin unlink tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var lockedID int64
	if err = tx.QueryRow(ctx, LockStoredFile, int64(fileID)).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrLinkNotFound
		}
		return 0, fmt.Errorf("lock stored file: %w", err)
	}

	var (
		linkID    int64
		available bool
	)
	if err = tx.QueryRow(ctx, SelectLink, int64(userID), int64(fileID)).Scan(&linkID, &available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrLinkNotFound
		}
		return 0, fmt.Errorf("select link: %w", err)
	}
	if !available {
		return 0, domain.ErrAlreadyUnlinked
	}

	if _, err = tx.Exec(ctx, MarkUnavailable, linkID); err != nil {
		return 0, fmt.Errorf("mark link unavailable: %w", err)
	}

	var remaining int64
	if err = tx.QueryRow(ctx, CountAvailableByFile, int64(fileID)).Scan(&remaining); err != nil {
		return 0, fmt.Errorf("count available links: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit unlink: %w", err)
	}

	return remaining, nil
}

func (r *Repository) CountAvailable(ctx context.Context, fileID domainFile.ID) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, CountAvailableByFile, int64(fileID)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repository) CountUserFiles(ctx context.Context, userID domain.UserID) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, CountByUser, int64(userID)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repository) FetchUserFiles(ctx context.Context, userID domain.UserID, f domain.Filter) (domain.UserFiles, error) {
	query, args := buildListQuery(userID, f)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ufs UserFiles
	for rows.Next() {
		uf := new(UserFile)

		if err = rows.Scan(
			&uf.UserID,
			&uf.Available,

			&uf.FileID,
			&uf.ExternalID,
			&uf.Extension,
			&uf.Origin,
			&uf.Status,
			&uf.CreatedAt,
			&uf.UpdatedAt,
		); err != nil {
			return nil, err
		}

		ufs = append(ufs, uf)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&ufs), nil
}

func buildListQuery(userID domain.UserID, f domain.Filter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(SelectUserFilesBase)
	args := []any{int64(userID)}

	add := func(cond string, val any) {
		args = append(args, val)
		sb.WriteString(" AND " + cond + " $" + strconv.Itoa(len(args)))
	}

	if f.Extension != "" {
		add("lower(sf.extension) =", strings.ToLower(f.Extension))
	}
	if f.Origin != "" {
		add("lower(sf.origin) =", strings.ToLower(f.Origin))
	}
	if f.Status != "" {
		add("sf.status =", string(f.Status))
	}
	if f.Start != nil {
		add("sf.created_at >=", *f.Start)
	}
	if f.End != nil {
		add("sf.created_at <=", *f.End)
	}

	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)
	sb.WriteString(fmt.Sprintf(" ORDER BY sf.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args)))

	return sb.String(), args
}
