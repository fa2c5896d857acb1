package storedfile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domain "file-manager-api/internal/domain/storedfile"
	"file-manager-api/internal/infrastructure/db/postgres"
)

const uniqueViolation = "23505"

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) domain.Repository {
	return &Repository{db: db}
}

// CreateWithLink inserts the stored file and its initiating user link in a
// single transaction. A duplicate (external_id, extension) pair surfaces as
// ErrDuplicateFile; any other failure as ErrMetadataWrite. Either way no
// partial rows survive.
func (r *Repository) CreateWithLink(ctx context.Context, userID int64, req *domain.StoredFile) (*domain.StoredFile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMetadataWrite, err)
	}
	defer tx.Rollback(ctx)

	f := new(StoredFile)
	if err = tx.QueryRow(
		ctx,
		InsertStoredFile,
		req.ExternalID, req.Extension, req.Origin,
	).Scan(
		&f.ID,
		&f.ExternalID,
		&f.Extension,
		&f.Origin,
		&f.Status,

		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateFile
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMetadataWrite, err)
	}

	if _, err = tx.Exec(ctx, InsertUserLink, userID, f.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMetadataWrite, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMetadataWrite, err)
	}

	return fromDBModel(f), nil
}

func (r *Repository) FetchByKey(ctx context.Context, externalID uuid.UUID, extension string) (*domain.StoredFile, error) {
	return r.fetchOne(ctx, SelectByKey, externalID, extension)
}

func (r *Repository) FetchByExternalID(ctx context.Context, externalID uuid.UUID) (*domain.StoredFile, error) {
	return r.fetchOne(ctx, SelectByExternalID, externalID)
}

func (r *Repository) fetchOne(ctx context.Context, query string, args ...any) (*domain.StoredFile, error) {
	f := new(StoredFile)
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&f.ID,
		&f.ExternalID,
		&f.Extension,
		&f.Origin,
		&f.Status,

		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(f), err
}

func (r *Repository) UpdateStatus(ctx context.Context, id domain.ID, status domain.Status) error {
	_, err := r.db.Exec(ctx, UpdateStatus, int64(id), string(status))
	return err
}
