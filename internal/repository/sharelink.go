package repository

import (
	"context"
	"errors"
	"time"

	"homepick/pkg/customerror"
	"homepick/pkg/sharelink"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ShareLinkRepositoryI interface {
	CreateTables(ctx context.Context) error
	InsertShare(ctx context.Context, share *sharelink.SharedComparison) error
	GetShare(ctx context.Context, code string) (*sharelink.SharedComparison, error)
	DeleteShare(ctx context.Context, code string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type ShareLinkRepository struct {
	Pool *pgxpool.Pool
	Host string
	Port string
}

func NewShareLinkRepository(pool *pgxpool.Pool, host string, port string) ShareLinkRepositoryI {
	return &ShareLinkRepository{
		Pool: pool,
		Host: host,
		Port: port,
	}
}

func (r *ShareLinkRepository) CreateTables(ctx context.Context) error {
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS shared_comparison (
		code TEXT PRIMARY KEY,
		property_ids TEXT[] NOT NULL,
		created_by UUID,
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	);`
	_, err := r.Pool.Exec(ctx, createTableQuery)
	if err != nil {
		return customerror.NewError("shareLinkRepo.CreateTables", r.Host+":"+r.Port, err.Error())
	}
	createIndexQuery := `CREATE INDEX IF NOT EXISTS shared_comparison_expires_idx ON shared_comparison(expires_at);`
	_, err = r.Pool.Exec(ctx, createIndexQuery)
	if err != nil {
		return customerror.NewError("shareLinkRepo.CreateTables", r.Host+":"+r.Port, err.Error())
	}
	return nil
}

// InsertShare returns customerror.ErrCodeTaken when the code is already in
// use, so the service can generate a fresh one instead of overwriting an
// older still-valid link.
func (r *ShareLinkRepository) InsertShare(ctx context.Context, share *sharelink.SharedComparison) error {
	query := `INSERT INTO shared_comparison (code, property_ids, created_by, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5) ON CONFLICT (code) DO NOTHING`
	command, err := r.Pool.Exec(ctx, query, share.Code, share.PropertyIds, share.CreatedBy, share.CreatedAt, share.ExpiresAt)
	if err != nil {
		return customerror.NewError("shareLinkRepo.InsertShare", r.Host+":"+r.Port, err.Error())
	}
	if command.RowsAffected() == 0 {
		return customerror.ErrCodeTaken
	}
	return nil
}

func (r *ShareLinkRepository) GetShare(ctx context.Context, code string) (*sharelink.SharedComparison, error) {
	var share sharelink.SharedComparison
	query := `SELECT code, property_ids, created_by, created_at, expires_at FROM shared_comparison WHERE code = $1`
	row := r.Pool.QueryRow(ctx, query, code)
	err := row.Scan(&share.Code, &share.PropertyIds, &share.CreatedBy, &share.CreatedAt, &share.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, customerror.NewError("shareLinkRepo.GetShare", r.Host+":"+r.Port, err.Error())
	}
	return &share, nil
}

func (r *ShareLinkRepository) DeleteShare(ctx context.Context, code string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM shared_comparison WHERE code = $1`, code)
	if err != nil {
		return customerror.NewError("shareLinkRepo.DeleteShare", r.Host+":"+r.Port, err.Error())
	}
	return nil
}

func (r *ShareLinkRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	command, err := r.Pool.Exec(ctx, `DELETE FROM shared_comparison WHERE expires_at < $1`, before)
	if err != nil {
		return 0, customerror.NewError("shareLinkRepo.DeleteExpired", r.Host+":"+r.Port, err.Error())
	}
	return command.RowsAffected(), nil
}
