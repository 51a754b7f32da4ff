package repository

import (
	"context"
	"encoding/json"
	"errors"

	"homepick/pkg/comparison"
	"homepick/pkg/customerror"
	"homepick/pkg/property"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ComparisonRepository persists per-session comparison snapshots so a set
// survives process restarts. Writes are best-effort from the service's point
// of view; the in-memory set stays authoritative.
type ComparisonRepositoryI interface {
	CreateTables(ctx context.Context) error
	GetSnapshot(ctx context.Context, sessionId uuid.UUID) ([]property.Summary, error)
	SaveSnapshot(ctx context.Context, sessionId uuid.UUID, summaries []property.Summary) error
	DeleteSnapshot(ctx context.Context, sessionId uuid.UUID) error
}

type ComparisonRepository struct {
	Pool *pgxpool.Pool
	Host string
	Port string
}

func NewComparisonRepository(pool *pgxpool.Pool, host string, port string) ComparisonRepositoryI {
	return &ComparisonRepository{
		Pool: pool,
		Host: host,
		Port: port,
	}
}

func (r *ComparisonRepository) CreateTables(ctx context.Context) error {
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS comparison_session (
		session_id UUID PRIMARY KEY,
		snapshot JSONB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	_, err := r.Pool.Exec(ctx, createTableQuery)
	if err != nil {
		return customerror.NewError("comparisonRepo.CreateTables", r.Host+":"+r.Port, err.Error())
	}
	return nil
}

// GetSnapshot returns pgx.ErrNoRows when the session has no stored set.
// A stored snapshot that no longer passes shape validation is dropped and
// reported as an error so the caller starts from an empty set.
func (r *ComparisonRepository) GetSnapshot(ctx context.Context, sessionId uuid.UUID) ([]property.Summary, error) {
	var raw []byte
	query := `SELECT snapshot FROM comparison_session WHERE session_id = $1`
	err := r.Pool.QueryRow(ctx, query, sessionId).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, customerror.NewError("comparisonRepo.GetSnapshot", r.Host+":"+r.Port, err.Error())
	}
	summaries, err := comparison.DecodeSnapshot(raw)
	if err != nil {
		_, _ = r.Pool.Exec(ctx, `DELETE FROM comparison_session WHERE session_id = $1`, sessionId)
		return nil, customerror.NewError("comparisonRepo.GetSnapshot", r.Host+":"+r.Port, err.Error())
	}
	return summaries, nil
}

func (r *ComparisonRepository) SaveSnapshot(ctx context.Context, sessionId uuid.UUID, summaries []property.Summary) error {
	raw, err := json.Marshal(summaries)
	if err != nil {
		return customerror.NewError("comparisonRepo.SaveSnapshot", r.Host+":"+r.Port, err.Error())
	}
	query := `INSERT INTO comparison_session (session_id, snapshot, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (session_id) DO UPDATE SET snapshot = $2, updated_at = NOW()`
	_, err = r.Pool.Exec(ctx, query, sessionId, raw)
	if err != nil {
		return customerror.NewError("comparisonRepo.SaveSnapshot", r.Host+":"+r.Port, err.Error())
	}
	return nil
}

func (r *ComparisonRepository) DeleteSnapshot(ctx context.Context, sessionId uuid.UUID) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM comparison_session WHERE session_id = $1`, sessionId)
	if err != nil {
		return customerror.NewError("comparisonRepo.DeleteSnapshot", r.Host+":"+r.Port, err.Error())
	}
	return nil
}
