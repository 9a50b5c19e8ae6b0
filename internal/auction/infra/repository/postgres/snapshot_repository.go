package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// snapshotID keys the single document: the process holds exactly one
// logical auction, there is no multi-tenancy.
const snapshotID = "live"

// SnapshotRepository stores the whole state tree as one JSONB row.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// Save upserts the snapshot document, create-if-absent.
func (r *SnapshotRepository) Save(ctx context.Context, state []byte) error {
	query := `
        INSERT INTO snapshots (id, state)
        VALUES ($1, $2)
        ON CONFLICT (id) DO UPDATE
        SET
            state = EXCLUDED.state,
            updated_at = NOW();
    `
	_, err := r.pool.Exec(ctx, query, snapshotID, state)
	return err
}

// Load fetches the snapshot document, nil when none has been saved yet.
func (r *SnapshotRepository) Load(ctx context.Context) ([]byte, error) {
	query := `SELECT state FROM snapshots WHERE id = $1`

	var state []byte
	err := r.pool.QueryRow(ctx, query, snapshotID).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return state, nil
}
