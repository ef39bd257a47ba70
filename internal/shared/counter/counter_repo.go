package counter

import (
	"context"
	"database/sql"
)

//go:generate mockgen -source=counter_repo.go -destination=mock/counter_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, name string) (int64, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// GetNextValue atomically increments and returns the named counter, creating
// it on first use. Used for employee code generation (EMP-000001, ...).
func (r *repository) GetNextValue(ctx context.Context, name string) (int64, error) {
	query := `
INSERT INTO counters (name, current_value)
VALUES ($1, 1)
ON CONFLICT (name)
DO UPDATE SET current_value = counters.current_value + 1
RETURNING current_value
`
	var next int64
	err := r.queryer().QueryRowContext(ctx, query, name).Scan(&next)
	return next, err
}

func (r *repository) queryer() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
