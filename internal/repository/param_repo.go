package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type ParamSQLite struct {
	db *sql.DB
}

func NewParamSQLite(db *sql.DB) *ParamSQLite { return &ParamSQLite{db: db} }

// Ensure implementation of ParamRepo interface at compile time.
var _ ParamRepo = (*ParamSQLite)(nil)

const (
	upsertParamSQL = `
		INSERT INTO clean_params (name, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`

	selectParamSQL  = `SELECT value FROM clean_params WHERE name = ?`
	selectParamsSQL = `SELECT name, value FROM clean_params`
)

// Get returns the stored value for one parameter; the second return reports
// whether the parameter has been set at all.
func (r *ParamSQLite) Get(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, selectParamSQL, name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil // not initialized yet
		}
		return "", false, err
	}
	return value, true, nil
}

// Set inserts or updates one parameter value.
func (r *ParamSQLite) Set(ctx context.Context, name, value string) error {
	_, err := r.db.ExecContext(ctx, upsertParamSQL, name, value, time.Now().UTC())
	return err
}

// All returns every stored parameter keyed by name.
func (r *ParamSQLite) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, selectParamsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string, 8)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		out[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
