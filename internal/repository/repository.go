package repository

import (
	"context"
	"database/sql"
	"time"

	"scnr_bridge/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// ParamRepo stores the five clean parameters as text. A missing row means the
// parameter has not been initialized yet; readiness polling must wait for it.
type ParamRepo interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name, value string) error
	All(ctx context.Context) (map[string]string, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.CleanEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.CleanEvent, error)
}

type Repository struct {
	Params ParamRepo
	Events EventRepo
	Auth   Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Params: NewParamSQLite(db),
		Events: NewEventSQLite(db),
		Auth:   NewUserRepository(db),
	}
}
