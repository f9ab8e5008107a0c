package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/vbonduro/marmitas/internal/domain"
)

type ClientStore struct {
	db *sqlx.DB
}

func NewClientStore(db *sql.DB) *ClientStore {
	return &ClientStore{db: sqlx.NewDb(db, "sqlite")}
}

// FindByName returns the oldest client with that name, or nil, nil.
func (s *ClientStore) FindByName(ctx context.Context, name string) (*domain.Client, error) {
	client := &domain.Client{}
	err := s.db.QueryRowxContext(ctx, `
		SELECT id, name FROM clients WHERE name = ? ORDER BY rowid LIMIT 1
	`, name).Scan(&client.ID, &client.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "find client", Err: err}
	}

	return client, nil
}

func (s *ClientStore) Save(ctx context.Context, client *domain.Client) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, client.ID, client.Name)
	if err != nil {
		return &domain.StorageError{Op: "save client", Err: err}
	}
	return nil
}
