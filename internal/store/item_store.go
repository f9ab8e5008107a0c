package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/vbonduro/marmitas/internal/domain"
)

type itemRow struct {
	ID                string `db:"id"`
	Name              string `db:"name"`
	InventoryQuantity int    `db:"inventory_quantity"`
}

func (r itemRow) toDomain() *domain.Item {
	return &domain.Item{ID: r.ID, Name: r.Name, InventoryQuantity: r.InventoryQuantity}
}

const upsertItem = `
	INSERT INTO items (id, name, inventory_quantity) VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET name = excluded.name, inventory_quantity = excluded.inventory_quantity
`

type ItemStore struct {
	db *sqlx.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: sqlx.NewDb(db, "sqlite")}
}

// FindByName returns nil, nil when no item has that name.
func (s *ItemStore) FindByName(ctx context.Context, name string) (*domain.Item, error) {
	var row itemRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, inventory_quantity FROM items WHERE name = ?
	`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "find item", Err: err}
	}

	return row.toDomain(), nil
}

// FindManyByNames returns the items matching names. Names with no item are
// skipped, so the result can be shorter than the input.
func (s *ItemStore) FindManyByNames(ctx context.Context, names []string) ([]*domain.Item, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, name, inventory_quantity FROM items WHERE name IN (?) ORDER BY rowid
	`, names)
	if err != nil {
		return nil, &domain.StorageError{Op: "build item lookup", Err: err}
	}

	var rows []itemRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, &domain.StorageError{Op: "find items", Err: err}
	}

	return toDomainItems(rows), nil
}

// GetAll lists every item in insertion order.
func (s *ItemStore) GetAll(ctx context.Context) ([]*domain.Item, error) {
	var rows []itemRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, inventory_quantity FROM items ORDER BY rowid
	`); err != nil {
		return nil, &domain.StorageError{Op: "list items", Err: err}
	}

	return toDomainItems(rows), nil
}

// Save inserts the item or updates the row with the same ID.
func (s *ItemStore) Save(ctx context.Context, item *domain.Item) error {
	if _, err := s.db.ExecContext(ctx, upsertItem, item.ID, item.Name, item.InventoryQuantity); err != nil {
		return itemWriteError(item.Name, err)
	}
	return nil
}

// SaveMany saves every item in one transaction: either all rows are written
// or none are.
func (s *ItemStore) SaveMany(ctx context.Context, items []*domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &domain.StorageError{Op: "begin item transaction", Err: err}
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("failed to rollback item transaction", "error", err)
		}
	}()

	for _, item := range items {
		if _, err := tx.ExecContext(ctx, upsertItem, item.ID, item.Name, item.InventoryQuantity); err != nil {
			return itemWriteError(item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StorageError{Op: "commit items", Err: err}
	}
	return nil
}

// RemoveByName deletes the item with that name. Removing a missing name is
// not an error; callers check existence first.
func (s *ItemStore) RemoveByName(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE name = ?`, name); err != nil {
		return &domain.StorageError{Op: "remove item", Err: err}
	}
	return nil
}

func toDomainItems(rows []itemRow) []*domain.Item {
	items := make([]*domain.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toDomain())
	}
	return items
}

func itemWriteError(name string, err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return &domain.ItemAlreadyExistsError{Name: name}
	}
	return &domain.StorageError{Op: "save item", Err: err}
}
