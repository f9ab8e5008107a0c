package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vbonduro/marmitas/internal/domain"
)

type orderRow struct {
	ID                string         `db:"id"`
	ExternalID        sql.NullInt64  `db:"external_id"`
	ExternalCreatedAt string         `db:"external_created_at"`
	ClientID          sql.NullString `db:"client_id"`
	ClientName        sql.NullString `db:"client_name"`
	IsCancelled       bool           `db:"is_cancelled"`
	CreatedAt         string         `db:"created_at"`
	UpdatedAt         string         `db:"updated_at"`
}

// orderLineRow pairs the stored line with the current state of its item.
// The current_* columns are NULL once the item has been removed.
type orderLineRow struct {
	ItemID                   string         `db:"item_id"`
	Quantity                 int            `db:"quantity"`
	CurrentName              sql.NullString `db:"current_name"`
	CurrentInventoryQuantity sql.NullInt64  `db:"current_inventory_quantity"`
}

type OrderStore struct {
	db *sqlx.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: sqlx.NewDb(db, "sqlite")}
}

// FindByID loads the order with its client and lines. Each line's Item is the
// item as it is now, or nil when it has been removed. Returns nil, nil when
// the order does not exist.
func (s *OrderStore) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var row orderRow
	err := s.db.GetContext(ctx, &row, `
		SELECT o.id, o.external_id, o.external_created_at, o.client_id, c.name AS client_name,
		       o.is_cancelled, o.created_at, o.updated_at
		FROM orders o
		LEFT JOIN clients c ON c.id = o.client_id
		WHERE o.id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "find order", Err: err}
	}

	order, err := row.toDomain()
	if err != nil {
		return nil, &domain.StorageError{Op: "decode order", Err: err}
	}

	var lines []orderLineRow
	if err := s.db.SelectContext(ctx, &lines, `
		SELECT l.item_id, l.quantity, i.name AS current_name, i.inventory_quantity AS current_inventory_quantity
		FROM order_items l
		LEFT JOIN items i ON i.id = l.item_id
		WHERE l.order_id = ?
		ORDER BY l.position
	`, id); err != nil {
		return nil, &domain.StorageError{Op: "find order items", Err: err}
	}

	order.Items = make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		line := domain.OrderItem{ItemID: l.ItemID, Quantity: l.Quantity}
		if l.CurrentName.Valid {
			line.Item = &domain.Item{
				ID:                l.ItemID,
				Name:              l.CurrentName.String,
				InventoryQuantity: int(l.CurrentInventoryQuantity.Int64),
			}
		}
		order.Items = append(order.Items, line)
	}

	return order, nil
}

// Save writes the order header and its lines in one transaction. Lines are
// written once, with the item name and inventory quantity they had at that
// moment; saving an existing order only updates its header.
func (s *OrderStore) Save(ctx context.Context, order *domain.Order) error {
	return s.SaveWithItems(ctx, order, nil)
}

// SaveWithItems writes items and the order in a single transaction, so an
// inventory change is never committed without the order that caused it.
func (s *OrderStore) SaveWithItems(ctx context.Context, order *domain.Order, items []*domain.Item) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &domain.StorageError{Op: "begin order transaction", Err: err}
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("failed to rollback order transaction", "error", err)
		}
	}()

	for _, item := range items {
		if _, err := tx.ExecContext(ctx, upsertItem, item.ID, item.Name, item.InventoryQuantity); err != nil {
			return itemWriteError(item.Name, err)
		}
	}

	if err := saveOrder(ctx, tx, order); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &domain.StorageError{Op: "commit order", Err: err}
	}
	return nil
}

func saveOrder(ctx context.Context, tx *sqlx.Tx, order *domain.Order) error {
	var clientID sql.NullString
	if order.Client != nil {
		clientID = sql.NullString{String: order.Client.ID, Valid: true}
	}
	var externalID sql.NullInt64
	if order.ExternalID != nil {
		externalID = sql.NullInt64{Int64: *order.ExternalID, Valid: true}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, external_id, external_created_at, client_id, is_cancelled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET is_cancelled = excluded.is_cancelled, updated_at = excluded.updated_at
	`, order.ID, externalID, order.ExternalCreatedAt, clientID, order.IsCancelled,
		formatTime(order.CreatedAt), formatTime(order.UpdatedAt)); err != nil {
		return &domain.StorageError{Op: "save order", Err: err}
	}

	for i, line := range order.Items {
		var name string
		var quantity int
		if line.Item != nil {
			name = line.Item.Name
			quantity = line.Item.InventoryQuantity
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO order_items (order_id, position, item_id, item_name, quantity, inventory_quantity)
			VALUES (?, ?, ?, ?, ?, ?)
		`, order.ID, i, line.ItemID, name, line.Quantity, quantity); err != nil {
			return &domain.StorageError{Op: "save order item", Err: err}
		}
	}
	return nil
}

func (r orderRow) toDomain() (*domain.Order, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}

	order := &domain.Order{
		ID:                r.ID,
		ExternalCreatedAt: r.ExternalCreatedAt,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
		IsCancelled:       r.IsCancelled,
	}
	if r.ExternalID.Valid {
		id := r.ExternalID.Int64
		order.ExternalID = &id
	}
	if r.ClientID.Valid {
		order.Client = &domain.Client{ID: r.ClientID.String, Name: r.ClientName.String}
	}
	return order, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
