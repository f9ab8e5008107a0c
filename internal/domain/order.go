package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is one line of an order. ItemID is the reference kept in storage;
// Item is the resolved item, nil when the referenced item no longer exists.
type OrderItem struct {
	ItemID   string
	Quantity int
	Item     *Item
}

func NewOrderItem(item *Item, quantity int) OrderItem {
	return OrderItem{ItemID: item.ID, Quantity: quantity, Item: item}
}

type Order struct {
	ID string
	// ExternalID and ExternalCreatedAt are only set for orders that came
	// from the delivery platform.
	ExternalID        *int64
	ExternalCreatedAt string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	IsCancelled       bool
	Client            *Client
	Items             []OrderItem
}

// NewManualOrder builds an order typed in by hand: no client, no external
// metadata.
func NewManualOrder(items []OrderItem, now time.Time) *Order {
	return &Order{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Items:     items,
	}
}

// NewGoomerOrder builds an order received from the Goomer delivery platform.
// externalCreatedAt is kept verbatim; CreatedAt is the processing time.
func NewGoomerOrder(client *Client, externalID int64, externalCreatedAt string, items []OrderItem, now time.Time) *Order {
	return &Order{
		ID:                uuid.NewString(),
		ExternalID:        &externalID,
		ExternalCreatedAt: externalCreatedAt,
		CreatedAt:         now,
		UpdatedAt:         now,
		Client:            client,
		Items:             items,
	}
}

// Cancel marks the order cancelled. It never reverts.
func (o *Order) Cancel(now time.Time) {
	o.IsCancelled = true
	o.UpdatedAt = now
}

func (o *Order) ClientName() *string {
	if o.Client == nil {
		return nil
	}
	name := o.Client.Name
	return &name
}
