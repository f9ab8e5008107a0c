package domain

import "github.com/google/uuid"

// Item is one meal-box SKU with a tracked inventory count. The count is
// signed: selling past zero is allowed and shows up as a negative quantity.
type Item struct {
	ID                string
	Name              string
	InventoryQuantity int
}

func NewItem(name string, inventoryQuantity int) *Item {
	return &Item{
		ID:                uuid.NewString(),
		Name:              name,
		InventoryQuantity: inventoryQuantity,
	}
}

func (i *Item) DecreaseInventoryQuantity(quantity int) {
	i.InventoryQuantity -= quantity
}

func (i *Item) IncreaseInventoryQuantity(quantity int) {
	i.InventoryQuantity += quantity
}

func (i *Item) SetInventoryQuantity(quantity int) {
	i.InventoryQuantity = quantity
}

type Client struct {
	ID   string
	Name string
}

func NewClient(name string) *Client {
	return &Client{ID: uuid.NewString(), Name: name}
}
