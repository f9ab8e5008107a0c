package service

// TimestampLayout is how order timestamps are rendered in outputs.
const TimestampLayout = "2006-01-02T15:04:05"

type ItemInventory struct {
	ItemName          string
	InventoryQuantity int
}

type AddItemInput struct {
	ItemName          string
	InventoryQuantity int
}

type AddItemOutput = ItemInventory

type ListItemsOutput struct {
	Items []ItemInventory
}

type SetInventoryQuantitiesInput struct {
	Items []ItemInventory
}

type SetInventoryQuantitiesOutput struct {
	Items []ItemInventory
}

type RemoveItemInput struct {
	ItemName string
}

type RemoveItemOutput struct {
	ItemName string
}

type OrderLineInput struct {
	ItemName string
	Quantity int
}

type CreateGoomerOrderInput struct {
	ClientName        string
	ExternalOrderID   int64
	ExternalCreatedAt string
	Items             []OrderLineInput
}

type CreateManualOrderInput struct {
	Items []OrderLineInput
}

// OrderLineOutput reports a line with the item's inventory after the order
// was applied.
type OrderLineOutput struct {
	ItemName          string
	Quantity          int
	InventoryQuantity int
}

type CreateOrderOutput struct {
	OrderID         string
	ClientName      *string
	ExternalOrderID *int64
	OrderItems      []OrderLineOutput
}

type CancelOrderInput struct {
	OrderID string
}

type CancelOrderOutput struct {
	OrderID         string
	ClientName      *string
	ExternalOrderID *int64
	OrderItems      []OrderLineOutput
	IsCancelled     bool
	CreatedAt       string
	UpdatedAt       string
}
