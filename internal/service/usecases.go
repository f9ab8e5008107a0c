package service

import "log/slog"

// UseCases bundles every use case for the inbound adapters.
type UseCases struct {
	AddItem                *AddItem
	ListItems              *ListItems
	SetInventoryQuantities *SetInventoryQuantities
	RemoveItem             *RemoveItem
	CreateGoomerOrder      *CreateGoomerOrder
	CreateManualOrder      *CreateManualOrder
	CancelOrder            *CancelOrder
}

func NewUseCases(items ItemRepository, clients ClientRepository, orders OrderRepository, clock Clock, logger *slog.Logger) *UseCases {
	return &UseCases{
		AddItem:                NewAddItem(items, logger),
		ListItems:              NewListItems(items, logger),
		SetInventoryQuantities: NewSetInventoryQuantities(items, logger),
		RemoveItem:             NewRemoveItem(items, logger),
		CreateGoomerOrder:      NewCreateGoomerOrder(items, clients, orders, clock, logger),
		CreateManualOrder:      NewCreateManualOrder(items, orders, clock, logger),
		CancelOrder:            NewCancelOrder(orders, clock, logger),
	}
}
