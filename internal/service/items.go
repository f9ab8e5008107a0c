package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/vbonduro/marmitas/internal/domain"
)

type AddItem struct {
	items  ItemRepository
	logger *slog.Logger
}

func NewAddItem(items ItemRepository, logger *slog.Logger) *AddItem {
	return &AddItem{items: items, logger: logger}
}

func (uc *AddItem) Execute(ctx context.Context, in AddItemInput) (AddItemOutput, error) {
	existing, err := uc.items.FindByName(ctx, in.ItemName)
	if err != nil {
		return AddItemOutput{}, err
	}
	if existing != nil {
		return AddItemOutput{}, &domain.ItemAlreadyExistsError{Name: in.ItemName}
	}

	item := domain.NewItem(in.ItemName, in.InventoryQuantity)
	if err := uc.items.Save(ctx, item); err != nil {
		return AddItemOutput{}, err
	}

	uc.logger.InfoContext(ctx, "item added", "item_id", item.ID, "item_name", item.Name, "inventory_quantity", item.InventoryQuantity)
	return AddItemOutput{ItemName: item.Name, InventoryQuantity: item.InventoryQuantity}, nil
}

type ListItems struct {
	items  ItemRepository
	logger *slog.Logger
}

func NewListItems(items ItemRepository, logger *slog.Logger) *ListItems {
	return &ListItems{items: items, logger: logger}
}

func (uc *ListItems) Execute(ctx context.Context) (ListItemsOutput, error) {
	items, err := uc.items.GetAll(ctx)
	if err != nil {
		return ListItemsOutput{}, err
	}

	out := ListItemsOutput{Items: make([]ItemInventory, 0, len(items))}
	for _, item := range items {
		out.Items = append(out.Items, ItemInventory{ItemName: item.Name, InventoryQuantity: item.InventoryQuantity})
	}

	uc.logger.DebugContext(ctx, "items listed", "count", len(out.Items))
	return out, nil
}

// SetInventoryQuantities overwrites the quantity of every listed item. Nothing
// is written unless every name resolves.
type SetInventoryQuantities struct {
	items  ItemRepository
	logger *slog.Logger
}

func NewSetInventoryQuantities(items ItemRepository, logger *slog.Logger) *SetInventoryQuantities {
	return &SetInventoryQuantities{items: items, logger: logger}
}

func (uc *SetInventoryQuantities) Execute(ctx context.Context, in SetInventoryQuantitiesInput) (SetInventoryQuantitiesOutput, error) {
	names := make([]string, 0, len(in.Items))
	for _, line := range in.Items {
		names = append(names, line.ItemName)
	}

	resolved, err := resolveItems(ctx, uc.items, names)
	if err != nil {
		return SetInventoryQuantitiesOutput{}, err
	}

	for _, line := range in.Items {
		resolved.byName[line.ItemName].SetInventoryQuantity(line.InventoryQuantity)
	}

	if err := uc.items.SaveMany(ctx, resolved.items); err != nil {
		return SetInventoryQuantitiesOutput{}, err
	}

	out := SetInventoryQuantitiesOutput{Items: make([]ItemInventory, 0, len(in.Items))}
	for _, line := range in.Items {
		item := resolved.byName[line.ItemName]
		out.Items = append(out.Items, ItemInventory{ItemName: item.Name, InventoryQuantity: item.InventoryQuantity})
	}

	uc.logger.InfoContext(ctx, "inventory quantities set", "count", len(resolved.items))
	return out, nil
}

type RemoveItem struct {
	items  ItemRepository
	logger *slog.Logger
}

func NewRemoveItem(items ItemRepository, logger *slog.Logger) *RemoveItem {
	return &RemoveItem{items: items, logger: logger}
}

func (uc *RemoveItem) Execute(ctx context.Context, in RemoveItemInput) (RemoveItemOutput, error) {
	item, err := uc.items.FindByName(ctx, in.ItemName)
	if err != nil {
		return RemoveItemOutput{}, err
	}
	if item == nil {
		return RemoveItemOutput{}, &domain.ItemNotFoundByNameError{Name: in.ItemName}
	}

	if err := uc.items.RemoveByName(ctx, item.Name); err != nil {
		return RemoveItemOutput{}, err
	}

	uc.logger.InfoContext(ctx, "item removed", "item_id", item.ID, "item_name", item.Name)
	return RemoveItemOutput{ItemName: item.Name}, nil
}

type resolvedItems struct {
	byName map[string]*domain.Item
	// items holds each resolved item once, in the order first requested.
	items []*domain.Item
}

// resolveItems looks up every name in one batch. Any name that does not
// resolve fails the whole lookup with the sorted, de-duplicated missing names.
func resolveItems(ctx context.Context, repo ItemRepository, names []string) (*resolvedItems, error) {
	found, err := repo.FindManyByNames(ctx, distinct(names))
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*domain.Item, len(found))
	for _, item := range found {
		byName[item.Name] = item
	}

	var missing []string
	items := make([]*domain.Item, 0, len(found))
	for _, name := range distinct(names) {
		item, ok := byName[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		items = append(items, item)
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, &domain.ItemsNotFoundByNameError{Names: missing}
	}

	return &resolvedItems{byName: byName, items: items}, nil
}

func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
