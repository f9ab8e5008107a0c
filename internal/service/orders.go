package service

import (
	"context"
	"log/slog"

	"github.com/vbonduro/marmitas/internal/domain"
)

// CreateGoomerOrder records an order received from the Goomer delivery
// platform, creating its client on first sight.
type CreateGoomerOrder struct {
	items   ItemRepository
	clients ClientRepository
	orders  OrderRepository
	clock   Clock
	logger  *slog.Logger
}

func NewCreateGoomerOrder(items ItemRepository, clients ClientRepository, orders OrderRepository, clock Clock, logger *slog.Logger) *CreateGoomerOrder {
	return &CreateGoomerOrder{items: items, clients: clients, orders: orders, clock: clock, logger: logger}
}

func (uc *CreateGoomerOrder) Execute(ctx context.Context, in CreateGoomerOrderInput) (CreateOrderOutput, error) {
	if err := validateLines(in.Items); err != nil {
		return CreateOrderOutput{}, err
	}

	client, err := uc.clients.FindByName(ctx, in.ClientName)
	if err != nil {
		return CreateOrderOutput{}, err
	}
	newClient := client == nil
	if newClient {
		client = domain.NewClient(in.ClientName)
	}

	lines, resolved, err := takeFromInventory(ctx, uc.items, in.Items)
	if err != nil {
		return CreateOrderOutput{}, err
	}

	if newClient {
		if err := uc.clients.Save(ctx, client); err != nil {
			return CreateOrderOutput{}, err
		}
		uc.logger.InfoContext(ctx, "client created", "client_id", client.ID, "client_name", client.Name)
	}

	order := domain.NewGoomerOrder(client, in.ExternalOrderID, in.ExternalCreatedAt, lines, uc.clock.Now())
	if err := uc.orders.SaveWithItems(ctx, order, resolved); err != nil {
		return CreateOrderOutput{}, err
	}

	uc.logger.InfoContext(ctx, "goomer order created", "order_id", order.ID, "external_order_id", in.ExternalOrderID, "client_name", client.Name, "lines", len(lines))
	return createOrderOutput(order), nil
}

// CreateManualOrder records an order typed in by the operator.
type CreateManualOrder struct {
	items  ItemRepository
	orders OrderRepository
	clock  Clock
	logger *slog.Logger
}

func NewCreateManualOrder(items ItemRepository, orders OrderRepository, clock Clock, logger *slog.Logger) *CreateManualOrder {
	return &CreateManualOrder{items: items, orders: orders, clock: clock, logger: logger}
}

func (uc *CreateManualOrder) Execute(ctx context.Context, in CreateManualOrderInput) (CreateOrderOutput, error) {
	if err := validateLines(in.Items); err != nil {
		return CreateOrderOutput{}, err
	}

	lines, resolved, err := takeFromInventory(ctx, uc.items, in.Items)
	if err != nil {
		return CreateOrderOutput{}, err
	}

	order := domain.NewManualOrder(lines, uc.clock.Now())
	if err := uc.orders.SaveWithItems(ctx, order, resolved); err != nil {
		return CreateOrderOutput{}, err
	}

	uc.logger.InfoContext(ctx, "manual order created", "order_id", order.ID, "lines", len(lines))
	return createOrderOutput(order), nil
}

// CancelOrder cancels an order and returns its quantities to inventory.
type CancelOrder struct {
	orders OrderRepository
	clock  Clock
	logger *slog.Logger
}

func NewCancelOrder(orders OrderRepository, clock Clock, logger *slog.Logger) *CancelOrder {
	return &CancelOrder{orders: orders, clock: clock, logger: logger}
}

func (uc *CancelOrder) Execute(ctx context.Context, in CancelOrderInput) (CancelOrderOutput, error) {
	order, err := uc.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return CancelOrderOutput{}, err
	}
	if order == nil {
		return CancelOrderOutput{}, &domain.OrderNotFoundError{OrderID: in.OrderID}
	}
	if order.IsCancelled {
		return CancelOrderOutput{}, &domain.OrderAlreadyCancelledError{OrderID: order.ID}
	}

	// Lines of the same item share one instance so restocks accumulate.
	byID := make(map[string]*domain.Item)
	var touched []*domain.Item
	for i, line := range order.Items {
		if line.Item == nil {
			return CancelOrderOutput{}, &domain.ItemNotFoundByIDError{ItemID: line.ItemID}
		}
		item, ok := byID[line.ItemID]
		if !ok {
			item = line.Item
			byID[line.ItemID] = item
			touched = append(touched, item)
		}
		order.Items[i].Item = item
	}

	for _, line := range order.Items {
		line.Item.IncreaseInventoryQuantity(line.Quantity)
	}

	order.Cancel(uc.clock.Now())
	if err := uc.orders.SaveWithItems(ctx, order, touched); err != nil {
		return CancelOrderOutput{}, err
	}

	uc.logger.InfoContext(ctx, "order cancelled", "order_id", order.ID, "lines", len(order.Items))

	created := createOrderOutput(order)
	loc := uc.clock.Now().Location()
	return CancelOrderOutput{
		OrderID:         created.OrderID,
		ClientName:      created.ClientName,
		ExternalOrderID: created.ExternalOrderID,
		OrderItems:      created.OrderItems,
		IsCancelled:     order.IsCancelled,
		CreatedAt:       order.CreatedAt.In(loc).Format(TimestampLayout),
		UpdatedAt:       order.UpdatedAt.In(loc).Format(TimestampLayout),
	}, nil
}

func validateLines(lines []OrderLineInput) error {
	for _, line := range lines {
		if line.Quantity <= 0 {
			return &domain.InvalidQuantityError{ItemName: line.ItemName, Quantity: line.Quantity}
		}
	}
	return nil
}

// takeFromInventory resolves the requested items and decrements each one by
// its line quantity. Inventory may go negative.
func takeFromInventory(ctx context.Context, repo ItemRepository, in []OrderLineInput) ([]domain.OrderItem, []*domain.Item, error) {
	names := make([]string, 0, len(in))
	for _, line := range in {
		names = append(names, line.ItemName)
	}

	resolved, err := resolveItems(ctx, repo, names)
	if err != nil {
		return nil, nil, err
	}

	lines := make([]domain.OrderItem, 0, len(in))
	for _, line := range in {
		item := resolved.byName[line.ItemName]
		item.DecreaseInventoryQuantity(line.Quantity)
		lines = append(lines, domain.NewOrderItem(item, line.Quantity))
	}
	return lines, resolved.items, nil
}

func createOrderOutput(order *domain.Order) CreateOrderOutput {
	out := CreateOrderOutput{
		OrderID:         order.ID,
		ClientName:      order.ClientName(),
		ExternalOrderID: order.ExternalID,
		OrderItems:      make([]OrderLineOutput, 0, len(order.Items)),
	}
	for _, line := range order.Items {
		out.OrderItems = append(out.OrderItems, OrderLineOutput{
			ItemName:          line.Item.Name,
			Quantity:          line.Quantity,
			InventoryQuantity: line.Item.InventoryQuantity,
		})
	}
	return out
}
