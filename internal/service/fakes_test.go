package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/vbonduro/marmitas/internal/domain"
)

var errBoom = &domain.StorageError{Op: "save item", Err: errors.New("disk I/O error")}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// fakeItems is an in-memory ItemRepository that counts writes.
type fakeItems struct {
	byName      map[string]*domain.Item
	order       []string
	saveCalls   int
	saveMany    [][]*domain.Item
	removeCalls int
	findErr     error
	saveErr     error
}

func newFakeItems(items ...*domain.Item) *fakeItems {
	f := &fakeItems{byName: make(map[string]*domain.Item)}
	for _, item := range items {
		f.put(item)
	}
	return f
}

func (f *fakeItems) put(item *domain.Item) {
	if _, ok := f.byName[item.Name]; !ok {
		f.order = append(f.order, item.Name)
	}
	cp := *item
	f.byName[item.Name] = &cp
}

func (f *fakeItems) FindByName(_ context.Context, name string) (*domain.Item, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	item, ok := f.byName[name]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (f *fakeItems) FindManyByNames(_ context.Context, names []string) ([]*domain.Item, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*domain.Item
	for _, name := range names {
		if item, ok := f.byName[name]; ok {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeItems) GetAll(_ context.Context) ([]*domain.Item, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := make([]*domain.Item, 0, len(f.order))
	for _, name := range f.order {
		cp := *f.byName[name]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeItems) Save(_ context.Context, item *domain.Item) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.put(item)
	return nil
}

func (f *fakeItems) SaveMany(_ context.Context, items []*domain.Item) error {
	f.saveMany = append(f.saveMany, items)
	if f.saveErr != nil {
		return f.saveErr
	}
	for _, item := range items {
		f.put(item)
	}
	return nil
}

func (f *fakeItems) RemoveByName(_ context.Context, name string) error {
	f.removeCalls++
	delete(f.byName, name)
	for i, n := range f.order {
		if n == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeClients struct {
	byName    map[string]*domain.Client
	saveCalls int
}

func newFakeClients(clients ...*domain.Client) *fakeClients {
	f := &fakeClients{byName: make(map[string]*domain.Client)}
	for _, c := range clients {
		f.byName[c.Name] = c
	}
	return f
}

func (f *fakeClients) FindByName(_ context.Context, name string) (*domain.Client, error) {
	return f.byName[name], nil
}

func (f *fakeClients) Save(_ context.Context, client *domain.Client) error {
	f.saveCalls++
	f.byName[client.Name] = client
	return nil
}

// fakeOrders stores copies, like a database would, and writes the items of
// SaveWithItems into items only when the save succeeds.
type fakeOrders struct {
	byID       map[string]*domain.Order
	items      *fakeItems
	saveCalls  int
	savedItems [][]*domain.Item
	// failSaves makes the next n saves fail without writing anything.
	failSaves int
}

func newFakeOrders(items *fakeItems) *fakeOrders {
	return &fakeOrders{byID: make(map[string]*domain.Order), items: items}
}

func (f *fakeOrders) FindByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(order), nil
}

func (f *fakeOrders) Save(ctx context.Context, order *domain.Order) error {
	return f.SaveWithItems(ctx, order, nil)
}

func (f *fakeOrders) SaveWithItems(_ context.Context, order *domain.Order, items []*domain.Item) error {
	f.saveCalls++
	if f.failSaves > 0 {
		f.failSaves--
		return errBoom
	}
	f.savedItems = append(f.savedItems, items)
	for _, item := range items {
		f.items.put(item)
	}
	f.byID[order.ID] = copyOrder(order)
	return nil
}

func copyOrder(order *domain.Order) *domain.Order {
	cp := *order
	cp.Items = make([]domain.OrderItem, len(order.Items))
	for i, line := range order.Items {
		cp.Items[i] = line
		if line.Item != nil {
			item := *line.Item
			cp.Items[i].Item = &item
		}
	}
	return &cp
}
