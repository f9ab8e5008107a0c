package service

import (
	"context"
	"time"

	"github.com/vbonduro/marmitas/internal/domain"
)

// ItemRepository persists items. Find methods return nil, nil when nothing
// matches; FindManyByNames returns only the names that exist.
type ItemRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Item, error)
	FindManyByNames(ctx context.Context, names []string) ([]*domain.Item, error)
	GetAll(ctx context.Context) ([]*domain.Item, error)
	Save(ctx context.Context, item *domain.Item) error
	SaveMany(ctx context.Context, items []*domain.Item) error
	RemoveByName(ctx context.Context, name string) error
}

type ClientRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Client, error)
	Save(ctx context.Context, client *domain.Client) error
}

// OrderRepository persists orders. SaveWithItems writes the order together
// with the inventory of items in one transaction: both are stored or neither.
type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	Save(ctx context.Context, order *domain.Order) error
	SaveWithItems(ctx context.Context, order *domain.Order, items []*domain.Item) error
}

// Clock returns the current time in the business timezone.
type Clock interface {
	Now() time.Time
}

type locationClock struct {
	loc *time.Location
}

// NewClock returns a Clock reading the wall clock in loc.
func NewClock(loc *time.Location) Clock {
	return locationClock{loc: loc}
}

func (c locationClock) Now() time.Time {
	return time.Now().In(c.loc)
}
