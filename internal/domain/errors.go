package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Category sentinels. Every typed error below matches exactly one of them
// through errors.Is, which is what adapters switch on.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrStorage      = errors.New("storage failure")
)

type ItemNotFoundByNameError struct {
	Name string
}

func (e *ItemNotFoundByNameError) Error() string {
	return fmt.Sprintf("item not found by name: %s", e.Name)
}

func (e *ItemNotFoundByNameError) Is(target error) bool { return target == ErrNotFound }

// ItemsNotFoundByNameError is raised by batch lookups. Names holds every
// requested name that did not resolve, sorted and without duplicates.
type ItemsNotFoundByNameError struct {
	Names []string
}

func (e *ItemsNotFoundByNameError) Error() string {
	return fmt.Sprintf("items not found by names: %s", strings.Join(e.Names, ", "))
}

func (e *ItemsNotFoundByNameError) Is(target error) bool { return target == ErrNotFound }

type ItemNotFoundByIDError struct {
	ItemID string
}

func (e *ItemNotFoundByIDError) Error() string {
	return fmt.Sprintf("item not found by id: %s", e.ItemID)
}

func (e *ItemNotFoundByIDError) Is(target error) bool { return target == ErrNotFound }

type ItemAlreadyExistsError struct {
	Name string
}

func (e *ItemAlreadyExistsError) Error() string {
	return fmt.Sprintf("item already exists: %s", e.Name)
}

func (e *ItemAlreadyExistsError) Is(target error) bool { return target == ErrConflict }

type OrderNotFoundError struct {
	OrderID string
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order not found by id: %s", e.OrderID)
}

func (e *OrderNotFoundError) Is(target error) bool { return target == ErrNotFound }

type OrderAlreadyCancelledError struct {
	OrderID string
}

func (e *OrderAlreadyCancelledError) Error() string {
	return fmt.Sprintf("order already cancelled: %s", e.OrderID)
}

func (e *OrderAlreadyCancelledError) Is(target error) bool { return target == ErrConflict }

type ClientNotFoundError struct {
	Name string
}

func (e *ClientNotFoundError) Error() string {
	return fmt.Sprintf("client not found: %s", e.Name)
}

func (e *ClientNotFoundError) Is(target error) bool { return target == ErrNotFound }

type InvalidQuantityError struct {
	ItemName string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for item %s", e.Quantity, e.ItemName)
}

func (e *InvalidQuantityError) Is(target error) bool { return target == ErrInvalidInput }

// StorageError wraps a failure of the backing store so driver errors do not
// escape the repository implementations untyped.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
