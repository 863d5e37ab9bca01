package orders

import "errors"

var (
	// ErrUnauthorized means the acting user's role, ownership, or
	// assignment does not permit the operation. Nothing is persisted and
	// no event is published.
	ErrUnauthorized = errors.New("not authorized for this order")

	// ErrNotFound means the referenced order or restaurant does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyOrder means an order was placed with no line items.
	ErrEmptyOrder = errors.New("order has no items")

	// ErrBadStatus means the requested status is not part of the
	// lifecycle or would move the order backward.
	ErrBadStatus = errors.New("invalid status transition")
)
