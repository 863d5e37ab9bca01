package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/swiftserve/swiftserve/internal/realtime"
)

// Store is the persistence collaborator the gateway commits through. Every
// durable effect happens here before any event is published.
type Store interface {
	CreateOrder(ctx context.Context, customerID, restaurantID int64, address, instructions string, items []PlacedItem) (Order, error)
	GetOrder(ctx context.Context, id int64) (Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status Status, agentID *int64) (Order, error)
	RestaurantOwner(ctx context.Context, restaurantID int64) (int64, error)
}

// PlacedItem is a line item as submitted by the customer; the store
// resolves the current menu price when persisting it.
type PlacedItem struct {
	MenuItemID   int64
	Quantity     int
	Instructions string
}

// Publisher fans events out to currently subscribed sessions.
type Publisher interface {
	Publish(topic realtime.Topic, event realtime.Event)
}

// Gateway translates business actions into a durable state change followed
// by a broadcast. Authorization and lifecycle rules are checked before
// anything is written; events are published only after the write commits,
// so a broadcast always implies a committed change.
type Gateway struct {
	store Store
	pub   Publisher
	log   *zap.Logger
}

func NewGateway(store Store, pub Publisher, log *zap.Logger) *Gateway {
	return &Gateway{store: store, pub: pub, log: log.Named("orders")}
}

// PlaceOrder persists a new pending order for the acting customer and
// announces it on the restaurant's room.
func (g *Gateway) PlaceOrder(ctx context.Context, actor Actor, restaurantID int64, address, instructions string, items []PlacedItem) (Order, error) {
	if actor.Role != RoleCustomer {
		return Order{}, ErrUnauthorized
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyOrder
	}

	order, err := g.store.CreateOrder(ctx, actor.ID, restaurantID, address, instructions, items)
	if err != nil {
		return Order{}, fmt.Errorf("place order: %w", err)
	}

	g.pub.Publish(realtime.RestaurantTopic(restaurantID), realtime.NewOrder{
		OrderID:      order.ID,
		CustomerName: actor.Name,
		Items:        len(items),
	})

	g.log.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("customer_id", actor.ID),
		zap.Int64("restaurant_id", restaurantID),
	)
	return order, nil
}

// UpdateStatus moves an order forward in its lifecycle. Restaurants may
// update orders they own; an unassigned order is claimed by a delivery
// agent by requesting picked_up, and from then on only that agent may
// update it. Every other combination is rejected before any write.
func (g *Gateway) UpdateStatus(ctx context.Context, actor Actor, orderID int64, next Status) (Order, error) {
	if !next.Valid() {
		return Order{}, fmt.Errorf("%w: unknown status %q", ErrBadStatus, next)
	}

	order, err := g.store.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}

	var assign *int64
	switch actor.Role {
	case RoleRestaurant:
		owner, err := g.store.RestaurantOwner(ctx, order.RestaurantID)
		if err != nil {
			return Order{}, err
		}
		if owner != actor.ID {
			return Order{}, ErrUnauthorized
		}
	case RoleDeliveryAgent:
		switch {
		case order.AgentID == nil:
			// Accepting an order is expressed as the first picked_up
			// request against an unassigned order.
			if next != StatusPickedUp {
				return Order{}, ErrUnauthorized
			}
			id := actor.ID
			assign = &id
		case *order.AgentID != actor.ID:
			return Order{}, ErrUnauthorized
		}
	default:
		return Order{}, ErrUnauthorized
	}

	if !order.Status.CanTransition(next) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrBadStatus, order.Status, next)
	}

	updated, err := g.store.UpdateOrderStatus(ctx, orderID, next, assign)
	if err != nil {
		return Order{}, fmt.Errorf("update status: %w", err)
	}

	g.pub.Publish(realtime.OrderTopic(orderID), realtime.OrderStatusUpdate{
		OrderID:   orderID,
		Status:    string(next),
		Timestamp: time.Now().UTC(),
	})

	g.log.Info("order status updated",
		zap.Int64("order_id", orderID),
		zap.String("status", string(next)),
		zap.Int64("actor_id", actor.ID),
		zap.String("role", string(actor.Role)),
	)
	return updated, nil
}

// ReportLocation broadcasts a courier position to the order's tracking
// room. Nothing is persisted. Only the order's assigned delivery agent may
// report, so a courier cannot spoof positions for someone else's order.
func (g *Gateway) ReportLocation(ctx context.Context, actor Actor, orderID int64, lat, lng float64) error {
	if actor.Role != RoleDeliveryAgent {
		return ErrUnauthorized
	}

	order, err := g.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.AgentID == nil || *order.AgentID != actor.ID {
		return ErrUnauthorized
	}

	g.pub.Publish(realtime.OrderTopic(orderID), realtime.DeliveryLocationUpdate{
		OrderID:   orderID,
		Latitude:  lat,
		Longitude: lng,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// IsAuthError reports whether err is an authorization rejection.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
