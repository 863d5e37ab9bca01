package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/swiftserve/swiftserve/internal/orders"
)

// CreateOrder persists a new pending order with its line items in one
// transaction. Prices are captured from the menu at order time so later
// menu edits never change a past order's total.
func (s *Store) CreateOrder(ctx context.Context, customerID, restaurantID int64, address, instructions string, items []orders.PlacedItem) (orders.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return orders.Order{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM restaurants WHERE id = $1)`, restaurantID,
	).Scan(&exists); err != nil {
		return orders.Order{}, fmt.Errorf("check restaurant: %w", err)
	}
	if !exists {
		return orders.Order{}, fmt.Errorf("restaurant %d: %w", restaurantID, orders.ErrNotFound)
	}

	o := orders.Order{
		CustomerID:      customerID,
		RestaurantID:    restaurantID,
		Status:          orders.StatusPending,
		DeliveryAddress: address,
		Instructions:    instructions,
	}

	for _, it := range items {
		var price float64
		err := tx.QueryRowContext(ctx,
			`SELECT price FROM menu_items WHERE id = $1 AND restaurant_id = $2`,
			it.MenuItemID, restaurantID,
		).Scan(&price)
		if errors.Is(err, sql.ErrNoRows) {
			return orders.Order{}, fmt.Errorf("menu item %d: %w", it.MenuItemID, orders.ErrNotFound)
		}
		if err != nil {
			return orders.Order{}, fmt.Errorf("menu item price: %w", err)
		}
		o.Items = append(o.Items, orders.LineItem{
			MenuItemID:   it.MenuItemID,
			Quantity:     it.Quantity,
			PriceAtOrder: price,
			Instructions: it.Instructions,
		})
		o.TotalAmount += price * float64(it.Quantity)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (customer_id, restaurant_id, status, total_amount, delivery_address, special_instructions)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		o.CustomerID, o.RestaurantID, o.Status, o.TotalAmount, o.DeliveryAddress, o.Instructions,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return orders.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, menu_item_id, quantity, price_at_order, special_instructions)
			 VALUES ($1, $2, $3, $4, $5)`,
			o.ID, it.MenuItemID, it.Quantity, it.PriceAtOrder, it.Instructions,
		); err != nil {
			return orders.Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return orders.Order{}, fmt.Errorf("commit: %w", err)
	}
	return o, nil
}

// GetOrder loads an order with its line items.
func (s *Store) GetOrder(ctx context.Context, id int64) (orders.Order, error) {
	var o orders.Order
	err := s.db.QueryRowContext(ctx,
		`SELECT id, customer_id, restaurant_id, agent_id, status, total_amount,
		        delivery_address, special_instructions, created_at
		 FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.AgentID, &o.Status,
		&o.TotalAmount, &o.DeliveryAddress, &o.Instructions, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return orders.Order{}, fmt.Errorf("order %d: %w", id, orders.ErrNotFound)
	}
	if err != nil {
		return orders.Order{}, fmt.Errorf("get order: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT menu_item_id, quantity, price_at_order, special_instructions
		 FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return orders.Order{}, fmt.Errorf("order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it orders.LineItem
		if err := rows.Scan(&it.MenuItemID, &it.Quantity, &it.PriceAtOrder, &it.Instructions); err != nil {
			return orders.Order{}, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// UpdateOrderStatus persists a status change. A non-nil agentID claims the
// order for that agent; the claim is conditional on agent_id still being
// NULL, so of two agents accepting concurrently exactly one wins and the
// other gets ErrUnauthorized.
func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status orders.Status, agentID *int64) (orders.Order, error) {
	var res sql.Result
	var err error
	if agentID != nil {
		res, err = s.db.ExecContext(ctx,
			`UPDATE orders SET status = $2, agent_id = $3 WHERE id = $1 AND agent_id IS NULL`,
			id, status, *agentID)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	}
	if err != nil {
		return orders.Order{}, fmt.Errorf("update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if agentID != nil {
			if _, err := s.GetOrder(ctx, id); err != nil {
				return orders.Order{}, err
			}
			return orders.Order{}, fmt.Errorf("order %d already assigned: %w", id, orders.ErrUnauthorized)
		}
		return orders.Order{}, fmt.Errorf("order %d: %w", id, orders.ErrNotFound)
	}
	return s.GetOrder(ctx, id)
}

// OrdersForRestaurant returns a restaurant's orders, newest first.
func (s *Store) OrdersForRestaurant(ctx context.Context, restaurantID int64) ([]orders.Order, error) {
	return s.listOrders(ctx, `restaurant_id = $1`, restaurantID)
}

// OrdersForAgent returns the orders assigned to a delivery agent.
func (s *Store) OrdersForAgent(ctx context.Context, agentID int64) ([]orders.Order, error) {
	return s.listOrders(ctx, `agent_id = $1`, agentID)
}

// AvailableOrders returns unassigned orders ready for pickup, the pool a
// delivery agent chooses from.
func (s *Store) AvailableOrders(ctx context.Context) ([]orders.Order, error) {
	return s.listOrders(ctx, `status = $1 AND agent_id IS NULL`, string(orders.StatusReadyForPickup))
}

func (s *Store) listOrders(ctx context.Context, where string, args ...any) ([]orders.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, customer_id, restaurant_id, agent_id, status, total_amount,
		        delivery_address, special_instructions, created_at
		 FROM orders WHERE `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []orders.Order
	for rows.Next() {
		var o orders.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.AgentID, &o.Status,
			&o.TotalAmount, &o.DeliveryAddress, &o.Instructions, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
