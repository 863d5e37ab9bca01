package store

import (
	"context"
	"fmt"
)

type MenuItem struct {
	ID           int64   `json:"id"`
	RestaurantID int64   `json:"restaurant_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
	IsAvailable  bool    `json:"is_available"`
}

// MenuForRestaurant returns a restaurant's menu items.
func (s *Store) MenuForRestaurant(ctx context.Context, restaurantID int64) ([]MenuItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, restaurant_id, name, price, description, is_available
		 FROM menu_items WHERE restaurant_id = $1 ORDER BY id`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("menu for restaurant: %w", err)
	}
	defer rows.Close()

	var out []MenuItem
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Price, &m.Description, &m.IsAvailable); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddMenuItem inserts a menu item and returns its id.
func (s *Store) AddMenuItem(ctx context.Context, m MenuItem) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO menu_items (restaurant_id, name, price, description, is_available)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		m.RestaurantID, m.Name, m.Price, m.Description, m.IsAvailable,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add menu item: %w", err)
	}
	return id, nil
}
