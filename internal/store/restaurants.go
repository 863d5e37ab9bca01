package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/swiftserve/swiftserve/internal/orders"
)

type Restaurant struct {
	ID          int64   `json:"id"`
	OwnerID     int64   `json:"owner_id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	CuisineType string  `json:"cuisine_type"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	IsActive    bool    `json:"is_active"`
}

const restaurantCols = `id, owner_id, name, address, cuisine_type, latitude, longitude, is_active`

func scanRestaurant(row *sql.Row) (Restaurant, error) {
	var r Restaurant
	err := row.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Address, &r.CuisineType, &r.Latitude, &r.Longitude, &r.IsActive)
	return r, err
}

// RestaurantOwner returns the owning user id; the gateway checks it
// before letting a restaurant actor touch an order.
func (s *Store) RestaurantOwner(ctx context.Context, restaurantID int64) (int64, error) {
	var owner int64
	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id FROM restaurants WHERE id = $1`, restaurantID,
	).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("restaurant %d: %w", restaurantID, orders.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("restaurant owner: %w", err)
	}
	return owner, nil
}

// RestaurantByOwner returns the first restaurant owned by the user.
func (s *Store) RestaurantByOwner(ctx context.Context, ownerID int64) (Restaurant, error) {
	r, err := scanRestaurant(s.db.QueryRowContext(ctx,
		`SELECT `+restaurantCols+` FROM restaurants WHERE owner_id = $1 ORDER BY id LIMIT 1`, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return Restaurant{}, fmt.Errorf("restaurant for owner %d: %w", ownerID, orders.ErrNotFound)
	}
	if err != nil {
		return Restaurant{}, fmt.Errorf("restaurant by owner: %w", err)
	}
	return r, nil
}

// ListRestaurants returns every restaurant, active ones first.
func (s *Store) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+restaurantCols+` FROM restaurants ORDER BY is_active DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	var out []Restaurant
	for rows.Next() {
		var r Restaurant
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Address, &r.CuisineType, &r.Latitude, &r.Longitude, &r.IsActive); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CreateRestaurant inserts a restaurant profile for an owner.
func (s *Store) CreateRestaurant(ctx context.Context, r Restaurant) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO restaurants (owner_id, name, address, cuisine_type, latitude, longitude, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		r.OwnerID, r.Name, r.Address, r.CuisineType, r.Latitude, r.Longitude, r.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create restaurant: %w", err)
	}
	return id, nil
}

// UpdateRestaurantProfile edits the fields the owner can change from the
// dashboard.
func (s *Store) UpdateRestaurantProfile(ctx context.Context, id int64, name, address, cuisineType string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE restaurants SET name = $2, address = $3, cuisine_type = $4 WHERE id = $1`,
		id, name, address, cuisineType)
	if err != nil {
		return fmt.Errorf("update restaurant profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("restaurant %d: %w", id, orders.ErrNotFound)
	}
	return nil
}

// SetRestaurantActive flips the open/closed flag. When active is nil the
// flag is toggled.
func (s *Store) SetRestaurantActive(ctx context.Context, id int64, active *bool) (bool, error) {
	var out bool
	var err error
	if active != nil {
		err = s.db.QueryRowContext(ctx,
			`UPDATE restaurants SET is_active = $2 WHERE id = $1 RETURNING is_active`, id, *active,
		).Scan(&out)
	} else {
		err = s.db.QueryRowContext(ctx,
			`UPDATE restaurants SET is_active = NOT is_active WHERE id = $1 RETURNING is_active`, id,
		).Scan(&out)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("restaurant %d: %w", id, orders.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("set restaurant active: %w", err)
	}
	return out, nil
}
