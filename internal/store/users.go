package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/swiftserve/swiftserve/internal/orders"
)

// GetActor resolves a user id to the identity the gateway authorizes
// against.
func (s *Store) GetActor(ctx context.Context, id int64) (orders.Actor, error) {
	var a orders.Actor
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, role FROM users WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return orders.Actor{}, fmt.Errorf("user %d: %w", id, orders.ErrNotFound)
	}
	if err != nil {
		return orders.Actor{}, fmt.Errorf("get actor: %w", err)
	}
	return a, nil
}

// CreateUser inserts a user and returns its id. Password hashing happens
// at the caller; the store only persists the hash.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string, role orders.Role, lat, lng float64) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, latitude, longitude)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		name, email, passwordHash, role, lat, lng,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// SetAgentAvailability flips a delivery agent's availability flag. When
// available is nil the flag is toggled, mirroring the dashboard button.
func (s *Store) SetAgentAvailability(ctx context.Context, agentID int64, available *bool) (bool, error) {
	var out bool
	var err error
	if available != nil {
		err = s.db.QueryRowContext(ctx,
			`UPDATE users SET is_available = $2 WHERE id = $1 RETURNING is_available`,
			agentID, *available,
		).Scan(&out)
	} else {
		err = s.db.QueryRowContext(ctx,
			`UPDATE users SET is_available = NOT is_available WHERE id = $1 RETURNING is_available`,
			agentID,
		).Scan(&out)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("agent %d: %w", agentID, orders.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("set agent availability: %w", err)
	}
	return out, nil
}
