package store

import (
	"context"
	"os"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/require"

	"github.com/swiftserve/swiftserve/internal/orders"
	"github.com/swiftserve/swiftserve/pkg/pgtest"
)

func TestMain(m *testing.M) {
	code := m.Run()
	_ = pgtest.Shutdown()
	os.Exit(code)
}

type fixture struct {
	st         *Store
	customerID int64
	ownerID    int64
	agentID    int64
	restID     int64
	menuIDs    []int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := New(pgtest.Sandbox(t))
	ctx := context.Background()

	f := &fixture{st: st}
	var err error

	f.customerID, err = st.CreateUser(ctx, faker.Name(), faker.Email(), faker.Password(), orders.RoleCustomer, 12.97, 77.59)
	require.NoError(t, err)
	f.ownerID, err = st.CreateUser(ctx, faker.Name(), faker.Email(), faker.Password(), orders.RoleRestaurant, 12.95, 77.63)
	require.NoError(t, err)
	f.agentID, err = st.CreateUser(ctx, faker.Name(), faker.Email(), faker.Password(), orders.RoleDeliveryAgent, 12.96, 77.61)
	require.NoError(t, err)

	f.restID, err = st.CreateRestaurant(ctx, Restaurant{
		OwnerID:     f.ownerID,
		Name:        "Burger Palace",
		Address:     faker.Sentence(),
		CuisineType: "American",
		IsActive:    true,
	})
	require.NoError(t, err)

	for _, m := range []MenuItem{
		{RestaurantID: f.restID, Name: "Classic Burger", Price: 150, IsAvailable: true},
		{RestaurantID: f.restID, Name: "French Fries", Price: 80, IsAvailable: true},
	} {
		id, err := st.AddMenuItem(ctx, m)
		require.NoError(t, err)
		f.menuIDs = append(f.menuIDs, id)
	}
	return f
}

func TestCreateOrderComputesTotalFromMenu(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.st.CreateOrder(ctx, f.customerID, f.restID, "123 MG Road", "ring the bell", []orders.PlacedItem{
		{MenuItemID: f.menuIDs[0], Quantity: 2},
		{MenuItemID: f.menuIDs[1], Quantity: 1},
	})
	require.NoError(t, err)
	require.Equal(t, orders.StatusPending, order.Status)
	require.Equal(t, 2*150.0+80.0, order.TotalAmount)

	got, err := f.st.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Nil(t, got.AgentID)
	require.Len(t, got.Items, 2)
	require.Equal(t, 150.0, got.Items[0].PriceAtOrder)
	require.Equal(t, "ring the bell", got.Instructions)
	require.False(t, got.CreatedAt.IsZero())
}

func TestCreateOrderRejectsUnknownMenuItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.st.CreateOrder(context.Background(), f.customerID, f.restID, "", "", []orders.PlacedItem{
		{MenuItemID: 999999, Quantity: 1},
	})
	require.ErrorIs(t, err, orders.ErrNotFound)

	// The transaction rolled back; nothing half-written.
	_, err = f.st.GetOrder(context.Background(), 1)
	require.ErrorIs(t, err, orders.ErrNotFound)
}

func TestUpdateOrderStatusAssignsAgent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.st.CreateOrder(ctx, f.customerID, f.restID, "", "", []orders.PlacedItem{
		{MenuItemID: f.menuIDs[0], Quantity: 1},
	})
	require.NoError(t, err)

	updated, err := f.st.UpdateOrderStatus(ctx, order.ID, orders.StatusPickedUp, &f.agentID)
	require.NoError(t, err)
	require.Equal(t, orders.StatusPickedUp, updated.Status)
	require.NotNil(t, updated.AgentID)
	require.Equal(t, f.agentID, *updated.AgentID)

	// A later status change keeps the assignment.
	updated, err = f.st.UpdateOrderStatus(ctx, order.ID, orders.StatusDelivered, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.AgentID)
	require.Equal(t, f.agentID, *updated.AgentID)
}

func TestAgentAssignmentIsExclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.st.CreateOrder(ctx, f.customerID, f.restID, "", "", []orders.PlacedItem{
		{MenuItemID: f.menuIDs[0], Quantity: 1},
	})
	require.NoError(t, err)

	_, err = f.st.UpdateOrderStatus(ctx, order.ID, orders.StatusPickedUp, &f.agentID)
	require.NoError(t, err)

	rival, err := f.st.CreateUser(ctx, faker.Name(), faker.Email(), faker.Password(), orders.RoleDeliveryAgent, 12.98, 77.65)
	require.NoError(t, err)

	// The claim lost the race: the row already carries an agent.
	_, err = f.st.UpdateOrderStatus(ctx, order.ID, orders.StatusPickedUp, &rival)
	require.ErrorIs(t, err, orders.ErrUnauthorized)

	got, err := f.st.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, f.agentID, *got.AgentID)

	// Claiming a nonexistent order is not-found, not a conflict.
	_, err = f.st.UpdateOrderStatus(ctx, 999999, orders.StatusPickedUp, &rival)
	require.ErrorIs(t, err, orders.ErrNotFound)
}

func TestAvailableOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.st.CreateOrder(ctx, f.customerID, f.restID, "", "", []orders.PlacedItem{
		{MenuItemID: f.menuIDs[0], Quantity: 1},
	})
	require.NoError(t, err)

	pool, err := f.st.AvailableOrders(ctx)
	require.NoError(t, err)
	require.Empty(t, pool, "pending orders are not up for pickup")

	_, err = f.st.UpdateOrderStatus(ctx, order.ID, orders.StatusReadyForPickup, nil)
	require.NoError(t, err)

	pool, err = f.st.AvailableOrders(ctx)
	require.NoError(t, err)
	require.Len(t, pool, 1)

	_, err = f.st.UpdateOrderStatus(ctx, order.ID, orders.StatusPickedUp, &f.agentID)
	require.NoError(t, err)

	pool, err = f.st.AvailableOrders(ctx)
	require.NoError(t, err)
	require.Empty(t, pool, "assigned orders leave the pool")

	mine, err := f.st.OrdersForAgent(ctx, f.agentID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestGetActor(t *testing.T) {
	f := newFixture(t)

	actor, err := f.st.GetActor(context.Background(), f.ownerID)
	require.NoError(t, err)
	require.Equal(t, orders.RoleRestaurant, actor.Role)
	require.NotEmpty(t, actor.Name)

	_, err = f.st.GetActor(context.Background(), 999999)
	require.ErrorIs(t, err, orders.ErrNotFound)
}

func TestRestaurantOwnerAndToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ownerID, err := f.st.RestaurantOwner(ctx, f.restID)
	require.NoError(t, err)
	require.Equal(t, f.ownerID, ownerID)

	active, err := f.st.SetRestaurantActive(ctx, f.restID, nil)
	require.NoError(t, err)
	require.False(t, active, "toggle flips the seeded true")

	explicit := true
	active, err = f.st.SetRestaurantActive(ctx, f.restID, &explicit)
	require.NoError(t, err)
	require.True(t, active)
}

func TestUpdateRestaurantProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.st.UpdateRestaurantProfile(ctx, f.restID, "Burger Kingdom", "9 New Street", "Fusion")
	require.NoError(t, err)

	rest, err := f.st.RestaurantByOwner(ctx, f.ownerID)
	require.NoError(t, err)
	require.Equal(t, "Burger Kingdom", rest.Name)
	require.Equal(t, "Fusion", rest.CuisineType)

	err = f.st.UpdateRestaurantProfile(ctx, 999999, "x", "", "")
	require.ErrorIs(t, err, orders.ErrNotFound)
}

func TestAgentAvailabilityToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	available, err := f.st.SetAgentAvailability(ctx, f.agentID, nil)
	require.NoError(t, err)
	require.False(t, available)

	on := true
	available, err = f.st.SetAgentAvailability(ctx, f.agentID, &on)
	require.NoError(t, err)
	require.True(t, available)
}
