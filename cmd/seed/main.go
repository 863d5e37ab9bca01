// Command seed loads the demo dataset: two customers, two restaurant
// owners with four restaurants and their menus, two delivery agents, and
// a few historical orders. Intended for local development against a fresh
// database.
package main

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/swiftserve/swiftserve/internal/config"
	"github.com/swiftserve/swiftserve/internal/orders"
	"github.com/swiftserve/swiftserve/internal/store"
	"github.com/swiftserve/swiftserve/migrations"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     orders.Role
	lat, lng float64
}

var seedUsers = []seedUser{
	{"John Doe", "john@customer.com", "customer123", orders.RoleCustomer, 12.9716, 77.5946},
	{"Sarah Wilson", "sarah@customer.com", "customer123", orders.RoleCustomer, 12.9352, 77.6245},
	{"Mike Chen", "mike@restaurant.com", "restaurant123", orders.RoleRestaurant, 12.9539, 77.6309},
	{"Lisa Patel", "lisa@restaurant.com", "restaurant123", orders.RoleRestaurant, 12.9784, 77.6404},
	{"David Kumar", "david@delivery.com", "delivery123", orders.RoleDeliveryAgent, 12.9600, 77.6100},
	{"Emma Rodriguez", "emma@delivery.com", "delivery123", orders.RoleDeliveryAgent, 12.9800, 77.6500},
}

type seedMenuItem struct {
	name        string
	price       float64
	description string
}

type seedRestaurant struct {
	owner   int // index into seedUsers
	name    string
	address string
	cuisine string
	lat     float64
	lng     float64
	menu    []seedMenuItem
}

var seedRestaurants = []seedRestaurant{
	{2, "Burger Palace", "123 MG Road, Bangalore", "American", 12.9539, 77.6309, []seedMenuItem{
		{"Classic Burger", 150, "Juicy beef patty with lettuce, tomato, and special sauce"},
		{"Cheese Burger", 170, "Classic burger with melted cheese"},
		{"Chicken Burger", 160, "Grilled chicken patty with mayo and veggies"},
		{"French Fries", 80, "Crispy golden fries"},
		{"Coca Cola", 40, "Chilled soft drink"},
	}},
	{2, "Pizza Express", "456 Brigade Road, Bangalore", "Italian", 12.9639, 77.6209, []seedMenuItem{
		{"Margherita Pizza", 250, "Classic pizza with tomato sauce and mozzarella"},
		{"Pepperoni Pizza", 300, "Pizza with pepperoni and cheese"},
		{"Veggie Pizza", 280, "Pizza with assorted vegetables"},
		{"Garlic Bread", 90, "Toasted bread with garlic butter"},
		{"Pasta Alfredo", 220, "Creamy pasta with parmesan cheese"},
	}},
	{3, "Spice Garden", "789 Koramangala, Bangalore", "Indian", 12.9784, 77.6404, []seedMenuItem{
		{"Butter Chicken", 280, "Creamy chicken curry with butter"},
		{"Palak Paneer", 200, "Spinach curry with cottage cheese"},
		{"Chicken Biryani", 320, "Fragrant rice with chicken and spices"},
		{"Naan Bread", 40, "Soft Indian flatbread"},
		{"Lassi", 60, "Yogurt-based drink"},
	}},
	{3, "Sushi Corner", "321 Indiranagar, Bangalore", "Japanese", 12.9684, 77.6504, []seedMenuItem{
		{"California Roll", 180, "Sushi roll with crab, avocado, and cucumber"},
		{"Salmon Sashimi", 350, "Fresh salmon slices"},
		{"Tuna Roll", 200, "Sushi roll with tuna"},
		{"Miso Soup", 80, "Traditional Japanese soup"},
		{"Green Tea", 50, "Traditional Japanese tea"},
	}},
}

func main() {
	log, _ := zap.NewDevelopment()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close()

	if err := store.Migrate(db, migrations.FS); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}

	st := store.New(db)

	userIDs := make([]int64, len(seedUsers))
	for i, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("hash password", zap.Error(err))
		}
		id, err := st.CreateUser(ctx, u.name, u.email, string(hash), u.role, u.lat, u.lng)
		if err != nil {
			log.Fatal("create user", zap.String("email", u.email), zap.Error(err))
		}
		userIDs[i] = id
	}
	log.Info("created users", zap.Int("count", len(userIDs)))

	restaurantIDs := make([]int64, len(seedRestaurants))
	menuIDs := make(map[int][]int64, len(seedRestaurants))
	for i, r := range seedRestaurants {
		id, err := st.CreateRestaurant(ctx, store.Restaurant{
			OwnerID:     userIDs[r.owner],
			Name:        r.name,
			Address:     r.address,
			CuisineType: r.cuisine,
			Latitude:    r.lat,
			Longitude:   r.lng,
			IsActive:    true,
		})
		if err != nil {
			log.Fatal("create restaurant", zap.String("name", r.name), zap.Error(err))
		}
		restaurantIDs[i] = id

		for _, m := range r.menu {
			itemID, err := st.AddMenuItem(ctx, store.MenuItem{
				RestaurantID: id,
				Name:         m.name,
				Price:        m.price,
				Description:  m.description,
				IsAvailable:  true,
			})
			if err != nil {
				log.Fatal("add menu item", zap.String("name", m.name), zap.Error(err))
			}
			menuIDs[i] = append(menuIDs[i], itemID)
		}
	}
	log.Info("created restaurants", zap.Int("count", len(restaurantIDs)))

	// Historical orders so the dashboards are not empty.
	type seedOrder struct {
		customer     int
		restaurant   int
		agent        int
		status       orders.Status
		address      string
		instructions string
		items        map[int]int // menu index within restaurant -> qty
	}
	seedOrdersData := []seedOrder{
		{0, 0, 4, orders.StatusDelivered, "123 MG Road, Bangalore", "Please ring the doorbell", map[int]int{0: 2, 3: 1, 4: 2}},
		{1, 1, 5, orders.StatusDelivered, "456 Brigade Road, Bangalore", "Leave at the reception", map[int]int{0: 1, 1: 1, 2: 1}},
		{0, 2, 4, orders.StatusPreparing, "123 MG Road, Bangalore", "Extra spicy please", map[int]int{0: 1, 1: 1, 2: 1}},
	}

	for _, o := range seedOrdersData {
		var items []orders.PlacedItem
		for idx, qty := range o.items {
			items = append(items, orders.PlacedItem{MenuItemID: menuIDs[o.restaurant][idx], Quantity: qty})
		}
		placed, err := st.CreateOrder(ctx, userIDs[o.customer], restaurantIDs[o.restaurant], o.address, o.instructions, items)
		if err != nil {
			log.Fatal("create order", zap.Error(err))
		}
		agentID := userIDs[o.agent]
		if _, err := st.UpdateOrderStatus(ctx, placed.ID, o.status, &agentID); err != nil {
			log.Fatal("set order status", zap.Error(err))
		}
	}
	log.Info("created orders", zap.Int("count", len(seedOrdersData)))

	log.Info("seed complete",
		zap.String("customer", "john@customer.com / customer123"),
		zap.String("restaurant", "mike@restaurant.com / restaurant123"),
		zap.String("delivery", "david@delivery.com / delivery123"),
	)
}
