package orders

import "time"

// Role is the closed set of actor kinds. Permission checks branch on these
// constants rather than raw strings from the request.
type Role string

const (
	RoleCustomer      Role = "customer"
	RoleRestaurant    Role = "restaurant"
	RoleDeliveryAgent Role = "delivery_agent"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleRestaurant, RoleDeliveryAgent:
		return true
	}
	return false
}

// Actor is the authenticated identity performing an operation. Resolving it
// from credentials is the transport layer's job.
type Actor struct {
	ID   int64
	Name string
	Role Role
}

// LineItem is one menu item plus quantity inside an order.
type LineItem struct {
	MenuItemID   int64   `json:"menu_item_id"`
	Quantity     int     `json:"quantity"`
	PriceAtOrder float64 `json:"price_at_order"`
	Instructions string  `json:"special_instructions,omitempty"`
}

// Order is the persisted order record the gateway operates on.
type Order struct {
	ID              int64      `json:"id"`
	CustomerID      int64      `json:"customer_id"`
	RestaurantID    int64      `json:"restaurant_id"`
	AgentID         *int64     `json:"agent_id,omitempty"`
	Status          Status     `json:"status"`
	TotalAmount     float64    `json:"total_amount"`
	DeliveryAddress string     `json:"delivery_address,omitempty"`
	Instructions    string     `json:"special_instructions,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	Items           []LineItem `json:"items,omitempty"`
}
