package realtime

import (
	"fmt"
	"time"
)

// Topic is an opaque broadcast scope key. Two families exist: "order:<id>"
// for a single order's tracking room and "restaurant:<id>" for a
// restaurant's dashboard room. Topics spring into existence on first join
// and disappear when the last subscriber leaves.
type Topic string

func OrderTopic(orderID int64) Topic {
	return Topic(fmt.Sprintf("order:%d", orderID))
}

func RestaurantTopic(restaurantID int64) Topic {
	return Topic(fmt.Sprintf("restaurant:%d", restaurantID))
}

// Event is a transient payload delivered to the sessions subscribed to a
// topic at the moment of publication. Events are never stored or replayed.
type Event interface {
	Kind() string
}

type NewOrder struct {
	OrderID      int64  `json:"order_id"`
	CustomerName string `json:"customer_name"`
	Items        int    `json:"items"`
}

func (NewOrder) Kind() string { return "new_order" }

type OrderStatusUpdate struct {
	OrderID   int64     `json:"order_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (OrderStatusUpdate) Kind() string { return "order_status_update" }

type DeliveryLocationUpdate struct {
	OrderID   int64     `json:"order_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

func (DeliveryLocationUpdate) Kind() string { return "delivery_location_update" }
