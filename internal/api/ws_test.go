package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/swiftserve/swiftserve/internal/cart"
	"github.com/swiftserve/swiftserve/internal/orders"
	"github.com/swiftserve/swiftserve/internal/realtime"
)

// stubStore satisfies orders.Store for transport tests that never touch
// persistence.
type stubStore struct{}

func (stubStore) CreateOrder(context.Context, int64, int64, string, string, []orders.PlacedItem) (orders.Order, error) {
	return orders.Order{}, orders.ErrNotFound
}
func (stubStore) GetOrder(context.Context, int64) (orders.Order, error) {
	return orders.Order{}, orders.ErrNotFound
}
func (stubStore) UpdateOrderStatus(context.Context, int64, orders.Status, *int64) (orders.Order, error) {
	return orders.Order{}, orders.ErrNotFound
}
func (stubStore) RestaurantOwner(context.Context, int64) (int64, error) {
	return 0, orders.ErrNotFound
}

type wsFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func newWSTestServer(t *testing.T) (*httptest.Server, *realtime.Registry, *realtime.Broadcaster) {
	t.Helper()

	reg := realtime.NewRegistry()
	bc := realtime.NewBroadcaster(reg, zap.NewNop())
	gw := orders.NewGateway(stubStore{}, bc, zap.NewNop())

	h := NewHandlers(nil, gw, cart.NewService(), zap.NewNop())
	ws := NewWSHandler(reg, gw, zap.NewNop())

	srv := httptest.NewServer(SetupRoutes(h, ws, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv, reg, bc
}

func dialWS(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := strings.Replace(srv.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f wsFrame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestWSJoinAndReceiveBroadcast(t *testing.T) {
	srv, _, bc := newWSTestServer(t)

	tracker := dialWS(t, srv, nil)
	require.NoError(t, tracker.WriteJSON(map[string]any{"type": "join_order_room", "order_id": 5}))
	require.Equal(t, "joined", readFrame(t, tracker).Type)

	bystander := dialWS(t, srv, nil)
	require.NoError(t, bystander.WriteJSON(map[string]any{"type": "join_order_room", "order_id": 6}))
	require.Equal(t, "joined", readFrame(t, bystander).Type)

	bc.Publish(realtime.OrderTopic(5), realtime.OrderStatusUpdate{
		OrderID: 5, Status: "confirmed", Timestamp: time.Now().UTC(),
	})

	frame := readFrame(t, tracker)
	require.Equal(t, "order_status_update", frame.Type)

	var payload realtime.OrderStatusUpdate
	require.NoError(t, json.Unmarshal(frame.Data, &payload))
	require.Equal(t, int64(5), payload.OrderID)
	require.Equal(t, "confirmed", payload.Status)

	// The bystander's room saw nothing.
	require.NoError(t, bystander.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var stray wsFrame
	require.Error(t, bystander.ReadJSON(&stray), "no cross-talk between order rooms")
}

func TestWSLeaveRoomStopsDelivery(t *testing.T) {
	srv, _, bc := newWSTestServer(t)

	conn := dialWS(t, srv, nil)
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "join_restaurant_room", "restaurant_id": 3}))
	require.Equal(t, "joined", readFrame(t, conn).Type)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "leave_restaurant_room", "restaurant_id": 3}))
	require.Equal(t, "left", readFrame(t, conn).Type)

	bc.Publish(realtime.RestaurantTopic(3), realtime.NewOrder{OrderID: 1, CustomerName: "John", Items: 1})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var stray wsFrame
	require.Error(t, conn.ReadJSON(&stray))
}

func TestWSDisconnectCleansUpSubscriptions(t *testing.T) {
	srv, reg, _ := newWSTestServer(t)

	conn := dialWS(t, srv, nil)
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "join_order_room", "order_id": 1}))
	require.Equal(t, "joined", readFrame(t, conn).Type)
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "join_restaurant_room", "restaurant_id": 2}))
	require.Equal(t, "joined", readFrame(t, conn).Type)

	require.Equal(t, 2, reg.TopicCount())
	conn.Close()

	require.Eventually(t, func() bool { return reg.TopicCount() == 0 },
		5*time.Second, 10*time.Millisecond, "abnormal disconnect must tear down every subscription")
}

func TestWSLocationUpdateRequiresIdentity(t *testing.T) {
	srv, _, _ := newWSTestServer(t)

	conn := dialWS(t, srv, nil)
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": "location_update", "order_id": 1, "latitude": 12.9, "longitude": 77.6,
	}))

	frame := readFrame(t, conn)
	require.Equal(t, "error", frame.Type)
}

func TestWSRejectsGarbage(t *testing.T) {
	srv, _, _ := newWSTestServer(t)

	conn := dialWS(t, srv, nil)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.Equal(t, "error", readFrame(t, conn).Type)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "mystery"}))
	require.Equal(t, "error", readFrame(t, conn).Type)
}
