package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/swiftserve/swiftserve/internal/orders"
	"github.com/swiftserve/swiftserve/internal/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades client connections and runs the join/leave/report
// loop against the room registry.
type WSHandler struct {
	Registry *realtime.Registry
	Gateway  *orders.Gateway
	Log      *zap.Logger
}

func NewWSHandler(reg *realtime.Registry, gw *orders.Gateway, log *zap.Logger) *WSHandler {
	return &WSHandler{Registry: reg, Gateway: gw, Log: log.Named("ws")}
}

type wsRequest struct {
	Type         string  `json:"type"`
	OrderID      int64   `json:"order_id,omitempty"`
	RestaurantID int64   `json:"restaurant_id,omitempty"`
	Latitude     float64 `json:"latitude,omitempty"`
	Longitude    float64 `json:"longitude,omitempty"`
}

// HandleWS runs one connection's lifetime: upgrade, message loop,
// synchronous LeaveAll on teardown. The order tracking page works without
// authentication; location_update is the one inbound message that needs
// an identity, since only the assigned agent may report.
func (h *WSHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// gorilla conns do not allow concurrent writers; the broadcaster and
	// this loop's acks share the conn, so serialize writes here.
	var writeMu sync.Mutex
	wsSend := func(kind string, payload any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(map[string]any{"type": kind, "data": payload})
	}

	sess := realtime.NewSession(wsSend)
	defer h.Registry.LeaveAll(sess)

	actor, hasActor := ActorFrom(r.Context())

	h.Log.Debug("websocket connected", zap.String("session_id", sess.ID))

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			wsSend("error", map[string]string{"error": "invalid JSON"})
			continue
		}

		switch req.Type {
		case "join_order_room":
			topic := realtime.OrderTopic(req.OrderID)
			h.Registry.Join(sess, topic)
			wsSend("joined", map[string]any{"room": topic})

		case "join_restaurant_room":
			topic := realtime.RestaurantTopic(req.RestaurantID)
			h.Registry.Join(sess, topic)
			wsSend("joined", map[string]any{"room": topic})

		case "leave_order_room":
			topic := realtime.OrderTopic(req.OrderID)
			h.Registry.Leave(sess, topic)
			wsSend("left", map[string]any{"room": topic})

		case "leave_restaurant_room":
			topic := realtime.RestaurantTopic(req.RestaurantID)
			h.Registry.Leave(sess, topic)
			wsSend("left", map[string]any{"room": topic})

		case "location_update":
			if !hasActor {
				wsSend("error", map[string]string{"error": "authentication required"})
				continue
			}
			if err := h.Gateway.ReportLocation(r.Context(), actor, req.OrderID, req.Latitude, req.Longitude); err != nil {
				if orders.IsAuthError(err) {
					wsSend("error", map[string]string{"error": "unauthorized"})
				} else {
					wsSend("error", map[string]string{"error": "location update failed"})
				}
			}

		default:
			wsSend("error", map[string]string{"error": "unknown message type"})
		}
	}

	h.Log.Debug("websocket disconnected", zap.String("session_id", sess.ID))
}
