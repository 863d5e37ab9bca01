package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SetupRoutes wires the REST API and the websocket endpoint.
func SetupRoutes(h *Handlers, ws *WSHandler, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(LoggingMiddleware(log))
	r.Use(WithActor(h.Store))

	r.Route("/api", func(r chi.Router) {
		// Public: browsing and order tracking need no identity.
		r.Get("/restaurants", h.ListRestaurants)
		r.Get("/restaurants/{id}/menu", h.RestaurantMenu)
		r.Get("/orders/{id}", h.GetOrder)
		r.Get("/rooms", ws.HandleRooms)

		r.Group(func(r chi.Router) {
			r.Use(RequireActor)

			r.Post("/cart/add", h.AddToCart)
			r.Post("/cart/remove", h.RemoveFromCart)
			r.Post("/order/place", h.PlaceOrder)
			r.Post("/order/update_status", h.UpdateOrderStatus)
			r.Post("/restaurant/toggle_status", h.ToggleRestaurantStatus)
			r.Post("/restaurant/profile", h.UpdateRestaurantProfile)
			r.Post("/restaurant/menu", h.AddMenuItem)
			r.Post("/delivery/agent/toggle_status", h.ToggleAgentStatus)
			r.Get("/delivery/orders/available", h.AvailableOrders)
		})
	})

	r.Get("/ws", ws.HandleWS)

	return r
}
