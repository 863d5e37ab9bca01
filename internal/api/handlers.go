package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/swiftserve/swiftserve/internal/cart"
	"github.com/swiftserve/swiftserve/internal/orders"
	"github.com/swiftserve/swiftserve/internal/store"
)

// Handlers holds the shared dependencies behind the REST routes.
type Handlers struct {
	Store    *store.Store
	Gateway  *orders.Gateway
	Cart     *cart.Service
	Log      *zap.Logger
	validate *validator.Validate
}

func NewHandlers(st *store.Store, gw *orders.Gateway, crt *cart.Service, log *zap.Logger) *Handlers {
	return &Handlers{
		Store:    st,
		Gateway:  gw,
		Cart:     crt,
		Log:      log.Named("api"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeGatewayError maps the gateway's error taxonomy onto HTTP statuses.
func writeGatewayError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "unauthorized")
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, orders.ErrEmptyOrder), errors.Is(err, orders.ErrBadStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decode unmarshals and validates a JSON request body.
func (h *Handlers) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return h.validate.Struct(dst)
}

func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// --- cart ---

type cartAddRequest struct {
	MenuItemID int64 `json:"item_id" validate:"required"`
	Quantity   int   `json:"quantity"`
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if actor.Role != orders.RoleCustomer {
		writeError(w, http.StatusForbidden, "unauthorized")
		return
	}

	var req cartAddRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	count := h.Cart.Add(actor.ID, req.MenuItemID, req.Quantity)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "cart_count": count})
}

type cartRemoveRequest struct {
	MenuItemID int64 `json:"item_id" validate:"required"`
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if actor.Role != orders.RoleCustomer {
		writeError(w, http.StatusForbidden, "unauthorized")
		return
	}

	var req cartRemoveRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.Cart.Remove(actor.ID, req.MenuItemID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// --- orders ---

type placeOrderRequest struct {
	RestaurantID    int64  `json:"restaurant_id" validate:"required"`
	DeliveryAddress string `json:"delivery_address"`
	Instructions    string `json:"special_instructions"`
}

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())

	var req placeOrderRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := lo.MapToSlice(h.Cart.Items(actor.ID), func(menuItemID int64, qty int) orders.PlacedItem {
		return orders.PlacedItem{MenuItemID: menuItemID, Quantity: qty}
	})
	if len(items) == 0 {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	order, err := h.Gateway.PlaceOrder(r.Context(), actor, req.RestaurantID, req.DeliveryAddress, req.Instructions, items)
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	// The cart survives a failed placement so the customer can retry.
	h.Cart.Clear(actor.ID)

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order_id": order.ID})
}

type updateStatusRequest struct {
	OrderID int64  `json:"order_id" validate:"required"`
	Status  string `json:"status" validate:"required"`
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())

	var req updateStatusRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.Gateway.UpdateStatus(r.Context(), actor, req.OrderID, orders.Status(req.Status)); err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.Store.GetOrder(r.Context(), id)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// --- restaurants ---

func (h *Handlers) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListRestaurants(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) RestaurantMenu(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}

	menu, err := h.Store.MenuForRestaurant(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

type toggleRestaurantRequest struct {
	Action string `json:"action" validate:"omitempty,oneof=open closed"`
}

func (h *Handlers) ToggleRestaurantStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if actor.Role != orders.RoleRestaurant {
		writeError(w, http.StatusForbidden, "unauthorized")
		return
	}

	var req toggleRestaurantRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rest, err := h.Store.RestaurantByOwner(r.Context(), actor.ID)
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	var active *bool
	switch req.Action {
	case "open":
		active = lo.ToPtr(true)
	case "closed":
		active = lo.ToPtr(false)
	}

	isActive, err := h.Store.SetRestaurantActive(r.Context(), rest.ID, active)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "is_active": isActive})
}

type updateProfileRequest struct {
	Name        string `json:"name" validate:"required"`
	Address     string `json:"address"`
	CuisineType string `json:"cuisine_type"`
}

func (h *Handlers) UpdateRestaurantProfile(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if actor.Role != orders.RoleRestaurant {
		writeError(w, http.StatusForbidden, "unauthorized")
		return
	}

	var req updateProfileRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rest, err := h.Store.RestaurantByOwner(r.Context(), actor.ID)
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	if err := h.Store.UpdateRestaurantProfile(r.Context(), rest.ID, req.Name, req.Address, req.CuisineType); err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type addMenuItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Description string  `json:"description"`
	IsAvailable bool    `json:"is_available"`
}

func (h *Handlers) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if actor.Role != orders.RoleRestaurant {
		writeError(w, http.StatusForbidden, "unauthorized")
		return
	}

	var req addMenuItemRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rest, err := h.Store.RestaurantByOwner(r.Context(), actor.ID)
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	id, err := h.Store.AddMenuItem(r.Context(), store.MenuItem{
		RestaurantID: rest.ID,
		Name:         req.Name,
		Price:        req.Price,
		Description:  req.Description,
		IsAvailable:  req.IsAvailable,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "item_id": id})
}

// --- delivery agents ---

type toggleAgentRequest struct {
	IsAvailable *bool `json:"is_available"`
}

func (h *Handlers) ToggleAgentStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if actor.Role != orders.RoleDeliveryAgent {
		writeError(w, http.StatusForbidden, "unauthorized")
		return
	}

	var req toggleAgentRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	available, err := h.Store.SetAgentAvailability(r.Context(), actor.ID, req.IsAvailable)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "is_available": available})
}

func (h *Handlers) AvailableOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if actor.Role != orders.RoleDeliveryAgent {
		writeError(w, http.StatusForbidden, "unauthorized")
		return
	}

	list, err := h.Store.AvailableOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}
