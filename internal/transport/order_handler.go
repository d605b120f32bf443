package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"artisan-market/internal/middleware"
	"artisan-market/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes behind authentication
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.GetAll)
		r.Get("/filter", h.GetFiltered)
		r.Get("/{id}", h.GetByID)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// GetAll lists every order
func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	orders, err := h.orderService.GetAll(r.Context(), identity)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// GetFiltered lists orders narrowed by seller, status and date range.
// Dates are RFC 3339; startDate is inclusive, endDate exclusive.
func (h *OrderHandler) GetFiltered(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var startDate, endDate *time.Time
	if raw := q.Get("startDate"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid startDate")
			return
		}
		startDate = &parsed
	}
	if raw := q.Get("endDate"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid endDate")
			return
		}
		endDate = &parsed
	}

	identity := middleware.IdentityFromContext(r.Context())
	orders, err := h.orderService.GetFiltered(r.Context(), identity, q.Get("sellerId"), q.Get("status"), startDate, endDate)
	if err != nil {
		h.logger.Debug("Filtered order listing failed", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// GetByID returns a single order
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	order, err := h.orderService.GetByID(r.Context(), identity, id)
	if err != nil {
		h.logger.Debug("Order lookup failed", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Create places a new order
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	order, err := h.orderService.Create(r.Context(), identity, input)
	if err != nil {
		h.logger.Debug("Order creation failed", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Order created", zap.String("order_id", order.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// Update replaces an order
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var input service.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	ok, err := h.orderService.Update(r.Context(), identity, id, input)
	if err != nil {
		h.logger.Debug("Order update failed", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes an order
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	ok, err := h.orderService.Delete(r.Context(), identity, id)
	if err != nil {
		h.logger.Debug("Order deletion failed", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
