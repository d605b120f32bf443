package transport

import (
	"encoding/json"
	"net/http"

	"artisan-market/internal/middleware"
	"artisan-market/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes. Reads need an identity
// because listings are role-scoped; mutations additionally require the
// Admin or Seller role.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, sellerOrAdmin func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.GetAll)
		r.Get("/{id}", h.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(sellerOrAdmin)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// GetAll lists the catalog, scoped by the caller's role
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	products, err := h.productService.GetAll(r.Context(), identity)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetByID returns a single product
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	product, err := h.productService.GetByID(r.Context(), identity, id)
	if err != nil {
		h.logger.Debug("Product lookup failed", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create adds a product owned by the caller
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	product, err := h.productService.Create(r.Context(), identity, input)
	if err != nil {
		h.logger.Debug("Product creation failed", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("owner_user_id", product.OwnerUserID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update replaces a product
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var input service.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	ok, err := h.productService.Update(r.Context(), identity, id, input)
	if err != nil {
		h.logger.Debug("Product update failed", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	ok, err := h.productService.Delete(r.Context(), identity, id)
	if err != nil {
		h.logger.Debug("Product deletion failed", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
