package transport

import (
	"encoding/json"
	"net/http"

	"artisan-market/internal/domain"
	"artisan-market/internal/middleware"
	"artisan-market/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents the password change payload
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UserProfile represents user profile data
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// UserHandler handles HTTP requests for account operations
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes. The rate limiter guards
// the credential endpoints only.
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly, rateLimiter func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Use(rateLimiter)
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/me", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)
			r.Post("/change-password", h.ChangePassword)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/by-username/{username}", h.GetByUsername)
				r.Delete("/{id}", h.Delete)
			})
		})
	})
}

// Register handles account creation
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegistrationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Debug("Registration decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), input)
	if err != nil {
		h.logger.Debug("Registration failed", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, profileOf(user))
}

// Login handles authentication and token issuance
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Login decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("User logged in", zap.String("username", req.Username))
	middleware.RespondWithJSON(w, http.StatusOK, token)
}

// ChangePassword rotates the caller's password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity := middleware.IdentityFromContext(r.Context())
	ok, err := h.userService.ChangePassword(r.Context(), identity.UserID, req.OldPassword, req.NewPassword)
	if err != nil {
		h.logger.Debug("Password change failed", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}

	h.logger.Info("Password changed", zap.String("user_id", identity.UserID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// UpdateProfile persists allowed profile field changes
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var input service.ProfileUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ok, err := h.userService.UpdateProfile(r.Context(), input)
	if err != nil {
		h.logger.Debug("Profile update failed", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
}

// GetProfile returns the caller's own account
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	user, err := h.userService.GetByID(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("Failed to get user profile", zap.Error(err))
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	if user == nil {
		middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, profileOf(user))
}

// GetByUsername returns any account by username (admin only)
func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.userService.GetByUsername(r.Context(), username)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	if user == nil {
		middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, profileOf(user))
}

// Delete removes an account (admin only)
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	ok, err := h.userService.DeleteUser(r.Context(), id)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}

	h.logger.Info("User deleted", zap.String("user_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func profileOf(user *domain.User) UserProfile {
	return UserProfile{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role.String(),
		IsActive: user.IsActive,
	}
}
