package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"artisan-market/internal/auth"
	"artisan-market/internal/config"
	"artisan-market/internal/domain"
	"artisan-market/internal/middleware"
	"artisan-market/internal/repository"
	"artisan-market/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// mockUserRepository is an in-memory UserRepository keyed by username.
type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Username]; exists {
		return repository.ErrUsernameTaken
	}
	copied := *user
	m.users[user.Username] = &copied
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, exists := m.users[username]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Username]; !exists {
		return repository.ErrUserNotFound
	}
	copied := *user
	m.users[user.Username] = &copied
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for username, user := range m.users {
		if user.ID == id {
			delete(m.users, username)
			return nil
		}
	}
	return repository.ErrUserNotFound
}

// userAPIFixture wires the real service and middleware over an
// in-memory store, so requests exercise the full HTTP path.
func userAPIFixture(t *testing.T) (*chi.Mux, *mockUserRepository) {
	t.Helper()

	repo := newMockUserRepository()
	tokens, err := auth.NewTokenService(config.JWTConfig{
		Secret:       "test-secret",
		Issuer:       "artisan-market",
		Audience:     "artisan-market-api",
		AccessExpiry: time.Hour,
	})
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}

	logger := zap.NewNop()
	userService := service.NewUserService(repo, auth.NewBcryptHasher(), tokens)
	handler := NewUserHandler(userService, logger)

	router := chi.NewRouter()
	authMiddleware := middleware.Authenticate(tokens, logger)
	adminOnly := middleware.RequireAdmin(logger)
	noLimiter := func(next http.Handler) http.Handler { return next }
	handler.RegisterRoutes(router, authMiddleware, adminOnly, noLimiter)

	return router, repo
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, router http.Handler, username, password, role string) string {
	t.Helper()

	w := postJSON(t, router, "/api/users/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": password,
		"role":     role,
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("Registration failed with %d: %s", w.Code, w.Body.String())
	}

	w = postJSON(t, router, "/api/users/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Login failed with %d: %s", w.Code, w.Body.String())
	}

	var token auth.Token
	if err := json.Unmarshal(w.Body.Bytes(), &token); err != nil {
		t.Fatalf("Login response is not a token: %v", err)
	}
	return token.AccessToken
}

func TestRegisterLoginAndFetchProfile(t *testing.T) {
	router, _ := userAPIFixture(t)

	token := registerAndLogin(t, router, "maker", "Secret1!", "Seller")

	req := httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Profile fetch failed with %d: %s", w.Code, w.Body.String())
	}

	var profile UserProfile
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("Profile response malformed: %v", err)
	}
	if profile.Username != "maker" {
		t.Errorf("Expected username maker, got %q", profile.Username)
	}
	if profile.Role != "Seller" {
		t.Errorf("Expected role Seller, got %q", profile.Role)
	}
}

func TestProfileResponseNeverContainsHash(t *testing.T) {
	router, _ := userAPIFixture(t)

	token := registerAndLogin(t, router, "maker", "Secret1!", "")

	req := httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Profile fetch failed with %d", w.Code)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("Profile response malformed: %v", err)
	}
	for _, key := range []string{"password", "password_hash"} {
		if _, leaked := raw[key]; leaked {
			t.Errorf("Profile response contains %q", key)
		}
	}
}

func TestRegisterRejectsInvalidPayload(t *testing.T) {
	router, repo := userAPIFixture(t)

	w := postJSON(t, router, "/api/users/register", map[string]string{
		"username": "ab",
		"email":    "not-an-email",
		"password": "weak",
	}, "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	if len(repo.users) != 0 {
		t.Error("Invalid registration still persisted a user")
	}

	var response middleware.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Error response malformed: %v", err)
	}
	if _, ok := response.Error.Details["validation_errors"]; !ok {
		t.Error("Expected validation_errors in error details")
	}
}

func TestLoginFailureIsUniform(t *testing.T) {
	router, _ := userAPIFixture(t)
	registerAndLogin(t, router, "maker", "Secret1!", "")

	unknown := postJSON(t, router, "/api/users/login", map[string]string{
		"username": "ghost",
		"password": "Secret1!",
	}, "")
	wrongPassword := postJSON(t, router, "/api/users/login", map[string]string{
		"username": "maker",
		"password": "Wrong1!",
	}, "")

	if unknown.Code != http.StatusUnauthorized || wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for both failures, got %d and %d", unknown.Code, wrongPassword.Code)
	}

	var first, second middleware.ErrorResponse
	if err := json.Unmarshal(unknown.Body.Bytes(), &first); err != nil {
		t.Fatalf("Error response malformed: %v", err)
	}
	if err := json.Unmarshal(wrongPassword.Body.Bytes(), &second); err != nil {
		t.Fatalf("Error response malformed: %v", err)
	}
	if first.Error.Message != second.Error.Message {
		t.Errorf("Failure messages differ: %q vs %q", first.Error.Message, second.Error.Message)
	}
}

func TestChangePasswordRoundTrip(t *testing.T) {
	router, _ := userAPIFixture(t)

	token := registerAndLogin(t, router, "maker", "Secret1!", "")

	w := postJSON(t, router, "/api/users/change-password", map[string]string{
		"old_password": "Secret1!",
		"new_password": "Another2@",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Change password failed with %d: %s", w.Code, w.Body.String())
	}

	// Old credential is dead, new one works
	old := postJSON(t, router, "/api/users/login", map[string]string{
		"username": "maker",
		"password": "Secret1!",
	}, "")
	if old.Code != http.StatusUnauthorized {
		t.Errorf("Old password still accepted: %d", old.Code)
	}

	fresh := postJSON(t, router, "/api/users/login", map[string]string{
		"username": "maker",
		"password": "Another2@",
	}, "")
	if fresh.Code != http.StatusOK {
		t.Errorf("New password rejected: %d", fresh.Code)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	router, _ := userAPIFixture(t)

	customerToken := registerAndLogin(t, router, "shopper", "Secret1!", "")
	adminToken := registerAndLogin(t, router, "boss", "Secret1!", "Admin")

	req := httptest.NewRequest("GET", "/api/users/by-username/shopper", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for customer on admin route, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/users/by-username/shopper", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for admin, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	router, _ := userAPIFixture(t)

	req := httptest.NewRequest("GET", "/api/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}
}
