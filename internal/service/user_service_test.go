package service

import (
	"context"
	"testing"
	"time"

	"artisan-market/internal/apperr"
	"artisan-market/internal/auth"
	"artisan-market/internal/config"
	"artisan-market/internal/domain"
	"artisan-market/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// mockUserRepository is an in-memory UserRepository keyed by username.
type mockUserRepository struct {
	users       map[string]*domain.User
	updateCalls int
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
	m.updateCalls++
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

func newUserServiceFixture(t *testing.T) (UserService, *mockUserRepository) {
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
	return NewUserService(repo, auth.NewBcryptHasher(), tokens), repo
}

func TestRegisterDefaultsToCustomerRole(t *testing.T) {
	svc, _ := newUserServiceFixture(t)

	user, err := svc.Register(context.Background(), RegistrationInput{
		Username: "newmaker",
		Email:    "maker@example.com",
		Password: "Secret1!",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.Role != domain.RoleCustomer {
		t.Errorf("Expected default role Customer, got %s", user.Role)
	}
	if !user.IsActive {
		t.Error("Expected new account to be active")
	}
	if user.PasswordHash == "Secret1!" {
		t.Error("Password stored in plaintext")
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newUserServiceFixture(t)

	input := RegistrationInput{
		Username: "maker",
		Email:    "maker@example.com",
		Password: "Secret1!",
	}

	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}

	_, err := svc.Register(context.Background(), input)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("Expected conflict for duplicate username, got %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, _ := newUserServiceFixture(t)

	cases := []struct {
		name  string
		input RegistrationInput
	}{
		{"short username", RegistrationInput{Username: "ab", Email: "a@b.com", Password: "Secret1!"}},
		{"bad email", RegistrationInput{Username: "maker", Email: "not-an-email", Password: "Secret1!"}},
		{"weak password", RegistrationInput{Username: "maker", Email: "a@b.com", Password: "alllowercase"}},
		{"unknown role", RegistrationInput{Username: "maker", Email: "a@b.com", Password: "Secret1!", Role: "Owner"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.input); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestAuthenticateIssuesTokenForValidCredentials(t *testing.T) {
	svc, _ := newUserServiceFixture(t)

	if _, err := svc.Register(context.Background(), RegistrationInput{
		Username: "maker",
		Email:    "maker@example.com",
		Password: "Secret1!",
		Role:     "Seller",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	token, err := svc.Authenticate(context.Background(), "maker", "Secret1!")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if token.AccessToken == "" {
		t.Error("Expected a signed access token")
	}
	if token.TokenType != auth.TokenType {
		t.Errorf("Expected token type %q, got %q", auth.TokenType, token.TokenType)
	}
}

// A failed login must not reveal whether the username exists. Both the
// unknown-user and wrong-password paths produce the identical error.
func TestProperty_AuthenticationFailuresAreIndistinguishable(t *testing.T) {
	// Each run pays for real bcrypt hashing, so keep the sample small
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 10
	properties := gopter.NewProperties(params)

	properties.Property("unknown user and wrong password yield the same error", prop.ForAll(
		func(unknownUser string, wrongPassword string) bool {
			svc, _ := newUserServiceFixture(t)

			if _, err := svc.Register(context.Background(), RegistrationInput{
				Username: "existing",
				Email:    "existing@example.com",
				Password: "Secret1!",
			}); err != nil {
				return false
			}

			if unknownUser == "existing" {
				unknownUser = "someoneelse"
			}
			if wrongPassword == "Secret1!" {
				wrongPassword = "Wrong1!"
			}

			_, errUnknown := svc.Authenticate(context.Background(), unknownUser, "Secret1!")
			_, errWrongPw := svc.Authenticate(context.Background(), "existing", wrongPassword)

			if !apperr.IsKind(errUnknown, apperr.KindAuthentication) {
				return false
			}
			if !apperr.IsKind(errWrongPw, apperr.KindAuthentication) {
				return false
			}
			return errUnknown.Error() == errWrongPw.Error()
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestChangePasswordRejectsWrongOldPassword(t *testing.T) {
	svc, repo := newUserServiceFixture(t)

	user, err := svc.Register(context.Background(), RegistrationInput{
		Username: "maker",
		Email:    "maker@example.com",
		Password: "Secret1!",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	updatesBefore := repo.updateCalls
	ok, err := svc.ChangePassword(context.Background(), user.ID, "NotTheOld1!", "Another2@")
	if ok {
		t.Error("Expected change to be refused")
	}
	if !apperr.IsKind(err, apperr.KindAuthentication) {
		t.Errorf("Expected authentication error, got %v", err)
	}
	if repo.updateCalls != updatesBefore {
		t.Error("Store was written despite failed verification")
	}

	// Old credential still works
	if _, err := svc.Authenticate(context.Background(), "maker", "Secret1!"); err != nil {
		t.Errorf("Original password no longer authenticates: %v", err)
	}
}

func TestChangePasswordStoresNewHash(t *testing.T) {
	svc, repo := newUserServiceFixture(t)

	user, err := svc.Register(context.Background(), RegistrationInput{
		Username: "maker",
		Email:    "maker@example.com",
		Password: "Secret1!",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	updatesBefore := repo.updateCalls
	ok, err := svc.ChangePassword(context.Background(), user.ID, "Secret1!", "Another2@")
	if err != nil || !ok {
		t.Fatalf("ChangePassword failed: ok=%v err=%v", ok, err)
	}
	if repo.updateCalls != updatesBefore+1 {
		t.Errorf("Expected exactly one store write, got %d", repo.updateCalls-updatesBefore)
	}

	if _, err := svc.Authenticate(context.Background(), "maker", "Another2@"); err != nil {
		t.Errorf("New password does not authenticate: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "maker", "Secret1!"); err == nil {
		t.Error("Old password still authenticates after change")
	}
}

func TestUpdateProfileUnknownUserIsNotFound(t *testing.T) {
	svc, _ := newUserServiceFixture(t)

	ok, err := svc.UpdateProfile(context.Background(), ProfileUpdateInput{
		Username: "ghost",
		Email:    "ghost@example.com",
	})
	if ok {
		t.Error("Expected update of unknown user to fail")
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestDeleteUserAbsentIsNotAnError(t *testing.T) {
	svc, _ := newUserServiceFixture(t)

	ok, err := svc.DeleteUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Delete of absent user errored: %v", err)
	}
	if ok {
		t.Error("Expected false for absent user")
	}
}

func TestGetByIDAbsentReturnsNil(t *testing.T) {
	svc, _ := newUserServiceFixture(t)

	user, err := svc.GetByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetByID errored: %v", err)
	}
	if user != nil {
		t.Error("Expected nil for absent user")
	}
}
