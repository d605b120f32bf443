package validation

import (
	"errors"
	"testing"

	"artisan-market/internal/apperr"
)

type registrationForm struct {
	Username string `validate:"required,min=3,max=20"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,password"`
}

func TestStructPassesValidInput(t *testing.T) {
	form := registrationForm{
		Username: "maker",
		Email:    "maker@example.com",
		Password: "Secret1!",
	}

	if err := Struct(form); err != nil {
		t.Errorf("Expected valid input to pass, got %v", err)
	}
}

func TestStructReportsFieldErrors(t *testing.T) {
	form := registrationForm{
		Username: "ab",
		Email:    "not-an-email",
		Password: "short",
	}

	err := Struct(form)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	var appErr *apperr.Error
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("Expected validation kind, got %v", err)
	}
	if !errors.As(err, &appErr) {
		t.Fatal("Expected an apperr.Error")
	}
	if len(appErr.Fields) != 3 {
		t.Errorf("Expected 3 field errors, got %d: %v", len(appErr.Fields), appErr.Fields)
	}
}

func TestPasswordRule(t *testing.T) {
	cases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"all character classes", "Secret1!", true},
		{"missing uppercase", "secret1!", false},
		{"missing lowercase", "SECRET1!", false},
		{"missing digit", "Secrets!", false},
		{"missing special", "Secrets1", false},
	}

	type form struct {
		Password string `validate:"password"`
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(form{Password: tc.password})
			if tc.valid && err != nil {
				t.Errorf("Expected %q to pass, got %v", tc.password, err)
			}
			if !tc.valid && err == nil {
				t.Errorf("Expected %q to fail", tc.password)
			}
		})
	}
}
