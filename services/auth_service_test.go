package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/chess-standings/models"
)

func TestRegister(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		FirstName: "Anna",
		LastName:  "Petrova",
		Email:     "  Anna.Petrova@Example.COM ",
		Password:  "correct horse",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "anna.petrova@example.com" {
		t.Errorf("email = %q, want normalized lowercase", user.Email)
	}
	if user.Role != models.RoleViewer {
		t.Errorf("role = %s, want viewer", user.Role)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked in response")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{
			name:    "email required",
			input:   RegisterInput{Password: "correct horse"},
			wantErr: ErrValidationFailed,
		},
		{
			name:    "email must contain @",
			input:   RegisterInput{Email: "not-an-email", Password: "correct horse"},
			wantErr: ErrValidationFailed,
		},
		{
			name:    "password too short",
			input:   RegisterInput{Email: "anna@example.com", Password: "1234567"},
			wantErr: ErrPasswordTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	input := RegisterInput{Email: "anna@example.com", Password: "correct horse"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatal(err)
	}
	// Регистр адреса не делает его другим.
	input.Email = "ANNA@example.com"
	if _, err := svc.Register(ctx, input); !errors.Is(err, ErrUserEmailConflict) {
		t.Fatalf("Register(duplicate) error = %v, want ErrUserEmailConflict", err)
	}
}

func TestLogin(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "anna@example.com", Password: "correct horse"}); err != nil {
		t.Fatal(err)
	}

	user, err := svc.Login(ctx, LoginInput{Email: "Anna@Example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.Email != "anna@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked in response")
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "anna@example.com", Password: "wrong horse"}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("Login(wrong password) error = %v, want ErrAuthInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "correct horse"}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("Login(unknown email) error = %v, want ErrAuthInvalidCredentials", err)
	}
}
