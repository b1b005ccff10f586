package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"teamawesome_t4/internal/config"
	"teamawesome_t4/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		AccessTokenMaxAge: 900,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	var created *model.User
	users := &mockUserRepo{
		createFn: func(user *model.User) error {
			user.ID = 1
			created = user
			return nil
		},
	}
	svc := NewAuthService(users, nil, testConfig())

	user, token, err := svc.Register(context.Background(), model.RegisterRequest{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Nguyen",
		Email:     "Alice@Student.Swin.Edu.Au",
		Password:  "securepassword123",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token == "" {
		t.Error("expected a signed access token")
	}
	if user.Email != "alice@student.swin.edu.au" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if !user.IsProfilePublic {
		t.Error("new accounts default to public")
	}

	// Password is hashed, never stored as given
	if created.PasswordHashed == "securepassword123" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHashed), []byte("securepassword123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	users := &mockUserRepo{
		existsByUsernameFn: func(username string) (bool, error) {
			return true, nil
		},
	}
	svc := NewAuthService(users, nil, testConfig())

	_, _, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "alice", Email: "a@swin.edu.au", Password: "pw12345678",
	})
	if !errors.Is(err, model.ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got: %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	users := &mockUserRepo{
		existsByEmailFn: func(email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewAuthService(users, nil, testConfig())

	_, _, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "alice", Email: "a@swin.edu.au", Password: "pw12345678",
	})
	if !errors.Is(err, model.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got: %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatal(err)
	}
	users := &mockUserRepo{
		getByUsernameFn: func(username string) (*model.User, error) {
			return &model.User{ID: 1, Username: username, PasswordHashed: string(hash)}, nil
		},
	}
	svc := NewAuthService(users, nil, testConfig())

	_, token, err := svc.Login(context.Background(), model.LoginRequest{Username: "alice", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("expected login to succeed, got: %v", err)
	}
	if token == "" {
		t.Error("expected a signed access token")
	}

	_, _, err = svc.Login(context.Background(), model.LoginRequest{Username: "alice", Password: "wrong"})
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got: %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, nil, testConfig())

	// Unknown username and wrong password are indistinguishable
	_, _, err := svc.Login(context.Background(), model.LoginRequest{Username: "ghost", Password: "whatever"})
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
	}
}
