package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/programpal/pathfinder/internal/repository"
)

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService(repository.NewUserRepository(openDB(t)), "secret", time.Hour)

	user, err := auth.Signup(ctx, "  Alice@Example.com ", testPassword)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == testPassword || !user.HasPassword() {
		t.Fatal("expected a password hash")
	}

	_, err = auth.Signup(ctx, "alice@example.com", testPassword)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	logged, err := auth.Login(ctx, "ALICE@example.com", testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, logged.ID)
	}

	_, err = auth.Login(ctx, "alice@example.com", "wrong horse battery")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}

	_, err = auth.Login(ctx, "nobody@example.com", testPassword)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestSignupValidation(t *testing.T) {
	auth := NewAuthService(repository.NewUserRepository(openDB(t)), "secret", time.Hour)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"bad email", "not-an-email", testPassword},
		{"short password", "bob@example.com", "short"},
		{"common password", "bob@example.com", "mypassword12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Signup(context.Background(), tt.email, tt.password)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	auth := NewAuthService(repository.NewUserRepository(database), "secret", time.Hour)
	user := seedUser(t, database, "carol@example.com")

	token, err := auth.GenerateJWT(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	resolved, err := auth.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("expected %s, got %s", user.ID, resolved.ID)
	}

	otherSecret := NewAuthService(repository.NewUserRepository(database), "other", time.Hour)
	expired := NewAuthService(repository.NewUserRepository(database), "secret", -time.Minute)
	expiredToken, err := expired.GenerateJWT(user)
	if err != nil {
		t.Fatalf("generate expired: %v", err)
	}

	tests := []struct {
		name  string
		auth  *AuthService
		token string
	}{
		{"empty", auth, ""},
		{"garbage", auth, "not.a.token"},
		{"wrong secret", otherSecret, token},
		{"expired", auth, expiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.auth.Resolve(ctx, tt.token)
			if !errors.Is(err, ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestResolveDeletedUser(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	auth := NewAuthService(repository.NewUserRepository(database), "secret", time.Hour)
	user := seedUser(t, database, "dave@example.com")

	token, err := auth.GenerateJWT(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = database.ExecContext(ctx, "DELETE FROM users WHERE id = $1", user.ID)
	if err != nil {
		t.Fatalf("delete user: %v", err)
	}

	_, err = auth.Resolve(ctx, token)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for a vanished user, got %v", err)
	}
}

func TestResolveDatabaseFailureIsNotUnauthenticated(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	auth := NewAuthService(repository.NewUserRepository(database), "secret", time.Hour)
	user := seedUser(t, database, "erin@example.com")

	token, err := auth.GenerateJWT(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := database.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err = auth.Resolve(ctx, token)
	if err == nil || errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected a plain infrastructure error, got %v", err)
	}
}
