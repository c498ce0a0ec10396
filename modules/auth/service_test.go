package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/example/taskboard/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestService creates an AuthService backed by an in-memory database.
func setupTestService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	repo := NewUserRepository(db)
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)
	manager := NewJWTManager(JWTConfig{
		SecretKey:     "test-secret-key",
		TokenDuration: time.Hour,
		Issuer:        "test-issuer",
	})

	return NewAuthService(repo, hasher, manager)
}

func TestAuthService_Register(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Register() did not assign an ID")
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}
	if user.PasswordHash == "secret1" {
		t.Error("Register() stored the plaintext password")
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{
			name:     "missing username",
			username: "",
			password: "password123",
			wantErr:  ErrUsernameRequired,
		},
		{
			name:     "short password",
			username: "bob",
			password: "12345",
			wantErr:  ErrWeakPassword,
		},
		{
			name:     "password over bcrypt limit",
			username: "bob",
			password: string(make([]byte, 73)),
			wantErr:  ErrPasswordTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(ctx, tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Same username with a different password still conflicts
	_, err := service.Register(ctx, "alice", "different-password")
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("Register() error = %v, want ErrUserExists", err)
	}
}

func TestAuthService_RegisterCaseSensitiveUsernames(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := service.Register(ctx, "Alice", "secret1"); err != nil {
		t.Errorf("Register() error = %v, usernames are case-sensitive", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	registered, err := service.Register(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, user, err := service.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if token.Token == "" {
		t.Error("Login() returned empty token")
	}
	if token.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want %q", token.TokenType, "Bearer")
	}
	if user.ID != registered.ID {
		t.Errorf("user.ID = %q, want %q", user.ID, registered.ID)
	}

	// The token must decode to the same user identifier
	claims, err := service.ValidateToken(ctx, token.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != registered.ID {
		t.Errorf("claims.UserID = %q, want %q", claims.UserID, registered.ID)
	}
	if claims.Username != "alice" {
		t.Errorf("claims.Username = %q, want %q", claims.Username, "alice")
	}
}

func TestAuthService_LoginInvalidCredentials(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong-password",
		},
		{
			name:     "unknown username",
			username: "nobody",
			password: "secret1",
		},
	}

	// Both cases must yield the same error so the client cannot tell
	// which field was wrong.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.Login(ctx, tt.username, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAuthService_GetUser(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	registered, err := service.Register(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := service.GetUser(ctx, registered.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}

	_, err = service.GetUser(ctx, "no-such-id")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUser() error = %v, want ErrUserNotFound", err)
	}
}
