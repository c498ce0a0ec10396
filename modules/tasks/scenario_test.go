package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	taskdomain "github.com/example/taskboard/domain/task"
	userdomain "github.com/example/taskboard/domain/user"
	"github.com/example/taskboard/modules/auth"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestRegisterLoginTaskLifecycle walks the whole happy path across both
// services: register, login, create a task, complete it, delete it.
func TestRegisterLoginTaskLifecycle(t *testing.T) {
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&userdomain.User{}, &taskdomain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	authService := auth.NewAuthService(
		auth.NewUserRepository(db),
		auth.NewPasswordHasherWithCost(bcrypt.MinCost),
		auth.NewJWTManager(auth.JWTConfig{
			SecretKey:     "test-secret-key",
			TokenDuration: time.Hour,
			Issuer:        "test-issuer",
		}),
	)
	taskService := NewTaskService(NewTaskRepository(db))

	// Register and login
	if _, err := authService.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	token, user, err := authService.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// The token's identity is what the task service trusts as owner
	claims, err := authService.ValidateToken(ctx, token.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("claims.UserID = %q, want %q", claims.UserID, user.ID)
	}

	// Create a task; status defaults to pending
	task, err := taskService.Create(ctx, claims.UserID, "Buy milk", "", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.Status != taskdomain.StatusPending {
		t.Errorf("Status = %q, want %q", task.Status, taskdomain.StatusPending)
	}

	// Complete it
	completed, err := taskService.UpdateStatus(ctx, task.ID, claims.UserID, "completed")
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if completed.Status != taskdomain.StatusCompleted {
		t.Errorf("Status = %q, want %q", completed.Status, taskdomain.StatusCompleted)
	}

	// Delete it, then the lookup reports not found
	if err := taskService.Delete(ctx, task.ID, claims.UserID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := taskService.Get(ctx, task.ID, claims.UserID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrTaskNotFound", err)
	}
}
