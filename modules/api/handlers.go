package api

import (
	"encoding/json"
	"log"
	"strings"

	domain "github.com/example/taskboard/domain/user"
	"github.com/example/taskboard/modules/auth"
	"github.com/example/taskboard/modules/tasks"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer  mono.ServiceContainer
	tasksContainer mono.ServiceContainer
	authAdapter    auth.AuthPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer, tasksContainer mono.ServiceContainer, authAdapter auth.AuthPort) *Handlers {
	return &Handlers{
		authContainer:  authContainer,
		tasksContainer: tasksContainer,
		authAdapter:    authAdapter,
	}
}

// Me returns the authenticated user's profile.
func (h *Handlers) Me(c *fiber.Ctx) error {
	claims, ok := callerClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	user, err := h.authAdapter.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		log.Printf("[api] Failed to load user %s: %v", claims.UserID, err)
		return internalError(c)
	}

	return c.Status(fiber.StatusOK).JSON(UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	authReq := auth.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
	}
	var resp auth.RegisterResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "register",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        resp.ID,
		Username:  resp.Username,
		CreatedAt: resp.CreatedAt,
	})
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	authReq := auth.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	}
	var resp auth.LoginResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "login",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		Token:     resp.Token,
		ExpiresIn: resp.ExpiresIn,
		TokenType: resp.TokenType,
		User: LoginUser{
			ID:       resp.UserID,
			Username: resp.Username,
		},
	})
}

// CreateTask handles task creation for the authenticated user.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := callerClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	taskReq := tasks.CreateTaskRequest{
		OwnerID:     claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	var resp tasks.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.tasksContainer, "create",
		json.Marshal, json.Unmarshal, &taskReq, &resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListTasks returns all tasks owned by the authenticated user.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := callerClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	taskReq := tasks.ListTasksRequest{OwnerID: claims.UserID}
	var resp tasks.ListTasksResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.tasksContainer, "list",
		json.Marshal, json.Unmarshal, &taskReq, &resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetTask returns a single task after the ownership check.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims, ok := callerClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	taskReq := tasks.GetTaskRequest{
		ID:      c.Params("id"),
		OwnerID: claims.UserID,
	}
	var resp tasks.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.tasksContainer, "get",
		json.Marshal, json.Unmarshal, &taskReq, &resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateTask applies a partial update to a task.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := callerClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	taskReq := tasks.UpdateTaskRequest{
		ID:          c.Params("id"),
		OwnerID:     claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	var resp tasks.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.tasksContainer, "update",
		json.Marshal, json.Unmarshal, &taskReq, &resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateTaskStatus updates only a task's status.
func (h *Handlers) UpdateTaskStatus(c *fiber.Ctx) error {
	claims, ok := callerClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	taskReq := tasks.UpdateTaskStatusRequest{
		ID:      c.Params("id"),
		OwnerID: claims.UserID,
		Status:  req.Status,
	}
	var resp tasks.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.tasksContainer, "update-status",
		json.Marshal, json.Unmarshal, &taskReq, &resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteTask permanently removes a task.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := callerClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	taskReq := tasks.DeleteTaskRequest{
		ID:      c.Params("id"),
		OwnerID: claims.UserID,
	}
	var resp tasks.DeleteTaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.tasksContainer, "delete",
		json.Marshal, json.Unmarshal, &taskReq, &resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(MessageResponse{
		Message: "task deleted",
	})
}

// callerClaims extracts the authenticated user's claims set by AuthMiddleware.
func callerClaims(c *fiber.Ctx) (*domain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	return claims, ok
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "User not authenticated",
	})
}

// handleAuthError maps auth service failures to status codes.
// Errors cross the service container as strings, so matching is by message.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid username or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid username or password",
		})
	case strings.Contains(errStr, "already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this username already exists",
		})
	case strings.Contains(errStr, "username is required"):
		return badRequest(c, "Username is required")
	case strings.Contains(errStr, "password must be at least"):
		return badRequest(c, "Password must be at least 6 characters")
	case strings.Contains(errStr, "password must be at most"):
		return badRequest(c, "Password must be at most 72 characters")
	default:
		// Log the actual error but don't expose it to the client
		log.Printf("[api] Internal error: %v", err)
		return internalError(c)
	}
}

// handleTaskError maps task service failures to status codes.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "title is required"):
		return badRequest(c, "Title is required")
	case strings.Contains(errStr, "invalid status"):
		return badRequest(c, "Status must be one of: pending, in progress, completed")
	case strings.Contains(errStr, "task not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	case strings.Contains(errStr, "belongs to another user"):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "You do not have access to this task",
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return internalError(c)
	}
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
