package handlers

import (
	"errors"
	"net/http"

	"usermgmt/internal/api/middleware"
	"usermgmt/internal/domain/user"
	"usermgmt/internal/service"
	"usermgmt/pkg/logger"
	"usermgmt/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService        user.UserService
	idempotencyService *service.IdempotencyService
}

// NewUserHandler creates a new user handler. idempotencyService may be nil,
// in which case the Idempotency-Key header is ignored.
func NewUserHandler(userService user.UserService, idempotencyService *service.IdempotencyService) *UserHandler {
	return &UserHandler{
		userService:        userService,
		idempotencyService: idempotencyService,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req user.CreateUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validator.FormatValidationError(err),
		})
		return
	}

	idempotencyKey := c.GetString(middleware.IdempotencyKeyContextKey)
	if h.idempotencyService != nil && idempotencyKey != "" {
		record, duplicate, err := h.idempotencyService.CheckDuplicateRequest(c.Request.Context(), idempotencyKey, &req)
		switch {
		case errors.Is(err, service.ErrIdempotencyKeyReuse):
			c.JSON(http.StatusConflict, APIResponse{
				Success: false,
				Message: err.Error(),
			})
			return
		case err != nil:
			// A store failure must not block the create; the request just
			// loses its replay guarantee, the same degradation as running
			// without the idempotency store configured.
			logger.Warn("Idempotency lookup failed, continuing without replay: %v", err)
		case duplicate:
			c.Data(record.StatusCode, "application/json", []byte(record.ResponseData))
			return
		}
	}

	resp, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	body := APIResponse{
		Success: true,
		Message: "User created successfully",
		Data:    resp,
	}

	if h.idempotencyService != nil && idempotencyKey != "" {
		if err := h.idempotencyService.StoreProcessedRequest(c.Request.Context(), idempotencyKey, &req, body, http.StatusCreated); err != nil {
			logger.Warn("Failed to store idempotency record: %v", err)
		}
	}

	c.JSON(http.StatusCreated, body)
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    resp,
	})
}

// GetUserByUsername handles GET /api/users/username/:username
func (h *UserHandler) GetUserByUsername(c *gin.Context) {
	resp, err := h.userService.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    resp,
	})
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    users,
	})
}

// ListActiveUsers handles GET /api/users/active
func (h *UserHandler) ListActiveUsers(c *gin.Context) {
	users, err := h.userService.ListActiveUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    users,
	})
}

// UpdateUser handles PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	resp, err := h.userService.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "User updated successfully",
		Data:    resp,
	})
}

// DeactivateUser handles PATCH /api/users/:id/deactivate
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.userService.DeactivateUser(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteUser handles DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SearchUsers handles GET /api/users/search?username=
func (h *UserHandler) SearchUsers(c *gin.Context) {
	users, err := h.userService.SearchUsersByUsername(c.Request.Context(), c.Query("username"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    users,
	})
}

// CheckUsernameExists handles GET /api/users/exists/username/:username
func (h *UserHandler) CheckUsernameExists(c *gin.Context) {
	exists, err := h.userService.UserExistsByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    exists,
	})
}

// CheckEmailExists handles GET /api/users/exists/email/:email
func (h *UserHandler) CheckEmailExists(c *gin.Context) {
	exists, err := h.userService.UserExistsByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    exists,
	})
}

// ListUsersByEmailDomain handles GET /api/users/domain/:domain
func (h *UserHandler) ListUsersByEmailDomain(c *gin.Context) {
	users, err := h.userService.ListUsersByEmailDomain(c.Request.Context(), c.Param("domain"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    users,
	})
}

func (h *UserHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid user ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps domain errors onto HTTP status codes: validation errors
// are 400, uniqueness conflicts 409, missing users 404, anything else 500.
func (h *UserHandler) writeError(c *gin.Context, err error) {
	var validationErr *user.ValidationError
	var existsErr *user.AlreadyExistsError
	var notFoundErr *user.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  []*user.ValidationError{validationErr},
		})
	case errors.As(err, &existsErr):
		c.JSON(http.StatusConflict, APIResponse{
			Success: false,
			Message: existsErr.Error(),
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, APIResponse{
			Success: false,
			Message: notFoundErr.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Internal server error",
		})
	}
}
