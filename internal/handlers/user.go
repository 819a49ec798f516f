package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive-api/internal/dto"
	apierrors "github.com/taskhive/taskhive-api/internal/errors"
	"github.com/taskhive/taskhive-api/internal/services"
)

// UserHandler coordinates user administration HTTP handlers.
type UserHandler struct {
	authService       *services.AuthService
	permissionService *services.PermissionService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, permissionService *services.PermissionService) *UserHandler {
	return &UserHandler{
		authService:       authService,
		permissionService: permissionService,
	}
}

// ListUsers returns all users with their roles.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers()
	if err != nil {
		log.Printf("failed to list users: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// CreateUser creates a user on behalf of an administrator. It shares the
// registration validation.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUserRole reassigns a user's role. Already-issued tokens keep their
// embedded role until they expire.
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	type UpdateRoleRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
		RoleID uint64 `json:"role_id" binding:"required"`
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.permissionService.AssignRole(req.UserID, req.RoleID); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "User not found")
		case errors.Is(err, services.ErrRoleNotFound):
			apierrors.NotFound(c, "Role not found")
		default:
			log.Printf("failed to assign role: %v", err)
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully"})
}
