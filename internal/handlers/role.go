package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive-api/internal/dto"
	apierrors "github.com/taskhive/taskhive-api/internal/errors"
	"github.com/taskhive/taskhive-api/internal/services"
)

// RoleHandler coordinates role and permission administration handlers.
type RoleHandler struct {
	permissionService *services.PermissionService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(permissionService *services.PermissionService) *RoleHandler {
	return &RoleHandler{
		permissionService: permissionService,
	}
}

// ListRoles returns all roles.
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.permissionService.ListRoles()
	if err != nil {
		log.Printf("failed to list roles: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToRoleDTOs(roles))
}

// CreateRole creates a new role.
func (h *RoleHandler) CreateRole(c *gin.Context) {
	type CreateRoleRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.permissionService.CreateRole(req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoleNameRequired):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrDuplicateRole):
			apierrors.Conflict(c, "Role name already exists")
		default:
			log.Printf("failed to create role: %v", err)
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToRoleDTO(*role))
}

// ReplacePermissions atomically replaces a role's permission set. The body
// maps resource paths to action lists; the ADMIN token grants unrestricted
// visibility on the resource.
func (h *RoleHandler) ReplacePermissions(c *gin.Context) {
	type ReplacePermissionsRequest struct {
		RoleID      uint64              `json:"role_id" binding:"required"`
		Permissions map[string][]string `json:"permissions" binding:"required"`
	}

	var req ReplacePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.permissionService.ReplacePermissions(req.RoleID, req.Permissions); err != nil {
		if errors.Is(err, services.ErrRoleNotFound) {
			apierrors.NotFound(c, "Role not found")
			return
		}
		log.Printf("failed to replace permissions: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Permissions updated successfully"})
}

// ListPermissions returns a role's current permission entries.
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	roleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid role ID")
		return
	}

	entries, err := h.permissionService.ListPermissions(roleID)
	if err != nil {
		if errors.Is(err, services.ErrRoleNotFound) {
			apierrors.NotFound(c, "Role not found")
			return
		}
		log.Printf("failed to list permissions: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToPermissionSetDTOs(entries))
}
