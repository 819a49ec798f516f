package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound     = errors.New("role not found")
	ErrDuplicateRole    = errors.New("role name already exists")
	ErrRoleNameRequired = errors.New("role name is required")
)

// PermissionService decides whether a role may perform an action on a
// resource and carries the role/permission administration operations.
type PermissionService struct {
	roleRepo repository.RoleRepository
	userRepo repository.UserRepository
}

// NewPermissionService creates a new PermissionService.
func NewPermissionService(roleRepo repository.RoleRepository, userRepo repository.UserRepository) *PermissionService {
	return &PermissionService{
		roleRepo: roleRepo,
		userRepo: userRepo,
	}
}

// Authorize reports whether the role holds the action on the resource.
// A missing permission entry denies; a store failure denies and surfaces
// the error. Access is never widened on error.
func (s *PermissionService) Authorize(roleID uint64, resource, action string) (bool, error) {
	entry, err := s.roleRepo.FindPermission(roleID, resource)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve permission: %w", err)
	}

	return entry.Allows(action), nil
}

// HasElevatedCapability reports whether the role's entry for the resource
// carries the elevated flag that bypasses ownership filtering. Missing
// entries and store failures both read as not elevated.
func (s *PermissionService) HasElevatedCapability(roleID uint64, resource string) (bool, error) {
	entry, err := s.roleRepo.FindPermission(roleID, resource)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve permission: %w", err)
	}

	return entry.Admin, nil
}

// CreateRole creates a new role with a unique name.
func (s *PermissionService) CreateRole(name string) (*models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRoleNameRequired
	}

	role := &models.Role{Name: name}
	if err := s.roleRepo.Create(role); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateRole
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	return role, nil
}

// ListRoles returns all roles.
func (s *PermissionService) ListRoles() ([]models.Role, error) {
	roles, err := s.roleRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// AssignRole overwrites the user's role reference. Tokens issued before the
// reassignment keep their embedded role until expiry.
func (s *PermissionService) AssignRole(userID, roleID uint64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.roleRepo.FindByID(roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("failed to find role: %w", err)
	}

	if err := s.userRepo.UpdateRole(userID, roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to assign role: %w", err)
	}

	return nil
}

// ReplacePermissions atomically replaces the role's entire permission set
// with the given resource-to-actions mapping. The elevated ADMIN token in an
// action list becomes the entry's Admin flag.
func (s *PermissionService) ReplacePermissions(roleID uint64, mapping map[string][]string) error {
	if _, err := s.roleRepo.FindByID(roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("failed to find role: %w", err)
	}

	resources := make([]string, 0, len(mapping))
	for resource := range mapping {
		resources = append(resources, resource)
	}
	sort.Strings(resources)

	entries := make([]models.PermissionSet, 0, len(mapping))
	for _, resource := range resources {
		entry := models.PermissionSet{
			RoleID:   roleID,
			Resource: resource,
			Actions:  models.Actions{},
		}
		for _, action := range mapping[resource] {
			if action == models.ActionAdmin {
				entry.Admin = true
				continue
			}
			entry.Actions = append(entry.Actions, action)
		}
		entries = append(entries, entry)
	}

	if err := s.roleRepo.ReplacePermissions(roleID, entries); err != nil {
		return fmt.Errorf("failed to replace permissions: %w", err)
	}

	return nil
}

// ListPermissions returns the role's current permission entries.
func (s *PermissionService) ListPermissions(roleID uint64) ([]models.PermissionSet, error) {
	if _, err := s.roleRepo.FindByID(roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}

	entries, err := s.roleRepo.ListPermissions(roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return entries, nil
}
