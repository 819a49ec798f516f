package repository

import (
	"errors"

	"github.com/taskhive/taskhive-api/internal/models"
)

// ErrConflict is returned when a unique constraint (email, role name) is hit.
var ErrConflict = errors.New("record already exists")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns all users with their role preloaded
	List() ([]models.User, error)

	// UpdateRole overwrites the user's role reference
	UpdateRole(userID, roleID uint64) error
}

// RoleRepository defines the interface for role and permission data access
type RoleRepository interface {
	// Create creates a new role
	Create(role *models.Role) error

	// FindByID finds a role by ID
	FindByID(id uint64) (*models.Role, error)

	// FindByName finds a role by name
	FindByName(name string) (*models.Role, error)

	// List returns all roles
	List() ([]models.Role, error)

	// FindPermission returns the permission entry for (role, resource),
	// or gorm.ErrRecordNotFound when none exists.
	FindPermission(roleID uint64, resource string) (*models.PermissionSet, error)

	// ListPermissions returns all permission entries for a role
	ListPermissions(roleID uint64) ([]models.PermissionSet, error)

	// ReplacePermissions atomically deletes all permission entries for the
	// role and inserts the given ones. No intermediate state is observable.
	ReplacePermissions(roleID uint64, entries []models.PermissionSet) error
}

// TaskVisibility scopes task reads to what the caller may observe.
type TaskVisibility struct {
	// Unrestricted grants visibility of every task.
	Unrestricted bool
	// UserID restricts results to tasks assigned to this user when
	// Unrestricted is false.
	UserID uint64
}

// TaskFilter holds scoping and filtering options for listing tasks
type TaskFilter struct {
	Visibility TaskVisibility
	Status     *models.TaskStatus
	Page       int
	PageSize   int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID, scoped by visibility
	FindByID(id uint64, vis TaskVisibility) (*models.Task, error)

	// List retrieves tasks matching the filter with a total count
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error
}
