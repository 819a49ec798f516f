package repository

import (
	"github.com/taskhive/taskhive-api/internal/models"
	"gorm.io/gorm"
)

// GormRoleRepository is a GORM implementation of RoleRepository
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// Create creates a new role
func (r *GormRoleRepository) Create(role *models.Role) error {
	if err := r.db.Create(role).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// FindByID finds a role by ID
func (r *GormRoleRepository) FindByID(id uint64) (*models.Role, error) {
	var role models.Role
	if err := r.db.First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByName finds a role by name
func (r *GormRoleRepository) FindByName(name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// List returns all roles
func (r *GormRoleRepository) List() ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.Order("roles.id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// FindPermission returns the permission entry for (role, resource)
func (r *GormRoleRepository) FindPermission(roleID uint64, resource string) (*models.PermissionSet, error) {
	var entry models.PermissionSet
	err := r.db.Where("role_id = ? AND resource = ?", roleID, resource).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListPermissions returns all permission entries for a role
func (r *GormRoleRepository) ListPermissions(roleID uint64) ([]models.PermissionSet, error) {
	var entries []models.PermissionSet
	err := r.db.Where("role_id = ?", roleID).Order("permission_sets.resource ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ReplacePermissions atomically replaces every permission entry for the role.
// The delete and inserts share one transaction so a reader never sees a
// partially replaced permission set.
func (r *GormRoleRepository) ReplacePermissions(roleID uint64, entries []models.PermissionSet) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&models.PermissionSet{}).Error; err != nil {
			return err
		}

		for i := range entries {
			entries[i].ID = 0
			entries[i].RoleID = roleID
			if err := tx.Create(&entries[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
