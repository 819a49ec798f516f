package database

import (
	"fmt"
	"log"

	"github.com/taskhive/taskhive-api/internal/models"
	"gorm.io/gorm"
)

// Seed inserts the default roles and their permission sets. It is a no-op
// when any role already exists, so restarts do not duplicate rows.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Role{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing roles: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding default roles and permissions...")

	roles := []models.Role{
		{Name: "Admin"},
		{Name: "Editor"},
		{Name: "Viewer"},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range roles {
			if err := tx.Create(&roles[i]).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", roles[i].Name, err)
			}
		}

		permissions := []models.PermissionSet{
			{RoleID: roles[0].ID, Resource: "/tasks", Actions: models.Actions{"GET", "POST", "PUT", "DELETE"}, Admin: true},
			{RoleID: roles[0].ID, Resource: "/users", Actions: models.Actions{"GET", "POST"}},
			{RoleID: roles[0].ID, Resource: "/users/role", Actions: models.Actions{"PUT"}},
			{RoleID: roles[1].ID, Resource: "/tasks", Actions: models.Actions{"GET", "POST", "PUT"}},
			{RoleID: roles[2].ID, Resource: "/tasks", Actions: models.Actions{"GET"}},
		}

		for i := range permissions {
			if err := tx.Create(&permissions[i]).Error; err != nil {
				return fmt.Errorf("failed to seed permissions: %w", err)
			}
		}

		return nil
	})
}
