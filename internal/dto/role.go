package dto

import "github.com/taskhive/taskhive-api/internal/models"

// RoleDTO represents a role in API responses.
type RoleDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ToRoleDTO converts a role model to its API representation.
func ToRoleDTO(role models.Role) RoleDTO {
	return RoleDTO{
		ID:   role.ID,
		Name: role.Name,
	}
}

// ToRoleDTOs converts a slice of role models.
func ToRoleDTOs(roles []models.Role) []RoleDTO {
	dtos := make([]RoleDTO, len(roles))
	for i, role := range roles {
		dtos[i] = ToRoleDTO(role)
	}
	return dtos
}

// PermissionSetDTO is the external shape of one permission entry. The
// elevated capability appears as the ADMIN token inside the permission list,
// matching what clients send to the administration endpoints.
type PermissionSetDTO struct {
	RoleID      uint64   `json:"role_id"`
	Resource    string   `json:"resource"`
	Permissions []string `json:"permissions"`
}

// ToPermissionSetDTO converts a permission entry, folding the Admin flag
// back into the action list as the ADMIN token.
func ToPermissionSetDTO(entry models.PermissionSet) PermissionSetDTO {
	permissions := make([]string, 0, len(entry.Actions)+1)
	permissions = append(permissions, entry.Actions...)
	if entry.Admin {
		permissions = append(permissions, models.ActionAdmin)
	}
	return PermissionSetDTO{
		RoleID:      entry.RoleID,
		Resource:    entry.Resource,
		Permissions: permissions,
	}
}

// ToPermissionSetDTOs converts a slice of permission entries.
func ToPermissionSetDTOs(entries []models.PermissionSet) []PermissionSetDTO {
	dtos := make([]PermissionSetDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = ToPermissionSetDTO(entry)
	}
	return dtos
}
