package dto

import "github.com/taskhive/taskhive-api/internal/models"

// UserDTO represents a user in API responses. Password hashes never leave
// the server.
type UserDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	RoleID   uint64 `json:"role_id"`
	RoleName string `json:"role_name,omitempty"`
}

// ToUserDTO converts a user model to its API representation.
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		RoleID:   user.RoleID,
		RoleName: user.Role.Name,
	}
}

// ToUserDTOs converts a slice of user models.
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}
