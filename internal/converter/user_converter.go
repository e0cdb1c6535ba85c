package converter

import (
	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO. The
// password hash never leaves the store layer.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		Name:            user.Name,
		Role:            user.Role,
		AssignedClinics: user.AssignedClinics,
		DefaultClinic:   user.DefaultClinic,
	}
}

// UsersToResponse converts a slice of User entities
func UsersToResponse(users []entity.User) []*dto.UserResponse {
	out := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, UserToResponse(&users[i]))
	}
	return out
}
