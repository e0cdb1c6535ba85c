package dto

// UserResponse never carries the password hash.
type UserResponse struct {
	ID              string   `json:"id"`
	Username        string   `json:"username"`
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	AssignedClinics []string `json:"assigned_clinics"`
	DefaultClinic   string   `json:"default_clinic"`
}

type CreateUserRequest struct {
	Username        string   `json:"username" validate:"required,min=3,max=50"`
	Password        string   `json:"password" validate:"required,min=4"`
	Name            string   `json:"name" validate:"required"`
	Role            string   `json:"role" validate:"required,oneof=admin doctor secretary"`
	AssignedClinics []string `json:"assigned_clinics"`
	DefaultClinic   string   `json:"default_clinic"`
}

type UpdateUserRequest struct {
	Name            string   `json:"name"`
	Role            string   `json:"role" validate:"omitempty,oneof=admin doctor secretary"`
	AssignedClinics []string `json:"assigned_clinics"`
	DefaultClinic   string   `json:"default_clinic"`
}

type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=4"`
}
