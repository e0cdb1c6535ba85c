package dto

import "time"

type ClinicRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type UpdateClinicRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"is_active"`
}

type WorkingHoursResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ClinicSettingsResponse struct {
	Currency     string               `json:"currency"`
	Timezone     string               `json:"timezone"`
	WorkingHours WorkingHoursResponse `json:"working_hours"`
}

type ClinicResponse struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Address   string                 `json:"address,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	IsActive  bool                   `json:"is_active"`
	CreatedAt time.Time              `json:"created_at"`
	Settings  ClinicSettingsResponse `json:"settings"`
}

type SetActiveClinicRequest struct {
	ClinicID string `json:"clinic_id" validate:"required"`
}
