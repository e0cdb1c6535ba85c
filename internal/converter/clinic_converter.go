package converter

import (
	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/domain/entity"
)

// ClinicToResponse converts a Clinic entity to ClinicResponse DTO
func ClinicToResponse(clinic *entity.Clinic) *dto.ClinicResponse {
	if clinic == nil {
		return nil
	}

	return &dto.ClinicResponse{
		ID:        clinic.ID,
		Name:      clinic.Name,
		Address:   clinic.Address,
		Phone:     clinic.Phone,
		IsActive:  clinic.IsActive,
		CreatedAt: clinic.CreatedAt,
		Settings: dto.ClinicSettingsResponse{
			Currency: clinic.Settings.Currency,
			Timezone: clinic.Settings.Timezone,
			WorkingHours: dto.WorkingHoursResponse{
				Start: clinic.Settings.WorkingHours.Start,
				End:   clinic.Settings.WorkingHours.End,
			},
		},
	}
}

// ClinicsToResponse converts a slice of Clinic entities
func ClinicsToResponse(clinics []entity.Clinic) []*dto.ClinicResponse {
	out := make([]*dto.ClinicResponse, 0, len(clinics))
	for i := range clinics {
		out = append(out, ClinicToResponse(&clinics[i]))
	}
	return out
}
