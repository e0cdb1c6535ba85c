package converter

import (
	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appt *entity.Appointment) *dto.AppointmentResponse {
	if appt == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:          appt.ID,
		PatientID:   appt.PatientID,
		PatientName: appt.PatientName,
		Datetime:    appt.Datetime,
		Service:     appt.Service,
		Cost:        appt.Cost,
		Paid:        appt.Paid,
		Status:      appt.Status,
		ClinicID:    appt.ClinicID,
		CreatedAt:   appt.CreatedAt,
	}
}

// AppointmentsToResponse converts a slice of Appointment entities
func AppointmentsToResponse(appts []entity.Appointment) []*dto.AppointmentResponse {
	out := make([]*dto.AppointmentResponse, 0, len(appts))
	for i := range appts {
		out = append(out, AppointmentToResponse(&appts[i]))
	}
	return out
}
