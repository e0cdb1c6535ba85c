package entity

import "time"

// Appointment payment status, derived from paid vs cost.
const (
	AppointmentStatusUnpaid  = "unpaid"
	AppointmentStatusPartial = "partial"
	AppointmentStatusPaid    = "paid"
)

// Appointment belongs to a patient via PatientID but lives in a flat
// top-level collection. PatientName is a denormalized snapshot taken at
// creation time so the schedule stays readable after edits.
type Appointment struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	PatientName string    `json:"patientName"`
	Datetime    time.Time `json:"datetime"`
	Service     string    `json:"service"`
	Cost        float64   `json:"cost"`
	Paid        float64   `json:"paid"`
	Status      string    `json:"status"`
	ClinicID    string    `json:"clinicId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DeriveAppointmentStatus maps a paid amount against cost:
// paid >= cost is paid (a free appointment owes nothing), 0 < paid < cost
// is partial, anything else unpaid.
func DeriveAppointmentStatus(paid, cost float64) string {
	switch {
	case paid >= cost:
		return AppointmentStatusPaid
	case paid > 0:
		return AppointmentStatusPartial
	default:
		return AppointmentStatusUnpaid
	}
}
