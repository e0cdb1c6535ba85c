package dto

import "time"

type AppointmentRequest struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id" validate:"required"`
	Datetime  time.Time `json:"datetime" validate:"required"`
	Service   string    `json:"service"`
	Cost      float64   `json:"cost" validate:"gte=0"`
	Paid      float64   `json:"paid" validate:"gte=0"`
	ClinicID  string    `json:"clinic_id"`
}

type AppointmentResponse struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Datetime    time.Time `json:"datetime"`
	Service     string    `json:"service"`
	Cost        float64   `json:"cost"`
	Paid        float64   `json:"paid"`
	Status      string    `json:"status"`
	ClinicID    string    `json:"clinic_id"`
	CreatedAt   time.Time `json:"created_at"`
}
