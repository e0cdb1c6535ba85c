package dto

import "time"

type TransactionRequest struct {
	Type        string    `json:"type" validate:"required,oneof=income expense"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Beneficiary string    `json:"beneficiary"`
	PatientID   string    `json:"patient_id"`
	ClinicID    string    `json:"clinic_id"`
}

type TransactionResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	Description   string    `json:"description,omitempty"`
	Beneficiary   string    `json:"beneficiary,omitempty"`
	PatientID     string    `json:"patient_id,omitempty"`
	AppointmentID string    `json:"appointment_id,omitempty"`
	ClinicID      string    `json:"clinic_id"`
}

type LedgerEntryResponse struct {
	PatientID   string    `json:"patient_id"`
	Balance     float64   `json:"balance"`
	LastUpdated time.Time `json:"last_updated"`
}
