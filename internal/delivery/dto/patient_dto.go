package dto

import "time"

type PatientRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name" validate:"required"`
	Age       int    `json:"age" validate:"gte=0,lte=150"`
	Gender    string `json:"gender" validate:"omitempty,oneof=male female"`
	Phone     string `json:"phone"`
	Allergies string `json:"allergies"`
	ClinicID  string `json:"clinic_id"`
}

type PatientResponse struct {
	ID          string          `json:"id"`
	PatientCode int             `json:"patient_code"`
	Name        string          `json:"name"`
	Age         int             `json:"age"`
	Gender      string          `json:"gender"`
	Phone       string          `json:"phone"`
	Allergies   string          `json:"allergies,omitempty"`
	Visits      []VisitResponse `json:"visits"`
	ClinicID    string          `json:"clinic_id"`
	CreatedAt   time.Time       `json:"created_at"`
	LastUpdated time.Time       `json:"last_updated,omitempty"`
}

type VisitRequest struct {
	Date      time.Time `json:"date"`
	Complaint string    `json:"complaint"`
	Notes     string    `json:"notes"`
}

type VisitResponse struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Complaint string    `json:"complaint,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

type PatientDocRequest struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type"`
	Size int64  `json:"size" validate:"gte=0"`
}

type PatientDocResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type,omitempty"`
	Size       int64     `json:"size,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type ImportResultResponse struct {
	Added int `json:"added"`
}
