package entity

import "time"

// Visit is one dated clinical note in a patient's history.
type Visit struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Complaint string    `json:"complaint,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// Patient is a clinic patient record. PatientCode is assigned once at
// creation from a global monotonically increasing counter and is never
// reused, even after deletion.
type Patient struct {
	ID          string    `json:"id"`
	PatientCode int       `json:"patientCode"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	Phone       string    `json:"phone"`
	Allergies   string    `json:"allergies,omitempty"`
	Visits      []Visit   `json:"visits"`
	ClinicID    string    `json:"clinicId"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated,omitempty"`
}

// DocumentMeta describes one uploaded patient document. Only metadata
// lives in the canonical document; the binary is stored elsewhere.
type DocumentMeta struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type,omitempty"`
	Size       int64     `json:"size,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}
