package entity

import (
	"encoding/json"
	"time"
)

// Settings is the process-wide singleton section of the document.
// LastSync and LastLocalUpdate drive the dual-timestamp reconciliation
// rule: a remote snapshot is applied only when its server timestamp is
// strictly newer than both.
type Settings struct {
	ClinicName      string    `json:"clinicName"`
	LastSync        time.Time `json:"lastSync,omitempty"`
	LastLocalUpdate time.Time `json:"lastLocalUpdate,omitempty"`
	LastPatientCode int       `json:"lastPatientCode"`
	ActiveClinicID  string    `json:"activeClinicId"`
}

// ClinicDocument is the canonical aggregate: the single JSON object
// holding all application state for one installation. It is the unit of
// local persistence, cloud push and backup.
type ClinicDocument struct {
	Clinics      []Clinic                  `json:"clinics"`
	Users        []User                    `json:"users"`
	AuditLog     []AuditEntry              `json:"auditLog"`
	Patients     []Patient                 `json:"patients"`
	PatientDocs  map[string][]DocumentMeta `json:"patientDocs"`
	Appointments []Appointment             `json:"appointments"`
	Queue        []QueueEntry              `json:"queue"`
	Finances     Finances                  `json:"finances"`
	Settings     Settings                  `json:"settings"`
}

// Clone returns a deep copy of the document via a JSON round trip, so
// callers can read or serialize it without racing live mutations.
func (d *ClinicDocument) Clone() (*ClinicDocument, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out ClinicDocument
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
