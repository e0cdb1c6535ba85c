package entity

import "time"

// Well-known clinic ids. The primary clinic doubles as the migration
// fallback for records that predate multi-clinic support.
const (
	ClinicIDDefault = "clinic-default"
	ClinicIDBranch  = "clinic-branch"
)

// WorkingHours is the daily opening window of a clinic.
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ClinicSettings holds per-clinic display and scheduling preferences.
type ClinicSettings struct {
	Currency     string       `json:"currency"`
	Timezone     string       `json:"timezone"`
	WorkingHours WorkingHours `json:"workingHours"`
}

// Clinic is one physical location. At least one clinic always exists;
// the last remaining clinic can never be deleted.
type Clinic struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Address   string         `json:"address,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	IsActive  bool           `json:"isActive"`
	CreatedAt time.Time      `json:"createdAt"`
	Settings  ClinicSettings `json:"settings"`
}

// DefaultClinicSettings returns the settings applied to newly created clinics.
func DefaultClinicSettings() ClinicSettings {
	return ClinicSettings{
		Currency: "EGP",
		Timezone: "Africa/Cairo",
		WorkingHours: WorkingHours{
			Start: "09:00",
			End:   "21:00",
		},
	}
}
