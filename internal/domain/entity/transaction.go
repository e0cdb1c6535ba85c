package entity

import "time"

// Transaction types.
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Transaction is one ledger movement. When AppointmentID is set the
// transaction mirrors that appointment's paid amount: exactly one such
// transaction exists per appointment and it is created, updated and
// deleted in lockstep with the appointment.
type Transaction struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	Description   string    `json:"description,omitempty"`
	Beneficiary   string    `json:"beneficiary,omitempty"`
	PatientID     string    `json:"patientId,omitempty"`
	AppointmentID string    `json:"appointmentId,omitempty"`
	ClinicID      string    `json:"clinicId"`
}

// LedgerEntry is a derived per-patient balance cache. It is never a
// source of truth and must be recomputable from appointments and
// transactions at any time.
type LedgerEntry struct {
	Balance     float64   `json:"balance"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Finances groups the transaction log with the derived ledger.
type Finances struct {
	Transactions []Transaction          `json:"transactions"`
	Ledger       map[string]LedgerEntry `json:"ledger"`
}
