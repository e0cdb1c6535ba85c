package entity

import "time"

// MaxAuditEntries caps the audit log; the oldest entries are dropped.
const MaxAuditEntries = 1000

// AuditUserSystem is recorded when a mutation has no acting user.
const AuditUserSystem = "system"

// AuditEntry is one append-only audit record, newest first.
type AuditEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

// Audit actions.
const (
	AuditActionPatientCreate     = "patient.create"
	AuditActionPatientUpdate     = "patient.update"
	AuditActionPatientDelete     = "patient.delete"
	AuditActionPatientImport     = "patient.import"
	AuditActionVisitAdd          = "patient.visit"
	AuditActionDocumentAdd       = "patient.document.add"
	AuditActionDocumentRemove    = "patient.document.remove"
	AuditActionAppointmentCreate = "appointment.create"
	AuditActionAppointmentUpdate = "appointment.update"
	AuditActionAppointmentDelete = "appointment.delete"
	AuditActionIncomeAdd         = "finance.income"
	AuditActionExpenseAdd        = "finance.expense"
	AuditActionUserCreate        = "user.create"
	AuditActionUserUpdate        = "user.update"
	AuditActionUserDelete        = "user.delete"
	AuditActionPasswordChange    = "user.password"
	AuditActionQueueCheckIn      = "queue.checkin"
	AuditActionQueueUpdate       = "queue.update"
	AuditActionQueueRemove       = "queue.remove"
	AuditActionClinicCreate      = "clinic.create"
	AuditActionClinicUpdate      = "clinic.update"
	AuditActionClinicDelete      = "clinic.delete"
	AuditActionBackupRestore     = "backup.restore"
)
