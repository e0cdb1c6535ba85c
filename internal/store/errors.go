package store

import "errors"

// Guard violations are sentinel errors so callers can distinguish
// "blocked by invariant" from infrastructure failures.
var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrClinicNotFound      = errors.New("clinic not found")
	ErrDocumentNotFound    = errors.New("patient document not found")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrLastAdmin           = errors.New("cannot remove the last admin user")
	ErrLastClinic          = errors.New("cannot delete the last clinic")
	ErrClinicHasData       = errors.New("clinic still has patients, appointments or transactions")
	ErrQueueEntryNotFound  = errors.New("queue entry not found")
	ErrAlreadyInQueue      = errors.New("patient is already checked in")
	ErrInvalidQueueStatus  = errors.New("unknown queue status")
	ErrInvalidBackup       = errors.New("backup payload is missing required collections")
)
