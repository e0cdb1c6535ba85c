package entity

import "time"

// Queue entry statuses.
const (
	QueueStatusWaiting    = "waiting"
	QueueStatusInProgress = "in-progress"
	QueueStatusCompleted  = "completed"
	QueueStatusCancelled  = "cancelled"
)

// DefaultConsultationMinutes is the wait-time estimate used until enough
// completed consultations exist to compute a real average.
const DefaultConsultationMinutes = 15

// QueueEntry is one check-in in the daily patient flow. PatientName and
// PatientCode are denormalized from the appointment's patient at check-in
// time so waiting-room displays need no joins.
type QueueEntry struct {
	ID            string     `json:"id"`
	AppointmentID string     `json:"appointmentId"`
	PatientName   string     `json:"patientName"`
	PatientCode   int        `json:"patientCode"`
	Status        string     `json:"status"`
	CheckInTime   time.Time  `json:"checkInTime"`
	StartTime     *time.Time `json:"startTime,omitempty"`
	EndTime       *time.Time `json:"endTime,omitempty"`
}

// ValidQueueStatus reports whether s is one of the queue states.
func ValidQueueStatus(s string) bool {
	switch s {
	case QueueStatusWaiting, QueueStatusInProgress, QueueStatusCompleted, QueueStatusCancelled:
		return true
	}
	return false
}
