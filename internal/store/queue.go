package store

import (
	"fmt"
	"math"
	"sort"
	"time"

	"clinic-sync-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// CheckIn adds the appointment's patient to the daily queue. An
// appointment already waiting or in progress cannot be checked in twice;
// a completed or cancelled entry does not block a new check-in.
func (s *Store) CheckIn(actingUser, appointmentID string) (entity.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var appt *entity.Appointment
	for i := range s.doc.Appointments {
		if s.doc.Appointments[i].ID == appointmentID {
			appt = &s.doc.Appointments[i]
			break
		}
	}
	if appt == nil {
		return entity.QueueEntry{}, ErrAppointmentNotFound
	}

	for _, q := range s.doc.Queue {
		if q.AppointmentID == appointmentID &&
			q.Status != entity.QueueStatusCompleted && q.Status != entity.QueueStatusCancelled {
			return entity.QueueEntry{}, ErrAlreadyInQueue
		}
	}

	entry := entity.QueueEntry{
		ID:            uuid.New().String(),
		AppointmentID: appointmentID,
		PatientName:   appt.PatientName,
		Status:        entity.QueueStatusWaiting,
		CheckInTime:   time.Now(),
	}
	if p := s.findPatientLocked(appt.PatientID); p != nil {
		entry.PatientCode = p.PatientCode
	}
	s.doc.Queue = append(s.doc.Queue, entry)

	s.logActionLocked(actingUser, entity.AuditActionQueueCheckIn,
		fmt.Sprintf("Checked in %s (#%d)", entry.PatientName, entry.PatientCode))
	if err := s.saveLocalLocked(); err != nil {
		return entity.QueueEntry{}, err
	}
	return entry, nil
}

// UpdateQueueStatus moves one entry through the patient flow. Starting a
// consultation stamps StartTime and auto-completes any other in-progress
// entry; completing stamps EndTime.
func (s *Store) UpdateQueueStatus(actingUser, queueID, status string) (entity.QueueEntry, error) {
	if !entity.ValidQueueStatus(status) {
		return entity.QueueEntry{}, ErrInvalidQueueStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var entry *entity.QueueEntry
	for i := range s.doc.Queue {
		if s.doc.Queue[i].ID == queueID {
			entry = &s.doc.Queue[i]
			break
		}
	}
	if entry == nil {
		return entity.QueueEntry{}, ErrQueueEntryNotFound
	}

	now := time.Now()
	switch status {
	case entity.QueueStatusInProgress:
		entry.StartTime = &now
		for i := range s.doc.Queue {
			other := &s.doc.Queue[i]
			if other.ID != queueID && other.Status == entity.QueueStatusInProgress {
				other.Status = entity.QueueStatusCompleted
				other.EndTime = &now
			}
		}
	case entity.QueueStatusCompleted:
		entry.EndTime = &now
	}
	entry.Status = status

	s.logActionLocked(actingUser, entity.AuditActionQueueUpdate,
		fmt.Sprintf("Queue entry for %s is now %s", entry.PatientName, status))
	if err := s.saveLocalLocked(); err != nil {
		return entity.QueueEntry{}, err
	}
	return *entry, nil
}

// RemoveFromQueue deletes one entry outright.
func (s *Store) RemoveFromQueue(actingUser, queueID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, q := range s.doc.Queue {
		if q.ID != queueID {
			continue
		}
		s.doc.Queue = append(s.doc.Queue[:i], s.doc.Queue[i+1:]...)
		s.logActionLocked(actingUser, entity.AuditActionQueueRemove,
			fmt.Sprintf("Removed %s from the queue", q.PatientName))
		return s.saveLocalLocked()
	}
	return ErrQueueEntryNotFound
}

// GetActiveQueue returns today's waiting and in-progress entries in
// check-in order.
func (s *Store) GetActiveQueue() []entity.QueueEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeQueueLocked()
}

// GetCurrentQueuePatient returns the entry under consultation, if any.
func (s *Store) GetCurrentQueuePatient() (entity.QueueEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.doc.Queue {
		if q.Status == entity.QueueStatusInProgress {
			return q, true
		}
	}
	return entity.QueueEntry{}, false
}

// GetCompletedToday returns today's completed consultations.
func (s *Store) GetCompletedToday() []entity.QueueEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := startOfToday()
	var out []entity.QueueEntry
	for _, q := range s.doc.Queue {
		if q.Status == entity.QueueStatusCompleted && !q.CheckInTime.Before(start) {
			out = append(out, q)
		}
	}
	return out
}

// EstimatedWaitMinutes estimates the wait for one queue entry: its
// position in the active queue times the average consultation length.
// An entry already in progress, or not in the active queue, waits zero.
func (s *Store) EstimatedWaitMinutes(queueID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.activeQueueLocked()
	for i, q := range active {
		if q.ID != queueID {
			continue
		}
		if q.Status == entity.QueueStatusInProgress {
			return 0
		}
		return i * s.avgConsultationMinutesLocked()
	}
	return 0
}

func (s *Store) activeQueueLocked() []entity.QueueEntry {
	start := startOfToday()
	var out []entity.QueueEntry
	for _, q := range s.doc.Queue {
		if q.CheckInTime.Before(start) {
			continue
		}
		if q.Status == entity.QueueStatusCompleted || q.Status == entity.QueueStatusCancelled {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CheckInTime.Before(out[j].CheckInTime)
	})
	return out
}

// avgConsultationMinutesLocked averages completed consultation durations,
// excluding durations outside 2..60 minutes as outliers. Fewer than five
// completions keeps the default estimate.
func (s *Store) avgConsultationMinutesLocked() int {
	var completed []entity.QueueEntry
	for _, q := range s.doc.Queue {
		if q.Status == entity.QueueStatusCompleted && q.StartTime != nil && q.EndTime != nil {
			completed = append(completed, q)
		}
	}
	if len(completed) < 5 {
		return entity.DefaultConsultationMinutes
	}

	total := 0.0
	for _, c := range completed {
		d := c.EndTime.Sub(*c.StartTime).Minutes()
		if d > 2 && d < 60 {
			total += d
		}
	}

	avg := int(math.Round(total / float64(len(completed))))
	if avg == 0 {
		return entity.DefaultConsultationMinutes
	}
	return avg
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
