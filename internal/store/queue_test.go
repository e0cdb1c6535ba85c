package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"clinic-sync-backend/internal/domain/entity"
)

func checkInPatient(t *testing.T, s *Store, name string) entity.QueueEntry {
	t.Helper()
	p, err := s.UpsertPatient("tester", entity.Patient{Name: name})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	appt, err := s.UpsertAppointment("tester", entity.Appointment{
		PatientID: p.ID, Service: "consultation", Cost: 100,
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	entry, err := s.CheckIn("tester", appt.ID)
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	return entry
}

func TestCheckInDenormalizesAndGuardsDuplicates(t *testing.T) {
	s := newTestStore(t)
	entry := checkInPatient(t, s, "Walid")

	if entry.Status != entity.QueueStatusWaiting {
		t.Errorf("status = %q, want waiting", entry.Status)
	}
	if entry.PatientName != "Walid" {
		t.Errorf("patient name = %q, want Walid", entry.PatientName)
	}
	if entry.PatientCode == 0 {
		t.Error("patient code not denormalized at check-in")
	}

	if _, err := s.CheckIn("tester", entry.AppointmentID); !errors.Is(err, ErrAlreadyInQueue) {
		t.Errorf("duplicate check-in err = %v, want ErrAlreadyInQueue", err)
	}

	// A completed entry no longer blocks a new check-in.
	if _, err := s.UpdateQueueStatus("tester", entry.ID, entity.QueueStatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := s.CheckIn("tester", entry.AppointmentID); err != nil {
		t.Errorf("check-in after completion failed: %v", err)
	}
}

func TestCheckInUnknownAppointment(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CheckIn("tester", "ghost"); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("err = %v, want ErrAppointmentNotFound", err)
	}
}

func TestQueueStatusTransitions(t *testing.T) {
	s := newTestStore(t)
	first := checkInPatient(t, s, "Aisha")
	second := checkInPatient(t, s, "Bilal")

	started, err := s.UpdateQueueStatus("tester", first.ID, entity.QueueStatusInProgress)
	if err != nil {
		t.Fatalf("start first: %v", err)
	}
	if started.StartTime == nil {
		t.Error("in-progress did not stamp StartTime")
	}

	// Starting the next patient auto-completes the previous one.
	if _, err := s.UpdateQueueStatus("tester", second.ID, entity.QueueStatusInProgress); err != nil {
		t.Fatalf("start second: %v", err)
	}
	completed := s.GetCompletedToday()
	if len(completed) != 1 || completed[0].ID != first.ID {
		t.Fatalf("completed today = %+v, want the first entry", completed)
	}
	if completed[0].EndTime == nil {
		t.Error("auto-complete did not stamp EndTime")
	}

	current, ok := s.GetCurrentQueuePatient()
	if !ok || current.ID != second.ID {
		t.Errorf("current patient = %+v, want the second entry", current)
	}

	if _, err := s.UpdateQueueStatus("tester", second.ID, "done"); !errors.Is(err, ErrInvalidQueueStatus) {
		t.Errorf("bogus status err = %v, want ErrInvalidQueueStatus", err)
	}
	if _, err := s.UpdateQueueStatus("tester", "ghost", entity.QueueStatusCompleted); !errors.Is(err, ErrQueueEntryNotFound) {
		t.Errorf("unknown entry err = %v, want ErrQueueEntryNotFound", err)
	}
}

func TestActiveQueueOrderAndFiltering(t *testing.T) {
	s := newTestStore(t)
	a := checkInPatient(t, s, "One")
	b := checkInPatient(t, s, "Two")
	c := checkInPatient(t, s, "Three")

	if _, err := s.UpdateQueueStatus("tester", b.ID, entity.QueueStatusCancelled); err != nil {
		t.Fatal(err)
	}

	active := s.GetActiveQueue()
	if len(active) != 2 {
		t.Fatalf("active queue = %d entries, want 2", len(active))
	}
	if active[0].ID != a.ID || active[1].ID != c.ID {
		t.Errorf("active queue order = %s, %s; want check-in order", active[0].PatientName, active[1].PatientName)
	}
}

func TestEstimatedWaitByPosition(t *testing.T) {
	s := newTestStore(t)
	first := checkInPatient(t, s, "First")
	second := checkInPatient(t, s, "Second")
	third := checkInPatient(t, s, "Third")

	// With no consultation history the default average applies.
	if got := s.EstimatedWaitMinutes(first.ID); got != 0 {
		t.Errorf("wait for head of queue = %d, want 0", got)
	}
	if got := s.EstimatedWaitMinutes(second.ID); got != entity.DefaultConsultationMinutes {
		t.Errorf("wait for second = %d, want %d", got, entity.DefaultConsultationMinutes)
	}
	if got := s.EstimatedWaitMinutes(third.ID); got != 2*entity.DefaultConsultationMinutes {
		t.Errorf("wait for third = %d, want %d", got, 2*entity.DefaultConsultationMinutes)
	}

	// A patient under consultation waits zero regardless of position.
	if _, err := s.UpdateQueueStatus("tester", first.ID, entity.QueueStatusInProgress); err != nil {
		t.Fatal(err)
	}
	if got := s.EstimatedWaitMinutes(first.ID); got != 0 {
		t.Errorf("wait while in progress = %d, want 0", got)
	}

	// An entry not in the active queue waits zero.
	if got := s.EstimatedWaitMinutes("ghost"); got != 0 {
		t.Errorf("wait for unknown entry = %d, want 0", got)
	}
}

func TestAverageConsultationTimeFromHistory(t *testing.T) {
	s := newTestStore(t)
	waiting := checkInPatient(t, s, "Waiting A")
	queued := checkInPatient(t, s, "Waiting B")

	// Seed history: five 20-minute consultations completed earlier today.
	base := time.Now().Add(-3 * time.Hour)
	for i := 0; i < 5; i++ {
		start := base.Add(time.Duration(i) * 25 * time.Minute)
		end := start.Add(20 * time.Minute)
		s.doc.Queue = append(s.doc.Queue, entity.QueueEntry{
			ID:          fmt.Sprintf("history-%d", i),
			Status:      entity.QueueStatusCompleted,
			CheckInTime: start,
			StartTime:   &start,
			EndTime:     &end,
		})
	}

	if got := s.EstimatedWaitMinutes(queued.ID); got != 20 {
		t.Errorf("wait with 20-minute history = %d, want 20", got)
	}
	if got := s.EstimatedWaitMinutes(waiting.ID); got != 0 {
		t.Errorf("wait for head of queue = %d, want 0", got)
	}
}

func TestRemoveFromQueue(t *testing.T) {
	s := newTestStore(t)
	entry := checkInPatient(t, s, "Leaving")

	if err := s.RemoveFromQueue("tester", entry.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if active := s.GetActiveQueue(); len(active) != 0 {
		t.Errorf("queue after removal = %d entries, want 0", len(active))
	}
	if err := s.RemoveFromQueue("tester", entry.ID); !errors.Is(err, ErrQueueEntryNotFound) {
		t.Errorf("second removal err = %v, want ErrQueueEntryNotFound", err)
	}
}

func TestDeleteAppointmentDropsQueueEntry(t *testing.T) {
	s := newTestStore(t)
	entry := checkInPatient(t, s, "Cascade")

	if err := s.DeleteAppointment("tester", entry.AppointmentID); err != nil {
		t.Fatalf("delete appointment: %v", err)
	}
	if active := s.GetActiveQueue(); len(active) != 0 {
		t.Errorf("queue entry survived appointment delete: %+v", active)
	}
}
