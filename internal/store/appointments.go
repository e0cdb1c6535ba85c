package store

import (
	"fmt"
	"time"

	"clinic-sync-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// GetAppointmentsByClinic filters appointments by clinic; an empty
// clinicID means the active clinic.
func (s *Store) GetAppointmentsByClinic(clinicID string) []entity.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if clinicID == "" {
		clinicID = s.doc.Settings.ActiveClinicID
	}
	var out []entity.Appointment
	for _, a := range s.doc.Appointments {
		if a.ClinicID == clinicID {
			out = append(out, a)
		}
	}
	return out
}

// UpsertAppointment creates or updates an appointment, re-derives its
// payment status, and keeps the linked income transaction in lockstep
// with the paid amount: one transaction per appointment, created when
// paid becomes positive, updated when it changes, removed when it drops
// to zero. The patient's ledger is recomputed afterwards.
func (s *Store) UpsertAppointment(actingUser string, appt entity.Appointment) (entity.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient := s.findPatientLocked(appt.PatientID)
	if patient == nil {
		return entity.Appointment{}, ErrPatientNotFound
	}

	appt.Status = entity.DeriveAppointmentStatus(appt.Paid, appt.Cost)

	var stored *entity.Appointment
	if appt.ID != "" {
		for i := range s.doc.Appointments {
			if s.doc.Appointments[i].ID == appt.ID {
				existing := &s.doc.Appointments[i]
				existing.Datetime = appt.Datetime
				existing.Service = appt.Service
				existing.Cost = appt.Cost
				existing.Paid = appt.Paid
				existing.Status = appt.Status
				stored = existing
				break
			}
		}
		if stored == nil {
			return entity.Appointment{}, ErrAppointmentNotFound
		}
		s.logActionLocked(actingUser, entity.AuditActionAppointmentUpdate,
			fmt.Sprintf("Updated appointment for %s (%s)", patient.Name, stored.Service))
	} else {
		appt.ID = uuid.New().String()
		appt.PatientName = patient.Name
		appt.CreatedAt = time.Now()
		if appt.ClinicID == "" {
			appt.ClinicID = s.doc.Settings.ActiveClinicID
		}
		s.doc.Appointments = append(s.doc.Appointments, appt)
		stored = &s.doc.Appointments[len(s.doc.Appointments)-1]
		s.logActionLocked(actingUser, entity.AuditActionAppointmentCreate,
			fmt.Sprintf("Booked appointment for %s (%s)", patient.Name, appt.Service))
	}

	s.syncLinkedTransactionLocked(stored)
	s.recalculateLedgerLocked(stored.PatientID)

	if err := s.saveLocalLocked(); err != nil {
		return entity.Appointment{}, err
	}
	return *stored, nil
}

// DeleteAppointment removes an appointment and its linked transaction,
// then recomputes the patient's ledger.
func (s *Store) DeleteAppointment(actingUser, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.doc.Appointments {
		if s.doc.Appointments[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrAppointmentNotFound
	}
	appt := s.doc.Appointments[idx]
	s.doc.Appointments = append(s.doc.Appointments[:idx], s.doc.Appointments[idx+1:]...)

	transactions := s.doc.Finances.Transactions[:0]
	for _, t := range s.doc.Finances.Transactions {
		if t.AppointmentID != id {
			transactions = append(transactions, t)
		}
	}
	s.doc.Finances.Transactions = transactions

	queue := s.doc.Queue[:0]
	for _, q := range s.doc.Queue {
		if q.AppointmentID != id {
			queue = append(queue, q)
		}
	}
	s.doc.Queue = queue

	s.recalculateLedgerLocked(appt.PatientID)
	s.logActionLocked(actingUser, entity.AuditActionAppointmentDelete,
		fmt.Sprintf("Cancelled appointment for %s (%s)", appt.PatientName, appt.Service))
	return s.saveLocalLocked()
}

// syncLinkedTransactionLocked enforces the one-transaction-per-
// appointment rule against the appointment's current paid amount.
func (s *Store) syncLinkedTransactionLocked(appt *entity.Appointment) {
	idx := -1
	for i := range s.doc.Finances.Transactions {
		if s.doc.Finances.Transactions[i].AppointmentID == appt.ID {
			idx = i
			break
		}
	}

	switch {
	case appt.Paid > 0 && idx == -1:
		s.doc.Finances.Transactions = append(s.doc.Finances.Transactions, entity.Transaction{
			ID:            uuid.New().String(),
			Type:          entity.TransactionTypeIncome,
			Amount:        appt.Paid,
			Date:          time.Now(),
			Description:   fmt.Sprintf("Appointment payment: %s", appt.Service),
			PatientID:     appt.PatientID,
			AppointmentID: appt.ID,
			ClinicID:      appt.ClinicID,
		})
	case appt.Paid > 0 && idx >= 0:
		s.doc.Finances.Transactions[idx].Amount = appt.Paid
		s.doc.Finances.Transactions[idx].Description = fmt.Sprintf("Appointment payment: %s", appt.Service)
	case appt.Paid <= 0 && idx >= 0:
		s.doc.Finances.Transactions = append(
			s.doc.Finances.Transactions[:idx], s.doc.Finances.Transactions[idx+1:]...)
	}
}
