package store

import (
	"fmt"
	"time"

	"clinic-sync-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// GetClinics returns a copy of all clinics.
func (s *Store) GetClinics() []entity.Clinic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Clinic(nil), s.doc.Clinics...)
}

// GetActiveClinic returns the clinic selected in settings, falling back
// to the first clinic when the selection is stale.
func (s *Store) GetActiveClinic() entity.Clinic {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := findClinic(s.doc, s.doc.Settings.ActiveClinicID); c != nil {
		return *c
	}
	return s.doc.Clinics[0]
}

// SetActiveClinic switches the active clinic.
func (s *Store) SetActiveClinic(clinicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if findClinic(s.doc, clinicID) == nil {
		return ErrClinicNotFound
	}
	s.doc.Settings.ActiveClinicID = clinicID
	return s.saveLocalLocked()
}

// AddClinic creates a clinic with default settings.
func (s *Store) AddClinic(actingUser string, clinic entity.Clinic) (entity.Clinic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clinic.ID = uuid.New().String()
	clinic.IsActive = true
	clinic.CreatedAt = time.Now()
	if clinic.Settings == (entity.ClinicSettings{}) {
		clinic.Settings = entity.DefaultClinicSettings()
	}
	s.doc.Clinics = append(s.doc.Clinics, clinic)

	s.logActionLocked(actingUser, entity.AuditActionClinicCreate,
		fmt.Sprintf("Added clinic %s", clinic.Name))
	if err := s.saveLocalLocked(); err != nil {
		return entity.Clinic{}, err
	}
	return clinic, nil
}

// ClinicUpdate carries the editable clinic fields.
type ClinicUpdate struct {
	Name     string
	Address  string
	Phone    string
	IsActive *bool
}

// UpdateClinic edits a clinic.
func (s *Store) UpdateClinic(actingUser, id string, update ClinicUpdate) (entity.Clinic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clinic := findClinic(s.doc, id)
	if clinic == nil {
		return entity.Clinic{}, ErrClinicNotFound
	}

	if update.Name != "" {
		clinic.Name = update.Name
	}
	if update.Address != "" {
		clinic.Address = update.Address
	}
	if update.Phone != "" {
		clinic.Phone = update.Phone
	}
	if update.IsActive != nil {
		clinic.IsActive = *update.IsActive
	}

	s.logActionLocked(actingUser, entity.AuditActionClinicUpdate,
		fmt.Sprintf("Updated clinic %s", clinic.Name))
	if err := s.saveLocalLocked(); err != nil {
		return entity.Clinic{}, err
	}
	return *clinic, nil
}

// DeleteClinic removes a clinic. The last clinic can never be deleted,
// and neither can a clinic that still owns patients, appointments or
// transactions; the operator must migrate that data first.
func (s *Store) DeleteClinic(actingUser, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clinic := findClinic(s.doc, id)
	if clinic == nil {
		return ErrClinicNotFound
	}
	if len(s.doc.Clinics) <= 1 {
		return ErrLastClinic
	}

	for _, p := range s.doc.Patients {
		if p.ClinicID == id {
			return ErrClinicHasData
		}
	}
	for _, a := range s.doc.Appointments {
		if a.ClinicID == id {
			return ErrClinicHasData
		}
	}
	for _, t := range s.doc.Finances.Transactions {
		if t.ClinicID == id {
			return ErrClinicHasData
		}
	}

	name := clinic.Name
	clinics := s.doc.Clinics[:0]
	for _, c := range s.doc.Clinics {
		if c.ID != id {
			clinics = append(clinics, c)
		}
	}
	s.doc.Clinics = clinics

	if s.doc.Settings.ActiveClinicID == id {
		s.doc.Settings.ActiveClinicID = s.doc.Clinics[0].ID
	}

	s.logActionLocked(actingUser, entity.AuditActionClinicDelete,
		fmt.Sprintf("Deleted clinic %s", name))
	return s.saveLocalLocked()
}
