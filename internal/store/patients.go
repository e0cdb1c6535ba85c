package store

import (
	"fmt"
	"time"

	"clinic-sync-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// GetPatients returns a copy of all patients.
func (s *Store) GetPatients() []entity.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Patient(nil), s.doc.Patients...)
}

// GetPatientsByClinic filters patients by clinic; an empty clinicID
// means the active clinic.
func (s *Store) GetPatientsByClinic(clinicID string) []entity.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	if clinicID == "" {
		clinicID = s.doc.Settings.ActiveClinicID
	}
	var out []entity.Patient
	for _, p := range s.doc.Patients {
		if p.ClinicID == clinicID {
			out = append(out, p)
		}
	}
	return out
}

// GetPatient returns one patient by id.
func (s *Store) GetPatient(id string) (entity.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.doc.Patients {
		if p.ID == id {
			return p, nil
		}
	}
	return entity.Patient{}, ErrPatientNotFound
}

// UpsertPatient updates an existing patient (matched by id) or creates a
// new one. New patients receive the next patient code from the global
// counter; codes are strictly increasing and never reused.
func (s *Store) UpsertPatient(actingUser string, patient entity.Patient) (entity.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patient.ID != "" {
		for i := range s.doc.Patients {
			if s.doc.Patients[i].ID != patient.ID {
				continue
			}
			existing := &s.doc.Patients[i]
			oldName := existing.Name
			existing.Name = patient.Name
			existing.Age = patient.Age
			existing.Gender = patient.Gender
			existing.Phone = patient.Phone
			existing.Allergies = patient.Allergies
			if patient.ClinicID != "" {
				existing.ClinicID = patient.ClinicID
			}
			existing.LastUpdated = time.Now()

			s.logActionLocked(actingUser, entity.AuditActionPatientUpdate,
				fmt.Sprintf("Updated patient %s (%s)", oldName, existing.Name))
			if err := s.saveLocalLocked(); err != nil {
				return entity.Patient{}, err
			}
			return *existing, nil
		}
		return entity.Patient{}, ErrPatientNotFound
	}

	s.doc.Settings.LastPatientCode++
	created := entity.Patient{
		ID:          uuid.New().String(),
		PatientCode: s.doc.Settings.LastPatientCode,
		Name:        patient.Name,
		Age:         patient.Age,
		Gender:      patient.Gender,
		Phone:       patient.Phone,
		Allergies:   patient.Allergies,
		Visits:      []entity.Visit{},
		ClinicID:    patient.ClinicID,
		CreatedAt:   time.Now(),
	}
	if created.ClinicID == "" {
		created.ClinicID = s.doc.Settings.ActiveClinicID
	}
	s.doc.Patients = append(s.doc.Patients, created)

	s.logActionLocked(actingUser, entity.AuditActionPatientCreate,
		fmt.Sprintf("Added patient %s (#%d)", created.Name, created.PatientCode))
	if err := s.saveLocalLocked(); err != nil {
		return entity.Patient{}, err
	}
	return created, nil
}

// DeletePatient removes a patient together with every appointment,
// queue entry, transaction, ledger entry and document record
// referencing it. The
// cascade is applied in memory and persisted once, so the mirror never
// holds an intermediate state.
func (s *Store) DeletePatient(actingUser, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target *entity.Patient
	for i := range s.doc.Patients {
		if s.doc.Patients[i].ID == id {
			target = &s.doc.Patients[i]
			break
		}
	}
	if target == nil {
		return ErrPatientNotFound
	}

	s.logActionLocked(actingUser, entity.AuditActionPatientDelete,
		fmt.Sprintf("Deleted patient %s (#%d) and all linked records", target.Name, target.PatientCode))

	patients := s.doc.Patients[:0]
	for _, p := range s.doc.Patients {
		if p.ID != id {
			patients = append(patients, p)
		}
	}
	s.doc.Patients = patients

	removedAppointments := map[string]bool{}
	appointments := s.doc.Appointments[:0]
	for _, a := range s.doc.Appointments {
		if a.PatientID != id {
			appointments = append(appointments, a)
		} else {
			removedAppointments[a.ID] = true
		}
	}
	s.doc.Appointments = appointments

	queue := s.doc.Queue[:0]
	for _, q := range s.doc.Queue {
		if !removedAppointments[q.AppointmentID] {
			queue = append(queue, q)
		}
	}
	s.doc.Queue = queue

	transactions := s.doc.Finances.Transactions[:0]
	for _, t := range s.doc.Finances.Transactions {
		if t.PatientID != id {
			transactions = append(transactions, t)
		}
	}
	s.doc.Finances.Transactions = transactions

	delete(s.doc.Finances.Ledger, id)
	delete(s.doc.PatientDocs, id)

	return s.saveLocalLocked()
}

// AddVisit appends a clinical note to the patient's visit history.
func (s *Store) AddVisit(actingUser, patientID string, visit entity.Visit) (entity.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Patients {
		if s.doc.Patients[i].ID != patientID {
			continue
		}
		visit.ID = uuid.New().String()
		if visit.Date.IsZero() {
			visit.Date = time.Now()
		}
		s.doc.Patients[i].Visits = append(s.doc.Patients[i].Visits, visit)
		s.doc.Patients[i].LastUpdated = time.Now()

		s.logActionLocked(actingUser, entity.AuditActionVisitAdd,
			fmt.Sprintf("Recorded visit for patient %s", s.doc.Patients[i].Name))
		if err := s.saveLocalLocked(); err != nil {
			return entity.Visit{}, err
		}
		return visit, nil
	}
	return entity.Visit{}, ErrPatientNotFound
}

// GetPatientDocs lists document metadata recorded for a patient.
func (s *Store) GetPatientDocs(patientID string) []entity.DocumentMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.DocumentMeta(nil), s.doc.PatientDocs[patientID]...)
}

// AddPatientDoc records metadata for an uploaded patient document.
func (s *Store) AddPatientDoc(actingUser, patientID string, meta entity.DocumentMeta) (entity.DocumentMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient := s.findPatientLocked(patientID)
	if patient == nil {
		return entity.DocumentMeta{}, ErrPatientNotFound
	}

	meta.ID = uuid.New().String()
	if meta.UploadedAt.IsZero() {
		meta.UploadedAt = time.Now()
	}
	s.doc.PatientDocs[patientID] = append(s.doc.PatientDocs[patientID], meta)

	s.logActionLocked(actingUser, entity.AuditActionDocumentAdd,
		fmt.Sprintf("Attached document %q to patient %s", meta.Name, patient.Name))
	if err := s.saveLocalLocked(); err != nil {
		return entity.DocumentMeta{}, err
	}
	return meta, nil
}

// RemovePatientDoc deletes one document metadata record.
func (s *Store) RemovePatientDoc(actingUser, patientID, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.doc.PatientDocs[patientID]
	for i, d := range docs {
		if d.ID != docID {
			continue
		}
		s.doc.PatientDocs[patientID] = append(docs[:i], docs[i+1:]...)
		s.logActionLocked(actingUser, entity.AuditActionDocumentRemove,
			fmt.Sprintf("Removed document %q", d.Name))
		return s.saveLocalLocked()
	}
	return ErrDocumentNotFound
}

func (s *Store) findPatientLocked(id string) *entity.Patient {
	for i := range s.doc.Patients {
		if s.doc.Patients[i].ID == id {
			return &s.doc.Patients[i]
		}
	}
	return nil
}
