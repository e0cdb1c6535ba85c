package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"clinic-sync-backend/internal/domain/entity"

	"github.com/google/uuid"
)

var csvHeader = []string{"code", "name", "age", "phone", "gender", "registrationDate"}

// utf8BOM keeps spreadsheet tools happy with non-ASCII patient names.
const utf8BOM = "\uFEFF"

// ExportPatientsCSV renders all patients as a flat CSV file.
func (s *Store) ExportPatientsCSV() ([]byte, error) {
	patients := s.GetPatients()

	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, p := range patients {
		record := []string{
			strconv.Itoa(p.PatientCode),
			p.Name,
			strconv.Itoa(p.Age),
			p.Phone,
			p.Gender,
			p.CreatedAt.Format("2006-01-02"),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RestoreFromCSV merges exported patients back in, matching by patient
// code: existing codes are skipped, never overwritten. Returns the
// number of patients added.
func (s *Store) RestoreFromCSV(actingUser string, data []byte) (int, error) {
	text := strings.TrimPrefix(string(data), utf8BOM)
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return 0, fmt.Errorf("csv has no data rows")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[int]bool, len(s.doc.Patients))
	for _, p := range s.doc.Patients {
		existing[p.PatientCode] = true
	}

	added := 0
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		code, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil || code <= 0 || existing[code] {
			continue
		}

		patient := entity.Patient{
			ID:          uuid.New().String(),
			PatientCode: code,
			Name:        strings.TrimSpace(record[1]),
			Visits:      []entity.Visit{},
			ClinicID:    s.doc.Settings.ActiveClinicID,
			CreatedAt:   time.Now(),
		}
		if len(record) > 2 {
			patient.Age, _ = strconv.Atoi(strings.TrimSpace(record[2]))
		}
		if len(record) > 3 {
			patient.Phone = strings.TrimSpace(record[3])
		}
		if len(record) > 4 {
			patient.Gender = strings.TrimSpace(record[4])
		}
		if len(record) > 5 {
			if t, err := time.Parse("2006-01-02", strings.TrimSpace(record[5])); err == nil {
				patient.CreatedAt = t
			}
		}

		s.doc.Patients = append(s.doc.Patients, patient)
		existing[code] = true
		// Imported codes must never be handed out again.
		if code > s.doc.Settings.LastPatientCode {
			s.doc.Settings.LastPatientCode = code
		}
		added++
	}

	if added == 0 {
		return 0, nil
	}

	s.logActionLocked(actingUser, entity.AuditActionPatientImport,
		fmt.Sprintf("Imported %d patients from CSV", added))
	if err := s.saveLocalLocked(); err != nil {
		return 0, err
	}
	return added, nil
}
