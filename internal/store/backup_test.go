package store

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"clinic-sync-backend/internal/domain/entity"
)

func TestBackupRestoreRoundTrip(t *testing.T) {
	src := newTestStore(t)
	p, err := src.UpsertPatient("tester", entity.Patient{Name: "Laila", Age: 28})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	if _, err := src.UpsertAppointment("tester", entity.Appointment{
		PatientID: p.ID, Service: "whitening", Cost: 500, Paid: 500,
	}); err != nil {
		t.Fatalf("create appointment: %v", err)
	}

	backup, err := src.BackupJSON()
	if err != nil {
		t.Fatalf("export backup: %v", err)
	}
	if !json.Valid(backup) {
		t.Fatal("backup is not valid JSON")
	}

	dst := newTestStore(t)
	if err := dst.RestoreBackup("admin", backup); err != nil {
		t.Fatalf("restore backup: %v", err)
	}

	patients := dst.GetPatients()
	if len(patients) != 1 || patients[0].Name != "Laila" {
		t.Fatalf("restored patients = %+v", patients)
	}
	if appts := dst.GetAppointmentsByClinic(""); len(appts) != 1 {
		t.Errorf("restored appointments = %d, want 1", len(appts))
	}

	log := dst.GetAuditLog()
	if len(log) == 0 || log[0].Action != entity.AuditActionBackupRestore {
		t.Error("restore did not land at the head of the audit log")
	}

	// The restored state must win the next reconciliation round, so the
	// local-update stamp has to be fresh.
	_, lastLocalUpdate := dst.Times()
	if lastLocalUpdate.IsZero() {
		t.Error("restore did not stamp lastLocalUpdate")
	}
}

func TestRestoreBackupRejectsIncompletePayload(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.UpsertPatient("tester", entity.Patient{Name: "Keep Me"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "definitely not json"},
		{"wrong shape", `{"foo": 1}`},
		{"null collections", `{"patients": null, "users": null, "settings": null}`},
		{"missing users", `{"patients": [], "settings": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.RestoreBackup("admin", []byte(tt.payload))
			if err == nil {
				t.Fatal("restore accepted an invalid payload")
			}
			if tt.name != "not json" && !errors.Is(err, ErrInvalidBackup) {
				t.Errorf("err = %v, want ErrInvalidBackup", err)
			}
		})
	}

	// Current data stays untouched after every rejection.
	if len(s.GetPatients()) != 1 {
		t.Error("rejected restore still modified the document")
	}
}

func TestCSVExportImportRoundTrip(t *testing.T) {
	src := newTestStore(t)
	for _, name := range []string{"Amr", "Basma", "Chadi"} {
		if _, err := src.UpsertPatient("tester", entity.Patient{Name: name, Age: 40, Phone: "0100"}); err != nil {
			t.Fatal(err)
		}
	}

	data, err := src.ExportPatientsCSV()
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}
	if !strings.HasPrefix(string(data), utf8BOM) {
		t.Error("csv export missing UTF-8 BOM")
	}

	dst := newTestStore(t)
	added, err := dst.RestoreFromCSV("admin", data)
	if err != nil {
		t.Fatalf("import csv: %v", err)
	}
	if added != 3 {
		t.Fatalf("imported = %d, want 3", added)
	}

	// Re-importing the same file must skip every existing code.
	added, err = dst.RestoreFromCSV("admin", data)
	if err != nil {
		t.Fatalf("re-import csv: %v", err)
	}
	if added != 0 {
		t.Errorf("re-import added %d, want 0", added)
	}

	// Imported codes raise the counter so new patients never collide.
	p, err := dst.UpsertPatient("tester", entity.Patient{Name: "New After Import"})
	if err != nil {
		t.Fatal(err)
	}
	for _, existing := range dst.GetPatients() {
		if existing.ID != p.ID && existing.PatientCode == p.PatientCode {
			t.Errorf("new patient reused imported code %d", p.PatientCode)
		}
	}
}

func TestRestoreFromCSVRejectsGarbage(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.RestoreFromCSV("admin", []byte("code\n")); err == nil {
		t.Error("csv with no data rows was accepted")
	}
}
