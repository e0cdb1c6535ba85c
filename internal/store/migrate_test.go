package store

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"clinic-sync-backend/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Path:                 filepath.Join(t.TempDir(), "clinic.json"),
		ClinicName:           "Alexandria",
		BranchName:           "Shubrakhit",
		StartingCode:         1000,
		DefaultAdminPassword: "admin",
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestMigrateLegacyDocument(t *testing.T) {
	cfg := testConfig(t)

	// A document from before multi-clinic support: no clinics, no users,
	// records without clinic ids or patient codes.
	legacy := entity.ClinicDocument{
		Patients: []entity.Patient{
			{ID: "p1", Name: "Old Patient"},
			{ID: "p2", Name: "Coded Patient", PatientCode: 1400},
		},
		Appointments: []entity.Appointment{
			{ID: "a1", PatientID: "p1"},
		},
		Finances: entity.Finances{
			Transactions: []entity.Transaction{{ID: "t1", Type: entity.TransactionTypeIncome, Amount: 10}},
		},
	}
	raw, err := json.Marshal(&legacy)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.Path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(cfg, quietLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load legacy document: %v", err)
	}

	clinics := s.GetClinics()
	if len(clinics) != 2 {
		t.Fatalf("clinics after migration = %d, want 2", len(clinics))
	}
	if clinics[0].ID != entity.ClinicIDDefault || clinics[1].ID != entity.ClinicIDBranch {
		t.Errorf("clinic ids = %s, %s", clinics[0].ID, clinics[1].ID)
	}

	users := s.GetUsers()
	if len(users) != 1 || users[0].Username != "admin" {
		t.Fatalf("default admin not seeded: %+v", users)
	}
	if len(users[0].AssignedClinics) != 2 {
		t.Errorf("admin assigned clinics = %v, want both", users[0].AssignedClinics)
	}

	for _, p := range s.GetPatients() {
		if p.ClinicID == "" {
			t.Errorf("patient %s missing clinic id after backfill", p.ID)
		}
		if p.PatientCode == 0 {
			t.Errorf("patient %s missing code after assignment", p.ID)
		}
	}

	// The counter must clear both the configured floor and the highest
	// existing code, so the next patient gets a fresh code.
	p, err := s.UpsertPatient("tester", entity.Patient{Name: "Fresh"})
	if err != nil {
		t.Fatal(err)
	}
	if p.PatientCode <= 1400 {
		t.Errorf("new code %d not above existing max 1400", p.PatientCode)
	}
}

func TestMigrateRepairsBranchByName(t *testing.T) {
	cfg := testConfig(t)

	// The branch exists under the right name but a drifted id.
	doc := entity.ClinicDocument{
		Clinics: []entity.Clinic{
			{ID: entity.ClinicIDDefault, Name: "Alexandria", IsActive: true},
			{ID: "some-old-uuid", Name: "Shubrakhit", IsActive: true},
		},
	}
	raw, _ := json.Marshal(&doc)
	if err := os.WriteFile(cfg.Path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(cfg, quietLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	clinics := s.GetClinics()
	if len(clinics) != 2 {
		t.Fatalf("clinics = %d, want 2 (no duplicate branch)", len(clinics))
	}
	if clinics[1].ID != entity.ClinicIDBranch {
		t.Errorf("branch id = %q, want %q", clinics[1].ID, entity.ClinicIDBranch)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	doc, err := defaultDocument(cfg)
	if err != nil {
		t.Fatal(err)
	}

	changed, err := applyMigrations(doc, cfg, quietLogger())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	// The fresh default document has no branch clinic yet; the first run
	// may add it. The second run must be a no-op.
	_ = changed

	changed, err = applyMigrations(doc, cfg, quietLogger())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if changed {
		t.Error("second migration run reported changes")
	}
}
