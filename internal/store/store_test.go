package store

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"clinic-sync-backend/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	s := New(Config{
		Path:                 filepath.Join(t.TempDir(), "clinic.json"),
		ClinicName:           "Alexandria",
		BranchName:           "Shubrakhit",
		StartingCode:         1000,
		DefaultAdminPassword: "admin",
	}, log)
	if err := s.Load(); err != nil {
		t.Fatalf("load store: %v", err)
	}
	return s
}

func TestLoadSeedsDefaultDocument(t *testing.T) {
	s := newTestStore(t)

	clinics := s.GetClinics()
	if len(clinics) != 1 {
		t.Fatalf("expected 1 seeded clinic, got %d", len(clinics))
	}
	if clinics[0].ID != entity.ClinicIDDefault {
		t.Errorf("seeded clinic id = %q, want %q", clinics[0].ID, entity.ClinicIDDefault)
	}
	if clinics[0].Name != "Alexandria" {
		t.Errorf("seeded clinic name = %q, want Alexandria", clinics[0].Name)
	}

	users := s.GetUsers()
	if len(users) != 1 {
		t.Fatalf("expected 1 seeded user, got %d", len(users))
	}
	admin := users[0]
	if admin.Username != "admin" || admin.Role != entity.RoleAdmin {
		t.Errorf("seeded user = %s/%s, want admin/admin", admin.Username, admin.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("admin")); err != nil {
		t.Error("seeded admin password is not a bcrypt hash of the default password")
	}
}

func TestPatientCodesStrictlyIncreasing(t *testing.T) {
	s := newTestStore(t)

	var codes []int
	var ids []string
	for i := 0; i < 3; i++ {
		p, err := s.UpsertPatient("tester", entity.Patient{Name: fmt.Sprintf("Patient %d", i)})
		if err != nil {
			t.Fatalf("create patient: %v", err)
		}
		codes = append(codes, p.PatientCode)
		ids = append(ids, p.ID)
	}
	if codes[0] != 1001 || codes[1] != 1002 || codes[2] != 1003 {
		t.Fatalf("codes = %v, want [1001 1002 1003]", codes)
	}

	// Deleting a patient must not free its code for reuse.
	if err := s.DeletePatient("tester", ids[1]); err != nil {
		t.Fatalf("delete patient: %v", err)
	}
	p, err := s.UpsertPatient("tester", entity.Patient{Name: "Latecomer"})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	if p.PatientCode != 1004 {
		t.Errorf("code after delete = %d, want 1004", p.PatientCode)
	}
}

func TestUpsertPatientPreservesIdentityFields(t *testing.T) {
	s := newTestStore(t)

	created, err := s.UpsertPatient("tester", entity.Patient{Name: "Mona", Age: 30})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	if _, err := s.AddVisit("tester", created.ID, entity.Visit{Complaint: "headache"}); err != nil {
		t.Fatalf("add visit: %v", err)
	}

	updated, err := s.UpsertPatient("tester", entity.Patient{
		ID:   created.ID,
		Name: "Mona Hassan",
		Age:  31,
		// Attempting to smuggle a different code must be ignored.
		PatientCode: 9999,
	})
	if err != nil {
		t.Fatalf("update patient: %v", err)
	}

	if updated.PatientCode != created.PatientCode {
		t.Errorf("update changed patient code from %d to %d", created.PatientCode, updated.PatientCode)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("update changed createdAt")
	}
	if len(updated.Visits) != 1 {
		t.Errorf("update dropped visits, got %d", len(updated.Visits))
	}
	if updated.Name != "Mona Hassan" || updated.Age != 31 {
		t.Errorf("update did not apply editable fields: %+v", updated)
	}
}

func TestUpsertPatientUnknownID(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.UpsertPatient("tester", entity.Patient{ID: "nope", Name: "x"}); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("err = %v, want ErrPatientNotFound", err)
	}
}

func TestDeletePatientCascades(t *testing.T) {
	s := newTestStore(t)

	p, err := s.UpsertPatient("tester", entity.Patient{Name: "Karim"})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	if _, err := s.UpsertAppointment("tester", entity.Appointment{
		PatientID: p.ID, Service: "cleaning", Cost: 100, Paid: 50,
	}); err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	if _, err := s.AddTransaction("tester", entity.Transaction{
		Type: entity.TransactionTypeIncome, Amount: 25, PatientID: p.ID,
	}); err != nil {
		t.Fatalf("add transaction: %v", err)
	}
	if _, err := s.AddPatientDoc("tester", p.ID, entity.DocumentMeta{Name: "xray.png"}); err != nil {
		t.Fatalf("add document: %v", err)
	}

	if err := s.DeletePatient("tester", p.ID); err != nil {
		t.Fatalf("delete patient: %v", err)
	}

	if appts := s.GetAppointmentsByClinic(""); len(appts) != 0 {
		t.Errorf("appointments survived cascade: %d", len(appts))
	}
	if txs := s.GetTransactionsByClinic(""); len(txs) != 0 {
		t.Errorf("transactions survived cascade: %d", len(txs))
	}
	if _, ok := s.GetLedgerEntry(p.ID); ok {
		t.Error("ledger entry survived cascade")
	}
	if docs := s.GetPatientDocs(p.ID); len(docs) != 0 {
		t.Errorf("patient docs survived cascade: %d", len(docs))
	}
}

func TestLastAdminGuards(t *testing.T) {
	s := newTestStore(t)
	admin, err := s.FindUserByUsername("admin")
	if err != nil {
		t.Fatalf("find admin: %v", err)
	}

	if _, err := s.UpdateUser("admin", admin.ID, UserUpdate{Role: entity.RoleSecretary}); !errors.Is(err, ErrLastAdmin) {
		t.Errorf("demote last admin err = %v, want ErrLastAdmin", err)
	}
	if err := s.DeleteUser("admin", admin.ID); !errors.Is(err, ErrLastAdmin) {
		t.Errorf("delete last admin err = %v, want ErrLastAdmin", err)
	}

	// With a second admin in place both operations go through.
	second, err := s.AddUser("admin", entity.User{
		Username: "dr.salma", Name: "Salma", Role: entity.RoleAdmin,
	}, "secret")
	if err != nil {
		t.Fatalf("add second admin: %v", err)
	}
	if _, err := s.UpdateUser("admin", admin.ID, UserUpdate{Role: entity.RoleSecretary}); err != nil {
		t.Errorf("demote with second admin present: %v", err)
	}
	if err := s.DeleteUser("admin", second.ID); !errors.Is(err, ErrLastAdmin) {
		t.Errorf("second admin became last admin, delete err = %v, want ErrLastAdmin", err)
	}
}

func TestAddUserDuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddUser("admin", entity.User{Username: "admin", Name: "x", Role: entity.RoleDoctor}, "pw"); !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("err = %v, want ErrDuplicateUsername", err)
	}
}

func TestDeleteClinicGuards(t *testing.T) {
	s := newTestStore(t)
	only := s.GetClinics()[0]

	if err := s.DeleteClinic("admin", only.ID); !errors.Is(err, ErrLastClinic) {
		t.Fatalf("delete last clinic err = %v, want ErrLastClinic", err)
	}

	branch, err := s.AddClinic("admin", entity.Clinic{Name: "Shubrakhit"})
	if err != nil {
		t.Fatalf("add clinic: %v", err)
	}
	p, err := s.UpsertPatient("admin", entity.Patient{Name: "Omar", ClinicID: branch.ID})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}

	if err := s.DeleteClinic("admin", branch.ID); !errors.Is(err, ErrClinicHasData) {
		t.Fatalf("delete clinic with data err = %v, want ErrClinicHasData", err)
	}

	if err := s.DeletePatient("admin", p.ID); err != nil {
		t.Fatalf("delete patient: %v", err)
	}
	if err := s.DeleteClinic("admin", branch.ID); err != nil {
		t.Fatalf("delete emptied clinic: %v", err)
	}
	if len(s.GetClinics()) != 1 {
		t.Errorf("clinics after delete = %d, want 1", len(s.GetClinics()))
	}
}

func TestDeleteActiveClinicReassignsActive(t *testing.T) {
	s := newTestStore(t)
	branch, err := s.AddClinic("admin", entity.Clinic{Name: "Branch"})
	if err != nil {
		t.Fatalf("add clinic: %v", err)
	}
	if err := s.SetActiveClinic(branch.ID); err != nil {
		t.Fatalf("set active: %v", err)
	}
	if err := s.DeleteClinic("admin", branch.ID); err != nil {
		t.Fatalf("delete active clinic: %v", err)
	}
	if active := s.GetActiveClinic(); active.ID == branch.ID {
		t.Error("active clinic still points at the deleted clinic")
	}
}

func TestAuditLogCapAndOrder(t *testing.T) {
	s := newTestStore(t)

	total := entity.MaxAuditEntries + 10
	for i := 0; i < total; i++ {
		if _, err := s.AddTransaction("tester", entity.Transaction{
			Type: entity.TransactionTypeExpense, Amount: 1, Description: fmt.Sprintf("entry %d", i),
		}); err != nil {
			t.Fatalf("add transaction %d: %v", i, err)
		}
	}

	log := s.GetAuditLog()
	if len(log) != entity.MaxAuditEntries {
		t.Fatalf("audit log length = %d, want %d", len(log), entity.MaxAuditEntries)
	}
	// Newest first: the head must reference the last mutation.
	want := fmt.Sprintf("entry %d", total-1)
	if !strings.HasSuffix(log[0].Details, want) {
		t.Errorf("audit head = %q, want suffix %q", log[0].Details, want)
	}
	if log[0].User != "tester" {
		t.Errorf("audit user = %q, want tester", log[0].User)
	}
}

func TestReloadIfChangedIgnoresOwnWrites(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.UpsertPatient("tester", entity.Patient{Name: "Nour"}); err != nil {
		t.Fatalf("create patient: %v", err)
	}

	changed, err := s.ReloadIfChanged()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if changed {
		t.Error("reload adopted our own write")
	}
}

func TestReloadIfChangedAdoptsExternalWrite(t *testing.T) {
	s := newTestStore(t)

	// A second store sharing the same file plays the other process.
	log := logrus.New()
	log.SetOutput(io.Discard)
	other := New(s.cfg, log)
	if err := other.Load(); err != nil {
		t.Fatalf("load second store: %v", err)
	}
	if _, err := other.UpsertPatient("other", entity.Patient{Name: "External"}); err != nil {
		t.Fatalf("external write: %v", err)
	}

	changed, err := s.ReloadIfChanged()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !changed {
		t.Fatal("reload did not adopt the external write")
	}
	if len(s.GetPatients()) != 1 {
		t.Errorf("patients after reload = %d, want 1", len(s.GetPatients()))
	}
}
