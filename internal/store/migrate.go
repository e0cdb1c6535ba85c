package store

import (
	"time"

	"clinic-sync-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// migration is one idempotent repair step. Each step must be safe to run
// on already-migrated documents and reports whether it changed anything.
type migration struct {
	name string
	run  func(doc *entity.ClinicDocument, cfg Config) (bool, error)
}

// The chain runs in order on every load. Ordering matters: clinic repair
// precedes clinicId backfill, and the counter floor precedes code
// assignment.
var migrations = []migration{
	{"baseline-clinics", migrateBaselineClinics},
	{"clinic-id-backfill", migrateClinicIDBackfill},
	{"patient-code-floor", migratePatientCodeFloor},
	{"default-users", migrateDefaultUsers},
	{"audit-log", migrateAuditLog},
	{"patient-docs", migratePatientDocs},
	{"queue", migrateQueue},
	{"assign-patient-codes", migrateAssignPatientCodes},
}

func applyMigrations(doc *entity.ClinicDocument, cfg Config, log *logrus.Logger) (bool, error) {
	changed := false
	for _, m := range migrations {
		c, err := m.run(doc, cfg)
		if err != nil {
			return changed, err
		}
		if c {
			log.Infof("Migration %q repaired the local document", m.name)
			changed = true
		}
	}
	return changed, nil
}

// migrateBaselineClinics guarantees the two expected clinics exist with
// their well-known ids. A clinic found under the right name but the
// wrong id gets its id fixed rather than duplicated.
func migrateBaselineClinics(doc *entity.ClinicDocument, cfg Config) (bool, error) {
	changed := false

	if len(doc.Clinics) == 0 {
		doc.Clinics = []entity.Clinic{
			newBaselineClinic(entity.ClinicIDDefault, cfg.ClinicName),
			newBaselineClinic(entity.ClinicIDBranch, cfg.BranchName),
		}
		return true, nil
	}

	if c := findClinic(doc, entity.ClinicIDDefault); c != nil {
		if c.Name != cfg.ClinicName {
			c.Name = cfg.ClinicName
			changed = true
		}
	}

	branch := findClinic(doc, entity.ClinicIDBranch)
	if branch == nil {
		// Match by name before creating, in case the id drifted.
		for i := range doc.Clinics {
			if doc.Clinics[i].Name == cfg.BranchName {
				branch = &doc.Clinics[i]
				break
			}
		}
		if branch != nil {
			branch.ID = entity.ClinicIDBranch
			changed = true
		} else {
			doc.Clinics = append(doc.Clinics, newBaselineClinic(entity.ClinicIDBranch, cfg.BranchName))
			changed = true
		}
	} else if branch.Name != cfg.BranchName {
		branch.Name = cfg.BranchName
		changed = true
	}

	return changed, nil
}

// migrateClinicIDBackfill assigns the active clinic to any record that
// predates multi-clinic support.
func migrateClinicIDBackfill(doc *entity.ClinicDocument, cfg Config) (bool, error) {
	changed := false
	fallback := doc.Settings.ActiveClinicID
	if fallback == "" {
		fallback = entity.ClinicIDDefault
	}

	for i := range doc.Patients {
		if doc.Patients[i].ClinicID == "" {
			doc.Patients[i].ClinicID = fallback
			changed = true
		}
	}
	for i := range doc.Appointments {
		if doc.Appointments[i].ClinicID == "" {
			doc.Appointments[i].ClinicID = fallback
			changed = true
		}
	}
	for i := range doc.Finances.Transactions {
		if doc.Finances.Transactions[i].ClinicID == "" {
			doc.Finances.Transactions[i].ClinicID = fallback
			changed = true
		}
	}

	if doc.Settings.ActiveClinicID == "" {
		doc.Settings.ActiveClinicID = fallback
		changed = true
	}
	return changed, nil
}

// migratePatientCodeFloor raises the counter to the configured starting
// code and above any code already in use, so assignment stays strictly
// increasing even across imports.
func migratePatientCodeFloor(doc *entity.ClinicDocument, cfg Config) (bool, error) {
	changed := false
	if doc.Settings.LastPatientCode < cfg.StartingCode {
		doc.Settings.LastPatientCode = cfg.StartingCode
		changed = true
	}
	for i := range doc.Patients {
		if doc.Patients[i].PatientCode > doc.Settings.LastPatientCode {
			doc.Settings.LastPatientCode = doc.Patients[i].PatientCode
			changed = true
		}
	}
	return changed, nil
}

// migrateDefaultUsers guarantees a users collection with at least the
// default admin and backfills clinic assignments on legacy accounts.
func migrateDefaultUsers(doc *entity.ClinicDocument, cfg Config) (bool, error) {
	if len(doc.Users) == 0 {
		admin, err := defaultAdmin(cfg, clinicIDs(doc))
		if err != nil {
			return false, err
		}
		doc.Users = []entity.User{admin}
		return true, nil
	}

	changed := false
	ids := clinicIDs(doc)
	for i := range doc.Users {
		if len(doc.Users[i].AssignedClinics) == 0 {
			doc.Users[i].AssignedClinics = append([]string(nil), ids...)
			changed = true
		}
		if doc.Users[i].DefaultClinic == "" {
			doc.Users[i].DefaultClinic = entity.ClinicIDDefault
			changed = true
		}
	}
	return changed, nil
}

func migrateAuditLog(doc *entity.ClinicDocument, cfg Config) (bool, error) {
	if doc.AuditLog == nil {
		doc.AuditLog = []entity.AuditEntry{}
		return true, nil
	}
	return false, nil
}

func migratePatientDocs(doc *entity.ClinicDocument, cfg Config) (bool, error) {
	if doc.PatientDocs == nil {
		doc.PatientDocs = map[string][]entity.DocumentMeta{}
		return true, nil
	}
	return false, nil
}

func migrateQueue(doc *entity.ClinicDocument, cfg Config) (bool, error) {
	if doc.Queue == nil {
		doc.Queue = []entity.QueueEntry{}
		return true, nil
	}
	return false, nil
}

// migrateAssignPatientCodes gives a code to any patient missing one,
// advancing the global counter for each.
func migrateAssignPatientCodes(doc *entity.ClinicDocument, cfg Config) (bool, error) {
	changed := false
	for i := range doc.Patients {
		if doc.Patients[i].PatientCode == 0 {
			doc.Settings.LastPatientCode++
			doc.Patients[i].PatientCode = doc.Settings.LastPatientCode
			changed = true
		}
	}
	return changed, nil
}

// defaultDocument builds the state of a fresh installation: the primary
// clinic, one admin account, empty collections.
func defaultDocument(cfg Config) (*entity.ClinicDocument, error) {
	clinic := newBaselineClinic(entity.ClinicIDDefault, cfg.ClinicName)
	admin, err := defaultAdmin(cfg, []string{clinic.ID})
	if err != nil {
		return nil, err
	}

	return &entity.ClinicDocument{
		Clinics:      []entity.Clinic{clinic},
		Users:        []entity.User{admin},
		AuditLog:     []entity.AuditEntry{},
		Patients:     []entity.Patient{},
		PatientDocs:  map[string][]entity.DocumentMeta{},
		Appointments: []entity.Appointment{},
		Queue:        []entity.QueueEntry{},
		Finances: entity.Finances{
			Transactions: []entity.Transaction{},
			Ledger:       map[string]entity.LedgerEntry{},
		},
		Settings: entity.Settings{
			ClinicName:      cfg.ClinicName,
			LastPatientCode: cfg.StartingCode,
			ActiveClinicID:  clinic.ID,
		},
	}, nil
}

func defaultAdmin(cfg Config, assigned []string) (entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return entity.User{}, err
	}
	return entity.User{
		ID:              uuid.New().String(),
		Username:        "admin",
		Password:        string(hash),
		Role:            entity.RoleAdmin,
		Name:            "Administrator",
		AssignedClinics: append([]string(nil), assigned...),
		DefaultClinic:   entity.ClinicIDDefault,
	}, nil
}

func newBaselineClinic(id, name string) entity.Clinic {
	return entity.Clinic{
		ID:        id,
		Name:      name,
		IsActive:  true,
		CreatedAt: time.Now(),
		Settings:  entity.DefaultClinicSettings(),
	}
}

func clinicIDs(doc *entity.ClinicDocument) []string {
	ids := make([]string, 0, len(doc.Clinics))
	for _, c := range doc.Clinics {
		ids = append(ids, c.ID)
	}
	return ids
}

func findClinic(doc *entity.ClinicDocument, id string) *entity.Clinic {
	for i := range doc.Clinics {
		if doc.Clinics[i].ID == id {
			return &doc.Clinics[i]
		}
	}
	return nil
}
