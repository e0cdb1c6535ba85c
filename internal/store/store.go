// Package store owns the canonical clinic document: the in-memory
// aggregate, its durable JSON mirror on disk, and load-time migration of
// legacy or partial documents.
//
// Every mutation goes through a Store method so that each change is
// audited, persisted synchronously, and followed by a (debounced) cloud
// push via the after-save hook. The UI layer never touches the document
// directly.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"clinic-sync-backend/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

// Config carries the store's file locations and seed values.
type Config struct {
	// Path of the on-disk JSON mirror.
	Path string
	// TemplatesPath of the prescription-templates sidecar bundled into backups.
	TemplatesPath string
	// ClinicName of the primary clinic seeded into fresh documents.
	ClinicName string
	// BranchName of the expected second clinic.
	BranchName string
	// StartingCode is the floor for the patient-code counter.
	StartingCode int
	// DefaultAdminPassword seeds the first admin account.
	DefaultAdminPassword string
}

// Store holds the canonical document. All access is serialized through
// one mutex; disk writes happen synchronously inside the mutation so the
// mirror can never lag the in-memory state.
type Store struct {
	mu  sync.Mutex
	cfg Config
	log *logrus.Logger
	doc *entity.ClinicDocument

	// afterSave is invoked after every local save; the sync layer
	// registers its debounced push trigger here.
	afterSave func()
}

// New creates a Store. Call Load before using it.
func New(cfg Config, log *logrus.Logger) *Store {
	return &Store{cfg: cfg, log: log}
}

// SetAfterSave registers the hook invoked after each local save.
func (s *Store) SetAfterSave(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.afterSave = fn
}

// Load reads the document from disk, creating the default document when
// none exists, and runs the migration chain on what it finds. If any
// migration step changed the document it is persisted immediately.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.cfg.Path)
	if os.IsNotExist(err) {
		doc, err := defaultDocument(s.cfg)
		if err != nil {
			return fmt.Errorf("seed default document: %w", err)
		}
		s.doc = doc
		s.log.Infof("No local document at %s, seeded default", s.cfg.Path)
		return s.persistLocked()
	}
	if err != nil {
		return fmt.Errorf("read local document: %w", err)
	}

	var doc entity.ClinicDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse local document: %w", err)
	}
	s.doc = &doc

	changed, err := applyMigrations(s.doc, s.cfg, s.log)
	if err != nil {
		return fmt.Errorf("migrate local document: %w", err)
	}
	if changed {
		return s.saveLocalLocked()
	}
	return nil
}

// Snapshot returns a deep copy of the document for read-only use.
func (s *Store) Snapshot() (*entity.ClinicDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Times returns the two local timestamps the reconciliation rule
// compares remote snapshots against.
func (s *Store) Times() (lastSync, lastLocalUpdate time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Settings.LastSync, s.doc.Settings.LastLocalUpdate
}

// BeginSync stamps lastSync and returns a deep copy to upload. Stamping
// happens before the network call so a concurrent observer read does not
// mistake the in-flight document for stale.
func (s *Store) BeginSync() (*entity.ClinicDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Settings.LastSync = time.Now()
	return s.doc.Clone()
}

// FinishSync re-stamps lastSync after a successful push and re-persists
// the mirror so the stamp survives a restart. The after-save hook is
// deliberately not invoked; a completed push must not schedule another.
func (s *Store) FinishSync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Settings.LastSync = time.Now()
	return s.persistLocked()
}

// ReplaceDocument swaps in an externally sourced document (remote
// snapshot or manual pull) and persists it as-is: no lastLocalUpdate
// stamp and no after-save hook, since the content did not originate here.
func (s *Store) ReplaceDocument(doc *entity.ClinicDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	return s.persistLocked()
}

// ReloadIfChanged re-reads the mirror and adopts it when it was written
// by another process. Same-device writers share the one mirror file, so
// no timestamp arbitration is needed; a write carrying our own
// timestamps is our own and is ignored.
func (s *Store) ReloadIfChanged() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		return false, fmt.Errorf("reload local document: %w", err)
	}
	var doc entity.ClinicDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, fmt.Errorf("parse local document: %w", err)
	}

	if doc.Settings.LastLocalUpdate.Equal(s.doc.Settings.LastLocalUpdate) &&
		doc.Settings.LastSync.Equal(s.doc.Settings.LastSync) {
		return false, nil
	}

	s.doc = &doc
	return true, nil
}

// saveLocalLocked is the tail of every mutation: stamp lastLocalUpdate,
// mirror to disk, then fire the after-save hook so the cloud push gets
// (re)scheduled. Callers must hold s.mu.
func (s *Store) saveLocalLocked() error {
	s.doc.Settings.LastLocalUpdate = time.Now()
	if err := s.persistLocked(); err != nil {
		return err
	}
	if s.afterSave != nil {
		s.afterSave()
	}
	return nil
}

// persistLocked writes the document to disk atomically (temp file plus
// rename) without stamping timestamps. Callers must hold s.mu.
func (s *Store) persistLocked() error {
	raw, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("serialize document: %w", err)
	}

	dir := filepath.Dir(s.cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".clinic-*.json")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.cfg.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace local document: %w", err)
	}
	return nil
}

// Path returns the location of the on-disk mirror.
func (s *Store) Path() string {
	return s.cfg.Path
}
