package store

import (
	"encoding/json"
	"fmt"
	"os"

	"clinic-sync-backend/internal/domain/entity"
)

// backupPayload is the portable export shape: the full document plus the
// prescription-templates sidecar bundled under its own key.
type backupPayload struct {
	*entity.ClinicDocument
	PrescriptionTemplates json.RawMessage `json:"prescriptionTemplates,omitempty"`
}

// BackupJSON exports the full document as indented JSON. When a
// templates sidecar file exists its contents are bundled so a single
// backup file restores everything.
func (s *Store) BackupJSON() ([]byte, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	payload := backupPayload{ClinicDocument: doc}
	if s.cfg.TemplatesPath != "" {
		raw, err := os.ReadFile(s.cfg.TemplatesPath)
		if err == nil && json.Valid(raw) {
			payload.PrescriptionTemplates = raw
		} else if err != nil && !os.IsNotExist(err) {
			s.log.Warnf("Could not include templates in backup: %+v", err)
		}
	}

	return json.MarshalIndent(payload, "", "  ")
}

// RestoreBackup validates and applies a backup produced by BackupJSON.
// The current document is left untouched unless the payload carries the
// required collections. lastLocalUpdate is stamped on restore so the
// observer's dual-timestamp rule does not discard the restored state on
// its next tick.
func (s *Store) RestoreBackup(actingUser string, data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("parse backup: %w", err)
	}
	for _, key := range []string{"patients", "users", "settings"} {
		raw, ok := probe[key]
		if !ok || string(raw) == "null" {
			return ErrInvalidBackup
		}
	}

	var doc entity.ClinicDocument
	payload := backupPayload{ClinicDocument: &doc}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse backup: %w", err)
	}

	// Older backups may predate newer document sections; the migration
	// chain repairs them the same way a load would.
	if _, err := applyMigrations(&doc, s.cfg, s.log); err != nil {
		return fmt.Errorf("migrate backup: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &doc
	s.logActionLocked(actingUser, entity.AuditActionBackupRestore, "Restored document from backup file")
	if err := s.saveLocalLocked(); err != nil {
		return err
	}

	if len(payload.PrescriptionTemplates) > 0 && s.cfg.TemplatesPath != "" {
		if err := os.WriteFile(s.cfg.TemplatesPath, payload.PrescriptionTemplates, 0o644); err != nil {
			s.log.Warnf("Could not restore prescription templates: %+v", err)
		}
	}
	return nil
}
