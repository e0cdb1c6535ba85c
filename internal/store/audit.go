package store

import (
	"time"

	"clinic-sync-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// logActionLocked prepends one audit entry (newest first) and trims the
// log to the cap. Callers must hold s.mu and follow with saveLocalLocked.
func (s *Store) logActionLocked(actingUser, action, details string) {
	if actingUser == "" {
		actingUser = entity.AuditUserSystem
	}
	entry := entity.AuditEntry{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		User:      actingUser,
		Action:    action,
		Details:   details,
	}
	s.doc.AuditLog = append([]entity.AuditEntry{entry}, s.doc.AuditLog...)
	if len(s.doc.AuditLog) > entity.MaxAuditEntries {
		s.doc.AuditLog = s.doc.AuditLog[:entity.MaxAuditEntries]
	}
}

// GetAuditLog returns a copy of the audit trail, newest first.
func (s *Store) GetAuditLog() []entity.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.AuditEntry(nil), s.doc.AuditLog...)
}
