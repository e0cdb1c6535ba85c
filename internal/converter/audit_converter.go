package converter

import (
	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/domain/entity"
)

// AuditEntriesToResponse converts audit entries, preserving order.
func AuditEntriesToResponse(entries []entity.AuditEntry) []*dto.AuditEntryResponse {
	out := make([]*dto.AuditEntryResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		out = append(out, &dto.AuditEntryResponse{
			ID:        e.ID,
			Timestamp: e.Timestamp,
			User:      e.User,
			Action:    e.Action,
			Details:   e.Details,
		})
	}
	return out
}
