package converter

import (
	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/domain/entity"
)

// QueueEntryToResponse converts a QueueEntry entity to QueueEntryResponse DTO
func QueueEntryToResponse(q *entity.QueueEntry) *dto.QueueEntryResponse {
	if q == nil {
		return nil
	}

	return &dto.QueueEntryResponse{
		ID:            q.ID,
		AppointmentID: q.AppointmentID,
		PatientName:   q.PatientName,
		PatientCode:   q.PatientCode,
		Status:        q.Status,
		CheckInTime:   q.CheckInTime,
		StartTime:     q.StartTime,
		EndTime:       q.EndTime,
	}
}

// QueueEntriesToResponse converts a slice of QueueEntry entities
func QueueEntriesToResponse(entries []entity.QueueEntry) []*dto.QueueEntryResponse {
	out := make([]*dto.QueueEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, QueueEntryToResponse(&entries[i]))
	}
	return out
}
