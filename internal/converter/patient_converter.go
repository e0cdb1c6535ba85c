package converter

import (
	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	visits := make([]dto.VisitResponse, 0, len(patient.Visits))
	for _, v := range patient.Visits {
		visits = append(visits, dto.VisitResponse{
			ID:        v.ID,
			Date:      v.Date,
			Complaint: v.Complaint,
			Notes:     v.Notes,
		})
	}

	return &dto.PatientResponse{
		ID:          patient.ID,
		PatientCode: patient.PatientCode,
		Name:        patient.Name,
		Age:         patient.Age,
		Gender:      patient.Gender,
		Phone:       patient.Phone,
		Allergies:   patient.Allergies,
		Visits:      visits,
		ClinicID:    patient.ClinicID,
		CreatedAt:   patient.CreatedAt,
		LastUpdated: patient.LastUpdated,
	}
}

// PatientsToResponse converts a slice of Patient entities
func PatientsToResponse(patients []entity.Patient) []*dto.PatientResponse {
	out := make([]*dto.PatientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, PatientToResponse(&patients[i]))
	}
	return out
}

// VisitToResponse converts a Visit entity to VisitResponse DTO
func VisitToResponse(visit *entity.Visit) *dto.VisitResponse {
	if visit == nil {
		return nil
	}
	return &dto.VisitResponse{
		ID:        visit.ID,
		Date:      visit.Date,
		Complaint: visit.Complaint,
		Notes:     visit.Notes,
	}
}

// PatientDocToResponse converts a DocumentMeta entity to PatientDocResponse DTO
func PatientDocToResponse(meta *entity.DocumentMeta) *dto.PatientDocResponse {
	if meta == nil {
		return nil
	}
	return &dto.PatientDocResponse{
		ID:         meta.ID,
		Name:       meta.Name,
		Type:       meta.Type,
		Size:       meta.Size,
		UploadedAt: meta.UploadedAt,
	}
}

// PatientDocsToResponse converts a slice of DocumentMeta entities
func PatientDocsToResponse(metas []entity.DocumentMeta) []*dto.PatientDocResponse {
	out := make([]*dto.PatientDocResponse, 0, len(metas))
	for i := range metas {
		out = append(out, PatientDocToResponse(&metas[i]))
	}
	return out
}
