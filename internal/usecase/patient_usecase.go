package usecase

import (
	"context"
	"time"

	"clinic-sync-backend/internal/converter"
	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/domain/entity"
	"clinic-sync-backend/internal/store"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type PatientUsecase interface {
	ListPatients(ctx context.Context, clinicID string) ([]*dto.PatientResponse, error)
	GetPatient(ctx context.Context, id string) (*dto.PatientResponse, error)
	SavePatient(ctx context.Context, actingUser string, req *dto.PatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, actingUser, id string) error
	AddVisit(ctx context.Context, actingUser, patientID string, req *dto.VisitRequest) (*dto.VisitResponse, error)
	ListDocuments(ctx context.Context, patientID string) ([]*dto.PatientDocResponse, error)
	AddDocument(ctx context.Context, actingUser, patientID string, req *dto.PatientDocRequest) (*dto.PatientDocResponse, error)
	RemoveDocument(ctx context.Context, actingUser, patientID, docID string) error
	ExportCSV(ctx context.Context) ([]byte, error)
	ImportCSV(ctx context.Context, actingUser string, data []byte) (*dto.ImportResultResponse, error)
}

type patientUsecase struct {
	store *store.Store
	log   *logrus.Logger
}

func NewPatientUsecase(st *store.Store, log *logrus.Logger) PatientUsecase {
	return &patientUsecase{store: st, log: log}
}

func (u *patientUsecase) ListPatients(ctx context.Context, clinicID string) ([]*dto.PatientResponse, error) {
	return converter.PatientsToResponse(u.store.GetPatientsByClinic(clinicID)), nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id string) (*dto.PatientResponse, error) {
	patient, err := u.store.GetPatient(id)
	if err != nil {
		return nil, err
	}
	return converter.PatientToResponse(&patient), nil
}

func (u *patientUsecase) SavePatient(ctx context.Context, actingUser string, req *dto.PatientRequest) (*dto.PatientResponse, error) {
	patient := entity.Patient{
		ID:        req.ID,
		Name:      req.Name,
		Age:       req.Age,
		Gender:    req.Gender,
		Phone:     req.Phone,
		Allergies: req.Allergies,
		ClinicID:  req.ClinicID,
	}

	saved, err := u.store.UpsertPatient(actingUser, patient)
	if err != nil {
		u.log.Warnf("Failed to save patient: %+v", err)
		return nil, err
	}
	return converter.PatientToResponse(&saved), nil
}

func (u *patientUsecase) DeletePatient(ctx context.Context, actingUser, id string) error {
	return u.store.DeletePatient(actingUser, id)
}

func (u *patientUsecase) AddVisit(ctx context.Context, actingUser, patientID string, req *dto.VisitRequest) (*dto.VisitResponse, error) {
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}
	visit := entity.Visit{
		ID:        uuid.New().String(),
		Date:      date,
		Complaint: req.Complaint,
		Notes:     req.Notes,
	}

	added, err := u.store.AddVisit(actingUser, patientID, visit)
	if err != nil {
		return nil, err
	}
	return converter.VisitToResponse(&added), nil
}

func (u *patientUsecase) ListDocuments(ctx context.Context, patientID string) ([]*dto.PatientDocResponse, error) {
	return converter.PatientDocsToResponse(u.store.GetPatientDocs(patientID)), nil
}

func (u *patientUsecase) AddDocument(ctx context.Context, actingUser, patientID string, req *dto.PatientDocRequest) (*dto.PatientDocResponse, error) {
	meta := entity.DocumentMeta{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Type:       req.Type,
		Size:       req.Size,
		UploadedAt: time.Now(),
	}

	added, err := u.store.AddPatientDoc(actingUser, patientID, meta)
	if err != nil {
		return nil, err
	}
	return converter.PatientDocToResponse(&added), nil
}

func (u *patientUsecase) RemoveDocument(ctx context.Context, actingUser, patientID, docID string) error {
	return u.store.RemovePatientDoc(actingUser, patientID, docID)
}

func (u *patientUsecase) ExportCSV(ctx context.Context) ([]byte, error) {
	return u.store.ExportPatientsCSV()
}

func (u *patientUsecase) ImportCSV(ctx context.Context, actingUser string, data []byte) (*dto.ImportResultResponse, error) {
	added, err := u.store.RestoreFromCSV(actingUser, data)
	if err != nil {
		u.log.Warnf("CSV import failed: %+v", err)
		return nil, err
	}
	return &dto.ImportResultResponse{Added: added}, nil
}
