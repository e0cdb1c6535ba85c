package usecase

import (
	"context"

	"clinic-sync-backend/internal/converter"
	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/domain/entity"
	"clinic-sync-backend/internal/store"

	"github.com/sirupsen/logrus"
)

type ClinicUsecase interface {
	ListClinics(ctx context.Context) ([]*dto.ClinicResponse, error)
	GetActiveClinic(ctx context.Context) (*dto.ClinicResponse, error)
	SetActiveClinic(ctx context.Context, clinicID string) (*dto.ClinicResponse, error)
	CreateClinic(ctx context.Context, actingUser string, req *dto.ClinicRequest) (*dto.ClinicResponse, error)
	UpdateClinic(ctx context.Context, actingUser, id string, req *dto.UpdateClinicRequest) (*dto.ClinicResponse, error)
	DeleteClinic(ctx context.Context, actingUser, id string) error
}

type clinicUsecase struct {
	store *store.Store
	log   *logrus.Logger
}

func NewClinicUsecase(st *store.Store, log *logrus.Logger) ClinicUsecase {
	return &clinicUsecase{store: st, log: log}
}

func (u *clinicUsecase) ListClinics(ctx context.Context) ([]*dto.ClinicResponse, error) {
	return converter.ClinicsToResponse(u.store.GetClinics()), nil
}

func (u *clinicUsecase) GetActiveClinic(ctx context.Context) (*dto.ClinicResponse, error) {
	clinic := u.store.GetActiveClinic()
	return converter.ClinicToResponse(&clinic), nil
}

func (u *clinicUsecase) SetActiveClinic(ctx context.Context, clinicID string) (*dto.ClinicResponse, error) {
	if err := u.store.SetActiveClinic(clinicID); err != nil {
		return nil, err
	}
	clinic := u.store.GetActiveClinic()
	return converter.ClinicToResponse(&clinic), nil
}

func (u *clinicUsecase) CreateClinic(ctx context.Context, actingUser string, req *dto.ClinicRequest) (*dto.ClinicResponse, error) {
	clinic := entity.Clinic{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}

	created, err := u.store.AddClinic(actingUser, clinic)
	if err != nil {
		u.log.Warnf("Failed to create clinic: %+v", err)
		return nil, err
	}
	return converter.ClinicToResponse(&created), nil
}

func (u *clinicUsecase) UpdateClinic(ctx context.Context, actingUser, id string, req *dto.UpdateClinicRequest) (*dto.ClinicResponse, error) {
	updated, err := u.store.UpdateClinic(actingUser, id, store.ClinicUpdate{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	})
	if err != nil {
		return nil, err
	}
	return converter.ClinicToResponse(&updated), nil
}

func (u *clinicUsecase) DeleteClinic(ctx context.Context, actingUser, id string) error {
	return u.store.DeleteClinic(actingUser, id)
}
