package usecase

import (
	"context"

	"clinic-sync-backend/internal/converter"
	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/domain/entity"
	"clinic-sync-backend/internal/store"

	"github.com/sirupsen/logrus"
)

type AppointmentUsecase interface {
	ListAppointments(ctx context.Context, clinicID string) ([]*dto.AppointmentResponse, error)
	SaveAppointment(ctx context.Context, actingUser string, req *dto.AppointmentRequest) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, actingUser, id string) error
}

type appointmentUsecase struct {
	store *store.Store
	log   *logrus.Logger
}

func NewAppointmentUsecase(st *store.Store, log *logrus.Logger) AppointmentUsecase {
	return &appointmentUsecase{store: st, log: log}
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, clinicID string) ([]*dto.AppointmentResponse, error) {
	return converter.AppointmentsToResponse(u.store.GetAppointmentsByClinic(clinicID)), nil
}

func (u *appointmentUsecase) SaveAppointment(ctx context.Context, actingUser string, req *dto.AppointmentRequest) (*dto.AppointmentResponse, error) {
	appt := entity.Appointment{
		ID:        req.ID,
		PatientID: req.PatientID,
		Datetime:  req.Datetime,
		Service:   req.Service,
		Cost:      req.Cost,
		Paid:      req.Paid,
		ClinicID:  req.ClinicID,
	}

	saved, err := u.store.UpsertAppointment(actingUser, appt)
	if err != nil {
		u.log.Warnf("Failed to save appointment: %+v", err)
		return nil, err
	}
	return converter.AppointmentToResponse(&saved), nil
}

func (u *appointmentUsecase) DeleteAppointment(ctx context.Context, actingUser, id string) error {
	return u.store.DeleteAppointment(actingUser, id)
}
