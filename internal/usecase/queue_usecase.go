package usecase

import (
	"context"

	"clinic-sync-backend/internal/converter"
	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/store"

	"github.com/sirupsen/logrus"
)

type QueueUsecase interface {
	GetActiveQueue(ctx context.Context) ([]*dto.QueueEntryResponse, error)
	GetCurrentPatient(ctx context.Context) (*dto.QueueEntryResponse, error)
	GetCompletedToday(ctx context.Context) ([]*dto.QueueEntryResponse, error)
	CheckIn(ctx context.Context, actingUser string, req *dto.CheckInRequest) (*dto.QueueEntryResponse, error)
	UpdateStatus(ctx context.Context, actingUser, id string, req *dto.UpdateQueueStatusRequest) (*dto.QueueEntryResponse, error)
	Remove(ctx context.Context, actingUser, id string) error
}

type queueUsecase struct {
	store *store.Store
	log   *logrus.Logger
}

func NewQueueUsecase(st *store.Store, log *logrus.Logger) QueueUsecase {
	return &queueUsecase{store: st, log: log}
}

func (u *queueUsecase) GetActiveQueue(ctx context.Context) ([]*dto.QueueEntryResponse, error) {
	entries := u.store.GetActiveQueue()
	out := converter.QueueEntriesToResponse(entries)
	for _, resp := range out {
		resp.EstimatedWaitMinutes = u.store.EstimatedWaitMinutes(resp.ID)
	}
	return out, nil
}

func (u *queueUsecase) GetCurrentPatient(ctx context.Context) (*dto.QueueEntryResponse, error) {
	entry, ok := u.store.GetCurrentQueuePatient()
	if !ok {
		return nil, nil
	}
	return converter.QueueEntryToResponse(&entry), nil
}

func (u *queueUsecase) GetCompletedToday(ctx context.Context) ([]*dto.QueueEntryResponse, error) {
	return converter.QueueEntriesToResponse(u.store.GetCompletedToday()), nil
}

func (u *queueUsecase) CheckIn(ctx context.Context, actingUser string, req *dto.CheckInRequest) (*dto.QueueEntryResponse, error) {
	entry, err := u.store.CheckIn(actingUser, req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to check in appointment %s: %+v", req.AppointmentID, err)
		return nil, err
	}
	return converter.QueueEntryToResponse(&entry), nil
}

func (u *queueUsecase) UpdateStatus(ctx context.Context, actingUser, id string, req *dto.UpdateQueueStatusRequest) (*dto.QueueEntryResponse, error) {
	entry, err := u.store.UpdateQueueStatus(actingUser, id, req.Status)
	if err != nil {
		u.log.Warnf("Failed to update queue entry %s: %+v", id, err)
		return nil, err
	}
	return converter.QueueEntryToResponse(&entry), nil
}

func (u *queueUsecase) Remove(ctx context.Context, actingUser, id string) error {
	return u.store.RemoveFromQueue(actingUser, id)
}
