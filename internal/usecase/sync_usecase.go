package usecase

import (
	"context"

	"clinic-sync-backend/internal/converter"
	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/service"
	"clinic-sync-backend/internal/store"

	"github.com/sirupsen/logrus"
)

type SyncUsecase interface {
	GetStatus(ctx context.Context) (*dto.SyncStatusResponse, error)
	TriggerSync(ctx context.Context) (*dto.SyncResultResponse, error)
	PullFromCloud(ctx context.Context) (*dto.SyncResultResponse, error)
	GetAuditLog(ctx context.Context) ([]*dto.AuditEntryResponse, error)
}

type syncUsecase struct {
	store       *store.Store
	syncService *service.CloudSyncService
	log         *logrus.Logger
}

func NewSyncUsecase(st *store.Store, syncService *service.CloudSyncService, log *logrus.Logger) SyncUsecase {
	return &syncUsecase{store: st, syncService: syncService, log: log}
}

func (u *syncUsecase) GetStatus(ctx context.Context) (*dto.SyncStatusResponse, error) {
	status, latency := u.syncService.Status()
	lastSync, lastLocalUpdate := u.store.Times()
	return &dto.SyncStatusResponse{
		Status:          status,
		LastSync:        lastSync,
		LastLocalUpdate: lastLocalUpdate,
		LatencyMS:       latency.Milliseconds(),
	}, nil
}

func (u *syncUsecase) TriggerSync(ctx context.Context) (*dto.SyncResultResponse, error) {
	synced := u.syncService.TriggerCloudSync(ctx)
	return &dto.SyncResultResponse{Synced: synced}, nil
}

func (u *syncUsecase) PullFromCloud(ctx context.Context) (*dto.SyncResultResponse, error) {
	pulled, err := u.syncService.PullFromCloud(ctx)
	if err != nil {
		u.log.Warnf("Manual cloud pull failed: %+v", err)
		return nil, err
	}
	return &dto.SyncResultResponse{Synced: pulled}, nil
}

func (u *syncUsecase) GetAuditLog(ctx context.Context) ([]*dto.AuditEntryResponse, error) {
	return converter.AuditEntriesToResponse(u.store.GetAuditLog()), nil
}
