package usecase

import (
	"context"

	"clinic-sync-backend/internal/store"

	"github.com/sirupsen/logrus"
)

type BackupUsecase interface {
	ExportBackup(ctx context.Context) ([]byte, error)
	RestoreBackup(ctx context.Context, actingUser string, data []byte) error
}

type backupUsecase struct {
	store *store.Store
	log   *logrus.Logger
}

func NewBackupUsecase(st *store.Store, log *logrus.Logger) BackupUsecase {
	return &backupUsecase{store: st, log: log}
}

func (u *backupUsecase) ExportBackup(ctx context.Context) ([]byte, error) {
	return u.store.BackupJSON()
}

func (u *backupUsecase) RestoreBackup(ctx context.Context, actingUser string, data []byte) error {
	if err := u.store.RestoreBackup(actingUser, data); err != nil {
		u.log.Warnf("Backup restore failed: %+v", err)
		return err
	}
	return nil
}
