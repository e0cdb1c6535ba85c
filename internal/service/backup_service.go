package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"clinic-sync-backend/internal/store"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// BackupService writes scheduled JSON backups of the clinic document to
// a local directory and prunes old ones. Manual exports go through the
// HTTP handler; this covers the clinic that never remembers to click
// the button.
type BackupService struct {
	store *store.Store
	log   *logrus.Logger
	dir   string
	keep  int
	cron  *cron.Cron
}

func NewBackupService(st *store.Store, log *logrus.Logger, dir string, keep int) *BackupService {
	return &BackupService{
		store: st,
		log:   log,
		dir:   dir,
		keep:  keep,
		cron:  cron.New(),
	}
}

// Start registers the backup job under the given cron schedule and
// starts the scheduler.
func (b *BackupService) Start(schedule string) error {
	if _, err := b.cron.AddFunc(schedule, b.runOnce); err != nil {
		return fmt.Errorf("register backup schedule %q: %w", schedule, err)
	}
	b.cron.Start()
	b.log.Infof("Scheduled backups (%s) to %s, keeping %d", schedule, b.dir, b.keep)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (b *BackupService) Stop() {
	ctx := b.cron.Stop()
	<-ctx.Done()
}

// RunNow performs one backup immediately, outside the schedule.
func (b *BackupService) RunNow() error {
	data, err := b.store.BackupJSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}
	name := fmt.Sprintf("clinic-backup-%s.json", time.Now().Format("2006-01-02-150405"))
	path := filepath.Join(b.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup %s: %w", path, err)
	}
	b.log.Infof("Wrote backup %s (%d bytes)", path, len(data))
	return b.prune()
}

func (b *BackupService) runOnce() {
	if err := b.RunNow(); err != nil {
		b.log.Warnf("Scheduled backup failed: %+v", err)
	}
}

// prune deletes the oldest backups beyond the retention count. File
// names embed the timestamp, so lexical order is chronological order.
func (b *BackupService) prune() error {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "clinic-backup-") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if b.keep <= 0 || len(names) <= b.keep {
		return nil
	}
	sort.Strings(names)
	for _, name := range names[:len(names)-b.keep] {
		if err := os.Remove(filepath.Join(b.dir, name)); err != nil {
			b.log.Warnf("Could not prune backup %s: %+v", name, err)
		}
	}
	return nil
}
