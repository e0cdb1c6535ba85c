package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"clinic-sync-backend/internal/domain/repository"
	"clinic-sync-backend/internal/store"

	"github.com/sirupsen/logrus"
)

// Cloud sync status values.
const (
	SyncStatusOffline = "offline"
	SyncStatusSyncing = "syncing"
	SyncStatusOnline  = "online"
	SyncStatusError   = "error"
)

// CloudSyncService mirrors the canonical document to the remote
// snapshot store and consumes remote updates.
//
// Push discipline: pushes are debounced (a mutation burst collapses into
// one upload) and serialized (a mutex admits one in-flight push; a push
// requested meanwhile simply runs after it).
//
// Observe discipline: every remote write notification fetches the
// snapshot and applies it only when ShouldAcceptRemote says the server
// timestamp is strictly newer than both local timestamps. That dual
// comparison keeps a stale snapshot, or the echo of our own push, from
// clobbering a local edit that has not been uploaded yet.
type CloudSyncService struct {
	store     *store.Store
	snapshots repository.SnapshotRepository // nil means local-only mode
	notifier  *Notifier
	log       *logrus.Logger
	debouncer *Debouncer

	pushMu sync.Mutex

	statusMu    sync.Mutex
	status      string
	lastLatency time.Duration

	stopChan chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// NewCloudSyncService wires the reconciler. Pass a nil snapshots
// repository to run local-only; every push then reports offline.
func NewCloudSyncService(
	st *store.Store,
	snapshots repository.SnapshotRepository,
	notifier *Notifier,
	log *logrus.Logger,
	debounce time.Duration,
) *CloudSyncService {
	s := &CloudSyncService{
		store:     st,
		snapshots: snapshots,
		notifier:  notifier,
		log:       log,
		status:    SyncStatusOffline,
		stopChan:  make(chan struct{}),
	}
	s.debouncer = NewDebouncer(debounce, func() {
		s.TriggerCloudSync(context.Background())
	})
	return s
}

// ScheduleSync is the store's after-save hook: it (re)arms the debounce
// timer so a burst of mutations yields a single push.
func (s *CloudSyncService) ScheduleSync() {
	s.debouncer.Trigger()
}

// Start launches the remote observer goroutine. No-op in local-only mode.
func (s *CloudSyncService) Start() error {
	if s.snapshots == nil {
		s.log.Info("Cloud sync disabled, running local-only")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	ticks, err := s.snapshots.Subscribe(ctx)
	if err != nil {
		cancel()
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.stopChan:
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				s.handleRemoteUpdate(ctx)
			}
		}
	}()

	s.log.Info("Cloud observer started")
	return nil
}

// Stop shuts the service down: pending debounced work is flushed so the
// last mutation still reaches the cloud, then the observer exits.
// Safe to call multiple times.
func (s *CloudSyncService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		s.debouncer.Flush()
		s.debouncer.Stop()
		close(s.stopChan)
		if s.cancel != nil {
			s.cancel()
		}
		s.wg.Wait()
		s.log.Info("CloudSyncService stopped")
	}
}

// TriggerCloudSync pushes the document to the remote store. Returns
// false when no remote is configured or the push failed; local state
// stays valid and usable either way, and the next mutation's debounced
// push is the retry.
func (s *CloudSyncService) TriggerCloudSync(ctx context.Context) bool {
	if s.snapshots == nil {
		s.setStatus(SyncStatusOffline, 0)
		s.log.Debug("Cloud sync skipped: no remote store configured")
		return false
	}

	s.pushMu.Lock()
	defer s.pushMu.Unlock()

	s.setStatus(SyncStatusSyncing, 0)
	start := time.Now()

	doc, err := s.store.BeginSync()
	if err != nil {
		s.log.Warnf("Failed to snapshot document for push: %+v", err)
		s.setStatus(SyncStatusError, 0)
		return false
	}

	if _, err := s.snapshots.Push(ctx, doc); err != nil {
		s.log.Warnf("Cloud sync failed: %+v", err)
		s.setStatus(SyncStatusError, 0)
		s.notifier.Publish(Event{
			Type:    EventSyncError,
			Message: classifySyncError(err),
		})
		return false
	}

	if err := s.store.FinishSync(); err != nil {
		s.log.Warnf("Failed to persist lastSync stamp: %+v", err)
	}

	latency := time.Since(start)
	s.setStatus(SyncStatusOnline, latency)
	s.log.Debugf("Cloud sync succeeded in %v", latency)
	return true
}

// PullFromCloud force-fetches the remote document and overwrites local
// state, provided the snapshot carries a recognizable patients
// collection. Operator-initiated only.
func (s *CloudSyncService) PullFromCloud(ctx context.Context) (bool, error) {
	if s.snapshots == nil {
		return false, nil
	}

	s.setStatus(SyncStatusSyncing, 0)
	doc, cloudTime, err := s.snapshots.Fetch(ctx)
	if err != nil {
		s.setStatus(SyncStatusError, 0)
		return false, err
	}
	if doc.Patients == nil {
		s.setStatus(SyncStatusOnline, 0)
		s.log.Warn("Cloud pull skipped: snapshot has no patients collection")
		return false, nil
	}

	doc.Settings.LastSync = cloudTime
	if err := s.store.ReplaceDocument(doc); err != nil {
		s.setStatus(SyncStatusError, 0)
		return false, err
	}

	s.setStatus(SyncStatusOnline, 0)
	s.notifier.Publish(Event{Type: EventDataChanged})
	s.log.Info("Cloud pull applied")
	return true, nil
}

// Status returns the current sync status and last push latency.
func (s *CloudSyncService) Status() (string, time.Duration) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.status, s.lastLatency
}

// handleRemoteUpdate runs the dual-timestamp arbitration for one remote
// write notification.
func (s *CloudSyncService) handleRemoteUpdate(ctx context.Context) {
	doc, cloudTime, err := s.snapshots.Fetch(ctx)
	if err != nil {
		s.log.Warnf("Cloud observer fetch failed: %+v", err)
		return
	}

	lastSync, lastLocalUpdate := s.store.Times()
	if !ShouldAcceptRemote(cloudTime, lastSync, lastLocalUpdate) {
		s.log.Debugf("Cloud update ignored (cloud=%v lastSync=%v lastLocalUpdate=%v)",
			cloudTime, lastSync, lastLocalUpdate)
		return
	}

	if err := s.store.ReplaceDocument(doc); err != nil {
		s.log.Warnf("Failed to apply cloud update: %+v", err)
		return
	}
	s.log.Info("Cloud observer applied newer remote document")
	s.notifier.Publish(Event{Type: EventDataChanged})
}

// ShouldAcceptRemote is the reconciliation rule: a remote snapshot is
// applied only when its server timestamp is strictly newer than both the
// last successful sync and the last unsynced local edit. Within the same
// debounce/network window two devices can still race; the rule only
// guarantees the clearly stale side never wins.
func ShouldAcceptRemote(cloudTime, lastSync, lastLocalUpdate time.Time) bool {
	return cloudTime.After(lastSync) && cloudTime.After(lastLocalUpdate)
}

func (s *CloudSyncService) setStatus(status string, latency time.Duration) {
	s.statusMu.Lock()
	s.status = status
	if latency > 0 {
		s.lastLatency = latency
	}
	s.statusMu.Unlock()

	ev := Event{Type: EventSyncStatus, Status: status}
	if latency > 0 {
		ev.LatencyMS = latency.Milliseconds()
	}
	s.notifier.Publish(ev)
}

// classifySyncError folds infrastructure failures into the operator-
// facing messages the UI surfaces.
func classifySyncError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "permission denied"):
		return "Cloud sync rejected: check database permissions."
	case strings.Contains(msg, "payload") || strings.Contains(msg, "too large") ||
		strings.Contains(msg, "value too long"):
		return "Cloud sync rejected: the document is too large to upload."
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "i/o timeout") || strings.Contains(msg, "network is unreachable"):
		return "You appear to be offline; changes will upload automatically on the next edit."
	default:
		return "Cloud sync failed; local data is safe and will retry on the next edit."
	}
}
