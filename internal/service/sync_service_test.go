package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"clinic-sync-backend/internal/domain/entity"
	"clinic-sync-backend/internal/store"

	"github.com/sirupsen/logrus"
)

func TestShouldAcceptRemote(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		cloudTime       time.Time
		lastSync        time.Time
		lastLocalUpdate time.Time
		want            bool
	}{
		{
			name:            "newer than both",
			cloudTime:       base.Add(2 * time.Minute),
			lastSync:        base,
			lastLocalUpdate: base.Add(time.Minute),
			want:            true,
		},
		{
			name:            "older than last sync",
			cloudTime:       base.Add(-time.Minute),
			lastSync:        base,
			lastLocalUpdate: base.Add(-2 * time.Minute),
			want:            false,
		},
		{
			name:            "equal to last sync",
			cloudTime:       base,
			lastSync:        base,
			lastLocalUpdate: base.Add(-time.Minute),
			want:            false,
		},
		{
			name:            "newer than sync but behind a local edit",
			cloudTime:       base.Add(time.Minute),
			lastSync:        base,
			lastLocalUpdate: base.Add(2 * time.Minute),
			want:            false,
		},
		{
			name:            "equal to local edit",
			cloudTime:       base,
			lastSync:        base.Add(-time.Minute),
			lastLocalUpdate: base,
			want:            false,
		},
		{
			name:            "fresh install with zero timestamps",
			cloudTime:       base,
			lastSync:        time.Time{},
			lastLocalUpdate: time.Time{},
			want:            true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldAcceptRemote(tt.cloudTime, tt.lastSync, tt.lastLocalUpdate)
			if got != tt.want {
				t.Errorf("ShouldAcceptRemote(%v, %v, %v) = %v, want %v",
					tt.cloudTime, tt.lastSync, tt.lastLocalUpdate, got, tt.want)
			}
		})
	}
}

// fakeSnapshotRepo is an in-memory stand-in for the Postgres-backed
// snapshot store.
type fakeSnapshotRepo struct {
	mu        sync.Mutex
	doc       *entity.ClinicDocument
	cloudTime time.Time
	pushErr   error
	pushes    int
	ticks     chan struct{}
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{ticks: make(chan struct{}, 1)}
}

func (f *fakeSnapshotRepo) Push(ctx context.Context, doc *entity.ClinicDocument) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return time.Time{}, f.pushErr
	}
	clone, err := doc.Clone()
	if err != nil {
		return time.Time{}, err
	}
	f.doc = clone
	f.cloudTime = time.Now()
	f.pushes++
	return f.cloudTime, nil
}

func (f *fakeSnapshotRepo) Fetch(ctx context.Context) (*entity.ClinicDocument, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.doc == nil {
		return nil, time.Time{}, errors.New("no snapshot")
	}
	clone, err := f.doc.Clone()
	if err != nil {
		return nil, time.Time{}, err
	}
	return clone, f.cloudTime, nil
}

func (f *fakeSnapshotRepo) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	return f.ticks, nil
}

func newSyncTestStore(t *testing.T) *store.Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := store.New(store.Config{
		Path:                 filepath.Join(t.TempDir(), "clinic.json"),
		ClinicName:           "Alexandria",
		BranchName:           "Shubrakhit",
		StartingCode:         1000,
		DefaultAdminPassword: "admin",
	}, log)
	if err := s.Load(); err != nil {
		t.Fatalf("load store: %v", err)
	}
	return s
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestTriggerCloudSyncWithoutRemote(t *testing.T) {
	st := newSyncTestStore(t)
	svc := NewCloudSyncService(st, nil, NewNotifier(), quietLog(), time.Millisecond)
	defer svc.Stop()

	if svc.TriggerCloudSync(context.Background()) {
		t.Error("push without a remote store reported success")
	}
	status, _ := svc.Status()
	if status != SyncStatusOffline {
		t.Errorf("status = %q, want offline", status)
	}
}

func TestTriggerCloudSyncPushesAndStamps(t *testing.T) {
	st := newSyncTestStore(t)
	repo := newFakeSnapshotRepo()
	svc := NewCloudSyncService(st, repo, NewNotifier(), quietLog(), time.Millisecond)
	defer svc.Stop()

	if _, err := st.UpsertPatient("tester", entity.Patient{Name: "Push Me"}); err != nil {
		t.Fatal(err)
	}

	if !svc.TriggerCloudSync(context.Background()) {
		t.Fatal("push failed")
	}
	if repo.pushes != 1 {
		t.Errorf("pushes = %d, want 1", repo.pushes)
	}
	if len(repo.doc.Patients) != 1 {
		t.Errorf("remote snapshot holds %d patients, want 1", len(repo.doc.Patients))
	}

	lastSync, _ := st.Times()
	if lastSync.IsZero() {
		t.Error("push did not stamp lastSync")
	}
	status, _ := svc.Status()
	if status != SyncStatusOnline {
		t.Errorf("status = %q, want online", status)
	}
}

func TestTriggerCloudSyncFailureKeepsLocalState(t *testing.T) {
	st := newSyncTestStore(t)
	repo := newFakeSnapshotRepo()
	repo.pushErr = errors.New("dial tcp: connection refused")

	notifier := NewNotifier()
	events, cancel := notifier.Subscribe()
	defer cancel()

	svc := NewCloudSyncService(st, repo, notifier, quietLog(), time.Millisecond)
	defer svc.Stop()

	if _, err := st.UpsertPatient("tester", entity.Patient{Name: "Offline Edit"}); err != nil {
		t.Fatal(err)
	}
	if svc.TriggerCloudSync(context.Background()) {
		t.Fatal("failed push reported success")
	}

	status, _ := svc.Status()
	if status != SyncStatusError {
		t.Errorf("status = %q, want error", status)
	}
	// Local data stays intact and editable.
	if len(st.GetPatients()) != 1 {
		t.Error("failed push lost local data")
	}

	// The failure is surfaced as an operator-facing error event.
	deadline := time.After(time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == EventSyncError {
				if ev.Message == "" {
					t.Error("sync error event has no message")
				}
				return
			}
		case <-deadline:
			t.Fatal("no sync error event published")
		}
	}
}

func TestPullFromCloudRequiresPatients(t *testing.T) {
	st := newSyncTestStore(t)
	repo := newFakeSnapshotRepo()
	repo.doc = &entity.ClinicDocument{} // no patients collection
	repo.cloudTime = time.Now()

	svc := NewCloudSyncService(st, repo, NewNotifier(), quietLog(), time.Millisecond)
	defer svc.Stop()

	pulled, err := svc.PullFromCloud(context.Background())
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if pulled {
		t.Error("pull accepted a snapshot without a patients collection")
	}
	if len(st.GetUsers()) == 0 {
		t.Error("rejected pull still replaced local state")
	}
}

func TestPullFromCloudOverwritesLocalState(t *testing.T) {
	st := newSyncTestStore(t)
	repo := newFakeSnapshotRepo()

	// Seed the remote from a second installation.
	remote := newSyncTestStore(t)
	if _, err := remote.UpsertPatient("other", entity.Patient{Name: "Remote Patient"}); err != nil {
		t.Fatal(err)
	}
	snapshot, err := remote.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	repo.doc = snapshot
	repo.cloudTime = time.Now()

	svc := NewCloudSyncService(st, repo, NewNotifier(), quietLog(), time.Millisecond)
	defer svc.Stop()

	pulled, err := svc.PullFromCloud(context.Background())
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if !pulled {
		t.Fatal("pull rejected a valid snapshot")
	}

	patients := st.GetPatients()
	if len(patients) != 1 || patients[0].Name != "Remote Patient" {
		t.Errorf("local patients after pull = %+v", patients)
	}
}

func TestObserverAppliesNewerRemoteDocument(t *testing.T) {
	st := newSyncTestStore(t)
	repo := newFakeSnapshotRepo()

	remote := newSyncTestStore(t)
	if _, err := remote.UpsertPatient("other", entity.Patient{Name: "From Device B"}); err != nil {
		t.Fatal(err)
	}
	snapshot, err := remote.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	repo.doc = snapshot
	// Strictly newer than everything the fresh local store has seen.
	repo.cloudTime = time.Now().Add(time.Hour)

	notifier := NewNotifier()
	events, cancel := notifier.Subscribe()
	defer cancel()

	svc := NewCloudSyncService(st, repo, notifier, quietLog(), time.Millisecond)
	if err := svc.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer svc.Stop()

	repo.ticks <- struct{}{}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == EventDataChanged {
				patients := st.GetPatients()
				if len(patients) != 1 || patients[0].Name != "From Device B" {
					t.Errorf("local patients after observer update = %+v", patients)
				}
				return
			}
		case <-deadline:
			t.Fatal("observer never applied the remote document")
		}
	}
}

func TestObserverIgnoresStaleRemoteDocument(t *testing.T) {
	st := newSyncTestStore(t)
	repo := newFakeSnapshotRepo()

	remote := newSyncTestStore(t)
	snapshot, err := remote.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	repo.doc = snapshot
	repo.cloudTime = time.Now().Add(-time.Hour)

	// A local edit after the cloud timestamp must win.
	if _, err := st.UpsertPatient("tester", entity.Patient{Name: "Local Edit"}); err != nil {
		t.Fatal(err)
	}

	svc := NewCloudSyncService(st, repo, NewNotifier(), quietLog(), time.Millisecond)
	if err := svc.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	repo.ticks <- struct{}{}
	time.Sleep(100 * time.Millisecond)
	svc.Stop()

	patients := st.GetPatients()
	if len(patients) != 1 || patients[0].Name != "Local Edit" {
		t.Errorf("stale remote document clobbered local edit: %+v", patients)
	}
}
