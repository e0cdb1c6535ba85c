package service

import (
	"path/filepath"
	"sync"

	"clinic-sync-backend/internal/store"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// FileWatcher watches the store's on-disk mirror so that a second
// process on the same machine (another server instance, a manual edit,
// a restore script) is picked up without a restart. The store's own
// writes land through the same file; ReloadIfChanged filters them out
// by comparing the persisted timestamps against the in-memory ones.
type FileWatcher struct {
	store    *store.Store
	notifier *Notifier
	log      *logrus.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewFileWatcher creates a watcher for the store's mirror file. The
// watch is placed on the parent directory because atomic rename-into-
// place replaces the inode, which silently kills a per-file watch.
func NewFileWatcher(st *store.Store, notifier *Notifier, log *logrus.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(st.Path())); err != nil {
		w.Close()
		return nil, err
	}
	return &FileWatcher{
		store:    st,
		notifier: notifier,
		log:      log,
		watcher:  w,
		done:     make(chan struct{}),
	}, nil
}

// Start launches the event loop.
func (f *FileWatcher) Start() {
	f.wg.Add(1)
	go f.loop()
	f.log.Debugf("Watching %s for external writes", f.store.Path())
}

func (f *FileWatcher) loop() {
	defer f.wg.Done()
	target := filepath.Clean(f.store.Path())
	for {
		select {
		case <-f.done:
			return
		case ev, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			changed, err := f.store.ReloadIfChanged()
			if err != nil {
				f.log.Warnf("Failed to reload local document: %+v", err)
				continue
			}
			if changed {
				f.log.Info("Adopted external write to local document")
				f.notifier.Publish(Event{Type: EventDataChanged})
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.log.Warnf("File watcher error: %+v", err)
		}
	}
}

// Stop closes the watcher and waits for the loop to exit.
func (f *FileWatcher) Stop() {
	close(f.done)
	f.watcher.Close()
	f.wg.Wait()
}
