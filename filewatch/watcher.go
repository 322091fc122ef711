// Package filewatch reacts to files changing on disk: the session storage file
// written by another nutrilog process, and food log CSV files dropped into an
// inbox directory.
package filewatch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/aguxez/nutrilog/models"
)

// ImportedSuffix is appended to inbox files once they have been imported.
const ImportedSuffix = ".imported"

// DefaultQuietPeriod is how long an inbox file must go without writes before
// it is imported. Writers that pause for longer mid-file should write
// elsewhere and move the finished file into the inbox.
const DefaultQuietPeriod = 500 * time.Millisecond

// SessionReloader re-reads the persisted session and reports whether the
// identity changed.
type SessionReloader interface {
	Reload() bool
}

// Importer adds parsed food logs for the current user.
type Importer interface {
	ImportFoodLogs(ctx context.Context, entries []models.NewFoodLog) (int, error)
}

// FileWatcher monitors directory changes
type FileWatcher struct {
	watcher *fsnotify.Watcher
	log     logrus.FieldLogger

	sessionFile     string
	session         SessionReloader
	onSessionChange func()

	inboxDir string
	importer Importer
	onImport func(added int, err error)
	quiet    time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer // pending inbox imports by path
	closed bool
}

type Option func(*FileWatcher)

// WithQuietPeriod overrides DefaultQuietPeriod. Zero or less imports on the
// first event.
func WithQuietPeriod(d time.Duration) Option {
	return func(fw *FileWatcher) { fw.quiet = d }
}

func New(log logrus.FieldLogger, opts ...Option) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	fw := &FileWatcher{
		watcher: w,
		log:     log.WithField("component", "filewatch"),
		quiet:   DefaultQuietPeriod,
		timers:  make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(fw)
	}
	return fw, nil
}

// WatchSession reloads the session whenever path is replaced, written or
// removed. The parent directory is watched because storage writes replace the
// file by rename. onChange, if set, runs after a reload that changed identity.
func (fw *FileWatcher) WatchSession(path string, s SessionReloader, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := fw.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	fw.sessionFile = abs
	fw.session = s
	fw.onSessionChange = onChange
	return nil
}

// WatchInbox imports every CSV file written to dir. onImport, if set, runs
// after each file with the import result.
func (fw *FileWatcher) WatchInbox(dir string, imp Importer, onImport func(added int, err error)) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return fmt.Errorf("creating inbox: %w", err)
	}
	if err := fw.watcher.Add(abs); err != nil {
		return fmt.Errorf("watching %s: %w", abs, err)
	}
	fw.inboxDir = abs
	fw.importer = imp
	fw.onImport = onImport
	return nil
}

// Watch dispatches events until ctx is done or the watcher is closed.
func (fw *FileWatcher) Watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			fw.log.WithFields(logrus.Fields{"file": event.Name, "op": event.Op.String()}).Debug("file changed")
			fw.HandleFileChange(ctx, event.Name, event.Op&(fsnotify.Create|fsnotify.Write) != 0)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.WithError(err).Error("watcher error")
		}
	}
}

// HandleFileChange routes a changed path. written reports whether the file
// now exists with new content (as opposed to being removed or renamed away).
// Inbox files are imported once they have been quiet for the quiet period.
func (fw *FileWatcher) HandleFileChange(ctx context.Context, path string, written bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	switch {
	case fw.session != nil && abs == fw.sessionFile:
		if fw.session.Reload() {
			fw.log.Info("session changed on disk")
			if fw.onSessionChange != nil {
				fw.onSessionChange()
			}
		}
	case fw.importer != nil && written && filepath.Dir(abs) == fw.inboxDir && strings.EqualFold(filepath.Ext(abs), ".csv"):
		fw.scheduleImport(ctx, abs)
	}
}

// scheduleImport (re)starts the quiet timer for path.
func (fw *FileWatcher) scheduleImport(ctx context.Context, path string) {
	if fw.quiet <= 0 {
		fw.importFile(ctx, path)
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.closed {
		return
	}
	if t, ok := fw.timers[path]; ok {
		t.Reset(fw.quiet)
		return
	}

	var t *time.Timer
	t = time.AfterFunc(fw.quiet, func() {
		fw.mu.Lock()
		if fw.timers[path] == t {
			delete(fw.timers, path)
		}
		closed := fw.closed
		fw.mu.Unlock()

		if closed || ctx.Err() != nil {
			return
		}
		fw.importFile(ctx, path)
	})
	fw.timers[path] = t
}

// ScanInbox imports CSV files already sitting in the inbox.
func (fw *FileWatcher) ScanInbox(ctx context.Context) error {
	if fw.inboxDir == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(fw.inboxDir, "*.csv"))
	if err != nil {
		return err
	}
	for _, path := range matches {
		fw.importFile(ctx, path)
	}
	return nil
}

func (fw *FileWatcher) importFile(ctx context.Context, path string) {
	log := fw.log.WithField("file", path)

	entries, err := ParseFoodLogs(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("food log file already gone")
		return
	}
	if err != nil {
		log.WithError(err).Warn("skipping food log file")
		return
	}

	added, err := fw.importer.ImportFoodLogs(ctx, entries)
	if err != nil {
		log.WithError(err).WithField("added", added).Warn("food log import incomplete")
	} else {
		log.WithField("added", added).Info("imported food logs")
	}

	if rerr := os.Rename(path, path+ImportedSuffix); rerr != nil {
		log.WithError(rerr).Warn("marking file as imported failed")
	}

	if fw.onImport != nil {
		fw.onImport(added, err)
	}
}

// Close stops watching and drops imports that are still waiting.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	fw.closed = true
	for path, t := range fw.timers {
		t.Stop()
		delete(fw.timers, path)
	}
	fw.mu.Unlock()

	return fw.watcher.Close()
}
