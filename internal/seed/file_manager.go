package seed

import (
	"bytes"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

const defaultRetryInterval = time.Second

// ReSeeder accepts replacement initial values for as long as the target is
// still serving its initial value, reporting false once it no longer is.
// valuerelay.Relay implements this.
type ReSeeder interface {
	ReSeed(value ldvalue.Value) bool
}

// FileManager watches a snapshot file and re-seeds its target whenever the
// file changes, until the target reports that its initial value has been
// superseded by a refresh. The manager then stops watching on its own, but
// Close should still be called for the case where no refresh ever happens.
type FileManager struct {
	filePath      string
	target        ReSeeder
	retryInterval time.Duration
	watcher       *fsnotify.Watcher
	loggers       ldlog.Loggers
	closeCh       chan struct{}
	closeOnce     sync.Once
}

// NewFileManager reads the snapshot file and returns its value along with a
// FileManager that is already watching the file. A file that cannot be read
// or does not contain JSON is a construction error, since the caller has
// nothing to seed the relay with.
func NewFileManager(
	filePath string,
	target ReSeeder,
	retryInterval time.Duration,
	loggers ldlog.Loggers,
) (*FileManager, ldvalue.Value, error) {
	value, err := readSnapshotFile(filePath)
	if err != nil {
		return nil, ldvalue.Null(), err
	}

	fm := &FileManager{
		filePath:      filePath,
		target:        target,
		retryInterval: retryInterval,
		loggers:       loggers,
		closeCh:       make(chan struct{}),
	}
	if fm.retryInterval == 0 {
		fm.retryInterval = defaultRetryInterval
	}
	fm.loggers.SetPrefix("[SnapshotFile]")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ldvalue.Null(), errCreateFileManagerFailed(filePath, err) // COVERAGE: can't cause this condition in unit tests
	}
	if err := watcher.Add(filePath); err != nil {
		_ = watcher.Close()
		return nil, ldvalue.Null(), errCreateFileManagerFailed(filePath, err)
	}
	fm.watcher = watcher

	go fm.run()

	return fm, value, nil
}

// Close shuts down the FileManager.
func (fm *FileManager) Close() {
	fm.closeOnce.Do(func() {
		close(fm.closeCh)
	})
}

func (fm *FileManager) run() {
	retryCh := make(chan struct{})
	needRetry := false

	scheduleRetry := func() {
		needRetry = true
		time.AfterFunc(fm.retryInterval, func() {
			// Use non-blocking write because we never need to queue more than one retry signal
			select {
			case retryCh <- struct{}{}:
				break
			default:
				break
			}
		})
	}

	maybeReload := func() bool {
		value, err := readSnapshotFile(fm.filePath)
		needRetry = false
		if err != nil {
			// The file might be mid-copy, so a failed read gets one delayed retry
			// rather than being treated as final.
			fm.loggers.Warnf(logMsgReloadError, err)
			scheduleRetry()
			return true
		}
		if !fm.target.ReSeed(value) {
			fm.loggers.Info(logMsgNoLongerInitial)
			return false
		}
		fm.loggers.Infof(logMsgReloadedFile, fm.filePath)
		return true
	}

	for {
		select {
		case <-fm.closeCh:
			_ = fm.watcher.Close()
			return

		case event := <-fm.watcher.Events:
			fm.loggers.Debugf("Got file watcher event: %+v", event)
			// Consume any redundant change events that may have already piled up in the queue
			fm.consumeExtraEvents()
			if !maybeReload() {
				_ = fm.watcher.Close()
				return
			}

		case <-retryCh:
			// If needRetry is false, this is an obsolete signal - a newer change event already succeeded
			if needRetry {
				fm.loggers.Debug(logMsgReloadRetry)
				if !maybeReload() {
					_ = fm.watcher.Close()
					return
				}
			}
		}
	}
}

func (fm *FileManager) consumeExtraEvents() {
	for {
		select {
		case <-fm.watcher.Events: // COVERAGE: can't simulate this condition in unit tests
		default:
			return
		}
	}
}

func readSnapshotFile(path string) (ldvalue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ldvalue.Null(), errCannotReadSnapshotFile(path, err)
	}
	value := ldvalue.Parse(data)
	if value.IsNull() && string(bytes.TrimSpace(data)) != "null" {
		return ldvalue.Null(), errSnapshotFileNotJSON(path)
	}
	return value, nil
}
