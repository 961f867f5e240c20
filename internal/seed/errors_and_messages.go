package seed

import "fmt"

func errCannotReadSnapshotFile(path string, err error) error {
	return fmt.Errorf("unable to read snapshot file %q: %w", path, err)
}

func errSnapshotFileNotJSON(path string) error {
	return fmt.Errorf("snapshot file %q does not contain valid JSON", path)
}

func errCreateFileManagerFailed(path string, err error) error {
	return fmt.Errorf("unable to watch snapshot file %q: %w", path, err)
}

func errNoSnapshot(key string) error {
	return fmt.Errorf("no snapshot stored under Redis key %q", key)
}

func errSnapshotNotJSON(key string) error {
	return fmt.Errorf("the snapshot under Redis key %q does not contain valid JSON", key)
}

const (
	logMsgReloadedFile       = "Reloaded snapshot file %s"
	logMsgReloadError        = "Unable to reload snapshot file: %s"
	logMsgReloadRetry        = "Snapshot file reload failed, will retry"
	logMsgNoLongerInitial    = "Value has been refreshed; further snapshot file changes will be ignored"
	logMsgWriteThroughFailed = "Unable to store refreshed value under Redis key %q: %s"
)
