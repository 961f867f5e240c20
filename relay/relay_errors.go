package relay

import (
	"errors"
	"fmt"
)

var (
	errAlreadyClosed = errors.New("this Relay was already shut down")
)

func errNewRedisSnapshotsFailed(err error) error {
	return fmt.Errorf("unable to connect to Redis snapshot store: %w", err)
}

func errSeedValueFailed(valueName string, err error) error {
	return fmt.Errorf(`unable to determine initial value for "%s": %w`, valueName, err)
}
