// Package retry provides a small helper for retrying operations that fail
// with transient file-system errors, such as reads racing an editor save.
package retry

import (
	"errors"
	"os"
	"strings"
	"time"
)

// backoffIntervals are the waits between attempts. Do makes one more
// attempt than there are intervals.
var backoffIntervals = []time.Duration{100 * time.Millisecond, 300 * time.Millisecond, 1 * time.Second}

// IsTransientFileError reports whether a file operation failed in a way
// that is worth retrying shortly after.
func IsTransientFileError(err error) bool {
	var pathErr *os.PathError
	if !errors.As(err, &pathErr) {
		return false
	}
	msg := strings.ToLower(pathErr.Err.Error())
	return strings.Contains(msg, "busy") ||
		strings.Contains(msg, "temporarily") ||
		strings.Contains(msg, "interrupted")
}

// Do calls fn until it succeeds, returns a non-transient error, or the
// attempts run out.
func Do(fn func() error) error {
	var lastErr error
	for i := 0; i <= len(backoffIntervals); i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsTransientFileError(err) {
			return err
		}
		if i < len(backoffIntervals) {
			time.Sleep(backoffIntervals[i])
		}
	}
	return lastErr
}
