package testutil

import (
	"bytes"
	"io"
	"os"
)

// CaptureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it. The pipe is drained concurrently so fn cannot
// block on a full buffer.
func CaptureStdout(fn func()) string {
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return ""
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()
	_ = w.Close()
	return <-done
}
