package builder

import (
	"os"
	"path/filepath"

	"github.com/keyloom/website/internal/pkg/retry"
)

// writeFileAtomic writes data through a temp file and rename, so a reader
// serving the output directory never observes a partial file.
func writeFileAtomic(path string, data []byte) error {
	return retry.Do(func() error {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, data, 0644); err != nil {
			return err
		}
		if err := os.Rename(tmp, path); err != nil {
			_ = os.Remove(tmp)
			return err
		}
		return nil
	})
}
