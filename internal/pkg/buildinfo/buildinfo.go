// Package buildinfo renders the version stamp every binary prints at
// startup. Values arrive through -ldflags; anything left unset shows as N/A.
package buildinfo

import (
	"fmt"
	"io"
	"os"
)

// Injection point for -X flags when a binary does not declare its own
// variables.
var (
	Version string
	Date    string
	Commit  string
)

const unset = "N/A"

// Info is one binary's build stamp.
type Info struct {
	Version string
	Date    string
	Commit  string
}

// Fprint writes the stamp in the fixed three-line startup format.
func (i Info) Fprint(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", orUnset(i.Version))
	fmt.Fprintf(w, "Build date: %s\n", orUnset(i.Date))
	fmt.Fprintf(w, "Build commit: %s\n", orUnset(i.Commit))
}

// Print writes the stamp to stdout.
func Print(version, date, commit string) {
	Info{Version: version, Date: date, Commit: commit}.Fprint(os.Stdout)
}

// PrintSelf prints the package-level injection variables.
func PrintSelf() {
	Print(Version, Date, Commit)
}

func orUnset(s string) string {
	if s == "" {
		return unset
	}
	return s
}
