package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultPrefix starts every generated file name.
const DefaultPrefix = "afad-earthquakes"

// timestampLayout matches an ISO-8601 local timestamp with microseconds.
const timestampLayout = "2006-01-02T15:04:05.000000"

// Target names the file an export is written to. Both fields are optional.
type Target struct {
	Dir  string // created if missing; "~/" expands to the home directory
	Name string // extension appended when absent; generated when empty
}

// DefaultName returns "<prefix>-export-<timestamp>.<ext>".
func DefaultName(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s-export-%s.%s", prefix, now.Format(timestampLayout), ext)
}

// resolvePath applies the naming policy and creates the directory if needed.
func resolvePath(target Target, prefix, ext string, now time.Time) (string, error) {
	var path string

	if dir := target.Dir; dir != "" {
		// Expand ~ to home directory
		if strings.HasPrefix(dir, "~/") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("getting home directory: %w", err)
			}
			dir = filepath.Join(home, dir[2:])
		}

		if !strings.HasSuffix(dir, string(filepath.Separator)) {
			dir += string(filepath.Separator)
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating export directory: %w", err)
		}
		path = dir
	}

	switch name := target.Name; {
	case name == "":
		path += DefaultName(prefix, ext, now)
	case strings.HasSuffix(name, "."+ext):
		path += name
	default:
		path += name + "." + ext
	}

	return path, nil
}
