package source

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CleanupTemps removes downloads left in dir (os.TempDir() when empty) by
// interrupted runs once they are older than maxAge. It returns how many
// files were removed.
func CleanupTemps(dir string, maxAge time.Duration) int {
	if dir == "" {
		dir = os.TempDir()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	now := time.Now()
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !isOurTemp(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil || now.Sub(info.ModTime()) < maxAge {
			continue
		}
		if os.Remove(filepath.Join(dir, e.Name())) == nil {
			removed++
		}
	}
	return removed
}

func isOurTemp(name string) bool {
	if !strings.HasSuffix(name, ".pdf") {
		return false
	}
	for _, pattern := range []string{httpTempPattern, s3TempPattern, "pdfdec-*.pdf"} {
		if strings.HasPrefix(name, strings.TrimSuffix(pattern, "*.pdf")) {
			return true
		}
	}
	return false
}
