package batch

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/local/pdf2text/internal/filetype"
)

// Discover lists the *.pdf files directly under root, or the whole tree
// when recursive is set. The result is sorted.
func Discover(root string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && filetype.HasPDFExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// OutputPath is where the text of file goes. Without outDir the text is
// written next to the source; with it, the path relative to root is
// mirrored under outDir.
func OutputPath(root, file, outDir string) string {
	name := stem(file) + ".txt"
	if outDir == "" {
		return filepath.Join(filepath.Dir(file), name)
	}
	rel, err := filepath.Rel(root, filepath.Dir(file))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		rel = ""
	}
	return filepath.Join(outDir, rel, name)
}

func stem(file string) string {
	base := filepath.Base(file)
	return base[:len(base)-len(filepath.Ext(base))]
}
