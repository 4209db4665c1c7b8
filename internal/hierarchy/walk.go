package hierarchy

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
)

// findFiles recursively walks dir collecting every regular file whose
// name ends in ext, returning paths in deterministic (lexical) order so
// that compilation is reproducible across platforms and filesystems.
func findFiles(dir, ext string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ext) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)
	glog.V(1).Infof("hierarchy: found %d %q files under %s", len(found), ext, dir)
	return found, nil
}

// pathPart derives the path relative to dir, with its extension removed
// and the platform separator normalized to '/', used as the uniqueness
// key for declaration files.
func pathPart(dir, file string) (string, error) {
	rel, err := filepath.Rel(dir, file)
	if err != nil {
		return "", err
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.ToSlash(rel), nil
}
