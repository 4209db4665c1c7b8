// Package writefile implements the emitter's "write only if different"
// discipline (spec.md §4.E "Write discipline"), grounded on the teacher's
// serialize.go use of crypto/sha1 to validate cache freshness: here the
// same hash comparison decides whether an emitted file's content differs
// from what is already on disk, so an unchanged parcel leaves its output
// files' mtimes untouched for downstream build-time dependency tracking.
package writefile

import (
	"crypto/sha1"
	"os"
	"path/filepath"

	"github.com/golang/glog"
)

// WriteIfDifferent writes content to path, creating parent directories as
// needed, but only if path doesn't exist or its current content hashes
// differently. It returns whether a write actually occurred.
func WriteIfDifferent(path string, content []byte) (wrote bool, err error) {
	want := sha1.Sum(content)
	if existing, err := os.ReadFile(path); err == nil && sha1.Sum(existing) == want {
		glog.V(1).Infof("writefile: %s unchanged, skipping write", path)
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, err
	}
	glog.V(1).Infof("writefile: wrote %s (%d bytes)", path, len(content))
	return true, nil
}
