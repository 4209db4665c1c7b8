package class

import "time"

// File is a parsed declaration file ("*.cfh"): it owns zero or more
// classes, and carries the bookkeeping the hierarchy driver needs for
// incremental rebuilds.
type File struct {
	// PathPart is the path relative to its source directory, minus
	// extension; it is the uniqueness key for declaration files. Emitted
	// header paths come from class names (see Class.SetIncludePath), not
	// from it.
	PathPart string
	// SourcePath is the absolute (or driver-relative) path this file was
	// read from.
	SourcePath string
	SourceDir  string
	Included   bool

	ModTime time.Time
	// Modified is set by propagate_modified when this file's owning
	// classes need to be re-emitted.
	Modified bool

	Classes []*Class
}

// AddClass appends a parsed class to this file and back-links it.
func (f *File) AddClass(c *Class) {
	c.File = f
	f.Classes = append(f.Classes, c)
}
