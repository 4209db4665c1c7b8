// Package emit implements the C emission engine (spec.md §4.E): given a
// built Hierarchy it writes, per non-included parcel, a parcel header, a
// parcel implementation file, and a header per owned class, plus the
// shared callbacks.h that every parcel's implementation file includes,
// the root parcel's hostdefs.h, and hierarchy.json. Every write goes through internal/writefile's content-hash
// "write only if different" discipline, so re-running the compiler over
// an unchanged hierarchy touches nothing on disk.
package emit

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"

	"github.com/apache/lucy-clownfish/internal/class"
	"github.com/apache/lucy-clownfish/internal/hierarchy"
	"github.com/apache/lucy-clownfish/internal/parcel"
	"github.com/apache/lucy-clownfish/internal/writefile"
)

// Emitter drives emission of a built Hierarchy into DestDir.
type Emitter struct {
	Hierarchy *hierarchy.Hierarchy
	DestDir   string
	Header    string
	Footer    string

	// HostBindings controls whether callbacks.h declares real prototypes
	// (a host language is linked in and may override methods) or defines
	// every callback symbol to NULL (pure-C build, no host present).
	HostBindings bool
}

// New builds an Emitter. header and footer are verbatim boilerplate
// (spec.md §6 --header/--footer) stamped at the top and bottom of every
// emitted file.
func New(h *hierarchy.Hierarchy, destDir, header, footer string) *Emitter {
	return &Emitter{Hierarchy: h, DestDir: destDir, Header: header, Footer: footer}
}

func (e *Emitter) includePath(rel string) string {
	return filepath.Join(e.DestDir, "include", filepath.FromSlash(rel))
}

func (e *Emitter) sourcePath(rel string) string {
	return filepath.Join(e.DestDir, "source", filepath.FromSlash(rel))
}

// sourceParcels returns every parcel this run is responsible for emitting:
// those found under a --source directory, never the --include-only ones
// (spec.md §6: "--include: a directory whose parcels/classes are visible
// but not emitted").
func (e *Emitter) sourceParcels() []*parcel.Parcel {
	all := e.Hierarchy.Parcels.All()
	out := make([]*parcel.Parcel, 0, len(all))
	for _, p := range all {
		if !p.Included {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func classesOf(p *parcel.Parcel, ordered []*class.Class) []*class.Class {
	var out []*class.Class
	for _, c := range ordered {
		if c.Parcel == p {
			out = append(out, c)
		}
	}
	return out
}

// WriteAll emits every parcel header, parcel source, and class header, plus
// the shared callbacks.h, hostdefs.h, and hierarchy.json. It returns how
// many files actually changed on disk.
func (e *Emitter) WriteAll() (int, error) {
	written := 0
	ordered := e.Hierarchy.OrderedClasses()
	parcels := e.sourceParcels()

	for _, p := range parcels {
		classes := classesOf(p, ordered)

		headerText, err := e.buildParcelHeader(p, classes)
		if err != nil {
			return written, err
		}
		wrote, err := writefile.WriteIfDifferent(e.includePath(p.Prefix()+"parcel.h"), []byte(headerText))
		if err != nil {
			return written, err
		}
		if wrote {
			written++
		}

		sourceText, err := e.buildParcelSource(p, classes)
		if err != nil {
			return written, err
		}
		wrote, err = writefile.WriteIfDifferent(e.sourcePath(p.Prefix()+"parcel.c"), []byte(sourceText))
		if err != nil {
			return written, err
		}
		if wrote {
			written++
		}

		for _, c := range classes {
			classText, err := e.buildClassHeader(p, c)
			if err != nil {
				return written, err
			}
			wrote, err := writefile.WriteIfDifferent(e.includePath(c.RelativeIncludePath()), []byte(classText))
			if err != nil {
				return written, err
			}
			if wrote {
				written++
			}
		}
	}

	var ownClasses []*class.Class
	for _, c := range ordered {
		if !c.Parcel.Included {
			ownClasses = append(ownClasses, c)
		}
	}

	cbText, err := e.buildCallbacks(ownClasses)
	if err != nil {
		return written, err
	}
	wrote, err := writefile.WriteIfDifferent(e.includePath("callbacks.h"), []byte(cbText))
	if err != nil {
		return written, err
	}
	if wrote {
		written++
	}

	hdText, err := e.buildHostDefs()
	if err != nil {
		return written, err
	}
	root := e.rootParcel()
	hostDefsName := "hostdefs.h"
	if root != nil {
		hostDefsName = root.Prefix() + "hostdefs.h"
	}
	wrote, err = writefile.WriteIfDifferent(e.includePath(hostDefsName), []byte(hdText))
	if err != nil {
		return written, err
	}
	if wrote {
		written++
	}

	jsonText, err := e.buildHierarchyJSON(parcels, ownClasses)
	if err != nil {
		return written, err
	}
	wrote, err = writefile.WriteIfDifferent(filepath.Join(e.DestDir, "hierarchy.json"), jsonText)
	if err != nil {
		return written, err
	}
	if wrote {
		written++
	}

	glog.V(1).Infof("emit: wrote %d of %d candidate files", written, len(parcels)*2+len(ordered)+3)
	return written, nil
}

// rootParcel locates the privileged root parcel (nickname "Cfish") in the
// registry, used by every template that needs the generic dispatch
// machinery's prefix.
func (e *Emitter) rootParcel() *parcel.Parcel {
	for _, p := range e.Hierarchy.Parcels.All() {
		if p.IsRoot() {
			return p
		}
	}
	return nil
}

func ivarsSize(c *class.Class) string {
	switch {
	case c.Parcel.IsRoot():
		return "sizeof(" + c.FullStructSym + ")"
	case len(c.FreshMemberVars) > 0:
		return "sizeof(" + c.IvarsStructSymFull + ")"
	default:
		return "0"
	}
}

func methodSpecSym(c *class.Class) string {
	return c.ClassVarSymFull + "_METHODS"
}

func callbackSym(m *class.Method) string {
	if m.Final || m.HostExcluded {
		return ""
	}
	return strings.ToUpper(m.FullSym) + "_CALLBACK"
}
