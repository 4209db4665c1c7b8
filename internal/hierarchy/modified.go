package hierarchy

import (
	"os"
	"path/filepath"

	"github.com/golang/glog"

	"github.com/apache/lucy-clownfish/internal/cferr"
	"github.com/apache/lucy-clownfish/internal/class"
)

// PropagateModified implements spec.md §4.D's modification propagation: a
// depth-first walk from each tree root marking a class "modified" when its
// source is newer than its emitted header, its parent is modified, or the
// caller forces initial=true. It returns whether any class was modified.
func (h *Hierarchy) PropagateModified(initial bool) (bool, error) {
	any := false
	var visit func(c *class.Class, parentModified bool) error
	visit = func(c *class.Class, parentModified bool) error {
		if c.Parent != nil && c.Parent.Final {
			return cferr.Integrityf("class %s inherits from final class %s", c.Name, c.Parent.Name)
		}
		selfModified, err := h.classModified(c)
		if err != nil {
			return err
		}
		modified := initial || parentModified || selfModified

		if modified {
			any = true
			if c.File == nil {
				return cferr.Integrityf("class %s has no owning file at propagate time", c.Name)
			}
			c.File.Modified = true
			glog.V(1).Infof("hierarchy: %s marked modified (file %s)", c.Name, c.File.SourcePath)
		}
		for _, child := range c.Children {
			if err := visit(child, modified); err != nil {
				return err
			}
		}
		return nil
	}
	for _, root := range h.Roots {
		if err := visit(root, false); err != nil {
			return false, err
		}
	}
	return any, nil
}

// classModified reports whether c's source is newer than its expected
// emitted header, per spec.md's rule (a): "its owning file's source time
// is newer than the corresponding emitted header".
func (h *Hierarchy) classModified(c *class.Class) (bool, error) {
	if c.File == nil {
		return false, cferr.Integrityf("class %s: source file not found at propagate time", c.Name)
	}
	headerPath := filepath.Join(h.DestDir, "include", filepath.FromSlash(c.RelativeIncludePath()))
	info, err := os.Stat(headerPath)
	if err != nil {
		// No emitted header yet: definitely needs (re-)emission.
		return true, nil
	}
	return c.File.ModTime.After(info.ModTime()), nil
}

// OrderedClasses returns every class in stable, hierarchy-preserving
// pre-order DFS, the order every emitter relies on.
func (h *Hierarchy) OrderedClasses() []*class.Class {
	return class.OrderedClasses(h.Roots)
}
