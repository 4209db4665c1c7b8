package parcel

import (
	"sync"

	"github.com/golang/glog"

	"github.com/apache/lucy-clownfish/internal/cferr"
)

// Registry is the process-wide parcel registry: every parcel must be
// installed here before its classes can resolve cross-parcel types.
type Registry struct {
	mu sync.Mutex

	byName map[string]*Parcel

	// inheritedBy[child] is the set of parcels a class owned by `child`
	// inherits from, recorded via AddInheritedParcel.
	inheritedBy map[string]map[string]bool
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:      make(map[string]*Parcel),
		inheritedBy: make(map[string]map[string]bool),
	}
}

// Register installs a parcel keyed by name. Re-registering the same name
// is a no-op when both registrations originate from the same source
// directory (e.g. a parcel found twice while walking overlapping include
// paths). Otherwise a source-directory parcel wins over a same-named
// include-directory parcel, whichever is registered first; any other
// duplicate is a fatal conflict.
func (r *Registry) Register(p *Parcel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byName[p.Name]
	if !ok {
		r.byName[p.Name] = p
		glog.V(1).Infof("parcel registry: registered %s from %s", p.Name, p.CfpPath)
		return nil
	}
	if existing.SourceDir != "" && existing.SourceDir == p.SourceDir {
		glog.V(1).Infof("parcel registry: idempotent re-register of %s from %s", p.Name, p.SourceDir)
		return nil
	}
	// Source-directory parcels take precedence over same-named parcels
	// found only in an include directory.
	if existing.Included && !p.Included {
		r.byName[p.Name] = p
		glog.V(1).Infof("parcel registry: source-dir %s supersedes include-dir copy", p.Name)
		return nil
	}
	if !existing.Included && p.Included {
		glog.V(1).Infof("parcel registry: include-dir copy of %s suppressed; source-dir copy already registered", p.Name)
		return nil
	}
	return cferr.Semanticf("parcel %q already registered from %q (cannot register again from %q)",
		p.Name, existing.CfpPath, p.CfpPath)
}

// Fetch looks up a parcel by name, returning nil if none is registered.
func (r *Registry) Fetch(name string) *Parcel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byName[name]
}

// All returns every registered parcel, in no particular order.
func (r *Registry) All() []*Parcel {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Parcel, 0, len(r.byName))
	for _, p := range r.byName {
		out = append(out, p)
	}
	return out
}

// CheckPrereqs verifies that every prerequisite of p is registered at or
// above its minimum version.
func (r *Registry) CheckPrereqs(p *Parcel) error {
	for _, req := range p.Prereqs {
		dep := r.Fetch(req.Name)
		if dep == nil {
			if req.MinVersion != nil {
				return cferr.Semanticf("prerequisite %s (>=%s) not found", req.Name, req.MinVersion)
			}
			return cferr.Semanticf("prerequisite %s not found", req.Name)
		}
		if req.MinVersion != nil && !dep.Version.AtLeast(*req.MinVersion) {
			return cferr.Semanticf("prerequisite %s (>=%s) not found: registered version is %s", req.Name, req.MinVersion, dep.Version)
		}
	}
	return nil
}

// AddInheritedParcel records that some class owned by child inherits from
// a class owned by parent, so the emitter knows parent's header must be
// #include-d and parent must be bootstrapped first.
func (r *Registry) AddInheritedParcel(child, parent *Parcel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.inheritedBy[child.Name]
	if !ok {
		set = make(map[string]bool)
		r.inheritedBy[child.Name] = set
	}
	set[parent.Name] = true
	glog.V(2).Infof("parcel registry: %s inherits from %s", child.Name, parent.Name)
}

// InheritedParcels returns, in topological order (each parcel appears
// after every parcel it itself depends on), the transitive closure of
// parcels p's classes inherit from. This is the order bootstrap_inheritance
// must visit: a parcel must be inheritance-bootstrapped before any parcel
// that inherits from it.
func (r *Registry) InheritedParcels(p *Parcel) []*Parcel {
	r.mu.Lock()
	edges := make(map[string][]string, len(r.inheritedBy))
	for child, set := range r.inheritedBy {
		for parentName := range set {
			edges[child] = append(edges[child], parentName)
		}
	}
	r.mu.Unlock()
	return r.topoClosure(p, edges)
}

// DependentParcels returns, in topological order, the transitive closure
// of prerequisite parcels p depends on (this is the set whose parcel.h
// must be #include-d by p's own header, and whose bootstrap_parcel() must
// be reachable during p's full bootstrap chain).
func (r *Registry) DependentParcels(p *Parcel) []*Parcel {
	edges := make(map[string][]string)
	r.mu.Lock()
	for _, other := range r.byName {
		for _, req := range other.Prereqs {
			edges[other.Name] = append(edges[other.Name], req.Name)
		}
	}
	r.mu.Unlock()
	return r.topoClosure(p, edges)
}

// topoClosure walks `edges` (name -> direct dependency names) starting
// from p, and returns the transitive closure in dependency-first order
// (a parcel appears only after everything it depends on).
func (r *Registry) topoClosure(p *Parcel, edges map[string][]string) []*Parcel {
	var order []string
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(name string) error
	visit = func(name string) error {
		if visited[name] {
			return nil
		}
		if visiting[name] {
			return cferr.Integrityf("cycle detected in parcel dependency graph at %q", name)
		}
		visiting[name] = true
		for _, dep := range edges[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		visiting[name] = false
		visited[name] = true
		if name != p.Name {
			order = append(order, name)
		}
		return nil
	}
	if err := visit(p.Name); err != nil {
		glog.Warningf("parcel registry: %v", err)
		return nil
	}

	out := make([]*Parcel, 0, len(order))
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range order {
		if pp, ok := r.byName[name]; ok {
			out = append(out, pp)
		}
	}
	return out
}
