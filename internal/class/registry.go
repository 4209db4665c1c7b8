package class

import (
	"sync"

	"github.com/golang/glog"

	"github.com/apache/lucy-clownfish/internal/cferr"
	"github.com/apache/lucy-clownfish/internal/parcel"
)

// Registry is the process-wide class registry (spec.md §4.C): it
// enforces global injectivity of class name, (parcel, nickname), and full
// struct symbol, and drives type resolution and tree growth.
type Registry struct {
	mu sync.Mutex

	byFullStruct map[string]*Class
	byNickname   map[string]*Class // key: parcel.Name + "\x00" + nickname
	byName       map[string]*Class
	all          []*Class // insertion order

	parcels *parcel.Registry
	grown   bool
}

// NewRegistry builds an empty class registry bound to a parcel registry
// (type resolution needs to search prerequisite parcels).
func NewRegistry(parcels *parcel.Registry) *Registry {
	return &Registry{
		byFullStruct: make(map[string]*Class),
		byNickname:   make(map[string]*Class),
		byName:       make(map[string]*Class),
		parcels:      parcels,
	}
}

// Add registers c, or suppresses it per the source/include de-duplication
// rule: a class from an include directory is dropped silently if its
// parcel was already seen in a source directory.
func (r *Registry) Add(c *Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byFullStruct[c.FullStructSym]; ok {
		if c.Parcel.Included && !existing.Parcel.Included {
			glog.V(1).Infof("class registry: include-dir class %s suppressed; source-dir copy already registered", c.Name)
			return nil
		}
		return cferr.Semanticf("class %s: full struct symbol %q already registered by %s",
			c.Name, c.FullStructSym, existing.Name)
	}
	nickKey := c.Parcel.Name + "\x00" + c.Nickname
	if existing, ok := r.byNickname[nickKey]; ok {
		return cferr.Semanticf("class %s: nickname %q already used in parcel %s by %s",
			c.Name, c.Nickname, c.Parcel.Name, existing.Name)
	}
	if existing, ok := r.byName[c.Name]; ok {
		return cferr.Semanticf("class %s: already registered (conflicts with %s)", c.Name, existing.Name)
	}

	r.byFullStruct[c.FullStructSym] = c
	r.byNickname[nickKey] = c
	r.byName[c.Name] = c
	r.all = append(r.all, c)
	c.registry = r
	glog.V(1).Infof("class registry: registered %s (full struct %s)", c.Name, c.FullStructSym)
	return nil
}

// Fetch looks up a class by full dotted name.
func (r *Registry) Fetch(name string) *Class {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byName[name]
}

// All returns every registered class in insertion order.
func (r *Registry) All() []*Class {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Class, len(r.all))
	copy(out, r.all)
	return out
}

// ResolveTypes resolves every unprefixed object-type reference (in
// functions, fresh methods, and variables) across every registered class,
// searching first the owning parcel, then its prerequisite parcels, for a
// class whose short struct symbol matches. Must run before GrowTree.
func (r *Registry) ResolveTypes() error {
	for _, c := range r.All() {
		for _, f := range c.Functions {
			if err := r.resolveFuncSig(c, f.Params, f.Return); err != nil {
				return err
			}
		}
		for _, m := range c.FreshMethods {
			if err := r.resolveFuncSig(c, m.Params, m.Return); err != nil {
				return err
			}
		}
		for _, v := range c.FreshMemberVars {
			if err := r.resolveType(c, v.Type); err != nil {
				return err
			}
		}
		for _, v := range c.FreshInertVars {
			if err := r.resolveType(c, v.Type); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Registry) resolveFuncSig(owner *Class, params []Param, ret *Type) error {
	for i := range params {
		if err := r.resolveType(owner, params[i].Type); err != nil {
			return err
		}
	}
	return r.resolveType(owner, ret)
}

func (r *Registry) resolveType(owner *Class, t *Type) error {
	if t == nil {
		return nil
	}
	if t.Kind == KindArray {
		return r.resolveType(owner, t.Elem)
	}
	if t.Kind != KindObject || t.Class != nil {
		return nil
	}
	// Search the owning parcel first, then its prerequisite closure.
	if found := r.lookupShortStruct(owner.Parcel.Name, t.ClassName); found != nil {
		t.Class = found
		return nil
	}
	for _, dep := range r.parcels.DependentParcels(owner.Parcel) {
		if found := r.lookupShortStruct(dep.Name, t.ClassName); found != nil {
			t.Class = found
			return nil
		}
	}
	return cferr.Semanticf("class %s: cannot resolve type %q (searched parcel %s and its prerequisites)",
		owner.Name, t.ClassName, owner.Parcel.Name)
}

func (r *Registry) lookupShortStruct(parcelName, shortStruct string) *Class {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.all {
		if c.Parcel.Name == parcelName && c.ShortStructSym == shortStruct {
			return c
		}
	}
	return nil
}

// GrowTree runs the four-step tree-growth algorithm of spec.md §4.C over
// every tree reachable from roots, in depth-first order starting at each
// root. It must be called exactly once per Registry; subsequent Add*
// mutations become fatal afterward.
func (r *Registry) GrowTree(roots []*Class) error {
	r.mu.Lock()
	if r.grown {
		r.mu.Unlock()
		return cferr.Internalf("grow_tree called more than once")
	}
	r.mu.Unlock()

	for _, root := range roots {
		if err := growSubtree(root); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.grown = true
	for _, c := range r.all {
		c.grown = true
	}
	r.mu.Unlock()
	return nil
}

// growSubtree applies steps 2 and 3 of spec.md §4.C depth-first: bequeath
// member variables, then bequeath (and possibly override) methods, then
// recurse into children. Step 1 (ancestry) is already established by
// Class.AddChild during hierarchy connection.
func growSubtree(c *Class) error {
	if c.Parent == nil {
		c.CompleteMemberVars = append([]*Variable(nil), c.FreshMemberVars...)
		c.CompleteMethods = append([]*Method(nil), c.FreshMethods...)
		for i, m := range c.CompleteMethods {
			m.Novel = true
			c.CompleteMethods[i] = m
		}
	} else {
		c.CompleteMemberVars = make([]*Variable, 0, len(c.Parent.CompleteMemberVars)+len(c.FreshMemberVars))
		c.CompleteMemberVars = append(c.CompleteMemberVars, c.Parent.CompleteMemberVars...)
		c.CompleteMemberVars = append(c.CompleteMemberVars, c.FreshMemberVars...)

		freshByName := make(map[string]*Method, len(c.FreshMethods))
		for _, m := range c.FreshMethods {
			freshByName[m.Name] = m
		}
		consumed := make(map[string]bool, len(c.FreshMethods))

		table := make([]*Method, len(c.Parent.CompleteMethods))
		for i, parentM := range c.Parent.CompleteMethods {
			if childM, overrides := freshByName[parentM.Name]; overrides {
				if err := parentM.compatibleOverride(childM); err != nil {
					return err
				}
				childM.Novel = false
				childM.Override = parentM
				childM.OffsetSym = parentM.OffsetSym
				childM.TypedefSym = parentM.TypedefSym
				table[i] = childM
				consumed[childM.Name] = true
			} else {
				table[i] = parentM
			}
		}
		for _, m := range c.FreshMethods {
			if consumed[m.Name] {
				continue
			}
			m.Novel = true
			table = append(table, m)
		}
		c.CompleteMethods = table
	}

	if c.Final {
		for i, m := range c.CompleteMethods {
			c.CompleteMethods[i] = m.finalize()
		}
	}

	for _, child := range c.Children {
		if err := growSubtree(child); err != nil {
			return err
		}
	}
	return nil
}

// OrderedClasses returns every class reachable from roots in stable,
// hierarchy-preserving pre-order DFS (roots in insertion order), the
// order every emitter relies on.
func OrderedClasses(roots []*Class) []*Class {
	var out []*Class
	var visit func(c *Class)
	visit = func(c *Class) {
		out = append(out, c)
		for _, child := range c.Children {
			visit(child)
		}
	}
	for _, root := range roots {
		visit(root)
	}
	return out
}
