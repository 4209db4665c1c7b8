package class

import (
	"path"
	"strings"

	"github.com/golang/glog"

	"github.com/apache/lucy-clownfish/internal/cferr"
	"github.com/apache/lucy-clownfish/internal/parcel"
	"github.com/apache/lucy-clownfish/internal/symbol"
)

// Class represents a declared Clownfish class: either an "object" class
// (instantiable, single-inheritance, vtable-dispatched) or an "inert"
// class (a pure static namespace for functions and inert variables).
type Class struct {
	Parcel     *parcel.Parcel
	Name       string // full dotted name
	Nickname   string
	ParentName string // as declared; empty means "root, unless Inert"
	DocComment string
	File       *File
	Final      bool
	Inert      bool

	// Fresh arrays, populated during parsing (pre-grow only).
	FreshMethods    []*Method
	FreshMemberVars []*Variable
	FreshInertVars  []*Variable
	Functions       []*Function

	// Cross-linked during hierarchy build.
	Parent   *Class
	Children []*Class

	// Complete (post grow_tree) arrays.
	CompleteMethods    []*Method
	CompleteMemberVars []*Variable

	// Derived identifiers, computed once at construction.
	ShortStructSym      string
	FullStructSym       string
	IvarsStructSymShort string
	IvarsStructSymFull  string
	IvarsAccessorSym    string
	IvarsOffsetSym      string
	ClassVarSymShort    string
	ClassVarSymFull     string
	PrivacyGuardSym     string
	IncludePath         string

	registry *Registry // owning registry, for the post-grow mutation guard
	grown    bool
}

// NewClass constructs a Class, defaulting Nickname from Name, computing
// every derived symbol, and validating names. It does not register the
// class; call Registry.Add for that.
func NewClass(owner *parcel.Parcel, name, nickname, parentName, docComment string, final, inert bool) (*Class, error) {
	if err := symbol.ValidateClassName(name); err != nil {
		return nil, err
	}
	if nickname == "" {
		nickname = symbol.DefaultNickname(name)
	}
	if err := symbol.ValidateNickname(nickname); err != nil {
		return nil, err
	}
	if inert && parentName != "" {
		return nil, cferr.Semanticf("inert class %q may not declare a parent", name)
	}

	shortStruct := nickname
	fullStruct := symbol.FullSym(owner.Prefix(), shortStruct)
	ivarsShort := shortStruct + "IVARS"
	ivarsFull := symbol.FullSym(owner.Prefix(), ivarsShort)

	c := &Class{
		Parcel:              owner,
		Name:                name,
		Nickname:            nickname,
		ParentName:          parentName,
		DocComment:          docComment,
		Final:               final,
		Inert:               inert,
		ShortStructSym:      shortStruct,
		FullStructSym:       fullStruct,
		IvarsStructSymShort: ivarsShort,
		IvarsStructSymFull:  ivarsFull,
		IvarsAccessorSym:    symbol.FullSym(owner.Prefix(), symbol.ShortSym(nickname, "IVARS")),
		IvarsOffsetSym:      symbol.FullSym(owner.Prefix(), symbol.ShortSym(nickname, "IVARS_OFFSET")),
		ClassVarSymShort:    strings.ToUpper(shortStruct),
		ClassVarSymFull:     symbol.ClassVarSym(fullStruct),
		PrivacyGuardSym:     symbol.PrivacyGuardSym(fullStruct),
	}
	glog.V(1).Infof("class: new %s (parcel %s, nickname %s, inert=%v, final=%v)", name, owner.Name, nickname, inert, final)
	return c, nil
}

// SetIncludePath stores the emitted header's include path as base plus
// ".h". The hierarchy driver passes the class's full dotted name, e.g.
// "Animal.Dog" -> "Animal.Dog.h"; the declaration file's path-part is not
// used.
func (c *Class) SetIncludePath(base string) {
	c.IncludePath = base + ".h"
}

func (c *Class) checkMutable() error {
	if c.grown {
		return cferr.Internalf("class %s: mutated after grow_tree", c.Name)
	}
	return nil
}

// AddChild records that child's parent-name resolved to c. It validates
// the inert, final and prerequisite rules, then cross-links c.Children and
// child.Parent, the ancestry GrowTree relies on. It is the hook the
// hierarchy driver calls while connecting classes (spec.md §4.D step 7).
func (c *Class) AddChild(child *Class) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if c.Inert {
		return cferr.Semanticf("inert class %s may not be inherited from", c.Name)
	}
	if child.Inert {
		return cferr.Semanticf("inert class %s may not have a parent", child.Name)
	}
	if c.Final {
		return cferr.Semanticf("class %s is final and cannot be inherited from by %s", c.Name, child.Name)
	}
	if !sameOrPrerequisite(child.Parcel, c.Parcel) {
		return cferr.Semanticf("parcel %q is not a prerequisite of %q", c.Parcel.Name, child.Parcel.Name)
	}
	c.Children = append(c.Children, child)
	child.Parent = c
	return nil
}

func sameOrPrerequisite(child, parent *parcel.Parcel) bool {
	if child.Name == parent.Name {
		return true
	}
	for _, req := range child.Prereqs {
		if req.Name == parent.Name {
			return true
		}
	}
	return false
}

// AddFunction appends a class-static function.
func (c *Class) AddFunction(f *Function) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.Functions = append(c.Functions, f)
	return nil
}

// AddMethod appends a fresh (possibly overriding) method.
func (c *Class) AddMethod(m *Method) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if c.Inert {
		return cferr.Semanticf("inert class %s may not declare methods", c.Name)
	}
	c.FreshMethods = append(c.FreshMethods, m)
	return nil
}

// AddMemberVar appends a fresh instance member variable.
func (c *Class) AddMemberVar(v *Variable) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if c.Inert {
		return cferr.Semanticf("inert class %s may not declare member variables", c.Name)
	}
	c.FreshMemberVars = append(c.FreshMemberVars, v)
	return nil
}

// AddInertVar appends a fresh class-static variable.
func (c *Class) AddInertVar(v *Variable) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.FreshInertVars = append(c.FreshInertVars, v)
	return nil
}

// IsRoot reports whether c has no parent and is not inert: the top of a
// tree-growth walk.
func (c *Class) IsRoot() bool { return c.ParentName == "" && !c.Inert }

// RelativeIncludePath returns c's IncludePath, cleaned and using forward
// slashes independent of the host OS separator; callers join it under the
// destination's include/ subtree and convert at the final filepath.Join.
func (c *Class) RelativeIncludePath() string {
	return path.Clean(c.IncludePath)
}
