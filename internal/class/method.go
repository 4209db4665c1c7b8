package class

import (
	"github.com/apache/lucy-clownfish/internal/cferr"
	"github.com/apache/lucy-clownfish/internal/symbol"
)

// Method is a virtual operation on an object class. Its first Param is
// always self.
type Method struct {
	Class    *Class // the class this slot's implementation is declared on
	Name     string
	Params   []Param
	Return   *Type

	Novel    bool
	Final    bool
	Abstract bool
	Exposure symbol.Exposure

	HostAlias    string
	HostExcluded bool

	// Override points at the nearest ancestor method of the same name
	// this one replaces; nil for novel methods.
	Override *Method

	DocComment string

	// Symbols are derived relative to Class (the class that declared this
	// fresh method), and are carried forward unchanged into every
	// subclass's inherited table slot, per spec.md's offset-stability
	// invariant: "Overrides reuse the offset of the originating method."
	ShortSym    string
	FullSym     string // a.k.a. the dispatch macro symbol
	ImplFuncSym string
	OffsetSym   string
	TypedefSym  string
}

// NewMethod constructs a fresh Method declared on owner and derives its
// symbols. params must include self as the first entry.
func NewMethod(owner *Class, name string, params []Param, ret *Type, exposure symbol.Exposure, final, abstract bool) (*Method, error) {
	if err := symbol.ValidateIdentifier(name); err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return nil, cferr.Semanticf("method %s.%s: missing self parameter", owner.Name, name)
	}
	short := symbol.ShortSym(owner.Nickname, name)
	full := symbol.FullSym(owner.Parcel.Prefix(), short)
	m := &Method{
		Class:       owner,
		Name:        name,
		Params:      params,
		Return:      ret,
		Final:       final,
		Abstract:    abstract,
		Exposure:    exposure,
		Novel:       true, // corrected by the tree-growth override scan
		ShortSym:    short,
		FullSym:     full,
		ImplFuncSym: symbol.ImplFuncSym(owner.Parcel.Prefix(), owner.Nickname, name),
		OffsetSym:   symbol.OffsetSym(full),
		TypedefSym:  symbol.TypedefSym(full),
	}
	return m, nil
}

// finalize returns a copy of m with Final forced true, used to promote
// every slot of a final class's method table (spec.md §4.C step 3).
func (m *Method) finalize() *Method {
	clone := *m
	clone.Final = true
	return &clone
}

// compatibleOverride validates that child may override parent, per spec.md's Method
// invariants: arity must match, and every non-self parameter type must
// match exactly while self may narrow to the subclass.
func (parent *Method) compatibleOverride(child *Method) error {
	if parent.Final {
		return cferr.Semanticf("final method %s cannot be overridden", parent.Name)
	}
	if len(parent.Params) != len(child.Params) {
		return cferr.Semanticf("method %s: override has %d parameters, expected %d",
			child.Name, len(child.Params), len(parent.Params))
	}
	for i := 1; i < len(parent.Params); i++ {
		if !parent.Params[i].Type.Equal(child.Params[i].Type) {
			return cferr.Semanticf("method %s: override parameter %d type %s does not match overridden type %s",
				child.Name, i, child.Params[i].Type, parent.Params[i].Type)
		}
	}
	return nil
}
