package class

import "github.com/apache/lucy-clownfish/internal/symbol"

// Variable is a typed, named slot: either a member variable (contributes
// to instance layout) or an inert (class-static) variable.
type Variable struct {
	Class    *Class
	Name     string
	Type     *Type
	Exposure symbol.Exposure
	Inert    bool

	ShortSym string
	FullSym  string
}

// NewVariable constructs a Variable and derives its symbols from the
// owning class's nickname and parcel prefix.
func NewVariable(owner *Class, name string, t *Type, exposure symbol.Exposure, inert bool) (*Variable, error) {
	if err := symbol.ValidateIdentifier(name); err != nil {
		return nil, err
	}
	short := symbol.ShortSym(owner.Nickname, name)
	return &Variable{
		Class:    owner,
		Name:     name,
		Type:     t,
		Exposure: exposure,
		Inert:    inert,
		ShortSym: short,
		FullSym:  symbol.FullSym(owner.Parcel.Prefix(), short),
	}, nil
}
