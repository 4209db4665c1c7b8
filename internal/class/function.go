package class

import "github.com/apache/lucy-clownfish/internal/symbol"

// Function is a class-static operation: unlike a Method it has no self
// parameter, never overrides, and occupies no vtable slot.
type Function struct {
	Class    *Class
	Name     string
	Params   []Param
	Return   *Type
	Exposure symbol.Exposure
	DocComment string

	ShortSym    string
	FullSym     string
	ImplFuncSym string
}

// NewFunction constructs a Function and derives its symbols.
func NewFunction(owner *Class, name string, params []Param, ret *Type, exposure symbol.Exposure) (*Function, error) {
	if err := symbol.ValidateIdentifier(name); err != nil {
		return nil, err
	}
	short := symbol.ShortSym(owner.Nickname, name)
	return &Function{
		Class:       owner,
		Name:        name,
		Params:      params,
		Return:      ret,
		Exposure:    exposure,
		ShortSym:    short,
		FullSym:     symbol.FullSym(owner.Parcel.Prefix(), short),
		ImplFuncSym: symbol.ImplFuncSym(owner.Parcel.Prefix(), owner.Nickname, name),
	}, nil
}
