// Package decl implements the minimal concrete parser for Clownfish
// declaration files ("*.cfh"). spec.md places the declaration-language
// lexer/parser out of scope — "referenced only through their
// interfaces" — so this package is deliberately small: just enough of
// the textual subset shown in spec.md §6 to drive the hierarchy and
// emission pipeline end-to-end. It hands back a neutral AST; the
// hierarchy driver (internal/hierarchy) is responsible for turning it
// into the semantic class.Class/Method/Variable model.
package decl

// Type is the AST spelling of a declared type, before any semantic
// resolution. Exactly one of Primitive or ClassName is meaningful,
// depending on IsObject.
type Type struct {
	IsObject  bool
	Primitive string // e.g. "int32_t", "void", "bool" when !IsObject
	ClassName string // short (unprefixed) class name when IsObject

	Nullable    bool
	Incremented bool
	Decremented bool
	Array       bool // "Type[]"
}

// Param is a single declared parameter.
type Param struct {
	Name string
	Type *Type
}

// Method is a declared method (self is Params[0]).
type Method struct {
	Name         string
	Params       []Param
	Return       *Type
	Exposure     string // "", "public", "private", "parcel"
	Final        bool
	Abstract     bool
	HostAlias    string
	HostExcluded bool
	DocComment   string
}

// Function is a declared class-static function (no self).
type Function struct {
	Name       string
	Params     []Param
	Return     *Type
	Exposure   string
	DocComment string
}

// Variable is a declared member or inert variable.
type Variable struct {
	Name       string
	Type       *Type
	Exposure   string
	Inert      bool
	DocComment string
}

// Class is a declared class block.
type Class struct {
	Name       string
	Nickname   string
	ParentName string
	DocComment string
	Final      bool
	Inert      bool

	Methods    []Method
	Functions  []Function
	MemberVars []Variable
	InertVars  []Variable
}

// File is the parse result of a single ".cfh" declaration file: a parcel
// statement followed by zero or more class blocks.
type File struct {
	ParcelName string
	Classes    []Class
}
