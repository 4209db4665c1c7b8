// Package class implements the Clownfish class model (spec.md §4.C):
// classes, methods, functions, member variables, type resolution, and
// inheritance-tree growth (ancestry, method-table bequest and override,
// final-class specialization).
package class

import (
	"fmt"
	"strings"
)

// Primitive enumerates the primitive C types a Clownfish Type can spell.
type Primitive int

const (
	Void Primitive = iota
	Bool
	Char
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
	SizeT
)

func (p Primitive) cSpelling() string {
	switch p {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Char:
		return "char"
	case Int8:
		return "int8_t"
	case Int16:
		return "int16_t"
	case Int32:
		return "int32_t"
	case Int64:
		return "int64_t"
	case UInt8:
		return "uint8_t"
	case UInt16:
		return "uint16_t"
	case UInt32:
		return "uint32_t"
	case UInt64:
		return "uint64_t"
	case Float32:
		return "float"
	case Float64:
		return "double"
	case SizeT:
		return "size_t"
	default:
		return "void"
	}
}

// Kind distinguishes the three Type shapes spec.md §3 describes.
type Kind int

const (
	KindPrimitive Kind = iota
	KindObject
	KindArray
)

// Type is a resolved or to-be-resolved Clownfish type. Object types carry
// an unresolved class-name string until ResolveTypes runs, after which
// Class points at the resolved owner.
type Type struct {
	Kind      Kind
	Primitive Primitive

	// ClassName is the (possibly short, unprefixed) class name as written
	// in the declaration; set only when Kind == KindObject.
	ClassName string
	Class     *Class // filled in by ResolveTypes

	Nullable    bool
	Incremented bool
	Decremented bool

	// Elem is the element type of an array-of composite; set only when
	// Kind == KindArray.
	Elem *Type
}

// NewPrimitiveType builds a primitive Type.
func NewPrimitiveType(p Primitive) *Type { return &Type{Kind: KindPrimitive, Primitive: p} }

// NewObjectType builds an unresolved object Type naming className as
// written in the declaration file.
func NewObjectType(className string, nullable, incremented, decremented bool) *Type {
	return &Type{
		Kind:        KindObject,
		ClassName:   className,
		Nullable:    nullable,
		Incremented: incremented,
		Decremented: decremented,
	}
}

// NewArrayType builds an array-of composite Type.
func NewArrayType(elem *Type) *Type { return &Type{Kind: KindArray, Elem: elem} }

// CSpelling renders the C spelling of this type for emission into
// per-class headers and typedefs.
func (t *Type) CSpelling() string {
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive.cSpelling()
	case KindObject:
		sym := t.ClassName
		if t.Class != nil {
			sym = t.Class.FullStructSym
		}
		return sym + "*"
	case KindArray:
		return t.Elem.CSpelling() + "*"
	default:
		return "void"
	}
}

// IsObject reports whether t is a pointer-to-class type.
func (t *Type) IsObject() bool { return t.Kind == KindObject }

// Equal reports whether two types are structurally identical, used when
// validating that an overriding method's non-self parameters match the
// overridden method exactly.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive == o.Primitive
	case KindObject:
		tn, on := t.ClassName, o.ClassName
		if t.Class != nil {
			tn = t.Class.Name
		}
		if o.Class != nil {
			on = o.Class.Name
		}
		return tn == on && t.Nullable == o.Nullable &&
			t.Incremented == o.Incremented && t.Decremented == o.Decremented
	case KindArray:
		return t.Elem.Equal(o.Elem)
	default:
		return false
	}
}

func (t *Type) String() string {
	var b strings.Builder
	if t.Kind == KindObject {
		if t.Nullable {
			b.WriteString("nullable ")
		}
		if t.Incremented {
			b.WriteString("incremented ")
		}
		if t.Decremented {
			b.WriteString("decremented ")
		}
	}
	b.WriteString(t.CSpelling())
	return b.String()
}

// Param is a single method/function parameter. By convention the first
// Param of a Method is "self".
type Param struct {
	Name string
	Type *Type
}

func (p Param) String() string { return fmt.Sprintf("%s %s", p.Type, p.Name) }
