package ast

import (
	"fmt"
	"strings"
)

// Type is the representation of a Ferrite type expression. Types are
// immutable once constructed and may be freely shared between nodes; they do
// not carry source spans.
type Type interface {
	// String produces the canonical spelling of the type.
	String() string
	// IsCopy reports whether values of the type are duplicated rather than
	// moved on assignment and call-site binding. User-defined types, strings,
	// arrays, futures and bare type parameters are conservatively non-Copy.
	IsCopy() bool
}

// Prim is a primitive type.
type Prim int

const (
	I32 Prim = iota
	I64
	U32
	U64
	Bool
	String
	Unit
)

var _ Type = I64

func (p Prim) String() string {
	switch p {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case Bool:
		return "bool"
	case String:
		return "String"
	case Unit:
		return "()"
	}
	return fmt.Sprintf("prim(%d)", int(p))
}

func (p Prim) IsCopy() bool { return p != String }

// Named is a user-defined nominal type (struct or enum).
type Named struct {
	Name string
}

var _ Type = &Named{}

func (t *Named) String() string { return t.Name }
func (t *Named) IsCopy() bool   { return false }

// ArraySizeKind distinguishes the three spellings of an array length.
type ArraySizeKind int

const (
	// SizeLiteral is a compile-time integer length.
	SizeLiteral ArraySizeKind = iota
	// SizeConstParam is a length given by a const generic parameter.
	SizeConstParam
	// SizeDynamic is a length not known at compile time.
	SizeDynamic
)

// ArraySize is the length part of an array type.
type ArraySize struct {
	Kind  ArraySizeKind
	N     int64  // SizeLiteral
	Param string // SizeConstParam
}

func (s ArraySize) String() string {
	switch s.Kind {
	case SizeLiteral:
		return fmt.Sprintf("%d", s.N)
	case SizeConstParam:
		return s.Param
	default:
		return "_"
	}
}

// Array is a fixed-element-type array.
type Array struct {
	Elem Type
	Size ArraySize
}

var _ Type = &Array{}

func (t *Array) String() string { return fmt.Sprintf("[%s; %s]", t.Elem, t.Size) }
func (t *Array) IsCopy() bool   { return false }

// Ref is a reference type.
type Ref struct {
	Mut      bool
	Elem     Type
	Lifetime string // optional, without the leading tick
}

var _ Type = &Ref{}

func (t *Ref) String() string {
	buf := strings.Builder{}
	buf.WriteByte('&')
	if t.Lifetime != "" {
		buf.WriteByte('\'')
		buf.WriteString(t.Lifetime)
		buf.WriteByte(' ')
	}
	if t.Mut {
		buf.WriteString("mut ")
	}
	buf.WriteString(t.Elem.String())
	return buf.String()
}

func (t *Ref) IsCopy() bool { return true }

// Future is the type of a suspended async computation.
type Future struct {
	Out Type
}

var _ Type = &Future{}

func (t *Future) String() string { return fmt.Sprintf("Future<%s>", t.Out) }
func (t *Future) IsCopy() bool   { return false }

// Generic is an application of a named generic type to arguments.
type Generic struct {
	Name string
	Args []Type
}

var _ Type = &Generic{}

func (t *Generic) String() string {
	buf := strings.Builder{}
	buf.WriteString(t.Name)
	buf.WriteByte('<')
	for i, a := range t.Args {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(a.String())
	}
	buf.WriteByte('>')
	return buf.String()
}

func (t *Generic) IsCopy() bool { return false }

// TypeParam is an occurrence of a type parameter.
type TypeParam struct {
	Name string
}

var _ Type = &TypeParam{}

func (t *TypeParam) String() string { return t.Name }
func (t *TypeParam) IsCopy() bool   { return false }
