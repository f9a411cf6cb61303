package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// BinOp is a binary operator.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Gt
	Le
	Ge
	And
	Or
)

func (op BinOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Gt:
		return ">"
	case Le:
		return "<="
	case Ge:
		return ">="
	case And:
		return "&&"
	case Or:
		return "||"
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// IsComparison reports whether the operator yields a boolean from two
// integer operands.
func (op BinOp) IsComparison() bool {
	return op >= Eq && op <= Ge
}

// UnOp is a unary operator.
type UnOp int

const (
	Neg UnOp = iota
	Not
)

func (op UnOp) String() string {
	if op == Neg {
		return "-"
	}
	return "!"
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Span  Span
}

var _ Expr = &IntLit{}

func (e *IntLit) expr()          {}
func (e *IntLit) Pos() Span      { return e.Span }
func (e *IntLit) String() string { return strconv.FormatInt(e.Value, 10) }

// StringLit is a string literal.
type StringLit struct {
	Value string
	Span  Span
}

var _ Expr = &StringLit{}

func (e *StringLit) expr()          {}
func (e *StringLit) Pos() Span      { return e.Span }
func (e *StringLit) String() string { return strconv.Quote(e.Value) }

// BoolLit is a boolean literal.
type BoolLit struct {
	Value bool
	Span  Span
}

var _ Expr = &BoolLit{}

func (e *BoolLit) expr()     {}
func (e *BoolLit) Pos() Span { return e.Span }
func (e *BoolLit) String() string {
	if e.Value {
		return "true"
	}
	return "false"
}

// Ident is a reference to a named binding or function.
type Ident struct {
	Name string
	Span Span
}

var _ Expr = &Ident{}

func (e *Ident) expr()          {}
func (e *Ident) Pos() Span      { return e.Span }
func (e *Ident) String() string { return e.Name }

// Call applies a callee to arguments. Argument order matches parameter order.
type Call struct {
	Fn   Expr
	Args []Expr
	Span Span
}

var _ Expr = &Call{}

func (e *Call) expr()     {}
func (e *Call) Pos() Span { return e.Span }

func (e *Call) String() string {
	buf := strings.Builder{}
	buf.WriteString(e.Fn.String())
	buf.WriteByte('(')
	for i, a := range e.Args {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(a.String())
	}
	buf.WriteByte(')')
	return buf.String()
}

// Binary is a binary operation.
type Binary struct {
	Op   BinOp
	L, R Expr
	Span Span
}

var _ Expr = &Binary{}

func (e *Binary) expr()     {}
func (e *Binary) Pos() Span { return e.Span }
func (e *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", e.L, e.Op, e.R)
}

// Unary is a unary operation.
type Unary struct {
	Op   UnOp
	X    Expr
	Span Span
}

var _ Expr = &Unary{}

func (e *Unary) expr()          {}
func (e *Unary) Pos() Span      { return e.Span }
func (e *Unary) String() string { return e.Op.String() + e.X.String() }

// Index reads an array element.
type Index struct {
	Array Expr
	Idx   Expr
	Span  Span
}

var _ Expr = &Index{}

func (e *Index) expr()     {}
func (e *Index) Pos() Span { return e.Span }
func (e *Index) String() string {
	return fmt.Sprintf("%s[%s]", e.Array, e.Idx)
}

// FieldAccess reads a struct field.
type FieldAccess struct {
	X     Expr
	Field string
	Span  Span
}

var _ Expr = &FieldAccess{}

func (e *FieldAccess) expr()     {}
func (e *FieldAccess) Pos() Span { return e.Span }
func (e *FieldAccess) String() string {
	return fmt.Sprintf("%s.%s", e.X, e.Field)
}

// FieldInit is one field of a struct literal or named enum constructor.
// Field order is source order.
type FieldInit struct {
	Name  string
	Value Expr
}

// StructLit constructs a struct value.
type StructLit struct {
	Name   string
	Fields []FieldInit
	Span   Span
}

var _ Expr = &StructLit{}

func (e *StructLit) expr()     {}
func (e *StructLit) Pos() Span { return e.Span }

func (e *StructLit) String() string {
	buf := strings.Builder{}
	buf.WriteString(e.Name)
	buf.WriteString(" { ")
	for i, f := range e.Fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(f.Name)
		buf.WriteString(": ")
		buf.WriteString(f.Value.String())
	}
	buf.WriteString(" }")
	return buf.String()
}

// EnumCtor constructs an enum value. A unit variant has neither Args nor
// Fields; tuple variants use Args, struct variants use Fields.
type EnumCtor struct {
	Enum    string
	Variant string
	Args    []Expr
	Fields  []FieldInit
	Span    Span
}

var _ Expr = &EnumCtor{}

func (e *EnumCtor) expr()     {}
func (e *EnumCtor) Pos() Span { return e.Span }

func (e *EnumCtor) String() string {
	buf := strings.Builder{}
	buf.WriteString(e.Enum)
	buf.WriteString("::")
	buf.WriteString(e.Variant)
	switch {
	case len(e.Args) > 0:
		buf.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(a.String())
		}
		buf.WriteByte(')')
	case len(e.Fields) > 0:
		buf.WriteString(" { ")
		for i, f := range e.Fields {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(f.Name)
			buf.WriteString(": ")
			buf.WriteString(f.Value.String())
		}
		buf.WriteString(" }")
	}
	return buf.String()
}

// ArrayLit constructs an array from element expressions.
type ArrayLit struct {
	Elems []Expr
	Span  Span
}

var _ Expr = &ArrayLit{}

func (e *ArrayLit) expr()     {}
func (e *ArrayLit) Pos() Span { return e.Span }

func (e *ArrayLit) String() string {
	buf := strings.Builder{}
	buf.WriteByte('[')
	for i, el := range e.Elems {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(el.String())
	}
	buf.WriteByte(']')
	return buf.String()
}

// ArrayRepeat constructs an array of Count copies of Value.
type ArrayRepeat struct {
	Value Expr
	Count Expr
	Span  Span
}

var _ Expr = &ArrayRepeat{}

func (e *ArrayRepeat) expr()     {}
func (e *ArrayRepeat) Pos() Span { return e.Span }
func (e *ArrayRepeat) String() string {
	return fmt.Sprintf("[%s; %s]", e.Value, e.Count)
}

// Range is a half-open range expression.
type Range struct {
	Start Expr
	End   Expr
	Span  Span
}

var _ Expr = &Range{}

func (e *Range) expr()     {}
func (e *Range) Pos() Span { return e.Span }
func (e *Range) String() string {
	return fmt.Sprintf("%s..%s", e.Start, e.End)
}

// Reference takes a shared or exclusive reference to a place.
type Reference struct {
	Mut  bool
	X    Expr
	Span Span
}

var _ Expr = &Reference{}

func (e *Reference) expr()     {}
func (e *Reference) Pos() Span { return e.Span }
func (e *Reference) String() string {
	if e.Mut {
		return "&mut " + e.X.String()
	}
	return "&" + e.X.String()
}

// Deref reads through a reference.
type Deref struct {
	X    Expr
	Span Span
}

var _ Expr = &Deref{}

func (e *Deref) expr()          {}
func (e *Deref) Pos() Span      { return e.Span }
func (e *Deref) String() string { return "*" + e.X.String() }

// Question is the error-propagation operator. It models an implicit early
// return, which the effect analyzer records as a Panic effect.
type Question struct {
	X    Expr
	Span Span
}

var _ Expr = &Question{}

func (e *Question) expr()          {}
func (e *Question) Pos() Span      { return e.Span }
func (e *Question) String() string { return e.X.String() + "?" }

// Await suspends on a future.
type Await struct {
	X    Expr
	Span Span
}

var _ Expr = &Await{}

func (e *Await) expr()          {}
func (e *Await) Pos() Span      { return e.Span }
func (e *Await) String() string { return e.X.String() + ".await" }

// MacroCall is an unexpanded macro invocation. Macros are expanded before
// the semantic passes run; one reaching this layer is a compiler bug and is
// reported as an internal diagnostic.
type MacroCall struct {
	Name string
	Args []Expr
	Span Span
}

var _ Expr = &MacroCall{}

func (e *MacroCall) expr()     {}
func (e *MacroCall) Pos() Span { return e.Span }

func (e *MacroCall) String() string {
	buf := strings.Builder{}
	buf.WriteString(e.Name)
	buf.WriteString("!(")
	for i, a := range e.Args {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(a.String())
	}
	buf.WriteByte(')')
	return buf.String()
}
