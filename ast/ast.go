// Package ast defines the abstract syntax tree shared by every pass of the
// Ferrite middle-end. One node is created for each syntactic element found in
// the source; every node retains the span of that element. The validator
// passes read the tree; only the optimizer rewrites it, and rewrites always
// substitute whole nodes.
package ast

import (
	"fmt"
	"strings"
)

// Node is the interface implemented by every AST node.
type Node interface {
	// Pos reports the location of this node in the source file.
	Pos() Span
	// String produces a human-readable rendering of the node. The result is
	// the canonical pretty-printed form used in diagnostics; for the
	// expression subset accepted by the parser it re-parses to a structurally
	// equal tree.
	String() string
}

// Program is the root of a compilation unit: an ordered sequence of top-level
// items.
type Program struct {
	Items []Item
}

func (p *Program) String() string {
	buf := strings.Builder{}
	for _, item := range p.Items {
		buf.WriteString(item.String())
		buf.WriteByte('\n')
	}
	return buf.String()
}

// Item is a top-level program item. Only functions and impl-block methods
// carry executable statements.
type Item interface {
	Node
	item()
}

// Visibility of a top-level item.
type Visibility int

const (
	Private Visibility = iota
	Public
)

// Param is one formal function parameter. Parameter order defines call-site
// argument binding.
type Param struct {
	Name    string
	Type    Type
	Mutable bool
}

func (p Param) String() string {
	buf := strings.Builder{}
	if p.Mutable {
		buf.WriteString("mut ")
	}
	buf.WriteString(p.Name)
	buf.WriteString(": ")
	buf.WriteString(p.Type.String())
	return buf.String()
}

// Function is a function definition, either free-standing or an impl method.
type Function struct {
	Vis            Visibility
	IsAsync        bool
	Name           string
	LifetimeParams []string
	TypeParams     []string
	ConstParams    []string
	Params         []Param
	Return         Type // nil means unit
	Body           []Stmt
	Span           Span
}

var _ Item = &Function{}

func (f *Function) item()     {}
func (f *Function) Pos() Span { return f.Span }

func (f *Function) String() string {
	buf := strings.Builder{}
	if f.Vis == Public {
		buf.WriteString("pub ")
	}
	if f.IsAsync {
		buf.WriteString("async ")
	}
	buf.WriteString("fn ")
	buf.WriteString(f.Name)
	if n := len(f.LifetimeParams) + len(f.TypeParams) + len(f.ConstParams); n > 0 {
		buf.WriteByte('<')
		i := 0
		for _, l := range f.LifetimeParams {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteByte('\'')
			buf.WriteString(l)
			i++
		}
		for _, p := range f.TypeParams {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(p)
			i++
		}
		for _, c := range f.ConstParams {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString("const ")
			buf.WriteString(c)
			i++
		}
		buf.WriteByte('>')
	}
	buf.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(p.String())
	}
	buf.WriteByte(')')
	if f.Return != nil {
		buf.WriteString(" -> ")
		buf.WriteString(f.Return.String())
	}
	buf.WriteString(" {\n")
	writeStmts(&buf, f.Body, 1)
	buf.WriteString("}")
	return buf.String()
}

// FieldDef is one field of a struct definition.
type FieldDef struct {
	Name string
	Type Type
}

// StructDef is a struct definition.
type StructDef struct {
	Vis    Visibility
	Name   string
	Fields []FieldDef
	Span   Span
}

var _ Item = &StructDef{}

func (s *StructDef) item()     {}
func (s *StructDef) Pos() Span { return s.Span }

func (s *StructDef) String() string {
	buf := strings.Builder{}
	buf.WriteString("struct ")
	buf.WriteString(s.Name)
	buf.WriteString(" {\n")
	for _, f := range s.Fields {
		fmt.Fprintf(&buf, "    %s: %s,\n", f.Name, f.Type)
	}
	buf.WriteString("}")
	return buf.String()
}

// Variant is one constructor of an enum. Arity is the number of payload
// fields; zero for unit variants.
type Variant struct {
	Name  string
	Arity int
}

// EnumDef is an enum definition. Variant order is source order.
type EnumDef struct {
	Vis      Visibility
	Name     string
	Variants []Variant
	Span     Span
}

var _ Item = &EnumDef{}

func (e *EnumDef) item()     {}
func (e *EnumDef) Pos() Span { return e.Span }

func (e *EnumDef) String() string {
	buf := strings.Builder{}
	buf.WriteString("enum ")
	buf.WriteString(e.Name)
	buf.WriteString(" {\n")
	for _, v := range e.Variants {
		buf.WriteString("    ")
		buf.WriteString(v.Name)
		if v.Arity > 0 {
			buf.WriteByte('(')
			for i := 0; i < v.Arity; i++ {
				if i > 0 {
					buf.WriteString(", ")
				}
				buf.WriteByte('_')
			}
			buf.WriteByte(')')
		}
		buf.WriteString(",\n")
	}
	buf.WriteString("}")
	return buf.String()
}

// TraitDef declares a trait and its method signatures. Method bodies, if
// present, are defaults and are not analyzed by the middle-end.
type TraitDef struct {
	Vis     Visibility
	Name    string
	Methods []*Function
	Span    Span
}

var _ Item = &TraitDef{}

func (t *TraitDef) item()     {}
func (t *TraitDef) Pos() Span { return t.Span }

func (t *TraitDef) String() string {
	buf := strings.Builder{}
	buf.WriteString("trait ")
	buf.WriteString(t.Name)
	buf.WriteString(" { ")
	for i, m := range t.Methods {
		if i > 0 {
			buf.WriteString("; ")
		}
		buf.WriteString("fn ")
		buf.WriteString(m.Name)
	}
	buf.WriteString(" }")
	return buf.String()
}

// ImplBlock attaches methods to a type, optionally implementing a trait.
type ImplBlock struct {
	Trait   string // empty for inherent impls
	ForType string
	Methods []*Function
	Span    Span
}

var _ Item = &ImplBlock{}

func (i *ImplBlock) item()     {}
func (i *ImplBlock) Pos() Span { return i.Span }

func (i *ImplBlock) String() string {
	buf := strings.Builder{}
	buf.WriteString("impl ")
	if i.Trait != "" {
		buf.WriteString(i.Trait)
		buf.WriteString(" for ")
	}
	buf.WriteString(i.ForType)
	buf.WriteString(" {\n")
	for _, m := range i.Methods {
		buf.WriteString(indentLines(m.String(), 1))
		buf.WriteByte('\n')
	}
	buf.WriteString("}")
	return buf.String()
}

// TypeAlias names an existing type.
type TypeAlias struct {
	Vis     Visibility
	Name    string
	Aliased Type
	Span    Span
}

var _ Item = &TypeAlias{}

func (t *TypeAlias) item()     {}
func (t *TypeAlias) Pos() Span { return t.Span }
func (t *TypeAlias) String() string {
	return fmt.Sprintf("type %s = %s;", t.Name, t.Aliased)
}

// ConstDef is a top-level constant.
type ConstDef struct {
	Vis   Visibility
	Name  string
	Type  Type
	Value Expr
	Span  Span
}

var _ Item = &ConstDef{}

func (c *ConstDef) item()     {}
func (c *ConstDef) Pos() Span { return c.Span }
func (c *ConstDef) String() string {
	return fmt.Sprintf("const %s: %s = %s;", c.Name, c.Type, c.Value)
}

// Import brings a module path into scope. Resolution happens upstream; the
// middle-end carries imports through unchanged.
type Import struct {
	Path string
	Span Span
}

var _ Item = &Import{}

func (i *Import) item()     {}
func (i *Import) Pos() Span { return i.Span }
func (i *Import) String() string {
	return fmt.Sprintf("import %s;", i.Path)
}

// Functions returns every function in the program with a body to analyze,
// in item order: a free function under its own name, and the methods of an
// impl block, at that block's position, under their qualified
// "Type::method" name.
func (p *Program) Functions() []NamedFunction {
	var out []NamedFunction
	for _, item := range p.Items {
		switch item := item.(type) {
		case *Function:
			out = append(out, NamedFunction{item.Name, item})
		case *ImplBlock:
			for _, m := range item.Methods {
				out = append(out, NamedFunction{item.ForType + "::" + m.Name, m})
			}
		}
	}
	return out
}

// NamedFunction pairs a function with the name it is registered under.
// Impl methods are qualified as "Type::method".
type NamedFunction struct {
	Name string
	Func *Function
}

func indentLines(s string, depth int) string {
	pad := strings.Repeat("    ", depth)
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}
