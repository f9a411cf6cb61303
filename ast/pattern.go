package ast

import "strings"

// Pattern is a match-arm pattern.
type Pattern interface {
	Node
	pattern()
}

// WildcardPat matches anything without binding.
type WildcardPat struct {
	Span Span
}

var _ Pattern = &WildcardPat{}

func (p *WildcardPat) pattern()       {}
func (p *WildcardPat) Pos() Span      { return p.Span }
func (p *WildcardPat) String() string { return "_" }

// BindPat matches anything and binds it to a name.
type BindPat struct {
	Name string
	Span Span
}

var _ Pattern = &BindPat{}

func (p *BindPat) pattern()       {}
func (p *BindPat) Pos() Span      { return p.Span }
func (p *BindPat) String() string { return p.Name }

// FieldPat is one named sub-pattern of a struct-variant pattern.
type FieldPat struct {
	Name string
	Pat  Pattern
}

// EnumPat matches one enum constructor. Tuple variants use Args, struct
// variants use Fields; unit variants have neither.
type EnumPat struct {
	Enum    string
	Variant string
	Args    []Pattern
	Fields  []FieldPat
	Span    Span
}

var _ Pattern = &EnumPat{}

func (p *EnumPat) pattern()  {}
func (p *EnumPat) Pos() Span { return p.Span }

func (p *EnumPat) String() string {
	buf := strings.Builder{}
	buf.WriteString(p.Enum)
	buf.WriteString("::")
	buf.WriteString(p.Variant)
	switch {
	case len(p.Args) > 0:
		buf.WriteByte('(')
		for i, a := range p.Args {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(a.String())
		}
		buf.WriteByte(')')
	case len(p.Fields) > 0:
		buf.WriteString(" { ")
		for i, f := range p.Fields {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(f.Name)
			buf.WriteString(": ")
			buf.WriteString(f.Pat.String())
		}
		buf.WriteString(" }")
	}
	return buf.String()
}

// Arity returns the number of payload sub-patterns.
func (p *EnumPat) Arity() int {
	if len(p.Args) > 0 {
		return len(p.Args)
	}
	return len(p.Fields)
}
