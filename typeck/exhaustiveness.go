// Package typeck holds the type-level validators of the middle-end: match
// exhaustiveness over enum constructors and trait-bound satisfaction at
// generic instantiation sites.
package typeck

import (
	"fmt"
	"strings"

	"github.com/ferrite-lang/ferrite/ast"
	"github.com/ferrite-lang/ferrite/diag"
)

// VariantInfo describes one enum constructor for exhaustiveness checking.
type VariantInfo struct {
	Name  string
	Arity int // payload count, 0 for unit variants
}

// EnumInfo is the registry entry for one enum. Variant order is source order.
type EnumInfo struct {
	Name     string
	Variants []VariantInfo
}

// EnumRegistry maps enum names to their variants. It is produced upstream;
// BuildEnumRegistry derives one from a program's enum definitions.
type EnumRegistry map[string]*EnumInfo

// BuildEnumRegistry collects the enum definitions of a program.
func BuildEnumRegistry(prog *ast.Program) EnumRegistry {
	reg := EnumRegistry{}
	for _, item := range prog.Items {
		if e, ok := item.(*ast.EnumDef); ok {
			info := &EnumInfo{Name: e.Name}
			for _, v := range e.Variants {
				info.Variants = append(info.Variants, VariantInfo{Name: v.Name, Arity: v.Arity})
			}
			reg[e.Name] = info
		}
	}
	return reg
}

// PatternKind summarizes a pattern for diagnostics: wildcard, binding, or
// constructor with arity.
type PatternKind struct {
	Wildcard bool
	Binding  string
	Enum     string
	Variant  string
	Arity    int
}

// KindOf summarizes an AST pattern.
func KindOf(p ast.Pattern) PatternKind {
	switch p := p.(type) {
	case *ast.WildcardPat:
		return PatternKind{Wildcard: true}
	case *ast.BindPat:
		return PatternKind{Binding: p.Name}
	case *ast.EnumPat:
		return PatternKind{Enum: p.Enum, Variant: p.Variant, Arity: p.Arity()}
	}
	return PatternKind{}
}

// Checker decides whether the patterns of a match cover the scrutinee type
// exhaustively, and flags unreachable arms.
type Checker struct {
	enums EnumRegistry
}

// NewChecker creates a checker over the given enum registry.
func NewChecker(enums EnumRegistry) *Checker {
	return &Checker{enums: enums}
}

// CheckMatch validates one match. scrutineeType is the name of the matched
// type; when it names a registered enum the constructors are checked against
// the registry, otherwise at least one wildcard or binding arm is required.
func (c *Checker) CheckMatch(scrutineeType string, patterns []ast.Pattern, span ast.Span) *diag.Diagnostic {
	if info, ok := c.enums[scrutineeType]; ok {
		return c.checkEnumMatch(info, patterns, span)
	}
	for _, p := range patterns {
		switch p.(type) {
		case *ast.WildcardPat, *ast.BindPat:
			return nil
		}
	}
	return diag.New(diag.Pattern, diag.CodeNonExhaustive, span,
		"match is not exhaustive; missing patterns: _")
}

func (c *Checker) checkEnumMatch(info *EnumInfo, patterns []ast.Pattern, span ast.Span) *diag.Diagnostic {
	covered := map[string]bool{}
	hasWildcard := false
	type unreachable struct {
		index int
		form  string
	}
	var dead []unreachable

	for i, p := range patterns {
		switch p := p.(type) {
		case *ast.WildcardPat, *ast.BindPat:
			if hasWildcard || len(covered) == len(info.Variants) {
				dead = append(dead, unreachable{i, p.String()})
			}
			hasWildcard = true
		case *ast.EnumPat:
			if p.Enum != info.Name {
				return diag.New(diag.Pattern, diag.CodeTypeMismatch, span,
					"pattern mentions `%s` but the scrutinee is `%s`", p.Enum, info.Name)
			}
			if !hasVariant(info, p.Variant) {
				return diag.New(diag.Pattern, diag.CodeUnknownVariant, span,
					"unknown variant `%s::%s` in match pattern", p.Enum, p.Variant)
			}
			if hasWildcard || covered[p.Variant] {
				dead = append(dead, unreachable{i, p.String()})
			} else {
				covered[p.Variant] = true
			}
		}
	}

	if len(dead) > 0 {
		forms := make([]string, len(dead))
		for i, u := range dead {
			forms[i] = fmt.Sprintf("#%d `%s`", u.index, u.form)
		}
		return diag.New(diag.Pattern, diag.CodeUnreachable, span,
			"unreachable patterns: %s", strings.Join(forms, ", "))
	}

	if !hasWildcard && len(covered) < len(info.Variants) {
		var missing []string
		for _, v := range info.Variants {
			if !covered[v.Name] {
				missing = append(missing, info.Name+"::"+v.Name)
			}
		}
		return diag.New(diag.Pattern, diag.CodeNonExhaustive, span,
			"match is not exhaustive; missing patterns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func hasVariant(info *EnumInfo, name string) bool {
	for _, v := range info.Variants {
		if v.Name == name {
			return true
		}
	}
	return false
}

// Redundancy scans a pattern list without an enum registry and reports arms
// that can never match, with their source-order index and the reason.
func Redundancy(patterns []ast.Pattern) []string {
	var out []string
	seenWildcard := false
	seenVariants := map[string]bool{}
	for i, p := range patterns {
		switch p := p.(type) {
		case *ast.WildcardPat, *ast.BindPat:
			if seenWildcard {
				out = append(out, fmt.Sprintf("#%d `%s`: unreachable", i, p.String()))
			}
			seenWildcard = true
		case *ast.EnumPat:
			key := p.Enum + "::" + p.Variant
			switch {
			case seenWildcard:
				out = append(out, fmt.Sprintf("#%d `%s`: a previous wildcard covers all cases", i, p.String()))
			case seenVariants[key]:
				out = append(out, fmt.Sprintf("#%d `%s`: variant `%s` already covered", i, p.String(), key))
			default:
				seenVariants[key] = true
			}
		}
	}
	return out
}

// CheckProgram validates every match statement in the program. The scrutinee
// type is resolved from declared local types and enum-constructor
// expressions; scrutinees that resolve to no enum fall back to the
// wildcard-required rule.
func (c *Checker) CheckProgram(prog *ast.Program) []*diag.Diagnostic {
	var diags []*diag.Diagnostic
	for _, fn := range prog.Functions() {
		w := &matchWalker{checker: c, localTypes: map[string]string{}}
		for _, p := range fn.Func.Params {
			w.recordType(p.Name, p.Type)
		}
		w.stmts(fn.Func.Body)
		diags = append(diags, w.diags...)
	}
	return diags
}

type matchWalker struct {
	checker    *Checker
	localTypes map[string]string // local name -> named type, "" when unknown
	diags      []*diag.Diagnostic
}

func (w *matchWalker) recordType(name string, t ast.Type) {
	switch t := t.(type) {
	case *ast.Named:
		w.localTypes[name] = t.Name
	case *ast.Generic:
		w.localTypes[name] = t.Name
	default:
		w.localTypes[name] = ""
	}
}

func (w *matchWalker) stmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		w.stmt(s)
	}
}

func (w *matchWalker) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Let:
		if s.Type != nil {
			w.recordType(s.Name, s.Type)
		} else if ctor, ok := s.Init.(*ast.EnumCtor); ok {
			w.localTypes[s.Name] = ctor.Enum
		}
	case *ast.If:
		w.stmts(s.Then)
		w.stmts(s.Else)
	case *ast.While:
		w.stmts(s.Body)
	case *ast.For:
		w.stmts(s.Body)
	case *ast.Unsafe:
		w.stmts(s.Body)
	case *ast.Match:
		patterns := make([]ast.Pattern, len(s.Arms))
		for i, arm := range s.Arms {
			patterns[i] = arm.Pattern
		}
		if d := w.checker.CheckMatch(w.scrutineeType(s.Scrutinee), patterns, s.Span); d != nil {
			w.diags = append(w.diags, d)
		}
		for _, arm := range s.Arms {
			w.stmts(arm.Body)
		}
	}
}

// scrutineeType names the matched type when it can be determined locally.
func (w *matchWalker) scrutineeType(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Ident:
		return w.localTypes[e.Name]
	case *ast.EnumCtor:
		return e.Enum
	case *ast.Deref:
		return w.scrutineeType(e.X)
	}
	return ""
}
