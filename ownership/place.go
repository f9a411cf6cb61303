// Package ownership implements the flow-sensitive ownership and borrow
// analysis of the Ferrite middle-end: places, per-place ownership states,
// lexical lifetimes, the scope-stack context, and the borrow checker that
// drives it over function bodies.
package ownership

import (
	"fmt"

	"github.com/ferrite-lang/ferrite/ast"
	"github.com/ferrite-lang/ferrite/symbol"
)

// PlaceKind discriminates the variants of Place.
type PlaceKind int

const (
	// KindLocal is a parameter or let-bound variable.
	KindLocal PlaceKind = iota
	// KindField is a field projection of a base place.
	KindField
	// KindIndex is an element projection of a base place. The index is a
	// symbolic token; runtime index equality is not tracked.
	KindIndex
	// KindTemp is a fresh place minted for a synthesized rvalue.
	KindTemp
)

// Place symbolically identifies an l-value: a local, a field or index
// projection of another place, or a temporary.
type Place struct {
	Kind  PlaceKind
	Name  symbol.ID // KindLocal: variable; KindField: field name
	Base  *Place    // KindField, KindIndex
	Index string    // KindIndex: symbolic token, e.g. "dynamic"
	Temp  int       // KindTemp
}

// LocalPlace makes a place for a named local.
func LocalPlace(name symbol.ID) Place {
	return Place{Kind: KindLocal, Name: name}
}

// FieldPlace makes a field projection of base.
func FieldPlace(base Place, field symbol.ID) Place {
	return Place{Kind: KindField, Name: field, Base: &base}
}

// IndexPlace makes an index projection of base with a symbolic index token.
func IndexPlace(base Place, index string) Place {
	return Place{Kind: KindIndex, Base: &base, Index: index}
}

// String renders the place the way it would appear in source.
func (p Place) String() string {
	switch p.Kind {
	case KindLocal:
		return p.Name.Str()
	case KindField:
		return p.Base.String() + "." + p.Name.Str()
	case KindIndex:
		return fmt.Sprintf("%s[%s]", p.Base, p.Index)
	default:
		return fmt.Sprintf("$t%d", p.Temp)
	}
}

// key returns the canonical map key for the place.
func (p Place) key() string { return p.String() }

// ExprToPlace derives the place named by an expression. ok is false when the
// expression denotes a temporary rather than an l-value.
func ExprToPlace(e ast.Expr) (Place, bool) {
	switch e := e.(type) {
	case *ast.Ident:
		return LocalPlace(symbol.Intern(e.Name)), true
	case *ast.FieldAccess:
		base, ok := ExprToPlace(e.X)
		if !ok {
			return Place{}, false
		}
		return FieldPlace(base, symbol.Intern(e.Field)), true
	case *ast.Index:
		base, ok := ExprToPlace(e.Array)
		if !ok {
			return Place{}, false
		}
		return IndexPlace(base, "dynamic"), true
	case *ast.Deref:
		return ExprToPlace(e.X)
	}
	return Place{}, false
}
