package typeck

import (
	"sort"
	"strings"

	"github.com/ferrite-lang/ferrite/ast"
	"github.com/ferrite-lang/ferrite/diag"
)

// GenericBounds carries the trait bounds of one generic item: type parameter
// name to the set of traits its arguments must implement.
type GenericBounds struct {
	bounds map[string][]string
}

// NewGenericBounds creates an empty bound set.
func NewGenericBounds() *GenericBounds {
	return &GenericBounds{bounds: map[string][]string{}}
}

// Add records that typeParam requires traitName. Duplicates are kept out.
func (g *GenericBounds) Add(typeParam, traitName string) {
	for _, t := range g.bounds[typeParam] {
		if t == traitName {
			return
		}
	}
	g.bounds[typeParam] = append(g.bounds[typeParam], traitName)
}

// Has reports whether typeParam is bounded by traitName.
func (g *GenericBounds) Has(typeParam, traitName string) bool {
	for _, t := range g.bounds[typeParam] {
		if t == traitName {
			return true
		}
	}
	return false
}

// Get returns the traits required of typeParam, in insertion order.
func (g *GenericBounds) Get(typeParam string) []string {
	return append([]string(nil), g.bounds[typeParam]...)
}

// Params returns the bounded type parameters, sorted.
func (g *GenericBounds) Params() []string {
	params := make([]string, 0, len(g.bounds))
	for p := range g.bounds {
		params = append(params, p)
	}
	sort.Strings(params)
	return params
}

// Merge unions two bound sets into a new one, deduplicated per parameter.
func Merge(a, b *GenericBounds) *GenericBounds {
	out := NewGenericBounds()
	for _, g := range []*GenericBounds{a, b} {
		if g == nil {
			continue
		}
		for param, traits := range g.bounds {
			for _, t := range traits {
				out.Add(param, t)
			}
		}
	}
	return out
}

// ImplOracle answers whether a concrete type implements a trait. It is the
// registry of impl blocks, owned by the caller.
type ImplOracle func(t ast.Type, traitName string) bool

// CheckSatisfied verifies that each bounded parameter's concrete argument,
// when present in typeArgs, implements every required trait. It fails with
// an unimplemented-trait diagnostic on the first mismatch; parameters are
// visited in sorted order so the first mismatch is deterministic.
func CheckSatisfied(bounds *GenericBounds, typeArgs map[string]ast.Type, oracle ImplOracle, span ast.Span) *diag.Diagnostic {
	for _, param := range bounds.Params() {
		concrete, ok := typeArgs[param]
		if !ok {
			continue
		}
		for _, traitName := range bounds.bounds[param] {
			if !oracle(concrete, traitName) {
				return diag.New(diag.Bounds, diag.CodeUnimplementedTrait, span,
					"type `%s` does not implement trait `%s`", concrete, traitName)
			}
		}
	}
	return nil
}

// ParseBounds derives bounds from a function's type-parameter spellings.
// A parameter written "T_Display_Debug" bounds T by Display and Debug; this
// encoding is the bound syntax until the surface grammar grows a real one.
func ParseBounds(f *ast.Function) *GenericBounds {
	bounds := NewGenericBounds()
	for _, param := range f.TypeParams {
		if !strings.Contains(param, "_") {
			continue
		}
		parts := strings.Split(param, "_")
		for _, traitName := range parts[1:] {
			if traitName != "" {
				bounds.Add(parts[0], traitName)
			}
		}
	}
	return bounds
}

// BuildImplOracle derives an ImplOracle from a program's impl blocks. Only
// named types can implement traits under this registry.
func BuildImplOracle(prog *ast.Program) ImplOracle {
	impls := map[string]bool{}
	for _, item := range prog.Items {
		if impl, ok := item.(*ast.ImplBlock); ok && impl.Trait != "" {
			impls[impl.ForType+":"+impl.Trait] = true
		}
	}
	return func(t ast.Type, traitName string) bool {
		name := ""
		switch t := t.(type) {
		case *ast.Named:
			name = t.Name
		case *ast.Generic:
			name = t.Name
		case ast.Prim:
			name = t.String()
		default:
			return false
		}
		return impls[name+":"+traitName]
	}
}
