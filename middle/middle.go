// Package middle is the driver of the Ferrite semantic middle-end. It
// sequences the validator passes (borrow checking, match exhaustiveness,
// effect analysis) and the optimizer over a parsed program. Trait-bound
// checking is not run by the driver; typeck.CheckSatisfied is called
// directly with the bounds and type arguments of an instantiation site.
// Validators only read the AST; the optimizer is the sole writer, and the
// driver never interleaves the two.
package middle

import (
	"runtime/debug"

	"github.com/grailbio/base/errors"

	"github.com/ferrite-lang/ferrite/ast"
	"github.com/ferrite-lang/ferrite/diag"
	"github.com/ferrite-lang/ferrite/effects"
	"github.com/ferrite-lang/ferrite/optimizer"
	"github.com/ferrite-lang/ferrite/ownership"
	"github.com/ferrite-lang/ferrite/typeck"
)

// Recover runs the given function, catching any panic thrown by the
// function and turning it into an error. Panics out of the middle-end are
// compiler bugs, not user errors; callers get them as errors instead of a
// crash. If the function finishes without panicking, Recover returns nil.
func Recover(cb func()) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.E("panic %v: %v", e, string(debug.Stack()))
		}
	}()
	cb()
	return nil
}

// CheckProgram runs every validator over the program: borrow checking of
// all function and impl-method bodies, and exhaustiveness of every match.
// The enum registry is derived from the program's own enum definitions.
// All diagnostics are returned; none repair the AST.
func CheckProgram(prog *ast.Program) []*diag.Diagnostic {
	diags := ownership.NewChecker().CheckProgram(prog)
	registry := typeck.BuildEnumRegistry(prog)
	diags = append(diags, typeck.NewChecker(registry).CheckProgram(prog)...)
	return diags
}

// AnalyzeEffects computes effect sets for every function and impl method
// and returns the analyzer for queries.
func AnalyzeEffects(prog *ast.Program) *effects.Analyzer {
	a := effects.NewAnalyzer()
	a.AnalyzeProgram(prog)
	return a
}

// Optimize rewrites the program to its optimized fixed point. The optimizer
// emits no diagnostics by contract; a panic inside it is a compiler bug and
// comes back as an error.
func Optimize(prog *ast.Program) error {
	return Recover(func() {
		optimizer.New().Optimize(prog)
	})
}
