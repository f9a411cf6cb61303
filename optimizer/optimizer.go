// Package optimizer rewrites the AST into a semantically equivalent but
// simplified form: constant folding, dead-code elimination, and expression
// simplification, run by a pass manager to a fixed point. Validator passes
// never see the optimizer's output; the driver sequences them strictly
// before it.
package optimizer

import (
	"github.com/grailbio/base/log"

	"github.com/ferrite-lang/ferrite/ast"
)

// maxIterations caps the fixed-point loop as a safety net against
// non-confluent pass interactions.
const maxIterations = 10

// Pass is one AST-to-AST rewrite. Statement entry points consume a statement
// vector and return its replacement, so passes can prune and splice
// statements rather than only rewriting expressions in place. Every entry
// point reports whether it changed anything.
type Pass interface {
	// Name identifies the pass in logs.
	Name() string
	// OptimizeProgram rewrites every function body in the program.
	OptimizeProgram(prog *ast.Program) bool
	// OptimizeStmts rewrites a statement vector and returns its replacement.
	OptimizeStmts(stmts []ast.Stmt) ([]ast.Stmt, bool)
	// OptimizeExpr rewrites one expression bottom-up and returns its
	// replacement.
	OptimizeExpr(e ast.Expr) (ast.Expr, bool)
}

// Optimizer runs a sequence of passes to a fixed point.
type Optimizer struct {
	passes  []Pass
	logging bool
}

// New creates an optimizer with the default pass pipeline registered:
// constant folding, dead-code elimination, simplification.
func New() *Optimizer {
	return &Optimizer{
		passes: []Pass{
			NewConstantFolding(),
			NewDeadCodeElimination(),
			NewSimplification(),
		},
	}
}

// WithLogging turns on per-sweep logging.
func (o *Optimizer) WithLogging() *Optimizer {
	o.logging = true
	return o
}

// AddPass appends a custom pass after the defaults.
func (o *Optimizer) AddPass(p Pass) {
	o.passes = append(o.passes, p)
}

// Optimize runs all passes over the program until none reports a change, or
// the iteration cap is hit.
func (o *Optimizer) Optimize(prog *ast.Program) {
	totalChanges := 0
	for iteration := 1; iteration <= maxIterations; iteration++ {
		changed := false
		for _, pass := range o.passes {
			if o.logging {
				log.Printf("optimizer: running %s (sweep %d)", pass.Name(), iteration)
			}
			if pass.OptimizeProgram(prog) {
				changed = true
				totalChanges++
			}
		}
		if !changed {
			break
		}
	}
	if o.logging && totalChanges > 0 {
		log.Printf("optimizer: %d pass(es) reported changes", totalChanges)
	}
}

// forEachFunctionBody applies f to the body of every function and impl
// method, storing the replacement vector.
func forEachFunctionBody(prog *ast.Program, f func([]ast.Stmt) ([]ast.Stmt, bool)) bool {
	changed := false
	for _, item := range prog.Items {
		switch item := item.(type) {
		case *ast.Function:
			var ch bool
			item.Body, ch = f(item.Body)
			changed = changed || ch
		case *ast.ImplBlock:
			for _, m := range item.Methods {
				var ch bool
				m.Body, ch = f(m.Body)
				changed = changed || ch
			}
		}
	}
	return changed
}
