package optimizer

import (
	"github.com/ferrite-lang/ferrite/ast"
)

// Simplification applies peephole rewrites that remove redundant boolean
// plumbing: comparisons against boolean literals, double negation, and
// negated equalities.
type Simplification struct{}

// NewSimplification creates the pass.
func NewSimplification() *Simplification { return &Simplification{} }

// Name implements Pass.
func (p *Simplification) Name() string { return "simplification" }

// OptimizeProgram implements Pass.
func (p *Simplification) OptimizeProgram(prog *ast.Program) bool {
	return forEachFunctionBody(prog, p.OptimizeStmts)
}

// OptimizeStmts implements Pass. Simplification never restructures the
// vector.
func (p *Simplification) OptimizeStmts(stmts []ast.Stmt) ([]ast.Stmt, bool) {
	return stmts, rewriteStmtsExprs(stmts, p.OptimizeExpr)
}

// OptimizeExpr implements Pass. Sub-expressions are rewritten first.
func (p *Simplification) OptimizeExpr(e ast.Expr) (ast.Expr, bool) {
	changed := rewriteChildren(e, p.OptimizeExpr)
	switch e := e.(type) {
	case *ast.Binary:
		if out := simplifyBoolComparison(e); out != nil {
			return out, true
		}
	case *ast.Unary:
		if e.Op == ast.Not {
			// !!x => x
			if inner, ok := e.X.(*ast.Unary); ok && inner.Op == ast.Not {
				return inner.X, true
			}
			// !(a == b) => a != b
			if cmp, ok := e.X.(*ast.Binary); ok && cmp.Op == ast.Eq {
				return &ast.Binary{Op: ast.Ne, L: cmp.L, R: cmp.R, Span: e.Span}, true
			}
		}
	}
	return e, changed
}

func simplifyBoolComparison(e *ast.Binary) ast.Expr {
	if e.Op != ast.Eq && e.Op != ast.Ne {
		return nil
	}
	lit, other := boolLitOperand(e)
	if other == nil {
		return nil
	}
	// x == true => x      x != false => x
	// x == false => !x    x != true => !x
	keep := lit.Value == (e.Op == ast.Eq)
	if keep {
		return other
	}
	return &ast.Unary{Op: ast.Not, X: other, Span: e.Span}
}

// boolLitOperand picks out the boolean-literal side of a comparison, if
// exactly one side is a literal.
func boolLitOperand(e *ast.Binary) (*ast.BoolLit, ast.Expr) {
	l, lok := e.L.(*ast.BoolLit)
	r, rok := e.R.(*ast.BoolLit)
	switch {
	case lok && !rok:
		return l, e.R
	case rok && !lok:
		return r, e.L
	}
	return nil, nil
}
