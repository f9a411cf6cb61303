package optimizer

import (
	"github.com/ferrite-lang/ferrite/ast"
)

// ConstantFolding evaluates constant subexpressions at compile time:
// integer arithmetic (wrapping), comparisons, boolean connectives, string
// concatenation, short-circuit shapes, and the integer identities. Division
// and modulus by a constant zero are left untouched so the runtime trap
// survives.
type ConstantFolding struct{}

// NewConstantFolding creates the pass.
func NewConstantFolding() *ConstantFolding { return &ConstantFolding{} }

// Name implements Pass.
func (p *ConstantFolding) Name() string { return "constant-folding" }

// OptimizeProgram implements Pass.
func (p *ConstantFolding) OptimizeProgram(prog *ast.Program) bool {
	return forEachFunctionBody(prog, p.OptimizeStmts)
}

// OptimizeStmts implements Pass. Folding never restructures the vector.
func (p *ConstantFolding) OptimizeStmts(stmts []ast.Stmt) ([]ast.Stmt, bool) {
	return stmts, rewriteStmtsExprs(stmts, p.OptimizeExpr)
}

// OptimizeExpr implements Pass.
func (p *ConstantFolding) OptimizeExpr(e ast.Expr) (ast.Expr, bool) {
	changed := rewriteChildren(e, p.OptimizeExpr)
	switch e := e.(type) {
	case *ast.Binary:
		if folded := foldBinary(e); folded != nil {
			return folded, true
		}
	case *ast.Unary:
		switch x := e.X.(type) {
		case *ast.IntLit:
			if e.Op == ast.Neg {
				return &ast.IntLit{Value: -x.Value, Span: e.Span}, true
			}
		case *ast.BoolLit:
			if e.Op == ast.Not {
				return &ast.BoolLit{Value: !x.Value, Span: e.Span}, true
			}
		}
	}
	return e, changed
}

func foldBinary(e *ast.Binary) ast.Expr {
	switch l := e.L.(type) {
	case *ast.IntLit:
		if r, ok := e.R.(*ast.IntLit); ok {
			if v, ok := EvalBinaryInt(l.Value, e.Op, r.Value); ok {
				return &ast.IntLit{Value: v, Span: e.Span}
			}
			if v, ok := EvalComparison(l.Value, e.Op, r.Value); ok {
				return &ast.BoolLit{Value: v, Span: e.Span}
			}
		}
	case *ast.BoolLit:
		if r, ok := e.R.(*ast.BoolLit); ok {
			switch e.Op {
			case ast.And:
				return &ast.BoolLit{Value: l.Value && r.Value, Span: e.Span}
			case ast.Or:
				return &ast.BoolLit{Value: l.Value || r.Value, Span: e.Span}
			case ast.Eq:
				return &ast.BoolLit{Value: l.Value == r.Value, Span: e.Span}
			case ast.Ne:
				return &ast.BoolLit{Value: l.Value != r.Value, Span: e.Span}
			}
		}
	case *ast.StringLit:
		if r, ok := e.R.(*ast.StringLit); ok && e.Op == ast.Add {
			return &ast.StringLit{Value: l.Value + r.Value, Span: e.Span}
		}
	}

	// Short-circuit shapes with one non-constant side.
	if l, ok := e.L.(*ast.BoolLit); ok {
		if !l.Value && e.Op == ast.And {
			return &ast.BoolLit{Value: false, Span: e.Span}
		}
		if l.Value && e.Op == ast.Or {
			return &ast.BoolLit{Value: true, Span: e.Span}
		}
	}
	if r, ok := e.R.(*ast.BoolLit); ok {
		if !r.Value && e.Op == ast.And {
			return &ast.BoolLit{Value: false, Span: e.Span}
		}
		if r.Value && e.Op == ast.Or {
			return &ast.BoolLit{Value: true, Span: e.Span}
		}
	}

	// Integer identities.
	if r, ok := e.R.(*ast.IntLit); ok {
		switch {
		case r.Value == 0 && (e.Op == ast.Add || e.Op == ast.Sub):
			return e.L
		case r.Value == 0 && e.Op == ast.Mul:
			return &ast.IntLit{Value: 0, Span: e.Span}
		case r.Value == 1 && (e.Op == ast.Mul || e.Op == ast.Div):
			return e.L
		}
	}
	if l, ok := e.L.(*ast.IntLit); ok {
		switch {
		case l.Value == 0 && e.Op == ast.Add:
			return e.R
		case l.Value == 0 && e.Op == ast.Mul:
			return &ast.IntLit{Value: 0, Span: e.Span}
		case l.Value == 1 && e.Op == ast.Mul:
			return e.R
		}
	}
	return nil
}
