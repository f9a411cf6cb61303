package optimizer

import (
	"github.com/ferrite-lang/ferrite/ast"
)

// DeadCodeElimination removes code that cannot run or cannot be observed:
// statements after a terminator, branches of constant-condition ifs, whole
// while-false loops, and expression statements with no side effects.
// It consumes statement vectors and returns replacements, so pruning splices
// surviving statements into the parent vector.
type DeadCodeElimination struct{}

// NewDeadCodeElimination creates the pass.
func NewDeadCodeElimination() *DeadCodeElimination { return &DeadCodeElimination{} }

// Name implements Pass.
func (p *DeadCodeElimination) Name() string { return "dead-code-elimination" }

// OptimizeProgram implements Pass.
func (p *DeadCodeElimination) OptimizeProgram(prog *ast.Program) bool {
	return forEachFunctionBody(prog, p.OptimizeStmts)
}

// OptimizeExpr implements Pass. Dead-code elimination does not rewrite
// expressions.
func (p *DeadCodeElimination) OptimizeExpr(e ast.Expr) (ast.Expr, bool) {
	return e, false
}

// terminates reports whether control cannot continue past the statement.
func terminates(s ast.Stmt) bool {
	switch s := s.(type) {
	case *ast.Return, *ast.Break, *ast.Continue:
		return true
	case *ast.If:
		if s.Else == nil {
			return false
		}
		return blockTerminates(s.Then) && blockTerminates(s.Else)
	}
	return false
}

func blockTerminates(stmts []ast.Stmt) bool {
	return len(stmts) > 0 && terminates(stmts[len(stmts)-1])
}

// OptimizeStmts implements Pass.
func (p *DeadCodeElimination) OptimizeStmts(stmts []ast.Stmt) ([]ast.Stmt, bool) {
	changed := false
	out := make([]ast.Stmt, 0, len(stmts))
	for i, s := range stmts {
		switch s := s.(type) {
		case *ast.If:
			if cond, ok := s.Cond.(*ast.BoolLit); ok {
				// The branch body replaces the if wholesale.
				branch := s.Then
				if !cond.Value {
					branch = s.Else
				}
				branch, _ = p.OptimizeStmts(branch)
				out = append(out, branch...)
				changed = true
				continue
			}
			var ch bool
			s.Then, ch = p.OptimizeStmts(s.Then)
			changed = changed || ch
			if s.Else != nil {
				s.Else, ch = p.OptimizeStmts(s.Else)
				changed = changed || ch
			}
		case *ast.While:
			if cond, ok := s.Cond.(*ast.BoolLit); ok && !cond.Value {
				changed = true
				continue
			}
			var ch bool
			s.Body, ch = p.OptimizeStmts(s.Body)
			changed = changed || ch
		case *ast.For:
			var ch bool
			s.Body, ch = p.OptimizeStmts(s.Body)
			changed = changed || ch
		case *ast.Match:
			for ai := range s.Arms {
				var ch bool
				s.Arms[ai].Body, ch = p.OptimizeStmts(s.Arms[ai].Body)
				changed = changed || ch
			}
		case *ast.Unsafe:
			var ch bool
			s.Body, ch = p.OptimizeStmts(s.Body)
			changed = changed || ch
		case *ast.ExprStmt:
			if !ExprHasSideEffects(s.X) {
				changed = true
				continue
			}
		}
		out = append(out, s)
		if terminates(s) {
			if i < len(stmts)-1 {
				changed = true // unreachable tail dropped
			}
			return out, changed
		}
	}
	return out, changed
}
