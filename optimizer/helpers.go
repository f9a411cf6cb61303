package optimizer

import (
	"github.com/ferrite-lang/ferrite/ast"
)

// IsConstant reports whether the expression is a compile-time constant.
func IsConstant(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.IntLit, *ast.BoolLit, *ast.StringLit:
		return true
	case *ast.Binary:
		return IsConstant(e.L) && IsConstant(e.R)
	case *ast.Unary:
		return IsConstant(e.X)
	}
	return false
}

// EvalBinaryInt evaluates an integer arithmetic operator at compile time
// with wrapping semantics. ok is false for comparison operators and for
// division or modulus by zero, which must keep their runtime-trapping form.
func EvalBinaryInt(l int64, op ast.BinOp, r int64) (int64, bool) {
	switch op {
	case ast.Add:
		return l + r, true
	case ast.Sub:
		return l - r, true
	case ast.Mul:
		return l * r, true
	case ast.Div:
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case ast.Mod:
		if r == 0 {
			return 0, false
		}
		return l % r, true
	}
	return 0, false
}

// EvalComparison evaluates an integer comparison at compile time. ok is
// false for non-comparison operators.
func EvalComparison(l int64, op ast.BinOp, r int64) (bool, bool) {
	switch op {
	case ast.Eq:
		return l == r, true
	case ast.Ne:
		return l != r, true
	case ast.Lt:
		return l < r, true
	case ast.Gt:
		return l > r, true
	case ast.Le:
		return l <= r, true
	case ast.Ge:
		return l >= r, true
	}
	return false, false
}

// ExprHasSideEffects reports whether evaluating the expression could be
// observable. Calls are conservatively side-effecting, as are `?`, await,
// and macro residues.
func ExprHasSideEffects(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Call, *ast.Question, *ast.Await, *ast.MacroCall:
		return true
	case *ast.Binary:
		return ExprHasSideEffects(e.L) || ExprHasSideEffects(e.R)
	case *ast.Unary:
		return ExprHasSideEffects(e.X)
	case *ast.Index:
		return ExprHasSideEffects(e.Array) || ExprHasSideEffects(e.Idx)
	case *ast.FieldAccess:
		return ExprHasSideEffects(e.X)
	case *ast.StructLit:
		for _, f := range e.Fields {
			if ExprHasSideEffects(f.Value) {
				return true
			}
		}
		return false
	case *ast.EnumCtor:
		for _, a := range e.Args {
			if ExprHasSideEffects(a) {
				return true
			}
		}
		for _, f := range e.Fields {
			if ExprHasSideEffects(f.Value) {
				return true
			}
		}
		return false
	case *ast.ArrayLit:
		for _, el := range e.Elems {
			if ExprHasSideEffects(el) {
				return true
			}
		}
		return false
	case *ast.ArrayRepeat:
		return ExprHasSideEffects(e.Value) || ExprHasSideEffects(e.Count)
	case *ast.Range:
		return ExprHasSideEffects(e.Start) || ExprHasSideEffects(e.End)
	case *ast.Reference:
		return ExprHasSideEffects(e.X)
	case *ast.Deref:
		return ExprHasSideEffects(e.X)
	}
	return false
}

// rewriteChildren applies rw to every direct child expression of e, storing
// the replacements. Passes call it first so their own rewrite sees already
// optimized operands.
func rewriteChildren(e ast.Expr, rw func(ast.Expr) (ast.Expr, bool)) bool {
	changed := false
	apply := func(child ast.Expr) ast.Expr {
		out, ch := rw(child)
		changed = changed || ch
		return out
	}
	switch e := e.(type) {
	case *ast.Call:
		e.Fn = apply(e.Fn)
		for i := range e.Args {
			e.Args[i] = apply(e.Args[i])
		}
	case *ast.Binary:
		e.L = apply(e.L)
		e.R = apply(e.R)
	case *ast.Unary:
		e.X = apply(e.X)
	case *ast.Index:
		e.Array = apply(e.Array)
		e.Idx = apply(e.Idx)
	case *ast.FieldAccess:
		e.X = apply(e.X)
	case *ast.StructLit:
		for i := range e.Fields {
			e.Fields[i].Value = apply(e.Fields[i].Value)
		}
	case *ast.EnumCtor:
		for i := range e.Args {
			e.Args[i] = apply(e.Args[i])
		}
		for i := range e.Fields {
			e.Fields[i].Value = apply(e.Fields[i].Value)
		}
	case *ast.ArrayLit:
		for i := range e.Elems {
			e.Elems[i] = apply(e.Elems[i])
		}
	case *ast.ArrayRepeat:
		e.Value = apply(e.Value)
		e.Count = apply(e.Count)
	case *ast.Range:
		e.Start = apply(e.Start)
		e.End = apply(e.End)
	case *ast.Reference:
		e.X = apply(e.X)
	case *ast.Deref:
		e.X = apply(e.X)
	case *ast.Question:
		e.X = apply(e.X)
	case *ast.Await:
		e.X = apply(e.X)
	case *ast.MacroCall:
		for i := range e.Args {
			e.Args[i] = apply(e.Args[i])
		}
	}
	return changed
}

// rewriteStmtsExprs applies rw to every expression rooted in the statement
// vector, recursing through nested blocks. The vector itself is not
// restructured; statement-level rewrites belong to dead-code elimination.
func rewriteStmtsExprs(stmts []ast.Stmt, rw func(ast.Expr) (ast.Expr, bool)) bool {
	changed := false
	apply := func(e ast.Expr) ast.Expr {
		out, ch := rw(e)
		changed = changed || ch
		return out
	}
	for _, s := range stmts {
		switch s := s.(type) {
		case *ast.Let:
			s.Init = apply(s.Init)
		case *ast.ExprStmt:
			s.X = apply(s.X)
		case *ast.Return:
			if s.X != nil {
				s.X = apply(s.X)
			}
		case *ast.Assign:
			s.Value = apply(s.Value)
			switch t := s.Target.(type) {
			case *ast.IndexTarget:
				t.Array = apply(t.Array)
				t.Index = apply(t.Index)
			case *ast.FieldTarget:
				t.Object = apply(t.Object)
			case *ast.DerefTarget:
				t.X = apply(t.X)
			}
		case *ast.If:
			s.Cond = apply(s.Cond)
			changed = rewriteStmtsExprs(s.Then, rw) || changed
			changed = rewriteStmtsExprs(s.Else, rw) || changed
		case *ast.While:
			s.Cond = apply(s.Cond)
			changed = rewriteStmtsExprs(s.Body, rw) || changed
		case *ast.For:
			s.Iter = apply(s.Iter)
			changed = rewriteStmtsExprs(s.Body, rw) || changed
		case *ast.Match:
			s.Scrutinee = apply(s.Scrutinee)
			for _, arm := range s.Arms {
				changed = rewriteStmtsExprs(arm.Body, rw) || changed
			}
		case *ast.Unsafe:
			changed = rewriteStmtsExprs(s.Body, rw) || changed
		}
	}
	return changed
}
