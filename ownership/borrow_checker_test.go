package ownership_test

import (
	"testing"

	"github.com/ferrite-lang/ferrite/ast"
	"github.com/ferrite-lang/ferrite/diag"
	"github.com/ferrite-lang/ferrite/ownership"
	"github.com/stretchr/testify/require"
)

func fn(name string, body ...ast.Stmt) *ast.Function {
	return &ast.Function{Name: name, Body: body}
}

func call(name string, args ...ast.Expr) ast.Expr {
	return &ast.Call{Fn: &ast.Ident{Name: name}, Args: args}
}

func ident(name string) ast.Expr { return &ast.Ident{Name: name} }

func str(v string) ast.Expr { return &ast.StringLit{Value: v} }

func num(v int64) ast.Expr { return &ast.IntLit{Value: v} }

func checkFn(t *testing.T, f *ast.Function) *diag.Diagnostic {
	t.Helper()
	prog := &ast.Program{Items: []ast.Item{f}}
	diags := ownership.NewChecker().CheckProgram(prog)
	if len(diags) == 0 {
		return nil
	}
	return diags[0]
}

// let x: String = "hi"; let y: String = x; print(x)  -- x was moved.
func TestUseAfterMove(t *testing.T) {
	d := checkFn(t, fn("f",
		&ast.Let{Name: "x", Type: ast.String, Init: str("hi")},
		&ast.Let{Name: "y", Type: ast.String, Init: ident("x")},
		&ast.ExprStmt{X: call("print", ident("x"))},
	))
	require.NotNil(t, d)
	require.Equal(t, diag.CodeUseOfMoved, d.Code)
	require.Contains(t, d.Message, "x")
}

// let x: i32 = 42; let y: i32 = x; print_int(x)  -- i32 is Copy.
func TestCopyTypeNoMove(t *testing.T) {
	d := checkFn(t, fn("f",
		&ast.Let{Name: "x", Type: ast.I32, Init: num(42)},
		&ast.Let{Name: "y", Type: ast.I32, Init: ident("x")},
		&ast.ExprStmt{X: call("print_int", ident("x"))},
	))
	require.Nil(t, d)
}

// Inferred types drive the same decision: a string literal initializer is
// non-Copy even without an annotation.
func TestInferredMove(t *testing.T) {
	d := checkFn(t, fn("f",
		&ast.Let{Name: "x", Init: str("hi")},
		&ast.Let{Name: "y", Init: ident("x")},
		&ast.ExprStmt{X: ident("x")},
	))
	require.NotNil(t, d)
	require.Equal(t, diag.CodeUseOfMoved, d.Code)
}

func TestUseOfUninitialized(t *testing.T) {
	d := checkFn(t, fn("f",
		&ast.ExprStmt{X: ident("ghost")},
	))
	require.NotNil(t, d)
	require.Equal(t, diag.CodeUseOfUninitialized, d.Code)
}

func TestScopedBindingInvalidAfterBlock(t *testing.T) {
	d := checkFn(t, fn("f",
		&ast.If{Cond: &ast.BoolLit{Value: true}, Then: []ast.Stmt{
			&ast.Let{Name: "tmp", Type: ast.I32, Init: num(1)},
		}},
		&ast.ExprStmt{X: ident("tmp")},
	))
	require.NotNil(t, d)
	require.Equal(t, diag.CodeUseOfUninitialized, d.Code)
}

func TestCannotBorrowTemporary(t *testing.T) {
	d := checkFn(t, fn("f",
		&ast.Let{Name: "r", Init: &ast.Reference{X: &ast.Binary{Op: ast.Add, L: num(1), R: num(2)}}},
	))
	require.NotNil(t, d)
	require.Equal(t, diag.CodeCannotBorrowTemporary, d.Code)
}

func TestBorrowConflictMutableWhileShared(t *testing.T) {
	d := checkFn(t, fn("f",
		&ast.Let{Name: "s", Type: ast.String, Init: str("v")},
		&ast.Let{Name: "a", Init: &ast.Reference{X: ident("s")}},
		&ast.Let{Name: "b", Init: &ast.Reference{Mut: true, X: ident("s")}},
	))
	require.NotNil(t, d)
	require.Equal(t, diag.CodeBorrowConflict, d.Code)
}

func TestTwoSharedBorrowsOK(t *testing.T) {
	d := checkFn(t, fn("f",
		&ast.Let{Name: "s", Type: ast.String, Init: str("v")},
		&ast.Let{Name: "a", Init: &ast.Reference{X: ident("s")}},
		&ast.Let{Name: "b", Init: &ast.Reference{X: ident("s")}},
	))
	require.Nil(t, d)
}

// Passing a non-Copy value to a Move parameter consumes it.
func TestCallMovesArgument(t *testing.T) {
	sink := &ast.Function{
		Name:   "sink",
		Params: []ast.Param{{Name: "v", Type: ast.String}},
	}
	f := fn("f",
		&ast.Let{Name: "s", Type: ast.String, Init: str("v")},
		&ast.ExprStmt{X: call("sink", ident("s"))},
		&ast.ExprStmt{X: ident("s")},
	)
	prog := &ast.Program{Items: []ast.Item{sink, f}}
	diags := ownership.NewChecker().CheckProgram(prog)
	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeUseOfMoved, diags[0].Code)
}

// A reference-typed parameter only borrows; the argument stays usable.
func TestCallBorrowsReferenceParam(t *testing.T) {
	peek := &ast.Function{
		Name:   "peek",
		Params: []ast.Param{{Name: "v", Type: &ast.Ref{Elem: ast.String}}},
	}
	f := fn("f",
		&ast.Let{Name: "s", Type: ast.String, Init: str("v")},
		&ast.ExprStmt{X: call("peek", ident("s"))},
		&ast.ExprStmt{X: ident("s")},
	)
	prog := &ast.Program{Items: []ast.Item{peek, f}}
	require.Empty(t, ownership.NewChecker().CheckProgram(prog))
}

func TestMatchArmBindings(t *testing.T) {
	d := checkFn(t, fn("f",
		&ast.Let{Name: "o", Type: &ast.Named{Name: "Option"},
			Init: &ast.EnumCtor{Enum: "Option", Variant: "Some", Args: []ast.Expr{num(1)}}},
		&ast.Match{Scrutinee: ident("o"), Arms: []ast.MatchArm{
			{Pattern: &ast.EnumPat{Enum: "Option", Variant: "Some",
				Args: []ast.Pattern{&ast.BindPat{Name: "x"}}},
				Body: []ast.Stmt{&ast.ExprStmt{X: ident("x")}}},
			{Pattern: &ast.WildcardPat{}, Body: nil},
		}},
	))
	require.Nil(t, d)
}

func TestMacroIsInternalError(t *testing.T) {
	d := checkFn(t, fn("f",
		&ast.ExprStmt{X: &ast.MacroCall{Name: "dbg", Span: ast.Span{File: "m.fe", Line: 2, Col: 1}}},
	))
	require.NotNil(t, d)
	require.Equal(t, diag.Internal, d.Kind)
	require.Equal(t, diag.CodeMacroNotExpanded, d.Code)
}

// return of a non-Copy place moves it out; later statements in the same
// body (unreachable or not) see it as moved.
func TestReturnMovesValue(t *testing.T) {
	f := &ast.Function{
		Name:   "give",
		Return: ast.String,
		Body: []ast.Stmt{
			&ast.Let{Name: "s", Type: ast.String, Init: str("v")},
			&ast.Return{X: ident("s")},
		},
	}
	require.Empty(t, ownership.NewChecker().CheckProgram(&ast.Program{Items: []ast.Item{f}}))

	after := &ast.Function{
		Name:   "give_then_use",
		Return: ast.String,
		Body: []ast.Stmt{
			&ast.Let{Name: "s", Type: ast.String, Init: str("v")},
			&ast.Return{X: ident("s")},
			&ast.ExprStmt{X: ident("s")},
		},
	}
	diags := ownership.NewChecker().CheckProgram(&ast.Program{Items: []ast.Item{after}})
	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeUseOfMoved, diags[0].Code)
}

func TestReturnBorrowedRequiresReference(t *testing.T) {
	f := &ast.Function{
		Name:   "lease",
		Params: []ast.Param{{Name: "s", Type: ast.String}},
		Return: &ast.Ref{Elem: ast.String},
		Body: []ast.Stmt{
			&ast.Return{X: ident("s")},
		},
	}
	diags := ownership.NewChecker().CheckProgram(&ast.Program{Items: []ast.Item{f}})
	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeReturnOwnership, diags[0].Code)

	ok := &ast.Function{
		Name:   "lease2",
		Params: []ast.Param{{Name: "s", Type: ast.String}},
		Return: &ast.Ref{Elem: ast.String},
		Body: []ast.Stmt{
			&ast.Return{X: &ast.Reference{X: ident("s")}},
		},
	}
	require.Empty(t, ownership.NewChecker().CheckProgram(&ast.Program{Items: []ast.Item{ok}}))
}

func TestImplMethodsChecked(t *testing.T) {
	m := fn("use_moved",
		&ast.Let{Name: "s", Type: ast.String, Init: str("v")},
		&ast.Let{Name: "u", Type: ast.String, Init: ident("s")},
		&ast.ExprStmt{X: ident("s")},
	)
	prog := &ast.Program{Items: []ast.Item{
		&ast.ImplBlock{ForType: "Point", Methods: []*ast.Function{m}},
	}}
	diags := ownership.NewChecker().CheckProgram(prog)
	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeUseOfMoved, diags[0].Code)
}

func TestUnsafeStillChecked(t *testing.T) {
	d := checkFn(t, fn("f",
		&ast.Let{Name: "x", Type: ast.String, Init: str("hi")},
		&ast.Let{Name: "y", Type: ast.String, Init: ident("x")},
		&ast.Unsafe{Body: []ast.Stmt{&ast.ExprStmt{X: ident("x")}}},
	))
	require.NotNil(t, d)
	require.Equal(t, diag.CodeUseOfMoved, d.Code)
}

func TestAssignReinitializesMoved(t *testing.T) {
	d := checkFn(t, fn("f",
		&ast.Let{Name: "x", Type: ast.String, Init: str("a")},
		&ast.Let{Name: "y", Type: ast.String, Init: ident("x")},
		&ast.Assign{Target: &ast.IdentTarget{Name: "x"}, Value: str("b")},
		&ast.ExprStmt{X: ident("x")},
	))
	require.Nil(t, d)
}
