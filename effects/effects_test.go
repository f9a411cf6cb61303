package effects_test

import (
	"testing"

	"github.com/ferrite-lang/ferrite/ast"
	"github.com/ferrite-lang/ferrite/effects"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func TestSetBasics(t *testing.T) {
	s := effects.NewSet()
	expect.True(t, s.IsPure())
	expect.EQ(t, s.String(), "{}")

	s = s.Add(effects.IO)
	expect.False(t, s.IsPure())
	expect.True(t, s.Contains(effects.IO))

	s = s.Union(effects.NewSet(effects.Async))
	expect.True(t, s.Contains(effects.IO))
	expect.True(t, s.Contains(effects.Async))
	expect.EQ(t, s.String(), "{IO, Async}")
}

func TestPureIsAbsorbed(t *testing.T) {
	s := effects.NewSet(effects.Pure)
	expect.True(t, s.IsPure())
	s = s.Add(effects.Panic)
	expect.False(t, s.Contains(effects.Pure))

	// Adding Pure to a non-pure set is a no-op.
	s = s.Add(effects.Pure)
	expect.False(t, s.Contains(effects.Pure))
	expect.True(t, s.Contains(effects.Panic))

	// Union with a pure set does not resurrect Pure.
	s = s.Union(effects.NewSet(effects.Pure))
	expect.False(t, s.Contains(effects.Pure))
}

func TestUnionIdempotent(t *testing.T) {
	s := effects.NewSet(effects.IO, effects.Panic)
	expect.EQ(t, s.Union(s), s)
}

func fnBody(name string, body ...ast.Stmt) *ast.Function {
	return &ast.Function{Name: name, Body: body}
}

func callStmt(callee string, args ...ast.Expr) ast.Stmt {
	return &ast.ExprStmt{X: &ast.Call{Fn: &ast.Ident{Name: callee}, Args: args}}
}

// fn g() { print("hi"); } has effect {IO}.
func TestPrintIsIO(t *testing.T) {
	a := effects.NewAnalyzer()
	s := a.AnalyzeFunction(fnBody("g", callStmt("print", &ast.StringLit{Value: "hi"})))
	require.True(t, s.Contains(effects.IO))
	require.False(t, a.IsFunctionPure("g"))
}

// fn h() { let x = 1 + 2; } is pure.
func TestArithmeticIsPure(t *testing.T) {
	a := effects.NewAnalyzer()
	s := a.AnalyzeFunction(fnBody("h",
		&ast.Let{Name: "x", Init: &ast.Binary{Op: ast.Add, L: &ast.IntLit{Value: 1}, R: &ast.IntLit{Value: 2}}},
	))
	require.True(t, s.IsPure())
	require.True(t, a.IsFunctionPure("h"))
}

func TestQuestionAddsPanic(t *testing.T) {
	a := effects.NewAnalyzer()
	s := a.AnalyzeFunction(fnBody("f",
		&ast.ExprStmt{X: &ast.Question{X: &ast.Ident{Name: "r"}}},
	))
	require.True(t, s.Contains(effects.Panic))
}

func TestAwaitAddsAsync(t *testing.T) {
	a := effects.NewAnalyzer()
	s := a.AnalyzeFunction(fnBody("f",
		&ast.ExprStmt{X: &ast.Await{X: &ast.Ident{Name: "fut"}}},
	))
	require.True(t, s.Contains(effects.Async))
}

func TestAsyncFunctionSeedsAsync(t *testing.T) {
	a := effects.NewAnalyzer()
	f := fnBody("f")
	f.IsAsync = true
	require.True(t, a.AnalyzeFunction(f).Contains(effects.Async))
}

func TestUnsafeBlockAddsUnsafe(t *testing.T) {
	a := effects.NewAnalyzer()
	s := a.AnalyzeFunction(fnBody("f",
		&ast.Unsafe{Body: []ast.Stmt{callStmt("print", &ast.StringLit{Value: "x"})}},
	))
	require.True(t, s.Contains(effects.Unsafe))
	require.True(t, s.Contains(effects.IO))
}

func TestPureBuiltins(t *testing.T) {
	a := effects.NewAnalyzer()
	s := a.AnalyzeFunction(fnBody("f",
		callStmt("string_concat", &ast.Ident{Name: "a"}, &ast.Ident{Name: "b"}),
		callStmt("int_to_string", &ast.IntLit{Value: 3}),
	))
	require.True(t, s.IsPure())
}

func TestUnknownCalleeAssumedPure(t *testing.T) {
	a := effects.NewAnalyzer()
	s := a.AnalyzeFunction(fnBody("f", callStmt("mystery")))
	require.True(t, s.IsPure())
	require.True(t, a.IsFunctionPure("mystery"))
}

// Callees are analyzed before callers, so a caller sees its callee's
// effects even when declared first.
func TestProgramAnalyzesCalleesFirst(t *testing.T) {
	caller := fnBody("caller", callStmt("leaf"))
	leaf := fnBody("leaf", callStmt("print", &ast.StringLit{Value: "x"}))
	prog := &ast.Program{Items: []ast.Item{caller, leaf}}

	a := effects.NewAnalyzer()
	a.AnalyzeProgram(prog)
	s, ok := a.FunctionEffects("caller")
	require.True(t, ok)
	require.True(t, s.Contains(effects.IO))
}

// Mutual recursion reaches a fixpoint: the IO effect of the base case
// propagates through both cycle members.
func TestMutualRecursionFixpoint(t *testing.T) {
	even := fnBody("even",
		&ast.If{Cond: &ast.Ident{Name: "done"},
			Then: []ast.Stmt{callStmt("print", &ast.StringLit{Value: "even"})},
			Else: []ast.Stmt{callStmt("odd")}},
	)
	odd := fnBody("odd", callStmt("even"))
	prog := &ast.Program{Items: []ast.Item{odd, even}}

	a := effects.NewAnalyzer()
	a.AnalyzeProgram(prog)
	for _, name := range []string{"even", "odd"} {
		s, ok := a.FunctionEffects(name)
		require.True(t, ok, name)
		require.True(t, s.Contains(effects.IO), name)
	}
}

func TestImplMethodsQualified(t *testing.T) {
	m := fnBody("log", callStmt("print", &ast.StringLit{Value: "p"}))
	prog := &ast.Program{Items: []ast.Item{
		&ast.ImplBlock{ForType: "Point", Methods: []*ast.Function{m}},
	}}
	a := effects.NewAnalyzer()
	a.AnalyzeProgram(prog)
	s, ok := a.FunctionEffects("Point::log")
	require.True(t, ok)
	require.True(t, s.Contains(effects.IO))
}
