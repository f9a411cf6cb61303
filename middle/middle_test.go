package middle_test

import (
	"testing"

	"github.com/ferrite-lang/ferrite/ast"
	"github.com/ferrite-lang/ferrite/diag"
	"github.com/ferrite-lang/ferrite/effects"
	"github.com/ferrite-lang/ferrite/middle"
	"github.com/stretchr/testify/require"
)

// A program exercising all validators: a moved value, a non-exhaustive
// match, and an IO-calling function.
func testProgram() *ast.Program {
	return &ast.Program{Items: []ast.Item{
		&ast.EnumDef{Name: "Option", Variants: []ast.Variant{
			{Name: "Some", Arity: 1}, {Name: "None"},
		}},
		&ast.Function{
			Name: "moves",
			Body: []ast.Stmt{
				&ast.Let{Name: "x", Type: ast.String, Init: &ast.StringLit{Value: "hi"}},
				&ast.Let{Name: "y", Type: ast.String, Init: &ast.Ident{Name: "x"}},
				&ast.ExprStmt{X: &ast.Call{Fn: &ast.Ident{Name: "print"}, Args: []ast.Expr{&ast.Ident{Name: "x"}}}},
			},
		},
		&ast.Function{
			Name: "partial",
			Body: []ast.Stmt{
				&ast.Let{Name: "o", Type: &ast.Named{Name: "Option"},
					Init: &ast.EnumCtor{Enum: "Option", Variant: "None"}},
				&ast.Match{Scrutinee: &ast.Ident{Name: "o"}, Arms: []ast.MatchArm{
					{Pattern: &ast.EnumPat{Enum: "Option", Variant: "Some",
						Args: []ast.Pattern{&ast.BindPat{Name: "v"}}}},
				}},
			},
		},
		&ast.Function{
			Name: "greet",
			Body: []ast.Stmt{
				&ast.ExprStmt{X: &ast.Call{Fn: &ast.Ident{Name: "print"},
					Args: []ast.Expr{&ast.StringLit{Value: "hello"}}}},
			},
		},
	}}
}

func TestCheckProgramCollectsAllValidators(t *testing.T) {
	diags := middle.CheckProgram(testProgram())
	require.Len(t, diags, 2)

	codes := map[string]bool{}
	for _, d := range diags {
		codes[d.Code] = true
	}
	require.True(t, codes[diag.CodeUseOfMoved])
	require.True(t, codes[diag.CodeNonExhaustive])
}

func TestAnalyzeEffects(t *testing.T) {
	a := middle.AnalyzeEffects(testProgram())
	s, ok := a.FunctionEffects("greet")
	require.True(t, ok)
	require.True(t, s.Contains(effects.IO))
	require.True(t, a.IsFunctionPure("partial"))
}

func TestOptimizeCleanProgram(t *testing.T) {
	prog := &ast.Program{Items: []ast.Item{
		&ast.Function{Name: "f", Body: []ast.Stmt{
			&ast.Let{Name: "x", Type: ast.I64,
				Init: &ast.Binary{Op: ast.Add, L: &ast.IntLit{Value: 20}, R: &ast.IntLit{Value: 22}}},
		}},
	}}
	require.NoError(t, middle.Optimize(prog))
	require.Equal(t, "let x: i64 = 42;", prog.Items[0].(*ast.Function).Body[0].String())
}

func TestRecover(t *testing.T) {
	require.NoError(t, middle.Recover(func() {}))
	err := middle.Recover(func() { panic("boom") })
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}
