package typeck_test

import (
	"testing"

	"github.com/ferrite-lang/ferrite/ast"
	"github.com/ferrite-lang/ferrite/diag"
	"github.com/ferrite-lang/ferrite/typeck"
	"github.com/stretchr/testify/require"
)

func optionRegistry() typeck.EnumRegistry {
	return typeck.EnumRegistry{
		"Option": &typeck.EnumInfo{
			Name: "Option",
			Variants: []typeck.VariantInfo{
				{Name: "Some", Arity: 1},
				{Name: "None", Arity: 0},
			},
		},
	}
}

func somePat(sub ast.Pattern) ast.Pattern {
	return &ast.EnumPat{Enum: "Option", Variant: "Some", Args: []ast.Pattern{sub}}
}

func nonePat() ast.Pattern {
	return &ast.EnumPat{Enum: "Option", Variant: "None"}
}

func TestExhaustiveMatch(t *testing.T) {
	c := typeck.NewChecker(optionRegistry())
	d := c.CheckMatch("Option", []ast.Pattern{
		somePat(&ast.BindPat{Name: "x"}),
		nonePat(),
	}, ast.Span{})
	require.Nil(t, d)
}

func TestNonExhaustiveMatch(t *testing.T) {
	c := typeck.NewChecker(optionRegistry())
	d := c.CheckMatch("Option", []ast.Pattern{
		somePat(&ast.BindPat{Name: "x"}),
	}, ast.Span{})
	require.NotNil(t, d)
	require.Equal(t, diag.CodeNonExhaustive, d.Code)
	require.Contains(t, d.Message, "Option::None")
}

func TestWildcardMakesExhaustive(t *testing.T) {
	c := typeck.NewChecker(optionRegistry())
	d := c.CheckMatch("Option", []ast.Pattern{
		somePat(&ast.BindPat{Name: "x"}),
		&ast.WildcardPat{},
	}, ast.Span{})
	require.Nil(t, d)
}

func TestUnreachableAfterWildcard(t *testing.T) {
	c := typeck.NewChecker(optionRegistry())
	d := c.CheckMatch("Option", []ast.Pattern{
		&ast.WildcardPat{},
		nonePat(),
	}, ast.Span{})
	require.NotNil(t, d)
	require.Equal(t, diag.CodeUnreachable, d.Code)
	require.Contains(t, d.Message, "#1 `Option::None`")
}

func TestDuplicateVariantUnreachable(t *testing.T) {
	c := typeck.NewChecker(optionRegistry())
	d := c.CheckMatch("Option", []ast.Pattern{
		nonePat(),
		nonePat(),
		somePat(&ast.WildcardPat{}),
	}, ast.Span{})
	require.NotNil(t, d)
	require.Equal(t, diag.CodeUnreachable, d.Code)
}

func TestBindingAfterFullCoverageUnreachable(t *testing.T) {
	c := typeck.NewChecker(optionRegistry())
	d := c.CheckMatch("Option", []ast.Pattern{
		somePat(&ast.WildcardPat{}),
		nonePat(),
		&ast.BindPat{Name: "rest"},
	}, ast.Span{})
	require.NotNil(t, d)
	require.Equal(t, diag.CodeUnreachable, d.Code)
	require.Contains(t, d.Message, "#2 `rest`")
}

func TestUnknownVariant(t *testing.T) {
	c := typeck.NewChecker(optionRegistry())
	d := c.CheckMatch("Option", []ast.Pattern{
		&ast.EnumPat{Enum: "Option", Variant: "Nothing"},
	}, ast.Span{})
	require.NotNil(t, d)
	require.Equal(t, diag.CodeUnknownVariant, d.Code)
}

func TestEnumTypeMismatch(t *testing.T) {
	c := typeck.NewChecker(optionRegistry())
	d := c.CheckMatch("Option", []ast.Pattern{
		&ast.EnumPat{Enum: "Result", Variant: "Ok"},
	}, ast.Span{})
	require.NotNil(t, d)
	require.Equal(t, diag.CodeTypeMismatch, d.Code)
}

func TestNonEnumNeedsCatchall(t *testing.T) {
	c := typeck.NewChecker(optionRegistry())
	require.Nil(t, c.CheckMatch("i64", []ast.Pattern{&ast.BindPat{Name: "n"}}, ast.Span{}))

	d := c.CheckMatch("i64", nil, ast.Span{})
	require.NotNil(t, d)
	require.Equal(t, diag.CodeNonExhaustive, d.Code)
}

func TestRedundancy(t *testing.T) {
	out := typeck.Redundancy([]ast.Pattern{
		nonePat(),
		nonePat(),
		&ast.WildcardPat{},
		somePat(&ast.WildcardPat{}),
	})
	require.Len(t, out, 2)
	require.Contains(t, out[0], "#1")
	require.Contains(t, out[1], "#3")
}

func TestKindOf(t *testing.T) {
	k := typeck.KindOf(somePat(&ast.BindPat{Name: "x"}))
	require.Equal(t, "Option", k.Enum)
	require.Equal(t, "Some", k.Variant)
	require.Equal(t, 1, k.Arity)
	require.True(t, typeck.KindOf(&ast.WildcardPat{}).Wildcard)
	require.Equal(t, "v", typeck.KindOf(&ast.BindPat{Name: "v"}).Binding)
}

func TestCheckProgramFindsMatches(t *testing.T) {
	prog := &ast.Program{Items: []ast.Item{
		&ast.EnumDef{Name: "Option", Variants: []ast.Variant{{Name: "Some", Arity: 1}, {Name: "None"}}},
		&ast.Function{
			Name: "f",
			Body: []ast.Stmt{
				&ast.Let{Name: "o", Type: &ast.Named{Name: "Option"},
					Init: &ast.EnumCtor{Enum: "Option", Variant: "None"}},
				&ast.Match{
					Scrutinee: &ast.Ident{Name: "o"},
					Arms: []ast.MatchArm{
						{Pattern: somePat(&ast.BindPat{Name: "x"})},
					},
					Span: ast.Span{File: "main.fe", Line: 4, Col: 5},
				},
			},
		},
	}}
	reg := typeck.BuildEnumRegistry(prog)
	diags := typeck.NewChecker(reg).CheckProgram(prog)
	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeNonExhaustive, diags[0].Code)
	require.Equal(t, 4, diags[0].Span.Line)
}
