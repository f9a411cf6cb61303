package symbol_test

import (
	"testing"

	"github.com/ferrite-lang/ferrite/symbol"
	"github.com/stretchr/testify/require"
)

func TestIntern(t *testing.T) {
	x := symbol.Intern("x")
	y := symbol.Intern("y")
	require.NotEqual(t, x, y)
	require.NotEqual(t, x, symbol.Invalid)
	require.Equal(t, x, symbol.Intern("x"))
	require.Equal(t, "x", x.Str())
	require.Equal(t, "y", y.Str())
}

func TestHash(t *testing.T) {
	x := symbol.Intern("x")
	y := symbol.Intern("y")
	require.Equal(t, x.Hash(), symbol.Intern("x").Hash())
	require.NotEqual(t, x.Hash(), y.Hash())
}
