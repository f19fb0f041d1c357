package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Grammar(t *testing.T) {
	t.Run("number literal", func(t *testing.T) {
		node, err := Parse("42")
		require.NoError(t, err)
		lit, ok := node.(*NumberLit)
		require.True(t, ok)
		assert.Equal(t, 42.0, lit.Value)
	})

	t.Run("decimal literal", func(t *testing.T) {
		node, err := Parse("1.27")
		require.NoError(t, err)
		lit, ok := node.(*NumberLit)
		require.True(t, ok)
		assert.Equal(t, 1.27, lit.Value)
	})

	t.Run("variable reference", func(t *testing.T) {
		node, err := Parse("[length]")
		require.NoError(t, err)
		ref, ok := node.(*VarRef)
		require.True(t, ok)
		assert.Equal(t, "length", ref.Name)
	})

	t.Run("multiplication binds tighter than addition", func(t *testing.T) {
		node, err := Parse("1 + 2 * 3")
		require.NoError(t, err)
		bin, ok := node.(*BinaryExpr)
		require.True(t, ok)
		assert.Equal(t, '+', bin.Op)
		right, ok := bin.Right.(*BinaryExpr)
		require.True(t, ok)
		assert.Equal(t, '*', right.Op)
	})

	t.Run("parentheses override precedence", func(t *testing.T) {
		node, err := Parse("(1 + 2) * 3")
		require.NoError(t, err)
		bin, ok := node.(*BinaryExpr)
		require.True(t, ok)
		assert.Equal(t, '*', bin.Op)
	})

	t.Run("function call with two arguments", func(t *testing.T) {
		node, err := Parse("MAX([lines] - 2, 0)")
		require.NoError(t, err)
		call, ok := node.(*CallExpr)
		require.True(t, ok)
		assert.Equal(t, FuncMax, call.Func)
		assert.Len(t, call.Args, 2)
	})

	t.Run("function names are case insensitive", func(t *testing.T) {
		_, err := Parse("roundup([length] / 8)")
		assert.NoError(t, err)
	})

	t.Run("unary minus", func(t *testing.T) {
		_, err := Parse("-[length] + 10")
		assert.NoError(t, err)
	})

	t.Run("nested calls", func(t *testing.T) {
		_, err := Parse("ROUNDUP(MAX([length] / 8, MIN([lines], 4)))")
		assert.NoError(t, err)
	})
}

func TestParse_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		formula string
	}{
		{"empty input", ""},
		{"trailing operator", "[length] +"},
		{"unbalanced paren", "([length] + 1"},
		{"unterminated variable", "[length"},
		{"empty variable", "[]"},
		{"unknown function", "CEILING([length])"},
		{"wrong arity for MAX", "MAX([length])"},
		{"wrong arity for ROUNDUP", "ROUNDUP([length], 2)"},
		{"bare identifier outside call", "length + 1"},
		{"dangling input after expression", "1 + 2 3"},
		{"statement injection", "[length]; DROP TABLE formula_templates"},
		{"string literal", `"abc" + 1`},
		{"exponent operator", "[length] ^ 2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.formula)
			assert.Error(t, err)
		})
	}
}

func TestParse_VariableNormalization(t *testing.T) {
	node, err := Parse("[Fence.Length] + [FENCE.LINES]")
	require.NoError(t, err)

	vars := Variables(node)
	assert.Equal(t, []string{"fence_length", "fence_lines"}, vars)
}

func TestVariables_FirstAppearanceOrder(t *testing.T) {
	node, err := Parse("[b] + [a] * [b] - [c]")
	require.NoError(t, err)

	vars := Variables(node)
	assert.Equal(t, []string{"b", "a", "c"}, vars)
}
