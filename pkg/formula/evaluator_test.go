package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluator_Evaluate(t *testing.T) {
	e := NewEvaluator()

	t.Run("arithmetic", func(t *testing.T) {
		value, missing, err := e.Evaluate("2 + 3 * 4 - 6 / 2", NewContext())
		require.NoError(t, err)
		assert.Empty(t, missing)
		assert.Equal(t, 11.0, value)
	})

	t.Run("variable lookup", func(t *testing.T) {
		ctx := NewContext()
		ctx.Set("length", 100)
		ctx.Set("post_spacing", 8)

		value, missing, err := e.Evaluate("[length] / [post_spacing]", ctx)
		require.NoError(t, err)
		assert.Empty(t, missing)
		assert.Equal(t, 12.5, value)
	})

	t.Run("post formula", func(t *testing.T) {
		ctx := NewContext()
		ctx.Set("length", 100)
		ctx.Set("post_spacing", 8)
		ctx.Set("lines", 4)

		value, _, err := e.Evaluate("ROUNDUP([length] / [post_spacing]) + 1 + ROUNDUP(MAX([lines] - 2, 0) / 2)", ctx)
		require.NoError(t, err)
		assert.Equal(t, 15.0, value)
	})

	t.Run("functions", func(t *testing.T) {
		cases := []struct {
			formula string
			want    float64
		}{
			{"ROUNDUP(12.1)", 13},
			{"ROUNDUP(12.0)", 12},
			{"ROUNDDOWN(12.9)", 12},
			{"ROUND(12.5)", 13},
			{"ROUND(12.4)", 12},
			{"MAX(3, 7)", 7},
			{"MIN(3, 7)", 3},
			{"MAX(-2, 0)", 0},
		}
		for _, tc := range cases {
			value, _, err := e.Evaluate(tc.formula, NewContext())
			require.NoError(t, err, tc.formula)
			assert.Equal(t, tc.want, value, tc.formula)
		}
	})

	t.Run("unary minus", func(t *testing.T) {
		value, _, err := e.Evaluate("-3 + 10", NewContext())
		require.NoError(t, err)
		assert.Equal(t, 7.0, value)
	})

	t.Run("division by zero fails", func(t *testing.T) {
		_, _, err := e.Evaluate("1 / 0", NewContext())
		assert.Error(t, err)
	})

	t.Run("deterministic across repeated runs", func(t *testing.T) {
		ctx := NewContext()
		ctx.Set("length", 123.45)
		ctx.Set("picket_width_inches", 5.5)

		first, _, err := e.Evaluate("ROUNDUP([length] * 12 / [picket_width_inches] * 1.02)", ctx)
		require.NoError(t, err)
		for i := 0; i < 50; i++ {
			again, _, err := e.Evaluate("ROUNDUP([length] * 12 / [picket_width_inches] * 1.02)", ctx)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})
}

func TestEvaluator_MissingVariables(t *testing.T) {
	e := NewEvaluator()

	t.Run("missing variable evaluates as zero", func(t *testing.T) {
		value, missing, err := e.Evaluate("[post_qty] * 0.5", NewContext())
		require.NoError(t, err)
		assert.Equal(t, 0.0, value)
		assert.Equal(t, []string{"post_qty"}, missing)
	})

	t.Run("repeated references report once", func(t *testing.T) {
		_, missing, err := e.Evaluate("[post_qty] + [post_qty] * [post_qty]", NewContext())
		require.NoError(t, err)
		assert.Equal(t, []string{"post_qty"}, missing)
	})

	t.Run("present variables are not reported", func(t *testing.T) {
		ctx := NewContext()
		ctx.Set("length", 100)

		_, missing, err := e.Evaluate("[length] + [gates]", ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"gates"}, missing)
	})

	t.Run("zero value is present, not missing", func(t *testing.T) {
		ctx := NewContext()
		ctx.Set("gates", 0)

		_, missing, err := e.Evaluate("[gates] * 3", ctx)
		require.NoError(t, err)
		assert.Empty(t, missing)
	})
}

func TestEvaluator_DotNotation(t *testing.T) {
	e := NewEvaluator()

	// Formulas written with dot notation resolve against flattened context keys.
	ctx := NewContext()
	ctx.Set("fence.length", 80)

	value, missing, err := e.Evaluate("[fence.length] / 8", ctx)
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Equal(t, 10.0, value)

	value, missing, err = e.Evaluate("[fence_length] / 8", ctx)
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Equal(t, 10.0, value)
}

func TestEvaluator_Validate(t *testing.T) {
	e := NewEvaluator()

	assert.NoError(t, e.Validate("ROUNDUP([length] / [post_spacing]) + 1"))
	assert.Error(t, e.Validate("[length] +"))
	assert.Error(t, e.Validate("import os"))
}

func TestEvaluator_CompileCache(t *testing.T) {
	e := NewEvaluator()

	_, _, err := e.Evaluate("[length] * 2", NewContext())
	require.NoError(t, err)

	e.mu.RLock()
	_, cached := e.cache["[length] * 2"]
	e.mu.RUnlock()
	assert.True(t, cached)

	e.ClearCache()

	e.mu.RLock()
	assert.Empty(t, e.cache)
	e.mu.RUnlock()
}
