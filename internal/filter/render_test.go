package filter_test

import (
	"strings"
	"testing"

	"github.com/pfind/pfind/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDOT(t *testing.T) {
	t.Parallel()

	e, err := filter.Parse("not (depth=1 or size>10)", filter.NoNameService)
	require.NoError(t, err)

	dot := filter.RenderDOT(e)

	assert.True(t, strings.HasPrefix(dot, "digraph Expression {\n"))
	assert.True(t, strings.HasSuffix(dot, "}\n"))
	assert.Contains(t, dot, `label="NOT"`)
	assert.Contains(t, dot, `label="OR"`)
	assert.Contains(t, dot, `label="depth=1"`)
	assert.Contains(t, dot, "->")
}

func TestRenderNnfDOT(t *testing.T) {
	t.Parallel()

	n := filter.And(
		filter.NewVar(filter.FilterVar{ID: 0}, true),
		filter.NewVar(filter.FilterVar{ID: 1}, false),
	)

	dot := filter.RenderNnfDOT(n)

	assert.True(t, strings.HasPrefix(dot, "digraph Nnf {\n"))
	assert.Contains(t, dot, `label="AND"`)
	assert.Contains(t, dot, `label="v0"`)
	assert.Contains(t, dot, `label="¬v1"`)
}
