package filter_test

import (
	"testing"

	"github.com/pfind/pfind/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func v(id int) filter.FilterVar { return filter.FilterVar{ID: id} }
func aux(id int) filter.FilterVar { return filter.FilterVar{ID: id, Aux: true} }

func TestAnd_FlattensAndDedupes(t *testing.T) {
	t.Parallel()

	a := filter.NewVar(v(1), true)
	b := filter.NewVar(v(2), true)
	c := filter.NewVar(v(3), true)

	nested := filter.And(filter.And(a, b), filter.And(b, c))

	require.Equal(t, filter.NnfAnd, nested.Kind)
	assert.Len(t, nested.Children, 3)
}

func TestAnd_SingletonCollapses(t *testing.T) {
	t.Parallel()

	a := filter.NewVar(v(1), true)

	assert.Same(t, a, filter.And(a))
}

func TestBuildSet_VarsSortBeforeAux(t *testing.T) {
	t.Parallel()

	realVar := filter.NewVar(v(5), true)
	auxVar := filter.NewVar(aux(0), true)

	n := filter.Or(auxVar, realVar)

	require.Equal(t, filter.NnfOr, n.Kind)
	require.Len(t, n.Children, 2)
	assert.Equal(t, filter.NnfVar, n.Children[0].Kind)
	assert.False(t, n.Children[0].Var.Aux)
	assert.True(t, n.Children[1].Var.Aux)
}

func TestNegate_PanicsOnCompound(t *testing.T) {
	t.Parallel()

	n := filter.And(filter.NewVar(v(1), true), filter.NewVar(v(2), true))

	assert.Panics(t, func() { n.Negate() })
}

func TestIsClause_RejectsDuplicateVariable(t *testing.T) {
	t.Parallel()

	// Or(v1, ¬v1) keeps both literals (opposite polarities are distinct
	// keys in the sorted set), so it repeats the underlying variable v1 and
	// is not a clause.
	duplicate := filter.Or(filter.NewVar(v(1), true), filter.NewVar(v(1), false))
	assert.False(t, filter.IsClause(duplicate))

	clause := filter.Or(filter.NewVar(v(1), true), filter.NewVar(v(2), true))
	assert.True(t, filter.IsClause(clause))

	single := filter.NewVar(v(1), true)
	assert.True(t, filter.IsClause(single))

	compound := filter.And(filter.NewVar(v(1), true), filter.NewVar(v(2), true))
	assert.False(t, filter.IsClause(compound))
}

func TestIsCNF(t *testing.T) {
	t.Parallel()

	clause1 := filter.Or(filter.NewVar(v(1), true), filter.NewVar(v(2), true))
	clause2 := filter.NewVar(v(3), false)

	cnf := filter.And(clause1, clause2)
	assert.True(t, filter.IsCNF(cnf))

	notCNF := filter.Or(filter.And(filter.NewVar(v(1), true), filter.NewVar(v(2), true)), filter.NewVar(v(3), true))
	assert.False(t, filter.IsCNF(notCNF))
}
