package filter_test

import (
	"testing"

	"github.com/pfind/pfind/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectVarIDs walks n collecting every distinct FilterVar id present,
// split into real and aux buckets.
func collectVarIDs(n *filter.NnfNode, real, auxSet map[int]bool) {
	switch n.Kind {
	case filter.NnfVar:
		if n.Var.Aux {
			auxSet[n.Var.ID] = true
		} else {
			real[n.Var.ID] = true
		}
	case filter.NnfAnd, filter.NnfOr:
		for _, c := range n.Children {
			collectVarIDs(c, real, auxSet)
		}
	}
}

func keys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}

// evalNnfMixed evaluates n against separate real/aux assignments.
func evalNnfMixed(t *testing.T, n *filter.NnfNode, real, aux map[int]bool) bool {
	t.Helper()

	switch n.Kind {
	case filter.NnfVar:
		var val bool
		if n.Var.Aux {
			val = aux[n.Var.ID]
		} else {
			val = real[n.Var.ID]
		}

		if n.Polarity {
			return val
		}

		return !val
	case filter.NnfAnd:
		for _, c := range n.Children {
			if !evalNnfMixed(t, c, real, aux) {
				return false
			}
		}

		return true
	case filter.NnfOr:
		for _, c := range n.Children {
			if evalNnfMixed(t, c, real, aux) {
				return true
			}
		}

		return false
	default:
		t.Fatalf("unknown Nnf kind")
		return false
	}
}

func mergeAssignment(ids []int, vals map[int]bool) map[int]bool {
	out := make(map[int]bool, len(ids))
	for _, id := range ids {
		out[id] = vals[id]
	}

	return out
}

func TestTseitin_IsCNF(t *testing.T) {
	t.Parallel()

	n := filter.Or(
		filter.And(filter.NewVar(v(0), true), filter.NewVar(v(1), true)),
		filter.And(filter.NewVar(v(2), true), filter.NewVar(v(3), false)),
	)

	af := filter.NewAuxFactory(4)
	out := filter.Tseitin(n, af.Next)

	assert.True(t, filter.IsCNF(out))
}

func TestTseitin_Equisatisfiable(t *testing.T) {
	t.Parallel()

	n := filter.Or(
		filter.And(filter.NewVar(v(0), true), filter.NewVar(v(1), true)),
		filter.And(filter.NewVar(v(2), true), filter.NewVar(v(3), false)),
	)

	af := filter.NewAuxFactory(4)
	out := filter.Tseitin(n, af.Next)

	realIDs := map[int]bool{}
	auxIDs := map[int]bool{}
	collectVarIDs(out, realIDs, auxIDs)

	realList := []int{0, 1, 2, 3}
	auxList := keys(auxIDs)

	for _, realVals := range allAssignments(realList) {
		original := evalNnf(t, n, realVals)

		satisfiable := false

		for _, auxVals := range allAssignments(auxList) {
			if evalNnfMixed(t, out, realVals, auxVals) {
				satisfiable = true
				break
			}
		}

		assert.Equal(t, original, satisfiable, "assignment %v", realVals)
	}
}

func TestTseitin_Idempotent(t *testing.T) {
	t.Parallel()

	n := filter.Or(filter.NewVar(v(0), true), filter.NewVar(v(1), true))

	af1 := filter.NewAuxFactory(2)
	once := filter.Tseitin(n, af1.Next)

	af2 := filter.NewAuxFactory(2)
	twice := filter.Tseitin(once, af2.Next)

	require.True(t, filter.IsCNF(once))
	require.True(t, filter.IsCNF(twice))

	// Idempotence up to trivially-true clause insertion, which must not
	// happen: re-running Tseitin over an already-CNF input should not grow
	// the clause set.
	assert.Equal(t, once, twice)
}

func TestTseitin_InternalInversionForcesConstant(t *testing.T) {
	t.Parallel()

	// Or( And(v0, ¬v0), v1 ): the And subtree is self-contradictory, so its
	// proxy auxiliary must be forced false, leaving the clause equivalent to
	// just v1.
	contradiction := filter.And(filter.NewVar(v(0), true), filter.NewVar(v(0), false))
	n := filter.Or(contradiction, filter.NewVar(v(1), true))

	af := filter.NewAuxFactory(2)
	out := filter.Tseitin(n, af.Next)

	require.True(t, filter.IsCNF(out))

	for _, realVals := range allAssignments([]int{1}) {
		realVals[0] = false // the contradictory subtree is always false regardless

		auxIDs := map[int]bool{}
		realIDs := map[int]bool{}
		collectVarIDs(out, realIDs, auxIDs)

		satisfiable := false

		for _, auxVals := range allAssignments(keys(auxIDs)) {
			if evalNnfMixed(t, out, realVals, auxVals) {
				satisfiable = true
				break
			}
		}

		assert.Equal(t, realVals[1], satisfiable)
	}
}
