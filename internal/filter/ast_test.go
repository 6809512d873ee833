package filter_test

import (
	"testing"

	"github.com/pfind/pfind/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(kind filter.Kind, cmp filter.Comparison, n uint64) *filter.LeafNode {
	var f filter.Filter

	switch kind {
	case filter.KindSize:
		f = filter.NewSizeFilter(cmp, n)
	case filter.KindDepth:
		f = filter.NewDepthFilter(cmp, n)
	default:
		f = filter.NewSizeFilter(cmp, n)
	}

	return &filter.LeafNode{Filter: f}
}

func evalAST(t *testing.T, e filter.ExpressionNode, vals map[string]bool) bool {
	t.Helper()

	switch n := e.(type) {
	case *filter.LeafNode:
		v, ok := vals[n.Filter.String()]
		require.True(t, ok, "missing truth assignment for %s", n.Filter.String())

		return v
	case *filter.AndNode:
		return evalAST(t, n.Left, vals) && evalAST(t, n.Right, vals)
	case *filter.OrNode:
		return evalAST(t, n.Left, vals) || evalAST(t, n.Right, vals)
	case *filter.NotNode:
		return !evalAST(t, n.Expr, vals)
	default:
		t.Fatalf("unknown node type %T", e)
		return false
	}
}

func TestToNNF_NoNotNodesRemain(t *testing.T) {
	t.Parallel()

	tree := &filter.NotNode{Expr: &filter.AndNode{
		Left:  leaf(filter.KindSize, filter.Gt, 10),
		Right: &filter.OrNode{Left: leaf(filter.KindSize, filter.Eq, 1), Right: &filter.NotNode{Expr: leaf(filter.KindDepth, filter.Lt, 3)}},
	}}

	nnf := filter.ToNNF(tree)

	assertNoNot(t, nnf)
}

func assertNoNot(t *testing.T, e filter.ExpressionNode) {
	t.Helper()

	switch n := e.(type) {
	case *filter.NotNode:
		t.Fatalf("unexpected Not node in NNF output: %s", n.String())
	case *filter.AndNode:
		assertNoNot(t, n.Left)
		assertNoNot(t, n.Right)
	case *filter.OrNode:
		assertNoNot(t, n.Left)
		assertNoNot(t, n.Right)
	}
}

func TestToNNF_Idempotent(t *testing.T) {
	t.Parallel()

	tree := &filter.NotNode{Expr: &filter.OrNode{
		Left:  leaf(filter.KindSize, filter.Gt, 10),
		Right: leaf(filter.KindDepth, filter.Le, 2),
	}}

	once := filter.ToNNF(tree)
	twice := filter.ToNNF(once)

	assert.Equal(t, once.String(), twice.String())
}

func TestToNNF_PreservesTruthTable(t *testing.T) {
	t.Parallel()

	a := leaf(filter.KindSize, filter.Gt, 10)
	b := leaf(filter.KindDepth, filter.Le, 2)
	c := leaf(filter.KindSize, filter.Eq, 1)

	tree := &filter.NotNode{Expr: &filter.AndNode{
		Left:  &filter.OrNode{Left: a, Right: b},
		Right: &filter.NotNode{Expr: c},
	}}

	nnf := filter.ToNNF(tree)

	keys := []string{a.Filter.String(), b.Filter.String(), c.Filter.String()}

	for mask := 0; mask < 8; mask++ {
		vals := map[string]bool{
			keys[0]: mask&1 != 0,
			keys[1]: mask&2 != 0,
			keys[2]: mask&4 != 0,
		}

		original := evalAST(t, tree, vals)
		projected := evalNnfFromVals(t, nnf, vals)

		assert.Equal(t, original, projected, "mismatch at mask %d", mask)
	}
}

// evalNnfFromVals evaluates an ExpressionNode tree (post-ToNNF, so leaves may
// carry a negated Filter) against a truth table keyed by the *un-negated*
// Filter.String(), flipping as needed.
func evalNnfFromVals(t *testing.T, e filter.ExpressionNode, vals map[string]bool) bool {
	t.Helper()

	switch n := e.(type) {
	case *filter.LeafNode:
		if v, ok := vals[n.Filter.String()]; ok {
			return v
		}
		// This leaf is the negated form of some original leaf.
		negKey := n.Filter.Negate().String()
		v, ok := vals[negKey]
		require.True(t, ok, "no truth value for %s or its negation", n.Filter.String())

		return !v
	case *filter.AndNode:
		return evalNnfFromVals(t, n.Left, vals) && evalNnfFromVals(t, n.Right, vals)
	case *filter.OrNode:
		return evalNnfFromVals(t, n.Left, vals) || evalNnfFromVals(t, n.Right, vals)
	default:
		t.Fatalf("unexpected node %T in NNF tree", e)
		return false
	}
}
