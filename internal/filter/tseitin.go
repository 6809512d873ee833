package filter

// Tseitin converts an Nnf tree into an equisatisfiable CNF of polynomial
// size, introducing auxiliary variables from nextAux for every compound
// subtree that appears in a "nested position" (under an Or). Leaves and
// top-level/top-level-And subtrees stay in "required position" and are
// emitted directly as clauses.
func Tseitin(n *NnfNode, nextAux func() FilterVar) *NnfNode {
	t := &tseitin{nextAux: nextAux}
	t.required(n)

	return And(t.clauses...)
}

type tseitin struct {
	nextAux func() FilterVar
	clauses []*NnfNode
}

// addClause appends Or(lits...) to the output, unless it's a tautology (both
// x and ¬x present for some variable), which is dropped rather than
// inserted.
func (t *tseitin) addClause(lits ...*NnfNode) {
	if hasComplementaryPair(lits) {
		return
	}

	t.clauses = append(t.clauses, Or(lits...))
}

// required processes n in required position: top level, and recursively
// under top-level And. Leaves become unit clauses; Or children become
// clauses whose compound operands are lifted to auxiliaries via literal.
func (t *tseitin) required(n *NnfNode) {
	switch n.Kind {
	case NnfVar:
		t.addClause(n)
	case NnfAnd:
		for _, c := range n.Children {
			t.required(c)
		}
	case NnfOr:
		lits := make([]*NnfNode, len(n.Children))
		for i, c := range n.Children {
			lits[i] = t.literal(c)
		}

		t.addClause(lits...)
	}
}

// literal returns a literal equivalent to n, emitting defining clauses for a
// fresh auxiliary if n is compound (nested position).
func (t *tseitin) literal(n *NnfNode) *NnfNode {
	if n.Kind == NnfVar {
		return n
	}

	childLits := make([]*NnfNode, len(n.Children))
	for i, c := range n.Children {
		childLits[i] = t.literal(c)
	}

	aux := t.nextAux()
	a := NewVar(aux, true)
	notA := NewVar(aux, false)

	if hasComplementaryPair(childLits) {
		// Internal inversion: the subtree is a constant. An And with both a
		// literal and its negation is always false; an Or with both is
		// always true. Force the proxy accordingly instead of emitting the
		// usual (now-meaningless) defining clauses.
		if n.Kind == NnfAnd {
			t.clauses = append(t.clauses, notA)
		} else {
			t.clauses = append(t.clauses, a)
		}

		return a
	}

	if n.Kind == NnfAnd {
		// a ↔ (c1 ∧ ... ∧ cn)
		negated := make([]*NnfNode, len(childLits)+1)
		for i, c := range childLits {
			negated[i] = c.Negate()
		}

		negated[len(childLits)] = a
		t.addClause(negated...)

		for _, c := range childLits {
			t.addClause(notA, c)
		}
	} else {
		// a ↔ (c1 ∨ ... ∨ cn)
		disjuncts := make([]*NnfNode, len(childLits)+1)
		copy(disjuncts, childLits)
		disjuncts[len(childLits)] = notA
		t.addClause(disjuncts...)

		for _, c := range childLits {
			t.addClause(c.Negate(), a)
		}
	}

	return a
}

func hasComplementaryPair(lits []*NnfNode) bool {
	seenPositive := map[int]bool{}
	seenNegative := map[int]bool{}

	for _, l := range lits {
		if l.Polarity {
			seenPositive[l.Var.ID] = true
		} else {
			seenNegative[l.Var.ID] = true
		}
	}

	for id := range seenPositive {
		if seenNegative[id] {
			return true
		}
	}

	return false
}
