package filter

import "fmt"

// FilterVar is the propositional identifier used by the Nnf/CNF/Tseitin
// layer: either a reference to a real Filter "slot" (a deduplicated
// canonical filter, ignoring sign) or an auxiliary variable introduced by
// Tseitin. Ordering places real Vars before Aux vars, so that serialized
// clauses list real-filter literals ahead of auxiliaries.
type FilterVar struct {
	ID     int
	Weight int
	Aux    bool
}

// Less implements the total order Var < Aux, then by ID within each group.
func (v FilterVar) Less(other FilterVar) bool {
	if v.Aux != other.Aux {
		return !v.Aux
	}

	return v.ID < other.ID
}

func (v FilterVar) String() string {
	if v.Aux {
		return fmt.Sprintf("a%d", v.ID)
	}

	return fmt.Sprintf("v%d", v.ID)
}

// varTable assigns dense, left-to-right real-filter ids, deduplicating
// leaves that share an underlying canonical slot (e.g. `size>100` and
// `size<=100` in the same expression both resolve to the same variable,
// opposite polarity).
type varTable struct {
	order []Filter
	ids   map[string]int
}

func newVarTable() *varTable {
	return &varTable{ids: map[string]int{}}
}

// slot returns the FilterVar for f (creating one if this canonical key
// hasn't been seen yet) and the polarity f carries relative to that slot's
// canonical (positive) form.
func (t *varTable) slot(f Filter) (FilterVar, bool) {
	key, polarity := f.canonicalKey()

	id, ok := t.ids[key]
	if !ok {
		id = len(t.order)
		t.ids[key] = id
		t.order = append(t.order, canonicalFilter(f))
	}

	return FilterVar{ID: id, Weight: t.order[id].Weight()}, polarity
}

// canonicalFilter returns the positive-polarity half of f's {f, ¬f} pair, so
// that Filter lookups by id are independent of which polarity happened to
// be seen first.
func canonicalFilter(f Filter) Filter {
	_, polarity := f.canonicalKey()
	if polarity {
		return f
	}

	return f.Negate()
}

// AuxFactory hands out fresh, unique auxiliary FilterVars. The counter is
// owned by the caller, so
// multiple Tseitin passes sharing one factory never collide.
type AuxFactory struct {
	next int
}

// NewAuxFactory creates a factory whose first Next() call returns id start.
// Callers typically pass the real-variable count so aux ids continue above
// the real-variable range.
func NewAuxFactory(start int) *AuxFactory {
	return &AuxFactory{next: start}
}

func (f *AuxFactory) Next() FilterVar {
	v := FilterVar{ID: f.next, Aux: true}
	f.next++

	return v
}
