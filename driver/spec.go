package driver

import (
	"github.com/nihei9/tabgen/spec"
)

// gram wraps the generated tables with the displacement lookups the parse
// loop needs. A vector base of 0 always means "no entries".
type gram struct {
	g *spec.GeneratedTables
}

func (t *gram) lookup(base, key int) (int, bool) {
	if base == 0 {
		return 0, false
	}
	idx := base + key
	if idx < 0 || idx > t.g.TableSize || t.g.Check[idx] != key {
		return 0, false
	}
	return t.g.Table[idx], true
}

func (t *gram) shift(state, term int) (int, bool) {
	return t.lookup(t.g.ShiftIndex[state], term)
}

func (t *gram) reduce(state, term int) (int, bool) {
	return t.lookup(t.g.ReduceIndex[state], term)
}

func (t *gram) defaultReduction(state int) (int, bool) {
	r := t.g.DefaultReductions[state]
	return r, r != 0
}

func (t *gram) gotoState(state, lhs int) int {
	if next, ok := t.lookup(t.g.GotoIndex[lhs], state); ok {
		return next
	}
	return t.g.DefaultGoto[lhs]
}

func (t *gram) terminalName(term int) string {
	return t.g.Names[term]
}

func (t *gram) nonTerminalName(lhs int) string {
	return t.g.Names[t.g.TokenCount+1+lhs]
}

// expectedTerminals lists the terminals a state has an explicit action
// for, in ascending order.
func (t *gram) expectedTerminals(state int) []int {
	var terms []int
	for term := 0; term <= t.g.LastToken; term++ {
		if _, ok := t.shift(state, term); ok {
			terms = append(terms, term)
			continue
		}
		if _, ok := t.reduce(state, term); ok {
			terms = append(terms, term)
		}
	}
	return terms
}
