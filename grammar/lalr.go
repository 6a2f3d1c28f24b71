package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/tabgen/bitset"
	verr "github.com/nihei9/tabgen/error"
)

// gotoTransition is one non-terminal transition of the automaton.
type gotoTransition struct {
	from stateNum
	to   stateNum
	sym  symbolNum
}

// lalrContext carries the lookahead computation: the goto enumeration,
// the follow bitmap per goto, and the per-reduction lookahead slots.
type lalrContext struct {
	gotos []gotoTransition

	// gotoMap[v]..gotoMap[v+1] bounds the gotos of the non-terminal with
	// ordinal v; within a bucket the from-states are strictly ascending.
	gotoMap []int

	follow *bitset.Matrix

	// laIndex[s]..laIndex[s+1] enumerates state s's reduction slots;
	// laRules identifies the reducing rule of each slot and laSets holds
	// the merged lookahead terminal bitmap.
	laIndex []int
	laRules []ruleNum
	laSets  *bitset.Matrix

	// lookback[slot] lists the gotos whose follow contributes to the slot.
	lookback [][]int
}

// genLookaheads attaches LALR(1) lookahead sets to every reduction using
// the reads/includes digraph method: initial follows come from terminal
// shifts, the reads pass extends them through nullable transitions, and
// the transposed includes pass folds in containment by larger rules.
func genLookaheads(symTab *symbolTable, m *itemModel, aut *lr0Automaton) (*lalrContext, error) {
	c := &lalrContext{}

	err := c.enumGotos(symTab, aut)
	if err != nil {
		return nil, err
	}

	c.follow, err = bitset.NewMatrix(len(c.gotos), symTab.tokenCount)
	if err != nil {
		return nil, err
	}

	reads := make([][]int, len(c.gotos))
	for g, gt := range c.gotos {
		to := aut.states[gt.to]
		for _, dest := range to.shifts {
			sym := aut.states[dest].accessingSymbol
			if symTab.isTerminal(sym) {
				c.follow.Set(g, int(sym))
				continue
			}
			if m.nullable[sym] {
				reads[g] = append(reads[g], c.findGoto(symTab, gt.to, sym))
			}
		}
	}
	// The start goto carries end-of-input from the outset.
	c.follow.Set(c.findGoto(symTab, stateNumInitial, symTab.start), int(symbolEOF))

	runDigraph(reads, c.follow)

	c.genLookbackAndIncludes(symTab, m, aut)

	err = c.assembleLookaheads(symTab)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// enumGotos expands every non-terminal shift into a goto, bucketed per
// non-terminal and ordered by from-state within a bucket.
func (c *lalrContext) enumGotos(symTab *symbolTable, aut *lr0Automaton) error {
	ntCount := symTab.realNonTermCount()
	counts := make([]int, ntCount)
	gotoCount := 0
	for _, state := range aut.states {
		for _, dest := range state.shifts {
			sym := aut.states[dest].accessingSymbol
			if symTab.isTerminal(sym) {
				continue
			}
			counts[symTab.nonTermOrdinal(sym)]++
			gotoCount++
		}
	}
	if gotoCount > maxGotoCount {
		return &verr.GenerationError{
			Status: verr.StatusTooManyItems,
			Cause:  fmt.Errorf("goto count exceeds the limit %v", maxGotoCount),
		}
	}

	c.gotoMap = make([]int, ntCount+1)
	for v := 0; v < ntCount; v++ {
		c.gotoMap[v+1] = c.gotoMap[v] + counts[v]
	}

	c.gotos = make([]gotoTransition, gotoCount)
	next := make([]int, ntCount)
	copy(next, c.gotoMap[:ntCount])
	// States ascend here, which keeps every bucket sorted by from-state.
	for _, state := range aut.states {
		for _, dest := range state.shifts {
			sym := aut.states[dest].accessingSymbol
			if symTab.isTerminal(sym) {
				continue
			}
			v := symTab.nonTermOrdinal(sym)
			c.gotos[next[v]] = gotoTransition{
				from: state.num,
				to:   dest,
				sym:  sym,
			}
			next[v]++
		}
	}

	return nil
}

// findGoto locates the goto on sym out of a state by binary search within
// the non-terminal's bucket. The transition must exist.
func (c *lalrContext) findGoto(symTab *symbolTable, from stateNum, sym symbolNum) int {
	v := symTab.nonTermOrdinal(sym)
	lo, hi := c.gotoMap[v], c.gotoMap[v+1]
	i := lo + sort.Search(hi-lo, func(i int) bool {
		return c.gotos[lo+i].from >= from
	})
	return i
}

// genLookbackAndIncludes walks, for every goto on a non-terminal N and
// every rule of N, the rule's right side from the goto's origin. The state
// reached at the end anchors a lookback edge from its reduction slot to
// the goto; walking back over the nullable tail records one includes edge
// per non-terminal whose suffix derives the empty string.
func (c *lalrContext) genLookbackAndIncludes(symTab *symbolTable, m *itemModel, aut *lr0Automaton) {
	c.laIndex = make([]int, len(aut.states)+1)
	for i, state := range aut.states {
		c.laIndex[i+1] = c.laIndex[i] + len(state.reductions)
	}
	slotCount := c.laIndex[len(aut.states)]
	c.laRules = make([]ruleNum, slotCount)
	c.lookback = make([][]int, slotCount)
	for i, state := range aut.states {
		copy(c.laRules[c.laIndex[i]:c.laIndex[i+1]], state.reductions)
	}

	includes := make([][]int, len(c.gotos))
	var stateSeq []stateNum
	for g, gt := range c.gotos {
		m.eachRule(gt.sym, func(r ruleNum) {
			rhs := m.rhsSymbols(r)

			stateSeq = stateSeq[:0]
			stateSeq = append(stateSeq, gt.from)
			s := gt.from
			for _, sym := range rhs {
				s = aut.nextState(symbolNum(sym), s)
				stateSeq = append(stateSeq, s)
			}

			slot := c.slotOf(s, r)
			c.lookback[slot] = append(c.lookback[slot], g)

			for i := len(rhs) - 1; i >= 0; i-- {
				sym := symbolNum(rhs[i])
				if symTab.isTerminal(sym) {
					break
				}
				includes[g] = append(includes[g], c.findGoto(symTab, stateSeq[i], sym))
				if !m.nullable[sym] {
					break
				}
			}
		})
	}

	transposed := make([][]int, len(c.gotos))
	for g, edges := range includes {
		for _, g2 := range edges {
			transposed[g2] = append(transposed[g2], g)
		}
	}

	runDigraph(transposed, c.follow)
}

func (c *lalrContext) slotOf(s stateNum, r ruleNum) int {
	for i := c.laIndex[s]; i < c.laIndex[s+1]; i++ {
		if c.laRules[i] == r {
			return i
		}
	}
	// Reductions of a state are exactly its end items, so the slot exists.
	panic(fmt.Sprintf("no reduction slot for state %v, rule %v", s, r))
}

// assembleLookaheads ORs the follow of every goto a slot looks back at
// into the slot's lookahead bitmap.
func (c *lalrContext) assembleLookaheads(symTab *symbolTable) error {
	rows := len(c.laRules)
	if rows == 0 {
		rows = 1
	}
	var err error
	c.laSets, err = bitset.NewMatrix(rows, symTab.tokenCount)
	if err != nil {
		return err
	}
	for slot, gs := range c.lookback {
		for _, g := range gs {
			c.laSets.MergeRow(slot, c.follow, g)
		}
	}
	return nil
}

// nextState follows the transition on sym out of state s. The shift list
// is sorted by accessing symbol, but stays short enough that a linear scan
// serves.
func (a *lr0Automaton) nextState(sym symbolNum, s stateNum) stateNum {
	for _, dest := range a.states[s].shifts {
		if a.states[dest].accessingSymbol == sym {
			return dest
		}
	}
	panic(fmt.Sprintf("no transition on %v out of state %v", sym, s))
}
