package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/tabgen/bitset"
	verr "github.com/nihei9/tabgen/error"
)

const (
	maxStateCount = 32767
	maxGotoCount  = 32767
	maxTableIndex = 32767
)

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

type lrState struct {
	num             stateNum
	accessingSymbol symbolNum

	// kernel holds the state's kernel item indices in ascending order.
	// Two states are the same iff their kernels are element-wise equal.
	kernel []int

	// shifts lists the destination states sorted by accessing symbol, so
	// terminal destinations precede non-terminal ones.
	shifts []stateNum

	// reductions lists the rules whose end items occur in the state's
	// closure, in ascending rule order.
	reductions []ruleNum
}

type lr0Automaton struct {
	states []*lrState
}

// genFirstDerives lifts the epsilon-free-first relation between
// non-terminals to a non-terminal × rule bitmap: the rules whose expansion
// can be the first derivation step of each non-terminal.
func genFirstDerives(symTab *symbolTable, m *itemModel) (*bitset.Matrix, error) {
	ntCount := symTab.nonTermCount()

	eff, err := bitset.NewMatrix(ntCount, ntCount)
	if err != nil {
		return nil, err
	}
	for ord := 0; ord < ntCount; ord++ {
		m.eachRule(symbolNum(symTab.tokenCount+ord), func(r ruleNum) {
			rhs := m.rhsSymbols(r)
			if len(rhs) == 0 {
				return
			}
			if head := symbolNum(rhs[0]); symTab.isNonTerminal(head) {
				eff.Set(ord, symTab.nonTermOrdinal(head))
			}
		})
	}
	err = eff.ReflexiveTransitiveClosure()
	if err != nil {
		return nil, err
	}

	firstDerives, err := bitset.NewMatrix(ntCount, m.ruleCount())
	if err != nil {
		return nil, err
	}
	for ord := 0; ord < ntCount; ord++ {
		eff.ForEachSet(ord, func(derivedOrd int) {
			m.eachRule(symbolNum(symTab.tokenCount+derivedOrd), func(r ruleNum) {
				firstDerives.Set(ord, r.Int())
			})
		})
	}

	return firstDerives, nil
}

type lr0Builder struct {
	symTab       *symbolTable
	m            *itemModel
	firstDerives *bitset.Matrix

	states []*lrState

	// byFirstItem buckets states by their first kernel item; a bucket is
	// the collision chain searched on deduplication.
	byFirstItem map[int][]stateNum

	ruleSet *bitset.Matrix
	derived []int
	itemSet []int
}

// genLR0Automaton builds the LR(0) state machine: states are created from
// an initial kernel holding the augmenting rule's first item and processed
// first-in first-out until no kernel yields a new state.
func genLR0Automaton(symTab *symbolTable, m *itemModel, firstDerives *bitset.Matrix) (*lr0Automaton, error) {
	ruleSet, err := bitset.NewMatrix(1, m.ruleCount())
	if err != nil {
		return nil, err
	}

	b := &lr0Builder{
		symTab:       symTab,
		m:            m,
		firstDerives: firstDerives,
		byFirstItem:  map[int][]stateNum{},
		ruleSet:      ruleSet,
	}

	iniKernel := []int{m.rules[ruleNumStart].rhs}
	b.states = append(b.states, &lrState{
		num:    stateNumInitial,
		kernel: iniKernel,
	})
	b.byFirstItem[iniKernel[0]] = []stateNum{stateNumInitial}

	for i := 0; i < len(b.states); i++ {
		err := b.processState(b.states[i])
		if err != nil {
			return nil, err
		}
	}

	return &lr0Automaton{
		states: b.states,
	}, nil
}

func (b *lr0Builder) processState(state *lrState) error {
	items := b.genClosure(state.kernel)

	kernels := map[symbolNum][]int{}
	for _, it := range items {
		sym := b.m.items[it]
		if sym < 0 {
			state.reductions = append(state.reductions, ruleNum(-sym))
			continue
		}
		kernels[symbolNum(sym)] = append(kernels[symbolNum(sym)], it+1)
	}

	shiftSyms := make([]symbolNum, 0, len(kernels))
	for sym := range kernels {
		shiftSyms = append(shiftSyms, sym)
	}
	sort.Slice(shiftSyms, func(i, j int) bool {
		return shiftSyms[i] < shiftSyms[j]
	})

	for _, sym := range shiftSyms {
		dest, err := b.getState(kernels[sym], sym)
		if err != nil {
			return err
		}
		state.shifts = append(state.shifts, dest)
	}

	return nil
}

// genClosure expands a kernel into the state's full item set: the rule-set
// bitmap accumulates FirstDerives of every non-terminal at a dot, and the
// rules' starting items are merged with the kernel preserving ascending
// item order. The result stays valid until the next call.
func (b *lr0Builder) genClosure(kernel []int) []int {
	b.ruleSet.ClearRow(0)
	for _, it := range kernel {
		sym := b.m.items[it]
		if sym >= 0 && b.symTab.isNonTerminal(symbolNum(sym)) {
			b.ruleSet.MergeRow(0, b.firstDerives, b.symTab.nonTermOrdinal(symbolNum(sym)))
		}
	}

	b.derived = b.derived[:0]
	b.ruleSet.ForEachSet(0, func(r int) {
		b.derived = append(b.derived, b.m.rules[r].rhs)
	})

	b.itemSet = b.itemSet[:0]
	i, j := 0, 0
	for i < len(kernel) && j < len(b.derived) {
		switch {
		case kernel[i] < b.derived[j]:
			b.itemSet = append(b.itemSet, kernel[i])
			i++
		case kernel[i] > b.derived[j]:
			b.itemSet = append(b.itemSet, b.derived[j])
			j++
		default:
			b.itemSet = append(b.itemSet, kernel[i])
			i++
			j++
		}
	}
	b.itemSet = append(b.itemSet, kernel[i:]...)
	b.itemSet = append(b.itemSet, b.derived[j:]...)

	return b.itemSet
}

// getState returns the state whose kernel equals the passed one, creating
// it when the collision chain for the kernel's first item has no match.
func (b *lr0Builder) getState(kernel []int, accessingSymbol symbolNum) (stateNum, error) {
	for _, num := range b.byFirstItem[kernel[0]] {
		if kernelEqual(b.states[num].kernel, kernel) {
			return num, nil
		}
	}

	if len(b.states) >= maxStateCount {
		return 0, &verr.GenerationError{
			Status: verr.StatusTooManyItems,
			Cause:  fmt.Errorf("state count exceeds the limit %v", maxStateCount),
		}
	}

	num := stateNum(len(b.states))
	b.states = append(b.states, &lrState{
		num:             num,
		accessingSymbol: accessingSymbol,
		kernel:          kernel,
	})
	b.byFirstItem[kernel[0]] = append(b.byFirstItem[kernel[0]], num)

	return num, nil
}

func kernelEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i, it := range a {
		if it != b[i] {
			return false
		}
	}
	return true
}
