package grammar

import (
	"github.com/nihei9/tabgen/spec"
)

type ruleNum int

const (
	ruleNumNil   = ruleNum(0)
	ruleNumEmpty = ruleNum(1)
	ruleNumStart = ruleNum(2)
	ruleNumMin   = ruleNum(3)
)

func (n ruleNum) Int() int {
	return int(n)
}

type rule struct {
	lhs    symbolNum
	rhs    int
	rhsLen int
	prec   int
	assoc  assocType
	used   bool
}

// itemModel lays every rule's right side out in one flat items sequence.
// A non-negative element is a symbol at the dot; a negative element -n
// both terminates rule n's right side and points an end position back at
// its rule. An LR(0) item is an index into this sequence.
type itemModel struct {
	items []int
	rules []rule

	// derives[sym] is the first rule of a non-terminal; rules sharing a
	// left side are contiguous, so iteration runs until the left side
	// changes. Indexed up to and including the augmented start symbol.
	derives []ruleNum

	nullable []bool
}

func genItemModel(symTab *symbolTable, desc *spec.GrammarDescription) *itemModel {
	m := &itemModel{
		// Rules 0 and 1 are reserved (invalid and empty); rule 2 is the
		// augmenting start rule whose right side occupies the reserved
		// items 1..2 and whose terminator sits at item 3.
		items: []int{-1, int(symTab.start), int(symbolEOF), -int(ruleNumStart)},
		rules: make([]rule, 3, 3+desc.SymbolCount),
	}
	m.rules[ruleNumStart] = rule{
		lhs:    symTab.augmented,
		rhs:    1,
		rhsLen: 2,
	}

	m.derives = make([]ruleNum, symTab.symbolCount+1)
	m.derives[symTab.augmented] = ruleNumStart

	for id := symTab.tokenCount; id < symTab.symbolCount; id++ {
		lhs := symbolNum(id)
		m.derives[lhs] = ruleNum(len(m.rules))
		for _, prod := range desc.Symbols[id].Productions {
			num := ruleNum(len(m.rules))
			rhs := len(m.items)
			m.items = append(m.items, prod.Symbols...)
			m.items = append(m.items, -int(num))

			prec := precNil
			assoc := assocTypeNil
			for _, s := range prod.Symbols {
				if symTab.isTerminal(symbolNum(s)) {
					prec = symTab.prec[s]
					assoc = symTab.assoc[s]
				}
			}
			if prod.Prec > 0 {
				prec = prod.Prec
			}

			m.rules = append(m.rules, rule{
				lhs:    lhs,
				rhs:    rhs,
				rhsLen: len(prod.Symbols),
				prec:   prec,
				assoc:  assoc,
			})
		}
	}

	m.nullable = genNullable(symTab, m)

	return m
}

func (m *itemModel) ruleCount() int {
	return len(m.rules)
}

func (m *itemModel) rhsSymbols(r ruleNum) []int {
	rl := &m.rules[r]
	return m.items[rl.rhs : rl.rhs+rl.rhsLen]
}

// itemRule resolves an item index to its rule and dot position by walking
// forward to the rule's negated-number terminator.
func (m *itemModel) itemRule(it int) (ruleNum, int) {
	k := it
	for m.items[k] >= 0 {
		k++
	}
	r := ruleNum(-m.items[k])
	return r, it - m.rules[r].rhs
}

// eachRule calls f for every rule whose left side is lhs, in rule order.
func (m *itemModel) eachRule(lhs symbolNum, f func(r ruleNum)) {
	for r := m.derives[lhs]; r.Int() < len(m.rules) && m.rules[r].lhs == lhs; r++ {
		f(r)
	}
}

// genNullable closes the "derives the empty string" property over the
// rules: a non-terminal is nullable when some production consists solely
// of nullable symbols. Terminals are never nullable.
func genNullable(symTab *symbolTable, m *itemModel) []bool {
	nullable := make([]bool, symTab.symbolCount+1)
	for {
		changed := false
		for r := ruleNumStart; r.Int() < len(m.rules); r++ {
			if nullable[m.rules[r].lhs] {
				continue
			}
			empty := true
			for _, s := range m.rhsSymbols(r) {
				if symTab.isTerminal(symbolNum(s)) || !nullable[s] {
					empty = false
					break
				}
			}
			if empty {
				nullable[m.rules[r].lhs] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return nullable
}
