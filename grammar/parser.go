package grammar

import (
	"sort"
)

type actionCode int

const (
	actionShift = actionCode(iota + 1)
	actionReduce
)

type suppression int

const (
	notSuppressed = suppression(iota)
	suppressedNoisily
	suppressedQuietly
)

// parserAction is one entry of a state's action list. For a shift, number
// is the destination state; for a reduce, the rule.
type parserAction struct {
	sym        symbolNum
	number     int
	code       actionCode
	prec       int
	assoc      assocType
	suppressed suppression
}

type conflict interface {
	conflict()
}

type shiftReduceConflict struct {
	state     stateNum
	sym       symbolNum
	nextState stateNum
	rule      ruleNum
}

func (c *shiftReduceConflict) conflict() {
}

type reduceReduceConflict struct {
	state stateNum
	sym   symbolNum
	rule1 ruleNum
	rule2 ruleNum
}

func (c *reduceReduceConflict) conflict() {
}

var (
	_ conflict = &shiftReduceConflict{}
	_ conflict = &reduceReduceConflict{}
)

// parserContext holds the resolved action lists and the conflict and
// default-reduction bookkeeping derived from them.
type parserContext struct {
	actions    [][]*parserAction
	finalState stateNum

	srConflicts []int
	rrConflicts []int
	srTotal     int
	rrTotal     int
	conflicts   []conflict

	defaults    []ruleNum
	unusedRules int
}

// genParserActions converts states and lookaheads into per-state action
// lists and resolves every conflict deterministically.
func genParserActions(symTab *symbolTable, m *itemModel, aut *lr0Automaton, la *lalrContext) *parserContext {
	c := &parserContext{
		actions:     make([][]*parserAction, len(aut.states)),
		finalState:  aut.nextState(symTab.start, stateNumInitial),
		srConflicts: make([]int, len(aut.states)),
		rrConflicts: make([]int, len(aut.states)),
		defaults:    make([]ruleNum, len(aut.states)),
	}

	for i, state := range aut.states {
		c.actions[i] = genStateActions(symTab, m, aut, la, state)
		c.removeConflicts(state.num, c.actions[i])
	}

	for _, acts := range c.actions {
		for _, act := range acts {
			if act.code == actionReduce && act.suppressed == notSuppressed {
				m.rules[act.number].used = true
			}
		}
	}
	for r := ruleNumMin; r.Int() < len(m.rules); r++ {
		if !m.rules[r].used {
			c.unusedRules++
		}
	}

	for i, acts := range c.actions {
		c.defaults[i] = soleReduction(acts)
	}

	return c
}

func genStateActions(symTab *symbolTable, m *itemModel, aut *lr0Automaton, la *lalrContext, state *lrState) []*parserAction {
	var acts []*parserAction

	for _, dest := range state.shifts {
		sym := aut.states[dest].accessingSymbol
		if !symTab.isTerminal(sym) {
			continue
		}
		acts = append(acts, &parserAction{
			sym:    sym,
			number: dest.Int(),
			code:   actionShift,
			prec:   symTab.prec[sym],
			assoc:  symTab.assoc[sym],
		})
	}

	for slot := la.laIndex[state.num]; slot < la.laIndex[state.num+1]; slot++ {
		r := la.laRules[slot]
		la.laSets.ForEachSet(slot, func(term int) {
			acts = append(acts, &parserAction{
				sym:    symbolNum(term),
				number: r.Int(),
				code:   actionReduce,
				prec:   m.rules[r].prec,
				assoc:  m.rules[r].assoc,
			})
		})
	}

	sort.SliceStable(acts, func(i, j int) bool {
		if acts[i].sym != acts[j].sym {
			return acts[i].sym < acts[j].sym
		}
		if acts[i].code != acts[j].code {
			return acts[i].code < acts[j].code
		}
		return acts[i].number < acts[j].number
	})

	return acts
}

// removeConflicts walks one state's sorted action list and suppresses the
// losers of every multi-action symbol group. The first action of a group
// is provisionally preferred; precedence and associativity can transfer
// the preference, everything else wins by list order.
func (c *parserContext) removeConflicts(state stateNum, acts []*parserAction) {
	srCount := 0
	rrCount := 0
	sym := symbolNum(-1)
	var pref *parserAction
	for _, act := range acts {
		if act.sym != sym {
			pref = act
			sym = act.sym
			continue
		}

		switch {
		case state == c.finalState && sym == symbolEOF:
			// Accepting and reducing compete for end-of-input; accepting
			// wins and the reduce counts as a shift/reduce conflict.
			srCount++
			act.suppressed = suppressedNoisily
			c.conflicts = append(c.conflicts, &shiftReduceConflict{
				state:     state,
				sym:       sym,
				nextState: stateNum(pref.number),
				rule:      ruleNum(act.number),
			})
		case pref.code == actionShift:
			if pref.prec > 0 && act.prec > 0 {
				switch {
				case pref.prec < act.prec:
					pref.suppressed = suppressedQuietly
					pref = act
				case pref.prec > act.prec:
					act.suppressed = suppressedQuietly
				default:
					switch pref.assoc {
					case assocTypeLeft:
						pref.suppressed = suppressedQuietly
						pref = act
					case assocTypeRight:
						act.suppressed = suppressedQuietly
					default:
						pref.suppressed = suppressedQuietly
						act.suppressed = suppressedQuietly
					}
				}
			} else {
				srCount++
				act.suppressed = suppressedNoisily
				c.conflicts = append(c.conflicts, &shiftReduceConflict{
					state:     state,
					sym:       sym,
					nextState: stateNum(pref.number),
					rule:      ruleNum(act.number),
				})
			}
		default:
			rrCount++
			act.suppressed = suppressedNoisily
			c.conflicts = append(c.conflicts, &reduceReduceConflict{
				state: state,
				sym:   sym,
				rule1: ruleNum(pref.number),
				rule2: ruleNum(act.number),
			})
		}
	}

	c.srConflicts[state] = srCount
	c.rrConflicts[state] = rrCount
	c.srTotal += srCount
	c.rrTotal += rrCount
}

// soleReduction reports the one rule a state may reduce by default: none
// when any shift survives or two distinct rules remain reducible, and none
// when no action on a real symbol contributes.
func soleReduction(acts []*parserAction) ruleNum {
	count := 0
	rule := ruleNumNil
	for _, act := range acts {
		if act.suppressed != notSuppressed {
			continue
		}
		if act.code == actionShift {
			return ruleNumNil
		}
		if rule != ruleNumNil && ruleNum(act.number) != rule {
			return ruleNumNil
		}
		if act.sym >= 0 {
			count++
		}
		rule = ruleNum(act.number)
	}
	if count == 0 {
		return ruleNumNil
	}
	return rule
}
