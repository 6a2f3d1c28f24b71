package grammar

import (
	verr "github.com/nihei9/tabgen/error"
	"github.com/nihei9/tabgen/spec"
)

type generateConfig struct {
	reporting bool
}

type GenerateOption func(config *generateConfig)

// EnableReporting makes Generate also return a report describing the
// symbols, productions, states, and conflicts of the grammar.
func EnableReporting() GenerateOption {
	return func(config *generateConfig) {
		config.reporting = true
	}
}

// Generate builds the LALR(1) parsing tables for a grammar description.
// The construction is synchronous and single-threaded; every working
// structure lives on the call and the returned tables are self-contained.
//
// An invalid description fails with StatusInvalidSpecification before any
// state construction; exceeding the state, goto, or table capacity fails
// with StatusTooManyItems. Conflicts are not errors: they are resolved
// deterministically and reported as counts on the result.
func Generate(desc *spec.GrammarDescription, opts ...GenerateOption) (*spec.GeneratedTables, *spec.Report, error) {
	config := &generateConfig{}
	for _, opt := range opts {
		opt(config)
	}

	symTab, err := newSymbolTable(desc)
	if err != nil {
		return nil, nil, &verr.GenerationError{
			Status: verr.StatusInvalidSpecification,
			Cause:  err,
		}
	}

	m := genItemModel(symTab, desc)

	firstDerives, err := genFirstDerives(symTab, m)
	if err != nil {
		return nil, nil, err
	}

	aut, err := genLR0Automaton(symTab, m, firstDerives)
	if err != nil {
		return nil, nil, err
	}

	la, err := genLookaheads(symTab, m, aut)
	if err != nil {
		return nil, nil, err
	}

	pc := genParserActions(symTab, m, aut, la)

	tab, err := genGeneratedTables(symTab, m, aut, la, pc, desc)
	if err != nil {
		return nil, nil, err
	}

	var report *spec.Report
	if config.reporting {
		report = genReport(symTab, m, aut, la, pc)
	}

	return tab, report, nil
}
