package grammar

import (
	"fmt"

	"github.com/nihei9/tabgen/spec"
)

type symbolNum int

// The end-of-input marker. It never appears in a caller's production; the
// only item that carries it belongs to the augmenting start rule.
const symbolEOF = symbolNum(0)

type assocType string

const (
	assocTypeNil   = assocType("")
	assocTypeLeft  = assocType("left")
	assocTypeRight = assocType("right")
	assocTypeNon   = assocType("non")
)

const (
	precNil = 0
	precMin = 1
)

// symbolTable holds the validated symbol namespace of a description.
// Terminals occupy 0..tokenCount-1, the caller's non-terminals
// tokenCount..symbolCount-1, and the synthetic augmented start symbol is
// symbolCount itself.
type symbolTable struct {
	tokenCount  int
	symbolCount int
	names       []string
	prec        []int
	assoc       []assocType
	start       symbolNum
	augmented   symbolNum
}

const augmentedSymbolName = "$accept"

func newSymbolTable(desc *spec.GrammarDescription) (*symbolTable, error) {
	if desc == nil {
		return nil, semErrNoDescription
	}
	if desc.TokenCount < 1 {
		return nil, semErrTokenCountOutOfRange
	}
	if desc.SymbolCount < desc.TokenCount+1 {
		return nil, semErrNoNonTerminal
	}
	if len(desc.Symbols) != desc.SymbolCount {
		return nil, fmt.Errorf("%w; symbol count: %v, entries: %v", semErrSymbolCountMismatch, desc.SymbolCount, len(desc.Symbols))
	}

	t := &symbolTable{
		tokenCount:  desc.TokenCount,
		symbolCount: desc.SymbolCount,
		names:       make([]string, desc.SymbolCount),
		prec:        make([]int, desc.SymbolCount),
		assoc:       make([]assocType, desc.SymbolCount),
		start:       symbolNum(-1),
		augmented:   symbolNum(desc.SymbolCount),
	}

	for id, sym := range desc.Symbols {
		if sym == nil {
			return nil, fmt.Errorf("symbol %v: %w", id, semErrNoSymbolEntry)
		}

		var assoc assocType
		switch sym.Assoc {
		case spec.AssocNil, spec.AssocLeft, spec.AssocRight, spec.AssocNon:
			assoc = assocType(sym.Assoc)
		default:
			return nil, fmt.Errorf("symbol %v (%v): %w: %v", id, sym.Name, semErrInvalidAssoc, sym.Assoc)
		}
		t.names[id] = sym.Name
		t.prec[id] = sym.Prec
		t.assoc[id] = assoc

		if id < desc.TokenCount {
			if len(sym.Productions) > 0 {
				return nil, fmt.Errorf("symbol %v (%v): %w", id, sym.Name, semErrTermHasProduction)
			}
			if sym.Start {
				return nil, fmt.Errorf("symbol %v (%v): %w", id, sym.Name, semErrStartIsTerminal)
			}
			continue
		}

		if len(sym.Productions) == 0 {
			return nil, fmt.Errorf("symbol %v (%v): %w", id, sym.Name, semErrMissingProduction)
		}
		if sym.Start {
			if t.start >= 0 {
				return nil, fmt.Errorf("symbol %v (%v): %w", id, sym.Name, semErrDuplicateStart)
			}
			t.start = symbolNum(id)
		}

		for _, prod := range sym.Productions {
			for _, rhsSym := range prod.Symbols {
				if rhsSym == int(symbolEOF) {
					return nil, fmt.Errorf("symbol %v (%v): %w", id, sym.Name, semErrEOFInRHS)
				}
				if rhsSym < 0 || rhsSym >= desc.SymbolCount {
					return nil, fmt.Errorf("symbol %v (%v): %w: %v", id, sym.Name, semErrUndefinedRHSSymbol, rhsSym)
				}
			}
		}
	}

	// When no start symbol is marked, the first non-terminal serves.
	if t.start < 0 {
		t.start = symbolNum(desc.TokenCount)
	}

	return t, nil
}

func (t *symbolTable) isTerminal(sym symbolNum) bool {
	return int(sym) < t.tokenCount
}

func (t *symbolTable) isNonTerminal(sym symbolNum) bool {
	return int(sym) >= t.tokenCount
}

func (t *symbolTable) name(sym symbolNum) string {
	if sym == t.augmented {
		return augmentedSymbolName
	}
	return t.names[sym]
}

// nonTermOrdinal maps a non-terminal to its dense index: 0 for the first
// caller non-terminal, nonTermCount()-1 for the augmented start symbol.
func (t *symbolTable) nonTermOrdinal(sym symbolNum) int {
	return int(sym) - t.tokenCount
}

// nonTermCount counts the caller's non-terminals plus the augmented start
// symbol.
func (t *symbolTable) nonTermCount() int {
	return t.symbolCount - t.tokenCount + 1
}

// realNonTermCount counts only the caller's non-terminals.
func (t *symbolTable) realNonTermCount() int {
	return t.symbolCount - t.tokenCount
}
