package spec

import (
	"encoding/json"
	"fmt"
	"io"
)

// Associativity of a terminal symbol or a production.
const (
	AssocNil   = ""
	AssocLeft  = "left"
	AssocRight = "right"
	AssocNon   = "non"
)

// Production is one alternative of a non-terminal: the right-side symbol
// ids in order. Symbols are positive ids; the end-of-input terminal 0
// never appears here. Prec 0 means the production inherits precedence
// from the last terminal of its right side; associativity always comes
// from that terminal, whatever Prec is.
type Production struct {
	Symbols []int `json:"symbols"`
	Prec    int   `json:"prec"`
}

// SymbolDescription declares one symbol of the single namespace. Ids
// 0..TokenCount-1 are terminals (0 is end-of-input), the rest are
// non-terminals. Productions must be nil for terminals and non-empty for
// non-terminals.
type SymbolDescription struct {
	Name        string        `json:"name"`
	Prec        int           `json:"prec"`
	Assoc       string        `json:"assoc,omitempty"`
	Start       bool          `json:"start,omitempty"`
	Productions []*Production `json:"productions,omitempty"`
}

// GrammarDescription is the complete input of the generator.
type GrammarDescription struct {
	TokenCount  int                  `json:"token_count"`
	SymbolCount int                  `json:"symbol_count"`
	Symbols     []*SymbolDescription `json:"symbols"`

	// Expected conflict counts are subtracted from the reported counts.
	ExpectedShiftReduceConflicts  int `json:"expected_sr_conflicts,omitempty"`
	ExpectedReduceReduceConflicts int `json:"expected_rr_conflicts,omitempty"`

	// Both fields are opaque to the generator and are copied verbatim
	// onto the output for the emitter's benefit.
	VariablePrefix string `json:"variable_prefix,omitempty"`
	OutputFileName string `json:"output_file_name,omitempty"`
}

func ReadGrammarDescription(r io.Reader) (*GrammarDescription, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	desc := &GrammarDescription{}
	err = json.Unmarshal(d, desc)
	if err != nil {
		return nil, fmt.Errorf("cannot parse a grammar description: %w", err)
	}
	return desc, nil
}
