package spec

import (
	"encoding/json"
	"fmt"
	"io"
)

// GeneratedTables is the self-contained result of table generation. It is
// immutable after Generate returns.
//
// Rule-indexed arrays (LeftSide, RuleLength, Rules) start at the
// augmenting start rule, which is index 0; the caller's rules follow in
// declaration order. LeftSide holds non-terminal ordinals, i.e. indexes
// into GotoIndex/DefaultGoto; the exception is entry 0, the augmented
// start symbol's ordinal, which lies one past their end.
//
// ShiftIndex, ReduceIndex, and GotoIndex hold per-vector bases into
// Table/Check; 0 means the vector is empty. For a state s and terminal t,
// the shift destination is Table[ShiftIndex[s]+t] when
// Check[ShiftIndex[s]+t] == t; reductions and gotos probe the same way
// (gotos are keyed by the from-state). DefaultReductions and DefaultGoto
// supply the entries left out of the packed vectors; a default reduction
// of 0 means none.
type GeneratedTables struct {
	LeftSide          []int `json:"left_side"`
	RuleLength        []int `json:"rule_length"`
	DefaultReductions []int `json:"default_reductions"`
	ShiftIndex        []int `json:"shift_index"`
	ReduceIndex       []int `json:"reduce_index"`
	GotoIndex         []int `json:"goto_index"`
	DefaultGoto       []int `json:"default_goto"`
	Table             []int `json:"table"`
	Check             []int `json:"check"`

	// Names lists the terminal names, then "illegal-symbol" at index
	// TokenCount (== UndefinedToken), then the non-terminal names, then
	// the augmented start symbol's name.
	Names []string `json:"names"`

	// Rules holds one "L : R0 R1 ..." string per rule for diagnostics.
	Rules []string `json:"rules"`

	TokenCount     int `json:"token_count"`
	LastToken      int `json:"last_token"`
	UndefinedToken int `json:"undefined_token"`
	FinalState     int `json:"final_state"`
	StartRule      int `json:"start_rule"`
	TableSize      int `json:"table_size"`

	// Residual conflict counts: actual minus expected.
	ShiftReduceConflicts  int `json:"sr_conflicts"`
	ReduceReduceConflicts int `json:"rr_conflicts"`
	UnusedRules           int `json:"unused_rules"`

	VariablePrefix string `json:"variable_prefix,omitempty"`
	OutputFileName string `json:"output_file_name,omitempty"`
}

func ReadGeneratedTables(r io.Reader) (*GeneratedTables, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	tab := &GeneratedTables{}
	err = json.Unmarshal(d, tab)
	if err != nil {
		return nil, fmt.Errorf("cannot parse generated tables: %w", err)
	}
	return tab, nil
}

func (t *GeneratedTables) Write(w io.Writer) error {
	d, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}
