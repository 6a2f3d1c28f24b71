package grammar

import (
	"testing"

	"github.com/nihei9/tabgen/spec"
)

type testTerm struct {
	name  string
	prec  int
	assoc string
}

type testProd struct {
	rhs  []string
	prec int
}

type testNonTerm struct {
	name  string
	start bool
	prods []*testProd
}

func term(name string) *testTerm {
	return &testTerm{
		name: name,
	}
}

func termPrec(name string, prec int, assoc string) *testTerm {
	return &testTerm{
		name:  name,
		prec:  prec,
		assoc: assoc,
	}
}

func nonTerm(name string, prods ...*testProd) *testNonTerm {
	return &testNonTerm{
		name:  name,
		prods: prods,
	}
}

func prod(rhs ...string) *testProd {
	return &testProd{
		rhs: rhs,
	}
}

// genTestDescription builds a description from symbol names. The
// end-of-input terminal $end is always symbol 0; the remaining terminals
// and the non-terminals keep their listed order.
func genTestDescription(t *testing.T, terms []*testTerm, nonTerms []*testNonTerm) *spec.GrammarDescription {
	t.Helper()

	tokenCount := len(terms) + 1
	symbolCount := tokenCount + len(nonTerms)

	ids := map[string]int{
		"$end": 0,
	}
	for i, term := range terms {
		ids[term.name] = i + 1
	}
	for i, nt := range nonTerms {
		ids[nt.name] = tokenCount + i
	}

	symbols := make([]*spec.SymbolDescription, 0, symbolCount)
	symbols = append(symbols, &spec.SymbolDescription{
		Name: "$end",
	})
	for _, term := range terms {
		symbols = append(symbols, &spec.SymbolDescription{
			Name:  term.name,
			Prec:  term.prec,
			Assoc: term.assoc,
		})
	}
	for _, nt := range nonTerms {
		sym := &spec.SymbolDescription{
			Name:  nt.name,
			Start: nt.start,
		}
		for _, p := range nt.prods {
			rhs := make([]int, 0, len(p.rhs))
			for _, name := range p.rhs {
				id, ok := ids[name]
				if !ok {
					t.Fatalf("undefined symbol in a test grammar: %v", name)
				}
				rhs = append(rhs, id)
			}
			sym.Productions = append(sym.Productions, &spec.Production{
				Symbols: rhs,
				Prec:    p.prec,
			})
		}
		symbols = append(symbols, sym)
	}

	return &spec.GrammarDescription{
		TokenCount:  tokenCount,
		SymbolCount: symbolCount,
		Symbols:     symbols,
	}
}

// genTestPipeline runs the construction up to conflict resolution so tests
// can inspect the intermediate structures.
func genTestPipeline(t *testing.T, desc *spec.GrammarDescription) (*symbolTable, *itemModel, *lr0Automaton, *lalrContext, *parserContext) {
	t.Helper()

	symTab, err := newSymbolTable(desc)
	if err != nil {
		t.Fatal(err)
	}
	m := genItemModel(symTab, desc)
	firstDerives, err := genFirstDerives(symTab, m)
	if err != nil {
		t.Fatal(err)
	}
	aut, err := genLR0Automaton(symTab, m, firstDerives)
	if err != nil {
		t.Fatal(err)
	}
	la, err := genLookaheads(symTab, m, aut)
	if err != nil {
		t.Fatal(err)
	}
	pc := genParserActions(symTab, m, aut, la)

	return symTab, m, aut, la, pc
}

func descSingleRule(t *testing.T) *spec.GrammarDescription {
	return genTestDescription(t,
		[]*testTerm{
			term("a"),
		},
		[]*testNonTerm{
			nonTerm("s", prod("a")),
		},
	)
}

func descArith(t *testing.T) *spec.GrammarDescription {
	return genTestDescription(t,
		[]*testTerm{
			term("add"),
			term("mul"),
			term("l_paren"),
			term("r_paren"),
			term("id"),
		},
		[]*testNonTerm{
			nonTerm("expr",
				prod("expr", "add", "term"),
				prod("term"),
			),
			nonTerm("term",
				prod("term", "mul", "factor"),
				prod("factor"),
			),
			nonTerm("factor",
				prod("l_paren", "expr", "r_paren"),
				prod("id"),
			),
		},
	)
}

func descDanglingElse(t *testing.T, withPrec bool) *spec.GrammarDescription {
	ifTerm := term("if")
	thenTerm := term("then")
	elseTerm := term("else")
	if withPrec {
		thenTerm = termPrec("then", 1, spec.AssocRight)
		elseTerm = termPrec("else", 2, spec.AssocRight)
	}
	return genTestDescription(t,
		[]*testTerm{
			ifTerm,
			thenTerm,
			elseTerm,
			term("other"),
			term("e"),
		},
		[]*testNonTerm{
			nonTerm("s",
				prod("if", "expr", "then", "s"),
				prod("if", "expr", "then", "s", "else", "s"),
				prod("other"),
			),
			nonTerm("expr", prod("e")),
		},
	)
}

func descLeftList(t *testing.T) *spec.GrammarDescription {
	return genTestDescription(t,
		[]*testTerm{
			term("a"),
		},
		[]*testNonTerm{
			nonTerm("list",
				prod("list", "a"),
				prod("a"),
			),
		},
	)
}

func descExpr(t *testing.T) *spec.GrammarDescription {
	return genTestDescription(t,
		[]*testTerm{
			termPrec("add", 1, spec.AssocLeft),
			termPrec("mul", 2, spec.AssocLeft),
			term("num"),
		},
		[]*testNonTerm{
			nonTerm("expr",
				prod("expr", "add", "expr"),
				prod("expr", "mul", "expr"),
				prod("num"),
			),
		},
	)
}

func descNullableMiddle(t *testing.T) *spec.GrammarDescription {
	return genTestDescription(t,
		[]*testTerm{
			term("a"),
			term("b"),
			term("c"),
		},
		[]*testNonTerm{
			nonTerm("s", prod("a", "bs", "c")),
			nonTerm("bs",
				prod(),
				prod("b"),
			),
		},
	)
}

func descReduceReduceTie(t *testing.T) *spec.GrammarDescription {
	return genTestDescription(t,
		[]*testTerm{
			term("x"),
		},
		[]*testNonTerm{
			nonTerm("s",
				prod("aa"),
				prod("bb"),
			),
			nonTerm("aa", prod("x")),
			nonTerm("bb", prod("x")),
		},
	)
}
