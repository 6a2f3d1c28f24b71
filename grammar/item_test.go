package grammar

import (
	"testing"

	"github.com/nihei9/tabgen/spec"
)

func TestGenItemModel(t *testing.T) {
	desc := descSingleRule(t)
	symTab, err := newSymbolTable(desc)
	if err != nil {
		t.Fatal(err)
	}
	m := genItemModel(symTab, desc)

	expectedItems := []int{-1, 2, 0, -2, 1, -3}
	if len(m.items) != len(expectedItems) {
		t.Fatalf("unexpected items; want: %v, got: %v", expectedItems, m.items)
	}
	for i, it := range expectedItems {
		if m.items[i] != it {
			t.Fatalf("unexpected items; want: %v, got: %v", expectedItems, m.items)
		}
	}

	if m.ruleCount() != 4 {
		t.Fatalf("unexpected rule count; want: %v, got: %v", 4, m.ruleCount())
	}
	start := m.rules[ruleNumStart]
	if start.lhs != symTab.augmented || start.rhs != 1 || start.rhsLen != 2 {
		t.Fatalf("unexpected augmenting rule: %+v", start)
	}
	first := m.rules[ruleNumMin]
	if first.lhs != symbolNum(2) || first.rhs != 4 || first.rhsLen != 1 {
		t.Fatalf("unexpected first caller rule: %+v", first)
	}

	if m.derives[symTab.augmented] != ruleNumStart {
		t.Errorf("unexpected derives of the augmented start symbol: %v", m.derives[symTab.augmented])
	}
	if m.derives[2] != ruleNumMin {
		t.Errorf("unexpected derives of the start symbol: %v", m.derives[2])
	}

	r, dot := m.itemRule(4)
	if r != ruleNumMin || dot != 0 {
		t.Errorf("unexpected item resolution; want: rule %v at dot 0, got: rule %v at dot %v", ruleNumMin, r, dot)
	}
	r, dot = m.itemRule(5)
	if r != ruleNumMin || dot != 1 {
		t.Errorf("unexpected item resolution; want: rule %v at dot 1, got: rule %v at dot %v", ruleNumMin, r, dot)
	}
}

func TestGenItemModel_PrecAndAssoc(t *testing.T) {
	t.Run("a production inherits from its last terminal", func(t *testing.T) {
		desc := descExpr(t)
		symTab, err := newSymbolTable(desc)
		if err != nil {
			t.Fatal(err)
		}
		m := genItemModel(symTab, desc)

		// expr → expr add expr
		if m.rules[3].prec != 1 || m.rules[3].assoc != assocTypeLeft {
			t.Errorf("unexpected precedence or associativity: %+v", m.rules[3])
		}
		// expr → expr mul expr
		if m.rules[4].prec != 2 || m.rules[4].assoc != assocTypeLeft {
			t.Errorf("unexpected precedence or associativity: %+v", m.rules[4])
		}
		// expr → num
		if m.rules[5].prec != precNil || m.rules[5].assoc != assocTypeNil {
			t.Errorf("unexpected precedence or associativity: %+v", m.rules[5])
		}
	})

	t.Run("an explicit production precedence wins", func(t *testing.T) {
		desc := genTestDescription(t,
			[]*testTerm{
				termPrec("minus", 1, spec.AssocLeft),
				term("num"),
			},
			[]*testNonTerm{
				nonTerm("expr",
					prod("expr", "minus", "expr"),
					&testProd{rhs: []string{"minus", "expr"}, prec: 3},
					prod("num"),
				),
			},
		)
		symTab, err := newSymbolTable(desc)
		if err != nil {
			t.Fatal(err)
		}
		m := genItemModel(symTab, desc)

		if m.rules[3].prec != 1 {
			t.Errorf("unexpected precedence: %+v", m.rules[3])
		}
		// The unary alternative keeps the terminal's associativity but
		// overrides the precedence.
		if m.rules[4].prec != 3 || m.rules[4].assoc != assocTypeLeft {
			t.Errorf("unexpected precedence or associativity: %+v", m.rules[4])
		}
	})
}

func TestGenNullable(t *testing.T) {
	t.Run("a non-terminal with an empty production is nullable", func(t *testing.T) {
		desc := descNullableMiddle(t)
		symTab, err := newSymbolTable(desc)
		if err != nil {
			t.Fatal(err)
		}
		m := genItemModel(symTab, desc)

		// bs is symbol 5: $end a b c s bs
		if !m.nullable[5] {
			t.Errorf("bs must be nullable")
		}
		if m.nullable[4] {
			t.Errorf("s must not be nullable")
		}
		if m.nullable[symTab.augmented] {
			t.Errorf("the augmented start symbol must not be nullable")
		}
	})

	t.Run("nullability propagates through nullable right sides", func(t *testing.T) {
		desc := genTestDescription(t,
			[]*testTerm{
				term("x"),
			},
			[]*testNonTerm{
				nonTerm("a", prod("b", "b")),
				nonTerm("b", prod("c")),
				nonTerm("c",
					prod(),
					prod("x"),
				),
			},
		)
		symTab, err := newSymbolTable(desc)
		if err != nil {
			t.Fatal(err)
		}
		m := genItemModel(symTab, desc)

		// a b c are symbols 2 3 4.
		for sym := 2; sym <= 4; sym++ {
			if !m.nullable[sym] {
				t.Errorf("symbol %v must be nullable", sym)
			}
		}
	})
}
