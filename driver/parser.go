package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/tabgen/spec"
)

type Node struct {
	KindName string
	Text     string
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childPrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	last := len(node.Children) - 1
	for i, child := range node.Children {
		if i < last {
			printTree(w, child, childPrefix+"├─ ", childPrefix+"│  ")
		} else {
			printTree(w, child, childPrefix+"└─ ", childPrefix+"   ")
		}
	}
}

type ParserOption func(p *Parser) error

// MakeCST makes the parser build a concrete syntax tree while parsing.
func MakeCST() ParserOption {
	return func(p *Parser) error {
		p.makeCST = true
		return nil
	}
}

type semanticFrame struct {
	cst *Node
}

// Parser drives the packed tables over a token stream: shift and reduce
// entries come from the displacement lookup, default reductions apply when
// no explicit entry does, and reaching the final state on end-of-input
// accepts.
type Parser struct {
	tables     *gram
	ts         TokenStream
	stateStack []int
	semStack   []*semanticFrame
	cst        *Node
	makeCST    bool
}

func NewParser(tables *spec.GeneratedTables, ts TokenStream, opts ...ParserOption) (*Parser, error) {
	if tables == nil {
		return nil, fmt.Errorf("tables must be non-nil")
	}
	if ts == nil {
		return nil, fmt.Errorf("a token stream must be non-nil")
	}

	p := &Parser{
		tables: &gram{
			g: tables,
		},
		ts: ts,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Parser) Parse() error {
	p.push(0)
	tok, err := p.ts.Next()
	if err != nil {
		return err
	}
	for {
		term := p.terminalOf(tok)

		if p.top() == p.tables.g.FinalState && term == 0 {
			if p.makeCST && len(p.semStack) > 0 {
				p.cst = p.semStack[len(p.semStack)-1].cst
			}
			return nil
		}

		if next, ok := p.tables.shift(p.top(), term); ok {
			p.push(next)
			if p.makeCST {
				p.semStack = append(p.semStack, &semanticFrame{
					cst: &Node{
						KindName: p.tables.terminalName(term),
						Text:     tok.Text,
					},
				})
			}
			tok, err = p.ts.Next()
			if err != nil {
				return err
			}
			continue
		}

		if r, ok := p.tables.reduce(p.top(), term); ok {
			p.reduce(r)
			continue
		}
		if r, ok := p.tables.defaultReduction(p.top()); ok {
			p.reduce(r)
			continue
		}

		return p.syntaxError(tok, term)
	}
}

func (p *Parser) terminalOf(tok *Token) int {
	if tok.EOF {
		return 0
	}
	return tok.Terminal
}

func (p *Parser) reduce(rule int) {
	tab := p.tables.g
	n := tab.RuleLength[rule]
	lhs := tab.LeftSide[rule]
	p.pop(n)
	p.push(p.tables.gotoState(p.top(), lhs))

	if p.makeCST {
		handle := p.semStack[len(p.semStack)-n:]
		children := make([]*Node, len(handle))
		for i, f := range handle {
			children[i] = f.cst
		}
		p.semStack = p.semStack[:len(p.semStack)-n]
		p.semStack = append(p.semStack, &semanticFrame{
			cst: &Node{
				KindName: p.tables.nonTerminalName(lhs),
				Children: children,
			},
		})
	}
}

func (p *Parser) syntaxError(tok *Token, term int) error {
	var tokText string
	if tok.EOF {
		tokText = "<EOF>"
	} else {
		tokText = fmt.Sprintf("%v (%v)", p.tables.terminalName(term), tok.Text)
	}

	eTerms := p.tables.expectedTerminals(p.top())
	var b strings.Builder
	for i, t := range eTerms {
		if i > 0 {
			fmt.Fprintf(&b, ", ")
		}
		fmt.Fprintf(&b, "%v", p.tables.terminalName(t))
	}

	return fmt.Errorf("unexpected token: %v, expected: %v", tokText, b.String())
}

func (p *Parser) top() int {
	return p.stateStack[len(p.stateStack)-1]
}

func (p *Parser) push(state int) {
	p.stateStack = append(p.stateStack, state)
}

func (p *Parser) pop(n int) {
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
}

func (p *Parser) CST() *Node {
	return p.cst
}
