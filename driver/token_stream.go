package driver

import (
	"bufio"
	"fmt"
	"io"

	"github.com/nihei9/tabgen/spec"
)

// Token is one terminal occurrence of the input.
type Token struct {
	// Terminal is the terminal id of the token. It is meaningless when
	// EOF is true.
	Terminal int

	Text string

	EOF bool
}

// TokenStream feeds tokens to a parser. How tokens come to be is the
// caller's business; the parser only ever calls Next.
type TokenStream interface {
	Next() (*Token, error)
}

type nameTokenStream struct {
	name2Term map[string]int
	scanner   *bufio.Scanner
}

// NewNameTokenStream returns a stream over whitespace-separated terminal
// names. It is meant for driving a freshly generated table by hand, not
// for real lexing.
func NewNameTokenStream(tables *spec.GeneratedTables, src io.Reader) TokenStream {
	name2Term := map[string]int{}
	for t := 1; t <= tables.LastToken; t++ {
		name2Term[tables.Names[t]] = t
	}

	scanner := bufio.NewScanner(src)
	scanner.Split(bufio.ScanWords)

	return &nameTokenStream{
		name2Term: name2Term,
		scanner:   scanner,
	}
}

func (s *nameTokenStream) Next() (*Token, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, err
		}
		return &Token{
			EOF: true,
		}, nil
	}

	name := s.scanner.Text()
	term, ok := s.name2Term[name]
	if !ok {
		return nil, fmt.Errorf("unknown terminal: %v", name)
	}
	return &Token{
		Terminal: term,
		Text:     name,
	}, nil
}
