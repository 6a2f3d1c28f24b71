package grammar

import "errors"

var (
	semErrNoDescription        = errors.New("a grammar description is missing")
	semErrTokenCountOutOfRange = errors.New("a grammar needs at least the end-of-input terminal")
	semErrNoNonTerminal        = errors.New("the symbol count must exceed the token count")
	semErrSymbolCountMismatch  = errors.New("the number of symbol entries must equal the symbol count")
	semErrNoSymbolEntry        = errors.New("a symbol entry must be non-nil")
	semErrTermHasProduction    = errors.New("a terminal symbol must not have productions")
	semErrMissingProduction    = errors.New("a non-terminal symbol needs at least one production")
	semErrStartIsTerminal      = errors.New("a start symbol must be a non-terminal symbol")
	semErrDuplicateStart       = errors.New("only one start symbol is allowed")
	semErrInvalidAssoc         = errors.New("associativity must be one of left, right, or non")
	semErrUndefinedRHSSymbol   = errors.New("a production can contain only declared symbols")
	semErrEOFInRHS             = errors.New("the end-of-input terminal cannot appear in a production")
)
