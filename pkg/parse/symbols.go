package parse

import "src.tally.sh/pkg/diag"

// Symbol is an identifier declared with 'let'. Its range is that of the name
// in the first declaration.
type Symbol struct {
	Name string
	diag.Ranging
}

// Symbols is the table of declared identifiers, populated by the parser in
// the order of first declaration.
type Symbols struct {
	list  []Symbol
	index map[string]int
}

// NewSymbols returns an empty table.
func NewSymbols() *Symbols {
	return &Symbols{index: make(map[string]int)}
}

// Declare records a declaration of name. It returns whether this is the first
// declaration of name.
func (s *Symbols) Declare(name string, r diag.Ranger) bool {
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = len(s.list)
	s.list = append(s.list, Symbol{name, r.Range()})
	return true
}

// Lookup finds the first declaration of name.
func (s *Symbols) Lookup(name string) (Symbol, bool) {
	i, ok := s.index[name]
	if !ok {
		return Symbol{}, false
	}
	return s.list[i], true
}

// Index returns the position of name in declaration order, or -1 if it is not
// declared.
func (s *Symbols) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Len returns the number of declared identifiers.
func (s *Symbols) Len() int { return len(s.list) }

// Names returns the declared names in order of first declaration.
func (s *Symbols) Names() []string {
	names := make([]string, len(s.list))
	for i, sym := range s.list {
		names[i] = sym.Name
	}
	return names
}

// All returns all the symbols in order of first declaration.
func (s *Symbols) All() []Symbol {
	return append([]Symbol(nil), s.list...)
}
