package semantic

// MemoryLocation is a (frame_index, stack_level) pair in the target VM's
// addressing scheme. Neither pass sets it: the semantic analyzer leaves
// Symbol.Loc nil, and the code generator computes addresses in its own scope
// tables (codegen's genSymbol) without writing them back here.
type MemoryLocation struct {
	FrameIndex int
	StackLevel int
}

// SymbolKind tags what a Symbol denotes: a plain variable, a function, or
// an array variable.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymFunction
	SymArray
)

// Param is one entry of a Signature; the name is retained for error
// messages (e.g. "argument 'x' of f").
type Param struct {
	Type Type
	Name string
}

// Signature is a function's shape: its return type and its ordered
// parameter list.
type Signature struct {
	ReturnType Type
	Params     []Param
}

// Symbol is one entry of a SymbolTable.
type Symbol struct {
	Lexeme string
	Kind   SymbolKind
	VType  Type       // valid for SymVariable/SymArray
	Sig    Signature  // valid for SymFunction
	Loc    *MemoryLocation
}

// SymbolTable is an ordered sequence of Symbols for a single lexical scope:
// insertion order is preserved, lookup is linear by lexeme. Scopes are small,
// so a slice serves here in place of a hash map keyed by name, and All can
// enumerate declarations in order. The code generator does not read these
// tables; it lays out frames from its own scope stack.
type SymbolTable struct {
	entries []*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// Lookup returns the entry for lexeme, or nil if absent.
func (t *SymbolTable) Lookup(lexeme string) *Symbol {
	for _, s := range t.entries {
		if s.Lexeme == lexeme {
			return s
		}
	}
	return nil
}

// Insert appends a new entry. Callers must check Lookup first: SymbolTable
// itself does not reject duplicates, since "is this a redeclaration" is a
// semantic-error decision, not a data-structure invariant.
func (t *SymbolTable) Insert(s *Symbol) {
	t.entries = append(t.entries, s)
}

// All enumerates entries in insertion order.
func (t *SymbolTable) All() []*Symbol {
	return t.entries
}

func (t *SymbolTable) Len() int {
	return len(t.entries)
}
