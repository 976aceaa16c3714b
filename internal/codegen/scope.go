package codegen

// genSymbol is the code generator's own notion of a declared name: just
// enough to compute a load/store address. It is deliberately independent
// of the semantic analyzer's SymbolTable: codegen assumes a semantically
// valid tree and only needs addresses, not types.
type genSymbol struct {
	Name       string
	FrameIndex int
	Depth      int // absolute scope-stack depth at declaration time
	IsArray    bool
	Size       int // element count, meaningful only when IsArray
}

type genScope struct {
	symbols []*genSymbol

	// savedFrameIndex is the enclosing scope's frame cursor, restored when
	// this scope is popped so sibling declarations keep contiguous slots.
	savedFrameIndex int
}

func (s *genScope) lookup(name string) *genSymbol {
	for _, sym := range s.symbols {
		if sym.Name == name {
			return sym
		}
	}
	return nil
}

// slotCount is the "N" the per-scope epilogue overwrites its var-count
// placeholder with: the sum over the scope's own symbols of 1 (scalar) or
// size (array).
func (s *genScope) slotCount() int {
	n := 0
	for _, sym := range s.symbols {
		if sym.IsArray {
			n += sym.Size
		} else {
			n++
		}
	}
	return n
}

// The Generator methods that walk and mutate the scope stack
// (pushScope/popScope/currentScope/declare/resolve/relativeLevel) live in
// generator.go alongside the rest of the AST-lowering logic.
