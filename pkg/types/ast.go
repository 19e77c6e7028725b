package types

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types.
const (
	NodeLiteral NodeType = "literal" // numeric constant
	NodeOperand NodeType = "operand" // symbol applied to zero or more arguments
	NodeError   NodeType = "error"   // expression that failed to parse
)

// Subexpression is a node in the Abstract Syntax Tree.
//
// Nodes are created once per distinct source string and never mutated after
// parsing, so a tree may be shared by any number of expressions and
// goroutines.
type Subexpression struct {
	Type NodeType

	// Literal
	Value float64

	// Operand
	Symbol Symbol
	Args   []*Subexpression

	// Error
	Err    error
	Source string
}

// NewLiteral creates a literal node.
func NewLiteral(value float64) *Subexpression {
	return &Subexpression{Type: NodeLiteral, Value: value}
}

// NewOperand creates an operand node applying sym to args.
func NewOperand(sym Symbol, args ...*Subexpression) *Subexpression {
	return &Subexpression{Type: NodeOperand, Symbol: sym, Args: args}
}

// NewErrorNode creates a node that carries a parse error together with the
// source text that produced it.
func NewErrorNode(err error, source string) *Subexpression {
	return &Subexpression{Type: NodeError, Err: err, Source: source}
}

// IsLiteral reports whether the node is a literal.
func (n *Subexpression) IsLiteral() bool {
	return n != nil && n.Type == NodeLiteral
}

// IsOperand reports whether the node is an operand.
func (n *Subexpression) IsOperand() bool {
	return n != nil && n.Type == NodeOperand
}

// Symbols returns every symbol reachable from the node.
func (n *Subexpression) Symbols() SymbolSet {
	set := make(SymbolSet)
	n.collectSymbols(set)
	return set
}

func (n *Subexpression) collectSymbols(set SymbolSet) {
	if n == nil || n.Type != NodeOperand {
		return
	}
	set.Add(n.Symbol)
	for _, arg := range n.Args {
		arg.collectSymbols(set)
	}
}

// arenaChunkSize is the number of nodes pre-allocated per arena chunk.
// Layout expressions are short; most fit in a single chunk.
const arenaChunkSize = 32

// NodeArena is a bump-pointer allocator for Subexpression values.
//
// Instead of allocating each node individually on the heap the arena hands
// out pointers into fixed-size chunks. The chunks stay reachable for as long
// as any node in them is, so the tree keeps its own arena alive.
//
// NodeArena is NOT thread-safe. Each parse owns its own arena.
type NodeArena struct {
	chunks [][]Subexpression
	pos    int
}

// NewNodeArena allocates an arena pre-warmed with one chunk.
func NewNodeArena() *NodeArena {
	return &NodeArena{
		chunks: [][]Subexpression{make([]Subexpression, arenaChunkSize)},
	}
}

func (a *NodeArena) alloc() *Subexpression {
	if a.pos >= arenaChunkSize {
		a.chunks = append(a.chunks, make([]Subexpression, arenaChunkSize))
		a.pos = 0
	}
	n := &a.chunks[len(a.chunks)-1][a.pos]
	a.pos++
	return n
}

// Literal allocates a literal node.
func (a *NodeArena) Literal(value float64) *Subexpression {
	n := a.alloc()
	n.Type = NodeLiteral
	n.Value = value
	return n
}

// Operand allocates an operand node.
func (a *NodeArena) Operand(sym Symbol, args ...*Subexpression) *Subexpression {
	n := a.alloc()
	n.Type = NodeOperand
	n.Symbol = sym
	n.Args = args
	return n
}
