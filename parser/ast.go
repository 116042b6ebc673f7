package parser

// Position tracks a source location within kale input.
type Position struct {
	Offset int // zero-based byte offset
	Line   int // one-based line number
	Column int // one-based column number (rune count)
}

// Node represents any AST node with a source position.
type Node interface {
	Pos() Position
}

// Expr represents an expression node. The variant set is closed: number
// literals, variable references, binary operations, and calls.
type Expr interface {
	Node
	exprNode()
}

// Form is a completed top-level unit of input: a function definition, an
// extern declaration, or an anonymous expression wrapper.
type Form interface {
	Node
	formNode()
}

// NumberExpr is a numeric literal like "1.0".
type NumberExpr struct {
	Value float64
	Posn  Position
}

func (e *NumberExpr) Pos() Position { return e.Posn }
func (*NumberExpr) exprNode()       {}

// VariableExpr references a named value, like "a".
type VariableExpr struct {
	Name string
	Posn Position
}

func (e *VariableExpr) Pos() Position { return e.Posn }
func (*VariableExpr) exprNode()       {}

// BinaryExpr applies a single-character binary operator.
type BinaryExpr struct {
	Op          rune
	Left, Right Expr
	Posn        Position
}

func (e *BinaryExpr) Pos() Position { return e.Posn }
func (*BinaryExpr) exprNode()       {}

// CallExpr invokes a named function with ordered arguments.
type CallExpr struct {
	Callee string
	Args   []Expr
	Posn   Position
}

func (e *CallExpr) Pos() Position { return e.Posn }
func (*CallExpr) exprNode()       {}

// Prototype captures a function's name and parameter names, independent of
// any body. It serves both definitions and extern declarations, and is what
// the compiler remembers about a function between units.
type Prototype struct {
	Name   string
	Params []string
	Posn   Position
}

func (p *Prototype) Pos() Position { return p.Posn }
func (*Prototype) formNode()       {}

// Function pairs a prototype with its single-expression body.
type Function struct {
	Proto *Prototype
	Body  Expr
	Posn  Position
}

func (f *Function) Pos() Position { return f.Posn }
func (*Function) formNode()       {}

// AnonName is the reserved prototype name used to wrap a bare top-level
// expression into a zero-argument function.
const AnonName = "__anon_expr"

// IsAnon reports whether the function is a top-level expression wrapper.
func (f *Function) IsAnon() bool {
	return f.Proto != nil && f.Proto.Name == AnonName
}
