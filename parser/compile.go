package parser

import "github.com/sergev/kale/ir"

// Compiler lowers parsed forms into IR units. It owns the prototype
// registry that lets a later unit call a function whose body lives in an
// earlier, already-finalized unit: the remembered prototype is re-declared
// into the current unit on demand.
type Compiler struct {
	protos map[string]*Prototype // name -> most recently declared prototype
	scope  map[string]ir.Value   // parameter bindings of the body being lowered
}

// NewCompiler creates a compiler with an empty prototype registry.
func NewCompiler() *Compiler {
	return &Compiler{
		protos: make(map[string]*Prototype),
	}
}

// Prototype returns the registered prototype for name, if any.
func (c *Compiler) Prototype(name string) (*Prototype, bool) {
	proto, ok := c.protos[name]
	return proto, ok
}

// CompileExtern declares a prototype into the unit and records it in the
// registry so later units can resolve calls against it.
func (c *Compiler) CompileExtern(unit *ir.Unit, proto *Prototype) *ir.Func {
	f := unit.Declare(proto.Name, proto.Params)
	c.protos[proto.Name] = proto
	return f
}

// CompileFunction lowers a definition (or anonymous-expression wrapper)
// into the unit. The prototype is registered before anything else: even if
// this unit is later discarded, the name keeps a home in the registry and
// the re-declare path stays available. On a body failure the half-built
// function is retracted from the unit, but the registry entry stays, which
// deliberately preserves forward declarations.
func (c *Compiler) CompileFunction(unit *ir.Unit, fn *Function) (*ir.Func, error) {
	proto := fn.Proto
	c.protos[proto.Name] = proto

	f := c.resolveFunction(unit, proto.Name)
	b := f.OpenBody()

	c.scope = make(map[string]ir.Value, len(f.Params()))
	for i, name := range f.Params() {
		c.scope[name] = b.Param(i)
	}

	ret, err := c.compileExpr(b, fn.Body)
	if err != nil {
		unit.Remove(f)
		return nil, err
	}
	b.Return(ret)

	if err := f.Verify(); err != nil {
		unit.Remove(f)
		return nil, err
	}
	return f, nil
}

// resolveFunction is the two-level lookup: the current unit first, then
// the registry, re-declaring the remembered signature into the unit. A nil
// result means the name is unknown on both levels.
func (c *Compiler) resolveFunction(unit *ir.Unit, name string) *ir.Func {
	if f := unit.Func(name); f != nil {
		return f
	}
	if proto, ok := c.protos[name]; ok {
		return unit.Declare(proto.Name, proto.Params)
	}
	return nil
}

func (c *Compiler) compileExpr(b *ir.Builder, expr Expr) (ir.Value, error) {
	switch e := expr.(type) {
	case *NumberExpr:
		return b.Const(e.Value), nil

	case *VariableExpr:
		v, ok := c.scope[e.Name]
		if !ok {
			return ir.Value{}, semanticErrorf(e.Posn, "unknown variable name %q", e.Name)
		}
		return v, nil

	case *BinaryExpr:
		return c.compileBinary(b, e)

	case *CallExpr:
		return c.compileCall(b, e)

	default:
		return ir.Value{}, semanticErrorf(expr.Pos(), "cannot lower expression %T", expr)
	}
}

func (c *Compiler) compileBinary(b *ir.Builder, e *BinaryExpr) (ir.Value, error) {
	l, err := c.compileExpr(b, e.Left)
	if err != nil {
		return ir.Value{}, err
	}
	r, err := c.compileExpr(b, e.Right)
	if err != nil {
		return ir.Value{}, err
	}

	switch e.Op {
	case '+':
		return b.Add(l, r), nil
	case '-':
		return b.Sub(l, r), nil
	case '*':
		return b.Mul(l, r), nil
	case '<':
		// Compare, then widen the boolean back to the numeric type.
		return b.UIToFP(b.CmpULT(l, r)), nil
	default:
		return ir.Value{}, semanticErrorf(e.Posn, "invalid binary operator '%c'", e.Op)
	}
}

func (c *Compiler) compileCall(b *ir.Builder, e *CallExpr) (ir.Value, error) {
	callee := c.resolveFunction(b.Unit(), e.Callee)
	if callee == nil {
		return ir.Value{}, semanticErrorf(e.Posn, "unknown function referenced: %q", e.Callee)
	}
	if callee.Arity() != len(e.Args) {
		return ir.Value{}, semanticErrorf(e.Posn,
			"incorrect number of arguments passed to %q: want %d, got %d",
			e.Callee, callee.Arity(), len(e.Args))
	}

	args := make([]ir.Value, len(e.Args))
	for i, arg := range e.Args {
		v, err := c.compileExpr(b, arg)
		if err != nil {
			return ir.Value{}, err
		}
		args[i] = v
	}
	return b.Call(callee, args), nil
}
