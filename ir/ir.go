// Package ir is the instruction-building backend for the kale front end.
// It hands out opaque value and function handles, collects straight-line
// floating-point instructions into per-unit functions, and supports
// retracting a half-built function so a failed lowering leaves no trace.
package ir

import "fmt"

// Op enumerates the instruction set. Every value is the language's single
// numeric type; the comparison pair mirrors a float compare followed by a
// widen-back-to-float.
type Op int

const (
	OpConst Op = iota
	OpAdd
	OpSub
	OpMul
	OpCmpULT
	OpUIToFP
	OpCall
	OpRet
)

// Instr is one register-form instruction. Dst is -1 for OpRet.
type Instr struct {
	Op     Op
	Dst    int
	X, Y   int     // operand registers
	Imm    float64 // OpConst payload
	Callee *Func   // OpCall target handle
	Args   []int   // OpCall argument registers
}

// Value is an opaque handle to a register inside one function body. The
// zero Value is not usable; handles come from a Builder.
type Value struct {
	fn  *Func
	reg int
}

// Unit is one incrementally compiled module of functions. Lookup is scoped
// to the unit: cross-unit resolution is the caller's responsibility.
type Unit struct {
	name  string
	funcs map[string]*Func
	order []*Func
}

// NewUnit creates an empty unit.
func NewUnit(name string) *Unit {
	return &Unit{
		name:  name,
		funcs: make(map[string]*Func),
	}
}

// Name returns the unit's label.
func (u *Unit) Name() string {
	return u.name
}

// Declare returns the function named name, creating a body-less
// declaration when the unit does not already contain one. Lookup-or-create
// is idempotent: redeclaring an existing name returns the existing handle.
func (u *Unit) Declare(name string, params []string) *Func {
	if f, ok := u.funcs[name]; ok {
		return f
	}
	f := &Func{
		unit:   u,
		name:   name,
		params: append([]string(nil), params...),
	}
	f.nreg = len(f.params)
	u.funcs[name] = f
	u.order = append(u.order, f)
	return f
}

// Func looks up a function by name within this unit only.
func (u *Unit) Func(name string) *Func {
	return u.funcs[name]
}

// Funcs returns the unit's functions in declaration order.
func (u *Unit) Funcs() []*Func {
	return u.order
}

// Remove retracts a function from the unit. Used on the lowering failure
// path so no partially-built definition remains observable.
func (u *Unit) Remove(f *Func) {
	if f == nil || u.funcs[f.name] != f {
		return
	}
	delete(u.funcs, f.name)
	for i, g := range u.order {
		if g == f {
			u.order = append(u.order[:i], u.order[i+1:]...)
			break
		}
	}
}

// Func is a function handle: a declaration, optionally with a body.
// Registers 0..arity-1 hold the parameters; instruction results follow.
type Func struct {
	unit   *Unit
	name   string
	params []string
	instrs []Instr
	nreg   int
	hasBody bool
}

// Name returns the function's name.
func (f *Func) Name() string { return f.name }

// Params returns the declared parameter names in order.
func (f *Func) Params() []string { return f.params }

// Arity returns the number of declared parameters.
func (f *Func) Arity() int { return len(f.params) }

// HasBody reports whether a body has been opened on this function.
func (f *Func) HasBody() bool { return f.hasBody }

// Instrs returns the body instructions in emission order.
func (f *Func) Instrs() []Instr { return f.instrs }

// NumRegs returns the register count an executor must allocate.
func (f *Func) NumRegs() int { return f.nreg }

// OpenBody starts (or restarts) instruction emission into f, discarding
// any previously emitted body.
func (f *Func) OpenBody() *Builder {
	f.instrs = f.instrs[:0]
	f.nreg = len(f.params)
	f.hasBody = true
	return &Builder{fn: f}
}

// Verify checks structural soundness: a declaration is always sound; a
// body must end in its only ret, and every operand must name a register
// defined before its use.
func (f *Func) Verify() error {
	if !f.hasBody {
		return nil
	}
	if len(f.instrs) == 0 {
		return fmt.Errorf("function %q: empty body", f.name)
	}
	defined := len(f.params)
	for i, in := range f.instrs {
		operands := instrOperands(in)
		for _, reg := range operands {
			if reg < 0 || reg >= defined {
				return fmt.Errorf("function %q: instruction %d uses undefined register %d", f.name, i, reg)
			}
		}
		if in.Op == OpRet {
			if i != len(f.instrs)-1 {
				return fmt.Errorf("function %q: ret before end of body", f.name)
			}
			continue
		}
		if in.Dst != defined {
			return fmt.Errorf("function %q: instruction %d writes register %d, want %d", f.name, i, in.Dst, defined)
		}
		defined++
	}
	if last := f.instrs[len(f.instrs)-1]; last.Op != OpRet {
		return fmt.Errorf("function %q: missing return", f.name)
	}
	return nil
}

func instrOperands(in Instr) []int {
	switch in.Op {
	case OpConst:
		return nil
	case OpAdd, OpSub, OpMul, OpCmpULT:
		return []int{in.X, in.Y}
	case OpUIToFP, OpRet:
		return []int{in.X}
	case OpCall:
		return in.Args
	default:
		return nil
	}
}

// Builder emits instructions into one function body.
type Builder struct {
	fn *Func
}

// Unit returns the unit owning the function under construction.
func (b *Builder) Unit() *Unit {
	return b.fn.unit
}

// Param returns the handle for the i-th parameter.
func (b *Builder) Param(i int) Value {
	if i < 0 || i >= len(b.fn.params) {
		panic(fmt.Sprintf("ir: parameter index %d out of range for %q", i, b.fn.name))
	}
	return Value{fn: b.fn, reg: i}
}

func (b *Builder) emit(in Instr) Value {
	in.Dst = b.fn.nreg
	b.fn.nreg++
	b.fn.instrs = append(b.fn.instrs, in)
	return Value{fn: b.fn, reg: in.Dst}
}

func (b *Builder) operand(v Value) int {
	if v.fn != b.fn {
		panic(fmt.Sprintf("ir: value does not belong to function %q", b.fn.name))
	}
	return v.reg
}

// Const materialises a floating-point constant.
func (b *Builder) Const(v float64) Value {
	return b.emit(Instr{Op: OpConst, Imm: v})
}

// Add emits x + y.
func (b *Builder) Add(x, y Value) Value {
	return b.emit(Instr{Op: OpAdd, X: b.operand(x), Y: b.operand(y)})
}

// Sub emits x - y.
func (b *Builder) Sub(x, y Value) Value {
	return b.emit(Instr{Op: OpSub, X: b.operand(x), Y: b.operand(y)})
}

// Mul emits x * y.
func (b *Builder) Mul(x, y Value) Value {
	return b.emit(Instr{Op: OpMul, X: b.operand(x), Y: b.operand(y)})
}

// CmpULT emits an unordered-or-less-than comparison producing 0 or 1.
func (b *Builder) CmpULT(x, y Value) Value {
	return b.emit(Instr{Op: OpCmpULT, X: b.operand(x), Y: b.operand(y)})
}

// UIToFP widens a comparison result back to the numeric type.
func (b *Builder) UIToFP(x Value) Value {
	return b.emit(Instr{Op: OpUIToFP, X: b.operand(x)})
}

// Call emits a call to callee with the given argument values.
func (b *Builder) Call(callee *Func, args []Value) Value {
	regs := make([]int, len(args))
	for i, a := range args {
		regs[i] = b.operand(a)
	}
	return b.emit(Instr{Op: OpCall, Callee: callee, Args: regs})
}

// Return closes the body with a return of x.
func (b *Builder) Return(x Value) {
	in := Instr{Op: OpRet, X: b.operand(x), Dst: -1}
	b.fn.instrs = append(b.fn.instrs, in)
}
