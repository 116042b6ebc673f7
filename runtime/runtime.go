// Package runtime executes finalized IR units and drives the interactive
// session loop. It plays the role of the JIT in a native toolchain: each
// unit handed to the Engine links its function bodies into a process-wide
// table, and calls resolve against that table or against host builtins.
package runtime

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sergev/kale/ir"
)

// maxCallDepth bounds recursion. The language has no conditionals, so any
// self-call recurses forever; the bound turns that into a diagnosable
// error instead of a stack overflow.
const maxCallDepth = 10000

// Builtin is a host function callable from compiled code via an extern
// declaration. Its arity is whatever the extern prototype declared.
type Builtin func(args []float64) float64

// Engine links finalized units and executes their functions.
type Engine struct {
	// Out receives output of the printing builtins.
	Out io.Writer

	funcs    map[string]*ir.Func
	builtins map[string]Builtin
}

// NewEngine creates an engine with the standard builtins installed.
func NewEngine() *Engine {
	e := &Engine{
		Out:      os.Stderr,
		funcs:    make(map[string]*ir.Func),
		builtins: make(map[string]Builtin),
	}
	e.installBuiltins()
	return e
}

// AddUnit links every function body in the unit, overwriting earlier
// definitions of the same name. Body-less declarations link nothing: they
// resolve at call time against earlier units or builtins.
func (e *Engine) AddUnit(u *ir.Unit) {
	for _, f := range u.Funcs() {
		if f.HasBody() {
			e.funcs[f.Name()] = f
		}
	}
}

// Remove unlinks a function by name. Used to discard anonymous expression
// units after evaluation.
func (e *Engine) Remove(name string) {
	delete(e.funcs, name)
}

// Call invokes a linked function or builtin by name.
func (e *Engine) Call(name string, args ...float64) (float64, error) {
	return e.call(name, args, 0)
}

func (e *Engine) call(name string, args []float64, depth int) (float64, error) {
	if depth > maxCallDepth {
		return 0, fmt.Errorf("call depth limit exceeded in %q", name)
	}
	if f, ok := e.funcs[name]; ok {
		return e.exec(f, args, depth)
	}
	if b, ok := e.builtins[name]; ok {
		return b(args), nil
	}
	return 0, fmt.Errorf("undefined function %q", name)
}

func (e *Engine) exec(f *ir.Func, args []float64, depth int) (float64, error) {
	if len(args) != f.Arity() {
		return 0, fmt.Errorf("function %q called with %d arguments, want %d",
			f.Name(), len(args), f.Arity())
	}

	regs := make([]float64, f.NumRegs())
	copy(regs, args)

	for _, in := range f.Instrs() {
		switch in.Op {
		case ir.OpConst:
			regs[in.Dst] = in.Imm
		case ir.OpAdd:
			regs[in.Dst] = regs[in.X] + regs[in.Y]
		case ir.OpSub:
			regs[in.Dst] = regs[in.X] - regs[in.Y]
		case ir.OpMul:
			regs[in.Dst] = regs[in.X] * regs[in.Y]
		case ir.OpCmpULT:
			// Unordered-or-less-than: true on NaN operands.
			x, y := regs[in.X], regs[in.Y]
			if x < y || math.IsNaN(x) || math.IsNaN(y) {
				regs[in.Dst] = 1
			} else {
				regs[in.Dst] = 0
			}
		case ir.OpUIToFP:
			regs[in.Dst] = regs[in.X]
		case ir.OpCall:
			callArgs := make([]float64, len(in.Args))
			for i, reg := range in.Args {
				callArgs[i] = regs[reg]
			}
			v, err := e.call(in.Callee.Name(), callArgs, depth+1)
			if err != nil {
				return 0, err
			}
			regs[in.Dst] = v
		case ir.OpRet:
			return regs[in.X], nil
		default:
			return 0, fmt.Errorf("function %q: unsupported instruction", f.Name())
		}
	}
	return 0, fmt.Errorf("function %q: body ended without return", f.Name())
}

func (e *Engine) installBuiltins() {
	e.builtins["putchard"] = func(args []float64) float64 {
		if len(args) > 0 {
			fmt.Fprintf(e.Out, "%c", rune(args[0]))
		}
		return 0
	}
	e.builtins["printd"] = func(args []float64) float64 {
		if len(args) > 0 {
			fmt.Fprintf(e.Out, "%f\n", args[0])
		}
		return 0
	}

	unary := func(fn func(float64) float64) Builtin {
		return func(args []float64) float64 {
			if len(args) == 0 {
				return 0
			}
			return fn(args[0])
		}
	}
	e.builtins["sin"] = unary(math.Sin)
	e.builtins["cos"] = unary(math.Cos)
	e.builtins["sqrt"] = unary(math.Sqrt)
	e.builtins["fabs"] = unary(math.Abs)
	e.builtins["exp"] = unary(math.Exp)
	e.builtins["log"] = unary(math.Log)
	e.builtins["floor"] = unary(math.Floor)
	e.builtins["pow"] = func(args []float64) float64 {
		if len(args) < 2 {
			return 0
		}
		return math.Pow(args[0], args[1])
	}
}

// EvaluateString runs kale source through the session.
func EvaluateString(s *Session, src string) error {
	return s.Run(src)
}

// EvaluateReader consumes all source from the reader and runs it.
func EvaluateReader(s *Session, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return s.Run(string(data))
}

// EvaluateFile loads and runs a kale script. A #! shebang line needs no
// special handling: '#' starts a line comment.
func EvaluateFile(s *Session, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.Run(string(data))
}
