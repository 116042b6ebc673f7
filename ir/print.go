package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// String dumps every function in the unit in declaration order.
func (u *Unit) String() string {
	var sb strings.Builder
	for i, f := range u.order {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(f.String())
	}
	return sb.String()
}

// String renders a function in an LLVM-flavoured textual form. Parameters
// print by name, temporaries by register number.
func (f *Func) String() string {
	var sb strings.Builder
	if !f.hasBody {
		fmt.Fprintf(&sb, "declare double @%s(%s)\n", f.name, f.paramList())
		return sb.String()
	}
	fmt.Fprintf(&sb, "define double @%s(%s) {\n", f.name, f.paramList())
	for _, in := range f.instrs {
		sb.WriteString("  ")
		sb.WriteString(f.formatInstr(in))
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n")
	return sb.String()
}

func (f *Func) paramList() string {
	parts := make([]string, len(f.params))
	for i, name := range f.params {
		parts[i] = "double %" + name
	}
	return strings.Join(parts, ", ")
}

func (f *Func) regName(reg int) string {
	if reg >= 0 && reg < len(f.params) {
		return "%" + f.params[reg]
	}
	return "%" + strconv.Itoa(reg)
}

func (f *Func) formatInstr(in Instr) string {
	switch in.Op {
	case OpConst:
		return fmt.Sprintf("%s = fconst %s", f.regName(in.Dst), formatFloat(in.Imm))
	case OpAdd:
		return fmt.Sprintf("%s = fadd %s, %s", f.regName(in.Dst), f.regName(in.X), f.regName(in.Y))
	case OpSub:
		return fmt.Sprintf("%s = fsub %s, %s", f.regName(in.Dst), f.regName(in.X), f.regName(in.Y))
	case OpMul:
		return fmt.Sprintf("%s = fmul %s, %s", f.regName(in.Dst), f.regName(in.X), f.regName(in.Y))
	case OpCmpULT:
		return fmt.Sprintf("%s = fcmp ult %s, %s", f.regName(in.Dst), f.regName(in.X), f.regName(in.Y))
	case OpUIToFP:
		return fmt.Sprintf("%s = uitofp %s", f.regName(in.Dst), f.regName(in.X))
	case OpCall:
		args := make([]string, len(in.Args))
		for i, reg := range in.Args {
			args[i] = f.regName(reg)
		}
		return fmt.Sprintf("%s = call @%s(%s)", f.regName(in.Dst), in.Callee.name, strings.Join(args, ", "))
	case OpRet:
		return fmt.Sprintf("ret %s", f.regName(in.X))
	default:
		return fmt.Sprintf("op?%d", in.Op)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
