package ir

import (
	"strings"
	"testing"
)

func TestDeclareIsIdempotent(t *testing.T) {
	unit := NewUnit("test")
	f := unit.Declare("f", []string{"x"})
	g := unit.Declare("f", []string{"x"})
	if f != g {
		t.Error("redeclaring a name must return the existing handle")
	}
	if f.HasBody() {
		t.Error("a fresh declaration has no body")
	}
	if got := len(unit.Funcs()); got != 1 {
		t.Errorf("unit holds %d functions, want 1", got)
	}
}

func TestBuildAndVerify(t *testing.T) {
	unit := NewUnit("test")
	f := unit.Declare("add1", []string{"x"})
	b := f.OpenBody()
	one := b.Const(1)
	sum := b.Add(b.Param(0), one)
	b.Return(sum)

	if err := f.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !f.HasBody() {
		t.Error("HasBody after OpenBody")
	}
	if got := f.NumRegs(); got != 3 {
		t.Errorf("NumRegs = %d, want 3", got)
	}
}

func TestVerifyMissingReturn(t *testing.T) {
	unit := NewUnit("test")
	f := unit.Declare("f", nil)
	b := f.OpenBody()
	b.Const(1)

	err := f.Verify()
	if err == nil {
		t.Fatal("expected verify error")
	}
	if !strings.Contains(err.Error(), "missing return") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVerifyDeclarationIsSound(t *testing.T) {
	unit := NewUnit("test")
	f := unit.Declare("ext", []string{"a", "b"})
	if err := f.Verify(); err != nil {
		t.Errorf("Verify of declaration: %v", err)
	}
}

func TestOpenBodyDiscardsPreviousBody(t *testing.T) {
	unit := NewUnit("test")
	f := unit.Declare("f", nil)
	b := f.OpenBody()
	b.Return(b.Const(1))

	b = f.OpenBody()
	b.Return(b.Const(2))

	if err := f.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got := len(f.Instrs()); got != 2 {
		t.Errorf("body has %d instructions, want 2", got)
	}
}

func TestRemove(t *testing.T) {
	unit := NewUnit("test")
	f := unit.Declare("f", nil)
	unit.Declare("g", nil)

	unit.Remove(f)
	if unit.Func("f") != nil {
		t.Error("removed function still resolvable")
	}
	if unit.Func("g") == nil {
		t.Error("unrelated function removed")
	}
	if got := len(unit.Funcs()); got != 1 {
		t.Errorf("unit holds %d functions, want 1", got)
	}

	// Removing twice is a no-op.
	unit.Remove(f)
}

func TestCrossFunctionValuePanics(t *testing.T) {
	unit := NewUnit("test")
	f := unit.Declare("f", []string{"x"})
	g := unit.Declare("g", []string{"y"})
	fb := f.OpenBody()
	gb := g.OpenBody()
	defer func() {
		if recover() == nil {
			t.Error("expected panic on cross-function operand")
		}
	}()
	gb.Add(fb.Param(0), gb.Param(0))
}

func TestDump(t *testing.T) {
	unit := NewUnit("test")
	ext := unit.Declare("sin", []string{"x"})
	f := unit.Declare("twice", []string{"a"})
	b := f.OpenBody()
	b.Return(b.Call(ext, []Value{b.Param(0)}))

	dump := unit.String()
	for _, want := range []string{
		"declare double @sin(double %x)",
		"define double @twice(double %a) {",
		"%1 = call @sin(%a)",
		"ret %1",
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump missing %q:\n%s", want, dump)
		}
	}
}
