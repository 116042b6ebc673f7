package runtime

import (
	"fmt"
	"io"
	"os"

	"github.com/sergev/kale/ir"
	"github.com/sergev/kale/parser"
)

// Session drives the read, parse, lower, execute loop over one input
// stream. Each complete top-level form compiles into its own unit; a
// malformed form costs a single diagnostic and a single-token resync, so
// one bad form never takes the session down.
type Session struct {
	// Precedence is the binary-operator table shared with the parser.
	Precedence *parser.Precedence
	// Out receives evaluation results and the IR echo.
	Out io.Writer
	// Diag receives diagnostics, one line per failed form.
	Diag io.Writer
	// EchoIR enables printing the IR of each compiled def and extern.
	EchoIR bool
	// Engine executes finalized units.
	Engine *Engine

	comp    *parser.Compiler
	pending string
	unitSeq int
	errs    int
}

// NewSession creates a session with default wiring: results to stdout,
// diagnostics to stderr, default operator precedences.
func NewSession() *Session {
	return &Session{
		Precedence: parser.DefaultPrecedence(),
		Out:        os.Stdout,
		Diag:       os.Stderr,
		Engine:     NewEngine(),
		comp:       parser.NewCompiler(),
	}
}

// ErrorCount reports how many diagnostics the session has emitted.
func (s *Session) ErrorCount() int {
	return s.errs
}

// Pending returns buffered input still waiting for more lines.
func (s *Session) Pending() string {
	return s.pending
}

// Run consumes src to the end, treating truncated trailing forms as plain
// errors. Diagnostics are printed, not returned.
func (s *Session) Run(src string) error {
	s.pending += src
	s.process(true)
	return nil
}

// Feed appends a chunk of interactive input. It processes every complete
// form and reports true when the tail of the input is an unfinished form
// that needs more lines.
func (s *Session) Feed(chunk string) bool {
	s.pending += chunk
	return s.process(false)
}

// Finish flushes buffered input at end of session, diagnosing any
// unfinished form instead of waiting for more.
func (s *Session) Finish() {
	if s.pending != "" {
		s.process(true)
	}
}

// Discard drops buffered input, abandoning an unfinished form without a
// diagnostic. Used when the interactive user aborts a continuation line.
func (s *Session) Discard() {
	s.pending = ""
}

// process runs the top-level driver over the pending buffer. In soft mode
// an incomplete form stops processing and stays buffered; in hard mode it
// is diagnosed like any other failure. Recovery from a failed form is
// exactly one token of resync.
func (s *Session) process(hard bool) bool {
	src := s.pending
	p, err := parser.New(src, s.Precedence)
	if err != nil {
		s.report(err)
		_ = p.Advance()
	}

	for {
		tok := p.Current()
		switch {
		case tok.Type == parser.TokenEOF:
			s.pending = ""
			return false
		case tok.Type == parser.TokenChar && tok.Char == ';':
			// Form terminator, ignorable between forms.
			_ = p.Advance()
			continue
		}

		formStart := tok.Pos.Offset
		var formErr error
		switch tok.Type {
		case parser.TokenDef:
			formErr = s.handleDefinition(p)
		case parser.TokenExtern:
			formErr = s.handleExtern(p)
		default:
			formErr = s.handleExpression(p)
		}
		if formErr == nil {
			continue
		}
		if !hard && parser.IsIncomplete(formErr) {
			s.pending = src[formStart:]
			return true
		}
		s.report(formErr)
		_ = p.Advance()
	}
}

func (s *Session) handleDefinition(p *parser.Parser) error {
	fn, err := p.ParseDefinition()
	if err != nil {
		return err
	}
	unit := s.newUnit()
	f, err := s.comp.CompileFunction(unit, fn)
	if err != nil {
		s.report(err)
		return nil // parse consumed the form; no resync needed
	}
	if s.EchoIR {
		fmt.Fprintf(s.Out, "Read function definition:\n%s", f)
	}
	s.Engine.AddUnit(unit)
	return nil
}

func (s *Session) handleExtern(p *parser.Parser) error {
	proto, err := p.ParseExtern()
	if err != nil {
		return err
	}
	unit := s.newUnit()
	f := s.comp.CompileExtern(unit, proto)
	if s.EchoIR {
		fmt.Fprintf(s.Out, "Read extern:\n%s", f)
	}
	s.Engine.AddUnit(unit)
	return nil
}

// handleExpression compiles a bare expression into an anonymous function,
// evaluates it immediately, and discards the unit afterwards, mirroring
// the add-evaluate-remove lifecycle of a throwaway JIT module.
func (s *Session) handleExpression(p *parser.Parser) error {
	fn, err := p.ParseTopLevelExpr()
	if err != nil {
		return err
	}
	unit := s.newUnit()
	if _, err := s.comp.CompileFunction(unit, fn); err != nil {
		s.report(err)
		return nil
	}
	s.Engine.AddUnit(unit)
	defer s.Engine.Remove(parser.AnonName)

	v, err := s.Engine.Call(parser.AnonName)
	if err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintf(s.Out, "Evaluated to %g\n", v)
	return nil
}

func (s *Session) newUnit() *ir.Unit {
	s.unitSeq++
	return ir.NewUnit(fmt.Sprintf("unit%d", s.unitSeq))
}

func (s *Session) report(err error) {
	s.errs++
	fmt.Fprintf(s.Diag, "error: %v\n", err)
}
