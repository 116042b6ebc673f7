package parser

// Parser owns the current-token cursor over one input source. All parse
// methods are predictive: they branch on the current token only and never
// backtrack.
type Parser struct {
	lx   *lexer
	curr Token
	prec *Precedence
}

// New creates a Parser over src using the supplied precedence table and
// primes the current-token cursor. A non-nil error reports a malformed
// leading token; the parser remains usable, with the bad input already
// consumed, so a single Advance resynchronises.
func New(src string, prec *Precedence) (*Parser, error) {
	if prec == nil {
		prec = DefaultPrecedence()
	}
	p := &Parser{
		lx:   newLexer(src),
		prec: prec,
	}
	return p, p.Advance()
}

// Current returns the token the parser is looking at.
func (p *Parser) Current() Token {
	return p.curr
}

// Advance pulls the next token into the cursor. On a lex error the cursor
// holds a TokenIllegal placeholder and the error is returned; the
// offending input has been consumed either way, so repeated calls always
// make progress toward TokenEOF.
func (p *Parser) Advance() error {
	tok, err := p.lx.nextToken()
	p.curr = tok
	return err
}

func (p *Parser) isChar(c rune) bool {
	return p.curr.Type == TokenChar && p.curr.Char == c
}

// errorf builds a parse error at the current token. Errors raised at end
// of input are marked incomplete so an interactive caller can keep
// buffering lines instead of reporting them.
func (p *Parser) errorf(format string, args ...interface{}) error {
	if p.curr.Type == TokenEOF {
		return incompleteErrorf(p.curr.Pos, format, args...)
	}
	return parseErrorf(p.curr.Pos, format, args...)
}

// tokPrecedence reports the binding strength of the current token, or
// NotAnOperator when it cannot start a binary-operator tail.
func (p *Parser) tokPrecedence() int {
	if p.curr.Type != TokenChar {
		return NotAnOperator
	}
	return p.prec.Lookup(p.curr.Char)
}

// ParseDefinition parses "def prototype expression".
func (p *Parser) ParseDefinition() (*Function, error) {
	defTok := p.curr
	if err := p.Advance(); err != nil { // consume "def"
		return nil, err
	}
	proto, err := p.parsePrototype()
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &Function{
		Proto: proto,
		Body:  body,
		Posn:  defTok.Pos,
	}, nil
}

// ParseExtern parses "extern prototype".
func (p *Parser) ParseExtern() (*Prototype, error) {
	if err := p.Advance(); err != nil { // consume "extern"
		return nil, err
	}
	return p.parsePrototype()
}

// ParseTopLevelExpr parses a bare expression and wraps it in an anonymous
// zero-argument function so it can be compiled like any other definition.
func (p *Parser) ParseTopLevelExpr() (*Function, error) {
	start := p.curr.Pos
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &Function{
		Proto: &Prototype{
			Name: AnonName,
			Posn: start,
		},
		Body: body,
		Posn: start,
	}, nil
}

func (p *Parser) parseExpression() (Expr, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parseBinOpRHS(0, lhs)
}

// parseBinOpRHS is the precedence-climbing loop. It absorbs operator/
// primary pairs into lhs as long as the pending operator binds at least as
// tightly as minPrec. A following operator that binds strictly tighter is
// folded into the right operand first, which keeps equal-precedence chains
// left-associative.
func (p *Parser) parseBinOpRHS(minPrec int, lhs Expr) (Expr, error) {
	for {
		prec := p.tokPrecedence()
		if prec < minPrec {
			return lhs, nil
		}

		op := p.curr.Char
		opPos := p.curr.Pos
		if err := p.Advance(); err != nil {
			return nil, err
		}

		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		if next := p.tokPrecedence(); prec < next {
			rhs, err = p.parseBinOpRHS(prec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &BinaryExpr{
			Op:    op,
			Left:  lhs,
			Right: rhs,
			Posn:  opPos,
		}
	}
}

func (p *Parser) parsePrimary() (Expr, error) {
	switch p.curr.Type {
	case TokenIdentifier:
		return p.parseIdentifierExpr()
	case TokenNumber:
		tok := p.curr
		if err := p.Advance(); err != nil {
			return nil, err
		}
		return &NumberExpr{
			Value: tok.Number,
			Posn:  tok.Pos,
		}, nil
	case TokenChar:
		if p.curr.Char == '(' {
			return p.parseParenExpr()
		}
	}
	return nil, p.errorf("unknown token when expecting an expression")
}

// parseIdentifierExpr distinguishes a bare variable reference from a call
// by looking at the token after the identifier.
func (p *Parser) parseIdentifierExpr() (Expr, error) {
	tok := p.curr
	if err := p.Advance(); err != nil {
		return nil, err
	}

	if !p.isChar('(') {
		return &VariableExpr{
			Name: tok.Text,
			Posn: tok.Pos,
		}, nil
	}
	if err := p.Advance(); err != nil { // consume '('
		return nil, err
	}

	var args []Expr
	if !p.isChar(')') {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.isChar(')') {
				break
			}
			if !p.isChar(',') {
				return nil, p.errorf("expected ')' or ',' in argument list")
			}
			if err := p.Advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.Advance(); err != nil { // consume ')'
		return nil, err
	}

	return &CallExpr{
		Callee: tok.Text,
		Args:   args,
		Posn:   tok.Pos,
	}, nil
}

func (p *Parser) parseParenExpr() (Expr, error) {
	if err := p.Advance(); err != nil { // consume '('
		return nil, err
	}
	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.isChar(')') {
		return nil, p.errorf("expected ')'")
	}
	if err := p.Advance(); err != nil {
		return nil, err
	}
	return inner, nil
}

// parsePrototype parses "name '(' identifier* ')'" with space-separated
// parameter names. Duplicate parameter names are rejected here so the
// lowering scope never has to shadow one formal with another.
func (p *Parser) parsePrototype() (*Prototype, error) {
	if p.curr.Type != TokenIdentifier {
		return nil, p.errorf("expected function name in prototype")
	}
	nameTok := p.curr
	if err := p.Advance(); err != nil {
		return nil, err
	}

	if !p.isChar('(') {
		return nil, p.errorf("expected '(' in prototype")
	}
	if err := p.Advance(); err != nil {
		return nil, err
	}

	var params []string
	seen := make(map[string]bool)
	for p.curr.Type == TokenIdentifier {
		name := p.curr.Text
		if seen[name] {
			return nil, parseErrorf(p.curr.Pos, "duplicate parameter name %q in prototype", name)
		}
		seen[name] = true
		params = append(params, name)
		if err := p.Advance(); err != nil {
			return nil, err
		}
	}

	if !p.isChar(')') {
		return nil, p.errorf("expected ')' in prototype")
	}
	if err := p.Advance(); err != nil {
		return nil, err
	}

	return &Prototype{
		Name:   nameTok.Text,
		Params: params,
		Posn:   nameTok.Pos,
	}, nil
}
