package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	src    string
	pos    int
	line   int
	column int
}

func newLexer(src string) *lexer {
	return &lexer{
		src:    src,
		line:   1,
		column: 1,
	}
}

type runeState struct {
	pos    int
	line   int
	column int
}

func (lx *lexer) mark() runeState {
	return runeState{
		pos:    lx.pos,
		line:   lx.line,
		column: lx.column,
	}
}

func (lx *lexer) atEOF() bool {
	return lx.pos >= len(lx.src)
}

// readRune consumes one rune. An invalid UTF-8 byte is consumed as
// utf8.RuneError so the tokenizer itself never fails on raw bytes.
func (lx *lexer) readRune() (rune, runeState, bool) {
	if lx.atEOF() {
		return 0, lx.mark(), false
	}
	state := lx.mark()
	r, w := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.pos += w
	if r == '\n' {
		lx.line++
		lx.column = 1
	} else {
		lx.column++
	}
	return r, state, true
}

func (lx *lexer) unread(state runeState) {
	lx.pos = state.pos
	lx.line = state.line
	lx.column = state.column
}

// skipBlanks discards whitespace and '#' line comments. Comments are fully
// transparent: the next token after one is whatever follows the newline.
func (lx *lexer) skipBlanks() {
	for {
		r, state, ok := lx.readRune()
		if !ok {
			return
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '#':
			lx.skipLine()
			continue
		default:
			lx.unread(state)
			return
		}
	}
}

func (lx *lexer) skipLine() {
	for {
		r, _, ok := lx.readRune()
		if !ok || r == '\n' {
			return
		}
	}
}

// nextToken produces the next token. The only error it can report is a
// malformed number literal; the offending run is consumed either way, so a
// caller that keeps asking always reaches TokenEOF.
func (lx *lexer) nextToken() (Token, error) {
	lx.skipBlanks()

	start := lx.mark()
	r, _, ok := lx.readRune()
	if !ok {
		return Token{
			Type: TokenEOF,
			Pos:  positionFromState(start),
		}, nil
	}

	switch {
	case unicode.IsLetter(r):
		lexeme := lx.scanIdentifier(r)
		return makeIdentifierToken(lexeme, start), nil
	case unicode.IsDigit(r) || r == '.':
		return lx.scanNumber(r, start)
	}

	return Token{
		Type: TokenChar,
		Char: r,
		Pos:  positionFromState(start),
	}, nil
}

func isIdentifierPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (lx *lexer) scanIdentifier(initial rune) string {
	var builder strings.Builder
	builder.WriteRune(initial)
	for {
		r, state, ok := lx.readRune()
		if !ok {
			break
		}
		if !isIdentifierPart(r) {
			lx.unread(state)
			break
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// scanNumber consumes a maximal run of digits and dots. A run the float
// parser rejects, such as "1.2.3", is reported as a lex error carried by a
// TokenIllegal token rather than being silently truncated.
func (lx *lexer) scanNumber(initial rune, start runeState) (Token, error) {
	var builder strings.Builder
	builder.WriteRune(initial)
	for {
		r, state, ok := lx.readRune()
		if !ok {
			break
		}
		if !unicode.IsDigit(r) && r != '.' {
			lx.unread(state)
			break
		}
		builder.WriteRune(r)
	}

	lexeme := builder.String()
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		pos := positionFromState(start)
		return Token{
			Type: TokenIllegal,
			Text: lexeme,
			Pos:  pos,
		}, lexErrorf(pos, "malformed number literal %q", lexeme)
	}
	return Token{
		Type:   TokenNumber,
		Number: value,
		Pos:    positionFromState(start),
	}, nil
}

func makeIdentifierToken(lexeme string, start runeState) Token {
	switch lexeme {
	case "def":
		return Token{
			Type: TokenDef,
			Pos:  positionFromState(start),
		}
	case "extern":
		return Token{
			Type: TokenExtern,
			Pos:  positionFromState(start),
		}
	}
	return Token{
		Type: TokenIdentifier,
		Text: lexeme,
		Pos:  positionFromState(start),
	}
}

func positionFromState(state runeState) Position {
	return Position{
		Offset: state.pos,
		Line:   state.line,
		Column: state.column,
	}
}
