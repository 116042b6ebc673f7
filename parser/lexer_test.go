package parser

import (
	"strings"
	"testing"
)

func lexAllTokens(t *testing.T, src string) []Token {
	t.Helper()
	lx := newLexer(src)
	var tokens []Token
	for {
		tok, err := lx.nextToken()
		if err != nil {
			t.Fatalf("unexpected lexer error after %d tokens: %v", len(tokens), err)
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return tokens
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	src := "def extern foo bar123 aB"
	tokens := lexAllTokens(t, src)
	tokens = tokens[:len(tokens)-1] // drop EOF

	want := []struct {
		typ  TokenType
		text string
	}{
		{TokenDef, ""},
		{TokenExtern, ""},
		{TokenIdentifier, "foo"},
		{TokenIdentifier, "bar123"},
		{TokenIdentifier, "aB"},
	}

	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, tt := range want {
		tok := tokens[i]
		if tok.Type != tt.typ {
			t.Errorf("token %d: expected type %v, got %v", i, tt.typ, tok.Type)
		}
		if tok.Text != tt.text {
			t.Errorf("token %d: expected text %q, got %q", i, tt.text, tok.Text)
		}
	}
}

func TestLexerNumberLiterals(t *testing.T) {
	src := "0 123 3.14 .5 10."
	tokens := lexAllTokens(t, src)
	tokens = tokens[:len(tokens)-1]

	wantValues := []float64{0, 123, 3.14, 0.5, 10}

	if len(tokens) != len(wantValues) {
		t.Fatalf("expected %d tokens, got %d", len(wantValues), len(tokens))
	}
	for i, value := range wantValues {
		tok := tokens[i]
		if tok.Type != TokenNumber {
			t.Errorf("token %d: expected number type, got %v", i, tok.Type)
		}
		if tok.Number != value {
			t.Errorf("token %d: expected value %v, got %v", i, value, tok.Number)
		}
	}
}

func TestLexerCharTokens(t *testing.T) {
	src := "(),;+-*<"
	tokens := lexAllTokens(t, src)
	tokens = tokens[:len(tokens)-1]

	want := []rune{'(', ')', ',', ';', '+', '-', '*', '<'}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, c := range want {
		tok := tokens[i]
		if tok.Type != TokenChar {
			t.Errorf("token %d: expected char type, got %v", i, tok.Type)
		}
		if tok.Char != c {
			t.Errorf("token %d: expected char %q, got %q", i, c, tok.Char)
		}
	}
}

func TestLexerCommentsAreTransparent(t *testing.T) {
	src := "# leading comment\n42 # trailing\n# only a comment"
	tokens := lexAllTokens(t, src)

	if len(tokens) != 2 {
		t.Fatalf("expected number and EOF, got %d tokens", len(tokens))
	}
	if tokens[0].Type != TokenNumber || tokens[0].Number != 42 {
		t.Errorf("expected number 42, got %v", tokens[0])
	}
	if tokens[1].Type != TokenEOF {
		t.Errorf("expected EOF, got %v", tokens[1])
	}

	tokens = lexAllTokens(t, "# nothing here")
	if len(tokens) != 1 || tokens[0].Type != TokenEOF {
		t.Fatalf("comment-only input should lex to just EOF, got %v", tokens)
	}
}

func TestLexerMalformedNumber(t *testing.T) {
	lx := newLexer("1.2.3")
	tok, err := lx.nextToken()
	if err == nil {
		t.Fatal("expected error for malformed number literal")
	}
	if !strings.Contains(err.Error(), "malformed number literal") {
		t.Errorf("unexpected error message: %v", err)
	}
	if kind, ok := KindOf(err); !ok || kind != ErrLex {
		t.Errorf("expected lex error kind, got %v (classified=%v)", kind, ok)
	}
	if IsIncomplete(err) {
		t.Error("malformed number must not read as incomplete input")
	}
	if tok.Type != TokenIllegal || tok.Text != "1.2.3" {
		t.Errorf("expected illegal token carrying the lexeme, got %v", tok)
	}

	// The bad run is consumed; the stream continues normally.
	tok, err = lx.nextToken()
	if err != nil {
		t.Fatalf("unexpected error after malformed number: %v", err)
	}
	if tok.Type != TokenEOF {
		t.Errorf("expected EOF after malformed number, got %v", tok)
	}
}

func TestLexerEOFIsSticky(t *testing.T) {
	lx := newLexer("x")
	if tok := mustNextToken(t, lx); tok.Type != TokenIdentifier {
		t.Fatalf("expected identifier, got %v", tok)
	}
	for i := 0; i < 3; i++ {
		if tok := mustNextToken(t, lx); tok.Type != TokenEOF {
			t.Fatalf("call %d after exhaustion: expected EOF, got %v", i, tok)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	tokens := lexAllTokens(t, "a\nbb")
	if got := tokens[0].Pos; got.Line != 1 || got.Column != 1 {
		t.Errorf("first token position = %d:%d, want 1:1", got.Line, got.Column)
	}
	if got := tokens[1].Pos; got.Line != 2 || got.Column != 1 {
		t.Errorf("second token position = %d:%d, want 2:1", got.Line, got.Column)
	}
}

func mustNextToken(t *testing.T, lx *lexer) Token {
	t.Helper()
	tok, err := lx.nextToken()
	if err != nil {
		t.Fatalf("unexpected lexer error: %v", err)
	}
	return tok
}
