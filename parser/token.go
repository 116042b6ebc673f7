package parser

// TokenType enumerates lexical categories recognised by the kale tokenizer.
type TokenType int

const (
	// TokenIllegal marks input the tokenizer could not turn into a value,
	// currently only malformed number literals.
	TokenIllegal TokenType = iota
	TokenEOF

	// Keywords
	TokenDef
	TokenExtern

	TokenIdentifier
	TokenNumber

	// TokenChar is any other single character: operators and punctuation.
	TokenChar
)

func (tt TokenType) String() string {
	switch tt {
	case TokenIllegal:
		return "illegal"
	case TokenEOF:
		return "EOF"
	case TokenDef:
		return "def"
	case TokenExtern:
		return "extern"
	case TokenIdentifier:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenChar:
		return "character"
	default:
		return "unknown"
	}
}

// Token is a single lexical unit produced by the tokenizer.
type Token struct {
	Type   TokenType
	Text   string  // identifier name, or raw lexeme of an illegal token
	Number float64 // decoded value of a number literal
	Char   rune    // the character of a TokenChar token
	Pos    Position
}

// String renders the token the way diagnostics quote it.
func (t Token) String() string {
	switch t.Type {
	case TokenIdentifier:
		return "identifier " + t.Text
	case TokenIllegal:
		return "illegal token " + t.Text
	case TokenChar:
		return "'" + string(t.Char) + "'"
	default:
		return t.Type.String()
	}
}
